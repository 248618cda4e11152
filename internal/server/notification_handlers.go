package server

import (
	"net/http"

	"breathadmin/pkg/models"
)

// handleNotificationHistory serves the delivered-campaign history.
func (as *AdminServer) handleNotificationHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		as.respondWithError(w, r, http.StatusMethodNotAllowed, "Method not allowed", nil)
		return
	}

	history, err := as.notifySvc.History(r.Context())
	if err != nil {
		as.respondWithGatewayError(w, r, err)
		return
	}
	as.respondJSON(w, map[string]interface{}{"history": history, "count": len(history)})
}

// handleNotificationSchedule reads and updates the scheduled-campaign
// settings.
func (as *AdminServer) handleNotificationSchedule(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		cfg, err := as.notifySvc.ScheduleConfig(r.Context())
		if err != nil {
			as.respondWithGatewayError(w, r, err)
			return
		}
		as.respondJSON(w, cfg)
	case http.MethodPut:
		var cfg models.NotificationScheduleConfig
		if !as.decodeJSONBody(w, r, &cfg) {
			return
		}
		saved, err := as.notifySvc.UpdateScheduleConfig(r.Context(), cfg)
		if err != nil {
			if statusOrZero(err) != 0 {
				as.respondWithGatewayError(w, r, err)
			} else {
				as.respondWithError(w, r, http.StatusBadRequest, err.Error(), err)
			}
			return
		}
		as.respondJSON(w, saved)
	default:
		as.respondWithError(w, r, http.StatusMethodNotAllowed, "Method not allowed", nil)
	}
}

// handleBreathingCron triggers the breathing-session campaign now.
func (as *AdminServer) handleBreathingCron(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		as.respondWithError(w, r, http.StatusMethodNotAllowed, "Method not allowed", nil)
		return
	}

	force := r.URL.Query().Get("force") == "true"
	if err := as.notifySvc.RunBreathingSessionsCron(r.Context(), force); err != nil {
		as.respondWithGatewayError(w, r, err)
		return
	}
	as.respondJSON(w, map[string]string{"status": "triggered"})
}

// handleCourseRemindersCron triggers the course-reminder campaign now.
func (as *AdminServer) handleCourseRemindersCron(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		as.respondWithError(w, r, http.StatusMethodNotAllowed, "Method not allowed", nil)
		return
	}

	force := r.URL.Query().Get("force") == "true"
	if err := as.notifySvc.RunCourseRemindersCron(r.Context(), force); err != nil {
		as.respondWithGatewayError(w, r, err)
		return
	}
	as.respondJSON(w, map[string]string{"status": "triggered"})
}

// handleLinkOptions serves the deep-link template catalog.
func (as *AdminServer) handleLinkOptions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		as.respondWithError(w, r, http.StatusMethodNotAllowed, "Method not allowed", nil)
		return
	}

	options, err := as.notifySvc.LinkOptions(r.Context())
	if err != nil {
		as.respondWithGatewayError(w, r, err)
		return
	}
	as.respondJSON(w, options)
}

// handleSendBlast validates and submits a new-release campaign.
func (as *AdminServer) handleSendBlast(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		as.respondWithError(w, r, http.StatusMethodNotAllowed, "Method not allowed", nil)
		return
	}

	var blast models.NewReleasesBlastConfig
	if !as.decodeJSONBody(w, r, &blast) {
		return
	}

	summary, err := as.notifySvc.SendBlast(r.Context(), blast)
	if err != nil {
		if statusOrZero(err) != 0 {
			as.respondWithGatewayError(w, r, err)
		} else {
			as.respondWithError(w, r, http.StatusBadRequest, err.Error(), err)
		}
		return
	}
	as.respondJSON(w, map[string]string{"status": "sent", "message": summary})
}
