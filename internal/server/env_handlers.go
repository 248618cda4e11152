package server

import (
	"net/http"

	"breathadmin/internal/env"
)

// handleEnvironment reads and switches the dev/prod backend environment.
func (as *AdminServer) handleEnvironment(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		as.respondJSON(w, map[string]interface{}{
			"environment":      as.envManager.Current(),
			"contentUrl":       as.envManager.ContentURL(),
			"coursesUrl":       as.envManager.CoursesURL(),
			"notificationsUrl": as.envManager.NotificationsURL(),
		})
	case http.MethodPost:
		var body struct {
			Environment string `json:"environment"`
		}
		if !as.decodeJSONBody(w, r, &body) {
			return
		}

		target := env.Environment(body.Environment)
		if !target.Valid() {
			as.respondWithError(w, r, http.StatusBadRequest, "Environment must be dev or prod", nil)
			return
		}

		if err := as.envManager.Switch(target); err != nil {
			as.respondWithError(w, r, http.StatusInternalServerError, "Could not switch environment", err)
			return
		}

		as.respondJSON(w, map[string]interface{}{
			"environment": as.envManager.Current(),
		})
	default:
		as.respondWithError(w, r, http.StatusMethodNotAllowed, "Method not allowed", nil)
	}
}
