package server

import (
	"net/http"

	"breathadmin/pkg/models"
)

// handleCourses lists scratch courses and saves new or edited ones.
func (as *AdminServer) handleCourses(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		courses, err := as.courseSvc.List(r.Context())
		if err != nil {
			as.respondWithGatewayError(w, r, err)
			return
		}
		as.respondJSON(w, map[string]interface{}{"courses": courses, "count": len(courses)})
	case http.MethodPost, http.MethodPut:
		var course models.Course
		if !as.decodeJSONBody(w, r, &course) {
			return
		}
		saved, err := as.courseSvc.Save(r.Context(), course)
		if err != nil {
			if gatewayStatus := statusOrZero(err); gatewayStatus != 0 {
				as.respondWithGatewayError(w, r, err)
			} else {
				as.respondWithError(w, r, http.StatusBadRequest, err.Error(), err)
			}
			return
		}
		if r.Method == http.MethodPost && course.ServerID == "" {
			as.respondJSONStatus(w, http.StatusCreated, saved)
			return
		}
		as.respondJSON(w, saved)
	default:
		as.respondWithError(w, r, http.StatusMethodNotAllowed, "Method not allowed", nil)
	}
}

// handleCourseOrder persists a drag-reorder.
func (as *AdminServer) handleCourseOrder(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		as.respondWithError(w, r, http.StatusMethodNotAllowed, "Method not allowed", nil)
		return
	}

	var body struct {
		Before []models.Course `json:"before"`
		After  []models.Course `json:"after"`
	}
	if !as.decodeJSONBody(w, r, &body) {
		return
	}
	if len(body.After) == 0 {
		as.respondWithError(w, r, http.StatusBadRequest, "Reordered course list is required", nil)
		return
	}

	courses, err := as.courseSvc.Reorder(r.Context(), body.Before, body.After)
	if err != nil {
		// The pre-drag order comes back so the console can roll back.
		as.respondJSONStatus(w, http.StatusBadGateway, map[string]interface{}{
			"error":   "Could not save course order",
			"courses": courses,
		})
		return
	}
	as.respondJSON(w, map[string]interface{}{"courses": courses})
}

// handleSystemeioCourses lists the importable systeme.io catalog, or one
// course when systemeIoId is given.
func (as *AdminServer) handleSystemeioCourses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		as.respondWithError(w, r, http.StatusMethodNotAllowed, "Method not allowed", nil)
		return
	}

	if id := r.URL.Query().Get("systemeIoId"); id != "" {
		course, err := as.courseSvc.GetBySystemeIoID(r.Context(), id)
		if err != nil {
			as.respondWithGatewayError(w, r, err)
			return
		}
		as.respondJSON(w, course)
		return
	}

	courses, err := as.courseSvc.ListSystemeio(r.Context())
	if err != nil {
		as.respondWithGatewayError(w, r, err)
		return
	}
	as.respondJSON(w, map[string]interface{}{"courses": courses, "count": len(courses)})
}

// handleCourseByID deletes a single scratch course.
func (as *AdminServer) handleCourseByID(w http.ResponseWriter, r *http.Request) {
	id := pathSegment(r.URL.Path, "/api/courses/", 0)
	if id == "" || id == "order" || id == "systemeio" {
		as.respondWithError(w, r, http.StatusNotFound, "Course not found", nil)
		return
	}

	if r.Method != http.MethodDelete {
		as.respondWithError(w, r, http.StatusMethodNotAllowed, "Method not allowed", nil)
		return
	}

	if err := as.courseSvc.Delete(r.Context(), id); err != nil {
		as.respondWithGatewayError(w, r, err)
		return
	}
	as.respondJSON(w, map[string]string{"status": "deleted", "id": id})
}

// handleThemes lists and creates course color themes.
func (as *AdminServer) handleThemes(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		themes, err := as.courseSvc.Themes(r.Context())
		if err != nil {
			as.respondWithGatewayError(w, r, err)
			return
		}
		as.respondJSON(w, map[string]interface{}{"themes": themes})
	case http.MethodPost:
		var theme models.Theme
		if !as.decodeJSONBody(w, r, &theme) {
			return
		}
		theme.ID = ""
		saved, err := as.courseSvc.SaveTheme(r.Context(), theme)
		if err != nil {
			if statusOrZero(err) != 0 {
				as.respondWithGatewayError(w, r, err)
			} else {
				as.respondWithError(w, r, http.StatusBadRequest, err.Error(), err)
			}
			return
		}
		as.respondJSONStatus(w, http.StatusCreated, saved)
	default:
		as.respondWithError(w, r, http.StatusMethodNotAllowed, "Method not allowed", nil)
	}
}

// handleThemeByID updates or deletes one theme.
func (as *AdminServer) handleThemeByID(w http.ResponseWriter, r *http.Request) {
	id := pathSegment(r.URL.Path, "/api/themes/", 0)
	if id == "" {
		as.respondWithError(w, r, http.StatusNotFound, "Theme not found", nil)
		return
	}

	switch r.Method {
	case http.MethodPut:
		var theme models.Theme
		if !as.decodeJSONBody(w, r, &theme) {
			return
		}
		theme.ID = id
		saved, err := as.courseSvc.SaveTheme(r.Context(), theme)
		if err != nil {
			if statusOrZero(err) != 0 {
				as.respondWithGatewayError(w, r, err)
			} else {
				as.respondWithError(w, r, http.StatusBadRequest, err.Error(), err)
			}
			return
		}
		as.respondJSON(w, saved)
	case http.MethodDelete:
		if err := as.courseSvc.DeleteTheme(r.Context(), id); err != nil {
			as.respondWithGatewayError(w, r, err)
			return
		}
		as.respondJSON(w, map[string]string{"status": "deleted", "id": id})
	default:
		as.respondWithError(w, r, http.StatusMethodNotAllowed, "Method not allowed", nil)
	}
}
