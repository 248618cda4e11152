package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"breathadmin/internal/content"
	"breathadmin/internal/gateway"
	"breathadmin/pkg/models"

	"github.com/sirupsen/logrus"
)

// ValidationResult contains validation results
type ValidationResult struct {
	Valid  bool                 `json:"valid"`
	Errors []content.FieldError `json:"errors,omitempty"`
}

// respondJSON writes a JSON response body.
func (as *AdminServer) respondJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		as.logger.WithError(err).Error("Failed to encode response")
	}
}

// respondJSONStatus writes a JSON response with a non-200 status. The
// content type must be set before the status line goes out.
func (as *AdminServer) respondJSONStatus(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		as.logger.WithError(err).Error("Failed to encode response")
	}
}

// respondWithValidationError sends a structured validation error response
func (as *AdminServer) respondWithValidationError(w http.ResponseWriter, r *http.Request, errors []content.FieldError) {
	as.logger.WithFields(logrus.Fields{
		"method": r.Method,
		"path":   r.URL.Path,
		"errors": errors,
	}).Warn("Validation failed")

	as.respondJSONStatus(w, http.StatusBadRequest, ValidationResult{Valid: false, Errors: errors})
}

// respondWithError sends a structured error response
func (as *AdminServer) respondWithError(w http.ResponseWriter, r *http.Request, statusCode int, message string, err error) {
	logEntry := as.logger.WithFields(logrus.Fields{
		"method":      r.Method,
		"path":        r.URL.Path,
		"status_code": statusCode,
		"message":     message,
	})

	if err != nil {
		logEntry = logEntry.WithError(err)
	}

	if statusCode >= 500 {
		logEntry.Error("Server error")
	} else {
		logEntry.Warn("Client error")
	}

	as.respondJSONStatus(w, statusCode, map[string]interface{}{
		"error":   message,
		"code":    statusCode,
		"success": false,
	})
}

// respondWithGatewayError maps a backend failure to a response, passing
// the backend's message through where one exists.
func (as *AdminServer) respondWithGatewayError(w http.ResponseWriter, r *http.Request, err error) {
	if statusOrZero(err) != 0 {
		as.respondWithError(w, r, http.StatusBadGateway, err.Error(), err)
		return
	}
	as.respondWithError(w, r, http.StatusBadGateway, "Backend request failed", err)
}

// statusOrZero extracts the backend HTTP status from a possibly wrapped
// gateway error.
func statusOrZero(err error) int {
	var apiErr *gateway.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// parseCategory validates the content category segment of a path.
func parseCategory(raw string) (models.Category, *content.FieldError) {
	category := models.Category(raw)
	for _, known := range models.ContentCategories {
		if category == known {
			return category, nil
		}
	}
	return "", &content.FieldError{
		Field:   "category",
		Message: "Unknown content category",
		Code:    "UNKNOWN_CATEGORY",
	}
}

// parseSortParams reads the optional sort key and direction query params.
func parseSortParams(r *http.Request) (content.SortKey, content.SortDirection, *content.FieldError) {
	key := content.SortKey(r.URL.Query().Get("sort"))
	dir := content.SortDirection(r.URL.Query().Get("dir"))

	switch key {
	case "", content.SortByTitle, content.SortByPlays, content.SortByStatus, content.SortByDate:
	default:
		return "", "", &content.FieldError{
			Field:   "sort",
			Message: "Unknown sort key",
			Code:    "UNKNOWN_SORT_KEY",
		}
	}
	switch dir {
	case "", content.SortAsc, content.SortDesc:
	default:
		return "", "", &content.FieldError{
			Field:   "dir",
			Message: "Sort direction must be asc or desc",
			Code:    "INVALID_SORT_DIRECTION",
		}
	}
	return key, dir, nil
}

// pathSegment returns the path segment at index after trimming the prefix,
// or "" when absent.
func pathSegment(path, prefix string, index int) string {
	rest := strings.TrimPrefix(path, prefix)
	parts := strings.Split(strings.Trim(rest, "/"), "/")
	if index >= len(parts) {
		return ""
	}
	return parts[index]
}

// decodeJSONBody decodes a request body, rejecting unparsable JSON.
func (as *AdminServer) decodeJSONBody(w http.ResponseWriter, r *http.Request, out interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		as.respondWithError(w, r, http.StatusBadRequest, "Invalid JSON body", err)
		return false
	}
	return true
}
