package server

import (
	"errors"
	"net/http"

	"breathadmin/internal/preview"
	"breathadmin/pkg/models"
)

// handlePreviewState serves and updates the "now previewing" state.
func (as *AdminServer) handlePreviewState(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		as.respondJSON(w, as.previewState.GetState())
	case http.MethodPut:
		var update struct {
			IsPlaying   *bool `json:"isPlaying"`
			CurrentTime *int  `json:"currentTime"`
		}
		if !as.decodeJSONBody(w, r, &update) {
			return
		}
		if update.IsPlaying != nil {
			as.previewState.SetPlaying(*update.IsPlaying)
		}
		if update.CurrentTime != nil {
			as.previewState.UpdateTime(*update.CurrentTime)
		}
		as.respondJSON(w, as.previewState.GetState())
	case http.MethodDelete:
		as.previewState.Clear()
		as.respondJSON(w, map[string]string{"status": "cleared"})
	default:
		as.respondWithError(w, r, http.StatusMethodNotAllowed, "Method not allowed", nil)
	}
}

// handlePreviewStart begins previewing a content item. Items without a
// playable URL are refused.
func (as *AdminServer) handlePreviewStart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		as.respondWithError(w, r, http.StatusMethodNotAllowed, "Method not allowed", nil)
		return
	}

	var item models.ContentItem
	if !as.decodeJSONBody(w, r, &item) {
		return
	}

	if err := as.previewState.Start(item); err != nil {
		if errors.Is(err, preview.ErrNoPreviewURL) {
			as.respondWithError(w, r, http.StatusUnprocessableEntity, "No preview available for this item", nil)
			return
		}
		as.respondWithError(w, r, http.StatusInternalServerError, "Could not start preview", err)
		return
	}

	as.respondJSON(w, as.previewState.GetState())
}
