package server

import (
	"net/http"

	"breathadmin/internal/content"
	"breathadmin/pkg/models"
)

// handleCategories lists the backend's music category records.
func (as *AdminServer) handleCategories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		as.respondWithError(w, r, http.StatusMethodNotAllowed, "Method not allowed", nil)
		return
	}

	categories, err := as.contentSvc.Categories(r.Context())
	if err != nil {
		as.respondWithGatewayError(w, r, err)
		return
	}
	as.respondJSON(w, categories)
}

// handleContent routes /api/content/{category} and
// /api/content/{category}/{id}.
func (as *AdminServer) handleContent(w http.ResponseWriter, r *http.Request) {
	rawCategory := pathSegment(r.URL.Path, "/api/content/", 0)
	category, fieldErr := parseCategory(rawCategory)
	if fieldErr != nil {
		as.respondWithValidationError(w, r, []content.FieldError{*fieldErr})
		return
	}

	id := pathSegment(r.URL.Path, "/api/content/", 1)
	if id == "" {
		switch r.Method {
		case http.MethodGet:
			as.listContent(w, r, category)
		case http.MethodPost:
			as.createContent(w, r, category)
		default:
			as.respondWithError(w, r, http.StatusMethodNotAllowed, "Method not allowed", nil)
		}
		return
	}

	switch r.Method {
	case http.MethodGet:
		as.getContent(w, r, category, id)
	case http.MethodPut:
		as.updateContent(w, r, category, id)
	case http.MethodDelete:
		as.deleteContent(w, r, category, id)
	default:
		as.respondWithError(w, r, http.StatusMethodNotAllowed, "Method not allowed", nil)
	}
}

func (as *AdminServer) listContent(w http.ResponseWriter, r *http.Request, category models.Category) {
	key, dir, fieldErr := parseSortParams(r)
	if fieldErr != nil {
		as.respondWithValidationError(w, r, []content.FieldError{*fieldErr})
		return
	}

	items, err := as.contentSvc.ListItems(r.Context(), category)
	if err != nil {
		as.respondWithGatewayError(w, r, err)
		return
	}
	content.SortItems(items, key, dir)

	as.respondJSON(w, map[string]interface{}{
		"category": category,
		"items":    items,
		"count":    len(items),
	})
}

func (as *AdminServer) createContent(w http.ResponseWriter, r *http.Request, category models.Category) {
	if category == models.CategoryMantras {
		var in content.MantraInput
		if !as.decodeJSONBody(w, r, &in) {
			return
		}
		entry, fieldErrs, err := as.contentSvc.CreateMantra(r.Context(), in)
		if len(fieldErrs) > 0 {
			as.respondWithValidationError(w, r, fieldErrs)
			return
		}
		if err != nil {
			as.respondWithGatewayError(w, r, err)
			return
		}
		as.respondJSONStatus(w, http.StatusCreated, entry)
		return
	}

	var in content.MusicInput
	if !as.decodeJSONBody(w, r, &in) {
		return
	}
	entry, fieldErrs, err := as.contentSvc.CreateMusic(r.Context(), category, in)
	if len(fieldErrs) > 0 {
		as.respondWithValidationError(w, r, fieldErrs)
		return
	}
	if err != nil {
		as.respondWithGatewayError(w, r, err)
		return
	}
	as.respondJSONStatus(w, http.StatusCreated, entry)
}

func (as *AdminServer) getContent(w http.ResponseWriter, r *http.Request, category models.Category, id string) {
	if category == models.CategoryMantras {
		as.respondWithError(w, r, http.StatusNotFound, "Mantra detail lookup is not supported", nil)
		return
	}

	entry, err := as.contentSvc.GetMusic(r.Context(), id)
	if err != nil {
		as.respondWithGatewayError(w, r, err)
		return
	}
	as.respondJSON(w, entry)
}

func (as *AdminServer) updateContent(w http.ResponseWriter, r *http.Request, category models.Category, id string) {
	if category == models.CategoryMantras {
		var in content.MantraInput
		if !as.decodeJSONBody(w, r, &in) {
			return
		}
		entry, fieldErrs, err := as.contentSvc.UpdateMantra(r.Context(), id, in)
		if len(fieldErrs) > 0 {
			as.respondWithValidationError(w, r, fieldErrs)
			return
		}
		if err != nil {
			as.respondWithGatewayError(w, r, err)
			return
		}
		as.respondJSON(w, entry)
		return
	}

	var in content.MusicInput
	if !as.decodeJSONBody(w, r, &in) {
		return
	}
	entry, fieldErrs, err := as.contentSvc.UpdateMusic(r.Context(), category, id, in)
	if len(fieldErrs) > 0 {
		as.respondWithValidationError(w, r, fieldErrs)
		return
	}
	if err != nil {
		as.respondWithGatewayError(w, r, err)
		return
	}
	as.respondJSON(w, entry)
}

func (as *AdminServer) deleteContent(w http.ResponseWriter, r *http.Request, category models.Category, id string) {
	var err error
	if category == models.CategoryMantras {
		err = as.contentSvc.DeleteMantra(r.Context(), id)
	} else {
		err = as.contentSvc.DeleteMusic(r.Context(), id)
	}
	if err != nil {
		as.respondWithGatewayError(w, r, err)
		return
	}
	as.respondJSON(w, map[string]string{"status": "deleted", "id": id})
}
