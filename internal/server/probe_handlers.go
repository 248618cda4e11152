package server

import (
	"net/http"

	"breathadmin/internal/content"
)

// handleStartProbe starts an asynchronous audio duration probe.
func (as *AdminServer) handleStartProbe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		as.respondWithError(w, r, http.StatusMethodNotAllowed, "Method not allowed", nil)
		return
	}

	var body struct {
		URL string `json:"url"`
	}
	if !as.decodeJSONBody(w, r, &body) {
		return
	}

	if !content.IsValidHTTPURL(body.URL) {
		as.respondWithError(w, r, http.StatusBadRequest, "A valid http(s) audio URL is required", nil)
		return
	}

	job := as.prober.Probe(body.URL)
	as.respondJSONStatus(w, http.StatusAccepted, job)
}

// handleProbeStatus reports one probe job by id.
func (as *AdminServer) handleProbeStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		as.respondWithError(w, r, http.StatusMethodNotAllowed, "Method not allowed", nil)
		return
	}

	jobID := pathSegment(r.URL.Path, "/api/probe/", 0)
	if jobID == "" {
		as.respondJSON(w, as.prober.GetJobs())
		return
	}

	job, exists := as.prober.GetJob(jobID)
	if !exists {
		as.respondWithError(w, r, http.StatusNotFound, "Probe job not found", nil)
		return
	}
	as.respondJSON(w, job)
}
