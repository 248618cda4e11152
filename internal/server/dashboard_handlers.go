package server

import (
	"net/http"
)

// handleDashboard serves the aggregated dashboard snapshot.
func (as *AdminServer) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		as.respondWithError(w, r, http.StatusMethodNotAllowed, "Method not allowed", nil)
		return
	}

	data, err := as.dashboardSvc.FetchDashboardData(r.Context())
	if err != nil {
		as.respondWithGatewayError(w, r, err)
		return
	}
	as.respondJSON(w, data)
}
