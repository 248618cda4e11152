package server

import (
	"encoding/json"
	"net/http"
	"time"
)

// HealthStatus represents operational status for the /health endpoint.
type HealthStatus struct {
	Status      string                 `json:"status"`
	Timestamp   time.Time              `json:"timestamp"`
	Database    string                 `json:"database"`
	Environment string                 `json:"environment"`
	Details     map[string]interface{} `json:"details,omitempty"`
}

// handleHealthCheck returns basic liveness + dependency checks.
func (as *AdminServer) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	health := &HealthStatus{
		Status:      "healthy",
		Timestamp:   time.Now(),
		Database:    "ok",
		Environment: string(as.envManager.Current()),
		Details:     make(map[string]interface{}),
	}

	// Check local state store connectivity
	if err := as.checkDatabaseHealth(); err != nil {
		health.Status = "unhealthy"
		health.Database = "error"
		health.Details["database_error"] = err.Error()
	}

	if as.ngrokService != nil {
		if url := as.ngrokService.GetPublicURL(); url != "" {
			health.Details["public_url"] = url
		}
	}

	if health.Status == "unhealthy" {
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	json.NewEncoder(w).Encode(health)
}

// checkDatabaseHealth performs a trivial query to validate DB access.
func (as *AdminServer) checkDatabaseHealth() error {
	_, _, err := as.db.GetSetting("health_check")
	return err
}
