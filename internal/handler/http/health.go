package http

import (
	"net/http"
	"time"

	"ainews-feed/internal/handler/http/respond"
	"ainews-feed/internal/repository"
)

// HealthResponse represents the JSON response for health check endpoints.
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp string                 `json:"timestamp"`
	Checks    map[string]CheckStatus `json:"checks"`
	Version   string                 `json:"version"`
}

// CheckStatus represents the status of a single health check.
type CheckStatus struct {
	Status  string                 `json:"status"`
	Message string                 `json:"message,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HealthHandler reports the API's health. The store is in-process memory, so
// the check reports occupancy rather than connectivity.
type HealthHandler struct {
	Store   repository.ItemRepository
	Version string
}

// ServeHTTP returns the application health status with store occupancy
// details.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]CheckStatus)

	if h.Store != nil {
		stats := h.Store.Stats()
		checks["store"] = CheckStatus{
			Status: "healthy",
			Details: map[string]interface{}{
				"total_items":            stats.TotalItems,
				"estimated_memory_bytes": stats.EstimatedMemoryBytes,
			},
		}
	} else {
		checks["store"] = CheckStatus{Status: "unhealthy", Message: "not configured"}
	}

	status := "healthy"
	statusCode := http.StatusOK
	if checks["store"].Status == "unhealthy" {
		status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	}

	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	respond.JSON(w, statusCode, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Version:   h.Version,
	})
}

// LiveHandler handles liveness probe requests. It always returns 200 OK when
// the process can respond.
type LiveHandler struct{}

func (h LiveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("alive"))
}
