package handlers

import (
	"context"
	"net/http"
	"time"
)

// HealthChecker validates system health
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// Health handles GET /health
func (h *Handler) Health(checker HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pingCtx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.PingContext(pingCtx); err != nil {
			h.logger.Error("health check failed: database unreachable", "error", err)
			h.respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
			return
		}

		h.respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	}
}
