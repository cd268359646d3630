package handlers

import (
	"context"
	"net/http"
	"time"
)

const healthCheckTimeout = 2 * time.Second

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error

// HealthHandler reports service health.
type HealthHandler struct {
	checks map[string]HealthCheck
}

// NewHealthHandler creates a health handler over named dependency checks.
func NewHealthHandler(checks map[string]HealthCheck) *HealthHandler {
	return &HealthHandler{checks: checks}
}

// Health handles GET /health. Any failing check turns the response into a
// 503 with status DOWN.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	status := "UP"
	components := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			components[name] = "DOWN"
			status = "DOWN"
			continue
		}
		components[name] = "UP"
	}

	code := http.StatusOK
	if status != "UP" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, map[string]any{"status": status, "components": components})
}
