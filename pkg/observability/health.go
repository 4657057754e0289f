package observability

import (
	"context"
	"net/http"
	"time"

	"github.com/goccy/go-json"
)

// HealthStatus represents the health status of the service
type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
}

// Pinger is anything whose reachability can be probed (pgxpool.Pool, processor client)
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthChecker manages health checks for the service
type HealthChecker struct {
	checks map[string]Pinger
}

// NewHealthChecker creates a HealthChecker; nil dependencies are reported as not configured
func NewHealthChecker(checks map[string]Pinger) *HealthChecker {
	return &HealthChecker{checks: checks}
}

// Check performs health checks and returns the status
func (h *HealthChecker) Check(ctx context.Context) HealthStatus {
	checks := make(map[string]string, len(h.checks))
	overallStatus := "healthy"

	for name, dep := range h.checks {
		if dep == nil {
			checks[name] = "not configured"
			continue
		}

		depCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := dep.Ping(depCtx)
		cancel()

		if err != nil {
			checks[name] = "unhealthy: " + err.Error()
			overallStatus = "unhealthy"
		} else {
			checks[name] = "healthy"
		}
	}

	return HealthStatus{
		Status:    overallStatus,
		Timestamp: time.Now(),
		Checks:    checks,
	}
}

// HealthHandler returns an HTTP handler for health checks
func (h *HealthChecker) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := h.Check(r.Context())

		w.Header().Set("Content-Type", "application/json")
		if status.Status != "healthy" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}

		_ = json.NewEncoder(w).Encode(status)
	}
}
