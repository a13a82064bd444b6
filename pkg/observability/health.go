package observability

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// Prober is implemented by anything a health check can reach out to: the
// cache backend (via a reachability probe) and the upstream registry (via a
// lightweight HTTP call).
type Prober interface {
	Probe(ctx context.Context) error
}

// HealthChecker provides liveness/readiness endpoints backed by the cache
// store and upstream registry reachability, rather than the teacher's
// database/Redis checks.
type HealthChecker struct {
	cache    Prober
	upstream Prober
}

// NewHealthChecker creates a new health checker. Either dependency may be
// nil, in which case that check is skipped.
func NewHealthChecker(cache, upstream Prober) *HealthChecker {
	return &HealthChecker{cache: cache, upstream: upstream}
}

// HealthStatus represents the overall health status.
type HealthStatus struct {
	Status       string                      `json:"status"`
	Timestamp    time.Time                   `json:"timestamp"`
	Dependencies map[string]DependencyStatus `json:"dependencies,omitempty"`
}

// DependencyStatus represents the health of a single dependency.
type DependencyStatus struct {
	Status    string        `json:"status"`
	Message   string        `json:"message,omitempty"`
	Latency   int64         `json:"latency_ms,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// Liveness returns a simple liveness probe (always 200 if the process is running).
func (h *HealthChecker) Liveness(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    StatusHealthy,
		"timestamp": time.Now(),
	})
}

// Readiness checks all dependencies and reports overall status.
func (h *HealthChecker) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := h.Check(ctx)

	w.Header().Set("Content-Type", "application/json")
	if status.Status == StatusUnhealthy {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}
	json.NewEncoder(w).Encode(status)
}

// Check performs a comprehensive health check against the cache backend and
// upstream registry.
func (h *HealthChecker) Check(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:       StatusHealthy,
		Timestamp:    time.Now(),
		Dependencies: make(map[string]DependencyStatus),
	}

	if h.cache != nil {
		cacheStatus := probe(ctx, h.cache)
		status.Dependencies["cache"] = cacheStatus
		if cacheStatus.Status == StatusUnhealthy {
			status.Status = StatusUnhealthy
		}
	}

	if h.upstream != nil {
		upstreamStatus := probe(ctx, h.upstream)
		status.Dependencies["upstream"] = upstreamStatus
		if upstreamStatus.Status == StatusUnhealthy && status.Status != StatusUnhealthy {
			// upstream being unreachable still serves cached content, so it
			// degrades the registry rather than taking it down entirely.
			status.Status = StatusDegraded
		}
	}

	return status
}

func probe(ctx context.Context, p Prober) DependencyStatus {
	start := time.Now()
	status := DependencyStatus{Status: StatusHealthy, Timestamp: time.Now()}

	if err := p.Probe(ctx); err != nil {
		status.Status = StatusUnhealthy
		status.Message = err.Error()
	}
	status.Latency = time.Since(start).Milliseconds()
	return status
}

// RegisterHealthRoutes registers health check endpoints.
func RegisterHealthRoutes(mux *http.ServeMux, checker *HealthChecker) {
	mux.HandleFunc("/healthz", checker.Liveness)
	mux.HandleFunc("/readyz", checker.Readiness)
}
