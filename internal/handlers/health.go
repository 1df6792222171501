package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/benvon/morning-affirmations/internal/catalog"
)

// Pinger is anything whose reachability can be checked
type Pinger interface {
	HealthCheck(ctx context.Context) error
}

// PingFunc adapts a function to Pinger
type PingFunc func(ctx context.Context) error

// HealthCheck calls f
func (f PingFunc) HealthCheck(ctx context.Context) error { return f(ctx) }

// HealthChecker handles health check requests
type HealthChecker struct {
	db      Pinger
	redis   Pinger
	queue   Pinger
	content catalogSource
	timeout time.Duration
}

type catalogSource interface {
	Snapshot() *catalog.Snapshot
}

// NewHealthChecker creates a health checker for the database only
func NewHealthChecker(db Pinger) *HealthChecker {
	return NewHealthCheckerWithDeps(db, nil, nil, nil)
}

// NewHealthCheckerWithDeps creates a health checker with all dependencies. Nil dependencies
// are reported as "not configured".
func NewHealthCheckerWithDeps(db, redis, queue Pinger, content catalogSource) *HealthChecker {
	return &HealthChecker{db: db, redis: redis, queue: queue, content: content, timeout: 5 * time.Second}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// HealthCheck handles the /healthz endpoint
func (h *HealthChecker) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	statusCode := http.StatusOK
	if r.URL.Query().Get("mode") == "extended" {
		response.Checks = map[string]string{
			"database": h.check(r.Context(), h.db),
			"redis":    h.check(r.Context(), h.redis),
			"rabbitmq": h.check(r.Context(), h.queue),
			"content":  h.checkContent(),
		}
		for _, result := range response.Checks {
			if result != "healthy" && result != "not configured" && result != "degraded" {
				response.Status = "unhealthy"
				statusCode = http.StatusServiceUnavailable
			}
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(response)
}

func (h *HealthChecker) check(ctx context.Context, p Pinger) string {
	if p == nil {
		return "not configured"
	}
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()
	if err := p.HealthCheck(ctx); err != nil {
		// Details stay out of the response
		return "unhealthy"
	}
	return "healthy"
}

// checkContent reports "degraded" when any content file fell back to defaults and
// "unhealthy" when there are no affirmations to serve.
func (h *HealthChecker) checkContent() string {
	if h.content == nil {
		return "not configured"
	}
	snap := h.content.Snapshot()
	switch {
	case snap == nil || len(snap.ActiveAffirmations()) == 0:
		return "unhealthy"
	case snap.HasFallbacks():
		return "degraded"
	default:
		return "healthy"
	}
}
