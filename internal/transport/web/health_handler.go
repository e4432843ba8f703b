package web

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/dustin/go-humanize"
)

// HealthResponse represents the response structure for health check endpoints.
type HealthResponse struct {
	Status    string            `json:"status"`           // "ok" or "error"
	Timestamp time.Time         `json:"timestamp"`        // Current server time
	Checks    map[string]string `json:"checks,omitempty"` // Individual store health
	Uptime    string            `json:"uptime,omitempty"`
	StartedAt string            `json:"started,omitempty"` // e.g. "3 hours ago"
}

// HealthCheck handles the /health endpoint.
// It always returns 200 OK while the process serves requests and does not
// touch the stores. Use /readiness for dependency checks.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	started := h.container.StartedAt

	jsonResponse(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(started).Round(time.Second).String(),
		StartedAt: humanize.Time(started),
	})
}

// ReadinessCheck handles the /readiness endpoint.
// It pings both stores and returns 503 Service Unavailable if either fails.
func (h *Handler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]string)
	allHealthy := true

	dbs := h.container.Databases()
	names := make([]string, 0, len(dbs))
	for name := range dbs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		status := h.checkDatabase(r.Context(), name)
		checks[name] = status
		if status != "ok" {
			allHealthy = false
		}
	}

	status := "ok"
	httpStatus := http.StatusOK

	if !allHealthy {
		status = "error"
		httpStatus = http.StatusServiceUnavailable
	}

	jsonResponse(w, httpStatus, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC(),
		Checks:    checks,
	})
}

// checkDatabase runs SELECT 1 against one store.
// Returns "ok" if the store is reachable, "error" otherwise.
func (h *Handler) checkDatabase(ctx context.Context, name string) string {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	conn := h.container.Databases()[name]
	if conn == nil {
		return "error"
	}

	var result int
	if err := conn.QueryRowContext(ctx, "SELECT 1").Scan(&result); err != nil {
		return "error"
	}

	return "ok"
}
