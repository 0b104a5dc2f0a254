package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/frahmantamala/task-tracker/internal/transport"
)

type HealthStatus string

const (
	HealthHealthy   HealthStatus = "healthy"
	HealthUnhealthy HealthStatus = "unhealthy"
)

type HealthResponse struct {
	Status     HealthStatus          `json:"status"`
	CheckedAt  time.Time             `json:"checked_at"`
	Components map[string]CheckEntry `json:"components"`
}

type CheckEntry struct {
	Status     HealthStatus `json:"status"`
	Message    string       `json:"message,omitempty"`
	CheckedAt  time.Time    `json:"checked_at"`
	DurationMs int64        `json:"duration_ms"`
}

// Pinger is satisfied by database.DB, *sql.DB and cache.Redis.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type component struct {
	name   string
	pinger Pinger
}

type HealthHandler struct {
	*transport.BaseHandler
	components []component
}

// NewHealthHandler checks db under the driver name. More components can be added with WithCheck.
func NewHealthHandler(baseHandler *transport.BaseHandler, db Pinger, driver string) *HealthHandler {
	return &HealthHandler{
		BaseHandler: baseHandler,
		components:  []component{{name: driver, pinger: db}},
	}
}

func (h *HealthHandler) WithCheck(name string, p Pinger) *HealthHandler {
	h.components = append(h.components, component{name: name, pinger: p})
	return h
}

// Ping reports that the process is up without touching the database.
func (h *HealthHandler) Ping(w http.ResponseWriter, _ *http.Request) {
	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

func (h *HealthHandler) check(ctx context.Context, c component) CheckEntry {
	start := time.Now()
	err := c.pinger.PingContext(ctx)

	entry := CheckEntry{
		Status:     HealthHealthy,
		CheckedAt:  time.Now(),
		DurationMs: time.Since(start).Milliseconds(),
	}
	if err != nil {
		entry.Status = HealthUnhealthy
		entry.Message = err.Error()
		h.Logger.Warn("health check failed", "component", c.name, "error", err)
	}
	return entry
}

// Health checks every registered component. One failure makes the whole service unhealthy.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := HealthResponse{
		Status:     HealthHealthy,
		Components: make(map[string]CheckEntry, len(h.components)),
	}
	for _, c := range h.components {
		entry := h.check(ctx, c)
		if entry.Status == HealthUnhealthy {
			resp.Status = HealthUnhealthy
		}
		resp.Components[c.name] = entry
	}
	resp.CheckedAt = time.Now()

	statusCode := http.StatusOK
	if resp.Status == HealthUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}
	h.WriteJSON(w, statusCode, resp)
}
