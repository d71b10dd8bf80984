package handlers

import (
	"net/http"
	"time"

	"github.com/digestiflow/flowsheet/internal/server/response"
)

// Version is reported by the health endpoint; the CLI sets it at startup.
var Version = "dev"

// HandleHealth handles GET /health.
func (h *Handlers) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	data := map[string]any{
		"status":          "healthy",
		"service":         "flowsheet",
		"version":         Version,
		"uptime_seconds":  int(time.Since(h.startTime).Seconds()),
		"editor_sessions": h.hub.SessionCount(),
		"catalog":         h.source != nil,
	}
	if h.cache != nil {
		data["cache"] = h.cache.Stats()
	}
	response.OK(w, data)
}
