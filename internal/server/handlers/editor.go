package handlers

import (
	"net/http"

	"github.com/google/uuid"

	ws "github.com/digestiflow/flowsheet/internal/server/websocket"
	"github.com/digestiflow/flowsheet/pkg/logging"
)

// HandleEditor handles GET /api/v1/editor/ws. Each connection gets its own
// barcode set session; the first message must be an init request.
func (h *Handlers) HandleEditor(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.FromContext(r.Context()).Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	session := ws.NewSession(uuid.NewString(), h.hub, conn, h.spare)
	session.OnPass = func() { h.metrics.RecordPass("session") }
	if !h.hub.Register(session) {
		_ = conn.Close()
		return
	}

	go session.WritePump()
	go session.ReadPump()
}
