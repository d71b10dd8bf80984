// Package handlers provides the HTTP handlers of the flowsheet API.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/digestiflow/flowsheet/internal/catalog"
	"github.com/digestiflow/flowsheet/internal/server/metrics"
	"github.com/digestiflow/flowsheet/internal/server/response"
	ws "github.com/digestiflow/flowsheet/internal/server/websocket"
	"github.com/digestiflow/flowsheet/pkg/constants"
	"github.com/digestiflow/flowsheet/pkg/errors"
)

// Handlers provides access to all HTTP handlers.
type Handlers struct {
	source    catalog.Source
	cache     *catalog.Cached
	hub       *ws.Hub
	upgrader  websocket.Upgrader
	metrics   *metrics.Metrics
	spare     int
	logger    *zerolog.Logger
	startTime time.Time
}

// New creates a new Handlers instance. source may be nil when no catalog is
// configured; cache may be nil when source is not cached. m may be nil.
func New(
	source catalog.Source,
	cache *catalog.Cached,
	hub *ws.Hub,
	upgrader websocket.Upgrader,
	m *metrics.Metrics,
	spare int,
	logger *zerolog.Logger,
) *Handlers {
	return &Handlers{
		source:    source,
		cache:     cache,
		hub:       hub,
		upgrader:  upgrader,
		metrics:   m,
		spare:     spare,
		logger:    logger,
		startTime: time.Now(),
	}
}

// decode reads a JSON request body into v, answering the request itself on
// failure.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, constants.MaxRequestBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.TooLarge(w, tooLarge.Limit)
			return false
		}
		response.BadRequest(w, "Invalid request body", err.Error())
		return false
	}
	return true
}
