// Package server provides the HTTP API of flowsheet: stateless endpoints for
// previews, sample sheet conversion and field checks, a catalog passthrough
// and websocket editing sessions.
package server

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/digestiflow/flowsheet/internal/catalog"
	"github.com/digestiflow/flowsheet/internal/server/metrics"
	"github.com/digestiflow/flowsheet/internal/server/middleware"
	ws "github.com/digestiflow/flowsheet/internal/server/websocket"
	"github.com/digestiflow/flowsheet/pkg/logging"
)

// Server holds the HTTP server state and dependencies.
type Server struct {
	source      catalog.Source
	cache       *catalog.Cached
	hub         *ws.Hub
	rateLimiter *middleware.RateLimiter
	metrics     *metrics.Metrics
	upgrader    websocket.Upgrader
	logger      *zerolog.Logger
	config      Config
	ctx         context.Context
	cancel      context.CancelFunc
	hubDone     chan struct{}
	started     atomic.Bool
	startTime   time.Time
}

// New creates a server answering catalog requests from source. source may
// be nil; the catalog endpoints then answer 503. When source is a
// *catalog.Cached its cache can be invalidated through the API.
func New(source catalog.Source, cfg Config, logger *zerolog.Logger) (*Server, error) {
	logger = logging.OrNop(logger)

	if cfg.PathPrefix == "" {
		cfg.PathPrefix = DefaultConfig().PathPrefix
	}

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		var err error
		if m, err = metrics.New(); err != nil {
			return nil, err
		}
	}

	hub := ws.NewHub(logger)
	hub.OnOpen = m.SessionOpened
	hub.OnClose = m.SessionClosed

	ctx, cancel := context.WithCancel(context.Background())

	s := &Server{
		source:  source,
		hub:     hub,
		metrics: m,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin(cfg),
		},
		logger:    logger,
		config:    cfg,
		ctx:       ctx,
		cancel:    cancel,
		hubDone:   make(chan struct{}),
		startTime: time.Now(),
	}
	if cached, ok := source.(*catalog.Cached); ok {
		s.cache = cached
	}
	if cfg.RateLimit > 0 {
		s.rateLimiter = middleware.NewRateLimiter(cfg.RateLimit, logger)
		s.rateLimiter.TrustProxy = cfg.TrustProxy
	}

	logger.Debug().
		Str("prefix", cfg.PathPrefix).
		Bool("metrics", cfg.MetricsEnabled).
		Bool("catalog", source != nil).
		Msg("Server instance created")
	return s, nil
}

// checkOrigin allows same-origin upgrades and, with CORS enabled, the
// configured origins.
func checkOrigin(cfg Config) func(*http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || origin == "http://"+r.Host || origin == "https://"+r.Host {
			return true
		}
		if !cfg.CORSEnabled {
			return false
		}
		return len(cfg.CORSOrigins) == 0 || middleware.OriginAllowed(origin, cfg.CORSOrigins)
	}
}

// Start starts the background services: the session hub and the rate
// limiter sweep.
func (s *Server) Start() {
	if !s.started.CompareAndSwap(false, true) {
		return
	}
	go func() {
		s.hub.Run(s.ctx)
		close(s.hubDone)
	}()
	if s.rateLimiter != nil {
		go s.rateLimiter.Run(s.ctx)
	}
	s.logger.Debug().Msg("Background services started")
}

// Handler returns the configured http.Handler with middleware chain applied.
func (s *Server) Handler() http.Handler {
	return s.setupRouter()
}

// Shutdown stops the background services, closing all editor sessions, and
// waits for the hub to finish or ctx to expire.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Int("sessions", s.hub.SessionCount()).Msg("Shutting down background services")
	s.cancel()
	if !s.started.Load() {
		return nil
	}

	select {
	case <-s.hubDone:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Hub returns the editor session hub.
func (s *Server) Hub() *ws.Hub {
	return s.hub
}

// Metrics returns the server metrics, or nil when they are disabled.
func (s *Server) Metrics() *metrics.Metrics {
	return s.metrics
}

// StartTime returns the server start time for uptime calculations.
func (s *Server) StartTime() time.Time {
	return s.startTime
}
