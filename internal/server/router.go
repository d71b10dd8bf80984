package server

import (
	"net/http"

	"github.com/digestiflow/flowsheet/internal/server/handlers"
	"github.com/digestiflow/flowsheet/internal/server/middleware"
	"github.com/digestiflow/flowsheet/internal/server/response"
)

// setupRouter creates the HTTP handler with routes and middleware.
func (s *Server) setupRouter() http.Handler {
	mux := http.NewServeMux()

	h := handlers.New(
		s.source,
		s.cache,
		s.hub,
		s.upgrader,
		s.metrics,
		s.config.SpareRows,
		s.logger,
	)

	s.registerRoutes(mux, h)

	return s.applyMiddleware(mux)
}

// registerRoutes registers all HTTP routes.
func (s *Server) registerRoutes(mux *http.ServeMux, h *handlers.Handlers) {
	prefix := s.config.PathPrefix

	// favicon requests would otherwise show up as 404s in the logs
	mux.HandleFunc("/favicon.ico", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	mux.HandleFunc("GET /health", h.HandleHealth)
	mux.HandleFunc("GET "+prefix+"/health", h.HandleHealth)

	// barcode sets
	mux.HandleFunc("POST "+prefix+"/barcodesets/preview", h.HandlePreview)
	mux.HandleFunc("GET "+prefix+"/barcodesets/{project}", h.HandleBarcodeSets)
	mux.HandleFunc("DELETE "+prefix+"/barcodesets/{project}/cache", h.HandleInvalidate)

	// sample sheets
	mux.HandleFunc("POST "+prefix+"/samplesheet/serialize", h.HandleSerialize)
	mux.HandleFunc("POST "+prefix+"/samplesheet/rows", h.HandleRows)

	// field tools
	mux.HandleFunc("GET "+prefix+"/lanes", h.HandleLanes)
	mux.HandleFunc("POST "+prefix+"/revcomp", h.HandleRevComp)
	mux.HandleFunc("POST "+prefix+"/validate", h.HandleValidate)

	// live editing
	mux.HandleFunc("GET "+prefix+"/editor/ws", h.HandleEditor)

	// documentation
	mux.HandleFunc("GET "+prefix+"/openapi.json", h.HandleOpenAPIJSON)
	mux.HandleFunc("GET "+prefix+"/openapi.yaml", h.HandleOpenAPIYAML)

	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Not found", "No route for "+r.Method+" "+r.URL.Path)
	})
}

// applyMiddleware wraps handler with middleware chain.
func (s *Server) applyMiddleware(handler http.Handler) http.Handler {
	cfg := s.config

	// metrics must see the mux directly to read the matched pattern
	if s.metrics != nil {
		handler = middleware.Metrics(s.metrics)(handler)
	}

	if s.rateLimiter != nil {
		handler = middleware.RateLimit(s.rateLimiter)(handler)
	}

	if cfg.AuthEnabled {
		authConfig := middleware.DefaultAuthConfig()
		authConfig.Enabled = true
		authConfig.APIKey = cfg.APIKey
		authConfig.PublicPaths = append(authConfig.PublicPaths,
			cfg.PathPrefix+"/health",
			cfg.PathPrefix+"/openapi.json",
			cfg.PathPrefix+"/openapi.yaml",
		)
		if cfg.AuthHeader != "" {
			authConfig.HeaderName = cfg.AuthHeader
		}
		handler = middleware.Auth(authConfig, s.logger)(handler)
	}

	if cfg.CORSEnabled {
		corsConfig := middleware.DefaultCORSConfig()
		if len(cfg.CORSOrigins) > 0 {
			corsConfig.AllowedOrigins = cfg.CORSOrigins
		} else {
			corsConfig.AllowAll = true
		}
		handler = middleware.CORS(corsConfig)(handler)
	}

	return middleware.Chain(
		middleware.Recovery(s.logger),
		middleware.Logger(s.logger),
	)(handler)
}
