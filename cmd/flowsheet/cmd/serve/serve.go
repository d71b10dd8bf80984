// Package serve implements the serve command: the flowsheet HTTP API with
// live barcode set editing sessions.
package serve

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/digestiflow/flowsheet/cmd/application"
	"github.com/digestiflow/flowsheet/internal/catalog"
	"github.com/digestiflow/flowsheet/internal/server"
	"github.com/digestiflow/flowsheet/internal/server/handlers"
	"github.com/digestiflow/flowsheet/pkg/constants"
	"github.com/digestiflow/flowsheet/pkg/errors"
)

// NewCommand creates the serve command.
func NewCommand(app application.Application) *cobra.Command {
	cfg := app.ServerConfig()
	cmd := &cobra.Command{
		Use:     "serve",
		GroupID: "server",
		Short:   "Serve the flowsheet REST API",
		Long: `Serve starts the flowsheet API server.

Endpoints (under --prefix, default /api/v1):
  GET    /barcodesets/{project}         barcode sets of a project
  DELETE /barcodesets/{project}/cache   drop cached barcode sets
  POST   /barcodesets/preview           settle edited rows, preview changes
  POST   /samplesheet/serialize         grid rows to libraries payload
  POST   /samplesheet/rows              libraries payload to grid rows
  GET    /lanes?value=                  parse a lane multi-range
  POST   /revcomp                       reverse-complement sequences
  POST   /validate                      check field values
  GET    /editor/ws                     live barcode set editing session
  GET    /openapi.json, /openapi.yaml   API description

GET /health is always public, GET /metrics serves Prometheus metrics.`,
		Example: `  flowsheet serve --catalog-url https://flowcells.example.org
  flowsheet serve --catalog-dir ./barcodes --listen :9000 --cors-origins https://app.example.org
  flowsheet serve --api-key s3cret --rate-limit 120`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, app, cfg)
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfg.Addr, "listen", cfg.Addr, "address to listen on")
	f.StringVar(&cfg.PathPrefix, "prefix", cfg.PathPrefix, "API path prefix")
	f.StringSliceVar(&cfg.CORSOrigins, "cors-origins", cfg.CORSOrigins, "allowed CORS origins (comma-separated, * for all)")
	f.StringVar(&cfg.APIKey, "api-key", cfg.APIKey, "require this API key on every request except /health and /metrics")
	f.StringVar(&cfg.AuthHeader, "auth-header", cfg.AuthHeader, "header carrying the API key")
	f.IntVar(&cfg.RateLimit, "rate-limit", cfg.RateLimit, "requests per minute per client (0 to disable)")
	f.BoolVar(&cfg.TrustProxy, "trust-proxy", cfg.TrustProxy, "rate limit by X-Forwarded-For (only behind a reverse proxy)")
	f.IntVar(&cfg.SpareRows, "spare-rows", cfg.SpareRows, "blank rows kept below barcode set data in editor sessions")
	f.BoolVar(&cfg.MetricsEnabled, "metrics", cfg.MetricsEnabled, "serve Prometheus metrics on /metrics")
	f.DurationVar(&cfg.ReadTimeout, "read-timeout", cfg.ReadTimeout, "HTTP read timeout")
	f.DurationVar(&cfg.WriteTimeout, "write-timeout", cfg.WriteTimeout, "HTTP write timeout")
	f.DurationVar(&cfg.IdleTimeout, "idle-timeout", cfg.IdleTimeout, "HTTP idle timeout")
	return cmd
}

// run is invoked after the root command applied --config and the catalog
// flags, so settings the command line left alone are read again here.
func run(cmd *cobra.Command, app application.Application, cfg server.Config) error {
	current := app.ServerConfig()
	f := cmd.Flags()
	if !f.Changed("listen") {
		cfg.Addr = current.Addr
	}
	if !f.Changed("cors-origins") {
		cfg.CORSOrigins = current.CORSOrigins
	}
	if !f.Changed("api-key") {
		cfg.APIKey = current.APIKey
	}
	if !f.Changed("rate-limit") {
		cfg.RateLimit = current.RateLimit
	}
	if !f.Changed("trust-proxy") {
		cfg.TrustProxy = current.TrustProxy
	}
	if !f.Changed("spare-rows") {
		cfg.SpareRows = current.SpareRows
	}
	if !f.Changed("metrics") {
		cfg.MetricsEnabled = current.MetricsEnabled
	}
	cfg.CORSEnabled = len(cfg.CORSOrigins) > 0
	cfg.AuthEnabled = cfg.APIKey != ""

	logger := app.Logger()
	src, err := app.Catalog()
	if err != nil {
		var ce *errors.ConfigError
		if !errors.As(err, &ce) {
			return err
		}
		logger.Warn().Err(err).Msg("Serving without a barcode catalog, catalog routes answer 503")
		src = nil
	}

	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return errors.WrapIO("listen", cfg.Addr, err)
	}
	return Serve(cmd.Context(), ln, src, cfg, app.Version(), logger)
}

// Serve runs the API on ln until ctx is done, then shuts down gracefully.
func Serve(ctx context.Context, ln net.Listener, src catalog.Source, cfg server.Config, version string, logger *zerolog.Logger) error {
	handlers.Version = version

	srv, err := server.New(src, cfg, logger)
	if err != nil {
		return err
	}
	srv.Start()

	httpServer := &http.Server{
		Handler:           srv.Handler(),
		ReadHeaderTimeout: constants.ReadHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
	httpServer.RegisterOnShutdown(func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("Editor sessions did not stop in time")
		}
	})

	serveErr := make(chan error, 1)
	go func() {
		logger.Info().
			Str("addr", ln.Addr().String()).
			Str("prefix", cfg.PathPrefix).
			Bool("cors", cfg.CORSEnabled).
			Bool("auth", cfg.AuthEnabled).
			Int("rate_limit", cfg.RateLimit).
			Bool("metrics", cfg.MetricsEnabled).
			Bool("catalog", src != nil).
			Msg("Starting API server")
		serveErr <- httpServer.Serve(ln)
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.WrapIO("serve", ln.Addr().String(), err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info().Msg("Shutting down API server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()
	start := time.Now()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return errors.WrapIO("shutdown", ln.Addr().String(), err)
	}
	logger.Info().Dur("took", time.Since(start)).Msg("API server stopped")
	return nil
}
