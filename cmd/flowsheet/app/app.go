// Package app wires configuration, logging and the barcode catalog into the
// flowsheet command tree.
package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/digestiflow/flowsheet/cmd/application"
	"github.com/digestiflow/flowsheet/internal/catalog"
	"github.com/digestiflow/flowsheet/internal/server"
	"github.com/digestiflow/flowsheet/pkg/errors"
)

// App is the flowsheet application: version information, configuration,
// the logger and the lazily built catalog source.
type App struct {
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger

	mu       sync.Mutex
	source   catalog.Source
	injected bool
}

var _ application.Application = (*App)(nil)

// New creates an App with configuration loaded from the default locations.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	a := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig("")
	if err != nil {
		return nil, err
	}
	a.config = config

	logger := NewLogger(config)
	a.logger = &logger

	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// Version returns the version information.
func (a *App) Version() string { return a.version }

// Commit returns the git commit hash.
func (a *App) Commit() string { return a.commit }

// Date returns the build date.
func (a *App) Date() string { return a.date }

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string { return a.builtBy }

// Config returns the application configuration.
func (a *App) Config() *Config { return a.config }

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger { return a.logger }

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string { return a.config.Format }

// SpareRows returns the configured number of spare rows.
func (a *App) SpareRows() int { return a.config.SpareRows }

// ServerConfig returns the API server settings.
func (a *App) ServerConfig() server.Config { return a.config.ServerConfig() }

// Catalog returns the barcode set source, creating it on first use. A
// catalog directory takes precedence over a catalog URL; either way the
// source is cached for CatalogTTL.
func (a *App) Catalog() (catalog.Source, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.source != nil {
		return a.source, nil
	}

	var src catalog.Source
	switch {
	case a.config.CatalogDir != "":
		dir := catalog.NewDirSource(a.config.CatalogDir)
		dir.Logger = a.logger
		src = dir
	case a.config.CatalogURL != "":
		remote := catalog.NewHTTPSource(a.config.CatalogURL, a.config.CatalogToken)
		remote.Logger = a.logger
		src = remote
	default:
		return nil, errors.NewConfigError("catalog", "no barcode catalog configured, set catalog_url or catalog_dir", nil)
	}

	if a.config.CatalogTTL > 0 {
		src = catalog.NewCached(src, a.config.CatalogTTL, a.logger)
	}
	a.source = src
	return src, nil
}

// reconfigure replaces the configuration and drops a catalog source that
// was built from the old one.
func (a *App) reconfigure(config *Config) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.config = config
	if !a.injected {
		a.source = nil
	}
}

// Shutdown releases application resources.
func (a *App) Shutdown(_ context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if c, ok := a.source.(*catalog.Cached); ok {
		c.Invalidate("")
	}
	return nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithCatalog sets the catalog source, bypassing configuration.
func WithCatalog(src catalog.Source) Option {
	return func(a *App) error {
		a.source = src
		a.injected = true
		return nil
	}
}
