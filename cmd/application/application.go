// Package application defines what flowsheet commands need from the
// application: a barcode catalog, a logger and the configured defaults.
//
// Commands accept the interface rather than the concrete App so they can be
// tested against Mock:
//
//	mock := &application.Mock{
//	    CatalogFunc: func() (catalog.Source, error) {
//	        return catalog.NewDirSource(dir), nil
//	    },
//	    OutputFormatFunc: func() string { return "json" },
//	}
//	cmd := preview.NewCommand(mock)
package application

import (
	"github.com/rs/zerolog"

	"github.com/digestiflow/flowsheet/internal/catalog"
	"github.com/digestiflow/flowsheet/internal/server"
)

// Application provides the application interface that commands need.
// All methods must be safe for concurrent access.
type Application interface {
	// Catalog returns the configured barcode set source, built lazily and
	// shared by all callers. It fails when neither a catalog URL nor a
	// catalog directory is configured.
	Catalog() (catalog.Source, error)

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format; empty means
	// auto-detect.
	OutputFormat() string

	// SpareRows is the number of blank rows kept below barcode set data.
	SpareRows() int

	// ServerConfig returns the API server settings from the configuration.
	ServerConfig() server.Config

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
