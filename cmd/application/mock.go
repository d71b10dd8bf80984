package application

import (
	"github.com/rs/zerolog"

	"github.com/digestiflow/flowsheet/internal/catalog"
	"github.com/digestiflow/flowsheet/internal/server"
	"github.com/digestiflow/flowsheet/pkg/constants"
	"github.com/digestiflow/flowsheet/pkg/errors"
)

// Mock provides a mock implementation of Application for testing.
// If a function field is nil, the method returns a default value.
type Mock struct {
	CatalogFunc      func() (catalog.Source, error)
	LoggerFunc       func() *zerolog.Logger
	OutputFormatFunc func() string
	SpareRowsFunc    func() int
	ServerConfigFunc func() server.Config
	VersionFunc      func() string
	CommitFunc       func() string
	DateFunc         func() string
	BuiltByFunc      func() string
}

// Catalog returns a source using the mock function or a configuration error.
func (m *Mock) Catalog() (catalog.Source, error) {
	if m.CatalogFunc != nil {
		return m.CatalogFunc()
	}
	return nil, errors.NewConfigError("catalog", "no catalog configured", nil)
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat returns the format using the mock function or "json".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "json"
}

// SpareRows returns the spare rows using the mock function or the default.
func (m *Mock) SpareRows() int {
	if m.SpareRowsFunc != nil {
		return m.SpareRowsFunc()
	}
	return constants.DefaultSpareRows
}

// ServerConfig returns the server config using the mock function or the defaults.
func (m *Mock) ServerConfig() server.Config {
	if m.ServerConfigFunc != nil {
		return m.ServerConfigFunc()
	}
	return server.DefaultConfig()
}

// Version returns the version using the mock function or "dev".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}

// Commit returns the commit using the mock function or "unknown".
func (m *Mock) Commit() string {
	if m.CommitFunc != nil {
		return m.CommitFunc()
	}
	return "unknown"
}

// Date returns the date using the mock function or "unknown".
func (m *Mock) Date() string {
	if m.DateFunc != nil {
		return m.DateFunc()
	}
	return "unknown"
}

// BuiltBy returns the builder using the mock function or "unknown".
func (m *Mock) BuiltBy() string {
	if m.BuiltByFunc != nil {
		return m.BuiltByFunc()
	}
	return "unknown"
}

var _ Application = (*Mock)(nil)
