// Package constants provides shared constants used throughout flowsheet.
package constants

import "time"

// Timeout constants
const (
	// DefaultHTTPTimeout is the timeout for requests to a remote barcode catalog
	DefaultHTTPTimeout = 30 * time.Second

	// DefaultCatalogTTL is how long fetched barcode sets stay cached
	DefaultCatalogTTL = 5 * time.Minute

	// ShutdownTimeout bounds graceful server shutdown
	ShutdownTimeout = 5 * time.Second

	// ReadHeaderTimeout guards the API server against slow clients
	ReadHeaderTimeout = 10 * time.Second
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Editor constants
const (
	// DefaultSpareRows is the number of blank rows kept below the data,
	// mirroring the grid's minSpareRows setting.
	DefaultSpareRows = 3

	// MaxSpareRows bounds the spare rows a client may ask for.
	MaxSpareRows = 100

	// MaxRows bounds the rows of an editor grid. Edits and inserts past it
	// are dropped.
	MaxRows = 10000

	// ManualBarcodeLabel is the barcode set choice meaning "type the sequence".
	ManualBarcodeLabel = "type barcode -->"

	// NoChangeLine is the single preview line when nothing is pending.
	NoChangeLine = "No change to barcodes"

	// MaxRequestBytes bounds JSON request bodies accepted by the API.
	MaxRequestBytes = 4 << 20
)

// Server defaults
const (
	// DefaultListenAddr is the default address of the API server
	DefaultListenAddr = ":8080"

	// DefaultPathPrefix is the prefix of all API routes
	DefaultPathPrefix = "/api/v1"

	// EnvPrefix is the prefix of environment variables read by the CLI
	EnvPrefix = "FLOWSHEET"
)
