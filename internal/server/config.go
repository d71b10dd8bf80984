package server

import (
	"time"

	"github.com/digestiflow/flowsheet/pkg/constants"
)

// Config is everything the API server needs besides the catalog source.
type Config struct {
	Addr string
	// PathPrefix is prepended to every /api route, "/api/v1" by default.
	PathPrefix string

	CORSEnabled bool
	CORSOrigins []string

	// AuthEnabled requires APIKey in the AuthHeader header (or a bearer
	// token) on everything except health, metrics and the OpenAPI document.
	AuthEnabled bool
	AuthHeader  string
	APIKey      string

	// RateLimit caps requests per client IP and minute; 0 turns it off.
	RateLimit int
	// TrustProxy makes the rate limiter key clients by X-Forwarded-For.
	TrustProxy bool

	// SpareRows is the number of blank rows editor sessions keep at the
	// bottom of the barcode grid.
	SpareRows int

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	MetricsEnabled bool
}

// DefaultConfig listens on :8080 with metrics on. Auth and CORS are off.
func DefaultConfig() Config {
	return Config{
		Addr:           constants.DefaultListenAddr,
		PathPrefix:     constants.DefaultPathPrefix,
		AuthHeader:     "X-API-Key",
		RateLimit:      600,
		SpareRows:      constants.DefaultSpareRows,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		IdleTimeout:    2 * time.Minute,
		MetricsEnabled: true,
	}
}
