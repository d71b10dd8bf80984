package editor

import (
	"github.com/rs/zerolog"

	"github.com/digestiflow/flowsheet/pkg/constants"
	"github.com/digestiflow/flowsheet/pkg/logging"
)

// Option configures a session.
type Option func(*config)

type config struct {
	spare  int
	logger *zerolog.Logger
}

func newConfig(opts []Option) *config {
	c := &config{spare: constants.DefaultSpareRows}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.OrNop(c.logger)
	return c
}

// WithSpareRows sets how many blank rows are kept below the data, at most
// MaxSpareRows. Negative values keep the default.
func WithSpareRows(n int) Option {
	return func(c *config) {
		if n >= 0 {
			c.spare = min(n, constants.MaxSpareRows)
		}
	}
}

// WithLogger sets the logger passes are reported to at debug level.
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}
