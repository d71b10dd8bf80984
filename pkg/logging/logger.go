// Package logging wraps zerolog for flowsheet. The process logger writes
// human readable lines to a terminal and JSON to anything else.
//
//	log := logging.Default()
//	log.Info().Str("project", "p1").Msg("Fetching barcode sets")
//
//	ctx := logging.WithLogger(context.Background(), log)
//	logging.FromContext(ctx).Debug().Int("rows", 12).Msg("Reconciled")
package logging

import (
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var defaultLogger = bootstrapLogger()

// bootstrapLogger is used until the CLI has read its configuration, so
// only LOG_LEVEL, DEBUG, LOG_FORMAT and NO_COLOR are honored here.
func bootstrapLogger() zerolog.Logger {
	level := envLevel()
	zerolog.SetGlobalLevel(level)

	logger := zerolog.New(os.Stderr)
	if isTerminal(os.Stderr) && os.Getenv("LOG_FORMAT") != "json" {
		logger = zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.Kitchen,
			NoColor:    os.Getenv("NO_COLOR") != "",
		})
	}
	logger = logger.Level(level).With().Timestamp().Logger()
	if level <= zerolog.DebugLevel {
		logger = logger.With().Caller().Logger()
	}
	return logger
}

// Default returns the process logger.
func Default() *zerolog.Logger {
	return &defaultLogger
}

// SetDefault replaces the process logger and zerolog's global one.
func SetDefault(logger zerolog.Logger) {
	defaultLogger = logger
	log.Logger = logger
}

// OrNop returns logger, or a logger that drops everything when it is nil.
func OrNop(logger *zerolog.Logger) *zerolog.Logger {
	if logger == nil {
		return NewNopLogger()
	}
	return logger
}

// NewNopLogger returns a logger that discards all output.
func NewNopLogger() *zerolog.Logger {
	nop := zerolog.Nop()
	return &nop
}

// Debug logs at debug level on the process logger.
func Debug() *zerolog.Event {
	return defaultLogger.Debug()
}

// Info logs at info level on the process logger.
func Info() *zerolog.Event {
	return defaultLogger.Info()
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func envLevel() zerolog.Level {
	raw := os.Getenv("LOG_LEVEL")
	if raw == "" && os.Getenv("DEBUG") != "" {
		return zerolog.DebugLevel
	}
	return parseLevel(raw)
}
