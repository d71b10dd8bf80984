package app

import (
	"fmt"
	"os"
	"slices"

	"github.com/rs/zerolog"

	"github.com/digestiflow/flowsheet/pkg/logging"
)

var logLevels = []string{"trace", "debug", "info", "warn", "error"}

// NewLogger builds the process logger. An explicit log level wins; after
// that -q beats -v, and the default is info.
func NewLogger(config *Config) zerolog.Logger {
	level := determineLogLevel(config)
	return logging.NewLoggerFromConfig(&logging.Config{
		Level:      level,
		Format:     config.LogFormat,
		Output:     config.LogOutput,
		TimeFormat: "kitchen",
		NoColor:    config.NoColor,
		AddCaller:  level == "debug" || level == "trace",
	})
}

func determineLogLevel(config *Config) string {
	switch {
	case config.LogLevel != "":
		if slices.Contains(logLevels, config.LogLevel) {
			return config.LogLevel
		}
		fmt.Fprintf(os.Stderr, "Warning: unknown log level %q, using info\n", config.LogLevel)
		return "info"
	case config.Quiet:
		if config.Verbose {
			fmt.Fprintln(os.Stderr, "Warning: --verbose and --quiet both set, --quiet wins")
		}
		return "warn"
	case config.Verbose:
		return "debug"
	}
	return "info"
}
