// Command flowsheet edits and validates Illumina sample sheets and serves
// the editing engines over HTTP.
package main

import (
	"context"
	"os"
	"time"

	"github.com/digestiflow/flowsheet/cmd/flowsheet/app"
)

// Set at build time with -ldflags "-X main.version=...".
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
	builtBy = "unknown"
)

func main() {
	a, err := app.New(version, commit, date, builtBy)
	if err != nil {
		app.ExitOnError(err)
	}

	ctx, cancel := app.ContextWithSignals(context.Background())
	runErr := a.Execute(ctx, os.Args[1:])
	cancel()

	shutdown(a)
	if runErr != nil {
		app.ExitOnError(runErr)
	}
}

// shutdown uses a fresh context because the signal context may be done.
func shutdown(a *app.App) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.Shutdown(ctx); err != nil {
		a.Logger().Error().Err(err).Msg("Shutdown failed")
	}
}
