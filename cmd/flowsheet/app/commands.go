package app

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/digestiflow/flowsheet/cmd/flowsheet/cmd/catalogs"
	"github.com/digestiflow/flowsheet/cmd/flowsheet/cmd/lanes"
	"github.com/digestiflow/flowsheet/cmd/flowsheet/cmd/preview"
	"github.com/digestiflow/flowsheet/cmd/flowsheet/cmd/revcomp"
	sheetcmd "github.com/digestiflow/flowsheet/cmd/flowsheet/cmd/samplesheet"
	"github.com/digestiflow/flowsheet/cmd/flowsheet/cmd/serve"
	"github.com/digestiflow/flowsheet/cmd/flowsheet/cmd/validate"
)

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Core commands
	rootCmd.AddCommand(preview.NewCommand(a))
	rootCmd.AddCommand(sheetcmd.NewCommand(a))
	rootCmd.AddCommand(catalogs.NewCommand(a))
	rootCmd.AddCommand(lanes.NewCommand(a))
	rootCmd.AddCommand(revcomp.NewCommand(a))
	rootCmd.AddCommand(validate.NewCommand(a))

	// Server commands
	rootCmd.AddCommand(serve.NewCommand(a))

	// Other
	rootCmd.AddCommand(a.newVersionCommand())
}

func (a *App) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "flowsheet version %s\n", a.version)
			if !a.config.Verbose {
				return
			}
			_, _ = fmt.Fprintf(w, "commit: %s\n", a.commit)
			_, _ = fmt.Fprintf(w, "built: %s\n", a.date)
			_, _ = fmt.Fprintf(w, "built by: %s\n", a.builtBy)
			_, _ = fmt.Fprintf(w, "go version: %s\n", runtime.Version())
			_, _ = fmt.Fprintf(w, "platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}
