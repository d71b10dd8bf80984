package app

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/digestiflow/flowsheet/internal/cmd/output"
)

// rootFlags are the persistent flags of the root command. They are read in
// setupCommand and applied over the configuration only when set.
type rootFlags struct {
	configFile string
	verbose    bool
	quiet      bool
	noColor    bool
	format     string
	logLevel   string
	catalogURL string
	catalogDir string
}

// Execute runs the flowsheet CLI with the given arguments.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

func (a *App) createRootCommand() *cobra.Command {
	flags := &rootFlags{}
	rootCmd := &cobra.Command{
		Use:     "flowsheet",
		Short:   "Barcode set and sample sheet editing toolkit",
		Version: a.version,
		Long: `Flowsheet reconciles edited barcode set rows against the stored
barcode set, previews the changes a submit would make, converts library
sample sheets between grid rows and payloads, and serves all of it over an
HTTP API with live editing sessions.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setupCommand(cmd, flags)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddGroup(&cobra.Group{ID: "core", Title: "Core Commands:"})
	rootCmd.AddGroup(&cobra.Group{ID: "server", Title: "Server Commands:"})

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.configFile, "config", "", "config file (default is $HOME/.flowsheet.yaml)")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	pf.BoolVarP(&flags.quiet, "quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	pf.BoolVar(&flags.noColor, "no-color", false, "disable colored output")
	pf.StringVarP(&flags.format, "format", "o", "", "output format: table, json, yaml")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")
	pf.StringVar(&flags.catalogURL, "catalog-url", "", "base URL of the barcode catalog server")
	pf.StringVar(&flags.catalogDir, "catalog-dir", "", "directory of barcode set files, one subdirectory per project")

	rootCmd.SetVersionTemplate("flowsheet {{.Version}}\n")
	a.registerCommands(rootCmd)
	return rootCmd
}

// setupCommand reloads the configuration when --config is given, applies
// the explicit flags and rebuilds the logger.
func (a *App) setupCommand(cmd *cobra.Command, flags *rootFlags) error {
	if flags.configFile != "" {
		config, err := LoadConfig(flags.configFile)
		if err != nil {
			return err
		}
		a.reconfigure(config)
	}

	a.config.UpdateFromFlags(flags.verbose, flags.quiet, flags.noColor, flags.format, flags.logLevel)
	if _, err := output.ParseFormat(a.config.Format); err != nil {
		return err
	}
	if flags.catalogURL != "" || flags.catalogDir != "" {
		config := *a.config
		if flags.catalogURL != "" {
			config.CatalogURL = flags.catalogURL
			config.CatalogDir = ""
		}
		if flags.catalogDir != "" {
			config.CatalogDir = flags.catalogDir
		}
		if err := config.validate(); err != nil {
			return err
		}
		a.reconfigure(&config)
	}

	output.SetColor(!a.config.NoColor && output.IsTerminal(os.Stdout))
	logger := NewLogger(a.config)
	a.logger = &logger

	a.logger.Debug().
		Str("command", cmd.CommandPath()).
		Str("config_file", a.config.ConfigFile).
		Msg("Configuration loaded")
	return nil
}

// ExitOnError prints err and exits with status 1.
func ExitOnError(err error) {
	if err != nil {
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		os.Exit(1)
	}
}
