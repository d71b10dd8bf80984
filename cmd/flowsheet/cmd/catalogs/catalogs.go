// Package catalogs implements the catalog command: inspecting and
// mirroring the barcode sets a project can choose from.
package catalogs

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/digestiflow/flowsheet/cmd/application"
	"github.com/digestiflow/flowsheet/internal/catalog"
	"github.com/digestiflow/flowsheet/internal/cmd/cmdutil"
	"github.com/digestiflow/flowsheet/internal/cmd/output"
	"github.com/digestiflow/flowsheet/internal/matcher"
	"github.com/digestiflow/flowsheet/pkg/errors"
	"github.com/digestiflow/flowsheet/pkg/samplesheet"
)

// NewCommand creates the catalog command and its subcommands.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "catalog",
		Aliases: []string{"catalogs"},
		GroupID: "core",
		Short:   "Inspect the barcode set catalog",
		Long: `Catalog reads barcode sets from the configured catalog: a remote
server (catalog_url) or a directory of YAML files (catalog_dir).`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(newListCommand(app), newShowCommand(app), newPullCommand(app))
	return cmd
}

func newListCommand(app application.Application) *cobra.Command {
	var match string
	cmd := &cobra.Command{
		Use:     "list <project>",
		Aliases: []string{"ls"},
		Short:   "List the barcode sets of a project",
		Example: `  flowsheet catalog list demo
  flowsheet catalog list demo --match 'nextera*'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := compile(match)
			if err != nil {
				return err
			}
			sets, err := fetch(cmd, app, args[0])
			if err != nil {
				return err
			}
			sets = matcher.Filter(m, sets, func(s samplesheet.BarcodeSet) []string {
				return []string{s.ShortName, s.Name}
			})
			return cmdutil.Print(cmd, app.OutputFormat(), sets, output.BarcodeSetsTable(sets))
		},
	}
	cmd.Flags().StringVar(&match, "match", "", "only sets whose short name or name matches (glob or regex)")
	return cmd
}

func newShowCommand(app application.Application) *cobra.Command {
	var match string
	cmd := &cobra.Command{
		Use:   "show <project> <set>",
		Short: "Show the barcodes of one set, by short name or UUID",
		Example: `  flowsheet catalog show demo truseq
  flowsheet catalog show demo truseq --match 'D70?'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := compile(match)
			if err != nil {
				return err
			}
			sets, err := fetch(cmd, app, args[0])
			if err != nil {
				return err
			}
			cat := samplesheet.NewCatalog(sets)
			set, ok := cat.SetByShortName(args[1])
			if !ok {
				set, ok = cat.Set(args[1])
			}
			if !ok {
				return errors.NewNotFoundError("barcode set", args[0]+"/"+args[1])
			}
			set.Entries = matcher.Filter(m, set.Entries, func(e samplesheet.BarcodeEntry) []string {
				return append([]string{e.Name}, e.Aliases...)
			})

			table := output.Data{
				Headers: []string{"Name", "Sequence", "Aliases", "UUID"},
				Footer:  []string{set.Label() + ": " + pluralBarcodes(len(set.Entries))},
			}
			for _, e := range set.Entries {
				table.Rows = append(table.Rows, []string{e.Name, e.Sequence, strings.Join(e.Aliases, ", "), e.ID})
			}
			return cmdutil.Print(cmd, app.OutputFormat(), set, table)
		},
	}
	cmd.Flags().StringVar(&match, "match", "", "only barcodes whose name or alias matches (glob or regex)")
	return cmd
}

func newPullCommand(app application.Application) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "pull <project>",
		Short: "Mirror the barcode sets of a project into a catalog directory",
		Long: `Pull fetches the barcode sets of a project and writes one YAML file
per set to <dir>/<project>/, the layout catalog_dir reads.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sets, err := fetch(cmd, app, args[0])
			if err != nil {
				return err
			}
			target := catalog.NewDirSource(dir)
			target.Logger = app.Logger()
			for _, set := range sets {
				path, err := target.WriteSet(args[0], set)
				if err != nil {
					return err
				}
				app.Logger().Info().
					Str("set", set.ShortName).
					Str("path", path).
					Int("barcodes", len(set.Entries)).
					Msg("Wrote barcode set")
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Pulled %d barcode set(s) of %s into %s\n", len(sets), args[0], dir)
			return err
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "catalog directory to write to")
	_ = cmd.MarkFlagRequired("dir")
	return cmd
}

func fetch(cmd *cobra.Command, app application.Application, project string) ([]samplesheet.BarcodeSet, error) {
	src, err := app.Catalog()
	if err != nil {
		return nil, err
	}
	return src.BarcodeSets(cmd.Context(), project)
}

// compile returns nil for an empty pattern, which matches everything.
func compile(pattern string) (*matcher.Matcher, error) {
	if pattern == "" {
		return nil, nil
	}
	return matcher.New(matcher.Auto, pattern)
}

func pluralBarcodes(n int) string {
	if n == 1 {
		return "1 barcode"
	}
	return strconv.Itoa(n) + " barcodes"
}
