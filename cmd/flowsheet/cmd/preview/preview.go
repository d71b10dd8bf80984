// Package preview implements the preview command: settle an edited barcode
// set against its snapshot and show what a submit would change.
package preview

import (
	"github.com/spf13/cobra"

	"github.com/digestiflow/flowsheet/cmd/application"
	"github.com/digestiflow/flowsheet/internal/catalog"
	"github.com/digestiflow/flowsheet/internal/cmd/cmdutil"
	"github.com/digestiflow/flowsheet/internal/cmd/output"
	"github.com/digestiflow/flowsheet/pkg/barcodes"
	"github.com/digestiflow/flowsheet/pkg/editor"
	"github.com/digestiflow/flowsheet/pkg/errors"
)

// Input is the document the preview command reads. Snapshot may be left
// out when --project and --set load it from the catalog; Working left out
// means the rows are untouched.
type Input struct {
	Snapshot  []barcodes.Record `json:"snapshot" yaml:"snapshot"`
	Working   barcodes.Rows     `json:"working" yaml:"working"`
	SpareRows *int              `json:"spare_rows" yaml:"spare_rows"`
}

type options struct {
	project string
	set     string
	spare   int
	payload bool
	lines   bool
}

// NewCommand creates the preview command.
func NewCommand(app application.Application) *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:     "preview [file]",
		GroupID: "core",
		Short:   "Preview the changes an edited barcode set would submit",
		Long: `Preview reads a JSON or YAML document with the stored barcode set
("snapshot") and the edited rows ("working"), re-links renamed rows to their
stored barcodes by name, classifies every row and prints the pending changes.

Without a file the document is read from standard input.`,
		Example: `  flowsheet preview edits.yaml
  flowsheet preview --project demo --set truseq edits.yaml
  flowsheet preview --payload edits.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, app, opts, cmdutil.InputArg(args))
		},
	}

	cmd.Flags().StringVar(&opts.project, "project", "", "load the snapshot from this catalog project")
	cmd.Flags().StringVar(&opts.set, "set", "", "short name or UUID of the barcode set to load (with --project)")
	cmd.Flags().IntVar(&opts.spare, "spare-rows", -1, "blank rows kept below the data (default from config)")
	cmd.Flags().BoolVar(&opts.payload, "payload", false, "print only the JSON payload a submit would send")
	cmd.Flags().BoolVar(&opts.lines, "lines", false, "print only the preview lines")
	cmd.MarkFlagsMutuallyExclusive("payload", "lines")
	cmd.MarkFlagsRequiredTogether("project", "set")

	return cmd
}

func run(cmd *cobra.Command, app application.Application, opts *options, path string) error {
	var in Input
	if err := cmdutil.Decode(cmd, path, &in); err != nil {
		return err
	}

	if opts.project != "" {
		records, err := loadSnapshot(cmd, app, opts.project, opts.set)
		if err != nil {
			return err
		}
		in.Snapshot = records
	}

	spare := app.SpareRows()
	if in.SpareRows != nil {
		spare = *in.SpareRows
	}
	if opts.spare >= 0 {
		spare = opts.spare
	}

	snap := barcodes.NewSnapshot(in.Snapshot)
	state := editor.Evaluate(snap, in.Working, spare)

	app.Logger().Debug().
		Int("snapshot", snap.Len()).
		Int("rows", len(state.Rows)).
		Int("changes", state.Changes.Summary.TotalChanges).
		Int("reassigned", state.Changes.Reassigned).
		Msg("Settled barcode set")

	out := cmd.OutOrStdout()
	switch {
	case opts.payload:
		_, err := out.Write([]byte(state.Payload + "\n"))
		return err
	case opts.lines:
		for _, line := range state.Preview {
			if _, err := out.Write([]byte(line + "\n")); err != nil {
				return err
			}
		}
		return nil
	}
	return cmdutil.Print(cmd, app.OutputFormat(), state, output.StateTable(state))
}

func loadSnapshot(cmd *cobra.Command, app application.Application, project, set string) ([]barcodes.Record, error) {
	src, err := app.Catalog()
	if err != nil {
		return nil, err
	}
	cat, err := catalog.Load(cmd.Context(), src, project)
	if err != nil {
		return nil, err
	}
	bs, ok := cat.SetByShortName(set)
	if !ok {
		bs, ok = cat.Set(set)
	}
	if !ok {
		return nil, errors.NewNotFoundError("barcode set", project+"/"+set)
	}
	return bs.Records(), nil
}
