// Package validate implements the validate command.
package validate

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/digestiflow/flowsheet/cmd/application"
	"github.com/digestiflow/flowsheet/internal/cmd/cmdutil"
	"github.com/digestiflow/flowsheet/internal/cmd/output"
	"github.com/digestiflow/flowsheet/pkg/errors"
	"github.com/digestiflow/flowsheet/pkg/validation"
)

// FieldBasesMask selects the bases mask check instead of a field validator.
const FieldBasesMask = "bases_mask"

// Result is the verdict on one value.
type Result struct {
	Field string `json:"field" yaml:"field"`
	Value string `json:"value" yaml:"value"`
	Valid bool   `json:"valid" yaml:"valid"`
}

// MaskResult is a demultiplexing mask checked against the planned reads.
type MaskResult struct {
	Planned  string `json:"planned" yaml:"planned"`
	Mask     string `json:"mask" yaml:"mask"`
	Tool     string `json:"tool" yaml:"tool"`
	Rendered string `json:"rendered" yaml:"rendered"`
}

// NewCommand creates the validate command.
func NewCommand(app application.Application) *cobra.Command {
	var planned, tool string
	cmd := &cobra.Command{
		Use:     "validate <field> <value>...",
		GroupID: "core",
		Short:   "Check sample sheet and flow cell values",
		Long: `Validate checks each value against the named field and exits with an
error when any value fails. Fields: ` + strings.Join(validation.Fields, ", ") + `.

The bases_mask field checks a demultiplexing mask against the planned reads
(--planned) and renders it for bcl2fastq or picard (--tool).`,
		Example: `  flowsheet validate sample_name lib-01 "bad name"
  flowsheet validate lanes 1-3,5
  flowsheet validate bases_mask --planned 151T8B8B151T 151T8B8B151T`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			field := strings.ReplaceAll(strings.ToLower(args[0]), "-", "_")
			if field == FieldBasesMask {
				return runBasesMask(cmd, app, planned, args[1], tool)
			}
			return runFields(cmd, app, field, args[1:])
		},
	}
	cmd.Flags().StringVar(&planned, "planned", "", "planned reads of the flow cell (bases_mask only)")
	cmd.Flags().StringVar(&tool, "tool", validation.ToolBcl2fastq, "demultiplexing tool: bcl2fastq or picard (bases_mask only)")
	return cmd
}

func runFields(cmd *cobra.Command, app application.Application, field string, values []string) error {
	results := make([]Result, len(values))
	verdicts := make([]bool, len(values))
	invalid := 0
	for i, v := range values {
		ok, err := validation.Check(field, v)
		if err != nil {
			return err
		}
		results[i] = Result{Field: field, Value: v, Valid: ok}
		verdicts[i] = ok
		if !ok {
			invalid++
		}
	}

	if err := cmdutil.Print(cmd, app.OutputFormat(), results, output.ValuesTable(field, values, verdicts)); err != nil {
		return err
	}
	if invalid > 0 {
		return errors.NewValidationError(field, invalid, strconv.Itoa(invalid)+" invalid value(s)")
	}
	return nil
}

func runBasesMask(cmd *cobra.Command, app application.Application, planned, mask, tool string) error {
	if planned == "" {
		return errors.NewValidationError("planned", planned, "--planned is required for bases_mask")
	}
	rendered, err := validation.ReturnBasesMask(planned, mask, tool)
	if err != nil {
		return err
	}
	r := MaskResult{Planned: planned, Mask: mask, Tool: tool, Rendered: rendered}
	table := output.Data{Rows: [][]string{
		{"Planned", planned},
		{"Mask", mask},
		{"Tool", tool},
		{"Rendered", rendered},
	}}
	return cmdutil.Print(cmd, app.OutputFormat(), r, table)
}
