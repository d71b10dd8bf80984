// Package revcomp implements the revcomp command.
package revcomp

import (
	"bufio"
	"strings"

	"github.com/spf13/cobra"

	"github.com/digestiflow/flowsheet/cmd/application"
	"github.com/digestiflow/flowsheet/internal/cmd/cmdutil"
	"github.com/digestiflow/flowsheet/internal/cmd/output"
	"github.com/digestiflow/flowsheet/pkg/barcodes"
	"github.com/digestiflow/flowsheet/pkg/errors"
)

// Result pairs a sequence with its reverse complement.
type Result struct {
	Sequence string `json:"sequence" yaml:"sequence"`
	RevComp  string `json:"revcomp" yaml:"revcomp"`
}

// NewCommand creates the revcomp command.
func NewCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "revcomp [sequence]...",
		GroupID: "core",
		Short:   "Reverse-complement barcode sequences",
		Long: `Revcomp prints the reverse complement of each sequence. Case is kept
and characters other than ACGT pass through unchanged. Without arguments
sequences are read from standard input, one per line.`,
		Example: `  flowsheet revcomp ACGTTT
  cut -f2 barcodes.tsv | flowsheet revcomp`,
		RunE: func(cmd *cobra.Command, args []string) error {
			seqs := args
			if len(seqs) == 0 {
				var err error
				if seqs, err = readLines(cmd); err != nil {
					return err
				}
			}

			results := make([]Result, len(seqs))
			for i, s := range seqs {
				results[i] = Result{Sequence: s, RevComp: barcodes.RevComp(s)}
			}

			if output.DetectFormat(app.OutputFormat()) == output.FormatTable {
				w := cmd.OutOrStdout()
				for _, r := range results {
					if _, err := w.Write([]byte(r.RevComp + "\n")); err != nil {
						return err
					}
				}
				return nil
			}
			return cmdutil.Print(cmd, app.OutputFormat(), results, output.Data{})
		},
	}
}

func readLines(cmd *cobra.Command) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(cmd.InOrStdin())
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.WrapIO("read", "stdin", err)
	}
	return lines, nil
}
