// Package cmdutil holds helpers shared by flowsheet commands: reading input
// documents and printing results in the selected format.
package cmdutil

import (
	"io"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/digestiflow/flowsheet/internal/cmd/output"
	"github.com/digestiflow/flowsheet/pkg/errors"
)

// ReadInput reads path, or standard input when path is empty or "-".
func ReadInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, errors.WrapIO("read", "stdin", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFoundError("file", path)
		}
		return nil, errors.WrapIO("read", path, err)
	}
	return data, nil
}

// Decode reads a JSON or YAML document from path (or stdin) into v. YAML
// is a superset of JSON, so one parser serves both.
func Decode(cmd *cobra.Command, path string, v any) error {
	data, err := ReadInput(cmd, path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		name := path
		if name == "" {
			name = "stdin"
		}
		return errors.WrapParse("yaml", name, err)
	}
	return nil
}

// Print writes data in format. Tables render table; JSON and YAML render
// data itself.
func Print(cmd *cobra.Command, format string, data any, table output.Data) error {
	f, err := output.ParseFormat(format)
	if err != nil {
		return err
	}
	f = output.DetectFormat(string(f))
	if f == output.FormatTable {
		return output.NewFormatter(f).Format(cmd.OutOrStdout(), table)
	}
	return output.NewFormatter(f).Format(cmd.OutOrStdout(), data)
}

// InputArg returns the first positional argument, or "" for stdin.
func InputArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
