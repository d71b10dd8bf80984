// Package lanes implements the lanes command: conversion between compact
// lane strings such as "1-3,5" and lane numbers.
package lanes

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/digestiflow/flowsheet/cmd/application"
	"github.com/digestiflow/flowsheet/internal/cmd/cmdutil"
	"github.com/digestiflow/flowsheet/internal/cmd/output"
	"github.com/digestiflow/flowsheet/pkg/errors"
	"github.com/digestiflow/flowsheet/pkg/multirange"
)

// NewCommand creates the lanes command and its subcommands.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "lanes",
		GroupID: "core",
		Short:   "Parse and format lane multi-ranges",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(newParseCommand(app), newFormatCommand(app))
	return cmd
}

func newParseCommand(app application.Application) *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "parse <value>...",
		Short: "Expand lane strings into lane numbers",
		Example: `  flowsheet lanes parse "1-3,5"
  flowsheet lanes parse --strict "1,x"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results := make([]output.LaneResult, 0, len(args))
			invalid := 0
			for _, value := range args {
				r := Parse(value)
				if !r.Valid {
					invalid++
				}
				results = append(results, r)
			}
			if err := cmdutil.Print(cmd, app.OutputFormat(), results, output.LanesTable(results)); err != nil {
				return err
			}
			if strict && invalid > 0 {
				return errors.NewValidationError("lanes", invalid, strconv.Itoa(invalid)+" invalid lane string(s)")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "exit with an error when any value is invalid")
	return cmd
}

// Parse parses one lane string into a result, never failing.
func Parse(value string) output.LaneResult {
	r := output.LaneResult{Value: value, Lanes: []int{}}
	lanes, err := multirange.Parse(value)
	if err != nil {
		var pe *errors.ParseError
		if errors.As(err, &pe) {
			r.Error = pe.Message + " at offset " + strconv.Itoa(pe.Offset)
		} else {
			r.Error = err.Error()
		}
		return r
	}
	r.Valid = true
	r.Lanes = lanes
	r.Canonical = multirange.Format(lanes)
	return r
}

func newFormatCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "format <lane>...",
		Short: "Compact lane numbers into a lane string",
		Long: `Format compacts lane numbers into canonical form. Arguments may be
separated by spaces or commas; order and duplicates do not matter.`,
		Example: `  flowsheet lanes format 5 1 2 3
  flowsheet lanes format 1,2,3,8`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parseInts(args)
			if err != nil {
				return err
			}
			canonical := multirange.Format(values)
			// canonical output always parses back
			lanes, _ := multirange.Parse(canonical)
			r := output.LaneResult{Value: canonical, Valid: true, Lanes: lanes, Canonical: canonical}
			if output.DetectFormat(app.OutputFormat()) == output.FormatTable {
				_, err := cmd.OutOrStdout().Write([]byte(r.Canonical + "\n"))
				return err
			}
			return cmdutil.Print(cmd, app.OutputFormat(), r, output.Data{})
		},
	}
}

func parseInts(args []string) ([]int, error) {
	var values []int
	for _, arg := range args {
		for _, field := range strings.Split(arg, ",") {
			field = strings.TrimSpace(field)
			if field == "" {
				continue
			}
			n, err := strconv.Atoi(field)
			if err != nil || n < 1 {
				return nil, errors.NewValidationError("lane", field, "lane numbers are positive integers")
			}
			values = append(values, n)
		}
	}
	return values, nil
}
