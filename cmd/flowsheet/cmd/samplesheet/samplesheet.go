// Package samplesheet implements the samplesheet command: conversion
// between library grid rows and the libraries payload of a flow cell.
package samplesheet

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/digestiflow/flowsheet/cmd/application"
	"github.com/digestiflow/flowsheet/internal/catalog"
	"github.com/digestiflow/flowsheet/internal/cmd/cmdutil"
	"github.com/digestiflow/flowsheet/internal/cmd/output"
	"github.com/digestiflow/flowsheet/pkg/errors"
	"github.com/digestiflow/flowsheet/pkg/samplesheet"
)

// SerializeInput is the document read by samplesheet serialize.
type SerializeInput struct {
	Project string            `json:"project" yaml:"project"`
	Rows    []samplesheet.Row `json:"rows" yaml:"rows"`
}

// SerializeResult is the libraries payload built from grid rows.
type SerializeResult struct {
	Libraries []samplesheet.Library   `json:"libraries" yaml:"libraries"`
	Errors    []samplesheet.CellError `json:"errors" yaml:"errors"`
}

// RowsResult is the grid built from a libraries payload.
type RowsResult struct {
	Columns []string                `json:"columns" yaml:"columns"`
	Rows    []samplesheet.Row       `json:"rows" yaml:"rows"`
	Errors  []samplesheet.CellError `json:"errors" yaml:"errors"`
}

// NewCommand creates the samplesheet command and its subcommands.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "samplesheet",
		Aliases: []string{"sheet"},
		GroupID: "core",
		Short:   "Convert library sample sheets between grid rows and payloads",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(newSerializeCommand(app), newRowsCommand(app))
	return cmd
}

func newSerializeCommand(app application.Application) *cobra.Command {
	var project string
	var strict, payload bool
	cmd := &cobra.Command{
		Use:   "serialize [file]",
		Short: "Build the libraries payload from grid rows",
		Long: `Serialize reads grid rows ({"rows": [{"cells": [...]}]}) and prints the
libraries payload the flow cell form would submit, with any cell errors.
Barcode labels are resolved through the barcode sets of --project.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in SerializeInput
			if err := cmdutil.Decode(cmd, cmdutil.InputArg(args), &in); err != nil {
				return err
			}
			if project != "" {
				in.Project = project
			}
			cat, err := loadCatalog(cmd.Context(), app, in.Project)
			if err != nil {
				return err
			}

			res := SerializeResult{
				Libraries: samplesheet.LibrariesFromRows(in.Rows, cat),
				Errors:    samplesheet.ValidateRows(in.Rows, cat),
			}
			if res.Libraries == nil {
				res.Libraries = []samplesheet.Library{}
			}
			if res.Errors == nil {
				res.Errors = []samplesheet.CellError{}
			}

			if payload {
				s, err := samplesheet.MarshalLibraries(res.Libraries)
				if err != nil {
					return err
				}
				if _, err := cmd.OutOrStdout().Write([]byte(s + "\n")); err != nil {
					return err
				}
			} else if err := printResult(cmd, app, res, output.LibrariesTable(res.Libraries), res.Errors); err != nil {
				return err
			}
			return strictErr(strict, res.Errors)
		},
	}
	cmd.Flags().StringVar(&project, "project", "", "catalog project whose barcode sets resolve labels")
	cmd.Flags().BoolVar(&strict, "strict", false, "exit with an error when any cell is invalid")
	cmd.Flags().BoolVar(&payload, "payload", false, "print only the JSON payload")
	return cmd
}

func newRowsCommand(app application.Application) *cobra.Command {
	var project string
	var strict bool
	cmd := &cobra.Command{
		Use:   "rows [file]",
		Short: "Render a libraries payload as grid rows",
		Long: `Rows reads the libraries payload of a flow cell (a JSON list; blank,
null and {} mean no libraries) and prints the grid rows the editor would
show. Barcodes missing from the barcode sets of --project are reported.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := cmdutil.ReadInput(cmd, cmdutil.InputArg(args))
			if err != nil {
				return err
			}
			libs, err := samplesheet.ParseLibraries(data)
			if err != nil {
				return err
			}
			cat, err := loadCatalog(cmd.Context(), app, project)
			if err != nil {
				return err
			}

			rows, errs := samplesheet.RowsFromLibraries(libs, cat)
			res := RowsResult{Columns: samplesheet.Headers(), Rows: rows, Errors: errs}
			if res.Rows == nil {
				res.Rows = []samplesheet.Row{}
			}
			if res.Errors == nil {
				res.Errors = []samplesheet.CellError{}
			}
			if err := printResult(cmd, app, res, output.RowsTable(res.Rows), res.Errors); err != nil {
				return err
			}
			return strictErr(strict, res.Errors)
		},
	}
	cmd.Flags().StringVar(&project, "project", "", "catalog project whose barcode sets resolve barcodes")
	cmd.Flags().BoolVar(&strict, "strict", false, "exit with an error when any barcode is unknown")
	return cmd
}

// loadCatalog returns the barcode sets of project; no project means an
// empty catalog in which only manual barcodes resolve.
func loadCatalog(ctx context.Context, app application.Application, project string) (*samplesheet.Catalog, error) {
	if project == "" {
		return samplesheet.NewCatalog(nil), nil
	}
	src, err := app.Catalog()
	if err != nil {
		return nil, err
	}
	return catalog.Load(ctx, src, project)
}

// printResult renders data, adding the cell errors as a second table.
func printResult(cmd *cobra.Command, app application.Application, data any, table output.Data, errs []samplesheet.CellError) error {
	if err := cmdutil.Print(cmd, app.OutputFormat(), data, table); err != nil {
		return err
	}
	if len(errs) == 0 || output.DetectFormat(app.OutputFormat()) != output.FormatTable {
		return nil
	}
	return output.NewFormatter(output.FormatTable).Format(cmd.OutOrStdout(), output.CellErrorsTable(errs))
}

func strictErr(strict bool, errs []samplesheet.CellError) error {
	if !strict || len(errs) == 0 {
		return nil
	}
	return errors.NewValidationError("cells", len(errs), strconv.Itoa(len(errs))+" invalid cell(s), first: "+errs[0].Error())
}
