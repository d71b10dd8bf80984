package samplesheet

import (
	"fmt"
	"strings"

	"github.com/digestiflow/flowsheet/pkg/barcodes"
	"github.com/digestiflow/flowsheet/pkg/validation"
)

// CellError is a validation failure of one grid cell. It is reported, never
// raised: the row stays editable.
type CellError struct {
	Row     int    `json:"row" yaml:"row"`
	Column  Column `json:"column" yaml:"column"`
	Value   string `json:"value" yaml:"value"`
	Message string `json:"message" yaml:"message"`
}

func (e CellError) Error() string {
	return fmt.Sprintf("row %d, %s: %s", e.Row+1, e.Column, e.Message)
}

// LookupName replaces a bare barcode name (or alias) in the barcode cell of
// slot with the label of the matching entry of the selected set. It reports
// whether the cell changed.
func LookupName(row *Row, s Slot, cat *Catalog) bool {
	set, ok := cat.SetByLabel(row.Cell(s.SetColumn()))
	if !ok {
		return false
	}
	value := row.Cell(s.BarcodeColumn())
	entry, ok := set.EntryByName(value)
	if !ok || entry.Label() == value {
		return false
	}
	row.SetCell(s.BarcodeColumn(), entry.Label())
	return true
}

// ReverseComplementCell reverse-complements the manually typed barcodes of
// slot, one comma-separated sequence at a time. Barcodes chosen from a set
// are left alone. It reports whether the cell changed.
func ReverseComplementCell(row *Row, s Slot) bool {
	if !IsManual(row.Cell(s.SetColumn())) {
		return false
	}
	value := row.Cell(s.BarcodeColumn())
	if value == "" {
		return false
	}
	parts := strings.Split(value, ",")
	for i, p := range parts {
		parts[i] = barcodes.RevComp(p)
	}
	out := strings.Join(parts, ",")
	row.SetCell(s.BarcodeColumn(), out)
	return out != value
}

// ValidateRow checks the cells of a row. Blank rows are valid.
func ValidateRow(index int, row Row, cat *Catalog) []CellError {
	if row.IsBlank() {
		return nil
	}
	var errs []CellError
	fail := func(c Column, msg string) {
		errs = append(errs, CellError{Row: index, Column: c, Value: row.Cell(c), Message: msg})
	}

	if !validation.SampleName(row.Name()) {
		fail(ColName, "invalid sample name, use letters, digits, '-' and '_'")
	}

	for _, s := range Slots {
		setLabel := row.Cell(s.SetColumn())
		value := row.Cell(s.BarcodeColumn())
		switch {
		case setLabel == "":
			if value != "" {
				fail(s.BarcodeColumn(), "select a barcode set first")
			}
		case IsManual(setLabel):
			if !validation.BarcodeSequences(value) {
				fail(s.BarcodeColumn(), "invalid barcode sequence")
			}
		default:
			set, ok := cat.SetByLabel(setLabel)
			if !ok {
				fail(s.SetColumn(), "unknown barcode set")
				continue
			}
			if value == "" {
				continue
			}
			if _, ok := set.EntryByLabel(value); !ok {
				fail(s.BarcodeColumn(), fmt.Sprintf("barcode is not part of %s", set.Name))
			}
		}
	}

	if !validation.LaneRange(row.Cell(ColLanes)) {
		fail(ColLanes, "invalid lanes, use e.g. 1-4,6")
	}
	return errs
}

// ValidateRows checks every row of the grid.
func ValidateRows(rows []Row, cat *Catalog) []CellError {
	var errs []CellError
	for i, row := range rows {
		errs = append(errs, ValidateRow(i, row, cat)...)
	}
	return errs
}

// CellKind describes how the grid edits a cell.
type CellKind string

// Cell kinds.
const (
	KindText         CellKind = "text"
	KindDropdown     CellKind = "dropdown"
	KindAutocomplete CellKind = "autocomplete"
	KindReadOnly     CellKind = "read-only"
)

// CellOptions tells the grid how to render and edit one cell.
type CellOptions struct {
	Kind    CellKind `json:"kind" yaml:"kind"`
	Choices []string `json:"choices,omitempty" yaml:"choices,omitempty"`
}

// Options returns the editing options of column c in row. Barcode cells
// depend on the selected set: read-only without a set, free text for manual
// entry, a dropdown of the set's labels otherwise.
func Options(row Row, c Column, cat *Catalog) CellOptions {
	switch c {
	case ColReference:
		return CellOptions{Kind: KindAutocomplete, Choices: ReferenceLabels()}
	case ColBarcodeSet, ColBarcodeSet2:
		return CellOptions{Kind: KindDropdown, Choices: cat.SetLabels()}
	case ColBarcode, ColBarcode2:
		s, _ := SlotOf(c)
		setLabel := row.Cell(s.SetColumn())
		if setLabel == "" {
			return CellOptions{Kind: KindReadOnly}
		}
		if set, ok := cat.SetByLabel(setLabel); ok {
			return CellOptions{Kind: KindDropdown, Choices: set.EntryLabels()}
		}
		return CellOptions{Kind: KindText}
	}
	return CellOptions{Kind: KindText}
}
