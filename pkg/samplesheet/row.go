package samplesheet

import "fmt"

// Column identifies a column of the library grid.
type Column int

// Grid columns, in display order.
const (
	ColName Column = iota
	ColReference
	ColBarcodeSet
	ColBarcode
	ColBarcodeSet2
	ColBarcode2
	ColLanes
	NumColumns
)

var columnHeaders = [NumColumns]string{
	"name",
	"reference",
	"barcode set #1",
	"barcode #1",
	"barcode set #2",
	"barcode #2",
	"lanes",
}

// Headers returns the column headers in display order.
func Headers() []string {
	return columnHeaders[:]
}

// String returns the column header.
func (c Column) String() string {
	if c < 0 || c >= NumColumns {
		return fmt.Sprintf("column(%d)", int(c))
	}
	return columnHeaders[c]
}

// Slot selects one of the two barcode positions of a library.
type Slot int

// Barcode slots.
const (
	Slot1 Slot = iota
	Slot2
)

// Slots lists both barcode slots.
var Slots = []Slot{Slot1, Slot2}

// SetColumn returns the barcode set column of the slot.
func (s Slot) SetColumn() Column {
	if s == Slot2 {
		return ColBarcodeSet2
	}
	return ColBarcodeSet
}

// BarcodeColumn returns the barcode column of the slot.
func (s Slot) BarcodeColumn() Column {
	if s == Slot2 {
		return ColBarcode2
	}
	return ColBarcode
}

// SlotOf returns the slot a barcode or barcode set column belongs to.
func SlotOf(c Column) (Slot, bool) {
	switch c {
	case ColBarcodeSet, ColBarcode:
		return Slot1, true
	case ColBarcodeSet2, ColBarcode2:
		return Slot2, true
	}
	return 0, false
}

// Row is one line of the library grid. ID carries the identifier of a
// persisted library through the grid; it has no column.
type Row struct {
	ID    string             `json:"uuid,omitempty" yaml:"uuid,omitempty"`
	Cells [NumColumns]string `json:"cells" yaml:"cells"`
}

// NewRow builds a row from cell values in column order.
func NewRow(cells ...string) Row {
	var r Row
	copy(r.Cells[:], cells)
	return r
}

// Cell returns the value of column c.
func (r Row) Cell(c Column) string {
	if c < 0 || c >= NumColumns {
		return ""
	}
	return r.Cells[c]
}

// SetCell sets the value of column c.
func (r *Row) SetCell(c Column, v string) {
	if c < 0 || c >= NumColumns {
		return
	}
	r.Cells[c] = v
}

// Name returns the library name cell.
func (r Row) Name() string { return r.Cells[ColName] }

// IsBlank reports whether every cell is empty.
func (r Row) IsBlank() bool {
	for _, v := range r.Cells {
		if v != "" {
			return false
		}
	}
	return true
}
