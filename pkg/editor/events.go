// Package editor runs the editing sessions behind the spreadsheet grids: a
// barcode set editor driven by a pure reducer and a sample sheet editor.
// Sessions are plain values owned by the caller; nothing is shared between
// them.
package editor

import "github.com/digestiflow/flowsheet/pkg/constants"

// Columns of the barcode set grid.
const (
	ColName = iota
	ColSequence
	ColStatus
	NumColumns
)

// Headers are the column headers of the barcode set grid.
var Headers = []string{"name", "sequence", "status"}

// CellChange is one cell edit reported by the grid.
type CellChange struct {
	Row    int    `json:"row"`
	Column int    `json:"column"`
	Old    string `json:"old"`
	New    string `json:"new"`
}

// Range is a rectangular grid selection. Corners may be given in any order.
type Range struct {
	FromRow int `json:"from_row"`
	FromCol int `json:"from_col"`
	ToRow   int `json:"to_row"`
	ToCol   int `json:"to_col"`
}

// Rows returns the row indices covered by the range, top to bottom.
func (r Range) Rows() []int {
	return span(r.FromRow, r.ToRow)
}

// Cols returns the column indices covered by the range, left to right.
func (r Range) Cols() []int {
	return span(r.FromCol, r.ToCol)
}

// span lists a..b clipped to [0, MaxRows).
func span(a, b int) []int {
	if a > b {
		a, b = b, a
	}
	a = max(a, 0)
	b = min(b, constants.MaxRows-1)
	var out []int
	for i := a; i <= b; i++ {
		out = append(out, i)
	}
	return out
}

// Event is an edit dispatched to a session.
type Event interface {
	event()
}

// CellsChanged is a batch of cell edits, typically one paste or one keystroke.
type CellsChanged struct {
	Changes []CellChange `json:"changes"`
}

// RowsInserted inserts Count blank rows before row At.
type RowsInserted struct {
	At    int `json:"at"`
	Count int `json:"count"`
}

// RowsRemoved removes Count rows starting at row At.
type RowsRemoved struct {
	At    int `json:"at"`
	Count int `json:"count"`
}

// ReverseComplement reverse-complements the sequences of the selected rows.
type ReverseComplement struct {
	Ranges []Range `json:"ranges"`
}

func (CellsChanged) event()      {}
func (RowsInserted) event()      {}
func (RowsRemoved) event()       {}
func (ReverseComplement) event() {}
