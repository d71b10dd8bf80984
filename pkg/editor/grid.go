package editor

import (
	"sync"

	"github.com/digestiflow/flowsheet/pkg/constants"
)

// Grid is the spreadsheet widget a session drives. It holds string cells,
// accepts replacement datasets and reports user edits to one listener.
type Grid interface {
	RowCount() int
	Cell(row, col int) string
	SetCell(row, col int, value string)
	Load(data [][]string)
	OnChange(fn func(Event))
}

// Table is an in-memory Grid. Every write through SetCell, InsertRows and
// RemoveRows is reported to the listener, like edits in a browser grid are;
// Load replaces the data silently.
type Table struct {
	mu       sync.Mutex
	columns  int
	data     [][]string
	listener func(Event)
}

// NewTable returns an empty table with the given number of columns.
func NewTable(columns int) *Table {
	return &Table{columns: columns}
}

// RowCount returns the number of rows.
func (t *Table) RowCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.data)
}

// Cell returns the value at (row, col), or "" outside the table.
func (t *Table) Cell(row, col int) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if row < 0 || row >= len(t.data) || col < 0 || col >= t.columns {
		return ""
	}
	return t.data[row][col]
}

// SetCell writes one cell, growing the table when row is past the end, and
// notifies the listener. Rows at or past MaxRows are ignored.
func (t *Table) SetCell(row, col int, value string) {
	t.SetCells([]CellChange{{Row: row, Column: col, New: value}})
}

// SetCells writes a batch of cells, as a paste does, and notifies the
// listener once with the old values filled in.
func (t *Table) SetCells(changes []CellChange) {
	t.mu.Lock()
	applied := make([]CellChange, 0, len(changes))
	for _, c := range changes {
		if c.Row < 0 || c.Row >= constants.MaxRows || c.Column < 0 || c.Column >= t.columns {
			continue
		}
		for c.Row >= len(t.data) {
			t.data = append(t.data, make([]string, t.columns))
		}
		c.Old = t.data[c.Row][c.Column]
		t.data[c.Row][c.Column] = c.New
		applied = append(applied, c)
	}
	listener := t.listener
	t.mu.Unlock()

	if listener != nil && len(applied) > 0 {
		listener(CellsChanged{Changes: applied})
	}
}

// InsertRows inserts count blank rows before row at. The table never grows
// past MaxRows.
func (t *Table) InsertRows(at, count int) {
	t.mu.Lock()
	count = min(count, constants.MaxRows-len(t.data))
	if count <= 0 {
		t.mu.Unlock()
		return
	}
	at = clamp(at, 0, len(t.data))
	blank := make([][]string, count)
	for i := range blank {
		blank[i] = make([]string, t.columns)
	}
	t.data = append(t.data[:at], append(blank, t.data[at:]...)...)
	listener := t.listener
	t.mu.Unlock()

	if listener != nil {
		listener(RowsInserted{At: at, Count: count})
	}
}

// RemoveRows removes count rows starting at row at.
func (t *Table) RemoveRows(at, count int) {
	t.mu.Lock()
	at = clamp(at, 0, len(t.data))
	end := clamp(at+count, at, len(t.data))
	t.data = append(t.data[:at], t.data[end:]...)
	listener := t.listener
	t.mu.Unlock()

	if listener != nil && end > at {
		listener(RowsRemoved{At: at, Count: end - at})
	}
}

// Load replaces the whole dataset without notifying the listener.
func (t *Table) Load(data [][]string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.data = make([][]string, len(data))
	for i, row := range data {
		t.data[i] = make([]string, t.columns)
		copy(t.data[i], row)
	}
}

// Data returns a copy of the dataset.
func (t *Table) Data() [][]string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([][]string, len(t.data))
	for i, row := range t.data {
		out[i] = append([]string(nil), row...)
	}
	return out
}

// OnChange registers the change listener, replacing any previous one.
func (t *Table) OnChange(fn func(Event)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.listener = fn
}
