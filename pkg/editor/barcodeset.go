package editor

import (
	"github.com/rs/zerolog"

	"github.com/digestiflow/flowsheet/pkg/barcodes"
)

// BarcodeSetEditor binds a grid to a barcode set session. Every user edit
// reported by the grid runs exactly one pass; the session's own writes back
// into the grid are ignored by the guard.
//
// A BarcodeSetEditor is not safe for concurrent use; events are expected
// one at a time, as a UI event loop delivers them.
type BarcodeSetEditor struct {
	grid   Grid
	sink   Sink
	guard  Guard
	state  State
	passes int
	logger *zerolog.Logger
}

// NewBarcodeSetEditor loads the snapshot into grid, writes the initial
// payload to sink and starts listening for edits. sink may be nil.
func NewBarcodeSetEditor(grid Grid, snap *barcodes.Snapshot, sink Sink, opts ...Option) *BarcodeSetEditor {
	cfg := newConfig(opts)
	e := &BarcodeSetEditor{
		grid:   grid,
		sink:   sink,
		state:  NewState(snap, cfg.spare),
		logger: cfg.logger,
	}
	e.guard.Do(e.render)
	grid.OnChange(e.handle)
	return e
}

func (e *BarcodeSetEditor) handle(ev Event) {
	e.Dispatch(ev)
}

// Dispatch runs one pass for ev and reports whether it ran. Events arriving
// while a pass is running are dropped.
func (e *BarcodeSetEditor) Dispatch(ev Event) bool {
	return e.guard.Do(func() {
		e.state = Reduce(e.state, ev)
		e.passes++
		e.render()

		e.logger.Debug().
			Int("pass", e.passes).
			Int("rows", len(e.state.Rows)).
			Int("reassigned", e.state.Changes.Reassigned).
			Int("changes", e.state.Changes.Summary.TotalChanges).
			Msg("barcode set settled")
	})
}

// ReverseComplement reverse-complements the sequences of the selected rows
// in a single pass.
func (e *BarcodeSetEditor) ReverseComplement(ranges ...Range) bool {
	return e.Dispatch(ReverseComplement{Ranges: ranges})
}

// render writes the settled rows back into the grid and the payload into
// the sink. It must run under the guard.
func (e *BarcodeSetEditor) render() {
	data := gridData(e.state.Rows)
	if e.grid.RowCount() != len(data) {
		e.grid.Load(data)
	} else {
		for i, row := range data {
			for col, v := range row {
				if e.grid.Cell(i, col) != v {
					e.grid.SetCell(i, col, v)
				}
			}
		}
	}
	if e.sink != nil {
		e.sink.Write(e.state.Payload)
	}
}

// State returns the settled state of the last pass.
func (e *BarcodeSetEditor) State() State {
	return e.state
}

// Preview returns the change preview lines of the last pass.
func (e *BarcodeSetEditor) Preview() []string {
	return e.state.Preview
}

// Passes returns the number of passes run since the session started.
func (e *BarcodeSetEditor) Passes() int {
	return e.passes
}

func gridData(rows barcodes.Rows) [][]string {
	data := make([][]string, len(rows))
	for i, r := range rows {
		status := ""
		if r.Status != barcodes.StatusEmpty {
			status = string(r.Status)
		}
		data[i] = []string{r.Name, r.Sequence, status}
	}
	return data
}
