package editor

import (
	"slices"

	"github.com/rs/zerolog"

	"github.com/digestiflow/flowsheet/pkg/constants"
	"github.com/digestiflow/flowsheet/pkg/samplesheet"
)

// SampleSheetEditor binds a library grid to a barcode catalog. After every
// user edit it expands barcode names to labels, validates the cells and
// writes the libraries payload to the sink.
//
// A SampleSheetEditor is not safe for concurrent use.
type SampleSheetEditor struct {
	grid    Grid
	catalog *samplesheet.Catalog
	sink    Sink
	guard   Guard
	spare   int
	ids     []string
	errs    []samplesheet.CellError
	payload string
	passes  int
	logger  *zerolog.Logger
}

// NewSampleSheetEditor starts listening for edits on grid. sink may be nil.
func NewSampleSheetEditor(grid Grid, cat *samplesheet.Catalog, sink Sink, opts ...Option) *SampleSheetEditor {
	cfg := newConfig(opts)
	e := &SampleSheetEditor{
		grid:    grid,
		catalog: cat,
		sink:    sink,
		spare:   cfg.spare,
		logger:  cfg.logger,
	}
	grid.OnChange(e.handle)
	return e
}

// LoadLibraries replaces the grid content with the libraries payload. The
// listener is suspended while loading; it returns the barcodes the catalog
// could not resolve.
func (e *SampleSheetEditor) LoadLibraries(libs []samplesheet.Library) []samplesheet.CellError {
	var unresolved []samplesheet.CellError
	e.guard.Do(func() {
		rows, errs := samplesheet.RowsFromLibraries(libs, e.catalog)
		unresolved = errs
		e.ids = make([]string, len(rows))
		data := make([][]string, len(rows))
		for i, r := range rows {
			e.ids[i] = r.ID
			data[i] = r.Cells[:]
		}
		e.grid.Load(data)
		e.settle()
	})
	return unresolved
}

func (e *SampleSheetEditor) handle(ev Event) {
	e.Dispatch(ev)
}

// Dispatch runs one pass for ev and reports whether it ran.
func (e *SampleSheetEditor) Dispatch(ev Event) bool {
	return e.guard.Do(func() {
		switch ev := ev.(type) {
		case CellsChanged:
			for _, c := range ev.Changes {
				if slot, ok := barcodeSlot(c.Column); ok {
					e.lookup(c.Row, slot)
				}
			}
		case RowsInserted:
			at := clamp(ev.At, 0, len(e.ids))
			e.ids = slices.Insert(e.ids, at, make([]string, max(min(ev.Count, constants.MaxRows-len(e.ids)), 0))...)
		case RowsRemoved:
			at := clamp(ev.At, 0, len(e.ids))
			e.ids = slices.Delete(e.ids, at, clamp(at+ev.Count, at, len(e.ids)))
		case ReverseComplement:
			e.reverseComplement(ev.Ranges)
		}
		e.settle()
	})
}

// ReverseComplement reverse-complements the manually typed barcodes in the
// selected cells.
func (e *SampleSheetEditor) ReverseComplement(ranges ...Range) bool {
	return e.Dispatch(ReverseComplement{Ranges: ranges})
}

// LookupNames repeats the barcode name lookup for the selected cells.
func (e *SampleSheetEditor) LookupNames(ranges ...Range) bool {
	return e.guard.Do(func() {
		for _, r := range ranges {
			for _, row := range r.Rows() {
				for _, col := range r.Cols() {
					if slot, ok := barcodeSlot(col); ok {
						e.lookup(row, slot)
					}
				}
			}
		}
		e.settle()
	})
}

func barcodeSlot(col int) (samplesheet.Slot, bool) {
	switch samplesheet.Column(col) {
	case samplesheet.ColBarcode:
		return samplesheet.Slot1, true
	case samplesheet.ColBarcode2:
		return samplesheet.Slot2, true
	}
	return 0, false
}

func (e *SampleSheetEditor) lookup(i int, slot samplesheet.Slot) {
	if i < 0 || i >= e.grid.RowCount() {
		return
	}
	row := e.row(i)
	if samplesheet.LookupName(&row, slot, e.catalog) {
		col := slot.BarcodeColumn()
		e.grid.SetCell(i, int(col), row.Cell(col))
	}
}

func (e *SampleSheetEditor) reverseComplement(ranges []Range) {
	for _, r := range ranges {
		for _, i := range r.Rows() {
			if i >= e.grid.RowCount() {
				continue
			}
			for _, col := range r.Cols() {
				slot, ok := barcodeSlot(col)
				if !ok {
					continue
				}
				row := e.row(i)
				if samplesheet.ReverseComplementCell(&row, slot) {
					bc := slot.BarcodeColumn()
					e.grid.SetCell(i, int(bc), row.Cell(bc))
				}
			}
		}
	}
}

// settle pads the grid with spare rows, validates and writes the payload.
// It must run under the guard.
func (e *SampleSheetEditor) settle() {
	for len(e.ids) < e.grid.RowCount() {
		e.ids = append(e.ids, "")
	}
	rows := e.Rows()
	blank := 0
	for i := len(rows) - 1; i >= 0 && rows[i].IsBlank(); i-- {
		blank++
	}
	if blank < e.spare {
		data := make([][]string, len(rows), len(rows)+e.spare-blank)
		for i, r := range rows {
			data[i] = r.Cells[:]
		}
		for ; blank < e.spare; blank++ {
			data = append(data, make([]string, samplesheet.NumColumns))
		}
		e.grid.Load(data)
		rows = e.Rows()
	}

	e.errs = samplesheet.ValidateRows(rows, e.catalog)
	libs := samplesheet.LibrariesFromRows(rows, e.catalog)
	if payload, err := samplesheet.MarshalLibraries(libs); err == nil {
		e.payload = payload
		if e.sink != nil {
			e.sink.Write(payload)
		}
	}
	e.passes++

	e.logger.Debug().
		Int("pass", e.passes).
		Int("libraries", len(libs)).
		Int("errors", len(e.errs)).
		Msg("sample sheet settled")
}

func (e *SampleSheetEditor) row(i int) samplesheet.Row {
	var r samplesheet.Row
	if i < len(e.ids) {
		r.ID = e.ids[i]
	}
	for c := range samplesheet.NumColumns {
		r.SetCell(c, e.grid.Cell(i, int(c)))
	}
	return r
}

// Rows returns the current grid content.
func (e *SampleSheetEditor) Rows() []samplesheet.Row {
	rows := make([]samplesheet.Row, e.grid.RowCount())
	for i := range rows {
		rows[i] = e.row(i)
	}
	return rows
}

// Errors returns the cell errors found by the last pass.
func (e *SampleSheetEditor) Errors() []samplesheet.CellError {
	return e.errs
}

// Payload returns the libraries payload written by the last pass.
func (e *SampleSheetEditor) Payload() string {
	return e.payload
}

// Passes returns the number of passes run since the session started.
func (e *SampleSheetEditor) Passes() int {
	return e.passes
}
