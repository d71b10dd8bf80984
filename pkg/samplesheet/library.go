package samplesheet

import (
	"bytes"
	"encoding/json"

	"github.com/digestiflow/flowsheet/internal/utils/ptr"
	"github.com/digestiflow/flowsheet/pkg/constants"
	"github.com/digestiflow/flowsheet/pkg/errors"
	"github.com/digestiflow/flowsheet/pkg/multirange"
)

// Library is one entry of the libraries payload of the flow cell form.
// Barcodes are either referenced by identifier or given as a sequence.
type Library struct {
	ID          string  `json:"uuid,omitempty" yaml:"uuid,omitempty"`
	Name        string  `json:"name" yaml:"name"`
	Reference   string  `json:"reference" yaml:"reference"`
	Barcode     *string `json:"barcode" yaml:"barcode"`
	BarcodeSeq  *string `json:"barcode_seq" yaml:"barcode_seq"`
	Barcode2    *string `json:"barcode2" yaml:"barcode2"`
	BarcodeSeq2 *string `json:"barcode_seq2" yaml:"barcode_seq2"`
	LaneNumbers []int   `json:"lane_numbers" yaml:"lane_numbers"`
}

// slot returns pointers to the barcode identifier and sequence of a slot.
func (l *Library) slot(s Slot) (barcode, seq **string) {
	if s == Slot2 {
		return &l.Barcode2, &l.BarcodeSeq2
	}
	return &l.Barcode, &l.BarcodeSeq
}

// RowsFromLibraries renders the payload as grid rows. A barcode identifier
// the catalog does not know leaves the slot blank and is reported as a cell
// error so the user can pick the barcode again.
func RowsFromLibraries(libs []Library, cat *Catalog) ([]Row, []CellError) {
	rows := make([]Row, len(libs))
	var errs []CellError
	for i, lib := range libs {
		row := &rows[i]
		row.ID = lib.ID
		row.SetCell(ColName, lib.Name)
		row.SetCell(ColReference, ReferenceLabel(lib.Reference))

		for _, s := range Slots {
			barcode, seq := lib.slot(s)
			switch {
			case ptr.Deref(*seq) != "":
				row.SetCell(s.SetColumn(), constants.ManualBarcodeLabel)
				row.SetCell(s.BarcodeColumn(), **seq)
			case ptr.Deref(*barcode) != "":
				entry, ok := cat.Barcode(**barcode)
				set, setOK := cat.Set(entry.BarcodeSet)
				if !ok || !setOK {
					errs = append(errs, CellError{
						Row:     i,
						Column:  s.BarcodeColumn(),
						Value:   **barcode,
						Message: "unknown barcode " + **barcode,
					})
					continue
				}
				row.SetCell(s.SetColumn(), set.Label())
				row.SetCell(s.BarcodeColumn(), entry.Label())
			}
		}

		row.SetCell(ColLanes, multirange.Format(lib.LaneNumbers))
	}
	return rows, errs
}

// LibrariesFromRows builds the payload from the grid. Rows without a name are
// dropped and lanes that do not parse become the empty list. Barcode labels
// are resolved through the selected set; a label the set does not contain
// yields no barcode.
func LibrariesFromRows(rows []Row, cat *Catalog) []Library {
	libs := make([]Library, 0, len(rows))
	for _, row := range rows {
		if row.Name() == "" {
			continue
		}
		lib := Library{
			ID:          row.ID,
			Name:        row.Name(),
			Reference:   ReferenceKey(row.Cell(ColReference)),
			LaneNumbers: multirange.ParseLenient(row.Cell(ColLanes)),
		}
		for _, s := range Slots {
			barcode, seq := lib.slot(s)
			setLabel := row.Cell(s.SetColumn())
			value := row.Cell(s.BarcodeColumn())
			if IsManual(setLabel) {
				*seq = ptr.NonZero(value)
				continue
			}
			if set, ok := cat.SetByLabel(setLabel); ok {
				if entry, ok := set.EntryByLabel(value); ok {
					*barcode = ptr.NonZero(entry.ID)
				}
			}
		}
		libs = append(libs, lib)
	}
	return libs
}

// ParseLibraries decodes the libraries payload. A blank field, null and the
// empty object of a new form all mean no libraries.
func ParseLibraries(data []byte) ([]Library, error) {
	switch string(bytes.TrimSpace(data)) {
	case "", "null", "{}":
		return []Library{}, nil
	}
	var libs []Library
	if err := json.Unmarshal(data, &libs); err != nil {
		return nil, errors.WrapParse("json", "libraries", err)
	}
	return libs, nil
}

// MarshalLibraries encodes the libraries payload. An empty sheet renders as [].
func MarshalLibraries(libs []Library) (string, error) {
	if libs == nil {
		libs = []Library{}
	}
	data, err := json.Marshal(libs)
	if err != nil {
		return "", errors.WrapParse("json", "libraries", err)
	}
	return string(data), nil
}
