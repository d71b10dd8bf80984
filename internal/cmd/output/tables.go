package output

import (
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/digestiflow/flowsheet/internal/utils/ptr"
	"github.com/digestiflow/flowsheet/pkg/barcodes"
	"github.com/digestiflow/flowsheet/pkg/editor"
	"github.com/digestiflow/flowsheet/pkg/samplesheet"
)

var statusColors = map[barcodes.Status]*color.Color{
	barcodes.StatusChanged:  color.New(color.FgYellow),
	barcodes.StatusAdded:    color.New(color.FgGreen),
	barcodes.StatusToRemove: color.New(color.FgRed),
	barcodes.StatusEmpty:    color.New(color.Faint),
}

// SetColor turns colored status cells on or off for the whole process.
func SetColor(enabled bool) {
	color.NoColor = !enabled
}

// StatusCell renders a status, colored when color output is enabled.
func StatusCell(s barcodes.Status) string {
	if c, ok := statusColors[s]; ok {
		return c.Sprint(string(s))
	}
	return string(s)
}

// StateTable renders a settled barcode set: one row per working row that
// is not empty, the preview lines below.
func StateTable(s editor.State) Data {
	d := Data{
		Headers:   []string{"#", "UUID", "Name", "Sequence", "Status"},
		Alignment: []Align{AlignRight, AlignLeft, AlignLeft, AlignLeft, AlignLeft},
	}
	for i, r := range s.Rows {
		if r.Status == barcodes.StatusEmpty {
			continue
		}
		id := string(r.ID)
		if id == "" {
			id = "-"
		}
		d.Rows = append(d.Rows, []string{strconv.Itoa(i + 1), id, r.Name, r.Sequence, StatusCell(r.Status)})
	}
	d.Footer = append(d.Footer, s.Preview...)
	if s.Changes != nil && s.Changes.HasChanges() {
		d.Footer = append(d.Footer, s.Changes.String())
	}
	return d
}

// LanesTable renders one row per parsed lane value.
func LanesTable(results []LaneResult) Data {
	d := Data{
		Headers:   []string{"Value", "Valid", "Lanes", "Canonical", "Error"},
		Alignment: []Align{AlignLeft, AlignCenter, AlignLeft, AlignLeft, AlignLeft},
	}
	for _, r := range results {
		lanes := make([]string, len(r.Lanes))
		for i, l := range r.Lanes {
			lanes[i] = strconv.Itoa(l)
		}
		d.Rows = append(d.Rows, []string{r.Value, yesNo(r.Valid), strings.Join(lanes, " "), r.Canonical, r.Error})
	}
	return d
}

// LaneResult is the outcome of parsing one lane multi-range.
type LaneResult struct {
	Value     string `json:"value" yaml:"value"`
	Valid     bool   `json:"valid" yaml:"valid"`
	Lanes     []int  `json:"lanes" yaml:"lanes"`
	Canonical string `json:"canonical,omitempty" yaml:"canonical,omitempty"`
	Error     string `json:"error,omitempty" yaml:"error,omitempty"`
}

// RowsTable renders sample sheet grid rows with their column headers.
func RowsTable(rows []samplesheet.Row) Data {
	d := Data{Headers: append([]string{"#"}, samplesheet.Headers()...)}
	for i, r := range rows {
		d.Rows = append(d.Rows, append([]string{strconv.Itoa(i + 1)}, r.Cells[:]...))
	}
	return d
}

// LibrariesTable renders the libraries payload of a sample sheet.
func LibrariesTable(libs []samplesheet.Library) Data {
	d := Data{Headers: []string{"Name", "Reference", "Barcode", "Barcode Seq", "Barcode 2", "Barcode Seq 2", "Lanes"}}
	for _, l := range libs {
		d.Rows = append(d.Rows, []string{
			l.Name,
			l.Reference,
			ptr.DerefOr(l.Barcode, "-"),
			ptr.DerefOr(l.BarcodeSeq, "-"),
			ptr.DerefOr(l.Barcode2, "-"),
			ptr.DerefOr(l.BarcodeSeq2, "-"),
			intsString(l.LaneNumbers),
		})
	}
	return d
}

// CellErrorsTable renders cell errors with one-based row numbers.
func CellErrorsTable(errs []samplesheet.CellError) Data {
	d := Data{Headers: []string{"Row", "Column", "Value", "Message"}}
	for _, e := range errs {
		d.Rows = append(d.Rows, []string{strconv.Itoa(e.Row + 1), e.Column.String(), e.Value, e.Message})
	}
	return d
}

// BarcodeSetsTable lists the sets of a catalog and their sizes.
func BarcodeSetsTable(sets []samplesheet.BarcodeSet) Data {
	d := Data{
		Headers:   []string{"Short Name", "Name", "Description", "Barcodes", "UUID"},
		Alignment: []Align{AlignLeft, AlignLeft, AlignLeft, AlignRight, AlignLeft},
	}
	for _, s := range sets {
		d.Rows = append(d.Rows, []string{s.ShortName, s.Name, s.Description, strconv.Itoa(len(s.Entries)), s.ID})
	}
	return d
}

// ValuesTable renders field validation verdicts.
func ValuesTable(field string, values []string, valid []bool) Data {
	d := Data{Headers: []string{HeaderName(field), "Valid"}}
	for i, v := range values {
		d.Rows = append(d.Rows, []string{v, yesNo(valid[i])})
	}
	return d
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func intsString(v []int) string {
	parts := make([]string, len(v))
	for i, n := range v {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}
