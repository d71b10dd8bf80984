package handlers

import (
	"net/http"

	"github.com/digestiflow/flowsheet/internal/server/response"
	"github.com/digestiflow/flowsheet/pkg/samplesheet"
)

// SerializeRequest is the body of POST /samplesheet/serialize.
type SerializeRequest struct {
	Project string            `json:"project"`
	Rows    []samplesheet.Row `json:"rows"`
}

// SerializeResponse holds the libraries payload built from the rows and the
// cell errors found on the way.
type SerializeResponse struct {
	Libraries []samplesheet.Library   `json:"libraries"`
	Errors    []samplesheet.CellError `json:"errors"`
	Columns   []string                `json:"columns"`
}

// RowsRequest is the body of POST /samplesheet/rows.
type RowsRequest struct {
	Project   string                `json:"project"`
	Libraries []samplesheet.Library `json:"libraries"`
}

// RowsResponse holds the grid rows of a libraries payload and the barcodes
// the catalog could not resolve.
type RowsResponse struct {
	Rows    []samplesheet.Row       `json:"rows"`
	Errors  []samplesheet.CellError `json:"errors"`
	Columns []string                `json:"columns"`
}

// HandleSerialize handles POST /api/v1/samplesheet/serialize.
func (h *Handlers) HandleSerialize(w http.ResponseWriter, r *http.Request) {
	var req SerializeRequest
	if !decode(w, r, &req) {
		return
	}
	cat, ok := h.catalogFor(w, r, req.Project)
	if !ok {
		return
	}

	libs := samplesheet.LibrariesFromRows(req.Rows, cat)
	if libs == nil {
		libs = []samplesheet.Library{}
	}
	errs := samplesheet.ValidateRows(req.Rows, cat)
	if errs == nil {
		errs = []samplesheet.CellError{}
	}
	response.OK(w, SerializeResponse{
		Libraries: libs,
		Errors:    errs,
		Columns:   samplesheet.Headers(),
	})
}

// HandleRows handles POST /api/v1/samplesheet/rows.
func (h *Handlers) HandleRows(w http.ResponseWriter, r *http.Request) {
	var req RowsRequest
	if !decode(w, r, &req) {
		return
	}
	cat, ok := h.catalogFor(w, r, req.Project)
	if !ok {
		return
	}

	rows, errs := samplesheet.RowsFromLibraries(req.Libraries, cat)
	if rows == nil {
		rows = []samplesheet.Row{}
	}
	if errs == nil {
		errs = []samplesheet.CellError{}
	}
	response.OK(w, RowsResponse{
		Rows:    rows,
		Errors:  errs,
		Columns: samplesheet.Headers(),
	})
}
