package handlers

import (
	"net/http"

	"github.com/digestiflow/flowsheet/internal/server/response"
	"github.com/digestiflow/flowsheet/pkg/barcodes"
	"github.com/digestiflow/flowsheet/pkg/errors"
	"github.com/digestiflow/flowsheet/pkg/multirange"
	"github.com/digestiflow/flowsheet/pkg/validation"
)

// LanesResponse describes a parsed lane multi-range. Offset is the byte
// offset of the first bad item when the value is invalid.
type LanesResponse struct {
	Value     string `json:"value"`
	Valid     bool   `json:"valid"`
	Lanes     []int  `json:"lanes"`
	Canonical string `json:"canonical,omitempty"`
	Error     string `json:"error,omitempty"`
	Offset    *int   `json:"offset,omitempty"`
}

// RevCompRequest is the body of POST /revcomp.
type RevCompRequest struct {
	Sequences []string `json:"sequences"`
}

// ValidateRequest is the body of POST /validate.
type ValidateRequest struct {
	Field  string   `json:"field"`
	Values []string `json:"values"`
}

// ValidateResult is the verdict on one value.
type ValidateResult struct {
	Value string `json:"value"`
	Valid bool   `json:"valid"`
}

// HandleLanes handles GET /api/v1/lanes?value=.
func (h *Handlers) HandleLanes(w http.ResponseWriter, r *http.Request) {
	value := r.URL.Query().Get("value")
	resp := LanesResponse{Value: value, Lanes: []int{}}

	lanes, err := multirange.Parse(value)
	if err != nil {
		resp.Error = err.Error()
		var pe *errors.ParseError
		if errors.As(err, &pe) {
			offset := pe.Offset
			resp.Offset = &offset
			resp.Error = pe.Message
		}
		response.OK(w, resp)
		return
	}
	resp.Valid = true
	resp.Lanes = lanes
	resp.Canonical = multirange.Format(lanes)
	response.OK(w, resp)
}

// HandleRevComp handles POST /api/v1/revcomp.
func (h *Handlers) HandleRevComp(w http.ResponseWriter, r *http.Request) {
	var req RevCompRequest
	if !decode(w, r, &req) {
		return
	}
	out := make([]string, len(req.Sequences))
	for i, s := range req.Sequences {
		out[i] = barcodes.RevComp(s)
	}
	response.OK(w, map[string]any{"sequences": out})
}

// HandleValidate handles POST /api/v1/validate.
func (h *Handlers) HandleValidate(w http.ResponseWriter, r *http.Request) {
	var req ValidateRequest
	if !decode(w, r, &req) {
		return
	}
	if _, err := validation.Check(req.Field, ""); err != nil {
		response.ErrorFromType(w, err)
		return
	}
	results := make([]ValidateResult, 0, len(req.Values))
	for _, v := range req.Values {
		ok, _ := validation.Check(req.Field, v)
		results = append(results, ValidateResult{Value: v, Valid: ok})
	}
	response.OK(w, map[string]any{"field": req.Field, "results": results})
}
