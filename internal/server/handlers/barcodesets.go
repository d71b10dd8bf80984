package handlers

import (
	"net/http"

	"github.com/digestiflow/flowsheet/internal/catalog"
	"github.com/digestiflow/flowsheet/internal/server/response"
	ws "github.com/digestiflow/flowsheet/internal/server/websocket"
	"github.com/digestiflow/flowsheet/pkg/barcodes"
	"github.com/digestiflow/flowsheet/pkg/constants"
	"github.com/digestiflow/flowsheet/pkg/editor"
	"github.com/digestiflow/flowsheet/pkg/logging"
	"github.com/digestiflow/flowsheet/pkg/samplesheet"
)

// PreviewRequest is the body of POST /barcodesets/preview. Working
// defaults to the snapshot itself.
type PreviewRequest struct {
	Snapshot  []barcodes.Record `json:"snapshot"`
	Working   barcodes.Rows     `json:"working"`
	SpareRows *int              `json:"spare_rows,omitempty"`
}

// PreviewResponse is the settled state of the working rows.
type PreviewResponse struct {
	editor.State
	Summary string `json:"summary"`
}

// HandleBarcodeSets handles GET /api/v1/barcodesets/{project}.
func (h *Handlers) HandleBarcodeSets(w http.ResponseWriter, r *http.Request) {
	sets, ok := h.fetch(w, r, r.PathValue("project"))
	if !ok {
		return
	}
	response.OK(w, sets)
}

// fetch loads the barcode sets of project, answering the request itself on
// failure.
func (h *Handlers) fetch(w http.ResponseWriter, r *http.Request, project string) ([]samplesheet.BarcodeSet, bool) {
	if h.source == nil {
		response.ServiceUnavailable(w, "No barcode catalog is configured")
		return nil, false
	}
	ctx := logging.WithProject(r.Context(), project)
	sets, err := h.source.BarcodeSets(ctx, project)
	h.metrics.RecordCatalogFetch(err)
	if err != nil {
		logging.FromContext(ctx).Warn().Err(err).Msg("Barcode catalog fetch failed")
		response.ErrorFromType(w, err)
		return nil, false
	}
	return sets, true
}

// catalogFor returns the catalog of project, or an empty catalog when
// project is empty.
func (h *Handlers) catalogFor(w http.ResponseWriter, r *http.Request, project string) (*samplesheet.Catalog, bool) {
	if project == "" {
		return samplesheet.NewCatalog(nil), true
	}
	sets, ok := h.fetch(w, r, project)
	if !ok {
		return nil, false
	}
	return samplesheet.NewCatalog(sets), true
}

// HandleInvalidate handles DELETE /api/v1/barcodesets/{project}/cache. Open
// editor sessions are told that the catalog changed.
func (h *Handlers) HandleInvalidate(w http.ResponseWriter, r *http.Request) {
	project := r.PathValue("project")
	if err := catalog.ValidateProject(project); err != nil {
		response.ErrorFromType(w, err)
		return
	}
	if h.cache == nil {
		response.OK(w, map[string]any{"project": project, "invalidated": false})
		return
	}
	h.cache.Invalidate(project)
	h.hub.Broadcast(ws.Message{
		Type: ws.TypeNotice,
		Data: map[string]any{"event": "catalog.invalidated", "project": project},
	})
	response.OK(w, map[string]any{"project": project, "invalidated": true})
}

// HandlePreview handles POST /api/v1/barcodesets/preview.
func (h *Handlers) HandlePreview(w http.ResponseWriter, r *http.Request) {
	var req PreviewRequest
	if !decode(w, r, &req) {
		return
	}
	spare := 0
	if req.SpareRows != nil {
		spare = min(max(*req.SpareRows, 0), constants.MaxSpareRows)
	}

	state := editor.Evaluate(barcodes.NewSnapshot(req.Snapshot), req.Working, spare)
	h.metrics.RecordPass("preview")

	response.OK(w, PreviewResponse{
		State:   state,
		Summary: state.Changes.String(),
	})
}
