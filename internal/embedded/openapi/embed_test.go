package openapi

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpecJSON(t *testing.T) {
	out, err := SpecJSON()
	require.NoError(t, err)

	var doc struct {
		OpenAPI string                    `json:"openapi"`
		Paths   map[string]map[string]any `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(out, &doc))
	assert.Equal(t, "3.0.3", doc.OpenAPI)
	assert.Contains(t, doc.Paths, "/barcodesets/preview")
	assert.Contains(t, doc.Paths["/editor/ws"], "get")

	again, err := SpecJSON()
	require.NoError(t, err)
	assert.Equal(t, out, again)
}
