// Package openapi embeds the OpenAPI document of the flowsheet HTTP API.
// The server serves it at {prefix}/openapi.yaml and {prefix}/openapi.json.
package openapi

import (
	_ "embed"
	"sync"

	"github.com/goccy/go-yaml"

	"github.com/digestiflow/flowsheet/pkg/errors"
)

// SpecYAML contains the OpenAPI 3.0 document in YAML format.
//
//go:embed openapi.yaml
var SpecYAML []byte

var specJSON = sync.OnceValues(func() ([]byte, error) {
	out, err := yaml.YAMLToJSON(SpecYAML)
	if err != nil {
		return nil, errors.WrapParse("yaml", "openapi.yaml", err)
	}
	return out, nil
})

// SpecJSON returns the document converted to JSON. The conversion runs once.
func SpecJSON() ([]byte, error) {
	return specJSON()
}
