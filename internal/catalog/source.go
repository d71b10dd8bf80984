// Package catalog fetches the barcode sets a project may use in its sample
// sheets, from the barcode set API of a flow cell manager or from a local
// directory of YAML files.
package catalog

import (
	"context"
	"regexp"

	"github.com/digestiflow/flowsheet/pkg/errors"
	"github.com/digestiflow/flowsheet/pkg/samplesheet"
)

// Source provides the barcode sets of a project.
type Source interface {
	BarcodeSets(ctx context.Context, project string) ([]samplesheet.BarcodeSet, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context, project string) ([]samplesheet.BarcodeSet, error)

// BarcodeSets calls f.
func (f SourceFunc) BarcodeSets(ctx context.Context, project string) ([]samplesheet.BarcodeSet, error) {
	return f(ctx, project)
}

var projectRE = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)

// ValidateProject checks that project is usable as a URL path segment and as
// a directory name.
func ValidateProject(project string) error {
	if !projectRE.MatchString(project) || project == ".." {
		return errors.NewValidationError("project", project, "invalid project identifier")
	}
	return nil
}

// Load fetches the barcode sets of project and indexes them.
func Load(ctx context.Context, src Source, project string) (*samplesheet.Catalog, error) {
	sets, err := src.BarcodeSets(ctx, project)
	if err != nil {
		return nil, err
	}
	return samplesheet.NewCatalog(sets), nil
}
