package catalog

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog"

	"github.com/digestiflow/flowsheet/pkg/constants"
	"github.com/digestiflow/flowsheet/pkg/errors"
	"github.com/digestiflow/flowsheet/pkg/logging"
	"github.com/digestiflow/flowsheet/pkg/samplesheet"
)

// DirSource reads barcode sets from files laid out as
// <Root>/<project>/<set>.yaml. Each file holds one barcode set; .yml and
// .json files are read as well. Sets are returned in file name order.
type DirSource struct {
	Root   string
	Logger *zerolog.Logger
}

// NewDirSource creates a source reading below root.
func NewDirSource(root string) *DirSource {
	return &DirSource{Root: root}
}

// BarcodeSets implements Source.
func (s *DirSource) BarcodeSets(ctx context.Context, project string) ([]samplesheet.BarcodeSet, error) {
	if err := ValidateProject(project); err != nil {
		return nil, err
	}
	dir := filepath.Join(s.Root, project)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFoundError("project", project)
		}
		return nil, errors.WrapIO("read", dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".yaml", ".yml", ".json":
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)

	sets := make([]samplesheet.BarcodeSet, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, errors.WrapIO("read", dir, err)
		}
		set, err := readSet(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		sets = append(sets, set)
	}

	logging.OrNop(s.Logger).Debug().
		Str("project", project).
		Str("dir", dir).
		Int("sets", len(sets)).
		Msg("loaded barcode sets")
	return sets, nil
}

func readSet(path string) (samplesheet.BarcodeSet, error) {
	var set samplesheet.BarcodeSet
	data, err := os.ReadFile(path)
	if err != nil {
		return set, errors.WrapIO("read", path, err)
	}
	if err := yaml.Unmarshal(data, &set); err != nil {
		return set, errors.WrapParse("yaml", path, err)
	}
	if set.ShortName == "" {
		set.ShortName = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if set.ID == "" {
		set.ID = set.ShortName
	}
	for i := range set.Entries {
		if set.Entries[i].BarcodeSet == "" {
			set.Entries[i].BarcodeSet = set.ID
		}
	}
	return set, nil
}

// WriteSet stores set as <Root>/<project>/<short name>.yaml.
func (s *DirSource) WriteSet(project string, set samplesheet.BarcodeSet) (string, error) {
	if err := ValidateProject(project); err != nil {
		return "", err
	}
	if err := ValidateProject(set.ShortName); err != nil {
		return "", err
	}
	dir := filepath.Join(s.Root, project)
	if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
		return "", errors.WrapIO("mkdir", dir, err)
	}
	data, err := yaml.Marshal(set)
	if err != nil {
		return "", errors.WrapParse("yaml", set.ShortName, err)
	}
	path := filepath.Join(dir, set.ShortName+".yaml")
	if err := os.WriteFile(path, data, constants.FilePermissions); err != nil {
		return "", errors.WrapIO("write", path, err)
	}
	return path, nil
}
