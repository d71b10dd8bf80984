// Package samplesheet maps between the rows of a flow cell's library grid and
// the libraries payload submitted with the flow cell form. Barcodes are
// chosen from a catalog of barcode sets or typed in manually.
package samplesheet

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/digestiflow/flowsheet/pkg/barcodes"
	"github.com/digestiflow/flowsheet/pkg/constants"
)

// BarcodeEntry is one barcode of a barcode set as served by the barcode set
// API.
type BarcodeEntry struct {
	ID         string   `json:"sodar_uuid" yaml:"sodar_uuid"`
	Name       string   `json:"name" yaml:"name"`
	Sequence   string   `json:"sequence" yaml:"sequence"`
	Aliases    []string `json:"aliases" yaml:"aliases"`
	BarcodeSet string   `json:"barcode_set" yaml:"barcode_set"`
}

// Label is the grid representation of the barcode: "<name> (<sequence>)".
func (e BarcodeEntry) Label() string {
	return fmt.Sprintf("%s (%s)", e.Name, e.Sequence)
}

// BarcodeSet is a named kit of barcodes.
type BarcodeSet struct {
	ID          string         `json:"sodar_uuid" yaml:"sodar_uuid"`
	Name        string         `json:"name" yaml:"name"`
	ShortName   string         `json:"short_name" yaml:"short_name"`
	Description string         `json:"description" yaml:"description"`
	SetType     string         `json:"set_type" yaml:"set_type"`
	Entries     []BarcodeEntry `json:"entries" yaml:"entries"`
}

// Label is the grid representation of the set: "<name> (<short name>)".
func (s *BarcodeSet) Label() string {
	return fmt.Sprintf("%s (%s)", s.Name, s.ShortName)
}

// EntryByLabel returns the entry whose label is label.
func (s *BarcodeSet) EntryByLabel(label string) (BarcodeEntry, bool) {
	for _, e := range s.Entries {
		if e.Label() == label {
			return e, true
		}
	}
	return BarcodeEntry{}, false
}

// EntryByName returns the entry called name. Names win over aliases; among
// aliases the first entry in set order wins.
func (s *BarcodeSet) EntryByName(name string) (BarcodeEntry, bool) {
	if name == "" {
		return BarcodeEntry{}, false
	}
	for _, e := range s.Entries {
		if e.Name == name {
			return e, true
		}
	}
	for _, e := range s.Entries {
		if slices.Contains(e.Aliases, name) {
			return e, true
		}
	}
	return BarcodeEntry{}, false
}

// Records returns the entries as barcode set editor records, the snapshot
// an edit of this set starts from.
func (s *BarcodeSet) Records() []barcodes.Record {
	out := make([]barcodes.Record, len(s.Entries))
	for i, e := range s.Entries {
		out[i] = barcodes.Record{
			ID:       barcodes.ID(e.ID),
			Name:     e.Name,
			Sequence: e.Sequence,
			Aliases:  strings.Join(e.Aliases, ","),
		}
	}
	return out
}

// EntryLabels returns the labels of all entries in set order.
func (s *BarcodeSet) EntryLabels() []string {
	labels := make([]string, len(s.Entries))
	for i, e := range s.Entries {
		labels[i] = e.Label()
	}
	return labels
}

var shortNameRE = regexp.MustCompile(`^.*\((.*)\)$`)

// ShortName extracts the parenthesised suffix of a label, or "" when the
// label has none.
func ShortName(label string) string {
	m := shortNameRE.FindStringSubmatch(label)
	if m == nil {
		return ""
	}
	return m[1]
}

// IsManual reports whether a barcode set cell selects manual entry.
func IsManual(setLabel string) bool {
	return setLabel == constants.ManualBarcodeLabel
}

// Catalog indexes the barcode sets available to a project.
type Catalog struct {
	sets        []*BarcodeSet
	byID        map[string]*BarcodeSet
	byShortName map[string]*BarcodeSet
	barcodes    map[string]BarcodeEntry
}

// NewCatalog indexes sets by identifier and short name and their barcodes by
// identifier. Later sets with a duplicate short name shadow earlier ones.
func NewCatalog(sets []BarcodeSet) *Catalog {
	c := &Catalog{
		byID:        make(map[string]*BarcodeSet, len(sets)),
		byShortName: make(map[string]*BarcodeSet, len(sets)),
		barcodes:    make(map[string]BarcodeEntry),
	}
	for i := range sets {
		set := sets[i]
		set.Entries = slices.Clone(set.Entries)
		c.sets = append(c.sets, &set)
		c.byID[set.ID] = &set
		c.byShortName[set.ShortName] = &set
		for _, e := range set.Entries {
			c.barcodes[e.ID] = e
		}
	}
	return c
}

// Sets returns the barcode sets in catalog order.
func (c *Catalog) Sets() []BarcodeSet {
	if c == nil {
		return nil
	}
	out := make([]BarcodeSet, len(c.sets))
	for i, s := range c.sets {
		out[i] = *s
	}
	return out
}

// Set returns the barcode set with the given identifier.
func (c *Catalog) Set(id string) (*BarcodeSet, bool) {
	if c == nil {
		return nil, false
	}
	s, ok := c.byID[id]
	return s, ok
}

// SetByShortName returns the barcode set with the given short name.
func (c *Catalog) SetByShortName(shortName string) (*BarcodeSet, bool) {
	if c == nil {
		return nil, false
	}
	s, ok := c.byShortName[shortName]
	return s, ok
}

// SetByLabel resolves a barcode set cell value to its set.
func (c *Catalog) SetByLabel(label string) (*BarcodeSet, bool) {
	if label == "" || IsManual(label) {
		return nil, false
	}
	return c.SetByShortName(ShortName(label))
}

// Barcode returns the barcode with the given identifier.
func (c *Catalog) Barcode(id string) (BarcodeEntry, bool) {
	if c == nil {
		return BarcodeEntry{}, false
	}
	e, ok := c.barcodes[id]
	return e, ok
}

// SetLabels returns the choices of a barcode set cell: blank, manual entry,
// then every set label in catalog order.
func (c *Catalog) SetLabels() []string {
	labels := []string{"", constants.ManualBarcodeLabel}
	if c == nil {
		return labels
	}
	for _, s := range c.sets {
		labels = append(labels, s.Label())
	}
	return labels
}
