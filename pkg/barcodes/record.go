// Package barcodes implements the barcode-set editing core: a frozen snapshot of
// the persisted barcodes, a mutable working set edited through a grid, and the
// reconciliation that re-links rows to stored identifiers, classifies them and
// describes the pending changes.
//
// All functions are pure over their arguments and never fail; rows with
// inconsistent data degrade to the most conservative status.
package barcodes

import (
	"encoding/json"
	"slices"
)

// ID is the stable identifier of a persisted barcode. The zero value means
// the row has not been persisted yet.
type ID string

// IsZero reports whether the identifier is absent.
func (id ID) IsZero() bool {
	return id == ""
}

// MarshalJSON renders an absent identifier as null.
func (id ID) MarshalJSON() ([]byte, error) {
	if id == "" {
		return []byte("null"), nil
	}
	return json.Marshal(string(id))
}

// MarshalYAML renders an absent identifier as null.
func (id ID) MarshalYAML() (any, error) {
	if id == "" {
		return nil, nil
	}
	return string(id), nil
}

// Status is the derived lifecycle state of a working row.
type Status string

// Lifecycle states of a working row.
const (
	StatusUnchanged Status = "unchanged"
	StatusChanged   Status = "changed"
	StatusAdded     Status = "added"
	StatusToRemove  Status = "to-remove"
	StatusEmpty     Status = "empty"
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusUnchanged, StatusChanged, StatusAdded, StatusToRemove, StatusEmpty}

// Pending reports whether rows with this status produce a change.
func (s Status) Pending() bool {
	return s == StatusChanged || s == StatusAdded || s == StatusToRemove
}

// Record is a named barcode as shown in one grid row.
type Record struct {
	ID       ID     `json:"uuid" yaml:"uuid"`
	Name     string `json:"name" yaml:"name"`
	Sequence string `json:"sequence" yaml:"sequence"`
	Aliases  string `json:"aliases,omitempty" yaml:"aliases,omitempty"`
	Status   Status `json:"status,omitempty" yaml:"status,omitempty"`
}

// IsBlank reports whether the row carries neither identifier nor name.
func (r Record) IsBlank() bool {
	return r.ID == "" && r.Name == ""
}

// Rows is the working set: the live, user-editable copy of the barcodes.
type Rows []Record

// Clone returns an independent copy of the rows.
func (rs Rows) Clone() Rows {
	return slices.Clone(rs)
}

// TrailingBlank returns the number of blank rows at the end.
func (rs Rows) TrailingBlank() int {
	n := 0
	for i := len(rs) - 1; i >= 0 && rs[i].IsBlank() && rs[i].Sequence == ""; i-- {
		n++
	}
	return n
}

// EnsureSpare appends blank rows until at least spare trailing rows are blank.
func (rs Rows) EnsureSpare(spare int) Rows {
	for missing := spare - rs.TrailingBlank(); missing > 0; missing-- {
		rs = append(rs, Record{})
	}
	return rs
}

// Count returns the number of rows with the given status.
func (rs Rows) Count(status Status) int {
	n := 0
	for _, r := range rs {
		if r.Status == status {
			n++
		}
	}
	return n
}
