package barcodes

import (
	"fmt"
	"strings"

	"github.com/digestiflow/flowsheet/pkg/constants"
)

// ChangeType represents the type of change.
type ChangeType string

const (
	// ChangeTypeAdd indicates a barcode will be created.
	ChangeTypeAdd ChangeType = "add"
	// ChangeTypeUpdate indicates a barcode will be updated.
	ChangeTypeUpdate ChangeType = "update"
	// ChangeTypeRemove indicates a barcode will be removed.
	ChangeTypeRemove ChangeType = "remove"
)

// FieldChange represents a change to a specific field.
type FieldChange struct {
	Field    string `json:"field"`
	OldValue string `json:"old_value"`
	NewValue string `json:"new_value"`
}

// Operation is one pending change implied by a working row.
type Operation struct {
	Row      int           `json:"row"`      // index in the working set
	Type     ChangeType    `json:"type"`     // add, update or remove
	ID       ID            `json:"uuid"`     // identifier, absent for additions
	Original *Record       `json:"original"` // snapshot record, nil when unknown
	Current  Record        `json:"current"`  // the working row
	Changes  []FieldChange `json:"changes,omitempty"`
}

// Describe renders the human-readable preview line for the operation.
// Values are wrapped in plain double quotes, never escaped.
func (op Operation) Describe() string {
	switch op.Type {
	case ChangeTypeAdd:
		return fmt.Sprintf(`Will add barcode %s with sequence "%s"`, op.Current.Name, op.Current.Sequence)
	case ChangeTypeRemove:
		return fmt.Sprintf(`Will remove barcode "%s"`, op.originalName())
	default:
		var b strings.Builder
		fmt.Fprintf(&b, `Will update barcode "%s".`, op.originalName())
		for _, c := range op.Changes {
			fmt.Fprintf(&b, ` Will set %s to "%s".`, c.Field, c.NewValue)
		}
		return b.String()
	}
}

// originalName is the snapshot name, or the identifier when the snapshot
// does not know the row.
func (op Operation) originalName() string {
	if op.Original != nil {
		return op.Original.Name
	}
	return string(op.ID)
}

// Summary provides summary statistics for a changeset.
type Summary struct {
	Added        int `json:"added"`
	Updated      int `json:"updated"`
	Removed      int `json:"removed"`
	Unchanged    int `json:"unchanged"`
	TotalChanges int `json:"total_changes"`
}

// Changeset is the list of operations a submit of the working set implies.
type Changeset struct {
	Operations []Operation `json:"operations"`
	Summary    Summary     `json:"summary"`
	// Reassigned counts identifiers re-linked by name during the pass that
	// produced the changeset.
	Reassigned int `json:"reassigned"`
	// Dropped lists snapshot records no working row carries any more, e.g.
	// after the grid row was deleted. They are absent from the payload.
	Dropped []Record `json:"dropped,omitempty"`
}

// Diff compares the working rows against the snapshot. Operations are listed
// in working-set order. Statuses are recomputed from the data, so Diff does not
// depend on a prior ComputeStatuses call.
func Diff(rows Rows, snap *Snapshot) *Changeset {
	cs := &Changeset{Operations: []Operation{}}
	carried := make(map[ID]bool, len(rows))
	for i, row := range rows {
		carried[row.ID] = true
		status := Classify(row, snap)
		op := Operation{Row: i, ID: row.ID, Current: row}
		if orig, ok := snap.Lookup(row.ID); ok {
			op.Original = &orig
		}

		switch status {
		case StatusUnchanged:
			cs.Summary.Unchanged++
			continue
		case StatusEmpty:
			continue
		case StatusAdded:
			op.Type = ChangeTypeAdd
			cs.Summary.Added++
		case StatusToRemove:
			op.Type = ChangeTypeRemove
			cs.Summary.Removed++
		case StatusChanged:
			op.Type = ChangeTypeUpdate
			op.Changes = fieldChanges(op.Original, row)
			cs.Summary.Updated++
		}
		op.Current.Status = status
		cs.Operations = append(cs.Operations, op)
	}
	cs.Summary.TotalChanges = cs.Summary.Added + cs.Summary.Updated + cs.Summary.Removed

	for _, r := range snap.Records() {
		if r.ID != "" && !carried[r.ID] {
			cs.Dropped = append(cs.Dropped, r)
		}
	}
	return cs
}

// fieldChanges lists name and sequence differences. Against an unknown
// original both fields are reported.
func fieldChanges(orig *Record, row Record) []FieldChange {
	var changes []FieldChange
	if orig == nil || orig.Name != row.Name {
		change := FieldChange{Field: "name", NewValue: row.Name}
		if orig != nil {
			change.OldValue = orig.Name
		}
		changes = append(changes, change)
	}
	if orig == nil || orig.Sequence != row.Sequence {
		change := FieldChange{Field: "sequence", NewValue: row.Sequence}
		if orig != nil {
			change.OldValue = orig.Sequence
		}
		changes = append(changes, change)
	}
	return changes
}

// HasChanges returns true if the changeset contains any changes.
func (c *Changeset) HasChanges() bool {
	return c.Summary.TotalChanges > 0
}

// Of returns the operations of the given type, in working-set order.
func (c *Changeset) Of(t ChangeType) []Operation {
	var ops []Operation
	for _, op := range c.Operations {
		if op.Type == t {
			ops = append(ops, op)
		}
	}
	return ops
}

// Lines renders one preview line per operation, or the single no-change line.
func (c *Changeset) Lines() []string {
	if len(c.Operations) == 0 {
		return []string{constants.NoChangeLine}
	}
	lines := make([]string, len(c.Operations))
	for i, op := range c.Operations {
		lines[i] = op.Describe()
	}
	return lines
}

// String returns a one-line summary of the changeset.
func (c *Changeset) String() string {
	if !c.HasChanges() {
		return "No changes detected"
	}

	var parts []string
	if c.Summary.Added > 0 {
		parts = append(parts, fmt.Sprintf("%d added", c.Summary.Added))
	}
	if c.Summary.Updated > 0 {
		parts = append(parts, fmt.Sprintf("%d updated", c.Summary.Updated))
	}
	if c.Summary.Removed > 0 {
		parts = append(parts, fmt.Sprintf("%d removed", c.Summary.Removed))
	}
	return fmt.Sprintf("Barcodes: %s (Total: %d changes)", strings.Join(parts, ", "), c.Summary.TotalChanges)
}

// BuildChangePreview describes the pending operations of the working set, one
// line per changed, added or removed row, in row order.
func BuildChangePreview(rows Rows, snap *Snapshot) []string {
	return Diff(rows, snap).Lines()
}
