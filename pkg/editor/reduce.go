package editor

import (
	"github.com/digestiflow/flowsheet/pkg/barcodes"
	"github.com/digestiflow/flowsheet/pkg/constants"
)

// State is the settled state of a barcode set session after one pass.
type State struct {
	Snapshot *barcodes.Snapshot  `json:"-"`
	Spare    int                 `json:"-"`
	Rows     barcodes.Rows       `json:"rows"`
	Changes  *barcodes.Changeset `json:"changes"`
	Preview  []string            `json:"preview"`
	Payload  string              `json:"payload"`
}

// NewState returns the initial state: the snapshot followed by spare blank
// rows, settled once.
func NewState(snap *barcodes.Snapshot, spare int) State {
	if spare < 0 {
		spare = constants.DefaultSpareRows
	}
	spare = min(spare, constants.MaxSpareRows)
	return settle(State{
		Snapshot: snap,
		Spare:    spare,
		Rows:     snap.Working(spare),
	})
}

// Evaluate settles working against snap once, as a session would right
// after loading working into its grid. A nil working list starts from the
// snapshot itself.
func Evaluate(snap *barcodes.Snapshot, working barcodes.Rows, spare int) State {
	if spare < 0 {
		spare = constants.DefaultSpareRows
	}
	spare = min(spare, constants.MaxSpareRows)
	rows := working.Clone()
	if working == nil {
		rows = snap.Working(0)
	}
	return settle(State{Snapshot: snap, Spare: spare, Rows: rows})
}

// Reduce applies ev to a copy of the rows of s and runs exactly one settled
// pass: edits, identifier reconciliation, statuses, spare rows, preview and
// payload. s is not modified.
func Reduce(s State, ev Event) State {
	next := s
	next.Rows = apply(s.Rows.Clone(), ev)
	return settle(next)
}

func settle(s State) State {
	s.Rows = s.Rows.EnsureSpare(s.Spare)
	s.Changes = barcodes.Settle(s.Rows, s.Snapshot)
	s.Preview = s.Changes.Lines()
	if payload, err := barcodes.MarshalEntries(s.Rows); err == nil {
		s.Payload = payload
	}
	return s
}

func apply(rows barcodes.Rows, ev Event) barcodes.Rows {
	switch ev := ev.(type) {
	case CellsChanged:
		for _, c := range ev.Changes {
			if c.Row < 0 || c.Row >= constants.MaxRows {
				continue
			}
			for c.Row >= len(rows) {
				rows = append(rows, barcodes.Record{})
			}
			switch c.Column {
			case ColName:
				rows[c.Row].Name = c.New
			case ColSequence:
				rows[c.Row].Sequence = c.New
			}
		}
	case RowsInserted:
		at := clamp(ev.At, 0, len(rows))
		if count := min(ev.Count, constants.MaxRows-len(rows)); count > 0 {
			blank := make(barcodes.Rows, count)
			rows = append(rows[:at], append(blank, rows[at:]...)...)
		}
	case RowsRemoved:
		at := clamp(ev.At, 0, len(rows))
		end := clamp(at+ev.Count, at, len(rows))
		rows = append(rows[:at], rows[end:]...)
	case ReverseComplement:
		var selected []int
		for _, r := range ev.Ranges {
			selected = append(selected, r.Rows()...)
		}
		barcodes.RevCompRows(rows, selected)
	}
	return rows
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
