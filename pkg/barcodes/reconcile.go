package barcodes

// ReconcileIdentifiers re-links rows that lost their identifier (row
// reordering, copy/paste, typing into a blank row) to the snapshot record of
// the same name. Rows are modified in place in a single left-to-right pass.
//
// An identifier is held while a row carries it and still claims it, i.e. the
// row's name equals the snapshot name of that identifier. A held identifier is
// never reassigned. A free identifier follows its name: the row that types the
// name receives it and any row still carrying it loses it. When several rows
// ask for the same free identifier the first one wins.
//
// Rows carrying the same identifier twice are repaired first: the claiming
// row (or, without a claimant, the first carrier) keeps it.
//
// A row that loses its identifier to a later row is not revisited; it is
// re-linked by the next pass. Repeated passes converge because a held
// identifier never moves.
//
// It returns the number of identifiers assigned.
func ReconcileIdentifiers(rows Rows, snap *Snapshot) int {
	holders := make(map[ID]int)
	carriers := make(map[ID]int)

	for i := range rows {
		id := rows[i].ID
		if id == "" {
			continue
		}
		_, held := holders[id]
		j, carried := carriers[id]
		switch {
		case held:
			rows[i].ID = ""
		case claims(rows[i], snap):
			if carried {
				rows[j].ID = ""
			}
			holders[id] = i
			carriers[id] = i
		case carried:
			rows[i].ID = ""
		default:
			carriers[id] = i
		}
	}

	assigned := 0
	for i := range rows {
		row := &rows[i]
		if row.ID != "" || row.Name == "" {
			continue
		}
		candidate, ok := snap.LookupName(row.Name)
		if !ok {
			continue
		}
		if _, held := holders[candidate.ID]; held {
			continue
		}
		if j, ok := carriers[candidate.ID]; ok {
			rows[j].ID = ""
		}
		row.ID = candidate.ID
		holders[candidate.ID] = i
		carriers[candidate.ID] = i
		assigned++
	}
	return assigned
}

// claims reports whether row still stands for the snapshot record it carries.
func claims(row Record, snap *Snapshot) bool {
	if row.Name == "" {
		return false
	}
	orig, ok := snap.Lookup(row.ID)
	return ok && orig.Name == row.Name
}

// Classify returns the lifecycle status of a single row.
//
// A row whose identifier is missing from the snapshot compares as changed.
func Classify(row Record, snap *Snapshot) Status {
	hasID := row.ID != ""
	hasName := row.Name != ""

	switch {
	case hasID && hasName:
		orig, ok := snap.Lookup(row.ID)
		if ok && orig.Name == row.Name && orig.Sequence == row.Sequence {
			return StatusUnchanged
		}
		return StatusChanged
	case hasID:
		return StatusToRemove
	case hasName:
		return StatusAdded
	default:
		return StatusEmpty
	}
}

// ComputeStatuses sets the status of every row in place.
func ComputeStatuses(rows Rows, snap *Snapshot) {
	for i := range rows {
		rows[i].Status = Classify(rows[i], snap)
	}
}

// Settle runs one full reconciliation pass over rows: identifiers are
// re-linked, statuses recomputed, and the resulting changeset returned.
func Settle(rows Rows, snap *Snapshot) *Changeset {
	assigned := ReconcileIdentifiers(rows, snap)
	ComputeStatuses(rows, snap)
	cs := Diff(rows, snap)
	cs.Reassigned = assigned
	return cs
}
