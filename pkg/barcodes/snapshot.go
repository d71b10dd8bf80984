package barcodes

import "slices"

// Snapshot is the frozen, last persisted state of a barcode set. It is only
// used for lookups; none of its records can be modified after construction.
type Snapshot struct {
	records []Record
	byID    map[ID]int
	byName  map[string]int
}

// NewSnapshot freezes a copy of records. Records without an identifier are
// kept for display but can never be matched. When several records share a
// name the first one in order wins name lookups.
func NewSnapshot(records []Record) *Snapshot {
	s := &Snapshot{
		records: make([]Record, len(records)),
		byID:    make(map[ID]int, len(records)),
		byName:  make(map[string]int, len(records)),
	}
	for i, r := range records {
		r.Status = ""
		s.records[i] = r
		if r.ID == "" {
			continue
		}
		if _, ok := s.byID[r.ID]; !ok {
			s.byID[r.ID] = i
		}
		if _, ok := s.byName[r.Name]; !ok && r.Name != "" {
			s.byName[r.Name] = i
		}
	}
	return s
}

// Len returns the number of records in the snapshot.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.records)
}

// Records returns a copy of the snapshot records.
func (s *Snapshot) Records() []Record {
	if s == nil {
		return nil
	}
	return slices.Clone(s.records)
}

// Lookup returns the record persisted under id.
func (s *Snapshot) Lookup(id ID) (Record, bool) {
	if s == nil || id == "" {
		return Record{}, false
	}
	i, ok := s.byID[id]
	if !ok {
		return Record{}, false
	}
	return s.records[i], true
}

// LookupName returns the first record with the given name.
func (s *Snapshot) LookupName(name string) (Record, bool) {
	if s == nil || name == "" {
		return Record{}, false
	}
	i, ok := s.byName[name]
	if !ok {
		return Record{}, false
	}
	return s.records[i], true
}

// Working returns the initial working set: a copy of the snapshot followed by
// spare blank rows.
func (s *Snapshot) Working(spare int) Rows {
	rows := make(Rows, 0, s.Len()+spare)
	rows = append(rows, s.Records()...)
	for range spare {
		rows = append(rows, Record{})
	}
	return rows
}
