package barcodes

import (
	"encoding/json"

	"github.com/digestiflow/flowsheet/pkg/errors"
)

// Entry is one barcode as submitted in the form payload.
type Entry struct {
	ID       ID     `json:"uuid" yaml:"uuid"`
	Name     string `json:"name" yaml:"name"`
	Sequence string `json:"sequence" yaml:"sequence"`
	Aliases  string `json:"aliases,omitempty" yaml:"aliases,omitempty"`
}

// Serialize returns the rows that will be submitted: every row with a name,
// in order, without its status. Rows marked for removal and blank rows are
// omitted, which is how a removal reaches the server.
func Serialize(rows Rows) []Entry {
	entries := make([]Entry, 0, len(rows))
	for _, r := range rows {
		if r.Name == "" {
			continue
		}
		entries = append(entries, Entry{
			ID:       r.ID,
			Name:     r.Name,
			Sequence: r.Sequence,
			Aliases:  r.Aliases,
		})
	}
	return entries
}

// MarshalEntries renders the serialized rows as the JSON array stored in the
// hidden form field. An empty working set renders as [].
func MarshalEntries(rows Rows) (string, error) {
	data, err := json.Marshal(Serialize(rows))
	if err != nil {
		return "", errors.WrapParse("json", "", err)
	}
	return string(data), nil
}

// ParseRecords decodes a JSON array of barcodes, as produced by MarshalEntries
// or served by the barcode API, into records. Statuses are dropped.
func ParseRecords(data []byte) ([]Record, error) {
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, errors.WrapParse("json", truncate(string(data)), err)
	}
	for i := range records {
		records[i].Status = ""
	}
	return records, nil
}

func truncate(s string) string {
	const limit = 64
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
