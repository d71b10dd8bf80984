package barcodes

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digestiflow/flowsheet/pkg/errors"
)

func TestSerialize(t *testing.T) {
	rows := Rows{
		{ID: "u1", Name: "A", Sequence: "ACGT", Status: StatusUnchanged},
		{ID: "u2", Sequence: "TTTT", Status: StatusToRemove},
		{Name: "D", Sequence: "GG", Aliases: "d1,d2", Status: StatusAdded},
		{Status: StatusEmpty},
	}

	entries := Serialize(rows)

	assert.Equal(t, []Entry{
		{ID: "u1", Name: "A", Sequence: "ACGT"},
		{Name: "D", Sequence: "GG", Aliases: "d1,d2"},
	}, entries)
}

func TestMarshalEntries(t *testing.T) {
	t.Run("empty working set", func(t *testing.T) {
		got, err := MarshalEntries(Rows{{}, {}})
		require.NoError(t, err)
		assert.Equal(t, "[]", got)
	})

	t.Run("new rows have a null identifier and no status", func(t *testing.T) {
		got, err := MarshalEntries(Rows{
			{ID: "u1", Name: "A", Sequence: "ACGT", Status: StatusChanged},
			{Name: "B", Sequence: "TT", Status: StatusAdded},
		})
		require.NoError(t, err)
		assert.JSONEq(t, `[
			{"uuid": "u1", "name": "A", "sequence": "ACGT"},
			{"uuid": null, "name": "B", "sequence": "TT"}
		]`, got)
		assert.NotContains(t, got, "status")
	})
}

func TestParseRecords(t *testing.T) {
	records, err := ParseRecords([]byte(`[
		{"uuid": "u1", "name": "A", "sequence": "ACGT", "status": "changed"},
		{"uuid": null, "name": "B", "sequence": "TT"}
	]`))
	require.NoError(t, err)
	assert.Equal(t, []Record{
		{ID: "u1", Name: "A", Sequence: "ACGT"},
		{Name: "B", Sequence: "TT"},
	}, records)

	_, err = ParseRecords([]byte(`{"uuid":`))
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestSerializeMatchesSnapshotWhenUntouched(t *testing.T) {
	snap := testSnapshot()
	rows := snap.Working(3)
	Settle(rows, snap)

	data, err := MarshalEntries(rows)
	require.NoError(t, err)

	var back []Record
	require.NoError(t, json.Unmarshal([]byte(data), &back))
	assert.Equal(t, snap.Records(), back)
}
