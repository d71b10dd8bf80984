package barcodes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRevComp(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"ACGT", "ACGT"},
		{"AACC", "GGTT"},
		{"ACGTN", "NACGT"},
		{"aCgT", "AcGt"},
		{"acg-tt", "aa-cgt"},
		{"XYZ", "ZYX"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, RevComp(tt.in))
			assert.Equal(t, tt.in, RevComp(RevComp(tt.in)))
		})
	}
}

func TestRevCompRows(t *testing.T) {
	rows := Rows{
		{Name: "A", Sequence: "AACC"},
		{Name: "B", Sequence: "GGGA"},
		{},
	}

	n := RevCompRows(rows, []int{0, 0, 2, 7, -1})

	assert.Equal(t, 1, n)
	assert.Equal(t, "GGTT", rows[0].Sequence)
	assert.Equal(t, "GGGA", rows[1].Sequence)
}
