package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digestiflow/flowsheet/pkg/errors"
)

func TestCellValidators(t *testing.T) {
	tests := []struct {
		name  string
		check func(string) bool
		value string
		want  bool
	}{
		{"sample blank", SampleName, "", true},
		{"sample plain", SampleName, "Sample_01-a", true},
		{"sample space", SampleName, "Sample 01", false},
		{"sample dot", SampleName, "s.1", false},
		{"barcode blank", BarcodeSequences, "", true},
		{"barcode single", BarcodeSequences, "ACGTN", true},
		{"barcode lower", BarcodeSequences, "acgt", true},
		{"barcode list", BarcodeSequences, "ACGT,TTGA", true},
		{"barcode trailing comma", BarcodeSequences, "ACGT,", false},
		{"barcode letters", BarcodeSequences, "ACGU", false},
		{"demux blank", DemuxReads, "", true},
		{"demux mask", DemuxReads, "151T8B8B151T", true},
		{"demux lower umi", DemuxReads, "8m143t", true},
		{"demux missing count", DemuxReads, "T8B", false},
		{"demux trailing count", DemuxReads, "151T8", false},
		{"lanes blank", LaneRange, "", true},
		{"lanes range", LaneRange, "1-4,8", true},
		{"lanes zero", LaneRange, "0", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.check(tt.value))
		})
	}
}

func TestCheck(t *testing.T) {
	ok, err := Check("sample_name", "abc")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Check("FLOWCELL_NAME", "nonsense")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = Check("colour", "red")
	assert.True(t, errors.IsValidationError(err))
}

func TestParseFlowCellName(t *testing.T) {
	name, err := ParseFlowCellName("160303_ST-K12345_0815_A_BCDEFGHIXX_LABEL")
	require.NoError(t, err)
	assert.Equal(t, FlowCellName{
		RunDate:   time.Date(2016, 3, 3, 0, 0, 0, 0, time.UTC),
		Machine:   "ST-K12345",
		RunNumber: 815,
		Slot:      "A",
		VendorID:  "BCDEFGHIXX",
		Label:     "LABEL",
	}, name)

	name, err = ParseFlowCellName("160303_ST-K12345_0815_A_BCDEFGHIXX")
	require.NoError(t, err)
	assert.Empty(t, name.Label)

	for _, bad := range []string{"", "160303_ST-K12345_0815_ABCDEFGHIXX", "1603_M_1_A_V", "161303_M_1_A_V"} {
		_, err := ParseFlowCellName(bad)
		assert.Error(t, err, bad)
		assert.True(t, errors.IsValidationError(err), bad)
	}
}

func TestSplitBasesMask(t *testing.T) {
	segs, err := SplitBasesMask("100T8B8b100T")
	require.NoError(t, err)
	assert.Equal(t, []Segment{{'T', 100}, {'B', 8}, {'B', 8}, {'T', 100}}, segs)

	segs, err = SplitBasesMask("0S8B")
	require.NoError(t, err)
	assert.Equal(t, []Segment{{'B', 8}}, segs)

	for _, bad := range []string{"T100", "100TB", "100T8", "", "10T-5B"} {
		_, err := SplitBasesMask(bad)
		var me *MaskError
		assert.ErrorAs(t, err, &me, bad)
	}
}

func TestBasesMaskLength(t *testing.T) {
	n, err := BasesMaskLength("151T8B8B151T")
	require.NoError(t, err)
	assert.Equal(t, 318, n)
}

func TestCompareBasesMask(t *testing.T) {
	groups, err := CompareBasesMask("151T8B8B151T", "8M143T8B8B151T")
	require.NoError(t, err)
	assert.Equal(t, [][]Segment{
		{{'M', 8}, {'T', 143}},
		{{'B', 8}},
		{{'B', 8}},
		{{'T', 151}},
	}, groups)

	_, err = CompareBasesMask("151T8B8B151T", "151T8B8B150T")
	assert.ErrorContains(t, err, "more or fewer cycles than planned (318 vs. 317)")

	_, err = CompareBasesMask("151T8B8B151T", "151T6B10B151T")
	assert.ErrorContains(t, err, "for a read (16 vs. 8)")
}

func TestReturnBasesMask(t *testing.T) {
	tests := []struct {
		name    string
		planned string
		demux   string
		tool    string
		want    string
		wantErr string
	}{
		{"bcl2fastq", "151T8B8B151T", "151T8B8B151T", ToolBcl2fastq, "y151,I8,I8,y151", ""},
		{"default tool", "151T8B151T", "151T6B2S151T", "", "y151,I6n2,y151", ""},
		{"picard", "151T8B8B151T", "8M143T8B8B151T", ToolPicard, "8M143T8B8B151T", ""},
		{"umi with bcl2fastq", "151T8B8B151T", "8M143T8B8B151T", ToolBcl2fastq, "", "UMIs"},
		{"unknown tool", "151T", "151T", "bcl-convert", "", "unknown demultiplexing tool"},
		{"cycle mismatch", "151T", "150T", ToolPicard, "", "more or fewer cycles"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReturnBasesMask(tt.planned, tt.demux, tt.tool)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.True(t, errors.IsValidationError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
