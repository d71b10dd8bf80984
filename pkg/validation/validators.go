// Package validation holds the pass/fail checks applied to sample sheet and
// flow cell fields. Blank input passes every cell validator: a blank cell is
// reported by the row rules, not by the cell's format.
package validation

import (
	"regexp"
	"strings"

	"github.com/digestiflow/flowsheet/pkg/errors"
	"github.com/digestiflow/flowsheet/pkg/multirange"
)

var (
	sampleNameRE = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	barcodesRE   = regexp.MustCompile(`^[acgtnACGTN]+(,[acgtnACGTN]+)*$`)
	demuxReadsRE = regexp.MustCompile(`^(\d+[BMTSbmts])*$`)
)

// Field names accepted by Check.
const (
	FieldSampleName = "sample_name"
	FieldBarcodes   = "barcodes"
	FieldDemuxReads = "demux_reads"
	FieldLanes      = "lanes"
	FieldFlowCell   = "flowcell_name"
)

// Fields lists every field Check knows.
var Fields = []string{FieldSampleName, FieldBarcodes, FieldDemuxReads, FieldLanes, FieldFlowCell}

// SampleName reports whether s is a valid library name.
func SampleName(s string) bool {
	return s == "" || sampleNameRE.MatchString(s)
}

// BarcodeSequences reports whether s is a comma-separated list of nucleotide
// sequences.
func BarcodeSequences(s string) bool {
	return s == "" || barcodesRE.MatchString(s)
}

// DemuxReads reports whether s is a well-formed picard style reads
// description such as "151T8B8B151T".
func DemuxReads(s string) bool {
	return demuxReadsRE.MatchString(s)
}

// LaneRange reports whether s is a valid lane multi-range.
func LaneRange(s string) bool {
	return multirange.Valid(s)
}

// Check validates value as the named field.
func Check(field, value string) (bool, error) {
	switch strings.ToLower(field) {
	case FieldSampleName:
		return SampleName(value), nil
	case FieldBarcodes:
		return BarcodeSequences(value), nil
	case FieldDemuxReads:
		return DemuxReads(value), nil
	case FieldLanes:
		return LaneRange(value), nil
	case FieldFlowCell:
		if value == "" {
			return true, nil
		}
		_, err := ParseFlowCellName(value)
		return err == nil, nil
	default:
		return false, errors.NewValidationError("field", field,
			"unknown field, expected one of "+strings.Join(Fields, ", "))
	}
}
