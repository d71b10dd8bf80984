package validation

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/digestiflow/flowsheet/pkg/errors"
)

// Demultiplexing tools understood by ReturnBasesMask.
const (
	ToolBcl2fastq = "bcl2fastq"
	ToolPicard    = "picard"
)

// MaskError reports a bases mask that is malformed or incompatible with the
// planned reads.
type MaskError struct {
	Mask    string
	Message string
}

func (e *MaskError) Error() string {
	if e.Mask != "" {
		return fmt.Sprintf("bases mask %q: %s", e.Mask, e.Message)
	}
	return "bases mask: " + e.Message
}

// Is implements errors.Is support
func (e *MaskError) Is(target error) bool {
	return target == errors.ErrInvalidInput
}

// Segment is one run of cycles of the same type: T (template), B (barcode),
// M (UMI) or S (skip).
type Segment struct {
	Type   byte
	Cycles int
}

// SplitBasesMask parses a picard style bases mask such as "100T8B8B100T".
// Segments with zero cycles are dropped.
func SplitBasesMask(mask string) ([]Segment, error) {
	var segments []Segment
	num := 0
	digits := 0
	for i := 0; i < len(mask); i++ {
		c := mask[i]
		switch {
		case c >= '0' && c <= '9':
			num = num*10 + int(c-'0')
			digits++
		case unicode.IsLetter(rune(c)):
			if digits == 0 {
				if i == 0 {
					return nil, &MaskError{Mask: mask, Message: "mask must start with number of cycles, not type"}
				}
				return nil, &MaskError{Mask: mask, Message: "type characters must be separated by a number (of cycles)"}
			}
			if num > 0 {
				segments = append(segments, Segment{Type: byte(unicode.ToUpper(rune(c))), Cycles: num})
			}
			num, digits = 0, 0
		default:
			return nil, &MaskError{Mask: mask, Message: fmt.Sprintf("unexpected character %q", c)}
		}
	}
	if digits > 0 {
		return nil, &MaskError{Mask: mask, Message: "mask must end with a type character"}
	}
	if len(segments) == 0 {
		return nil, &MaskError{Mask: mask, Message: "mask is empty"}
	}
	return segments, nil
}

// BasesMaskLength returns the total number of cycles of mask.
func BasesMaskLength(mask string) (int, error) {
	segments, err := SplitBasesMask(mask)
	if err != nil {
		return 0, err
	}
	return segmentsLength(segments), nil
}

func segmentsLength(segments []Segment) int {
	n := 0
	for _, s := range segments {
		n += s.Cycles
	}
	return n
}

// CompareBasesMask matches a demultiplexing mask against the planned reads
// of the flow cell. It returns the mask segments grouped by planned read.
func CompareBasesMask(planned, mask string) ([][]Segment, error) {
	plannedSegs, err := SplitBasesMask(planned)
	if err != nil {
		return nil, err
	}
	maskSegs, err := SplitBasesMask(mask)
	if err != nil {
		return nil, err
	}

	want, got := segmentsLength(plannedSegs), segmentsLength(maskSegs)
	if want != got {
		return nil, &MaskError{Mask: mask, Message: fmt.Sprintf(
			"your base mask has more or fewer cycles than planned (%d vs. %d)", want, got)}
	}

	matched := make([][]Segment, 0, len(plannedSegs))
	next := 0
	for _, read := range plannedSegs {
		var group []Segment
		sum := 0
		for sum < read.Cycles {
			seg := maskSegs[next]
			next++
			group = append(group, seg)
			sum += seg.Cycles
		}
		if sum > read.Cycles {
			return nil, &MaskError{Mask: mask, Message: fmt.Sprintf(
				"your base mask has more or fewer cycles than planned for a read (%d vs. %d)", sum, read.Cycles)}
		}
		matched = append(matched, group)
	}
	return matched, nil
}

var illuminaTypes = map[byte]string{'T': "y", 'S': "n", 'B': "I"}

// ReturnBasesMask checks demux against planned and renders it for the given
// demultiplexing tool: "y151,I8,I8,y151" for bcl2fastq, "151T8B8B151T" for
// picard.
func ReturnBasesMask(planned, demux, tool string) (string, error) {
	if tool == "" {
		tool = ToolBcl2fastq
	}
	if tool != ToolBcl2fastq && tool != ToolPicard {
		return "", &MaskError{Message: fmt.Sprintf("unknown demultiplexing tool %q", tool)}
	}
	if tool == ToolBcl2fastq && strings.ContainsAny(demux, "Mm") {
		return "", &MaskError{Mask: demux, Message: "you cannot assign UMIs ('M') if using bcl2fastq"}
	}

	groups, err := CompareBasesMask(planned, demux)
	if err != nil {
		return "", err
	}

	reads := make([]string, len(groups))
	for i, group := range groups {
		var b strings.Builder
		for _, seg := range group {
			if tool == ToolBcl2fastq {
				t, ok := illuminaTypes[seg.Type]
				if !ok {
					return "", &MaskError{Mask: demux, Message: fmt.Sprintf("cycle type %q has no bcl2fastq equivalent", seg.Type)}
				}
				b.WriteString(t)
				b.WriteString(strconv.Itoa(seg.Cycles))
			} else {
				b.WriteString(strconv.Itoa(seg.Cycles))
				b.WriteByte(seg.Type)
			}
		}
		reads[i] = b.String()
	}
	if tool == ToolBcl2fastq {
		return strings.Join(reads, ","), nil
	}
	return strings.Join(reads, ""), nil
}
