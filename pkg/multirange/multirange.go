// Package multirange converts between compact lane strings such as "1-3,5"
// and sorted lists of lane numbers.
//
// Grammar: comma-separated items, each a positive integer or an inclusive
// range "a-b". Whitespace around items and around the dash is ignored, the
// empty string is the empty set and reversed ranges ("5-3") are normalized.
package multirange

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/digestiflow/flowsheet/pkg/errors"
)

const format = "multirange"

// MaxSpan bounds the number of values a single range may expand to, and
// the number of distinct values a whole string may describe.
const MaxSpan = 1 << 16

type interval struct{ lo, hi int }

// Parse returns the sorted, de-duplicated integers described by s.
// Overlapping items are merged before anything is expanded.
func Parse(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return []int{}, nil
	}

	var items []interval
	offset := 0
	for _, item := range strings.Split(s, ",") {
		lo, hi, err := parseItem(item)
		if err != nil {
			return nil, &errors.ParseError{
				Format:  format,
				Input:   s,
				Offset:  offset,
				Message: err.Error(),
			}
		}
		items = append(items, interval{lo, hi})
		offset += len(item) + 1
	}

	merged := merge(items)
	total := 0
	for _, iv := range merged {
		total += iv.hi - iv.lo + 1
		if total > MaxSpan {
			return nil, errors.NewParseError(format, s, fmt.Sprintf("more than %d values", MaxSpan), nil)
		}
	}

	values := make([]int, 0, total)
	for _, iv := range merged {
		// hi may be math.MaxInt, so stop on equality instead of v <= hi
		for v := iv.lo; ; v++ {
			values = append(values, v)
			if v == iv.hi {
				break
			}
		}
	}
	return values, nil
}

// merge sorts intervals and joins the ones that overlap or touch.
func merge(items []interval) []interval {
	slices.SortFunc(items, func(a, b interval) int { return cmp.Compare(a.lo, b.lo) })
	out := items[:0]
	for _, iv := range items {
		if n := len(out); n > 0 && iv.lo-1 <= out[n-1].hi {
			out[n-1].hi = max(out[n-1].hi, iv.hi)
			continue
		}
		out = append(out, iv)
	}
	return out
}

// parseItem parses one comma-separated item into an inclusive range.
func parseItem(item string) (int, int, error) {
	item = strings.TrimSpace(item)
	if item == "" {
		return 0, 0, errors.New("empty item")
	}

	left, right, isRange := strings.Cut(item, "-")
	lo, err := parseBound(left)
	if err != nil {
		return 0, 0, err
	}
	if !isRange {
		return lo, lo, nil
	}
	hi, err := parseBound(right)
	if err != nil {
		return 0, 0, err
	}
	if lo > hi {
		lo, hi = hi, lo
	}
	if hi-lo >= MaxSpan {
		return 0, 0, fmt.Errorf("range %d-%d is too large", lo, hi)
	}
	return lo, hi, nil
}

func parseBound(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("missing number")
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("invalid number %q", s)
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	if n < 1 {
		return 0, fmt.Errorf("%d is not a positive number", n)
	}
	return n, nil
}

// Format renders values in canonical form: runs of two or more consecutive
// values become "a-b", singletons stay "a", items are joined by ",".
// Values need not be sorted; duplicates and non-positive values are dropped.
func Format(values []int) string {
	sorted := make([]int, 0, len(values))
	for _, v := range values {
		if v > 0 {
			sorted = append(sorted, v)
		}
	}
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	var b strings.Builder
	for i := 0; i < len(sorted); {
		j := i
		for j+1 < len(sorted) && sorted[j+1] == sorted[j]+1 {
			j++
		}
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		if j > i {
			fmt.Fprintf(&b, "%d-%d", sorted[i], sorted[j])
		} else {
			b.WriteString(strconv.Itoa(sorted[i]))
		}
		i = j + 1
	}
	return b.String()
}

// ParseLenient is Parse for the serialization path: invalid input yields the
// empty set instead of an error.
func ParseLenient(s string) []int {
	values, err := Parse(s)
	if err != nil {
		return []int{}
	}
	return values
}

// Normalize rewrites s in canonical form.
func Normalize(s string) (string, error) {
	values, err := Parse(s)
	if err != nil {
		return "", err
	}
	return Format(values), nil
}

// Valid reports whether s parses.
func Valid(s string) bool {
	_, err := Parse(s)
	return err == nil
}
