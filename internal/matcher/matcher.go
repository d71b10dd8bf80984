// Package matcher filters names with glob or regular expression patterns.
// The catalog commands use it to narrow barcode sets and barcodes by name.
package matcher

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/digestiflow/flowsheet/pkg/errors"
)

// PatternType is the syntax of a pattern.
type PatternType int

const (
	// Glob uses shell-style patterns (*, ?, []).
	Glob PatternType = iota
	// Regex uses regular expressions.
	Regex
	// Auto picks Regex when the pattern carries regex-only syntax.
	Auto
)

// String returns the name of the pattern type.
func (pt PatternType) String() string {
	switch pt {
	case Glob:
		return "glob"
	case Regex:
		return "regex"
	case Auto:
		return "auto"
	default:
		return "unknown"
	}
}

// Matcher reports whether a name matches a pattern. Matching ignores case:
// barcode names are typed by hand and "a01" should find "A01".
type Matcher struct {
	pattern     string
	patternType PatternType
	glob        string
	re          *regexp.Regexp
}

// New compiles pattern. An invalid pattern is a ValidationError.
func New(patternType PatternType, pattern string) (*Matcher, error) {
	if patternType == Auto {
		patternType = detect(pattern)
	}
	m := &Matcher{pattern: pattern, patternType: patternType}

	switch patternType {
	case Glob:
		m.glob = strings.ToLower(pattern)
		if _, err := filepath.Match(m.glob, ""); err != nil {
			return nil, errors.NewValidationError("pattern", pattern, "invalid glob: "+err.Error())
		}
	case Regex:
		re, err := regexp.Compile("(?i)" + pattern)
		if err != nil {
			return nil, errors.NewValidationError("pattern", pattern, "invalid regex: "+err.Error())
		}
		m.re = re
	default:
		return nil, errors.NewValidationError("pattern", pattern, "unsupported pattern type "+patternType.String())
	}
	return m, nil
}

// Match reports whether input matches. A nil Matcher matches everything.
func (m *Matcher) Match(input string) bool {
	if m == nil {
		return true
	}
	if m.re != nil {
		return m.re.MatchString(input)
	}
	ok, _ := filepath.Match(m.glob, strings.ToLower(input))
	return ok
}

// MatchAny reports whether any of inputs matches.
func (m *Matcher) MatchAny(inputs ...string) bool {
	for _, in := range inputs {
		if m.Match(in) {
			return true
		}
	}
	return false
}

// Pattern returns the pattern as given.
func (m *Matcher) Pattern() string { return m.pattern }

// Type returns the resolved pattern type, never Auto.
func (m *Matcher) Type() PatternType { return m.patternType }

// Filter returns the items for which any of the keys matches.
func Filter[T any](m *Matcher, items []T, keys func(T) []string) []T {
	if m == nil {
		return items
	}
	var out []T
	for _, it := range items {
		if m.MatchAny(keys(it)...) {
			out = append(out, it)
		}
	}
	return out
}

func detect(pattern string) PatternType {
	for _, indicator := range []string{"^", "$", `\d`, `\w`, `\s`, "(?", "{", "}", "+", "|", "(", ")"} {
		if strings.Contains(pattern, indicator) {
			return Regex
		}
	}
	return Glob
}
