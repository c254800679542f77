// Package matcher provides normalized matching of paint codes and free-typed
// queries, plus folding of human labels for alias lookup.
//
// Codes are compared after Normalize: upper-cased with whitespace, dashes and
// dots removed, so "xf1", "XF-1" and "xf 1" are the same code. Labels are
// compared after Fold: lower-cased with diacritics stripped and whitespace
// collapsed, so "Čárový kód" and "carovy kod" are the same label.
package matcher

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Mode selects how a normalized pattern is compared to a normalized input.
type Mode int

const (
	// Substring matches when the input contains the pattern.
	Substring Mode = iota
	// Exact matches when input and pattern are equal.
	Exact
	// Prefix matches when the input starts with the pattern.
	Prefix
)

// String returns a string representation of the Mode.
func (m Mode) String() string {
	switch m {
	case Substring:
		return "substring"
	case Exact:
		return "exact"
	case Prefix:
		return "prefix"
	default:
		return "unknown"
	}
}

// Matcher compares inputs against a single normalized pattern.
type Matcher interface {
	// Match checks if the input matches the pattern
	Match(input string) bool
	// MatchAny reports whether any of the inputs match.
	MatchAny(inputs ...string) bool
	// MatchAll returns the inputs that match, in order.
	MatchAll(inputs ...string) []string
	// MatchFirst returns the first matching input or empty string.
	MatchFirst(inputs ...string) string
	// Pattern returns the original pattern string.
	Pattern() string
	// Empty reports whether the pattern normalizes to nothing.
	Empty() bool
}

// matcher is the concrete implementation of the Matcher interface.
type matcher struct {
	pattern    string
	normalized string
	mode       Mode
}

// New creates a Matcher for pattern. The pattern is normalized once.
func New(mode Mode, pattern string) Matcher {
	return &matcher{
		pattern:    pattern,
		normalized: Normalize(pattern),
		mode:       mode,
	}
}

// Match checks if the input matches the pattern. An empty pattern matches
// nothing.
func (m *matcher) Match(input string) bool {
	if m.normalized == "" {
		return false
	}
	n := Normalize(input)
	switch m.mode {
	case Exact:
		return n == m.normalized
	case Prefix:
		return strings.HasPrefix(n, m.normalized)
	default:
		return strings.Contains(n, m.normalized)
	}
}

// MatchAny reports whether any of the inputs match.
func (m *matcher) MatchAny(inputs ...string) bool {
	for _, input := range inputs {
		if m.Match(input) {
			return true
		}
	}
	return false
}

// MatchAll returns the inputs that match, in order.
func (m *matcher) MatchAll(inputs ...string) []string {
	results := make([]string, 0)
	for _, input := range inputs {
		if m.Match(input) {
			results = append(results, input)
		}
	}
	return results
}

// MatchFirst returns the first matching input or empty string.
func (m *matcher) MatchFirst(inputs ...string) string {
	for _, input := range inputs {
		if m.Match(input) {
			return input
		}
	}
	return ""
}

// Pattern returns the original pattern string.
func (m *matcher) Pattern() string {
	return m.pattern
}

// Empty reports whether the pattern normalizes to nothing.
func (m *matcher) Empty() bool {
	return m.normalized == ""
}

// Normalize upper-cases s and removes whitespace, dashes and dots.
func Normalize(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '-' || r == '.' {
			return -1
		}
		return unicode.ToUpper(r)
	}, s)
}

// LeadingAlpha returns the leading run of letters of s, upper-cased.
// "xf-1" gives "XF", "70.950" gives "".
func LeadingAlpha(s string) string {
	s = strings.TrimSpace(s)
	end := 0
	for i, r := range s {
		if !unicode.IsLetter(r) {
			break
		}
		end = i + len(string(r))
	}
	return strings.ToUpper(s[:end])
}

// Fold lower-cases s, strips diacritics and collapses whitespace. A trailing
// colon is dropped so "EAN:" and "ean" fold the same.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	folded = strings.ToLower(strings.Join(strings.Fields(folded), " "))
	return strings.TrimSpace(strings.TrimSuffix(folded, ":"))
}

// CollapseSpace trims s and collapses inner whitespace to single spaces.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
