// Package microfmt implements the pattern-string engine behind queck's
// compact answer formats. A micro-format value is authored as a single
// string, parsed through a regular expression with named capture groups
// into a structured model, and serialized back from the model's canonical
// form rather than the original text.
package microfmt

import (
	"fmt"
	"regexp"
)

// Model is the parsed companion of a pattern string. Formatted returns the
// canonical text form of the value.
type Model interface {
	Formatted() string
}

// FormatError reports input that does not match a micro-format pattern.
type FormatError struct {
	Input   string
	Pattern string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%q does not match pattern %s", e.Input, e.Pattern)
}

// Groups holds the named submatches of a pattern match. Optional groups
// that did not participate in the match are absent from the map.
type Groups map[string]string

// Get returns the named group, or "" when the group is absent.
func (g Groups) Get(name string) string { return g[name] }

// Lookup returns the named group and whether it participated in the match.
func (g Groups) Lookup(name string) (string, bool) {
	v, ok := g[name]
	return v, ok
}

// Match runs re against s and extracts the named capture groups.
func Match(re *regexp.Regexp, s string) (Groups, bool) {
	idx := re.FindStringSubmatchIndex(s)
	if idx == nil {
		return nil, false
	}
	groups := make(Groups)
	for i, name := range re.SubexpNames() {
		if name == "" {
			continue
		}
		start, end := idx[2*i], idx[2*i+1]
		if start < 0 {
			continue
		}
		groups[name] = s[start:end]
	}
	return groups, true
}

// String pairs a canonical string with its parsed model. After construction
// the string always equals the model's Formatted output, whatever whitespace
// or ordering quirks the original input carried.
type String[T Model] struct {
	raw    string
	parsed T
}

// Parse matches raw against re and builds the parsed model from the named
// groups. A non-matching input yields a *FormatError naming the pattern.
// The build callback may reject the captured groups with its own error.
// The stored string is regenerated from the model, so re-parsing the
// result's String is idempotent.
func Parse[T Model](raw string, re *regexp.Regexp, build func(Groups) (T, error)) (String[T], error) {
	groups, ok := Match(re, raw)
	if !ok {
		return String[T]{}, &FormatError{Input: raw, Pattern: re.String()}
	}
	parsed, err := build(groups)
	if err != nil {
		return String[T]{}, err
	}
	return FromModel(parsed), nil
}

// FromModel wraps an already-parsed model, deriving the canonical string
// without any pattern matching. Used when loading structured notebook data
// that never existed in text form.
func FromModel[T Model](parsed T) String[T] {
	return String[T]{raw: parsed.Formatted(), parsed: parsed}
}

func (s String[T]) String() string { return s.raw }

// Parsed returns the cached parsed model.
func (s String[T]) Parsed() T { return s.parsed }
