package microfmt

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Number is a numeric scalar that remembers whether its source text was an
// integer or a decimal. "5" and "5.0" parse to distinct Numbers that format
// back to their original spelling. Formatting never uses scientific
// notation, so a parsed "20" round-trips as "20", not "2E1".
type Number struct {
	float bool
	i     int64
	f     float64
}

// Int returns an integer Number.
func Int(v int64) Number { return Number{i: v} }

// Float returns a decimal Number.
func Float(v float64) Number { return Number{float: true, f: v} }

// ParseNumber parses a plain decimal token such as "-12", "3.25" or ".5".
// Exponent, hex and inf/nan spellings are rejected even though strconv
// accepts them; micro-formats only carry plain notation.
func ParseNumber(s string) (Number, error) {
	s = strings.TrimSpace(s)
	if strings.IndexFunc(s, unicode.IsLetter) >= 0 || strings.Contains(s, "_") {
		return Number{}, fmt.Errorf("parse number %q: plain decimal notation required", s)
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Int(i), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Number{}, fmt.Errorf("parse number %q: %w", s, err)
	}
	return Float(f), nil
}

// IsInt reports whether the number is an integer.
func (n Number) IsInt() bool { return !n.float }

// IsZero reports whether the value is numerically zero.
func (n Number) IsZero() bool {
	if n.float {
		return n.f == 0
	}
	return n.i == 0
}

// Int64 returns the value as an int64, truncating any fraction.
func (n Number) Int64() int64 {
	if n.float {
		return int64(n.f)
	}
	return n.i
}

// Float64 returns the value as a float64.
func (n Number) Float64() float64 {
	if n.float {
		return n.f
	}
	return float64(n.i)
}

// Less reports whether n is numerically smaller than m.
func (n Number) Less(m Number) bool {
	if !n.float && !m.float {
		return n.i < m.i
	}
	return n.Float64() < m.Float64()
}

func (n Number) String() string {
	if !n.float {
		return strconv.FormatInt(n.i, 10)
	}
	if n.f == math.Trunc(n.f) && !math.IsInf(n.f, 0) {
		// Whole-valued decimals keep one fractional digit so the value
		// reads back as a decimal, not an integer.
		return strconv.FormatFloat(n.f, 'f', 1, 64)
	}
	return strconv.FormatFloat(n.f, 'f', -1, 64)
}

// Add returns a+b, staying integral when both operands are integers.
func Add(a, b Number) Number {
	if !a.float && !b.float {
		return Int(a.i + b.i)
	}
	return Float(a.Float64() + b.Float64())
}

// Sub returns a-b, staying integral when both operands are integers.
func Sub(a, b Number) Number {
	if !a.float && !b.float {
		return Int(a.i - b.i)
	}
	return Float(a.Float64() - b.Float64())
}

// Halve returns n/2, staying integral when n is an even integer.
func Halve(n Number) Number {
	if !n.float && n.i%2 == 0 {
		return Int(n.i / 2)
	}
	return Float(n.Float64() / 2)
}
