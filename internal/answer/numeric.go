package answer

import (
	"regexp"

	"github.com/queckhq/queck/internal/microfmt"
)

// numToken matches one decimal number without exponent. At least one digit
// is required, so a bare "-" or "." never parses.
const numToken = `-?(?:\d+(?:\.\d+)?|\.\d+)`

var (
	rangePattern = regexp.MustCompile(
		`^\s*(?P<low>` + numToken + `)\s*\.\.\s*(?P<high>` + numToken + `)\s*$`)
	tolerancePattern = regexp.MustCompile(
		`^\s*(?P<value>` + numToken + `)\s*\|\s*(?P<tolerance>` + numToken + `)\s*$`)
)

// NumRange is an inclusive numeric interval written "low..high".
// Low never exceeds High; parsing reorders the ends when needed.
type NumRange struct {
	Low  microfmt.Number
	High microfmt.Number
}

// Formatted returns the canonical "low..high" form.
func (r NumRange) Formatted() string { return r.Low.String() + ".." + r.High.String() }

// ToTolerance converts the range to its midpoint-and-spread form.
// Both halves stay integers when the sums divide evenly.
func (r NumRange) ToTolerance() NumTolerance {
	return NumTolerance{
		Value:     microfmt.Halve(microfmt.Add(r.Low, r.High)),
		Tolerance: microfmt.Halve(microfmt.Sub(r.High, r.Low)),
	}
}

// ParseNumRange parses a "low..high" string, swapping the ends so that
// Low <= High.
func ParseNumRange(raw string) (NumRange, error) {
	parsed, err := microfmt.Parse(raw, rangePattern, buildRange)
	if err != nil {
		return NumRange{}, err
	}
	return parsed.Parsed(), nil
}

func buildRange(g microfmt.Groups) (NumRange, error) {
	low, err := microfmt.ParseNumber(g.Get("low"))
	if err != nil {
		return NumRange{}, err
	}
	high, err := microfmt.ParseNumber(g.Get("high"))
	if err != nil {
		return NumRange{}, err
	}
	if high.Less(low) {
		low, high = high, low
	}
	return NumRange{Low: low, High: high}, nil
}

// NumTolerance is a numeric answer written "value|tolerance", accepting
// anything within value ± tolerance. Unlike a range, the two parts keep
// their written order.
type NumTolerance struct {
	Value     microfmt.Number
	Tolerance microfmt.Number
}

// Formatted returns the canonical "value|tolerance" form.
func (t NumTolerance) Formatted() string { return t.Value.String() + "|" + t.Tolerance.String() }

// ToRange converts the tolerance to the interval it accepts.
func (t NumTolerance) ToRange() NumRange {
	low := microfmt.Sub(t.Value, t.Tolerance)
	high := microfmt.Add(t.Value, t.Tolerance)
	if high.Less(low) {
		low, high = high, low
	}
	return NumRange{Low: low, High: high}
}

// ParseNumTolerance parses a "value|tolerance" string.
func ParseNumTolerance(raw string) (NumTolerance, error) {
	parsed, err := microfmt.Parse(raw, tolerancePattern, buildTolerance)
	if err != nil {
		return NumTolerance{}, err
	}
	return parsed.Parsed(), nil
}

func buildTolerance(g microfmt.Groups) (NumTolerance, error) {
	value, err := microfmt.ParseNumber(g.Get("value"))
	if err != nil {
		return NumTolerance{}, err
	}
	tolerance, err := microfmt.ParseNumber(g.Get("tolerance"))
	if err != nil {
		return NumTolerance{}, err
	}
	return NumTolerance{Value: value, Tolerance: tolerance}, nil
}
