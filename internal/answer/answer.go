// Package answer implements the answer micro-formats of the queck quiz
// format: marked choice lists, numeric ranges and tolerances, and the
// plain integer, short-answer and true/false scalars. Every answer kind
// round-trips between its canonical text form and a parsed model.
package answer

import (
	"strconv"

	"github.com/queckhq/queck/internal/microfmt"
)

// Answer type tags. The tags discriminate structured encodings and name
// the groups of the quiz overview.
const (
	TypeSingleSelect   = "single_select_choices"
	TypeMultipleSelect = "multiple_select_choices"
	TypeInteger        = "numerical_integer"
	TypeRange          = "numerical_range"
	TypeTolerance      = "numerical_tolerance"
	TypeShortAnswer    = "short_answer"
	TypeTrueOrFalse    = "true_or_false"
)

// TypeOrder lists the answer type tags in canonical order. Overview
// groups and structured encodings follow it.
var TypeOrder = []string{
	TypeSingleSelect,
	TypeMultipleSelect,
	TypeInteger,
	TypeRange,
	TypeTolerance,
	TypeShortAnswer,
	TypeTrueOrFalse,
}

// Answer is the closed union of answer kinds. Code consuming an Answer
// switches over the concrete types; no other implementations exist.
type Answer interface {
	// TypeTag returns the type discriminator of the answer kind.
	TypeTag() string

	isAnswer()
}

// SingleSelect is a choice list with exactly one correct choice,
// marked "(o)".
type SingleSelect struct {
	Choices Choices
}

func (SingleSelect) TypeTag() string { return TypeSingleSelect }
func (SingleSelect) isAnswer()       {}

// MultipleSelect is a choice list whose correct choices are marked "(x)".
type MultipleSelect struct {
	Choices Choices
}

func (MultipleSelect) TypeTag() string { return TypeMultipleSelect }
func (MultipleSelect) isAnswer()       {}

// Integer is an exact whole-number answer.
type Integer int64

func (Integer) TypeTag() string { return TypeInteger }
func (Integer) isAnswer()       {}

// String returns the integer in its canonical decimal form.
func (i Integer) String() string { return strconv.FormatInt(int64(i), 10) }

func (NumRange) TypeTag() string { return TypeRange }
func (NumRange) isAnswer()       {}

func (NumTolerance) TypeTag() string { return TypeTolerance }
func (NumTolerance) isAnswer()       {}

// ShortAnswer is a free-text answer compared verbatim.
type ShortAnswer string

func (ShortAnswer) TypeTag() string { return TypeShortAnswer }
func (ShortAnswer) isAnswer()       {}

// TrueOrFalse is a boolean answer.
type TrueOrFalse bool

func (TrueOrFalse) TypeTag() string { return TypeTrueOrFalse }
func (TrueOrFalse) isAnswer()       {}

// ToChoices rewrites the boolean as an equivalent single-select list with
// "True" and "False" choices.
func (b TrueOrFalse) ToChoices() SingleSelect {
	truthy := Choice{Text: "True"}
	falsy := Choice{Text: "False"}
	if b {
		truthy.IsCorrect = true
		truthy.Kind = KindSingleSelect
	} else {
		falsy.IsCorrect = true
		falsy.Kind = KindSingleSelect
	}
	return SingleSelect{Choices: Choices{
		microfmt.FromModel(truthy),
		microfmt.FromModel(falsy),
	}}
}
