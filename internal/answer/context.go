package answer

import (
	"fmt"

	"github.com/queckhq/queck/internal/microfmt"
)

// Context carries the validation and repair options threaded through
// answer construction. The zero value enforces every invariant.
type Context struct {
	// IgnoreNCorrect skips the choice cardinality checks. Used when
	// ingesting content that will be repaired and validated again.
	IgnoreNCorrect bool
	// FixMultipleSelect turns a choice list with more than one correct
	// choice into a multiple-select list instead of failing.
	FixMultipleSelect bool
	// ForceSingleSelect turns a choice list with exactly one correct
	// choice into a single-select list.
	ForceSingleSelect bool
	// Reformat, when set, is applied to choice text and feedback as they
	// are parsed.
	Reformat func(string) string
}

// CardinalityError reports a choice list whose correct and incorrect
// counts do not fit its selection style.
type CardinalityError struct {
	Type       string
	NCorrect   int
	NIncorrect int
}

func (e *CardinalityError) Error() string {
	if e.Type == TypeSingleSelect {
		return fmt.Sprintf(
			"single select needs exactly one correct and at least one incorrect choice, got %d correct and %d incorrect",
			e.NCorrect, e.NIncorrect)
	}
	return fmt.Sprintf(
		"multiple select needs at least one correct and one incorrect choice, got %d correct and %d incorrect",
		e.NCorrect, e.NIncorrect)
}

// ParseChoices parses a list of choice strings into a single- or
// multiple-select answer. The list is multiple-select when any choice
// carries an "x" mark and single-select otherwise; the repair flags on
// ctx may override that based on the number of correct choices.
func ParseChoices(raw []string, ctx Context) (Answer, error) {
	cs := make(Choices, len(raw))
	for i, r := range raw {
		c, err := ParseChoice(r)
		if err != nil {
			return nil, fmt.Errorf("choice %d: %w", i+1, err)
		}
		if ctx.Reformat != nil {
			m := c.Parsed()
			m.Text = ctx.Reformat(m.Text)
			if m.Feedback != "" {
				m.Feedback = ctx.Reformat(m.Feedback)
			}
			c = microfmt.FromModel(m)
		}
		cs[i] = c
	}
	return finishChoices(cs, ctx)
}

// finishChoices decides the selection style of a parsed choice list,
// applies the repair flags, rewrites the marks to match and checks
// cardinality.
func finishChoices(cs Choices, ctx Context) (Answer, error) {
	kind := KindSingleSelect
	for _, c := range cs {
		if c.Parsed().Kind == KindMultipleSelect {
			kind = KindMultipleSelect
			break
		}
	}
	n := cs.NCorrect()
	if ctx.FixMultipleSelect && n > 1 {
		kind = KindMultipleSelect
	}
	if ctx.ForceSingleSelect && n == 1 {
		kind = KindSingleSelect
	}
	cs = cs.rekind(kind)
	if !ctx.IgnoreNCorrect {
		if kind == KindSingleSelect && (n != 1 || cs.NIncorrect() < 1) {
			return nil, &CardinalityError{Type: TypeSingleSelect, NCorrect: n, NIncorrect: cs.NIncorrect()}
		}
		if kind == KindMultipleSelect && (n < 1 || cs.NIncorrect() < 1) {
			return nil, &CardinalityError{Type: TypeMultipleSelect, NCorrect: n, NIncorrect: cs.NIncorrect()}
		}
	}
	if kind == KindMultipleSelect {
		return MultipleSelect{Choices: cs}, nil
	}
	return SingleSelect{Choices: cs}, nil
}
