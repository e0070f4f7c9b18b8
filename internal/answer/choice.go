package answer

import (
	"regexp"
	"strings"

	"github.com/queckhq/queck/internal/microfmt"
)

// ChoiceKind tells which selection style a correct choice belongs to.
type ChoiceKind int

const (
	// KindNone marks an incorrect choice.
	KindNone ChoiceKind = iota
	// KindSingleSelect marks the correct choice of a single-select list.
	KindSingleSelect
	// KindMultipleSelect marks a correct choice of a multiple-select list.
	KindMultipleSelect
)

const (
	choiceSep  = "/#"
	legacySep  = "//"
	escapedSep = "/&#35;"
)

// Choice is the parsed form of one answer choice. The canonical text form
// is "({mark}) {text} /# {feedback}" with mark "o" for single-select
// correct, "x" for multiple-select correct and a space for incorrect.
// Text and feedback may span multiple lines; a literal "/#" inside either
// is stored escaped as "/&#35;".
type Choice struct {
	Text      string
	Feedback  string // "" means no feedback
	IsCorrect bool
	Kind      ChoiceKind
}

// Formatted returns the canonical choice string.
func (c Choice) Formatted() string {
	mark := " "
	if c.IsCorrect {
		if c.Kind == KindMultipleSelect {
			mark = "x"
		} else {
			mark = "o"
		}
	}
	var b strings.Builder
	b.WriteString("(")
	b.WriteString(mark)
	b.WriteString(") ")
	b.WriteString(escapeSep(c.Text))
	if c.Feedback != "" {
		b.WriteString(" ")
		b.WriteString(choiceSep)
		b.WriteString(" ")
		b.WriteString(escapeSep(c.Feedback))
	}
	return strings.TrimRight(b.String(), " ")
}

var (
	choicePattern = regexp.MustCompile(
		`^\s*\((?P<mark>[ox ])\)(?P<text>(?s:.*?))(?:/#(?P<feedback>(?s:.*)))?$`)
	choiceLegacyPattern = regexp.MustCompile(
		`^\s*\((?P<mark>[ox ])\)(?P<text>(?s:.*?))(?://(?P<feedback>(?s:.*)))?$`)
)

// ParseChoice parses one choice string. The current "/#" feedback separator
// wins over the legacy "//" form, so feedback attached with "/#" survives
// even when the text contains a double slash.
func ParseChoice(raw string) (microfmt.String[Choice], error) {
	parsed, err := microfmt.Parse(raw, choicePattern, buildChoice)
	if err != nil {
		return parsed, err
	}
	if parsed.Parsed().Feedback == "" && strings.Contains(raw, legacySep) {
		if legacy, lerr := microfmt.Parse(raw, choiceLegacyPattern, buildChoice); lerr == nil {
			return legacy, nil
		}
	}
	return parsed, nil
}

func buildChoice(g microfmt.Groups) (Choice, error) {
	c := Choice{Text: unescapeSep(strings.TrimSpace(g.Get("text")))}
	if fb, ok := g.Lookup("feedback"); ok {
		c.Feedback = unescapeSep(strings.TrimSpace(fb))
	}
	switch g.Get("mark") {
	case "o":
		c.IsCorrect = true
		c.Kind = KindSingleSelect
	case "x":
		c.IsCorrect = true
		c.Kind = KindMultipleSelect
	}
	return c, nil
}

func escapeSep(s string) string { return strings.ReplaceAll(s, choiceSep, escapedSep) }

func unescapeSep(s string) string { return strings.ReplaceAll(s, escapedSep, choiceSep) }

// ChoiceString is a choice paired with its canonical text form.
type ChoiceString = microfmt.String[Choice]

// Choices is an ordered list of choices.
type Choices []ChoiceString

// NCorrect counts the correct choices.
func (cs Choices) NCorrect() int {
	n := 0
	for _, c := range cs {
		if c.Parsed().IsCorrect {
			n++
		}
	}
	return n
}

// NIncorrect counts the incorrect choices.
func (cs Choices) NIncorrect() int { return len(cs) - cs.NCorrect() }

// Strings returns the canonical string of every choice.
func (cs Choices) Strings() []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.String()
	}
	return out
}

// rekind rewrites every correct choice to the given kind so the formatted
// marks match the list's selection style.
func (cs Choices) rekind(kind ChoiceKind) Choices {
	out := make(Choices, len(cs))
	for i, c := range cs {
		m := c.Parsed()
		if m.IsCorrect {
			m.Kind = kind
		} else {
			m.Kind = KindNone
		}
		out[i] = microfmt.FromModel(m)
	}
	return out
}
