// Package queck models the queck quiz document: a title with a list of
// questions, descriptions, common-data groups and nested quizzes. It
// loads and dumps the canonical YAML form, the structured notebook JSON
// form and the in-between node trees the formatter merges.
package queck

import (
	"slices"

	"github.com/queckhq/queck/internal/answer"
	"github.com/queckhq/queck/internal/microfmt"
	"github.com/shopspring/decimal"
)

// Item type tags used by the structured encodings.
const (
	ItemTypeQueck       = "queck"
	ItemTypeQuestion    = "question"
	ItemTypeCommonData  = "common_data_question"
	ItemTypeDescription = "description"
)

// Queck is a quiz: a title plus a list of items. A queck whose items
// are themselves quecks acts as a question bank.
type Queck struct {
	Title string
	Items []Item
}

// Item is one entry of a quiz.
type Item interface {
	TypeTag() string
	isItem()
}

// Question is a single prompt with an answer, optional feedback, marks
// and tags. Text and feedback are markdown.
type Question struct {
	Text     string
	Answer   answer.Answer
	Feedback string
	Marks    microfmt.Number
	Tags     []string
}

func (*Question) TypeTag() string { return ItemTypeQuestion }
func (*Question) isItem()         {}

// CommonDataQuestion shares introductory text across at least two
// sub-questions.
type CommonDataQuestion struct {
	Text      string
	Questions []*Question
}

func (*CommonDataQuestion) TypeTag() string { return ItemTypeCommonData }
func (*CommonDataQuestion) isItem()         {}

// Description is explanatory text between questions. It has no answer
// and no marks.
type Description struct {
	Text string
}

func (*Description) TypeTag() string { return ItemTypeDescription }
func (*Description) isItem()         {}

func (*Queck) TypeTag() string { return ItemTypeQueck }
func (*Queck) isItem()         {}

// IsBank reports whether the quiz is a bank of nested quecks.
func (q *Queck) IsBank() bool {
	if len(q.Items) == 0 {
		return false
	}
	_, ok := q.Items[0].(*Queck)
	return ok
}

// TotalMarks sums the marks of every question, including nested
// quizzes and common-data groups. Descriptions contribute nothing.
// Sums over decimal marks are exact, so 0.1 + 0.2 is 0.3.
func (q *Queck) TotalMarks() microfmt.Number {
	return numberFromDecimal(q.totalMarks())
}

func (q *Queck) totalMarks() decimal.Decimal {
	total := decimal.Zero
	for _, it := range q.Items {
		total = total.Add(itemMarks(it))
	}
	return total
}

func itemMarks(it Item) decimal.Decimal {
	switch v := it.(type) {
	case *Question:
		return decimalFromNumber(v.Marks)
	case *CommonDataQuestion:
		total := decimal.Zero
		for _, sub := range v.Questions {
			total = total.Add(decimalFromNumber(sub.Marks))
		}
		return total
	case *Queck:
		return v.totalMarks()
	}
	return decimal.Zero
}

func decimalFromNumber(n microfmt.Number) decimal.Decimal {
	if n.IsInt() {
		return decimal.NewFromInt(n.Int64())
	}
	return decimal.NewFromFloat(n.Float64())
}

func numberFromDecimal(d decimal.Decimal) microfmt.Number {
	if d.IsInteger() {
		return microfmt.Int(d.IntPart())
	}
	f, _ := d.Float64()
	return microfmt.Float(f)
}

// QuestionCount counts the questions of the quiz, including nested
// ones. Descriptions are not counted.
func (q *Queck) QuestionCount() int {
	n := 0
	for _, it := range q.Items {
		switch v := it.(type) {
		case *Question:
			n++
		case *CommonDataQuestion:
			n += len(v.Questions)
		case *Queck:
			n += v.QuestionCount()
		}
	}
	return n
}

// Numeric normalization targets for NormalizeAnswers.
const (
	NumTypeRange     = "range"
	NumTypeTolerance = "tolerance"
)

// NormalizeOptions selects the answer rewrites applied by
// NormalizeAnswers.
type NormalizeOptions struct {
	// NumType converts between the numeric answer forms: NumTypeRange
	// rewrites tolerances as ranges, NumTypeTolerance rewrites ranges
	// as tolerances. Empty leaves both alone.
	NumType string
	// BoolToChoice rewrites true/false answers as single-select choice
	// lists.
	BoolToChoice bool
}

// NormalizeAnswers rewrites answers in place throughout the quiz,
// including nested quizzes and common-data groups.
func (q *Queck) NormalizeAnswers(opts NormalizeOptions) {
	for _, it := range q.Items {
		switch v := it.(type) {
		case *Question:
			v.Answer = normalizeAnswer(v.Answer, opts)
		case *CommonDataQuestion:
			for _, sub := range v.Questions {
				sub.Answer = normalizeAnswer(sub.Answer, opts)
			}
		case *Queck:
			v.NormalizeAnswers(opts)
		}
	}
}

func normalizeAnswer(a answer.Answer, opts NormalizeOptions) answer.Answer {
	switch v := a.(type) {
	case answer.NumRange:
		if opts.NumType == NumTypeTolerance {
			return v.ToTolerance()
		}
	case answer.NumTolerance:
		if opts.NumType == NumTypeRange {
			return v.ToRange()
		}
	case answer.TrueOrFalse:
		if opts.BoolToChoice {
			return v.ToChoices()
		}
	}
	return a
}

// Clone returns a deep copy of the quiz. Cloning before a destructive
// rewrite keeps the original intact.
func (q *Queck) Clone() *Queck {
	out := &Queck{Title: q.Title}
	if q.Items != nil {
		out.Items = make([]Item, len(q.Items))
		for i, it := range q.Items {
			out.Items[i] = cloneItem(it)
		}
	}
	return out
}

func cloneItem(it Item) Item {
	switch v := it.(type) {
	case *Question:
		return cloneQuestion(v)
	case *CommonDataQuestion:
		c := &CommonDataQuestion{Text: v.Text, Questions: make([]*Question, len(v.Questions))}
		for i, sub := range v.Questions {
			c.Questions[i] = cloneQuestion(sub)
		}
		return c
	case *Description:
		c := *v
		return &c
	case *Queck:
		return v.Clone()
	}
	return it
}

func cloneQuestion(q *Question) *Question {
	c := *q
	c.Tags = slices.Clone(q.Tags)
	return &c
}
