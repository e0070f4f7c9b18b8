package export

import (
	"fmt"
	"html/template"

	"github.com/queckhq/queck/internal/answer"
	"github.com/queckhq/queck/internal/microfmt"
	"github.com/queckhq/queck/internal/queck"
)

// page is the data both output templates execute against. Text fields
// are pre-rendered: HTML output carries expanded markup, markdown
// output carries normalized source, so the templates only arrange.
type page struct {
	Title      string
	MathJax    bool
	Questions  string // "5 questions", empty for none
	TotalMarks string // "3 marks", empty for zero
	Overview   []statView
	Items      []itemView
}

type statView struct {
	Label     string
	Count     int
	Marks     string
	Breakdown []statView
}

type itemView struct {
	Kind     string // queck.ItemType* tag
	Depth    int    // heading level: 2 at the top, one deeper per nesting
	Number   int    // 1-based question number, 0 for unnumbered items
	Title    string // nested quiz section
	Label    string // heading label for common-data groups
	Text     template.HTML
	Marks    string
	Answer   *answerView
	Feedback template.HTML
	Tags     []string
	Items    []itemView // common-data sub-questions or nested quiz items
}

type answerView struct {
	Kind     string
	Multiple bool
	Choices  []choiceView
	Value    string // display text for the non-choice kinds
}

type choiceView struct {
	Text     template.HTML
	Feedback template.HTML
	Correct  bool
}

// textFunc rewrites one markdown field for the target output.
type textFunc func(string) (string, error)

func (e *Exporter) buildPage(q *queck.Queck, opts Options, text textFunc) (*page, error) {
	p := &page{
		Title:      q.Title,
		MathJax:    opts.Style == StyleLaTeX,
		Questions:  questionsText(q.QuestionCount()),
		TotalMarks: marksText(q.TotalMarks()),
	}
	if opts.Overview {
		p.Overview = statViews(queck.Overview(q, e.labels))
	}
	num := 0
	items, err := e.buildItems(q.Items, &num, 2, text)
	if err != nil {
		return nil, err
	}
	p.Items = items
	return p, nil
}

func statViews(stats []queck.Stat) []statView {
	out := make([]statView, len(stats))
	for i, s := range stats {
		out[i] = statView{
			Label:     s.Label,
			Count:     s.Count,
			Marks:     s.Marks.String(),
			Breakdown: statViews(s.Breakdown),
		}
	}
	return out
}

func (e *Exporter) buildItems(items []queck.Item, num *int, depth int, text textFunc) ([]itemView, error) {
	out := make([]itemView, 0, len(items))
	for _, it := range items {
		v, err := e.buildItem(it, num, depth, text)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (e *Exporter) buildItem(it queck.Item, num *int, depth int, text textFunc) (itemView, error) {
	switch v := it.(type) {
	case *queck.Question:
		return e.buildQuestion(v, num, depth, text)
	case *queck.CommonDataQuestion:
		body, err := text(v.Text)
		if err != nil {
			return itemView{}, err
		}
		view := itemView{
			Kind:  it.TypeTag(),
			Depth: depth,
			Label: e.labels.Get(queck.ItemTypeCommonData),
			Text:  template.HTML(body),
		}
		for _, sub := range v.Questions {
			sv, err := e.buildQuestion(sub, num, depth+1, text)
			if err != nil {
				return itemView{}, err
			}
			view.Items = append(view.Items, sv)
		}
		return view, nil
	case *queck.Description:
		body, err := text(v.Text)
		if err != nil {
			return itemView{}, err
		}
		return itemView{Kind: it.TypeTag(), Depth: depth, Text: template.HTML(body)}, nil
	case *queck.Queck:
		view := itemView{
			Kind:  it.TypeTag(),
			Depth: depth,
			Title: v.Title,
			Marks: marksText(v.TotalMarks()),
		}
		// Sections number their questions independently.
		n := 0
		items, err := e.buildItems(v.Items, &n, depth+1, text)
		if err != nil {
			return itemView{}, err
		}
		view.Items = items
		return view, nil
	}
	return itemView{Kind: it.TypeTag(), Depth: depth}, nil
}

func (e *Exporter) buildQuestion(q *queck.Question, num *int, depth int, text textFunc) (itemView, error) {
	*num++
	body, err := text(q.Text)
	if err != nil {
		return itemView{}, err
	}
	view := itemView{
		Kind:   q.TypeTag(),
		Depth:  depth,
		Number: *num,
		Text:   template.HTML(body),
		Marks:  marksText(q.Marks),
		Tags:   q.Tags,
	}
	if q.Feedback != "" {
		fb, err := text(q.Feedback)
		if err != nil {
			return itemView{}, err
		}
		view.Feedback = template.HTML(fb)
	}
	av, err := e.buildAnswer(q.Answer, text)
	if err != nil {
		return itemView{}, err
	}
	view.Answer = av
	return view, nil
}

func (e *Exporter) buildAnswer(a answer.Answer, text textFunc) (*answerView, error) {
	view := &answerView{Kind: a.TypeTag()}
	switch v := a.(type) {
	case answer.SingleSelect:
		return e.buildChoices(view, v.Choices, false, text)
	case answer.MultipleSelect:
		return e.buildChoices(view, v.Choices, true, text)
	case answer.Integer:
		view.Value = v.String()
	case answer.NumRange:
		view.Value = v.Formatted()
	case answer.NumTolerance:
		view.Value = v.Formatted()
	case answer.ShortAnswer:
		view.Value = string(v)
	case answer.TrueOrFalse:
		if v {
			view.Value = "True"
		} else {
			view.Value = "False"
		}
	}
	return view, nil
}

func (e *Exporter) buildChoices(view *answerView, cs answer.Choices, multiple bool, text textFunc) (*answerView, error) {
	view.Multiple = multiple
	for _, c := range cs {
		p := c.Parsed()
		body, err := text(p.Text)
		if err != nil {
			return nil, err
		}
		cv := choiceView{Text: template.HTML(body), Correct: p.IsCorrect}
		if p.Feedback != "" {
			fb, err := text(p.Feedback)
			if err != nil {
				return nil, err
			}
			cv.Feedback = template.HTML(fb)
		}
		view.Choices = append(view.Choices, cv)
	}
	return view, nil
}

func marksText(n microfmt.Number) string {
	if n.IsZero() {
		return ""
	}
	if n.String() == "1" {
		return "1 mark"
	}
	return n.String() + " marks"
}

func questionsText(count int) string {
	switch count {
	case 0:
		return ""
	case 1:
		return "1 question"
	}
	return fmt.Sprintf("%d questions", count)
}
