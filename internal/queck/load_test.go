package queck

import (
	"errors"
	"strings"
	"testing"

	"github.com/queckhq/queck/internal/answer"
)

const sampleQuiz = `title: Sample Quiz
questions:
  - text: What is the capital of France?
    answer:
      - (o) Paris
      - ( ) Lyon /# Second city
    marks: 2
  - text: Pick the primes.
    answer:
      - (x) 2
      - (x) 3
      - ( ) 4
    marks: 3
    tags:
      - Math
      - NUMBER-THEORY
  - text: Atoms per water molecule?
    answer: 3
  - text: Acceptable pH of the buffer?
    answer: 6.8..7.2
  - text: Measured g in the lab?
    answer: 9.8|0.1
  - text: Chemical formula of water?
    answer: H2O
  - text: The sky is blue.
    answer: true
  - text: Intermission.
`

func mustLoad(t *testing.T, src string) *Queck {
	t.Helper()
	q, err := Load([]byte(src), answer.Context{})
	if err != nil {
		t.Fatalf("loading quiz: %v", err)
	}
	return q
}

func TestLoadSampleQuiz(t *testing.T) {
	q := mustLoad(t, sampleQuiz)
	if q.Title != "Sample Quiz" {
		t.Errorf("Title = %q", q.Title)
	}
	if len(q.Items) != 8 {
		t.Fatalf("len(Items) = %d, want 8", len(q.Items))
	}
	wantTypes := []string{
		answer.TypeSingleSelect,
		answer.TypeMultipleSelect,
		answer.TypeInteger,
		answer.TypeRange,
		answer.TypeTolerance,
		answer.TypeShortAnswer,
		answer.TypeTrueOrFalse,
	}
	for i, want := range wantTypes {
		question, ok := q.Items[i].(*Question)
		if !ok {
			t.Fatalf("item %d is %T, want *Question", i, q.Items[i])
		}
		if got := question.Answer.TypeTag(); got != want {
			t.Errorf("item %d answer type = %q, want %q", i, got, want)
		}
	}
	if _, ok := q.Items[7].(*Description); !ok {
		t.Errorf("item 7 is %T, want *Description", q.Items[7])
	}
	if got := q.TotalMarks().String(); got != "5" {
		t.Errorf("TotalMarks() = %s, want 5", got)
	}
	if got := q.QuestionCount(); got != 7 {
		t.Errorf("QuestionCount() = %d, want 7", got)
	}
	first := q.Items[0].(*Question)
	ss := first.Answer.(answer.SingleSelect)
	if got := ss.Choices.Strings()[1]; got != "( ) Lyon /# Second city" {
		t.Errorf("second choice = %q", got)
	}
	second := q.Items[1].(*Question)
	if got := second.Tags; len(got) != 2 || got[0] != "math" || got[1] != "number-theory" {
		t.Errorf("Tags = %v, want lowercased [math number-theory]", got)
	}
}

func TestLoadNestedBank(t *testing.T) {
	src := `title: Bank
questions:
  - title: Week 1
    questions:
      - text: 1+1?
        answer: 2
  - title: Week 2
    questions:
      - text: 2+2?
        answer: 4
        marks: 1
`
	q := mustLoad(t, src)
	if !q.IsBank() {
		t.Fatal("IsBank() = false")
	}
	week2, ok := q.Items[1].(*Queck)
	if !ok {
		t.Fatalf("item 1 is %T, want *Queck", q.Items[1])
	}
	if week2.Title != "Week 2" {
		t.Errorf("Title = %q", week2.Title)
	}
	if got := q.TotalMarks().String(); got != "1" {
		t.Errorf("TotalMarks() = %s", got)
	}
}

func TestLoadCommonData(t *testing.T) {
	src := `title: Quiz
questions:
  - text: A ball is dropped from 20 m.
    questions:
      - text: Time to fall?
        answer: 2|0.1
        marks: 2
      - text: Speed at impact?
        answer: 19..20
        marks: 3
`
	q := mustLoad(t, src)
	cdq, ok := q.Items[0].(*CommonDataQuestion)
	if !ok {
		t.Fatalf("item 0 is %T, want *CommonDataQuestion", q.Items[0])
	}
	if len(cdq.Questions) != 2 {
		t.Fatalf("len(Questions) = %d", len(cdq.Questions))
	}
	if got := q.TotalMarks().String(); got != "5" {
		t.Errorf("TotalMarks() = %s", got)
	}
}

func TestLoadCommonDataTooSmall(t *testing.T) {
	src := `title: Quiz
questions:
  - text: Shared intro.
    questions:
      - text: Only one?
        answer: 1
`
	_, err := Load([]byte(src), answer.Context{})
	if err == nil {
		t.Fatal("want error for a one-question common-data group")
	}
	if !strings.Contains(err.Error(), "at least two") {
		t.Errorf("error = %v", err)
	}
}

func TestLoadErrorPaths(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		wantPath string
		wantMsg  string
	}{
		{
			"bare decimal answer",
			"title: Q\nquestions:\n  - text: Pi?\n    answer: 3.14\n",
			"questions[0].answer",
			"range",
		},
		{
			"bad cardinality",
			"title: Q\nquestions:\n  - text: Choose.\n    answer:\n      - (o) a\n      - (o) b\n      - ( ) c\n",
			"questions[0].answer",
			"exactly one correct",
		},
		{
			"bad marks",
			"title: Q\nquestions:\n  - text: X?\n    answer: 1\n    marks: lots\n",
			"questions[0].marks",
			"bad number",
		},
		{
			"missing title",
			"questions: []\n",
			"",
			"needs a title",
		},
		{
			"typed question without answer",
			"title: Q\nquestions:\n  - type: question\n    text: X?\n",
			"questions[0]",
			"needs an answer",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load([]byte(tt.src), answer.Context{})
			if err == nil {
				t.Fatal("want error")
			}
			var se *SchemaError
			if !errors.As(err, &se) {
				t.Fatalf("error = %v, want SchemaError", err)
			}
			if se.Path != tt.wantPath {
				t.Errorf("Path = %q, want %q", se.Path, tt.wantPath)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error = %v, want mention of %q", err, tt.wantMsg)
			}
		})
	}
}

func TestLoadIgnoresUnknownKeys(t *testing.T) {
	src := `title: Quiz
author: someone
questions:
  - text: 1+1?
    answer: 2
    difficulty: easy
`
	q := mustLoad(t, src)
	if len(q.Items) != 1 {
		t.Fatalf("len(Items) = %d", len(q.Items))
	}
}

func TestLoadRepairContext(t *testing.T) {
	src := `title: Quiz
questions:
  - text: Choose all that apply.
    answer:
      - (o) a
      - (o) b
      - ( ) c
`
	q, err := Load([]byte(src), answer.Context{FixMultipleSelect: true})
	if err != nil {
		t.Fatal(err)
	}
	ms, ok := q.Items[0].(*Question).Answer.(answer.MultipleSelect)
	if !ok {
		t.Fatalf("got %T, want MultipleSelect", q.Items[0].(*Question).Answer)
	}
	if got := ms.Choices.Strings()[0]; got != "(x) a" {
		t.Errorf("first choice = %q", got)
	}
}

func TestLoadReformat(t *testing.T) {
	src := "title: Quiz\nquestions:\n  - text: \"Some text   \\n\"\n    answer: 1\n"
	ctx := answer.Context{Reformat: func(s string) string { return strings.TrimSpace(s) }}
	q, err := Load([]byte(src), ctx)
	if err != nil {
		t.Fatal(err)
	}
	if text := q.Items[0].(*Question).Text; text != "Some text" {
		t.Errorf("text = %q, want %q", text, "Some text")
	}
}
