package queck

import (
	"reflect"
	"testing"

	"github.com/queckhq/queck/internal/answer"
	"github.com/queckhq/queck/internal/microfmt"
)

func TestTotalMarks(t *testing.T) {
	t.Run("integer sum stays integer", func(t *testing.T) {
		q := &Queck{Title: "T", Items: []Item{
			&Question{Text: "a", Answer: answer.Integer(1), Marks: microfmt.Int(2)},
			&Question{Text: "b", Answer: answer.Integer(2), Marks: microfmt.Int(3)},
		}}
		total := q.TotalMarks()
		if !total.IsInt() || total.String() != "5" {
			t.Errorf("TotalMarks() = %s", total)
		}
	})
	t.Run("decimal sum is exact", func(t *testing.T) {
		q := &Queck{Title: "T", Items: []Item{
			&Question{Text: "a", Answer: answer.Integer(1), Marks: microfmt.Float(0.1)},
			&Question{Text: "b", Answer: answer.Integer(2), Marks: microfmt.Float(0.2)},
		}}
		if got := q.TotalMarks().String(); got != "0.3" {
			t.Errorf("TotalMarks() = %s, want 0.3", got)
		}
	})
	t.Run("descriptions are free", func(t *testing.T) {
		q := &Queck{Title: "T", Items: []Item{
			&Description{Text: "intro"},
			&Question{Text: "a", Answer: answer.Integer(1), Marks: microfmt.Int(4)},
		}}
		if got := q.TotalMarks().String(); got != "4" {
			t.Errorf("TotalMarks() = %s, want 4", got)
		}
	})
	t.Run("nested quizzes and groups count", func(t *testing.T) {
		q := &Queck{Title: "Bank", Items: []Item{
			&Queck{Title: "Inner", Items: []Item{
				&Question{Text: "a", Answer: answer.Integer(1), Marks: microfmt.Int(2)},
			}},
			&CommonDataQuestion{Text: "data", Questions: []*Question{
				{Text: "b", Answer: answer.Integer(2), Marks: microfmt.Int(1)},
				{Text: "c", Answer: answer.Integer(3), Marks: microfmt.Float(0.5)},
			}},
		}}
		if got := q.TotalMarks().String(); got != "3.5" {
			t.Errorf("TotalMarks() = %s, want 3.5", got)
		}
	})
}

func TestQuestionCount(t *testing.T) {
	q := &Queck{Title: "T", Items: []Item{
		&Description{Text: "intro"},
		&Question{Text: "a", Answer: answer.Integer(1)},
		&CommonDataQuestion{Text: "data", Questions: []*Question{
			{Text: "b", Answer: answer.Integer(2)},
			{Text: "c", Answer: answer.Integer(3)},
		}},
		&Queck{Title: "Inner", Items: []Item{
			&Question{Text: "d", Answer: answer.Integer(4)},
		}},
	}}
	if got := q.QuestionCount(); got != 4 {
		t.Errorf("QuestionCount() = %d, want 4", got)
	}
}

func TestIsBank(t *testing.T) {
	bank := &Queck{Title: "B", Items: []Item{&Queck{Title: "W1"}}}
	if !bank.IsBank() {
		t.Error("IsBank() = false for nested quecks")
	}
	quiz := &Queck{Title: "Q", Items: []Item{&Question{Text: "a", Answer: answer.Integer(1)}}}
	if quiz.IsBank() {
		t.Error("IsBank() = true for a plain quiz")
	}
	empty := &Queck{Title: "E"}
	if empty.IsBank() {
		t.Error("IsBank() = true for an empty quiz")
	}
}

func TestNormalizeAnswers(t *testing.T) {
	newQuiz := func(t *testing.T) *Queck {
		t.Helper()
		r, err := answer.ParseNumRange("90..110")
		if err != nil {
			t.Fatal(err)
		}
		tol, err := answer.ParseNumTolerance("5|1")
		if err != nil {
			t.Fatal(err)
		}
		return &Queck{Title: "T", Items: []Item{
			&Question{Text: "a", Answer: r},
			&Queck{Title: "Inner", Items: []Item{
				&Question{Text: "b", Answer: tol},
			}},
			&Question{Text: "c", Answer: answer.TrueOrFalse(true)},
		}}
	}

	t.Run("ranges to tolerances", func(t *testing.T) {
		q := newQuiz(t)
		q.NormalizeAnswers(NormalizeOptions{NumType: NumTypeTolerance})
		tol, ok := q.Items[0].(*Question).Answer.(answer.NumTolerance)
		if !ok {
			t.Fatalf("got %T, want NumTolerance", q.Items[0].(*Question).Answer)
		}
		if got := tol.Formatted(); got != "100|10" {
			t.Errorf("normalized answer = %q, want 100|10", got)
		}
	})
	t.Run("tolerances to ranges recurses", func(t *testing.T) {
		q := newQuiz(t)
		q.NormalizeAnswers(NormalizeOptions{NumType: NumTypeRange})
		inner := q.Items[1].(*Queck).Items[0].(*Question)
		r, ok := inner.Answer.(answer.NumRange)
		if !ok {
			t.Fatalf("got %T, want NumRange", inner.Answer)
		}
		if got := r.Formatted(); got != "4..6" {
			t.Errorf("normalized answer = %q, want 4..6", got)
		}
	})
	t.Run("bool to choices", func(t *testing.T) {
		q := newQuiz(t)
		q.NormalizeAnswers(NormalizeOptions{BoolToChoice: true})
		ss, ok := q.Items[2].(*Question).Answer.(answer.SingleSelect)
		if !ok {
			t.Fatalf("got %T, want SingleSelect", q.Items[2].(*Question).Answer)
		}
		if got := ss.Choices.Strings()[0]; got != "(o) True" {
			t.Errorf("first choice = %q", got)
		}
	})
	t.Run("no flags leave answers alone", func(t *testing.T) {
		q := newQuiz(t)
		before := q.Clone()
		q.NormalizeAnswers(NormalizeOptions{})
		if !reflect.DeepEqual(q, before) {
			t.Error("NormalizeAnswers with zero options changed the quiz")
		}
	})
}

func TestClone(t *testing.T) {
	orig := &Queck{Title: "T", Items: []Item{
		&Question{Text: "a", Answer: answer.TrueOrFalse(true), Tags: []string{"x"}},
		&CommonDataQuestion{Text: "data", Questions: []*Question{
			{Text: "b", Answer: answer.Integer(2)},
			{Text: "c", Answer: answer.Integer(3)},
		}},
	}}
	clone := orig.Clone()
	if !reflect.DeepEqual(orig, clone) {
		t.Fatal("Clone() differs from the original")
	}
	clone.Items[0].(*Question).Text = "changed"
	clone.Items[0].(*Question).Tags[0] = "y"
	clone.Items[1].(*CommonDataQuestion).Questions[0].Marks = microfmt.Int(9)
	clone.NormalizeAnswers(NormalizeOptions{BoolToChoice: true})
	if orig.Items[0].(*Question).Text != "a" {
		t.Error("mutating the clone changed the original text")
	}
	if orig.Items[0].(*Question).Tags[0] != "x" {
		t.Error("mutating the clone changed the original tags")
	}
	if !orig.Items[1].(*CommonDataQuestion).Questions[0].Marks.IsZero() {
		t.Error("mutating the clone changed the original marks")
	}
	if _, ok := orig.Items[0].(*Question).Answer.(answer.TrueOrFalse); !ok {
		t.Error("normalizing the clone changed the original answer")
	}
}
