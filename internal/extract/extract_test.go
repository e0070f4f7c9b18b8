package extract

import (
	"strings"
	"testing"

	"github.com/queckhq/queck/internal/answer"
	"github.com/queckhq/queck/internal/queck"
)

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare object", `{"a": 1}`, `{"a": 1}`},
		{"fenced", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"fence without language", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"surrounding whitespace", "\n  {\"a\": 1}\n", `{"a": 1}`},
		{"nested braces", `{"a": {"b": 2}}`, `{"a": {"b": 2}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripCodeFence(tt.in); got != tt.want {
				t.Errorf("stripCodeFence(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func firstAnswer(t *testing.T, q *queck.Queck) answer.Answer {
	t.Helper()
	if len(q.Items) == 0 {
		t.Fatal("quiz has no items")
	}
	question, ok := q.Items[0].(*queck.Question)
	if !ok {
		t.Fatalf("first item is %T, want *queck.Question", q.Items[0])
	}
	return question.Answer
}

func TestDecode(t *testing.T) {
	raw := `{"title":"Sample","questions":[{"type":"question","text":"2+2?","answer":{"type":"numerical_integer","value":4},"marks":1}]}`
	q, err := Decode(raw, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if q.Title != "Sample" {
		t.Errorf("Title = %q", q.Title)
	}
	if got, ok := firstAnswer(t, q).(answer.Integer); !ok || got != 4 {
		t.Errorf("answer = %#v, want Integer(4)", firstAnswer(t, q))
	}
}

func TestDecodeFenced(t *testing.T) {
	raw := "```json\n{\"title\":\"T\",\"questions\":[{\"type\":\"question\",\"text\":\"Sky is blue?\",\"answer\":{\"type\":\"true_or_false\",\"value\":true}}]}\n```"
	q, err := Decode(raw, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if got, ok := firstAnswer(t, q).(answer.TrueOrFalse); !ok || !bool(got) {
		t.Errorf("answer = %#v, want TrueOrFalse(true)", firstAnswer(t, q))
	}
}

func TestDecodeRepairsMultipleCorrect(t *testing.T) {
	raw := `{"title":"T","questions":[{"type":"question","text":"Pick the primes.","answer":{"type":"single_select_choices","choices":[{"text":"2","is_correct":true},{"text":"3","is_correct":true},{"text":"4","is_correct":false}]}}]}`
	q, err := Decode(raw, Options{})
	if err != nil {
		t.Fatal(err)
	}
	ms, ok := firstAnswer(t, q).(answer.MultipleSelect)
	if !ok {
		t.Fatalf("answer = %#v, want MultipleSelect", firstAnswer(t, q))
	}
	if got := ms.Choices.NCorrect(); got != 2 {
		t.Errorf("NCorrect() = %d, want 2", got)
	}
}

func TestDecodeForcesSingleSelect(t *testing.T) {
	raw := `{"title":"T","questions":[{"type":"question","text":"Capital?","answer":{"type":"multiple_select_choices","choices":[{"text":"Paris","is_correct":true},{"text":"Lyon","is_correct":false}]}}]}`
	q, err := Decode(raw, Options{ForceSingleSelect: true})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := firstAnswer(t, q).(answer.SingleSelect); !ok {
		t.Errorf("answer = %#v, want SingleSelect", firstAnswer(t, q))
	}
}

func TestDecodeRejectsUnrepairable(t *testing.T) {
	raw := `{"title":"T","questions":[{"type":"question","text":"q?","answer":{"type":"single_select_choices","choices":[{"text":"a","is_correct":false},{"text":"b","is_correct":false}]}}]}`
	if _, err := Decode(raw, Options{}); err == nil {
		t.Fatal("want error for zero correct choices")
	} else if !strings.Contains(err.Error(), "validation") {
		t.Errorf("error = %v, want mention of validation", err)
	}
}

func TestDecodeBadJSON(t *testing.T) {
	if _, err := Decode("not json at all", Options{}); err == nil {
		t.Fatal("want error for non-JSON response")
	}
}
