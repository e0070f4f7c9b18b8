package answer

import (
	"errors"
	"testing"

	"github.com/queckhq/queck/internal/microfmt"
)

func TestParseChoiceCanonicalizes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"incorrect", "( ) Paris", "( ) Paris"},
		{"single correct", "(o) Paris", "(o) Paris"},
		{"multiple correct", "(x) Paris", "(x) Paris"},
		{"extra whitespace", "  ( )   Paris  ", "( ) Paris"},
		{"no space after mark", "(o)Paris", "(o) Paris"},
		{"feedback", "( ) Lyon /# Close, but no", "( ) Lyon /# Close, but no"},
		{"legacy separator", "( ) Lyon // Close, but no", "( ) Lyon /# Close, but no"},
		{"empty feedback dropped", "( ) Lyon /#", "( ) Lyon"},
		{"empty text", "( )", "( )"},
		{
			"multiline",
			"(x)\nFirst line\nsecond line\n\n// \n\nWhy it is right\n\n",
			"(x) First line\nsecond line /# Why it is right",
		},
		{
			"current separator wins over legacy",
			"(o) See https://example.com/docs /# The docs explain it",
			"(o) See https://example.com/docs /# The docs explain it",
		},
		{
			"legacy splits protocol slashes",
			"(o) See https://example.com",
			"(o) See https: /# example.com",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := ParseChoice(tt.in)
			if err != nil {
				t.Fatalf("ParseChoice(%q): %v", tt.in, err)
			}
			if got := c.String(); got != tt.want {
				t.Errorf("ParseChoice(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseChoiceFields(t *testing.T) {
	c, err := ParseChoice("(x) All of the above /# Every option holds")
	if err != nil {
		t.Fatal(err)
	}
	m := c.Parsed()
	if m.Text != "All of the above" {
		t.Errorf("Text = %q", m.Text)
	}
	if m.Feedback != "Every option holds" {
		t.Errorf("Feedback = %q", m.Feedback)
	}
	if !m.IsCorrect || m.Kind != KindMultipleSelect {
		t.Errorf("IsCorrect = %v, Kind = %v", m.IsCorrect, m.Kind)
	}
}

func TestChoiceEscaping(t *testing.T) {
	in := `(o) Write /&#35; to escape /# Separators parse once`
	c, err := ParseChoice(in)
	if err != nil {
		t.Fatal(err)
	}
	if got := c.Parsed().Text; got != "Write /# to escape" {
		t.Errorf("Text = %q, want %q", got, "Write /# to escape")
	}
	if got := c.Parsed().Feedback; got != "Separators parse once" {
		t.Errorf("Feedback = %q", got)
	}
	if got := c.String(); got != in {
		t.Errorf("String() = %q, want %q", got, in)
	}
}

func TestParseChoiceIdempotent(t *testing.T) {
	inputs := []string{
		"( ) Paris",
		"(x) O(n^2) /# quadratic",
		"(o) a /&#35; b",
		"( ) Lyon // Close",
	}
	for _, in := range inputs {
		first, err := ParseChoice(in)
		if err != nil {
			t.Fatalf("ParseChoice(%q): %v", in, err)
		}
		second, err := ParseChoice(first.String())
		if err != nil {
			t.Fatalf("ParseChoice(%q): %v", first.String(), err)
		}
		if first.String() != second.String() {
			t.Errorf("reparse of %q changed %q to %q", in, first.String(), second.String())
		}
		if first.Parsed() != second.Parsed() {
			t.Errorf("reparse of %q changed the parsed form", in)
		}
	}
}

func TestParseChoiceBadInput(t *testing.T) {
	for _, in := range []string{"(y) Paris", "(X) Paris", "(oo) Paris", "[] Paris", "Paris"} {
		_, err := ParseChoice(in)
		var fe *microfmt.FormatError
		if !errors.As(err, &fe) {
			t.Errorf("ParseChoice(%q) error = %v, want format error", in, err)
		}
	}
}
