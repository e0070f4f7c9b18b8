package config

import (
	"testing"

	"github.com/queckhq/queck/internal/queck"
	"github.com/spf13/viper"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if got := cfg.TypeLabels["single_select_choices"]; got != "Single Select" {
		t.Errorf("default label = %q, want %q", got, "Single Select")
	}
	if cfg.Normalize != (Normalize{}) {
		t.Errorf("default normalization should be off: %+v", cfg.Normalize)
	}
}

func TestFromViper(t *testing.T) {
	v := viper.New()
	v.Set("type_labels", map[string]string{"numerical_integer": "Integer"})
	v.Set("normalize.bool_to_choice", true)
	v.Set("normalize.num_type", "range")

	cfg, err := FromViper(v)
	if err != nil {
		t.Fatalf("FromViper: %v", err)
	}
	if got := cfg.TypeLabels["numerical_integer"]; got != "Integer" {
		t.Errorf("override lost: %q", got)
	}
	if got := cfg.TypeLabels["short_answer"]; got != "Short Answer" {
		t.Errorf("default label lost: %q", got)
	}
	want := queck.NormalizeOptions{NumType: queck.NumTypeRange, BoolToChoice: true}
	if cfg.NormalizeOptions() != want {
		t.Errorf("NormalizeOptions = %+v, want %+v", cfg.NormalizeOptions(), want)
	}
}

func TestFromViperBadNumType(t *testing.T) {
	v := viper.New()
	v.Set("normalize.num_type", "decimal")
	if _, err := FromViper(v); err == nil {
		t.Fatal("expected error for unknown num_type")
	}
}

func TestMergeLabels(t *testing.T) {
	v := viper.New()
	v.Set("type_labels", map[string]string{"short_answer": "Free Text"})
	cfg, err := FromViper(v)
	if err != nil {
		t.Fatalf("FromViper: %v", err)
	}

	base := queck.Labels{"short_answer": "Краткий ответ", "true_or_false": "Верно/Неверно"}
	merged := cfg.MergeLabels(base)
	if merged.Get("short_answer") != "Free Text" {
		t.Errorf("workspace label should win: %q", merged.Get("short_answer"))
	}
	if merged.Get("true_or_false") != "Верно/Неверно" {
		t.Errorf("base label lost: %q", merged.Get("true_or_false"))
	}
}
