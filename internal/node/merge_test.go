package node

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func mergeYAML(t *testing.T, m Merger, dst, src string) string {
	t.Helper()
	dstDoc, err := Decode([]byte(dst))
	if err != nil {
		t.Fatal(err)
	}
	srcDoc, err := Decode([]byte(src))
	if err != nil {
		t.Fatal(err)
	}
	m.Merge(dstDoc, srcDoc)
	out, err := Encode(dstDoc)
	if err != nil {
		t.Fatal(err)
	}
	return string(out)
}

func TestMergePolicies(t *testing.T) {
	dst := "a: 1\nlist:\n  - 1\n  - 2\n"
	src := "a: 2\nb: 3\nlist:\n  - 9\n  - 8\n  - 7\n"
	tests := []struct {
		name string
		m    Merger
		want string
	}{
		{
			name: "default drops extras",
			m:    Merger{},
			want: "a: 2\nlist:\n  - 9\n  - 8\n",
		},
		{
			name: "extend dicts appends new keys",
			m:    Merger{ExtendDicts: true},
			want: "a: 2\nlist:\n  - 9\n  - 8\nb: 3\n",
		},
		{
			name: "extend lists appends new items",
			m:    Merger{ExtendLists: true},
			want: "a: 2\nlist:\n  - 9\n  - 8\n  - 7\n",
		},
		{
			name: "extend both",
			m:    Merger{ExtendLists: true, ExtendDicts: true},
			want: "a: 2\nlist:\n  - 9\n  - 8\n  - 7\nb: 3\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mergeYAML(t, tt.m, dst, src); got != tt.want {
				t.Errorf("merged document:\n%s\nwant:\n%s", got, tt.want)
			}
		})
	}
}

func TestMergeKeepsComments(t *testing.T) {
	got := mergeYAML(t, Merger{}, "# head\na: 1 # keep me\n", "a: 2\n")
	want := "# head\na: 2 # keep me\n"
	if got != want {
		t.Errorf("merged document:\n%s\nwant:\n%s", got, want)
	}
}

func TestMergeKeepsUnmodeledKeys(t *testing.T) {
	got := mergeYAML(t, Merger{}, "a: 1\nkeep: here\n", "a: 2\n")
	want := "a: 2\nkeep: here\n"
	if got != want {
		t.Errorf("merged document:\n%s\nwant:\n%s", got, want)
	}
}

func TestMergeKeepsScalarStyle(t *testing.T) {
	got := mergeYAML(t, Merger{}, "a: 'old'\n", "a: new\n")
	want := "a: 'new'\n"
	if got != want {
		t.Errorf("merged document:\n%s\nwant:\n%s", got, want)
	}
}

func TestMergeShapeMismatch(t *testing.T) {
	var logs bytes.Buffer
	m := Merger{Logger: slog.New(slog.NewTextHandler(&logs, nil))}
	got := mergeYAML(t, m, "a: 1 # note\n", "a:\n  - 1\n  - 2\n")
	for _, want := range []string{"# note", "- 1", "- 2"} {
		if !strings.Contains(got, want) {
			t.Errorf("merged document misses %q:\n%s", want, got)
		}
	}
	if !strings.Contains(logs.String(), "value changed shape") {
		t.Errorf("no shape warning logged, got: %s", logs.String())
	}
}
