package bank

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/queckhq/queck/internal/answer"
)

func newTestBank(t *testing.T) *Bank {
	t.Helper()
	b, err := Open(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatalf("newTestBank: %v", err)
	}
	t.Cleanup(func() { b.Close() })
	return b
}

func writeQuiz(t *testing.T, dir, name, title string, questions int) string {
	t.Helper()
	body := "title: " + title + "\nquestions:\n"
	for i := 0; i < questions; i++ {
		body += "  - text: 1+1?\n    answer: 2\n    marks: 1\n"
	}
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestIndexAndList(t *testing.T) {
	b := newTestBank(t)
	root := t.TempDir()
	writeQuiz(t, root, "algebra.qk", "Algebra", 2)
	writeQuiz(t, root, "week2/geometry.qk", "Geometry", 3)
	if err := os.WriteFile(filepath.Join(root, "notes.txt"), []byte("not a quiz"), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := b.Index(root, answer.Context{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Indexed != 2 || res.Skipped != 0 || res.Failed != 0 {
		t.Errorf("IndexResult = %+v, want 2 indexed", res)
	}

	entries, err := b.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("List() = %d entries, want 2", len(entries))
	}
	if entries[0].Path != "algebra.qk" || entries[1].Path != "week2/geometry.qk" {
		t.Errorf("paths = %q, %q", entries[0].Path, entries[1].Path)
	}
	if entries[0].Title != "Algebra" || entries[0].QuestionCount != 2 || entries[0].TotalMarks != "2" {
		t.Errorf("entry = %+v", entries[0])
	}
	if entries[0].ID == "" || entries[0].SHA256 == "" {
		t.Errorf("entry misses id or hash: %+v", entries[0])
	}
}

func TestIndexSkipsUnchanged(t *testing.T) {
	b := newTestBank(t)
	root := t.TempDir()
	writeQuiz(t, root, "algebra.qk", "Algebra", 1)

	if _, err := b.Index(root, answer.Context{}); err != nil {
		t.Fatal(err)
	}
	before, err := b.Get("algebra.qk")
	if err != nil {
		t.Fatal(err)
	}

	res, err := b.Index(root, answer.Context{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Indexed != 0 || res.Skipped != 1 {
		t.Errorf("IndexResult = %+v, want 1 skipped", res)
	}
	after, err := b.Get("algebra.qk")
	if err != nil {
		t.Fatal(err)
	}
	if after.ID != before.ID {
		t.Error("unchanged file got a new id")
	}
}

func TestIndexReindexesChangedFile(t *testing.T) {
	b := newTestBank(t)
	root := t.TempDir()
	writeQuiz(t, root, "algebra.qk", "Algebra", 1)
	if _, err := b.Index(root, answer.Context{}); err != nil {
		t.Fatal(err)
	}
	before, err := b.Get("algebra.qk")
	if err != nil {
		t.Fatal(err)
	}

	writeQuiz(t, root, "algebra.qk", "Algebra II", 4)
	res, err := b.Index(root, answer.Context{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Indexed != 1 || res.Skipped != 0 {
		t.Errorf("IndexResult = %+v, want 1 indexed", res)
	}
	after, err := b.Get("algebra.qk")
	if err != nil {
		t.Fatal(err)
	}
	if after.Title != "Algebra II" || after.QuestionCount != 4 {
		t.Errorf("entry not refreshed: %+v", after)
	}
	if after.ID != before.ID {
		t.Error("changed file got a new id")
	}
}

func TestIndexPrunesDeletedFiles(t *testing.T) {
	b := newTestBank(t)
	root := t.TempDir()
	writeQuiz(t, root, "keep.qk", "Keep", 1)
	gone := writeQuiz(t, root, "gone.qk", "Gone", 1)
	if _, err := b.Index(root, answer.Context{}); err != nil {
		t.Fatal(err)
	}

	if err := os.Remove(gone); err != nil {
		t.Fatal(err)
	}
	res, err := b.Index(root, answer.Context{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Removed != 1 {
		t.Errorf("IndexResult = %+v, want 1 removed", res)
	}
	count, err := b.Count()
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("Count() = %d, want 1", count)
	}
}

func TestIndexCountsInvalidFiles(t *testing.T) {
	b := newTestBank(t)
	root := t.TempDir()
	writeQuiz(t, root, "good.qk", "Good", 1)
	if err := os.WriteFile(filepath.Join(root, "bad.qk"), []byte("questions: []\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := b.Index(root, answer.Context{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Indexed != 1 || res.Failed != 1 {
		t.Errorf("IndexResult = %+v, want 1 indexed 1 failed", res)
	}
}

func TestGetMissing(t *testing.T) {
	b := newTestBank(t)
	e, err := b.Get("nope.qk")
	if err != nil {
		t.Fatal(err)
	}
	if e != nil {
		t.Errorf("Get(missing) = %+v, want nil", e)
	}
}

func TestFindByIDOrPath(t *testing.T) {
	b := newTestBank(t)
	root := t.TempDir()
	writeQuiz(t, root, "a.qk", "Algebra", 1)
	if _, err := b.Index(root, answer.Context{}); err != nil {
		t.Fatal(err)
	}

	byPath, err := b.Find("a.qk")
	if err != nil {
		t.Fatal(err)
	}
	if byPath == nil || byPath.Title != "Algebra" {
		t.Fatalf("Find(path) = %+v", byPath)
	}
	byID, err := b.Find(byPath.ID)
	if err != nil {
		t.Fatal(err)
	}
	if byID == nil || byID.Path != "a.qk" {
		t.Errorf("Find(id) = %+v", byID)
	}
	missing, err := b.Find("nope")
	if err != nil {
		t.Fatal(err)
	}
	if missing != nil {
		t.Errorf("Find(missing) = %+v, want nil", missing)
	}
}

func TestSearch(t *testing.T) {
	b := newTestBank(t)
	root := t.TempDir()
	writeQuiz(t, root, "a.qk", "Linear Algebra", 1)
	writeQuiz(t, root, "b.qk", "Geometry", 1)
	if _, err := b.Index(root, answer.Context{}); err != nil {
		t.Fatal(err)
	}

	hits, err := b.Search("Algebra")
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 || hits[0].Title != "Linear Algebra" {
		t.Errorf("Search(Algebra) = %+v", hits)
	}
}
