package queck

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/queckhq/queck/internal/answer"
)

// Canonical file extensions.
const (
	Ext         = ".qk"
	NotebookExt = ".qknb"
)

// IsQueckPath reports whether a path names a queck document, judged by
// extension.
func IsQueckPath(p string) bool {
	switch strings.ToLower(filepath.Ext(p)) {
	case Ext, ".queck":
		return true
	}
	return false
}

// IsNotebookPath reports whether a path names a queck notebook.
func IsNotebookPath(p string) bool {
	return strings.ToLower(filepath.Ext(p)) == NotebookExt
}

// LoadFile reads and validates the quiz at path, picking the notebook
// reader for notebook extensions. Notebooks hold already-validated
// parsed answers, so their choice cardinality is not re-checked.
func LoadFile(path string, ctx answer.Context) (*Queck, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if IsNotebookPath(path) {
		ctx.IgnoreNCorrect = true
		return LoadNotebook(data, ctx)
	}
	return Load(data, ctx)
}
