// Package prompts holds the embedded prompt templates of the quiz
// extraction pipeline.
package prompts

import (
	"bytes"
	"embed"
	"fmt"
	"sync"
	"text/template"
)

//go:embed quiz_structure.txt extraction.txt
var promptFS embed.FS

var (
	loadOnce       sync.Once
	loadErr        error
	structureText  string
	extractionTmpl *template.Template
)

func load() error {
	loadOnce.Do(func() {
		structure, err := promptFS.ReadFile("quiz_structure.txt")
		if err != nil {
			loadErr = fmt.Errorf("read quiz_structure.txt: %w", err)
			return
		}
		structureText = string(structure)

		extraction, err := promptFS.ReadFile("extraction.txt")
		if err != nil {
			loadErr = fmt.Errorf("read extraction.txt: %w", err)
			return
		}
		extractionTmpl, err = template.New("extraction").Parse(string(extraction))
		if err != nil {
			loadErr = fmt.Errorf("parse extraction.txt: %w", err)
		}
	})
	return loadErr
}

// System returns the system prompt describing the quiz JSON structure.
func System() (string, error) {
	if err := load(); err != nil {
		return "", err
	}
	return structureText, nil
}

// ExtractionData fills the extraction prompt template.
type ExtractionData struct {
	// Text is the source material to extract questions from.
	Text string
	// Extra holds additional instructions, may be empty.
	Extra string
}

// Extraction renders the user prompt for extracting a quiz from text.
func Extraction(data ExtractionData) (string, error) {
	if err := load(); err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := extractionTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render extraction prompt: %w", err)
	}
	return buf.String(), nil
}
