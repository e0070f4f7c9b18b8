package export

import (
	"bytes"
	"fmt"

	"github.com/queckhq/queck/internal/queck"
)

// Markdown renders the quiz as a markdown document: normalized question
// text, task-list choices and answer lines for the scalar kinds.
func (e *Exporter) Markdown(q *queck.Queck, opts Options) ([]byte, error) {
	if err := loadTemplates(); err != nil {
		return nil, err
	}
	p, err := e.buildPage(q, opts, func(s string) (string, error) {
		return e.md.Reformat(s), nil
	})
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := mdPage.ExecuteTemplate(&buf, "quiz.md.tmpl", p); err != nil {
		return nil, fmt.Errorf("rendering markdown export: %w", err)
	}
	return buf.Bytes(), nil
}
