package export

import (
	"bytes"
	"fmt"

	"github.com/queckhq/queck/internal/queck"
	"github.com/queckhq/queck/internal/render"
)

// HTML renders the quiz as a standalone page. True/false answers print
// as choice lists so every question reads the same way on paper. With
// StyleInline, local images resolve against opts.Dir and are embedded
// as data URIs.
func (e *Exporter) HTML(q *queck.Queck, opts Options) ([]byte, error) {
	style := opts.Style
	if style == "" {
		style = StyleFast
	}
	if _, err := ParseStyle(string(style)); err != nil {
		return nil, err
	}
	if err := loadTemplates(); err != nil {
		return nil, err
	}

	view := q.Clone()
	view.NormalizeAnswers(queck.NormalizeOptions{BoolToChoice: true})
	opts.Style = style
	p, err := e.buildPage(view, opts, e.md.Render)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := htmlPage.ExecuteTemplate(&buf, "page.html.tmpl", p); err != nil {
		return nil, fmt.Errorf("rendering HTML export: %w", err)
	}
	if style == StyleInline {
		return []byte(render.EmbedImages(buf.String(), opts.Dir)), nil
	}
	return buf.Bytes(), nil
}
