// Package export renders a quiz into its publishable forms: canonical
// YAML, structured notebook JSON, plain JSON, markdown and standalone
// HTML pages.
package export

import (
	"fmt"

	"github.com/queckhq/queck/internal/node"
	"github.com/queckhq/queck/internal/queck"
	"github.com/queckhq/queck/internal/render"
)

// Format names an output encoding.
type Format string

const (
	FormatQueck    Format = "queck"
	FormatNotebook Format = "qknb"
	FormatHTML     Format = "html"
	FormatMarkdown Format = "md"
	FormatJSON     Format = "json"
)

// ParseFormat resolves a format name from the command line.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatQueck, FormatNotebook, FormatHTML, FormatMarkdown, FormatJSON:
		return f, nil
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

// Ext returns the file extension of the format, dot included.
func (f Format) Ext() string {
	switch f {
	case FormatQueck:
		return queck.Ext
	case FormatNotebook:
		return queck.NotebookExt
	default:
		return "." + string(f)
	}
}

// Style selects the HTML page flavor.
type Style string

const (
	// StyleFast is the plain page: document-local CSS, image
	// references left as written.
	StyleFast Style = "fast"
	// StyleLaTeX adds the MathJax loader so TeX math renders in the
	// browser.
	StyleLaTeX Style = "latex"
	// StyleInline embeds local images as data URIs, making the page a
	// single self-contained file.
	StyleInline Style = "inline"
)

// ParseStyle resolves an HTML style name from the command line.
func ParseStyle(s string) (Style, error) {
	switch st := Style(s); st {
	case StyleFast, StyleLaTeX, StyleInline:
		return st, nil
	}
	return "", fmt.Errorf("unknown HTML style %q", s)
}

// Render modes for the JSON export's markdown fields.
const (
	RenderAsHTML = "html"
	RenderAsMD   = "md"
)

// Options control a single export.
type Options struct {
	Format Format
	// Style applies to the HTML format; empty means StyleFast.
	Style Style
	// Overview prepends the grouped marks summary to HTML and
	// markdown output.
	Overview bool
	// Parsed switches the JSON format to the structured answer
	// encoding instead of canonical answer strings.
	Parsed bool
	// RenderAs rewrites markdown fields in the JSON format: RenderAsHTML
	// expands them to HTML, RenderAsMD normalizes the source. Empty
	// leaves them as written.
	RenderAs string
	// Dir resolves local image references for StyleInline.
	Dir string
	// Normalize rewrites answers before exporting.
	Normalize queck.NormalizeOptions
}

// Exporter renders quizzes. The zero value is not usable; construct
// with New.
type Exporter struct {
	md     *render.Markdown
	labels queck.Labels
}

// New returns an exporter using the given answer-type labels for
// headings and overview rows. Nil labels select the default English
// set.
func New(labels queck.Labels) *Exporter {
	if labels == nil {
		labels = queck.DefaultLabels()
	}
	return &Exporter{md: render.NewMarkdown(), labels: labels}
}

// Export renders the quiz to the format named by opts. The quiz itself
// is never modified; answer normalization works on a copy.
func (e *Exporter) Export(q *queck.Queck, opts Options) ([]byte, error) {
	if opts.Normalize != (queck.NormalizeOptions{}) {
		q = q.Clone()
		q.NormalizeAnswers(opts.Normalize)
	}
	switch opts.Format {
	case FormatQueck:
		return queck.Dump(q, queck.DumpOptions{})
	case FormatNotebook:
		return queck.DumpNotebook(q)
	case FormatHTML:
		return e.HTML(q, opts)
	case FormatMarkdown:
		return e.Markdown(q, opts)
	case FormatJSON:
		return e.JSON(q, opts)
	}
	return nil, fmt.Errorf("unknown export format %q", opts.Format)
}

// JSON renders the document as JSON. Canonical answer strings stay by
// default; opts.Parsed selects the structured encoding and
// opts.RenderAs rewrites the markdown fields.
func (e *Exporter) JSON(q *queck.Queck, opts Options) ([]byte, error) {
	dumpOpts := queck.DumpOptions{Parsed: opts.Parsed}
	switch opts.RenderAs {
	case "":
	case RenderAsHTML:
		dumpOpts.Transform = e.md.Render
	case RenderAsMD:
		dumpOpts.Transform = func(s string) (string, error) {
			return e.md.Reformat(s), nil
		}
	default:
		return nil, fmt.Errorf("unknown render mode %q", opts.RenderAs)
	}
	n, err := queck.DumpNode(q, dumpOpts)
	if err != nil {
		return nil, err
	}
	return node.EncodeJSON(n)
}
