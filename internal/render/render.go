// Package render turns the markdown fields of a quiz into HTML and
// normalizes markdown source for canonical output.
package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Renderer turns markdown into HTML and reformats markdown source.
type Renderer interface {
	Render(src string) (string, error)
	Reformat(src string) string
}

// Markdown renders GitHub-flavored markdown. Raw HTML passes through so
// authors can embed images and custom markup.
type Markdown struct {
	md goldmark.Markdown
}

// NewMarkdown returns the default markdown renderer.
func NewMarkdown() *Markdown {
	return &Markdown{md: goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)}
}

// Render converts markdown to HTML.
func (m *Markdown) Render(src string) (string, error) {
	var buf bytes.Buffer
	if err := m.md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return buf.String(), nil
}

// Reformat normalizes markdown source: line endings become "\n",
// trailing whitespace is stripped from every line and leading or
// trailing blank lines are dropped.
func (m *Markdown) Reformat(src string) string {
	src = strings.ReplaceAll(src, "\r\n", "\n")
	lines := strings.Split(src, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
