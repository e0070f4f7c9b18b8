package export

import (
	"embed"
	"fmt"
	htmltemplate "html/template"
	"strings"
	"sync"
	texttemplate "text/template"
)

//go:embed templates/page.html.tmpl templates/quiz.md.tmpl
var templateFS embed.FS

var (
	tmplOnce sync.Once
	tmplErr  error
	htmlPage *htmltemplate.Template
	mdPage   *texttemplate.Template
)

// mdFuncs are the helpers of the markdown template. They take any value
// so pre-rendered template.HTML fields pass through unchanged.
var mdFuncs = texttemplate.FuncMap{
	// heading returns the atx marker for a depth: 2 -> "##".
	"heading": func(depth int) string {
		return strings.Repeat("#", depth)
	},
	// indent keeps continuation lines inside a list item.
	"indent": func(v any) string {
		return strings.ReplaceAll(fmt.Sprint(v), "\n", "\n  ")
	},
	// quote turns text into a blockquote.
	"quote": func(v any) string {
		return "> " + strings.ReplaceAll(fmt.Sprint(v), "\n", "\n> ")
	},
}

func loadTemplates() error {
	tmplOnce.Do(func() {
		htmlPage, tmplErr = htmltemplate.ParseFS(templateFS, "templates/page.html.tmpl")
		if tmplErr != nil {
			tmplErr = fmt.Errorf("parsing HTML export template: %w", tmplErr)
			return
		}
		mdPage, tmplErr = texttemplate.New("quiz.md.tmpl").Funcs(mdFuncs).
			ParseFS(templateFS, "templates/quiz.md.tmpl")
		if tmplErr != nil {
			tmplErr = fmt.Errorf("parsing markdown export template: %w", tmplErr)
		}
	})
	return tmplErr
}
