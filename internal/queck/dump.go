package queck

import (
	"fmt"

	"github.com/queckhq/queck/internal/answer"
	"github.com/queckhq/queck/internal/node"
	"gopkg.in/yaml.v3"
)

// DumpOptions control serialization.
type DumpOptions struct {
	// Parsed emits the structured form: type tags on every item and
	// object answers instead of canonical strings. The notebook JSON
	// form uses it; canonical YAML does not.
	Parsed bool
	// Transform rewrites markdown fields on the way out. Rendered
	// exports use it to expand markdown to HTML.
	Transform func(string) (string, error)
}

// Dump serializes a quiz to canonical YAML. Defaults stay implicit:
// zero marks, empty feedback and empty tag lists are omitted.
func Dump(q *Queck, opts DumpOptions) ([]byte, error) {
	n, err := DumpNode(q, opts)
	if err != nil {
		return nil, err
	}
	return node.Encode(n)
}

// DumpNotebook serializes a quiz to the structured notebook JSON form,
// which tags every item and answer with its type.
func DumpNotebook(q *Queck) ([]byte, error) {
	opts := DumpOptions{Parsed: true}
	n, err := DumpNode(q, opts)
	if err != nil {
		return nil, err
	}
	return node.EncodeJSON(n)
}

// DumpNode builds the serialization tree of a quiz.
func DumpNode(q *Queck, opts DumpOptions) (*yaml.Node, error) {
	return dumpQueck(q, opts)
}

func dumpQueck(q *Queck, opts DumpOptions) (*yaml.Node, error) {
	m := node.Map()
	if opts.Parsed {
		node.Append(m, "type", node.Str(ItemTypeQueck))
	}
	node.Append(m, "title", node.Str(q.Title))
	items := node.Seq()
	for i, it := range q.Items {
		in, err := dumpItem(it, opts)
		if err != nil {
			return nil, fmt.Errorf("questions[%d]: %w", i, err)
		}
		items.Content = append(items.Content, in)
	}
	node.Append(m, "questions", items)
	return m, nil
}

func dumpItem(it Item, opts DumpOptions) (*yaml.Node, error) {
	switch v := it.(type) {
	case *Question:
		return dumpQuestion(v, opts)
	case *CommonDataQuestion:
		return dumpCommonData(v, opts)
	case *Description:
		return dumpDescription(v, opts)
	case *Queck:
		return dumpQueck(v, opts)
	}
	return nil, fmt.Errorf("unsupported item %T", it)
}

func dumpQuestion(q *Question, opts DumpOptions) (*yaml.Node, error) {
	m := node.Map()
	if opts.Parsed {
		node.Append(m, "type", node.Str(ItemTypeQuestion))
	}
	text, err := transformText(q.Text, opts)
	if err != nil {
		return nil, err
	}
	node.Append(m, "text", node.Str(text))
	an, err := answer.EncodeNode(q.Answer, answer.EncodeOptions{
		Parsed:    opts.Parsed,
		Transform: opts.Transform,
	})
	if err != nil {
		return nil, fmt.Errorf("answer: %w", err)
	}
	node.Append(m, "answer", an)
	if q.Feedback != "" {
		fb, err := transformText(q.Feedback, opts)
		if err != nil {
			return nil, err
		}
		node.Append(m, "feedback", node.Str(fb))
	}
	if !q.Marks.IsZero() {
		node.Append(m, "marks", answer.NumberNode(q.Marks))
	}
	if len(q.Tags) > 0 {
		tags := node.Seq()
		for _, t := range q.Tags {
			tags.Content = append(tags.Content, node.Str(t))
		}
		node.Append(m, "tags", tags)
	}
	return m, nil
}

func dumpCommonData(cdq *CommonDataQuestion, opts DumpOptions) (*yaml.Node, error) {
	m := node.Map()
	if opts.Parsed {
		node.Append(m, "type", node.Str(ItemTypeCommonData))
	}
	text, err := transformText(cdq.Text, opts)
	if err != nil {
		return nil, err
	}
	node.Append(m, "text", node.Str(text))
	items := node.Seq()
	for i, sub := range cdq.Questions {
		sn, err := dumpQuestion(sub, opts)
		if err != nil {
			return nil, fmt.Errorf("questions[%d]: %w", i, err)
		}
		items.Content = append(items.Content, sn)
	}
	node.Append(m, "questions", items)
	return m, nil
}

func dumpDescription(d *Description, opts DumpOptions) (*yaml.Node, error) {
	m := node.Map()
	if opts.Parsed {
		node.Append(m, "type", node.Str(ItemTypeDescription))
	}
	text, err := transformText(d.Text, opts)
	if err != nil {
		return nil, err
	}
	node.Append(m, "text", node.Str(text))
	return m, nil
}

func transformText(s string, opts DumpOptions) (string, error) {
	if opts.Transform == nil {
		return s, nil
	}
	return opts.Transform(s)
}
