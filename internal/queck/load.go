package queck

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/queckhq/queck/internal/answer"
	"github.com/queckhq/queck/internal/microfmt"
	"github.com/queckhq/queck/internal/node"
	"gopkg.in/yaml.v3"
)

// Load parses a canonical YAML quiz document.
func Load(data []byte, ctx answer.Context) (*Queck, error) {
	doc, err := node.Decode(data)
	if err != nil {
		return nil, err
	}
	return LoadNode(node.Root(doc), ctx)
}

// LoadNotebook parses the structured notebook JSON form.
func LoadNotebook(data []byte, ctx answer.Context) (*Queck, error) {
	n, err := node.DecodeJSON(data)
	if err != nil {
		return nil, err
	}
	return LoadNode(n, ctx)
}

// LoadNode builds a quiz from a decoded node tree. The same path reads
// both YAML and JSON documents; structured items are recognized by
// their type tags, everything else by shape.
func LoadNode(n *yaml.Node, ctx answer.Context) (*Queck, error) {
	return loadQueck(n, ctx)
}

func loadQueck(n *yaml.Node, ctx answer.Context) (*Queck, error) {
	if n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	if n.Kind != yaml.MappingNode {
		return nil, &SchemaError{Err: fmt.Errorf("line %d: quiz must be a mapping", n.Line)}
	}
	q := &Queck{}
	var items *yaml.Node
	hasTitle := false
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		switch key.Value {
		case "title":
			q.Title = val.Value
			hasTitle = true
		case "questions":
			items = val
		case "type":
		default:
			slog.Debug("ignoring unknown quiz key", "key", key.Value, "line", key.Line)
		}
	}
	if !hasTitle {
		return nil, &SchemaError{Err: fmt.Errorf("line %d: quiz needs a title", n.Line)}
	}
	if items == nil {
		return nil, &SchemaError{Err: fmt.Errorf("line %d: quiz needs a questions list", n.Line)}
	}
	if items.Kind == yaml.AliasNode {
		items = items.Alias
	}
	if items.Kind != yaml.SequenceNode {
		return nil, &SchemaError{Err: fmt.Errorf("line %d: questions must be a list", items.Line)}
	}
	for i, itemNode := range items.Content {
		it, err := loadItem(itemNode, ctx)
		if err != nil {
			return nil, prefixPath(err, fmt.Sprintf("questions[%d]", i))
		}
		q.Items = append(q.Items, it)
	}
	return q, nil
}

// loadItem decides what an item is. An explicit type tag wins; untagged
// items are told apart by their keys: a title makes a nested queck,
// questions without a title make a common-data group, an answer makes a
// question and bare text makes a description.
func loadItem(n *yaml.Node, ctx answer.Context) (Item, error) {
	if n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	if n.Kind != yaml.MappingNode {
		return nil, &SchemaError{Err: fmt.Errorf("line %d: item must be a mapping", n.Line)}
	}
	typeTag := ""
	has := map[string]bool{}
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i].Value
		has[key] = true
		if key == "type" {
			typeTag = n.Content[i+1].Value
		}
	}
	switch {
	case typeTag == ItemTypeQueck, typeTag == "" && has["title"]:
		return loadQueck(n, ctx)
	case typeTag == ItemTypeCommonData, typeTag == "" && has["questions"]:
		return loadCommonData(n, ctx)
	case typeTag == ItemTypeQuestion, typeTag == "" && has["answer"]:
		return loadQuestion(n, ctx)
	case typeTag == ItemTypeDescription, typeTag == "" && has["text"]:
		return loadDescription(n, ctx)
	case typeTag != "":
		return nil, &SchemaError{Err: fmt.Errorf("line %d: unknown item type %q", n.Line, typeTag)}
	}
	return nil, &SchemaError{Err: fmt.Errorf("line %d: unrecognized item", n.Line)}
}

func loadQuestion(n *yaml.Node, ctx answer.Context) (*Question, error) {
	q := &Question{Marks: microfmt.Int(0)}
	var answerNode *yaml.Node
	hasText := false
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		switch key.Value {
		case "text":
			q.Text = reformat(val.Value, ctx)
			hasText = true
		case "answer":
			answerNode = val
		case "feedback":
			q.Feedback = reformat(val.Value, ctx)
		case "marks":
			m, err := loadNumber(val)
			if err != nil {
				return nil, &SchemaError{Path: "marks", Err: err}
			}
			q.Marks = m
		case "tags":
			tags, err := loadTags(val)
			if err != nil {
				return nil, &SchemaError{Path: "tags", Err: err}
			}
			q.Tags = tags
		case "type":
		default:
			slog.Debug("ignoring unknown question key", "key", key.Value, "line", key.Line)
		}
	}
	if !hasText {
		return nil, &SchemaError{Err: fmt.Errorf("line %d: question needs text", n.Line)}
	}
	if answerNode == nil {
		return nil, &SchemaError{Err: fmt.Errorf("line %d: question needs an answer", n.Line)}
	}
	a, err := answer.DecodeNode(answerNode, ctx)
	if err != nil {
		return nil, prefixPath(err, "answer")
	}
	q.Answer = a
	return q, nil
}

func loadCommonData(n *yaml.Node, ctx answer.Context) (*CommonDataQuestion, error) {
	cdq := &CommonDataQuestion{}
	var items *yaml.Node
	hasText := false
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		switch key.Value {
		case "text":
			cdq.Text = reformat(val.Value, ctx)
			hasText = true
		case "questions":
			items = val
		case "type":
		default:
			slog.Debug("ignoring unknown common-data key", "key", key.Value, "line", key.Line)
		}
	}
	if !hasText {
		return nil, &SchemaError{Err: fmt.Errorf("line %d: common-data group needs text", n.Line)}
	}
	if items == nil || items.Kind != yaml.SequenceNode {
		return nil, &SchemaError{Err: fmt.Errorf("line %d: common-data group needs a questions list", n.Line)}
	}
	for i, sub := range items.Content {
		if sub.Kind == yaml.AliasNode {
			sub = sub.Alias
		}
		if sub.Kind != yaml.MappingNode {
			return nil, &SchemaError{Path: fmt.Sprintf("questions[%d]", i),
				Err: fmt.Errorf("line %d: item must be a mapping", sub.Line)}
		}
		sq, err := loadQuestion(sub, ctx)
		if err != nil {
			return nil, prefixPath(err, fmt.Sprintf("questions[%d]", i))
		}
		cdq.Questions = append(cdq.Questions, sq)
	}
	if len(cdq.Questions) < 2 {
		return nil, &SchemaError{Err: fmt.Errorf(
			"line %d: common-data group needs at least two questions, got %d", n.Line, len(cdq.Questions))}
	}
	return cdq, nil
}

func loadDescription(n *yaml.Node, ctx answer.Context) (*Description, error) {
	d := &Description{}
	hasText := false
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		switch key.Value {
		case "text":
			d.Text = reformat(val.Value, ctx)
			hasText = true
		case "type":
		default:
			slog.Debug("ignoring unknown description key", "key", key.Value, "line", key.Line)
		}
	}
	if !hasText {
		return nil, &SchemaError{Err: fmt.Errorf("line %d: description needs text", n.Line)}
	}
	return d, nil
}

func loadNumber(n *yaml.Node) (microfmt.Number, error) {
	num, err := microfmt.ParseNumber(n.Value)
	if err != nil {
		f, ferr := strconv.ParseFloat(n.Value, 64)
		if ferr != nil {
			return microfmt.Number{}, fmt.Errorf("line %d: bad number %q", n.Line, n.Value)
		}
		return microfmt.Float(f), nil
	}
	return num, nil
}

// loadTags reads the tag list. Tags are lowercase by definition, so any
// spelling is folded on the way in.
func loadTags(n *yaml.Node) ([]string, error) {
	if n.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("line %d: tags must be a list", n.Line)
	}
	tags := make([]string, len(n.Content))
	for i, t := range n.Content {
		if t.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: tag %d is not a string", t.Line, i+1)
		}
		tags[i] = strings.ToLower(t.Value)
	}
	return tags, nil
}

func reformat(s string, ctx answer.Context) string {
	if ctx.Reformat != nil {
		return ctx.Reformat(s)
	}
	return s
}
