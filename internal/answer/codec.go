package answer

import (
	"fmt"
	"strconv"

	"github.com/queckhq/queck/internal/microfmt"
	"github.com/queckhq/queck/internal/node"
	"gopkg.in/yaml.v3"
)

// DecodeNode converts a YAML or JSON node into an Answer. Scalars map to
// the value answers, strings are tried against the numeric micro-formats
// before falling back to a short answer, sequences of strings become
// choice lists, and mappings hold the structured form written by
// EncodeNode.
func DecodeNode(n *yaml.Node, ctx Context) (Answer, error) {
	if n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	switch n.Kind {
	case yaml.ScalarNode:
		return decodeScalar(n)
	case yaml.SequenceNode:
		raw := make([]string, len(n.Content))
		for i, item := range n.Content {
			if item.Kind == yaml.AliasNode {
				item = item.Alias
			}
			if item.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: choice %d is not a string", item.Line, i+1)
			}
			raw[i] = item.Value
		}
		return ParseChoices(raw, ctx)
	case yaml.MappingNode:
		return decodeStructured(n, ctx)
	}
	return nil, fmt.Errorf("line %d: unsupported answer shape", n.Line)
}

func decodeScalar(n *yaml.Node) (Answer, error) {
	switch n.Tag {
	case "!!bool":
		v, err := strconv.ParseBool(n.Value)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad bool %q", n.Line, n.Value)
		}
		return TrueOrFalse(v), nil
	case "!!int":
		v, err := strconv.ParseInt(n.Value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad integer %q", n.Line, n.Value)
		}
		return Integer(v), nil
	case "!!float":
		return nil, fmt.Errorf(
			"line %d: decimal answer %s needs a range (\"low..high\") or tolerance (\"value|tolerance\") form",
			n.Line, n.Value)
	case "!!str":
		if r, err := ParseNumRange(n.Value); err == nil {
			return r, nil
		}
		if t, err := ParseNumTolerance(n.Value); err == nil {
			return t, nil
		}
		return ShortAnswer(n.Value), nil
	case "!!null":
		return nil, fmt.Errorf("line %d: answer is null", n.Line)
	}
	return nil, fmt.Errorf("line %d: unsupported answer tag %s", n.Line, n.Tag)
}

// decodeStructured reads the object form. The type tag drives decoding
// when present; without it the shape of the keys decides.
func decodeStructured(n *yaml.Node, ctx Context) (Answer, error) {
	fields := make(map[string]*yaml.Node, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		fields[n.Content[i].Value] = n.Content[i+1]
	}
	tag := ""
	if tn := fields["type"]; tn != nil {
		tag = tn.Value
	} else {
		switch {
		case fields["choices"] != nil:
			tag = TypeSingleSelect
		case fields["low"] != nil && fields["high"] != nil:
			tag = TypeRange
		case fields["value"] != nil && fields["tolerance"] != nil:
			tag = TypeTolerance
		case fields["value"] != nil:
			return decodeScalar(fields["value"])
		default:
			return nil, fmt.Errorf("line %d: unrecognized answer object", n.Line)
		}
	}
	switch tag {
	case TypeSingleSelect:
		return decodeStructuredChoices(n, fields["choices"], KindSingleSelect, ctx)
	case TypeMultipleSelect:
		return decodeStructuredChoices(n, fields["choices"], KindMultipleSelect, ctx)
	case TypeRange:
		low, err := numberField(fields, "low", n.Line)
		if err != nil {
			return nil, err
		}
		high, err := numberField(fields, "high", n.Line)
		if err != nil {
			return nil, err
		}
		if high.Less(low) {
			low, high = high, low
		}
		return NumRange{Low: low, High: high}, nil
	case TypeTolerance:
		value, err := numberField(fields, "value", n.Line)
		if err != nil {
			return nil, err
		}
		tolerance, err := numberField(fields, "tolerance", n.Line)
		if err != nil {
			return nil, err
		}
		return NumTolerance{Value: value, Tolerance: tolerance}, nil
	case TypeInteger:
		v := fields["value"]
		if v == nil {
			return nil, fmt.Errorf("line %d: integer answer needs a value", n.Line)
		}
		i, err := strconv.ParseInt(v.Value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad integer %q", v.Line, v.Value)
		}
		return Integer(i), nil
	case TypeShortAnswer:
		v := fields["value"]
		if v == nil {
			return nil, fmt.Errorf("line %d: short answer needs a value", n.Line)
		}
		return ShortAnswer(v.Value), nil
	case TypeTrueOrFalse:
		v := fields["value"]
		if v == nil {
			return nil, fmt.Errorf("line %d: true/false answer needs a value", n.Line)
		}
		b, err := strconv.ParseBool(v.Value)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad bool %q", v.Line, v.Value)
		}
		return TrueOrFalse(b), nil
	}
	return nil, fmt.Errorf("line %d: unknown answer type %q", n.Line, tag)
}

func numberField(fields map[string]*yaml.Node, key string, line int) (microfmt.Number, error) {
	v := fields[key]
	if v == nil {
		return microfmt.Number{}, fmt.Errorf("line %d: answer object needs %s", line, key)
	}
	num, err := microfmt.ParseNumber(v.Value)
	if err != nil {
		// Exponent notation is accepted on input even though canonical
		// output never uses it.
		f, ferr := strconv.ParseFloat(v.Value, 64)
		if ferr != nil {
			return microfmt.Number{}, fmt.Errorf("line %d: bad number %q", v.Line, v.Value)
		}
		return microfmt.Float(f), nil
	}
	return num, nil
}

func decodeStructuredChoices(parent, seq *yaml.Node, kind ChoiceKind, ctx Context) (Answer, error) {
	if seq == nil || seq.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("line %d: answer object needs a choices list", parent.Line)
	}
	cs := make(Choices, len(seq.Content))
	for i, item := range seq.Content {
		if item.Kind == yaml.AliasNode {
			item = item.Alias
		}
		var c Choice
		switch item.Kind {
		case yaml.ScalarNode:
			parsed, err := ParseChoice(item.Value)
			if err != nil {
				return nil, fmt.Errorf("choice %d: %w", i+1, err)
			}
			c = parsed.Parsed()
		case yaml.MappingNode:
			var err error
			c, err = decodeChoiceObject(item, kind)
			if err != nil {
				return nil, fmt.Errorf("choice %d: %w", i+1, err)
			}
		default:
			return nil, fmt.Errorf("line %d: choice %d is neither a string nor an object", item.Line, i+1)
		}
		if ctx.Reformat != nil {
			c.Text = ctx.Reformat(c.Text)
			if c.Feedback != "" {
				c.Feedback = ctx.Reformat(c.Feedback)
			}
		}
		cs[i] = microfmt.FromModel(c)
	}
	return finishChoices(cs, ctx)
}

func decodeChoiceObject(item *yaml.Node, kind ChoiceKind) (Choice, error) {
	var c Choice
	hasText := false
	for i := 0; i+1 < len(item.Content); i += 2 {
		key, val := item.Content[i], item.Content[i+1]
		switch key.Value {
		case "text":
			c.Text = val.Value
			hasText = true
		case "feedback":
			c.Feedback = val.Value
		case "is_correct":
			v, err := strconv.ParseBool(val.Value)
			if err != nil {
				return Choice{}, fmt.Errorf("line %d: bad is_correct %q", val.Line, val.Value)
			}
			c.IsCorrect = v
		}
	}
	if !hasText {
		return Choice{}, fmt.Errorf("line %d: choice object needs text", item.Line)
	}
	if c.IsCorrect {
		c.Kind = kind
	}
	return c, nil
}

// EncodeOptions controls how an answer serializes.
type EncodeOptions struct {
	// Parsed emits the structured object form instead of the canonical
	// scalar or choice-string form.
	Parsed bool
	// Transform, when set, rewrites choice text and feedback on the way
	// out. Rendering pipelines use it to expand markdown.
	Transform func(string) (string, error)
}

// EncodeNode serializes an answer to a node tree.
func EncodeNode(a Answer, opts EncodeOptions) (*yaml.Node, error) {
	switch v := a.(type) {
	case SingleSelect:
		return encodeChoices(v.Choices, TypeSingleSelect, opts)
	case MultipleSelect:
		return encodeChoices(v.Choices, TypeMultipleSelect, opts)
	case Integer:
		if opts.Parsed {
			m := node.Map()
			node.Append(m, "type", node.Str(TypeInteger))
			node.Append(m, "value", node.Int(int64(v)))
			return m, nil
		}
		return node.Int(int64(v)), nil
	case NumRange:
		if opts.Parsed {
			m := node.Map()
			node.Append(m, "type", node.Str(TypeRange))
			node.Append(m, "low", NumberNode(v.Low))
			node.Append(m, "high", NumberNode(v.High))
			return m, nil
		}
		return node.Str(v.Formatted()), nil
	case NumTolerance:
		if opts.Parsed {
			m := node.Map()
			node.Append(m, "type", node.Str(TypeTolerance))
			node.Append(m, "value", NumberNode(v.Value))
			node.Append(m, "tolerance", NumberNode(v.Tolerance))
			return m, nil
		}
		return node.Str(v.Formatted()), nil
	case ShortAnswer:
		if opts.Parsed {
			m := node.Map()
			node.Append(m, "type", node.Str(TypeShortAnswer))
			node.Append(m, "value", node.Str(string(v)))
			return m, nil
		}
		return node.Str(string(v)), nil
	case TrueOrFalse:
		if opts.Parsed {
			m := node.Map()
			node.Append(m, "type", node.Str(TypeTrueOrFalse))
			node.Append(m, "value", node.Bool(bool(v)))
			return m, nil
		}
		return node.Bool(bool(v)), nil
	}
	return nil, fmt.Errorf("unsupported answer %T", a)
}

func encodeChoices(cs Choices, tag string, opts EncodeOptions) (*yaml.Node, error) {
	seq := node.Seq()
	if opts.Parsed {
		for _, c := range cs {
			m := c.Parsed()
			if err := transformChoice(&m, opts); err != nil {
				return nil, err
			}
			cm := node.Map()
			node.Append(cm, "text", node.Str(m.Text))
			if m.Feedback != "" {
				node.Append(cm, "feedback", node.Str(m.Feedback))
			}
			node.Append(cm, "is_correct", node.Bool(m.IsCorrect))
			seq.Content = append(seq.Content, cm)
		}
		out := node.Map()
		node.Append(out, "type", node.Str(tag))
		node.Append(out, "choices", seq)
		return out, nil
	}
	for _, c := range cs {
		if opts.Transform != nil {
			m := c.Parsed()
			if err := transformChoice(&m, opts); err != nil {
				return nil, err
			}
			c = microfmt.FromModel(m)
		}
		seq.Content = append(seq.Content, node.Str(c.String()))
	}
	return seq, nil
}

func transformChoice(c *Choice, opts EncodeOptions) error {
	if opts.Transform == nil {
		return nil
	}
	text, err := opts.Transform(c.Text)
	if err != nil {
		return err
	}
	c.Text = text
	if c.Feedback != "" {
		fb, err := opts.Transform(c.Feedback)
		if err != nil {
			return err
		}
		c.Feedback = fb
	}
	return nil
}

// NumberNode returns the scalar node of a number, tagged so integers
// and decimals stay distinct.
func NumberNode(v microfmt.Number) *yaml.Node {
	if v.IsInt() {
		return node.Int(v.Int64())
	}
	return node.Scalar("!!float", v.String())
}
