package node

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// EncodeJSON serializes a node tree to pretty-printed JSON, keeping
// mapping key order and the int-versus-decimal distinction of number
// scalars.
func EncodeJSON(n *yaml.Node) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, Root(n), 0); err != nil {
		return nil, fmt.Errorf("encoding json: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func writeJSON(buf *bytes.Buffer, n *yaml.Node, depth int) error {
	switch n.Kind {
	case yaml.AliasNode:
		return writeJSON(buf, n.Alias, depth)
	case yaml.ScalarNode:
		return writeJSONScalar(buf, n)
	case yaml.SequenceNode:
		if len(n.Content) == 0 {
			buf.WriteString("[]")
			return nil
		}
		buf.WriteString("[\n")
		for i, item := range n.Content {
			writeJSONIndent(buf, depth+1)
			if err := writeJSON(buf, item, depth+1); err != nil {
				return err
			}
			if i < len(n.Content)-1 {
				buf.WriteByte(',')
			}
			buf.WriteByte('\n')
		}
		writeJSONIndent(buf, depth)
		buf.WriteByte(']')
		return nil
	case yaml.MappingNode:
		if len(n.Content) == 0 {
			buf.WriteString("{}")
			return nil
		}
		buf.WriteString("{\n")
		for i := 0; i+1 < len(n.Content); i += 2 {
			key, val := n.Content[i], n.Content[i+1]
			if key.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: mapping key is not a scalar", key.Line)
			}
			writeJSONIndent(buf, depth+1)
			kb, err := json.Marshal(key.Value)
			if err != nil {
				return err
			}
			buf.Write(kb)
			buf.WriteString(": ")
			if err := writeJSON(buf, val, depth+1); err != nil {
				return err
			}
			if i+2 < len(n.Content) {
				buf.WriteByte(',')
			}
			buf.WriteByte('\n')
		}
		writeJSONIndent(buf, depth)
		buf.WriteByte('}')
		return nil
	}
	return fmt.Errorf("line %d: cannot encode %s node", n.Line, kindName(n.Kind))
}

func writeJSONScalar(buf *bytes.Buffer, n *yaml.Node) error {
	switch n.Tag {
	case "!!null":
		buf.WriteString("null")
		return nil
	case "!!bool":
		v, err := strconv.ParseBool(n.Value)
		if err != nil {
			return fmt.Errorf("line %d: bad bool %q", n.Line, n.Value)
		}
		buf.WriteString(strconv.FormatBool(v))
		return nil
	case "!!int":
		if _, err := strconv.ParseInt(n.Value, 10, 64); err != nil {
			return fmt.Errorf("line %d: bad integer %q", n.Line, n.Value)
		}
		buf.WriteString(n.Value)
		return nil
	case "!!float":
		if _, err := strconv.ParseFloat(n.Value, 64); err != nil {
			return fmt.Errorf("line %d: bad number %q", n.Line, n.Value)
		}
		buf.WriteString(n.Value)
		return nil
	}
	b, err := json.Marshal(n.Value)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}

func writeJSONIndent(buf *bytes.Buffer, depth int) {
	for i := 0; i < depth; i++ {
		buf.WriteString("  ")
	}
}

// DecodeJSON parses JSON into a node tree, keeping object key order and
// the int-versus-decimal distinction of numbers.
func DecodeJSON(data []byte) (*yaml.Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	n, err := readJSONValue(dec)
	if err != nil {
		return nil, fmt.Errorf("parsing json: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("parsing json: trailing data after document")
	}
	return n, nil
}

func readJSONValue(dec *json.Decoder) (*yaml.Node, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			m := Map()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("object key %v is not a string", keyTok)
				}
				val, err := readJSONValue(dec)
				if err != nil {
					return nil, err
				}
				m.Content = append(m.Content, Str(key), val)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return m, nil
		case '[':
			s := Seq()
			for dec.More() {
				item, err := readJSONValue(dec)
				if err != nil {
					return nil, err
				}
				s.Content = append(s.Content, item)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return s, nil
		}
		return nil, fmt.Errorf("unexpected delimiter %v", t)
	case string:
		return Str(t), nil
	case json.Number:
		if i, err := strconv.ParseInt(string(t), 10, 64); err == nil {
			return Int(i), nil
		}
		return Scalar("!!float", string(t)), nil
	case bool:
		return Bool(t), nil
	case nil:
		return Scalar("!!null", "null"), nil
	}
	return nil, fmt.Errorf("unexpected token %v", tok)
}
