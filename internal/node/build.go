package node

import (
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Str returns a string scalar node. Multi-line values render as literal
// block scalars.
func Str(v string) *yaml.Node {
	n := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
	if strings.Contains(v, "\n") {
		n.Style = yaml.LiteralStyle
	}
	return n
}

// Scalar returns a scalar node with an explicit tag such as "!!int".
func Scalar(tag, v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: v}
}

// Int returns an integer scalar node.
func Int(v int64) *yaml.Node { return Scalar("!!int", strconv.FormatInt(v, 10)) }

// Bool returns a boolean scalar node.
func Bool(v bool) *yaml.Node { return Scalar("!!bool", strconv.FormatBool(v)) }

// Seq returns a sequence node over the given items.
func Seq(items ...*yaml.Node) *yaml.Node {
	return &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Content: items}
}

// Map returns an empty mapping node. Add entries with Append.
func Map() *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
}

// Append adds one key/value entry to a mapping node.
func Append(m *yaml.Node, key string, value *yaml.Node) {
	m.Content = append(m.Content, Str(key), value)
}

// MapValue returns the value node for a string key of a mapping node,
// or nil when the key is absent.
func MapValue(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Kind == yaml.ScalarNode && m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

// Copy returns a deep copy of a node tree.
func Copy(n *yaml.Node) *yaml.Node {
	out := *n
	if len(n.Content) > 0 {
		out.Content = make([]*yaml.Node, len(n.Content))
		for i, c := range n.Content {
			out.Content[i] = Copy(c)
		}
	}
	return &out
}
