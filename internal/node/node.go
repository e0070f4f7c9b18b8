// Package node reads and writes YAML documents as node trees, keeping
// comments, key order and scalar styles intact, and bridges the same
// trees to ordered JSON. The queck codecs build and consume these trees
// instead of marshaling structs so that formatting survives round trips.
package node

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Decode parses one YAML document into its node tree. The document
// wrapper is returned so comments attached to it survive re-encoding;
// use Root to reach the content.
func Decode(data []byte) (*yaml.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing yaml: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("parsing yaml: empty document")
	}
	return &doc, nil
}

// Root returns the content of a document node, or the node itself when
// it is not a document.
func Root(n *yaml.Node) *yaml.Node {
	if n.Kind == yaml.DocumentNode && len(n.Content) > 0 {
		return n.Content[0]
	}
	return n
}

// Encode serializes a node tree to YAML with two-space indentation.
func Encode(n *yaml.Node) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(n); err != nil {
		return nil, fmt.Errorf("encoding yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding yaml: %w", err)
	}
	return buf.Bytes(), nil
}
