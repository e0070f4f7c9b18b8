package queck

import (
	"github.com/queckhq/queck/internal/answer"
	"github.com/queckhq/queck/internal/node"
)

// Format reparses a YAML quiz document and writes it back in canonical
// form, keeping the comments, key order and anchors of the input. New
// keys and list items produced by canonicalization are appended; values
// the model does not understand are left alone.
func Format(data []byte, ctx answer.Context) ([]byte, error) {
	doc, err := node.Decode(data)
	if err != nil {
		return nil, err
	}
	q, err := LoadNode(node.Root(doc), ctx)
	if err != nil {
		return nil, err
	}
	edited, err := DumpNode(q, DumpOptions{})
	if err != nil {
		return nil, err
	}
	m := node.Merger{ExtendLists: true, ExtendDicts: true}
	m.Merge(node.Root(doc), edited)
	return node.Encode(doc)
}
