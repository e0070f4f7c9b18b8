package node

import (
	"log/slog"

	"gopkg.in/yaml.v3"
)

// Merger merges an edited node tree back into the tree it was decoded
// from. Values move from the edited tree; comments, key order, anchors
// and scalar styles stay with the original wherever the two trees agree
// on shape.
type Merger struct {
	// ExtendLists appends edited sequence items past the original's
	// length instead of dropping them.
	ExtendLists bool
	// ExtendDicts appends edited mapping keys missing from the original.
	ExtendDicts bool
	// Logger receives a warning whenever a subtree changed shape and had
	// to be overwritten wholesale. Defaults to slog.Default().
	Logger *slog.Logger
}

// Merge rewrites dst in place so its values match src. Shape
// disagreements never fail: the dst subtree is replaced, keeping its
// comments, and a warning is logged.
func (m Merger) Merge(dst, src *yaml.Node) {
	if dst.Kind == yaml.DocumentNode && src.Kind == yaml.DocumentNode &&
		len(dst.Content) > 0 && len(src.Content) > 0 {
		m.Merge(dst.Content[0], src.Content[0])
		return
	}
	switch {
	case dst.Kind == yaml.ScalarNode && src.Kind == yaml.ScalarNode:
		dst.Tag = src.Tag
		dst.Value = src.Value
	case dst.Kind == yaml.MappingNode && src.Kind == yaml.MappingNode:
		m.mergeMap(dst, src)
	case dst.Kind == yaml.SequenceNode && src.Kind == yaml.SequenceNode:
		m.mergeSeq(dst, src)
	default:
		m.overwrite(dst, src)
	}
}

// mergeMap merges values key by key. Keys only present in dst are left
// alone, so content the edited tree does not model survives.
func (m Merger) mergeMap(dst, src *yaml.Node) {
	for i := 0; i+1 < len(src.Content); i += 2 {
		key, val := src.Content[i], src.Content[i+1]
		if dv := MapValue(dst, key.Value); dv != nil {
			m.Merge(dv, val)
		} else if m.ExtendDicts {
			dst.Content = append(dst.Content, Copy(key), Copy(val))
		}
	}
}

func (m Merger) mergeSeq(dst, src *yaml.Node) {
	n := min(len(dst.Content), len(src.Content))
	for i := 0; i < n; i++ {
		m.Merge(dst.Content[i], src.Content[i])
	}
	if m.ExtendLists {
		for _, extra := range src.Content[n:] {
			dst.Content = append(dst.Content, Copy(extra))
		}
	}
}

func (m Merger) overwrite(dst, src *yaml.Node) {
	logger := m.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Warn("value changed shape, overwriting",
		"line", dst.Line,
		"from", kindName(dst.Kind),
		"to", kindName(src.Kind))
	head, line, foot := dst.HeadComment, dst.LineComment, dst.FootComment
	*dst = *Copy(src)
	dst.HeadComment, dst.LineComment, dst.FootComment = head, line, foot
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.MappingNode:
		return "mapping"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	}
	return "unknown"
}
