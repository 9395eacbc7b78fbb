// internal/dom/snapshot.go
package dom

import (
	"fmt"
	"io"

	json "github.com/json-iterator/go"
)

// Decode reads a JSON document snapshot.
func Decode(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode document snapshot: %w", err)
	}
	if doc.Root != nil {
		if err := validate(doc.Root, 0); err != nil {
			return nil, fmt.Errorf("invalid document snapshot: %w", err)
		}
	}
	return &doc, nil
}

// Encode writes the snapshot as indented JSON.
func (d *Document) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("failed to encode document snapshot: %w", err)
	}
	return nil
}

func validate(n *Node, depth int) error {
	switch n.Type {
	case ElementNode:
		if n.Tag == "" {
			return fmt.Errorf("element at depth %d has no tag", depth)
		}
	case TextNode:
		if len(n.Children) > 0 {
			return fmt.Errorf("text node at depth %d has children", depth)
		}
	default:
		return fmt.Errorf("unknown node type %q at depth %d", n.Type, depth)
	}
	for i, c := range n.Children {
		if c == nil {
			return fmt.Errorf("nil child %d at depth %d", i, depth)
		}
		if err := validate(c, depth+1); err != nil {
			return err
		}
	}
	return nil
}
