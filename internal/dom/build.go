// internal/dom/build.go
package dom

import "strings"

// Option configures an element built with Element.
type Option func(*Node)

// Element builds an element node. It is used for fixtures and tests.
func Element(tag string, opts ...Option) *Node {
	n := &Node{Type: ElementNode, Tag: strings.ToLower(tag)}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Text builds a text node.
func Text(s string) *Node {
	return &Node{Type: TextNode, Text: s}
}

func WithID(id string) Option {
	return func(n *Node) { n.ID = id }
}

func WithClass(classes ...string) Option {
	return func(n *Node) { n.Classes = append(n.Classes, classes...) }
}

func WithAttr(name, value string) Option {
	return func(n *Node) {
		if n.Attrs == nil {
			n.Attrs = make(map[string]string)
		}
		n.Attrs[name] = value
	}
}

// WithStyle merges computed style entries into the element.
func WithStyle(kv map[string]string) Option {
	return func(n *Node) {
		if n.Style == nil {
			n.Style = make(map[string]string, len(kv))
		}
		for k, v := range kv {
			n.Style[k] = v
		}
	}
}

func WithRect(x, y, w, h float64) Option {
	return func(n *Node) { n.Rect = Rect{X: x, Y: y, Width: w, Height: h} }
}

func WithChildren(children ...*Node) Option {
	return func(n *Node) { n.Children = append(n.Children, children...) }
}
