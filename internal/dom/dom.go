// internal/dom/dom.go
package dom

import (
	"strings"

	"github.com/xkilldash9x/figport/internal/style"
)

// Window is the query surface the walker reads a rendered document through.
type Window interface {
	ComputedStyle(n *Node) style.Computed
	BoundingRect(n *Node) Rect
}

// Rect is a layout box in CSS pixels.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (r Rect) Area() float64 { return r.Width * r.Height }

// ShrunkBy returns the rectangle inset by the edge sizes, clamped at zero.
func (r Rect) ShrunkBy(e style.Edges) Rect {
	out := Rect{
		X:      r.X + e.Left,
		Y:      r.Y + e.Top,
		Width:  r.Width - e.Left - e.Right,
		Height: r.Height - e.Top - e.Bottom,
	}
	if out.Width < 0 {
		out.Width = 0
	}
	if out.Height < 0 {
		out.Height = 0
	}
	return out
}

type NodeType string

const (
	ElementNode NodeType = "element"
	TextNode    NodeType = "text"
)

// Node is an element or a text node of a rendered document. Elements carry
// their computed style and bounding rect as captured by the rendering host.
type Node struct {
	Type     NodeType          `json:"type"`
	Tag      string            `json:"tag,omitempty"`
	ID       string            `json:"id,omitempty"`
	Classes  []string          `json:"classes,omitempty"`
	Attrs    map[string]string `json:"attrs,omitempty"`
	Style    map[string]string `json:"style,omitempty"`
	Rect     Rect              `json:"rect"`
	Text     string            `json:"text,omitempty"`
	Children []*Node           `json:"children,omitempty"`
}

func (n *Node) IsElement() bool { return n != nil && n.Type == ElementNode }

// Attr returns the attribute value or "".
func (n *Node) Attr(name string) string {
	if n == nil || n.Attrs == nil {
		return ""
	}
	return n.Attrs[name]
}

// DirectText joins the node's own text children, each trimmed with inner
// whitespace collapsed, with newlines. Empty runs are skipped.
func (n *Node) DirectText() string {
	if n == nil {
		return ""
	}
	var parts []string
	for _, c := range n.Children {
		if c.Type != TextNode {
			continue
		}
		if t := strings.Join(strings.Fields(c.Text), " "); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, "\n")
}

// PreformattedText is DirectText for white-space: pre and its relatives.
// Line breaks inside a run survive and blank leading and trailing lines are
// dropped. Indentation is kept unless collapseSpaces is set.
func (n *Node) PreformattedText(collapseSpaces bool) string {
	if n == nil {
		return ""
	}
	var parts []string
	for _, c := range n.Children {
		if c.Type != TextNode || strings.TrimSpace(c.Text) == "" {
			continue
		}
		lines := strings.Split(strings.ReplaceAll(c.Text, "\r\n", "\n"), "\n")
		for i, line := range lines {
			if collapseSpaces {
				lines[i] = strings.Join(strings.Fields(line), " ")
			} else {
				lines[i] = strings.TrimRight(line, " \t\r")
			}
		}
		parts = append(parts, strings.Trim(strings.Join(lines, "\n"), "\n"))
	}
	return strings.Join(parts, "\n")
}

// Document is a rendered page: viewport size, full content height and the
// body element.
type Document struct {
	URL           string  `json:"url,omitempty"`
	Title         string  `json:"title,omitempty"`
	Width         float64 `json:"width"`
	Height        float64 `json:"height"`
	ContentHeight float64 `json:"contentHeight"`
	Root          *Node   `json:"root"`
}

var _ Window = (*Document)(nil)

func (d *Document) ComputedStyle(n *Node) style.Computed {
	if n == nil {
		return style.NewComputed(nil)
	}
	return style.NewComputed(n.Style)
}

func (d *Document) BoundingRect(n *Node) Rect {
	if n == nil {
		return Rect{}
	}
	return n.Rect
}

// Count returns the number of element nodes under and including the root.
func (d *Document) Count() int {
	if d == nil {
		return 0
	}
	var count func(*Node) int
	count = func(n *Node) int {
		if !n.IsElement() {
			return 0
		}
		total := 1
		for _, c := range n.Children {
			total += count(c)
		}
		return total
	}
	return count(d.Root)
}
