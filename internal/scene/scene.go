// internal/scene/scene.go
package scene

import (
	"fmt"

	"github.com/xkilldash9x/figport/internal/style"
)

// Kind tags the Node variant.
type Kind int

const (
	KindFrame Kind = iota
	KindText
	KindImage
)

func (k Kind) String() string {
	switch k {
	case KindFrame:
		return "FRAME"
	case KindText:
		return "TEXT"
	case KindImage:
		return "IMAGE"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *Kind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "FRAME":
		*k = KindFrame
	case "TEXT":
		*k = KindText
	case "IMAGE":
		*k = KindImage
	default:
		return fmt.Errorf("unknown node kind %q", b)
	}
	return nil
}

// The string values below are the design tool's enum names and are written
// into scripts verbatim.

type LayoutMode string

const (
	Horizontal LayoutMode = "HORIZONTAL"
	Vertical   LayoutMode = "VERTICAL"
)

type SizingMode string

const (
	Fixed SizingMode = "FIXED"
	Auto  SizingMode = "AUTO"
)

type AutoResize string

const (
	WidthAndHeight AutoResize = "WIDTH_AND_HEIGHT"
	HeightOnly     AutoResize = "HEIGHT"
)

type LayoutAlign string

const (
	Stretch LayoutAlign = "STRETCH"
	Inherit LayoutAlign = "INHERIT"
)

type TextAlign string

const (
	TextLeft      TextAlign = "LEFT"
	TextCenter    TextAlign = "CENTER"
	TextRight     TextAlign = "RIGHT"
	TextJustified TextAlign = "JUSTIFIED"
)

type Decoration string

const (
	Underline     Decoration = "UNDERLINE"
	Strikethrough Decoration = "STRIKETHROUGH"
)

type TextCase string

const (
	Upper TextCase = "UPPER"
	Lower TextCase = "LOWER"
	Title TextCase = "TITLE"
)

// Relation is what a flex or grid parent says about one of its children.
// It belongs to the parent/child edge, not to the child.
type Relation struct {
	Grow  int         `json:"layoutGrow"`
	Align LayoutAlign `json:"layoutAlign"`
}

// FontName is a (family, style) pair as the design tool names fonts.
type FontName struct {
	Family string `json:"family"`
	Style  string `json:"style"`
}

// Node is one scene graph node. Which fields are meaningful depends on Kind.
// Nil pointers and empty values mean "leave the tool's default alone".
type Node struct {
	Kind   Kind   `json:"kind"`
	Name   string `json:"name"`
	Width  int    `json:"width"`
	Height int    `json:"height"`

	Opacity      *float64       `json:"opacity,omitempty"`
	Shadows      []style.Shadow `json:"shadows,omitempty"`
	Fill         *style.Paint   `json:"fill,omitempty"`
	Stroke       *style.Paint   `json:"stroke,omitempty"`
	StrokeWeight float64        `json:"strokeWeight,omitempty"`
	Radius       *style.Radius  `json:"radius,omitempty"`

	// Icon marks a frame that stands in for an inline SVG. It is drawn as a
	// plain rectangle and never has children.
	Icon bool `json:"icon,omitempty"`

	LayoutMode         LayoutMode      `json:"layoutMode,omitempty"`
	Wrap               bool            `json:"wrap,omitempty"`
	ItemSpacing        float64         `json:"itemSpacing,omitempty"`
	CounterAxisSpacing float64         `json:"counterAxisSpacing,omitempty"`
	Padding            style.Edges     `json:"padding"`
	PrimaryAlign       style.AxisAlign `json:"primaryAxisAlignItems,omitempty"`
	CounterAlign       style.AxisAlign `json:"counterAxisAlignItems,omitempty"`
	PrimarySizing      SizingMode      `json:"primaryAxisSizingMode,omitempty"`
	CounterSizing      SizingMode      `json:"counterAxisSizingMode,omitempty"`
	Children           []*Node         `json:"children,omitempty"`

	Characters    string     `json:"characters,omitempty"`
	Font          FontName   `json:"font"`
	FontSize      float64    `json:"fontSize,omitempty"`
	TextAlign     TextAlign  `json:"textAlignHorizontal,omitempty"`
	LineHeight    *float64   `json:"lineHeight,omitempty"`
	LetterSpacing *float64   `json:"letterSpacing,omitempty"`
	Decoration    Decoration `json:"textDecoration,omitempty"`
	Case          TextCase   `json:"textCase,omitempty"`
	AutoResize    AutoResize `json:"textAutoResize,omitempty"`

	ImageURL string `json:"imageUrl,omitempty"`

	Rel *Relation `json:"relation,omitempty"`
}

// HasVisuals reports whether the node paints anything of its own.
func (n *Node) HasVisuals() bool {
	if n.Fill != nil || n.Stroke != nil || n.Opacity != nil || len(n.Shadows) > 0 {
		return true
	}
	return n.Radius != nil && !n.Radius.IsZero()
}

// IsPlainWrapper reports whether the frame only wraps a single child and
// can be replaced by it.
func (n *Node) IsPlainWrapper() bool {
	return n.Kind == KindFrame && !n.Icon && len(n.Children) == 1 &&
		!n.HasVisuals() && n.Padding.IsZero()
}

// Walk visits n and its descendants in pre-order. Returning false from fn
// skips the children of that node.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		Walk(c, fn)
	}
}

// Fonts lists the distinct fonts used by text nodes in first-seen order,
// with fallback appended when no text node uses it.
func Fonts(root *Node, fallback FontName) []FontName {
	seen := make(map[FontName]bool)
	var out []FontName
	Walk(root, func(n *Node) bool {
		if n.Kind == KindText && !seen[n.Font] {
			seen[n.Font] = true
			out = append(out, n.Font)
		}
		return true
	})
	if !seen[fallback] {
		out = append(out, fallback)
	}
	return out
}

// Count returns the number of nodes in the tree.
func Count(root *Node) int {
	total := 0
	Walk(root, func(*Node) bool {
		total++
		return true
	})
	return total
}
