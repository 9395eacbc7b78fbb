// internal/walker/walker.go
package walker

import (
	"math"

	"go.uber.org/zap"

	"github.com/xkilldash9x/figport/internal/dom"
	"github.com/xkilldash9x/figport/internal/scene"
	"github.com/xkilldash9x/figport/internal/style"
)

// Tags that never produce anything on screen.
var nonVisualTags = map[string]bool{
	"script":   true,
	"style":    true,
	"link":     true,
	"meta":     true,
	"head":     true,
	"noscript": true,
	"br":       true,
	"hr":       true,
	"template": true,
}

var (
	imagePlaceholder = style.Paint{RGB: style.RGB{R: 0.9, G: 0.9, B: 0.9}, Alpha: 1}
	iconPlaceholder  = style.Paint{RGB: style.RGB{R: 0.6, G: 0.6, B: 0.6}, Alpha: 1}
)

// Walker turns a rendered element tree into a scene graph. It holds no
// per-walk state and is safe for concurrent use.
type Walker struct {
	logger         *zap.Logger
	fallbackFamily string
}

// New creates a Walker. Text whose font-family starts with a generic family
// is set in fallbackFamily.
func New(logger *zap.Logger, fallbackFamily string) *Walker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Walker{
		logger:         logger.Named("walker"),
		fallbackFamily: fallbackFamily,
	}
}

// pass carries the state of one Walk call.
type pass struct {
	*Walker
	win    dom.Window
	pruned int
}

// Walk converts the subtree rooted at root. It returns nil when the root
// itself is not visible.
func (w *Walker) Walk(win dom.Window, root *dom.Node) *scene.Node {
	if win == nil || root == nil {
		return nil
	}
	p := &pass{Walker: w, win: win}
	out := p.walk(root, ParentContext{})
	w.logger.Debug("Walked element tree",
		zap.Int("nodes", scene.Count(out)),
		zap.Int("pruned", p.pruned))
	return out
}

func (p *pass) walk(n *dom.Node, parent ParentContext) *scene.Node {
	if !n.IsElement() || nonVisualTags[n.Tag] {
		return nil
	}
	cs := p.win.ComputedStyle(n)
	rect := p.win.BoundingRect(n)
	if !cs.IsVisible() || rect.Area() <= 0 {
		p.pruned++
		return nil
	}

	var out *scene.Node
	switch n.Tag {
	case "img":
		out = p.image(n, cs, rect)
	case "svg":
		out = p.icon(n, cs, rect)
	default:
		out = p.container(n, cs, rect)
	}
	if out != nil {
		// Flattened wrappers hand their own relation to the surviving child.
		out.Rel = relation(cs.Grow(), cs.AlignSelfKeyword(), parent)
	}
	return out
}

func (p *pass) image(n *dom.Node, cs style.Computed, rect dom.Rect) *scene.Node {
	img := p.box(scene.KindImage, n, cs, rect)
	fill := imagePlaceholder
	img.Fill = &fill
	img.ImageURL = n.Attr("currentSrc")
	if img.ImageURL == "" {
		img.ImageURL = n.Attr("src")
	}
	return img
}

func (p *pass) icon(n *dom.Node, cs style.Computed, rect dom.Rect) *scene.Node {
	icon := p.box(scene.KindFrame, n, cs, rect)
	icon.Icon = true
	if fg := cs.Foreground(); fg != nil {
		icon.Fill = fg
	} else {
		fill := iconPlaceholder
		icon.Fill = &fill
	}
	return icon
}

func (p *pass) container(n *dom.Node, cs style.Computed, rect dom.Rect) *scene.Node {
	layout := classify(cs)

	var children []*scene.Node
	for _, c := range n.Children {
		if child := p.walk(c, layout.ctx); child != nil {
			children = append(children, child)
		}
	}
	text := n.DirectText()
	if keep, collapse := cs.LineBreaks(); keep {
		text = n.PreformattedText(collapse)
	}

	if len(children) == 0 && text != "" {
		return p.textLeaf(n, cs, rect, text)
	}

	frame := p.frame(n, cs, rect, layout)
	if text != "" {
		children = append([]*scene.Node{p.inlineText(cs, rect, text, layout.ctx)}, children...)
	}
	frame.Children = children

	if frame.IsPlainWrapper() {
		only := frame.Children[0]
		if only.Width < frame.Width {
			only.Width = frame.Width
		}
		return only
	}
	return frame
}

// frame builds a container frame with its own visuals and layout. Border
// widths are folded into the padding so children sit inside the stroke.
func (p *pass) frame(n *dom.Node, cs style.Computed, rect dom.Rect, layout layoutSpec) *scene.Node {
	f := p.box(scene.KindFrame, n, cs, rect)
	f.Fill = cs.Background()
	f.Stroke, f.StrokeWeight = cs.Stroke()
	f.Padding = cs.Padding().Add(cs.BorderWidths())
	layout.apply(f)
	return f
}

// box fills the fields shared by every node built from an element.
func (p *pass) box(kind scene.Kind, n *dom.Node, cs style.Computed, rect dom.Rect) *scene.Node {
	node := &scene.Node{
		Kind:    kind,
		Name:    nodeName(n),
		Width:   px(rect.Width),
		Height:  px(rect.Height),
		Shadows: cs.Shadows(),
	}
	if op := cs.Opacity(); op < 1 {
		node.Opacity = &op
	}
	if r := style.CornerRadius(cs, rect.Width, rect.Height); !r.IsZero() {
		node.Radius = &r
	}
	return node
}

// nodeName is tag#id, tag.class or the bare tag.
func nodeName(n *dom.Node) string {
	switch {
	case n.ID != "":
		return n.Tag + "#" + n.ID
	case len(n.Classes) > 0:
		return n.Tag + "." + n.Classes[0]
	}
	return n.Tag
}

func px(v float64) int { return int(math.Round(v)) }

func hasBoxVisuals(cs style.Computed, rect dom.Rect) bool {
	if cs.Background() != nil || len(cs.Shadows()) > 0 {
		return true
	}
	if stroke, _ := cs.Stroke(); stroke != nil {
		return true
	}
	return !style.CornerRadius(cs, rect.Width, rect.Height).IsZero()
}
