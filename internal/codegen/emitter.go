// internal/codegen/emitter.go
package codegen

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/xkilldash9x/figport/internal/scene"
	"github.com/xkilldash9x/figport/internal/style"
)

var pageFill = style.Paint{RGB: style.RGB{R: 1, G: 1, B: 1}, Alpha: 1}

// Program is the ordered statement list for one scene graph.
type Program struct {
	Fonts []Statement
	Nodes []Statement
	// Root is the variable holding the top-level frame.
	Root string
	// IDs maps every emitted node to its variable.
	IDs map[*scene.Node]string
	// FontVars maps every loaded font to the variable holding it.
	FontVars map[scene.FontName]string
}

// Emitter turns scene graphs into Programs. It keeps no state between
// calls, so one Emitter can serve concurrent conversions.
type Emitter struct {
	logger   *zap.Logger
	fallback scene.FontName
}

// NewEmitter creates an Emitter. fallback is loaded by every script and is
// the last resort for every other font.
func NewEmitter(logger *zap.Logger, fallback scene.FontName) *Emitter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Emitter{logger: logger.Named("emitter"), fallback: fallback}
}

// emission is the state of one Emit call.
type emission struct {
	fallback scene.FontName
	next     int
	prog     *Program
}

func (e *emission) nodeVar() string {
	e.next++
	return fmt.Sprintf("n%d", e.next)
}

// Emit builds the program for root. A nil or non-frame root is placed in a
// white page frame of the given size first.
func (em *Emitter) Emit(root *scene.Node, width, height int) *Program {
	root = normalizeRoot(root, width, height)
	e := &emission{
		fallback: em.fallback,
		prog: &Program{
			IDs:      make(map[*scene.Node]string),
			FontVars: make(map[scene.FontName]string),
		},
	}

	for i, f := range scene.Fonts(root, em.fallback) {
		name := fmt.Sprintf("font%d", i)
		e.prog.FontVars[f] = name
		e.prog.Fonts = append(e.prog.Fonts, Statement{
			Op:     OpLoadFont,
			Target: name,
			Fonts:  fallbackChain(f, em.fallback),
		})
	}

	e.prog.Root = e.node(root)
	em.logger.Debug("Emitted program",
		zap.Int("fonts", len(e.prog.Fonts)),
		zap.Int("statements", len(e.prog.Nodes)))
	return e.prog
}

// fallbackChain is exact, then family Regular, then fallback family in the
// requested style, then fallback Regular, with repeats removed.
func fallbackChain(f, fallback scene.FontName) []scene.FontName {
	candidates := []scene.FontName{
		f,
		{Family: f.Family, Style: "Regular"},
		{Family: fallback.Family, Style: f.Style},
		{Family: fallback.Family, Style: "Regular"},
	}
	seen := make(map[scene.FontName]bool, len(candidates))
	chain := make([]scene.FontName, 0, len(candidates))
	for _, c := range candidates {
		if !seen[c] {
			seen[c] = true
			chain = append(chain, c)
		}
	}
	return chain
}

func normalizeRoot(root *scene.Node, width, height int) *scene.Node {
	if root != nil && root.Kind == scene.KindFrame && !root.Icon {
		return root
	}
	fill := pageFill
	page := &scene.Node{
		Kind:          scene.KindFrame,
		Name:          "Page",
		Width:         width,
		Height:        height,
		Fill:          &fill,
		LayoutMode:    scene.Vertical,
		PrimaryAlign:  style.AlignMin,
		CounterAlign:  style.AlignMin,
		PrimarySizing: scene.Fixed,
		CounterSizing: scene.Fixed,
	}
	if root != nil {
		page.Children = []*scene.Node{root}
	}
	return page
}

func (e *emission) add(s Statement) { e.prog.Nodes = append(e.prog.Nodes, s) }

func (e *emission) set(target, member string, value Literal) {
	e.add(Statement{Op: OpSet, Target: target, Member: member, Args: []Literal{value}})
}

func (e *emission) call(target, member string, args ...Literal) {
	e.add(Statement{Op: OpCall, Target: target, Member: member, Args: args})
}

// node emits n and its subtree and returns n's variable. Children are fully
// built before they are appended, and relational properties are set only
// after the append.
func (e *emission) node(n *scene.Node) string {
	id := e.nodeVar()
	e.prog.IDs[n] = id

	e.add(Statement{Op: OpCreate, Target: id, Member: factory(n)})
	e.set(id, "name", Str(n.Name))

	switch {
	case n.Kind == scene.KindText:
		e.text(id, n)
	default:
		e.call(id, "resize", Int(atLeastOne(n.Width)), Int(atLeastOne(n.Height)))
		e.visuals(id, n)
		if n.Kind == scene.KindFrame && !n.Icon {
			e.layout(id, n)
		}
	}

	if n.Kind == scene.KindImage && n.ImageURL != "" {
		e.add(Statement{Op: OpFetchImage, Target: id, Args: []Literal{Str(n.ImageURL)}})
	}

	for _, child := range n.Children {
		cid := e.node(child)
		e.add(Statement{Op: OpAppend, Target: id, Args: []Literal{Ref(cid)}})
		if child.Rel != nil {
			e.set(cid, "layoutGrow", Int(child.Rel.Grow))
			e.set(cid, "layoutAlign", Str(string(child.Rel.Align)))
		}
	}
	return id
}

func factory(n *scene.Node) string {
	switch {
	case n.Kind == scene.KindText:
		return "createText"
	case n.Kind == scene.KindImage, n.Icon:
		return "createRectangle"
	}
	return "createFrame"
}

func atLeastOne(v int) int {
	if v < 1 {
		return 1
	}
	return v
}

func solid(p *style.Paint) Literal {
	return Arr(Obj(
		F("type", Str("SOLID")),
		F("color", Obj(F("r", Num(p.R)), F("g", Num(p.G)), F("b", Num(p.B)))),
		F("opacity", Num(p.Alpha)),
	))
}

func (e *emission) visuals(id string, n *scene.Node) {
	if n.Fill != nil {
		e.set(id, "fills", solid(n.Fill))
	}
	if n.Stroke != nil {
		e.set(id, "strokes", solid(n.Stroke))
		e.set(id, "strokeWeight", Num(n.StrokeWeight))
	}
	if n.Radius != nil {
		if n.Radius.IsUniform() {
			e.set(id, "cornerRadius", Num(n.Radius.Uniform))
		} else {
			c := n.Radius.Corners
			e.set(id, "topLeftRadius", Num(c.TopLeft))
			e.set(id, "topRightRadius", Num(c.TopRight))
			e.set(id, "bottomRightRadius", Num(c.BottomRight))
			e.set(id, "bottomLeftRadius", Num(c.BottomLeft))
		}
	}
	e.effects(id, n)
}

func (e *emission) effects(id string, n *scene.Node) {
	if len(n.Shadows) > 0 {
		items := make([]Literal, len(n.Shadows))
		for i, s := range n.Shadows {
			kind := "DROP_SHADOW"
			if s.Inset {
				kind = "INNER_SHADOW"
			}
			items[i] = Obj(
				F("type", Str(kind)),
				F("color", Obj(F("r", Num(s.Color.R)), F("g", Num(s.Color.G)), F("b", Num(s.Color.B)), F("a", Num(s.Alpha)))),
				F("offset", Obj(F("x", Num(s.OffsetX)), F("y", Num(s.OffsetY)))),
				F("radius", Num(s.Blur)),
				F("spread", Num(s.Spread)),
				F("visible", Bool(true)),
				F("blendMode", Str("NORMAL")),
			)
		}
		e.set(id, "effects", Arr(items...))
	}
	if n.Opacity != nil {
		e.set(id, "opacity", Num(*n.Opacity))
	}
}

func (e *emission) layout(id string, n *scene.Node) {
	if n.LayoutMode == "" {
		return
	}
	e.set(id, "layoutMode", Str(string(n.LayoutMode)))
	if n.Wrap && n.LayoutMode == scene.Horizontal {
		e.set(id, "layoutWrap", Str("WRAP"))
		e.set(id, "counterAxisSpacing", Num(n.CounterAxisSpacing))
	}
	e.set(id, "itemSpacing", Num(n.ItemSpacing))
	e.set(id, "paddingTop", Num(n.Padding.Top))
	e.set(id, "paddingRight", Num(n.Padding.Right))
	e.set(id, "paddingBottom", Num(n.Padding.Bottom))
	e.set(id, "paddingLeft", Num(n.Padding.Left))
	if n.PrimaryAlign != "" {
		e.set(id, "primaryAxisAlignItems", Str(string(n.PrimaryAlign)))
	}
	if n.CounterAlign != "" {
		e.set(id, "counterAxisAlignItems", Str(string(n.CounterAlign)))
	}
	if n.PrimarySizing != "" {
		e.set(id, "primaryAxisSizingMode", Str(string(n.PrimarySizing)))
	}
	if n.CounterSizing != "" {
		e.set(id, "counterAxisSizingMode", Str(string(n.CounterSizing)))
	}
}

// text sets the font before the characters, which the tool requires.
func (e *emission) text(id string, n *scene.Node) {
	fontVar, ok := e.prog.FontVars[n.Font]
	if !ok {
		fontVar = e.prog.FontVars[e.fallback]
	}
	e.set(id, "fontName", Ref(fontVar))
	e.set(id, "characters", Str(n.Characters))
	if n.FontSize > 0 {
		e.set(id, "fontSize", Num(n.FontSize))
	}
	if n.Fill != nil {
		e.set(id, "fills", solid(n.Fill))
	}
	if n.TextAlign != "" {
		e.set(id, "textAlignHorizontal", Str(string(n.TextAlign)))
	}
	if n.LineHeight != nil {
		e.set(id, "lineHeight", Obj(F("value", Num(*n.LineHeight)), F("unit", Str("PIXELS"))))
	}
	if n.LetterSpacing != nil {
		e.set(id, "letterSpacing", Obj(F("value", Num(*n.LetterSpacing)), F("unit", Str("PIXELS"))))
	}
	if n.Decoration != "" {
		e.set(id, "textDecoration", Str(string(n.Decoration)))
	}
	if n.Case != "" {
		e.set(id, "textCase", Str(string(n.Case)))
	}
	e.effects(id, n)
	if n.AutoResize != "" {
		e.set(id, "textAutoResize", Str(string(n.AutoResize)))
	}
	if n.AutoResize == scene.HeightOnly {
		e.call(id, "resize", Int(atLeastOne(n.Width)), Int(atLeastOne(n.Height)))
	}
}
