// internal/walker/text.go
package walker

import (
	"math"
	"strings"

	"github.com/xkilldash9x/figport/internal/dom"
	"github.com/xkilldash9x/figport/internal/scene"
	"github.com/xkilldash9x/figport/internal/style"
)

// A text box taller than this many font sizes is treated as multi-line.
const multilineRatio = 1.8

// Synthetic text children are one line of font-size times this.
const syntheticLineRatio = 1.4

// textLeaf builds the node for an element that holds only text. A bare text
// node cannot paint a box, so elements with a background, border, radius or
// shadow become a hugging vertical frame around a stretched text child.
func (p *pass) textLeaf(n *dom.Node, cs style.Computed, rect dom.Rect, chars string) *scene.Node {
	content := rect.ShrunkBy(cs.Padding().Add(cs.BorderWidths()))
	text := p.text(cs, chars)
	text.Name = nodeName(n)
	text.Width, text.Height = px(rect.Width), px(rect.Height)
	if content.Height > multilineRatio*text.FontSize {
		text.AutoResize = scene.HeightOnly
	} else {
		text.AutoResize = scene.WidthAndHeight
	}

	if !hasBoxVisuals(cs, rect) {
		if op := cs.Opacity(); op < 1 {
			text.Opacity = &op
		}
		return text
	}

	wrapper := p.frame(n, cs, rect, layoutSpec{
		mode:    scene.Vertical,
		primary: style.AlignMin,
		counter: style.AlignMin,
	})
	wrapper.PrimarySizing = scene.Auto
	wrapper.CounterSizing = scene.Fixed

	text.Width, text.Height = px(content.Width), px(content.Height)
	text.AutoResize = scene.HeightOnly
	text.Rel = &scene.Relation{Align: scene.Stretch}
	wrapper.Children = []*scene.Node{text}
	return wrapper
}

// inlineText is the synthetic first child holding the direct text of a
// container that also has element children.
func (p *pass) inlineText(cs style.Computed, rect dom.Rect, chars string, ctx ParentContext) *scene.Node {
	content := rect.ShrunkBy(cs.Padding().Add(cs.BorderWidths()))
	text := p.text(cs, chars)
	text.Name = "text"
	text.Width = px(content.Width)
	text.Height = int(math.Round(text.FontSize * syntheticLineRatio))
	text.AutoResize = scene.HeightOnly
	text.Rel = relation(0, "auto", ctx)
	return text
}

// text builds a text node carrying the element's typography.
func (p *pass) text(cs style.Computed, chars string) *scene.Node {
	family, ok := style.PrimaryFontFamily(cs)
	if !ok {
		family = p.fallbackFamily
	}
	t := &scene.Node{
		Kind:       scene.KindText,
		Characters: chars,
		Font: scene.FontName{
			Family: family,
			Style:  style.FontStyleName(cs.Weight(), cs.Italic()),
		},
		FontSize:   cs.FontPx(),
		Fill:       cs.Foreground(),
		TextAlign:  textAlign(cs.Lookup(style.TextAlign, "start")),
		Decoration: decoration(cs.Lookup(style.TextDecorationLine, "none")),
		Case:       textCase(cs.Lookup(style.TextTransform, "none")),
	}
	if lh, ok := cs.LineHeightPx(); ok {
		t.LineHeight = &lh
	}
	if ls, ok := cs.LetterSpacingPx(); ok {
		t.LetterSpacing = &ls
	}
	return t
}

func textAlign(v string) scene.TextAlign {
	switch v {
	case "center", "-webkit-center":
		return scene.TextCenter
	case "right", "end", "-webkit-right":
		return scene.TextRight
	case "justify":
		return scene.TextJustified
	}
	return scene.TextLeft
}

func decoration(v string) scene.Decoration {
	switch {
	case strings.Contains(v, "underline"):
		return scene.Underline
	case strings.Contains(v, "line-through"):
		return scene.Strikethrough
	}
	return ""
}

func textCase(v string) scene.TextCase {
	switch v {
	case "uppercase":
		return scene.Upper
	case "lowercase":
		return scene.Lower
	case "capitalize":
		return scene.Title
	}
	return ""
}
