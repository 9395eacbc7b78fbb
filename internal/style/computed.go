// internal/style/computed.go
package style

import (
	"strconv"
	"strings"
)

// Property names a computed CSS property the converter reads. Only the
// properties listed in Properties are ever captured or queried.
type Property string

const (
	Display             Property = "display"
	Visibility          Property = "visibility"
	Opacity             Property = "opacity"
	FlexDirection       Property = "flex-direction"
	FlexWrap            Property = "flex-wrap"
	FlexGrow            Property = "flex-grow"
	JustifyContent      Property = "justify-content"
	AlignItems          Property = "align-items"
	AlignSelf           Property = "align-self"
	RowGap              Property = "row-gap"
	ColumnGap           Property = "column-gap"
	GridTemplateColumns Property = "grid-template-columns"

	PaddingTop    Property = "padding-top"
	PaddingRight  Property = "padding-right"
	PaddingBottom Property = "padding-bottom"
	PaddingLeft   Property = "padding-left"

	BorderTopWidth    Property = "border-top-width"
	BorderRightWidth  Property = "border-right-width"
	BorderBottomWidth Property = "border-bottom-width"
	BorderLeftWidth   Property = "border-left-width"
	BorderTopStyle    Property = "border-top-style"
	BorderTopColor    Property = "border-top-color"

	BorderTopLeftRadius     Property = "border-top-left-radius"
	BorderTopRightRadius    Property = "border-top-right-radius"
	BorderBottomRightRadius Property = "border-bottom-right-radius"
	BorderBottomLeftRadius  Property = "border-bottom-left-radius"

	BackgroundColor Property = "background-color"
	BoxShadow       Property = "box-shadow"
	Color           Property = "color"

	FontFamily         Property = "font-family"
	FontSize           Property = "font-size"
	FontWeight         Property = "font-weight"
	FontStyle          Property = "font-style"
	TextAlign          Property = "text-align"
	LineHeight         Property = "line-height"
	LetterSpacing      Property = "letter-spacing"
	TextDecorationLine Property = "text-decoration-line"
	TextTransform      Property = "text-transform"
	WhiteSpace         Property = "white-space"
)

// Properties is the closed set of properties captured from the rendering
// host, in a stable order.
var Properties = []Property{
	Display, Visibility, Opacity,
	FlexDirection, FlexWrap, FlexGrow, JustifyContent, AlignItems, AlignSelf,
	RowGap, ColumnGap, GridTemplateColumns,
	PaddingTop, PaddingRight, PaddingBottom, PaddingLeft,
	BorderTopWidth, BorderRightWidth, BorderBottomWidth, BorderLeftWidth,
	BorderTopStyle, BorderTopColor,
	BorderTopLeftRadius, BorderTopRightRadius, BorderBottomRightRadius, BorderBottomLeftRadius,
	BackgroundColor, BoxShadow, Color,
	FontFamily, FontSize, FontWeight, FontStyle,
	TextAlign, LineHeight, LetterSpacing, TextDecorationLine, TextTransform,
	WhiteSpace,
}

var known = func() map[Property]struct{} {
	m := make(map[Property]struct{}, len(Properties))
	for _, p := range Properties {
		m[p] = struct{}{}
	}
	return m
}()

// PropertyNames returns Properties as plain strings, for handing to the
// collector script.
func PropertyNames() []string {
	names := make([]string, len(Properties))
	for i, p := range Properties {
		names[i] = string(p)
	}
	return names
}

// Computed is the resolved style of one element.
type Computed struct {
	values map[Property]string
}

// NewComputed keeps the recognized entries of raw and drops everything else.
func NewComputed(raw map[string]string) Computed {
	values := make(map[Property]string, len(raw))
	for k, v := range raw {
		p := Property(strings.ToLower(strings.TrimSpace(k)))
		if _, ok := known[p]; ok {
			values[p] = strings.TrimSpace(v)
		}
	}
	return Computed{values: values}
}

// Raw returns a copy of the recognized values keyed by property name.
func (c Computed) Raw() map[string]string {
	out := make(map[string]string, len(c.values))
	for k, v := range c.values {
		out[string(k)] = v
	}
	return out
}

// Lookup returns the value of p, or fallback when it is unset or empty.
func (c Computed) Lookup(p Property, fallback string) string {
	if v, ok := c.values[p]; ok && v != "" {
		return v
	}
	return fallback
}

type DisplayType int

const (
	DisplayBlock DisplayType = iota
	DisplayInline
	DisplayInlineBlock
	DisplayFlex
	DisplayGrid
	DisplayNone
	DisplayOther
)

// DisplayKind folds inline-flex into flex and inline-grid into grid.
func (c Computed) DisplayKind() DisplayType {
	switch c.Lookup(Display, "block") {
	case "block", "list-item", "flow-root":
		return DisplayBlock
	case "inline":
		return DisplayInline
	case "inline-block":
		return DisplayInlineBlock
	case "flex", "inline-flex":
		return DisplayFlex
	case "grid", "inline-grid":
		return DisplayGrid
	case "none":
		return DisplayNone
	default:
		return DisplayOther
	}
}

// IsVisible reports false for display none, hidden or collapsed visibility,
// and zero opacity.
func (c Computed) IsVisible() bool {
	if c.DisplayKind() == DisplayNone {
		return false
	}
	switch c.Lookup(Visibility, "visible") {
	case "hidden", "collapse":
		return false
	}
	return c.Opacity() > 0
}

// Opacity defaults to 1 when the value is missing or unparseable.
func (c Computed) Opacity() float64 {
	v, err := strconv.ParseFloat(c.Lookup(Opacity, "1"), 64)
	if err != nil {
		return 1
	}
	return clamp(v, 0, 1)
}

// IsRowDirection reports whether flex-direction lays out along the x axis.
func (c Computed) IsRowDirection() bool {
	switch c.Lookup(FlexDirection, "row") {
	case "row", "row-reverse":
		return true
	}
	return false
}

// LineBreaks reports whether white-space keeps source line breaks, and
// whether runs of spaces inside a line still collapse (pre-line).
func (c Computed) LineBreaks() (keep, collapseSpaces bool) {
	switch c.Lookup(WhiteSpace, "normal") {
	case "pre", "pre-wrap", "break-spaces":
		return true, false
	case "pre-line":
		return true, true
	}
	return false, true
}

func (c Computed) Wraps() bool {
	switch c.Lookup(FlexWrap, "nowrap") {
	case "wrap", "wrap-reverse":
		return true
	}
	return false
}

func (c Computed) Grow() float64 {
	v, err := strconv.ParseFloat(c.Lookup(FlexGrow, "0"), 64)
	if err != nil {
		return 0
	}
	return v
}

// Justify maps justify-content onto the primary axis alignment.
func (c Computed) Justify() AxisAlign { return MapJustify(c.Lookup(JustifyContent, "normal")) }

// CounterAlign maps align-items onto the counter axis alignment.
func (c Computed) CounterAlign() AxisAlign { return MapAlign(c.Lookup(AlignItems, "normal")) }

// AlignItemsKeyword is the raw align-items keyword.
func (c Computed) AlignItemsKeyword() string { return c.Lookup(AlignItems, "normal") }

// AlignSelfKeyword is the raw align-self keyword.
func (c Computed) AlignSelfKeyword() string { return c.Lookup(AlignSelf, "auto") }

// Gaps returns row-gap and column-gap in pixels. "normal" counts as zero.
func (c Computed) Gaps() (row, column float64) {
	return Pixels(c.Lookup(RowGap, "0")), Pixels(c.Lookup(ColumnGap, "0"))
}

// Edges holds four per-side lengths.
type Edges struct {
	Top, Right, Bottom, Left float64
}

// Add returns the per-side sum of e and o.
func (e Edges) Add(o Edges) Edges {
	return Edges{Top: e.Top + o.Top, Right: e.Right + o.Right, Bottom: e.Bottom + o.Bottom, Left: e.Left + o.Left}
}

func (e Edges) IsZero() bool {
	return e.Top == 0 && e.Right == 0 && e.Bottom == 0 && e.Left == 0
}

func (c Computed) Padding() Edges {
	return Edges{
		Top:    Pixels(c.Lookup(PaddingTop, "0")),
		Right:  Pixels(c.Lookup(PaddingRight, "0")),
		Bottom: Pixels(c.Lookup(PaddingBottom, "0")),
		Left:   Pixels(c.Lookup(PaddingLeft, "0")),
	}
}

// BorderWidths reports zero on every side when the top border style is none.
func (c Computed) BorderWidths() Edges {
	if !c.hasBorderStyle() {
		return Edges{}
	}
	return Edges{
		Top:    Pixels(c.Lookup(BorderTopWidth, "0")),
		Right:  Pixels(c.Lookup(BorderRightWidth, "0")),
		Bottom: Pixels(c.Lookup(BorderBottomWidth, "0")),
		Left:   Pixels(c.Lookup(BorderLeftWidth, "0")),
	}
}

func (c Computed) hasBorderStyle() bool {
	switch c.Lookup(BorderTopStyle, "none") {
	case "none", "hidden":
		return false
	}
	return true
}

// Stroke returns the border paint and the top border width, or nil when
// there is no visible border.
func (c Computed) Stroke() (*Paint, float64) {
	width := c.BorderWidths().Top
	if width <= 0 {
		return nil, 0
	}
	paint := ParsePaint(c.Lookup(BorderTopColor, ""))
	if paint == nil {
		return nil, 0
	}
	return paint, width
}

// Background returns the background paint, or nil for no paint.
func (c Computed) Background() *Paint { return ParsePaint(c.Lookup(BackgroundColor, "transparent")) }

// Foreground returns the text color, or nil for no paint.
func (c Computed) Foreground() *Paint { return ParsePaint(c.Lookup(Color, "")) }

func (c Computed) Shadows() []Shadow { return ParseShadows(c.Lookup(BoxShadow, "none")) }

// FontPx is the font size in pixels, 16 when unknown.
func (c Computed) FontPx() float64 {
	if v := Pixels(c.Lookup(FontSize, "")); v > 0 {
		return v
	}
	return 16
}

// Weight resolves keyword weights to numbers.
func (c Computed) Weight() int {
	v := c.Lookup(FontWeight, "400")
	switch v {
	case "normal":
		return 400
	case "bold", "bolder":
		return 700
	case "lighter":
		return 300
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 400
	}
	return int(n)
}

func (c Computed) Italic() bool {
	v := c.Lookup(FontStyle, "normal")
	return v == "italic" || strings.HasPrefix(v, "oblique")
}

// LineHeightPx returns the line height only when it was resolved to pixels.
func (c Computed) LineHeightPx() (float64, bool) {
	return pixelsStrict(c.Lookup(LineHeight, "normal"))
}

// LetterSpacingPx returns the letter spacing only when it was resolved to pixels.
func (c Computed) LetterSpacingPx() (float64, bool) {
	return pixelsStrict(c.Lookup(LetterSpacing, "normal"))
}

// Pixels parses a px length. Anything else, including "auto" and "normal",
// is zero.
func Pixels(s string) float64 {
	v, _ := pixelsStrict(s)
	return v
}

func pixelsStrict(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if !strings.HasSuffix(s, "px") {
		if s == "0" {
			return 0, true
		}
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(s, "px"), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
