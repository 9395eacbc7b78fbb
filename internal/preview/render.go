// internal/preview/render.go
package preview

import (
	"fmt"
	"image/color"
	"io"
	"strings"
	"unicode"

	"github.com/go-fonts/latin-modern/lmroman10bold"
	"github.com/go-fonts/latin-modern/lmroman10bolditalic"
	"github.com/go-fonts/latin-modern/lmroman10italic"
	"github.com/go-fonts/latin-modern/lmroman10regular"
	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/svg"
	"go.uber.org/zap"

	"github.com/xkilldash9x/figport/internal/config"
	"github.com/xkilldash9x/figport/internal/scene"
	"github.com/xkilldash9x/figport/internal/style"
)

// Canvas coordinates are millimetres and font sizes points. The preview
// treats one CSS pixel as one canvas unit, so pixel font sizes are converted.
const ptPerUnit = 72 / 25.4

const defaultLineHeightRatio = 1.2

var textFallbackColor = canvas.RGBA(0, 0, 0, 1)

// Renderer draws scene graphs as SVG.
type Renderer struct {
	logger *zap.Logger
	scale  float64
	family *canvas.FontFamily
}

// New creates a Renderer with the embedded Latin Modern faces loaded.
func New(logger *zap.Logger, cfg config.PreviewConfig) (*Renderer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	scale := cfg.Scale
	if scale <= 0 {
		scale = 1
	}

	family := canvas.NewFontFamily("figport-preview")
	faces := []struct {
		data  []byte
		style canvas.FontStyle
	}{
		{lmroman10regular.TTF, canvas.FontRegular},
		{lmroman10bold.TTF, canvas.FontBold},
		{lmroman10italic.TTF, canvas.FontItalic},
		{lmroman10bolditalic.TTF, canvas.FontBold | canvas.FontItalic},
	}
	for _, f := range faces {
		if err := family.LoadFont(f.data, 0, f.style); err != nil {
			return nil, fmt.Errorf("failed to load preview font: %w", err)
		}
	}
	return &Renderer{logger: logger.Named("preview"), scale: scale, family: family}, nil
}

// Render writes an SVG preview of root to w.
func (r *Renderer) Render(w io.Writer, root *scene.Node) error {
	if root == nil {
		return fmt.Errorf("nothing to preview: scene graph is empty")
	}
	boxes := Layout(root)
	width := float64(max(root.Width, 1)) * r.scale
	height := float64(max(root.Height, 1)) * r.scale

	c := canvas.New(width, height)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV)

	for _, b := range boxes {
		switch b.Node.Kind {
		case scene.KindText:
			r.drawText(ctx, b)
		default:
			r.drawBox(ctx, b)
		}
	}

	out := svg.New(w, width, height, nil)
	c.RenderTo(out)
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to write svg preview: %w", err)
	}
	r.logger.Debug("Rendered preview.", zap.Int("boxes", len(boxes)))
	return nil
}

func (r *Renderer) drawBox(ctx *canvas.Context, b Box) {
	n := b.Node
	if n.Fill == nil && n.Stroke == nil {
		return
	}
	opacity := 1.0
	if n.Opacity != nil {
		opacity = *n.Opacity
	}

	ctx.SetFillColor(paintColor(n.Fill, opacity, canvas.Transparent))
	if n.Stroke != nil && n.StrokeWeight > 0 {
		ctx.SetStrokeColor(paintColor(n.Stroke, opacity, canvas.Transparent))
		ctx.SetStrokeWidth(n.StrokeWeight * r.scale)
	} else {
		ctx.SetStrokeColor(canvas.Transparent)
		ctx.SetStrokeWidth(0)
	}

	w, h := b.Width*r.scale, b.Height*r.scale
	if rad := cornerRadius(n.Radius) * r.scale; rad > 0 {
		ctx.DrawPath(b.X*r.scale, b.Y*r.scale, canvas.RoundedRectangle(w, h, rad))
		return
	}
	ctx.DrawPath(b.X*r.scale, b.Y*r.scale, canvas.Rectangle(w, h))
}

func (r *Renderer) drawText(ctx *canvas.Context, b Box) {
	n := b.Node
	if strings.TrimSpace(n.Characters) == "" {
		return
	}
	size := n.FontSize
	if size <= 0 {
		size = 16
	}
	opacity := 1.0
	if n.Opacity != nil {
		opacity = *n.Opacity
	}

	face := r.family.Face(size*r.scale*ptPerUnit, paintColor(n.Fill, opacity, textFallbackColor), fontStyle(n.Font.Style), canvas.FontNormal)
	lineHeight := size * defaultLineHeightRatio
	if n.LineHeight != nil && *n.LineHeight > 0 {
		lineHeight = *n.LineHeight
	}

	align, anchor := canvas.Left, b.X
	switch n.TextAlign {
	case scene.TextCenter:
		align, anchor = canvas.Center, b.X+b.Width/2
	case scene.TextRight:
		align, anchor = canvas.Right, b.X+b.Width
	}

	ascent := face.Metrics().Ascent
	for i, line := range strings.Split(applyCase(n.Characters, n.Case), "\n") {
		top := (b.Y + float64(i)*lineHeight) * r.scale
		ctx.DrawText(anchor*r.scale, top+ascent, canvas.NewTextLine(face, line, align))
	}
}

func paintColor(p *style.Paint, opacity float64, fallback color.Color) color.Color {
	if p == nil {
		return fallback
	}
	return canvas.RGBA(p.R, p.G, p.B, p.Alpha*opacity)
}

// cornerRadius collapses independent corners to their largest value.
func cornerRadius(r *style.Radius) float64 {
	if r == nil {
		return 0
	}
	if r.IsUniform() {
		return r.Uniform
	}
	c := r.Corners
	return max(c.TopLeft, c.TopRight, c.BottomRight, c.BottomLeft)
}

// fontStyle maps a design-tool style name such as "Semi Bold Italic" onto
// the four embedded faces.
func fontStyle(name string) canvas.FontStyle {
	lower := strings.ToLower(name)
	s := canvas.FontRegular
	if strings.Contains(lower, "bold") || strings.Contains(lower, "black") {
		s = canvas.FontBold
	}
	if strings.Contains(lower, "italic") {
		s |= canvas.FontItalic
	}
	return s
}

func applyCase(s string, c scene.TextCase) string {
	switch c {
	case scene.Upper:
		return strings.ToUpper(s)
	case scene.Lower:
		return strings.ToLower(s)
	case scene.Title:
		lines := strings.Split(s, "\n")
		for i, line := range lines {
			words := strings.Fields(line)
			for j, w := range words {
				rs := []rune(w)
				rs[0] = unicode.ToUpper(rs[0])
				words[j] = string(rs)
			}
			lines[i] = strings.Join(words, " ")
		}
		return strings.Join(lines, "\n")
	}
	return s
}
