// internal/style/radius.go
package style

import (
	"math"
	"strconv"
	"strings"
)

// Corners holds four independent corner radii.
type Corners struct {
	TopLeft, TopRight, BottomRight, BottomLeft float64
}

// Radius is either a single uniform value (Corners == nil) or four
// independent corners. Exactly one form is ever populated.
type Radius struct {
	Uniform float64
	Corners *Corners
}

func (r Radius) IsUniform() bool { return r.Corners == nil }

func (r Radius) IsZero() bool {
	if r.Corners == nil {
		return r.Uniform == 0
	}
	c := r.Corners
	return c.TopLeft == 0 && c.TopRight == 0 && c.BottomRight == 0 && c.BottomLeft == 0
}

// CornerRadius reads the four corner radii of an element with the given box
// size. Percentages resolve against the shorter side; elliptical radii use
// their horizontal component.
func CornerRadius(c Computed, width, height float64) Radius {
	ref := math.Min(width, height)
	tl := radiusPx(c.Lookup(BorderTopLeftRadius, "0"), ref)
	tr := radiusPx(c.Lookup(BorderTopRightRadius, "0"), ref)
	br := radiusPx(c.Lookup(BorderBottomRightRadius, "0"), ref)
	bl := radiusPx(c.Lookup(BorderBottomLeftRadius, "0"), ref)

	if tl == tr && tr == br && br == bl {
		return Radius{Uniform: tl}
	}
	return Radius{Corners: &Corners{TopLeft: tl, TopRight: tr, BottomRight: br, BottomLeft: bl}}
}

func radiusPx(value string, ref float64) float64 {
	fields := strings.Fields(value)
	if len(fields) == 0 {
		return 0
	}
	v := fields[0]
	if strings.HasSuffix(v, "%") {
		p, err := strconv.ParseFloat(strings.TrimSuffix(v, "%"), 64)
		if err != nil {
			return 0
		}
		return math.Min(p, 50) / 100 * ref
	}
	return Pixels(v)
}
