// internal/style/color.go
package style

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// RGB is a color with channels normalized to [0,1].
type RGB struct {
	R, G, B float64
}

// Paint is a solid color with its alpha kept separately.
type Paint struct {
	RGB
	Alpha float64
}

// ParsePaint combines ParseColor and ParseAlpha. It returns nil when the
// value paints nothing.
func ParsePaint(value string) *Paint {
	rgb, _ := ParseColor(value)
	if rgb == nil {
		return nil
	}
	return &Paint{RGB: *rgb, Alpha: ParseAlpha(value)}
}

// ParseColor reads rgb()/rgba(), hex and named colors. The bool reports
// whether the value was recognized at all; a nil color with ok=true means
// the value is transparent and paints nothing.
func ParseColor(value string) (*RGB, bool) {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "" {
		return nil, false
	}
	if value == "transparent" {
		return nil, true
	}

	var (
		r, g, b uint8
		alpha   float64
		ok      bool
	)
	switch {
	case strings.HasPrefix(value, "#"):
		var a uint8
		r, g, b, a, ok = parseHexColor(value)
		alpha = float64(a) / 255
	case strings.HasPrefix(value, "rgb"):
		r, g, b, alpha, ok = parseRGBColor(value)
	default:
		if c, found := colornames.Map[value]; found {
			r, g, b, alpha, ok = c.R, c.G, c.B, float64(c.A)/255, true
		}
	}
	if !ok {
		return nil, false
	}
	// Only a fully transparent color paints nothing; faint alphas survive.
	if alpha <= 0 {
		return nil, true
	}
	return &RGB{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}, true
}

// alphaRegex matches the fourth component of an rgb()/rgba() value.
var alphaRegex = regexp.MustCompile(`rgba?\(\s*[-\d.]+%?[\s,]+[-\d.]+%?[\s,]+[-\d.]+%?\s*[,/]\s*([-\d.]+%?)\s*\)`)

// ParseAlpha extracts the alpha channel on its own. Values without an alpha
// channel report 1.
func ParseAlpha(value string) float64 {
	value = strings.TrimSpace(strings.ToLower(value))
	if strings.HasPrefix(value, "#") {
		hex := strings.TrimPrefix(value, "#")
		switch len(hex) {
		case 4:
			return float64(hexDigit(hex[3])*17) / 255
		case 8:
			return float64(hexDigit(hex[6])<<4|hexDigit(hex[7])) / 255
		}
		return 1
	}
	m := alphaRegex.FindStringSubmatch(value)
	if len(m) != 2 {
		return 1
	}
	if strings.HasSuffix(m[1], "%") {
		p, err := strconv.ParseFloat(strings.TrimSuffix(m[1], "%"), 64)
		if err != nil {
			return 1
		}
		return clamp(p/100, 0, 1)
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 1
	}
	return clamp(v, 0, 1)
}

func parseHexColor(hex string) (r, g, b, a uint8, ok bool) {
	hex = strings.TrimPrefix(hex, "#")
	for i := 0; i < len(hex); i++ {
		if !isHexDigit(hex[i]) {
			return 0, 0, 0, 0, false
		}
	}
	a = 255
	switch len(hex) {
	case 3, 4:
		r = hexDigit(hex[0]) * 17
		g = hexDigit(hex[1]) * 17
		b = hexDigit(hex[2]) * 17
		if len(hex) == 4 {
			a = hexDigit(hex[3]) * 17
		}
	case 6, 8:
		r = hexDigit(hex[0])<<4 | hexDigit(hex[1])
		g = hexDigit(hex[2])<<4 | hexDigit(hex[3])
		b = hexDigit(hex[4])<<4 | hexDigit(hex[5])
		if len(hex) == 8 {
			a = hexDigit(hex[6])<<4 | hexDigit(hex[7])
		}
	default:
		return 0, 0, 0, 0, false
	}
	return r, g, b, a, true
}

func isHexDigit(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

func hexDigit(c byte) uint8 {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10
	}
	return 0
}

var rgbRegex = regexp.MustCompile(`rgba?\((.*?)\)`)

func parseRGBColor(value string) (r, g, b uint8, alpha float64, ok bool) {
	m := rgbRegex.FindStringSubmatch(value)
	if len(m) != 2 {
		return 0, 0, 0, 0, false
	}
	parts := strings.FieldsFunc(m[1], func(c rune) bool {
		return c == ',' || c == ' ' || c == '/'
	})
	if len(parts) < 3 || len(parts) > 4 {
		return 0, 0, 0, 0, false
	}
	var channels [3]uint8
	for i, p := range parts[:3] {
		v, valid := parseChannel(p)
		if !valid {
			return 0, 0, 0, 0, false
		}
		channels[i] = v
	}
	alpha = 1
	if len(parts) == 4 {
		a, valid := parseAlphaComponent(parts[3])
		if !valid {
			return 0, 0, 0, 0, false
		}
		alpha = a
	}
	return channels[0], channels[1], channels[2], alpha, true
}

func parseChannel(value string) (uint8, bool) {
	value = strings.TrimSpace(value)
	if strings.HasSuffix(value, "%") {
		p, err := strconv.ParseFloat(strings.TrimSuffix(value, "%"), 64)
		if err != nil {
			return 0, false
		}
		return uint8(clamp(p/100*255+0.5, 0, 255)), true
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, false
	}
	return uint8(clamp(v+0.5, 0, 255)), true
}

func parseAlphaComponent(value string) (float64, bool) {
	value = strings.TrimSpace(value)
	scale := 1.0
	if strings.HasSuffix(value, "%") {
		value = strings.TrimSuffix(value, "%")
		scale = 100
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, false
	}
	return clamp(v/scale, 0, 1), true
}
