// internal/style/font.go
package style

import "strings"

// FontStyleName maps a numeric weight and italic flag onto the style names
// font files are published under. The branches run in this order, so the
// Thin arm is shadowed by Light; font assets are looked up by these exact
// names.
func FontStyleName(weight int, italic bool) string {
	var name string
	switch {
	case weight >= 900:
		name = "Black"
	case weight >= 800:
		name = "ExtraBold"
	case weight >= 700:
		name = "Bold"
	case weight >= 600:
		name = "SemiBold"
	case weight >= 500:
		name = "Medium"
	case weight <= 300:
		name = "Light"
	case weight <= 200:
		name = "Thin"
	default:
		name = "Regular"
	}
	if italic {
		name += " Italic"
	}
	return name
}

var genericFamilies = map[string]bool{
	"serif":         true,
	"sans-serif":    true,
	"monospace":     true,
	"cursive":       true,
	"fantasy":       true,
	"system-ui":     true,
	"ui-serif":      true,
	"ui-sans-serif": true,
	"ui-monospace":  true,
	"ui-rounded":    true,
	"math":          true,
	"emoji":         true,
	"fangsong":      true,
	"-apple-system": true,
	"inherit":       true,
	"initial":       true,
}

// PrimaryFontFamily returns the first family in font-family with quotes
// stripped. Generic families report false.
func PrimaryFontFamily(c Computed) (string, bool) {
	list := c.Lookup(FontFamily, "")
	first := list
	if i := strings.IndexByte(list, ','); i >= 0 {
		first = list[:i]
	}
	first = strings.Trim(strings.TrimSpace(first), `"'`)
	if first == "" || genericFamilies[strings.ToLower(first)] {
		return "", false
	}
	return first, true
}
