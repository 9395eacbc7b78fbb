// internal/style/align.go
package style

import "strings"

// AxisAlign is an auto-layout alignment value. The string form is what the
// design tool expects.
type AxisAlign string

const (
	AlignMin          AxisAlign = "MIN"
	AlignCenter       AxisAlign = "CENTER"
	AlignMax          AxisAlign = "MAX"
	AlignSpaceBetween AxisAlign = "SPACE_BETWEEN"
	AlignBaseline     AxisAlign = "BASELINE"
)

// MapJustify maps justify-content. space-around and space-evenly have no
// counterpart and collapse into SPACE_BETWEEN.
func MapJustify(value string) AxisAlign {
	switch keyword(value) {
	case "center":
		return AlignCenter
	case "flex-end", "end":
		return AlignMax
	case "space-between", "space-around", "space-evenly":
		return AlignSpaceBetween
	default:
		return AlignMin
	}
}

// MapAlign maps align-items.
func MapAlign(value string) AxisAlign {
	switch keyword(value) {
	case "center":
		return AlignCenter
	case "flex-end", "end":
		return AlignMax
	case "baseline":
		return AlignBaseline
	default:
		return AlignMin
	}
}

// keyword drops overflow-position prefixes such as "safe center".
func keyword(value string) string {
	fields := strings.Fields(strings.ToLower(value))
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}
