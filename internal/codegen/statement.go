// internal/codegen/statement.go
package codegen

import (
	"fmt"
	"strings"

	"github.com/xkilldash9x/figport/internal/scene"
)

// Op is the kind of a Statement.
type Op int

const (
	OpComment Op = iota
	OpLoadFont
	OpCreate
	OpSet
	OpCall
	OpAppend
	OpFetchImage
)

func (o Op) String() string {
	switch o {
	case OpComment:
		return "comment"
	case OpLoadFont:
		return "load-font"
	case OpCreate:
		return "create"
	case OpSet:
		return "set"
	case OpCall:
		return "call"
	case OpAppend:
		return "append"
	case OpFetchImage:
		return "fetch-image"
	}
	return fmt.Sprintf("Op(%d)", int(o))
}

// Statement is one line (or block) of the build script before rendering.
//
//	OpComment     Text
//	OpLoadFont    Target = font variable, Fonts = attempts in order
//	OpCreate      Target = node variable, Member = factory function
//	OpSet         Target.Member = Args[0]
//	OpCall        Target.Member(Args...)
//	OpAppend      Target.appendChild(Args[0])
//	OpFetchImage  Target gets an image fill fetched from Args[0]
type Statement struct {
	Op     Op
	Target string
	Member string
	Args   []Literal
	Text   string
	Fonts  []scene.FontName
}

func fontLiteral(f scene.FontName) Literal {
	return Obj(F("family", Str(f.Family)), F("style", Str(f.Style)))
}

// Render serializes the statement. Multi-line statements are indented with
// indent on every line after the first.
func (s Statement) Render(indent string) string {
	switch s.Op {
	case OpComment:
		return "// " + strings.ReplaceAll(s.Text, "\n", " ")
	case OpLoadFont:
		return s.renderLoadFont(indent)
	case OpCreate:
		return fmt.Sprintf("const %s = figma.%s();", s.Target, s.Member)
	case OpSet:
		return fmt.Sprintf("%s.%s = %s;", s.Target, s.Member, s.arg(0))
	case OpCall:
		args := make([]string, len(s.Args))
		for i, a := range s.Args {
			args[i] = string(a)
		}
		return fmt.Sprintf("%s.%s(%s);", s.Target, s.Member, strings.Join(args, ", "))
	case OpAppend:
		return fmt.Sprintf("%s.appendChild(%s);", s.Target, s.arg(0))
	case OpFetchImage:
		return fmt.Sprintf(
			"(async () => { try { const img = await figma.createImageAsync(%s); %s.fills = [%s]; } catch (_) {} })();",
			s.arg(0), s.Target,
			Obj(F("type", Str("IMAGE")), F("imageHash", "img.hash"), F("scaleMode", Str("FILL"))),
		)
	}
	return "// unknown statement " + s.Op.String()
}

func (s Statement) arg(i int) Literal {
	if i < len(s.Args) {
		return s.Args[i]
	}
	return "undefined"
}

// renderLoadFont tries each font in turn. Every attempt but the last is
// wrapped in try/catch, so only the final fallback can throw.
func (s Statement) renderLoadFont(indent string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "const %s = await (async () => {\n", s.Target)
	for i, f := range s.Fonts {
		lit := fontLiteral(f)
		if i == len(s.Fonts)-1 {
			fmt.Fprintf(&b, "%s  await figma.loadFontAsync(%s);\n", indent, lit)
			fmt.Fprintf(&b, "%s  return %s;\n", indent, lit)
			break
		}
		fmt.Fprintf(&b, "%s  try { await figma.loadFontAsync(%s); return %s; } catch (_) {}\n", indent, lit, lit)
	}
	fmt.Fprintf(&b, "%s})();", indent)
	return b.String()
}
