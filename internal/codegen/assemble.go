// internal/codegen/assemble.go
package codegen

import (
	"fmt"
	"strings"
)

const indent = "  "

// Meta describes where a script came from. It only feeds the header.
type Meta struct {
	Title  string
	URL    string
	Width  int
	Height int
}

// Assemble renders the final script: header comment, async wrapper, fonts,
// nodes and the page insertion epilogue.
func Assemble(p *Program, meta Meta) string {
	var b strings.Builder

	title := meta.Title
	if title == "" {
		title = "untitled page"
	}
	header := fmt.Sprintf("Generated by figport from %q", title)
	if meta.URL != "" {
		header += " (" + meta.URL + ")"
	}
	b.WriteString(Statement{Op: OpComment, Text: header}.Render(""))
	b.WriteByte('\n')
	b.WriteString(Statement{Op: OpComment, Text: fmt.Sprintf("Page %dx%d. Run inside a Figma plugin or the plugin console.", meta.Width, meta.Height)}.Render(""))
	b.WriteByte('\n')

	b.WriteString("(async () => {\n")
	for _, s := range p.Fonts {
		writeLine(&b, s.Render(indent))
	}
	for _, s := range p.Nodes {
		writeLine(&b, s.Render(indent))
	}
	writeLine(&b, fmt.Sprintf("figma.currentPage.appendChild(%s);", p.Root))
	writeLine(&b, fmt.Sprintf("figma.viewport.scrollAndZoomIntoView([%s]);", p.Root))
	writeLine(&b, fmt.Sprintf("figma.notify(%s);", Str("Imported "+title)))
	b.WriteString("})();\n")
	return b.String()
}

func writeLine(b *strings.Builder, line string) {
	b.WriteString(indent)
	b.WriteString(line)
	b.WriteByte('\n')
}

// Placeholder is the script returned when there is nothing to convert.
func Placeholder(reason string) string {
	var b strings.Builder
	b.WriteString(Statement{Op: OpComment, Text: "figport could not convert this page: " + reason}.Render(""))
	b.WriteByte('\n')
	b.WriteString(fmt.Sprintf("figma.notify(%s);\n", Str("Nothing to import: "+reason)))
	return b.String()
}
