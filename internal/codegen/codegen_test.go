package codegen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/xkilldash9x/figport/internal/scene"
	"github.com/xkilldash9x/figport/internal/style"
)

var inter = scene.FontName{Family: "Inter", Style: "Regular"}

func newTestEmitter(t *testing.T) *Emitter {
	t.Helper()
	return NewEmitter(zaptest.NewLogger(t), inter)
}

func frame(name string, children ...*scene.Node) *scene.Node {
	return &scene.Node{
		Kind:          scene.KindFrame,
		Name:          name,
		Width:         100,
		Height:        100,
		LayoutMode:    scene.Vertical,
		PrimarySizing: scene.Fixed,
		CounterSizing: scene.Fixed,
		Children:      children,
	}
}

func textNode(chars string, font scene.FontName) *scene.Node {
	return &scene.Node{
		Kind:       scene.KindText,
		Name:       "p",
		Width:      80,
		Height:     20,
		Characters: chars,
		Font:       font,
		FontSize:   16,
		AutoResize: scene.WidthAndHeight,
	}
}

func rendered(stmts []Statement) []string {
	out := make([]string, len(stmts))
	for i, s := range stmts {
		out[i] = s.Render("")
	}
	return out
}

func indexOf(lines []string, want string) int {
	for i, l := range lines {
		if l == want {
			return i
		}
	}
	return -1
}

// -- Literals --

func TestLiterals(t *testing.T) {
	assert.Equal(t, Literal(`"say \"hi\"\n"`), Str("say \"hi\"\n"))
	assert.Equal(t, Literal("0.3882"), Num(99.0/255))
	assert.Equal(t, Literal("16"), Num(16))
	assert.Equal(t, Literal("0"), Num(-0.00001))
	assert.Equal(t, Literal("-1.5"), Num(-1.5))
	assert.Equal(t, Literal("7"), Int(7))
	assert.Equal(t, Literal("true"), Bool(true))
	assert.Equal(t, Literal(`{ a: 1, b: "x" }`), Obj(F("a", Int(1)), F("b", Str("x"))))
	assert.Equal(t, Literal("{}"), Obj())
	assert.Equal(t, Literal("[1, n2]"), Arr(Int(1), Ref("n2")))
}

// -- Emission --

func TestOrderingInvariant(t *testing.T) {
	grandchild := textNode("Hi", inter)
	grandchild.Rel = &scene.Relation{Grow: 1, Align: scene.Stretch}
	child := frame("child", grandchild)
	child.LayoutMode = scene.Horizontal
	child.Rel = &scene.Relation{Grow: 0, Align: scene.Inherit}
	sibling := frame("sibling")
	sibling.Rel = &scene.Relation{Grow: 1, Align: scene.Stretch}
	root := frame("root", child, sibling)

	prog := newTestEmitter(t).Emit(root, 1440, 900)
	stmts := prog.Nodes

	for _, n := range []*scene.Node{grandchild, child, sibling} {
		id := prog.IDs[n]
		require.NotEmpty(t, id)

		lastOwn, appendAt, relAt := -1, -1, -1
		for i, s := range stmts {
			switch {
			case s.Op == OpAppend && len(s.Args) == 1 && string(s.Args[0]) == id:
				appendAt = i
			case s.Op == OpSet && s.Target == id && (s.Member == "layoutGrow" || s.Member == "layoutAlign"):
				if relAt == -1 {
					relAt = i
				}
			case s.Target == id:
				lastOwn = i
			}
		}
		// Descendant statements count as part of the child's block.
		scene.Walk(n, func(d *scene.Node) bool {
			did := prog.IDs[d]
			for i, s := range stmts {
				if s.Target == did && !(s.Op == OpSet && (s.Member == "layoutGrow" || s.Member == "layoutAlign")) && i > lastOwn {
					lastOwn = i
				}
			}
			return true
		})

		require.NotEqual(t, -1, appendAt, "%s never appended", n.Name)
		require.NotEqual(t, -1, relAt, "%s has no relational statements", n.Name)
		assert.Less(t, lastOwn, appendAt, "%s styled after append", n.Name)
		assert.Less(t, appendAt, relAt, "%s relation set before append", n.Name)
	}
}

func TestIdentifiersAreSequentialAndUnique(t *testing.T) {
	root := frame("root", frame("a"), frame("b", frame("c")))
	prog := newTestEmitter(t).Emit(root, 100, 100)

	assert.Equal(t, "n1", prog.Root)
	seen := make(map[string]bool)
	for _, id := range prog.IDs {
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
	assert.Len(t, seen, 4)
	assert.Equal(t, "n3", prog.IDs[root.Children[1]])
}

func TestFontBlockNeverEmpty(t *testing.T) {
	prog := newTestEmitter(t).Emit(frame("root", &scene.Node{Kind: scene.KindImage, Width: 10, Height: 10}), 100, 100)
	require.Len(t, prog.Fonts, 1)
	assert.Equal(t, OpLoadFont, prog.Fonts[0].Op)
	assert.Equal(t, "font0", prog.Fonts[0].Target)
	assert.Equal(t, []scene.FontName{inter}, prog.Fonts[0].Fonts)
}

func TestFontFallbackChain(t *testing.T) {
	roboto := scene.FontName{Family: "Roboto", Style: "Bold"}
	prog := newTestEmitter(t).Emit(frame("root", textNode("a", roboto), textNode("b", inter)), 100, 100)

	require.Len(t, prog.Fonts, 2)
	assert.Equal(t, []scene.FontName{
		roboto,
		{Family: "Roboto", Style: "Regular"},
		{Family: "Inter", Style: "Bold"},
		{Family: "Inter", Style: "Regular"},
	}, prog.Fonts[0].Fonts)

	out := prog.Fonts[0].Render("")
	assert.Equal(t, 3, strings.Count(out, "try {"), "every stage but the last is guarded")
	assert.True(t, strings.HasPrefix(out, "const font0 = await (async () => {"))
	assert.Contains(t, out, `await figma.loadFontAsync({ family: "Inter", style: "Regular" });`+"\n")

	lines := rendered(prog.Nodes)
	assert.GreaterOrEqual(t, indexOf(lines, "n2.fontName = font0;"), 0)
	assert.Less(t, indexOf(lines, "n2.fontName = font0;"), indexOf(lines, `n2.characters = "a";`))
	assert.GreaterOrEqual(t, indexOf(lines, "n3.fontName = font1;"), 0)
}

func TestImageFetchIsIsolated(t *testing.T) {
	img := &scene.Node{
		Kind:     scene.KindImage,
		Name:     "img",
		Width:    64,
		Height:   64,
		Fill:     &style.Paint{RGB: style.RGB{R: 0.9, G: 0.9, B: 0.9}, Alpha: 1},
		ImageURL: "https://example.com/a.png",
	}
	prog := newTestEmitter(t).Emit(frame("root", img), 100, 100)

	var fetch *Statement
	for i := range prog.Nodes {
		if prog.Nodes[i].Op == OpFetchImage {
			fetch = &prog.Nodes[i]
		}
	}
	require.NotNil(t, fetch)
	out := fetch.Render("")
	assert.True(t, strings.HasPrefix(out, "(async () => { try {"), "fetch is not awaited")
	assert.Contains(t, out, `figma.createImageAsync("https://example.com/a.png")`)
	assert.Contains(t, out, "catch (_) {}")
	assert.Contains(t, out, `scaleMode: "FILL"`)

	lines := rendered(prog.Nodes)
	assert.GreaterOrEqual(t, indexOf(lines, "const n2 = figma.createRectangle();"), 0)
}

func TestRootNormalization(t *testing.T) {
	t.Run("text root is wrapped in a page frame", func(t *testing.T) {
		prog := newTestEmitter(t).Emit(textNode("Hello", inter), 1440, 900)
		lines := rendered(prog.Nodes)
		assert.Equal(t, "const n1 = figma.createFrame();", lines[0])
		assert.Contains(t, lines, `n1.name = "Page";`)
		assert.Contains(t, lines, "n1.resize(1440, 900);")
		assert.Contains(t, lines, `n1.fills = [{ type: "SOLID", color: { r: 1, g: 1, b: 1 }, opacity: 1 }];`)
		assert.Contains(t, lines, `n1.layoutMode = "VERTICAL";`)
		assert.Contains(t, lines, "n1.appendChild(n2);")
	})

	t.Run("nil root yields an empty page", func(t *testing.T) {
		prog := newTestEmitter(t).Emit(nil, 800, 600)
		assert.Equal(t, "n1", prog.Root)
		assert.NotContains(t, rendered(prog.Nodes), "n1.appendChild(n2);")
	})

	t.Run("frame root is kept", func(t *testing.T) {
		root := frame("main")
		prog := newTestEmitter(t).Emit(root, 800, 600)
		assert.Equal(t, "n1", prog.IDs[root])
	})
}

func TestFlexRowEmission(t *testing.T) {
	row := frame("div.row",
		frame("card"), frame("card"), frame("card"))
	row.LayoutMode = scene.Horizontal
	row.ItemSpacing = 16
	row.PrimaryAlign = style.AlignSpaceBetween
	row.CounterAlign = style.AlignMin

	lines := rendered(newTestEmitter(t).Emit(row, 1440, 900).Nodes)
	assert.Contains(t, lines, `n1.layoutMode = "HORIZONTAL";`)
	assert.Contains(t, lines, "n1.itemSpacing = 16;")
	assert.Contains(t, lines, `n1.primaryAxisAlignItems = "SPACE_BETWEEN";`)

	var appended []string
	for _, l := range lines {
		if strings.HasPrefix(l, "n1.appendChild(") {
			appended = append(appended, l)
		}
	}
	assert.Equal(t, []string{"n1.appendChild(n2);", "n1.appendChild(n3);", "n1.appendChild(n4);"}, appended)
}

func TestVisualEmission(t *testing.T) {
	uniform := frame("uniform")
	uniform.Radius = &style.Radius{Uniform: 6}
	corners := frame("corners")
	corners.Radius = &style.Radius{Corners: &style.Corners{TopLeft: 8, TopRight: 8}}
	shadowed := frame("shadowed")
	shadowed.Shadows = []style.Shadow{{OffsetY: 4, Blur: 6, Spread: -1, Alpha: 0.1}, {Inset: true, Spread: 1, Alpha: 1}}
	half := 0.5
	shadowed.Opacity = &half
	root := frame("root", uniform, corners, shadowed)

	lines := rendered(newTestEmitter(t).Emit(root, 100, 100).Nodes)
	joined := strings.Join(lines, "\n")

	assert.Contains(t, lines, "n2.cornerRadius = 6;")
	assert.NotContains(t, joined, "n2.topLeftRadius")
	assert.Contains(t, lines, "n3.topLeftRadius = 8;")
	assert.Contains(t, lines, "n3.bottomLeftRadius = 0;")
	assert.NotContains(t, joined, "n3.cornerRadius")
	assert.Contains(t, joined, `type: "DROP_SHADOW"`)
	assert.Contains(t, joined, `type: "INNER_SHADOW"`)
	assert.Contains(t, lines, "n4.opacity = 0.5;")
	assert.NotContains(t, joined, "n1.fills", "absent fill is not emitted")
}

func TestTextEmission(t *testing.T) {
	lh := 24.0
	tx := textNode("Multi\nline", inter)
	tx.AutoResize = scene.HeightOnly
	tx.Width = 300
	tx.Height = 48
	tx.LineHeight = &lh
	tx.Decoration = scene.Underline
	tx.Case = scene.Upper
	tx.TextAlign = scene.TextCenter

	lines := rendered(newTestEmitter(t).Emit(frame("root", tx), 100, 100).Nodes)
	assert.Contains(t, lines, `n2.characters = "Multi\nline";`)
	assert.Contains(t, lines, `n2.lineHeight = { value: 24, unit: "PIXELS" };`)
	assert.Contains(t, lines, `n2.textDecoration = "UNDERLINE";`)
	assert.Contains(t, lines, `n2.textCase = "UPPER";`)
	assert.Contains(t, lines, `n2.textAlignHorizontal = "CENTER";`)
	auto := indexOf(lines, `n2.textAutoResize = "HEIGHT";`)
	resize := indexOf(lines, "n2.resize(300, 48);")
	require.GreaterOrEqual(t, auto, 0)
	assert.Less(t, auto, resize)
}

// -- Assembly --

func TestAssemble(t *testing.T) {
	prog := newTestEmitter(t).Emit(frame("root", textNode("Hi", inter)), 1440, 900)
	script := Assemble(prog, Meta{Title: "Landing", URL: "about:blank", Width: 1440, Height: 900})
	lines := strings.Split(strings.TrimSuffix(script, "\n"), "\n")

	assert.Equal(t, `// Generated by figport from "Landing" (about:blank)`, lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "// Page 1440x900."))
	assert.Equal(t, "(async () => {", lines[2])
	assert.True(t, strings.HasPrefix(lines[3], "  const font0 = await"), "fonts come first")
	assert.Equal(t, "})();", lines[len(lines)-1])
	assert.Equal(t, "  figma.currentPage.appendChild(n1);", lines[len(lines)-4])
	assert.Equal(t, "  figma.viewport.scrollAndZoomIntoView([n1]);", lines[len(lines)-3])
	assert.Equal(t, `  figma.notify("Imported Landing");`, lines[len(lines)-2])

	fontEnd := strings.Index(script, "})();\n  const n1")
	assert.Greater(t, fontEnd, 0, "node block follows the font block")
}

func TestEmitIsRepeatable(t *testing.T) {
	em := newTestEmitter(t)
	root := frame("root", textNode("a", inter), frame("b"))
	first := Assemble(em.Emit(root, 100, 100), Meta{})
	second := Assemble(em.Emit(root, 100, 100), Meta{})
	assert.Equal(t, first, second)
}

func TestPlaceholder(t *testing.T) {
	out := Placeholder("no document")
	assert.True(t, strings.HasPrefix(out, "// figport could not convert this page: no document"))
	assert.Contains(t, out, `figma.notify("Nothing to import: no document");`)
}
