package scene

import (
	"testing"

	json "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/figport/internal/style"
)

func text(chars string, font FontName) *Node {
	return &Node{Kind: KindText, Characters: chars, Font: font}
}

func TestFonts(t *testing.T) {
	inter := FontName{Family: "Inter", Style: "Regular"}
	bold := FontName{Family: "Inter", Style: "Bold"}
	roboto := FontName{Family: "Roboto", Style: "Medium"}

	root := &Node{Kind: KindFrame, Children: []*Node{
		text("a", bold),
		{Kind: KindFrame, Children: []*Node{text("b", roboto), text("c", bold)}},
		text("d", inter),
	}}

	assert.Equal(t, []FontName{bold, roboto, inter}, Fonts(root, inter))
	assert.Equal(t, []FontName{bold, roboto, inter, {Family: "Arial", Style: "Regular"}},
		Fonts(root, FontName{Family: "Arial", Style: "Regular"}))

	empty := &Node{Kind: KindFrame, Children: []*Node{{Kind: KindImage}}}
	assert.Equal(t, []FontName{inter}, Fonts(empty, inter), "fallback is always present")
	assert.Equal(t, []FontName{inter}, Fonts(nil, inter))
}

func TestWalkOrderAndSkip(t *testing.T) {
	root := &Node{Name: "root", Children: []*Node{
		{Name: "a", Children: []*Node{{Name: "a1"}}},
		{Name: "b", Children: []*Node{{Name: "b1"}}},
	}}

	var visited []string
	Walk(root, func(n *Node) bool {
		visited = append(visited, n.Name)
		return n.Name != "a"
	})
	assert.Equal(t, []string{"root", "a", "b", "b1"}, visited)
	assert.Equal(t, 5, Count(root))
}

func TestHasVisuals(t *testing.T) {
	half := 0.5
	tests := map[string]struct {
		node     Node
		expected bool
	}{
		"bare":         {Node{}, false},
		"zero radius":  {Node{Radius: &style.Radius{}}, false},
		"fill":         {Node{Fill: &style.Paint{Alpha: 1}}, true},
		"stroke":       {Node{Stroke: &style.Paint{Alpha: 1}}, true},
		"opacity":      {Node{Opacity: &half}, true},
		"shadow":       {Node{Shadows: []style.Shadow{{OffsetY: 2}}}, true},
		"radius":       {Node{Radius: &style.Radius{Uniform: 4}}, true},
		"corner radii": {Node{Radius: &style.Radius{Corners: &style.Corners{TopLeft: 2}}}, true},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.node.HasVisuals())
		})
	}
}

func TestIsPlainWrapper(t *testing.T) {
	child := &Node{Kind: KindText}
	assert.True(t, (&Node{Kind: KindFrame, Children: []*Node{child}}).IsPlainWrapper())
	assert.False(t, (&Node{Kind: KindFrame, Children: []*Node{child, child}}).IsPlainWrapper())
	assert.False(t, (&Node{Kind: KindFrame, Padding: style.Edges{Left: 1}, Children: []*Node{child}}).IsPlainWrapper())
	assert.False(t, (&Node{Kind: KindFrame, Fill: &style.Paint{}, Children: []*Node{child}}).IsPlainWrapper())
	assert.False(t, (&Node{Kind: KindText, Children: []*Node{child}}).IsPlainWrapper())
}

func TestKindJSON(t *testing.T) {
	out, err := json.Marshal(&Node{Kind: KindText, Name: "p"})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"kind":"TEXT"`)

	var k Kind
	assert.Error(t, k.UnmarshalText([]byte("CIRCLE")))
}
