package dom

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/figport/internal/style"
)

func TestDirectText(t *testing.T) {
	n := Element("p", WithChildren(
		Text("  Hello \n   world "),
		Element("b", WithChildren(Text("ignored"))),
		Text("   "),
		Text("again"),
	))
	assert.Equal(t, "Hello world\nagain", n.DirectText())
	assert.Equal(t, "", Element("div").DirectText())

	var nilNode *Node
	assert.Equal(t, "", nilNode.DirectText())
}

func TestPreformattedText(t *testing.T) {
	n := Element("pre", WithChildren(
		Text("\r\n  a  b\r\n    c   \n\n"),
		Text(" \n "),
		Text("d"),
	))
	assert.Equal(t, "  a  b\n    c\nd", n.PreformattedText(false))
	assert.Equal(t, "a b\nc\nd", n.PreformattedText(true))

	var nilNode *Node
	assert.Equal(t, "", nilNode.PreformattedText(false))
}

func TestRectShrunkBy(t *testing.T) {
	r := Rect{X: 10, Y: 20, Width: 100, Height: 40}
	inner := r.ShrunkBy(style.Edges{Top: 5, Right: 10, Bottom: 5, Left: 10})
	assert.Equal(t, Rect{X: 20, Y: 25, Width: 80, Height: 30}, inner)

	collapsed := r.ShrunkBy(style.Edges{Left: 80, Right: 80})
	assert.Equal(t, 0.0, collapsed.Width)
}

func TestDocumentWindow(t *testing.T) {
	body := Element("body",
		WithRect(0, 0, 1440, 900),
		WithStyle(map[string]string{"display": "flex", "cursor": "pointer"}),
	)
	doc := &Document{Width: 1440, Height: 900, Root: body}

	cs := doc.ComputedStyle(body)
	assert.Equal(t, style.DisplayFlex, cs.DisplayKind())
	assert.NotContains(t, cs.Raw(), "cursor")
	assert.Equal(t, 1440.0, doc.BoundingRect(body).Width)
	assert.Equal(t, Rect{}, doc.BoundingRect(nil))
}

func TestSnapshotEncodeDecode(t *testing.T) {
	doc := &Document{
		URL:           "about:blank",
		Title:         "Pricing",
		Width:         1440,
		Height:        900,
		ContentHeight: 1800,
		Root: Element("body",
			WithRect(0, 0, 1440, 1800),
			WithChildren(
				Element("img", WithID("hero"), WithClass("rounded"), WithAttr("src", "https://example.com/a.png"), WithRect(0, 0, 200, 100)),
				Text("Plans"),
			),
		),
	}

	var buf bytes.Buffer
	require.NoError(t, doc.Encode(&buf))
	assert.Contains(t, buf.String(), `"contentHeight": 1800`)

	decoded, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, doc, decoded)
	assert.Equal(t, 2, decoded.Count())
}

func TestDecodeRejectsMalformedTrees(t *testing.T) {
	tests := map[string]string{
		"not json":      `{`,
		"missing tag":   `{"root":{"type":"element"}}`,
		"unknown type":  `{"root":{"type":"comment","tag":"x"}}`,
		"text children": `{"root":{"type":"element","tag":"body","children":[{"type":"text","children":[{"type":"text"}]}]}}`,
	}
	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(input))
			assert.Error(t, err)
		})
	}

	doc, err := Decode(strings.NewReader(`{"width":800,"height":600}`))
	require.NoError(t, err)
	assert.Nil(t, doc.Root)
}
