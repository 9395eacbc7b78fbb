// internal/preview/layout.go
package preview

import (
	"math"

	"github.com/xkilldash9x/figport/internal/scene"
	"github.com/xkilldash9x/figport/internal/style"
)

// Box is a node placed on the preview page, in CSS pixels.
type Box struct {
	Node                *scene.Node
	X, Y, Width, Height float64
	// Depth is 0 for the root.
	Depth int
}

// Layout places every node of the graph in paint order (parents before
// children). Auto-layout is approximated: children stack along the primary
// axis with spacing and padding, honour grow and stretch, and wrap onto new
// rows when the frame wraps. Frames without a layout mode stack vertically.
func Layout(root *scene.Node) []Box {
	if root == nil {
		return nil
	}
	var out []Box
	var place func(n *scene.Node, x, y, w, h float64, depth int)
	place = func(n *scene.Node, x, y, w, h float64, depth int) {
		out = append(out, Box{Node: n, X: x, Y: y, Width: w, Height: h, Depth: depth})
		if n.Icon || len(n.Children) == 0 {
			return
		}
		for _, p := range arrange(n, x, y, w, h) {
			place(p.node, p.x, p.y, p.w, p.h, depth+1)
		}
	}
	place(root, 0, 0, float64(root.Width), float64(root.Height), 0)
	return out
}

type placement struct {
	node       *scene.Node
	x, y, w, h float64
}

// item is a child measured along the parent's axes.
type item struct {
	node             *scene.Node
	primary, counter float64
}

func arrange(n *scene.Node, x, y, w, h float64) []placement {
	horizontal := n.LayoutMode == scene.Horizontal
	pad := n.Padding
	innerX, innerY := x+pad.Left, y+pad.Top
	innerW := math.Max(w-pad.Left-pad.Right, 0)
	innerH := math.Max(h-pad.Top-pad.Bottom, 0)
	innerPrimary, innerCounter := innerH, innerW
	if horizontal {
		innerPrimary, innerCounter = innerW, innerH
	}

	items := make([]item, len(n.Children))
	for i, c := range n.Children {
		cw, ch := float64(c.Width), float64(c.Height)
		if horizontal {
			items[i] = item{node: c, primary: cw, counter: ch}
		} else {
			items[i] = item{node: c, primary: ch, counter: cw}
		}
	}

	lines := [][]item{items}
	if horizontal && n.Wrap {
		lines = wrapLines(items, innerPrimary, n.ItemSpacing)
	}

	var out []placement
	counterPos := 0.0
	for _, line := range lines {
		lineCounter := innerCounter
		if len(lines) > 1 {
			lineCounter = 0
			for _, it := range line {
				lineCounter = math.Max(lineCounter, it.counter)
			}
		}

		used := n.ItemSpacing * float64(len(line)-1)
		growers := 0
		for _, it := range line {
			used += it.primary
			if it.node.Rel != nil && it.node.Rel.Grow > 0 {
				growers++
			}
		}
		free := innerPrimary - used
		if free > 0 && growers > 0 {
			share := free / float64(growers)
			for i := range line {
				if r := line[i].node.Rel; r != nil && r.Grow > 0 {
					line[i].primary += share
				}
			}
			free = 0
		}

		offset, gap := primaryOffset(n.PrimaryAlign, free, n.ItemSpacing, len(line))
		cursor := offset
		for _, it := range line {
			counter := it.counter
			if r := it.node.Rel; r != nil && r.Align == scene.Stretch {
				counter = lineCounter
			}
			cpos := counterPos + counterOffset(n.CounterAlign, lineCounter, counter)

			p := placement{node: it.node}
			if horizontal {
				p.x, p.y, p.w, p.h = innerX+cursor, innerY+cpos, it.primary, counter
			} else {
				p.x, p.y, p.w, p.h = innerX+cpos, innerY+cursor, counter, it.primary
			}
			out = append(out, p)
			cursor += it.primary + gap
		}
		counterPos += lineCounter + n.CounterAxisSpacing
	}
	return out
}

// wrapLines breaks items into rows no longer than limit. A row always holds
// at least one item.
func wrapLines(items []item, limit, spacing float64) [][]item {
	var lines [][]item
	var line []item
	width := 0.0
	for _, it := range items {
		next := width + it.primary
		if len(line) > 0 {
			next += spacing
		}
		if len(line) > 0 && next > limit {
			lines = append(lines, line)
			line, width = nil, 0
			next = it.primary
		}
		line = append(line, it)
		width = next
	}
	if len(line) > 0 {
		lines = append(lines, line)
	}
	return lines
}

func primaryOffset(align style.AxisAlign, free, spacing float64, count int) (offset, gap float64) {
	if free < 0 {
		free = 0
	}
	switch align {
	case style.AlignCenter:
		return free / 2, spacing
	case style.AlignMax:
		return free, spacing
	case style.AlignSpaceBetween:
		if count > 1 {
			return 0, spacing + free/float64(count-1)
		}
	}
	return 0, spacing
}

func counterOffset(align style.AxisAlign, available, size float64) float64 {
	switch align {
	case style.AlignCenter:
		return (available - size) / 2
	case style.AlignMax:
		return available - size
	}
	return 0
}
