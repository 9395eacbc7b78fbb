// internal/walker/layout.go
package walker

import (
	"github.com/xkilldash9x/figport/internal/scene"
	"github.com/xkilldash9x/figport/internal/style"
)

// ParentContext is what a container tells its children about itself. A
// fresh value is built for every container and never modified.
type ParentContext struct {
	IsFlex     bool
	IsGrid     bool
	IsRow      bool
	AlignItems string
}

// IsLayout reports whether children of this parent get relational metadata.
func (p ParentContext) IsLayout() bool { return p.IsFlex || p.IsGrid }

// layoutSpec is the auto-layout reading of one container's style.
type layoutSpec struct {
	ctx          ParentContext
	mode         scene.LayoutMode
	wrap         bool
	itemSpacing  float64
	counterSpace float64
	primary      style.AxisAlign
	counter      style.AxisAlign
}

// classify maps CSS flex and grid onto auto-layout. Grids are treated as
// rows when they have more than one column track, and row-like grids wrap.
// Everything else stacks vertically.
func classify(cs style.Computed) layoutSpec {
	spec := layoutSpec{
		mode:    scene.Vertical,
		primary: style.AlignMin,
		counter: style.AlignMin,
	}

	switch cs.DisplayKind() {
	case style.DisplayFlex:
		spec.ctx.IsFlex = true
		spec.ctx.IsRow = cs.IsRowDirection()
		spec.wrap = cs.Wraps()
	case style.DisplayGrid:
		spec.ctx.IsGrid = true
		spec.ctx.IsRow = style.GridColumnCount(cs) > 1
		spec.wrap = spec.ctx.IsRow
	default:
		return spec
	}
	spec.ctx.AlignItems = cs.AlignItemsKeyword()

	rowGap, columnGap := cs.Gaps()
	if spec.ctx.IsRow {
		spec.mode = scene.Horizontal
		spec.itemSpacing, spec.counterSpace = columnGap, rowGap
	} else {
		spec.itemSpacing, spec.counterSpace = rowGap, columnGap
	}
	if !spec.wrap {
		spec.counterSpace = 0
	}

	spec.primary = cs.Justify()
	spec.counter = cs.CounterAlign()
	if spec.counter == style.AlignBaseline && spec.mode != scene.Horizontal {
		spec.counter = style.AlignMin
	}
	return spec
}

// apply copies the layout onto a frame. Sizing is fixed on both axes.
func (l layoutSpec) apply(f *scene.Node) {
	f.LayoutMode = l.mode
	f.Wrap = l.wrap
	f.ItemSpacing = l.itemSpacing
	f.CounterAxisSpacing = l.counterSpace
	f.PrimaryAlign = l.primary
	f.CounterAlign = l.counter
	f.PrimarySizing = scene.Fixed
	f.CounterSizing = scene.Fixed
}

// relation computes the parent-assigned grow and align values for a child
// with the given flex-grow and align-self under parent. It is nil when the
// parent is not a flex or grid container.
func relation(grow float64, alignSelf string, parent ParentContext) *scene.Relation {
	if !parent.IsLayout() {
		return nil
	}
	rel := &scene.Relation{Align: scene.Inherit}
	if parent.IsFlex && grow > 0 {
		rel.Grow = 1
	}
	effective := alignSelf
	if effective == "" || effective == "auto" {
		effective = parent.AlignItems
	}
	switch effective {
	case "stretch", "normal":
		rel.Align = scene.Stretch
	}
	return rel
}
