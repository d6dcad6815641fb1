// File: pkg/layout/grid.go
package layout

import (
	"math"

	"github.com/xkilldash9x/boxflow/pkg/geom"
	"github.com/xkilldash9x/boxflow/pkg/style"
)

// gridItem is the working state of one in-flow child of a grid container.
type gridItem struct {
	id    NodeID
	order int
	st    *style.Style

	placement geom.Size[axisPlacement]
	area      geom.Size[geom.Line[int]] // Width holds columns, Height rows

	margin  geom.Rect[float64] // NaN for auto
	justify style.AlignItems
	align   style.AlignItems

	// Cached contributions indexed by axis and contributionKind. NaN until
	// computed.
	contrib [2][3]float64
}

// gridContainer holds the resolved container-level values for one layout.
type gridContainer struct {
	st        *style.Style
	box       boxModel
	inset     geom.Rect[float64]
	outer     geom.Size[float64] // Border-box size, NaN until resolved
	inner     geom.Size[float64] // Content-box size, NaN until resolved
	minSize   geom.Size[float64]
	maxSize   geom.Size[float64]
	available geom.Size[AvailableSpace]
	gap       geom.Size[float64]
	cols      gridAxis
	rows      gridAxis
	items     []gridItem
}

func (g *gridContainer) axis(a geom.Axis) *gridAxis {
	if a == geom.Horizontal {
		return &g.cols
	}
	return &g.rows
}

// contentAlignment is justify-content for columns and align-content for rows.
func (g *gridContainer) contentAlignment(a geom.Axis) style.AlignContent {
	if a == geom.Horizontal {
		return g.st.JustifyContent
	}
	return g.st.AlignContent
}

func (t *Tree) computeGridLayout(id NodeID, in layoutInput) (layoutOutput, error) {
	n := &t.nodes[id.index]
	st := &n.style
	box := resolveBox(st, in.ParentSize.Width)

	known := in.Known
	minSize, maxSize := geom.NoneSize(), geom.NoneSize()
	if in.SizingMode == SizingInherent {
		sz := inherentSizes(st, in.ParentSize, box)
		minSize, maxSize = sz.min, sz.max
		styled := geom.SizeMaybeMax(geom.SizeOr(sz.minMaxDefinite(), sz.clamped()), box.paddingBorderSum())
		known = geom.SizeOr(known, styled)
	}
	if in.RunMode == RunComputeSize && geom.IsSome(known.Width) && geom.IsSome(known.Height) {
		return outputFromSize(known), nil
	}
	return t.gridLayout(id, in, known, box, minSize, maxSize)
}

func (t *Tree) gridLayout(id NodeID, in layoutInput, known geom.Size[float64], box boxModel, minSize, maxSize geom.Size[float64]) (layoutOutput, error) {
	n := &t.nodes[id.index]
	st := &n.style
	inset := box.contentInset()
	insetSum := geom.RectSums(inset)

	g := &gridContainer{
		st:      st,
		box:     box,
		inset:   inset,
		outer:   known,
		inner:   geom.SizeMaybeSub(known, insetSum),
		minSize: minSize,
		maxSize: maxSize,
	}
	g.available = geom.Size[AvailableSpace]{
		Width:  containerAvailable(in.Available.Width, known.Width, box, inset, geom.Horizontal),
		Height: containerAvailable(in.Available.Height, known.Height, box, inset, geom.Vertical),
	}
	g.gap = geom.Size[float64]{
		Width:  st.Gap.Width.ResolveOrZero(g.inner.Width),
		Height: st.Gap.Height.ResolveOrZero(g.inner.Height),
	}

	// Explicit grid.
	var explicit geom.Size[[]gridTrack]
	for _, a := range [...]geom.Axis{geom.Horizontal, geom.Vertical} {
		template := st.GridTemplate(a)
		inner := geom.Or(g.inner.Get(a), geom.MaybeSub(maxSize.Get(a), insetSum.Get(a)))
		minInner := geom.MaybeSub(minSize.Get(a), insetSum.Get(a))
		count := autoRepeatCount(template, inner, minInner, g.gap.Get(a))
		explicit.Set(a, expandTemplate(template, count))
	}
	explicitCount := geom.Size[int]{Width: len(explicit.Width), Height: len(explicit.Height)}

	g.items = t.collectGridItems(id, g, explicitCount)
	placeGridItems(g.items, explicitCount, st.GridAutoFlow)

	g.cols = buildAxis(geom.Horizontal, explicit.Width, st.GridAuto(geom.Horizontal), g.items, g.gap.Width)
	g.rows = buildAxis(geom.Vertical, explicit.Height, st.GridAuto(geom.Vertical), g.items, g.gap.Height)

	// Columns first, then the container width, then rows against the
	// resolved column widths.
	if err := t.sizeTracks(g, geom.Horizontal); err != nil {
		return layoutOutput{}, err
	}
	g.resolveContainerSize(geom.Horizontal)
	if err := t.sizeTracks(g, geom.Vertical); err != nil {
		return layoutOutput{}, err
	}
	g.resolveContainerSize(geom.Vertical)

	if in.RunMode == RunComputeSize {
		return outputFromSize(g.outer), nil
	}

	g.cols.placeTracks(inset.Left, g.inner.Width, st.JustifyContent)
	g.rows.placeTracks(inset.Top, g.inner.Height, st.AlignContent)

	content, baseline, err := t.layoutGridItems(g)
	if err != nil {
		return layoutOutput{}, err
	}

	abs, err := t.layoutAbsoluteChildren(id, absoluteContainer{
		size:      g.outer,
		border:    box.border,
		gutter:    box.gutter,
		innerSize: g.inner,
		area:      g.absoluteArea,
	})
	if err != nil {
		return layoutOutput{}, err
	}
	content = geom.MaxSize(content, abs)

	for order, child := range n.children {
		if t.nodes[child.index].style.Display == style.DisplayNone {
			t.hideChild(child, order)
		}
	}

	return outputFromSizes(g.outer, content, geom.Point[float64]{X: math.NaN(), Y: baseline}), nil
}

func (t *Tree) collectGridItems(id NodeID, g *gridContainer, explicit geom.Size[int]) []gridItem {
	children := t.nodes[id.index].children
	items := make([]gridItem, 0, len(children))
	basis := geom.Or(g.inner.Width, 0)
	for order, child := range children {
		st := &t.nodes[child.index].style
		if st.IsAbsolute() || st.Display == style.DisplayNone {
			continue
		}
		it := gridItem{
			id:        child,
			order:     order,
			st:        st,
			placement: itemPlacement(g.st, st, explicit),
			margin:    style.ResolveRect(st.Margin, basis),
			justify:   resolveSelf(st.JustifySelf, g.st.JustifyItems, style.AlignStretch),
			align:     resolveSelf(st.AlignSelf, g.st.AlignItems, style.AlignStretch),
		}
		for a := range it.contrib {
			for k := range it.contrib[a] {
				it.contrib[a][k] = math.NaN()
			}
		}
		items = append(items, it)
	}
	return items
}

// resolveContainerSize fixes the container's size along an axis from its
// tracks when it was not already known.
func (g *gridContainer) resolveContainerSize(a geom.Axis) {
	insetSum := geom.SumAxis(g.inset, a)
	outer := g.outer.Get(a)
	if geom.IsNone(outer) {
		outer = g.axis(a).totalSize() + insetSum
		outer = geom.MaybeClamp(outer, g.minSize.Get(a), g.maxSize.Get(a))
	}
	outer = math.Max(outer, geom.SumAxis(g.box.paddingBorder(), a))
	g.outer.Set(a, outer)
	g.inner.Set(a, math.Max(outer-insetSum, 0))
	if !g.available.Get(a).IsDefinite() {
		g.available.Set(a, Definite(g.inner.Get(a)))
	}
}

// gridContribution is the outer size an item contributes to the tracks it
// spans along an axis.
func (t *Tree) gridContribution(g *gridContainer, it *gridItem, a geom.Axis, kind contributionKind) (float64, error) {
	slot := &it.contrib[a][kind]
	if !math.IsNaN(*slot) {
		return *slot, nil
	}

	margins := geom.Or(it.margin.Start(a), 0) + geom.Or(it.margin.End(a), 0)
	if kind == contribMinimum {
		box := resolveBox(it.st, geom.Or(g.inner.Width, 0))
		sz := inherentSizes(it.st, g.inner, box)
		var v float64
		switch {
		case geom.IsSome(sz.min.Get(a)):
			v = sz.min.Get(a) + margins
		case it.st.IsScrollContainer():
			v = geom.SumAxis(box.paddingBorder(), a) + margins
		default:
			c, err := t.gridContribution(g, it, a, contribMinContent)
			if err != nil {
				return 0, err
			}
			v = c
		}
		*slot = v
		return v, nil
	}

	known := geom.NoneSize()
	parent := geom.NoneSize()
	avail := geom.Size[AvailableSpace]{}
	other := a.Other()
	if a == geom.Vertical {
		w := g.cols.spanSize(it.area.Width)
		parent.Width = w
		avail.Width = Definite(w)
		if it.justify == style.AlignStretch && geom.IsSome(it.margin.Left) && geom.IsSome(it.margin.Right) && it.st.Size.Width.IsAuto() {
			known.Width = math.Max(w-it.margin.Left-it.margin.Right, 0)
		}
	} else {
		avail.Set(other, g.available.Get(other))
	}
	if kind == contribMinContent {
		avail.Set(a, MinContent())
	} else {
		avail.Set(a, MaxContent())
	}

	size, err := t.measureChildSize(it.id, known, parent, avail, SizingInherent)
	if err != nil {
		return 0, err
	}
	*slot = size.Get(a) + margins
	return *slot, nil
}

// -- Item Layout --

// layoutGridItems lays out every in-flow item inside its grid area and
// returns the content size and the container's first baseline.
func (t *Tree) layoutGridItems(g *gridContainer) (geom.Size[float64], float64, error) {
	var content geom.Size[float64]
	baseline := math.NaN()
	var first *gridItem

	for i := range g.items {
		it := &g.items[i]
		x := g.cols.lineEdge(it.area.Width.Start, false)
		y := g.rows.lineEdge(it.area.Height.Start, false)
		area := geom.Size[float64]{
			Width:  math.Max(g.cols.lineEdge(it.area.Width.End, true)-x, 0),
			Height: math.Max(g.rows.lineEdge(it.area.Height.End, true)-y, 0),
		}

		st := it.st
		box := resolveBox(st, area.Width)
		margin := style.ResolveRect(st.Margin, area.Width)
		sz := inherentSizes(st, area, box)

		known := geom.NoneSize()
		if it.justify == style.AlignStretch && geom.IsNone(sz.size.Width) && geom.IsSome(margin.Left) && geom.IsSome(margin.Right) {
			known.Width = geom.MaybeClamp(area.Width-margin.Left-margin.Right, sz.min.Width, sz.max.Width)
		}
		if st.HasAspectRatio() {
			known = applyAspectRatio(geom.SizeOr(known, sz.size), st.AspectRatio)
		}
		if it.align == style.AlignStretch && geom.IsNone(known.Height) && geom.IsNone(sz.size.Height) && geom.IsSome(margin.Top) && geom.IsSome(margin.Bottom) {
			known.Height = geom.MaybeClamp(area.Height-margin.Top-margin.Bottom, sz.min.Height, sz.max.Height)
		}

		avail := geom.Size[AvailableSpace]{Width: Definite(area.Width), Height: Definite(area.Height)}
		out, err := t.performChildLayout(it.id, known, area, avail, SizingInherent, geom.Line[bool]{})
		if err != nil {
			return content, baseline, err
		}
		size := out.Size

		free := geom.Size[float64]{
			Width:  area.Width - size.Width - geom.Or(margin.Left, 0) - geom.Or(margin.Right, 0),
			Height: area.Height - size.Height - geom.Or(margin.Top, 0) - geom.Or(margin.Bottom, 0),
		}
		resolved := resolveAutoMargins(margin, geom.Size[float64]{Width: math.Max(free.Width, 0), Height: math.Max(free.Height, 0)})

		inset := style.ResolveInset(st.Inset, area)
		offset := func(axis geom.Axis, align style.AlignItems) float64 {
			if geom.IsNone(margin.Start(axis)) || geom.IsNone(margin.End(axis)) {
				return 0
			}
			if align == style.AlignStretch || align == style.AlignBaseline {
				return 0
			}
			return alignSelfOffset(align, free.Get(axis), false)
		}
		loc := geom.Point[float64]{
			X: x + resolved.Left + offset(geom.Horizontal, it.justify) + relativeOffset(inset, geom.Horizontal),
			Y: y + resolved.Top + offset(geom.Vertical, it.align) + relativeOffset(inset, geom.Vertical),
		}

		t.setUnrounded(it.id, Layout{
			Order:         it.order,
			Location:      loc,
			Size:          size,
			ContentSize:   out.ContentSize,
			ScrollbarSize: st.ScrollbarGutter(),
			Border:        box.border,
			Padding:       box.padding,
			Margin:        resolved,
		})
		content = geom.MaxSize(content, contentContribution(loc, size, out.ContentSize, st.Overflow))

		if first == nil || it.area.Height.Start < first.area.Height.Start ||
			(it.area.Height.Start == first.area.Height.Start && it.area.Width.Start < first.area.Width.Start) {
			first = it
			baseline = loc.Y + geom.Or(out.FirstBaselines.Y, size.Height)
		}
	}

	// The tracks themselves are part of the scrollable area.
	if n := len(g.cols.tracks); n > 0 {
		content.Width = math.Max(content.Width, g.cols.ends[n-1])
	}
	if n := len(g.rows.tracks); n > 0 {
		content.Height = math.Max(content.Height, g.rows.ends[n-1])
	}
	content.Width += g.box.padding.Right
	content.Height += g.box.padding.Bottom
	return content, baseline, nil
}

// absoluteArea derives the containing block of an absolutely positioned
// child from its grid lines. Axes without a line fall back to the padding
// box edges.
func (g *gridContainer) absoluteArea(st *style.Style) (geom.Point[float64], geom.Size[float64], bool) {
	padOrigin := geom.Point[float64]{X: g.box.border.Left, Y: g.box.border.Top}
	padEnd := geom.Point[float64]{
		X: g.outer.Width - g.box.border.Right - g.box.gutter.Width,
		Y: g.outer.Height - g.box.border.Bottom - g.box.gutter.Height,
	}

	var origin geom.Point[float64]
	var size geom.Size[float64]
	placed := false
	for _, a := range [...]geom.Axis{geom.Horizontal, geom.Vertical} {
		ga := g.axis(a)
		l := st.GridPlacementFor(a)
		start, end := padOrigin.Get(a), padEnd.Get(a)
		if l.Start.Kind == style.PlaceLine {
			start = ga.lineEdge(ozLine(l.Start.Value, ga.explicit), false)
			placed = true
		}
		if l.End.Kind == style.PlaceLine {
			end = ga.lineEdge(ozLine(l.End.Value, ga.explicit), true)
			placed = true
		}
		origin.Set(a, start)
		size.Set(a, math.Max(end-start, 0))
	}
	return origin, size, placed
}
