// File: pkg/layout/block.go
package layout

import (
	"math"

	"github.com/xkilldash9x/boxflow/pkg/geom"
	"github.com/xkilldash9x/boxflow/pkg/style"
)

// blockItem is the working state of one in-flow child of a block container.
type blockItem struct {
	id    NodeID
	order int
	st    *style.Style
	sz    sizeConstraints

	margin geom.Rect[float64] // NaN for auto
	inset  geom.Rect[float64]
}

// blockFlow is the result of stacking a block container's in-flow children.
type blockFlow struct {
	height          float64 // Outer height the children occupy, insets included
	content         geom.Size[float64]
	firstTop        CollapsibleMarginSet // Margins collapsing through the container's top edge
	lastBottom      CollapsibleMarginSet // Margins collapsing through the container's bottom edge
	collapseThrough bool                 // Every child lets margins collapse through it
	baseline        float64
}

func (t *Tree) computeBlockLayout(id NodeID, in layoutInput) (layoutOutput, error) {
	n := &t.nodes[id.index]
	st := &n.style
	box := resolveBox(st, in.ParentSize.Width)
	pbSum := box.paddingBorderSum()

	known := in.Known
	sz := sizeConstraints{size: geom.NoneSize(), min: geom.NoneSize(), max: geom.NoneSize()}
	if in.SizingMode == SizingInherent {
		sz = inherentSizes(st, in.ParentSize, box)
		styled := geom.SizeMaybeMax(geom.SizeOr(sz.minMaxDefinite(), sz.clamped()), pbSum)
		known = geom.SizeOr(known, styled)
	}

	blocksCollapse := preventsCollapseThrough(st, box, sz.size, sz.min)
	if in.RunMode == RunComputeSize && blocksCollapse && geom.IsSome(known.Width) && geom.IsSome(known.Height) {
		return outputFromSize(known), nil
	}

	inset := box.contentInset()
	insetSum := geom.RectSums(inset)
	items := collectBlockItems(t, id, known.Width, insetSum.Width)

	outerWidth := geom.MaybeMax(known.Width, pbSum.Width)
	if geom.IsNone(outerWidth) {
		avail := containerAvailable(in.Available.Width, math.NaN(), box, inset, geom.Horizontal)
		w, err := t.blockContentWidth(items, avail)
		if err != nil {
			return layoutOutput{}, err
		}
		outerWidth = math.Max(geom.MaybeClamp(w+insetSum.Width, sz.min.Width, sz.max.Width), pbSum.Width)
		// Percentages in children resolve against the final width.
		items = collectBlockItems(t, id, outerWidth, insetSum.Width)
	}

	// Own margins collapse with the children's unless something separates them.
	isolated := st.IsScrollContainer() || st.IsAbsolute()
	collapse := geom.Line[bool]{
		Start: in.VerticalMargin.Start && !isolated && box.padding.Top == 0 && box.border.Top == 0,
		End:   in.VerticalMargin.End && !isolated && box.padding.Bottom == 0 && box.border.Bottom == 0 && geom.IsNone(sz.size.Height),
	}

	flow, statics, err := t.stackBlockItems(id, in.RunMode, items, outerWidth, box, inset, collapse)
	if err != nil {
		return layoutOutput{}, err
	}

	outerHeight := geom.MaybeMax(known.Height, pbSum.Height)
	if geom.IsNone(outerHeight) {
		outerHeight = math.Max(geom.MaybeClamp(flow.height, sz.min.Height, sz.max.Height), pbSum.Height)
	}
	size := geom.Size[float64]{Width: outerWidth, Height: outerHeight}

	top := MarginFrom(box.margin.Top)
	if collapse.Start {
		top = flow.firstTop.CollapseWithMargin(box.margin.Top)
	}
	bottom := MarginFrom(box.margin.Bottom)
	if collapse.End {
		bottom = flow.lastBottom.CollapseWithMargin(box.margin.Bottom)
	}

	content := flow.content
	if in.RunMode == RunPerformLayout {
		abs, err := t.layoutAbsoluteChildren(id, absoluteContainer{
			size:      size,
			border:    box.border,
			gutter:    box.gutter,
			innerSize: geom.SizeMaybeSub(size, insetSum),
			static: func(axis geom.Axis, cst *style.Style, _, marginStart, _ float64) float64 {
				return statics[cst].Get(axis) + marginStart
			},
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
	}

	out := outputFromSizes(size, content, geom.Point[float64]{X: math.NaN(), Y: flow.baseline})
	out.TopMargin = top
	out.BottomMargin = bottom
	out.MarginsCanCollapseThrough = !blocksCollapse && flow.collapseThrough
	return out, nil
}

// collectBlockItems resolves the in-flow children's styles against the
// container's content width.
func collectBlockItems(t *Tree, id NodeID, outerWidth, insetWidth float64) []blockItem {
	children := t.nodes[id.index].children
	inner := geom.Size[float64]{Width: geom.MaybeSub(outerWidth, insetWidth), Height: math.NaN()}
	basis := geom.Or(inner.Width, 0)
	items := make([]blockItem, 0, len(children))
	for order, child := range children {
		st := &t.nodes[child.index].style
		if st.Display == style.DisplayNone {
			continue
		}
		box := resolveBox(st, inner.Width)
		items = append(items, blockItem{
			id:     child,
			order:  order,
			st:     st,
			sz:     inherentSizes(st, inner, box),
			margin: style.ResolveRect(st.Margin, basis),
			inset:  style.ResolveInset(st.Inset, geom.Size[float64]{Width: basis, Height: 0}),
		})
	}
	return items
}

// blockContentWidth is the widest in-flow child, margins included.
func (t *Tree) blockContentWidth(items []blockItem, available AvailableSpace) (float64, error) {
	widest := 0.0
	for i := range items {
		it := &items[i]
		if it.st.IsAbsolute() {
			continue
		}
		marginX := geom.Or(it.margin.Left, 0) + geom.Or(it.margin.Right, 0)
		known := it.sz.clamped()
		w := geom.MaybeAdd(known.Width, marginX)
		if geom.IsNone(w) {
			avail := geom.Size[AvailableSpace]{Width: available.Sub(marginX), Height: MinContent()}
			size, err := t.measureChildSize(it.id, known, geom.NoneSize(), avail, SizingInherent)
			if err != nil {
				return 0, err
			}
			w = size.Width + marginX
		}
		widest = math.Max(widest, w)
	}
	return widest, nil
}

// stackBlockItems places the in-flow children one below the other,
// collapsing adjoining vertical margins. In RunComputeSize mode children are
// only measured. The returned map holds the static position of every
// absolutely positioned child.
func (t *Tree) stackBlockItems(
	id NodeID,
	mode RunMode,
	items []blockItem,
	outerWidth float64,
	box boxModel,
	inset geom.Rect[float64],
	collapse geom.Line[bool],
) (blockFlow, map[*style.Style]geom.Point[float64], error) {
	st := &t.nodes[id.index].style
	pb := box.paddingBorder()
	innerWidth := math.Max(outerWidth-geom.SumAxis(inset, geom.Horizontal), 0)
	parent := geom.Size[float64]{Width: innerWidth, Height: math.NaN()}

	flow := blockFlow{collapseThrough: true, baseline: math.NaN()}
	statics := make(map[*style.Style]geom.Point[float64])

	committed := pb.Top
	absoluteY := pb.Top
	var active CollapsibleMarginSet
	collapsingWithFirst := true

	for i := range items {
		it := &items[i]
		if it.st.IsAbsolute() {
			statics[it.st] = geom.Point[float64]{X: pb.Left, Y: absoluteY}
			continue
		}

		margin := it.margin
		nonAuto := geom.Rect[float64]{
			Left:   geom.Or(margin.Left, 0),
			Right:  geom.Or(margin.Right, 0),
			Top:    geom.Or(margin.Top, 0),
			Bottom: geom.Or(margin.Bottom, 0),
		}
		marginX := nonAuto.Left + nonAuto.Right

		known := geom.NoneSize()
		if !it.st.ItemIsTable {
			known = it.sz.size
			known.Width = geom.MaybeClamp(geom.Or(known.Width, innerWidth-marginX), it.sz.min.Width, it.sz.max.Width)
		}
		avail := geom.Size[AvailableSpace]{Width: Definite(innerWidth - marginX), Height: MinContent()}
		out, err := t.computeChildLayout(it.id, layoutInput{
			RunMode:        mode,
			SizingMode:     SizingInherent,
			Known:          known,
			ParentSize:     parent,
			Available:      avail,
			VerticalMargin: geom.Line[bool]{Start: true, End: true},
		})
		if err != nil {
			return flow, statics, err
		}
		size := out.Size

		topSet := out.TopMargin.CollapseWithMargin(nonAuto.Top)
		bottomSet := out.BottomMargin.CollapseWithMargin(nonAuto.Bottom)

		freeX := math.Max(0, innerWidth-size.Width-marginX)
		resolved := resolveAutoMargins(geom.Rect[float64]{Left: margin.Left, Right: margin.Right}, geom.Size[float64]{Width: freeX})
		resolved.Top = topSet.Resolve()
		resolved.Bottom = bottomSet.Resolve()

		yMargin := active.CollapseWithMargin(resolved.Top).Resolve()
		if collapsingWithFirst && collapse.Start {
			yMargin = 0
		}

		loc := geom.Point[float64]{
			X: pb.Left + relativeOffset(it.inset, geom.Horizontal) + resolved.Left,
			Y: committed + relativeOffset(it.inset, geom.Vertical) + yMargin,
		}
		if outerX := size.Width + resolved.Left + resolved.Right; outerX < innerWidth {
			switch st.TextAlign {
			case style.TextAlignLegacyCenter:
				loc.X += (innerWidth - outerX) / 2
			case style.TextAlignLegacyRight:
				loc.X += innerWidth - outerX
			}
		}

		if mode == RunPerformLayout {
			t.setUnrounded(it.id, Layout{
				Order:         it.order,
				Location:      loc,
				Size:          size,
				ContentSize:   out.ContentSize,
				ScrollbarSize: it.st.ScrollbarGutter(),
				Border:        style.ResolveRectOrZero(it.st.Border, innerWidth),
				Padding:       style.ResolveRectOrZero(it.st.Padding, innerWidth),
				Margin:        resolved,
			})
		}
		flow.content = geom.MaxSize(flow.content, contentContribution(loc, size, out.ContentSize, it.st.Overflow))
		if math.IsNaN(flow.baseline) {
			flow.baseline = loc.Y + geom.Or(out.FirstBaselines.Y, size.Height)
		}

		through := out.MarginsCanCollapseThrough
		if collapsingWithFirst {
			flow.firstTop = flow.firstTop.CollapseWithSet(topSet)
			if through {
				flow.firstTop = flow.firstTop.CollapseWithSet(bottomSet)
			} else {
				collapsingWithFirst = false
			}
		}
		if through {
			active = active.CollapseWithSet(topSet).CollapseWithSet(bottomSet)
			absoluteY = committed + size.Height + yMargin
		} else {
			flow.collapseThrough = false
			committed += size.Height + yMargin
			active = bottomSet
			absoluteY = committed + active.Resolve()
		}
	}

	flow.lastBottom = active
	trailing := active.Resolve()
	if collapse.End {
		trailing = 0
	}
	committed += pb.Bottom + box.gutter.Height + trailing
	flow.height = math.Max(committed, 0)
	return flow, statics, nil
}
