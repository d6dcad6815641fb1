package layout

import (
	"math"

	"github.com/xkilldash9x/boxflow/pkg/geom"
	"github.com/xkilldash9x/boxflow/pkg/style"
)

// absoluteContainer describes the box that out-of-flow children are placed in.
type absoluteContainer struct {
	size      geom.Size[float64] // Border-box size of the container
	border    geom.Rect[float64]
	gutter    geom.Size[float64]
	innerSize geom.Size[float64] // Percentage basis handed to the child's own layout

	// area optionally narrows the containing block for one child, returning
	// its origin and size relative to the container's border box.
	area func(st *style.Style) (geom.Point[float64], geom.Size[float64], bool)

	// static places a child along an axis when neither inset on that axis is
	// set. Offsets are relative to the container's border box.
	static func(axis geom.Axis, st *style.Style, size, marginStart, marginEnd float64) float64
}

// paddingBox returns the default containing block.
func (c *absoluteContainer) paddingBox() (geom.Point[float64], geom.Size[float64]) {
	return geom.Point[float64]{X: c.border.Left, Y: c.border.Top},
		geom.Size[float64]{
			Width:  math.Max(0, c.size.Width-c.border.Left-c.border.Right-c.gutter.Width),
			Height: math.Max(0, c.size.Height-c.border.Top-c.border.Bottom-c.gutter.Height),
		}
}

// layoutAbsoluteChildren positions every absolutely positioned child of id and
// returns their contribution to the container's content size.
func (t *Tree) layoutAbsoluteChildren(id NodeID, c absoluteContainer) (geom.Size[float64], error) {
	var content geom.Size[float64]
	children := t.nodes[id.index].children
	for order, child := range children {
		cn := &t.nodes[child.index]
		st := &cn.style
		if !st.IsAbsolute() || st.Display == style.DisplayNone {
			continue
		}

		origin, area := c.paddingBox()
		if c.area != nil {
			if o, s, ok := c.area(st); ok {
				origin, area = o, s
			}
		}

		margin := style.ResolveRect(st.Margin, area.Width)
		padding := style.ResolveRectOrZero(st.Padding, area.Width)
		border := style.ResolveRectOrZero(st.Border, area.Width)
		pbSum := geom.RectSums(geom.AddRects(padding, border))
		adjust := geom.ZeroSize()
		if st.BoxSizing == style.BoxSizingContentBox {
			adjust = pbSum
		}
		inset := style.ResolveInset(st.Inset, area)
		ratio := st.AspectRatio

		size := geom.SizeMaybeAdd(applyAspectRatio(style.ResolveSize(st.Size, area), ratio), adjust)
		minSize := geom.SizeMaybeAdd(applyAspectRatio(style.ResolveSize(st.MinSize, area), ratio), adjust)
		minSize = geom.SizeMaybeMax(geom.SizeOr(minSize, pbSum), pbSum)
		maxSize := geom.SizeMaybeAdd(applyAspectRatio(style.ResolveSize(st.MaxSize, area), ratio), adjust)
		known := geom.SizeMaybeClamp(size, minSize, maxSize)

		// Opposing insets fix the size on that axis.
		if geom.IsNone(known.Width) && geom.IsSome(inset.Left) && geom.IsSome(inset.Right) {
			w := area.Width - geom.Or(margin.Left, 0) - geom.Or(margin.Right, 0) - inset.Left - inset.Right
			known.Width = math.Max(w, 0)
			known = geom.SizeMaybeClamp(applyAspectRatio(known, ratio), minSize, maxSize)
		}
		if geom.IsNone(known.Height) && geom.IsSome(inset.Top) && geom.IsSome(inset.Bottom) {
			h := area.Height - geom.Or(margin.Top, 0) - geom.Or(margin.Bottom, 0) - inset.Top - inset.Bottom
			known.Height = math.Max(h, 0)
			known = geom.SizeMaybeClamp(applyAspectRatio(known, ratio), minSize, maxSize)
		}

		available := geom.Size[AvailableSpace]{
			Width:  Definite(geom.MaybeClamp(area.Width, minSize.Width, maxSize.Width)),
			Height: Definite(geom.MaybeClamp(area.Height, minSize.Height, maxSize.Height)),
		}
		out, err := t.performChildLayout(child, known, c.innerSize, available, SizingContent, geom.Line[bool]{})
		if err != nil {
			return content, err
		}
		final := geom.SizeMaybeClamp(geom.SizeOr(known, out.Size), minSize, maxSize)

		// Auto margins share the free space of the containing block.
		free := geom.Size[float64]{
			Width:  math.Max(0, area.Width-final.Width-geom.Or(margin.Left, 0)-geom.Or(margin.Right, 0)),
			Height: math.Max(0, area.Height-final.Height-geom.Or(margin.Top, 0)-geom.Or(margin.Bottom, 0)),
		}
		resolved := resolveAutoMargins(margin, free)

		var loc geom.Point[float64]
		for _, axis := range [...]geom.Axis{geom.Horizontal, geom.Vertical} {
			start, end := inset.Start(axis), inset.End(axis)
			sz := final.Get(axis)
			var v float64
			switch {
			case geom.IsSome(start):
				v = origin.Get(axis) + start + resolved.Start(axis)
			case geom.IsSome(end):
				v = origin.Get(axis) + area.Get(axis) - end - sz - resolved.End(axis)
			case c.static != nil:
				v = c.static(axis, st, sz, resolved.Start(axis), resolved.End(axis))
			default:
				v = origin.Get(axis) + resolved.Start(axis)
			}
			loc.Set(axis, v)
		}

		t.setUnrounded(child, Layout{
			Order:         order,
			Location:      loc,
			Size:          final,
			ContentSize:   out.ContentSize,
			ScrollbarSize: st.ScrollbarGutter(),
			Border:        border,
			Padding:       padding,
			Margin:        resolved,
		})
		content = geom.MaxSize(content, contentContribution(loc, final, out.ContentSize, st.Overflow))
	}
	return content, nil
}

// resolveAutoMargins splits free space between the auto (absent) margins on
// each axis.
func resolveAutoMargins(m geom.Rect[float64], free geom.Size[float64]) geom.Rect[float64] {
	share := func(a, b float64, space float64) float64 {
		n := 0
		if geom.IsNone(a) {
			n++
		}
		if geom.IsNone(b) {
			n++
		}
		if n == 0 {
			return 0
		}
		return space / float64(n)
	}
	w := share(m.Left, m.Right, free.Width)
	h := share(m.Top, m.Bottom, free.Height)
	return geom.Rect[float64]{
		Left:   geom.Or(m.Left, w),
		Right:  geom.Or(m.Right, w),
		Top:    geom.Or(m.Top, h),
		Bottom: geom.Or(m.Bottom, h),
	}
}

// contentContribution is how far a child extends its parent's scrollable
// area. Clipped children contribute only their border box.
func contentContribution(loc geom.Point[float64], size, content geom.Size[float64], overflow geom.Point[style.Overflow]) geom.Size[float64] {
	extent := size
	if overflow.X == style.OverflowVisible {
		extent.Width = math.Max(size.Width, content.Width)
	}
	if overflow.Y == style.OverflowVisible {
		extent.Height = math.Max(size.Height, content.Height)
	}
	if extent.Width <= 0 && extent.Height <= 0 {
		return geom.ZeroSize()
	}
	return geom.Size[float64]{Width: loc.X + extent.Width, Height: loc.Y + extent.Height}
}

// relativeOffset shifts a relatively positioned box by its insets; the start
// inset wins over the end inset.
func relativeOffset(inset geom.Rect[float64], axis geom.Axis) float64 {
	if s := inset.Start(axis); geom.IsSome(s) {
		return s
	}
	if e := inset.End(axis); geom.IsSome(e) {
		return -e
	}
	return 0
}
