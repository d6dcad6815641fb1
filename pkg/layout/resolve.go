package layout

import (
	"math"

	"github.com/xkilldash9x/boxflow/pkg/geom"
	"github.com/xkilldash9x/boxflow/pkg/style"
)

// boxModel holds the resolved edges of a node. Auto margins resolve to zero
// here; algorithms that distribute free space into them read the style.
type boxModel struct {
	margin  geom.Rect[float64]
	padding geom.Rect[float64]
	border  geom.Rect[float64]
	gutter  geom.Size[float64] // Scrollbar space: Width is taken on the right, Height at the bottom
}

// resolveBox resolves margin, padding and border against the containing
// block width.
func resolveBox(st *style.Style, parentWidth float64) boxModel {
	return boxModel{
		margin:  style.ResolveRectOrZero(st.Margin, parentWidth),
		padding: style.ResolveRectOrZero(st.Padding, parentWidth),
		border:  style.ResolveRectOrZero(st.Border, parentWidth),
		gutter:  st.ScrollbarGutter(),
	}
}

func (b boxModel) paddingBorder() geom.Rect[float64] {
	return geom.AddRects(b.padding, b.border)
}

func (b boxModel) paddingBorderSum() geom.Size[float64] {
	return geom.RectSums(b.paddingBorder())
}

// contentInset is the distance from the border box to the content box,
// scrollbar gutters included.
func (b boxModel) contentInset() geom.Rect[float64] {
	r := b.paddingBorder()
	r.Right += b.gutter.Width
	r.Bottom += b.gutter.Height
	return r
}

func (b boxModel) contentInsetSum() geom.Size[float64] {
	return geom.RectSums(b.contentInset())
}

// boxSizingAdjustment is added to content-box style sizes to make them
// border-box sizes.
func (b boxModel) boxSizingAdjustment(st *style.Style) geom.Size[float64] {
	if st.BoxSizing == style.BoxSizingContentBox {
		return b.paddingBorderSum()
	}
	return geom.ZeroSize()
}

// sizeConstraints are a node's resolved border-box size, min-size and
// max-size styles. Absent components are NaN.
type sizeConstraints struct {
	size geom.Size[float64]
	min  geom.Size[float64]
	max  geom.Size[float64]
}

// inherentSizes resolves the size styles of a node against its parent,
// deriving a missing axis from the aspect ratio.
func inherentSizes(st *style.Style, parentSize geom.Size[float64], box boxModel) sizeConstraints {
	adjust := box.boxSizingAdjustment(st)
	ratio := st.AspectRatio
	return sizeConstraints{
		size: geom.SizeMaybeAdd(applyAspectRatio(style.ResolveSize(st.Size, parentSize), ratio), adjust),
		min:  geom.SizeMaybeAdd(applyAspectRatio(style.ResolveSize(st.MinSize, parentSize), ratio), adjust),
		max:  geom.SizeMaybeAdd(style.ResolveSize(st.MaxSize, parentSize), adjust),
	}
}

func (c sizeConstraints) clamped() geom.Size[float64] {
	return geom.SizeMaybeClamp(c.size, c.min, c.max)
}

// minMaxDefinite returns the size forced by min and max alone, which happens
// only when max does not exceed min.
func (c sizeConstraints) minMaxDefinite() geom.Size[float64] {
	pick := func(lo, hi float64) float64 {
		if geom.IsSome(lo) && geom.IsSome(hi) && hi <= lo {
			return lo
		}
		return math.NaN()
	}
	return geom.Size[float64]{Width: pick(c.min.Width, c.max.Width), Height: pick(c.min.Height, c.max.Height)}
}

// applyAspectRatio fills one missing axis from the other. Ratio is
// width / height; zero means none.
func applyAspectRatio(s geom.Size[float64], ratio float64) geom.Size[float64] {
	if ratio <= 0 {
		return s
	}
	switch {
	case geom.IsSome(s.Width) && geom.IsNone(s.Height):
		s.Height = s.Width / ratio
	case geom.IsNone(s.Width) && geom.IsSome(s.Height):
		s.Width = s.Height * ratio
	}
	return s
}

// preventsCollapseThrough reports whether a box keeps its top and bottom
// margins apart even when empty.
func preventsCollapseThrough(st *style.Style, box boxModel, size, min geom.Size[float64]) bool {
	return !st.IsBlock() ||
		st.IsScrollContainer() ||
		st.IsAbsolute() ||
		box.padding.Top > 0 || box.padding.Bottom > 0 ||
		box.border.Top > 0 || box.border.Bottom > 0 ||
		(geom.IsSome(size.Height) && size.Height > 0) ||
		(geom.IsSome(min.Height) && min.Height > 0)
}

// availableFor narrows the space offered to a node to what its own
// constraints allow, then removes the content inset.
func availableFor(avail AvailableSpace, margin, known, size, min, max, inset float64) AvailableSpace {
	a := avail
	if geom.IsSome(known) {
		a = Definite(known)
	} else {
		a = a.Sub(margin)
	}
	a = a.Or(size)
	if geom.IsNone(known) && geom.IsNone(size) {
		a = a.Min(max)
	}
	if a.IsDefinite() {
		a.Value = geom.MaybeClamp(a.Value, min, max) - inset
	}
	return a
}

// knownOr returns the known size, falling back to the definite available
// space on each axis.
func knownOr(known geom.Size[float64], avail geom.Size[AvailableSpace]) geom.Size[float64] {
	return geom.Size[float64]{
		Width:  geom.Or(known.Width, avail.Width.Option()),
		Height: geom.Or(known.Height, avail.Height.Option()),
	}
}
