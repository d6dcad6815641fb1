// File: pkg/layout/leaf.go
package layout

import (
	"math"

	"github.com/xkilldash9x/boxflow/pkg/geom"
)

// computeLeafLayout sizes a node without layout children. Definite style
// sizes win; the run's MeasureFunc is consulted only when an axis is left open.
func (t *Tree) computeLeafLayout(id NodeID, in layoutInput) (layoutOutput, error) {
	n := &t.nodes[id.index]
	st := &n.style
	box := resolveBox(st, in.ParentSize.Width)
	pbSum := box.paddingBorderSum()

	styled := inherentSizes(st, in.ParentSize, box)

	// A leaf whose style fixes both axes has no content size of its own, so
	// even content sizing reports the styled box.
	var sz sizeConstraints
	if in.SizingMode == SizingContent && !isDefinite(applyAspectRatio(styled.size, st.AspectRatio)) {
		sz = sizeConstraints{size: in.Known, min: geom.NoneSize(), max: geom.NoneSize()}
	} else {
		sz = styled
		sz.size = geom.SizeOr(in.Known, styled.size)
		// A known width with an auto height still derives the height from the ratio.
		sz.size = applyAspectRatio(sz.size, st.AspectRatio)
	}

	inset := box.contentInset()
	insetSum := geom.RectSums(inset)
	blocksCollapse := preventsCollapseThrough(st, box, sz.size, sz.min)

	if in.RunMode == RunComputeSize && blocksCollapse && isDefinite(sz.size) {
		size := geom.MaxSize(geom.SizeMaybeClamp(sz.size, sz.min, sz.max), pbSum)
		return outputFromSize(size), nil
	}

	// A leaf sized on both axes by its style never needs its content measured.
	measured := geom.ZeroSize()
	if measure := t.run.measure; measure != nil && !isDefinite(sz.size) {
		available := geom.Size[AvailableSpace]{
			Width: availableFor(in.Available.Width, geom.SumAxis(box.margin, geom.Horizontal),
				in.Known.Width, sz.size.Width, sz.min.Width, sz.max.Width, insetSum.Width),
			Height: availableFor(in.Available.Height, geom.SumAxis(box.margin, geom.Vertical),
				in.Known.Height, sz.size.Height, sz.min.Height, sz.max.Height, insetSum.Height),
		}
		// The measure function works in content-box units.
		known := geom.SizeMaybeSub(sz.size, insetSum)
		known.Width = nonNegative(known.Width)
		known.Height = nonNegative(known.Height)
		m, err := measure(known, available, id, n.context, st)
		if err != nil {
			return layoutOutput{}, nodeErr("measure", id, &measureError{cause: err})
		}
		measured = geom.Size[float64]{Width: finiteOrZero(m.Width), Height: finiteOrZero(m.Height)}
	}

	// The ratio was already folded into sz.size; min/max bounds are applied last.
	size := geom.SizeOr(sz.size, geom.SizeMaybeAdd(measured, insetSum))
	size = geom.SizeMaybeClamp(size, sz.min, sz.max)
	size = geom.MaxSize(size, pbSum)

	out := outputFromSizes(size, geom.SizeMaybeAdd(measured, geom.RectSums(box.padding)), geom.Point[float64]{X: math.NaN(), Y: math.NaN()})
	out.MarginsCanCollapseThrough = !blocksCollapse && size.Height == 0 && measured.Height == 0
	return out, nil
}

func isDefinite(s geom.Size[float64]) bool {
	return geom.IsSome(s.Width) && geom.IsSome(s.Height)
}

func nonNegative(v float64) float64 {
	if geom.IsSome(v) && v < 0 {
		return 0
	}
	return v
}

// finiteOrZero guards against measure functions returning NaN or infinities.
func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
