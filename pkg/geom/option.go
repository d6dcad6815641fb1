package geom

import "math"

// Optional lengths are plain float64 values where NaN means "not known".
// Every helper here treats NaN as absent rather than propagating it.

// None returns the absent value.
func None() float64 { return math.NaN() }

// IsSome reports whether v holds a value.
func IsSome(v float64) bool { return !math.IsNaN(v) }

// IsNone reports whether v is absent.
func IsNone(v float64) bool { return math.IsNaN(v) }

// Or returns v if present, otherwise fallback.
func Or(v, fallback float64) float64 {
	if math.IsNaN(v) {
		return fallback
	}
	return v
}

// MaybeMin returns min(a, b), ignoring an absent b. An absent a stays absent.
func MaybeMin(a, b float64) float64 {
	if math.IsNaN(a) || math.IsNaN(b) {
		return a
	}
	return math.Min(a, b)
}

// MaybeMax returns max(a, b), ignoring an absent b. An absent a stays absent.
func MaybeMax(a, b float64) float64 {
	if math.IsNaN(a) || math.IsNaN(b) {
		return a
	}
	return math.Max(a, b)
}

// MaybeAdd adds b to a when both are present. An absent b leaves a unchanged.
func MaybeAdd(a, b float64) float64 {
	if math.IsNaN(b) {
		return a
	}
	return a + b
}

// MaybeSub subtracts b from a when both are present.
func MaybeSub(a, b float64) float64 {
	if math.IsNaN(b) {
		return a
	}
	return a - b
}

// MaybeClamp clamps v into [lo, hi], skipping absent bounds. A lower bound
// wins when lo > hi.
func MaybeClamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return v
	}
	if !math.IsNaN(hi) && v > hi {
		v = hi
	}
	if !math.IsNaN(lo) && v < lo {
		v = lo
	}
	return v
}

// NoneSize returns a Size with both components absent.
func NoneSize() Size[float64] {
	return Size[float64]{Width: math.NaN(), Height: math.NaN()}
}

// ZeroSize returns a zero Size.
func ZeroSize() Size[float64] { return Size[float64]{} }

// SizeOr fills absent components of s from fallback.
func SizeOr(s, fallback Size[float64]) Size[float64] {
	return Size[float64]{Width: Or(s.Width, fallback.Width), Height: Or(s.Height, fallback.Height)}
}

// SizeMaybeClamp clamps each component of s into [lo, hi].
func SizeMaybeClamp(s, lo, hi Size[float64]) Size[float64] {
	return Size[float64]{
		Width:  MaybeClamp(s.Width, lo.Width, hi.Width),
		Height: MaybeClamp(s.Height, lo.Height, hi.Height),
	}
}

// SizeMaybeMax applies MaybeMax per component.
func SizeMaybeMax(s, other Size[float64]) Size[float64] {
	return Size[float64]{Width: MaybeMax(s.Width, other.Width), Height: MaybeMax(s.Height, other.Height)}
}

// SizeMaybeMin applies MaybeMin per component.
func SizeMaybeMin(s, other Size[float64]) Size[float64] {
	return Size[float64]{Width: MaybeMin(s.Width, other.Width), Height: MaybeMin(s.Height, other.Height)}
}

// SizeMaybeSub applies MaybeSub per component.
func SizeMaybeSub(s, other Size[float64]) Size[float64] {
	return Size[float64]{Width: MaybeSub(s.Width, other.Width), Height: MaybeSub(s.Height, other.Height)}
}

// SizeMaybeAdd applies MaybeAdd per component.
func SizeMaybeAdd(s, other Size[float64]) Size[float64] {
	return Size[float64]{Width: MaybeAdd(s.Width, other.Width), Height: MaybeAdd(s.Height, other.Height)}
}

// SumAxis returns the sum of both edges of r along a.
func SumAxis(r Rect[float64], a Axis) float64 {
	return r.Start(a) + r.End(a)
}

// RectSums returns the horizontal and vertical edge sums of r as a Size.
func RectSums(r Rect[float64]) Size[float64] {
	return Size[float64]{Width: r.Left + r.Right, Height: r.Top + r.Bottom}
}

// AddRects adds two edge sets component-wise.
func AddRects(a, b Rect[float64]) Rect[float64] {
	return Rect[float64]{Left: a.Left + b.Left, Right: a.Right + b.Right, Top: a.Top + b.Top, Bottom: a.Bottom + b.Bottom}
}

// MaxSize returns the component-wise maximum.
func MaxSize(a, b Size[float64]) Size[float64] {
	return Size[float64]{Width: math.Max(a.Width, b.Width), Height: math.Max(a.Height, b.Height)}
}
