// File: pkg/style/dimension.go
package style

import (
	"fmt"
	"math"
	"strconv"

	"github.com/xkilldash9x/boxflow/pkg/geom"
)

// Unit specifies how a Dimension is interpreted.
type Unit uint8

const (
	UnitAuto    Unit = iota // Resolved by context: free space for margins, content for sizes
	UnitLength              // Absolute length in layout units
	UnitPercent             // Fraction of the containing block (0.5 = 50%)
)

// Dimension is a length that may be fixed, relative to the containing block,
// or left to the algorithm.
type Dimension struct {
	Value float64
	Unit  Unit
}

// Auto returns a Dimension that is resolved contextually.
func Auto() Dimension { return Dimension{Unit: UnitAuto} }

// Length returns an absolute Dimension.
func Length(v float64) Dimension { return Dimension{Value: v, Unit: UnitLength} }

// Percent returns a Dimension relative to the containing block.
// The value is a fraction: 0.5 means 50%.
func Percent(fraction float64) Dimension { return Dimension{Value: fraction, Unit: UnitPercent} }

// Zero returns a zero length.
func Zero() Dimension { return Length(0) }

// IsAuto reports whether d is auto.
func (d Dimension) IsAuto() bool { return d.Unit == UnitAuto }

// Resolve returns the used value of d against the containing block size.
// Auto resolves to absent, as does a percentage of an absent size.
func (d Dimension) Resolve(context float64) float64 {
	switch d.Unit {
	case UnitLength:
		return d.Value
	case UnitPercent:
		if math.IsNaN(context) {
			return math.NaN()
		}
		return context * d.Value
	default:
		return math.NaN()
	}
}

// ResolveOrZero is Resolve with absent values collapsed to zero.
func (d Dimension) ResolveOrZero(context float64) float64 {
	return geom.Or(d.Resolve(context), 0)
}

// UsesPercentage reports whether d depends on the containing block.
func (d Dimension) UsesPercentage() bool { return d.Unit == UnitPercent }

func (d Dimension) String() string {
	switch d.Unit {
	case UnitLength:
		return strconv.FormatFloat(d.Value, 'f', -1, 64) + "px"
	case UnitPercent:
		return strconv.FormatFloat(d.Value*100, 'f', -1, 64) + "%"
	default:
		return "auto"
	}
}

// GoString keeps %#v output readable in test failures.
func (d Dimension) GoString() string { return fmt.Sprintf("style.Dimension(%s)", d.String()) }

// ResolveSize resolves both components of s against the parent size.
func ResolveSize(s geom.Size[Dimension], parent geom.Size[float64]) geom.Size[float64] {
	return geom.Size[float64]{Width: s.Width.Resolve(parent.Width), Height: s.Height.Resolve(parent.Height)}
}

// ResolveRectOrZero resolves every edge against the containing block width,
// which is the CSS rule for padding, border and margin on both axes.
func ResolveRectOrZero(r geom.Rect[Dimension], containingWidth float64) geom.Rect[float64] {
	return geom.Rect[float64]{
		Left:   r.Left.ResolveOrZero(containingWidth),
		Right:  r.Right.ResolveOrZero(containingWidth),
		Top:    r.Top.ResolveOrZero(containingWidth),
		Bottom: r.Bottom.ResolveOrZero(containingWidth),
	}
}

// ResolveRect resolves every edge, keeping auto edges absent.
func ResolveRect(r geom.Rect[Dimension], containingWidth float64) geom.Rect[float64] {
	return geom.Rect[float64]{
		Left:   r.Left.Resolve(containingWidth),
		Right:  r.Right.Resolve(containingWidth),
		Top:    r.Top.Resolve(containingWidth),
		Bottom: r.Bottom.Resolve(containingWidth),
	}
}

// ResolveInset resolves inset edges against their own axis of the containing block.
func ResolveInset(r geom.Rect[Dimension], cb geom.Size[float64]) geom.Rect[float64] {
	return geom.Rect[float64]{
		Left:   r.Left.Resolve(cb.Width),
		Right:  r.Right.Resolve(cb.Width),
		Top:    r.Top.Resolve(cb.Height),
		Bottom: r.Bottom.Resolve(cb.Height),
	}
}

// UniformRect returns a Rect with d on every edge.
func UniformRect(d Dimension) geom.Rect[Dimension] { return geom.Uniform(d) }

// SizeOf is shorthand for a Size of two dimensions.
func SizeOf(width, height Dimension) geom.Size[Dimension] {
	return geom.Size[Dimension]{Width: width, Height: height}
}

// AutoSize returns a Size with both components auto.
func AutoSize() geom.Size[Dimension] { return SizeOf(Auto(), Auto()) }
