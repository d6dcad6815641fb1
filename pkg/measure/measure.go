// File: pkg/measure/measure.go
package measure

import (
	"errors"
	"fmt"
	"math"

	"github.com/xkilldash9x/boxflow/pkg/geom"
	"github.com/xkilldash9x/boxflow/pkg/layout"
	"github.com/xkilldash9x/boxflow/pkg/style"
)

// ErrUnsupportedContext is returned for node contexts the dispatcher cannot size.
var ErrUnsupportedContext = errors.New("unsupported measure context")

// Measurer is implemented by node contexts that know their own intrinsic size.
// Known holds content-box sizes already fixed by the layout (NaN where free).
type Measurer interface {
	Measure(known geom.Size[float64], available geom.Size[layout.AvailableSpace]) (geom.Size[float64], error)
}

// Fixed is a context with a constant intrinsic size, such as an image.
type Fixed geom.Size[float64]

// Measure returns the fixed size, honouring known sizes and preserving the
// aspect ratio when only one axis is known.
func (f Fixed) Measure(known geom.Size[float64], _ geom.Size[layout.AvailableSpace]) (geom.Size[float64], error) {
	w, h := f.Width, f.Height
	switch {
	case geom.IsSome(known.Width) && geom.IsNone(known.Height) && w > 0:
		return geom.Size[float64]{Width: known.Width, Height: h * known.Width / w}, nil
	case geom.IsNone(known.Width) && geom.IsSome(known.Height) && h > 0:
		return geom.Size[float64]{Width: w * known.Height / h, Height: known.Height}, nil
	}
	return geom.SizeOr(known, geom.Size[float64](f)), nil
}

// Func returns a layout.MeasureFunc that sizes each leaf from its context:
// nil contexts are empty and Measurer contexts measure themselves.
func Func() layout.MeasureFunc {
	return func(known geom.Size[float64], available geom.Size[layout.AvailableSpace], id layout.NodeID, ctx any, _ *style.Style) (geom.Size[float64], error) {
		switch c := ctx.(type) {
		case nil:
			return geom.SizeOr(known, geom.ZeroSize()), nil
		case Measurer:
			return c.Measure(known, available)
		default:
			return geom.Size[float64]{}, fmt.Errorf("%w: %T on %s", ErrUnsupportedContext, ctx, id)
		}
	}
}

// wrapLimit is the line width text may fill: the known width, then definite
// space, zero for min-content and unbounded for max-content.
func wrapLimit(known float64, available layout.AvailableSpace) float64 {
	if geom.IsSome(known) {
		return known
	}
	switch available.Kind {
	case layout.SpaceDefinite:
		return available.Value
	case layout.SpaceMinContent:
		return 0
	default:
		return math.Inf(1)
	}
}
