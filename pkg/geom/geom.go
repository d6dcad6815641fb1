// File: pkg/geom/geom.go
package geom

// Axis represents one of the two absolute layout directions.
type Axis uint8

const (
	// Horizontal is the x axis (width).
	Horizontal Axis = iota
	// Vertical is the y axis (height).
	Vertical
)

// Other returns the perpendicular axis.
func (a Axis) Other() Axis {
	if a == Horizontal {
		return Vertical
	}
	return Horizontal
}

func (a Axis) String() string {
	if a == Horizontal {
		return "horizontal"
	}
	return "vertical"
}

// Size is a width/height pair.
type Size[T any] struct {
	Width  T
	Height T
}

// Get is an axis-agnostic accessor.
func (s Size[T]) Get(a Axis) T {
	if a == Horizontal {
		return s.Width
	}
	return s.Height
}

// Set is an axis-agnostic setter.
func (s *Size[T]) Set(a Axis, v T) {
	if a == Horizontal {
		s.Width = v
	} else {
		s.Height = v
	}
}

// With returns a copy of s with the given axis replaced.
func (s Size[T]) With(a Axis, v T) Size[T] {
	s.Set(a, v)
	return s
}

// NewSize builds a Size from axis-relative components.
func NewSize[T any](a Axis, along, across T) Size[T] {
	if a == Horizontal {
		return Size[T]{Width: along, Height: across}
	}
	return Size[T]{Width: across, Height: along}
}

// Point is an (X, Y) pair.
type Point[T any] struct {
	X T
	Y T
}

// Get is an axis-agnostic accessor.
func (p Point[T]) Get(a Axis) T {
	if a == Horizontal {
		return p.X
	}
	return p.Y
}

// Set is an axis-agnostic setter.
func (p *Point[T]) Set(a Axis, v T) {
	if a == Horizontal {
		p.X = v
	} else {
		p.Y = v
	}
}

// Rect holds one value per edge of a box.
type Rect[T any] struct {
	Left   T
	Right  T
	Top    T
	Bottom T
}

// Uniform returns a Rect with the same value on every edge.
func Uniform[T any](v T) Rect[T] {
	return Rect[T]{Left: v, Right: v, Top: v, Bottom: v}
}

// Start returns the left edge for Horizontal and the top edge for Vertical.
func (r Rect[T]) Start(a Axis) T {
	if a == Horizontal {
		return r.Left
	}
	return r.Top
}

// End returns the right edge for Horizontal and the bottom edge for Vertical.
func (r Rect[T]) End(a Axis) T {
	if a == Horizontal {
		return r.Right
	}
	return r.Bottom
}

// SetStart is an axis-agnostic setter for the start edge.
func (r *Rect[T]) SetStart(a Axis, v T) {
	if a == Horizontal {
		r.Left = v
	} else {
		r.Top = v
	}
}

// SetEnd is an axis-agnostic setter for the end edge.
func (r *Rect[T]) SetEnd(a Axis, v T) {
	if a == Horizontal {
		r.Right = v
	} else {
		r.Bottom = v
	}
}

// Line is a start/end pair along a single axis.
type Line[T any] struct {
	Start T
	End   T
}

// MapSize applies f to both components of s.
func MapSize[T, U any](s Size[T], f func(T) U) Size[U] {
	return Size[U]{Width: f(s.Width), Height: f(s.Height)}
}

// MapRect applies f to every edge of r.
func MapRect[T, U any](r Rect[T], f func(T) U) Rect[U] {
	return Rect[U]{Left: f(r.Left), Right: f(r.Right), Top: f(r.Top), Bottom: f(r.Bottom)}
}
