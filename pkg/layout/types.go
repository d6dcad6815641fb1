// File: pkg/layout/types.go
package layout

import (
	"math"

	"github.com/xkilldash9x/boxflow/pkg/geom"
	"github.com/xkilldash9x/boxflow/pkg/style"
)

// -- Available Space --

// SpaceKind is the sizing intent for one axis of a layout request.
type SpaceKind uint8

const (
	SpaceDefinite   SpaceKind = iota // A fixed amount of space
	SpaceMinContent                  // Size to the smallest the content allows
	SpaceMaxContent                  // Size as if unconstrained
)

// AvailableSpace is the space offered to a node along one axis.
type AvailableSpace struct {
	Kind  SpaceKind
	Value float64 // Only meaningful for SpaceDefinite
}

// Definite offers a fixed amount of space.
func Definite(v float64) AvailableSpace { return AvailableSpace{Kind: SpaceDefinite, Value: v} }

// MinContent requests min-content sizing.
func MinContent() AvailableSpace { return AvailableSpace{Kind: SpaceMinContent} }

// MaxContent requests max-content sizing.
func MaxContent() AvailableSpace { return AvailableSpace{Kind: SpaceMaxContent} }

// MaxContentSize is the usual root constraint for content-sized trees.
func MaxContentSize() geom.Size[AvailableSpace] {
	return geom.Size[AvailableSpace]{Width: MaxContent(), Height: MaxContent()}
}

// DefiniteSize offers fixed space on both axes.
func DefiniteSize(width, height float64) geom.Size[AvailableSpace] {
	return geom.Size[AvailableSpace]{Width: Definite(width), Height: Definite(height)}
}

// IsDefinite reports whether the space is a fixed amount.
func (a AvailableSpace) IsDefinite() bool { return a.Kind == SpaceDefinite }

// Option returns the definite value or absent.
func (a AvailableSpace) Option() float64 {
	if a.Kind == SpaceDefinite {
		return a.Value
	}
	return math.NaN()
}

// OrElse returns the definite value or fallback.
func (a AvailableSpace) OrElse(fallback float64) float64 {
	if a.Kind == SpaceDefinite {
		return a.Value
	}
	return fallback
}

// Sub shrinks definite space by v; intrinsic modes are unchanged.
func (a AvailableSpace) Sub(v float64) AvailableSpace {
	if a.Kind == SpaceDefinite && !math.IsNaN(v) {
		return Definite(a.Value - v)
	}
	return a
}

// Min caps definite space at v and turns intrinsic space into v when v is present.
func (a AvailableSpace) Min(v float64) AvailableSpace {
	if math.IsNaN(v) {
		return a
	}
	if a.Kind == SpaceDefinite {
		return Definite(math.Min(a.Value, v))
	}
	return Definite(v)
}

// Or replaces the space with a definite value when v is present.
func (a AvailableSpace) Or(v float64) AvailableSpace {
	if math.IsNaN(v) {
		return a
	}
	return Definite(v)
}

// ComputeFreeSpace returns the space left after used, or +Inf for max-content
// and 0 for min-content.
func (a AvailableSpace) ComputeFreeSpace(used float64) float64 {
	switch a.Kind {
	case SpaceDefinite:
		return a.Value - used
	case SpaceMaxContent:
		return math.Inf(1)
	default:
		return 0
	}
}

func (a AvailableSpace) String() string {
	switch a.Kind {
	case SpaceMinContent:
		return "min-content"
	case SpaceMaxContent:
		return "max-content"
	default:
		return style.Length(a.Value).String()
	}
}

func spaceFromOptions(s geom.Size[float64]) geom.Size[AvailableSpace] {
	conv := func(v float64) AvailableSpace {
		if math.IsNaN(v) {
			return MaxContent()
		}
		return Definite(v)
	}
	return geom.Size[AvailableSpace]{Width: conv(s.Width), Height: conv(s.Height)}
}

// -- Layout Requests --

// RunMode distinguishes a measure request from a final layout.
type RunMode uint8

const (
	// RunPerformLayout computes the final position and size of every child.
	RunPerformLayout RunMode = iota
	// RunComputeSize only computes the node's own size for an ancestor.
	RunComputeSize
	// RunHidden zeroes the layout of a display:none subtree.
	RunHidden
)

// SizingMode selects whether the node's own style sizes are honoured.
type SizingMode uint8

const (
	// SizingInherent applies the node's size, min-size and max-size styles.
	SizingInherent SizingMode = iota
	// SizingContent ignores style sizes and returns the content size; used to
	// compute automatic minimum sizes.
	SizingContent
)

// layoutInput is the full description of one layout request.
type layoutInput struct {
	RunMode        RunMode
	SizingMode     SizingMode
	Known          geom.Size[float64] // Sizes already fixed by the parent (NaN = free)
	ParentSize     geom.Size[float64] // Containing block for percentages (NaN = indefinite)
	Available      geom.Size[AvailableSpace]
	VerticalMargin geom.Line[bool] // Whether top/bottom margins may collapse with the parent
}

// CollapsibleMarginSet tracks the largest positive and most negative margin
// among a run of adjoining margins.
type CollapsibleMarginSet struct {
	Positive float64
	Negative float64
}

// MarginFrom starts a set from a single margin.
func MarginFrom(m float64) CollapsibleMarginSet {
	if m >= 0 {
		return CollapsibleMarginSet{Positive: m}
	}
	return CollapsibleMarginSet{Negative: m}
}

// CollapseWithMargin adds a margin to the set.
func (s CollapsibleMarginSet) CollapseWithMargin(m float64) CollapsibleMarginSet {
	if m >= 0 {
		s.Positive = math.Max(s.Positive, m)
	} else {
		s.Negative = math.Min(s.Negative, m)
	}
	return s
}

// CollapseWithSet merges two sets.
func (s CollapsibleMarginSet) CollapseWithSet(o CollapsibleMarginSet) CollapsibleMarginSet {
	s.Positive = math.Max(s.Positive, o.Positive)
	s.Negative = math.Min(s.Negative, o.Negative)
	return s
}

// Resolve returns the collapsed margin: the largest positive plus the most negative.
func (s CollapsibleMarginSet) Resolve() float64 { return s.Positive + s.Negative }

// layoutOutput is what a layout request produces for the parent.
type layoutOutput struct {
	Size                      geom.Size[float64]
	ContentSize               geom.Size[float64]
	FirstBaselines            geom.Point[float64] // NaN when the node has no baseline
	TopMargin                 CollapsibleMarginSet
	BottomMargin              CollapsibleMarginSet
	MarginsCanCollapseThrough bool
}

func outputFromSize(size geom.Size[float64]) layoutOutput {
	return layoutOutput{
		Size:           size,
		FirstBaselines: geom.Point[float64]{X: math.NaN(), Y: math.NaN()},
	}
}

func outputFromSizes(size, content geom.Size[float64], baselines geom.Point[float64]) layoutOutput {
	return layoutOutput{Size: size, ContentSize: content, FirstBaselines: baselines}
}

// -- Final Layout --

// Layout is the computed geometry of one node.
type Layout struct {
	// Order is the paint order among siblings.
	Order int
	// Location is the top-left corner of the border box, relative to the
	// parent's content-box origin. The root is always at (0, 0).
	Location geom.Point[float64]
	// Size is the border-box size.
	Size geom.Size[float64]
	// ContentSize is the size of the node's content, which may overflow Size.
	ContentSize geom.Size[float64]
	// ScrollbarSize is the space taken by scrollbars.
	ScrollbarSize geom.Size[float64]
	Border        geom.Rect[float64]
	Padding       geom.Rect[float64]
	Margin        geom.Rect[float64]
}

// ContentBoxSize returns the size inside padding and border.
func (l Layout) ContentBoxSize() geom.Size[float64] {
	inset := geom.RectSums(geom.AddRects(l.Border, l.Padding))
	return geom.Size[float64]{
		Width:  math.Max(0, l.Size.Width-inset.Width),
		Height: math.Max(0, l.Size.Height-inset.Height),
	}
}

// MeasureFunc sizes a leaf node. Known holds sizes already fixed by the
// parent (NaN where free); available is the space offered on each axis.
// It must be a pure function of its inputs; a returned error aborts the
// layout computation.
type MeasureFunc func(known geom.Size[float64], available geom.Size[AvailableSpace], node NodeID, ctx any, st *style.Style) (geom.Size[float64], error)
