// File: pkg/style/grid.go
package style

import (
	"fmt"

	"github.com/xkilldash9x/boxflow/pkg/geom"
)

// -- Track Sizing Functions --

// MinTrackKind enumerates the forms a track's minimum sizing function can take.
type MinTrackKind uint8

const (
	MinTrackAuto MinTrackKind = iota
	MinTrackFixed
	MinTrackMinContent
	MinTrackMaxContent
)

// MinTrackSizing is the lower half of minmax().
type MinTrackSizing struct {
	Kind  MinTrackKind
	Value Dimension // Used by MinTrackFixed
}

// MaxTrackKind enumerates the forms a track's maximum sizing function can take.
type MaxTrackKind uint8

const (
	MaxTrackAuto MaxTrackKind = iota
	MaxTrackFixed
	MaxTrackMinContent
	MaxTrackMaxContent
	MaxTrackFitContent
	MaxTrackFraction
)

// MaxTrackSizing is the upper half of minmax().
type MaxTrackSizing struct {
	Kind  MaxTrackKind
	Value Dimension // Used by MaxTrackFixed and MaxTrackFitContent
	Flex  float64   // Used by MaxTrackFraction
}

// IsIntrinsic reports whether the maximum depends on item content.
func (m MaxTrackSizing) IsIntrinsic() bool {
	switch m.Kind {
	case MaxTrackAuto, MaxTrackMinContent, MaxTrackMaxContent, MaxTrackFitContent:
		return true
	}
	return false
}

// IsIntrinsic reports whether the minimum depends on item content.
func (m MinTrackSizing) IsIntrinsic() bool {
	return m.Kind != MinTrackFixed
}

// TrackSize is a single (non-repeated) track sizing function.
type TrackSize struct {
	Min MinTrackSizing
	Max MaxTrackSizing
}

// IsFlexible reports whether the track takes a share of leftover space.
func (t TrackSize) IsFlexible() bool { return t.Max.Kind == MaxTrackFraction }

// HasFixedComponent reports whether either bound is a definite length,
// which is the requirement for tracks inside an auto-repeat.
func (t TrackSize) HasFixedComponent() bool {
	return t.Min.Kind == MinTrackFixed || t.Max.Kind == MaxTrackFixed
}

func (t TrackSize) String() string {
	if t.Min.Kind == MinTrackFixed && t.Max.Kind == MaxTrackFixed && t.Min.Value == t.Max.Value {
		return t.Min.Value.String()
	}
	if t.Min.Kind == MinTrackAuto && t.Max.Kind == MaxTrackFraction {
		return fmt.Sprintf("%gfr", t.Max.Flex)
	}
	if t.Min.Kind == MinTrackAuto && t.Max.Kind == MaxTrackAuto {
		return "auto"
	}
	return fmt.Sprintf("minmax(%v, %v)", t.Min, t.Max)
}

// TrackLength is a fixed-size track.
func TrackLength(v float64) TrackSize {
	d := Length(v)
	return TrackSize{Min: MinTrackSizing{Kind: MinTrackFixed, Value: d}, Max: MaxTrackSizing{Kind: MaxTrackFixed, Value: d}}
}

// TrackPercent is a track sized as a fraction of the grid container.
func TrackPercent(fraction float64) TrackSize {
	d := Percent(fraction)
	return TrackSize{Min: MinTrackSizing{Kind: MinTrackFixed, Value: d}, Max: MaxTrackSizing{Kind: MaxTrackFixed, Value: d}}
}

// Fr is a flexible track: minmax(auto, <flex>fr).
func Fr(flex float64) TrackSize {
	return TrackSize{Min: MinTrackSizing{Kind: MinTrackAuto}, Max: MaxTrackSizing{Kind: MaxTrackFraction, Flex: flex}}
}

// TrackAuto is an auto-sized track.
func TrackAuto() TrackSize {
	return TrackSize{Min: MinTrackSizing{Kind: MinTrackAuto}, Max: MaxTrackSizing{Kind: MaxTrackAuto}}
}

// TrackMinContent sizes the track to its items' min-content contributions.
func TrackMinContent() TrackSize {
	return TrackSize{Min: MinTrackSizing{Kind: MinTrackMinContent}, Max: MaxTrackSizing{Kind: MaxTrackMinContent}}
}

// TrackMaxContent sizes the track to its items' max-content contributions.
func TrackMaxContent() TrackSize {
	return TrackSize{Min: MinTrackSizing{Kind: MinTrackMaxContent}, Max: MaxTrackSizing{Kind: MaxTrackMaxContent}}
}

// FitContent is fit-content(limit).
func FitContent(limit Dimension) TrackSize {
	return TrackSize{Min: MinTrackSizing{Kind: MinTrackAuto}, Max: MaxTrackSizing{Kind: MaxTrackFitContent, Value: limit}}
}

// MinMax builds minmax(min, max).
func MinMax(min MinTrackSizing, max MaxTrackSizing) TrackSize {
	return TrackSize{Min: min, Max: max}
}

// MinFixed is a definite minimum for MinMax.
func MinFixed(d Dimension) MinTrackSizing { return MinTrackSizing{Kind: MinTrackFixed, Value: d} }

// MaxFixed is a definite maximum for MinMax.
func MaxFixed(d Dimension) MaxTrackSizing { return MaxTrackSizing{Kind: MaxTrackFixed, Value: d} }

// MaxFr is a flexible maximum for MinMax.
func MaxFr(flex float64) MaxTrackSizing { return MaxTrackSizing{Kind: MaxTrackFraction, Flex: flex} }

// -- Repetition --

// RepetitionKind distinguishes single tracks from repeat() forms.
type RepetitionKind uint8

const (
	RepetitionNone RepetitionKind = iota // A single track
	RepetitionCount
	RepetitionAutoFill
	RepetitionAutoFit
)

// TrackSizingFunction is one entry of grid-template-rows/columns: either a
// single track or a repeat() of a track list.
type TrackSizingFunction struct {
	Repeat RepetitionKind
	Count  int // Used by RepetitionCount
	Tracks []TrackSize
}

// Single wraps a track as a template entry.
func Single(t TrackSize) TrackSizingFunction {
	return TrackSizingFunction{Repeat: RepetitionNone, Tracks: []TrackSize{t}}
}

// Repeat is repeat(count, tracks...).
func Repeat(count int, tracks ...TrackSize) TrackSizingFunction {
	return TrackSizingFunction{Repeat: RepetitionCount, Count: count, Tracks: tracks}
}

// RepeatAutoFill is repeat(auto-fill, tracks...).
func RepeatAutoFill(tracks ...TrackSize) TrackSizingFunction {
	return TrackSizingFunction{Repeat: RepetitionAutoFill, Tracks: tracks}
}

// RepeatAutoFit is repeat(auto-fit, tracks...).
func RepeatAutoFit(tracks ...TrackSize) TrackSizingFunction {
	return TrackSizingFunction{Repeat: RepetitionAutoFit, Tracks: tracks}
}

// IsAutoRepetition reports whether the repetition count depends on container size.
func (f TrackSizingFunction) IsAutoRepetition() bool {
	return f.Repeat == RepetitionAutoFill || f.Repeat == RepetitionAutoFit
}

// Tracks is a convenience for building a template out of single tracks.
func Tracks(ts ...TrackSize) []TrackSizingFunction {
	out := make([]TrackSizingFunction, len(ts))
	for i, t := range ts {
		out[i] = Single(t)
	}
	return out
}

// -- Placement --

// GridAutoFlow controls the auto-placement algorithm.
type GridAutoFlow uint8

const (
	GridAutoFlowRow GridAutoFlow = iota
	GridAutoFlowColumn
	GridAutoFlowRowDense
	GridAutoFlowColumnDense
)

// IsDense reports whether the placement cursor restarts for every item.
func (f GridAutoFlow) IsDense() bool {
	return f == GridAutoFlowRowDense || f == GridAutoFlowColumnDense
}

// PrimaryAxis is the axis along which the auto-placement cursor advances first.
func (f GridAutoFlow) PrimaryAxis() geom.Axis {
	if f == GridAutoFlowColumn || f == GridAutoFlowColumnDense {
		return geom.Vertical
	}
	return geom.Horizontal
}

// PlacementKind enumerates grid-row/grid-column start and end values.
type PlacementKind uint8

const (
	PlaceAuto PlacementKind = iota
	PlaceLine
	PlaceSpan
)

// GridPlacement is one end of an item's grid-row or grid-column.
type GridPlacement struct {
	Kind  PlacementKind
	Value int // Line number (non-zero, negative counts from the end) or span count
}

// PlaceAt places an item edge on a grid line.
func PlaceAt(line int) GridPlacement { return GridPlacement{Kind: PlaceLine, Value: line} }

// SpanOf spans an item over n tracks.
func SpanOf(n int) GridPlacement { return GridPlacement{Kind: PlaceSpan, Value: n} }

// PlaceAutomatically leaves an item edge to auto-placement.
func PlaceAutomatically() GridPlacement { return GridPlacement{Kind: PlaceAuto} }

// GridLines builds a Line of placements.
func GridLines(start, end GridPlacement) geom.Line[GridPlacement] {
	return geom.Line[GridPlacement]{Start: start, End: end}
}

// GridTemplateArea names a rectangle of the explicit grid by its bounding lines.
// Lines are 1-based and End is exclusive, matching grid-template-areas semantics.
type GridTemplateArea struct {
	Name        string
	RowStart    int
	RowEnd      int
	ColumnStart int
	ColumnEnd   int
}

// FindArea looks up a named template area.
func (s *Style) FindArea(name string) (GridTemplateArea, bool) {
	for _, a := range s.GridTemplateAreas {
		if a.Name == name {
			return a, true
		}
	}
	return GridTemplateArea{}, false
}

// GridTemplate returns the explicit template along an axis; columns run
// horizontally and rows vertically.
func (s *Style) GridTemplate(a geom.Axis) []TrackSizingFunction {
	if a == geom.Horizontal {
		return s.GridTemplateColumns
	}
	return s.GridTemplateRows
}

// GridAuto returns the implicit track sizes along an axis.
func (s *Style) GridAuto(a geom.Axis) []TrackSize {
	if a == geom.Horizontal {
		return s.GridAutoColumns
	}
	return s.GridAutoRows
}

// GridPlacementFor returns the item's placement along an axis.
func (s *Style) GridPlacementFor(a geom.Axis) geom.Line[GridPlacement] {
	if a == geom.Horizontal {
		return s.GridColumn
	}
	return s.GridRow
}
