// File: pkg/style/style.go
package style

import (
	"github.com/xkilldash9x/boxflow/pkg/geom"
)

// -- Box Model Enums --

// Display selects the layout algorithm used for a node's children.
type Display uint8

const (
	DisplayFlex Display = iota
	DisplayGrid
	DisplayBlock
	DisplayNone // Node and subtree are hidden and take no space
)

func (d Display) String() string {
	switch d {
	case DisplayFlex:
		return "flex"
	case DisplayGrid:
		return "grid"
	case DisplayBlock:
		return "block"
	default:
		return "none"
	}
}

// BoxSizing controls which box Size, MinSize and MaxSize apply to.
type BoxSizing uint8

const (
	BoxSizingBorderBox BoxSizing = iota
	BoxSizingContentBox
)

// Position selects whether a node takes part in its parent's flow.
type Position uint8

const (
	PositionRelative Position = iota
	PositionAbsolute
)

// Overflow controls how content that exceeds the box is treated.
type Overflow uint8

const (
	OverflowVisible Overflow = iota
	OverflowClip
	OverflowHidden
	OverflowScroll
)

// IsScrollContainer reports whether the overflow value makes the box a scroll container.
// Scroll containers have an automatic minimum size of zero.
func (o Overflow) IsScrollContainer() bool {
	return o == OverflowHidden || o == OverflowScroll
}

// TextAlign carries the legacy alignment keywords that affect block children.
type TextAlign uint8

const (
	TextAlignAuto TextAlign = iota
	TextAlignLegacyLeft
	TextAlignLegacyRight
	TextAlignLegacyCenter
)

// -- Flexbox Enums --

// FlexDirection sets the main axis of a flex container.
type FlexDirection uint8

const (
	FlexDirectionRow FlexDirection = iota
	FlexDirectionColumn
	FlexDirectionRowReverse
	FlexDirectionColumnReverse
)

// IsRow reports whether the main axis is horizontal.
func (d FlexDirection) IsRow() bool {
	return d == FlexDirectionRow || d == FlexDirectionRowReverse
}

// IsReverse reports whether items run from end to start.
func (d FlexDirection) IsReverse() bool {
	return d == FlexDirectionRowReverse || d == FlexDirectionColumnReverse
}

// MainAxis returns the absolute main axis.
func (d FlexDirection) MainAxis() geom.Axis {
	if d.IsRow() {
		return geom.Horizontal
	}
	return geom.Vertical
}

// CrossAxis returns the absolute cross axis.
func (d FlexDirection) CrossAxis() geom.Axis {
	return d.MainAxis().Other()
}

// FlexWrap controls whether items may break onto multiple lines.
type FlexWrap uint8

const (
	FlexNoWrap FlexWrap = iota
	FlexWrapWrap
	FlexWrapReverse
)

// -- Alignment Enums --

// AlignItems is used for align-items, justify-items, align-self and justify-self.
// The zero value AlignAuto means the property is unset: containers fall back
// to their algorithm's default, items inherit from the container.
type AlignItems uint8

const (
	AlignAuto AlignItems = iota
	AlignStart
	AlignEnd
	AlignFlexStart
	AlignFlexEnd
	AlignCenter
	AlignBaseline
	AlignStretch
)

// AlignSelf shares the AlignItems vocabulary.
type AlignSelf = AlignItems

// AlignContent is used for align-content and justify-content.
// The zero value ContentNormal means the property is unset.
type AlignContent uint8

const (
	ContentNormal AlignContent = iota
	ContentStart
	ContentEnd
	ContentFlexStart
	ContentFlexEnd
	ContentCenter
	ContentStretch
	ContentSpaceBetween
	ContentSpaceEvenly
	ContentSpaceAround
)

// JustifyContent shares the AlignContent vocabulary.
type JustifyContent = AlignContent

// -- Style --

// Style is the complete set of layout properties for one node.
// Build one with DefaultStyle and override fields; the zero value is not a
// meaningful style because FlexShrink and sizes need non-zero defaults.
type Style struct {
	// Box model
	Display        Display
	ItemIsTable    bool // Block items that size like tables (shrink-to-fit)
	BoxSizing      BoxSizing
	Overflow       geom.Point[Overflow]
	ScrollbarWidth float64
	Position       Position
	Inset          geom.Rect[Dimension]
	Size           geom.Size[Dimension]
	MinSize        geom.Size[Dimension]
	MaxSize        geom.Size[Dimension]
	AspectRatio    float64 // width / height; zero means none
	Margin         geom.Rect[Dimension]
	Padding        geom.Rect[Dimension]
	Border         geom.Rect[Dimension]

	// Alignment
	AlignItems     AlignItems
	AlignSelf      AlignSelf
	JustifyItems   AlignItems
	JustifySelf    AlignSelf
	AlignContent   AlignContent
	JustifyContent JustifyContent
	Gap            geom.Size[Dimension]
	TextAlign      TextAlign

	// Flex container and item
	FlexDirection FlexDirection
	FlexWrap      FlexWrap
	FlexBasis     Dimension
	FlexGrow      float64
	FlexShrink    float64

	// Grid container
	GridTemplateRows    []TrackSizingFunction
	GridTemplateColumns []TrackSizingFunction
	GridAutoRows        []TrackSize
	GridAutoColumns     []TrackSize
	GridAutoFlow        GridAutoFlow
	GridTemplateAreas   []GridTemplateArea

	// Grid item
	GridRow    geom.Line[GridPlacement]
	GridColumn geom.Line[GridPlacement]
	GridArea   string // Named area; overrides GridRow/GridColumn when found
}

// DefaultStyle returns the initial values of every property.
func DefaultStyle() Style {
	return Style{
		Display:        DisplayFlex,
		BoxSizing:      BoxSizingBorderBox,
		Position:       PositionRelative,
		Inset:          UniformRect(Auto()),
		Size:           AutoSize(),
		MinSize:        AutoSize(),
		MaxSize:        AutoSize(),
		Margin:         UniformRect(Zero()),
		Padding:        UniformRect(Zero()),
		Border:         UniformRect(Zero()),
		Gap:            SizeOf(Zero(), Zero()),
		FlexDirection:  FlexDirectionRow,
		FlexBasis:      Auto(),
		FlexShrink:     1,
		ScrollbarWidth: 0,
	}
}

// IsBlock reports whether the node lays out its children as a block container.
func (s *Style) IsBlock() bool { return s.Display == DisplayBlock }

// IsAbsolute reports whether the node is taken out of flow.
func (s *Style) IsAbsolute() bool { return s.Position == PositionAbsolute }

// IsScrollContainer reports whether either axis scrolls.
func (s *Style) IsScrollContainer() bool {
	return s.Overflow.X.IsScrollContainer() || s.Overflow.Y.IsScrollContainer()
}

// HasAspectRatio reports whether an aspect ratio is set.
func (s *Style) HasAspectRatio() bool { return s.AspectRatio > 0 }

// ScrollbarGutter returns the space reserved for scrollbars: a vertical
// scrollbar (overflow-y: scroll) takes width, a horizontal one takes height.
func (s *Style) ScrollbarGutter() geom.Size[float64] {
	var g geom.Size[float64]
	if s.Overflow.Y == OverflowScroll {
		g.Width = s.ScrollbarWidth
	}
	if s.Overflow.X == OverflowScroll {
		g.Height = s.ScrollbarWidth
	}
	return g
}

// Clone returns a deep copy, so that track lists are not shared between nodes.
func (s Style) Clone() Style {
	out := s
	out.GridTemplateRows = cloneTracks(s.GridTemplateRows)
	out.GridTemplateColumns = cloneTracks(s.GridTemplateColumns)
	if s.GridAutoRows != nil {
		out.GridAutoRows = append([]TrackSize(nil), s.GridAutoRows...)
	}
	if s.GridAutoColumns != nil {
		out.GridAutoColumns = append([]TrackSize(nil), s.GridAutoColumns...)
	}
	if s.GridTemplateAreas != nil {
		out.GridTemplateAreas = append([]GridTemplateArea(nil), s.GridTemplateAreas...)
	}
	return out
}

func cloneTracks(in []TrackSizingFunction) []TrackSizingFunction {
	if in == nil {
		return nil
	}
	out := make([]TrackSizingFunction, len(in))
	for i, t := range in {
		out[i] = t
		out[i].Tracks = append([]TrackSize(nil), t.Tracks...)
	}
	return out
}
