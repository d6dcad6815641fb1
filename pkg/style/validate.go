package style

import (
	"fmt"
	"math"

	"go.uber.org/multierr"

	"github.com/xkilldash9x/boxflow/pkg/geom"
)

// Validate reports every value the layout algorithms cannot honour.
// The engine never rejects a style on its own; callers that build styles from
// untrusted input run Validate first.
func (s *Style) Validate() error {
	var err error

	if s.FlexGrow < 0 || math.IsNaN(s.FlexGrow) {
		err = multierr.Append(err, fmt.Errorf("flex_grow must be a non-negative number, got %v", s.FlexGrow))
	}
	if s.FlexShrink < 0 || math.IsNaN(s.FlexShrink) {
		err = multierr.Append(err, fmt.Errorf("flex_shrink must be a non-negative number, got %v", s.FlexShrink))
	}
	if s.AspectRatio < 0 || math.IsNaN(s.AspectRatio) || math.IsInf(s.AspectRatio, 0) {
		err = multierr.Append(err, fmt.Errorf("aspect_ratio must be positive or zero for none, got %v", s.AspectRatio))
	}
	if s.ScrollbarWidth < 0 {
		err = multierr.Append(err, fmt.Errorf("scrollbar_width must be non-negative, got %v", s.ScrollbarWidth))
	}

	err = multierr.Append(err, validateEdges("padding", s.Padding))
	err = multierr.Append(err, validateEdges("border", s.Border))
	err = multierr.Append(err, validateNonNegative("gap.width", s.Gap.Width))
	err = multierr.Append(err, validateNonNegative("gap.height", s.Gap.Height))

	for _, axis := range []geom.Axis{geom.Horizontal, geom.Vertical} {
		name := "grid_template_columns"
		if axis == geom.Vertical {
			name = "grid_template_rows"
		}
		err = multierr.Append(err, validateTemplate(name, s.GridTemplate(axis)))
		for i, t := range s.GridAuto(axis) {
			if t.IsFlexible() && t.Max.Flex < 0 {
				err = multierr.Append(err, fmt.Errorf("grid_auto track %d: negative flex factor", i))
			}
		}
		err = multierr.Append(err, validatePlacement(axis, s.GridPlacementFor(axis)))
	}

	for _, a := range s.GridTemplateAreas {
		if a.Name == "" {
			err = multierr.Append(err, fmt.Errorf("grid_template_areas: empty area name"))
		}
		if a.RowEnd <= a.RowStart || a.ColumnEnd <= a.ColumnStart || a.RowStart < 1 || a.ColumnStart < 1 {
			err = multierr.Append(err, fmt.Errorf("grid_template_areas %q: invalid bounds", a.Name))
		}
	}
	return err
}

func validateEdges(name string, r geom.Rect[Dimension]) error {
	return multierr.Combine(
		validateNonNegative(name+".left", r.Left),
		validateNonNegative(name+".right", r.Right),
		validateNonNegative(name+".top", r.Top),
		validateNonNegative(name+".bottom", r.Bottom),
	)
}

func validateNonNegative(name string, d Dimension) error {
	if d.Unit != UnitAuto && d.Value < 0 {
		return fmt.Errorf("%s must be non-negative, got %s", name, d)
	}
	return nil
}

func validateTemplate(name string, template []TrackSizingFunction) error {
	var err error
	autoRepeats := 0
	for i, f := range template {
		if len(f.Tracks) == 0 {
			err = multierr.Append(err, fmt.Errorf("%s[%d]: empty track list", name, i))
			continue
		}
		switch f.Repeat {
		case RepetitionCount:
			if f.Count < 1 {
				err = multierr.Append(err, fmt.Errorf("%s[%d]: repeat count must be at least 1", name, i))
			}
		case RepetitionAutoFill, RepetitionAutoFit:
			autoRepeats++
			for _, t := range f.Tracks {
				if !t.HasFixedComponent() {
					err = multierr.Append(err, fmt.Errorf("%s[%d]: auto repetition requires tracks with a definite size", name, i))
					break
				}
			}
		}
		for _, t := range f.Tracks {
			if t.IsFlexible() && t.Max.Flex < 0 {
				err = multierr.Append(err, fmt.Errorf("%s[%d]: negative flex factor", name, i))
			}
		}
	}
	if autoRepeats > 1 {
		err = multierr.Append(err, fmt.Errorf("%s: at most one auto repetition is allowed", name))
	}
	return err
}

func validatePlacement(axis geom.Axis, l geom.Line[GridPlacement]) error {
	var err error
	for _, p := range []GridPlacement{l.Start, l.End} {
		switch p.Kind {
		case PlaceLine:
			if p.Value == 0 {
				err = multierr.Append(err, fmt.Errorf("%s placement: line 0 does not exist", axis))
			}
		case PlaceSpan:
			if p.Value < 1 {
				err = multierr.Append(err, fmt.Errorf("%s placement: span must be at least 1", axis))
			}
		}
	}
	return err
}
