package scenario

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/multierr"

	"github.com/xkilldash9x/boxflow/api/schemas"
	"github.com/xkilldash9x/boxflow/pkg/geom"
	"github.com/xkilldash9x/boxflow/pkg/layout"
	"github.com/xkilldash9x/boxflow/pkg/style"
)

// ErrInvalidValue is wrapped by every value that fails to parse.
var ErrInvalidValue = errors.New("invalid value")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidValue, fmt.Sprintf(format, args...))
}

// -- Lengths --

// parseNumber accepts a plain number or one with a px suffix.
func parseNumber(s string) (float64, error) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "px")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, invalid("%q is not a number", s)
	}
	return v, nil
}

// ParseDimension parses "auto", "12", "12px" or "50%".
func ParseDimension(s string) (style.Dimension, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "auto":
		return style.Auto(), nil
	case strings.HasSuffix(s, "%"):
		v, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		if err != nil {
			return style.Dimension{}, invalid("%q is not a percentage", s)
		}
		return style.Percent(v / 100), nil
	}
	v, err := parseNumber(s)
	if err != nil {
		return style.Dimension{}, err
	}
	return style.Length(v), nil
}

// parseRect expands the CSS shorthand of one to four values
// (top, right, bottom, left).
func parseRect(s string) (geom.Rect[style.Dimension], error) {
	fields := strings.Fields(s)
	vals := make([]style.Dimension, len(fields))
	for i, f := range fields {
		d, err := ParseDimension(f)
		if err != nil {
			return geom.Rect[style.Dimension]{}, err
		}
		vals[i] = d
	}
	switch len(vals) {
	case 1:
		return style.UniformRect(vals[0]), nil
	case 2:
		return geom.Rect[style.Dimension]{Top: vals[0], Bottom: vals[0], Left: vals[1], Right: vals[1]}, nil
	case 3:
		return geom.Rect[style.Dimension]{Top: vals[0], Left: vals[1], Right: vals[1], Bottom: vals[2]}, nil
	case 4:
		return geom.Rect[style.Dimension]{Top: vals[0], Right: vals[1], Bottom: vals[2], Left: vals[3]}, nil
	}
	return geom.Rect[style.Dimension]{}, invalid("%q needs one to four values", s)
}

// parseGap reads "row column" or a single value for both.
func parseGap(s string) (geom.Size[style.Dimension], error) {
	fields := strings.Fields(s)
	if len(fields) < 1 || len(fields) > 2 {
		return geom.Size[style.Dimension]{}, invalid("%q needs one or two values", s)
	}
	row, err := ParseDimension(fields[0])
	if err != nil {
		return geom.Size[style.Dimension]{}, err
	}
	col := row
	if len(fields) == 2 {
		if col, err = ParseDimension(fields[1]); err != nil {
			return geom.Size[style.Dimension]{}, err
		}
	}
	return style.SizeOf(col, row), nil
}

// ParseAvailable parses a root available space: a number, "min-content" or
// "max-content". Empty means max-content.
func ParseAvailable(s string) (layout.AvailableSpace, error) {
	switch strings.TrimSpace(s) {
	case "", "max-content":
		return layout.MaxContent(), nil
	case "min-content":
		return layout.MinContent(), nil
	}
	v, err := parseNumber(s)
	if err != nil {
		return layout.AvailableSpace{}, err
	}
	if v < 0 {
		return layout.AvailableSpace{}, invalid("available space %v is negative", v)
	}
	return layout.Definite(v), nil
}

func parseAvailableSize(a schemas.AvailableSpace) (geom.Size[layout.AvailableSpace], error) {
	w, err := ParseAvailable(a.Width)
	if err != nil {
		return geom.Size[layout.AvailableSpace]{}, fmt.Errorf("available.width: %w", err)
	}
	h, err := ParseAvailable(a.Height)
	if err != nil {
		return geom.Size[layout.AvailableSpace]{}, fmt.Errorf("available.height: %w", err)
	}
	return geom.Size[layout.AvailableSpace]{Width: w, Height: h}, nil
}

// -- Grid Tracks --

// splitTopLevel splits s on sep outside parentheses.
func splitTopLevel(s string, sep func(rune) bool) []string {
	var out []string
	depth, start := 0, -1
	for i, r := range s {
		switch {
		case r == '(':
			depth++
		case r == ')':
			depth--
		case depth == 0 && sep(r):
			if start >= 0 {
				out = append(out, s[start:i])
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		out = append(out, s[start:])
	}
	return out
}

func isSpace(r rune) bool { return r == ' ' || r == '\t' || r == '\n' }
func isComma(r rune) bool { return r == ',' }

// call splits "name(args)" into its name and argument text.
func call(tok string) (name, args string, ok bool) {
	open := strings.IndexByte(tok, '(')
	if open <= 0 || !strings.HasSuffix(tok, ")") {
		return "", "", false
	}
	return tok[:open], tok[open+1 : len(tok)-1], true
}

// ParseTrackList parses a grid template such as
// "100px repeat(2, 1fr) minmax(50px, auto) repeat(auto-fill, 80px)".
func ParseTrackList(s string) ([]style.TrackSizingFunction, error) {
	var out []style.TrackSizingFunction
	for _, tok := range splitTopLevel(s, isSpace) {
		name, args, ok := call(tok)
		if !ok || name != "repeat" {
			ts, err := ParseTrackSize(tok)
			if err != nil {
				return nil, err
			}
			out = append(out, style.Single(ts))
			continue
		}

		parts := splitTopLevel(args, isComma)
		if len(parts) != 2 {
			return nil, invalid("%q: repeat takes a count and a track list", tok)
		}
		tracks, err := ParseAutoTracks(parts[1])
		if err != nil {
			return nil, err
		}
		switch count := strings.TrimSpace(parts[0]); count {
		case "auto-fill":
			out = append(out, style.RepeatAutoFill(tracks...))
		case "auto-fit":
			out = append(out, style.RepeatAutoFit(tracks...))
		default:
			n, err := strconv.Atoi(count)
			if err != nil || n < 1 {
				return nil, invalid("%q: repeat count must be a positive integer, auto-fill or auto-fit", tok)
			}
			out = append(out, style.Repeat(n, tracks...))
		}
	}
	if len(out) == 0 {
		return nil, invalid("empty track list")
	}
	return out, nil
}

// ParseAutoTracks parses a plain list of track sizes, as used by
// grid-auto-rows and inside repeat().
func ParseAutoTracks(s string) ([]style.TrackSize, error) {
	var out []style.TrackSize
	for _, tok := range splitTopLevel(s, isSpace) {
		ts, err := ParseTrackSize(tok)
		if err != nil {
			return nil, err
		}
		out = append(out, ts)
	}
	if len(out) == 0 {
		return nil, invalid("empty track list")
	}
	return out, nil
}

// ParseTrackSize parses one track: a dimension, "auto", "min-content",
// "max-content", "1fr", "fit-content(D)" or "minmax(min, max)".
func ParseTrackSize(tok string) (style.TrackSize, error) {
	tok = strings.TrimSpace(tok)
	if name, args, ok := call(tok); ok {
		switch name {
		case "fit-content":
			d, err := ParseDimension(args)
			if err != nil {
				return style.TrackSize{}, err
			}
			return style.FitContent(d), nil
		case "minmax":
			parts := splitTopLevel(args, isComma)
			if len(parts) != 2 {
				return style.TrackSize{}, invalid("%q: minmax takes two arguments", tok)
			}
			lo, err := parseMinTrack(strings.TrimSpace(parts[0]))
			if err != nil {
				return style.TrackSize{}, err
			}
			hi, err := parseMaxTrack(strings.TrimSpace(parts[1]))
			if err != nil {
				return style.TrackSize{}, err
			}
			return style.MinMax(lo, hi), nil
		}
		return style.TrackSize{}, invalid("unknown track function %q", name)
	}

	switch tok {
	case "auto":
		return style.TrackAuto(), nil
	case "min-content":
		return style.TrackMinContent(), nil
	case "max-content":
		return style.TrackMaxContent(), nil
	}
	if flex, ok, err := parseFr(tok); ok {
		if err != nil {
			return style.TrackSize{}, err
		}
		return style.Fr(flex), nil
	}
	d, err := ParseDimension(tok)
	if err != nil {
		return style.TrackSize{}, err
	}
	if d.IsAuto() {
		return style.TrackAuto(), nil
	}
	return style.MinMax(style.MinFixed(d), style.MaxFixed(d)), nil
}

func parseFr(tok string) (float64, bool, error) {
	if !strings.HasSuffix(tok, "fr") {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(tok, "fr"), 64)
	if err != nil || v < 0 {
		return 0, true, invalid("%q is not a flex factor", tok)
	}
	return v, true, nil
}

func parseMinTrack(tok string) (style.MinTrackSizing, error) {
	switch tok {
	case "auto":
		return style.MinTrackSizing{Kind: style.MinTrackAuto}, nil
	case "min-content":
		return style.MinTrackSizing{Kind: style.MinTrackMinContent}, nil
	case "max-content":
		return style.MinTrackSizing{Kind: style.MinTrackMaxContent}, nil
	}
	if strings.HasSuffix(tok, "fr") {
		return style.MinTrackSizing{}, invalid("%q: a flexible size cannot be a minimum", tok)
	}
	d, err := ParseDimension(tok)
	if err != nil {
		return style.MinTrackSizing{}, err
	}
	return style.MinFixed(d), nil
}

func parseMaxTrack(tok string) (style.MaxTrackSizing, error) {
	switch tok {
	case "auto":
		return style.MaxTrackSizing{Kind: style.MaxTrackAuto}, nil
	case "min-content":
		return style.MaxTrackSizing{Kind: style.MaxTrackMinContent}, nil
	case "max-content":
		return style.MaxTrackSizing{Kind: style.MaxTrackMaxContent}, nil
	}
	if flex, ok, err := parseFr(tok); ok {
		if err != nil {
			return style.MaxTrackSizing{}, err
		}
		return style.MaxFr(flex), nil
	}
	d, err := ParseDimension(tok)
	if err != nil {
		return style.MaxTrackSizing{}, err
	}
	return style.MaxFixed(d), nil
}

// -- Grid Placement --

// ParseGridLine parses "auto", "2", "-1", "span 2" or "start / end" pairs
// of those.
func ParseGridLine(s string) (geom.Line[style.GridPlacement], error) {
	parts := strings.Split(s, "/")
	if len(parts) > 2 {
		return geom.Line[style.GridPlacement]{}, invalid("%q has more than one slash", s)
	}
	start, err := parsePlacement(parts[0])
	if err != nil {
		return geom.Line[style.GridPlacement]{}, err
	}
	end := style.PlaceAutomatically()
	if len(parts) == 2 {
		if end, err = parsePlacement(parts[1]); err != nil {
			return geom.Line[style.GridPlacement]{}, err
		}
	}
	return style.GridLines(start, end), nil
}

func parsePlacement(s string) (style.GridPlacement, error) {
	fields := strings.Fields(s)
	switch {
	case len(fields) == 1 && fields[0] == "auto":
		return style.PlaceAutomatically(), nil
	case len(fields) == 1:
		n, err := strconv.Atoi(fields[0])
		if err != nil || n == 0 {
			return style.GridPlacement{}, invalid("%q is not a non-zero line number", fields[0])
		}
		return style.PlaceAt(n), nil
	case len(fields) == 2 && fields[0] == "span":
		n, err := strconv.Atoi(fields[1])
		if err != nil || n < 1 {
			return style.GridPlacement{}, invalid("%q is not a positive span", fields[1])
		}
		return style.SpanOf(n), nil
	}
	return style.GridPlacement{}, invalid("%q is not a grid placement", strings.TrimSpace(s))
}

// ParseAreas turns grid-template-areas rows into named rectangles.
// "." marks an unnamed cell.
func ParseAreas(rows []string) ([]style.GridTemplateArea, error) {
	type bounds struct {
		rowStart, rowEnd, colStart, colEnd, cells int
	}
	var (
		order []string
		found = map[string]*bounds{}
		width = -1
	)
	for r, row := range rows {
		cells := strings.Fields(row)
		if width >= 0 && len(cells) != width {
			return nil, invalid("row %d has %d cells, want %d", r+1, len(cells), width)
		}
		width = len(cells)
		for c, name := range cells {
			if name == "." {
				continue
			}
			b, ok := found[name]
			if !ok {
				b = &bounds{rowStart: r, rowEnd: r, colStart: c, colEnd: c}
				found[name] = b
				order = append(order, name)
			}
			b.rowStart, b.rowEnd = min(b.rowStart, r), max(b.rowEnd, r)
			b.colStart, b.colEnd = min(b.colStart, c), max(b.colEnd, c)
			b.cells++
		}
	}

	out := make([]style.GridTemplateArea, 0, len(order))
	for _, name := range order {
		b := found[name]
		if (b.rowEnd-b.rowStart+1)*(b.colEnd-b.colStart+1) != b.cells {
			return nil, invalid("area %q is not a rectangle", name)
		}
		out = append(out, style.GridTemplateArea{
			Name:        name,
			RowStart:    b.rowStart + 1,
			RowEnd:      b.rowEnd + 2,
			ColumnStart: b.colStart + 1,
			ColumnEnd:   b.colEnd + 2,
		})
	}
	return out, nil
}

// -- Keywords --

var (
	displays = map[string]style.Display{
		"flex": style.DisplayFlex, "grid": style.DisplayGrid, "block": style.DisplayBlock, "none": style.DisplayNone,
	}
	boxSizings = map[string]style.BoxSizing{
		"border-box": style.BoxSizingBorderBox, "content-box": style.BoxSizingContentBox,
	}
	positions = map[string]style.Position{
		"relative": style.PositionRelative, "absolute": style.PositionAbsolute,
	}
	overflows = map[string]style.Overflow{
		"visible": style.OverflowVisible, "clip": style.OverflowClip, "hidden": style.OverflowHidden, "scroll": style.OverflowScroll,
	}
	textAligns = map[string]style.TextAlign{
		"auto": style.TextAlignAuto, "legacy-left": style.TextAlignLegacyLeft,
		"legacy-right": style.TextAlignLegacyRight, "legacy-center": style.TextAlignLegacyCenter,
	}
	alignItems = map[string]style.AlignItems{
		"auto": style.AlignAuto, "start": style.AlignStart, "end": style.AlignEnd,
		"flex-start": style.AlignFlexStart, "flex-end": style.AlignFlexEnd, "center": style.AlignCenter,
		"baseline": style.AlignBaseline, "stretch": style.AlignStretch,
	}
	alignContents = map[string]style.AlignContent{
		"normal": style.ContentNormal, "start": style.ContentStart, "end": style.ContentEnd,
		"flex-start": style.ContentFlexStart, "flex-end": style.ContentFlexEnd, "center": style.ContentCenter,
		"stretch": style.ContentStretch, "space-between": style.ContentSpaceBetween,
		"space-evenly": style.ContentSpaceEvenly, "space-around": style.ContentSpaceAround,
	}
	flexDirections = map[string]style.FlexDirection{
		"row": style.FlexDirectionRow, "column": style.FlexDirectionColumn,
		"row-reverse": style.FlexDirectionRowReverse, "column-reverse": style.FlexDirectionColumnReverse,
	}
	flexWraps = map[string]style.FlexWrap{
		"nowrap": style.FlexNoWrap, "wrap": style.FlexWrapWrap, "wrap-reverse": style.FlexWrapReverse,
	}
	autoFlows = map[string]style.GridAutoFlow{
		"row": style.GridAutoFlowRow, "column": style.GridAutoFlowColumn,
		"dense": style.GridAutoFlowRowDense, "row dense": style.GridAutoFlowRowDense,
		"column dense": style.GridAutoFlowColumnDense,
	}
)

func keyword[T any](table map[string]T, s string) (T, error) {
	v, ok := table[strings.Join(strings.Fields(strings.ToLower(s)), " ")]
	if !ok {
		var zero T
		return zero, invalid("unknown keyword %q", s)
	}
	return v, nil
}

// -- Style --

// styleParser applies string properties onto a style, collecting one error
// per bad field.
type styleParser struct {
	st  style.Style
	err error
}

func (p *styleParser) fail(field string, err error) {
	p.err = multierr.Append(p.err, fmt.Errorf("%s: %w", field, err))
}

func (p *styleParser) dim(field, v string, dst *style.Dimension) {
	if v == "" {
		return
	}
	d, err := ParseDimension(v)
	if err != nil {
		p.fail(field, err)
		return
	}
	*dst = d
}

func (p *styleParser) rect(field, v string, dst *geom.Rect[style.Dimension]) {
	if v == "" {
		return
	}
	r, err := parseRect(v)
	if err != nil {
		p.fail(field, err)
		return
	}
	*dst = r
}

func set[T any](p *styleParser, field, v string, parse func(string) (T, error), dst *T) {
	if v == "" {
		return
	}
	val, err := parse(v)
	if err != nil {
		p.fail(field, err)
		return
	}
	*dst = val
}

func enum[T any](p *styleParser, field, v string, table map[string]T, dst *T) {
	set(p, field, v, func(s string) (T, error) { return keyword(table, s) }, dst)
}

func (p *styleParser) overflow(v string) {
	if v == "" {
		return
	}
	fields := strings.Fields(v)
	if len(fields) > 2 {
		p.fail("overflow", invalid("%q needs one or two values", v))
		return
	}
	x, err := keyword(overflows, fields[0])
	if err != nil {
		p.fail("overflow", err)
		return
	}
	y := x
	if len(fields) == 2 {
		if y, err = keyword(overflows, fields[1]); err != nil {
			p.fail("overflow", err)
			return
		}
	}
	p.st.Overflow = geom.Point[style.Overflow]{X: x, Y: y}
}

// ParseStyle converts a style spec into a style, starting from the
// defaults. Every malformed field is reported.
func ParseStyle(spec schemas.StyleSpec) (style.Style, error) {
	p := &styleParser{st: style.DefaultStyle()}
	st := &p.st

	// Box model
	enum(p, "display", spec.Display, displays, &st.Display)
	enum(p, "box_sizing", spec.BoxSizing, boxSizings, &st.BoxSizing)
	enum(p, "position", spec.Position, positions, &st.Position)
	p.overflow(spec.Overflow)
	if spec.ScrollbarWidth != nil {
		st.ScrollbarWidth = *spec.ScrollbarWidth
	}
	st.ItemIsTable = spec.ItemIsTable
	p.dim("width", spec.Width, &st.Size.Width)
	p.dim("height", spec.Height, &st.Size.Height)
	p.dim("min_width", spec.MinWidth, &st.MinSize.Width)
	p.dim("min_height", spec.MinHeight, &st.MinSize.Height)
	p.dim("max_width", spec.MaxWidth, &st.MaxSize.Width)
	p.dim("max_height", spec.MaxHeight, &st.MaxSize.Height)
	if spec.AspectRatio != nil {
		st.AspectRatio = *spec.AspectRatio
	}
	p.rect("inset", spec.Inset, &st.Inset)
	p.rect("margin", spec.Margin, &st.Margin)
	p.rect("padding", spec.Padding, &st.Padding)
	p.rect("border", spec.Border, &st.Border)
	set(p, "gap", spec.Gap, parseGap, &st.Gap)

	// Alignment
	enum(p, "align_items", spec.AlignItems, alignItems, &st.AlignItems)
	enum(p, "align_self", spec.AlignSelf, alignItems, &st.AlignSelf)
	enum(p, "justify_items", spec.JustifyItems, alignItems, &st.JustifyItems)
	enum(p, "justify_self", spec.JustifySelf, alignItems, &st.JustifySelf)
	enum(p, "align_content", spec.AlignContent, alignContents, &st.AlignContent)
	enum(p, "justify_content", spec.JustifyContent, alignContents, &st.JustifyContent)
	enum(p, "text_align", spec.TextAlign, textAligns, &st.TextAlign)

	// Flexbox
	enum(p, "flex_direction", spec.FlexDirection, flexDirections, &st.FlexDirection)
	enum(p, "flex_wrap", spec.FlexWrap, flexWraps, &st.FlexWrap)
	p.dim("flex_basis", spec.FlexBasis, &st.FlexBasis)
	if spec.FlexGrow != nil {
		st.FlexGrow = *spec.FlexGrow
	}
	if spec.FlexShrink != nil {
		st.FlexShrink = *spec.FlexShrink
	}

	// Grid
	set(p, "grid_template_rows", spec.GridTemplateRows, ParseTrackList, &st.GridTemplateRows)
	set(p, "grid_template_columns", spec.GridTemplateColumns, ParseTrackList, &st.GridTemplateColumns)
	set(p, "grid_auto_rows", spec.GridAutoRows, ParseAutoTracks, &st.GridAutoRows)
	set(p, "grid_auto_columns", spec.GridAutoColumns, ParseAutoTracks, &st.GridAutoColumns)
	enum(p, "grid_auto_flow", spec.GridAutoFlow, autoFlows, &st.GridAutoFlow)
	if len(spec.GridTemplateAreas) > 0 {
		areas, err := ParseAreas(spec.GridTemplateAreas)
		if err != nil {
			p.fail("grid_template_areas", err)
		}
		st.GridTemplateAreas = areas
	}
	set(p, "grid_row", spec.GridRow, ParseGridLine, &st.GridRow)
	set(p, "grid_column", spec.GridColumn, ParseGridLine, &st.GridColumn)
	st.GridArea = strings.TrimSpace(spec.GridArea)

	if p.err != nil {
		return style.Style{}, p.err
	}
	return p.st, nil
}
