package scenario

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/xkilldash9x/boxflow/api/schemas"
	"github.com/xkilldash9x/boxflow/pkg/geom"
	"github.com/xkilldash9x/boxflow/pkg/layout"
	"github.com/xkilldash9x/boxflow/pkg/style"
)

func ptr[T any](v T) *T { return &v }

func TestParseDimension(t *testing.T) {
	tests := []struct {
		in      string
		want    style.Dimension
		wantErr bool
	}{
		{"auto", style.Auto(), false},
		{"12", style.Length(12), false},
		{"12px", style.Length(12), false},
		{" 7.5 ", style.Length(7.5), false},
		{"-4", style.Length(-4), false},
		{"50%", style.Percent(0.5), false},
		{"abc", style.Dimension{}, true},
		{"%", style.Dimension{}, true},
		{"", style.Dimension{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDimension(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidValue)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRect(t *testing.T) {
	one, two, three, four := style.Length(1), style.Length(2), style.Length(3), style.Length(4)
	tests := []struct {
		in   string
		want geom.Rect[style.Dimension]
	}{
		{"1", style.UniformRect(one)},
		{"1 2", geom.Rect[style.Dimension]{Top: one, Bottom: one, Left: two, Right: two}},
		{"1 2 3", geom.Rect[style.Dimension]{Top: one, Left: two, Right: two, Bottom: three}},
		{"1 2 3 4", geom.Rect[style.Dimension]{Top: one, Right: two, Bottom: three, Left: four}},
		{"auto 10%", geom.Rect[style.Dimension]{Top: style.Auto(), Bottom: style.Auto(), Left: style.Percent(0.1), Right: style.Percent(0.1)}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseRect(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := parseRect("1 2 3 4 5")
	assert.ErrorIs(t, err, ErrInvalidValue)
	_, err = parseRect("1 x")
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestParseGap(t *testing.T) {
	got, err := parseGap("10 20")
	require.NoError(t, err)
	assert.Equal(t, style.SizeOf(style.Length(20), style.Length(10)), got, "row gap first, column gap second")

	got, err = parseGap("5%")
	require.NoError(t, err)
	assert.Equal(t, style.SizeOf(style.Percent(0.05), style.Percent(0.05)), got)

	_, err = parseGap("1 2 3")
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestParseAvailable(t *testing.T) {
	tests := []struct {
		in   string
		want layout.AvailableSpace
	}{
		{"", layout.MaxContent()},
		{"max-content", layout.MaxContent()},
		{"min-content", layout.MinContent()},
		{"800", layout.Definite(800)},
		{"640px", layout.Definite(640)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAvailable(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseAvailable("-1")
	assert.ErrorIs(t, err, ErrInvalidValue)
	_, err = ParseAvailable("fit-content")
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestParseTrackList(t *testing.T) {
	got, err := ParseTrackList("100px repeat(2, 1fr) minmax(50px, auto) repeat(auto-fill, 80px 20%) fit-content(40px) min-content")
	require.NoError(t, err)

	want := []style.TrackSizingFunction{
		style.Single(style.TrackLength(100)),
		style.Repeat(2, style.Fr(1)),
		style.Single(style.MinMax(style.MinFixed(style.Length(50)), style.MaxTrackSizing{Kind: style.MaxTrackAuto})),
		style.RepeatAutoFill(style.TrackLength(80), style.TrackPercent(0.2)),
		style.Single(style.FitContent(style.Length(40))),
		style.Single(style.TrackMinContent()),
	}
	assert.Empty(t, cmp.Diff(want, got))

	fit, err := ParseTrackList("repeat(auto-fit, minmax(100px, 1fr))")
	require.NoError(t, err)
	require.Len(t, fit, 1)
	assert.Equal(t, style.RepetitionAutoFit, fit[0].Repeat)
	assert.Equal(t, style.MinMax(style.MinFixed(style.Length(100)), style.MaxFr(1)), fit[0].Tracks[0])

	for _, bad := range []string{"", "repeat(0, 1fr)", "repeat(2)", "repeat(x, 1fr)", "minmax(1fr, 2fr)", "minmax(10px)", "wiggle(1)", "-1fr", "tall"} {
		t.Run(bad, func(t *testing.T) {
			_, err := ParseTrackList(bad)
			assert.ErrorIs(t, err, ErrInvalidValue)
		})
	}
}

func TestParseAutoTracks(t *testing.T) {
	got, err := ParseAutoTracks("20px auto max-content")
	require.NoError(t, err)
	assert.Equal(t, []style.TrackSize{style.TrackLength(20), style.TrackAuto(), style.TrackMaxContent()}, got)
}

func TestParseGridLine(t *testing.T) {
	tests := []struct {
		in   string
		want geom.Line[style.GridPlacement]
	}{
		{"2", style.GridLines(style.PlaceAt(2), style.PlaceAutomatically())},
		{"1 / span 2", style.GridLines(style.PlaceAt(1), style.SpanOf(2))},
		{"-1", style.GridLines(style.PlaceAt(-1), style.PlaceAutomatically())},
		{"span 3 / 5", style.GridLines(style.SpanOf(3), style.PlaceAt(5))},
		{"auto / -2", style.GridLines(style.PlaceAutomatically(), style.PlaceAt(-2))},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseGridLine(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"0", "span 0", "span", "1/2/3", "first"} {
		t.Run(bad, func(t *testing.T) {
			_, err := ParseGridLine(bad)
			assert.ErrorIs(t, err, ErrInvalidValue)
		})
	}
}

func TestParseAreas(t *testing.T) {
	got, err := ParseAreas([]string{
		"header header header",
		"side   main   .",
		"side   main   .",
	})
	require.NoError(t, err)
	want := []style.GridTemplateArea{
		{Name: "header", RowStart: 1, RowEnd: 2, ColumnStart: 1, ColumnEnd: 4},
		{Name: "side", RowStart: 2, RowEnd: 4, ColumnStart: 1, ColumnEnd: 2},
		{Name: "main", RowStart: 2, RowEnd: 4, ColumnStart: 2, ColumnEnd: 3},
	}
	assert.Equal(t, want, got)

	_, err = ParseAreas([]string{"a b", "b a"})
	assert.ErrorIs(t, err, ErrInvalidValue, "areas must be rectangles")
	_, err = ParseAreas([]string{"a b", "a"})
	assert.ErrorIs(t, err, ErrInvalidValue, "rows must have equal length")
}

func TestParseStyle(t *testing.T) {
	st, err := ParseStyle(schemas.StyleSpec{
		Display:             "grid",
		Position:            "absolute",
		Overflow:            "visible scroll",
		ScrollbarWidth:      ptr(8.0),
		Width:               "50%",
		MaxHeight:           "200px",
		AspectRatio:         ptr(2.0),
		Inset:               "0 auto",
		Padding:             "4 8",
		Gap:                 "10",
		AlignItems:          "center",
		JustifyContent:      "space-between",
		TextAlign:           "legacy-center",
		FlexDirection:       "column-reverse",
		FlexWrap:            "wrap",
		FlexBasis:           "30",
		FlexGrow:            ptr(2.0),
		FlexShrink:          ptr(0.0),
		GridTemplateColumns: "1fr 2fr",
		GridAutoFlow:        "Column  Dense",
		GridTemplateAreas:   []string{"a b"},
		GridRow:             "1 / span 2",
		GridArea:            " b ",
	})
	require.NoError(t, err)

	assert.Equal(t, style.DisplayGrid, st.Display)
	assert.True(t, st.IsAbsolute())
	assert.Equal(t, geom.Point[style.Overflow]{X: style.OverflowVisible, Y: style.OverflowScroll}, st.Overflow)
	assert.Equal(t, 8.0, st.ScrollbarWidth)
	assert.Equal(t, style.Percent(0.5), st.Size.Width)
	assert.True(t, st.Size.Height.IsAuto(), "unset fields keep defaults")
	assert.Equal(t, style.Length(200), st.MaxSize.Height)
	assert.Equal(t, 2.0, st.AspectRatio)
	assert.True(t, st.Inset.Left.IsAuto())
	assert.Equal(t, style.Length(0), st.Inset.Top)
	assert.Equal(t, style.Length(8), st.Padding.Right)
	assert.Equal(t, style.SizeOf(style.Length(10), style.Length(10)), st.Gap)
	assert.Equal(t, style.AlignCenter, st.AlignItems)
	assert.Equal(t, style.ContentSpaceBetween, st.JustifyContent)
	assert.Equal(t, style.TextAlignLegacyCenter, st.TextAlign)
	assert.Equal(t, style.FlexDirectionColumnReverse, st.FlexDirection)
	assert.Equal(t, style.FlexWrapWrap, st.FlexWrap)
	assert.Equal(t, style.Length(30), st.FlexBasis)
	assert.Equal(t, 2.0, st.FlexGrow)
	assert.Equal(t, 0.0, st.FlexShrink)
	assert.Len(t, st.GridTemplateColumns, 2)
	assert.Equal(t, style.GridAutoFlowColumnDense, st.GridAutoFlow)
	assert.Len(t, st.GridTemplateAreas, 2)
	assert.Equal(t, style.SpanOf(2), st.GridRow.End)
	assert.Equal(t, "b", st.GridArea)
}

func TestParseStyleDefaults(t *testing.T) {
	st, err := ParseStyle(schemas.StyleSpec{})
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(style.DefaultStyle(), st))
}

func TestParseStyleReportsEveryField(t *testing.T) {
	_, err := ParseStyle(schemas.StyleSpec{
		Display:          "inline",
		Width:            "wide",
		Overflow:         "auto",
		GridTemplateRows: "repeat(0, 1fr)",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidValue)
	assert.Len(t, multierr.Errors(err), 4)
	for _, field := range []string{"display", "width", "overflow", "grid_template_rows"} {
		assert.Contains(t, err.Error(), field+":")
	}
}
