package measure

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/xkilldash9x/boxflow/pkg/geom"
	"github.com/xkilldash9x/boxflow/pkg/layout"
	"github.com/xkilldash9x/boxflow/pkg/style"
)

func space(w layout.AvailableSpace) geom.Size[layout.AvailableSpace] {
	return geom.Size[layout.AvailableSpace]{Width: w, Height: layout.MaxContent()}
}

func TestTerminalText(t *testing.T) {
	text := TerminalText{Content: "the quick brown fox"}
	tests := []struct {
		name      string
		known     geom.Size[float64]
		available layout.AvailableSpace
		want      geom.Size[float64]
	}{
		{"max content is one line", geom.NoneSize(), layout.MaxContent(), geom.Size[float64]{Width: 19, Height: 1}},
		{"min content is the longest word", geom.NoneSize(), layout.MinContent(), geom.Size[float64]{Width: 5, Height: 4}},
		{"wraps to definite space", geom.NoneSize(), layout.Definite(10), geom.Size[float64]{Width: 9, Height: 2}},
		{"known width wins", geom.Size[float64]{Width: 12, Height: math.NaN()}, layout.MaxContent(), geom.Size[float64]{Width: 12, Height: 2}},
		{"known size short-circuits", geom.Size[float64]{Width: 3, Height: 3}, layout.MaxContent(), geom.Size[float64]{Width: 3, Height: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := text.Measure(tt.known, space(tt.available))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTerminalTextNewlinesAndEmpty(t *testing.T) {
	got, err := TerminalText{Content: "ab\ncdef"}.Measure(geom.NoneSize(), space(layout.MaxContent()))
	require.NoError(t, err)
	assert.Equal(t, geom.Size[float64]{Width: 4, Height: 2}, got)

	got, err = TerminalText{}.Measure(geom.NoneSize(), space(layout.MaxContent()))
	require.NoError(t, err)
	assert.Equal(t, geom.ZeroSize(), got)
}

func TestCellWidth(t *testing.T) {
	assert.Equal(t, 5.0, CellWidth("hello"))
	assert.Equal(t, 4.0, CellWidth("日本"), "wide runes take two cells")
	assert.Equal(t, 3.0, CellWidth("ｈa"), "fullwidth latin is wide")
	assert.Equal(t, 0.0, CellWidth("\t"))
}

func TestFontText(t *testing.T) {
	face, err := NewGoFace(16)
	require.NoError(t, err)
	defer face.Close()

	one, err := FontText{Content: "layout", Face: face}.Measure(geom.NoneSize(), space(layout.MaxContent()))
	require.NoError(t, err)
	assert.Positive(t, one.Width)
	assert.Positive(t, one.Height)

	two, err := FontText{Content: "layout layout", Face: face}.Measure(geom.NoneSize(), space(layout.MaxContent()))
	require.NoError(t, err)
	assert.Greater(t, two.Width, 2*one.Width, "a space separates the words")
	assert.Equal(t, one.Height, two.Height)

	wrapped, err := FontText{Content: "layout layout", Face: face}.Measure(geom.NoneSize(), space(layout.MinContent()))
	require.NoError(t, err)
	assert.InDelta(t, one.Width, wrapped.Width, 1e-9)
	assert.InDelta(t, 2*one.Height, wrapped.Height, 1e-9)

	_, err = FontText{Content: "x"}.Measure(geom.NoneSize(), space(layout.MaxContent()))
	assert.Error(t, err)
}

func TestFixed(t *testing.T) {
	img := Fixed{Width: 200, Height: 100}
	got, err := img.Measure(geom.NoneSize(), space(layout.MaxContent()))
	require.NoError(t, err)
	assert.Equal(t, geom.Size[float64]{Width: 200, Height: 100}, got)

	got, err = img.Measure(geom.Size[float64]{Width: 50, Height: math.NaN()}, space(layout.MaxContent()))
	require.NoError(t, err)
	assert.Equal(t, geom.Size[float64]{Width: 50, Height: 25}, got)

	got, err = img.Measure(geom.Size[float64]{Width: math.NaN(), Height: 10}, space(layout.MaxContent()))
	require.NoError(t, err)
	assert.Equal(t, geom.Size[float64]{Width: 20, Height: 10}, got)
}

func TestFuncDispatch(t *testing.T) {
	tree := layout.New(layout.WithLogger(zaptest.NewLogger(t)))
	label := tree.NewLeafWithContext(style.DefaultStyle(), TerminalText{Content: "hello world"})
	icon := tree.NewLeafWithContext(style.DefaultStyle(), Fixed{Width: 2, Height: 1})
	empty := tree.NewLeaf(style.DefaultStyle())

	rootStyle := style.DefaultStyle()
	rootStyle.Size.Width = style.Length(20)
	root, err := tree.NewWithChildren(rootStyle, icon, label, empty)
	require.NoError(t, err)
	require.NoError(t, tree.ComputeLayoutWithMeasure(root, layout.MaxContentSize(), Func()))

	l, err := tree.Layout(label)
	require.NoError(t, err)
	assert.Equal(t, geom.Size[float64]{Width: 11, Height: 1}, l.Size)
	assert.Equal(t, 2.0, l.Location.X)

	bad := tree.NewLeafWithContext(style.DefaultStyle(), 42)
	require.NoError(t, tree.AddChild(root, bad))
	err = tree.ComputeLayoutWithMeasure(root, layout.MaxContentSize(), Func())
	assert.ErrorIs(t, err, ErrUnsupportedContext)
	assert.ErrorIs(t, err, layout.ErrMeasurementFailed)
}
