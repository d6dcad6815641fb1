package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/boxflow/pkg/geom"
	"github.com/xkilldash9x/boxflow/pkg/style"
)

func gridStyle(w, h float64, cols ...style.TrackSize) style.Style {
	st := sized(w, h)
	if w == 0 {
		st.Size.Width = style.Auto()
	}
	if h == 0 {
		st.Size.Height = style.Auto()
	}
	st.Display = style.DisplayGrid
	st.GridTemplateColumns = style.Tracks(cols...)
	return st
}

func gridChildren(tree *Tree, n int, st style.Style) []NodeID {
	ids := make([]NodeID, n)
	for i := range ids {
		ids[i] = tree.NewLeaf(st)
	}
	return ids
}

func TestGridTrackSizing(t *testing.T) {
	tests := []struct {
		name  string
		cols  []style.TrackSize
		gap   float64
		wantX []float64
		wantW []float64
	}{
		{
			name:  "fractions",
			cols:  []style.TrackSize{style.Fr(1), style.Fr(2), style.Fr(1)},
			wantX: []float64{0, 75, 225},
			wantW: []float64{75, 150, 75},
		},
		{
			name:  "fixed and fraction with gap",
			cols:  []style.TrackSize{style.TrackLength(100), style.Fr(1)},
			gap:   20,
			wantX: []float64{0, 120},
			wantW: []float64{100, 180},
		},
		{
			name:  "percent",
			cols:  []style.TrackSize{style.TrackPercent(0.5), style.TrackPercent(0.25)},
			wantX: []float64{0, 150},
			wantW: []float64{150, 75},
		},
		{
			name:  "auto stretches into leftover space",
			cols:  []style.TrackSize{style.TrackLength(100), style.TrackAuto()},
			wantX: []float64{0, 100},
			wantW: []float64{100, 200},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := newTestTree(t)
			st := gridStyle(300, 50, tt.cols...)
			st.Gap = style.SizeOf(style.Length(tt.gap), style.Zero())
			kids := gridChildren(tree, len(tt.cols), style.DefaultStyle())
			root := mustNode(t, tree, st, kids...)
			require.NoError(t, tree.ComputeLayout(root, MaxContentSize()))

			for i, k := range kids {
				l := mustLayout(t, tree, k)
				assert.Equal(t, tt.wantX[i], l.Location.X, "item %d x", i)
				assert.Equal(t, tt.wantW[i], l.Size.Width, "item %d width", i)
				assert.Equal(t, 50.0, l.Size.Height, "item %d stretched", i)
			}
		})
	}
}

func TestGridExplicitPlacement(t *testing.T) {
	tests := []struct {
		name   string
		column geom.Line[style.GridPlacement]
		row    geom.Line[style.GridPlacement]
		want   Layout
	}{
		{
			name:   "positive lines",
			column: style.GridLines(style.PlaceAt(2), style.PlaceAt(4)),
			row:    style.GridLines(style.PlaceAt(2), style.PlaceAt(3)),
			want:   Layout{Location: geom.Point[float64]{X: 100, Y: 100}, Size: geom.Size[float64]{Width: 200, Height: 100}},
		},
		{
			name:   "negative lines count from the end",
			column: style.GridLines(style.PlaceAt(-2), style.PlaceAt(-1)),
			row:    style.GridLines(style.PlaceAt(1), style.PlaceAutomatically()),
			want:   Layout{Location: geom.Point[float64]{X: 200, Y: 0}, Size: geom.Size[float64]{Width: 100, Height: 100}},
		},
		{
			name:   "span from a line",
			column: style.GridLines(style.PlaceAt(1), style.SpanOf(3)),
			row:    style.GridLines(style.PlaceAt(3), style.PlaceAutomatically()),
			want:   Layout{Location: geom.Point[float64]{X: 0, Y: 200}, Size: geom.Size[float64]{Width: 300, Height: 100}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := newTestTree(t)
			st := gridStyle(300, 300, style.TrackLength(100), style.TrackLength(100), style.TrackLength(100))
			st.GridTemplateRows = style.Tracks(style.TrackLength(100), style.TrackLength(100), style.TrackLength(100))
			item := style.DefaultStyle()
			item.GridColumn = tt.column
			item.GridRow = tt.row
			child := tree.NewLeaf(item)
			root := mustNode(t, tree, st, child)
			require.NoError(t, tree.ComputeLayout(root, MaxContentSize()))

			l := mustLayout(t, tree, child)
			assert.Equal(t, tt.want.Location, l.Location)
			assert.Equal(t, tt.want.Size, l.Size)
		})
	}
}

func TestGridAutoPlacement(t *testing.T) {
	t.Run("row flow skips occupied cells", func(t *testing.T) {
		tree := newTestTree(t)
		st := gridStyle(300, 0, style.TrackLength(100), style.TrackLength(100), style.TrackLength(100))
		wide := style.DefaultStyle()
		wide.GridColumn = style.GridLines(style.SpanOf(2), style.PlaceAutomatically())
		a := tree.NewLeaf(wide)
		b := tree.NewLeaf(style.DefaultStyle())
		root := mustNode(t, tree, st, a, b)
		require.NoError(t, tree.ComputeLayout(root, MaxContentSize()))

		assert.Equal(t, 200.0, mustLayout(t, tree, a).Size.Width)
		assert.Equal(t, 200.0, mustLayout(t, tree, b).Location.X)
	})

	t.Run("column flow", func(t *testing.T) {
		tree := newTestTree(t)
		st := gridStyle(200, 200, style.TrackLength(100), style.TrackLength(100))
		st.GridTemplateRows = style.Tracks(style.TrackLength(100), style.TrackLength(100))
		st.GridAutoFlow = style.GridAutoFlowColumn
		kids := gridChildren(tree, 3, style.DefaultStyle())
		root := mustNode(t, tree, st, kids...)
		require.NoError(t, tree.ComputeLayout(root, MaxContentSize()))

		want := []geom.Point[float64]{{X: 0, Y: 0}, {X: 0, Y: 100}, {X: 100, Y: 0}}
		for i, k := range kids {
			assert.Equal(t, want[i], mustLayout(t, tree, k).Location, "item %d", i)
		}
	})

	t.Run("dense packing backfills holes", func(t *testing.T) {
		tree := newTestTree(t)
		st := gridStyle(300, 0, style.TrackLength(100), style.TrackLength(100), style.TrackLength(100))
		st.GridAutoRows = []style.TrackSize{style.TrackLength(10)}
		st.GridAutoFlow = style.GridAutoFlowRowDense
		small := style.DefaultStyle()
		wide := style.DefaultStyle()
		wide.GridColumn = style.GridLines(style.SpanOf(3), style.PlaceAutomatically())
		a := tree.NewLeaf(small)
		b := tree.NewLeaf(wide)
		c := tree.NewLeaf(small)
		root := mustNode(t, tree, st, a, b, c)
		require.NoError(t, tree.ComputeLayout(root, MaxContentSize()))

		assert.Equal(t, geom.Point[float64]{X: 0, Y: 10}, mustLayout(t, tree, b).Location)
		assert.Equal(t, geom.Point[float64]{X: 100, Y: 0}, mustLayout(t, tree, c).Location)
	})
}

func TestGridNamedArea(t *testing.T) {
	tree := newTestTree(t)
	st := gridStyle(300, 100, style.TrackLength(100), style.TrackLength(100), style.TrackLength(100))
	st.GridTemplateRows = style.Tracks(style.TrackLength(100))
	st.GridTemplateAreas = []style.GridTemplateArea{{Name: "main", RowStart: 1, RowEnd: 2, ColumnStart: 2, ColumnEnd: 4}}
	item := style.DefaultStyle()
	item.GridArea = "main"
	child := tree.NewLeaf(item)
	root := mustNode(t, tree, st, child)
	require.NoError(t, tree.ComputeLayout(root, MaxContentSize()))

	l := mustLayout(t, tree, child)
	assert.Equal(t, 100.0, l.Location.X)
	assert.Equal(t, 200.0, l.Size.Width)
}

func TestGridImplicitRows(t *testing.T) {
	tree := newTestTree(t)
	st := gridStyle(200, 0, style.TrackLength(100), style.TrackLength(100))
	st.GridAutoRows = []style.TrackSize{style.TrackLength(50)}
	kids := gridChildren(tree, 3, style.DefaultStyle())
	root := mustNode(t, tree, st, kids...)
	require.NoError(t, tree.ComputeLayout(root, MaxContentSize()))

	l := mustLayout(t, tree, kids[2])
	assert.Equal(t, geom.Point[float64]{X: 0, Y: 50}, l.Location)
	assert.Equal(t, 50.0, l.Size.Height)
	assert.Equal(t, 100.0, mustLayout(t, tree, root).Size.Height)
}

func TestGridAutoRepeat(t *testing.T) {
	t.Run("auto-fill fits as many tracks as possible", func(t *testing.T) {
		tree := newTestTree(t)
		st := gridStyle(350, 0)
		st.GridTemplateColumns = []style.TrackSizingFunction{style.RepeatAutoFill(style.TrackLength(100))}
		item := style.DefaultStyle()
		item.Size.Height = style.Length(20)
		kids := gridChildren(tree, 4, item)
		root := mustNode(t, tree, st, kids...)
		require.NoError(t, tree.ComputeLayout(root, MaxContentSize()))

		assert.Equal(t, 200.0, mustLayout(t, tree, kids[2]).Location.X)
		assert.Equal(t, geom.Point[float64]{X: 0, Y: 20}, mustLayout(t, tree, kids[3]).Location)
	})

	t.Run("auto-fit collapses empty tracks", func(t *testing.T) {
		tree := newTestTree(t)
		st := gridStyle(400, 50)
		st.GridTemplateColumns = []style.TrackSizingFunction{style.RepeatAutoFit(style.TrackLength(100))}
		st.JustifyContent = style.ContentCenter
		child := tree.NewLeaf(style.DefaultStyle())
		root := mustNode(t, tree, st, child)
		require.NoError(t, tree.ComputeLayout(root, MaxContentSize()))

		l := mustLayout(t, tree, child)
		assert.Equal(t, 150.0, l.Location.X)
		assert.Equal(t, 100.0, l.Size.Width)
	})
}

func TestGridIntrinsicColumns(t *testing.T) {
	tree := newTestTree(t)
	st := gridStyle(0, 0, style.TrackAuto(), style.TrackAuto())
	a := tree.NewLeaf(sized(30, 10))
	b := tree.NewLeaf(sized(50, 10))
	root := mustNode(t, tree, st, a, b)
	require.NoError(t, tree.ComputeLayout(root, MaxContentSize()))

	assert.Equal(t, 80.0, mustLayout(t, tree, root).Size.Width)
	assert.Equal(t, 30.0, mustLayout(t, tree, b).Location.X)
	assert.Equal(t, 10.0, mustLayout(t, tree, root).Size.Height)
}

func TestGridMeasuredRowHeight(t *testing.T) {
	tree := newTestTree(t)
	st := gridStyle(100, 0, style.TrackLength(50), style.TrackLength(50))
	short := tree.NewLeafWithContext(style.DefaultStyle(), geom.Size[float64]{Width: 40, Height: 10})
	long := tree.NewLeafWithContext(style.DefaultStyle(), geom.Size[float64]{Width: 150, Height: 10})
	root := mustNode(t, tree, st, short, long)
	require.NoError(t, tree.ComputeLayoutWithMeasure(root, MaxContentSize(), textMeasure))

	// The long text wraps to three lines in its 50px column and sets the row height.
	assert.Equal(t, 30.0, mustLayout(t, tree, long).Size.Height)
	assert.Equal(t, 30.0, mustLayout(t, tree, short).Size.Height, "row height stretches siblings")
	assert.Equal(t, 30.0, mustLayout(t, tree, root).Size.Height)
}

func TestGridItemAlignment(t *testing.T) {
	tests := []struct {
		name    string
		justify style.AlignItems
		align   style.AlignItems
		want    geom.Point[float64]
	}{
		{"start", style.AlignStart, style.AlignStart, geom.Point[float64]{X: 0, Y: 0}},
		{"center", style.AlignCenter, style.AlignCenter, geom.Point[float64]{X: 35, Y: 40}},
		{"end", style.AlignEnd, style.AlignEnd, geom.Point[float64]{X: 70, Y: 80}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := newTestTree(t)
			st := gridStyle(100, 100, style.Fr(1))
			st.GridTemplateRows = style.Tracks(style.Fr(1))
			item := sized(30, 20)
			item.JustifySelf = tt.justify
			item.AlignSelf = tt.align
			child := tree.NewLeaf(item)
			root := mustNode(t, tree, st, child)
			require.NoError(t, tree.ComputeLayout(root, MaxContentSize()))

			assert.Equal(t, tt.want, mustLayout(t, tree, child).Location)
		})
	}
}

func TestGridAbsoluteChildUsesLines(t *testing.T) {
	tree := newTestTree(t)
	st := gridStyle(300, 100, style.TrackLength(100), style.TrackLength(100), style.TrackLength(100))
	st.GridTemplateRows = style.Tracks(style.TrackLength(100))
	abs := style.DefaultStyle()
	abs.Position = style.PositionAbsolute
	abs.GridColumn = style.GridLines(style.PlaceAt(2), style.PlaceAt(3))
	abs.Inset = geom.Rect[style.Dimension]{Left: style.Zero(), Right: style.Zero(), Top: style.Zero(), Bottom: style.Zero()}
	child := tree.NewLeaf(abs)
	root := mustNode(t, tree, st, child)
	require.NoError(t, tree.ComputeLayout(root, MaxContentSize()))

	l := mustLayout(t, tree, child)
	assert.Equal(t, 100.0, l.Location.X)
	assert.Equal(t, 100.0, l.Size.Width)
	assert.Equal(t, 100.0, l.Size.Height)
}

func TestGridBaselineAlignsToStart(t *testing.T) {
	tree := newTestTree(t)
	short, tall := sized(50, 20), sized(50, 40)
	short.AlignSelf = style.AlignBaseline
	tall.AlignSelf = style.AlignBaseline
	a, b := tree.NewLeaf(short), tree.NewLeaf(tall)

	st := gridStyle(200, 100, style.TrackLength(100), style.TrackLength(100))
	st.AlignItems = style.AlignCenter
	root := mustNode(t, tree, st, a, b)
	require.NoError(t, tree.ComputeLayout(root, MaxContentSize()))

	for _, tc := range []struct {
		id NodeID
		h  float64
	}{{a, 20}, {b, 40}} {
		l := mustLayout(t, tree, tc.id)
		assert.Equal(t, 0.0, l.Location.Y, "baseline items sit at the start of their area")
		assert.Equal(t, tc.h, l.Size.Height)
	}
}
