package layout

import (
	"bytes"
	"errors"
	"math"
	"testing"

	fuzz "github.com/AdaLogics/go-fuzz-headers"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/xkilldash9x/boxflow/pkg/geom"
	"github.com/xkilldash9x/boxflow/pkg/style"
)

// -- Helpers --

func newTestTree(t *testing.T, opts ...Option) *Tree {
	t.Helper()
	return New(append([]Option{WithLogger(zaptest.NewLogger(t))}, opts...)...)
}

func sized(w, h float64) style.Style {
	st := style.DefaultStyle()
	st.Size = style.SizeOf(style.Length(w), style.Length(h))
	return st
}

func mustNode(t *testing.T, tree *Tree, st style.Style, children ...NodeID) NodeID {
	t.Helper()
	id, err := tree.NewWithChildren(st, children...)
	require.NoError(t, err)
	return id
}

// cacheOpts compares cache entries and layout outputs, where an absent
// baseline is NaN on both sides.
var cacheOpts = []cmp.Option{cmpopts.EquateNaNs(), cmp.AllowUnexported(cacheEntry{}, cacheKey{})}

func mustLayout(t *testing.T, tree *Tree, id NodeID) Layout {
	t.Helper()
	l, err := tree.Layout(id)
	require.NoError(t, err)
	return l
}

func mustExact(t *testing.T, tree *Tree, id NodeID) Layout {
	t.Helper()
	l, err := tree.UnroundedLayout(id)
	require.NoError(t, err)
	return l
}

// collectLayouts returns every final layout under root in pre-order.
func collectLayouts(t *testing.T, tree *Tree, root NodeID) []Layout {
	t.Helper()
	out := []Layout{mustLayout(t, tree, root)}
	children, err := tree.Children(root)
	require.NoError(t, err)
	for _, c := range children {
		out = append(out, collectLayouts(t, tree, c)...)
	}
	return out
}

// textMeasure sizes leaves whose context is a geom.Size, wrapping the width
// to the available space.
func textMeasure(known geom.Size[float64], available geom.Size[AvailableSpace], _ NodeID, ctx any, _ *style.Style) (geom.Size[float64], error) {
	content, ok := ctx.(geom.Size[float64])
	if !ok {
		return geom.ZeroSize(), nil
	}
	w := content.Width
	switch available.Width.Kind {
	case SpaceMinContent:
		w = math.Min(w, 10)
	case SpaceDefinite:
		w = math.Min(w, available.Width.Value)
	}
	w = geom.Or(known.Width, w)
	h := content.Height
	if w > 0 && w < content.Width {
		h *= math.Ceil(content.Width / w)
	}
	return geom.Size[float64]{Width: w, Height: geom.Or(known.Height, h)}, nil
}

// buildMixedTree creates a tree exercising flex, grid and block together.
func buildMixedTree(t *testing.T, tree *Tree) NodeID {
	t.Helper()

	text := func(w, h float64) NodeID {
		return tree.NewLeafWithContext(style.DefaultStyle(), geom.Size[float64]{Width: w, Height: h})
	}

	gridStyle := style.DefaultStyle()
	gridStyle.Display = style.DisplayGrid
	gridStyle.GridTemplateColumns = style.Tracks(style.TrackLength(40), style.Fr(1), style.TrackAuto())
	gridStyle.Gap = style.SizeOf(style.Length(4), style.Length(4))
	grid := mustNode(t, tree, gridStyle, text(30, 12), text(90, 12), text(20, 8), text(15, 15))

	blockStyle := style.DefaultStyle()
	blockStyle.Display = style.DisplayBlock
	blockStyle.Padding = style.UniformRect(style.Length(3))
	para := style.DefaultStyle()
	para.Display = style.DisplayBlock
	para.Margin.Top = style.Length(6)
	para.Margin.Bottom = style.Length(6)
	p1 := tree.NewLeafWithContext(para, geom.Size[float64]{Width: 120, Height: 10})
	p2 := tree.NewLeafWithContext(para, geom.Size[float64]{Width: 40, Height: 10})
	block := mustNode(t, tree, blockStyle, p1, p2)

	grow := style.DefaultStyle()
	grow.FlexGrow = 1
	grow.FlexDirection = style.FlexDirectionColumn
	column := mustNode(t, tree, grow, grid, block)

	side := sized(50, 20)
	side.AlignSelf = style.AlignCenter

	rootStyle := style.DefaultStyle()
	rootStyle.Size = style.SizeOf(style.Length(333), style.Auto())
	rootStyle.Padding = style.UniformRect(style.Length(5))
	rootStyle.Gap = style.SizeOf(style.Length(7), style.Zero())
	return mustNode(t, tree, rootStyle, tree.NewLeaf(side), column)
}

// -- Test Cases --

func TestComputeLayoutDeterminism(t *testing.T) {
	tree := newTestTree(t)
	root := buildMixedTree(t, tree)

	require.NoError(t, tree.ComputeLayoutWithMeasure(root, MaxContentSize(), textMeasure))
	first := collectLayouts(t, tree, root)

	require.NoError(t, tree.ComputeLayoutWithMeasure(root, MaxContentSize(), textMeasure))
	second := collectLayouts(t, tree, root)

	assert.Empty(t, cmp.Diff(first, second), "repeated computation changed geometry")
}

func TestComputeLayoutCacheTransparency(t *testing.T) {
	spaces := []struct {
		name  string
		space geom.Size[AvailableSpace]
	}{
		{"max content", MaxContentSize()},
		{"min content", geom.Size[AvailableSpace]{Width: MinContent(), Height: MinContent()}},
		{"definite", DefiniteSize(500, 400)},
	}
	for _, tt := range spaces {
		t.Run(tt.name, func(t *testing.T) {
			cached := newTestTree(t)
			uncached := newTestTree(t, WithCacheDisabled(true))
			a := buildMixedTree(t, cached)
			b := buildMixedTree(t, uncached)

			require.NoError(t, cached.ComputeLayoutWithMeasure(a, tt.space, textMeasure))
			require.NoError(t, uncached.ComputeLayoutWithMeasure(b, tt.space, textMeasure))

			assert.Empty(t, cmp.Diff(collectLayouts(t, cached, a), collectLayouts(t, uncached, b)))
		})
	}
}

func TestComputeLayoutIdempotentCache(t *testing.T) {
	tree := newTestTree(t)
	root := buildMixedTree(t, tree)
	require.NoError(t, tree.ComputeLayoutWithMeasure(root, DefiniteSize(400, 300), textMeasure))

	before := tree.nodes[root.index].cache.clone()
	layouts := collectLayouts(t, tree, root)

	require.NoError(t, tree.ComputeLayoutWithMeasure(root, DefiniteSize(400, 300), textMeasure))
	after := tree.nodes[root.index].cache

	assert.Empty(t, cmp.Diff(before.final.output, after.final.output, cacheOpts...))
	assert.Empty(t, cmp.Diff(layouts, collectLayouts(t, tree, root)))

	dirty, err := tree.Dirty(root)
	require.NoError(t, err)
	assert.False(t, dirty)
}

func TestComputeLayoutRollsBackOnMeasureFailure(t *testing.T) {
	tree := newTestTree(t)
	leaf := tree.NewLeafWithContext(style.DefaultStyle(), geom.Size[float64]{Width: 40, Height: 10})
	sibling := tree.NewLeaf(sized(20, 20))
	root := mustNode(t, tree, sized(200, 100), sibling, leaf)

	require.NoError(t, tree.ComputeLayoutWithMeasure(root, MaxContentSize(), textMeasure))
	before := collectLayouts(t, tree, root)

	// Style change forces a recompute that reaches the failing measure.
	require.NoError(t, tree.SetStyle(root, sized(300, 100)))
	siblingCache := tree.nodes[sibling.index].cache.clone()

	boom := errors.New("font not loaded")
	failing := func(geom.Size[float64], geom.Size[AvailableSpace], NodeID, any, *style.Style) (geom.Size[float64], error) {
		return geom.Size[float64]{}, boom
	}
	err := tree.ComputeLayoutWithMeasure(root, MaxContentSize(), failing)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMeasurementFailed)
	assert.ErrorIs(t, err, boom)

	var ne *NodeError
	require.ErrorAs(t, err, &ne)
	assert.Equal(t, leaf, ne.Node)

	assert.Empty(t, cmp.Diff(before, collectLayouts(t, tree, root)), "failed run leaked partial layouts")
	assert.Equal(t, siblingCache.Len(), tree.nodes[sibling.index].cache.Len())
	assert.Empty(t, cmp.Diff(siblingCache.final, tree.nodes[sibling.index].cache.final, cacheOpts...))

	// The tree is usable again once the input is fixed.
	require.NoError(t, tree.ComputeLayoutWithMeasure(root, MaxContentSize(), textMeasure))
	assert.Equal(t, 300.0, mustLayout(t, tree, root).Size.Width)
}

func TestComputeLayoutDepthLimit(t *testing.T) {
	tree := newTestTree(t, WithMaxDepth(3))
	id := tree.NewLeaf(sized(10, 10))
	for i := 0; i < 4; i++ {
		id = mustNode(t, tree, style.DefaultStyle(), id)
	}

	err := tree.ComputeLayout(id, MaxContentSize())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDepthLimitExceeded)

	shallow := newTestTree(t, WithMaxDepth(3))
	leaf := shallow.NewLeaf(sized(10, 10))
	root := mustNode(t, shallow, style.DefaultStyle(), mustNode(t, shallow, style.DefaultStyle(), leaf))
	assert.NoError(t, shallow.ComputeLayout(root, MaxContentSize()))
}

func TestComputeLayoutRejectsReentry(t *testing.T) {
	tree := newTestTree(t)
	leaf := tree.NewLeaf(style.DefaultStyle())
	root := mustNode(t, tree, sized(100, 100), leaf)

	reenter := func(geom.Size[float64], geom.Size[AvailableSpace], NodeID, any, *style.Style) (geom.Size[float64], error) {
		return geom.ZeroSize(), tree.ComputeLayout(root, MaxContentSize())
	}
	err := tree.ComputeLayoutWithMeasure(root, MaxContentSize(), reenter)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrComputeInProgress)
	assert.ErrorIs(t, err, ErrMeasurementFailed)

	assert.NoError(t, tree.ComputeLayout(root, MaxContentSize()), "run state must be released after failure")
}

func TestComputeLayoutInvalidRoot(t *testing.T) {
	tree := newTestTree(t)
	id := tree.NewLeaf(style.DefaultStyle())
	require.NoError(t, tree.Remove(id))
	assert.ErrorIs(t, tree.ComputeLayout(id, MaxContentSize()), ErrInvalidNodeHandle)
}

func TestRounding(t *testing.T) {
	build := func(tree *Tree) (NodeID, []NodeID) {
		grow := style.DefaultStyle()
		grow.FlexGrow = 1
		grow.FlexBasis = style.Zero()
		kids := []NodeID{tree.NewLeaf(grow), tree.NewLeaf(grow), tree.NewLeaf(grow)}
		return mustNode(t, tree, sized(100, 10), kids...), kids
	}

	t.Run("snapped", func(t *testing.T) {
		tree := newTestTree(t)
		root, kids := build(tree)
		require.NoError(t, tree.ComputeLayout(root, MaxContentSize()))

		wantX := []float64{0, 33, 67}
		wantW := []float64{33, 34, 33}
		total := 0.0
		for i, k := range kids {
			l := mustLayout(t, tree, k)
			assert.Equal(t, wantX[i], l.Location.X, "child %d x", i)
			assert.Equal(t, wantW[i], l.Size.Width, "child %d width", i)
			total += l.Size.Width
		}
		assert.Equal(t, 100.0, total)
		assert.InDelta(t, 33.333, mustExact(t, tree, kids[1]).Location.X, 0.001)
	})

	t.Run("disabled", func(t *testing.T) {
		tree := newTestTree(t, WithRounding(false))
		root, kids := build(tree)
		require.NoError(t, tree.ComputeLayout(root, MaxContentSize()))
		assert.InDelta(t, 33.333, mustLayout(t, tree, kids[1]).Location.X, 0.001)
		assert.Equal(t, mustExact(t, tree, kids[2]), mustLayout(t, tree, kids[2]))
	})
}

func TestDisplayNoneSubtree(t *testing.T) {
	tree := newTestTree(t)
	hiddenStyle := sized(50, 50)
	hiddenStyle.Display = style.DisplayNone
	inner := tree.NewLeaf(sized(10, 10))
	hidden := mustNode(t, tree, hiddenStyle, inner)
	visible := tree.NewLeaf(sized(30, 30))
	root := mustNode(t, tree, sized(100, 100), hidden, visible)

	require.NoError(t, tree.ComputeLayout(root, MaxContentSize()))

	assert.Equal(t, geom.Size[float64]{}, mustLayout(t, tree, hidden).Size)
	assert.Equal(t, geom.Size[float64]{}, mustLayout(t, tree, inner).Size)
	assert.Equal(t, 1, mustLayout(t, tree, visible).Order)
	assert.Equal(t, 0.0, mustLayout(t, tree, visible).Location.X, "hidden sibling takes no space")
}

func TestLocationRelativeToContentBox(t *testing.T) {
	tree := newTestTree(t)
	grow := style.DefaultStyle()
	grow.FlexGrow = 1
	child := tree.NewLeaf(grow)
	rootStyle := sized(200, 100)
	rootStyle.Padding = style.UniformRect(style.Length(10))
	rootStyle.Border = style.UniformRect(style.Length(2))
	root := mustNode(t, tree, rootStyle, child)

	require.NoError(t, tree.ComputeLayout(root, MaxContentSize()))

	l := mustLayout(t, tree, child)
	assert.Equal(t, geom.Point[float64]{}, l.Location)
	assert.Equal(t, geom.Size[float64]{Width: 176, Height: 76}, l.Size)

	r := mustLayout(t, tree, root)
	assert.Equal(t, geom.Size[float64]{Width: 176, Height: 76}, r.ContentBoxSize())
}

func TestPrintTree(t *testing.T) {
	tree := newTestTree(t)
	gridStyle := sized(100, 100)
	gridStyle.Display = style.DisplayGrid
	leaf := tree.NewLeaf(sized(10, 10))
	grid := mustNode(t, tree, gridStyle, leaf)
	root := mustNode(t, tree, sized(200, 200), grid)
	require.NoError(t, tree.ComputeLayout(root, MaxContentSize()))

	var buf bytes.Buffer
	require.NoError(t, tree.PrintTree(root, &buf))
	out := buf.String()
	assert.Contains(t, out, "TREE")
	assert.Contains(t, out, "FLEX ROW")
	assert.Contains(t, out, "GRID")
	assert.Contains(t, out, "LEAF")
	assert.Contains(t, out, leaf.String())

	require.NoError(t, tree.Remove(leaf))
	assert.ErrorIs(t, tree.PrintTree(leaf, &buf), ErrInvalidNodeHandle)
}

// -- Fuzzing --

type fuzzNode struct {
	Parent   uint8
	Display  uint8
	Dir      uint8
	Wrap     bool
	Width    uint8
	Height   uint8
	Grow     uint8
	Shrink   uint8
	Padding  uint8
	Margin   int8
	Absolute bool
	Columns  uint8
	Ratio    uint8
	Text     uint8
}

type fuzzScenario struct {
	Nodes []fuzzNode
	Width uint16
	Mode  uint8
}

func buildFuzzTree(tree *Tree, sc fuzzScenario) NodeID {
	nodes := sc.Nodes
	if len(nodes) > 24 {
		nodes = nodes[:24]
	}
	ids := make([]NodeID, 0, len(nodes)+1)
	ids = append(ids, tree.NewLeaf(style.DefaultStyle()))
	for _, fn := range nodes {
		st := style.DefaultStyle()
		st.Display = []style.Display{style.DisplayFlex, style.DisplayGrid, style.DisplayBlock}[int(fn.Display)%3]
		st.FlexDirection = style.FlexDirection(fn.Dir % 4)
		if fn.Wrap {
			st.FlexWrap = style.FlexWrapWrap
		}
		if fn.Width%3 != 0 {
			st.Size.Width = style.Length(float64(fn.Width))
		}
		if fn.Height%3 != 0 {
			st.Size.Height = style.Length(float64(fn.Height))
		}
		st.FlexGrow = float64(fn.Grow % 4)
		st.FlexShrink = float64(fn.Shrink % 3)
		st.Padding = style.UniformRect(style.Length(float64(fn.Padding % 8)))
		st.Margin = style.UniformRect(style.Length(float64(fn.Margin % 12)))
		if fn.Absolute {
			st.Position = style.PositionAbsolute
		}
		if fn.Columns%4 != 0 {
			tracks := []style.TrackSize{style.Fr(1), style.TrackAuto(), style.TrackLength(20)}
			st.GridTemplateColumns = style.Tracks(tracks[:fn.Columns%4]...)
		}
		if fn.Ratio%5 != 0 {
			st.AspectRatio = float64(fn.Ratio%5) / 2
		}

		id := tree.NewLeafWithContext(st, geom.Size[float64]{Width: float64(fn.Text), Height: 8})
		parent := ids[int(fn.Parent)%len(ids)]
		_ = tree.AddChild(parent, id)
		ids = append(ids, id)
	}
	return ids[0]
}

func FuzzComputeLayout(f *testing.F) {
	f.Add([]byte{4, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16})
	f.Add([]byte("boxflow-seed-corpus-entry"))
	f.Fuzz(func(t *testing.T, data []byte) {
		var sc fuzzScenario
		if err := fuzz.NewConsumer(data).GenerateStruct(&sc); err != nil {
			return
		}
		spaces := []geom.Size[AvailableSpace]{
			MaxContentSize(),
			{Width: MinContent(), Height: MinContent()},
			DefiniteSize(float64(sc.Width%1000), float64(sc.Width%700)),
		}
		space := spaces[int(sc.Mode)%len(spaces)]

		cached := New()
		uncached := New(WithCacheDisabled(true))
		a := buildFuzzTree(cached, sc)
		b := buildFuzzTree(uncached, sc)

		require.NoError(t, cached.ComputeLayoutWithMeasure(a, space, textMeasure))
		require.NoError(t, uncached.ComputeLayoutWithMeasure(b, space, textMeasure))

		got := collectLayouts(t, cached, a)
		for _, l := range got {
			for _, v := range []float64{l.Location.X, l.Location.Y, l.Size.Width, l.Size.Height} {
				require.False(t, math.IsNaN(v) || math.IsInf(v, 0), "non-finite geometry %+v", l)
			}
		}
		require.Empty(t, cmp.Diff(got, collectLayouts(t, uncached, b)))

		require.NoError(t, cached.ComputeLayoutWithMeasure(a, space, textMeasure))
		require.Empty(t, cmp.Diff(got, collectLayouts(t, cached, a)))
	})
}
