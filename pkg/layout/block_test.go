package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/boxflow/pkg/geom"
	"github.com/xkilldash9x/boxflow/pkg/style"
)

func blockStyle() style.Style {
	st := style.DefaultStyle()
	st.Display = style.DisplayBlock
	return st
}

// blockLeaf is a block-level leaf with a fixed height and vertical margins.
func blockLeaf(h, top, bottom float64) style.Style {
	st := blockStyle()
	st.Size.Height = style.Length(h)
	st.Margin.Top = style.Length(top)
	st.Margin.Bottom = style.Length(bottom)
	return st
}

func blockRoot(width float64) style.Style {
	st := blockStyle()
	st.Size.Width = style.Length(width)
	return st
}

func TestBlockStacking(t *testing.T) {
	tree := newTestTree(t)
	a := tree.NewLeaf(blockLeaf(10, 0, 0))
	b := tree.NewLeaf(blockLeaf(15, 0, 0))
	root := mustNode(t, tree, blockRoot(300), a, b)
	require.NoError(t, tree.ComputeLayout(root, MaxContentSize()))

	la, lb := mustLayout(t, tree, a), mustLayout(t, tree, b)
	assert.Equal(t, 300.0, la.Size.Width, "block children fill the container width")
	assert.Equal(t, 10.0, lb.Location.Y)
	assert.Equal(t, 25.0, mustLayout(t, tree, root).Size.Height)
}

func TestBlockMarginCollapsing(t *testing.T) {
	t.Run("adjacent siblings", func(t *testing.T) {
		tree := newTestTree(t)
		a := tree.NewLeaf(blockLeaf(10, 0, 10))
		b := tree.NewLeaf(blockLeaf(10, 20, 0))
		root := mustNode(t, tree, blockRoot(300), a, b)
		require.NoError(t, tree.ComputeLayout(root, MaxContentSize()))

		assert.Equal(t, 30.0, mustLayout(t, tree, b).Location.Y, "larger margin wins")
		assert.Equal(t, 40.0, mustLayout(t, tree, root).Size.Height)
	})

	t.Run("negative margins", func(t *testing.T) {
		tree := newTestTree(t)
		a := tree.NewLeaf(blockLeaf(10, 0, 20))
		b := tree.NewLeaf(blockLeaf(10, -5, 0))
		root := mustNode(t, tree, blockRoot(300), a, b)
		require.NoError(t, tree.ComputeLayout(root, MaxContentSize()))

		assert.Equal(t, 25.0, mustLayout(t, tree, b).Location.Y)
	})

	t.Run("parent and first child", func(t *testing.T) {
		tree := newTestTree(t)
		inner := tree.NewLeaf(blockLeaf(10, 20, 0))
		outer := mustNode(t, tree, blockStyle(), inner)
		root := mustNode(t, tree, blockRoot(300), outer)
		require.NoError(t, tree.ComputeLayout(root, MaxContentSize()))

		assert.Equal(t, 20.0, mustLayout(t, tree, outer).Location.Y, "child margin escapes through the parent")
		assert.Equal(t, 0.0, mustLayout(t, tree, inner).Location.Y)
		assert.Equal(t, 10.0, mustLayout(t, tree, outer).Size.Height)
		assert.Equal(t, 30.0, mustLayout(t, tree, root).Size.Height)
	})

	t.Run("padding separates parent and child", func(t *testing.T) {
		tree := newTestTree(t)
		inner := tree.NewLeaf(blockLeaf(10, 20, 0))
		padded := blockStyle()
		padded.Padding.Top = style.Length(5)
		outer := mustNode(t, tree, padded, inner)
		root := mustNode(t, tree, blockRoot(300), outer)
		require.NoError(t, tree.ComputeLayout(root, MaxContentSize()))

		assert.Equal(t, 0.0, mustLayout(t, tree, outer).Location.Y)
		assert.Equal(t, 20.0, mustLayout(t, tree, inner).Location.Y)
		assert.Equal(t, 35.0, mustLayout(t, tree, outer).Size.Height)
	})

	t.Run("through an empty block", func(t *testing.T) {
		tree := newTestTree(t)
		first := tree.NewLeaf(blockLeaf(10, 0, 0))
		empty := blockStyle()
		empty.Margin.Top = style.Length(30)
		gap := tree.NewLeaf(empty)
		last := tree.NewLeaf(blockLeaf(10, 0, 0))
		root := mustNode(t, tree, blockRoot(300), first, gap, last)
		require.NoError(t, tree.ComputeLayout(root, MaxContentSize()))

		assert.Equal(t, 0.0, mustLayout(t, tree, gap).Size.Height)
		assert.Equal(t, 40.0, mustLayout(t, tree, last).Location.Y)
		assert.Equal(t, 50.0, mustLayout(t, tree, root).Size.Height)
	})

	t.Run("flex items never collapse", func(t *testing.T) {
		tree := newTestTree(t)
		a := sized(10, 10)
		a.Margin.Bottom = style.Length(10)
		b := sized(10, 10)
		b.Margin.Top = style.Length(20)
		ia, ib := tree.NewLeaf(a), tree.NewLeaf(b)
		rootStyle := sized(100, 100)
		rootStyle.FlexDirection = style.FlexDirectionColumn
		root := mustNode(t, tree, rootStyle, ia, ib)
		require.NoError(t, tree.ComputeLayout(root, MaxContentSize()))

		assert.Equal(t, 40.0, mustLayout(t, tree, ib).Location.Y)
	})
}

func TestBlockHorizontalPlacement(t *testing.T) {
	tests := []struct {
		name  string
		root  func() style.Style
		child func() style.Style
		wantX float64
	}{
		{
			name: "auto margins center",
			root: func() style.Style { return blockRoot(300) },
			child: func() style.Style {
				st := blockLeaf(10, 0, 0)
				st.Size.Width = style.Length(100)
				st.Margin.Left, st.Margin.Right = style.Auto(), style.Auto()
				return st
			},
			wantX: 100,
		},
		{
			name: "auto left margin pushes right",
			root: func() style.Style { return blockRoot(300) },
			child: func() style.Style {
				st := blockLeaf(10, 0, 0)
				st.Size.Width = style.Length(100)
				st.Margin.Left = style.Auto()
				return st
			},
			wantX: 200,
		},
		{
			name: "legacy center",
			root: func() style.Style {
				st := blockRoot(300)
				st.TextAlign = style.TextAlignLegacyCenter
				return st
			},
			child: func() style.Style {
				st := blockLeaf(10, 0, 0)
				st.Size.Width = style.Length(100)
				return st
			},
			wantX: 100,
		},
		{
			name: "legacy right",
			root: func() style.Style {
				st := blockRoot(300)
				st.TextAlign = style.TextAlignLegacyRight
				return st
			},
			child: func() style.Style {
				st := blockLeaf(10, 0, 0)
				st.Size.Width = style.Length(100)
				return st
			},
			wantX: 200,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := newTestTree(t)
			child := tree.NewLeaf(tt.child())
			root := mustNode(t, tree, tt.root(), child)
			require.NoError(t, tree.ComputeLayout(root, MaxContentSize()))
			assert.Equal(t, tt.wantX, mustLayout(t, tree, child).Location.X)
		})
	}
}

func TestBlockTableItemShrinksToFit(t *testing.T) {
	tree := newTestTree(t)
	table := blockStyle()
	table.ItemIsTable = true
	ti := tree.NewLeafWithContext(table, geom.Size[float64]{Width: 80, Height: 10})
	para := tree.NewLeafWithContext(blockStyle(), geom.Size[float64]{Width: 80, Height: 10})
	root := mustNode(t, tree, blockRoot(300), ti, para)
	require.NoError(t, tree.ComputeLayoutWithMeasure(root, MaxContentSize(), textMeasure))

	assert.Equal(t, 80.0, mustLayout(t, tree, ti).Size.Width)
	assert.Equal(t, 300.0, mustLayout(t, tree, para).Size.Width)
	assert.Equal(t, 10.0, mustLayout(t, tree, para).Location.Y)
}

func TestBlockRootSizing(t *testing.T) {
	t.Run("content width under max-content", func(t *testing.T) {
		tree := newTestTree(t)
		a := blockLeaf(10, 0, 0)
		a.Size.Width = style.Length(50)
		b := blockLeaf(10, 0, 0)
		b.Size.Width = style.Length(80)
		root := mustNode(t, tree, blockStyle(), tree.NewLeaf(a), tree.NewLeaf(b))
		require.NoError(t, tree.ComputeLayout(root, MaxContentSize()))

		assert.Equal(t, geom.Size[float64]{Width: 80, Height: 20}, mustLayout(t, tree, root).Size)
	})

	t.Run("stretches to definite space", func(t *testing.T) {
		tree := newTestTree(t)
		rootStyle := blockStyle()
		rootStyle.Margin.Left = style.Length(10)
		root := mustNode(t, tree, rootStyle, tree.NewLeaf(blockLeaf(10, 0, 0)))
		require.NoError(t, tree.ComputeLayout(root, DefiniteSize(400, 300)))

		assert.Equal(t, 390.0, mustLayout(t, tree, root).Size.Width)
	})
}

func TestBlockAbsoluteStaticPosition(t *testing.T) {
	tree := newTestTree(t)
	first := tree.NewLeaf(blockLeaf(25, 0, 0))
	absStyle := sized(10, 10)
	absStyle.Position = style.PositionAbsolute
	abs := tree.NewLeaf(absStyle)
	rootStyle := blockRoot(200)
	rootStyle.Padding = style.UniformRect(style.Length(5))
	root := mustNode(t, tree, rootStyle, first, abs)
	require.NoError(t, tree.ComputeLayout(root, MaxContentSize()))

	// With no insets the child sits where it would have been in flow.
	assert.Equal(t, geom.Point[float64]{X: 0, Y: 25}, mustLayout(t, tree, abs).Location)
	assert.Equal(t, 35.0, mustLayout(t, tree, root).Size.Height)
}

func TestBlockInsideFlexIsMeasured(t *testing.T) {
	tree := newTestTree(t)
	para := tree.NewLeafWithContext(blockStyle(), geom.Size[float64]{Width: 120, Height: 10})
	block := mustNode(t, tree, blockStyle(), para)
	rootStyle := style.DefaultStyle()
	rootStyle.Size.Width = style.Length(60)
	root := mustNode(t, tree, rootStyle, block)
	require.NoError(t, tree.ComputeLayoutWithMeasure(root, MaxContentSize(), textMeasure))

	assert.Equal(t, 60.0, mustLayout(t, tree, block).Size.Width)
	assert.Equal(t, 20.0, mustLayout(t, tree, para).Size.Height)
	assert.Equal(t, 20.0, mustLayout(t, tree, root).Size.Height)
}
