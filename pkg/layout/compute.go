// File: pkg/layout/compute.go
package layout

import (
	"errors"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/xkilldash9x/boxflow/pkg/geom"
	"github.com/xkilldash9x/boxflow/pkg/style"
)

// ErrComputeInProgress is returned when ComputeLayout is re-entered, for
// example from inside a MeasureFunc.
var ErrComputeInProgress = errors.New("layout computation already in progress")

// snapshot is the pre-run state of a node, restored if the run fails.
type snapshot struct {
	cache     Cache
	unrounded Layout
}

// computeRun holds the state of one ComputeLayout call.
type computeRun struct {
	measure MeasureFunc
	journal map[uint32]snapshot
	depth   int
	visits  int
	hits    int
	misses  int
}

// ComputeLayout lays out the subtree rooted at root under the given available
// space. Leaves without a MeasureFunc have no content size.
func (t *Tree) ComputeLayout(root NodeID, available geom.Size[AvailableSpace]) error {
	return t.ComputeLayoutWithMeasure(root, available, nil)
}

// ComputeLayoutWithMeasure lays out the subtree rooted at root, sizing leaves
// with measure. On failure every node's cache and layout are restored to
// their state before the call.
func (t *Tree) ComputeLayoutWithMeasure(root NodeID, available geom.Size[AvailableSpace], measure MeasureFunc) error {
	if _, err := t.mustGet("compute_layout", root); err != nil {
		return err
	}
	if t.run != nil {
		return nodeErr("compute_layout", root, ErrComputeInProgress)
	}

	start := time.Now()
	run := &computeRun{measure: measure, journal: make(map[uint32]snapshot)}
	t.run = run
	defer func() { t.run = nil }()

	if err := t.computeRoot(root, available); err != nil {
		t.rollback()
		t.logger.Warn("Layout computation failed; previous results restored.",
			zap.Stringer("root", root),
			zap.Int("restored_nodes", len(run.journal)),
			zap.Error(err))
		return err
	}

	t.publish(root)

	t.logger.Debug("Layout computed.",
		zap.Stringer("root", root),
		zap.Int("visits", run.visits),
		zap.Int("cache_hits", run.hits),
		zap.Int("cache_misses", run.misses),
		zap.Duration("duration", time.Since(start)))
	return nil
}

// touch records a node's pre-run state the first time the run modifies it.
func (t *Tree) touch(id NodeID) {
	if t.run == nil {
		return
	}
	if _, seen := t.run.journal[id.index]; seen {
		return
	}
	n := &t.nodes[id.index]
	t.run.journal[id.index] = snapshot{cache: n.cache.clone(), unrounded: n.unrounded}
}

func (t *Tree) rollback() {
	for idx, snap := range t.run.journal {
		n := &t.nodes[idx]
		n.cache = snap.cache
		n.unrounded = snap.unrounded
	}
}

// setUnrounded stores a child's layout, with Location relative to the
// parent's border box.
func (t *Tree) setUnrounded(id NodeID, l Layout) {
	t.touch(id)
	t.nodes[id.index].unrounded = l
}

// -- Root --

func (t *Tree) computeRoot(root NodeID, available geom.Size[AvailableSpace]) error {
	n, _ := t.get(root)
	st := &n.style
	parentSize := geom.Size[float64]{Width: available.Width.Option(), Height: available.Height.Option()}

	known := geom.NoneSize()
	if st.IsBlock() {
		// Block roots stretch to a definite available width.
		box := resolveBox(st, parentSize.Width)
		sz := inherentSizes(st, parentSize, box)
		styled := geom.SizeOr(sz.minMaxDefinite(), sz.clamped())
		styled = geom.SizeMaybeMax(styled, box.paddingBorderSum())
		stretch := geom.Size[float64]{
			Width:  geom.MaybeSub(available.Width.Option(), geom.SumAxis(box.margin, geom.Horizontal)),
			Height: math.NaN(),
		}
		known = geom.SizeOr(styled, geom.SizeMaybeClamp(stretch, sz.min, sz.max))
	}

	out, err := t.computeChildLayout(root, layoutInput{
		RunMode:    RunPerformLayout,
		SizingMode: SizingInherent,
		Known:      known,
		ParentSize: parentSize,
		Available:  available,
	})
	if err != nil {
		return err
	}

	box := resolveBox(st, parentSize.Width)
	t.setUnrounded(root, Layout{
		Size:          out.Size,
		ContentSize:   out.ContentSize,
		ScrollbarSize: st.ScrollbarGutter(),
		Border:        box.border,
		Padding:       box.padding,
		Margin:        box.margin,
	})
	return nil
}

// -- Dispatcher --

// computeChildLayout is the single entry point through which every node is
// laid out. It selects the algorithm from the node's display mode and
// consults the node's cache.
func (t *Tree) computeChildLayout(id NodeID, in layoutInput) (layoutOutput, error) {
	n, ok := t.get(id)
	if !ok {
		return layoutOutput{}, nodeErr("compute_layout", id, ErrInvalidNodeHandle)
	}
	if in.RunMode == RunHidden || n.style.Display == style.DisplayNone {
		if in.RunMode != RunComputeSize {
			t.hideSubtree(id)
		}
		return outputFromSize(geom.ZeroSize()), nil
	}

	run := t.run
	run.depth++
	defer func() { run.depth-- }()
	if run.depth > t.maxDepth {
		return layoutOutput{}, nodeErr("compute_layout", id, ErrDepthLimitExceeded)
	}
	run.visits++

	if !t.cacheDisabled {
		if out, hit := n.cache.Lookup(in); hit {
			run.hits++
			return out, nil
		}
	}
	run.misses++

	var (
		out layoutOutput
		err error
	)
	switch {
	case len(n.children) == 0:
		out, err = t.computeLeafLayout(id, in)
	case n.style.Display == style.DisplayGrid:
		out, err = t.computeGridLayout(id, in)
	case n.style.Display == style.DisplayBlock:
		out, err = t.computeBlockLayout(id, in)
	default:
		out, err = t.computeFlexboxLayout(id, in)
	}
	if err != nil {
		return layoutOutput{}, err
	}

	if !t.cacheDisabled {
		t.touch(id)
		n.cache.Store(in, out)
	}
	return out, nil
}

// measureChildSize returns the border-box size a child would take.
func (t *Tree) measureChildSize(id NodeID, known, parentSize geom.Size[float64], available geom.Size[AvailableSpace], sizing SizingMode) (geom.Size[float64], error) {
	out, err := t.computeChildLayout(id, layoutInput{
		RunMode:    RunComputeSize,
		SizingMode: sizing,
		Known:      known,
		ParentSize: parentSize,
		Available:  available,
	})
	return out.Size, err
}

// performChildLayout runs a child's final layout.
func (t *Tree) performChildLayout(id NodeID, known, parentSize geom.Size[float64], available geom.Size[AvailableSpace], sizing SizingMode, collapse geom.Line[bool]) (layoutOutput, error) {
	return t.computeChildLayout(id, layoutInput{
		RunMode:        RunPerformLayout,
		SizingMode:     sizing,
		Known:          known,
		ParentSize:     parentSize,
		Available:      available,
		VerticalMargin: collapse,
	})
}

// hideChild zeroes the layout of a child skipped by its parent's algorithm.
func (t *Tree) hideChild(id NodeID, order int) {
	t.setUnrounded(id, Layout{Order: order})
	t.hideSubtree(id)
}

// hideSubtree zeroes the layouts of a display:none subtree.
func (t *Tree) hideSubtree(id NodeID) {
	n, ok := t.get(id)
	if !ok {
		return
	}
	order := n.unrounded.Order
	t.setUnrounded(id, Layout{Order: order})
	for i, c := range n.children {
		t.hideChild(c, i)
	}
}

// -- Publishing --

// publish converts the internal border-box-relative locations into
// content-box-relative ones and, when enabled, snaps them to whole pixels.
func (t *Tree) publish(root NodeID) {
	n, _ := t.get(root)
	exact := n.unrounded
	exact.Location = geom.Point[float64]{}
	n.exact = exact
	n.final = exact
	if t.rounding {
		n.final = roundLayout(exact, 0, 0)
	}
	t.publishChildren(root, 0, 0)
}

func (t *Tree) publishChildren(id NodeID, absX, absY float64) {
	n, _ := t.get(id)
	parentExact := n.unrounded
	parentFinal := n.final
	for _, c := range n.children {
		cn, ok := t.get(c)
		if !ok {
			continue
		}
		child := cn.unrounded
		childAbsX := absX + child.Location.X
		childAbsY := absY + child.Location.Y

		published := child
		published.Location.X -= parentExact.Border.Left + parentExact.Padding.Left
		published.Location.Y -= parentExact.Border.Top + parentExact.Padding.Top
		cn.exact = published

		if t.rounding {
			rounded := roundLayout(child, absX, absY)
			rounded.Location.X -= parentFinal.Border.Left + parentFinal.Padding.Left
			rounded.Location.Y -= parentFinal.Border.Top + parentFinal.Padding.Top
			cn.final = rounded
		} else {
			cn.final = published
		}
		t.publishChildren(c, childAbsX, childAbsY)
	}
}

// roundLayout snaps a layout using the cumulative position of its parent so
// that edges shared by neighbouring boxes round identically.
func roundLayout(l Layout, parentAbsX, parentAbsY float64) Layout {
	x := parentAbsX + l.Location.X
	y := parentAbsY + l.Location.Y
	out := l
	out.Location.X = math.Round(l.Location.X)
	out.Location.Y = math.Round(l.Location.Y)
	out.Size.Width = math.Round(x+l.Size.Width) - math.Round(x)
	out.Size.Height = math.Round(y+l.Size.Height) - math.Round(y)
	out.ContentSize.Width = math.Round(x+l.ContentSize.Width) - math.Round(x)
	out.ContentSize.Height = math.Round(y+l.ContentSize.Height) - math.Round(y)
	out.ScrollbarSize.Width = math.Round(l.ScrollbarSize.Width)
	out.ScrollbarSize.Height = math.Round(l.ScrollbarSize.Height)

	out.Border.Left = math.Round(x+l.Border.Left) - math.Round(x)
	out.Border.Right = math.Round(x+l.Size.Width) - math.Round(x+l.Size.Width-l.Border.Right)
	out.Border.Top = math.Round(y+l.Border.Top) - math.Round(y)
	out.Border.Bottom = math.Round(y+l.Size.Height) - math.Round(y+l.Size.Height-l.Border.Bottom)

	out.Padding.Left = math.Round(x+l.Border.Left+l.Padding.Left) - math.Round(x+l.Border.Left)
	out.Padding.Right = math.Round(x+l.Size.Width-l.Border.Right) - math.Round(x+l.Size.Width-l.Border.Right-l.Padding.Right)
	out.Padding.Top = math.Round(y+l.Border.Top+l.Padding.Top) - math.Round(y+l.Border.Top)
	out.Padding.Bottom = math.Round(y+l.Size.Height-l.Border.Bottom) - math.Round(y+l.Size.Height-l.Border.Bottom-l.Padding.Bottom)
	return out
}
