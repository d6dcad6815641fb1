// File: pkg/builder/builder.go
package builder

import (
	"fmt"

	"github.com/xkilldash9x/boxflow/pkg/geom"
	"github.com/xkilldash9x/boxflow/pkg/layout"
	"github.com/xkilldash9x/boxflow/pkg/style"
)

// Handle receives the id of a builder's node once the tree is materialized.
// A Handle may be shared with code that needs to look the node up later.
type Handle struct {
	id  layout.NodeID
	set bool
}

// NewHandle returns an empty handle.
func NewHandle() *Handle { return &Handle{} }

// Get returns the materialized node id, if Build has run.
func (h *Handle) Get() (layout.NodeID, bool) {
	if h == nil {
		return layout.NodeID{}, false
	}
	return h.id, h.set
}

func (h *Handle) bind(id layout.NodeID) {
	h.id = id
	h.set = true
}

// StyleBuilder assembles a style and its children with chained setters.
// Unset properties keep their initial values from style.DefaultStyle.
type StyleBuilder struct {
	style    style.Style
	children []*StyleBuilder
	handle   *Handle
	context  any
}

// New returns a builder holding the default style.
func New() *StyleBuilder {
	return &StyleBuilder{style: style.DefaultStyle()}
}

// FromStyle starts a builder from an existing style.
func FromStyle(st style.Style) *StyleBuilder {
	return &StyleBuilder{style: st.Clone()}
}

// Row returns a flex container laid out left to right.
func Row() *StyleBuilder {
	return New().Display(style.DisplayFlex).FlexDirection(style.FlexDirectionRow)
}

// Column returns a flex container laid out top to bottom.
func Column() *StyleBuilder {
	return New().Display(style.DisplayFlex).FlexDirection(style.FlexDirectionColumn)
}

// Child appends children in order.
func (b *StyleBuilder) Child(children ...*StyleBuilder) *StyleBuilder {
	b.children = append(b.children, children...)
	return b
}

// Handle binds h to this builder's node when it is materialized.
func (b *StyleBuilder) Handle(h *Handle) *StyleBuilder {
	b.handle = h
	return b
}

// Context attaches a measure context to the node.
func (b *StyleBuilder) Context(ctx any) *StyleBuilder {
	b.context = ctx
	return b
}

// Style returns a copy of the style assembled so far.
func (b *StyleBuilder) Style() style.Style { return b.style.Clone() }

// Build validates every style, then creates the nodes of the builder tree in
// tree and returns the root id. Nodes are created parent first. If any step
// fails, every node created by this call is removed again.
func (b *StyleBuilder) Build(tree *layout.Tree) (layout.NodeID, error) {
	if err := b.validate(); err != nil {
		return layout.NodeID{}, err
	}
	var created []layout.NodeID
	id, err := b.materialize(tree, &created)
	if err != nil {
		for i := len(created) - 1; i >= 0; i-- {
			_ = tree.Remove(created[i])
		}
		return layout.NodeID{}, err
	}
	return id, nil
}

func (b *StyleBuilder) validate() error {
	if err := b.style.Validate(); err != nil {
		return fmt.Errorf("builder: invalid style: %w", err)
	}
	for i, c := range b.children {
		if err := c.validate(); err != nil {
			return fmt.Errorf("child %d: %w", i, err)
		}
	}
	return nil
}

func (b *StyleBuilder) materialize(tree *layout.Tree, created *[]layout.NodeID) (layout.NodeID, error) {
	id := tree.NewLeafWithContext(b.style.Clone(), b.context)
	*created = append(*created, id)
	if b.handle != nil {
		b.handle.bind(id)
	}
	if len(b.children) == 0 {
		return id, nil
	}
	ids := make([]layout.NodeID, 0, len(b.children))
	for _, c := range b.children {
		cid, err := c.materialize(tree, created)
		if err != nil {
			return layout.NodeID{}, err
		}
		ids = append(ids, cid)
	}
	if err := tree.SetChildren(id, ids...); err != nil {
		return layout.NodeID{}, fmt.Errorf("builder: attach children: %w", err)
	}
	return id, nil
}

// -- Box Model --

func (b *StyleBuilder) Display(d style.Display) *StyleBuilder {
	b.style.Display = d
	return b
}

func (b *StyleBuilder) ItemIsTable(v bool) *StyleBuilder {
	b.style.ItemIsTable = v
	return b
}

func (b *StyleBuilder) BoxSizing(v style.BoxSizing) *StyleBuilder {
	b.style.BoxSizing = v
	return b
}

// Overflow sets both axes.
func (b *StyleBuilder) Overflow(x, y style.Overflow) *StyleBuilder {
	b.style.Overflow = geom.Point[style.Overflow]{X: x, Y: y}
	return b
}

func (b *StyleBuilder) ScrollbarWidth(w float64) *StyleBuilder {
	b.style.ScrollbarWidth = w
	return b
}

func (b *StyleBuilder) Position(p style.Position) *StyleBuilder {
	b.style.Position = p
	return b
}

func (b *StyleBuilder) Inset(r geom.Rect[style.Dimension]) *StyleBuilder {
	b.style.Inset = r
	return b
}

func (b *StyleBuilder) Size(s geom.Size[style.Dimension]) *StyleBuilder {
	b.style.Size = s
	return b
}

func (b *StyleBuilder) Width(d style.Dimension) *StyleBuilder {
	b.style.Size.Width = d
	return b
}

func (b *StyleBuilder) Height(d style.Dimension) *StyleBuilder {
	b.style.Size.Height = d
	return b
}

func (b *StyleBuilder) MinSize(s geom.Size[style.Dimension]) *StyleBuilder {
	b.style.MinSize = s
	return b
}

func (b *StyleBuilder) MaxSize(s geom.Size[style.Dimension]) *StyleBuilder {
	b.style.MaxSize = s
	return b
}

// AspectRatio is width divided by height.
func (b *StyleBuilder) AspectRatio(r float64) *StyleBuilder {
	b.style.AspectRatio = r
	return b
}

func (b *StyleBuilder) Margin(r geom.Rect[style.Dimension]) *StyleBuilder {
	b.style.Margin = r
	return b
}

func (b *StyleBuilder) Padding(r geom.Rect[style.Dimension]) *StyleBuilder {
	b.style.Padding = r
	return b
}

func (b *StyleBuilder) Border(r geom.Rect[style.Dimension]) *StyleBuilder {
	b.style.Border = r
	return b
}

// -- Alignment --

func (b *StyleBuilder) AlignItems(v style.AlignItems) *StyleBuilder {
	b.style.AlignItems = v
	return b
}

func (b *StyleBuilder) AlignSelf(v style.AlignSelf) *StyleBuilder {
	b.style.AlignSelf = v
	return b
}

func (b *StyleBuilder) JustifyItems(v style.AlignItems) *StyleBuilder {
	b.style.JustifyItems = v
	return b
}

func (b *StyleBuilder) JustifySelf(v style.AlignSelf) *StyleBuilder {
	b.style.JustifySelf = v
	return b
}

func (b *StyleBuilder) AlignContent(v style.AlignContent) *StyleBuilder {
	b.style.AlignContent = v
	return b
}

func (b *StyleBuilder) JustifyContent(v style.JustifyContent) *StyleBuilder {
	b.style.JustifyContent = v
	return b
}

func (b *StyleBuilder) Gap(s geom.Size[style.Dimension]) *StyleBuilder {
	b.style.Gap = s
	return b
}

func (b *StyleBuilder) TextAlign(v style.TextAlign) *StyleBuilder {
	b.style.TextAlign = v
	return b
}

// -- Flexbox --

func (b *StyleBuilder) FlexDirection(d style.FlexDirection) *StyleBuilder {
	b.style.FlexDirection = d
	return b
}

func (b *StyleBuilder) FlexWrap(w style.FlexWrap) *StyleBuilder {
	b.style.FlexWrap = w
	return b
}

func (b *StyleBuilder) FlexBasis(d style.Dimension) *StyleBuilder {
	b.style.FlexBasis = d
	return b
}

func (b *StyleBuilder) FlexGrow(v float64) *StyleBuilder {
	b.style.FlexGrow = v
	return b
}

func (b *StyleBuilder) FlexShrink(v float64) *StyleBuilder {
	b.style.FlexShrink = v
	return b
}

// -- Grid --

func (b *StyleBuilder) GridTemplateRows(t ...style.TrackSizingFunction) *StyleBuilder {
	b.style.GridTemplateRows = t
	return b
}

func (b *StyleBuilder) GridTemplateColumns(t ...style.TrackSizingFunction) *StyleBuilder {
	b.style.GridTemplateColumns = t
	return b
}

func (b *StyleBuilder) GridAutoRows(t ...style.TrackSize) *StyleBuilder {
	b.style.GridAutoRows = t
	return b
}

func (b *StyleBuilder) GridAutoColumns(t ...style.TrackSize) *StyleBuilder {
	b.style.GridAutoColumns = t
	return b
}

func (b *StyleBuilder) GridAutoFlow(f style.GridAutoFlow) *StyleBuilder {
	b.style.GridAutoFlow = f
	return b
}

func (b *StyleBuilder) GridTemplateAreas(a ...style.GridTemplateArea) *StyleBuilder {
	b.style.GridTemplateAreas = a
	return b
}

func (b *StyleBuilder) GridRow(l geom.Line[style.GridPlacement]) *StyleBuilder {
	b.style.GridRow = l
	return b
}

func (b *StyleBuilder) GridColumn(l geom.Line[style.GridPlacement]) *StyleBuilder {
	b.style.GridColumn = l
	return b
}

func (b *StyleBuilder) GridArea(name string) *StyleBuilder {
	b.style.GridArea = name
	return b
}
