// File: pkg/layout/tree.go
package layout

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/xkilldash9x/boxflow/pkg/style"
)

// NodeID is a stable handle to a node in a Tree. The generation detects
// handles that outlived their node; the zero value is never a valid handle.
type NodeID struct {
	index      uint32
	generation uint32
}

func (id NodeID) String() string {
	return fmt.Sprintf("node(%d.%d)", id.index, id.generation)
}

// IsZero reports whether id is the zero handle.
func (id NodeID) IsZero() bool { return id.generation == 0 }

// node is one arena slot. The parent field is the reverse half of the
// structural edge and is written only by the edge operations below.
type node struct {
	generation uint32
	alive      bool

	style    style.Style
	children []NodeID
	parent   NodeID
	context  any

	cache     Cache
	unrounded Layout // Location relative to the parent's border box
	exact     Layout // Published, relative to the parent's content box
	final     Layout // Published and rounded
}

// Tree is an arena of nodes. It is not safe for concurrent use; callers
// serialize mutation and layout externally.
type Tree struct {
	nodes []node
	free  []uint32

	logger        *zap.Logger
	maxDepth      int
	cacheSlots    int
	rounding      bool
	cacheDisabled bool

	run *computeRun
}

// New creates an empty tree.
func New(opts ...Option) *Tree {
	t := &Tree{
		logger:     zap.NewNop(),
		maxDepth:   DefaultMaxDepth,
		cacheSlots: DefaultCacheSlots,
		rounding:   true,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// -- Arena Access --

func (t *Tree) get(id NodeID) (*node, bool) {
	if id.generation == 0 || int(id.index) >= len(t.nodes) {
		return nil, false
	}
	n := &t.nodes[id.index]
	if !n.alive || n.generation != id.generation {
		return nil, false
	}
	return n, true
}

func (t *Tree) mustGet(op string, id NodeID) (*node, error) {
	n, ok := t.get(id)
	if !ok {
		return nil, nodeErr(op, id, ErrInvalidNodeHandle)
	}
	return n, nil
}

// Contains reports whether id refers to a live node.
func (t *Tree) Contains(id NodeID) bool {
	_, ok := t.get(id)
	return ok
}

// Len returns the number of live nodes.
func (t *Tree) Len() int { return len(t.nodes) - len(t.free) }

// -- Creation and Removal --

// NewLeaf creates a node with the given style and no children.
func (t *Tree) NewLeaf(st style.Style) NodeID {
	return t.NewLeafWithContext(st, nil)
}

// NewLeafWithContext creates a node carrying an opaque context value, which is
// handed back to the MeasureFunc.
func (t *Tree) NewLeafWithContext(st style.Style, ctx any) NodeID {
	n := node{
		alive:   true,
		style:   st.Clone(),
		context: ctx,
		cache:   newCache(t.cacheSlots),
	}
	if len(t.free) > 0 {
		idx := t.free[len(t.free)-1]
		t.free = t.free[:len(t.free)-1]
		n.generation = t.nodes[idx].generation + 1
		t.nodes[idx] = n
		return NodeID{index: idx, generation: n.generation}
	}
	n.generation = 1
	t.nodes = append(t.nodes, n)
	return NodeID{index: uint32(len(t.nodes) - 1), generation: 1}
}

// NewWithChildren creates a node and attaches the given children.
func (t *Tree) NewWithChildren(st style.Style, children ...NodeID) (NodeID, error) {
	if err := t.validateNewChildren("new_with_children", NodeID{}, children); err != nil {
		return NodeID{}, err
	}
	id := t.NewLeaf(st)
	if err := t.SetChildren(id, children...); err != nil {
		// Unreachable after validation, but keep the arena consistent.
		_ = t.Remove(id)
		return NodeID{}, err
	}
	return id, nil
}

// Remove deletes a node. Children must be detached first; the node is
// detached from its own parent.
func (t *Tree) Remove(id NodeID) error {
	n, err := t.mustGet("remove", id)
	if err != nil {
		return err
	}
	if len(n.children) > 0 {
		return nodeErr("remove", id, ErrNodeHasChildren)
	}
	if !n.parent.IsZero() {
		if p, ok := t.get(n.parent); ok {
			p.children = removeID(p.children, id)
			t.invalidate(n.parent)
		}
	}
	gen := n.generation
	*n = node{generation: gen}
	t.free = append(t.free, id.index)
	return nil
}

// Clear drops every node. Outstanding handles become invalid.
func (t *Tree) Clear() {
	for i := range t.nodes {
		if t.nodes[i].alive {
			gen := t.nodes[i].generation
			t.nodes[i] = node{generation: gen}
			t.free = append(t.free, uint32(i))
		}
	}
}

// -- Style and Context --

// SetStyle replaces a node's style and invalidates dependent caches.
func (t *Tree) SetStyle(id NodeID, st style.Style) error {
	n, err := t.mustGet("set_style", id)
	if err != nil {
		return err
	}
	n.style = st.Clone()
	t.invalidate(id)
	return nil
}

// Style returns a copy of the node's style.
func (t *Tree) Style(id NodeID) (style.Style, error) {
	n, err := t.mustGet("style", id)
	if err != nil {
		return style.Style{}, err
	}
	return n.style.Clone(), nil
}

// SetNodeContext replaces the opaque context value. Contexts feed leaf
// measurement, so dependent caches are invalidated.
func (t *Tree) SetNodeContext(id NodeID, ctx any) error {
	n, err := t.mustGet("set_node_context", id)
	if err != nil {
		return err
	}
	n.context = ctx
	t.invalidate(id)
	return nil
}

// NodeContext returns the opaque context value.
func (t *Tree) NodeContext(id NodeID) (any, error) {
	n, err := t.mustGet("node_context", id)
	if err != nil {
		return nil, err
	}
	return n.context, nil
}

// -- Structure --

// SetChildren replaces a node's children. It fails without changing the tree
// if any child is invalid, already owned by another parent, listed twice, or
// an ancestor of the node.
func (t *Tree) SetChildren(parent NodeID, children ...NodeID) error {
	p, err := t.mustGet("set_children", parent)
	if err != nil {
		return err
	}
	if err := t.validateNewChildren("set_children", parent, children); err != nil {
		return err
	}

	for _, old := range p.children {
		if on, ok := t.get(old); ok {
			on.parent = NodeID{}
		}
	}
	p.children = append(p.children[:0:0], children...)
	for _, c := range children {
		cn, _ := t.get(c)
		cn.parent = parent
	}
	t.invalidate(parent)
	return nil
}

// AddChild appends child to parent's children.
func (t *Tree) AddChild(parent, child NodeID) error {
	p, err := t.mustGet("add_child", parent)
	if err != nil {
		return err
	}
	return t.InsertChildAtIndex(parent, len(p.children), child)
}

// InsertChildAtIndex inserts child before the child currently at index.
func (t *Tree) InsertChildAtIndex(parent NodeID, index int, child NodeID) error {
	p, err := t.mustGet("insert_child", parent)
	if err != nil {
		return err
	}
	if index < 0 || index > len(p.children) {
		return nodeErr("insert_child", parent, ErrChildIndexOutOfBounds)
	}
	if err := t.validateNewChildren("insert_child", parent, []NodeID{child}); err != nil {
		return err
	}
	cn, _ := t.get(child)
	if cn.parent == parent {
		return nodeErr("insert_child", child, ErrChildAlreadyParented)
	}
	p.children = append(p.children, NodeID{})
	copy(p.children[index+1:], p.children[index:])
	p.children[index] = child
	cn.parent = parent
	t.invalidate(parent)
	return nil
}

// RemoveChild detaches child from parent.
func (t *Tree) RemoveChild(parent, child NodeID) error {
	p, err := t.mustGet("remove_child", parent)
	if err != nil {
		return err
	}
	for i, c := range p.children {
		if c == child {
			_, err := t.RemoveChildAtIndex(parent, i)
			return err
		}
	}
	if _, ok := t.get(child); !ok {
		return nodeErr("remove_child", child, ErrInvalidNodeHandle)
	}
	return nodeErr("remove_child", child, ErrChildIndexOutOfBounds)
}

// RemoveChildAtIndex detaches and returns the child at index.
func (t *Tree) RemoveChildAtIndex(parent NodeID, index int) (NodeID, error) {
	p, err := t.mustGet("remove_child_at_index", parent)
	if err != nil {
		return NodeID{}, err
	}
	if index < 0 || index >= len(p.children) {
		return NodeID{}, nodeErr("remove_child_at_index", parent, ErrChildIndexOutOfBounds)
	}
	child := p.children[index]
	p.children = append(p.children[:index], p.children[index+1:]...)
	if cn, ok := t.get(child); ok {
		cn.parent = NodeID{}
	}
	t.invalidate(parent)
	return child, nil
}

// ReplaceChildAtIndex swaps the child at index for another and returns the old one.
func (t *Tree) ReplaceChildAtIndex(parent NodeID, index int, child NodeID) (NodeID, error) {
	p, err := t.mustGet("replace_child_at_index", parent)
	if err != nil {
		return NodeID{}, err
	}
	if index < 0 || index >= len(p.children) {
		return NodeID{}, nodeErr("replace_child_at_index", parent, ErrChildIndexOutOfBounds)
	}
	old := p.children[index]
	if old == child {
		return old, nil
	}
	if err := t.validateNewChildren("replace_child_at_index", parent, []NodeID{child}); err != nil {
		return NodeID{}, err
	}
	cn, _ := t.get(child)
	if cn.parent == parent {
		return NodeID{}, nodeErr("replace_child_at_index", child, ErrChildAlreadyParented)
	}
	p.children[index] = child
	cn.parent = parent
	if on, ok := t.get(old); ok {
		on.parent = NodeID{}
	}
	t.invalidate(parent)
	return old, nil
}

// ChildAt returns the child at index.
func (t *Tree) ChildAt(parent NodeID, index int) (NodeID, error) {
	p, err := t.mustGet("child_at", parent)
	if err != nil {
		return NodeID{}, err
	}
	if index < 0 || index >= len(p.children) {
		return NodeID{}, nodeErr("child_at", parent, ErrChildIndexOutOfBounds)
	}
	return p.children[index], nil
}

// ChildCount returns the number of children.
func (t *Tree) ChildCount(parent NodeID) (int, error) {
	p, err := t.mustGet("child_count", parent)
	if err != nil {
		return 0, err
	}
	return len(p.children), nil
}

// Children returns a copy of the ordered child list.
func (t *Tree) Children(parent NodeID) ([]NodeID, error) {
	p, err := t.mustGet("children", parent)
	if err != nil {
		return nil, err
	}
	return append([]NodeID(nil), p.children...), nil
}

// Parent returns the node's parent, if it has one.
func (t *Tree) Parent(id NodeID) (NodeID, bool, error) {
	n, err := t.mustGet("parent", id)
	if err != nil {
		return NodeID{}, false, err
	}
	return n.parent, !n.parent.IsZero(), nil
}

// validateNewChildren checks a prospective child list for parent without
// touching the tree. Children already owned by parent are accepted.
func (t *Tree) validateNewChildren(op string, parent NodeID, children []NodeID) error {
	seen := make(map[NodeID]struct{}, len(children))
	for _, c := range children {
		cn, ok := t.get(c)
		if !ok {
			return nodeErr(op, c, ErrInvalidNodeHandle)
		}
		if !parent.IsZero() && t.isAncestorOrSelf(c, parent) {
			return nodeErr(op, c, ErrCycleDetected)
		}
		if _, dup := seen[c]; dup {
			return nodeErr(op, c, ErrChildAlreadyParented)
		}
		seen[c] = struct{}{}
		if !cn.parent.IsZero() && cn.parent != parent {
			return nodeErr(op, c, ErrChildAlreadyParented)
		}
	}
	return nil
}

// isAncestorOrSelf reports whether candidate is id or one of its ancestors.
func (t *Tree) isAncestorOrSelf(candidate, id NodeID) bool {
	for cur := id; !cur.IsZero(); {
		if cur == candidate {
			return true
		}
		n, ok := t.get(cur)
		if !ok {
			return false
		}
		cur = n.parent
	}
	return false
}

func removeID(ids []NodeID, id NodeID) []NodeID {
	for i, c := range ids {
		if c == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

// -- Invalidation --

// MarkDirty drops the memoized results of a node, its subtree and its
// ancestors. Use it when a measured leaf's content changes outside the tree.
func (t *Tree) MarkDirty(id NodeID) error {
	if _, err := t.mustGet("mark_dirty", id); err != nil {
		return err
	}
	t.invalidate(id)
	return nil
}

// Dirty reports whether the node has no memoized results.
func (t *Tree) Dirty(id NodeID) (bool, error) {
	n, err := t.mustGet("dirty", id)
	if err != nil {
		return false, err
	}
	return n.cache.IsEmpty(), nil
}

// invalidate clears the caches of id's subtree and of every ancestor, since an
// ancestor's intrinsic size may depend on any descendant.
func (t *Tree) invalidate(id NodeID) {
	t.clearSubtree(id)
	n, ok := t.get(id)
	if !ok {
		return
	}
	for cur := n.parent; !cur.IsZero(); {
		pn, ok := t.get(cur)
		if !ok {
			return
		}
		pn.cache.Clear()
		cur = pn.parent
	}
}

func (t *Tree) clearSubtree(id NodeID) {
	n, ok := t.get(id)
	if !ok {
		return
	}
	n.cache.Clear()
	for _, c := range n.children {
		t.clearSubtree(c)
	}
}

// -- Results --

// Layout returns the node's final (rounded when rounding is enabled) layout.
func (t *Tree) Layout(id NodeID) (Layout, error) {
	n, err := t.mustGet("layout", id)
	if err != nil {
		return Layout{}, err
	}
	return n.final, nil
}

// UnroundedLayout returns the node's layout before pixel snapping.
func (t *Tree) UnroundedLayout(id NodeID) (Layout, error) {
	n, err := t.mustGet("unrounded_layout", id)
	if err != nil {
		return Layout{}, err
	}
	return n.exact, nil
}
