package builder

import "github.com/xkilldash9x/boxflow/pkg/layout"

// Node is the closure form of StyleBuilder. Each call to Child hands a fresh
// Node to f, so deeply nested trees read top to bottom.
type Node struct {
	b *StyleBuilder
}

// NewNode returns a node holding the default style.
func NewNode() *Node {
	return &Node{b: New()}
}

// Style lets f edit this node's style.
func (n *Node) Style(f func(s *StyleBuilder)) *Node {
	f(n.b)
	return n
}

// Child appends a child configured by f.
func (n *Node) Child(f func(c *Node)) *Node {
	c := NewNode()
	f(c)
	n.b.Child(c.b)
	return n
}

func (n *Node) Handle(h *Handle) *Node {
	n.b.Handle(h)
	return n
}

func (n *Node) Context(ctx any) *Node {
	n.b.Context(ctx)
	return n
}

// Build materializes the node and its descendants into tree. It has the
// same validation and cleanup semantics as StyleBuilder.Build.
func (n *Node) Build(tree *layout.Tree) (layout.NodeID, error) {
	return n.b.Build(tree)
}
