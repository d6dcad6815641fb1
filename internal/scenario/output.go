package scenario

import (
	"fmt"

	"github.com/xkilldash9x/boxflow/api/schemas"
)

// Collect reads the computed layout of every document node.
func (d *Document) Collect() (*schemas.NodeResult, error) {
	return d.collect(d.nodes)
}

func (d *Document) collect(n *docNode) (*schemas.NodeResult, error) {
	id, ok := n.handle.Get()
	if !ok {
		return nil, fmt.Errorf("scenario %q: node %q was never built", d.Name, n.id)
	}
	l, err := d.Tree.Layout(id)
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", d.Name, err)
	}
	out := &schemas.NodeResult{
		ID:            n.id,
		X:             l.Location.X,
		Y:             l.Location.Y,
		Width:         l.Size.Width,
		Height:        l.Size.Height,
		ContentWidth:  l.ContentSize.Width,
		ContentHeight: l.ContentSize.Height,
	}
	for _, c := range n.children {
		cr, err := d.collect(c)
		if err != nil {
			return nil, err
		}
		out.Children = append(out.Children, cr)
	}
	return out, nil
}
