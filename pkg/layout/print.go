package layout

import (
	"fmt"
	"io"
	"strings"

	"github.com/xkilldash9x/boxflow/pkg/style"
)

// PrintTree writes an indented dump of the final layouts under root.
func (t *Tree) PrintTree(root NodeID, w io.Writer) error {
	if _, err := t.mustGet("print_tree", root); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "TREE"); err != nil {
		return err
	}
	return t.printNode(w, root, "", true)
}

func (t *Tree) printNode(w io.Writer, id NodeID, prefix string, last bool) error {
	n, _ := t.get(id)
	fork, indent := "├── ", "│   "
	if last {
		fork, indent = "└── ", "    "
	}
	l := n.final
	_, err := fmt.Fprintf(w, "%s%s %s [x: %-4g y: %-4g w: %-4g h: %-4g content_w: %-4g content_h: %-4g border: l:%g r:%g t:%g b:%g, padding: l:%g r:%g t:%g b:%g] (%s)\n",
		prefix, fork, displayLabel(n),
		l.Location.X, l.Location.Y, l.Size.Width, l.Size.Height,
		l.ContentSize.Width, l.ContentSize.Height,
		l.Border.Left, l.Border.Right, l.Border.Top, l.Border.Bottom,
		l.Padding.Left, l.Padding.Right, l.Padding.Top, l.Padding.Bottom,
		id)
	if err != nil {
		return err
	}
	for i, c := range n.children {
		if err := t.printNode(w, c, prefix+indent, i == len(n.children)-1); err != nil {
			return err
		}
	}
	return nil
}

func displayLabel(n *node) string {
	st := &n.style
	var b strings.Builder
	switch {
	case st.Display == style.DisplayNone:
		b.WriteString("NONE")
	case len(n.children) == 0:
		b.WriteString("LEAF")
	case st.Display == style.DisplayBlock:
		b.WriteString("BLOCK")
	case st.Display == style.DisplayGrid:
		b.WriteString("GRID")
	case st.FlexDirection.IsRow():
		b.WriteString("FLEX ROW")
	default:
		b.WriteString("FLEX COL")
	}
	if st.IsAbsolute() {
		b.WriteString(" (ABS)")
	}
	return b.String()
}
