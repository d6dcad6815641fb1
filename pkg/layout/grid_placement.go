package layout

import (
	"github.com/xkilldash9x/boxflow/pkg/geom"
	"github.com/xkilldash9x/boxflow/pkg/style"
)

// Grid lines are handled in origin-zero coordinates: line 0 is the first line
// of the explicit grid and implicit lines before it are negative.

// axisPlacement is an item's requested position along one axis.
type axisPlacement struct {
	start    int // Origin-zero start line; valid when definite
	span     int
	definite bool
}

// ozLine converts a 1-based grid line (negative counts back from the end of
// the explicit grid) into origin-zero coordinates.
func ozLine(line, explicit int) int {
	if line > 0 {
		return line - 1
	}
	return explicit + 1 + line
}

func spanValue(p style.GridPlacement) int {
	if p.Value < 1 {
		return 1
	}
	return p.Value
}

// resolveAxisPlacement interprets a grid-row or grid-column value.
func resolveAxisPlacement(l geom.Line[style.GridPlacement], explicit int) axisPlacement {
	s, e := l.Start, l.End
	switch {
	case s.Kind == style.PlaceLine && e.Kind == style.PlaceLine:
		a, b := ozLine(s.Value, explicit), ozLine(e.Value, explicit)
		if b < a {
			a, b = b, a
		}
		if a == b {
			b = a + 1
		}
		return axisPlacement{start: a, span: b - a, definite: true}
	case s.Kind == style.PlaceLine && e.Kind == style.PlaceSpan:
		return axisPlacement{start: ozLine(s.Value, explicit), span: spanValue(e), definite: true}
	case s.Kind == style.PlaceLine:
		return axisPlacement{start: ozLine(s.Value, explicit), span: 1, definite: true}
	case e.Kind == style.PlaceLine && s.Kind == style.PlaceSpan:
		end := ozLine(e.Value, explicit)
		span := spanValue(s)
		return axisPlacement{start: end - span, span: span, definite: true}
	case e.Kind == style.PlaceLine:
		end := ozLine(e.Value, explicit)
		return axisPlacement{start: end - 1, span: 1, definite: true}
	case s.Kind == style.PlaceSpan:
		return axisPlacement{span: spanValue(s)}
	case e.Kind == style.PlaceSpan:
		return axisPlacement{span: spanValue(e)}
	default:
		return axisPlacement{span: 1}
	}
}

// itemPlacement resolves both axes of an item, honouring a named area on
// the container.
func itemPlacement(container, item *style.Style, explicit geom.Size[int]) geom.Size[axisPlacement] {
	if item.GridArea != "" {
		if a, ok := container.FindArea(item.GridArea); ok {
			return geom.Size[axisPlacement]{
				Width:  axisPlacement{start: a.ColumnStart - 1, span: max(1, a.ColumnEnd-a.ColumnStart), definite: true},
				Height: axisPlacement{start: a.RowStart - 1, span: max(1, a.RowEnd-a.RowStart), definite: true},
			}
		}
	}
	return geom.Size[axisPlacement]{
		Width:  resolveAxisPlacement(item.GridColumn, explicit.Width),
		Height: resolveAxisPlacement(item.GridRow, explicit.Height),
	}
}

// cellGrid records occupied cells by (column, row).
type cellGrid map[[2]int]struct{}

func (g cellGrid) free(cols, rows geom.Line[int]) bool {
	for c := cols.Start; c < cols.End; c++ {
		for r := rows.Start; r < rows.End; r++ {
			if _, taken := g[[2]int{c, r}]; taken {
				return false
			}
		}
	}
	return true
}

func (g cellGrid) mark(cols, rows geom.Line[int]) {
	for c := cols.Start; c < cols.End; c++ {
		for r := rows.Start; r < rows.End; r++ {
			g[[2]int{c, r}] = struct{}{}
		}
	}
}

// placeGridItems assigns every item an area, following the grid
// auto-placement algorithm: fully definite items first, then items locked to
// a secondary-axis track, then the rest in order using a cursor.
func placeGridItems(items []gridItem, explicit geom.Size[int], flow style.GridAutoFlow) {
	primary := flow.PrimaryAxis()
	secondary := primary.Other()
	dense := flow.IsDense()
	cells := cellGrid{}

	lineFor := func(p axisPlacement) geom.Line[int] {
		return geom.Line[int]{Start: p.start, End: p.start + p.span}
	}
	place := func(it *gridItem, p, s geom.Line[int]) {
		it.area.Set(primary, p)
		it.area.Set(secondary, s)
		cells.mark(it.area.Width, it.area.Height)
	}
	fits := func(p, s geom.Line[int]) bool {
		if primary == geom.Horizontal {
			return cells.free(p, s)
		}
		return cells.free(s, p)
	}

	// Fully definite items.
	for i := range items {
		it := &items[i]
		if it.placement.Width.definite && it.placement.Height.definite {
			place(it, lineFor(it.placement.Get(primary)), lineFor(it.placement.Get(secondary)))
		}
	}

	pMin, pMax := 0, explicit.Get(primary)
	sMin := 0
	for i := range items {
		pp, sp := items[i].placement.Get(primary), items[i].placement.Get(secondary)
		if pp.definite {
			pMin = min(pMin, pp.start)
			pMax = max(pMax, pp.start+pp.span)
		} else {
			pMax = max(pMax, pMin+pp.span)
		}
		if sp.definite {
			sMin = min(sMin, sp.start)
		}
	}

	// Items locked to a secondary track.
	rowCursor := map[int]int{}
	for i := range items {
		it := &items[i]
		pp, sp := it.placement.Get(primary), it.placement.Get(secondary)
		if pp.definite || !sp.definite {
			continue
		}
		s := lineFor(sp)
		start := pMin
		if !dense {
			if c, ok := rowCursor[s.Start]; ok {
				start = c
			}
		}
		p := geom.Line[int]{Start: start, End: start + pp.span}
		for !fits(p, s) {
			p.Start++
			p.End++
		}
		place(it, p, s)
		pMax = max(pMax, p.End)
		if !dense {
			rowCursor[s.Start] = p.End
		}
	}

	// Remaining items.
	cp, cs := pMin, sMin
	for i := range items {
		it := &items[i]
		pp, sp := it.placement.Get(primary), it.placement.Get(secondary)
		if sp.definite {
			continue
		}
		if dense {
			cp, cs = pMin, sMin
		}
		if pp.definite {
			if !dense && pp.start < cp {
				cs++
			}
			cp = pp.start
			p := lineFor(pp)
			for !fits(p, geom.Line[int]{Start: cs, End: cs + sp.span}) {
				cs++
			}
			place(it, p, geom.Line[int]{Start: cs, End: cs + sp.span})
			continue
		}
		for {
			if cp+pp.span > pMax {
				cs++
				cp = pMin
				continue
			}
			p := geom.Line[int]{Start: cp, End: cp + pp.span}
			s := geom.Line[int]{Start: cs, End: cs + sp.span}
			if fits(p, s) {
				place(it, p, s)
				cp = p.End
				break
			}
			cp++
		}
	}
}
