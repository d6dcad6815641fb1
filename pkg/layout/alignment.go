package layout

import (
	"math"

	"github.com/xkilldash9x/boxflow/pkg/style"
)

// distributeContent returns the offset of the first item and the extra
// spacing between consecutive items (on top of any gap) for
// justify-content and align-content. Reversed layouts are placed from the
// physical end, so flex-start and flex-end swap.
func distributeContent(mode style.AlignContent, free float64, count int, reversed bool) (start, between float64) {
	if count <= 0 {
		return 0, 0
	}
	if count == 1 || free < 0 {
		switch mode {
		case style.ContentSpaceBetween:
			mode = style.ContentFlexStart
		case style.ContentSpaceAround, style.ContentSpaceEvenly:
			mode = style.ContentCenter
		}
	}
	positive := math.Max(free, 0)

	switch mode {
	case style.ContentEnd:
		start = free
	case style.ContentFlexStart:
		if reversed {
			start = free
		}
	case style.ContentFlexEnd:
		if !reversed {
			start = free
		}
	case style.ContentCenter:
		start = free / 2
	case style.ContentSpaceBetween:
		if count > 1 {
			between = positive / float64(count-1)
		}
	case style.ContentSpaceAround:
		if free >= 0 {
			between = free / float64(count)
			start = between / 2
		} else {
			start = free / 2
		}
	case style.ContentSpaceEvenly:
		if free >= 0 {
			between = free / float64(count+1)
			start = between
		} else {
			start = free / 2
		}
	}
	return start, between
}

// alignSelfOffset returns where an item of fixed size sits in its slot.
func alignSelfOffset(align style.AlignItems, free float64, reversed bool) float64 {
	switch align {
	case style.AlignEnd:
		return free
	case style.AlignFlexStart:
		if reversed {
			return free
		}
	case style.AlignFlexEnd:
		if !reversed {
			return free
		}
	case style.AlignCenter:
		return free / 2
	}
	return 0
}

// resolveSelf applies the container's *-items value to an item's auto *-self.
func resolveSelf(self, items, fallback style.AlignItems) style.AlignItems {
	if self != style.AlignAuto {
		return self
	}
	if items != style.AlignAuto {
		return items
	}
	return fallback
}
