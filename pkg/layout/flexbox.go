// File: pkg/layout/flexbox.go
package layout

import (
	"math"

	"github.com/xkilldash9x/boxflow/pkg/geom"
	"github.com/xkilldash9x/boxflow/pkg/style"
)

// flexItem is the working state of one in-flow child during a flex layout.
type flexItem struct {
	id    NodeID
	order int
	st    *style.Style

	size, minSize, maxSize geom.Size[float64]
	inset                  geom.Rect[float64]
	margin                 geom.Rect[float64]
	marginAuto             geom.Rect[bool]
	padding, border        geom.Rect[float64]
	align                  style.AlignItems
	grow, shrink           float64

	basis      float64 // Flex base size (border box)
	innerBasis float64
	minMain    float64 // Resolved minimum main size

	hypoInner, hypoOuter geom.Size[float64]
	target, outerTarget  geom.Size[float64]
	violation            float64
	frozen               bool

	offsetMain, offsetCross float64
	baseline                float64
	contentFlexFraction     float64
}

type flexLine struct {
	items       []*flexItem
	crossSize   float64
	offsetCross float64
}

// flexContainer holds the resolved container-level values for one layout.
type flexContainer struct {
	dir          style.FlexDirection
	main, cross  geom.Axis
	isRow        bool
	isWrap       bool
	wrapReverse  bool
	box          boxModel
	inset        geom.Rect[float64]
	gap          geom.Size[float64]
	alignItems   style.AlignItems
	alignContent style.AlignContent
	justify      style.JustifyContent

	minSize, maxSize geom.Size[float64]
	outer            geom.Size[float64] // Border-box size, NaN until resolved
	inner            geom.Size[float64] // Content-box size, NaN until resolved
}

func (t *Tree) computeFlexboxLayout(id NodeID, in layoutInput) (layoutOutput, error) {
	n := &t.nodes[id.index]
	st := &n.style
	box := resolveBox(st, in.ParentSize.Width)

	known := in.Known
	minSize, maxSize := geom.NoneSize(), geom.NoneSize()
	if in.SizingMode == SizingInherent {
		sz := inherentSizes(st, in.ParentSize, box)
		minSize, maxSize = sz.min, sz.max
		styled := geom.SizeMaybeMax(geom.SizeOr(sz.minMaxDefinite(), sz.clamped()), box.paddingBorderSum())
		known = geom.SizeOr(known, styled)
	}
	if in.RunMode == RunComputeSize && geom.IsSome(known.Width) && geom.IsSome(known.Height) {
		return outputFromSize(known), nil
	}
	return t.flexLayout(id, in, known, box, minSize, maxSize)
}

func (t *Tree) flexLayout(id NodeID, in layoutInput, known geom.Size[float64], box boxModel, minSize, maxSize geom.Size[float64]) (layoutOutput, error) {
	n := &t.nodes[id.index]
	st := &n.style
	c := newFlexContainer(st, box, known, minSize, maxSize)

	items := t.collectFlexItems(id, &c)

	available := geom.Size[AvailableSpace]{
		Width:  containerAvailable(in.Available.Width, known.Width, box, c.inset, geom.Horizontal),
		Height: containerAvailable(in.Available.Height, known.Height, box, c.inset, geom.Vertical),
	}

	if err := t.determineFlexBaseSizes(&c, available, items); err != nil {
		return layoutOutput{}, err
	}
	lines := collectFlexLines(&c, available, items)

	if err := t.determineContainerMainSize(&c, available, lines); err != nil {
		return layoutOutput{}, err
	}
	for i := range lines {
		resolveFlexibleLengths(&c, &lines[i])
	}

	if err := t.determineHypotheticalCrossSizes(&c, available, lines); err != nil {
		return layoutOutput{}, err
	}
	if err := t.calculateFlexBaselines(&c, lines); err != nil {
		return layoutOutput{}, err
	}
	calculateLineCrossSizes(&c, known, lines)
	stretchFlexLines(&c, lines)
	determineUsedCrossSizes(&c, lines)

	distributeMainSpace(&c, lines)
	alignCrossAxis(&c, lines)

	linesCross := determineContainerCrossSize(&c, lines)
	if in.RunMode == RunComputeSize {
		return outputFromSize(c.outer), nil
	}

	alignFlexLines(&c, lines, linesCross)
	content, err := t.finalFlexPass(&c, lines)
	if err != nil {
		return layoutOutput{}, err
	}

	abs, err := t.layoutAbsoluteChildren(id, absoluteContainer{
		size:      c.outer,
		border:    box.border,
		gutter:    box.gutter,
		innerSize: c.inner,
		static:    c.absoluteStatic,
	})
	if err != nil {
		return layoutOutput{}, err
	}
	content = geom.MaxSize(content, abs)

	for order, child := range n.children {
		if t.nodes[child.index].style.Display == style.DisplayNone {
			t.hideChild(child, order)
		}
	}

	return outputFromSizes(c.outer, content, geom.Point[float64]{X: math.NaN(), Y: flexBaseline(&c, lines)}), nil
}

func newFlexContainer(st *style.Style, box boxModel, known, minSize, maxSize geom.Size[float64]) flexContainer {
	dir := st.FlexDirection
	c := flexContainer{
		dir:          dir,
		main:         dir.MainAxis(),
		cross:        dir.CrossAxis(),
		isRow:        dir.IsRow(),
		isWrap:       st.FlexWrap != style.FlexNoWrap,
		wrapReverse:  st.FlexWrap == style.FlexWrapReverse,
		box:          box,
		inset:        box.contentInset(),
		alignItems:   resolveSelf(st.AlignItems, style.AlignAuto, style.AlignStretch),
		alignContent: st.AlignContent,
		justify:      st.JustifyContent,
		minSize:      minSize,
		maxSize:      maxSize,
		outer:        known,
	}
	if c.alignContent == style.ContentNormal {
		c.alignContent = style.ContentStretch
	}
	if c.justify == style.ContentNormal {
		c.justify = style.ContentFlexStart
	}
	c.inner = geom.SizeMaybeSub(known, geom.RectSums(c.inset))
	c.gap = geom.Size[float64]{
		Width:  st.Gap.Width.ResolveOrZero(c.inner.Width),
		Height: st.Gap.Height.ResolveOrZero(c.inner.Height),
	}
	return c
}

// containerAvailable is the content-box space the container can offer its
// items along one axis.
func containerAvailable(outer AvailableSpace, known float64, box boxModel, inset geom.Rect[float64], axis geom.Axis) AvailableSpace {
	if geom.IsSome(known) {
		return Definite(known - geom.SumAxis(inset, axis))
	}
	return outer.Sub(geom.SumAxis(box.margin, axis)).Sub(geom.SumAxis(inset, axis))
}

func (t *Tree) collectFlexItems(id NodeID, c *flexContainer) []flexItem {
	children := t.nodes[id.index].children
	items := make([]flexItem, 0, len(children))
	for order, child := range children {
		st := &t.nodes[child.index].style
		if st.IsAbsolute() || st.Display == style.DisplayNone {
			continue
		}
		box := resolveBox(st, c.inner.Width)
		sz := inherentSizes(st, c.inner, box)
		items = append(items, flexItem{
			id:      child,
			order:   order,
			st:      st,
			size:    sz.size,
			minSize: sz.min,
			maxSize: sz.max,
			inset:   style.ResolveInset(st.Inset, c.inner),
			margin:  box.margin,
			marginAuto: geom.Rect[bool]{
				Left:   st.Margin.Left.IsAuto(),
				Right:  st.Margin.Right.IsAuto(),
				Top:    st.Margin.Top.IsAuto(),
				Bottom: st.Margin.Bottom.IsAuto(),
			},
			padding: box.padding,
			border:  box.border,
			align:   resolveSelf(st.AlignSelf, c.alignItems, style.AlignStretch),
			grow:    st.FlexGrow,
			shrink:  st.FlexShrink,
		})
	}
	return items
}

// -- Base Sizes --

func (t *Tree) determineFlexBaseSizes(c *flexContainer, available geom.Size[AvailableSpace], items []flexItem) error {
	main, cross := c.main, c.cross
	for i := range items {
		it := &items[i]
		childKnown := it.size
		if it.align == style.AlignStretch && geom.IsNone(childKnown.Get(cross)) {
			childKnown.Set(cross, geom.MaybeSub(available.Get(cross).Option(), geom.SumAxis(it.margin, cross)))
		}

		adjust := geom.ZeroSize()
		if it.st.BoxSizing == style.BoxSizingContentBox {
			adjust = geom.RectSums(geom.AddRects(it.padding, it.border))
		}
		basis := geom.MaybeAdd(it.st.FlexBasis.Resolve(c.inner.Get(main)), adjust.Get(main))

		switch {
		case geom.IsSome(basis):
			it.basis = basis
		case geom.IsSome(it.size.Get(main)):
			it.basis = it.size.Get(main)
		case it.st.HasAspectRatio() && geom.IsSome(childKnown.Get(cross)):
			if c.isRow {
				it.basis = childKnown.Get(cross) * it.st.AspectRatio
			} else {
				it.basis = childKnown.Get(cross) / it.st.AspectRatio
			}
		default:
			avail := MaxContentSize()
			if available.Get(main).Kind == SpaceMinContent {
				avail.Set(main, MinContent())
			}
			avail.Set(cross, available.Get(cross))
			measured, err := t.measureChildSize(it.id, childKnown.With(main, math.NaN()), c.inner, avail, SizingContent)
			if err != nil {
				return err
			}
			it.basis = measured.Get(main)
		}

		pbMain := geom.SumAxis(it.padding, main) + geom.SumAxis(it.border, main)
		it.basis = math.Max(it.basis, pbMain)
		it.innerBasis = it.basis - pbMain

		minMain, err := t.resolveMinimumMainSize(c, available, it, pbMain)
		if err != nil {
			return err
		}
		it.minMain = minMain

		hypo := geom.MaybeClamp(it.basis, it.minMain, it.maxSize.Get(main))
		it.hypoInner.Set(main, hypo)
		it.hypoOuter.Set(main, hypo+geom.SumAxis(it.margin, main))
	}
	return nil
}

// resolveMinimumMainSize computes the automatic minimum size of an item:
// its min-content size, capped by its preferred and max sizes.
func (t *Tree) resolveMinimumMainSize(c *flexContainer, available geom.Size[AvailableSpace], it *flexItem, pbMain float64) (float64, error) {
	main, cross := c.main, c.cross
	if v := it.minSize.Get(main); geom.IsSome(v) {
		return v, nil
	}
	if it.st.IsScrollContainer() {
		return pbMain, nil
	}
	known := geom.NoneSize()
	known.Set(cross, it.size.Get(cross))
	avail := geom.Size[AvailableSpace]{Width: MinContent(), Height: MinContent()}
	avail.Set(cross, available.Get(cross))
	measured, err := t.measureChildSize(it.id, known, c.inner, avail, SizingContent)
	if err != nil {
		return 0, err
	}
	v := geom.MaybeMin(geom.MaybeMin(measured.Get(main), it.size.Get(main)), it.maxSize.Get(main))
	return math.Max(v, pbMain), nil
}

// -- Lines --

func collectFlexLines(c *flexContainer, available geom.Size[AvailableSpace], items []flexItem) []flexLine {
	if len(items) == 0 {
		return nil
	}
	all := make([]*flexItem, len(items))
	for i := range items {
		all[i] = &items[i]
	}
	if !c.isWrap {
		return []flexLine{{items: all}}
	}

	space := available.Get(c.main)
	switch space.Kind {
	case SpaceMaxContent:
		return []flexLine{{items: all}}
	case SpaceMinContent:
		lines := make([]flexLine, len(all))
		for i, it := range all {
			lines[i] = flexLine{items: []*flexItem{it}}
		}
		return lines
	}

	limit := space.Value
	if mx := geom.MaybeSub(c.maxSize.Get(c.main), geom.SumAxis(c.inset, c.main)); geom.IsSome(mx) {
		limit = math.Min(limit, mx)
	}
	gap := c.gap.Get(c.main)

	var lines []flexLine
	rest := all
	for len(rest) > 0 {
		length := 0.0
		split := len(rest)
		for i, it := range rest {
			if i > 0 {
				length += gap
			}
			length += it.hypoOuter.Get(c.main)
			if length > limit && i > 0 {
				split = i
				break
			}
		}
		lines = append(lines, flexLine{items: rest[:split]})
		rest = rest[split:]
	}
	return lines
}

// -- Container Main Size --

func (t *Tree) determineContainerMainSize(c *flexContainer, available geom.Size[AvailableSpace], lines []flexLine) error {
	main := c.main
	insetMain := geom.SumAxis(c.inset, main)

	outer := c.outer.Get(main)
	if geom.IsNone(outer) {
		space := available.Get(main)
		switch {
		case space.IsDefinite() || (space.Kind == SpaceMinContent && c.isWrap):
			longest := 0.0
			for _, line := range lines {
				longest = math.Max(longest, lineHypotheticalMain(c, line))
			}
			outer = longest + insetMain
			if space.IsDefinite() && len(lines) > 1 {
				outer = math.Max(outer, space.Value+insetMain)
			}
		default:
			longest, err := t.intrinsicMainSize(c, available, lines)
			if err != nil {
				return err
			}
			outer = longest + insetMain
		}
	}

	outer = math.Max(geom.MaybeClamp(outer, c.minSize.Get(main), c.maxSize.Get(main)), insetMain)
	c.outer.Set(main, outer)
	c.inner.Set(main, outer-insetMain)
	return nil
}

func lineHypotheticalMain(c *flexContainer, line flexLine) float64 {
	sum := sumGaps(c.gap.Get(c.main), len(line.items))
	for _, it := range line.items {
		sum += it.hypoOuter.Get(c.main)
	}
	return sum
}

// intrinsicMainSize is the container's min- or max-content main size: the
// largest line sum of each item's content contribution.
func (t *Tree) intrinsicMainSize(c *flexContainer, available geom.Size[AvailableSpace], lines []flexLine) (float64, error) {
	main, cross := c.main, c.cross
	insetMain := geom.SumAxis(c.inset, main)
	longest := 0.0
	for _, line := range lines {
		for _, it := range line.items {
			styleMin, pref, styleMax := it.minSize.Get(main), it.size.Get(main), it.maxSize.Get(main)
			clampBasis := geom.MaybeMax(it.basis, pref)
			minMain, maxMain := it.minMain, math.Inf(1)
			if it.shrink == 0 {
				minMain = math.Max(minMain, geom.Or(geom.MaybeMax(styleMin, clampBasis), clampBasis))
			} else if geom.IsSome(styleMin) {
				minMain = math.Max(minMain, styleMin)
			}
			if it.grow == 0 {
				maxMain = geom.Or(geom.MaybeMin(styleMax, clampBasis), clampBasis)
			} else if geom.IsSome(styleMax) {
				maxMain = styleMax
			}
			marginMain := geom.SumAxis(it.margin, main)

			var contribution float64
			switch {
			case geom.IsSome(pref) && (maxMain <= minMain || maxMain <= pref):
				contribution = math.Max(math.Min(pref, maxMain), minMain) + marginMain
			case maxMain <= minMain:
				contribution = minMain + marginMain
			case it.st.IsScrollContainer():
				contribution = it.basis + marginMain
			default:
				crossAvail := available.Get(cross)
				if crossAvail.IsDefinite() {
					crossAvail = Definite(geom.Or(c.inner.Get(cross), crossAvail.Value))
				}
				marginCross := geom.SumAxis(c.box.margin, cross)
				if crossAvail.IsDefinite() {
					crossAvail.Value = geom.MaybeClamp(crossAvail.Value,
						geom.MaybeAdd(it.minSize.Get(cross), marginCross),
						geom.MaybeAdd(it.maxSize.Get(cross), marginCross))
				}
				avail := available
				avail.Set(cross, crossAvail)

				known := it.size.With(main, math.NaN())
				if it.align == style.AlignStretch && geom.IsNone(known.Get(cross)) {
					known.Set(cross, geom.MaybeSub(crossAvail.Option(), geom.SumAxis(it.margin, cross)))
				}
				measured, err := t.measureChildSize(it.id, known, c.inner, avail, SizingInherent)
				if err != nil {
					return 0, err
				}
				size := measured.Get(main) + marginMain
				if !c.isRow {
					size = math.Max(size, it.basis)
				}
				contribution = math.Max(geom.MaybeClamp(size, styleMin, styleMax), insetMain)
			}

			diff := contribution - it.basis
			switch {
			case diff > 0:
				it.contentFlexFraction = diff / math.Max(1, it.grow)
			case diff < 0:
				it.contentFlexFraction = diff / math.Max(1, it.shrink*it.innerBasis)
			default:
				it.contentFlexFraction = 0
			}
		}

		sum := sumGaps(c.gap.Get(main), len(line.items))
		for _, it := range line.items {
			f := it.contentFlexFraction
			var grown float64
			switch {
			case f > 0:
				grown = math.Max(1, it.grow) * f
			case f < 0:
				grown = math.Max(1, it.shrink*it.innerBasis) * f
			}
			size := geom.MaybeClamp(it.basis+grown, it.minMain, it.maxSize.Get(main))
			sum += size + geom.SumAxis(it.margin, main)
		}
		longest = math.Max(longest, sum)
	}
	return longest, nil
}

func sumGaps(gap float64, count int) float64 {
	if count <= 1 {
		return 0
	}
	return gap * float64(count-1)
}

// -- Flexible Lengths --

// resolveFlexibleLengths distributes a line's free space by grow or scaled
// shrink factors. Each pass that does not settle freezes at least one item,
// so the loop runs at most len(items)+1 times.
func resolveFlexibleLengths(c *flexContainer, line *flexLine) {
	main := c.main
	innerMain := c.inner.Get(main)
	gaps := sumGaps(c.gap.Get(main), len(line.items))

	hypoSum := gaps
	for _, it := range line.items {
		hypoSum += it.hypoOuter.Get(main)
	}
	growing := hypoSum < geom.Or(innerMain, 0)

	for _, it := range line.items {
		hypo := it.hypoInner.Get(main)
		it.target.Set(main, hypo)
		it.frozen = false
		factor := it.shrink
		if growing {
			factor = it.grow
		}
		if factor == 0 || (growing && it.basis > hypo) || (!growing && it.basis < hypo) {
			it.frozen = true
			it.outerTarget.Set(main, hypo+geom.SumAxis(it.margin, main))
		}
	}

	usedSpace := func() float64 {
		used := gaps
		for _, it := range line.items {
			if it.frozen {
				used += it.outerTarget.Get(main)
			} else {
				used += it.basis + geom.SumAxis(it.margin, main)
			}
		}
		return used
	}
	initialFree := geom.Or(geom.MaybeSub(innerMain, usedSpace()), 0)

	for iter := 0; iter <= len(line.items); iter++ {
		var unfrozen []*flexItem
		for _, it := range line.items {
			if !it.frozen {
				unfrozen = append(unfrozen, it)
			}
		}
		if len(unfrozen) == 0 {
			break
		}

		remaining := geom.Or(geom.MaybeSub(innerMain, usedSpace()), 0)
		var sumGrow, sumShrink float64
		for _, it := range unfrozen {
			sumGrow += it.grow
			sumShrink += it.shrink
		}
		free := remaining
		if growing && sumGrow < 1 {
			free = math.Min(initialFree*sumGrow, remaining)
		} else if !growing && sumShrink < 1 {
			free = math.Max(initialFree*sumShrink, remaining)
		}

		if !math.IsNaN(free) && !math.IsInf(free, 0) && free != 0 {
			if growing && sumGrow > 0 {
				for _, it := range unfrozen {
					it.target.Set(main, it.basis+free*(it.grow/sumGrow))
				}
			} else if !growing && sumShrink > 0 {
				var scaledSum float64
				for _, it := range unfrozen {
					scaledSum += it.innerBasis * it.shrink
				}
				if scaledSum > 0 {
					for _, it := range unfrozen {
						it.target.Set(main, it.basis+free*(it.innerBasis*it.shrink/scaledSum))
					}
				}
			}
		}

		totalViolation := 0.0
		for _, it := range unfrozen {
			target := it.target.Get(main)
			clamped := math.Max(geom.MaybeClamp(target, it.minMain, it.maxSize.Get(main)), 0)
			it.violation = clamped - target
			it.target.Set(main, clamped)
			it.outerTarget.Set(main, clamped+geom.SumAxis(it.margin, main))
			totalViolation += it.violation
		}

		for _, it := range unfrozen {
			switch {
			case totalViolation > 0:
				it.frozen = it.violation > 0
			case totalViolation < 0:
				it.frozen = it.violation < 0
			default:
				it.frozen = true
			}
		}
	}
}

// -- Cross Sizes --

func (t *Tree) determineHypotheticalCrossSizes(c *flexContainer, available geom.Size[AvailableSpace], lines []flexLine) error {
	main, cross := c.main, c.cross
	for _, line := range lines {
		for _, it := range line.items {
			childCross := geom.MaybeClamp(it.size.Get(cross), it.minSize.Get(cross), it.maxSize.Get(cross))
			known := geom.NewSize(main, it.target.Get(main), childCross)

			avail := MaxContentSize()
			avail.Set(cross, available.Get(cross))
			if inner := c.inner.Get(main); geom.IsSome(inner) {
				avail.Set(main, Definite(inner))
			}
			measured, err := t.measureChildSize(it.id, known, c.inner, avail, SizingInherent)
			if err != nil {
				return err
			}
			hypo := geom.MaybeClamp(measured.Get(cross), it.minSize.Get(cross), it.maxSize.Get(cross))
			it.hypoInner.Set(cross, hypo)
			it.hypoOuter.Set(cross, hypo+geom.SumAxis(it.margin, cross))
		}
	}
	return nil
}

// calculateFlexBaselines lays out baseline-aligned items to find their first
// baselines. Only row containers align on baselines.
func (t *Tree) calculateFlexBaselines(c *flexContainer, lines []flexLine) error {
	if !c.isRow {
		return nil
	}
	for _, line := range lines {
		if len(line.items) == 1 {
			continue
		}
		for _, it := range line.items {
			if it.align != style.AlignBaseline {
				continue
			}
			avail := geom.Size[AvailableSpace]{Width: Definite(c.inner.Width), Height: MaxContent()}
			if geom.IsNone(c.inner.Width) {
				avail.Width = MaxContent()
			}
			out, err := t.performChildLayout(it.id, it.hypoInner, c.inner, avail, SizingContent, geom.Line[bool]{})
			if err != nil {
				return err
			}
			it.baseline = geom.Or(out.FirstBaselines.Y, it.hypoInner.Height) + it.margin.Top
		}
	}
	return nil
}

func calculateLineCrossSizes(c *flexContainer, known geom.Size[float64], lines []flexLine) {
	cross := c.cross
	insetCross := geom.SumAxis(c.inset, cross)
	if len(lines) == 1 && !c.isWrap && geom.IsSome(known.Get(cross)) {
		lines[0].crossSize = geom.MaybeClamp(known.Get(cross)-insetCross,
			geom.MaybeSub(c.minSize.Get(cross), insetCross),
			geom.MaybeSub(c.maxSize.Get(cross), insetCross))
		return
	}
	for i := range lines {
		line := &lines[i]
		var maxBaseline, maxBelow, maxOuter float64
		for _, it := range line.items {
			outer := it.hypoOuter.Get(cross)
			if c.isRow && it.align == style.AlignBaseline && len(line.items) > 1 && !it.marginAuto.Top && !it.marginAuto.Bottom {
				maxBaseline = math.Max(maxBaseline, it.baseline)
				maxBelow = math.Max(maxBelow, outer-it.baseline)
			} else {
				maxOuter = math.Max(maxOuter, outer)
			}
		}
		line.crossSize = math.Max(maxOuter, maxBaseline+maxBelow)
	}
	if !c.isWrap && len(lines) == 1 {
		lines[0].crossSize = geom.MaybeClamp(lines[0].crossSize,
			geom.MaybeSub(c.minSize.Get(cross), insetCross),
			geom.MaybeSub(c.maxSize.Get(cross), insetCross))
	}
}

// stretchFlexLines grows lines to fill a definite cross size under
// align-content: stretch.
func stretchFlexLines(c *flexContainer, lines []flexLine) {
	if c.alignContent != style.ContentStretch || len(lines) == 0 {
		return
	}
	cross := c.cross
	insetCross := geom.SumAxis(c.inset, cross)
	inner := geom.Or(c.inner.Get(cross), geom.MaybeSub(c.minSize.Get(cross), insetCross))
	if geom.IsNone(inner) {
		return
	}
	total := sumGaps(c.gap.Get(cross), len(lines))
	for _, line := range lines {
		total += line.crossSize
	}
	if total < inner {
		extra := (inner - total) / float64(len(lines))
		for i := range lines {
			lines[i].crossSize += extra
		}
	}
}

func determineUsedCrossSizes(c *flexContainer, lines []flexLine) {
	cross := c.cross
	for _, line := range lines {
		for _, it := range line.items {
			size := it.hypoInner.Get(cross)
			if it.align == style.AlignStretch &&
				!it.marginAuto.Start(cross) && !it.marginAuto.End(cross) &&
				it.st.Size.Get(cross).IsAuto() {
				size = geom.MaybeClamp(line.crossSize-geom.SumAxis(it.margin, cross),
					it.minSize.Get(cross), it.maxSize.Get(cross))
			}
			it.target.Set(cross, size)
			it.outerTarget.Set(cross, size+geom.SumAxis(it.margin, cross))
		}
	}
}

// -- Alignment --

// distributeMainSpace gives leftover main space to auto margins, or failing
// that positions items per justify-content.
func distributeMainSpace(c *flexContainer, lines []flexLine) {
	main := c.main
	gap := c.gap.Get(main)
	reversed := c.dir.IsReverse()
	for _, line := range lines {
		used := sumGaps(gap, len(line.items))
		autoMargins := 0
		for _, it := range line.items {
			used += it.outerTarget.Get(main)
			if it.marginAuto.Start(main) {
				autoMargins++
			}
			if it.marginAuto.End(main) {
				autoMargins++
			}
		}
		free := c.inner.Get(main) - used

		if free > 0 && autoMargins > 0 {
			share := free / float64(autoMargins)
			for _, it := range line.items {
				if it.marginAuto.Start(main) {
					it.margin.SetStart(main, share)
				}
				if it.marginAuto.End(main) {
					it.margin.SetEnd(main, share)
				}
			}
			continue
		}

		start, between := distributeContent(c.justify, free, len(line.items), reversed)
		for i := range line.items {
			it := line.items[i]
			if reversed {
				it = line.items[len(line.items)-1-i]
			}
			if i == 0 {
				it.offsetMain = start
			} else {
				it.offsetMain = gap + between
			}
		}
	}
}

func alignCrossAxis(c *flexContainer, lines []flexLine) {
	cross := c.cross
	for _, line := range lines {
		maxBaseline := 0.0
		for _, it := range line.items {
			maxBaseline = math.Max(maxBaseline, it.baseline)
		}
		for _, it := range line.items {
			free := line.crossSize - it.outerTarget.Get(cross)
			startAuto, endAuto := it.marginAuto.Start(cross), it.marginAuto.End(cross)
			switch {
			case startAuto && endAuto:
				it.margin.SetStart(cross, free/2)
				it.margin.SetEnd(cross, free/2)
			case startAuto:
				it.margin.SetStart(cross, free)
			case endAuto:
				it.margin.SetEnd(cross, free)
			default:
				it.offsetCross = crossOffset(c, it, free, maxBaseline)
			}
		}
	}
}

func crossOffset(c *flexContainer, it *flexItem, free, maxBaseline float64) float64 {
	switch it.align {
	case style.AlignBaseline:
		if c.isRow {
			return maxBaseline - it.baseline
		}
		if c.wrapReverse {
			return free
		}
		return 0
	case style.AlignStretch:
		if c.wrapReverse {
			return free
		}
		return 0
	}
	return alignSelfOffset(it.align, free, c.wrapReverse)
}

func determineContainerCrossSize(c *flexContainer, lines []flexLine) float64 {
	cross := c.cross
	insetCross := geom.SumAxis(c.inset, cross)
	total := 0.0
	for _, line := range lines {
		total += line.crossSize
	}
	outer := geom.Or(c.outer.Get(cross), total+sumGaps(c.gap.Get(cross), len(lines))+insetCross)
	outer = math.Max(geom.MaybeClamp(outer, c.minSize.Get(cross), c.maxSize.Get(cross)), geom.SumAxis(c.box.paddingBorder(), cross))
	c.outer.Set(cross, outer)
	c.inner.Set(cross, outer-insetCross)
	return total
}

func alignFlexLines(c *flexContainer, lines []flexLine, linesCross float64) {
	if len(lines) == 0 {
		return
	}
	gap := c.gap.Get(c.cross)
	free := c.inner.Get(c.cross) - linesCross - sumGaps(gap, len(lines))
	start, between := distributeContent(c.alignContent, free, len(lines), c.wrapReverse)
	for i := range lines {
		idx := i
		if c.wrapReverse {
			idx = len(lines) - 1 - i
		}
		if i == 0 {
			lines[idx].offsetCross = start
		} else {
			lines[idx].offsetCross = gap + between
		}
	}
}

// -- Final Pass --

func (t *Tree) finalFlexPass(c *flexContainer, lines []flexLine) (geom.Size[float64], error) {
	var content geom.Size[float64]
	main, cross := c.main, c.cross
	totalCross := c.inset.Start(cross)

	layoutLine := func(line *flexLine) error {
		totalMain := c.inset.Start(main)
		place := func(it *flexItem) error {
			avail := geom.Size[AvailableSpace]{Width: Definite(c.outer.Width), Height: Definite(c.outer.Height)}
			out, err := t.performChildLayout(it.id, it.target, c.inner, avail, SizingContent, geom.Line[bool]{})
			if err != nil {
				return err
			}
			offMain := totalMain + it.offsetMain + it.margin.Start(main) + relativeOffset(it.inset, main)
			offCross := totalCross + it.offsetCross + line.offsetCross + it.margin.Start(cross) + relativeOffset(it.inset, cross)

			loc := geom.Point[float64]{}
			loc.Set(main, offMain)
			loc.Set(cross, offCross)

			baselineTop := totalCross + it.offsetCross + line.offsetCross + it.margin.Start(cross)
			if c.isRow {
				it.baseline = baselineTop + geom.Or(out.FirstBaselines.Y, out.Size.Height)
			} else {
				it.baseline = loc.Y + geom.Or(out.FirstBaselines.Y, out.Size.Height)
			}

			t.setUnrounded(it.id, Layout{
				Order:         it.order,
				Location:      loc,
				Size:          out.Size,
				ContentSize:   out.ContentSize,
				ScrollbarSize: it.st.ScrollbarGutter(),
				Border:        it.border,
				Padding:       it.padding,
				Margin:        it.margin,
			})
			totalMain += it.offsetMain + geom.SumAxis(it.margin, main) + out.Size.Get(main)
			content = geom.MaxSize(content, contentContribution(loc, out.Size, out.ContentSize, it.st.Overflow))
			return nil
		}
		for i := range line.items {
			it := line.items[i]
			if c.dir.IsReverse() {
				it = line.items[len(line.items)-1-i]
			}
			if err := place(it); err != nil {
				return err
			}
		}
		totalCross += line.offsetCross + line.crossSize
		return nil
	}

	for i := range lines {
		idx := i
		if c.wrapReverse {
			idx = len(lines) - 1 - i
		}
		if err := layoutLine(&lines[idx]); err != nil {
			return content, err
		}
	}

	content.Width += c.box.padding.Right
	content.Height += c.box.padding.Bottom
	return content, nil
}

// flexBaseline is the container's first baseline: that of the first
// baseline-aligned item in the first line, or of its first item.
func flexBaseline(c *flexContainer, lines []flexLine) float64 {
	if len(lines) == 0 || len(lines[0].items) == 0 {
		return math.NaN()
	}
	first := lines[0].items[0]
	for _, it := range lines[0].items {
		if !c.isRow || it.align == style.AlignBaseline {
			first = it
			break
		}
	}
	return first.baseline
}

// absoluteStatic positions an absolutely positioned child with no insets on
// an axis, following justify-content on the main axis and align-self on the
// cross axis.
func (c *flexContainer) absoluteStatic(axis geom.Axis, st *style.Style, size, marginStart, marginEnd float64) float64 {
	start := c.inset.Start(axis)
	end := c.outer.Get(axis) - c.inset.End(axis)
	free := end - start - size - marginStart - marginEnd

	var reversed bool
	var offset float64
	if axis == c.main {
		reversed = c.dir.IsReverse()
		switch c.justify {
		case style.ContentEnd:
			offset = free
		case style.ContentFlexEnd:
			if !reversed {
				offset = free
			}
		case style.ContentFlexStart, style.ContentStretch:
			if reversed {
				offset = free
			}
		case style.ContentCenter, style.ContentSpaceAround, style.ContentSpaceEvenly:
			offset = free / 2
		}
	} else {
		align := resolveSelf(st.AlignSelf, c.alignItems, style.AlignStretch)
		if align == style.AlignStretch || align == style.AlignBaseline {
			align = style.AlignFlexStart
		}
		offset = alignSelfOffset(align, free, c.wrapReverse)
	}
	return start + marginStart + offset
}
