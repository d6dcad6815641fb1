// File: pkg/layout/grid_tracks.go
package layout

import (
	"math"
	"sort"

	"github.com/xkilldash9x/boxflow/pkg/geom"
	"github.com/xkilldash9x/boxflow/pkg/style"
)

// gridTrack is one row or column during track sizing.
type gridTrack struct {
	min       style.MinTrackSizing
	max       style.MaxTrackSizing
	base      float64
	limit     float64 // Growth limit; +Inf while unbounded
	autoFit   bool    // Generated by repeat(auto-fit)
	collapsed bool
	planned   float64
}

// gridAxis is the track list along one axis.
type gridAxis struct {
	axis     geom.Axis
	tracks   []gridTrack
	origin   int // Track index of origin-zero line 0
	explicit int
	gap      float64

	// Edges of each track relative to the container's border box, filled in
	// after alignment.
	starts, ends []float64
}

// -- Track List Construction --

// fixedTrackSize returns the definite size a track contributes when counting
// auto repetitions: its fixed max if any, else its fixed min.
func fixedTrackSize(ts style.TrackSize, inner float64) float64 {
	if ts.Max.Kind == style.MaxTrackFixed {
		if v := ts.Max.Value.Resolve(inner); geom.IsSome(v) {
			return v
		}
	}
	if ts.Min.Kind == style.MinTrackFixed {
		if v := ts.Min.Value.Resolve(inner); geom.IsSome(v) {
			return v
		}
	}
	return 0
}

// autoRepeatCount is the number of repetitions of an auto-fill or auto-fit
// block that fit the container: the largest count that does not overflow a
// definite size, or the smallest that reaches a definite minimum.
func autoRepeatCount(template []style.TrackSizingFunction, inner, minInner float64, gap float64) int {
	space, atLeast := inner, false
	if geom.IsNone(space) {
		space, atLeast = minInner, true
	}
	if geom.IsNone(space) {
		return 1
	}

	var fixed, repeated float64
	var fixedCount, repeatedCount int
	for _, f := range template {
		switch {
		case f.IsAutoRepetition():
			for _, ts := range f.Tracks {
				repeated += fixedTrackSize(ts, inner)
			}
			repeatedCount += len(f.Tracks)
		case f.Repeat == style.RepetitionCount:
			for _, ts := range f.Tracks {
				fixed += fixedTrackSize(ts, inner) * float64(f.Count)
			}
			fixedCount += len(f.Tracks) * f.Count
		default:
			for _, ts := range f.Tracks {
				fixed += fixedTrackSize(ts, inner)
			}
			fixedCount += len(f.Tracks)
		}
	}
	if repeatedCount == 0 {
		return 1
	}
	step := repeated + gap*float64(repeatedCount)
	if step <= 0 {
		return 1
	}
	total := func(n int) float64 {
		return fixed + repeated*float64(n) + gap*float64(fixedCount+repeatedCount*n-1)
	}

	n := 1
	if atLeast {
		for total(n) < space {
			n++
		}
		return n
	}
	for total(n+1) <= space {
		n++
	}
	return n
}

// expandTemplate flattens a template into single tracks.
func expandTemplate(template []style.TrackSizingFunction, repeatCount int) []gridTrack {
	var out []gridTrack
	for _, f := range template {
		count := 1
		switch f.Repeat {
		case style.RepetitionCount:
			count = max(f.Count, 1)
		case style.RepetitionAutoFill, style.RepetitionAutoFit:
			count = repeatCount
		}
		for i := 0; i < count; i++ {
			for _, ts := range f.Tracks {
				out = append(out, gridTrack{min: ts.Min, max: ts.Max, autoFit: f.Repeat == style.RepetitionAutoFit})
			}
		}
	}
	return out
}

// implicitTrackSize picks the sizing function of an implicit track. Index
// counts away from the explicit grid: 0 is the first track after it, -1 the
// last track before it.
func implicitTrackSize(auto []style.TrackSize, index int) style.TrackSize {
	if len(auto) == 0 {
		return style.TrackAuto()
	}
	n := len(auto)
	return auto[((index%n)+n)%n]
}

// buildAxis creates the full track list once items have been placed.
func buildAxis(a geom.Axis, explicit []gridTrack, auto []style.TrackSize, items []gridItem, gap float64) gridAxis {
	lo, hi := 0, len(explicit)
	for i := range items {
		l := items[i].area.Get(a)
		lo = min(lo, l.Start)
		hi = max(hi, l.End)
	}
	ga := gridAxis{axis: a, origin: -lo, explicit: len(explicit), gap: gap}
	for line := lo; line < hi; line++ {
		if line >= 0 && line < len(explicit) {
			ga.tracks = append(ga.tracks, explicit[line])
			continue
		}
		idx := line - len(explicit)
		if line < 0 {
			idx = line
		}
		ts := implicitTrackSize(auto, idx)
		ga.tracks = append(ga.tracks, gridTrack{min: ts.Min, max: ts.Max})
	}

	// Empty auto-fit tracks collapse.
	for i := range ga.tracks {
		if !ga.tracks[i].autoFit {
			continue
		}
		used := false
		for j := range items {
			l := items[j].area.Get(a)
			if i >= l.Start+ga.origin && i < l.End+ga.origin {
				used = true
				break
			}
		}
		ga.tracks[i].collapsed = !used
	}
	return ga
}

// trackRange returns the track indexes an item spans.
func (ga *gridAxis) trackRange(l geom.Line[int]) (int, int) {
	return l.Start + ga.origin, l.End + ga.origin
}

// gapsWithin sums the gutters between the live tracks of [from, to).
func (ga *gridAxis) gapsWithin(from, to int) float64 {
	live := 0
	for i := from; i < to; i++ {
		if !ga.tracks[i].collapsed {
			live++
		}
	}
	return sumGaps(ga.gap, live)
}

func (ga *gridAxis) liveCount() int {
	n := 0
	for i := range ga.tracks {
		if !ga.tracks[i].collapsed {
			n++
		}
	}
	return n
}

// totalSize is the sum of base sizes plus gutters.
func (ga *gridAxis) totalSize() float64 {
	sum := sumGaps(ga.gap, ga.liveCount())
	for i := range ga.tracks {
		sum += ga.tracks[i].base
	}
	return sum
}

// -- Track Sizing --

func minTrackFixed(m style.MinTrackSizing, inner float64) float64 {
	if m.Kind != style.MinTrackFixed {
		return math.NaN()
	}
	return m.Value.Resolve(inner)
}

func maxTrackFixed(m style.MaxTrackSizing, inner float64) float64 {
	if m.Kind != style.MaxTrackFixed {
		return math.NaN()
	}
	return m.Value.Resolve(inner)
}

// contributionKind selects which item contribution feeds a track.
type contributionKind uint8

const (
	contribMinimum contributionKind = iota
	contribMinContent
	contribMaxContent
)

// minContribKind maps a track's min sizing function to the contribution that
// raises its base size. Unresolvable percentages behave as auto.
func minContribKind(tr *gridTrack, inner float64, space AvailableSpace) (contributionKind, bool) {
	switch tr.min.Kind {
	case style.MinTrackFixed:
		if geom.IsSome(minTrackFixed(tr.min, inner)) {
			return 0, false
		}
	case style.MinTrackMinContent:
		return contribMinContent, true
	case style.MinTrackMaxContent:
		return contribMaxContent, true
	}
	switch space.Kind {
	case SpaceMinContent:
		return contribMinContent, true
	case SpaceMaxContent:
		return contribMaxContent, true
	}
	return contribMinimum, true
}

func maxIsIntrinsic(tr *gridTrack, inner float64) bool {
	switch tr.max.Kind {
	case style.MaxTrackFixed:
		return geom.IsNone(maxTrackFixed(tr.max, inner))
	case style.MaxTrackFraction:
		return false
	}
	return true
}

// sizeTracks runs the track sizing algorithm along one axis: fixed sizes,
// then intrinsic sizes by increasing span, then maximisation, flexible
// tracks and finally stretching of auto tracks.
func (t *Tree) sizeTracks(g *gridContainer, a geom.Axis) error {
	ga := g.axis(a)
	space := g.available.Get(a)
	inner := space.Option()

	for i := range ga.tracks {
		tr := &ga.tracks[i]
		if tr.collapsed {
			tr.base, tr.limit = 0, 0
			continue
		}
		tr.base = geom.Or(minTrackFixed(tr.min, inner), 0)
		tr.limit = math.Inf(1)
		if v := maxTrackFixed(tr.max, inner); geom.IsSome(v) {
			tr.limit = v
		}
		if tr.limit < tr.base {
			tr.limit = tr.base
		}
	}

	if err := t.resolveIntrinsicTracks(g, ga, inner, space); err != nil {
		return err
	}
	for i := range ga.tracks {
		if math.IsInf(ga.tracks[i].limit, 1) {
			ga.tracks[i].limit = ga.tracks[i].base
		}
	}

	maximizeTracks(ga, inner, space)
	if err := t.expandFlexibleTracks(g, ga, inner, space); err != nil {
		return err
	}
	stretchAutoTracks(ga, inner, g.contentAlignment(a))
	return nil
}

func (t *Tree) resolveIntrinsicTracks(g *gridContainer, ga *gridAxis, inner float64, space AvailableSpace) error {
	a := ga.axis
	var multi, flexible []*gridItem
	for i := range g.items {
		it := &g.items[i]
		from, to := ga.trackRange(it.area.Get(a))
		crossesFlex := false
		for k := from; k < to; k++ {
			if ga.tracks[k].max.Kind == style.MaxTrackFraction && !ga.tracks[k].collapsed {
				crossesFlex = true
			}
		}
		switch {
		case crossesFlex:
			flexible = append(flexible, it)
		case to-from > 1:
			multi = append(multi, it)
		default:
			if err := t.sizeSingleSpan(g, ga, it, from, inner, space); err != nil {
				return err
			}
		}
	}

	sort.SliceStable(multi, func(i, j int) bool {
		return multi[i].area.Get(a).End-multi[i].area.Get(a).Start < multi[j].area.Get(a).End-multi[j].area.Get(a).Start
	})
	for start := 0; start < len(multi); {
		span := multi[start].area.Get(a).End - multi[start].area.Get(a).Start
		end := start
		for end < len(multi) && multi[end].area.Get(a).End-multi[end].area.Get(a).Start == span {
			end++
		}
		if err := t.sizeSpanGroup(g, ga, multi[start:end], inner, space); err != nil {
			return err
		}
		start = end
	}

	for _, it := range flexible {
		from, to := ga.trackRange(it.area.Get(a))
		c, err := t.gridContribution(g, it, a, contribMinimum)
		if err != nil {
			return err
		}
		var sum, flexSum float64
		for k := from; k < to; k++ {
			sum += ga.tracks[k].base
			if ga.tracks[k].max.Kind == style.MaxTrackFraction {
				flexSum += ga.tracks[k].max.Flex
			}
		}
		extra := c - sum - ga.gapsWithin(from, to)
		if extra <= 0 {
			continue
		}
		for k := from; k < to; k++ {
			tr := &ga.tracks[k]
			if tr.max.Kind != style.MaxTrackFraction || tr.collapsed {
				continue
			}
			if _, intrinsic := minContribKind(tr, inner, space); !intrinsic {
				continue
			}
			if flexSum > 0 {
				tr.base += extra * tr.max.Flex / flexSum
			}
		}
	}
	return nil
}

func (t *Tree) sizeSingleSpan(g *gridContainer, ga *gridAxis, it *gridItem, k int, inner float64, space AvailableSpace) error {
	a := ga.axis
	tr := &ga.tracks[k]
	if tr.collapsed {
		return nil
	}
	if kind, intrinsic := minContribKind(tr, inner, space); intrinsic {
		c, err := t.gridContribution(g, it, a, kind)
		if err != nil {
			return err
		}
		tr.base = math.Max(tr.base, c)
	}

	var grow float64
	switch tr.max.Kind {
	case style.MaxTrackMinContent:
		c, err := t.gridContribution(g, it, a, contribMinContent)
		if err != nil {
			return err
		}
		grow = c
	case style.MaxTrackFitContent:
		c, err := t.gridContribution(g, it, a, contribMaxContent)
		if err != nil {
			return err
		}
		grow = geom.MaybeMin(c, tr.max.Value.Resolve(inner))
	case style.MaxTrackAuto, style.MaxTrackMaxContent:
		c, err := t.gridContribution(g, it, a, contribMaxContent)
		if err != nil {
			return err
		}
		grow = c
	default:
		if !maxIsIntrinsic(tr, inner) {
			tr.limit = math.Max(tr.limit, tr.base)
			return nil
		}
		c, err := t.gridContribution(g, it, a, contribMaxContent)
		if err != nil {
			return err
		}
		grow = c
	}
	if math.IsInf(tr.limit, 1) {
		tr.limit = grow
	} else {
		tr.limit = math.Max(tr.limit, grow)
	}
	tr.limit = math.Max(tr.limit, tr.base)
	return nil
}

// sizeSpanGroup handles items spanning the same number of tracks. Planned
// increases are computed per item and the largest is applied per track.
func (t *Tree) sizeSpanGroup(g *gridContainer, ga *gridAxis, items []*gridItem, inner float64, space AvailableSpace) error {
	a := ga.axis

	// Base sizes of tracks with intrinsic minimums.
	for i := range ga.tracks {
		ga.tracks[i].planned = 0
	}
	for _, it := range items {
		from, to := ga.trackRange(it.area.Get(a))
		var affected []int
		kind := contribMinimum
		sum := ga.gapsWithin(from, to)
		for k := from; k < to; k++ {
			sum += ga.tracks[k].base
			if ga.tracks[k].collapsed {
				continue
			}
			if kd, intrinsic := minContribKind(&ga.tracks[k], inner, space); intrinsic {
				affected = append(affected, k)
				if kd > kind {
					kind = kd
				}
			}
		}
		if len(affected) == 0 {
			continue
		}
		c, err := t.gridContribution(g, it, a, kind)
		if err != nil {
			return err
		}
		planIncrease(ga, affected, c-sum, func(tr *gridTrack) float64 { return tr.base })
	}
	for i := range ga.tracks {
		tr := &ga.tracks[i]
		tr.base += tr.planned
		if tr.limit < tr.base {
			tr.limit = tr.base
		}
		tr.planned = 0
	}

	// Growth limits of tracks with intrinsic maximums.
	for _, it := range items {
		from, to := ga.trackRange(it.area.Get(a))
		var affected []int
		sum := ga.gapsWithin(from, to)
		for k := from; k < to; k++ {
			tr := &ga.tracks[k]
			sum += finiteLimit(tr)
			if !tr.collapsed && maxIsIntrinsic(tr, inner) {
				affected = append(affected, k)
			}
		}
		if len(affected) == 0 {
			continue
		}
		c, err := t.gridContribution(g, it, a, contribMaxContent)
		if err != nil {
			return err
		}
		planIncrease(ga, affected, c-sum, finiteLimit)
	}
	for i := range ga.tracks {
		tr := &ga.tracks[i]
		if tr.planned > 0 {
			tr.limit = finiteLimit(tr) + tr.planned
		}
		tr.planned = 0
	}
	return nil
}

func finiteLimit(tr *gridTrack) float64 {
	if math.IsInf(tr.limit, 1) {
		return tr.base
	}
	return tr.limit
}

// planIncrease shares extra space equally between the affected tracks,
// first up to each track's growth limit and then without limit, and keeps
// the largest plan per track.
func planIncrease(ga *gridAxis, affected []int, extra float64, size func(*gridTrack) float64) {
	if extra <= 0 {
		return
	}
	share := make(map[int]float64, len(affected))
	remaining := extra
	open := append([]int(nil), affected...)
	for remaining > 1e-9 && len(open) > 0 {
		each := remaining / float64(len(open))
		next := open[:0]
		for _, k := range open {
			tr := &ga.tracks[k]
			room := math.Inf(1)
			if !math.IsInf(tr.limit, 1) {
				room = tr.limit - size(tr) - share[k]
			}
			if room <= 0 {
				continue
			}
			add := math.Min(each, room)
			share[k] += add
			remaining -= add
			if add < room {
				next = append(next, k)
			}
		}
		open = next
	}
	if remaining > 1e-9 {
		each := remaining / float64(len(affected))
		for _, k := range affected {
			share[k] += each
		}
	}
	for k, v := range share {
		ga.tracks[k].planned = math.Max(ga.tracks[k].planned, v)
	}
}

// maximizeTracks grows base sizes toward growth limits using free space.
func maximizeTracks(ga *gridAxis, inner float64, space AvailableSpace) {
	if geom.IsNone(inner) {
		if space.Kind == SpaceMaxContent {
			for i := range ga.tracks {
				ga.tracks[i].base = math.Max(ga.tracks[i].base, ga.tracks[i].limit)
			}
		}
		return
	}
	free := inner - ga.totalSize()
	var open []int
	for i := range ga.tracks {
		if !ga.tracks[i].collapsed && ga.tracks[i].limit > ga.tracks[i].base {
			open = append(open, i)
		}
	}
	for free > 1e-9 && len(open) > 0 {
		each := free / float64(len(open))
		next := open[:0]
		for _, k := range open {
			tr := &ga.tracks[k]
			add := math.Min(each, tr.limit-tr.base)
			tr.base += add
			free -= add
			if tr.limit > tr.base {
				next = append(next, k)
			}
		}
		open = next
	}
}

// findFrSize computes the size of one fr over the given tracks so that the
// flexible ones fill space without shrinking below their base size.
func findFrSize(ga *gridAxis, from, to int, space float64) float64 {
	inflexible := make(map[int]bool)
	for {
		leftover := space - ga.gapsWithin(from, to)
		var flexSum float64
		for k := from; k < to; k++ {
			tr := &ga.tracks[k]
			if tr.collapsed {
				continue
			}
			if tr.max.Kind != style.MaxTrackFraction || inflexible[k] {
				leftover -= tr.base
				continue
			}
			flexSum += tr.max.Flex
		}
		if flexSum < 1 {
			flexSum = 1
		}
		fr := math.Max(leftover/flexSum, 0)
		changed := false
		for k := from; k < to; k++ {
			tr := &ga.tracks[k]
			if tr.collapsed || tr.max.Kind != style.MaxTrackFraction || inflexible[k] {
				continue
			}
			if fr*tr.max.Flex < tr.base {
				inflexible[k] = true
				changed = true
			}
		}
		if !changed {
			return fr
		}
	}
}

func (t *Tree) expandFlexibleTracks(g *gridContainer, ga *gridAxis, inner float64, space AvailableSpace) error {
	hasFlex := false
	for i := range ga.tracks {
		if ga.tracks[i].max.Kind == style.MaxTrackFraction && !ga.tracks[i].collapsed {
			hasFlex = true
		}
	}
	if !hasFlex || space.Kind == SpaceMinContent {
		return nil
	}

	var fr float64
	if geom.IsSome(inner) {
		fr = findFrSize(ga, 0, len(ga.tracks), inner)
	} else {
		for i := range ga.tracks {
			tr := &ga.tracks[i]
			if tr.max.Kind != style.MaxTrackFraction || tr.collapsed {
				continue
			}
			if tr.max.Flex > 1 {
				fr = math.Max(fr, tr.base/tr.max.Flex)
			} else {
				fr = math.Max(fr, tr.base)
			}
		}
		for i := range g.items {
			it := &g.items[i]
			from, to := ga.trackRange(it.area.Get(ga.axis))
			crosses := false
			for k := from; k < to; k++ {
				if ga.tracks[k].max.Kind == style.MaxTrackFraction {
					crosses = true
				}
			}
			if !crosses {
				continue
			}
			c, err := t.gridContribution(g, it, ga.axis, contribMaxContent)
			if err != nil {
				return err
			}
			fr = math.Max(fr, findFrSize(ga, from, to, c))
		}
	}

	for i := range ga.tracks {
		tr := &ga.tracks[i]
		if tr.max.Kind == style.MaxTrackFraction && !tr.collapsed {
			tr.base = math.Max(tr.base, fr*tr.max.Flex)
		}
	}
	return nil
}

// stretchAutoTracks shares leftover definite space between tracks with an
// auto maximum when content alignment is normal or stretch.
func stretchAutoTracks(ga *gridAxis, inner float64, mode style.AlignContent) {
	if geom.IsNone(inner) || (mode != style.ContentNormal && mode != style.ContentStretch) {
		return
	}
	var autos []int
	for i := range ga.tracks {
		if ga.tracks[i].max.Kind == style.MaxTrackAuto && !ga.tracks[i].collapsed {
			autos = append(autos, i)
		}
	}
	free := inner - ga.totalSize()
	if len(autos) == 0 || free <= 0 {
		return
	}
	each := free / float64(len(autos))
	for _, k := range autos {
		ga.tracks[k].base += each
	}
}

// placeTracks records the edges of every track after content alignment.
func (ga *gridAxis) placeTracks(origin, inner float64, mode style.AlignContent) {
	if mode == style.ContentNormal || mode == style.ContentStretch {
		mode = style.ContentStart
	}
	free := 0.0
	if geom.IsSome(inner) {
		free = inner - ga.totalSize()
	}
	start, between := distributeContent(mode, free, ga.liveCount(), false)

	ga.starts = make([]float64, len(ga.tracks))
	ga.ends = make([]float64, len(ga.tracks))
	pos := origin + start
	seen := false
	for i := range ga.tracks {
		tr := &ga.tracks[i]
		if !tr.collapsed {
			if seen {
				pos += ga.gap + between
			}
			seen = true
		}
		ga.starts[i] = pos
		pos += tr.base
		ga.ends[i] = pos
	}
}

// lineEdge returns the position of an origin-zero grid line, clamped to the
// ends of the grid. End lines resolve to the trailing edge of the preceding
// track so that gutters are excluded.
func (ga *gridAxis) lineEdge(line int, end bool) float64 {
	if len(ga.tracks) == 0 {
		return 0
	}
	k := line + ga.origin
	last := len(ga.tracks) - 1
	if end {
		return ga.ends[min(max(k-1, 0), last)]
	}
	return ga.starts[min(max(k, 0), last)]
}

// spanSize is the size of the tracks an item spans, gutters included.
func (ga *gridAxis) spanSize(l geom.Line[int]) float64 {
	from, to := ga.trackRange(l)
	size := ga.gapsWithin(from, to)
	for k := from; k < to; k++ {
		size += ga.tracks[k].base
	}
	return size
}
