// File: pkg/layout/cache.go
package layout

import "math"

// DefaultCacheSlots is the number of measure results kept per node.
const DefaultCacheSlots = 8

// canonicalNaN gives every absent length the same bit pattern so keys compare equal.
var canonicalNaN = math.Float64bits(math.NaN())

func floatKey(v float64) uint64 {
	if math.IsNaN(v) {
		return canonicalNaN
	}
	if v == 0 {
		return 0 // fold -0 into +0
	}
	return math.Float64bits(v)
}

// cacheKey is the constraint signature of a layout request. Two requests with
// equal keys produce identical outputs.
type cacheKey struct {
	knownW, knownH   uint64
	parentW, parentH uint64
	availW, availH   uint64
	kindW, kindH     SpaceKind
	sizing           SizingMode
	collapseTop      bool
	collapseBottom   bool
}

func keyFor(in layoutInput) cacheKey {
	return cacheKey{
		knownW:         floatKey(in.Known.Width),
		knownH:         floatKey(in.Known.Height),
		parentW:        floatKey(in.ParentSize.Width),
		parentH:        floatKey(in.ParentSize.Height),
		availW:         floatKey(in.Available.Width.Option()),
		availH:         floatKey(in.Available.Height.Option()),
		kindW:          in.Available.Width.Kind,
		kindH:          in.Available.Height.Kind,
		sizing:         in.SizingMode,
		collapseTop:    in.VerticalMargin.Start,
		collapseBottom: in.VerticalMargin.End,
	}
}

type cacheEntry struct {
	key    cacheKey
	output layoutOutput
	used   uint64
	valid  bool
}

// Cache memoizes layout outputs for one node. Measure results live in a small
// LRU table; the final layout has a single slot because the stored layouts of
// the node's children always belong to its most recent final layout.
type Cache struct {
	measure []cacheEntry
	final   cacheEntry
	tick    uint64
}

func newCache(slots int) Cache {
	return Cache{measure: make([]cacheEntry, slots)}
}

// clone copies the cache so that a journal snapshot is not aliased by later writes.
func (c *Cache) clone() Cache {
	out := *c
	out.measure = append([]cacheEntry(nil), c.measure...)
	return out
}

// Lookup returns a memoized output for the request, if any.
func (c *Cache) Lookup(in layoutInput) (layoutOutput, bool) {
	key := keyFor(in)
	if in.RunMode == RunPerformLayout {
		if c.final.valid && c.final.key == key {
			c.tick++
			c.final.used = c.tick
			return c.final.output, true
		}
		return layoutOutput{}, false
	}
	for i := range c.measure {
		e := &c.measure[i]
		if e.valid && e.key == key {
			c.tick++
			e.used = c.tick
			return e.output, true
		}
	}
	// A final layout under the same constraints has the same size.
	if c.final.valid && c.final.key == key {
		return c.final.output, true
	}
	return layoutOutput{}, false
}

// Store records an output, evicting the least recently used measure entry.
func (c *Cache) Store(in layoutInput, out layoutOutput) {
	c.tick++
	entry := cacheEntry{key: keyFor(in), output: out, used: c.tick, valid: true}
	if in.RunMode == RunPerformLayout {
		c.final = entry
		return
	}
	if len(c.measure) == 0 {
		return
	}
	victim := 0
	for i := range c.measure {
		e := &c.measure[i]
		if !e.valid || e.key == entry.key {
			victim = i
			break
		}
		if e.used < c.measure[victim].used {
			victim = i
		}
	}
	c.measure[victim] = entry
}

// Clear drops every entry. It reports whether anything was dropped.
func (c *Cache) Clear() bool {
	had := c.final.valid
	c.final = cacheEntry{}
	for i := range c.measure {
		had = had || c.measure[i].valid
		c.measure[i] = cacheEntry{}
	}
	return had
}

// IsEmpty reports whether no entry is valid.
func (c *Cache) IsEmpty() bool {
	if c.final.valid {
		return false
	}
	for i := range c.measure {
		if c.measure[i].valid {
			return false
		}
	}
	return true
}

// Len returns the number of valid measure entries.
func (c *Cache) Len() int {
	n := 0
	for i := range c.measure {
		if c.measure[i].valid {
			n++
		}
	}
	return n
}
