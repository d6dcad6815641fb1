package layout

import "go.uber.org/zap"

// DefaultMaxDepth bounds the recursion depth of a layout computation.
const DefaultMaxDepth = 256

// Option configures a Tree.
type Option func(*Tree)

// WithLogger sets the logger used for computation-level diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(t *Tree) {
		if logger != nil {
			t.logger = logger.Named("layout")
		}
	}
}

// WithMaxDepth limits how deep a computed tree may be. Deeper trees fail with
// ErrDepthLimitExceeded instead of exhausting the stack.
func WithMaxDepth(depth int) Option {
	return func(t *Tree) {
		if depth > 0 {
			t.maxDepth = depth
		}
	}
}

// WithCacheSlots sets how many measure results are memoized per node.
func WithCacheSlots(slots int) Option {
	return func(t *Tree) {
		if slots > 0 {
			t.cacheSlots = slots
		}
	}
}

// WithRounding toggles pixel snapping of final layouts.
func WithRounding(enabled bool) Option {
	return func(t *Tree) { t.rounding = enabled }
}

// WithCacheDisabled turns memoization off. Outputs are unchanged; only the
// amount of work differs.
func WithCacheDisabled(disabled bool) Option {
	return func(t *Tree) { t.cacheDisabled = disabled }
}
