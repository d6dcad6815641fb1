package layout

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidNodeHandle is returned for stale or foreign node handles.
	ErrInvalidNodeHandle = errors.New("invalid node handle")
	// ErrChildAlreadyParented is returned when attaching a node that already has a parent.
	ErrChildAlreadyParented = errors.New("child already has a parent")
	// ErrNodeHasChildren is returned when removing a node that still has children.
	ErrNodeHasChildren = errors.New("node still has children")
	// ErrCycleDetected is returned when an edge would make a node its own descendant.
	ErrCycleDetected = errors.New("cycle detected")
	// ErrMeasurementFailed wraps an error returned by a leaf MeasureFunc.
	ErrMeasurementFailed = errors.New("measurement failed")
	// ErrDepthLimitExceeded is returned when the tree is deeper than the configured limit.
	ErrDepthLimitExceeded = errors.New("depth limit exceeded")
	// ErrChildIndexOutOfBounds is returned by index-based child operations.
	ErrChildIndexOutOfBounds = errors.New("child index out of bounds")
)

// NodeError records the operation and node that failed.
type NodeError struct {
	Op   string
	Node NodeID
	Err  error
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("layout: %s %s: %v", e.Op, e.Node, e.Err)
}

func (e *NodeError) Unwrap() error { return e.Err }

func nodeErr(op string, id NodeID, err error) error {
	return &NodeError{Op: op, Node: id, Err: err}
}

// measureError carries both the sentinel and the caller's error so that
// errors.Is matches either.
type measureError struct {
	cause error
}

func (e *measureError) Error() string {
	return fmt.Sprintf("%v: %v", ErrMeasurementFailed, e.cause)
}

func (e *measureError) Unwrap() []error { return []error{ErrMeasurementFailed, e.cause} }
