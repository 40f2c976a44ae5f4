package tree

import "time"

// Hooks receives telemetry around the engine's hot paths. Implementations
// are purely observational: they must never block for long, never mutate the
// engine, and never affect results. Correctness does not depend on them.
//
// See the treemetrics package for a prometheus-backed implementation.
type Hooks interface {
	// RangeQueried fires after every Range call, successful or not.
	RangeQueried(offset, limit, returned int, elapsed time.Duration)

	// VisibleCountChanged fires when an operation moved the total number of
	// visible nodes.
	VisibleCountChanged(total int)

	// IndexResolved fires after every ResolveIndex call.
	IndexResolved(elapsed time.Duration, ok bool)

	// ChildLoadCompleted fires when CompleteExpand lands, with the number
	// of children delivered and the resolution error, if any.
	ChildLoadCompleted(id NodeID, children int, err error)
}

// NopHooks discards all telemetry. It is the default.
type NopHooks struct{}

func (NopHooks) RangeQueried(int, int, int, time.Duration) {}
func (NopHooks) VisibleCountChanged(int)                   {}
func (NopHooks) IndexResolved(time.Duration, bool)         {}
func (NopHooks) ChildLoadCompleted(NodeID, int, error)     {}
