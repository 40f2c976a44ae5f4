package tree

// -----------------------------------------------------------------------------
// Typed Errors (stable categories for programmatic handling)
// -----------------------------------------------------------------------------

// ErrKind classifies errors so callers can branch on intent rather than text.
type ErrKind int

const (
	ErrKindNotFound ErrKind = iota // missing node
	ErrKindBounds                  // index outside the visible space
	ErrKindStale                   // asynchronous result outlived by a newer epoch
	ErrKindResolve                 // child resolution failed for a single node
	ErrKindState                   // invalid operation for the node's current state
	ErrKindCorrupt                 // store invariant violated; engine is frozen
)

// Error is a typed error with an optional underlying cause.
type Error struct {
	Kind ErrKind
	Msg  string
	Err  error // optional underlying cause
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Sentinels returned by the engine. Compare with errors.Is; wrapped variants
// carry operation context and unwrap to the sentinel.
var (
	// ErrNotFound indicates a NodeID with no record in the store.
	ErrNotFound = &Error{Kind: ErrKindNotFound, Msg: "node not found"}
	// ErrOutOfBounds indicates an index outside [0, TotalVisibleCount).
	ErrOutOfBounds = &Error{Kind: ErrKindBounds, Msg: "index out of visible bounds"}
	// ErrStaleEpoch indicates an asynchronous result discarded because the
	// tree changed while it was in flight.
	ErrStaleEpoch = &Error{Kind: ErrKindStale, Msg: "stale epoch, result discarded"}
	// ErrChildLoad indicates a provider failed to resolve a node's children.
	ErrChildLoad = &Error{Kind: ErrKindResolve, Msg: "child resolution failed"}
	// ErrCycle indicates a move that would make a node its own ancestor.
	ErrCycle = &Error{Kind: ErrKindState, Msg: "move would create a cycle"}
	// ErrChildrenNotMaterialized indicates a structural edit under a parent
	// whose child list is not resolved.
	ErrChildrenNotMaterialized = &Error{Kind: ErrKindState, Msg: "parent children not materialized"}
	// ErrCorrupt indicates non-recoverable structural inconsistency.
	ErrCorrupt = &Error{Kind: ErrKindCorrupt, Msg: "corrupt tree structure"}
	// ErrFrozen indicates the engine detected corruption earlier and now
	// rejects every operation.
	ErrFrozen = &Error{Kind: ErrKindCorrupt, Msg: "engine frozen after corruption"}
)

// wrapErr attaches operation context to a sentinel. The result unwraps to the
// sentinel, so errors.Is comparisons keep working.
func wrapErr(sentinel *Error, msg string) *Error {
	return &Error{Kind: sentinel.Kind, Msg: msg, Err: sentinel}
}

// stateErr builds a one-off ErrKindState error for caller mistakes that have
// no dedicated sentinel.
func stateErr(msg string) *Error {
	return &Error{Kind: ErrKindState, Msg: msg}
}
