package tree

import (
	"fmt"

	"golang.org/x/text/unicode/norm"
)

// NodeID is a small, copyable handle referring to one node record. IDs are
// assigned by the host (or its providers), are globally stable for the life
// of the node, and are never derived from path or position.
type NodeID uint64

// Epoch is the mutation epoch: a counter incremented exactly once per
// completed structural change (a visibility toggle or a mutation batch).
// It is the engine's optimistic-concurrency token for in-flight child loads.
type Epoch uint64

// ChildState tracks the resolution lifecycle of a node's children.
//
// Legal transitions:
//
//	ChildUnresolved -> ChildLoading  (expand attempt)
//	ChildLoading    -> ChildResolved (children arrived, non-empty)
//	ChildLoading    -> ChildEmpty    (children arrived, empty)
//	ChildLoading    -> ChildError    (resolution failed)
//	ChildError      -> ChildLoading  (retry via re-expand)
//	ChildEmpty      -> ChildResolved (first child inserted structurally)
type ChildState uint8

const (
	// ChildUnresolved means the node's children have never been materialized.
	ChildUnresolved ChildState = iota
	// ChildLoading means a resolution is in flight for this node.
	ChildLoading
	// ChildResolved means the child list is materialized in the store.
	ChildResolved
	// ChildEmpty means resolution completed and the node has no children.
	ChildEmpty
	// ChildError means the last resolution attempt failed.
	ChildError
)

// String implements the Stringer interface for ChildState.
func (s ChildState) String() string {
	switch s {
	case ChildUnresolved:
		return "UNRESOLVED"
	case ChildLoading:
		return "LOADING"
	case ChildResolved:
		return "RESOLVED"
	case ChildEmpty:
		return "EMPTY"
	case ChildError:
		return "ERROR"
	default:
		return fmt.Sprintf("UNKNOWN_STATE_%d", uint8(s))
	}
}

// ChildSpec describes one node to be created, either at construction time,
// via InsertNode, or as a provider's resolution payload.
//
// The created record's child state follows the spec shape:
//   - Children non-empty: ChildResolved, with the subtree created recursively
//   - Leaf true: ChildEmpty (known to have no children)
//   - otherwise: ChildUnresolved (children materialized on demand)
type ChildSpec struct {
	ID    NodeID
	Label string

	// Leaf marks the node as having no children at all.
	Leaf bool

	// ChildCountHint is a display hint for unresolved nodes; it never
	// drives traversal.
	ChildCountHint int

	// Children, when non-empty, supplies the node's subtree up front.
	Children []ChildSpec
}

// node is the mutable record held in the store. It is never handed to
// consumers; projections go out as NodeView value copies.
type node struct {
	id        NodeID
	parent    NodeID
	hasParent bool // false only for the root
	state     ChildState
	children  []NodeID // non-nil iff state == ChildResolved
	childHint int
	expanded  bool
	size      int // visible subtree size, >= 1
	depth     int
	label     string
}

// newNode builds a record from a spec. Size starts at 1; the caller runs the
// propagator once the record is linked in.
func newNode(spec ChildSpec, parent NodeID, hasParent bool, depth int) *node {
	n := &node{
		id:        spec.ID,
		parent:    parent,
		hasParent: hasParent,
		state:     ChildUnresolved,
		childHint: spec.ChildCountHint,
		size:      1,
		depth:     depth,
		label:     norm.NFC.String(spec.Label),
	}
	switch {
	case len(spec.Children) > 0:
		n.state = ChildResolved
		n.children = make([]NodeID, 0, len(spec.Children))
	case spec.Leaf:
		n.state = ChildEmpty
	}
	return n
}

// childrenResolved reports whether the node's child list is materialized.
func (n *node) childrenResolved() bool {
	return n.state == ChildResolved
}

// hasChildren reports whether the node should advertise children to the
// consumer: unresolved and loading nodes might have some, resolved nodes
// have some iff the list is non-empty.
func (n *node) hasChildren() bool {
	switch n.state {
	case ChildUnresolved, ChildLoading:
		return true
	case ChildResolved:
		return len(n.children) > 0
	default:
		return false
	}
}
