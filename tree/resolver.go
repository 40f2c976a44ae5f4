package tree

import "time"

// ResolveIndex maps a global visible-space index to the node occupying it,
// returning the node's ID and depth.
//
// The visible projection is addressed through the cached subtree sizes as an
// implicit prefix-sum tree: starting at the root, one unit is spent on the
// current node, then the children are scanned in order, skipping each whole
// child subtree by its size until the remaining index falls inside one.
// Collapsed and unresolved nodes act as leaves of size 1 no matter how many
// children they really have. Cost is O(depth x branching).
//
// Out-of-range indices return ErrOutOfBounds without traversing anything. A
// remaining index that no child covers is a resolver invariant violation,
// reported as corruption (and freezing the engine), never as a bounds miss.
func (e *Engine) ResolveIndex(index int) (NodeID, int, error) {
	if err := e.guard(); err != nil {
		return 0, 0, err
	}
	start := time.Now()
	id, depth, err := e.resolveIndex(index)
	e.hooks.IndexResolved(time.Since(start), err == nil)
	if err != nil {
		return 0, 0, err
	}
	return id, depth, nil
}

func (e *Engine) resolveIndex(index int) (NodeID, int, *Error) {
	root, ok := e.store.rootNode()
	if !ok {
		return 0, 0, wrapErr(ErrNotFound, "empty tree")
	}
	if index < 0 || index >= root.size {
		return 0, 0, wrapErr(ErrOutOfBounds, "index outside visible projection")
	}

	current := root
	remaining := index
	for {
		if remaining == 0 {
			return current.id, current.depth, nil
		}
		// One slot for the current node itself.
		remaining--

		if !current.expanded || !current.childrenResolved() {
			// A size-1 leaf cannot cover a positive remainder; the sizes
			// above it lied.
			return 0, 0, e.freeze(&Error{
				Kind: ErrKindCorrupt,
				Msg:  "resolver descended into a leaf with index remaining",
				Err:  ErrCorrupt,
			})
		}

		descended := false
		for _, childID := range current.children {
			child, ok := e.store.get(childID)
			if !ok {
				return 0, 0, e.freeze(&Error{
					Kind: ErrKindCorrupt,
					Msg:  "child list references a node missing from the store",
					Err:  ErrCorrupt,
				})
			}
			if remaining < child.size {
				current = child
				descended = true
				break
			}
			remaining -= child.size
		}
		if !descended {
			// The children together cover size-1 slots; running out means
			// the cached sizes are inconsistent.
			return 0, 0, e.freeze(&Error{
				Kind: ErrKindCorrupt,
				Msg:  "visible index not covered by any child subtree",
				Err:  ErrCorrupt,
			})
		}
	}
}

// IndexOfNode is the reverse lookup: the node's position in visible space,
// or -1 when the node is missing or hidden under a collapsed ancestor.
//
// The walk goes from the node to the root. Each parent step contributes one
// slot for the parent itself plus the subtree sizes of all siblings that
// precede the step's child in the parent's order.
func (e *Engine) IndexOfNode(id NodeID) int {
	if e.failure != nil {
		return -1
	}
	n, ok := e.store.get(id)
	if !ok {
		return -1
	}

	index := 0
	steps := 0
	limit := e.store.size()
	for n.hasParent {
		parent, ok := e.store.get(n.parent)
		if !ok || !parent.expanded || !parent.childrenResolved() {
			// Dangling parents freeze elsewhere; here the node is simply
			// not visible.
			return -1
		}
		index++ // the parent occupies the slot before its first child
		found := false
		for _, siblingID := range parent.children {
			if siblingID == n.id {
				found = true
				break
			}
			sibling, ok := e.store.get(siblingID)
			if !ok {
				return -1
			}
			index += sibling.size
		}
		if !found {
			// Not in its own parent's child list: parent/child asymmetry.
			e.freeze(&Error{
				Kind: ErrKindCorrupt,
				Msg:  "node missing from its parent's child list",
				Err:  ErrCorrupt,
			})
			return -1
		}
		n = parent
		if steps++; steps > limit {
			e.freeze(&Error{
				Kind: ErrKindCorrupt,
				Msg:  "ancestor chain exceeds store size (cycle)",
				Err:  ErrCorrupt,
			})
			return -1
		}
	}
	return index
}
