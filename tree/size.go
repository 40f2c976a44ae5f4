package tree

// The subtree-size propagator. recalculate and propagate are the only path
// by which a visibility or structure change reaches ancestor sizes; neither
// ever walks more than the node's own children plus its ancestor chain, which
// keeps every visibility update at O(depth + branching).

// visibleSize computes what a node's visible subtree size should be from its
// own state and its direct children. Descendant sizes are trusted, not
// re-derived.
func (e *Engine) visibleSize(n *node) (int, *Error) {
	if !n.expanded || !n.childrenResolved() {
		return 1, nil
	}
	total := 1
	for _, childID := range n.children {
		child, ok := e.store.get(childID)
		if !ok {
			return 0, e.freeze(&Error{
				Kind: ErrKindCorrupt,
				Msg:  "child list references a node missing from the store",
				Err:  ErrCorrupt,
			})
		}
		total += child.size
	}
	return total, nil
}

// recalculate resets a node's size from its children and returns the delta
// against the previous value.
func (e *Engine) recalculate(n *node) (int, *Error) {
	size, err := e.visibleSize(n)
	if err != nil {
		return 0, err
	}
	delta := size - n.size
	n.size = size
	return delta, nil
}

// propagate adds delta to every ancestor of n, root included. A zero delta
// is a no-op. The walk is bounded by the store size; exceeding it means the
// parent chain loops, which is fatal corruption.
func (e *Engine) propagate(n *node, delta int) *Error {
	if delta == 0 {
		return nil
	}
	steps := 0
	limit := e.store.size()
	for n.hasParent {
		parent, ok := e.store.get(n.parent)
		if !ok {
			return e.freeze(&Error{
				Kind: ErrKindCorrupt,
				Msg:  "dangling parent reference during propagation",
				Err:  ErrCorrupt,
			})
		}
		// A collapsed (or unresolved) ancestor contributes a fixed size of
		// 1 to its own parent, so the delta stops there.
		if !parent.expanded || !parent.childrenResolved() {
			return nil
		}
		parent.size += delta
		n = parent
		if steps++; steps > limit {
			return e.freeze(&Error{
				Kind: ErrKindCorrupt,
				Msg:  "ancestor chain exceeds store size (cycle)",
				Err:  ErrCorrupt,
			})
		}
	}
	return nil
}

// recalculateAndPropagate recomputes a node's size and pushes the difference
// up the ancestor chain.
func (e *Engine) recalculateAndPropagate(n *node) *Error {
	delta, err := e.recalculate(n)
	if err != nil {
		return err
	}
	return e.propagate(n, delta)
}
