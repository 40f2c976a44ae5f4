package tree

// Structural mutation operations. Every successful mutation finishes by
// recalculating the affected parent(s) and advances the epoch exactly once;
// failed mutations change nothing, including the epoch.

// InsertNode creates a node (optionally a whole subtree via the spec's
// Children) under parentID, spliced into the child list at index. A
// negative or past-the-end index appends. A ChildEmpty parent gaining its
// first child transitions to ChildResolved; parents whose child list is not
// materialized (unresolved, loading, error) reject the insert.
func (e *Engine) InsertNode(parentID NodeID, spec ChildSpec, index int) error {
	if gerr := e.guard(); gerr != nil {
		return gerr
	}
	parent, lerr := e.lookup(parentID)
	if lerr != nil {
		return lerr
	}
	if parent.state != ChildResolved && parent.state != ChildEmpty {
		return wrapErr(ErrChildrenNotMaterialized, "insert under unmaterialized parent")
	}
	if verr := e.validatePayload([]ChildSpec{spec}); verr != nil {
		return verr
	}

	before := e.TotalVisibleCount()
	e.insertSubtree(spec, parentID, true, parent.depth+1)
	if parent.state == ChildEmpty {
		parent.state = ChildResolved
		parent.children = make([]NodeID, 0, 1)
	}
	spliceChild(parent, spec.ID, index)
	if serr := e.recalculateAndPropagate(parent); serr != nil {
		return serr
	}
	e.bump()
	e.noteVisible(before)
	return nil
}

// RemoveNode detaches a node from its parent and deletes its entire subtree
// from the store, returning the number of deleted records. Removing the
// root or an unknown node is a no-op returning 0.
func (e *Engine) RemoveNode(id NodeID) (int, error) {
	if gerr := e.guard(); gerr != nil {
		return 0, gerr
	}
	n, ok := e.store.get(id)
	if !ok || !n.hasParent {
		return 0, nil
	}
	parent, lerr := e.lookup(n.parent)
	if lerr != nil {
		return 0, e.freeze(&Error{
			Kind: ErrKindCorrupt,
			Msg:  "dangling parent reference during removal",
			Err:  ErrCorrupt,
		})
	}
	if derr := e.detachChild(parent, id); derr != nil {
		return 0, derr
	}

	before := e.TotalVisibleCount()
	deleted := e.deleteSubtree(n)
	if serr := e.recalculateAndPropagate(parent); serr != nil {
		return 0, serr
	}
	e.bump()
	e.noteVisible(before)
	return deleted, nil
}

// MoveNode reparents a node (and its subtree) under newParentID at index.
// Moving the root is rejected, as is any move where the target parent sits
// inside the moved subtree (the cycle guard walks the target's ancestors up
// to the root looking for the moved node). Depths across the moved subtree
// are rewritten by the delta between old and new position.
func (e *Engine) MoveNode(id NodeID, newParentID NodeID, index int) error {
	if gerr := e.guard(); gerr != nil {
		return gerr
	}
	n, lerr := e.lookup(id)
	if lerr != nil {
		return lerr
	}
	if !n.hasParent {
		return stateErr("cannot move the root")
	}
	newParent, lerr := e.lookup(newParentID)
	if lerr != nil {
		return lerr
	}
	if cerr := e.checkCycle(id, newParent); cerr != nil {
		return cerr
	}
	if newParent.state != ChildResolved && newParent.state != ChildEmpty {
		return wrapErr(ErrChildrenNotMaterialized, "move under unmaterialized parent")
	}
	oldParent, lerr := e.lookup(n.parent)
	if lerr != nil {
		return e.freeze(&Error{
			Kind: ErrKindCorrupt,
			Msg:  "dangling parent reference during move",
			Err:  ErrCorrupt,
		})
	}

	before := e.TotalVisibleCount()
	if derr := e.detachChild(oldParent, id); derr != nil {
		return derr
	}
	if serr := e.recalculateAndPropagate(oldParent); serr != nil {
		return serr
	}

	if newParent.state == ChildEmpty {
		newParent.state = ChildResolved
		newParent.children = make([]NodeID, 0, 1)
	}
	spliceChild(newParent, id, index)
	n.parent = newParentID

	if delta := newParent.depth + 1 - n.depth; delta != 0 {
		e.shiftDepths(n, delta)
	}
	if serr := e.recalculateAndPropagate(newParent); serr != nil {
		return serr
	}
	e.bump()
	e.noteVisible(before)
	return nil
}

// ReorderChildren replaces a parent's child order with newOrder, which must
// be a permutation of the existing child set. Membership is unchanged, so
// no size recalculation is needed. Reordering into the identical order is a
// no-op and leaves the epoch untouched.
func (e *Engine) ReorderChildren(parentID NodeID, newOrder []NodeID) error {
	if gerr := e.guard(); gerr != nil {
		return gerr
	}
	parent, lerr := e.lookup(parentID)
	if lerr != nil {
		return lerr
	}
	if parent.state != ChildResolved {
		return wrapErr(ErrChildrenNotMaterialized, "reorder under unmaterialized parent")
	}
	if len(newOrder) != len(parent.children) {
		return stateErr("reorder is not a permutation: length mismatch")
	}
	existing := make(map[NodeID]struct{}, len(parent.children))
	for _, childID := range parent.children {
		existing[childID] = struct{}{}
	}
	identical := true
	for i, childID := range newOrder {
		if _, ok := existing[childID]; !ok {
			return stateErr("reorder is not a permutation: unknown or repeated child")
		}
		delete(existing, childID)
		if parent.children[i] != childID {
			identical = false
		}
	}
	if identical {
		return nil
	}
	parent.children = append(parent.children[:0], newOrder...)
	e.bump()
	return nil
}

// checkCycle rejects a move that would make id its own ancestor. The walk
// starts at the target parent and climbs to the root.
func (e *Engine) checkCycle(id NodeID, target *node) *Error {
	steps := 0
	limit := e.store.size()
	for {
		if target.id == id {
			return wrapErr(ErrCycle, "target parent lies inside the moved subtree")
		}
		if !target.hasParent {
			return nil
		}
		next, ok := e.store.get(target.parent)
		if !ok {
			return e.freeze(&Error{
				Kind: ErrKindCorrupt,
				Msg:  "dangling parent reference during cycle check",
				Err:  ErrCorrupt,
			})
		}
		target = next
		if steps++; steps > limit {
			return e.freeze(&Error{
				Kind: ErrKindCorrupt,
				Msg:  "ancestor chain exceeds store size (cycle)",
				Err:  ErrCorrupt,
			})
		}
	}
}

// detachChild removes id from parent's child list. The node not being in
// its own parent's list is parent/child asymmetry, which is fatal.
func (e *Engine) detachChild(parent *node, id NodeID) *Error {
	for i, childID := range parent.children {
		if childID == id {
			parent.children = append(parent.children[:i], parent.children[i+1:]...)
			return nil
		}
	}
	return e.freeze(&Error{
		Kind: ErrKindCorrupt,
		Msg:  "node missing from its parent's child list",
		Err:  ErrCorrupt,
	})
}

// spliceChild inserts id into parent's child list at index, appending when
// index is negative or past the end.
func spliceChild(parent *node, id NodeID, index int) {
	if index < 0 || index >= len(parent.children) {
		parent.children = append(parent.children, id)
		return
	}
	parent.children = append(parent.children, 0)
	copy(parent.children[index+1:], parent.children[index:])
	parent.children[index] = id
}

// deleteSubtree removes n and every descendant from the store, returning
// the count. Worklist-based; unresolved nodes have no materialized children
// and so nothing below them to delete.
func (e *Engine) deleteSubtree(n *node) int {
	deleted := 0
	work := []*node{n}
	for len(work) > 0 {
		cur := work[len(work)-1]
		work = work[:len(work)-1]
		for _, childID := range cur.children {
			if child, ok := e.store.get(childID); ok {
				work = append(work, child)
			}
		}
		e.store.delete(cur.id)
		deleted++
	}
	return deleted
}

// shiftDepths rewrites depth across a moved subtree by delta.
func (e *Engine) shiftDepths(n *node, delta int) {
	work := []*node{n}
	for len(work) > 0 {
		cur := work[len(work)-1]
		work = work[:len(work)-1]
		cur.depth += delta
		for _, childID := range cur.children {
			if child, ok := e.store.get(childID); ok {
				work = append(work, child)
			}
		}
	}
}
