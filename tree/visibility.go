package tree

// The visibility controller: the expand/collapse state machine and the
// terminal step of the asynchronous child-resolution lifecycle.

// Expand marks a node expanded. The returned needsLoad flag tells the host
// that the node's children are not materialized and a provider must be run;
// the node sits in ChildLoading (size still 1) until CompleteExpand lands.
//
// Expanding an already-expanded node is a no-op success and leaves the epoch
// untouched. Expanding an unknown node fails without any state change.
func (e *Engine) Expand(id NodeID) (needsLoad bool, err error) {
	if gerr := e.guard(); gerr != nil {
		return false, gerr
	}
	n, lerr := e.lookup(id)
	if lerr != nil {
		return false, lerr
	}
	if n.expanded {
		return false, nil
	}

	before := e.TotalVisibleCount()
	switch n.state {
	case ChildUnresolved, ChildError, ChildLoading:
		// UNRESOLVED -> LOADING on first attempt, ERROR -> LOADING on
		// retry. A node collapsed mid-load re-enters LOADING under the new
		// epoch; the older in-flight result is void by then.
		n.state = ChildLoading
		n.expanded = true
		needsLoad = true
	case ChildEmpty:
		n.expanded = true
	case ChildResolved:
		n.expanded = true
		if serr := e.recalculateAndPropagate(n); serr != nil {
			return false, serr
		}
	}
	e.bump()
	e.noteVisible(before)
	return needsLoad, nil
}

// Collapse hides a node's subtree. Returns false without touching state or
// epoch when the node is missing or already collapsed. Collapsing never
// discards materialized children, so re-expanding is cheap.
func (e *Engine) Collapse(id NodeID) (bool, error) {
	if gerr := e.guard(); gerr != nil {
		return false, gerr
	}
	n, ok := e.store.get(id)
	if !ok || !n.expanded {
		return false, nil
	}

	before := e.TotalVisibleCount()
	n.expanded = false
	if serr := e.recalculateAndPropagate(n); serr != nil {
		return false, serr
	}
	e.bump()
	e.noteVisible(before)
	return true, nil
}

// Toggle dispatches to Expand or Collapse based on the node's current state.
func (e *Engine) Toggle(id NodeID) (needsLoad bool, err error) {
	if gerr := e.guard(); gerr != nil {
		return false, gerr
	}
	n, lerr := e.lookup(id)
	if lerr != nil {
		return false, lerr
	}
	if n.expanded {
		_, cerr := e.Collapse(id)
		return false, cerr
	}
	return e.Expand(id)
}

// CanExpand reports whether Expand(id) would change anything. Pure
// predicate, no side effects; meant for gating UI affordances.
func (e *Engine) CanExpand(id NodeID) bool {
	if e.failure != nil {
		return false
	}
	n, ok := e.store.get(id)
	return ok && !n.expanded
}

// CanCollapse is the collapsed-side counterpart of CanExpand.
func (e *Engine) CanCollapse(id NodeID) bool {
	if e.failure != nil {
		return false
	}
	n, ok := e.store.get(id)
	return ok && n.expanded
}

// NeedsChildLoading reports whether the node's children still have to be
// materialized by a provider before its subtree can become visible.
func (e *Engine) NeedsChildLoading(id NodeID) bool {
	if e.failure != nil {
		return false
	}
	n, ok := e.store.get(id)
	if !ok {
		return false
	}
	return n.state == ChildUnresolved || n.state == ChildLoading
}

// CompleteExpand is the terminal step of the ChildLoading state, called by
// the host (or the provider glue) once an asynchronous resolution finishes.
//
// With a non-nil resolveErr the node lands in ChildError but stays expanded,
// so the error surfaces in its view; the failure is localized to this one
// node. An empty payload lands in ChildEmpty. Otherwise the child records
// are inserted into the store and the node becomes ChildResolved with its
// subtree visible.
func (e *Engine) CompleteExpand(id NodeID, children []ChildSpec, resolveErr error) error {
	if gerr := e.guard(); gerr != nil {
		return gerr
	}
	n, lerr := e.lookup(id)
	if lerr != nil {
		return lerr
	}
	if n.state != ChildLoading {
		return stateErr("no child resolution in flight for node")
	}

	before := e.TotalVisibleCount()
	switch {
	case resolveErr != nil:
		n.state = ChildError
		n.expanded = true
	case len(children) == 0:
		n.state = ChildEmpty
		n.expanded = true
	default:
		if verr := e.validatePayload(children); verr != nil {
			return verr
		}
		ids := make([]NodeID, 0, len(children))
		for _, spec := range children {
			e.insertSubtree(spec, n.id, true, n.depth+1)
			ids = append(ids, spec.ID)
		}
		n.children = ids
		n.state = ChildResolved
		n.expanded = true
		if serr := e.recalculateAndPropagate(n); serr != nil {
			return serr
		}
	}
	e.bump()
	e.hooks.ChildLoadCompleted(id, len(children), resolveErr)
	e.noteVisible(before)
	return nil
}
