package tree

import "time"

// Range materializes the visible nodes in [offset, offset+limit) as
// immutable views, in visible order.
//
// The collector runs one depth-first walk with an explicit stack and a
// running global index. Subtrees wholly before the window are skipped in
// O(1) each using their cached size; once the index reaches the window's
// end the walk aborts. Cost is proportional to the window plus the subtree
// boundaries straddling it, never to total tree size.
//
// Out-of-range offsets and non-positive limits yield an empty result
// without traversing a single node.
func (e *Engine) Range(offset, limit int) ([]NodeView, error) {
	if err := e.guard(); err != nil {
		return nil, err
	}
	start := time.Now()
	views, err := e.collectRange(offset, limit)
	e.hooks.RangeQueried(offset, limit, len(views), time.Since(start))
	if err != nil {
		return nil, err
	}
	return views, nil
}

func (e *Engine) collectRange(offset, limit int) ([]NodeView, *Error) {
	root, ok := e.store.rootNode()
	if !ok {
		return nil, nil
	}
	if offset < 0 || offset >= root.size || limit <= 0 {
		return nil, nil
	}

	// Clamp to the visible remainder so offset+limit cannot overflow.
	if limit > root.size-offset {
		limit = root.size - offset
	}
	end := offset + limit
	views := make([]NodeView, 0, limit)

	// Stack of nodes still to visit, each paired with the global index of
	// its first visible slot. Children are pushed in reverse so they pop in
	// visible order.
	type frame struct {
		n     *node
		index int
	}
	stack := []frame{{root, 0}}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if f.index >= end {
			// Everything still on the stack starts even later.
			break
		}
		if f.index+f.n.size <= offset {
			// Whole subtree before the window; skipped without descent.
			continue
		}

		if f.index >= offset {
			views = append(views, viewOf(f.n))
			if len(views) == limit {
				break
			}
		}

		if !f.n.expanded || !f.n.childrenResolved() {
			continue
		}
		childIndex := f.index + 1
		frames := make([]frame, 0, len(f.n.children))
		for _, childID := range f.n.children {
			child, ok := e.store.get(childID)
			if !ok {
				return nil, e.freeze(&Error{
					Kind: ErrKindCorrupt,
					Msg:  "child list references a node missing from the store",
					Err:  ErrCorrupt,
				})
			}
			frames = append(frames, frame{child, childIndex})
			childIndex += child.size
		}
		for i := len(frames) - 1; i >= 0; i-- {
			stack = append(stack, frames[i])
		}
	}
	return views, nil
}

// TotalVisibleCount returns the number of nodes currently in visible space.
// O(1): it is the root's cached subtree size.
func (e *Engine) TotalVisibleCount() int {
	root, ok := e.store.rootNode()
	if !ok {
		return 0
	}
	return root.size
}

// View projects a single node, independent of its visibility. O(1).
func (e *Engine) View(id NodeID) (NodeView, error) {
	if err := e.guard(); err != nil {
		return NodeView{}, err
	}
	n, lerr := e.lookup(id)
	if lerr != nil {
		return NodeView{}, lerr
	}
	return viewOf(n), nil
}

// noteVisible fires the visible-count hook when an operation moved the
// total. Callers pass the pre-operation count.
func (e *Engine) noteVisible(before int) {
	if after := e.TotalVisibleCount(); after != before {
		e.hooks.VisibleCountChanged(after)
	}
}
