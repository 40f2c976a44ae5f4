package tree

import (
	"errors"
	"fmt"
)

// Validate audits the whole store against the structural invariants:
//
//   - exactly one root, acyclic parent chains
//   - depth == parent.depth + 1 everywhere below the root
//   - children materialized iff ChildResolved, and parent/child symmetry
//   - visibleSubtreeSize == 1 for collapsed/unresolved nodes, and
//     1 + sum(child sizes) for expanded resolved nodes
//
// It is a diagnostic for tests and harnesses, not a hot-path check, and it
// reports every violation it finds joined into one error. A healthy tree
// returns nil. Validate never mutates state and never freezes the engine
// itself; hosts that see a non-nil result should stop trusting the store.
func (e *Engine) Validate() error {
	var problems []error
	roots := 0
	e.store.values(func(n *node) {
		if !n.hasParent {
			roots++
			if n.depth != 0 {
				problems = append(problems, fmt.Errorf("node %d: root with depth %d", n.id, n.depth))
			}
			if e.store.hasRoot && e.store.root != n.id {
				problems = append(problems, fmt.Errorf("node %d: parentless but not the root", n.id))
			}
		} else {
			parent, ok := e.store.get(n.parent)
			if !ok {
				problems = append(problems, fmt.Errorf("node %d: dangling parent %d", n.id, n.parent))
				return
			}
			if n.depth != parent.depth+1 {
				problems = append(problems, fmt.Errorf("node %d: depth %d, parent depth %d", n.id, n.depth, parent.depth))
			}
			if !childOf(parent, n.id) {
				problems = append(problems, fmt.Errorf("node %d: missing from parent %d child list", n.id, n.parent))
			}
		}

		if (n.children != nil) != (n.state == ChildResolved) {
			problems = append(problems, fmt.Errorf("node %d: child list presence disagrees with state %s", n.id, n.state))
		}

		want := 1
		if n.expanded && n.childrenResolved() {
			for _, childID := range n.children {
				child, ok := e.store.get(childID)
				if !ok {
					problems = append(problems, fmt.Errorf("node %d: child %d missing from store", n.id, childID))
					continue
				}
				want += child.size
				if child.parent != n.id || !child.hasParent {
					problems = append(problems, fmt.Errorf("node %d: child %d points at a different parent", n.id, childID))
				}
			}
		}
		if n.size != want {
			problems = append(problems, fmt.Errorf("node %d: visible subtree size %d, want %d", n.id, n.size, want))
		}
	})
	if roots != 1 && e.store.size() > 0 {
		problems = append(problems, fmt.Errorf("store has %d parentless nodes, want exactly 1", roots))
	}

	// Acyclicity: climbing from any node must reach the root within the
	// store size.
	limit := e.store.size()
	e.store.values(func(n *node) {
		steps := 0
		cur := n
		for cur.hasParent {
			next, ok := e.store.get(cur.parent)
			if !ok {
				return // already reported above
			}
			cur = next
			if steps++; steps > limit {
				problems = append(problems, fmt.Errorf("node %d: ancestor chain does not terminate", n.id))
				return
			}
		}
	})

	return errors.Join(problems...)
}

func childOf(parent *node, id NodeID) bool {
	for _, childID := range parent.children {
		if childID == id {
			return true
		}
	}
	return false
}
