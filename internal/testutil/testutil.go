// Package testutil holds shared fixtures and assertions for the engine's
// test suites.
package testutil

import (
	"fmt"
	"testing"

	"github.com/joshuapare/treekit/tree"
)

// RequireValid fails the test when the store violates any structural
// invariant. Call it after every sequence of operations under test.
func RequireValid(t *testing.T, eng *tree.Engine) {
	t.Helper()
	if err := eng.Validate(); err != nil {
		t.Fatalf("tree invariants violated:\n%v", err)
	}
}

// Labels projects the Label column out of a view window.
func Labels(views []tree.NodeView) []string {
	out := make([]string, len(views))
	for i, v := range views {
		out[i] = v.Label
	}
	return out
}

// Depths projects the Depth column out of a view window.
func Depths(views []tree.NodeView) []int {
	out := make([]int, len(views))
	for i, v := range views {
		out[i] = v.Depth
	}
	return out
}

// IDs projects the ID column out of a view window.
func IDs(views []tree.NodeView) []tree.NodeID {
	out := make([]tree.NodeID, len(views))
	for i, v := range views {
		out[i] = v.ID
	}
	return out
}

// WideSpec builds a root with n unresolved children, labeled "child-0001"
// upward. IDs are 1 for the root and 2..n+1 for the children.
func WideSpec(n int) tree.ChildSpec {
	children := make([]tree.ChildSpec, n)
	for i := range children {
		children[i] = tree.ChildSpec{
			ID:    tree.NodeID(i + 2),
			Label: fmt.Sprintf("child-%04d", i),
		}
	}
	return tree.ChildSpec{ID: 1, Label: "root", Children: children}
}

// ChainSpec builds a single path of the given depth (depth edges, depth+1
// nodes). IDs run 1..depth+1 from root to leaf.
func ChainSpec(depth int) tree.ChildSpec {
	spec := tree.ChildSpec{
		ID:    tree.NodeID(depth + 1),
		Label: fmt.Sprintf("level-%d", depth),
		Leaf:  true,
	}
	for level := depth - 1; level >= 0; level-- {
		spec = tree.ChildSpec{
			ID:       tree.NodeID(level + 1),
			Label:    fmt.Sprintf("level-%d", level),
			Children: []tree.ChildSpec{spec},
		}
	}
	return spec
}

// ExpandPath expands every listed node in order, failing on unexpected
// needs-load signals (the fixtures above materialize children up front).
func ExpandPath(t *testing.T, eng *tree.Engine, ids ...tree.NodeID) {
	t.Helper()
	for _, id := range ids {
		needsLoad, err := eng.Expand(id)
		if err != nil {
			t.Fatalf("expand %d: %v", id, err)
		}
		if needsLoad {
			t.Fatalf("expand %d: unexpected needs-load for materialized fixture", id)
		}
	}
}
