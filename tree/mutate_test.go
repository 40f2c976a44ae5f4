package tree_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/treekit/internal/testutil"
	"github.com/joshuapare/treekit/tree"
)

func TestInsertNode_VisibleUnderExpandedParent(t *testing.T) {
	eng, err := tree.New(nestedSpec())
	require.NoError(t, err)
	testutil.ExpandPath(t, eng, 1)
	require.Equal(t, 3, eng.TotalVisibleCount())

	// Splice "new" between a and b.
	require.NoError(t, eng.InsertNode(1, tree.ChildSpec{ID: 6, Label: "new", Leaf: true}, 1))
	require.Equal(t, 4, eng.TotalVisibleCount())

	views, err := eng.Range(0, 10)
	require.NoError(t, err)
	require.Equal(t, []string{"root", "a", "new", "b"}, testutil.Labels(views))
	testutil.RequireValid(t, eng)
}

func TestInsertNode_AppendOnOutOfRangeIndex(t *testing.T) {
	eng, err := tree.New(nestedSpec())
	require.NoError(t, err)
	testutil.ExpandPath(t, eng, 1)

	require.NoError(t, eng.InsertNode(1, tree.ChildSpec{ID: 6, Label: "tail", Leaf: true}, 100))
	require.NoError(t, eng.InsertNode(1, tree.ChildSpec{ID: 7, Label: "tail2", Leaf: true}, -1))

	views, err := eng.Range(0, 10)
	require.NoError(t, err)
	require.Equal(t, []string{"root", "a", "b", "tail", "tail2"}, testutil.Labels(views))
	testutil.RequireValid(t, eng)
}

func TestInsertNode_WholeSubtree(t *testing.T) {
	eng, err := tree.New(nestedSpec())
	require.NoError(t, err)
	testutil.ExpandPath(t, eng, 1)

	err = eng.InsertNode(1, tree.ChildSpec{
		ID: 10, Label: "sub",
		Children: []tree.ChildSpec{
			{ID: 11, Label: "sub1", Leaf: true},
			{ID: 12, Label: "sub2", Leaf: true},
		},
	}, 0)
	require.NoError(t, err)

	// The inserted subtree arrives collapsed: one visible slot.
	require.Equal(t, 4, eng.TotalVisibleCount())
	testutil.ExpandPath(t, eng, 10)
	require.Equal(t, 6, eng.TotalVisibleCount())
	testutil.RequireValid(t, eng)
}

func TestInsertNode_EmptyParentBecomesResolved(t *testing.T) {
	eng, err := tree.New(tree.ChildSpec{
		ID: 1, Label: "root",
		Children: []tree.ChildSpec{{ID: 2, Label: "leafy", Leaf: true}},
	})
	require.NoError(t, err)
	testutil.ExpandPath(t, eng, 1)

	view, err := eng.View(2)
	require.NoError(t, err)
	require.False(t, view.HasChildren)

	require.NoError(t, eng.InsertNode(2, tree.ChildSpec{ID: 3, Label: "born", Leaf: true}, 0))

	view, err = eng.View(2)
	require.NoError(t, err)
	require.True(t, view.HasChildren)
	require.True(t, eng.CanExpand(2))
	testutil.RequireValid(t, eng)
}

func TestInsertNode_RejectsUnmaterializedParent(t *testing.T) {
	eng, err := tree.New(tree.ChildSpec{
		ID: 1, Label: "root",
		Children: []tree.ChildSpec{{ID: 2, Label: "lazy"}},
	})
	require.NoError(t, err)
	epoch := eng.Epoch()

	err = eng.InsertNode(2, tree.ChildSpec{ID: 3, Label: "x", Leaf: true}, 0)
	require.Error(t, err)
	require.True(t, errors.Is(err, tree.ErrChildrenNotMaterialized))
	require.Equal(t, epoch, eng.Epoch())
}

func TestInsertNode_RejectsDuplicateID(t *testing.T) {
	eng, err := tree.New(nestedSpec())
	require.NoError(t, err)
	epoch := eng.Epoch()

	err = eng.InsertNode(1, tree.ChildSpec{ID: 3, Label: "dup", Leaf: true}, 0)
	require.Error(t, err)
	require.Equal(t, epoch, eng.Epoch())
	testutil.RequireValid(t, eng)
}

func TestRemoveNode_DeletesWholeSubtree(t *testing.T) {
	eng, err := tree.New(nestedSpec())
	require.NoError(t, err)
	testutil.ExpandPath(t, eng, 1, 2)
	require.Equal(t, 5, eng.TotalVisibleCount())

	deleted, err := eng.RemoveNode(2)
	require.NoError(t, err)
	require.Equal(t, 3, deleted, "a plus both its children")
	require.Equal(t, 2, eng.TotalVisibleCount())

	_, err = eng.View(3)
	require.Error(t, err)
	testutil.RequireValid(t, eng)
}

func TestRemoveNode_RootAndUnknownAreNoOps(t *testing.T) {
	eng, err := tree.New(nestedSpec())
	require.NoError(t, err)
	epoch := eng.Epoch()

	deleted, err := eng.RemoveNode(1)
	require.NoError(t, err)
	require.Zero(t, deleted)

	deleted, err = eng.RemoveNode(999)
	require.NoError(t, err)
	require.Zero(t, deleted)
	require.Equal(t, epoch, eng.Epoch())
}

func TestMoveNode_ReparentsAndRewritesDepth(t *testing.T) {
	eng, err := tree.New(nestedSpec())
	require.NoError(t, err)
	testutil.ExpandPath(t, eng, 1, 2)

	// Move b under a: depths below a shift by +1.
	require.NoError(t, eng.MoveNode(5, 2, -1))

	views, err := eng.Range(0, 10)
	require.NoError(t, err)
	require.Equal(t, []string{"root", "a", "a1", "a2", "b"}, testutil.Labels(views))
	require.Equal(t, []int{0, 1, 2, 2, 2}, testutil.Depths(views))
	testutil.RequireValid(t, eng)
}

func TestMoveNode_SubtreeDepthShift(t *testing.T) {
	eng, err := tree.New(nestedSpec())
	require.NoError(t, err)
	testutil.ExpandPath(t, eng, 1, 2)

	// b is a leaf with an empty (materialized) child list, so it accepts
	// the whole of a's subtree.
	require.NoError(t, eng.MoveNode(2, 5, 0))
	testutil.ExpandPath(t, eng, 5)

	views, err := eng.Range(0, 10)
	require.NoError(t, err)
	require.Equal(t, []string{"root", "b", "a", "a1", "a2"}, testutil.Labels(views))
	require.Equal(t, []int{0, 1, 2, 3, 3}, testutil.Depths(views))
	testutil.RequireValid(t, eng)
}

func TestMoveNode_RejectsCycle(t *testing.T) {
	eng, err := tree.New(nestedSpec())
	require.NoError(t, err)
	testutil.ExpandPath(t, eng, 1, 2)
	epoch := eng.Epoch()

	// a1 sits inside a's subtree; moving a under it would orphan the lot.
	err = eng.MoveNode(2, 3, 0)
	require.Error(t, err)
	require.True(t, errors.Is(err, tree.ErrCycle))
	require.Equal(t, epoch, eng.Epoch(), "rejected move must not change state")

	// Self-parenting is the degenerate cycle.
	err = eng.MoveNode(2, 2, 0)
	require.Error(t, err)
	require.True(t, errors.Is(err, tree.ErrCycle))

	views, err := eng.Range(0, 10)
	require.NoError(t, err)
	require.Equal(t, []string{"root", "a", "a1", "a2", "b"}, testutil.Labels(views))
	testutil.RequireValid(t, eng)
}

func TestMoveNode_RejectsRoot(t *testing.T) {
	eng, err := tree.New(nestedSpec())
	require.NoError(t, err)
	epoch := eng.Epoch()

	err = eng.MoveNode(1, 2, 0)
	require.Error(t, err)
	require.Equal(t, epoch, eng.Epoch())
}

func TestReorderChildren(t *testing.T) {
	eng, err := tree.New(nestedSpec())
	require.NoError(t, err)
	testutil.ExpandPath(t, eng, 1)

	require.NoError(t, eng.ReorderChildren(1, []tree.NodeID{5, 2}))
	views, err := eng.Range(0, 10)
	require.NoError(t, err)
	require.Equal(t, []string{"root", "b", "a"}, testutil.Labels(views))

	// Identical order: accepted, but no epoch movement.
	epoch := eng.Epoch()
	require.NoError(t, eng.ReorderChildren(1, []tree.NodeID{5, 2}))
	require.Equal(t, epoch, eng.Epoch())
	testutil.RequireValid(t, eng)
}

func TestReorderChildren_RejectsNonPermutations(t *testing.T) {
	eng, err := tree.New(nestedSpec())
	require.NoError(t, err)
	epoch := eng.Epoch()

	require.Error(t, eng.ReorderChildren(1, []tree.NodeID{2}), "length mismatch")
	require.Error(t, eng.ReorderChildren(1, []tree.NodeID{2, 999}), "foreign id")
	require.Error(t, eng.ReorderChildren(1, []tree.NodeID{2, 2}), "repeated id")
	require.Equal(t, epoch, eng.Epoch())
}

func TestMutations_AdvanceEpochOncePerChange(t *testing.T) {
	eng, err := tree.New(nestedSpec())
	require.NoError(t, err)
	start := eng.Epoch()

	require.NoError(t, eng.InsertNode(1, tree.ChildSpec{ID: 6, Label: "n", Leaf: true}, -1))
	require.Equal(t, start+1, eng.Epoch())

	require.NoError(t, eng.MoveNode(6, 2, 0))
	require.Equal(t, start+2, eng.Epoch())

	_, err = eng.RemoveNode(6)
	require.NoError(t, err)
	require.Equal(t, start+3, eng.Epoch())
}
