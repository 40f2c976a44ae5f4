package tree_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/treekit/internal/testutil"
	"github.com/joshuapare/treekit/tree"
)

func TestRange_CollapsedRootScenario(t *testing.T) {
	eng, err := tree.New(tree.ChildSpec{
		ID: 1, Label: "root",
		Children: []tree.ChildSpec{
			{ID: 2, Label: "a", Leaf: true},
			{ID: 3, Label: "b", Leaf: true},
			{ID: 4, Label: "c", Leaf: true},
		},
	})
	require.NoError(t, err)

	views, err := eng.Range(0, 50)
	require.NoError(t, err)
	require.Equal(t, []string{"root"}, testutil.Labels(views))
	require.Equal(t, 1, eng.TotalVisibleCount())

	testutil.ExpandPath(t, eng, 1)
	views, err = eng.Range(0, 50)
	require.NoError(t, err)
	require.Equal(t, []string{"root", "a", "b", "c"}, testutil.Labels(views))
	require.Equal(t, 4, eng.TotalVisibleCount())

	_, err = eng.Collapse(1)
	require.NoError(t, err)
	views, err = eng.Range(0, 50)
	require.NoError(t, err)
	require.Equal(t, []string{"root"}, testutil.Labels(views))
	require.Equal(t, 1, eng.TotalVisibleCount())
}

func TestRange_NestedOrderAndDepths(t *testing.T) {
	eng, err := tree.New(nestedSpec())
	require.NoError(t, err)
	testutil.ExpandPath(t, eng, 1, 2)

	views, err := eng.Range(0, 10)
	require.NoError(t, err)
	require.Equal(t, []string{"root", "a", "a1", "a2", "b"}, testutil.Labels(views))
	require.Equal(t, []int{0, 1, 2, 2, 1}, testutil.Depths(views))
}

func TestRange_WindowSkipsWholeSubtrees(t *testing.T) {
	eng, err := tree.New(nestedSpec())
	require.NoError(t, err)
	testutil.ExpandPath(t, eng, 1, 2)

	// Window past a's whole subtree.
	views, err := eng.Range(4, 10)
	require.NoError(t, err)
	require.Equal(t, []string{"b"}, testutil.Labels(views))

	// Window straddling the subtree boundary.
	views, err = eng.Range(3, 2)
	require.NoError(t, err)
	require.Equal(t, []string{"a2", "b"}, testutil.Labels(views))

	// Limit cuts the window short.
	views, err = eng.Range(1, 2)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "a1"}, testutil.Labels(views))
}

func TestRange_HugeLimitReturnsRemainder(t *testing.T) {
	eng, err := tree.New(nestedSpec())
	require.NoError(t, err)
	testutil.ExpandPath(t, eng, 1, 2)

	// A limit near the int ceiling must behave like "everything from
	// offset", not wrap around into an empty window.
	views, err := eng.Range(1, math.MaxInt)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "a1", "a2", "b"}, testutil.Labels(views))

	views, err = eng.Range(0, math.MaxInt)
	require.NoError(t, err)
	require.Len(t, views, eng.TotalVisibleCount())
}

func TestRange_Bounds(t *testing.T) {
	eng, err := tree.New(nestedSpec())
	require.NoError(t, err)
	testutil.ExpandPath(t, eng, 1)

	for _, tc := range []struct {
		name          string
		offset, limit int
	}{
		{"negative offset", -1, 10},
		{"offset at total", 3, 10},
		{"offset past total", 50, 10},
		{"zero limit", 0, 0},
		{"negative limit", 0, -5},
	} {
		views, err := eng.Range(tc.offset, tc.limit)
		require.NoError(t, err, tc.name)
		require.Empty(t, views, tc.name)
	}
}

func TestRange_WideTreePagination(t *testing.T) {
	const width = 500
	eng, err := tree.New(testutil.WideSpec(width))
	require.NoError(t, err)
	testutil.ExpandPath(t, eng, 1)
	require.Equal(t, width+1, eng.TotalVisibleCount())

	var collected []tree.NodeID
	for offset := 0; offset < width+1; offset += 64 {
		views, err := eng.Range(offset, 64)
		require.NoError(t, err)
		collected = append(collected, testutil.IDs(views)...)
	}
	require.Len(t, collected, width+1)

	// Pages stitch together into the exact visible order.
	for i, id := range collected {
		require.Equal(t, i, eng.IndexOfNode(id), "page position %d", i)
	}
}

func TestView_IndependentOfVisibility(t *testing.T) {
	eng, err := tree.New(nestedSpec())
	require.NoError(t, err)

	// a1 is hidden (root and a collapsed) but still projectable.
	view, err := eng.View(3)
	require.NoError(t, err)
	require.Equal(t, "a1", view.Label)
	require.Equal(t, 2, view.Depth)
	require.False(t, view.Expanded)
	require.False(t, view.HasChildren)

	_, err = eng.View(999)
	require.Error(t, err)
}
