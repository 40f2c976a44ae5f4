package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/treekit/tree"
	"github.com/joshuapare/treekit/tree/provider"
)

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadScenario(t *testing.T) {
	path := writeScenario(t, `
name: smoke
seed: 7
tree:
  depth: 3
  branching: 4
  lazyRatio: 0.5
steps:
  - op: expand
  - op: scan
    limit: 100
  - op: range
    offset: 2
    limit: 10
    repeat: 5
`)
	sc, err := LoadScenario(path)
	require.NoError(t, err)
	require.Equal(t, "smoke", sc.Name)
	require.Equal(t, int64(7), sc.Seed)
	require.Equal(t, 3, sc.Tree.Depth)
	require.Len(t, sc.Steps, 3)
	require.Equal(t, 5, sc.Steps[2].Repeat)
}

func TestLoadScenario_RejectsBadShape(t *testing.T) {
	for name, body := range map[string]string{
		"unknown op": "name: x\nsteps:\n  - op: explode\n",
		"bad ratio":  "name: x\ntree:\n  lazyRatio: 1.5\n",
		"bad depth":  "name: x\ntree:\n  depth: -1\n",
	} {
		_, err := LoadScenario(writeScenario(t, body))
		require.Error(t, err, name)
	}
}

func TestApplyStep_InsertsGetUniqueIDs(t *testing.T) {
	eng, err := tree.New(tree.ChildSpec{
		ID: 1, Label: "root",
		Children: []tree.ChildSpec{{ID: 2, Label: "a", Leaf: true}},
	})
	require.NoError(t, err)

	resolvers := provider.NewRegistry(nil)
	st := &runState{report: &RunReport{}}
	for i := 0; i < 3; i++ {
		require.NoError(t, applyStep(eng, resolvers, Step{Op: "insert"}, st))
	}

	// Three inserts landed as three distinct nodes under the root.
	require.NoError(t, eng.Validate())
	require.Equal(t, uint64(3), st.inserts)
	for id := tree.NodeID(1_000_001); id <= 1_000_003; id++ {
		_, err := eng.View(id)
		require.NoError(t, err)
	}
}

func TestGenerator_Deterministic(t *testing.T) {
	shape := TreeShape{Depth: 3, Branching: 3, LazyRatio: 0.4}
	a := newGenerator(shape, 99).Build()
	b := newGenerator(shape, 99).Build()
	require.Equal(t, a, b, "same seed must synthesize the same tree")

	c := newGenerator(shape, 100).Build()
	require.NotEqual(t, a, c, "different seed should diverge")
}

func TestGenerator_LazyNodesResolveOnce(t *testing.T) {
	shape := TreeShape{Depth: 2, Branching: 2, LazyRatio: 1.0}
	gen := newGenerator(shape, 1)
	root := gen.Build()

	// Everything below the root defers: the root's direct children carry
	// hints instead of materialized subtrees.
	require.Len(t, root.Children, 2)
	for _, child := range root.Children {
		require.Empty(t, child.Children)
		require.Equal(t, 2, child.ChildCountHint)

		specs, err := gen.ResolveChildren(child.ID)
		require.NoError(t, err)
		require.Len(t, specs, 2)

		_, err = gen.ResolveChildren(child.ID)
		require.Error(t, err, "a deferred subtree resolves exactly once")
	}
}
