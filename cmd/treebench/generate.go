package main

import (
	"fmt"
	"math/rand"

	"github.com/joshuapare/treekit/tree"
)

// generator synthesizes deterministic trees from a scenario's shape and seed.
// IDs are assigned breadth-first starting at 1 for the root, so scenario
// steps can target stable node numbers across runs.
type generator struct {
	rng    *rand.Rand
	shape  TreeShape
	nextID tree.NodeID
	lazy   map[tree.NodeID]int // lazy node -> depth remaining below it
}

func newGenerator(shape TreeShape, seed int64) *generator {
	return &generator{
		rng:    rand.New(rand.NewSource(seed)),
		shape:  shape,
		nextID: 1,
		lazy:   make(map[tree.NodeID]int),
	}
}

// Build produces the root spec. Nodes chosen as lazy carry no children in
// the payload; their subtrees are synthesized later by ResolveChildren
// under the same deterministic ID sequence.
func (g *generator) Build() tree.ChildSpec {
	return g.buildNode(g.shape.Depth, true)
}

func (g *generator) buildNode(levels int, isRoot bool) tree.ChildSpec {
	id := g.nextID
	g.nextID++
	spec := tree.ChildSpec{
		ID:    id,
		Label: fmt.Sprintf("node-%06d", id),
	}
	if levels == 0 {
		spec.Leaf = true
		return spec
	}
	if !isRoot && g.rng.Float64() < g.shape.LazyRatio {
		// Defer this subtree to the provider.
		g.lazy[id] = levels
		spec.ChildCountHint = g.shape.Branching
		return spec
	}
	spec.Children = make([]tree.ChildSpec, 0, g.shape.Branching)
	for i := 0; i < g.shape.Branching; i++ {
		spec.Children = append(spec.Children, g.buildNode(levels-1, false))
	}
	return spec
}

// ResolveChildren materializes the deferred subtree below a lazy node.
func (g *generator) ResolveChildren(id tree.NodeID) ([]tree.ChildSpec, error) {
	levels, ok := g.lazy[id]
	if !ok {
		return nil, fmt.Errorf("node %d has no deferred subtree", id)
	}
	delete(g.lazy, id)
	children := make([]tree.ChildSpec, 0, g.shape.Branching)
	for i := 0; i < g.shape.Branching; i++ {
		children = append(children, g.buildNode(levels-1, false))
	}
	return children, nil
}
