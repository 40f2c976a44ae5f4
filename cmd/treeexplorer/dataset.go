package main

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/joshuapare/treekit/tree"
)

// dataset is the synthetic backend: an unbounded lazily generated tree. The
// root and its first level are materialized up front; every deeper subtree
// is deferred and resolved on demand, after a simulated latency, from the
// seed so the same tree reappears on every run.
//
// ResolveChildren runs on the resolver goroutine, so the interior state is
// mutex-guarded.
type dataset struct {
	mu     sync.Mutex
	rng    *rand.Rand
	nextID tree.NodeID
	depths map[tree.NodeID]int
	delay  time.Duration
}

const maxDatasetDepth = 8

func newDataset(seed int64, delay time.Duration) *dataset {
	return &dataset{
		rng:    rand.New(rand.NewSource(seed)),
		nextID: 1,
		depths: make(map[tree.NodeID]int),
		delay:  delay,
	}
}

// Root materializes the root and its first level.
func (d *dataset) Root() tree.ChildSpec {
	d.mu.Lock()
	defer d.mu.Unlock()
	root := tree.ChildSpec{ID: d.allocate(0), Label: "workspace"}
	n := 6 + d.rng.Intn(6)
	for i := 0; i < n; i++ {
		root.Children = append(root.Children, d.child(1))
	}
	return root
}

// ResolveChildren implements provider.Resolver against the synthetic
// backend, honoring context cancellation during the simulated latency.
func (d *dataset) ResolveChildren(ctx context.Context, id tree.NodeID) ([]tree.ChildSpec, error) {
	select {
	case <-time.After(d.delay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	depth, ok := d.depths[id]
	if !ok {
		return nil, fmt.Errorf("unknown node %d", id)
	}

	// A slice of nodes resolve empty, and a few fail, so both terminal
	// child states show up while browsing.
	switch d.rng.Intn(12) {
	case 0:
		return nil, nil
	case 1:
		return nil, fmt.Errorf("backend timeout for node %d", id)
	}

	n := 2 + d.rng.Intn(10)
	children := make([]tree.ChildSpec, 0, n)
	for i := 0; i < n; i++ {
		children = append(children, d.child(depth+1))
	}
	return children, nil
}

func (d *dataset) child(depth int) tree.ChildSpec {
	spec := tree.ChildSpec{
		ID:    d.allocate(depth),
		Label: labelFor(d.rng),
	}
	if depth >= maxDatasetDepth || d.rng.Intn(4) == 0 {
		spec.Leaf = true
	} else {
		spec.ChildCountHint = 2 + d.rng.Intn(10)
	}
	return spec
}

func (d *dataset) allocate(depth int) tree.NodeID {
	id := d.nextID
	d.nextID++
	d.depths[id] = depth
	return id
}

var labelParts = [...]string{
	"alpha", "bravo", "cargo", "delta", "ember", "flint", "gamma", "harbor",
	"index", "jetty", "kappa", "lumen", "meadow", "nova", "onyx", "pylon",
	"quartz", "ridge", "sigma", "tundra",
}

func labelFor(rng *rand.Rand) string {
	return fmt.Sprintf("%s-%s-%02d",
		labelParts[rng.Intn(len(labelParts))],
		labelParts[rng.Intn(len(labelParts))],
		rng.Intn(100))
}
