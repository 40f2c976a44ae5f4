// Package tree implements a flat-projection engine over a logical tree of
// unbounded size. The tree itself is never handed to a consumer; instead the
// engine exposes the nodes reachable through expanded ancestors as a single
// addressable sequence, the visible space, and answers windowed
// (offset, limit) range queries over it.
//
// # Overview
//
// Every node caches the size of its visible subtree. Those sizes form an
// implicit prefix-sum tree, which buys the two costs the engine guarantees:
//
//   - index <-> node resolution in O(depth x branching), O(log n) for
//     typical UI trees, never O(n)
//   - expand/collapse updates touching exactly the node and its ancestors
//
// Children can be materialized lazily: a node starts ChildUnresolved, an
// expand intent moves it to ChildLoading, and an asynchronous provider
// delivers the child records later via CompleteExpand. In-flight loads are
// guarded by the mutation epoch (a counter advanced once per structural
// change), so a result that arrives after the tree moved on is discarded
// instead of applied. This epoch check is the engine's only cancellation
// mechanism, and awaiting a provider is its only suspension point.
//
// # Key Types
//
//   - Engine: the facade composing store, resolver, propagator, visibility
//     controller, range collector and mutations
//   - NodeID: stable, opaque node handle assigned by the host
//   - ChildSpec: creation payload for construction, inserts and providers
//   - NodeView: immutable per-node projection handed to consumers
//   - Epoch: the optimistic-concurrency token for asynchronous loads
//
// # Quick Start
//
//	eng, err := tree.New(tree.ChildSpec{
//		ID:    1,
//		Label: "root",
//		Children: []tree.ChildSpec{
//			{ID: 2, Label: "a"},
//			{ID: 3, Label: "b", Leaf: true},
//		},
//	})
//	if err != nil {
//		return err
//	}
//	eng.Expand(1)
//	views, _ := eng.Range(0, 50) // [root, a, b]
//
// # Error Handling
//
// Recoverable failures (unknown nodes, out-of-range indices, stale
// asynchronous results, per-node load failures) are scoped to the operation
// that caused them and never unwind further: a failed child load only flags
// that node's view. Detected structural corruption is terminal: the engine
// freezes and every subsequent call fails fast rather than touching an
// inconsistent store.
//
// # Thread Safety
//
// An Engine is single-writer: one owner goroutine calls every method.
// Consumers on other goroutines receive only NodeID values and NodeView
// copies, never references into the store, so they need no synchronization
// of their own. See the tree/provider package for the epoch-guarded glue
// that drives asynchronous child resolution.
package tree
