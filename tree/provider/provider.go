package provider

import (
	"context"
	"sync"

	"github.com/joshuapare/treekit/tree"
)

// Resolver materializes the children of one node. Implementations may block
// (network, disk, IPC); they are always invoked with a context and should
// honor its cancellation.
type Resolver interface {
	ResolveChildren(ctx context.Context, id tree.NodeID) ([]tree.ChildSpec, error)
}

// ResolverFunc adapts a plain function to the Resolver interface.
type ResolverFunc func(ctx context.Context, id tree.NodeID) ([]tree.ChildSpec, error)

func (f ResolverFunc) ResolveChildren(ctx context.Context, id tree.NodeID) ([]tree.ChildSpec, error) {
	return f(ctx, id)
}

// Registry maps nodes to resolvers, with an optional fallback used for any
// node without a dedicated entry. Registration is safe to drive from a
// goroutine other than the engine owner; Trigger is not, since it mutates
// the engine and belongs on the owner.
type Registry struct {
	mu       sync.RWMutex
	fallback Resolver
	perNode  map[tree.NodeID]Resolver
}

// NewRegistry builds an empty registry. fallback may be nil, in which case
// nodes without a dedicated resolver complete with zero children.
func NewRegistry(fallback Resolver) *Registry {
	return &Registry{
		fallback: fallback,
		perNode:  make(map[tree.NodeID]Resolver),
	}
}

// Register installs a resolver for one node, replacing any previous one.
func (r *Registry) Register(id tree.NodeID, res Resolver) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.perNode[id] = res
}

// Unregister removes a node's dedicated resolver.
func (r *Registry) Unregister(id tree.NodeID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.perNode, id)
}

// Lookup returns the resolver that would serve the node: its dedicated one,
// else the fallback, else nil.
func (r *Registry) Lookup(id tree.NodeID) Resolver {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if res, ok := r.perNode[id]; ok {
		return res
	}
	return r.fallback
}

// Trigger runs the full resolution protocol for a node the engine reported
// as needing a load:
//
//  1. capture the current epoch
//  2. resolve the children (the one asynchronous suspension point)
//  3. re-read the epoch; a mismatch means the tree changed meaningfully
//     while the resolution was in flight: the result is discarded, no
//     partial state is applied, and tree.ErrStaleEpoch is returned
//  4. on a matching epoch, hand the payload to CompleteExpand
//
// A resolver error is not returned from Trigger as a failure of the
// protocol: it is forwarded into CompleteExpand, which localizes it to the
// one node (ChildError, flagged view). With no resolver available the node
// completes with zero children and lands in ChildEmpty.
//
// Trigger must run on the engine's owner goroutine. Hosts that resolve on a
// different goroutine should run steps 1-2 there and route the payload back
// to the owner, then finish with Complete.
func (r *Registry) Trigger(ctx context.Context, eng *tree.Engine, id tree.NodeID) error {
	captured := eng.Epoch()
	res := r.Lookup(id)
	if res == nil {
		return eng.CompleteExpand(id, nil, nil)
	}
	children, resolveErr := res.ResolveChildren(ctx, id)
	return Complete(eng, id, captured, children, resolveErr)
}

// Complete applies an already-resolved payload under the epoch captured
// when resolution started. Split out of Trigger so hosts that await
// resolvers elsewhere can still get the staleness check and the localized
// error handling when the result comes home.
func Complete(eng *tree.Engine, id tree.NodeID, captured tree.Epoch, children []tree.ChildSpec, resolveErr error) error {
	if eng.Epoch() != captured {
		return &tree.Error{
			Kind: tree.ErrKindStale,
			Msg:  "tree changed during child resolution",
			Err:  tree.ErrStaleEpoch,
		}
	}
	return eng.CompleteExpand(id, children, resolveErr)
}
