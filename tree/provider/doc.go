// Package provider implements the children-provider boundary of the
// projection engine: a registry of per-node (or fallback) resolvers and the
// epoch-guarded glue that turns a resolver's asynchronous result into a
// CompleteExpand call, or discards it as stale when the tree changed while
// the resolution was in flight.
//
// The registry never crosses a thread boundary; only NodeID values and
// ChildSpec payloads do. Registration is mutex-guarded so hosts can wire
// resolvers up from wherever is convenient, but Trigger and Complete mutate
// the engine and must run on its owner goroutine.
package provider
