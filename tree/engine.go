package tree

// Engine is the single public surface over the node store, the index
// resolver, the subtree-size propagator, the visibility controller, the
// range query collector and the mutation operations.
//
// An Engine is owned by exactly one goroutine (conceptually a background
// worker). All methods must be called from that owner; consumers on other
// threads interact only through NodeID values and NodeView copies routed
// back as intents. There is no internal locking.
type Engine struct {
	store *store
	epoch Epoch
	hooks Hooks

	// failure is set once when structural corruption is detected. From then
	// on every operation fails fast instead of touching a possibly
	// inconsistent store.
	failure error
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithHooks installs telemetry hooks. Hooks are observational only and must
// never affect results; the default discards everything.
func WithHooks(h Hooks) Option {
	return func(e *Engine) {
		if h != nil {
			e.hooks = h
		}
	}
}

// New builds an engine around a root node. The root spec may carry a whole
// initial subtree in Children; everything starts collapsed.
func New(root ChildSpec, opts ...Option) (*Engine, error) {
	e := &Engine{
		store: newStore(),
		hooks: NopHooks{},
	}
	for _, opt := range opts {
		opt(e)
	}
	if err := e.createSubtree(root, 0, false, 0); err != nil {
		return nil, err
	}
	return e, nil
}

// Epoch returns the current mutation epoch. Capture it before starting an
// asynchronous child resolution and compare on completion; a difference
// means the result is stale and must be discarded.
func (e *Engine) Epoch() Epoch {
	return e.epoch
}

// Err returns the corruption that froze the engine, or nil while healthy.
func (e *Engine) Err() error {
	return e.failure
}

// guard rejects every operation once the engine is frozen.
func (e *Engine) guard() error {
	if e.failure != nil {
		return &Error{Kind: ErrKindCorrupt, Msg: ErrFrozen.Msg, Err: ErrFrozen}
	}
	return nil
}

// freeze records a detected invariant violation and puts the engine in the
// terminal frozen state. Corruption is never silently absorbed.
func (e *Engine) freeze(violation *Error) *Error {
	if e.failure == nil {
		e.failure = violation
	}
	return violation
}

// bump advances the epoch by exactly one completed structural change.
func (e *Engine) bump() {
	e.epoch++
}

// lookup fetches a record or reports ErrNotFound with the offending ID.
func (e *Engine) lookup(id NodeID) (*node, *Error) {
	n, ok := e.store.get(id)
	if !ok {
		return nil, wrapErr(ErrNotFound, "no node with the given id")
	}
	return n, nil
}

// createSubtree materializes a spec (and any nested children) into the
// store. The payload is validated in full before anything is inserted, so a
// bad spec never leaves partial state behind. Worklist-based so arbitrarily
// deep payloads cannot exhaust the goroutine stack.
func (e *Engine) createSubtree(spec ChildSpec, parent NodeID, hasParent bool, depth int) error {
	if hasParent {
		if _, ok := e.store.get(parent); !ok {
			return wrapErr(ErrNotFound, "parent for subtree creation")
		}
	} else if e.store.hasRoot {
		// Single-root invariant, enforced here rather than in the store.
		return stateErr("second root insertion rejected")
	}

	if err := e.validatePayload([]ChildSpec{spec}); err != nil {
		return err
	}
	e.insertSubtree(spec, parent, hasParent, depth)
	return nil
}

// validatePayload checks a resolution/creation payload in full before any
// record is inserted: every ID must be new against the store and unique
// within the payload. A bad payload never leaves partial state behind.
func (e *Engine) validatePayload(specs []ChildSpec) *Error {
	seen := make(map[NodeID]struct{})
	pending := append([]ChildSpec(nil), specs...)
	for len(pending) > 0 {
		s := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		if e.store.has(s.ID) {
			return stateErr("node id already present in store")
		}
		if _, dup := seen[s.ID]; dup {
			return stateErr("duplicate node id in child payload")
		}
		seen[s.ID] = struct{}{}
		pending = append(pending, s.Children...)
	}
	return nil
}

// insertSubtree materializes a pre-validated spec and its nested children.
func (e *Engine) insertSubtree(spec ChildSpec, parent NodeID, hasParent bool, depth int) {
	type item struct {
		spec      ChildSpec
		parent    NodeID
		hasParent bool
		depth     int
	}
	work := []item{{spec, parent, hasParent, depth}}
	for len(work) > 0 {
		it := work[len(work)-1]
		work = work[:len(work)-1]

		n := newNode(it.spec, it.parent, it.hasParent, it.depth)
		e.store.set(n)

		for _, childSpec := range it.spec.Children {
			n.children = append(n.children, childSpec.ID)
			work = append(work, item{childSpec, n.id, true, it.depth + 1})
		}
	}
}
