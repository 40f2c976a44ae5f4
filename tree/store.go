package tree

// store is the O(1) keyed node storage. It owns the root pointer but does not
// police the single-root invariant itself; the engine rejects a second
// null-parent insertion before it ever reaches the store.
type store struct {
	nodes   map[NodeID]*node
	root    NodeID
	hasRoot bool
}

func newStore() *store {
	return &store{nodes: make(map[NodeID]*node)}
}

func (s *store) get(id NodeID) (*node, bool) {
	n, ok := s.nodes[id]
	return n, ok
}

func (s *store) has(id NodeID) bool {
	_, ok := s.nodes[id]
	return ok
}

func (s *store) set(n *node) {
	s.nodes[n.id] = n
	if !n.hasParent && !s.hasRoot {
		s.root = n.id
		s.hasRoot = true
	}
}

func (s *store) delete(id NodeID) {
	delete(s.nodes, id)
}

func (s *store) size() int {
	return len(s.nodes)
}

func (s *store) rootNode() (*node, bool) {
	if !s.hasRoot {
		return nil, false
	}
	return s.get(s.root)
}

// values iterates all records in unspecified order. The callback must not
// mutate the store.
func (s *store) values(fn func(*node)) {
	for _, n := range s.nodes {
		fn(n)
	}
}
