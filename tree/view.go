package tree

// NodeView is the immutable, output-only projection of one node. It carries
// no child lists and no references into the store, so consumers (including
// ones on other goroutines) can retain or drop views freely.
type NodeView struct {
	ID       NodeID
	Depth    int
	Expanded bool

	// HasChildren is true for unresolved and loading nodes, and for
	// resolved nodes with at least one child.
	HasChildren bool

	Label string

	// Loading is set while a child resolution is in flight for this node.
	Loading bool

	// LoadFailed is set when the last child resolution failed. The failure
	// is localized: the rest of the tree stays intact and re-expanding the
	// node retries.
	LoadFailed bool
}

// viewOf projects a record into a consumer-safe value copy.
func viewOf(n *node) NodeView {
	return NodeView{
		ID:          n.id,
		Depth:       n.depth,
		Expanded:    n.expanded,
		HasChildren: n.hasChildren(),
		Label:       n.label,
		Loading:     n.state == ChildLoading,
		LoadFailed:  n.state == ChildError,
	}
}
