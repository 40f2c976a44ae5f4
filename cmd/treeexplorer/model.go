package main

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/joshuapare/treekit/tree"
	"github.com/joshuapare/treekit/tree/provider"
)

// Model is the main application model. The engine lives on the bubbletea
// event loop (its owner goroutine); resolver commands run elsewhere and only
// deliver payloads back as messages.
type Model struct {
	eng       *tree.Engine
	resolvers *provider.Registry

	cursor int // index into visible space
	scroll int // first visible row on screen
	width  int
	height int

	keys     KeyMap
	showHelp bool
	status   string

	// loading tracks in-flight resolutions by node, for the spinner rows.
	loading map[tree.NodeID]struct{}

	err error
}

// childrenLoadedMsg delivers a finished (possibly failed) resolution back to
// the owner loop, together with the epoch captured when it started.
type childrenLoadedMsg struct {
	id       tree.NodeID
	captured tree.Epoch
	children []tree.ChildSpec
	err      error
}

// NewModel builds the engine over a synthetic dataset.
func NewModel(seed int64, delayMs int) (Model, error) {
	ds := newDataset(seed, time.Duration(delayMs)*time.Millisecond)
	eng, err := tree.New(ds.Root())
	if err != nil {
		return Model{}, err
	}
	m := Model{
		eng:       eng,
		resolvers: provider.NewRegistry(ds),
		keys:      DefaultKeyMap(),
		width:     80,
		height:    24,
		loading:   make(map[tree.NodeID]struct{}),
	}
	// Open the root so the first paint shows a level of children.
	if _, err := eng.Expand(1); err != nil {
		return Model{}, err
	}
	return m, nil
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// resolveCmd runs the resolver off the owner loop and routes the payload
// home as a message. The epoch was captured before the command started.
func (m Model) resolveCmd(id tree.NodeID, captured tree.Epoch) tea.Cmd {
	res := m.resolvers.Lookup(id)
	return func() tea.Msg {
		children, err := res.ResolveChildren(context.Background(), id)
		return childrenLoadedMsg{id: id, captured: captured, children: children, err: err}
	}
}

// visibleRows is the number of tree rows that fit under the header and
// above the status bar.
func (m Model) visibleRows() int {
	rows := m.height - 3
	if rows < 1 {
		rows = 1
	}
	return rows
}

// clampViewport keeps the cursor inside the projection and the scroll
// window around the cursor.
func (m *Model) clampViewport() {
	total := m.eng.TotalVisibleCount()
	if m.cursor >= total {
		m.cursor = total - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	rows := m.visibleRows()
	if m.cursor < m.scroll {
		m.scroll = m.cursor
	}
	if m.cursor >= m.scroll+rows {
		m.scroll = m.cursor - rows + 1
	}
	if m.scroll < 0 {
		m.scroll = 0
	}
}

// selected resolves the cursor to its node.
func (m Model) selected() (tree.NodeID, bool) {
	id, _, err := m.eng.ResolveIndex(m.cursor)
	if err != nil {
		return 0, false
	}
	return id, true
}
