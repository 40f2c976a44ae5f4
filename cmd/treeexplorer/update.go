package main

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/joshuapare/treekit/cmd/treeexplorer/logger"
	"github.com/joshuapare/treekit/tree"
	"github.com/joshuapare/treekit/tree/provider"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.clampViewport()
		return m, nil

	case childrenLoadedMsg:
		return m.applyLoad(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	m.status = ""

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.cursor--
		m.clampViewport()
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.cursor++
		m.clampViewport()
		return m, nil

	case key.Matches(msg, m.keys.PageUp):
		m.cursor -= m.visibleRows()
		m.clampViewport()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.cursor += m.visibleRows()
		m.clampViewport()
		return m, nil

	case key.Matches(msg, m.keys.Home):
		m.cursor = 0
		m.clampViewport()
		return m, nil

	case key.Matches(msg, m.keys.End):
		m.cursor = m.eng.TotalVisibleCount() - 1
		m.clampViewport()
		return m, nil

	case key.Matches(msg, m.keys.Right):
		return m.expandSelected()

	case key.Matches(msg, m.keys.Enter):
		id, ok := m.selected()
		if !ok {
			return m, nil
		}
		if m.eng.CanCollapse(id) {
			return m.collapseSelected()
		}
		return m.expandSelected()

	case key.Matches(msg, m.keys.Left):
		return m.collapseOrAscend()

	case key.Matches(msg, m.keys.Sort):
		return m.sortSelected()

	case key.Matches(msg, m.keys.Delete):
		return m.deleteSelected()
	}
	return m, nil
}

func (m Model) expandSelected() (tea.Model, tea.Cmd) {
	id, ok := m.selected()
	if !ok {
		return m, nil
	}
	needsLoad, err := m.eng.Expand(id)
	if err != nil {
		return m.fail(err)
	}
	m.clampViewport()
	if !needsLoad {
		return m, nil
	}
	m.loading[id] = struct{}{}
	m.status = "loading children..."
	logger.Debug("starting child resolution", "node", id, "epoch", m.eng.Epoch())
	// The epoch after Expand is the one the completion must match.
	return m, m.resolveCmd(id, m.eng.Epoch())
}

func (m Model) applyLoad(msg childrenLoadedMsg) (tea.Model, tea.Cmd) {
	delete(m.loading, msg.id)
	err := provider.Complete(m.eng, msg.id, msg.captured, msg.children, msg.err)
	switch {
	case errors.Is(err, tree.ErrStaleEpoch):
		logger.Debug("discarded stale resolution", "node", msg.id, "captured", msg.captured)
		m.status = "discarded stale load"
		return m, nil
	case err != nil:
		return m.fail(err)
	case msg.err != nil:
		m.status = fmt.Sprintf("load failed: %v", msg.err)
	}
	m.clampViewport()
	return m, nil
}

func (m Model) collapseSelected() (tea.Model, tea.Cmd) {
	id, ok := m.selected()
	if !ok {
		return m, nil
	}
	if _, err := m.eng.Collapse(id); err != nil {
		return m.fail(err)
	}
	m.clampViewport()
	return m, nil
}

// collapseOrAscend collapses an expanded node, or moves the cursor to the
// parent of a collapsed one.
func (m Model) collapseOrAscend() (tea.Model, tea.Cmd) {
	id, ok := m.selected()
	if !ok {
		return m, nil
	}
	if m.eng.CanCollapse(id) {
		return m.collapseSelected()
	}
	view, err := m.eng.View(id)
	if err != nil {
		return m.fail(err)
	}
	if view.Depth == 0 {
		return m, nil
	}
	if parent := m.parentIndex(id); parent >= 0 {
		m.cursor = parent
		m.clampViewport()
	}
	return m, nil
}

// parentIndex finds the nearest preceding row with a smaller depth.
func (m Model) parentIndex(id tree.NodeID) int {
	view, err := m.eng.View(id)
	if err != nil {
		return -1
	}
	for i := m.cursor - 1; i >= 0; i-- {
		candidate, _, rerr := m.eng.ResolveIndex(i)
		if rerr != nil {
			return -1
		}
		cv, verr := m.eng.View(candidate)
		if verr != nil {
			return -1
		}
		if cv.Depth < view.Depth {
			return i
		}
	}
	return -1
}

func (m Model) sortSelected() (tea.Model, tea.Cmd) {
	id, ok := m.selected()
	if !ok {
		return m, nil
	}
	err := m.eng.SortChildren(id)
	switch {
	case errors.Is(err, tree.ErrChildrenNotMaterialized):
		m.status = "children not loaded yet"
		return m, nil
	case err != nil:
		return m.fail(err)
	}
	m.status = "children sorted"
	return m, nil
}

func (m Model) deleteSelected() (tea.Model, tea.Cmd) {
	id, ok := m.selected()
	if !ok {
		return m, nil
	}
	deleted, err := m.eng.RemoveNode(id)
	if err != nil {
		return m.fail(err)
	}
	if deleted == 0 {
		m.status = "the root stays"
		return m, nil
	}
	m.status = fmt.Sprintf("deleted %d node(s)", deleted)
	m.clampViewport()
	return m, nil
}

func (m Model) fail(err error) (tea.Model, tea.Cmd) {
	m.err = err
	logger.Error("engine operation failed", "error", err)
	if errors.Is(err, tree.ErrCorrupt) || errors.Is(err, tree.ErrFrozen) {
		// Nothing sane left to render against.
		return m, tea.Quit
	}
	m.status = err.Error()
	return m, nil
}
