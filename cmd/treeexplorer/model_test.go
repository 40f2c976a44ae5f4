package main

import (
	"testing"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/treekit/tree"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	m, err := NewModel(1, 0)
	require.NoError(t, err)
	m.width = 80
	m.height = 24
	return m
}

func keyPress(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func step(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out, cmd
}

func TestModel_StartsWithRootExpanded(t *testing.T) {
	m := newTestModel(t)
	require.Greater(t, m.eng.TotalVisibleCount(), 1, "first level visible on startup")
	require.Equal(t, 0, m.cursor)
}

func TestModel_CursorNavigationClamps(t *testing.T) {
	m := newTestModel(t)
	total := m.eng.TotalVisibleCount()

	m, _ = step(t, m, keyPress('j'))
	require.Equal(t, 1, m.cursor)

	m, _ = step(t, m, keyPress('k'))
	m, _ = step(t, m, keyPress('k'))
	require.Equal(t, 0, m.cursor, "cursor never goes above the root")

	m, _ = step(t, m, keyPress('G'))
	require.Equal(t, total-1, m.cursor)

	m, _ = step(t, m, keyPress('j'))
	require.Equal(t, total-1, m.cursor, "cursor never leaves the projection")
}

func TestModel_LazyExpandRoundTrip(t *testing.T) {
	m := newTestModel(t)

	// Find a row whose children are deferred.
	target := -1
	for i := 1; i < m.eng.TotalVisibleCount(); i++ {
		id, _, err := m.eng.ResolveIndex(i)
		require.NoError(t, err)
		if m.eng.NeedsChildLoading(id) {
			target = i
			break
		}
	}
	require.GreaterOrEqual(t, target, 1, "dataset should defer some subtrees")
	m.cursor = target
	id, ok := m.selected()
	require.True(t, ok)

	m, cmd := step(t, m, keyPress('l'))
	require.NotNil(t, cmd, "deferred expansion must start a resolver command")
	require.Contains(t, m.loading, id)

	before := m.eng.TotalVisibleCount()
	msg := cmd()
	loaded, isLoaded := msg.(childrenLoadedMsg)
	require.True(t, isLoaded)
	require.Equal(t, id, loaded.id)

	m, _ = step(t, m, msg)
	require.NotContains(t, m.loading, id)
	require.False(t, m.eng.NeedsChildLoading(id))
	if loaded.err == nil && len(loaded.children) > 0 {
		require.Greater(t, m.eng.TotalVisibleCount(), before)
	}
}

func TestModel_StaleLoadDiscarded(t *testing.T) {
	m := newTestModel(t)

	target := -1
	for i := 1; i < m.eng.TotalVisibleCount(); i++ {
		id, _, err := m.eng.ResolveIndex(i)
		require.NoError(t, err)
		if m.eng.NeedsChildLoading(id) {
			target = i
			break
		}
	}
	require.GreaterOrEqual(t, target, 1)
	m.cursor = target
	id, _ := m.selected()

	m, cmd := step(t, m, keyPress('l'))
	require.NotNil(t, cmd)

	// The tree moves on before the resolution lands.
	_, err := m.eng.Collapse(1)
	require.NoError(t, err)

	m, _ = step(t, m, cmd())
	require.Equal(t, "discarded stale load", m.status)
	require.True(t, m.eng.NeedsChildLoading(id), "node still wants a load after the discard")
}

func TestModel_EnterTogglesCollapse(t *testing.T) {
	m := newTestModel(t)
	expanded := m.eng.TotalVisibleCount()

	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, 1, m.eng.TotalVisibleCount(), "enter on the expanded root collapses it")

	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, expanded, m.eng.TotalVisibleCount())
}

func TestModel_DeleteKeepsRoot(t *testing.T) {
	m := newTestModel(t)
	total := m.eng.TotalVisibleCount()

	m, _ = step(t, m, keyPress('d'))
	require.Equal(t, total, m.eng.TotalVisibleCount(), "the root cannot be deleted")

	m.cursor = 1
	m, _ = step(t, m, keyPress('d'))
	require.Equal(t, total-1, m.eng.TotalVisibleCount())
}

func TestRenderRow_TruncatesOnRuneBoundaries(t *testing.T) {
	m := newTestModel(t)
	m.width = 8

	// A styled leaf row with multibyte runes past the edge must come out as
	// valid UTF-8 and still fit the terminal.
	row := m.renderRow(tree.NodeView{Depth: 1, Label: "héllö wörld"})
	require.True(t, utf8.ValidString(row))
	require.LessOrEqual(t, lipgloss.Width(row), 8)
}

func TestTruncateToWidth_DropsStraddlingWideRunes(t *testing.T) {
	require.Equal(t, "日本語", truncateToWidth("日本語", 6))
	require.Equal(t, "日本", truncateToWidth("日本語", 5), "a wide rune never splits across the edge")
	require.Equal(t, "ab", truncateToWidth("abc", 2))
	require.Equal(t, "", truncateToWidth("日", 1))
}

func TestModel_ViewRendersWindowOnly(t *testing.T) {
	m := newTestModel(t)
	m.height = 8 // 5 tree rows

	out := m.View()
	require.Contains(t, out, "workspace")
	require.Contains(t, out, "rows")
}
