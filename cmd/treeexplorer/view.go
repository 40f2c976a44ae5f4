package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/joshuapare/treekit/tree"
)

// View implements tea.Model. Only the rows inside the viewport are asked of
// the engine; everything off screen stays unmaterialized.
func (m Model) View() string {
	if m.showHelp {
		return m.helpView()
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render("treeexplorer"))
	b.WriteString("\n")

	views, err := m.eng.Range(m.scroll, m.visibleRows())
	if err != nil {
		return fmt.Sprintf("render error: %v\n", err)
	}
	for i, v := range views {
		line := m.renderRow(v)
		if m.scroll+i == m.cursor {
			line = selectedStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString(m.statusView())
	return b.String()
}

func (m Model) renderRow(v tree.NodeView) string {
	indent := strings.Repeat("  ", v.Depth)
	glyph, style := rowGlyph(v)
	line := fmt.Sprintf("%s%s %s", indent, glyph, v.Label)
	if m.width > 0 {
		// Truncate before styling so escape sequences are never split.
		line = truncateToWidth(line, m.width)
	}
	if style != nil {
		line = style.Render(line)
	}
	return line
}

// truncateToWidth cuts s to at most width display cells, always on a rune
// boundary. Wide runes that would straddle the edge are dropped whole.
func truncateToWidth(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	var b strings.Builder
	used := 0
	for _, r := range s {
		rw := lipgloss.Width(string(r))
		if used+rw > width {
			break
		}
		b.WriteRune(r)
		used += rw
	}
	return b.String()
}

// rowGlyph picks the marker for a row: expansion arrows for branch nodes,
// an ellipsis while loading, a cross after a failed load, a dot for leaves.
func rowGlyph(v tree.NodeView) (string, *lipgloss.Style) {
	switch {
	case v.Loading:
		return "…", &loadingStyle
	case v.LoadFailed:
		return "✗", &failedStyle
	case !v.HasChildren:
		return "·", &leafStyle
	case v.Expanded:
		return "▾", nil
	default:
		return "▸", nil
	}
}

func (m Model) statusView() string {
	total := m.eng.TotalVisibleCount()
	left := fmt.Sprintf("%s of %s rows",
		statusCountStyle.Render(fmt.Sprintf("%d", m.cursor+1)),
		statusCountStyle.Render(fmt.Sprintf("%d", total)))
	if len(m.loading) > 0 {
		left += loadingStyle.Render(fmt.Sprintf("  %d loading", len(m.loading)))
	}
	if m.status != "" {
		left += "  " + m.status
	}
	return statusStyle.Render(left + "  (? for help, q to quit)")
}

func (m Model) helpView() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("treeexplorer help"))
	b.WriteString("\n\n")
	for _, row := range m.keys.FullHelp() {
		for _, binding := range row {
			b.WriteString(fmt.Sprintf("  %-12s %s\n", binding.Help().Key, binding.Help().Desc))
		}
	}
	b.WriteString("\nPress any key to close.\n")
	return b.String()
}
