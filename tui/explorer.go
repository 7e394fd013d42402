package tui

import (
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/simonhull/quill/filesystem"
	"github.com/simonhull/quill/logger"
)

func (m *Model) visibleNodes() []filesystem.Node {
	return filesystem.Visible(m.nodes, m.ws.Expanded())
}

func (m *Model) setTree(nodes []filesystem.Node, err error) {
	if err != nil {
		m.log.Warn("explorer refresh failed", logger.F("error", err))
		m.notice = "Explorer refresh failed"
		return
	}
	m.nodes = nodes
	m.clampCursor()
}

func (m *Model) clampCursor() {
	n := len(m.visibleNodes())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) updateExplorer(msg tea.KeyMsg) tea.Cmd {
	visible := m.visibleNodes()

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(visible)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Select):
		if m.cursor >= len(visible) {
			return nil
		}
		node := visible[m.cursor]
		if node.IsDir {
			m.ws.Toggle(node.Path)
			m.clampCursor()
			return nil
		}
		m.openFile(node.Path)
	}
	return nil
}

// explorerView renders the tree scrolled so the cursor stays visible
func (m *Model) explorerView(height int) string {
	title := blurredPaneTitle
	if m.focus == focusExplorer {
		title = focusedPaneTitle
	}
	lines := []string{title.Render("📂 " + filepath.Base(m.ws.Root()))}

	visible := m.visibleNodes()
	rows := height - 1
	start := 0
	if m.cursor >= rows {
		start = m.cursor - rows + 1
	}

	active := m.ws.Active().Path
	for i := start; i < len(visible) && i < start+rows; i++ {
		n := visible[i]
		line := strings.Repeat("  ", n.Depth-1) + n.Icon(m.ws.IsExpanded(n.Path)) + " " + n.Name
		switch {
		case i == m.cursor && m.focus == focusExplorer:
			line = explorerCursorStyle.Render(line)
		case n.Path == active:
			line = explorerOpenStyle.Render(line)
		}
		lines = append(lines, line)
	}

	return explorerStyle.
		Width(explorerWidth).
		MaxWidth(explorerWidth).
		Height(height).
		MaxHeight(height).
		Render(strings.Join(lines, "\n"))
}
