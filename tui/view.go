package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// resize lays out the panes for the current window size
func (m *Model) resize() {
	if m.width == 0 || m.height == 0 {
		return
	}
	m.help.Width = m.width

	body := m.bodyHeight()
	editorWidth := m.width
	if m.showExplorer {
		editorWidth -= explorerWidth
	}

	m.editor.SetWidth(max(editorWidth, 10))
	m.editor.SetHeight(max(body-1, 1))
	m.picker.SetHeight(max(body-2, 1))

	m.output.Width = m.width
	m.output.Height = terminalHeight - 2
	m.input.Width = max(m.width-4, 1)
	m.refreshOutput()
}

// bodyHeight is the height shared by the explorer and editor
func (m *Model) bodyHeight() int {
	h := m.height - 2 // menu and status bars
	if m.showTerminal {
		h -= terminalHeight
	}
	return max(h, 3)
}

func (m *Model) focusOrder() []focusArea {
	order := make([]focusArea, 0, 3)
	if m.showExplorer {
		order = append(order, focusExplorer)
	}
	order = append(order, focusEditor)
	if m.showTerminal {
		order = append(order, focusTerminal)
	}
	return order
}

func (m *Model) cycleFocus(step int) {
	order := m.focusOrder()
	i := 0
	for j, f := range order {
		if f == m.focus {
			i = j
		}
	}
	m.focus = order[(i+step+len(order))%len(order)]
	m.applyFocus()
}

// fixFocus moves focus to the editor when its pane was hidden
func (m *Model) fixFocus() {
	if (m.focus == focusExplorer && !m.showExplorer) || (m.focus == focusTerminal && !m.showTerminal) {
		m.focus = focusEditor
	}
	m.applyFocus()
	m.resize()
}

func (m *Model) applyFocus() {
	if m.focus == focusEditor {
		m.editor.Focus()
	} else {
		m.editor.Blur()
	}
	if m.focus == focusTerminal {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
}

func (m *Model) openPicker() tea.Cmd {
	m.showPicker = true
	if path := m.ws.Active().Path; path != "" {
		m.picker.CurrentDirectory = filepath.Dir(path)
	} else {
		m.picker.CurrentDirectory = m.ws.Root()
	}
	return m.picker.Init()
}

func (m *Model) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, m.quit()
	case key.Matches(msg, m.keys.Open):
		m.showPicker = false
		return m, nil
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	if ok, path := m.picker.DidSelectFile(msg); ok {
		m.showPicker = false
		m.openFile(path)
	}
	return m, cmd
}

// View implements tea.Model
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	body := m.bodyHeight()
	center := lipgloss.JoinVertical(lipgloss.Left, m.tabBar(), m.editor.View())
	if m.showPicker {
		center = lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render("Open file")+"  "+blurredPaneTitle.Render("enter select · ^o cancel"),
			m.picker.View())
	}
	center = lipgloss.NewStyle().Height(body).MaxHeight(body).Render(center)
	if m.showExplorer {
		center = lipgloss.JoinHorizontal(lipgloss.Top, m.explorerView(body), center)
	}

	sections := []string{m.menuBar(), center}
	if m.showTerminal {
		sections = append(sections, m.terminalView())
	}
	sections = append(sections, m.statusBar())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) menuBar() string {
	bar := titleStyle.Render("📝 Quill") + "  " + m.help.View(m.keys)
	return menuBarStyle.Width(m.width).MaxHeight(1).Render(bar)
}

func (m *Model) tabBar() string {
	docs := m.ws.Docs()
	if len(docs) == 0 {
		return activeTabStyle.Render(m.ws.Active().Name())
	}

	tabs := make([]string, len(docs))
	for i, d := range docs {
		name := d.Name()
		if d.Dirty() {
			name += " ●"
		}
		if i == m.ws.ActiveIndex() {
			tabs[i] = activeTabStyle.Render(name)
		} else {
			tabs[i] = inactiveTabStyle.Render(name)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m *Model) statusBar() string {
	doc := m.ws.Active()

	ready := readyStyle.Render("✓ Ready")
	if n := m.launcher.Registry().Len(); n > 0 {
		ready = fmt.Sprintf("%s %d running", m.spinner.View(), n)
	}

	parts := []string{
		ready,
		fmt.Sprintf("Lines: %d", doc.LineCount()),
		"UTF-8",
	}
	if doc.Path != "" {
		name := "📄 " + doc.Name()
		if doc.Dirty() {
			name += " ●"
		}
		parts = append(parts, name)
	}
	if m.notice != "" {
		parts = append(parts, m.notice)
	}

	return statusBarStyle.Width(m.width).Render(strings.Join(parts, statusSepStyle.Render(" │ ")))
}
