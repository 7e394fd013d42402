package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/simonhull/quill/sink"
)

func (m *Model) updateTerminal(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Submit):
		return m.submitCommand()
	case key.Matches(msg, m.keys.PageUp):
		m.output.PageUp()
		return nil
	case key.Matches(msg, m.keys.PageDown):
		m.output.PageDown()
		return nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

// submitCommand runs the input line through the host shell
func (m *Model) submitCommand() tea.Cmd {
	line := strings.TrimSpace(m.input.Value())
	m.input.Reset()
	if line == "" {
		return nil
	}
	m.launcher.LaunchShell(m.ctx, line)
	return m.startSpinner()
}

// refreshOutput re-renders the sink, following new output unless the user
// has scrolled up.
func (m *Model) refreshOutput() {
	follow := m.output.AtBottom() || m.output.TotalLineCount() <= m.output.Height
	m.output.SetContent(renderEntries(m.sink.Entries()))
	if follow {
		m.output.GotoBottom()
	}
}

func renderEntries(entries []sink.Entry) string {
	var b strings.Builder
	for _, e := range entries {
		switch e.Kind {
		case sink.KindCommand:
			b.WriteString(styleLines(commandStyle, e.Text))
		case sink.KindStderr, sink.KindError:
			b.WriteString(styleLines(stderrStyle, e.Text))
		case sink.KindStatus:
			b.WriteString(styleLines(statusStyle, e.Text))
		case sink.KindDiff:
			b.WriteString(styleDiff(e.Text))
		default:
			b.WriteString(e.Text)
		}
	}
	return b.String()
}

// styleLines styles each line on its own so newlines survive rendering
func styleLines(style lipgloss.Style, text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = style.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}

// styleDiff colors unified diff lines by their prefix
func styleDiff(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			lines[i] = diffHeaderStyle.Render(line)
		case strings.HasPrefix(line, "@@"):
			lines[i] = diffHunkStyle.Render(line)
		case strings.HasPrefix(line, "+"):
			lines[i] = diffAddStyle.Render(line)
		case strings.HasPrefix(line, "-"):
			lines[i] = diffRemoveStyle.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}

func (m *Model) terminalView() string {
	title := blurredPaneTitle
	if m.focus == focusTerminal {
		title = focusedPaneTitle
	}
	header := title.Render("🖥️  Terminal")

	return terminalStyle.
		Width(m.width).
		Height(terminalHeight).
		MaxHeight(terminalHeight).
		Render(lipgloss.JoinVertical(lipgloss.Left, header, m.output.View(), m.input.View()))
}
