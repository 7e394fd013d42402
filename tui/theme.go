package tui

import "github.com/charmbracelet/lipgloss"

// Dark palette
const (
	colorBase       lipgloss.Color = "#1e1e2e"
	colorPanel      lipgloss.Color = "#181825"
	colorText       lipgloss.Color = "#e5e5e5"
	colorLineNumber lipgloss.Color = "#596278"
	colorTerminal   lipgloss.Color = "#00ff00"
	colorAccent     lipgloss.Color = "#cba6f7"
	colorMuted      lipgloss.Color = "#6c7086"
	colorError      lipgloss.Color = "#f38ba8"
	colorWarning    lipgloss.Color = "#f9e2af"
	colorSuccess    lipgloss.Color = "#a6e3a1"
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)

	menuBarStyle = lipgloss.NewStyle().
			Background(colorBase).
			Foreground(colorText)

	explorerStyle = lipgloss.NewStyle().
			Background(colorPanel).
			Foreground(colorText)

	explorerCursorStyle = lipgloss.NewStyle().
				Foreground(colorBase).
				Background(colorAccent)

	explorerOpenStyle = lipgloss.NewStyle().Foreground(colorAccent)

	activeTabStyle = lipgloss.NewStyle().
			Foreground(colorBase).
			Background(colorAccent).
			Bold(true).
			Padding(0, 1)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(colorMuted).
				Padding(0, 1)

	terminalStyle = lipgloss.NewStyle().
			Background(colorPanel).
			Foreground(colorTerminal)

	commandStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	stderrStyle  = lipgloss.NewStyle().Foreground(colorError)
	statusStyle  = lipgloss.NewStyle().Foreground(colorWarning)

	diffAddStyle    = lipgloss.NewStyle().Foreground(colorSuccess)
	diffRemoveStyle = lipgloss.NewStyle().Foreground(colorError)
	diffHunkStyle   = lipgloss.NewStyle().Foreground(colorAccent)
	diffHeaderStyle = lipgloss.NewStyle().Foreground(colorMuted)

	statusBarStyle = lipgloss.NewStyle().
			Background(colorBase).
			Foreground(colorText)

	statusSepStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	readyStyle       = lipgloss.NewStyle().Foreground(colorSuccess)
	focusedPaneTitle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	blurredPaneTitle = lipgloss.NewStyle().Foreground(colorMuted)
)
