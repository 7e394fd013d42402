package exec

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// WaitWithSpinner shows a progress spinner on out until task finishes.
// If the spinner cannot run it falls back to a plain wait.
func WaitWithSpinner(task *Task, message string, out io.Writer) Result {
	m := newSpinnerModel(message, task)
	p := tea.NewProgram(m, tea.WithOutput(out), tea.WithInput(nil), tea.WithoutSignalHandler())

	if _, err := p.Run(); err != nil {
		// Silently ignore spinner errors
		_ = err
	}
	return task.Wait()
}

// spinnerModel is the bubbletea model for the spinner
type spinnerModel struct {
	spinner spinner.Model
	message string
	task    *Task
	done    bool
	status  Status
}

type spinnerDoneMsg struct {
	status Status
}

func newSpinnerModel(message string, task *Task) *spinnerModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return &spinnerModel{
		spinner: s,
		message: message,
		task:    task,
	}
}

func (m *spinnerModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.waitForTask)
}

func (m *spinnerModel) waitForTask() tea.Msg {
	m.task.Wait()
	return spinnerDoneMsg{status: m.task.Status()}
}

func (m *spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinnerDoneMsg:
		m.done = true
		m.status = msg.status
		return m, tea.Quit
	case spinner.TickMsg:
		if !m.done {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m *spinnerModel) View() string {
	if m.done {
		if m.status != StatusSucceeded {
			return fmt.Sprintf("❌ %s\n", m.message)
		}
		return fmt.Sprintf("✅ %s\n", m.message)
	}
	return fmt.Sprintf("%s %s...", m.spinner.View(), m.message)
}
