// Package tui is the terminal editor: a file explorer, tabbed editing surface
// and command panel composed as one bubbletea program.
//
// All state is owned by the bubbletea update loop. Background tasks only
// touch the output sink, whose update channel wakes the loop for a redraw.
package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/simonhull/quill/dispatch"
	"github.com/simonhull/quill/exec"
	"github.com/simonhull/quill/filesystem"
	"github.com/simonhull/quill/logger"
	"github.com/simonhull/quill/sink"
	"github.com/simonhull/quill/workspace"
)

const (
	bannerStatus = "Terminal Ready\nType commands below\n"
	bannerPrompt = "> "
	// Banner is the command panel's initial text
	Banner = bannerStatus + bannerPrompt
)

const (
	explorerWidth  = 32
	terminalHeight = 12
	// textarea keeps at most this many lines; longer files open read-only
	maxEditableLines = 10000
)

type focusArea int

const (
	focusEditor focusArea = iota
	focusExplorer
	focusTerminal
)

// Options wires the editor to its collaborators
type Options struct {
	Workspace  *workspace.Workspace
	Sink       *sink.Sink
	Launcher   *exec.Launcher
	Dispatcher *dispatch.Dispatcher
	Builder    *dispatch.Builder
	Walk       filesystem.WalkOptions
	Watcher    *filesystem.Watcher // Optional; nil disables live refresh
	AutoPair   bool                // Insert closing brackets as they are typed
	Logger     logger.Logger
}

// Model is the bubbletea model for the editor
type Model struct {
	ctx        context.Context
	ws         *workspace.Workspace
	sink       *sink.Sink
	launcher   *exec.Launcher
	dispatcher *dispatch.Dispatcher
	builder    *dispatch.Builder
	walk       filesystem.WalkOptions
	watcher    *filesystem.Watcher
	autoPair   bool
	log        logger.Logger

	keys    keyMap
	help    help.Model
	editor  textarea.Model
	input   textinput.Model
	output  viewport.Model
	picker  filepicker.Model
	spinner spinner.Model

	nodes  []filesystem.Node
	cursor int // index into the visible explorer nodes

	showExplorer bool
	showTerminal bool
	showPicker   bool
	spinning     bool
	readOnly     bool
	focus        focusArea
	width        int
	height       int
	notice       string
}

// New creates the editor model. The banner is written to an empty sink.
func New(ctx context.Context, opts Options) *Model {
	if opts.Logger == nil {
		opts.Logger = logger.Default()
	}
	if opts.Sink.Len() == 0 {
		opts.Sink.Append(sink.SourceEditor, sink.KindStatus, bannerStatus)
		opts.Sink.Append(sink.SourceEditor, sink.KindPrompt, bannerPrompt)
	}

	editor := textarea.New()
	editor.ShowLineNumbers = true
	editor.CharLimit = 0
	editor.MaxHeight = 0
	editor.Placeholder = "Open a file with ^o or pick one in the explorer"
	editor.FocusedStyle.LineNumber = lipgloss.NewStyle().Foreground(colorLineNumber)
	editor.FocusedStyle.CursorLineNumber = lipgloss.NewStyle().Foreground(colorAccent)
	editor.FocusedStyle.Text = lipgloss.NewStyle().Foreground(colorText)
	editor.BlurredStyle.LineNumber = lipgloss.NewStyle().Foreground(colorLineNumber)
	editor.BlurredStyle.Text = lipgloss.NewStyle().Foreground(colorText)

	input := textinput.New()
	input.Prompt = "> "
	input.Placeholder = "type a command and press enter"

	picker := filepicker.New()
	picker.CurrentDirectory = opts.Workspace.Root()
	picker.ShowPermissions = false
	picker.ShowHidden = opts.Walk.IncludeHidden
	picker.AutoHeight = false

	spin := spinner.New(
		spinner.WithSpinner(spinner.MiniDot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(colorAccent)),
	)

	m := &Model{
		ctx:          ctx,
		ws:           opts.Workspace,
		sink:         opts.Sink,
		launcher:     opts.Launcher,
		dispatcher:   opts.Dispatcher,
		builder:      opts.Builder,
		walk:         opts.Walk,
		watcher:      opts.Watcher,
		autoPair:     opts.AutoPair,
		log:          opts.Logger.WithFields(logger.F("component", "tui")),
		keys:         defaultKeyMap(),
		help:         help.New(),
		editor:       editor,
		input:        input,
		output:       viewport.New(0, 0),
		picker:       picker,
		spinner:      spin,
		showExplorer: true,
		showTerminal: true,
		focus:        focusEditor,
	}

	m.loadActive()
	m.applyFocus()
	m.refreshOutput()
	return m
}

// Run starts the editor in the alternate screen and blocks until it quits
func Run(ctx context.Context, opts Options) error {
	m := New(ctx, opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("editor: %w", err)
	}
	return nil
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		waitForSink(m.sink),
		loadTree(m.ws.Root(), m.walk),
		waitForChanges(m.watcher),
		waitForWatchErrors(m.watcher),
	)
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case sinkUpdatedMsg:
		m.refreshOutput()
		return m, waitForSink(m.sink)

	case treeChangedMsg:
		return m, tea.Batch(loadTree(m.ws.Root(), m.walk), waitForChanges(m.watcher))

	case watchErrorMsg:
		m.log.Warn("explorer watch error", logger.F("error", msg.err))
		m.notice = "Explorer watch error"
		return m, waitForWatchErrors(m.watcher)

	case treeLoadedMsg:
		m.setTree(msg.nodes, msg.err)
		return m, nil

	case spinner.TickMsg:
		if m.launcher.Registry().Len() == 0 {
			m.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, m.updateWidgets(msg)
}

// updateWidgets forwards internal widget messages such as cursor blinks and
// directory listings.
func (m *Model) updateWidgets(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	m.editor, cmd = m.editor.Update(msg)
	cmds = append(cmds, cmd)
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	if m.showPicker {
		m.picker, cmd = m.picker.Update(msg)
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showPicker {
		return m.updatePicker(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, m.quit()
	case key.Matches(msg, m.keys.Open):
		return m, m.openPicker()
	case key.Matches(msg, m.keys.Save):
		m.save()
		return m, nil
	case key.Matches(msg, m.keys.Run):
		return m, m.runActive()
	case key.Matches(msg, m.keys.Build):
		return m, m.build()
	case key.Matches(msg, m.keys.Clear):
		m.sink.Clear()
		m.refreshOutput()
		return m, nil
	case key.Matches(msg, m.keys.Diff):
		m.showTerminal = true
		m.resize()
		_ = m.ws.ShowChanges()
		return m, nil
	case key.Matches(msg, m.keys.ToggleExplorer):
		m.showExplorer = !m.showExplorer
		m.fixFocus()
		return m, nil
	case key.Matches(msg, m.keys.ToggleTerminal):
		m.showTerminal = !m.showTerminal
		m.fixFocus()
		return m, nil
	case key.Matches(msg, m.keys.CloseTab):
		m.closeTab()
		return m, nil
	case key.Matches(msg, m.keys.NextTab):
		m.ws.Next()
		m.loadActive()
		return m, nil
	case key.Matches(msg, m.keys.PrevTab):
		m.ws.Prev()
		m.loadActive()
		return m, nil
	case key.Matches(msg, m.keys.CancelAll):
		n := m.launcher.Registry().CancelAll()
		m.notice = fmt.Sprintf("Cancelling %d task(s)", n)
		return m, nil
	case key.Matches(msg, m.keys.FocusNext):
		m.cycleFocus(1)
		return m, nil
	case key.Matches(msg, m.keys.FocusPrev):
		m.cycleFocus(-1)
		return m, nil
	}

	switch m.focus {
	case focusExplorer:
		return m, m.updateExplorer(msg)
	case focusTerminal:
		return m, m.updateTerminal(msg)
	default:
		return m, m.updateEditor(msg)
	}
}

func (m *Model) quit() tea.Cmd {
	if n := m.launcher.Registry().CancelAll(); n > 0 {
		m.log.Info("cancelled tasks on quit", logger.F("count", n))
	}
	return tea.Quit
}

var closers = map[rune]rune{'(': ')', '[': ']', '{': '}'}

func (m *Model) updateEditor(msg tea.KeyMsg) tea.Cmd {
	before := m.editor.Value()

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)

	if m.autoPair && !msg.Paste && msg.Type == tea.KeyRunes && len(msg.Runes) == 1 {
		if closer, ok := closers[msg.Runes[0]]; ok {
			m.editor.InsertRune(closer)
			m.editor, _ = m.editor.Update(tea.KeyMsg{Type: tea.KeyLeft})
		}
	}

	after := m.editor.Value()
	if after == before {
		return cmd
	}
	if m.readOnly {
		m.editor.SetValue(before)
		m.notice = "File too large to edit"
		return cmd
	}
	m.ws.SetText(after)
	return cmd
}

// loadActive shows the active document in the editor
func (m *Model) loadActive() {
	doc := m.ws.Active()
	m.readOnly = doc.LineCount() > maxEditableLines
	m.editor.SetValue(doc.Text)
	if m.readOnly {
		m.notice = fmt.Sprintf("%s is read-only: over %d lines", doc.Name(), maxEditableLines)
	}
}

func (m *Model) openFile(path string) {
	if _, err := m.ws.Open(path); err != nil {
		m.notice = "Open failed"
		return
	}
	m.notice = ""
	m.loadActive()
	m.focus = focusEditor
	m.applyFocus()
}

func (m *Model) save() {
	if err := m.ws.Save(); err != nil {
		m.notice = "Save failed"
		return
	}
	m.notice = "Saved " + m.ws.Active().Name()
}

func (m *Model) closeTab() {
	i := m.ws.ActiveIndex()
	if i < 0 {
		return
	}
	if err := m.ws.Close(i); err != nil {
		return
	}
	m.loadActive()
}

// runActive saves unsaved edits, then runs the active file by its extension
func (m *Model) runActive() tea.Cmd {
	doc := m.ws.Active()
	if m.dispatcher.Supports(doc.Path) && doc.Dirty() {
		if err := m.ws.Save(); err != nil {
			m.notice = "Save failed; not running"
			return nil
		}
	}

	m.showTerminal = true
	m.resize()
	if _, err := m.dispatcher.Run(m.ctx, doc.Path); err != nil {
		return nil
	}
	return m.startSpinner()
}

func (m *Model) build() tea.Cmd {
	m.showTerminal = true
	m.resize()
	m.builder.Build(m.ctx)
	return m.startSpinner()
}

func (m *Model) startSpinner() tea.Cmd {
	if m.spinning {
		return nil
	}
	m.spinning = true
	return m.spinner.Tick
}
