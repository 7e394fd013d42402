package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/simonhull/quill/filesystem"
	"github.com/simonhull/quill/sink"
)

// sinkUpdatedMsg reports new output in the command panel
type sinkUpdatedMsg struct{}

// treeChangedMsg reports a change below the explorer root
type treeChangedMsg struct{}

// watchErrorMsg carries an error reported by the explorer watcher
type watchErrorMsg struct{ err error }

// treeLoadedMsg carries a freshly walked explorer tree
type treeLoadedMsg struct {
	nodes []filesystem.Node
	err   error
}

// waitForSink blocks until the sink reports an update
func waitForSink(s *sink.Sink) tea.Cmd {
	return func() tea.Msg {
		<-s.Updates()
		return sinkUpdatedMsg{}
	}
}

// waitForChanges blocks until the watcher reports a change. A closed
// watcher ends the subscription.
func waitForChanges(w *filesystem.Watcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-w.Changes(); !ok {
			return nil
		}
		return treeChangedMsg{}
	}
}

// waitForWatchErrors blocks until the watcher reports an error. A closed
// watcher ends the subscription.
func waitForWatchErrors(w *filesystem.Watcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		err, ok := <-w.Errors()
		if !ok {
			return nil
		}
		return watchErrorMsg{err: err}
	}
}

func loadTree(root string, opts filesystem.WalkOptions) tea.Cmd {
	return func() tea.Msg {
		nodes, err := filesystem.BuildTree(root, opts)
		return treeLoadedMsg{nodes: nodes, err: err}
	}
}
