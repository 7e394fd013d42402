// Package workspace holds the editor's open documents, tab order and
// explorer state.
//
// A Workspace is owned by the UI goroutine and is not safe for concurrent
// use. File I/O failures are returned to the caller and also reported in the
// output sink so they are visible in the command panel.
package workspace

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/simonhull/quill/logger"
	"github.com/simonhull/quill/sink"
)

var (
	// ErrNoPath is returned when saving a document that has no file path
	ErrNoPath = errors.New("no file path set")
	// ErrNoTab is returned for a tab index out of range
	ErrNoTab = errors.New("no such tab")
)

// Workspace tracks open documents and explorer state
type Workspace struct {
	root     string
	docs     []*Document
	active   int // -1 selects the scratch document
	scratch  *Document
	expanded map[string]bool
	sink     *sink.Sink
	log      logger.Logger
}

// New creates an empty workspace rooted at root
func New(root string, s *sink.Sink, log logger.Logger) *Workspace {
	if log == nil {
		log = logger.Default()
	}
	return &Workspace{
		root:     filepath.Clean(root),
		active:   -1,
		scratch:  NewScratch(),
		expanded: make(map[string]bool),
		sink:     s,
		log:      log.WithFields(logger.F("component", "workspace")),
	}
}

// Root returns the explorer root folder
func (w *Workspace) Root() string { return w.root }

// Docs returns the open documents in tab order
func (w *Workspace) Docs() []*Document { return w.docs }

// ActiveIndex returns the active tab, or -1 when no file is open
func (w *Workspace) ActiveIndex() int { return w.active }

// Active returns the document being edited. With no file open this is the
// scratch document, which has no path.
func (w *Workspace) Active() *Document {
	if w.active < 0 || w.active >= len(w.docs) {
		return w.scratch
	}
	return w.docs[w.active]
}

// SetText replaces the active document's text
func (w *Workspace) SetText(text string) {
	w.Active().Text = text
}

// IndexOf returns the tab index of path, or -1
func (w *Workspace) IndexOf(path string) int {
	clean := filepath.Clean(path)
	for i, d := range w.docs {
		if d.Path == clean {
			return i
		}
	}
	return -1
}

// Open loads path into a new tab and activates it. A file that is already
// open is activated without reloading, so unsaved edits are kept.
func (w *Workspace) Open(path string) (*Document, error) {
	clean := filepath.Clean(path)
	if i := w.IndexOf(clean); i >= 0 {
		w.active = i
		return w.docs[i], nil
	}

	doc, err := Load(clean)
	if err != nil {
		w.report("Open failed", err)
		return nil, err
	}

	w.docs = append(w.docs, doc)
	w.active = len(w.docs) - 1
	w.log.Info("opened file", logger.F("path", clean))
	return doc, nil
}

// Save writes the active document to its path. A document without a path
// is not written and ErrNoPath is returned.
func (w *Workspace) Save() error {
	doc := w.Active()
	if doc.Path == "" {
		w.report("Save failed", ErrNoPath)
		return ErrNoPath
	}

	if changed, err := doc.ChangedOnDisk(); err == nil && changed {
		w.sink.Append(sink.SourceEditor, sink.KindStatus,
			fmt.Sprintf("⚠ %s changed on disk since it was opened; overwriting\n", doc.Path))
		if d, err := doc.Changes(); err == nil && d != "" {
			w.sink.Append(sink.SourceEditor, sink.KindDiff, d)
		}
		w.log.Warn("overwriting external change", logger.F("path", doc.Path))
	}

	if err := doc.write(); err != nil {
		w.report("Save failed", err)
		return err
	}

	w.sink.Append(sink.SourceEditor, sink.KindStatus, fmt.Sprintf("✓ Saved: %s\n", doc.Path))
	w.log.Info("saved file", logger.F("path", doc.Path), logger.F("bytes", len(doc.Text)))
	return nil
}

// ShowChanges writes the active document's unsaved changes to the sink as
// a diff against the file on disk.
func (w *Workspace) ShowChanges() error {
	doc := w.Active()
	d, err := doc.Changes()
	if err != nil {
		w.report("Diff failed", err)
		return err
	}
	if d == "" {
		w.sink.Append(sink.SourceEditor, sink.KindStatus, fmt.Sprintf("No unsaved changes in %s\n", doc.Name()))
		return nil
	}
	w.sink.Append(sink.SourceEditor, sink.KindDiff, d)
	return nil
}

// Select activates tab i
func (w *Workspace) Select(i int) error {
	if i < 0 || i >= len(w.docs) {
		return ErrNoTab
	}
	w.active = i
	return nil
}

// Next activates the tab after the current one, wrapping around
func (w *Workspace) Next() {
	if len(w.docs) == 0 {
		return
	}
	w.active = (w.active + 1) % len(w.docs)
}

// Prev activates the tab before the current one, wrapping around
func (w *Workspace) Prev() {
	if len(w.docs) == 0 {
		return
	}
	w.active = (w.active - 1 + len(w.docs)) % len(w.docs)
}

// Close removes tab i. Unsaved edits in it are discarded.
func (w *Workspace) Close(i int) error {
	if i < 0 || i >= len(w.docs) {
		return ErrNoTab
	}

	w.log.Info("closed file", logger.F("path", w.docs[i].Path), logger.F("dirty", w.docs[i].Dirty()))
	w.docs = append(w.docs[:i], w.docs[i+1:]...)

	switch {
	case len(w.docs) == 0:
		w.active = -1
	case w.active > i:
		w.active--
	case w.active >= len(w.docs):
		w.active = len(w.docs) - 1
	}
	return nil
}

// Expanded returns the set of expanded explorer folders. Callers must not
// modify it.
func (w *Workspace) Expanded() map[string]bool { return w.expanded }

// IsExpanded reports whether the explorer folder at path is expanded
func (w *Workspace) IsExpanded(path string) bool { return w.expanded[path] }

// Toggle flips a folder's expanded state and returns the new state
func (w *Workspace) Toggle(path string) bool {
	if w.expanded[path] {
		delete(w.expanded, path)
		return false
	}
	w.expanded[path] = true
	return true
}

// report surfaces a file error in the command panel
func (w *Workspace) report(action string, err error) {
	w.sink.Append(sink.SourceEditor, sink.KindError, fmt.Sprintf("✗ %s: %v\n", action, err))
	w.log.Error(action, logger.F("error", err))
}
