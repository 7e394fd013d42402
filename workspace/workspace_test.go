package workspace

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/quill/logger"
	"github.com/simonhull/quill/sink"
)

func newTestWorkspace(t *testing.T) (*Workspace, *sink.Sink, string) {
	t.Helper()
	dir := t.TempDir()
	s := sink.New()
	return New(dir, s, logger.NewSilentLogger()), s, dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestOpen(t *testing.T) {
	ws, s, dir := newTestWorkspace(t)
	path := filepath.Join(dir, "main.rs")
	writeFile(t, path, "fn main() {}\n")

	doc, err := ws.Open(path)
	require.NoError(t, err)

	assert.Equal(t, "fn main() {}\n", doc.Text)
	assert.Equal(t, "main.rs", doc.Name())
	assert.Equal(t, 0, ws.ActiveIndex())
	assert.Same(t, doc, ws.Active())
	assert.False(t, doc.Dirty())
	assert.Empty(t, s.Snapshot())
}

func TestOpen_AlreadyOpenKeepsEdits(t *testing.T) {
	ws, _, dir := newTestWorkspace(t)
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.txt")
	writeFile(t, a, "a")
	writeFile(t, b, "b")

	_, err := ws.Open(a)
	require.NoError(t, err)
	ws.SetText("edited")
	_, err = ws.Open(b)
	require.NoError(t, err)

	doc, err := ws.Open(a)
	require.NoError(t, err)
	assert.Len(t, ws.Docs(), 2, "no duplicate tab")
	assert.Equal(t, 0, ws.ActiveIndex())
	assert.Equal(t, "edited", doc.Text)
	assert.True(t, doc.Dirty())
}

func TestOpen_MissingFileIsReported(t *testing.T) {
	ws, s, dir := newTestWorkspace(t)

	_, err := ws.Open(filepath.Join(dir, "missing.txt"))
	require.Error(t, err)

	assert.Empty(t, ws.Docs())
	assert.Equal(t, -1, ws.ActiveIndex())
	assert.True(t, strings.HasPrefix(s.Snapshot(), "✗ Open failed: "), s.Snapshot())
}

func TestSave(t *testing.T) {
	ws, s, dir := newTestWorkspace(t)
	path := filepath.Join(dir, "notes.md")
	writeFile(t, path, "old")

	_, err := ws.Open(path)
	require.NoError(t, err)
	ws.SetText("new contents")

	require.NoError(t, ws.Save())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new contents", string(data))
	assert.Equal(t, "✓ Saved: "+path+"\n", s.Snapshot())
	assert.False(t, ws.Active().Dirty())
}

func TestSave_NoFileOpen(t *testing.T) {
	ws, s, dir := newTestWorkspace(t)
	ws.SetText("typed into the scratch buffer")

	err := ws.Save()
	assert.ErrorIs(t, err, ErrNoPath)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "nothing may be written")
	assert.Equal(t, "✗ Save failed: no file path set\n", s.Snapshot())
	require.Len(t, s.Entries(), 1)
	assert.Equal(t, sink.KindError, s.Entries()[0].Kind)
}

func TestSave_WriteFailureIsReported(t *testing.T) {
	ws, s, dir := newTestWorkspace(t)
	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.Mkdir(sub, 0o755))
	path := filepath.Join(sub, "file.txt")
	writeFile(t, path, "x")

	_, err := ws.Open(path)
	require.NoError(t, err)
	require.NoError(t, os.RemoveAll(sub))

	err = ws.Save()
	require.Error(t, err)
	assert.Contains(t, s.Snapshot(), "✗ Save failed: writing ")
	assert.NotContains(t, s.Snapshot(), "✓ Saved")
}

func TestSave_WarnsWhenChangedOnDisk(t *testing.T) {
	ws, s, dir := newTestWorkspace(t)
	path := filepath.Join(dir, "f.txt")
	writeFile(t, path, "v1")

	doc, err := ws.Open(path)
	require.NoError(t, err)

	changed, err := doc.ChangedOnDisk()
	require.NoError(t, err)
	assert.False(t, changed)

	writeFile(t, path, "changed elsewhere")
	changed, err = doc.ChangedOnDisk()
	require.NoError(t, err)
	assert.True(t, changed)

	ws.SetText("mine")
	require.NoError(t, ws.Save())

	out := s.Snapshot()
	assert.Contains(t, out, "changed on disk since it was opened")
	assert.Contains(t, out, "-changed elsewhere\n+mine\n")
	assert.Contains(t, out, "✓ Saved: ")

	changed, err = doc.ChangedOnDisk()
	require.NoError(t, err)
	assert.False(t, changed, "saving resets the disk digest")
}

func TestTabs(t *testing.T) {
	ws, _, dir := newTestWorkspace(t)
	for _, name := range []string{"a", "b", "c"} {
		path := filepath.Join(dir, name)
		writeFile(t, path, name)
		_, err := ws.Open(path)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, ws.ActiveIndex())

	ws.Next()
	assert.Equal(t, 0, ws.ActiveIndex())
	ws.Prev()
	assert.Equal(t, 2, ws.ActiveIndex())

	require.NoError(t, ws.Select(1))
	assert.Equal(t, "b", ws.Active().Name())
	assert.ErrorIs(t, ws.Select(7), ErrNoTab)
}

func TestClose(t *testing.T) {
	ws, _, dir := newTestWorkspace(t)
	for _, name := range []string{"a", "b", "c"} {
		path := filepath.Join(dir, name)
		writeFile(t, path, name)
		_, err := ws.Open(path)
		require.NoError(t, err)
	}

	// Closing a tab before the active one keeps the same document active
	require.NoError(t, ws.Select(2))
	require.NoError(t, ws.Close(0))
	assert.Equal(t, "c", ws.Active().Name())

	// Closing the active last tab moves to the new last tab
	require.NoError(t, ws.Close(1))
	assert.Equal(t, "b", ws.Active().Name())

	require.NoError(t, ws.Close(0))
	assert.Equal(t, -1, ws.ActiveIndex())
	assert.Equal(t, "untitled", ws.Active().Name())

	assert.ErrorIs(t, ws.Close(0), ErrNoTab)
}

func TestToggle(t *testing.T) {
	ws, _, dir := newTestWorkspace(t)
	folder := filepath.Join(dir, "src")

	assert.False(t, ws.IsExpanded(folder))
	assert.True(t, ws.Toggle(folder))
	assert.True(t, ws.IsExpanded(folder))
	assert.True(t, ws.Expanded()[folder])
	assert.False(t, ws.Toggle(folder))
	assert.False(t, ws.IsExpanded(folder))
}

func TestLineCount(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"one", 1},
		{"one\n", 1},
		{"one\ntwo", 2},
		{"one\n\n", 2},
	}
	for _, tt := range tests {
		d := &Document{Text: tt.text}
		assert.Equal(t, tt.want, d.LineCount(), "text %q", tt.text)
	}
}

func TestScratch(t *testing.T) {
	d := NewScratch()
	assert.False(t, d.Dirty())
	d.Text = "x"
	assert.True(t, d.Dirty())

	changed, err := d.ChangedOnDisk()
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestShowChanges(t *testing.T) {
	ws, s, dir := newTestWorkspace(t)
	path := filepath.Join(dir, "notes.txt")
	writeFile(t, path, "alpha\nbeta\n")

	_, err := ws.Open(path)
	require.NoError(t, err)

	require.NoError(t, ws.ShowChanges())
	assert.Equal(t, "No unsaved changes in notes.txt\n", s.Snapshot())

	s.Clear()
	ws.SetText("alpha\ngamma\n")
	require.NoError(t, ws.ShowChanges())

	entries := s.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, sink.KindDiff, entries[0].Kind)
	assert.Equal(t, "--- notes.txt (disk)\n+++ notes.txt\n@@ -1,2 +1,2 @@\n alpha\n-beta\n+gamma\n", entries[0].Text)
}

func TestShowChanges_Scratch(t *testing.T) {
	ws, s, _ := newTestWorkspace(t)

	err := ws.ShowChanges()
	require.ErrorIs(t, err, ErrNoPath)
	assert.Equal(t, "✗ Diff failed: no file path set\n", s.Snapshot())
}

func TestChanges_DeletedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gone.txt")
	writeFile(t, path, "kept\n")

	doc, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, os.Remove(path))

	d, err := doc.Changes()
	require.NoError(t, err)
	assert.Contains(t, d, "@@ -0,0 +1,1 @@\n+kept\n")
}
