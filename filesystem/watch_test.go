package filesystem

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcher_ReportsChanges(t *testing.T) {
	tmpDir := t.TempDir()
	createTestTree(t, tmpDir, "sub/existing.txt")

	w, err := NewWatcher(tmpDir, WalkOptions{})
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(tmpDir, "sub", "new.txt"), []byte("hi"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-w.Changes():
	case <-time.After(5 * time.Second):
		t.Fatal("expected a change notification")
	}
}

func TestWatcher_CloseIsIdempotent(t *testing.T) {
	w, err := NewWatcher(t.TempDir(), WalkOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("first Close() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestWatcher_CloseEndsChanges(t *testing.T) {
	w, err := NewWatcher(t.TempDir(), WalkOptions{})
	if err != nil {
		t.Fatal(err)
	}
	w.Close()

	select {
	case _, ok := <-w.Changes():
		if ok {
			t.Error("expected Changes to be closed")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Changes was not closed")
	}
}

func TestNewWatcher_MissingRoot(t *testing.T) {
	if _, err := NewWatcher(filepath.Join(t.TempDir(), "missing"), WalkOptions{}); err == nil {
		t.Error("expected error for missing root")
	}
}

func TestWatcher_CloseEndsErrors(t *testing.T) {
	w, err := NewWatcher(t.TempDir(), WalkOptions{})
	if err != nil {
		t.Fatal(err)
	}
	w.Close()

	select {
	case _, ok := <-w.Errors():
		if ok {
			t.Error("expected Errors to be closed")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Errors was not closed")
	}
}
