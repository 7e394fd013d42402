package workspace

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/simonhull/quill/diff"
	"github.com/zeebo/blake3"
)

// Document is a file held in memory for editing
type Document struct {
	Path string
	Text string

	// digest of the contents last read from or written to disk
	digest [32]byte
}

// Load reads the whole file at path as text
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return &Document{
		Path:   path,
		Text:   string(data),
		digest: blake3.Sum256(data),
	}, nil
}

// NewScratch returns an unsaved document with no path
func NewScratch() *Document {
	return &Document{digest: blake3.Sum256(nil)}
}

// Name returns the file name shown in tabs
func (d *Document) Name() string {
	if d.Path == "" {
		return "untitled"
	}
	return filepath.Base(d.Path)
}

// Dirty reports whether the text differs from what was loaded or last saved
func (d *Document) Dirty() bool {
	return blake3.Sum256([]byte(d.Text)) != d.digest
}

// LineCount returns the number of lines; a trailing newline does not start a
// new line and empty text has none.
func (d *Document) LineCount() int {
	if d.Text == "" {
		return 0
	}
	n := strings.Count(d.Text, "\n")
	if !strings.HasSuffix(d.Text, "\n") {
		n++
	}
	return n
}

// ChangedOnDisk reports whether the file on disk no longer matches what was
// loaded or last saved. A deleted file counts as changed.
func (d *Document) ChangedOnDisk() (bool, error) {
	if d.Path == "" {
		return false, nil
	}
	data, err := os.ReadFile(d.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return true, nil
		}
		return false, fmt.Errorf("reading %s: %w", d.Path, err)
	}
	return blake3.Sum256(data) != d.digest, nil
}

// write stores the full text at the document path
func (d *Document) write() error {
	if d.Path == "" {
		return ErrNoPath
	}
	data := []byte(d.Text)
	if err := os.WriteFile(d.Path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", d.Path, err)
	}
	d.digest = blake3.Sum256(data)
	return nil
}

// Changes returns a unified diff from the file on disk to the in-memory
// text, or "" when they match. A missing file diffs as empty.
func (d *Document) Changes() (string, error) {
	if d.Path == "" {
		return "", ErrNoPath
	}
	disk, err := os.ReadFile(d.Path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("reading %s: %w", d.Path, err)
	}
	name := filepath.Base(d.Path)
	return diff.Unified(name+" (disk)", name, disk, []byte(d.Text), nil), nil
}
