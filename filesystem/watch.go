package filesystem

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period before a batch of events is reported
const DefaultDebounce = 150 * time.Millisecond

// Watcher reports changes below a root directory
type Watcher struct {
	fsw      *fsnotify.Watcher
	opts     WalkOptions
	debounce time.Duration
	changes  chan struct{}
	errors   chan error
	done     chan struct{}
	once     sync.Once
}

// NewWatcher watches root and every directory Walk would visit below it
func NewWatcher(root string, opts WalkOptions) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	w := &Watcher{
		fsw:      fsw,
		opts:     opts,
		debounce: DefaultDebounce,
		changes:  make(chan struct{}, 1),
		errors:   make(chan error, 1),
		done:     make(chan struct{}),
	}

	if err := w.addRecursive(root); err != nil {
		fsw.Close()
		return nil, err
	}

	go w.loop()
	return w, nil
}

// Changes receives a value after each debounced batch of events. It is
// closed once the watcher stops.
func (w *Watcher) Changes() <-chan struct{} {
	return w.changes
}

// Errors receives watcher errors; only the most recent unread one is kept.
// It is closed once the watcher stops.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Close stops watching
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.fsw.Close()
	})
	return err
}

func (w *Watcher) addRecursive(root string) error {
	if err := w.fsw.Add(root); err != nil {
		return fmt.Errorf("watching %s: %w", root, err)
	}
	// fsnotify is not recursive; depth limits apply only to the display
	opts := w.opts
	opts.MaxDepth = 0
	return Walk(root, opts, func(path string, info os.FileInfo, depth int) error {
		if info.IsDir() {
			// Directories that vanish mid-walk are not fatal
			_ = w.fsw.Add(path)
		}
		return nil
	})
}

func (w *Watcher) loop() {
	defer close(w.errors)
	defer close(w.changes)

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	pending := false

	for {
		select {
		case <-w.done:
			timer.Stop()
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.opts.IncludeHidden && isHidden(event.Name) {
				continue
			}
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = w.addRecursive(event.Name)
				}
			}
			pending = true
			timer.Reset(w.debounce)

		case <-timer.C:
			if pending {
				pending = false
				select {
				case w.changes <- struct{}{}:
				default:
				}
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			select {
			case w.errors <- err:
			default:
			}
		}
	}
}

func isHidden(path string) bool {
	name := filepath.Base(path)
	return len(name) > 1 && name[0] == '.'
}
