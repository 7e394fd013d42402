package dispatch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/simonhull/quill/exec"
	"github.com/simonhull/quill/logger"
	"github.com/simonhull/quill/sink"
)

// UnsupportedMessage is appended when a file has no dispatch rule
const UnsupportedMessage = "Unsupported file type\n"

// ErrUnsupported is returned for files whose extension has no rule
var ErrUnsupported = errors.New("unsupported file type")

// Starter starts jobs in the background; *exec.Launcher implements it
type Starter interface {
	Start(ctx context.Context, job exec.Job) *exec.Task
}

// Dispatcher runs files through the interpreter or compiler for their type
type Dispatcher struct {
	starter Starter
	sink    *sink.Sink
	rules   map[string]Rule
	goos    string
	log     logger.Logger
}

// New creates a dispatcher. Rules later in the list replace earlier ones with
// the same extension, so overrides can be appended to DefaultRules().
func New(starter Starter, s *sink.Sink, rules []Rule, log logger.Logger) (*Dispatcher, error) {
	if log == nil {
		log = logger.Default()
	}

	table := make(map[string]Rule, len(rules))
	for _, r := range rules {
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("invalid dispatch rule: %w", err)
		}
		table[r.Ext] = r
	}

	return &Dispatcher{
		starter: starter,
		sink:    s,
		rules:   table,
		goos:    runtime.GOOS,
		log:     log.WithFields(logger.F("component", "dispatch")),
	}, nil
}

// Supports reports whether path has a dispatch rule
func (d *Dispatcher) Supports(path string) bool {
	_, ok := d.rules[filepath.Ext(path)]
	return ok
}

// Extensions returns the recognised extensions in sorted order
func (d *Dispatcher) Extensions() []string {
	exts := make([]string, 0, len(d.rules))
	for ext := range d.rules {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Steps returns the expanded steps that would run path
func (d *Dispatcher) Steps(path string) ([]exec.Step, error) {
	rule, ok := d.rules[filepath.Ext(path)]
	if !ok {
		return nil, ErrUnsupported
	}

	exp := newExpander(path, d.goos)
	steps := make([]exec.Step, len(rule.Steps))
	for i, s := range rule.Steps {
		steps[i] = exp.step(s)
	}
	return steps, nil
}

// Run starts the command for path in the background. For an unsupported
// file it appends UnsupportedMessage, spawns nothing and returns ErrUnsupported.
func (d *Dispatcher) Run(ctx context.Context, path string) (*exec.Task, error) {
	steps, err := d.Steps(path)
	if err != nil {
		d.sink.Append(sink.SourceEditor, sink.KindStatus, UnsupportedMessage)
		d.log.Info("unsupported file type", logger.F("path", path))
		return nil, err
	}

	d.log.Debug("dispatching", logger.F("path", path), logger.F("steps", len(steps)))
	return d.starter.Start(ctx, exec.Job{Name: "run " + filepath.Base(path), Steps: steps}), nil
}
