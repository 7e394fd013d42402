package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/simonhull/quill/filesystem"
	"github.com/simonhull/quill/logger"
	"github.com/simonhull/quill/tui"
	"github.com/simonhull/quill/workspace"
)

// errNotTerminal is returned when the editor is started without a terminal
var errNotTerminal = errors.New("the editor needs an interactive terminal; use run, build or exec for headless use")

func runEditor(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errNotTerminal
	}

	target := "."
	if len(args) > 0 {
		target = args[0]
	}
	root, file, err := resolveTarget(target)
	if err != nil {
		return err
	}

	rt, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	ws := workspace.New(root, rt.sink, rt.log)
	if file != "" {
		// Open failures are already reported in the command panel
		_, _ = ws.Open(file)
	}

	var watcher *filesystem.Watcher
	if rt.cfg.Explorer.Watch {
		watcher, err = filesystem.NewWatcher(root, rt.cfg.WalkOptions())
		if err != nil {
			rt.log.Warn("explorer will not refresh automatically", logger.F("error", err))
		} else {
			defer watcher.Close()
		}
	}

	rt.log.Info("editor started", logger.F("root", root))
	return tui.Run(cmd.Context(), tui.Options{
		Workspace:  ws,
		Sink:       rt.sink,
		Launcher:   rt.launcher,
		Dispatcher: rt.dispatcher,
		Builder:    rt.builder,
		Walk:       rt.cfg.WalkOptions(),
		Watcher:    watcher,
		AutoPair:   rt.cfg.Editor.AutoPair,
		Logger:     rt.log,
	})
}

// resolveTarget returns the explorer root for target and, when target is a
// file, the file to open.
func resolveTarget(target string) (root, file string, err error) {
	abs, err := filepath.Abs(target)
	if err != nil {
		return "", "", fmt.Errorf("resolving %s: %w", target, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", "", fmt.Errorf("opening %s: %w", target, err)
	}
	if info.IsDir() {
		return abs, "", nil
	}
	return filepath.Dir(abs), abs, nil
}
