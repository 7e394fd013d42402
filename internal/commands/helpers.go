package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/simonhull/quill/dispatch"
	"github.com/simonhull/quill/exec"
	"github.com/simonhull/quill/internal/config"
	"github.com/simonhull/quill/logger"
	"github.com/simonhull/quill/output"
	"github.com/simonhull/quill/sink"
)

// shutdownGrace bounds how long quitting waits for cancelled tasks
const shutdownGrace = 3 * time.Second

// app bundles the collaborators every command shares
type app struct {
	cfg        *config.Config
	sink       *sink.Sink
	launcher   *exec.Launcher
	dispatcher *dispatch.Dispatcher
	builder    *dispatch.Builder
	log        logger.Logger
	closeLog   io.Closer
}

// newApp loads configuration and wires the sink, launcher, dispatcher
// and builder.
func newApp(cmd *cobra.Command) (*app, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if cfg.File != "" {
		output.Verbose("Using config " + cfg.File)
	}

	log, closer, err := openLogger(cfg.Log.File, cfg.LogLevel(output.IsVerbose()), output.IsVerbose())
	if err != nil {
		return nil, err
	}
	logger.SetDefault(log)

	s := sink.New()
	launcher := exec.NewLauncher(s, exec.LauncherOptions{
		Shell:   cfg.ShellFor(runtime.GOOS),
		Timeout: cfg.Exec.Timeout,
		Logger:  log,
	})

	dispatcher, err := dispatch.New(launcher, s, cfg.Rules(), log)
	if err != nil {
		closer.Close()
		return nil, fmt.Errorf("run.rules: %w", err)
	}

	return &app{
		cfg:        cfg,
		sink:       s,
		launcher:   launcher,
		dispatcher: dispatcher,
		builder:    dispatch.NewBuilder(launcher, cfg.BuildStep()),
		log:        log,
		closeLog:   closer,
	}, nil
}

// Close cancels running tasks, waits briefly for them and closes the log
func (rt *app) Close() error {
	registry := rt.launcher.Registry()
	if registry.CancelAll() > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := registry.WaitAll(ctx); err != nil {
			rt.log.Warn("tasks still running at exit", logger.F("count", registry.Len()))
		}
	}
	return rt.closeLog.Close()
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// openLogger picks the log destination: the configured file, a file in the
// user cache dir when verbose, or nowhere.
func openLogger(path string, level logger.Level, verbose bool) (logger.Logger, io.Closer, error) {
	if path == "" {
		if !verbose {
			return logger.NewSilentLogger(), nopCloser{}, nil
		}
		dir, err := os.UserCacheDir()
		if err != nil {
			return logger.NewSilentLogger(), nopCloser{}, nil
		}
		path = filepath.Join(dir, "quill", "quill.log")
	}

	log, closer, err := logger.NewFileLogger(level, path)
	if err != nil {
		return nil, nil, fmt.Errorf("log.file: %w", err)
	}
	output.Verbose("Logging to " + path)
	return log, closer, nil
}

// waitForTask waits for a headless task, prints its transcript and turns a
// failed or cancelled task into an error.
func waitForTask(rt *app, task *exec.Task, message string) error {
	var res exec.Result
	if term.IsTerminal(int(os.Stderr.Fd())) {
		res = exec.WaitWithSpinner(task, message, os.Stderr)
	} else {
		output.Verbose(message + "...")
		res = task.Wait()
	}

	output.Transcript(rt.sink.Entries())

	switch task.Status() {
	case exec.StatusSucceeded:
		output.Verbose(fmt.Sprintf("%s finished in %s", task.Name(), res.Duration.Round(time.Millisecond)))
		return nil
	case exec.StatusCancelled:
		return fmt.Errorf("%s cancelled", task.Name())
	default:
		if res.Err != nil {
			return fmt.Errorf("%s failed: %w", task.Name(), res.Err)
		}
		return fmt.Errorf("%s failed with exit code %d", task.Name(), res.ExitCode)
	}
}
