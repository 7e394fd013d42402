package exec

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/simonhull/quill/logger"
	"github.com/simonhull/quill/sink"
)

const (
	// PromptMarker is appended after every job
	PromptMarker = "\n> "

	stderrPrefix = "Error: "
)

// Shell is the host command interpreter used for free-form command lines.
// The command line is appended to Args as a single argument.
type Shell struct {
	Program string
	Args    []string
}

// DefaultShell returns the interpreter for the running platform
func DefaultShell() Shell {
	return ShellFor(runtime.GOOS)
}

// ShellFor returns the interpreter for goos: cmd /C on Windows, sh -c elsewhere
func ShellFor(goos string) Shell {
	if goos == "windows" {
		return Shell{Program: "cmd", Args: []string{"/C"}}
	}
	return Shell{Program: "sh", Args: []string{"-c"}}
}

// Step is one process invocation within a job
type Step struct {
	Program string
	Args    []string
	// Display overrides the command header shown in the panel
	Display string
}

// String returns the command as shown in the panel header
func (s Step) String() string {
	if s.Display != "" {
		return s.Display
	}
	parts := append([]string{s.Program}, s.Args...)
	return strings.Join(parts, " ")
}

// Job is a sequence of steps run on one background task. A step that fails
// to start, exits non-zero, or is cancelled stops the remaining steps.
type Job struct {
	Name  string
	Steps []Step
}

// LauncherOptions configures a Launcher
type LauncherOptions struct {
	Shell    Shell         // Defaults to DefaultShell()
	Timeout  time.Duration // Zero means no timeout
	Registry *Registry     // Defaults to a new registry
	Logger   logger.Logger // Defaults to logger.Default()
}

// Launcher starts jobs in the background and appends their output to a sink
type Launcher struct {
	executor *Executor
	sink     *sink.Sink
	registry *Registry
	shell    Shell
	timeout  time.Duration
	log      logger.Logger
}

// NewLauncher creates a launcher writing to s
func NewLauncher(s *sink.Sink, opts LauncherOptions) *Launcher {
	if opts.Shell.Program == "" {
		opts.Shell = DefaultShell()
	}
	if opts.Registry == nil {
		opts.Registry = NewRegistry()
	}
	if opts.Logger == nil {
		opts.Logger = logger.Default()
	}

	return &Launcher{
		executor: NewExecutor(nil),
		sink:     s,
		registry: opts.Registry,
		shell:    opts.Shell,
		timeout:  opts.Timeout,
		log:      opts.Logger.WithFields(logger.F("component", "exec")),
	}
}

// Registry returns the registry tracking this launcher's tasks
func (l *Launcher) Registry() *Registry { return l.registry }

// Sink returns the sink this launcher appends to
func (l *Launcher) Sink() *sink.Sink { return l.sink }

// Shell returns the interpreter used by LaunchShell
func (l *Launcher) Shell() Shell { return l.shell }

// Launch runs program with args in the background
func (l *Launcher) Launch(ctx context.Context, program string, args ...string) *Task {
	return l.Start(ctx, Job{
		Name:  Step{Program: program, Args: args}.String(),
		Steps: []Step{{Program: program, Args: args}},
	})
}

// LaunchShell runs a full command line through the host shell in the background
func (l *Launcher) LaunchShell(ctx context.Context, line string) *Task {
	args := make([]string, 0, len(l.shell.Args)+1)
	args = append(args, l.shell.Args...)
	args = append(args, line)

	return l.Start(ctx, Job{
		Name:  line,
		Steps: []Step{{Program: l.shell.Program, Args: args, Display: line}},
	})
}

// Start runs job on a new background task and returns its handle immediately
func (l *Launcher) Start(ctx context.Context, job Job) *Task {
	var runCtx context.Context
	var cancel context.CancelFunc
	if l.timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, l.timeout)
	} else {
		runCtx, cancel = context.WithCancel(ctx)
	}

	task := newTask(job.Name, cancel)
	l.registry.add(task)

	log := l.log.WithFields(logger.F("task", task.ID()))
	log.Info("task started", logger.F("name", job.Name), logger.F("steps", len(job.Steps)))

	go l.run(runCtx, task, job, log)
	return task
}

func (l *Launcher) run(ctx context.Context, task *Task, job Job, log logger.Logger) {
	defer task.cancel()

	source := task.ID()
	status := StatusSucceeded
	var result Result

steps:
	for _, step := range job.Steps {
		l.sink.Append(source, sink.KindCommand, "$ "+step.String()+"\n")

		stdout, stderr, err := l.executor.Capture(ctx, step.Program, step.Args...)
		if len(stdout) > 0 {
			l.sink.Append(source, sink.KindStdout, string(stdout))
		}
		if len(stderr) > 0 {
			l.sink.Append(source, sink.KindStderr, formatStderr(stderr))
		}

		result.ExitCode = ExitCode(err)
		if err == nil {
			continue
		}

		var startErr *StartError
		switch {
		case errors.As(err, &startErr):
			msg := fmt.Sprintf("Failed to run: %v\n", startErr.Err)
			if hint := startErr.Hint(); hint != "" {
				msg += hint + "\n"
			}
			l.sink.Append(source, sink.KindError, msg)
			log.Warn("spawn failed", logger.F("program", step.Program), logger.F("error", startErr.Err))
			status = StatusFailed
			result.Err = err
		case ctx.Err() != nil:
			l.sink.Append(source, sink.KindStatus, l.cancelMessage(ctx.Err()))
			log.Info("task cancelled", logger.F("reason", ctx.Err()))
			status = StatusCancelled
			result.Err = fmt.Errorf("%w: %w", ErrTaskCancelled, ctx.Err())
		default:
			// A non-zero exit is shown like any other output; it only ends the chain
			log.Debug("step exited non-zero", logger.F("program", step.Program), logger.F("exit", result.ExitCode))
			status = StatusFailed
		}
		break steps
	}

	result.Duration = time.Since(task.started)
	l.sink.Append(source, sink.KindPrompt, PromptMarker)

	l.registry.remove(source)
	task.finish(status, result)
	log.Info("task finished", logger.F("status", status), logger.F("exit", result.ExitCode), logger.F("duration", result.Duration))
}

func (l *Launcher) cancelMessage(err error) string {
	if errors.Is(err, context.DeadlineExceeded) && l.timeout > 0 {
		return fmt.Sprintf("Timed out after %s\n", l.timeout)
	}
	return "Cancelled\n"
}
