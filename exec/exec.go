package exec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"strings"
	"time"
)

// waitDelay bounds how long Wait keeps draining pipes after the process is
// killed, for children that leave grandchildren holding the pipes open.
const waitDelay = 2 * time.Second

// Executor runs external commands
type Executor struct {
	stdout io.Writer
	stderr io.Writer
	env    []string
	dir    string

	// For mocking in tests
	commandFunc func(name string, args ...string) *exec.Cmd
}

// Options configures command execution
type Options struct {
	Stdout io.Writer
	Stderr io.Writer
	Env    []string // Additional environment variables
	Dir    string   // Working directory
}

// NewExecutor creates an executor with sensible defaults
func NewExecutor(opts *Options) *Executor {
	if opts == nil {
		opts = &Options{}
	}

	// Set defaults for nil fields
	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	return &Executor{
		stdout:      stdout,
		stderr:      stderr,
		env:         opts.Env,
		dir:         opts.Dir,
		commandFunc: exec.Command, // Can be mocked for tests
	}
}

// StartError reports a process that could not be spawned at all.
type StartError struct {
	Name string
	Err  error
}

func (e *StartError) Error() string {
	return fmt.Sprintf("failed to start %s: %v", e.Name, e.Err)
}

func (e *StartError) Unwrap() error {
	return e.Err
}

// NotFound reports whether the executable could not be located.
func (e *StartError) NotFound() bool {
	return isCommandNotFound(e.Err)
}

// Hint returns a suggestion for the user, or "" when there is none.
func (e *StartError) Hint() string {
	if e.NotFound() {
		return fmt.Sprintf("💡 Command '%s' not found. Please install it and try again", e.Name)
	}
	return ""
}

// Run executes a command and waits for it. Cancelling ctx kills the process.
func (e *Executor) Run(ctx context.Context, name string, args ...string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s cancelled: %w", name, err)
	}

	cmd := e.commandFunc(name, args...)

	// Set working directory
	if e.dir != "" {
		cmd.Dir = e.dir
	}

	// Set environment
	if len(e.env) > 0 {
		cmd.Env = append(os.Environ(), e.env...)
	}

	// Connect output streams
	cmd.Stdout = e.stdout
	cmd.Stderr = e.stderr
	cmd.WaitDelay = waitDelay

	if err := cmd.Start(); err != nil {
		return &StartError{Name: name, Err: err}
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- cmd.Wait()
	}()

	select {
	case <-ctx.Done():
		if cmd.Process != nil {
			_ = cmd.Process.Kill()
		}
		// Wait must return before the output writers are safe to read
		<-errCh
		return fmt.Errorf("%s cancelled: %w", name, ctx.Err())
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("%s failed: %w", name, err)
		}
		return nil
	}
}

// Capture runs a command and returns its complete stdout and stderr once it
// has exited.
func (e *Executor) Capture(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	var stdout, stderr bytes.Buffer
	err := e.withOutput(&stdout, &stderr).Run(ctx, name, args...)
	return stdout.Bytes(), stderr.Bytes(), err
}

// withOutput returns a copy of the executor writing to the given streams
func (e *Executor) withOutput(stdout, stderr io.Writer) *Executor {
	return &Executor{
		stdout:      stdout,
		stderr:      stderr,
		env:         e.env,
		dir:         e.dir,
		commandFunc: e.commandFunc,
	}
}

// ExitCode extracts the process exit status from a Run error.
// It returns 0 for nil and -1 when the process never produced a status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

// isCommandNotFound checks if an error indicates a command was not found
func isCommandNotFound(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, exec.ErrNotFound) ||
		errors.Is(err, fs.ErrNotExist) ||
		// Some systems return different errors
		strings.Contains(err.Error(), "executable file not found") ||
		strings.Contains(err.Error(), "command not found")
}
