package exec

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrTaskCancelled is wrapped into the result of a cancelled or timed out task.
var ErrTaskCancelled = errors.New("task cancelled")

// Status is the lifecycle state of a task
type Status int

const (
	StatusRunning Status = iota
	StatusSucceeded
	StatusFailed
	StatusCancelled
)

// String returns the string representation of the status
func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "running"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Result describes how a task ended.
type Result struct {
	// ExitCode of the last step that ran, or -1 if it never exited on its own
	ExitCode int
	// Err is set when a step could not start or the task was cancelled.
	// A non-zero exit alone leaves Err nil.
	Err      error
	Duration time.Duration
}

// Task is the handle for one launched job.
type Task struct {
	id      string
	name    string
	started time.Time
	cancel  context.CancelFunc
	done    chan struct{}

	mu     sync.Mutex
	status Status
	result Result
}

func newTask(name string, cancel context.CancelFunc) *Task {
	return &Task{
		id:      uuid.NewString(),
		name:    name,
		started: time.Now(),
		cancel:  cancel,
		done:    make(chan struct{}),
		status:  StatusRunning,
	}
}

// ID returns the task's unique identifier, also used as its sink source tag
func (t *Task) ID() string { return t.id }

// Name returns a human readable description of the job
func (t *Task) Name() string { return t.name }

// Started returns the launch time
func (t *Task) Started() time.Time { return t.started }

// Done is closed once the task has finished and its output is in the sink
func (t *Task) Done() <-chan struct{} { return t.done }

// Cancel kills the running process. It is safe to call more than once and
// after completion.
func (t *Task) Cancel() { t.cancel() }

// Wait blocks until the task finishes and returns its result
func (t *Task) Wait() Result {
	<-t.done
	return t.Result()
}

// Status returns the current lifecycle state
func (t *Task) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

// Result returns the final result; it is zero while the task is running
func (t *Task) Result() Result {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.result
}

func (t *Task) finish(status Status, result Result) {
	t.mu.Lock()
	t.status = status
	t.result = result
	t.mu.Unlock()
	close(t.done)
}
