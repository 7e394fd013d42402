package exec

import (
	"context"
	"sort"
	"sync"
)

// Registry tracks in-flight tasks. Tasks are removed once they finish.
type Registry struct {
	mu    sync.RWMutex
	tasks map[string]*Task
}

// NewRegistry creates an empty task registry
func NewRegistry() *Registry {
	return &Registry{
		tasks: make(map[string]*Task),
	}
}

func (r *Registry) add(t *Task) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks[t.ID()] = t
}

func (r *Registry) remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tasks, id)
}

// Get retrieves an in-flight task by ID
func (r *Registry) Get(id string) (*Task, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tasks[id]
	return t, ok
}

// Active returns the in-flight tasks ordered by launch time
func (r *Registry) Active() []*Task {
	r.mu.RLock()
	tasks := make([]*Task, 0, len(r.tasks))
	for _, t := range r.tasks {
		tasks = append(tasks, t)
	}
	r.mu.RUnlock()

	sort.Slice(tasks, func(i, j int) bool {
		if tasks[i].started.Equal(tasks[j].started) {
			return tasks[i].id < tasks[j].id
		}
		return tasks[i].started.Before(tasks[j].started)
	})
	return tasks
}

// Len returns the number of in-flight tasks
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tasks)
}

// CancelAll cancels every in-flight task and returns how many were signalled
func (r *Registry) CancelAll() int {
	tasks := r.Active()
	for _, t := range tasks {
		t.Cancel()
	}
	return len(tasks)
}

// WaitAll blocks until every task active at call time has finished or ctx ends
func (r *Registry) WaitAll(ctx context.Context) error {
	for _, t := range r.Active() {
		select {
		case <-t.Done():
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}
