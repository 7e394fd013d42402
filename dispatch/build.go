package dispatch

import (
	"context"

	"github.com/simonhull/quill/exec"
)

// DefaultBuild is the build command used when none is configured
var DefaultBuild = exec.Step{Program: "cargo", Args: []string{"build"}}

// Builder invokes the fixed project build command
type Builder struct {
	starter Starter
	step    exec.Step
}

// NewBuilder creates a builder for step. An empty program selects DefaultBuild.
func NewBuilder(starter Starter, step exec.Step) *Builder {
	if step.Program == "" {
		step = DefaultBuild
	}
	return &Builder{starter: starter, step: step}
}

// Command returns the build command
func (b *Builder) Command() exec.Step {
	return b.step
}

// Build starts the build in the background
func (b *Builder) Build(ctx context.Context) *exec.Task {
	return b.starter.Start(ctx, exec.Job{Name: "build", Steps: []exec.Step{b.step}})
}
