// Package exec launches external commands for the editor's command panel.
//
// The package provides four main components:
//
// 1. Executor - Runs one system command with context support and a mockable
// command constructor
// 2. Launcher - Starts jobs asynchronously and appends their captured output
// to a shared sink.Sink
// 3. Task - Handle returned for every launch, with completion, cancellation
// and a result
// 4. Registry - Tracks in-flight tasks
//
// # Basic Usage
//
//	s := sink.New()
//	l := exec.NewLauncher(s, exec.LauncherOptions{})
//	task := l.LaunchShell(ctx, "echo hello")
//	task.Wait()
//	fmt.Print(s.Snapshot())
//	// $ echo hello
//	// hello
//	//
//	// >
//
// # Output policy
//
// Output is captured in full and appended only after the process exits; there
// is no streaming. Standard error is prefixed line by line with "Error: ".
// Every job ends with the prompt marker, including jobs that failed to start
// or were cancelled.
//
// Launches are never queued or limited. Each runs in its own goroutine and
// concurrent jobs may finish in any order; entries carry the task ID as their
// source tag so output can still be attributed.
package exec
