package commands

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/simonhull/quill/dispatch"
	"github.com/simonhull/quill/output"
)

// RunCmd creates the run command, which runs a file by its extension
func RunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <file>",
		Short: "Run a file with the interpreter for its extension",
		Long: `Runs a file the same way ^r does in the editor and prints its output.

Built-in rules:
  .rs   rustc, then the compiled binary
  .py   python
  .js   node
  .go   go run
  .sh   sh

Add or override rules under run.rules in quill.yml.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			if output.IsVerbose() {
				steps, _ := rt.dispatcher.Steps(args[0])
				for _, step := range steps {
					output.Step(step.String())
				}
			}

			task, err := rt.dispatcher.Run(cmd.Context(), args[0])
			if err != nil {
				output.Transcript(rt.sink.Entries())
				if errors.Is(err, dispatch.ErrUnsupported) {
					output.Warn("Supported extensions: " + strings.Join(rt.dispatcher.Extensions(), " "))
				}
				return err
			}
			return waitForTask(rt, task, "Running "+args[0])
		},
	}
}

// BuildCmd creates the build command
func BuildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Build the project",
		Long: `Runs the configured build command (cargo build by default) in the
current directory and prints its output. Set build.program and build.args in
quill.yml to change it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			output.Verbose("Build command: " + rt.builder.Command().String())
			return waitForTask(rt, rt.builder.Build(cmd.Context()), "Building")
		},
	}
}

// ExecCmd creates the exec command, which runs one line through the shell
func ExecCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exec <command line...>",
		Short: "Run a command line through the host shell",
		Long: `Runs a command line through sh -c (cmd /C on Windows), exactly as if it
were typed into the editor's command panel.

Example:
  quill exec ls -la
  quill exec "go test ./... | tail -n 5"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			line := strings.Join(args, " ")
			return waitForTask(rt, rt.launcher.LaunchShell(cmd.Context(), line), line)
		},
	}
	// Everything after the command name belongs to the command line
	cmd.Flags().SetInterspersed(false)
	return cmd
}
