package commands

import (
	"github.com/spf13/cobra"

	"github.com/simonhull/quill"
	"github.com/simonhull/quill/output"
)

// RootCmd creates the root command. Without a subcommand it opens the editor.
func RootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "quill [folder|file]",
		Short: "A terminal code editor with a built-in command panel",
		Long: `Quill is a source-code editor that runs in your terminal.

Browse a folder, edit files in tabs, and run commands without leaving the
editor:
• Run the active file with the interpreter for its extension (^r)
• Build the project (^b)
• Type shell commands into the command panel

The run, build and exec subcommands do the same work headlessly.`,
		Version:       quill.Version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			output.SetVerbose(verbose)
		},
		RunE: runEditor,
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output and debug logging")
	cmd.PersistentFlags().StringP("config", "c", "", "Path to a quill.yml config file")

	return cmd
}
