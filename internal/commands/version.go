package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simonhull/quill"
)

// VersionCmd creates the version command
func VersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "Quill v%s\n", quill.Version)
		},
	}
}
