package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/simonhull/quill/input"
	"github.com/simonhull/quill/internal/config"
	"github.com/simonhull/quill/output"
)

// ConfigCmd creates the config command group
func ConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage quill.yml",
	}
	cmd.AddCommand(newConfigInitCommand(), newConfigShowCommand())
	return cmd
}

func newConfigInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write the default configuration",
		Long:  `Writes every setting with its default value to quill.yml (or path).`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := input.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
			path := config.FileName + ".yml"
			switch {
			case len(args) > 0:
				path = args[0]
			case isTerminal(cmd.InOrStdin()):
				path = p.Prompt("Config path", path)
			}

			if _, err := os.Stat(path); err == nil && !force {
				if !p.Confirm(fmt.Sprintf("%s already exists. Overwrite?", path), false) {
					output.Info("Left " + path + " unchanged")
					return nil
				}
			}

			if err := config.Write(path, config.Default()); err != nil {
				return err
			}
			output.Success("Wrote " + path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file without asking")
	return cmd
}

// isTerminal reports whether r is an interactive terminal
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			data, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("failed to encode config: %w", err)
			}
			if cfg.File != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "# %s\n", cfg.File)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
