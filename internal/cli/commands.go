package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kdeal/misc/internal/config"
	"github.com/kdeal/misc/internal/git"
	"github.com/kdeal/misc/internal/shell"
)

var commandsList bool

// runRepoCommands runs (or lists) one command set from .wkfl.yaml.
func runRepoCommands(cmd *cobra.Command, kind string, pick func(config.RepoConfig) []string) error {
	executor := git.NewRealExecutor("")
	if !executor.IsGitRepo() {
		return fmt.Errorf("not in a git repository")
	}
	repoRoot, err := executor.RepoRoot()
	if err != nil {
		return err
	}
	repoConfig, err := config.LoadRepoConfig(repoRoot)
	if err != nil {
		return err
	}

	commands := pick(repoConfig)
	if len(commands) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No %s commands configured in repository config\n", kind)
		return nil
	}
	if commandsList {
		for _, command := range commands {
			fmt.Fprintln(cmd.OutOrStdout(), command)
		}
		return nil
	}
	return shell.RunCommandsOutput(repoRoot, commands)
}

var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Run the repository's configured test commands",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRepoCommands(cmd, "test", func(rc config.RepoConfig) []string {
			return rc.TestCommands
		})
	},
}

var fmtCmd = &cobra.Command{
	Use:   "fmt",
	Short: "Run the repository's configured format commands",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRepoCommands(cmd, "fmt", func(rc config.RepoConfig) []string {
			return rc.FmtCommands
		})
	},
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Run the repository's configured build commands",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRepoCommands(cmd, "build", func(rc config.RepoConfig) []string {
			return rc.BuildCommands
		})
	},
}

func init() {
	for _, c := range []*cobra.Command{testCmd, fmtCmd, buildCmd} {
		c.Flags().BoolVar(&commandsList, "list", false, "print the commands instead of running them")
		rootCmd.AddCommand(c)
	}
}
