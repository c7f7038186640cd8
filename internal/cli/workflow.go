package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kdeal/misc/internal/config"
	"github.com/kdeal/misc/internal/git"
	"github.com/kdeal/misc/internal/log"
	"github.com/kdeal/misc/internal/prompt"
	"github.com/kdeal/misc/internal/shell"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a workflow on a new branch or worktree",
	RunE: func(cmd *cobra.Command, args []string) error {
		executor := git.NewRealExecutor("")
		if !executor.IsGitRepo() {
			return fmt.Errorf("not in a git repository")
		}

		d := newDriver()
		name, err := prompt.Basic(d, "Name:")
		if err != nil {
			return err
		}
		ticket, err := prompt.Basic(d, "Ticket:")
		if err != nil {
			return err
		}

		user, err := currentUser()
		if err != nil {
			return err
		}
		branchName := fmt.Sprintf("%s/%s", user, name)
		if ticket != "" {
			branchName = fmt.Sprintf("%s/%s_%s", user, ticket, name)
		}

		repoRoot, err := executor.RepoRoot()
		if err != nil {
			return err
		}
		repoConfig, err := config.LoadRepoConfig(repoRoot)
		if err != nil {
			return err
		}
		if err := shell.RunCommands(repoRoot, repoConfig.PreStartCommands); err != nil {
			return err
		}

		useWorktrees, err := executor.UsesWorktrees()
		if err != nil {
			return err
		}
		if useWorktrees {
			log.Info(log.CatGit, "Creating worktree", "name", name, "branch", branchName)
			worktreePath, err := executor.CreateWorktree(name, branchName)
			if err != nil {
				return err
			}
			pushShellAction(shell.Cd(worktreePath))
		} else {
			log.Info(log.CatGit, "Creating branch", "branch", branchName)
			if err := executor.SwitchBranchFromDefault(branchName); err != nil {
				return err
			}
		}

		return shell.RunCommands(repoRoot, repoConfig.PostStartCommands)
	},
}

var endCmd = &cobra.Command{
	Use:   "end",
	Short: "End a workflow, removing its branch or worktree",
	RunE: func(cmd *cobra.Command, args []string) error {
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
		if err := shell.RunCommands(repoRoot, repoConfig.PreEndCommands); err != nil {
			return err
		}

		isWorktree, err := executor.IsWorktree()
		if err != nil {
			return err
		}
		isBare, err := executor.IsBareRepo()
		if err != nil {
			return err
		}

		switch {
		case isWorktree:
			return fmt.Errorf("for worktree based repos run end from the base of the repo")
		case isBare:
			worktrees, err := executor.ListWorktrees()
			if err != nil {
				return err
			}
			names := make([]string, 0, len(worktrees))
			for _, wt := range worktrees {
				names = append(names, wt.Name)
			}
			name, err := prompt.Select(newDriver(), "Worktree Name:", names)
			if err != nil {
				return err
			}
			if err := executor.RemoveWorktree(name); err != nil {
				return err
			}
		default:
			onDefault, err := executor.OnDefaultBranch()
			if err != nil {
				return err
			}
			if onDefault {
				branchName, err := prompt.Basic(newDriver(), "Branch Name:")
				if err != nil {
					return err
				}
				if err := executor.RemoveBranch(branchName); err != nil {
					return err
				}
			} else if err := executor.RemoveCurrentBranch(); err != nil {
				return err
			}
		}

		return shell.RunCommands(repoRoot, repoConfig.PostEndCommands)
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(endCmd)
}
