package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/kdeal/misc/internal/config"
	"github.com/kdeal/misc/internal/git"
	"github.com/kdeal/misc/internal/github"
	"github.com/kdeal/misc/internal/log"
	"github.com/kdeal/misc/internal/prompt"
	"github.com/kdeal/misc/internal/repos"
	"github.com/kdeal/misc/internal/shell"
)

var reposFullPath bool

var reposCmd = &cobra.Command{
	Use:   "repos",
	Short: "List repositories under the repositories directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		baseDir, err := cfg.RepositoriesDirectoryPath()
		if err != nil {
			return err
		}
		repoPaths, err := repos.Discover(baseDir)
		if err != nil {
			return err
		}
		if reposFullPath {
			for _, repoPath := range repoPaths {
				fmt.Fprintln(cmd.OutOrStdout(), repoPath)
			}
			return nil
		}
		for _, name := range repos.Names(baseDir, repoPaths) {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

var switchCmd = &cobra.Command{
	Use:   "switch",
	Short: "Switch to another repository",
	RunE: func(cmd *cobra.Command, args []string) error {
		baseDir, err := cfg.RepositoriesDirectoryPath()
		if err != nil {
			return err
		}
		repoPaths, err := repos.Discover(baseDir)
		if err != nil {
			return err
		}
		name, err := prompt.Select(newDriver(), "Repo:", repos.Names(baseDir, repoPaths))
		if err != nil {
			return err
		}
		pushShellAction(shell.Cd(filepath.Join(baseDir, name)))
		return nil
	},
}

var cloneCmd = &cobra.Command{
	Use:   "clone",
	Short: "Clone a repository into the repositories directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		d := newDriver()
		repoURL, err := prompt.Basic(d, "Clone Url:")
		if err != nil {
			return err
		}
		repoName, err := git.RepoFromRemoteURL(repoURL)
		if err != nil {
			return err
		}

		baseDir, err := cfg.RepositoriesDirectoryPath()
		if err != nil {
			return err
		}
		repoPath := filepath.Join(baseDir, repoName)
		if err := os.MkdirAll(repoPath, 0o755); err != nil {
			return err
		}

		useWorktrees, err := prompt.Boolean(d, "Use worktrees?", false)
		if err != nil {
			return err
		}
		if useWorktrees {
			return fmt.Errorf("cloning and using worktrees is unsupported")
		}

		if err := git.NewRealExecutor("").Clone(repoURL, repoPath); err != nil {
			return err
		}
		pushShellAction(shell.Cd(repoPath))
		return nil
	},
}

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete local branches whose pull request has merged",
	RunE: func(cmd *cobra.Command, args []string) error {
		executor := git.NewRealExecutor("")
		if !executor.IsGitRepo() {
			return fmt.Errorf("not in a git repository")
		}
		remoteURL, err := executor.RemoteURL("origin")
		if err != nil {
			return err
		}
		owner, repoName, err := git.OwnerRepoFromRemoteURL(remoteURL)
		if err != nil {
			return err
		}
		client, err := github.NewClientForRemote(remoteURL, cfg)
		if err != nil {
			return err
		}
		lookup, err := newPullLookup(client)
		if err != nil {
			return err
		}

		defaultBranch, err := executor.DefaultBranch()
		if err != nil {
			return err
		}
		branches, err := executor.ListBranches()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		var branchesToDelete []string
		for _, branch := range branches {
			if branch.IsCurrent {
				continue
			}
			fmt.Fprintf(out, "Branch: %s\n", branch.Name)
			if branch.Name == defaultBranch {
				fmt.Fprintf(out, "  Default branch '%s', skipping\n", branch.Name)
				continue
			}

			prs, err := lookup.ForCommit(cmd.Context(), owner, repoName, branch.Hash)
			if err != nil {
				fmt.Fprintf(out, "  Failed to query GitHub API: %v\n", err)
				continue
			}
			if len(prs) == 0 {
				fmt.Fprintln(out, "  No pull request found")
				continue
			}

			merged := false
			for _, pr := range prs {
				if pr.Merged() {
					fmt.Fprintf(out, "  Pull request %s merged, deleting branch\n", prLink(pr))
					merged = true
					break
				}
			}
			if !merged {
				fmt.Fprintf(out, "  Pull request %s not merged\n", prLink(prs[0]))
				continue
			}
			branchesToDelete = append(branchesToDelete, branch.Name)
		}

		for _, branchName := range branchesToDelete {
			if err := executor.RemoveBranch(branchName); err != nil {
				return err
			}
		}
		return nil
	},
}

// prLink renders "#123" as a terminal hyperlink to the PR.
func prLink(pr github.PullRequest) string {
	return termenv.Hyperlink(pr.HTMLURL, fmt.Sprintf("#%d", pr.Number))
}

var repoDebugCmd = &cobra.Command{
	Use:   "repo-debug",
	Short: "Print repository state for debugging",
	RunE: func(cmd *cobra.Command, args []string) error {
		executor := git.NewRealExecutor("")
		if !executor.IsGitRepo() {
			return fmt.Errorf("not in a git repository")
		}

		isWorktree, err := executor.IsWorktree()
		if err != nil {
			return err
		}
		log.Info(log.CatGit, "repo state", "worktree", isWorktree)

		isBare, err := executor.IsBareRepo()
		if err != nil {
			return err
		}
		log.Info(log.CatGit, "repo state", "bare", isBare)

		repoRoot, err := executor.RepoRoot()
		if err != nil {
			return err
		}
		log.Info(log.CatGit, "repo state", "root", repoRoot)

		if !isBare {
			hasChanges, err := executor.HasUncommittedChanges()
			if err != nil {
				return err
			}
			log.Info(log.CatGit, "repo state", "has_changes", hasChanges)
		} else {
			log.Info(log.CatGit, "repo state", "has_changes", "n/a")
		}

		worktrees, err := executor.ListWorktrees()
		if err != nil {
			return err
		}
		for _, wt := range worktrees {
			log.Info(log.CatGit, "worktree", "name", wt.Name, "path", wt.Path, "branch", wt.Branch)
		}
		return nil
	},
}

// newPullLookup builds the cached PR lookup under the user cache dir.
func newPullLookup(client *github.Client) (*github.PullLookup, error) {
	cacheDir, err := config.DefaultCacheDir()
	if err != nil {
		return nil, err
	}
	return github.NewPullLookup(client, cacheDir, noCache)
}

func init() {
	reposCmd.Flags().BoolVar(&reposFullPath, "full-path", false, "print absolute paths")
	rootCmd.AddCommand(reposCmd)
	rootCmd.AddCommand(switchCmd)
	rootCmd.AddCommand(cloneCmd)
	rootCmd.AddCommand(pruneCmd)
	rootCmd.AddCommand(repoDebugCmd)
}
