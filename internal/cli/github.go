package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/kdeal/misc/internal/git"
	"github.com/kdeal/misc/internal/github"
)

var prCmd = &cobra.Command{
	Use:   "pr [sha]",
	Short: "Find the pull request for a commit",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		executor := git.NewRealExecutor("")
		if !executor.IsGitRepo() {
			return fmt.Errorf("not in a git repository")
		}

		sha := ""
		if len(args) == 1 {
			sha = args[0]
		} else {
			var err error
			sha, err = executor.CommitSHA("HEAD")
			if err != nil {
				return err
			}
		}

		owner, repoName, _, lookup, err := pullRequestLookup(executor)
		if err != nil {
			return err
		}
		prs, err := lookup.ForCommit(cmd.Context(), owner, repoName, sha)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(prs) == 0 {
			fmt.Fprintf(out, "No pull request found for commit %s\n", sha)
			return nil
		}
		for _, pr := range prs {
			status := "open"
			if pr.Merged() {
				status = "merged"
			}
			fmt.Fprintf(out, "PR #%d (%s): %s\n", pr.Number, status, pr.HTMLURL)
		}
		return nil
	},
}

var (
	prNoTimeline bool
	prNoBots     bool
	prNoDiff     bool
)

var prCommentsCmd = &cobra.Command{
	Use:   "pr-comments [number]",
	Short: "Show pull request comments as markdown",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		executor := git.NewRealExecutor("")
		if !executor.IsGitRepo() {
			return fmt.Errorf("not in a git repository")
		}

		owner, repoName, client, lookup, err := pullRequestLookup(executor)
		if err != nil {
			return err
		}

		var number int
		if len(args) == 1 {
			if _, err := fmt.Sscanf(args[0], "%d", &number); err != nil {
				return fmt.Errorf("invalid pull request number %q", args[0])
			}
		} else {
			sha, err := executor.CommitSHA("HEAD")
			if err != nil {
				return err
			}
			prs, err := lookup.ForCommit(cmd.Context(), owner, repoName, sha)
			if err != nil {
				return err
			}
			if len(prs) == 0 {
				return fmt.Errorf("no pull request found for current commit %s", sha)
			}
			number = prs[0].Number
		}

		comments, err := client.PRComments(cmd.Context(), owner, repoName, number)
		if err != nil {
			return err
		}

		markdown, err := github.FormatCommentsMarkdown(comments, github.CommentFilter{
			SkipTimeline: prNoTimeline,
			SkipBots:     prNoBots,
			SkipDiff:     prNoDiff,
		})
		if err != nil {
			return err
		}

		return printMarkdown(cmd, markdown)
	},
}

// printMarkdown renders through glamour when stdout is a terminal and
// falls back to the raw text otherwise.
func printMarkdown(cmd *cobra.Command, markdown string) error {
	out := cmd.OutOrStdout()
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		renderer, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(100),
		)
		if err == nil {
			if rendered, err := renderer.Render(markdown); err == nil {
				_, err = fmt.Fprint(out, rendered)
				return err
			}
		}
	}
	_, err := fmt.Fprint(out, markdown)
	return err
}

func pullRequestLookup(executor git.Executor) (owner, repo string, client *github.Client, lookup *github.PullLookup, err error) {
	remoteURL, err := executor.RemoteURL("origin")
	if err != nil {
		return "", "", nil, nil, err
	}
	owner, repo, err = git.OwnerRepoFromRemoteURL(remoteURL)
	if err != nil {
		return "", "", nil, nil, err
	}
	client, err = github.NewClientForRemote(remoteURL, cfg)
	if err != nil {
		return "", "", nil, nil, err
	}
	lookup, err = newPullLookup(client)
	if err != nil {
		return "", "", nil, nil, err
	}
	return owner, repo, client, lookup, nil
}

func init() {
	prCommentsCmd.Flags().BoolVar(&prNoTimeline, "no-timeline", false, "hide timeline comments")
	prCommentsCmd.Flags().BoolVar(&prNoBots, "no-bots", false, "hide comments from bot users")
	prCommentsCmd.Flags().BoolVar(&prNoDiff, "no-diff", false, "hide review comments on the diff")
	rootCmd.AddCommand(prCmd)
	rootCmd.AddCommand(prCommentsCmd)
}
