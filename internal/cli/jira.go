package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/reflow/truncate"
	"github.com/spf13/cobra"

	"github.com/kdeal/misc/internal/jira"
	"github.com/kdeal/misc/internal/log"
	"github.com/kdeal/misc/internal/prompt"
)

var jiraCmd = &cobra.Command{
	Use:   "jira",
	Short: "Look up Jira issues and filters",
}

var jiraMaxResults int

var jiraIssueCmd = &cobra.Command{
	Use:   "issue <key>",
	Short: "Show a Jira issue",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := jira.NewClientFromConfig(cfg)
		if err != nil {
			return err
		}
		issue, err := client.GetIssue(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		printJiraIssue(cmd.OutOrStdout(), issue)
		return nil
	},
}

func printJiraIssue(out io.Writer, issue jira.Issue) {
	fmt.Fprintf(out, "Issue: %s\n", issue.Key)
	fmt.Fprintf(out, "Summary: %s\n", issue.Fields.Summary)
	fmt.Fprintf(out, "Status: %s\n", issue.Fields.Status.Name)
	fmt.Fprintf(out, "Project: %s (%s)\n", issue.Fields.Project.Name, issue.Fields.Project.Key)
	fmt.Fprintf(out, "Type: %s\n", issue.Fields.IssueType.Name)

	if issue.Fields.Assignee != nil {
		fmt.Fprintf(out, "Assignee: %s\n", issue.Fields.Assignee.DisplayName)
	} else {
		fmt.Fprintln(out, "Assignee: Unassigned")
	}
	if issue.Fields.Reporter != nil {
		fmt.Fprintf(out, "Reporter: %s\n", issue.Fields.Reporter.DisplayName)
	}
	if issue.Fields.Priority != nil {
		fmt.Fprintf(out, "Priority: %s\n", issue.Fields.Priority.Name)
	}

	fmt.Fprintf(out, "Created: %s\n", jira.FormatDate(issue.Fields.Created))
	fmt.Fprintf(out, "Updated: %s\n", jira.FormatDate(issue.Fields.Updated))

	if issue.Fields.Description != nil {
		fmt.Fprintln(out, "\nDescription:")
		fmt.Fprintln(out, issue.Fields.Description.ToMarkdown())
	}

	if len(issue.Fields.Comment.Comments) > 0 {
		fmt.Fprintf(out, "\nComments (%d):\n", len(issue.Fields.Comment.Comments))
		for _, comment := range issue.Fields.Comment.Comments {
			fmt.Fprintf(out, "\n--- %s (%s) ---\n",
				comment.Author.DisplayName, jira.FormatDate(comment.Created))
			text := strings.TrimSpace(comment.Body.ToMarkdown())
			if text != "" {
				fmt.Fprintln(out, text)
			} else {
				fmt.Fprintln(out, "(No text content)")
			}
		}
	}
}

func printJiraIssues(out io.Writer, issues []jira.Issue) {
	if len(issues) == 0 {
		fmt.Fprintln(out, "No issues found matching the query.")
		return
	}

	fmt.Fprintf(out, "Found %d issue(s):\n\n", len(issues))
	fmt.Fprintf(out, "%-15s %-50s %-15s %-20s\n", "Key", "Summary", "Status", "Assignee")
	fmt.Fprintln(out, strings.Repeat("-", 100))

	for _, issue := range issues {
		assignee := "Unassigned"
		if issue.Fields.Assignee != nil {
			assignee = issue.Fields.Assignee.DisplayName
		}
		summary := truncate.StringWithTail(issue.Fields.Summary, 50, "…")
		fmt.Fprintf(out, "%-15s %-50s %-15s %-20s\n",
			issue.Key, summary, issue.Fields.Status.Name, assignee)
	}
}

var jiraSearchCmd = &cobra.Command{
	Use:   "search <jql>",
	Short: "Search issues with JQL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := jira.NewClientFromConfig(cfg)
		if err != nil {
			return err
		}
		issues, err := client.SearchIssues(cmd.Context(), args[0], jiraMaxResults)
		if err != nil {
			return err
		}
		printJiraIssues(cmd.OutOrStdout(), issues)
		return nil
	},
}

var jiraFilterCmd = &cobra.Command{
	Use:   "filter [id]",
	Short: "Search issues with a saved filter",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := jira.NewClientFromConfig(cfg)
		if err != nil {
			return err
		}

		var filter jira.Filter
		if len(args) == 1 {
			filter, err = client.GetFilter(cmd.Context(), args[0])
			if err != nil {
				return err
			}
		} else {
			log.Debug(log.CatJira, "Loading favourite filters for selection")
			filters, err := client.GetFavouriteFilters(cmd.Context())
			if err != nil {
				return err
			}
			if len(filters) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(),
					"No favourite filters found. You can add filters to your favourites in Jira.")
				return nil
			}

			options := make([]string, len(filters))
			for i, f := range filters {
				options[i] = f.DisplayName()
			}
			selected, err := prompt.Select(newDriver(), "Select a filter:", options)
			if err != nil {
				return err
			}
			for _, f := range filters {
				if f.DisplayName() == selected {
					filter = f
					break
				}
			}
			if filter.ID == "" {
				return fmt.Errorf("selected filter not found")
			}
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Using filter: %s (%s)\n", filter.Name, filter.JQL)
		issues, err := client.SearchIssues(cmd.Context(), filter.JQL, jiraMaxResults)
		if err != nil {
			return err
		}
		printJiraIssues(cmd.OutOrStdout(), issues)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{jiraSearchCmd, jiraFilterCmd} {
		c.Flags().IntVar(&jiraMaxResults, "max-results", 0, "maximum issues to return (default 50)")
	}
	jiraCmd.AddCommand(jiraIssueCmd)
	jiraCmd.AddCommand(jiraSearchCmd)
	jiraCmd.AddCommand(jiraFilterCmd)
	rootCmd.AddCommand(jiraCmd)
}
