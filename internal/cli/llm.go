package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kdeal/misc/internal/llm"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Query LLM providers",
}

var (
	llmProviderName string
	llmModelName    string
)

// llmQuery resolves the query text, provider, and model tier shared by
// query and stream.
func llmQuery(args []string) (string, llm.Provider, llm.ModelType, error) {
	arg := ""
	if len(args) == 1 {
		arg = args[0]
	}
	query, err := llm.GetQuery(arg, os.Stdin)
	if err != nil {
		return "", nil, "", err
	}
	provider, err := llm.NewProvider(llmProviderName, cfg)
	if err != nil {
		return "", nil, "", err
	}
	model, err := llm.ParseModelType(llmModelName)
	if err != nil {
		return "", nil, "", err
	}
	return query, provider, model, nil
}

func formatCitations(citations []string) string {
	if len(citations) == 0 {
		return ""
	}
	lines := make([]string, len(citations))
	for i, citation := range citations {
		lines[i] = fmt.Sprintf("[%d] = %s", i, citation)
	}
	return strings.Join(lines, "\n")
}

var llmQueryCmd = &cobra.Command{
	Use:   "query [query]",
	Short: "Run a single query, reading from stdin when no argument is given",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query, provider, model, err := llmQuery(args)
		if err != nil {
			return err
		}
		result, err := provider.CreateMessage(cmd.Context(), llm.ChatRequest{Query: query, Model: model})
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, result.Message.Content)
		if citations := formatCitations(result.Citations); citations != "" {
			fmt.Fprintln(out, citations)
		}
		return nil
	},
}

var llmStreamCmd = &cobra.Command{
	Use:   "stream [query]",
	Short: "Stream a query's answer as it is generated",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query, provider, model, err := llmQuery(args)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		var citations []string
		err = provider.StreamMessage(cmd.Context(), llm.ChatRequest{Query: query, Model: model},
			func(delta llm.Delta) error {
				if len(citations) == 0 && len(delta.Citations) > 0 {
					citations = delta.Citations
				}
				if delta.Text == "" {
					return nil
				}
				if delta.Thinking {
					fmt.Fprintf(out, "\n[Thinking] %s", delta.Text)
				} else {
					fmt.Fprint(out, delta.Text)
				}
				return nil
			})
		if err != nil {
			return err
		}

		fmt.Fprintln(out)
		if formatted := formatCitations(citations); formatted != "" {
			fmt.Fprintln(out, formatted)
		}
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{llmQueryCmd, llmStreamCmd} {
		c.Flags().StringVar(&llmProviderName, "provider", "",
			"provider to use (anthropic, ollama, perplexity)")
		c.Flags().StringVar(&llmModelName, "model", "small",
			"model tier (small, large, thinking)")
	}
	llmCmd.AddCommand(llmQueryCmd)
	llmCmd.AddCommand(llmStreamCmd)
	rootCmd.AddCommand(llmCmd)
}
