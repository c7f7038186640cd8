package cli

import (
	"github.com/spf13/cobra"

	"github.com/kdeal/misc/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve repo command tools over MCP on stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		return mcp.NewServer().Run(cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
