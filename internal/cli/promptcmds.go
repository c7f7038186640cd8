package cli

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kdeal/misc/internal/prompt"
)

var confirmDefault bool

var confirmCmd = &cobra.Command{
	Use:   "confirm <prompt>",
	Short: "Ask a yes/no question, exiting non-zero on no",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		confirmed, err := prompt.Boolean(newDriver(), args[0], confirmDefault)
		if err != nil {
			return err
		}
		if !confirmed {
			os.Exit(1)
		}
		return nil
	},
}

var selectCmd = &cobra.Command{
	Use:   "select <prompt>",
	Short: "Pick one of the lines read from stdin",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var options []string
		scanner := bufio.NewScanner(cmd.InOrStdin())
		for scanner.Scan() {
			if line := scanner.Text(); line != "" {
				options = append(options, line)
			}
		}
		if err := scanner.Err(); err != nil {
			return err
		}

		result, err := prompt.Select(newDriver(), args[0], options)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), result)
		return nil
	},
}

func init() {
	confirmCmd.Flags().BoolVar(&confirmDefault, "default", false, "answer when enter is pressed")
	rootCmd.AddCommand(confirmCmd)
	rootCmd.AddCommand(selectCmd)
}
