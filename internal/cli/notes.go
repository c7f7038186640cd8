package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/kdeal/misc/internal/notes"
	"github.com/kdeal/misc/internal/prompt"
	"github.com/kdeal/misc/internal/shell"
)

var notesCmd = &cobra.Command{
	Use:   "notes",
	Short: "Open daily, topic, and person notes",
}

var notesDailyCmd = &cobra.Command{
	Use:       "daily [yesterday|today|tomorrow]",
	Short:     "Open a daily note",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"yesterday", "today", "tomorrow"},
	RunE: func(cmd *cobra.Command, args []string) error {
		day := notes.Today
		if len(args) == 1 {
			switch args[0] {
			case "yesterday":
				day = notes.Yesterday
			case "today":
				day = notes.Today
			case "tomorrow":
				day = notes.Tomorrow
			default:
				return fmt.Errorf("unknown day %q", args[0])
			}
		}
		return openNote(notes.Daily(day, time.Now()))
	},
}

var notesTopicCmd = &cobra.Command{
	Use:   "topic [name]",
	Short: "Open a topic note",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := ""
		if len(args) == 1 {
			name = args[0]
		} else {
			var err error
			name, err = prompt.Basic(newDriver(), "Topic Name:")
			if err != nil {
				return err
			}
		}
		return openNote(notes.Topic(name))
	},
}

var notesPersonCmd = &cobra.Command{
	Use:   "person [who]",
	Short: "Open a person note",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		who := ""
		if len(args) == 1 {
			who = args[0]
		} else {
			var err error
			who, err = prompt.Basic(newDriver(), "Who:")
			if err != nil {
				return err
			}
		}
		return openNote(notes.Person(who))
	},
}

func openNote(note notes.Note) error {
	notesDir, err := cfg.NotesDirectoryPath()
	if err != nil {
		return err
	}
	path, err := notes.Open(notesDir, note)
	if err != nil {
		return err
	}
	pushShellAction(shell.EditFile(path))
	return nil
}

var todosCmd = &cobra.Command{
	Use:   "todos",
	Short: "Manage the todo list",
}

var (
	todosPending   bool
	todosCompleted bool
	todosTop       bool
	todosAfter     int
	todosNest      bool
)

var todosListCmd = &cobra.Command{
	Use:   "list",
	Short: "List todo items",
	RunE: func(cmd *cobra.Command, args []string) error {
		todoFile, err := loadTodos()
		if err != nil {
			return err
		}
		for _, item := range todoFile.FilteredItems(todosPending, todosCompleted) {
			fmt.Fprintln(cmd.OutOrStdout(), item.String())
		}
		return nil
	},
}

var todosAddCmd = &cobra.Command{
	Use:   "add <description>",
	Short: "Add a todo item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		todoFile, err := loadTodos()
		if err != nil {
			return err
		}
		if err := todoFile.AddItem(args[0], todosTop, todosAfter, todosNest); err != nil {
			return err
		}
		return todoFile.Save()
	},
}

var todosRemoveCmd = &cobra.Command{
	Use:   "remove <index>",
	Short: "Remove a todo item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid index %q", args[0])
		}
		todoFile, err := loadTodos()
		if err != nil {
			return err
		}
		removed, err := todoFile.RemoveItem(index)
		if err != nil {
			return err
		}
		if err := todoFile.Save(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed: %s\n", removed.Description)
		return nil
	},
}

var todosCheckCmd = &cobra.Command{
	Use:   "check <index>",
	Short: "Mark a todo item completed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setTodoCompletion(args[0], true)
	},
}

var todosUncheckCmd = &cobra.Command{
	Use:   "uncheck <index>",
	Short: "Mark a todo item pending",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setTodoCompletion(args[0], false)
	},
}

func loadTodos() (*notes.TodoFile, error) {
	notesDir, err := cfg.NotesDirectoryPath()
	if err != nil {
		return nil, err
	}
	return notes.LoadTodoFile(notesDir)
}

func setTodoCompletion(indexArg string, completed bool) error {
	index, err := strconv.Atoi(indexArg)
	if err != nil {
		return fmt.Errorf("invalid index %q", indexArg)
	}
	todoFile, err := loadTodos()
	if err != nil {
		return err
	}
	if err := todoFile.SetCompletion(index, completed); err != nil {
		return err
	}
	return todoFile.Save()
}

func init() {
	notesCmd.AddCommand(notesDailyCmd)
	notesCmd.AddCommand(notesTopicCmd)
	notesCmd.AddCommand(notesPersonCmd)
	rootCmd.AddCommand(notesCmd)

	todosListCmd.Flags().BoolVar(&todosPending, "pending", false, "only pending items")
	todosListCmd.Flags().BoolVar(&todosCompleted, "completed", false, "only completed items")
	todosAddCmd.Flags().BoolVar(&todosTop, "top", false, "insert at the top of the list")
	todosAddCmd.Flags().IntVar(&todosAfter, "after", 0, "insert after the given index")
	todosAddCmd.Flags().BoolVar(&todosNest, "nest", false, "nest under the item it follows")
	todosCmd.AddCommand(todosListCmd)
	todosCmd.AddCommand(todosAddCmd)
	todosCmd.AddCommand(todosRemoveCmd)
	todosCmd.AddCommand(todosCheckCmd)
	todosCmd.AddCommand(todosUncheckCmd)
	rootCmd.AddCommand(todosCmd)
}
