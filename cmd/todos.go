package cmd

import (
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/jon4hz/todolab/internal/database"
	"github.com/mergestat/timediff"
	"github.com/spf13/cobra"
)

var addTaskCmd = &cobra.Command{
	Use:   "add-task <username> <task>",
	Short: "Add a todo for a user",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		username, task := args[0], args[1]
		if err := validateText(task); err != nil {
			return err
		}
		return withDatabase(func(db *database.Client) error {
			todo, err := db.AddTask(cmd.Context(), username, task)
			if err != nil {
				return report(cmd, err, "User doesn't exist")
			}
			printf(cmd, "Task added for user (id %d)", todo.ID)
			return nil
		})
	},
}

var toggleTodoCmd = &cobra.Command{
	Use:   "toggle-todo <todo-id> <username>",
	Short: "Flip the done state of a todo",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		username := args[1]
		return withDatabase(func(db *database.Client) error {
			todo, err := db.ToggleTodo(cmd.Context(), id, username)
			if err != nil {
				if errors.Is(err, database.ErrOwnershipMismatch) {
					return report(cmd, err, fmt.Sprintf("This todo doesn't belong to %s", username))
				}
				return report(cmd, err, "This todo doesn't exist")
			}
			printf(cmd, "Todo item's done state set to %t", todo.Done)
			return nil
		})
	},
}

var listAllTodosCmd = &cobra.Command{
	Use:   "list-all-todos",
	Short: "List the todos of every user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withDatabase(func(db *database.Client) error {
			todos, err := db.ListAllTodos(cmd.Context())
			if err != nil {
				return err
			}
			if len(todos) == 0 {
				printf(cmd, "No todos found!")
				return nil
			}
			for _, t := range todos {
				printf(cmd, "%d %s %s %t (created %s)", t.ID, t.Text, t.User.Username, t.Done, timediff.TimeDiff(t.CreatedAt))
			}
			return nil
		})
	},
}

var deleteTodoByIDCmd = &cobra.Command{
	Use:   "delete-todo-by-id <todo-id>",
	Short: "Delete a todo",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return withDatabase(func(db *database.Client) error {
			if err := db.DeleteTodo(cmd.Context(), id); err != nil {
				return report(cmd, err, fmt.Sprintf("Todo does not exist for id: %d", id))
			}
			printf(cmd, "Todo %d deleted", id)
			return nil
		})
	},
}

var completeAllTodosCmd = &cobra.Command{
	Use:   "complete-all-todos <username>",
	Short: "Mark every todo of a user as done",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		username := args[0]
		return withDatabase(func(db *database.Client) error {
			completed, err := db.CompleteAllTodos(cmd.Context(), username)
			if err != nil {
				return report(cmd, err, "User doesn't exist")
			}
			printf(cmd, "All todos completed (%s updated)", humanize.Comma(completed))
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(
		addTaskCmd,
		toggleTodoCmd,
		listAllTodosCmd,
		deleteTodoByIDCmd,
		completeAllTodosCmd,
	)
}
