package cmd

import (
	"errors"
	"fmt"

	"github.com/jon4hz/todolab/internal/database"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

var createCategoryCmd = &cobra.Command{
	Use:   "create-category <username> <text>",
	Short: "Create a category for a user",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		username, text := args[0], args[1]
		if err := validateText(text); err != nil {
			return err
		}
		return withDatabase(func(db *database.Client) error {
			_, created, err := db.CreateCategory(cmd.Context(), username, text)
			if err != nil {
				return report(cmd, err, "User doesn't exist")
			}
			if !created {
				printf(cmd, "Category exists! Skipping creation")
				return nil
			}
			printf(cmd, "Category added for user")
			return nil
		})
	},
}

var listUserCategoriesCmd = &cobra.Command{
	Use:   "list-user-categories <username>",
	Short: "List the categories of a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		username := args[0]
		return withDatabase(func(db *database.Client) error {
			categories, err := db.ListUserCategories(cmd.Context(), username)
			if err != nil {
				return report(cmd, err, "User does not exist")
			}
			printf(cmd, "%v", categoryTexts(categories))
			return nil
		})
	},
}

var assignCategoryToTodoCmd = &cobra.Command{
	Use:   "assign-category-to-todo <username> <todo-id> <category-text>",
	Short: "Tag a todo with a category, creating the category if needed",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		username, text := args[0], args[2]
		id, err := parseID(args[1])
		if err != nil {
			return err
		}
		if err := validateText(text); err != nil {
			return err
		}
		return withDatabase(func(db *database.Client) error {
			assignment, err := db.AssignCategoryToTodo(cmd.Context(), username, id, text)
			if err != nil {
				return report(cmd, err, fmt.Sprintf("Unable to assign category: %v", err))
			}
			if assignment.CategoryCreated {
				printf(cmd, "Category didn't exist for user, creating it")
			}
			if assignment.AlreadyAssigned {
				printf(cmd, "Category already assigned to todo")
				return nil
			}
			printf(cmd, "Added category to todo")
			return nil
		})
	},
}

var listTodoCategoriesCmd = &cobra.Command{
	Use:   "list-todo-categories <todo-id> <username>",
	Short: "List the categories of a todo",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		username := args[1]
		return withDatabase(func(db *database.Client) error {
			categories, err := db.ListTodoCategories(cmd.Context(), id, username)
			if err != nil {
				if errors.Is(err, database.ErrOwnershipMismatch) {
					return report(cmd, err, "Todo doesn't belong to that user")
				}
				return report(cmd, err, "Todo doesn't exist")
			}
			printf(cmd, "Categories: %v", categoryTexts(categories))
			return nil
		})
	},
}

func categoryTexts(categories []database.Category) []string {
	return lo.Map(categories, func(c database.Category, _ int) string {
		return c.Text
	})
}

func init() {
	rootCmd.AddCommand(
		createCategoryCmd,
		listUserCategoriesCmd,
		assignCategoryToTodoCmd,
		listTodoCategoriesCmd,
	)
}
