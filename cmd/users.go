package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/jon4hz/todolab/internal/database"
	"github.com/spf13/cobra"
)

var getUserCmd = &cobra.Command{
	Use:   "get-user <username>",
	Short: "Show a single user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		username := args[0]
		return withDatabase(func(db *database.Client) error {
			user, err := db.GetUserByUsername(cmd.Context(), username)
			if err != nil {
				return report(cmd, err, fmt.Sprintf("%s not found!", username))
			}
			printf(cmd, "%s", user)
			return nil
		})
	},
}

var getAllUsersCmd = &cobra.Command{
	Use:   "get-all-users",
	Short: "List every user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withDatabase(func(db *database.Client) error {
			users, err := db.GetAllUsers(cmd.Context())
			if err != nil {
				return err
			}
			printUsers(cmd, users, "No users found!")
			return nil
		})
	},
}

var changeEmailCmd = &cobra.Command{
	Use:   "change-email <username> <new-email>",
	Short: "Change the email address of a user",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		username, email := args[0], args[1]
		if err := validateEmail(email); err != nil {
			return err
		}
		return withDatabase(func(db *database.Client) error {
			user, err := db.ChangeEmail(cmd.Context(), username, email)
			if err != nil {
				if errors.Is(err, database.ErrConflict) {
					return report(cmd, err, fmt.Sprintf("%s is already in use. Unable to update email.", email))
				}
				return report(cmd, err, fmt.Sprintf("%s not found! Unable to update email.", username))
			}
			printf(cmd, "Updated %s's email to %s", user.Username, user.Email)
			return nil
		})
	},
}

var createUserCmd = &cobra.Command{
	Use:   "create-user <username> <email> <password>",
	Short: "Create a new user",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		username, email, password := args[0], args[1], args[2]
		if err := validateUsername(username); err != nil {
			return err
		}
		if err := validateEmail(email); err != nil {
			return err
		}
		if err := validatePassword(password); err != nil {
			return err
		}
		return withDatabase(func(db *database.Client) error {
			user, err := db.CreateUser(cmd.Context(), username, email, password)
			if err != nil {
				return report(cmd, err, "Username or email already exists. Unable to create user.")
			}
			printf(cmd, "%s", user)
			return nil
		})
	},
}

var deleteUserCmd = &cobra.Command{
	Use:   "delete-user <username>",
	Short: "Delete a user with all of its todos and categories",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		username := args[0]
		return withDatabase(func(db *database.Client) error {
			if err := db.DeleteUser(cmd.Context(), username); err != nil {
				return report(cmd, err, fmt.Sprintf("%s not found! Unable to delete user.", username))
			}
			printf(cmd, "%s deleted", username)
			return nil
		})
	},
}

var findUserPartialCmd = &cobra.Command{
	Use:   "find-user-partial <fragment>",
	Short: "Find users whose username or email contains a fragment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fragment := args[0]
		return withDatabase(func(db *database.Client) error {
			users, err := db.FindUsersPartial(cmd.Context(), fragment)
			if err != nil {
				return err
			}
			printUsers(cmd, users, fmt.Sprintf("No users found with username or email containing %q.", fragment))
			return nil
		})
	},
}

var listUsersCmd = &cobra.Command{
	Use:   "list-users [limit] [offset]",
	Short: "List a page of users",
	Long:  `List users in insertion order. limit defaults to 10 and offset to 0.`,
	Args:  cobra.RangeArgs(0, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, offset := 10, 0
		var err error
		if len(args) > 0 {
			if limit, err = strconv.Atoi(args[0]); err != nil {
				return fmt.Errorf("invalid limit %q", args[0])
			}
		}
		if len(args) > 1 {
			if offset, err = strconv.Atoi(args[1]); err != nil {
				return fmt.Errorf("invalid offset %q", args[1])
			}
		}
		return withDatabase(func(db *database.Client) error {
			users, err := db.ListUsers(cmd.Context(), limit, offset)
			if err != nil {
				return err
			}
			printUsers(cmd, users, "No users found!")
			return nil
		})
	},
}

func printUsers(cmd *cobra.Command, users []database.User, empty string) {
	if len(users) == 0 {
		printf(cmd, "%s", empty)
		return
	}
	for _, u := range users {
		printf(cmd, "%s", u)
	}
}

func init() {
	rootCmd.AddCommand(
		getUserCmd,
		getAllUsersCmd,
		changeEmailCmd,
		createUserCmd,
		deleteUserCmd,
		findUserPartialCmd,
		listUsersCmd,
	)
}
