package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/ccoveille/go-safecast"
	"github.com/go-playground/validator/v10"
	"github.com/jon4hz/todolab/internal/config"
	"github.com/jon4hz/todolab/internal/database"
	"github.com/spf13/cobra"
)

var validate = validator.New()

// loadConfig loads the config file and applies the --database override.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(rootCmdPersistentFlags.ConfigFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if rootCmdPersistentFlags.Database != "" {
		cfg.Database.Path = rootCmdPersistentFlags.Database
	}
	return cfg, nil
}

// withDatabase runs fn with a database client that is closed afterwards.
func withDatabase(fn func(db *database.Client) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	return database.WithClient(cfg.Database.Path, fn)
}

// printf writes command output to the command's stdout.
func printf(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format+"\n", args...) //nolint:errcheck
}

// isExpected reports whether err is a domain error the user should just be told about.
func isExpected(err error) bool {
	return errors.Is(err, database.ErrNotFound) ||
		errors.Is(err, database.ErrConflict) ||
		errors.Is(err, database.ErrOwnershipMismatch)
}

// report prints expected errors with msg and swallows them; everything else is returned.
func report(cmd *cobra.Command, err error, msg string) error {
	if isExpected(err) {
		printf(cmd, "%s", msg)
		return nil
	}
	return err
}

func parseID(arg string) (uint, error) {
	id, err := strconv.ParseUint(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: must be a positive integer", arg)
	}
	return safecast.Convert[uint](id)
}

func validateEmail(email string) error {
	if err := validate.Var(email, "required,email"); err != nil {
		return fmt.Errorf("invalid email %q", email)
	}
	return nil
}

func validateText(text string) error {
	if err := validate.Var(text, "required,max=255"); err != nil {
		return fmt.Errorf("text must be between 1 and 255 characters")
	}
	return nil
}

// validatePassword counts bytes, not runes, since that is what bcrypt limits.
func validatePassword(password string) error {
	if password == "" || len(password) > database.MaxPasswordBytes {
		return fmt.Errorf("password must be between 1 and %d bytes", database.MaxPasswordBytes)
	}
	return nil
}

func validateUsername(username string) error {
	if err := validate.Var(username, "required,max=255"); err != nil {
		return fmt.Errorf("invalid username %q", username)
	}
	return nil
}
