package cmd

import (
	"github.com/charmbracelet/log"
	"github.com/jon4hz/todolab/internal/database"
	"github.com/spf13/cobra"
)

var initializeCmd = &cobra.Command{
	Use:   "initialize",
	Short: "Drop all tables and seed the demo data",
	Long:  `Drop and recreate every table, then add the demo user bob (password bobpass) with a single todo.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withDatabase(func(db *database.Client) error {
			if err := db.Reset(cmd.Context()); err != nil {
				return err
			}
			if err := db.Seed(cmd.Context()); err != nil {
				return err
			}
			log.Debug("database reset and seeded")
			printf(cmd, "Database Initialized")
			return nil
		})
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
	Long:  `Create missing tables and columns without touching existing data.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		// opening the database runs the migrations
		return withDatabase(func(*database.Client) error {
			printf(cmd, "Database migrations completed successfully!")
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(initializeCmd, migrateCmd)
}
