package cmd

import (
	"os"
	"path/filepath"

	"github.com/ccoveille/go-safecast"
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/jon4hz/todolab/internal/database"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/spf13/cobra"
)

var dbStatsCmd = &cobra.Command{
	Use:   "db-stats",
	Short: "Show database statistics",
	Long:  `Display row counts for users, todos, categories and assignments, plus the size of the database file and the free space left on its volume.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return database.WithClient(cfg.Database.Path, func(db *database.Client) error {
			stats, err := db.Stats(cmd.Context())
			if err != nil {
				return err
			}

			printf(cmd, "Database Statistics:")
			printf(cmd, "Users: %s", humanize.Comma(stats.Users))
			printf(cmd, "Todos: %s (%s completed)", humanize.Comma(stats.Todos), humanize.Comma(stats.CompletedTodos))
			printf(cmd, "Categories: %s", humanize.Comma(stats.Categories))
			printf(cmd, "Category Assignments: %s", humanize.Comma(stats.Assignments))

			if info, err := os.Stat(cfg.Database.Path); err == nil {
				if size, err := safecast.Convert[uint64](info.Size()); err == nil {
					printf(cmd, "Database Size: %s", humanize.Bytes(size))
				}
			}

			usage, err := disk.UsageWithContext(cmd.Context(), filepath.Dir(cfg.Database.Path))
			if err != nil {
				log.Warn("failed to get disk usage", "path", cfg.Database.Path, "error", err)
				return nil
			}
			printf(cmd, "Disk Free: %s of %s (%.1f%% used)", humanize.Bytes(usage.Free), humanize.Bytes(usage.Total), usage.UsedPercent)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(dbStatsCmd)
}
