package cmd

import (
	"github.com/charmbracelet/log"
	"github.com/jon4hz/todolab/internal/cache"
	"github.com/spf13/cobra"
)

var clearCacheCmd = &cobra.Command{
	Use:   "clear-cache",
	Short: "Drop all cached results",
	Long: `Remove every cached prime sum from the configured cache.
Only useful with the redis cache, the memory cache lives and dies with the server process.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		results := cache.New(cfg.Cache)
		if err := results.ClearAll(cmd.Context()); err != nil {
			return err
		}
		log.Debug("cache cleared", "type", results.PrimeSums.GetType())
		printf(cmd, "Cleared %s cache", results.PrimeSums.GetType())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(clearCacheCmd)
}
