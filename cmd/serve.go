package cmd

import (
	"errors"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/jon4hz/todolab/internal/api"
	"github.com/jon4hz/todolab/internal/cache"
	"github.com/jon4hz/todolab/internal/compute"
	"github.com/jon4hz/todolab/internal/database"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the todolab HTTP server",
	Long:  `Start the HTTP API with the lab endpoints, session login and the todo and category routes.`,
	Example: `todolab serve --config config.yml
todolab serve -c /path/to/config.yml --log-level debug
`,
	Args: cobra.NoArgs,
	Run:  startServer,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func startServer(cmd *cobra.Command, _ []string) {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("%v", err)
	}
	if err := cfg.ValidateServe(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	students, err := compute.LoadStudents(cfg.StudentsFile)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Fatalf("failed to load students: %v", err)
		}
		log.Warn("students file not found, student endpoints will be empty", "file", cfg.StudentsFile)
	}

	db, err := database.New(cfg.Database.Path)
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("failed to close database", "error", err)
		}
	}()

	server, err := api.New(cfg, db, cache.New(cfg.Cache), students, log.GetLevel() == log.DebugLevel)
	if err != nil {
		_ = db.Close()
		log.Fatalf("failed to create API server: %v", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("todolab started successfully")
	if err := server.Run(ctx); err != nil {
		log.Error("API server error", "error", err)
		return
	}
	log.Info("shut down gracefully")
}
