package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

var _ DB = (*Client)(nil) // Ensure Client implements DB

// Client wraps the gorm.DB instance.
type Client struct {
	db *gorm.DB
}

// New creates a new database connection and performs migrations.
func New(dbpath string) (*Client, error) {
	if dir := filepath.Dir(dbpath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(dsn(dbpath)), &gorm.Config{
		TranslateError: true,
		Logger:         newGormLogger(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	if err := setupJoinTables(db); err != nil {
		return nil, err
	}

	if err := migrate(db); err != nil {
		return nil, err
	}

	return &Client{db: db}, nil
}

// WithClient opens the database at dbpath, hands it to fn and closes it again
// on every exit path of fn.
func WithClient(dbpath string, fn func(*Client) error) error {
	client, err := New(dbpath)
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Close(); err != nil {
			log.Error("failed to close database", "error", err)
		}
	}()
	return fn(client)
}

// Close releases the underlying connection pool.
func (c *Client) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Reset drops every table and recreates the schema.
func (c *Client) Reset(ctx context.Context) error {
	db := c.db.WithContext(ctx)
	// children first, foreign keys are enforced
	if err := db.Migrator().DropTable(&TodoCategory{}, &Todo{}, &Category{}, &User{}); err != nil {
		return fmt.Errorf("failed to drop tables: %w", err)
	}
	return migrate(db)
}

// Seed inserts the demo user bob with a single todo.
func (c *Client) Seed(ctx context.Context) error {
	bob, err := NewUser("bob", "bob@mail.com", "bobpass")
	if err != nil {
		return err
	}
	return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(bob).Error; err != nil {
			return fmt.Errorf("failed to seed user: %w", translateError(err))
		}
		if err := tx.Create(NewTodo(bob.ID, "Wash dishes")).Error; err != nil {
			return fmt.Errorf("failed to seed todo: %w", translateError(err))
		}
		return nil
	})
}

// Stats counts the rows of every table.
func (c *Client) Stats(ctx context.Context) (*Stats, error) {
	var stats Stats
	db := c.db.WithContext(ctx)
	for _, q := range []struct {
		model any
		dst   *int64
	}{
		{&User{}, &stats.Users},
		{&Todo{}, &stats.Todos},
		{&Category{}, &stats.Categories},
		{&TodoCategory{}, &stats.Assignments},
	} {
		if err := db.Model(q.model).Count(q.dst).Error; err != nil {
			log.Error("failed to count rows", "error", err)
			return nil, err
		}
	}
	if err := db.Model(&Todo{}).Where("done = ?", true).Count(&stats.CompletedTodos).Error; err != nil {
		log.Error("failed to count completed todos", "error", err)
		return nil, err
	}
	return &stats, nil
}

func dsn(dbpath string) string {
	sep := "?"
	if strings.Contains(dbpath, "?") {
		sep = "&"
	}
	return dbpath + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

func setupJoinTables(db *gorm.DB) error {
	if err := db.SetupJoinTable(&Todo{}, "Categories", &TodoCategory{}); err != nil {
		return fmt.Errorf("failed to setup todo join table: %w", err)
	}
	if err := db.SetupJoinTable(&Category{}, "Todos", &TodoCategory{}); err != nil {
		return fmt.Errorf("failed to setup category join table: %w", err)
	}
	return nil
}

func migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&User{},
		&Todo{},
		&Category{},
		&TodoCategory{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
