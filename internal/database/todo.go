package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"
)

// Todo is a task owned by exactly one user.
type Todo struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	UserID     uint       `gorm:"not null;index" json:"userId"`
	User       User       `json:"-"`
	Text       string     `gorm:"size:255;not null" json:"text"`
	Done       bool       `gorm:"not null;default:false" json:"done"`
	Categories []Category `gorm:"many2many:todo_categories;" json:"categories,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// NewTodo builds an incomplete todo for the given user.
func NewTodo(userID uint, text string) *Todo {
	return &Todo{
		UserID: userID,
		Text:   text,
	}
}

// Toggle flips the completion flag. The caller persists the change.
func (t *Todo) Toggle() {
	t.Done = !t.Done
}

// TodoCategory is the join record between todos and categories.
type TodoCategory struct {
	TodoID     uint `gorm:"primaryKey"`
	CategoryID uint `gorm:"primaryKey"`
}

func (c *Client) AddTask(ctx context.Context, username, text string) (*Todo, error) {
	var todo *Todo
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := findUser(tx, username)
		if err != nil {
			return err
		}
		todo = NewTodo(user.ID, text)
		return tx.Create(todo).Error
	})
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.Error("failed to add task", "error", err)
		}
		return nil, err
	}
	return todo, nil
}

// ToggleTodo flips the completion flag of a todo owned by username.
func (c *Client) ToggleTodo(ctx context.Context, todoID uint, username string) (*Todo, error) {
	var todo *Todo
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		t, err := findOwnedTodo(tx, todoID, username)
		if err != nil {
			return err
		}
		t.Toggle()
		if err := tx.Model(&Todo{}).Where("id = ?", t.ID).Update("done", t.Done).Error; err != nil {
			return err
		}
		todo = t
		return nil
	})
	if err != nil {
		logUnexpected("failed to toggle todo", err)
		return nil, err
	}
	return todo, nil
}

func (c *Client) ListUserTodos(ctx context.Context, username string) ([]Todo, error) {
	db := c.db.WithContext(ctx)
	user, err := findUser(db, username)
	if err != nil {
		return nil, err
	}
	var todos []Todo
	if err := db.Preload("Categories", orderByID("categories")).
		Where("user_id = ?", user.ID).
		Order("id").
		Find(&todos).Error; err != nil {
		log.Error("failed to list user todos", "error", err)
		return nil, err
	}
	return todos, nil
}

// ListAllTodos returns every todo with its owner preloaded.
func (c *Client) ListAllTodos(ctx context.Context) ([]Todo, error) {
	var todos []Todo
	if err := c.db.WithContext(ctx).Preload("User").Order("id").Find(&todos).Error; err != nil {
		log.Error("failed to list todos", "error", err)
		return nil, err
	}
	return todos, nil
}

func (c *Client) DeleteTodo(ctx context.Context, todoID uint) error {
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		todo, err := findTodo(tx, todoID)
		if err != nil {
			return err
		}
		return deleteTodo(tx, todo)
	})
	logUnexpected("failed to delete todo", err)
	return err
}

// DeleteUserTodo deletes a todo after checking that username owns it.
func (c *Client) DeleteUserTodo(ctx context.Context, todoID uint, username string) error {
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		todo, err := findOwnedTodo(tx, todoID, username)
		if err != nil {
			return err
		}
		return deleteTodo(tx, todo)
	})
	logUnexpected("failed to delete todo", err)
	return err
}

// CompleteAllTodos marks every open todo of username as done and returns how many changed.
func (c *Client) CompleteAllTodos(ctx context.Context, username string) (int64, error) {
	var completed int64
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := findUser(tx, username)
		if err != nil {
			return err
		}
		res := tx.Model(&Todo{}).Where("user_id = ? AND done = ?", user.ID, false).Update("done", true)
		if res.Error != nil {
			return res.Error
		}
		completed = res.RowsAffected
		return nil
	})
	if err != nil {
		logUnexpected("failed to complete todos", err)
		return 0, err
	}
	return completed, nil
}

func deleteTodo(tx *gorm.DB, todo *Todo) error {
	if err := tx.Where("todo_id = ?", todo.ID).Delete(&TodoCategory{}).Error; err != nil {
		return err
	}
	return tx.Delete(todo).Error
}

func findTodo(db *gorm.DB, todoID uint) (*Todo, error) {
	var todo Todo
	if err := db.Preload("User").First(&todo, todoID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("todo %d %w", todoID, ErrNotFound)
		}
		return nil, err
	}
	return &todo, nil
}

func findOwnedTodo(db *gorm.DB, todoID uint, username string) (*Todo, error) {
	todo, err := findTodo(db, todoID)
	if err != nil {
		return nil, err
	}
	if todo.User.Username != username {
		return nil, fmt.Errorf("todo %d %w than %q", todoID, ErrOwnershipMismatch, username)
	}
	return todo, nil
}

func orderByID(table string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order(table + ".id")
	}
}

// logUnexpected logs err unless it is one of the expected domain errors.
func logUnexpected(msg string, err error) {
	if err == nil ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrOwnershipMismatch) ||
		errors.Is(err, ErrConflict) {
		return
	}
	log.Error(msg, "error", err)
}
