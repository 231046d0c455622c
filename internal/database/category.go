package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"
)

// Category is a label owned by one user. Labels are unique per user.
type Category struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	UserID uint   `gorm:"not null;uniqueIndex:idx_category_user_text" json:"userId"`
	Text   string `gorm:"size:255;not null;uniqueIndex:idx_category_user_text" json:"text"`
	Todos  []Todo `gorm:"many2many:todo_categories;" json:"-"`
}

// NewCategory builds a category for the given user.
func NewCategory(userID uint, text string) *Category {
	return &Category{
		UserID: userID,
		Text:   text,
	}
}

// CreateCategory creates a category for username. If the user already has a
// category with that text it is returned with created set to false.
func (c *Client) CreateCategory(ctx context.Context, username, text string) (*Category, bool, error) {
	var (
		category *Category
		created  bool
	)
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := findUser(tx, username)
		if err != nil {
			return err
		}
		category, created, err = findOrCreateCategory(tx, user.ID, text)
		return err
	})
	if err != nil {
		logUnexpected("failed to create category", err)
		return nil, false, translateError(err)
	}
	return category, created, nil
}

func (c *Client) ListUserCategories(ctx context.Context, username string) ([]Category, error) {
	db := c.db.WithContext(ctx)
	user, err := findUser(db, username)
	if err != nil {
		return nil, err
	}
	var categories []Category
	if err := db.Where("user_id = ?", user.ID).Order("id").Find(&categories).Error; err != nil {
		log.Error("failed to list user categories", "error", err)
		return nil, err
	}
	return categories, nil
}

// AssignCategoryToTodo tags a todo of username with the category labelled text,
// creating the category first if needed. Assigning the same category twice is a no-op.
// Nothing is written unless the todo exists for that user.
func (c *Client) AssignCategoryToTodo(ctx context.Context, username string, todoID uint, text string) (*Assignment, error) {
	var result Assignment
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := findUser(tx, username)
		if err != nil {
			return err
		}

		category, created, err := findOrCreateCategory(tx, user.ID, text)
		if err != nil {
			return err
		}
		result.Category = category
		result.CategoryCreated = created

		var todo Todo
		if err := tx.Where("id = ? AND user_id = ?", todoID, user.ID).First(&todo).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("todo %d for user %q %w", todoID, username, ErrNotFound)
			}
			return err
		}
		result.Todo = &todo

		var existing int64
		if err := tx.Model(&TodoCategory{}).
			Where("todo_id = ? AND category_id = ?", todo.ID, category.ID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			result.AlreadyAssigned = true
			return nil
		}
		return tx.Create(&TodoCategory{TodoID: todo.ID, CategoryID: category.ID}).Error
	})
	if err != nil {
		logUnexpected("failed to assign category", err)
		return nil, translateError(err)
	}
	return &result, nil
}

func (c *Client) ListTodoCategories(ctx context.Context, todoID uint, username string) ([]Category, error) {
	db := c.db.WithContext(ctx)
	todo, err := findOwnedTodo(db, todoID, username)
	if err != nil {
		logUnexpected("failed to get todo", err)
		return nil, err
	}
	categories := []Category{}
	if err := db.Joins("JOIN todo_categories ON todo_categories.category_id = categories.id").
		Where("todo_categories.todo_id = ?", todo.ID).
		Order("categories.id").
		Find(&categories).Error; err != nil {
		log.Error("failed to list todo categories", "error", err)
		return nil, err
	}
	return categories, nil
}

// GetTodosForCategory returns the todos tagged with a category owned by username.
func (c *Client) GetTodosForCategory(ctx context.Context, categoryID uint, username string) ([]Todo, error) {
	db := c.db.WithContext(ctx)
	user, err := findUser(db, username)
	if err != nil {
		return nil, err
	}

	var category Category
	if err := db.First(&category, categoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("category %d %w", categoryID, ErrNotFound)
		}
		log.Error("failed to get category", "error", err)
		return nil, err
	}
	if category.UserID != user.ID {
		return nil, fmt.Errorf("category %d %w than %q", categoryID, ErrOwnershipMismatch, username)
	}

	todos := []Todo{}
	if err := db.Joins("JOIN todo_categories ON todo_categories.todo_id = todos.id").
		Where("todo_categories.category_id = ?", category.ID).
		Order("todos.id").
		Find(&todos).Error; err != nil {
		log.Error("failed to get todos for category", "error", err)
		return nil, err
	}
	return todos, nil
}

func findOrCreateCategory(tx *gorm.DB, userID uint, text string) (*Category, bool, error) {
	var category Category
	err := tx.Where("user_id = ? AND text = ?", userID, text).First(&category).Error
	if err == nil {
		return &category, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}
	created := NewCategory(userID, text)
	if err := tx.Create(created).Error; err != nil {
		return nil, false, err
	}
	return created, true, nil
}
