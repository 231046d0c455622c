package models

import (
	"github.com/jon4hz/todolab/internal/database"
	"github.com/samber/lo"
)

// ToUserInfo converts a database.User to UserInfo. The password hash never leaves the database package.
func ToUserInfo(u *database.User) UserInfo {
	return UserInfo{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

func ToCategory(c database.Category) Category {
	return Category{
		ID:   c.ID,
		Text: c.Text,
	}
}

// ToCategories converts a slice of database.Category, never returning nil.
func ToCategories(categories []database.Category) []Category {
	return lo.Map(categories, func(c database.Category, _ int) Category {
		return ToCategory(c)
	})
}

func ToTodo(t database.Todo) Todo {
	return Todo{
		ID:         t.ID,
		Text:       t.Text,
		Done:       t.Done,
		Categories: ToCategories(t.Categories),
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
	}
}

// ToTodos converts a slice of database.Todo, never returning nil.
func ToTodos(todos []database.Todo) []Todo {
	return lo.Map(todos, func(t database.Todo, _ int) Todo {
		return ToTodo(t)
	})
}

func ToAssignment(a *database.Assignment) Assignment {
	result := Assignment{
		CategoryCreated: a.CategoryCreated,
		AlreadyAssigned: a.AlreadyAssigned,
	}
	if a.Todo != nil {
		result.Todo = ToTodo(*a.Todo)
	}
	if a.Category != nil {
		result.Category = ToCategory(*a.Category)
	}
	return result
}
