package database

import "context"

// DB defines the interface for database operations.
type DB interface {
	// Users
	CreateUser(ctx context.Context, username, email, password string) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	GetAllUsers(ctx context.Context) ([]User, error)
	ChangeEmail(ctx context.Context, username, email string) (*User, error)
	DeleteUser(ctx context.Context, username string) error
	ListUsers(ctx context.Context, limit, offset int) ([]User, error)
	FindUsersPartial(ctx context.Context, fragment string) ([]User, error)
	Authenticate(ctx context.Context, username, password string) (*User, error)

	// Todos
	AddTask(ctx context.Context, username, text string) (*Todo, error)
	ToggleTodo(ctx context.Context, todoID uint, username string) (*Todo, error)
	ListUserTodos(ctx context.Context, username string) ([]Todo, error)
	ListAllTodos(ctx context.Context) ([]Todo, error)
	DeleteTodo(ctx context.Context, todoID uint) error
	DeleteUserTodo(ctx context.Context, todoID uint, username string) error
	CompleteAllTodos(ctx context.Context, username string) (int64, error)

	// Categories
	CreateCategory(ctx context.Context, username, text string) (*Category, bool, error)
	ListUserCategories(ctx context.Context, username string) ([]Category, error)
	AssignCategoryToTodo(ctx context.Context, username string, todoID uint, text string) (*Assignment, error)
	ListTodoCategories(ctx context.Context, todoID uint, username string) ([]Category, error)
	GetTodosForCategory(ctx context.Context, categoryID uint, username string) ([]Todo, error)

	// Utility
	Reset(ctx context.Context) error
	Seed(ctx context.Context) error
	Stats(ctx context.Context) (*Stats, error)
	Close() error
}

// Stats holds row counts of the store.
type Stats struct {
	Users          int64 `json:"users"`
	Todos          int64 `json:"todos"`
	CompletedTodos int64 `json:"completedTodos"`
	Categories     int64 `json:"categories"`
	Assignments    int64 `json:"assignments"`
}

// Assignment describes the outcome of tagging a todo with a category.
type Assignment struct {
	Todo            *Todo
	Category        *Category
	CategoryCreated bool
	AlreadyAssigned bool
}
