package mock

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/jon4hz/todolab/internal/database"
)

var _ database.DB = (*MockDB)(nil)

type link struct {
	todoID     uint
	categoryID uint
}

// MockDB is a mock implementation of database.DB for testing.
type MockDB struct {
	mu sync.RWMutex

	users      map[uint]*database.User
	nextUserID uint

	todos      map[uint]*database.Todo
	nextTodoID uint

	categories     map[uint]*database.Category
	nextCategoryID uint

	links map[link]struct{}

	// Error simulation
	CreateUserError        error
	GetUserByUsernameError error
	ListUsersError         error
	AuthenticateError      error
	AddTaskError           error
	ToggleTodoError        error
	ListUserTodosError     error
	DeleteTodoError        error
	CompleteAllTodosError  error
	CreateCategoryError    error
	ListCategoriesError    error
	AssignCategoryError    error
	GetTodosForCategoryErr error
	StatsError             error
}

// NewMockDB creates a new MockDB instance.
func NewMockDB() *MockDB {
	m := &MockDB{}
	m.reset()
	return m
}

// Reset clears all data from the mock database.
func (m *MockDB) Reset(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reset()
	return nil
}

func (m *MockDB) reset() {
	m.users = make(map[uint]*database.User)
	m.nextUserID = 1
	m.todos = make(map[uint]*database.Todo)
	m.nextTodoID = 1
	m.categories = make(map[uint]*database.Category)
	m.nextCategoryID = 1
	m.links = make(map[link]struct{})
}

func (m *MockDB) Seed(ctx context.Context) error {
	if _, err := m.CreateUser(ctx, "bob", "bob@mail.com", "bobpass"); err != nil {
		return err
	}
	_, err := m.AddTask(ctx, "bob", "Wash dishes")
	return err
}

func (m *MockDB) Close() error {
	return nil
}

func (m *MockDB) Stats(ctx context.Context) (*database.Stats, error) {
	if m.StatsError != nil {
		return nil, m.StatsError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := &database.Stats{
		Users:       int64(len(m.users)),
		Todos:       int64(len(m.todos)),
		Categories:  int64(len(m.categories)),
		Assignments: int64(len(m.links)),
	}
	for _, t := range m.todos {
		if t.Done {
			stats.CompletedTodos++
		}
	}
	return stats, nil
}

func (m *MockDB) CreateUser(ctx context.Context, username, email, password string) (*database.User, error) {
	if m.CreateUserError != nil {
		return nil, m.CreateUserError
	}

	user, err := database.NewUser(username, email, password)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Username == username || u.Email == email {
			return nil, fmt.Errorf("username or email %w", database.ErrConflict)
		}
	}

	user.ID = m.nextUserID
	m.nextUserID++
	m.users[user.ID] = user

	return copyUser(user), nil
}

func (m *MockDB) GetUserByUsername(ctx context.Context, username string) (*database.User, error) {
	if m.GetUserByUsernameError != nil {
		return nil, m.GetUserByUsernameError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	user, err := m.findUser(username)
	if err != nil {
		return nil, err
	}
	return copyUser(user), nil
}

func (m *MockDB) GetAllUsers(ctx context.Context) ([]database.User, error) {
	if m.ListUsersError != nil {
		return nil, m.ListUsersError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.sortedUsers(func(*database.User) bool { return true }), nil
}

func (m *MockDB) ChangeEmail(ctx context.Context, username, email string) (*database.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, err := m.findUser(username)
	if err != nil {
		return nil, err
	}
	for _, u := range m.users {
		if u.ID != user.ID && u.Email == email {
			return nil, fmt.Errorf("email %q %w", email, database.ErrConflict)
		}
	}
	user.Email = email
	return copyUser(user), nil
}

func (m *MockDB) DeleteUser(ctx context.Context, username string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, err := m.findUser(username)
	if err != nil {
		return err
	}
	for id, t := range m.todos {
		if t.UserID == user.ID {
			m.unlinkTodo(id)
			delete(m.todos, id)
		}
	}
	for id, c := range m.categories {
		if c.UserID == user.ID {
			for l := range m.links {
				if l.categoryID == id {
					delete(m.links, l)
				}
			}
			delete(m.categories, id)
		}
	}
	delete(m.users, user.ID)
	return nil
}

func (m *MockDB) ListUsers(ctx context.Context, limit, offset int) ([]database.User, error) {
	if m.ListUsersError != nil {
		return nil, m.ListUsersError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	users := m.sortedUsers(func(*database.User) bool { return true })
	if limit <= 0 || offset >= len(users) {
		return []database.User{}, nil
	}
	if offset < 0 {
		offset = 0
	}
	end := min(offset+limit, len(users))
	return users[offset:end], nil
}

func (m *MockDB) FindUsersPartial(ctx context.Context, fragment string) ([]database.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.sortedUsers(func(u *database.User) bool {
		return strings.Contains(u.Username, fragment) || strings.Contains(u.Email, fragment)
	}), nil
}

func (m *MockDB) Authenticate(ctx context.Context, username, password string) (*database.User, error) {
	if m.AuthenticateError != nil {
		return nil, m.AuthenticateError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	user, err := m.findUser(username)
	if err != nil || !user.CheckPassword(password) {
		return nil, database.ErrInvalidCredentials
	}
	return copyUser(user), nil
}

func (m *MockDB) AddTask(ctx context.Context, username, text string) (*database.Todo, error) {
	if m.AddTaskError != nil {
		return nil, m.AddTaskError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	user, err := m.findUser(username)
	if err != nil {
		return nil, err
	}
	todo := database.NewTodo(user.ID, text)
	todo.ID = m.nextTodoID
	m.nextTodoID++
	m.todos[todo.ID] = todo

	return m.todoWithCategories(todo), nil
}

func (m *MockDB) ToggleTodo(ctx context.Context, todoID uint, username string) (*database.Todo, error) {
	if m.ToggleTodoError != nil {
		return nil, m.ToggleTodoError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	todo, err := m.findOwnedTodo(todoID, username)
	if err != nil {
		return nil, err
	}
	todo.Toggle()
	return m.todoWithCategories(todo), nil
}

func (m *MockDB) ListUserTodos(ctx context.Context, username string) ([]database.Todo, error) {
	if m.ListUserTodosError != nil {
		return nil, m.ListUserTodosError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	user, err := m.findUser(username)
	if err != nil {
		return nil, err
	}
	return m.sortedTodos(func(t *database.Todo) bool { return t.UserID == user.ID }), nil
}

func (m *MockDB) ListAllTodos(ctx context.Context) ([]database.Todo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	todos := m.sortedTodos(func(*database.Todo) bool { return true })
	for i := range todos {
		if owner, ok := m.users[todos[i].UserID]; ok {
			todos[i].User = *copyUser(owner)
		}
	}
	return todos, nil
}

func (m *MockDB) DeleteTodo(ctx context.Context, todoID uint) error {
	if m.DeleteTodoError != nil {
		return m.DeleteTodoError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.todos[todoID]; !ok {
		return fmt.Errorf("todo %d %w", todoID, database.ErrNotFound)
	}
	m.unlinkTodo(todoID)
	delete(m.todos, todoID)
	return nil
}

func (m *MockDB) DeleteUserTodo(ctx context.Context, todoID uint, username string) error {
	if m.DeleteTodoError != nil {
		return m.DeleteTodoError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := m.findOwnedTodo(todoID, username); err != nil {
		return err
	}
	m.unlinkTodo(todoID)
	delete(m.todos, todoID)
	return nil
}

func (m *MockDB) CompleteAllTodos(ctx context.Context, username string) (int64, error) {
	if m.CompleteAllTodosError != nil {
		return 0, m.CompleteAllTodosError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	user, err := m.findUser(username)
	if err != nil {
		return 0, err
	}
	var completed int64
	for _, t := range m.todos {
		if t.UserID == user.ID && !t.Done {
			t.Done = true
			completed++
		}
	}
	return completed, nil
}

func (m *MockDB) CreateCategory(ctx context.Context, username, text string) (*database.Category, bool, error) {
	if m.CreateCategoryError != nil {
		return nil, false, m.CreateCategoryError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	user, err := m.findUser(username)
	if err != nil {
		return nil, false, err
	}
	category, created := m.findOrCreateCategory(user.ID, text)
	return category, created, nil
}

func (m *MockDB) ListUserCategories(ctx context.Context, username string) ([]database.Category, error) {
	if m.ListCategoriesError != nil {
		return nil, m.ListCategoriesError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	user, err := m.findUser(username)
	if err != nil {
		return nil, err
	}
	return m.sortedCategories(func(c *database.Category) bool { return c.UserID == user.ID }), nil
}

func (m *MockDB) AssignCategoryToTodo(ctx context.Context, username string, todoID uint, text string) (*database.Assignment, error) {
	if m.AssignCategoryError != nil {
		return nil, m.AssignCategoryError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	user, err := m.findUser(username)
	if err != nil {
		return nil, err
	}
	todo, ok := m.todos[todoID]
	if !ok || todo.UserID != user.ID {
		return nil, fmt.Errorf("todo %d for user %q %w", todoID, username, database.ErrNotFound)
	}
	category, created := m.findOrCreateCategory(user.ID, text)

	l := link{todoID: todo.ID, categoryID: category.ID}
	_, exists := m.links[l]
	m.links[l] = struct{}{}

	return &database.Assignment{
		Todo:            m.todoWithCategories(todo),
		Category:        category,
		CategoryCreated: created,
		AlreadyAssigned: exists,
	}, nil
}

func (m *MockDB) ListTodoCategories(ctx context.Context, todoID uint, username string) ([]database.Category, error) {
	if m.ListCategoriesError != nil {
		return nil, m.ListCategoriesError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, err := m.findOwnedTodo(todoID, username); err != nil {
		return nil, err
	}
	return m.sortedCategories(func(c *database.Category) bool {
		_, ok := m.links[link{todoID: todoID, categoryID: c.ID}]
		return ok
	}), nil
}

func (m *MockDB) GetTodosForCategory(ctx context.Context, categoryID uint, username string) ([]database.Todo, error) {
	if m.GetTodosForCategoryErr != nil {
		return nil, m.GetTodosForCategoryErr
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	user, err := m.findUser(username)
	if err != nil {
		return nil, err
	}
	category, ok := m.categories[categoryID]
	if !ok {
		return nil, fmt.Errorf("category %d %w", categoryID, database.ErrNotFound)
	}
	if category.UserID != user.ID {
		return nil, fmt.Errorf("category %d %w than %q", categoryID, database.ErrOwnershipMismatch, username)
	}
	return m.sortedTodos(func(t *database.Todo) bool {
		_, ok := m.links[link{todoID: t.ID, categoryID: categoryID}]
		return ok
	}), nil
}

// helpers below expect m.mu to be held

func (m *MockDB) findUser(username string) (*database.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, fmt.Errorf("user %q %w", username, database.ErrNotFound)
}

func (m *MockDB) findOwnedTodo(todoID uint, username string) (*database.Todo, error) {
	todo, ok := m.todos[todoID]
	if !ok {
		return nil, fmt.Errorf("todo %d %w", todoID, database.ErrNotFound)
	}
	if owner, ok := m.users[todo.UserID]; !ok || owner.Username != username {
		return nil, fmt.Errorf("todo %d %w than %q", todoID, database.ErrOwnershipMismatch, username)
	}
	return todo, nil
}

func (m *MockDB) findOrCreateCategory(userID uint, text string) (*database.Category, bool) {
	for _, c := range m.categories {
		if c.UserID == userID && c.Text == text {
			return c, false
		}
	}
	category := database.NewCategory(userID, text)
	category.ID = m.nextCategoryID
	m.nextCategoryID++
	m.categories[category.ID] = category
	return category, true
}

func (m *MockDB) unlinkTodo(todoID uint) {
	for l := range m.links {
		if l.todoID == todoID {
			delete(m.links, l)
		}
	}
}

func (m *MockDB) todoWithCategories(t *database.Todo) *database.Todo {
	todo := *t
	todo.Categories = m.sortedCategories(func(c *database.Category) bool {
		_, ok := m.links[link{todoID: t.ID, categoryID: c.ID}]
		return ok
	})
	return &todo
}

func (m *MockDB) sortedUsers(keep func(*database.User) bool) []database.User {
	users := []database.User{}
	for _, u := range m.users {
		if keep(u) {
			users = append(users, *copyUser(u))
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users
}

func (m *MockDB) sortedTodos(keep func(*database.Todo) bool) []database.Todo {
	todos := []database.Todo{}
	for _, t := range m.todos {
		if keep(t) {
			todos = append(todos, *m.todoWithCategories(t))
		}
	}
	sort.Slice(todos, func(i, j int) bool { return todos[i].ID < todos[j].ID })
	return todos
}

func (m *MockDB) sortedCategories(keep func(*database.Category) bool) []database.Category {
	categories := []database.Category{}
	for _, c := range m.categories {
		if keep(c) {
			categories = append(categories, *c)
		}
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].ID < categories[j].ID })
	return categories
}

func copyUser(u *database.User) *database.User {
	user := *u
	return &user
}
