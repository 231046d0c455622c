package cmd

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type CLITestSuite struct {
	suite.Suite
	dbPath string
}

func (s *CLITestSuite) SetupTest() {
	s.dbPath = filepath.Join(s.T().TempDir(), "todolab.db")
	out, err := s.run("initialize")
	require.NoError(s.T(), err)
	require.Equal(s.T(), "Database Initialized", out)
}

func TestCLITestSuite(t *testing.T) {
	suite.Run(t, new(CLITestSuite))
}

func (s *CLITestSuite) run(args ...string) (string, error) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(append(args, "--database", s.dbPath))
	err := rootCmd.Execute()
	return strings.TrimSpace(out.String()), err
}

func (s *CLITestSuite) mustRun(args ...string) string {
	out, err := s.run(args...)
	require.NoError(s.T(), err, strings.Join(args, " "))
	return out
}

func (s *CLITestSuite) TestInitializeSeedsBob() {
	out := s.mustRun("get-user", "bob")
	assert.Equal(s.T(), "(User id=1, username=bob, email=bob@mail.com)", out)

	out = s.mustRun("list-all-todos")
	assert.Contains(s.T(), out, "1 Wash dishes bob false")
}

func (s *CLITestSuite) TestUserCommands() {
	out := s.mustRun("create-user", "alice", "alice@mail.com", "alicepass")
	assert.Equal(s.T(), "(User id=2, username=alice, email=alice@mail.com)", out)

	out = s.mustRun("create-user", "alice", "other@mail.com", "pass")
	assert.Equal(s.T(), "Username or email already exists. Unable to create user.", out)

	out = s.mustRun("get-all-users")
	assert.Equal(s.T(), "(User id=1, username=bob, email=bob@mail.com)\n(User id=2, username=alice, email=alice@mail.com)", out)

	out = s.mustRun("change-email", "alice", "alice@new.com")
	assert.Equal(s.T(), "Updated alice's email to alice@new.com", out)

	out = s.mustRun("change-email", "alice", "bob@mail.com")
	assert.Equal(s.T(), "bob@mail.com is already in use. Unable to update email.", out)

	out = s.mustRun("find-user-partial", "ali")
	assert.Equal(s.T(), "(User id=2, username=alice, email=alice@new.com)", out)

	out = s.mustRun("find-user-partial", "zzz")
	assert.Equal(s.T(), `No users found with username or email containing "zzz".`, out)

	out = s.mustRun("delete-user", "alice")
	assert.Equal(s.T(), "alice deleted", out)

	out = s.mustRun("get-user", "alice")
	assert.Equal(s.T(), "alice not found!", out)

	out = s.mustRun("delete-user", "alice")
	assert.Equal(s.T(), "alice not found! Unable to delete user.", out)
}

func (s *CLITestSuite) TestListUsersPagination() {
	for _, name := range []string{"u2", "u3", "u4", "u5"} {
		s.mustRun("create-user", name, name+"@mail.com", "pass")
	}

	out := s.mustRun("list-users", "2", "1")
	assert.Equal(s.T(), "(User id=2, username=u2, email=u2@mail.com)\n(User id=3, username=u3, email=u3@mail.com)", out)

	out = s.mustRun("list-users")
	assert.Len(s.T(), strings.Split(out, "\n"), 5)

	out = s.mustRun("list-users", "10", "10")
	assert.Equal(s.T(), "No users found!", out)

	_, err := s.run("list-users", "ten")
	assert.Error(s.T(), err)
}

func (s *CLITestSuite) TestInvalidArguments() {
	_, err := s.run("create-user", "carol", "not-an-email", "pass")
	assert.Error(s.T(), err)

	_, err = s.run("add-task", "bob", strings.Repeat("x", 256))
	assert.Error(s.T(), err)

	_, err = s.run("toggle-todo", "abc", "bob")
	assert.Error(s.T(), err)

	_, err = s.run("get-user")
	assert.Error(s.T(), err)
}

func (s *CLITestSuite) TestCreateUserPasswordLength() {
	out, err := s.run("create-user", "carol", "carol@mail.com", strings.Repeat("x", 73))
	require.Error(s.T(), err)
	assert.Contains(s.T(), err.Error(), "72 bytes")
	assert.Empty(s.T(), out)

	_, err = s.run("create-user", "carol", "carol@mail.com", strings.Repeat("é", 37))
	assert.Error(s.T(), err)

	out = s.mustRun("get-user", "carol")
	assert.Equal(s.T(), "carol not found!", out)

	out = s.mustRun("create-user", "carol", "carol@mail.com", strings.Repeat("x", 72))
	assert.Equal(s.T(), "(User id=2, username=carol, email=carol@mail.com)", out)
}

func (s *CLITestSuite) TestTodoCommands() {
	out := s.mustRun("add-task", "bob", "Walk dog")
	assert.Equal(s.T(), "Task added for user (id 2)", out)

	out = s.mustRun("add-task", "nobody", "Walk dog")
	assert.Equal(s.T(), "User doesn't exist", out)

	out = s.mustRun("toggle-todo", "1", "bob")
	assert.Equal(s.T(), "Todo item's done state set to true", out)

	out = s.mustRun("toggle-todo", "1", "bob")
	assert.Equal(s.T(), "Todo item's done state set to false", out)

	s.mustRun("create-user", "alice", "alice@mail.com", "alicepass")
	out = s.mustRun("toggle-todo", "1", "alice")
	assert.Equal(s.T(), "This todo doesn't belong to alice", out)

	out = s.mustRun("toggle-todo", "99", "bob")
	assert.Equal(s.T(), "This todo doesn't exist", out)

	out = s.mustRun("complete-all-todos", "bob")
	assert.Equal(s.T(), "All todos completed (2 updated)", out)

	out = s.mustRun("delete-todo-by-id", "2")
	assert.Equal(s.T(), "Todo 2 deleted", out)

	out = s.mustRun("delete-todo-by-id", "2")
	assert.Equal(s.T(), "Todo does not exist for id: 2", out)
}

func (s *CLITestSuite) TestCategoryCommands() {
	out := s.mustRun("create-category", "bob", "home")
	assert.Equal(s.T(), "Category added for user", out)

	out = s.mustRun("create-category", "bob", "home")
	assert.Equal(s.T(), "Category exists! Skipping creation", out)

	out = s.mustRun("assign-category-to-todo", "bob", "1", "chores")
	assert.Equal(s.T(), "Category didn't exist for user, creating it\nAdded category to todo", out)

	out = s.mustRun("assign-category-to-todo", "bob", "1", "chores")
	assert.Equal(s.T(), "Category already assigned to todo", out)

	out = s.mustRun("assign-category-to-todo", "bob", "1", "home")
	assert.Equal(s.T(), "Added category to todo", out)

	out = s.mustRun("list-user-categories", "bob")
	assert.Equal(s.T(), "[home chores]", out)

	out = s.mustRun("list-todo-categories", "1", "bob")
	assert.Equal(s.T(), "Categories: [home chores]", out)

	s.mustRun("create-user", "alice", "alice@mail.com", "alicepass")
	out = s.mustRun("list-todo-categories", "1", "alice")
	assert.Equal(s.T(), "Todo doesn't belong to that user", out)

	out = s.mustRun("assign-category-to-todo", "alice", "1", "stolen")
	assert.Contains(s.T(), out, "Unable to assign category")

	// the category was not left behind for alice
	out = s.mustRun("list-user-categories", "alice")
	assert.Equal(s.T(), "[]", out)

	out = s.mustRun("list-user-categories", "nobody")
	assert.Equal(s.T(), "User does not exist", out)
}

func (s *CLITestSuite) TestDeleteUserCascades() {
	s.mustRun("assign-category-to-todo", "bob", "1", "home")
	s.mustRun("delete-user", "bob")

	out := s.mustRun("db-stats")
	assert.Contains(s.T(), out, "Users: 0")
	assert.Contains(s.T(), out, "Todos: 0 (0 completed)")
	assert.Contains(s.T(), out, "Categories: 0")
	assert.Contains(s.T(), out, "Category Assignments: 0")
	assert.Contains(s.T(), out, "Database Size:")
}

func (s *CLITestSuite) TestClearCache() {
	out := s.mustRun("clear-cache")
	assert.Equal(s.T(), "Cleared memory cache", out)
}

func TestSetLogLevel(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "", "bogus"} {
		assert.NotPanics(t, func() { setLogLevel(level) })
	}
	setLogLevel("info")
}
