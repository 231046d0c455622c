package models

import (
	"encoding/json"
	"testing"

	"github.com/jon4hz/todolab/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToTodos_EmptyIsNotNil(t *testing.T) {
	todos := ToTodos(nil)
	require.NotNil(t, todos)

	data, err := json.Marshal(todos)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestToTodo_IncludesCategories(t *testing.T) {
	todo := ToTodo(database.Todo{
		ID:   3,
		Text: "Wash dishes",
		Done: true,
		Categories: []database.Category{
			{ID: 1, UserID: 9, Text: "home"},
		},
	})

	assert.Equal(t, uint(3), todo.ID)
	assert.True(t, todo.Done)
	assert.Equal(t, []Category{{ID: 1, Text: "home"}}, todo.Categories)
}

func TestToUserInfo_OmitsPassword(t *testing.T) {
	info := ToUserInfo(&database.User{ID: 1, Username: "bob", Email: "bob@mail.com", Password: "hash"})

	data, err := json.Marshal(info)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hash")
	assert.Contains(t, string(data), `"username":"bob"`)
}

func TestToAssignment(t *testing.T) {
	a := ToAssignment(&database.Assignment{
		Todo:            &database.Todo{ID: 2, Text: "Walk dog"},
		Category:        &database.Category{ID: 5, Text: "outside"},
		CategoryCreated: true,
	})

	assert.Equal(t, uint(2), a.Todo.ID)
	assert.Equal(t, "outside", a.Category.Text)
	assert.True(t, a.CategoryCreated)
	assert.False(t, a.AlreadyAssigned)
}
