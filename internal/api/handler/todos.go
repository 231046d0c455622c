package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jon4hz/todolab/internal/api/models"
	"github.com/jon4hz/todolab/internal/gravatar"
)

// Me returns the current user's information.
func (h *Handler) Me(c *gin.Context) {
	user, err := h.db.GetUserByUsername(c.Request.Context(), currentUser(c).Username)
	if err != nil {
		respondError(c, err)
		return
	}
	info := models.ToUserInfo(user)
	info.AvatarURL = gravatar.URL(user.Email, h.gravatar)
	c.JSON(http.StatusOK, info)
}

func (h *Handler) ListTodos(c *gin.Context) {
	todos, err := h.db.ListUserTodos(c.Request.Context(), currentUser(c).Username)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"todos": models.ToTodos(todos)})
}

func (h *Handler) CreateTodo(c *gin.Context) {
	var req models.TextRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required and must be at most 255 characters"})
		return
	}

	todo, err := h.db.AddTask(c.Request.Context(), currentUser(c).Username, req.Text)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.ToTodo(*todo))
}

func (h *Handler) ToggleTodo(c *gin.Context) {
	id, ok := idParam(c, "todo")
	if !ok {
		return
	}

	todo, err := h.db.ToggleTodo(c.Request.Context(), id, currentUser(c).Username)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ToTodo(*todo))
}

func (h *Handler) DeleteTodo(c *gin.Context) {
	id, ok := idParam(c, "todo")
	if !ok {
		return
	}

	if err := h.db.DeleteUserTodo(c.Request.Context(), id, currentUser(c).Username); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CompleteTodos marks every open todo of the current user as done.
func (h *Handler) CompleteTodos(c *gin.Context) {
	completed, err := h.db.CompleteAllTodos(c.Request.Context(), currentUser(c).Username)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"completed": completed})
}

// AssignCategory tags a todo, creating the category when it does not exist yet.
func (h *Handler) AssignCategory(c *gin.Context) {
	id, ok := idParam(c, "todo")
	if !ok {
		return
	}
	var req models.TextRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required and must be at most 255 characters"})
		return
	}

	assignment, err := h.db.AssignCategoryToTodo(c.Request.Context(), currentUser(c).Username, id, req.Text)
	if err != nil {
		respondError(c, err)
		return
	}

	status := http.StatusOK
	if assignment.CategoryCreated {
		status = http.StatusCreated
	}
	c.JSON(status, models.ToAssignment(assignment))
}

func (h *Handler) ListTodoCategories(c *gin.Context) {
	id, ok := idParam(c, "todo")
	if !ok {
		return
	}

	categories, err := h.db.ListTodoCategories(c.Request.Context(), id, currentUser(c).Username)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": models.ToCategories(categories)})
}
