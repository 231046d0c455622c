package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jon4hz/todolab/internal/api/models"
)

// CreateCategory answers 201 for a new category and 200 when the user already has it.
func (h *Handler) CreateCategory(c *gin.Context) {
	var req models.TextRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required and must be at most 255 characters"})
		return
	}

	category, created, err := h.db.CreateCategory(c.Request.Context(), currentUser(c).Username, req.Text)
	if err != nil {
		respondError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, models.ToCategory(*category))
}

func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.db.ListUserCategories(c.Request.Context(), currentUser(c).Username)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": models.ToCategories(categories)})
}

// GetCategoryTodos lists the todos tagged with one of the current user's categories.
func (h *Handler) GetCategoryTodos(c *gin.Context) {
	id, ok := idParam(c, "category")
	if !ok {
		return
	}

	todos, err := h.db.GetTodosForCategory(c.Request.Context(), id, currentUser(c).Username)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"todos": models.ToTodos(todos)})
}
