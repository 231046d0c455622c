package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/ccoveille/go-safecast"
	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/jon4hz/todolab/internal/api/models"
	"github.com/jon4hz/todolab/internal/cache"
	"github.com/jon4hz/todolab/internal/compute"
	"github.com/jon4hz/todolab/internal/config"
	"github.com/jon4hz/todolab/internal/database"
)

type Handler struct {
	db       database.DB
	cache    *cache.ResultCache
	students compute.Students
	gravatar *config.GravatarConfig
}

// New creates the route handlers. resultCache may be nil, in which case nothing is memoized.
func New(db database.DB, resultCache *cache.ResultCache, students compute.Students, gravatarCfg *config.GravatarConfig) *Handler {
	return &Handler{
		db:       db,
		cache:    resultCache,
		students: students,
		gravatar: gravatarCfg,
	}
}

func parseUintParam(param string) (uint, error) {
	id, err := strconv.ParseUint(param, 10, 64)
	if err != nil {
		return 0, err
	}
	return safecast.Convert[uint](id)
}

// idParam parses the :id path parameter and answers 400 itself when it is invalid.
func idParam(c *gin.Context, what string) (uint, bool) {
	id, err := parseUintParam(c.Param("id"))
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + what + " ID"})
		return 0, false
	}
	return id, true
}

func currentUser(c *gin.Context) *models.User {
	return c.MustGet("user").(*models.User)
}

// respondError maps repository errors onto HTTP status codes.
// Anything unexpected is logged and reported without detail.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, database.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, database.ErrOwnershipMismatch):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, database.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		log.Error("Request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service unavailable"})
	}
}
