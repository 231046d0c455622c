package auth

import (
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/jon4hz/todolab/internal/api/models"
	"github.com/jon4hz/todolab/internal/database"
	"github.com/jon4hz/todolab/internal/static"
)

// Session keys.
const (
	sessionUserID   = "user_id"
	sessionUsername = "user_username"
)

// UnauthorizedPath is where unauthenticated requests to protected routes are sent.
const UnauthorizedPath = "/unauthorized"

// Provider authenticates users against the local user table and keeps them in a cookie session.
type Provider struct {
	db database.DB
}

func New(db database.DB) *Provider {
	return &Provider{db: db}
}

// Login accepts username and password as form fields or JSON.
func (p *Provider) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username and password are required"})
		return
	}

	user, err := p.db.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, database.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		log.Error("Failed to authenticate user", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service unavailable"})
		return
	}

	session := sessions.Default(c)
	session.Set(sessionUserID, user.ID)
	session.Set(sessionUsername, user.Username)
	if err := session.Save(); err != nil {
		log.Error("Failed to save session", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "redirect": "/me"})
}

func (p *Provider) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		if err := c.AbortWithError(http.StatusInternalServerError, err); err != nil {
			log.Error("Failed to abort with error", "error", err)
		}
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// RequireAuth redirects to the unauthorized page unless the session holds a user.
func (p *Provider) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID := getSessionUint(session, sessionUserID)
		username := getSessionString(session, sessionUsername)
		if userID == 0 || username == "" {
			c.Redirect(http.StatusFound, UnauthorizedPath)
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Set("user", &models.User{
			ID:       userID,
			Username: username,
		})
		c.Next()
	}
}

// Unauthorized renders the 401 error page.
func Unauthorized(c *gin.Context) {
	page, err := static.GetUnauthorizedPage()
	if err != nil {
		log.Error("Failed to load unauthorized page", "error", err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	c.Data(http.StatusUnauthorized, "text/html; charset=utf-8", page)
}

func getSessionString(session sessions.Session, key string) string {
	if s, ok := session.Get(key).(string); ok {
		return s
	}
	return ""
}

func getSessionUint(session sessions.Session, key string) uint {
	if v, ok := session.Get(key).(uint); ok {
		return v
	}
	return 0
}
