package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/jon4hz/todolab/internal/api/auth"
	"github.com/jon4hz/todolab/internal/api/handler"
	"github.com/jon4hz/todolab/internal/cache"
	"github.com/jon4hz/todolab/internal/compute"
	"github.com/jon4hz/todolab/internal/config"
	"github.com/jon4hz/todolab/internal/database"
	"golang.org/x/sync/errgroup"
)

const sessionName = "todolab_session"

type Server struct {
	cfg          *config.Config
	ginEngine    *gin.Engine
	db           database.DB
	authProvider *auth.Provider
	cache        *cache.ResultCache
	students     compute.Students
}

func New(cfg *config.Config, db database.DB, resultCache *cache.ResultCache, students compute.Students, debug bool) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}

	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}

	ginEngine := gin.New()
	ginEngine.Use(gin.Recovery(), requestLogger(), gzip.Gzip(gzip.DefaultCompression))

	s := &Server{
		cfg:          cfg,
		ginEngine:    ginEngine,
		db:           db,
		authProvider: auth.New(db),
		cache:        resultCache,
		students:     students,
	}
	s.setupSession()
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupSession() {
	store := cookie.NewStore([]byte(s.cfg.SessionKey))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   s.cfg.SessionMaxAge,
		HttpOnly: true,
		Secure:   s.cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	s.ginEngine.Use(sessions.Sessions(sessionName, store))
}

func (s *Server) setupRoutes() {
	h := handler.New(s.db, s.cache, s.students, s.cfg.Gravatar)

	s.ginEngine.GET("/", h.Hello)
	s.ginEngine.GET("/students/:id", h.GetStudent)
	s.ginEngine.GET("/stats", h.StudentStats)
	s.ginEngine.GET("/add/:num1/:num2", h.Arithmetic(compute.Add))
	s.ginEngine.GET("/multiply/:num1/:num2", h.Arithmetic(compute.Multiply))
	s.ginEngine.GET("/subtract/:num1/:num2", h.Arithmetic(compute.Subtract))
	s.ginEngine.GET("/divide/:num1/:num2", h.Divide)
	s.ginEngine.GET("/prime-sum/:n", h.PrimeSum)

	s.ginEngine.POST("/login", s.authProvider.Login)
	s.ginEngine.GET("/logout", s.authProvider.Logout)
	s.ginEngine.GET(auth.UnauthorizedPath, auth.Unauthorized)

	protected := s.ginEngine.Group("/")
	protected.Use(s.authProvider.RequireAuth())

	protected.GET("/me", h.Me)
	protected.POST("/category", h.CreateCategory)
	protected.GET("/category/:id/todos", h.GetCategoryTodos)
	protected.GET("/categories", h.ListCategories)

	protected.GET("/todos", h.ListTodos)
	protected.POST("/todos", h.CreateTodo)
	protected.POST("/todos/complete", h.CompleteTodos)
	protected.POST("/todos/:id/toggle", h.ToggleTodo)
	protected.DELETE("/todos/:id", h.DeleteTodo)
	protected.POST("/todos/:id/categories", h.AssignCategory)
	protected.GET("/todos/:id/categories", h.ListTodoCategories)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.ginEngine
}

// Run serves HTTP until ctx is cancelled and then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.ginEngine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting API server", "listen", s.cfg.Listen)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("API server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down API server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
