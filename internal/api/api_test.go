package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jon4hz/todolab/internal/cache"
	"github.com/jon4hz/todolab/internal/config"
	"github.com/jon4hz/todolab/internal/database/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type ServerTestSuite struct {
	suite.Suite
	server *Server
}

func (s *ServerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	db := mock.NewMockDB()
	require.NoError(s.T(), db.Seed(context.Background()))

	cfg := &config.Config{
		Listen:        "127.0.0.1:0",
		SessionKey:    "0123456789abcdef0123456789abcdef",
		SessionMaxAge: 3600,
		Cache:         &config.CacheConfig{Type: config.CacheTypeMemory, TTL: time.Minute},
	}
	server, err := New(cfg, db, cache.New(cfg.Cache), nil, true)
	require.NoError(s.T(), err)
	s.server = server
}

func TestServerTestSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}

func (s *ServerTestSuite) serve(req *http.Request, cookies []*http.Cookie) *httptest.ResponseRecorder {
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	s.server.Handler().ServeHTTP(w, req)
	return w
}

func (s *ServerTestSuite) login() []*http.Cookie {
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"username":"bob","password":"bobpass"}`))
	req.Header.Set("Content-Type", "application/json")
	w := s.serve(req, nil)
	require.Equal(s.T(), http.StatusOK, w.Code)
	return w.Result().Cookies()
}

func (s *ServerTestSuite) TestNew_RequiresConfigAndDatabase() {
	_, err := New(nil, mock.NewMockDB(), nil, nil, true)
	assert.Error(s.T(), err)

	_, err = New(&config.Config{}, nil, nil, nil, true)
	assert.Error(s.T(), err)
}

func (s *ServerTestSuite) TestPublicRoutes() {
	w := s.serve(httptest.NewRequest(http.MethodGet, "/", nil), nil)
	assert.Equal(s.T(), http.StatusOK, w.Code)
	assert.NotEmpty(s.T(), w.Header().Get(requestIDHeader))

	w = s.serve(httptest.NewRequest(http.MethodGet, "/prime-sum/5", nil), nil)
	assert.Equal(s.T(), http.StatusOK, w.Code)
	assert.JSONEq(s.T(), `{"prime_sum":28}`, w.Body.String())
}

func (s *ServerTestSuite) TestProtectedRoutes_RedirectWithoutSession() {
	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/me"},
		{http.MethodGet, "/todos"},
		{http.MethodPost, "/category"},
		{http.MethodGet, "/category/1/todos"},
	} {
		w := s.serve(httptest.NewRequest(route.method, route.path, nil), nil)
		assert.Equal(s.T(), http.StatusFound, w.Code, route.path)
		assert.Equal(s.T(), "/unauthorized", w.Header().Get("Location"), route.path)
	}

	w := s.serve(httptest.NewRequest(http.MethodGet, "/unauthorized", nil), nil)
	assert.Equal(s.T(), http.StatusUnauthorized, w.Code)
}

func (s *ServerTestSuite) TestSessionFlow() {
	cookies := s.login()

	w := s.serve(httptest.NewRequest(http.MethodGet, "/todos", nil), cookies)
	require.Equal(s.T(), http.StatusOK, w.Code)
	assert.Contains(s.T(), w.Body.String(), "Wash dishes")

	req := httptest.NewRequest(http.MethodPost, "/category", strings.NewReader(`{"text":"home"}`))
	req.Header.Set("Content-Type", "application/json")
	w = s.serve(req, cookies)
	assert.Equal(s.T(), http.StatusCreated, w.Code)

	w = s.serve(httptest.NewRequest(http.MethodGet, "/logout", nil), cookies)
	require.Equal(s.T(), http.StatusFound, w.Code)

	w = s.serve(httptest.NewRequest(http.MethodGet, "/todos", nil), w.Result().Cookies())
	assert.Equal(s.T(), http.StatusFound, w.Code)
}

func (s *ServerTestSuite) TestGzip() {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w := s.serve(req, nil)

	assert.Equal(s.T(), http.StatusOK, w.Code)
	assert.Equal(s.T(), "gzip", w.Header().Get("Content-Encoding"))
}

func TestRun_StopsOnCancel(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{Listen: "127.0.0.1:0", SessionKey: "secret"}
	server, err := New(cfg, mock.NewMockDB(), nil, nil, true)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
