package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	httpHandler "thoughts-board/internal/handler/http"
	gormpersistence "thoughts-board/internal/infra/persistence/gorm"
	"thoughts-board/internal/infra/setup"
	"thoughts-board/internal/middleware"
	"thoughts-board/internal/service"
)

// testServer 是基于内存 SQLite 的完整路由
type testServer struct {
	t      *testing.T
	router *gin.Engine
	db     *gorm.DB
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, setup.MigrateDB(db))

	tokens, err := service.NewTokenIssuer(service.DefaultTokenBytes)
	require.NoError(t, err)
	authService, err := service.NewAuthService(gormpersistence.NewGormUserRepository(db), tokens, bcrypt.MinCost)
	require.NoError(t, err)
	thoughtService := service.NewThoughtService(gormpersistence.NewGormThoughtRepository(db), nil)

	router := gin.New()
	httpHandler.RegisterRoutes(
		router,
		middleware.Auth(authService, false),
		httpHandler.NewAuthHandler(authService),
		httpHandler.NewThoughtHandler(thoughtService),
	)
	return &testServer{t: t, router: router, db: db}
}

// do 发送请求；body 为 nil 时不带请求体，token 为空时不带 Authorization 头
func (s *testServer) do(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	s.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

// register 注册用户并返回令牌
func (s *testServer) register(username string) string {
	s.t.Helper()
	w := s.do(http.MethodPost, "/register", gin.H{
		"username": username,
		"email":    username + "@x.io",
		"password": "secret1",
	}, "")
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	var resp httpHandler.RegisterResponse
	decode(s.t, w, &resp)
	return resp.AccessToken
}

type thoughtJSON struct {
	ID      uint   `json:"id"`
	Message string `json:"message"`
	Hearts  int    `json:"hearts"`
	Author  string `json:"author"`
}

func (s *testServer) createThought(token, message string) thoughtJSON {
	s.t.Helper()
	w := s.do(http.MethodPost, "/thoughts", gin.H{"message": message}, token)
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	var th thoughtJSON
	decode(s.t, w, &th)
	return th
}
