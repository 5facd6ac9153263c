// Package routertest 组装完整的 HTTP 服务用于测试（内存 SQLite + 全部中间件）
package routertest

import (
	"context"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/user/moovie/internal/config"
	"github.com/user/moovie/internal/handler"
	"github.com/user/moovie/internal/model"
	"github.com/user/moovie/internal/repository"
	"github.com/user/moovie/internal/repository/repotest"
	"github.com/user/moovie/internal/router"
	"github.com/user/moovie/internal/service"
	"go.uber.org/zap"
)

// Env 测试服务及其依赖
type Env struct {
	Engine *gin.Engine
	Repos  *repository.Repositories
	Auth   *service.AuthService
}

// New 创建测试服务，omdbURL 为空时影片库接口返回 502
func New(t testing.TB, omdbURL string) *Env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Env:         "test",
		AppSecret:   "test-secret",
		JWTExpiry:   time.Hour,
		OMDbBaseURL: omdbURL,
		CORSOrigins: []string{"*"},
	}
	if omdbURL != "" {
		cfg.OMDbAPIKey = "test-key"
	}

	log := zap.NewNop()
	repos := repotest.NewRepositories(t)
	auth := service.NewAuthService(repos.User, cfg.AppSecret, cfg.JWTExpiry, log)
	h := handler.NewHandler(
		service.NewWatchlistService(repos.Watchlist, log),
		auth,
		service.NewProfileService(repos.User, repos.Watchlist, auth, log),
		service.NewCatalogService(cfg.OMDbBaseURL, cfg.OMDbAPIKey, 5*time.Second, log),
		log,
	)

	return &Env{
		Engine: router.New(cfg, h, log),
		Repos:  repos,
		Auth:   auth,
	}
}

// Signup 注册用户并返回令牌
func (e *Env) Signup(t testing.TB, username string) *model.AuthResult {
	t.Helper()
	res, err := e.Auth.Signup(context.Background(), model.SignupInput{
		Username: username,
		Email:    username + "@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	return res
}
