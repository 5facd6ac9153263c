package service

import (
	"testing"
	"time"

	"github.com/user/moovie/internal/repository"
	"github.com/user/moovie/internal/repository/repotest"
	"go.uber.org/zap"
)

type testEnv struct {
	repos     *repository.Repositories
	watchlist *WatchlistService
	auth      *AuthService
	profile   *ProfileService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	repos := repotest.NewRepositories(t)
	log := zap.NewNop()
	auth := NewAuthService(repos.User, "test-secret", time.Hour, log)
	return &testEnv{
		repos:     repos,
		watchlist: NewWatchlistService(repos.Watchlist, log),
		auth:      auth,
		profile:   NewProfileService(repos.User, repos.Watchlist, auth, log),
	}
}
