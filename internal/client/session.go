package client

import (
	"context"
	"errors"
	"sync"

	"github.com/user/moovie/internal/model"
)

// ErrSessionClosed 会话已注销
var ErrSessionClosed = errors.New("会话已结束")

// Session 登录会话，持有令牌和本会话专属的片单 Store
// 由 Login/Signup/Resume 创建，Logout 后失效
type Session struct {
	api   *APIClient
	user  *model.User
	store *WatchlistStore

	mu     sync.RWMutex
	closed bool
}

// Login 登录并创建会话
func Login(ctx context.Context, api *APIClient, email, password string, notify Notifier) (*Session, error) {
	res, err := api.Login(ctx, model.LoginInput{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	return newSession(api.WithToken(res.Token), res.User, notify), nil
}

// Signup 注册并创建会话
func Signup(ctx context.Context, api *APIClient, in model.SignupInput, notify Notifier) (*Session, error) {
	res, err := api.Signup(ctx, in)
	if err != nil {
		return nil, err
	}
	return newSession(api.WithToken(res.Token), res.User, notify), nil
}

// Resume 使用已保存的令牌恢复会话
func Resume(ctx context.Context, api *APIClient, token string, notify Notifier) (*Session, error) {
	authed := api.WithToken(token)
	user, err := authed.Verify(ctx)
	if err != nil {
		return nil, err
	}
	return newSession(authed, user, notify), nil
}

func newSession(api *APIClient, user *model.User, notify Notifier) *Session {
	s := &Session{api: api, user: user}
	s.store = NewWatchlistStore(api, notify, s.Valid)
	return s
}

// Valid 会话是否有效
func (s *Session) Valid() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.closed && s.api.Token() != ""
}

// User 当前用户
func (s *Session) User() *model.User {
	return s.user
}

// Token 当前令牌
func (s *Session) Token() string {
	return s.api.Token()
}

// API 携带本会话令牌的客户端
func (s *Session) API() *APIClient {
	return s.api
}

// Watchlist 本会话的片单
func (s *Session) Watchlist() *WatchlistStore {
	return s.store
}

// Logout 结束会话：先清空本地片单，再在服务端注销令牌
func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	s.closed = true
	s.mu.Unlock()

	s.store.Clear()
	if err := s.api.Logout(ctx); err != nil && !IsUnauthorized(err) {
		return err
	}
	return nil
}
