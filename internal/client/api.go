// Package client 是 Moovie API 的 Go 客户端，包含以会话为生命周期的片单 Store
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/user/moovie/internal/model"
	"github.com/user/moovie/internal/utils"
)

// APIError 服务端返回的错误
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("请求失败，状态码: %d", e.StatusCode)
	}
	return e.Message
}

// StatusCode 错误对应的 HTTP 状态码，非 APIError 返回 0
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// IsNotFound 是否为 404
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// IsUnauthorized 是否为 401
func IsUnauthorized(err error) bool {
	return StatusCode(err) == http.StatusUnauthorized
}

// APIClient Moovie HTTP API 客户端
type APIClient struct {
	baseURL string
	http    *utils.HTTPClient
	token   string
}

// NewAPIClient 创建客户端，baseURL 形如 http://localhost:5000
func NewAPIClient(baseURL string, timeout time.Duration) *APIClient {
	return &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    utils.NewHTTPClient(timeout),
	}
}

// WithToken 返回携带令牌的副本
func (c *APIClient) WithToken(token string) *APIClient {
	cp := *c
	cp.token = token
	return &cp
}

// Token 当前令牌
func (c *APIClient) Token() string {
	return c.token
}

func (c *APIClient) do(ctx context.Context, method, path string, body, target interface{}) error {
	header := http.Header{}
	if c.token != "" {
		header.Set("Authorization", "Bearer "+c.token)
	}

	err := c.http.Do(ctx, method, c.baseURL+path, header, body, target)
	var statusErr *utils.StatusError
	if errors.As(err, &statusErr) {
		var payload utils.ErrorBody
		_ = json.Unmarshal(statusErr.Body, &payload)
		return &APIError{StatusCode: statusErr.StatusCode, Message: payload.Error}
	}
	return err
}

// Signup 注册
func (c *APIClient) Signup(ctx context.Context, in model.SignupInput) (*model.AuthResult, error) {
	var res model.AuthResult
	if err := c.do(ctx, http.MethodPost, "/api/auth/signup", in, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Login 登录
func (c *APIClient) Login(ctx context.Context, in model.LoginInput) (*model.AuthResult, error) {
	var res model.AuthResult
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", in, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Verify 校验当前令牌
func (c *APIClient) Verify(ctx context.Context) (*model.User, error) {
	var res struct {
		User *model.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/auth/verify", nil, &res); err != nil {
		return nil, err
	}
	return res.User, nil
}

// Logout 注销当前令牌
func (c *APIClient) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
}

// ListWatchlist 获取片单
func (c *APIClient) ListWatchlist(ctx context.Context) ([]model.WatchlistEntry, error) {
	entries := []model.WatchlistEntry{}
	if err := c.do(ctx, http.MethodGet, "/api/watchlist", nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// CreateEntry 添加到片单
func (c *APIClient) CreateEntry(ctx context.Context, in model.CreateEntryInput) (*model.WatchlistEntry, error) {
	var entry model.WatchlistEntry
	if err := c.do(ctx, http.MethodPost, "/api/watchlist", in, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// UpdateEntry 局部更新条目
func (c *APIClient) UpdateEntry(ctx context.Context, movieID string, patch model.EntryPatch) (*model.WatchlistEntry, error) {
	var entry model.WatchlistEntry
	if err := c.do(ctx, http.MethodPut, "/api/watchlist/"+url.PathEscape(movieID), patch, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// DeleteEntry 从片单删除
func (c *APIClient) DeleteEntry(ctx context.Context, movieID string) error {
	return c.do(ctx, http.MethodDelete, "/api/watchlist/"+url.PathEscape(movieID), nil, nil)
}

// SearchMovies 搜索影片库
func (c *APIClient) SearchMovies(ctx context.Context, query string) ([]model.MovieSummary, error) {
	results := []model.MovieSummary{}
	path := "/api/movies/search?" + url.Values{"q": {query}}.Encode()
	if err := c.do(ctx, http.MethodGet, path, nil, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// MovieDetail 影片详情
func (c *APIClient) MovieDetail(ctx context.Context, imdbID string) (*model.MovieDetail, error) {
	var detail model.MovieDetail
	if err := c.do(ctx, http.MethodGet, "/api/movies/"+url.PathEscape(imdbID), nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// Profile 获取个人资料
func (c *APIClient) Profile(ctx context.Context) (*model.UserProfile, error) {
	var profile model.UserProfile
	if err := c.do(ctx, http.MethodGet, "/api/profile", nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateGenres 更新喜爱类型
func (c *APIClient) UpdateGenres(ctx context.Context, genres []string) (*model.UserProfile, error) {
	var profile model.UserProfile
	if err := c.do(ctx, http.MethodPatch, "/api/profile/genres", model.GenresInput{FavoriteGenres: genres}, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// DeleteAccount 注销账号
func (c *APIClient) DeleteAccount(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/api/profile", nil, nil)
}
