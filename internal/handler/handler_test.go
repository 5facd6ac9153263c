package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/moovie/internal/model"
	"github.com/user/moovie/internal/router/routertest"
)

func do(t *testing.T, env *routertest.Env, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	env.Engine.ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body.Error
}

func TestWatchlistRequiresBearerToken(t *testing.T) {
	env := routertest.New(t, "")

	rr := do(t, env, http.MethodGet, "/api/watchlist", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = do(t, env, http.MethodPost, "/api/watchlist", "not-a-token", map[string]string{"movieId": "tt1", "title": "Heat"})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.NotEmpty(t, decodeError(t, rr))

	req := httptest.NewRequest(http.MethodGet, "/api/watchlist", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: "anything"})
	rr = httptest.NewRecorder()
	env.Engine.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestWatchlistLifecycle(t *testing.T) {
	env := routertest.New(t, "")
	token := env.Signup(t, "alice").Token

	rr := do(t, env, http.MethodGet, "/api/watchlist", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())

	rr = do(t, env, http.MethodPost, "/api/watchlist", token, map[string]string{
		"movieId": "tt0111161",
		"title":   "The Shawshank Redemption",
		"year":    "1994",
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	var created model.WatchlistEntry
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.Equal(t, model.StatusPlanToWatch, created.Status)
	assert.Equal(t, "", created.Note)
	assert.Equal(t, model.StringList{}, created.Tags)
	assert.Contains(t, rr.Body.String(), `"_id":`)

	// 重复添加
	rr = do(t, env, http.MethodPost, "/api/watchlist", token, map[string]string{
		"movieId": "tt0111161",
		"title":   "The Shawshank Redemption",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "该影片已在片单中", decodeError(t, rr))

	rr = do(t, env, http.MethodPut, "/api/watchlist/tt0111161", token, `{"note":"classic"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	var updated model.WatchlistEntry
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &updated))
	assert.Equal(t, "classic", updated.Note)
	assert.Equal(t, model.StatusPlanToWatch, updated.Status)

	rr = do(t, env, http.MethodPut, "/api/watchlist/tt0111161", token, `{"status":"Watched","tags":["drama","prison"]}`)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &updated))
	assert.Equal(t, model.StatusWatched, updated.Status)
	assert.Equal(t, model.StringList{"drama", "prison"}, updated.Tags)
	assert.Equal(t, "classic", updated.Note)

	rr = do(t, env, http.MethodDelete, "/api/watchlist/tt0111161", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"message"`)

	rr = do(t, env, http.MethodDelete, "/api/watchlist/tt0111161", token, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestWatchlistBadRequests(t *testing.T) {
	env := routertest.New(t, "")
	token := env.Signup(t, "alice").Token

	rr := do(t, env, http.MethodPost, "/api/watchlist", token, `{"movieId":`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, env, http.MethodPost, "/api/watchlist", token, map[string]string{"movieId": "tt1"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "title 为必填项", decodeError(t, rr))

	rr = do(t, env, http.MethodPut, "/api/watchlist/tt1", token, `{"status":"Dropped"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, env, http.MethodPut, "/api/watchlist/tt1", token, `{"note":"x"}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	big := `{"movieId":"tt1","title":"` + strings.Repeat("x", 2<<20) + `"}`
	rr = do(t, env, http.MethodPost, "/api/watchlist", token, big)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
}

func TestWatchlistIsScopedToCaller(t *testing.T) {
	env := routertest.New(t, "")
	alice := env.Signup(t, "alice").Token
	bob := env.Signup(t, "bob").Token

	rr := do(t, env, http.MethodPost, "/api/watchlist", alice, map[string]string{"movieId": "tt1", "title": "Heat"})
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = do(t, env, http.MethodGet, "/api/watchlist", bob, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())

	rr = do(t, env, http.MethodDelete, "/api/watchlist/tt1", bob, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	// 请求体中的 user 字段不会改变归属
	rr = do(t, env, http.MethodPost, "/api/watchlist", bob, map[string]interface{}{"movieId": "tt2", "title": "Ran", "user": 1})
	require.Equal(t, http.StatusCreated, rr.Code)
	rr = do(t, env, http.MethodGet, "/api/watchlist", alice, nil)
	var entries []model.WatchlistEntry
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "tt1", entries[0].MovieID)
}

func TestAuthEndpoints(t *testing.T) {
	env := routertest.New(t, "")

	rr := do(t, env, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.NotContains(t, rr.Body.String(), "secret123")
	assert.NotContains(t, rr.Body.String(), "PasswordHash")

	rr = do(t, env, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "alice@example.com", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = do(t, env, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "alice@example.com", "password": "secret123"})
	require.Equal(t, http.StatusOK, rr.Code)
	var res model.AuthResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	require.NotEmpty(t, res.Token)

	rr = do(t, env, http.MethodGet, "/api/auth/verify", res.Token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"username":"alice"`)

	rr = do(t, env, http.MethodPost, "/api/auth/logout", res.Token, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = do(t, env, http.MethodGet, "/api/watchlist", res.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestProfileEndpoints(t *testing.T) {
	env := routertest.New(t, "")
	token := env.Signup(t, "alice").Token

	rr := do(t, env, http.MethodPost, "/api/watchlist", token, map[string]string{"movieId": "tt1", "title": "Heat", "status": "Watched"})
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = do(t, env, http.MethodPatch, "/api/profile/genres", token, map[string][]string{"favoriteGenres": {"Crime", "Drama"}})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = do(t, env, http.MethodGet, "/api/profile", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var profile model.UserProfile
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &profile))
	assert.Equal(t, model.StringList{"Crime", "Drama"}, profile.FavoriteGenres)
	assert.EqualValues(t, 1, profile.Stats.MoviesWatched)
	assert.EqualValues(t, 1, profile.Stats.WatchlistCount)

	rr = do(t, env, http.MethodDelete, "/api/profile", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = do(t, env, http.MethodGet, "/api/profile", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	env := routertest.New(t, "")

	rr := do(t, env, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = do(t, env, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "moovie_http_requests_total")
}

func TestMoviesWithoutCatalogReturnBadGateway(t *testing.T) {
	env := routertest.New(t, "")

	rr := do(t, env, http.MethodGet, "/api/movies/search?q=matrix", "", nil)
	assert.Equal(t, http.StatusBadGateway, rr.Code)

	rr = do(t, env, http.MethodGet, "/api/movies/search?q=", "", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestUnknownRouteReturnsJSONNotFound(t *testing.T) {
	env := routertest.New(t, "")

	rr := do(t, env, http.MethodGet, "/api/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "资源不存在", decodeError(t, rr))
}
