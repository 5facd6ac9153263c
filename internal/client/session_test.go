package client_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/moovie/internal/client"
	"github.com/user/moovie/internal/model"
	"github.com/user/moovie/internal/router/routertest"
	"go.uber.org/zap"
)

func newAPI(t *testing.T) *client.APIClient {
	t.Helper()
	env := routertest.New(t, "")
	srv := httptest.NewServer(env.Engine)
	t.Cleanup(srv.Close)
	return client.NewAPIClient(srv.URL, 5*time.Second)
}

func TestSessionWatchlistRoundTrip(t *testing.T) {
	ctx := context.Background()
	api := newAPI(t)
	notify := client.NewLogNotifier(zap.NewNop())

	session, err := client.Signup(ctx, api, model.SignupInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "secret123",
	}, notify)
	require.NoError(t, err)
	require.True(t, session.Valid())
	assert.Equal(t, "alice", session.User().Username)

	store := session.Watchlist()
	require.NoError(t, store.Load(ctx))
	assert.Empty(t, store.Entries())

	item := model.FromSearchResult(model.MovieSummary{MovieID: "tt0111161", Title: "The Shawshank Redemption", Year: "1994"})
	created, err := store.Add(ctx, item)
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, model.StatusPlanToWatch, created.Status)

	_, err = store.Add(ctx, item)
	assert.Equal(t, 400, client.StatusCode(err))
	assert.Len(t, store.Entries(), 1)

	_, err = store.UpdateDetails(ctx, "tt0111161", model.EntryPatch{Status: model.Some(model.StatusWatched)})
	require.NoError(t, err)

	// 重新加载后与服务端一致
	require.NoError(t, store.Load(ctx))
	got, ok := store.Find("tt0111161")
	require.True(t, ok)
	assert.Equal(t, model.StatusWatched, got.Status)
	assert.Equal(t, "", got.Note)
	assert.Equal(t, model.StringList{}, got.Tags)

	require.NoError(t, store.Remove(ctx, "tt0111161"))
	require.NoError(t, store.Remove(ctx, "tt0111161"))
	assert.False(t, store.IsTracked("tt0111161"))
}

func TestSessionLogoutClearsStoreAndRevokesToken(t *testing.T) {
	ctx := context.Background()
	api := newAPI(t)
	notify := client.NewLogNotifier(zap.NewNop())

	session, err := client.Signup(ctx, api, model.SignupInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "secret123",
	}, notify)
	require.NoError(t, err)

	store := session.Watchlist()
	_, err = store.Add(ctx, model.FromSearchResult(model.MovieSummary{MovieID: "tt1", Title: "Heat"}))
	require.NoError(t, err)
	token := session.Token()

	require.NoError(t, session.Logout(ctx))
	assert.False(t, session.Valid())
	assert.Empty(t, store.Entries())
	assert.ErrorIs(t, session.Logout(ctx), client.ErrSessionClosed)

	// 会话结束后 Load 不会拉取上一位用户的数据
	require.NoError(t, store.Load(ctx))
	assert.Empty(t, store.Entries())

	_, err = client.Resume(ctx, api, token, notify)
	assert.True(t, client.IsUnauthorized(err))

	// 同一用户重新登录后能看到自己的片单
	again, err := client.Login(ctx, api, "alice@example.com", "secret123", notify)
	require.NoError(t, err)
	require.NoError(t, again.Watchlist().Load(ctx))
	assert.True(t, again.Watchlist().IsTracked("tt1"))
}

func TestSessionsDoNotShareState(t *testing.T) {
	ctx := context.Background()
	api := newAPI(t)
	notify := client.NewLogNotifier(zap.NewNop())

	alice, err := client.Signup(ctx, api, model.SignupInput{Username: "alice", Email: "alice@example.com", Password: "secret123"}, notify)
	require.NoError(t, err)
	bob, err := client.Signup(ctx, api, model.SignupInput{Username: "bob", Email: "bob@example.com", Password: "secret123"}, notify)
	require.NoError(t, err)

	_, err = alice.Watchlist().Add(ctx, model.FromSearchResult(model.MovieSummary{MovieID: "tt1", Title: "Heat"}))
	require.NoError(t, err)

	require.NoError(t, bob.Watchlist().Load(ctx))
	assert.False(t, bob.Watchlist().IsTracked("tt1"))

	// 同一影片两个用户都可以添加
	_, err = bob.Watchlist().Add(ctx, model.FromSearchResult(model.MovieSummary{MovieID: "tt1", Title: "Heat"}))
	require.NoError(t, err)

	profile, err := bob.API().Profile(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, profile.Stats.WatchlistCount)
}
