package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newOMDbServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		if q.Get("apikey") != "test-key" {
			_, _ = w.Write([]byte(`{"Response":"False","Error":"Invalid API key!"}`))
			return
		}
		switch {
		case q.Get("s") == "matrix":
			assert.Equal(t, "movie", q.Get("type"))
			_, _ = w.Write([]byte(`{"Search":[
				{"Title":"The Matrix","Year":"1999","imdbID":"tt0133093","Type":"movie","Poster":"https://img/matrix.jpg"},
				{"Title":"The Matrix Revisited","Year":"2001","imdbID":"tt0295432","Type":"movie","Poster":"N/A"}
			],"totalResults":"2","Response":"True"}`))
		case q.Get("s") != "":
			_, _ = w.Write([]byte(`{"Response":"False","Error":"Movie not found!"}`))
		case q.Get("i") == "tt0133093":
			_, _ = w.Write([]byte(`{"Title":"The Matrix","Year":"1999","Genre":"Action, Sci-Fi","Director":"Lana Wachowski, Lilly Wachowski","Poster":"N/A","imdbRating":"8.7","imdbID":"tt0133093","Response":"True"}`))
		case q.Get("i") == "tt-broken":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			_, _ = w.Write([]byte(`{"Response":"False","Error":"Incorrect IMDb ID."}`))
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCatalogSearch(t *testing.T) {
	ctx := context.Background()
	srv := newOMDbServer(t)
	catalog := NewCatalogService(srv.URL+"/", "test-key", 5*time.Second, zap.NewNop())

	results, err := catalog.Search(ctx, "matrix")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "tt0133093", results[0].MovieID)
	assert.Equal(t, "https://img/matrix.jpg", results[0].PosterPath)
	assert.Equal(t, "", results[1].PosterPath)

	results, err = catalog.Search(ctx, "zzzz")
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)

	_, err = catalog.Search(ctx, "   ")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCatalogDetail(t *testing.T) {
	ctx := context.Background()
	srv := newOMDbServer(t)
	catalog := NewCatalogService(srv.URL+"/", "test-key", 5*time.Second, zap.NewNop())

	detail, err := catalog.Detail(ctx, "tt0133093")
	require.NoError(t, err)
	assert.Equal(t, "The Matrix", detail.Title)
	assert.Equal(t, "8.7", detail.IMDbRating)
	assert.Equal(t, "", detail.PosterPath)
	assert.Equal(t, "movie", detail.Summary().Type)

	_, err = catalog.Detail(ctx, "tt9999999")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = catalog.Detail(ctx, "tt-broken")
	assert.ErrorIs(t, err, ErrUpstream)
	assert.Equal(t, http.StatusBadGateway, StatusCode(err))
}

func TestCatalogUpstreamErrors(t *testing.T) {
	ctx := context.Background()
	srv := newOMDbServer(t)

	badKey := NewCatalogService(srv.URL+"/", "wrong", 5*time.Second, zap.NewNop())
	_, err := badKey.Search(ctx, "matrix")
	assert.ErrorIs(t, err, ErrUpstream)

	noKey := NewCatalogService(srv.URL+"/", "", 5*time.Second, zap.NewNop())
	_, err = noKey.Detail(ctx, "tt0133093")
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestCatalogLookupSurvivesCallerCancellation(t *testing.T) {
	srv := newOMDbServer(t)
	catalog := NewCatalogService(srv.URL+"/", "test-key", 5*time.Second, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := catalog.Search(ctx, "matrix")
	require.NoError(t, err)
	assert.Len(t, results, 2)

	detail, err := catalog.Detail(ctx, "tt0133093")
	require.NoError(t, err)
	assert.Equal(t, "The Matrix", detail.Title)
}
