package timeline

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"cinememory/api"
	"cinememory/apitest"
	"cinememory/tmdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeTMDB(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/movie/496243", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(tmdb.Movie{
			ID: 496243, Title: "기생충", PosterPath: "/parasite.jpg", Overview: "반지하 가족 이야기",
		})
	})
	mux.HandleFunc("/movie/4538", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(tmdb.Movie{
			ID: 4538, Title: "괴물", PosterPath: "/host.jpg", Overview: "한강에 나타난 괴물",
		})
	})
	mux.HandleFunc("/search/movie", func(w http.ResponseWriter, r *http.Request) {
		var results []tmdb.Movie
		if r.URL.Query().Get("query") == "벌새" {
			results = []tmdb.Movie{{ID: 581528, Title: "벌새", PosterPath: "/hummingbird.jpg"}}
		}
		_ = json.NewEncoder(w).Encode(tmdb.MoviePage{Page: 1, TotalResults: len(results), Results: results})
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newTestBuilder(t *testing.T, movies *tmdb.Client) *Builder {
	t.Helper()
	backend := apitest.MustStart(t)
	token := backend.SeedUser("viewer", "password", "1997-01-01")
	client := api.New(api.Config{
		BaseURL: backend.BaseURL(),
		Tokens:  api.StaticToken(token),
		Logger:  slog.New(slog.DiscardHandler),
	})
	return NewBuilder(client, movies, slog.New(slog.DiscardHandler))
}

func TestBuildOrdersByAge(t *testing.T) {
	movies := tmdb.New(tmdb.Config{BaseURL: fakeTMDB(t).URL, APIKey: "test-key"})
	builder := newTestBuilder(t, movies)

	tl, err := builder.Build(context.Background())
	require.NoError(t, err)

	require.Len(t, tl.Items, 3)
	assert.Equal(t, 3, tl.TotalItems)
	assert.NotEmpty(t, tl.TasteSummary)

	ages := []int{tl.Items[0].Age, tl.Items[1].Age, tl.Items[2].Age}
	assert.Equal(t, []int{7, 14, 29}, ages)
	assert.Equal(t, AgeRange{Min: 7, Max: 29}, tl.AgeRange)

	for i, item := range tl.Items {
		assert.Equal(t, i, item.Position)
		assert.False(t, item.IsWatched)
	}
	assert.Equal(t, "괴물", tl.Items[0].Movie.Title)
	assert.Equal(t, "기생충", tl.Items[2].Movie.Title)
}

func TestBuildEnrichesFromTMDB(t *testing.T) {
	movies := tmdb.New(tmdb.Config{BaseURL: fakeTMDB(t).URL, APIKey: "test-key"})
	builder := newTestBuilder(t, movies)

	tl, err := builder.Build(context.Background())
	require.NoError(t, err)
	require.Len(t, tl.Items, 3)

	parasite := tl.Items[2].Movie
	assert.Equal(t, "https://image.tmdb.org/t/p/w342/parasite.jpg", parasite.Poster)
	assert.Equal(t, "반지하 가족 이야기", parasite.Overview)

	// 벌새 has no TMDB id in the recommendation; title search resolves it
	hummingbird := tl.Items[1].Movie
	assert.Equal(t, uint(581528), hummingbird.ID)
	assert.Equal(t, "https://image.tmdb.org/t/p/w342/hummingbird.jpg", hummingbird.Poster)
}

func TestBuildSurvivesEnrichmentFailure(t *testing.T) {
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(broken.Close)

	movies := tmdb.New(tmdb.Config{BaseURL: broken.URL, APIKey: "test-key"})
	builder := newTestBuilder(t, movies)

	tl, err := builder.Build(context.Background())
	require.NoError(t, err)
	require.Len(t, tl.Items, 3)
	for _, item := range tl.Items {
		assert.Empty(t, item.Movie.Poster)
		assert.NotEmpty(t, item.Movie.Title)
	}
}

func TestBuildWithoutTMDBClient(t *testing.T) {
	builder := newTestBuilder(t, nil)

	tl, err := builder.Build(context.Background())
	require.NoError(t, err)
	assert.Len(t, tl.Items, 3)
}

func TestMarkWatched(t *testing.T) {
	tl := Timeline{Items: []Item{
		{ID: "timeline-0", Movie: Entry{ID: 4538}},
		{ID: "timeline-1", Movie: Entry{ID: 496243}},
	}}

	assert.True(t, tl.MarkWatched(496243))
	assert.True(t, tl.Items[1].IsWatched)
	assert.False(t, tl.Items[0].IsWatched)

	assert.False(t, tl.MarkWatched(999))
}
