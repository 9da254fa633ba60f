package tmdb

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"cinememory/cache"
	"cinememory/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// hitCounter counts requests per path, safe across handler goroutines.
type hitCounter struct {
	mu    sync.Mutex
	paths map[string]int
}

func (h *hitCounter) bump(path string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.paths[path]++
}

func (h *hitCounter) count(path string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.paths[path]
}

// fakeTMDB serves a fixed movie catalogue and counts hits per path.
func fakeTMDB(t *testing.T) (*httptest.Server, *hitCounter) {
	t.Helper()
	hits := &hitCounter{paths: map[string]int{}}

	mux := http.NewServeMux()
	mux.HandleFunc("/movie/496243", func(w http.ResponseWriter, r *http.Request) {
		hits.bump(r.URL.Path)
		assert.NotEmpty(t, r.URL.Query().Get("api_key"))
		assert.Equal(t, "ko-KR", r.URL.Query().Get("language"))
		_ = json.NewEncoder(w).Encode(Movie{
			ID:          496243,
			Title:       "기생충",
			ReleaseDate: "2019-05-30",
			PosterPath:  "/parasite.jpg",
			VoteAverage: 8.5,
		})
	})
	mux.HandleFunc("/search/movie", func(w http.ResponseWriter, r *http.Request) {
		hits.bump(r.URL.Path)
		assert.Equal(t, "false", r.URL.Query().Get("include_adult"))
		var results []Movie
		if r.URL.Query().Get("query") == "벌새" {
			results = []Movie{{ID: 581528, Title: "벌새", PosterPath: "/hummingbird.jpg"}}
		}
		_ = json.NewEncoder(w).Encode(MoviePage{Page: 1, TotalPages: 1, TotalResults: len(results), Results: results})
	})
	mux.HandleFunc("/search/person", func(w http.ResponseWriter, r *http.Request) {
		hits.bump(r.URL.Path)
		_ = json.NewEncoder(w).Encode(PersonPage{Page: 1, Results: []Person{
			{ID: 21684, Name: "봉준호", KnownForDepartment: "Directing"},
		}})
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		hits.bump(r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, hits
}

func newTestClient(t *testing.T, cached bool) (*Client, *hitCounter) {
	t.Helper()
	server, hits := fakeTMDB(t)

	var store *cache.Cache
	if cached {
		mr := miniredis.RunT(t)
		store = cache.NewWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	}
	client := New(Config{
		BaseURL: server.URL,
		APIKey:  "test-key",
		Cache:   store,
	})
	return client, hits
}

func TestMovieDetails(t *testing.T) {
	client, _ := newTestClient(t, false)

	movie, err := client.MovieDetails(context.Background(), 496243)
	require.NoError(t, err)
	assert.Equal(t, "기생충", movie.Title)
	assert.Equal(t, "2019-05-30", movie.ReleaseDate)

	t.Run("Unknown id surfaces an API error", func(t *testing.T) {
		_, err := client.MovieDetails(context.Background(), 999)
		require.Error(t, err)
		var apiErr *models.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusNotFound, apiErr.Status)
	})
}

func TestMovieDetailsCached(t *testing.T) {
	client, hits := newTestClient(t, true)
	ctx := context.Background()

	first, err := client.MovieDetails(ctx, 496243)
	require.NoError(t, err)
	second, err := client.MovieDetails(ctx, 496243)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, hits.count("/movie/496243"), "second lookup must be served from cache")
}

func TestSearchMovies(t *testing.T) {
	client, hits := newTestClient(t, true)
	ctx := context.Background()

	page, err := client.SearchMovies(ctx, "벌새", 1)
	require.NoError(t, err)
	require.Len(t, page.Results, 1)
	assert.Equal(t, uint(581528), page.Results[0].ID)

	empty, err := client.SearchMovies(ctx, "없는 영화", 1)
	require.NoError(t, err)
	assert.Empty(t, empty.Results)

	_, err = client.SearchMovies(ctx, "벌새", 1)
	require.NoError(t, err)
	assert.Equal(t, 2, hits.count("/search/movie"), "repeated query is a cache hit")
}

func TestSearchPeople(t *testing.T) {
	client, _ := newTestClient(t, false)

	page, err := client.SearchPeople(context.Background(), "봉준호", 1)
	require.NoError(t, err)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "봉준호", page.Results[0].Name)
}

func TestImageURL(t *testing.T) {
	client := New(Config{})

	tests := []struct {
		name string
		path string
		size string
		want string
	}{
		{"Empty path", "", SizePoster, ""},
		{"Poster size", "/parasite.jpg", SizePoster, "https://image.tmdb.org/t/p/w342/parasite.jpg"},
		{"Default size on blank", "/parasite.jpg", "", "https://image.tmdb.org/t/p/w500/parasite.jpg"},
		{"Absolute URL passes through", "https://example.com/full.jpg", SizePoster, "https://example.com/full.jpg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, client.ImageURL(tt.path, tt.size))
		})
	}

	assert.Equal(t, "https://image.tmdb.org/t/p/w780/b.jpg", client.BackdropURL("/b.jpg"))
	assert.Equal(t, "https://image.tmdb.org/t/p/w185/p.jpg", client.ProfileURL("/p.jpg"))
}
