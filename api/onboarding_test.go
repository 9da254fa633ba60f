package api

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"cinememory/apitest"
	"cinememory/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOnboardingClient(t *testing.T) (*Client, *apitest.Backend) {
	t.Helper()
	backend := apitest.MustStart(t)
	token := backend.SeedUser("admin", "password", "1990-01-01")
	client := newTestClient(backend.BaseURL(), func(cfg *Config) {
		cfg.Tokens = StaticToken(token)
	})
	return client, backend
}

func TestOnboardingMoviePools(t *testing.T) {
	client, _ := newOnboardingClient(t)
	ctx := context.Background()

	t.Run("Famous pool arrives wrapped in a movies object", func(t *testing.T) {
		movies, err := client.FamousMovies(ctx)
		require.NoError(t, err)
		require.Len(t, movies, 3)
		assert.Equal(t, uint(496243), movies[0].ID)
		assert.Equal(t, "기생충", movies[0].Title)
	})

	t.Run("Hidden pool arrives as a bare array", func(t *testing.T) {
		movies, err := client.HiddenMovies(ctx)
		require.NoError(t, err)
		require.Len(t, movies, 3)
		assert.Equal(t, "괴물", movies[1].Title)
	})

	t.Run("Anonymous request is rejected", func(t *testing.T) {
		backend := apitest.MustStart(t)
		anonymous := newTestClient(backend.BaseURL())
		_, err := anonymous.FamousMovies(ctx)
		require.Error(t, err)
		var apiErr *models.APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	})
}

func TestOnboardingStepSaves(t *testing.T) {
	client, _ := newOnboardingClient(t)
	ctx := context.Background()

	require.NoError(t, client.SaveFavoriteMovies(ctx, []uint{496243, 4538}))
	require.NoError(t, client.SaveInterestingMovies(ctx, []uint{581528}))
	require.NoError(t, client.SaveExcludedGenres(ctx, []uint{27}))

	t.Run("Empty movie picks are rejected", func(t *testing.T) {
		err := client.SaveFavoriteMovies(ctx, nil)
		require.Error(t, err)
		var apiErr *models.APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusBadRequest, apiErr.Status)
		assert.Equal(t, "영화를 선택해주세요.", apiErr.Message)
	})

	t.Run("Clearing genre exclusions is allowed", func(t *testing.T) {
		assert.NoError(t, client.SaveExcludedGenres(ctx, []uint{}))
	})
}

func TestGenres(t *testing.T) {
	client, _ := newOnboardingClient(t)

	genres, err := client.Genres(context.Background())
	require.NoError(t, err)
	require.Len(t, genres, 3)
	assert.Equal(t, uint(27), genres[0].ID)
	assert.Equal(t, "공포", genres[0].Name)
}

func TestRandomAnalysisMovie(t *testing.T) {
	client, _ := newOnboardingClient(t)

	movie, err := client.RandomAnalysisMovie(context.Background())
	require.NoError(t, err)
	assert.NotZero(t, movie.ID)
	assert.NotEmpty(t, movie.Title)
}
