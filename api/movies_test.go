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

func TestBackendMovieSearch(t *testing.T) {
	backend := apitest.MustStart(t)
	client := newTestClient(backend.BaseURL())
	ctx := context.Background()

	movies, err := client.SearchMovies(ctx, "기생충")
	require.NoError(t, err)
	require.Len(t, movies, 1)
	assert.Equal(t, uint(496243), movies[0].ID)
	assert.Equal(t, "/parasite.jpg", movies[0].PosterPath)

	none, err := client.SearchMovies(ctx, "없는 영화")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestBackendMovieDetail(t *testing.T) {
	backend := apitest.MustStart(t)
	client := newTestClient(backend.BaseURL())
	ctx := context.Background()

	movie, err := client.MovieDetail(ctx, 4538)
	require.NoError(t, err)
	assert.Equal(t, "괴물", movie.Title)
	assert.Equal(t, "2006-07-27", movie.ReleaseDate)
	assert.InDelta(t, 7.0, movie.VoteAverage, 0.001)

	_, err = client.MovieDetail(ctx, 999)
	require.Error(t, err)
	var apiErr *models.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
}

func TestBackendPersonDetail(t *testing.T) {
	backend := apitest.MustStart(t)
	client := newTestClient(backend.BaseURL())
	ctx := context.Background()

	person, err := client.PersonDetail(ctx, 21684)
	require.NoError(t, err)
	assert.Equal(t, "봉준호", person.Name)
	assert.Equal(t, "Directing", person.KnownForDepartment)

	_, err = client.PersonDetail(ctx, 999)
	require.Error(t, err)
	var apiErr *models.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
}
