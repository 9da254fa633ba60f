package api

import (
	"context"
	"fmt"
	"net/url"

	"cinememory/models"
	"cinememory/normalize"
)

// SearchMovies searches the backend's movie index. Malformed bodies on this
// read default to an empty result set.
func (c *Client) SearchMovies(ctx context.Context, query string) ([]models.Movie, error) {
	path := fmt.Sprintf("%s?q=%s", c.endpoints.MovieSearch, url.QueryEscape(query))
	data, err := c.get(ctx, path)
	if err != nil {
		if isParseError(err) {
			return []models.Movie{}, nil
		}
		return nil, err
	}
	var movies []models.Movie
	for _, item := range asList(data) {
		if obj, ok := item.(map[string]any); ok {
			movies = append(movies, normalize.Movie(obj))
		}
	}
	return movies, nil
}

// MovieDetail fetches one movie by id.
func (c *Client) MovieDetail(ctx context.Context, id uint) (models.Movie, error) {
	data, err := c.get(ctx, c.endpoints.movieDetailPath(id))
	if err != nil {
		return models.Movie{}, err
	}
	return normalize.Movie(asObject(data)), nil
}

// PersonDetail fetches one person by id.
func (c *Client) PersonDetail(ctx context.Context, id uint) (models.Person, error) {
	data, err := c.get(ctx, c.endpoints.personDetailPath(id))
	if err != nil {
		return models.Person{}, err
	}
	return normalize.Person(asObject(data)), nil
}
