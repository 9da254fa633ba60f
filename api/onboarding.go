package api

import (
	"context"

	"cinememory/models"
	"cinememory/normalize"
)

// OnboardingStatus is the user's progress through the one-time setup flow.
type OnboardingStatus struct {
	Completed   bool
	CurrentStep int
}

// RecommendedMovie is one entry of the personalized recommendation set.
type RecommendedMovie struct {
	MovieID     uint
	Title       string
	Reason      string
	TargetAge   int
	ReleaseYear int
}

// Recommendations is the generated recommendation set backing the timeline.
type Recommendations struct {
	TasteSummary string
	Movies       []RecommendedMovie
}

// GetOnboardingStatus fetches the user's onboarding progress.
func (c *Client) GetOnboardingStatus(ctx context.Context) (OnboardingStatus, error) {
	data, err := c.get(ctx, c.endpoints.OnboardingStatus)
	if err != nil {
		return OnboardingStatus{}, err
	}
	obj := asObject(data)
	status := OnboardingStatus{}
	if completed, ok := obj["completed"].(bool); ok {
		status.Completed = completed
	} else if completed, ok := obj["onboarding_completed"].(bool); ok {
		status.Completed = completed
	}
	if step, ok := obj["current_step"].(float64); ok {
		status.CurrentStep = int(step)
	}
	return status, nil
}

// FamousMovies fetches the step-1 movie pool. The endpoint has returned both
// {movies: [...]} and a bare array; both shapes are accepted.
func (c *Client) FamousMovies(ctx context.Context) ([]models.Movie, error) {
	return c.onboardingMovies(ctx, c.endpoints.FamousMovies)
}

// HiddenMovies fetches the step-2 movie pool.
func (c *Client) HiddenMovies(ctx context.Context) ([]models.Movie, error) {
	return c.onboardingMovies(ctx, c.endpoints.HiddenMovies)
}

func (c *Client) onboardingMovies(ctx context.Context, path string) ([]models.Movie, error) {
	data, err := c.get(ctx, path)
	if err != nil {
		if isParseError(err) {
			return []models.Movie{}, nil
		}
		return nil, err
	}
	list := asList(data)
	if list == nil {
		if obj, ok := data.(map[string]any); ok {
			list, _ = obj["movies"].([]any)
		}
	}
	movies := make([]models.Movie, 0, len(list))
	for _, item := range list {
		if obj, ok := item.(map[string]any); ok {
			movies = append(movies, normalize.Movie(obj))
		}
	}
	return movies, nil
}

// RandomAnalysisMovie fetches one movie to show on the loading screen while
// step-4 analysis runs.
func (c *Client) RandomAnalysisMovie(ctx context.Context) (models.Movie, error) {
	data, err := c.get(ctx, c.endpoints.RandomMovie)
	if err != nil {
		return models.Movie{}, err
	}
	obj := asObject(data)
	if movie, ok := obj["movie"].(map[string]any); ok {
		return normalize.Movie(movie), nil
	}
	return normalize.Movie(obj), nil
}

// SaveFavoriteMovies stores the step-1 picks.
func (c *Client) SaveFavoriteMovies(ctx context.Context, movieIDs []uint) error {
	_, err := c.post(ctx, c.endpoints.SaveFavorites, map[string]any{"movie_ids": movieIDs})
	return err
}

// SaveInterestingMovies stores the step-2 picks.
func (c *Client) SaveInterestingMovies(ctx context.Context, movieIDs []uint) error {
	_, err := c.post(ctx, c.endpoints.SaveInteresting, map[string]any{"movie_ids": movieIDs})
	return err
}

// Genres fetches the step-3 genre list as id/name pairs.
func (c *Client) Genres(ctx context.Context) ([]models.Tag, error) {
	data, err := c.get(ctx, c.endpoints.Genres)
	if err != nil {
		if isParseError(err) {
			return []models.Tag{}, nil
		}
		return nil, err
	}
	list := asList(data)
	if list == nil {
		if obj, ok := data.(map[string]any); ok {
			list, _ = obj["genres"].([]any)
		}
	}
	var genres []models.Tag
	for _, item := range list {
		if obj, ok := item.(map[string]any); ok {
			genre := models.Tag{}
			if id, ok := obj["id"].(float64); ok {
				genre.ID = uint(id)
			}
			if name, ok := obj["name"].(string); ok {
				genre.Name = name
			}
			genres = append(genres, genre)
		}
	}
	return genres, nil
}

// SaveExcludedGenres stores the step-3 exclusions.
func (c *Client) SaveExcludedGenres(ctx context.Context, genreIDs []uint) error {
	_, err := c.post(ctx, c.endpoints.SaveExcludedGenres, map[string]any{"genre_ids": genreIDs})
	return err
}

// GenerateRecommendations kicks off step-4 recommendation generation and
// returns the generated set.
func (c *Client) GenerateRecommendations(ctx context.Context) (Recommendations, error) {
	data, err := c.post(ctx, c.endpoints.GenerateRecs, nil)
	if err != nil {
		return Recommendations{}, err
	}
	return recommendations(data), nil
}

// GetRecommendations fetches the completed recommendation set.
func (c *Client) GetRecommendations(ctx context.Context) (Recommendations, error) {
	data, err := c.get(ctx, c.endpoints.Recommendations)
	if err != nil {
		return Recommendations{}, err
	}
	return recommendations(data), nil
}

// RegenerateRecommendations discards the current set and builds a new one.
func (c *Client) RegenerateRecommendations(ctx context.Context) (Recommendations, error) {
	data, err := c.post(ctx, c.endpoints.RegenerateRecs, nil)
	if err != nil {
		return Recommendations{}, err
	}
	return recommendations(data), nil
}

func recommendations(data any) Recommendations {
	obj := asObject(data)
	recs := Recommendations{}
	if summary, ok := obj["taste_summary"].(string); ok {
		recs.TasteSummary = summary
	}
	movies, _ := obj["movies"].([]any)
	for _, item := range movies {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		movie := RecommendedMovie{}
		if id, ok := entry["movie_id"].(float64); ok {
			movie.MovieID = uint(id)
		}
		if title, ok := entry["title"].(string); ok {
			movie.Title = title
		}
		if reason, ok := entry["reason"].(string); ok {
			movie.Reason = reason
		}
		if age, ok := entry["target_age"].(float64); ok {
			movie.TargetAge = int(age)
		}
		if year, ok := entry["release_year"].(float64); ok {
			movie.ReleaseYear = int(year)
		}
		recs.Movies = append(recs.Movies, movie)
	}
	return recs
}
