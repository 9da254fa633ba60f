// Package tmdb is a read-only client for The Movie Database API, used to
// enrich backend data with posters and metadata. Lookups go through an
// optional cache-aside layer; with no cache every call hits TMDB directly.
package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"cinememory/cache"
	"cinememory/models"
)

// Config configures a TMDB client.
type Config struct {
	BaseURL      string
	APIKey       string
	Language     string
	ImageBaseURL string
	HTTPClient   *http.Client
	Cache        *cache.Cache
	CacheTTL     time.Duration
}

// Client calls the TMDB v3 API.
type Client struct {
	baseURL      string
	apiKey       string
	language     string
	imageBaseURL string
	httpClient   *http.Client
	cache        *cache.Cache
	cacheTTL     time.Duration
}

// Movie is a TMDB movie record.
type Movie struct {
	ID           uint    `json:"id"`
	Title        string  `json:"title"`
	Overview     string  `json:"overview"`
	ReleaseDate  string  `json:"release_date"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	VoteAverage  float64 `json:"vote_average"`
	Popularity   float64 `json:"popularity"`
}

// Person is a TMDB person record.
type Person struct {
	ID                 uint    `json:"id"`
	Name               string  `json:"name"`
	Birthday           string  `json:"birthday"`
	ProfilePath        string  `json:"profile_path"`
	KnownForDepartment string  `json:"known_for_department"`
	Popularity         float64 `json:"popularity"`
}

// MoviePage is one page of movie search results.
type MoviePage struct {
	Page         int     `json:"page"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
	Results      []Movie `json:"results"`
}

// PersonPage is one page of person search results.
type PersonPage struct {
	Page         int      `json:"page"`
	TotalPages   int      `json:"total_pages"`
	TotalResults int      `json:"total_results"`
	Results      []Person `json:"results"`
}

// MultiResult is one mixed search hit; MediaType is "movie" or "person".
type MultiResult struct {
	MediaType   string  `json:"media_type"`
	ID          uint    `json:"id"`
	Title       string  `json:"title"`
	Name        string  `json:"name"`
	Overview    string  `json:"overview"`
	PosterPath  string  `json:"poster_path"`
	ProfilePath string  `json:"profile_path"`
	ReleaseDate string  `json:"release_date"`
	Popularity  float64 `json:"popularity"`
}

// MultiPage is one page of mixed search results.
type MultiPage struct {
	Page         int           `json:"page"`
	TotalPages   int           `json:"total_pages"`
	TotalResults int           `json:"total_results"`
	Results      []MultiResult `json:"results"`
}

// New builds a TMDB client from cfg.
func New(cfg Config) *Client {
	c := &Client{
		baseURL:      cfg.BaseURL,
		apiKey:       cfg.APIKey,
		language:     cfg.Language,
		imageBaseURL: cfg.ImageBaseURL,
		httpClient:   cfg.HTTPClient,
		cache:        cfg.Cache,
		cacheTTL:     cfg.CacheTTL,
	}
	if c.baseURL == "" {
		c.baseURL = "https://api.themoviedb.org/3"
	}
	if c.language == "" {
		c.language = "ko-KR"
	}
	if c.imageBaseURL == "" {
		c.imageBaseURL = "https://image.tmdb.org/t/p"
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{}
	}
	if c.cacheTTL == 0 {
		c.cacheTTL = 10 * time.Minute
	}
	return c
}

func (c *Client) get(ctx context.Context, path string, params url.Values, dest any) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)
	params.Set("language", c.language)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return models.NewValidationError("잘못된 요청 경로입니다.")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return models.NewNetworkError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return models.NewAPIError(resp.StatusCode, "영화 정보를 불러오는데 실패했습니다.")
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return models.NewParseError(err)
	}
	return nil
}

// MovieDetails fetches one movie by TMDB id.
func (c *Client) MovieDetails(ctx context.Context, movieID uint) (Movie, error) {
	var movie Movie
	key := fmt.Sprintf("tmdb:movie:%d", movieID)
	err := c.cache.Aside(ctx, key, &movie, c.cacheTTL, func() error {
		return c.get(ctx, fmt.Sprintf("/movie/%d", movieID), nil, &movie)
	})
	return movie, err
}

// SearchMovies searches movies by title. Adult titles are excluded.
func (c *Client) SearchMovies(ctx context.Context, query string, page int) (MoviePage, error) {
	var result MoviePage
	key := fmt.Sprintf("tmdb:search:movie:%s:%d", query, page)
	err := c.cache.Aside(ctx, key, &result, c.cacheTTL, func() error {
		return c.get(ctx, "/search/movie", searchParams(query, page), &result)
	})
	return result, err
}

// SearchPeople searches people by name.
func (c *Client) SearchPeople(ctx context.Context, query string, page int) (PersonPage, error) {
	var result PersonPage
	key := fmt.Sprintf("tmdb:search:person:%s:%d", query, page)
	err := c.cache.Aside(ctx, key, &result, c.cacheTTL, func() error {
		return c.get(ctx, "/search/person", searchParams(query, page), &result)
	})
	return result, err
}

// SearchMulti searches movies and people together.
func (c *Client) SearchMulti(ctx context.Context, query string, page int) (MultiPage, error) {
	var result MultiPage
	key := fmt.Sprintf("tmdb:search:multi:%s:%d", query, page)
	err := c.cache.Aside(ctx, key, &result, c.cacheTTL, func() error {
		return c.get(ctx, "/search/multi", searchParams(query, page), &result)
	})
	return result, err
}

func searchParams(query string, page int) url.Values {
	if page < 1 {
		page = 1
	}
	params := url.Values{}
	params.Set("query", query)
	params.Set("page", fmt.Sprintf("%d", page))
	params.Set("include_adult", "false")
	return params
}
