// Package timeline turns the user's generated movie recommendations into the
// age-ordered "cinematic journey" view, enriched with TMDB metadata.
package timeline

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"cinememory/api"
	"cinememory/tmdb"
)

// Entry is the movie behind one timeline item.
type Entry struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	ReleaseYear int    `json:"release_year"`
	Reason      string `json:"reason"`
	Poster      string `json:"poster"`
	Overview    string `json:"overview"`
}

// Item is one stop on the timeline.
type Item struct {
	ID        string `json:"id"`
	Age       int    `json:"age"`
	Year      int    `json:"year"`
	Movie     Entry  `json:"movie"`
	Position  int    `json:"position"`
	IsWatched bool   `json:"is_watched"`
}

// AgeRange is the youngest and oldest target age on the timeline.
type AgeRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Timeline is the assembled view.
type Timeline struct {
	TasteSummary string   `json:"taste_summary"`
	Items        []Item   `json:"items"`
	TotalItems   int      `json:"total_items"`
	AgeRange     AgeRange `json:"age_range"`
}

// Builder assembles timelines from backend recommendations and TMDB data.
type Builder struct {
	backend *api.Client
	movies  *tmdb.Client
	logger  *slog.Logger
}

// NewBuilder wires a Builder.
func NewBuilder(backend *api.Client, movies *tmdb.Client, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{backend: backend, movies: movies, logger: logger}
}

// Build fetches the user's recommendation set and assembles the timeline.
func (b *Builder) Build(ctx context.Context) (Timeline, error) {
	recs, err := b.backend.GetRecommendations(ctx)
	if err != nil {
		return Timeline{}, err
	}
	return b.assemble(ctx, recs), nil
}

// Regenerate discards the current recommendation set and assembles a
// timeline from the new one.
func (b *Builder) Regenerate(ctx context.Context) (Timeline, error) {
	recs, err := b.backend.RegenerateRecommendations(ctx)
	if err != nil {
		return Timeline{}, err
	}
	return b.assemble(ctx, recs), nil
}

func (b *Builder) assemble(ctx context.Context, recs api.Recommendations) Timeline {
	movies := make([]api.RecommendedMovie, len(recs.Movies))
	copy(movies, recs.Movies)
	sort.SliceStable(movies, func(i, j int) bool {
		return movies[i].TargetAge < movies[j].TargetAge
	})

	tl := Timeline{TasteSummary: recs.TasteSummary}
	for i, movie := range movies {
		entry := Entry{
			ID:          movie.MovieID,
			Title:       movie.Title,
			ReleaseYear: movie.ReleaseYear,
			Reason:      movie.Reason,
		}
		b.enrich(ctx, &entry)

		tl.Items = append(tl.Items, Item{
			ID:       fmt.Sprintf("timeline-%d", i),
			Age:      movie.TargetAge,
			Year:     movie.ReleaseYear,
			Movie:    entry,
			Position: i,
		})
	}

	tl.TotalItems = len(tl.Items)
	if len(tl.Items) > 0 {
		tl.AgeRange = AgeRange{Min: tl.Items[0].Age, Max: tl.Items[0].Age}
		for _, item := range tl.Items {
			if item.Age < tl.AgeRange.Min {
				tl.AgeRange.Min = item.Age
			}
			if item.Age > tl.AgeRange.Max {
				tl.AgeRange.Max = item.Age
			}
		}
	}
	return tl
}

// enrich fills the entry's poster and overview from TMDB, by id when the
// recommendation carries one, by title search otherwise. Enrichment failure
// only costs the poster, never the item.
func (b *Builder) enrich(ctx context.Context, entry *Entry) {
	if b.movies == nil {
		return
	}

	if entry.ID != 0 {
		detail, err := b.movies.MovieDetails(ctx, entry.ID)
		if err != nil {
			b.logger.Warn("timeline enrichment failed",
				slog.String("title", entry.Title), slog.String("error", err.Error()))
			return
		}
		entry.Poster = b.movies.PosterURL(detail.PosterPath)
		entry.Overview = detail.Overview
		return
	}

	page, err := b.movies.SearchMovies(ctx, entry.Title, 1)
	if err != nil || len(page.Results) == 0 {
		if err != nil {
			b.logger.Warn("timeline enrichment failed",
				slog.String("title", entry.Title), slog.String("error", err.Error()))
		}
		return
	}
	first := page.Results[0]
	entry.ID = first.ID
	entry.Poster = b.movies.PosterURL(first.PosterPath)
	entry.Overview = first.Overview
}

// MarkWatched flags the item holding the given movie as watched. Local state
// only; the backend has no watched endpoint yet.
func (t *Timeline) MarkWatched(movieID uint) bool {
	for i := range t.Items {
		if t.Items[i].Movie.ID == movieID {
			t.Items[i].IsWatched = true
			return true
		}
	}
	return false
}
