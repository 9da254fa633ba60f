// Package normalize folds the backend's historically inconsistent payload
// shapes into the canonical models. The community API has shipped several
// serializer generations (embedded author objects, flat author_id/username
// pairs, bare user pks; tag objects and tag strings), and responses from any
// of them may still be in flight. Every function here is idempotent:
// normalizing already-canonical data returns it unchanged.
package normalize

import (
	"strconv"
	"time"

	"cinememory/models"
)

// PlaceholderUsername is surfaced when no author information resolves at all.
const PlaceholderUsername = "사용자"

// Author resolves the writer of a post or comment. Precedence:
// an embedded author/user object, then flat author_id+username fields, then a
// bare user/user_pk integer with a synthesized username, then the placeholder.
func Author(raw map[string]any) models.Author {
	for _, key := range []string{"author", "user"} {
		if obj, ok := raw[key].(map[string]any); ok {
			a := models.Author{
				ID:       uintField(obj, "id", "pk", "user_pk"),
				Username: stringField(obj, "username", "name"),
			}
			if a.Username == "" {
				a.Username = synthesize(a.ID)
			}
			return a
		}
	}

	if id, ok := uintValue(raw["author_id"]); ok {
		username := stringField(raw, "username", "author_username")
		if username == "" {
			username = synthesize(id)
		}
		return models.Author{ID: id, Username: username}
	}

	for _, key := range []string{"user", "user_pk"} {
		if id, ok := uintValue(raw[key]); ok {
			return models.Author{ID: id, Username: synthesize(id)}
		}
	}

	return models.Author{Username: PlaceholderUsername}
}

func synthesize(id uint) string {
	if id == 0 {
		return PlaceholderUsername
	}
	return PlaceholderUsername + strconv.FormatUint(uint64(id), 10)
}

// Tags accepts a list of strings or a list of {name} objects and always
// yields a list of strings, order preserved. Anything else yields nil.
func Tags(raw any) []string {
	list, ok := raw.([]any)
	if !ok {
		return nil
	}
	tags := make([]string, 0, len(list))
	for _, item := range list {
		switch v := item.(type) {
		case string:
			tags = append(tags, v)
		case map[string]any:
			if name := stringField(v, "name", "tag_name"); name != "" {
				tags = append(tags, name)
			}
		}
	}
	return tags
}

// Post folds a raw post payload into the canonical shape.
func Post(raw map[string]any) models.Post {
	return models.Post{
		ID:           uintField(raw, "id", "post_pk", "pk"),
		Title:        stringField(raw, "title", "post_title"),
		Content:      stringField(raw, "content", "post_content"),
		Author:       Author(raw),
		LikeCount:    intField(raw, "like_count", "likes_count"),
		CommentCount: intField(raw, "comment_count", "comments_count"),
		IsLiked:      boolField(raw, "is_liked", "liked"),
		Tags:         Tags(raw["tags"]),
		CreatedAt:    timeField(raw, "created_at"),
		UpdatedAt:    timeField(raw, "updated_at"),
	}
}

// Posts normalizes a list of raw posts, skipping entries that are not objects.
func Posts(raw []any) []models.Post {
	posts := make([]models.Post, 0, len(raw))
	for _, item := range raw {
		if obj, ok := item.(map[string]any); ok {
			posts = append(posts, Post(obj))
		}
	}
	return posts
}

// Comment folds a raw comment payload into the canonical shape. Replies are
// normalized with the same rules; replies of replies are not modeled.
func Comment(raw map[string]any) models.Comment {
	c := models.Comment{
		ID:        uintField(raw, "id", "comment_pk", "pk"),
		Content:   stringField(raw, "content", "comment_content"),
		Author:    Author(raw),
		CreatedAt: timeField(raw, "created_at"),
		UpdatedAt: timeField(raw, "updated_at"),
		Replies:   []models.Comment{},
	}

	for _, key := range []string{"parent_id", "parent_pk", "parent"} {
		if id, ok := uintValue(raw[key]); ok {
			parent := id
			c.ParentID = &parent
			break
		}
	}

	if replies, ok := raw["replies"].([]any); ok {
		for _, item := range replies {
			if obj, ok := item.(map[string]any); ok {
				reply := Comment(obj)
				// one level of nesting only
				reply.Replies = []models.Comment{}
				c.Replies = append(c.Replies, reply)
			}
		}
	}
	return c
}

// Comments normalizes a list of raw comments.
func Comments(raw []any) []models.Comment {
	comments := make([]models.Comment, 0, len(raw))
	for _, item := range raw {
		if obj, ok := item.(map[string]any); ok {
			comments = append(comments, Comment(obj))
		}
	}
	return comments
}

// Profile folds a raw user payload into the canonical profile.
func Profile(raw map[string]any) models.UserProfile {
	return models.UserProfile{
		ID:                  uintField(raw, "id", "user_pk", "pk"),
		Username:            stringField(raw, "username"),
		Birth:               stringField(raw, "birth", "birth_date"),
		OnboardingCompleted: boolField(raw, "onboarding_completed", "is_onboarded"),
	}
}

// Movie folds a raw movie payload into the canonical shape.
func Movie(raw map[string]any) models.Movie {
	return models.Movie{
		ID:          uintField(raw, "id", "movie_pk", "pk"),
		Title:       stringField(raw, "title"),
		Overview:    stringField(raw, "overview"),
		ReleaseDate: stringField(raw, "release_date"),
		PosterPath:  stringField(raw, "poster_path", "poster_url"),
		VoteAverage: floatField(raw, "vote_average"),
	}
}

// Person folds a raw person payload into the canonical shape. known_for may
// arrive as titles or as credit objects; either way it becomes titles.
func Person(raw map[string]any) models.Person {
	p := models.Person{
		ID:                 uintField(raw, "id", "person_pk", "pk"),
		Name:               stringField(raw, "name"),
		Birthday:           stringField(raw, "birthday", "birth"),
		ProfilePath:        stringField(raw, "profile_path"),
		KnownForDepartment: stringField(raw, "known_for_department"),
	}
	if list, ok := raw["known_for"].([]any); ok {
		for _, item := range list {
			switch v := item.(type) {
			case string:
				p.KnownFor = append(p.KnownFor, v)
			case map[string]any:
				if title := stringField(v, "title", "name"); title != "" {
					p.KnownFor = append(p.KnownFor, title)
				}
			}
		}
	}
	return p
}

// field coercion helpers

func uintValue(v any) (uint, bool) {
	switch n := v.(type) {
	case float64:
		if n < 0 {
			return 0, false
		}
		return uint(n), true
	case int:
		if n < 0 {
			return 0, false
		}
		return uint(n), true
	case uint:
		return n, true
	case string:
		parsed, err := strconv.ParseUint(n, 10, 64)
		if err != nil {
			return 0, false
		}
		return uint(parsed), true
	}
	return 0, false
}

func uintField(raw map[string]any, keys ...string) uint {
	for _, key := range keys {
		if v, ok := uintValue(raw[key]); ok {
			return v
		}
	}
	return 0
}

func intField(raw map[string]any, keys ...string) int {
	for _, key := range keys {
		switch n := raw[key].(type) {
		case float64:
			return int(n)
		case int:
			return n
		}
	}
	return 0
}

func floatField(raw map[string]any, keys ...string) float64 {
	for _, key := range keys {
		switch n := raw[key].(type) {
		case float64:
			return n
		case int:
			return float64(n)
		}
	}
	return 0
}

func stringField(raw map[string]any, keys ...string) string {
	for _, key := range keys {
		if s, ok := raw[key].(string); ok {
			return s
		}
	}
	return ""
}

func boolField(raw map[string]any, keys ...string) bool {
	for _, key := range keys {
		if b, ok := raw[key].(bool); ok {
			return b
		}
	}
	return false
}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func timeField(raw map[string]any, key string) time.Time {
	s, ok := raw[key].(string)
	if !ok {
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
