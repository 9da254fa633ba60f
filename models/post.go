package models

import "time"

// Post is the canonical community post shape. The backend has sent several
// historical shapes for authors and tags; normalize.Post folds them all into
// this one.
type Post struct {
	ID           uint      `json:"id"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	Author       Author    `json:"author"`
	LikeCount    int       `json:"like_count"`
	CommentCount int       `json:"comment_count"`
	IsLiked      bool      `json:"is_liked"`
	Tags         []string  `json:"tags"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Tag is a community label as returned by the tag listing endpoint.
type Tag struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}
