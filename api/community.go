package api

import (
	"context"
	"fmt"
	"net/url"

	"cinememory/models"
	"cinememory/normalize"
)

// PostPage is one page of the post listing with its pagination fields.
type PostPage struct {
	Items       []models.Post
	TotalCount  int
	HasNext     bool
	HasPrevious bool
}

// PostInput carries the writable fields of a post.
type PostInput struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags,omitempty"`
}

// CommentInput carries the writable fields of a comment. ParentID set makes
// it a reply.
type CommentInput struct {
	Content  string `json:"content"`
	ParentID *uint  `json:"parent_pk,omitempty"`
}

// LikeResult is the backend's state after a like toggle.
type LikeResult struct {
	LikeCount int
	IsLiked   bool
}

// ListPosts fetches one page of posts. A malformed body on this idempotent
// read yields an empty page rather than an error.
func (c *Client) ListPosts(ctx context.Context, page, pageSize int, sortBy string) (PostPage, error) {
	path := fmt.Sprintf("%s?page=%d&page_size=%d&sort=%s",
		c.endpoints.Posts, page, pageSize, url.QueryEscape(sortBy))
	data, err := c.get(ctx, path)
	if err != nil {
		if isParseError(err) {
			return PostPage{Items: []models.Post{}}, nil
		}
		return PostPage{}, err
	}
	return postPage(data), nil
}

// PostsByTag fetches one page of posts carrying the given tag.
func (c *Client) PostsByTag(ctx context.Context, tag string, page, pageSize int) (PostPage, error) {
	path := fmt.Sprintf(c.endpoints.TagPosts, url.PathEscape(tag))
	path = fmt.Sprintf("%s?page=%d&page_size=%d", path, page, pageSize)
	data, err := c.get(ctx, path)
	if err != nil {
		if isParseError(err) {
			return PostPage{Items: []models.Post{}}, nil
		}
		return PostPage{}, err
	}
	return postPage(data), nil
}

func postPage(data any) PostPage {
	page := PostPage{Items: normalize.Posts(asList(data))}
	if obj, ok := data.(map[string]any); ok {
		if count, ok := obj["count"].(float64); ok {
			page.TotalCount = int(count)
		} else {
			page.TotalCount = len(page.Items)
		}
		page.HasNext = obj["next"] != nil
		page.HasPrevious = obj["previous"] != nil
	} else {
		page.TotalCount = len(page.Items)
	}
	return page
}

// GetPost fetches one post by id.
func (c *Client) GetPost(ctx context.Context, id uint) (models.Post, error) {
	data, err := c.get(ctx, c.endpoints.postPath(id))
	if err != nil {
		return models.Post{}, err
	}
	return normalize.Post(asObject(data)), nil
}

// CreatePost creates a post and returns the server's canonical copy.
func (c *Client) CreatePost(ctx context.Context, input PostInput) (models.Post, error) {
	data, err := c.post(ctx, c.endpoints.Posts, input)
	if err != nil {
		return models.Post{}, err
	}
	return normalize.Post(asObject(data)), nil
}

// UpdatePost rewrites a post's fields and returns the server's copy.
func (c *Client) UpdatePost(ctx context.Context, id uint, input PostInput) (models.Post, error) {
	data, err := c.put(ctx, c.endpoints.postPath(id), input)
	if err != nil {
		return models.Post{}, err
	}
	return normalize.Post(asObject(data)), nil
}

// DeletePost removes a post.
func (c *Client) DeletePost(ctx context.Context, id uint) error {
	_, err := c.delete(ctx, c.endpoints.postPath(id), nil)
	return err
}

// ListComments fetches a post's comments, replies nested one level.
func (c *Client) ListComments(ctx context.Context, postID uint) ([]models.Comment, error) {
	data, err := c.get(ctx, c.endpoints.postCommentsPath(postID))
	if err != nil {
		if isParseError(err) {
			return []models.Comment{}, nil
		}
		return nil, err
	}
	return normalize.Comments(asList(data)), nil
}

// CreateComment adds a comment (or a reply, when input.ParentID is set).
func (c *Client) CreateComment(ctx context.Context, postID uint, input CommentInput) (models.Comment, error) {
	data, err := c.post(ctx, c.endpoints.postCommentsPath(postID), input)
	if err != nil {
		return models.Comment{}, err
	}
	return normalize.Comment(asObject(data)), nil
}

// DeleteComment removes a comment by id.
func (c *Client) DeleteComment(ctx context.Context, commentID uint) error {
	_, err := c.delete(ctx, c.endpoints.commentPath(commentID), nil)
	return err
}

// TogglePostLike flips the signed-in user's like on a post and returns the
// resulting count and state.
func (c *Client) TogglePostLike(ctx context.Context, postID uint) (LikeResult, error) {
	data, err := c.post(ctx, c.endpoints.postLikePath(postID), nil)
	if err != nil {
		return LikeResult{}, err
	}
	obj := asObject(data)
	result := LikeResult{}
	if count, ok := obj["like_count"].(float64); ok {
		result.LikeCount = int(count)
	}
	if liked, ok := obj["is_liked"].(bool); ok {
		result.IsLiked = liked
	}
	return result, nil
}

// ListTags fetches every community tag.
func (c *Client) ListTags(ctx context.Context) ([]models.Tag, error) {
	data, err := c.get(ctx, c.endpoints.Tags)
	if err != nil {
		if isParseError(err) {
			return []models.Tag{}, nil
		}
		return nil, err
	}
	var tags []models.Tag
	for _, item := range asList(data) {
		switch v := item.(type) {
		case string:
			tags = append(tags, models.Tag{Name: v})
		case map[string]any:
			tag := models.Tag{Name: ""}
			if name, ok := v["name"].(string); ok {
				tag.Name = name
			}
			if id, ok := v["id"].(float64); ok {
				tag.ID = uint(id)
			}
			if tag.Name != "" {
				tags = append(tags, tag)
			}
		}
	}
	return tags, nil
}
