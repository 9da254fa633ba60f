package store

import (
	"context"
	"log/slog"
	"sync"

	"cinememory/api"
	"cinememory/models"
)

// Sort orders accepted by the post listing.
const (
	SortLatest  = "latest"
	SortPopular = "popular"
)

const defaultPageSize = 10

// Community is the state container for the forum: the post listing, the
// currently open post with its comments, tags, pagination and the active
// filter. The listing, the detail view and the aggregate counters are three
// views of the same data; every mutating action updates each view it
// affects explicitly, there is no automatic propagation.
type Community struct {
	client *api.Client
	logger *slog.Logger

	mu          sync.RWMutex
	items       []models.Post
	currentPost *models.Post
	comments    []models.Comment
	tags        []models.Tag

	page        int
	pageSize    int
	totalCount  int
	hasNext     bool
	hasPrevious bool
	sortBy      string
	tagFilter   string
}

// NewCommunity builds an empty community container over the API client.
func NewCommunity(client *api.Client, logger *slog.Logger) *Community {
	if logger == nil {
		logger = slog.Default()
	}
	return &Community{
		client:   client,
		logger:   logger,
		page:     1,
		pageSize: defaultPageSize,
		sortBy:   SortLatest,
	}
}

// read accessors; slices are copied so callers cannot alias internal state

// Posts returns the current listing.
func (c *Community) Posts() []models.Post {
	c.mu.RLock()
	defer c.mu.RUnlock()
	items := make([]models.Post, len(c.items))
	copy(items, c.items)
	return items
}

// CurrentPost returns the open post, if one is loaded.
func (c *Community) CurrentPost() (models.Post, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.currentPost == nil {
		return models.Post{}, false
	}
	return *c.currentPost, true
}

// Comments returns the open post's comments.
func (c *Community) Comments() []models.Comment {
	c.mu.RLock()
	defer c.mu.RUnlock()
	comments := make([]models.Comment, len(c.comments))
	copy(comments, c.comments)
	return comments
}

// Tags returns the known community tags.
func (c *Community) Tags() []models.Tag {
	c.mu.RLock()
	defer c.mu.RUnlock()
	tags := make([]models.Tag, len(c.tags))
	copy(tags, c.tags)
	return tags
}

// Page returns the current page number.
func (c *Community) Page() int { c.mu.RLock(); defer c.mu.RUnlock(); return c.page }

// TotalCount returns the server-side total for the active listing.
func (c *Community) TotalCount() int { c.mu.RLock(); defer c.mu.RUnlock(); return c.totalCount }

// HasNext reports whether a next page exists.
func (c *Community) HasNext() bool { c.mu.RLock(); defer c.mu.RUnlock(); return c.hasNext }

// HasPrevious reports whether a previous page exists.
func (c *Community) HasPrevious() bool { c.mu.RLock(); defer c.mu.RUnlock(); return c.hasPrevious }

// SortBy returns the active sort order.
func (c *Community) SortBy() string { c.mu.RLock(); defer c.mu.RUnlock(); return c.sortBy }

// TagFilter returns the active tag filter, "" when the home listing is shown.
func (c *Community) TagFilter() string { c.mu.RLock(); defer c.mu.RUnlock(); return c.tagFilter }

// FetchList loads one page of the unfiltered listing, replacing items and
// pagination atomically so a stale page never mixes with a new sort order.
// Any active tag filter is dropped.
func (c *Community) FetchList(ctx context.Context, page, pageSize int, sortBy string) Result {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if sortBy != SortLatest && sortBy != SortPopular {
		sortBy = SortLatest
	}

	result, err := c.client.ListPosts(ctx, page, pageSize, sortBy)
	if err != nil {
		return fail(models.ErrorMessage(err, "게시글을 불러오는데 실패했습니다."))
	}

	c.mu.Lock()
	c.items = result.Items
	c.page = page
	c.pageSize = pageSize
	c.totalCount = result.TotalCount
	c.hasNext = result.HasNext
	c.hasPrevious = result.HasPrevious
	c.sortBy = sortBy
	c.tagFilter = ""
	c.mu.Unlock()
	return succeed()
}

// FetchOne loads a post and its comments into the detail view.
func (c *Community) FetchOne(ctx context.Context, id uint) Result {
	post, err := c.client.GetPost(ctx, id)
	if err != nil {
		return fail(models.ErrorMessage(err, "게시글을 불러오는데 실패했습니다."))
	}
	comments, err := c.client.ListComments(ctx, id)
	if err != nil {
		return fail(models.ErrorMessage(err, "댓글을 불러오는데 실패했습니다."))
	}

	c.mu.Lock()
	c.currentPost = &post
	c.comments = comments
	c.mu.Unlock()
	return succeed()
}

// Create writes a new post and prepends it to the listing.
func (c *Community) Create(ctx context.Context, input api.PostInput) Result {
	if input.Title == "" || input.Content == "" {
		return fail("제목과 내용을 입력해주세요.")
	}

	post, err := c.client.CreatePost(ctx, input)
	if err != nil {
		return fail(models.ErrorMessage(err, "게시글 작성에 실패했습니다."))
	}

	c.mu.Lock()
	c.items = append([]models.Post{post}, c.items...)
	c.totalCount++
	c.mu.Unlock()
	return succeed()
}

// Update rewrites a post. Both the listing entry and the detail view are
// replaced with the server's copy.
func (c *Community) Update(ctx context.Context, id uint, input api.PostInput) Result {
	post, err := c.client.UpdatePost(ctx, id, input)
	if err != nil {
		return fail(models.ErrorMessage(err, "게시글 수정에 실패했습니다."))
	}

	c.mu.Lock()
	for i := range c.items {
		if c.items[i].ID == id {
			c.items[i] = post
			break
		}
	}
	if c.currentPost != nil && c.currentPost.ID == id {
		c.currentPost = &post
	}
	c.mu.Unlock()
	return succeed()
}

// Delete removes a post from the server, the listing and (when open) the
// detail view.
func (c *Community) Delete(ctx context.Context, id uint) Result {
	if err := c.client.DeletePost(ctx, id); err != nil {
		return fail(models.ErrorMessage(err, "게시글 삭제에 실패했습니다."))
	}

	c.mu.Lock()
	filtered := c.items[:0]
	for _, post := range c.items {
		if post.ID != id {
			filtered = append(filtered, post)
		}
	}
	c.items = filtered
	if c.totalCount > 0 {
		c.totalCount--
	}
	if c.currentPost != nil && c.currentPost.ID == id {
		c.currentPost = nil
		c.comments = nil
	}
	c.mu.Unlock()
	return succeed()
}

// AddComment writes a top-level comment and bumps the comment count in both
// the detail view and the listing entry.
func (c *Community) AddComment(ctx context.Context, postID uint, content string) Result {
	if content == "" {
		return fail("댓글 내용을 입력해주세요.")
	}

	comment, err := c.client.CreateComment(ctx, postID, api.CommentInput{Content: content})
	if err != nil {
		return fail(models.ErrorMessage(err, "댓글 작성에 실패했습니다."))
	}

	c.mu.Lock()
	c.comments = append(c.comments, comment)
	c.adjustCommentCount(postID, 1)
	c.mu.Unlock()
	return succeed()
}

// AddReply writes a reply under a top-level comment and bumps the comment
// count in both views.
func (c *Community) AddReply(ctx context.Context, postID, commentID uint, content string) Result {
	if content == "" {
		return fail("댓글 내용을 입력해주세요.")
	}

	parent := commentID
	reply, err := c.client.CreateComment(ctx, postID, api.CommentInput{
		Content:  content,
		ParentID: &parent,
	})
	if err != nil {
		return fail(models.ErrorMessage(err, "댓글 작성에 실패했습니다."))
	}

	c.mu.Lock()
	for i := range c.comments {
		if c.comments[i].ID == commentID {
			c.comments[i].Replies = append(c.comments[i].Replies, reply)
			break
		}
	}
	c.adjustCommentCount(postID, 1)
	c.mu.Unlock()
	return succeed()
}

// DeleteComment removes a comment (top-level or reply) and decrements the
// comment count in both views.
func (c *Community) DeleteComment(ctx context.Context, postID, commentID uint) Result {
	if err := c.client.DeleteComment(ctx, commentID); err != nil {
		return fail(models.ErrorMessage(err, "댓글 삭제에 실패했습니다."))
	}

	c.mu.Lock()
	kept := c.comments[:0]
	for _, comment := range c.comments {
		if comment.ID == commentID {
			continue
		}
		replies := comment.Replies[:0]
		for _, reply := range comment.Replies {
			if reply.ID != commentID {
				replies = append(replies, reply)
			}
		}
		comment.Replies = replies
		kept = append(kept, comment)
	}
	c.comments = kept
	c.adjustCommentCount(postID, -1)
	c.mu.Unlock()
	return succeed()
}

// ToggleLike flips the user's like on a post and synchronizes the like count
// and state in both views. The container does not deduplicate in-flight
// toggles; idempotence under double-submission is the backend's contract.
func (c *Community) ToggleLike(ctx context.Context, postID uint) Result {
	result, err := c.client.TogglePostLike(ctx, postID)
	if err != nil {
		return fail(models.ErrorMessage(err, "좋아요 처리에 실패했습니다."))
	}

	c.mu.Lock()
	if c.currentPost != nil && c.currentPost.ID == postID {
		c.currentPost.LikeCount = result.LikeCount
		c.currentPost.IsLiked = result.IsLiked
	}
	for i := range c.items {
		if c.items[i].ID == postID {
			c.items[i].LikeCount = result.LikeCount
			c.items[i].IsLiked = result.IsLiked
			break
		}
	}
	c.mu.Unlock()
	return succeed()
}

// FetchTags loads the community tag list.
func (c *Community) FetchTags(ctx context.Context) Result {
	tags, err := c.client.ListTags(ctx)
	if err != nil {
		return fail(models.ErrorMessage(err, "태그를 불러오는데 실패했습니다."))
	}

	c.mu.Lock()
	c.tags = tags
	c.mu.Unlock()
	return succeed()
}

// FilterByTag replaces the listing with the first page of posts carrying the
// tag. Exactly one of the tag filter or the home listing is active at a time.
func (c *Community) FilterByTag(ctx context.Context, tag string) Result {
	if tag == "" {
		return fail("태그를 선택해주세요.")
	}

	c.mu.RLock()
	pageSize := c.pageSize
	c.mu.RUnlock()

	result, err := c.client.PostsByTag(ctx, tag, 1, pageSize)
	if err != nil {
		return fail(models.ErrorMessage(err, "게시글을 불러오는데 실패했습니다."))
	}

	c.mu.Lock()
	c.items = result.Items
	c.page = 1
	c.totalCount = result.TotalCount
	c.hasNext = result.HasNext
	c.hasPrevious = result.HasPrevious
	c.tagFilter = tag
	c.mu.Unlock()
	return succeed()
}

// ClearTagFilter drops the tag filter and reloads the first page of the home
// listing under the current sort order.
func (c *Community) ClearTagFilter(ctx context.Context) Result {
	c.mu.RLock()
	pageSize := c.pageSize
	sortBy := c.sortBy
	c.mu.RUnlock()
	return c.FetchList(ctx, 1, pageSize, sortBy)
}

// Reset drops all community state, for logout teardown.
func (c *Community) Reset() {
	c.mu.Lock()
	c.items = nil
	c.currentPost = nil
	c.comments = nil
	c.tags = nil
	c.page = 1
	c.pageSize = defaultPageSize
	c.totalCount = 0
	c.hasNext = false
	c.hasPrevious = false
	c.sortBy = SortLatest
	c.tagFilter = ""
	c.mu.Unlock()
}

// adjustCommentCount keeps the detail view and the listing entry in step.
// Callers hold the write lock.
func (c *Community) adjustCommentCount(postID uint, delta int) {
	if c.currentPost != nil && c.currentPost.ID == postID {
		c.currentPost.CommentCount += delta
		if c.currentPost.CommentCount < 0 {
			c.currentPost.CommentCount = 0
		}
	}
	for i := range c.items {
		if c.items[i].ID == postID {
			c.items[i].CommentCount += delta
			if c.items[i].CommentCount < 0 {
				c.items[i].CommentCount = 0
			}
			break
		}
	}
}
