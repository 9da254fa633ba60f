package apitest

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

func (b *Backend) routes(app *fiber.App) {
	app.Post("/cinememory/accounts/signup/", b.handleSignup)
	app.Post("/cinememory/accounts/login/", b.handleLogin)
	app.Post("/cinememory/accounts/logout/", b.handleLogout)
	app.Get("/cinememory/accounts/me/", b.handleMe)
	app.Post("/cinememory/accounts/check-username/", b.handleCheckUsername)

	app.Get("/cinememory/community/posts/", b.handleListPosts)
	app.Post("/cinememory/community/posts/", b.handleCreatePost)
	app.Get("/cinememory/community/posts/:id/", b.handleGetPost)
	app.Put("/cinememory/community/posts/:id/", b.handleUpdatePost)
	app.Delete("/cinememory/community/posts/:id/", b.handleDeletePost)
	app.Post("/cinememory/community/posts/:id/like/", b.handleToggleLike)
	app.Get("/cinememory/community/posts/:id/comments/", b.handleListComments)
	app.Post("/cinememory/community/posts/:id/comments/", b.handleCreateComment)
	app.Delete("/cinememory/community/comments/:id/", b.handleDeleteComment)
	app.Get("/cinememory/community/tags/", b.handleListTags)
	app.Get("/cinememory/community/tags/:tag/posts/", b.handleTagPosts)

	app.Put("/cinememory/accounts/me/update/", b.handleUpdateProfile)
	app.Delete("/cinememory/accounts/me/delete/", b.handleDeleteAccount)

	app.Get("/movies/search/", b.handleMovieSearch)
	app.Get("/movies/:id/", b.handleMovieDetail)
	app.Get("/persons/:id/", b.handlePersonDetail)

	app.Get("/cinememory/accounts/onboarding/status/", b.handleOnboardingStatus)
	// the famous pool wraps its list, the hidden pool is a bare array;
	// both shapes have shipped
	app.Get("/cinememory/accounts/onboarding/movies/famous/", b.handleFamousMovies)
	app.Get("/cinememory/accounts/onboarding/movies/hidden/", b.handleHiddenMovies)
	app.Get("/cinememory/accounts/onboarding/movies/random/", b.handleRandomMovie)
	app.Get("/cinememory/accounts/onboarding/genres/", b.handleGenres)
	app.Post("/cinememory/accounts/onboarding/step1/save/", b.handleSaveFavorites)
	app.Post("/cinememory/accounts/onboarding/step2/save/", b.handleSaveInteresting)
	app.Post("/cinememory/accounts/onboarding/step3/save/", b.handleSaveGenres)
	app.Post("/cinememory/accounts/onboarding/step4/generate/", b.handleGenerateRecs)
	app.Get("/cinememory/accounts/recommendations/", b.handleRecommendations)
}

func (b *Backend) handleUpdateProfile(c *fiber.Ctx) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	u := b.currentUser(c)
	if u == nil {
		return unauthorized(c)
	}

	var req struct {
		Username string `json:"username"`
		Birth    string `json:"birth"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "잘못된 요청입니다."})
	}
	if req.Username != "" && req.Username != u.Username {
		if _, exists := b.users[req.Username]; exists {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "이미 사용 중인 사용자명입니다."})
		}
		delete(b.users, u.Username)
		u.Username = req.Username
		b.users[u.Username] = u
	}
	if req.Birth != "" {
		u.Birth = req.Birth
	}
	return c.JSON(fiber.Map{"user": b.serializeUser(u)})
}

func (b *Backend) handleDeleteAccount(c *fiber.Ctx) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	u := b.currentUser(c)
	if u == nil {
		return unauthorized(c)
	}

	var req struct {
		Password        string `json:"password"`
		CurrentPassword string `json:"current_password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "잘못된 요청입니다."})
	}
	if req.Password != u.Password && req.CurrentPassword != u.Password {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "비밀번호가 일치하지 않습니다."})
	}
	delete(b.users, u.Username)
	return c.SendStatus(fiber.StatusNoContent)
}

func (b *Backend) handleMovieSearch(c *fiber.Ctx) error {
	query := c.Query("q")
	var results []fiber.Map
	for _, movie := range catalogueMovies {
		if query == "" || strings.Contains(movie["title"].(string), query) {
			results = append(results, movie)
		}
	}
	return c.JSON(fiber.Map{"results": results})
}

func (b *Backend) handleMovieDetail(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "잘못된 요청입니다."})
	}
	for _, movie := range catalogueMovies {
		if movie["id"] == id {
			return c.JSON(movie)
		}
	}
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "영화를 찾을 수 없습니다."})
}

func (b *Backend) handlePersonDetail(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "잘못된 요청입니다."})
	}
	for _, person := range cataloguePersons {
		if person["id"] == id {
			return c.JSON(person)
		}
	}
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "인물을 찾을 수 없습니다."})
}

func (b *Backend) handleFamousMovies(c *fiber.Ctx) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.currentUser(c) == nil {
		return unauthorized(c)
	}
	return c.JSON(fiber.Map{"movies": catalogueMovies})
}

func (b *Backend) handleHiddenMovies(c *fiber.Ctx) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.currentUser(c) == nil {
		return unauthorized(c)
	}
	return c.JSON(catalogueMovies)
}

func (b *Backend) handleRandomMovie(c *fiber.Ctx) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.currentUser(c) == nil {
		return unauthorized(c)
	}
	return c.JSON(fiber.Map{"movie": catalogueMovies[0]})
}

func (b *Backend) handleGenres(c *fiber.Ctx) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.currentUser(c) == nil {
		return unauthorized(c)
	}
	return c.JSON(catalogueGenres)
}

func (b *Backend) handleSaveFavorites(c *fiber.Ctx) error {
	return b.saveMoviePicks(c, func(u *user, ids []uint) { u.Favorites = ids })
}

func (b *Backend) handleSaveInteresting(c *fiber.Ctx) error {
	return b.saveMoviePicks(c, func(u *user, ids []uint) { u.Interesting = ids })
}

func (b *Backend) saveMoviePicks(c *fiber.Ctx, store func(*user, []uint)) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	u := b.currentUser(c)
	if u == nil {
		return unauthorized(c)
	}

	var req struct {
		MovieIDs []uint `json:"movie_ids"`
	}
	if err := c.BodyParser(&req); err != nil || len(req.MovieIDs) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "영화를 선택해주세요."})
	}
	store(u, req.MovieIDs)
	return c.JSON(fiber.Map{"message": "저장되었습니다."})
}

func (b *Backend) handleSaveGenres(c *fiber.Ctx) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	u := b.currentUser(c)
	if u == nil {
		return unauthorized(c)
	}

	var req struct {
		GenreIDs []uint `json:"genre_ids"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "잘못된 요청입니다."})
	}
	u.ExcludedGenres = req.GenreIDs
	return c.JSON(fiber.Map{"message": "저장되었습니다."})
}

func (b *Backend) handleSignup(c *fiber.Ctx) error {
	var req struct {
		Username  string `json:"username"`
		Password1 string `json:"password1"`
		Password2 string `json:"password2"`
		Birth     string `json:"birth"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "잘못된 요청입니다."})
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, exists := b.users[req.Username]; exists {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "이미 사용 중인 사용자명입니다."})
	}
	u := &user{
		ID:       b.id(),
		Username: req.Username,
		Password: req.Password1,
		Birth:    req.Birth,
	}
	u.Token = fmt.Sprintf("test-token-%d", u.ID)
	b.users[req.Username] = u

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token": u.Token,
		"user":  b.serializeUser(u),
	})
}

func (b *Backend) handleLogin(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "잘못된 요청입니다."})
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	u, ok := b.users[req.Username]
	if !ok || u.Password != req.Password {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "아이디 또는 비밀번호가 일치하지 않습니다.",
		})
	}
	return c.JSON(fiber.Map{
		"token": u.Token,
		"user":  b.serializeUser(u),
	})
}

func (b *Backend) handleLogout(c *fiber.Ctx) error {
	if b.FailLogout {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "서버 오류"})
	}
	return c.JSON(fiber.Map{"message": "로그아웃 되었습니다."})
}

func (b *Backend) handleMe(c *fiber.Ctx) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	u := b.currentUser(c)
	if u == nil {
		return unauthorized(c)
	}
	return c.JSON(b.serializeUser(u))
}

func (b *Backend) handleCheckUsername(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "잘못된 요청입니다."})
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	_, exists := b.users[req.Username]
	return c.JSON(fiber.Map{"available": !exists})
}

func (b *Backend) handleListPosts(c *fiber.Ctx) error {
	if b.PostsHTMLError {
		c.Set("Content-Type", "text/html")
		return c.Status(fiber.StatusInternalServerError).
			SendString("<!DOCTYPE html><html><body>Server Error</body></html>")
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	viewer := b.currentUser(c)
	posts := b.sortedPosts(c.Query("sort", "latest"))
	return b.paginate(c, posts, viewer)
}

func (b *Backend) handleTagPosts(c *fiber.Ctx) error {
	tag := c.Params("tag")
	b.mu.Lock()
	defer b.mu.Unlock()
	viewer := b.currentUser(c)

	var matched []*post
	for _, p := range b.sortedPosts("latest") {
		for _, t := range p.Tags {
			if t == tag {
				matched = append(matched, p)
				break
			}
		}
	}
	return b.paginate(c, matched, viewer)
}

func (b *Backend) sortedPosts(sortBy string) []*post {
	posts := make([]*post, 0, len(b.posts))
	for _, p := range b.posts {
		posts = append(posts, p)
	}
	if sortBy == "popular" {
		sort.Slice(posts, func(i, j int) bool { return len(posts[i].Likes) > len(posts[j].Likes) })
	} else {
		sort.Slice(posts, func(i, j int) bool { return posts[i].CreatedAt.After(posts[j].CreatedAt) })
	}
	return posts
}

func (b *Backend) paginate(c *fiber.Ctx, posts []*post, viewer *user) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("page_size", "10"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(posts) {
		start = len(posts)
	}
	if end > len(posts) {
		end = len(posts)
	}

	results := make([]fiber.Map, 0, end-start)
	for _, p := range posts[start:end] {
		results = append(results, b.serializePost(p, viewer))
	}

	var next, previous any
	if end < len(posts) {
		next = fmt.Sprintf("?page=%d", page+1)
	}
	if page > 1 {
		previous = fmt.Sprintf("?page=%d", page-1)
	}
	return c.JSON(fiber.Map{
		"count":    len(posts),
		"next":     next,
		"previous": previous,
		"results":  results,
	})
}

func (b *Backend) handleCreatePost(c *fiber.Ctx) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	u := b.currentUser(c)
	if u == nil {
		return unauthorized(c)
	}

	var req struct {
		Title   string   `json:"title"`
		Content string   `json:"content"`
		Tags    []string `json:"tags"`
	}
	if err := c.BodyParser(&req); err != nil || req.Title == "" || req.Content == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "제목과 내용을 입력해주세요."})
	}

	p := &post{
		ID:        b.id(),
		Title:     req.Title,
		Content:   req.Content,
		AuthorID:  u.ID,
		Tags:      req.Tags,
		Likes:     make(map[uint]bool),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	b.posts[p.ID] = p
	return c.Status(fiber.StatusCreated).JSON(b.serializePost(p, u))
}

func (b *Backend) handleGetPost(c *fiber.Ctx) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	p := b.postParam(c)
	if p == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "게시글을 찾을 수 없습니다."})
	}
	return c.JSON(b.serializePost(p, b.currentUser(c)))
}

func (b *Backend) handleUpdatePost(c *fiber.Ctx) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	u := b.currentUser(c)
	if u == nil {
		return unauthorized(c)
	}
	p := b.postParam(c)
	if p == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "게시글을 찾을 수 없습니다."})
	}
	if p.AuthorID != u.ID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "수정 권한이 없습니다."})
	}

	var req struct {
		Title   string   `json:"title"`
		Content string   `json:"content"`
		Tags    []string `json:"tags"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "잘못된 요청입니다."})
	}
	if req.Title != "" {
		p.Title = req.Title
	}
	if req.Content != "" {
		p.Content = req.Content
	}
	if req.Tags != nil {
		p.Tags = req.Tags
	}
	p.UpdatedAt = time.Now()
	return c.JSON(b.serializePost(p, u))
}

func (b *Backend) handleDeletePost(c *fiber.Ctx) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	u := b.currentUser(c)
	if u == nil {
		return unauthorized(c)
	}
	p := b.postParam(c)
	if p == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "게시글을 찾을 수 없습니다."})
	}
	delete(b.posts, p.ID)
	for id, cm := range b.comments {
		if cm.PostID == p.ID {
			delete(b.comments, id)
		}
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (b *Backend) handleToggleLike(c *fiber.Ctx) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	u := b.currentUser(c)
	if u == nil {
		return unauthorized(c)
	}
	p := b.postParam(c)
	if p == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "게시글을 찾을 수 없습니다."})
	}

	if p.Likes[u.ID] {
		delete(p.Likes, u.ID)
	} else {
		p.Likes[u.ID] = true
	}
	return c.JSON(fiber.Map{
		"like_count": len(p.Likes),
		"is_liked":   p.Likes[u.ID],
	})
}

func (b *Backend) handleListComments(c *fiber.Ctx) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	p := b.postParam(c)
	if p == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "게시글을 찾을 수 없습니다."})
	}

	var top []*comment
	for _, cm := range b.comments {
		if cm.PostID == p.ID && cm.ParentID == nil {
			top = append(top, cm)
		}
	}
	sort.Slice(top, func(i, j int) bool { return top[i].ID < top[j].ID })

	results := make([]fiber.Map, 0, len(top))
	for _, cm := range top {
		results = append(results, b.serializeComment(cm, true))
	}
	return c.JSON(results)
}

func (b *Backend) handleCreateComment(c *fiber.Ctx) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	u := b.currentUser(c)
	if u == nil {
		return unauthorized(c)
	}
	p := b.postParam(c)
	if p == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "게시글을 찾을 수 없습니다."})
	}

	var req struct {
		Content  string `json:"content"`
		ParentPK *uint  `json:"parent_pk"`
	}
	if err := c.BodyParser(&req); err != nil || req.Content == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "댓글 내용을 입력해주세요."})
	}

	cm := &comment{
		ID:        b.id(),
		PostID:    p.ID,
		AuthorID:  u.ID,
		Content:   req.Content,
		ParentID:  req.ParentPK,
		CreatedAt: time.Now(),
	}
	b.comments[cm.ID] = cm
	return c.Status(fiber.StatusCreated).JSON(b.serializeComment(cm, false))
}

func (b *Backend) handleDeleteComment(c *fiber.Ctx) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	u := b.currentUser(c)
	if u == nil {
		return unauthorized(c)
	}
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "잘못된 요청입니다."})
	}
	cm, ok := b.comments[uint(id)]
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "댓글을 찾을 수 없습니다."})
	}
	delete(b.comments, cm.ID)
	for rid, reply := range b.comments {
		if reply.ParentID != nil && *reply.ParentID == cm.ID {
			delete(b.comments, rid)
		}
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (b *Backend) handleListTags(c *fiber.Ctx) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	seen := map[string]bool{}
	var names []string
	for _, p := range b.posts {
		for _, t := range p.Tags {
			if !seen[t] {
				seen[t] = true
				names = append(names, t)
			}
		}
	}
	sort.Strings(names)

	results := make([]fiber.Map, 0, len(names))
	for i, name := range names {
		results = append(results, fiber.Map{"id": i + 1, "name": name})
	}
	return c.JSON(results)
}

func (b *Backend) handleOnboardingStatus(c *fiber.Ctx) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	u := b.currentUser(c)
	if u == nil {
		return unauthorized(c)
	}
	return c.JSON(fiber.Map{"completed": u.Onboarded, "current_step": 0})
}

func (b *Backend) handleGenerateRecs(c *fiber.Ctx) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	u := b.currentUser(c)
	if u == nil {
		return unauthorized(c)
	}
	u.Onboarded = true
	return c.JSON(b.recommendationSet())
}

func (b *Backend) handleRecommendations(c *fiber.Ctx) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.currentUser(c) == nil {
		return unauthorized(c)
	}
	return c.JSON(b.recommendationSet())
}

func (b *Backend) recommendationSet() fiber.Map {
	return fiber.Map{
		"taste_summary": "성장 서사와 잔잔한 드라마를 좋아하는 취향",
		"movies": []fiber.Map{
			{"movie_id": 496243, "title": "기생충", "reason": "데뷔", "target_age": 29, "release_year": 2019},
			{"movie_id": 0, "title": "벌새", "reason": "사춘기", "target_age": 14, "release_year": 2018},
			{"movie_id": 4538, "title": "괴물", "reason": "첫 영화관", "target_age": 7, "release_year": 2006},
		},
	}
}

func (b *Backend) postParam(c *fiber.Ctx) *post {
	id, err := c.ParamsInt("id")
	if err != nil {
		return nil
	}
	return b.posts[uint(id)]
}
