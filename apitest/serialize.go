package apitest

import (
	"sort"
	"time"

	"github.com/gofiber/fiber/v2"
)

func (b *Backend) serializeUser(u *user) fiber.Map {
	if b.LegacyShapes {
		return fiber.Map{
			"user_pk":  u.ID,
			"username": u.Username,
			"birth":    u.Birth,
		}
	}
	return fiber.Map{
		"id":                   u.ID,
		"username":             u.Username,
		"birth":                u.Birth,
		"onboarding_completed": u.Onboarded,
	}
}

func (b *Backend) serializePost(p *post, viewer *user) fiber.Map {
	commentCount := 0
	for _, cm := range b.comments {
		if cm.PostID == p.ID {
			commentCount++
		}
	}
	liked := viewer != nil && p.Likes[viewer.ID]

	if b.LegacyShapes {
		tags := make([]fiber.Map, 0, len(p.Tags))
		for _, t := range p.Tags {
			tags = append(tags, fiber.Map{"name": t})
		}
		return fiber.Map{
			"post_pk":       p.ID,
			"post_title":    p.Title,
			"post_content":  p.Content,
			"user_pk":       p.AuthorID,
			"likes_count":   len(p.Likes),
			"comment_count": commentCount,
			"is_liked":      liked,
			"tags":          tags,
			"created_at":    p.CreatedAt.Format(time.RFC3339),
			"updated_at":    p.UpdatedAt.Format(time.RFC3339),
		}
	}

	author := b.userByID(p.AuthorID)
	authorMap := fiber.Map{"id": p.AuthorID, "username": ""}
	if author != nil {
		authorMap["username"] = author.Username
	}
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return fiber.Map{
		"id":            p.ID,
		"title":         p.Title,
		"content":       p.Content,
		"author":        authorMap,
		"like_count":    len(p.Likes),
		"comment_count": commentCount,
		"is_liked":      liked,
		"tags":          tags,
		"created_at":    p.CreatedAt.Format(time.RFC3339),
		"updated_at":    p.UpdatedAt.Format(time.RFC3339),
	}
}

// Fixed movie and person catalogue behind the lookup and onboarding routes.
var (
	catalogueMovies = []fiber.Map{
		{"id": 496243, "title": "기생충", "overview": "반지하 가족 이야기", "release_date": "2019-05-30", "poster_path": "/parasite.jpg", "vote_average": 8.5},
		{"id": 4538, "title": "괴물", "overview": "한강에 나타난 괴물", "release_date": "2006-07-27", "poster_path": "/host.jpg", "vote_average": 7.0},
		{"id": 581528, "title": "벌새", "overview": "1994년의 소녀", "release_date": "2018-10-03", "poster_path": "/hummingbird.jpg", "vote_average": 7.9},
	}
	cataloguePersons = []fiber.Map{
		{"id": 21684, "name": "봉준호", "birthday": "1969-09-14", "profile_path": "/bong.jpg", "known_for_department": "Directing"},
	}
	catalogueGenres = []fiber.Map{
		{"id": 27, "name": "공포"},
		{"id": 18, "name": "드라마"},
		{"id": 35, "name": "코미디"},
	}
)

func (b *Backend) serializeComment(cm *comment, withReplies bool) fiber.Map {
	author := b.userByID(cm.AuthorID)
	authorMap := fiber.Map{"id": cm.AuthorID, "username": ""}
	if author != nil {
		authorMap["username"] = author.Username
	}

	out := fiber.Map{
		"id":         cm.ID,
		"content":    cm.Content,
		"author":     authorMap,
		"created_at": cm.CreatedAt.Format(time.RFC3339),
		"updated_at": cm.CreatedAt.Format(time.RFC3339),
		"replies":    []fiber.Map{},
	}
	if cm.ParentID != nil {
		out["parent_id"] = *cm.ParentID
	}

	if withReplies {
		var replies []*comment
		for _, reply := range b.comments {
			if reply.ParentID != nil && *reply.ParentID == cm.ID {
				replies = append(replies, reply)
			}
		}
		sort.Slice(replies, func(i, j int) bool { return replies[i].ID < replies[j].ID })
		serialized := make([]fiber.Map, 0, len(replies))
		for _, reply := range replies {
			serialized = append(serialized, b.serializeComment(reply, false))
		}
		out["replies"] = serialized
	}
	return out
}
