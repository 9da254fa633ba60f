// Package apitest runs an in-memory CineMemory backend over a real listener
// so SDK tests exercise the full request path. It speaks both the canonical
// payload shapes and, with LegacyShapes set, the older serializer output
// (bare user pks, tag objects) that the normalizers exist for.
package apitest

import (
	"fmt"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
)

type user struct {
	ID             uint
	Username       string
	Password       string
	Birth          string
	Token          string
	Onboarded      bool
	Favorites      []uint
	Interesting    []uint
	ExcludedGenres []uint
}

type post struct {
	ID        uint
	Title     string
	Content   string
	AuthorID  uint
	Tags      []string
	Likes     map[uint]bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type comment struct {
	ID        uint
	PostID    uint
	AuthorID  uint
	Content   string
	ParentID  *uint
	CreatedAt time.Time
}

// Backend is the fake server. Mutate the exported knobs before issuing the
// requests they affect.
type Backend struct {
	app *fiber.App
	ln  net.Listener

	// LegacyShapes serves old-generation payloads: posts with a bare
	// user_pk and {name} tag objects instead of embedded authors and
	// string tags.
	LegacyShapes bool
	// FailLogout makes the logout endpoint return 500.
	FailLogout bool
	// PostsHTMLError makes the post listing return an HTML error page.
	PostsHTMLError bool

	mu       sync.Mutex
	users    map[string]*user // by username
	posts    map[uint]*post
	comments map[uint]*comment
	nextID   uint
}

// Start boots the fake backend on a random local port.
func Start() (*Backend, error) {
	b := &Backend{
		users:    make(map[string]*user),
		posts:    make(map[uint]*post),
		comments: make(map[uint]*comment),
	}

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	b.routes(app)
	b.app = app

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, err
	}
	b.ln = ln
	go func() { _ = app.Listener(ln) }()
	return b, nil
}

// MustStart boots the backend and registers shutdown with the test.
func MustStart(t *testing.T) *Backend {
	t.Helper()
	b, err := Start()
	if err != nil {
		t.Fatalf("start fake backend: %v", err)
	}
	t.Cleanup(b.Close)
	return b
}

// BaseURL is the backend's address, usable as the SDK's API base URL.
func (b *Backend) BaseURL() string {
	return "http://" + b.ln.Addr().String()
}

// Close shuts the backend down.
func (b *Backend) Close() {
	_ = b.app.Shutdown()
}

func (b *Backend) id() uint {
	b.nextID++
	return b.nextID
}

// SeedUser registers a user directly and returns its token.
func (b *Backend) SeedUser(username, password, birth string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	u := &user{
		ID:       b.id(),
		Username: username,
		Password: password,
		Birth:    birth,
	}
	u.Token = fmt.Sprintf("test-token-%d", u.ID)
	b.users[username] = u
	return u.Token
}

// SeedPost inserts a post owned by the named user and returns its id.
func (b *Backend) SeedPost(username, title, content string, tags ...string) uint {
	b.mu.Lock()
	defer b.mu.Unlock()
	author := b.users[username]
	p := &post{
		ID:        b.id(),
		Title:     title,
		Content:   content,
		AuthorID:  author.ID,
		Tags:      tags,
		Likes:     make(map[uint]bool),
		CreatedAt: time.Now().Add(-time.Hour),
		UpdatedAt: time.Now().Add(-time.Hour),
	}
	b.posts[p.ID] = p
	return p.ID
}

// SetOnboarded flips a seeded user's onboarding flag.
func (b *Backend) SetOnboarded(username string, done bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if u, ok := b.users[username]; ok {
		u.Onboarded = done
	}
}

// currentUser resolves the Authorization header ("Bearer x" or "Token x").
func (b *Backend) currentUser(c *fiber.Ctx) *user {
	header := c.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 {
		return nil
	}
	for _, u := range b.users {
		if u.Token == parts[1] {
			return u
		}
	}
	return nil
}

func (b *Backend) userByID(id uint) *user {
	for _, u := range b.users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"message": "인증이 필요합니다.",
	})
}
