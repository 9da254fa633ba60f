// Command cinememory is a terminal client for the CineMemory backend:
// sign in, browse the community, and print the personal movie timeline.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"cinememory/api"
	"cinememory/cache"
	"cinememory/config"
	"cinememory/credstore"
	"cinememory/dateutil"
	"cinememory/store"
	"cinememory/timeline"
	"cinememory/tmdb"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg := config.LoadConfig()

	creds, err := credstore.Open(cfg.CredentialsDB)
	if err != nil {
		log.Fatalf("Failed to open credential store: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	client := api.New(api.Config{
		BaseURL:    cfg.APIBaseURL,
		AuthScheme: cfg.AuthScheme,
		Tokens:     creds,
		Logger:     logger,
	})

	session := store.NewSession(client, creds, logger)
	community := store.NewCommunity(client, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if result := session.Initialize(ctx); !result.OK {
		fmt.Fprintf(os.Stderr, "세션 복원 실패: %s\n", result.Err)
	}

	switch os.Args[1] {
	case "login":
		runLogin(ctx, session)
	case "logout":
		session.Logout(ctx)
		fmt.Println("로그아웃 되었습니다.")
	case "posts":
		runPosts(ctx, community)
	case "timeline":
		runTimeline(ctx, cfg, client, logger)
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: cinememory <login|logout|posts|timeline> [flags]")
}

func runLogin(ctx context.Context, session *store.Session) {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	username := fs.String("u", "", "username")
	password := fs.String("p", "", "password")
	_ = fs.Parse(os.Args[2:])

	result := session.Login(ctx, api.Credentials{Username: *username, Password: *password})
	if !result.OK {
		fmt.Fprintln(os.Stderr, result.Err)
		os.Exit(1)
	}
	user, _ := session.User()
	fmt.Printf("환영합니다, %s님!\n", user.Username)
}

func runPosts(ctx context.Context, community *store.Community) {
	fs := flag.NewFlagSet("posts", flag.ExitOnError)
	page := fs.Int("page", 1, "page number")
	sortBy := fs.String("sort", store.SortLatest, "latest or popular")
	tag := fs.String("tag", "", "filter by tag")
	_ = fs.Parse(os.Args[2:])

	var result store.Result
	if *tag != "" {
		result = community.FilterByTag(ctx, *tag)
	} else {
		result = community.FetchList(ctx, *page, 10, *sortBy)
	}
	if !result.OK {
		fmt.Fprintln(os.Stderr, result.Err)
		os.Exit(1)
	}

	now := time.Now()
	for _, post := range community.Posts() {
		fmt.Printf("#%d %s — %s (%s) 좋아요 %d 댓글 %d\n",
			post.ID, post.Title, post.Author.Username,
			dateutil.FormatTimeAgo(post.CreatedAt, now),
			post.LikeCount, post.CommentCount)
	}
	fmt.Printf("전체 %d건, %d페이지\n", community.TotalCount(), community.Page())
}

func runTimeline(ctx context.Context, cfg *config.Config, client *api.Client, logger *slog.Logger) {
	movies := tmdb.New(tmdb.Config{
		BaseURL:      cfg.TMDBBaseURL,
		APIKey:       cfg.TMDBAPIKey,
		Language:     cfg.TMDBLanguage,
		ImageBaseURL: cfg.TMDBImageBaseURL,
		Cache:        cache.New(cfg.RedisURL),
		CacheTTL:     time.Duration(cfg.CacheTTLSeconds) * time.Second,
	})

	builder := timeline.NewBuilder(client, movies, logger)
	tl, err := builder.Build(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Println(tl.TasteSummary)
	for _, item := range tl.Items {
		fmt.Printf("%d살 (%d) %s — %s\n",
			item.Age, item.Year, item.Movie.Title, item.Movie.Reason)
	}
}
