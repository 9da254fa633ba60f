package api

import "fmt"

// Endpoints is the backend path set. The Django API has renamed routes
// between releases (auth lived at /auth/... before moving under
// /cinememory/accounts/...), so paths are configuration rather than
// constants. Paths with an id carry one %d verb.
type Endpoints struct {
	Login         string
	Signup        string
	Logout        string
	CurrentUser   string
	CheckUsername string
	UpdateProfile string
	DeleteAccount string

	Posts        string
	Post         string
	PostLike     string
	PostComments string
	Comment      string
	Tags         string
	TagPosts     string

	MovieSearch  string
	MovieDetail  string
	PersonDetail string

	OnboardingStatus   string
	FamousMovies       string
	HiddenMovies       string
	RandomMovie        string
	SaveFavorites      string
	SaveInteresting    string
	Genres             string
	SaveExcludedGenres string
	GenerateRecs       string
	Recommendations    string
	RegenerateRecs     string
}

// DefaultEndpoints returns the current backend path set.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		Login:         "/cinememory/accounts/login/",
		Signup:        "/cinememory/accounts/signup/",
		Logout:        "/cinememory/accounts/logout/",
		CurrentUser:   "/cinememory/accounts/me/",
		CheckUsername: "/cinememory/accounts/check-username/",
		UpdateProfile: "/cinememory/accounts/me/update/",
		DeleteAccount: "/cinememory/accounts/me/delete/",

		Posts:        "/cinememory/community/posts/",
		Post:         "/cinememory/community/posts/%d/",
		PostLike:     "/cinememory/community/posts/%d/like/",
		PostComments: "/cinememory/community/posts/%d/comments/",
		Comment:      "/cinememory/community/comments/%d/",
		Tags:         "/cinememory/community/tags/",
		TagPosts:     "/cinememory/community/tags/%s/posts/",

		MovieSearch:  "/movies/search/",
		MovieDetail:  "/movies/%d/",
		PersonDetail: "/persons/%d/",

		OnboardingStatus:   "/cinememory/accounts/onboarding/status/",
		FamousMovies:       "/cinememory/accounts/onboarding/movies/famous/",
		HiddenMovies:       "/cinememory/accounts/onboarding/movies/hidden/",
		RandomMovie:        "/cinememory/accounts/onboarding/movies/random/",
		SaveFavorites:      "/cinememory/accounts/onboarding/step1/save/",
		SaveInteresting:    "/cinememory/accounts/onboarding/step2/save/",
		Genres:             "/cinememory/accounts/onboarding/genres/",
		SaveExcludedGenres: "/cinememory/accounts/onboarding/step3/save/",
		GenerateRecs:       "/cinememory/accounts/onboarding/step4/generate/",
		Recommendations:    "/cinememory/accounts/recommendations/",
		RegenerateRecs:     "/cinememory/accounts/recommendations/regenerate/",
	}
}

func (e Endpoints) postPath(id uint) string         { return fmt.Sprintf(e.Post, id) }
func (e Endpoints) postLikePath(id uint) string     { return fmt.Sprintf(e.PostLike, id) }
func (e Endpoints) postCommentsPath(id uint) string { return fmt.Sprintf(e.PostComments, id) }
func (e Endpoints) commentPath(id uint) string      { return fmt.Sprintf(e.Comment, id) }
func (e Endpoints) movieDetailPath(id uint) string  { return fmt.Sprintf(e.MovieDetail, id) }
func (e Endpoints) personDetailPath(id uint) string { return fmt.Sprintf(e.PersonDetail, id) }
