package guard

// Route names.
const (
	RouteHome         = "Home"
	RouteAuth         = "Auth"
	RouteCommunity    = "Community"
	RoutePostDetail   = "PostDetail"
	RouteTimeline     = "Timeline"
	RouteOnboarding   = "Onboarding"
	RouteProfile      = "MyProfile"
	RouteSearch       = "SearchResult"
	RouteMovieDetail  = "MovieDetail"
	RoutePersonDetail = "PersonDetail"
)

// DefaultRoutes is the application's route table. The timeline is the one
// destination gated on completed onboarding.
func DefaultRoutes() []Route {
	return []Route{
		{Name: RouteHome, Path: "/", Meta: Meta{Title: "씨네메모리 - 당신의 인생을 영화로"}},
		{Name: RouteAuth, Path: "/auth", Meta: Meta{Title: "로그인 | 씨네메모리", GuestOnly: true}},
		{Name: RouteCommunity, Path: "/community", Meta: Meta{Title: "커뮤니티 | 씨네메모리"}},
		{Name: RoutePostDetail, Path: "/community/:id", Meta: Meta{Title: "게시글 | 씨네메모리"}},
		{Name: RouteTimeline, Path: "/timeline", Meta: Meta{
			Title:              "나의 시네마틱 여정 | 씨네메모리",
			RequiresAuth:       true,
			RequiresOnboarding: true,
		}},
		{Name: RouteOnboarding, Path: "/onboarding", Meta: Meta{
			Title:        "온보딩 | 씨네메모리",
			RequiresAuth: true,
		}},
		{Name: RouteProfile, Path: "/profile", Meta: Meta{
			Title:        "내 프로필 | 씨네메모리",
			RequiresAuth: true,
		}},
		{Name: RouteSearch, Path: "/search", Meta: Meta{Title: "검색 결과 | 씨네메모리"}},
		{Name: RouteMovieDetail, Path: "/movie/:id", Meta: Meta{Title: "영화 상세 | 씨네메모리"}},
		{Name: RoutePersonDetail, Path: "/person/:id", Meta: Meta{Title: "인물 상세 | 씨네메모리"}},
	}
}

// NewDefault builds a guard over DefaultRoutes with the standard redirect
// targets.
func NewDefault() (*Guard, error) {
	return New(DefaultRoutes(), RouteAuth, RouteHome, RouteOnboarding)
}
