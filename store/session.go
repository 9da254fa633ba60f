package store

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"cinememory/api"
	"cinememory/credstore"
	"cinememory/models"
	"cinememory/validation"

	"github.com/golang-jwt/jwt/v5"
)

// Session is the auth state container: the token plus the cached user
// profile. Authenticated means both are present; Initialize enforces that a
// stale token without a restorable user is cleared rather than kept.
type Session struct {
	client *api.Client
	creds  *credstore.Store
	logger *slog.Logger

	mu    sync.RWMutex
	token string
	user  *models.UserProfile
}

// NewSession builds a session over the given API client and credential
// store, picking up any persisted token. Call Initialize to restore the user.
func NewSession(client *api.Client, creds *credstore.Store, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		client: client,
		creds:  creds,
		logger: logger,
		token:  creds.Token(),
	}
}

// IsAuthenticated reports whether both a token and a user are present.
func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != "" && s.user != nil
}

// User returns the cached profile of the signed-in user.
func (s *Session) User() (models.UserProfile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return models.UserProfile{}, false
	}
	return *s.user, true
}

// OnboardingCompleted reports whether the signed-in user finished onboarding.
func (s *Session) OnboardingCompleted() bool {
	user, ok := s.User()
	return ok && user.OnboardingCompleted
}

func (s *Session) commit(token string, user models.UserProfile) {
	s.mu.Lock()
	s.token = token
	s.user = &user
	s.mu.Unlock()

	if err := s.creds.SetToken(token); err != nil {
		s.logger.Error("persist token failed", slog.String("error", err.Error()))
	}
	if err := s.creds.SetUser(user); err != nil {
		s.logger.Error("persist user failed", slog.String("error", err.Error()))
	}
}

func (s *Session) clear() {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()

	if err := s.creds.Clear(); err != nil {
		s.logger.Error("clear credentials failed", slog.String("error", err.Error()))
	}
}

// Login signs in with the given credentials.
func (s *Session) Login(ctx context.Context, creds api.Credentials) Result {
	if creds.Username == "" || creds.Password == "" {
		return fail("아이디와 비밀번호를 입력해주세요.")
	}

	result, err := s.client.Login(ctx, creds)
	if err != nil {
		return fail(models.ErrorMessage(err, "로그인에 실패했습니다."))
	}
	if result.Token == "" {
		return fail("로그인에 실패했습니다.")
	}

	s.commit(result.Token, result.User)
	return succeed()
}

// Signup registers a new account and signs it in. Field validation runs
// before any network call.
func (s *Session) Signup(ctx context.Context, userData api.SignupData) Result {
	if err := validation.ValidateUsername(userData.Username); err != nil {
		return fail(err.Error())
	}
	if err := validation.ValidatePassword(userData.Password); err != nil {
		return fail(err.Error())
	}
	if err := validation.ValidateBirthDate(userData.Birth); err != nil {
		return fail(err.Error())
	}

	result, err := s.client.Signup(ctx, userData)
	if err != nil {
		return fail(models.ErrorMessage(err, "회원가입에 실패했습니다."))
	}
	if result.Token == "" {
		return fail("회원가입에 실패했습니다.")
	}

	s.commit(result.Token, result.User)
	return succeed()
}

// Logout notifies the server best-effort, then unconditionally clears local
// state. A failed server call is logged, never surfaced.
func (s *Session) Logout(ctx context.Context) Result {
	s.mu.RLock()
	hasToken := s.token != ""
	s.mu.RUnlock()

	if hasToken {
		if err := s.client.Logout(ctx); err != nil {
			s.logger.Warn("server logout failed", slog.String("error", err.Error()))
		}
	}
	s.clear()
	return succeed()
}

// Refresh re-fetches the user profile. A 401 means the token is dead and
// forces a logout.
func (s *Session) Refresh(ctx context.Context) Result {
	s.mu.RLock()
	token := s.token
	s.mu.RUnlock()
	if token == "" {
		return fail("인증이 필요합니다.")
	}

	user, err := s.client.CurrentUser(ctx)
	if err != nil {
		if apiErr, ok := err.(*models.APIError); ok && apiErr.Status == 401 {
			s.Logout(ctx)
		}
		return fail(models.ErrorMessage(err, "사용자 정보 조회에 실패했습니다."))
	}

	s.commit(token, user)
	return succeed()
}

// Initialize restores the session at startup. With no token it is a no-op.
// With a token it re-fetches the user; an unreachable server falls back to
// the persisted profile, and any other failure forces a logout so the
// "token present, user absent" state can never survive startup.
func (s *Session) Initialize(ctx context.Context) Result {
	s.mu.RLock()
	token := s.token
	s.mu.RUnlock()
	if token == "" {
		return succeed()
	}

	if tokenExpired(token) {
		s.logger.Info("stored token expired, clearing session")
		s.clear()
		return succeed()
	}

	user, err := s.client.CurrentUser(ctx)
	if err != nil {
		if apiErr, ok := err.(*models.APIError); ok && apiErr.IsNetwork() {
			if cached, found := s.creds.User(); found {
				s.mu.Lock()
				s.user = &cached
				s.mu.Unlock()
				return succeed()
			}
		}
		s.logger.Warn("session restore failed, logging out", slog.String("error", err.Error()))
		s.clear()
		return fail(models.ErrorMessage(err, "세션 복원에 실패했습니다."))
	}

	s.commit(token, user)
	return succeed()
}

// tokenExpired inspects a JWT's exp claim without verifying the signature;
// verification is the server's job, this only avoids a doomed restore call.
// Opaque (non-JWT) tokens from Token-scheme deployments are never treated as
// expired locally.
func tokenExpired(token string) bool {
	if strings.Count(token, ".") != 2 {
		return false
	}
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}
