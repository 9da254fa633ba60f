package store

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"cinememory/api"
	"cinememory/apitest"
	"cinememory/credstore"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func newTestCreds(t *testing.T) *credstore.Store {
	t.Helper()
	creds, err := credstore.Open(filepath.Join(t.TempDir(), "creds.db"))
	require.NoError(t, err)
	return creds
}

func newTestSession(t *testing.T, backend *apitest.Backend, creds *credstore.Store) *Session {
	t.Helper()
	client := api.New(api.Config{
		BaseURL: backend.BaseURL(),
		Tokens:  creds,
		Logger:  testLogger(),
	})
	return NewSession(client, creds, testLogger())
}

func TestLogin(t *testing.T) {
	backend := apitest.MustStart(t)
	backend.SeedUser("admin", "password", "1990-01-01")
	creds := newTestCreds(t)
	session := newTestSession(t, backend, creds)
	ctx := context.Background()

	t.Run("Empty credentials fail before any network call", func(t *testing.T) {
		result := session.Login(ctx, api.Credentials{Username: "admin"})
		assert.False(t, result.OK)
		assert.NotEmpty(t, result.Err)
	})

	t.Run("Wrong password surfaces the backend message", func(t *testing.T) {
		result := session.Login(ctx, api.Credentials{Username: "admin", Password: "nope"})
		assert.False(t, result.OK)
		assert.Equal(t, "아이디 또는 비밀번호가 일치하지 않습니다.", result.Err)
		assert.False(t, session.IsAuthenticated())
	})

	t.Run("Valid credentials authenticate and persist", func(t *testing.T) {
		result := session.Login(ctx, api.Credentials{Username: "admin", Password: "password"})
		require.True(t, result.OK, result.Err)
		assert.True(t, session.IsAuthenticated())

		user, ok := session.User()
		require.True(t, ok)
		assert.Equal(t, "admin", user.Username)
		assert.Equal(t, "1990-01-01", user.Birth)

		assert.NotEmpty(t, creds.Token())
		cached, found := creds.User()
		require.True(t, found)
		assert.Equal(t, "admin", cached.Username)
	})
}

func TestSignup(t *testing.T) {
	backend := apitest.MustStart(t)
	creds := newTestCreds(t)
	session := newTestSession(t, backend, creds)
	ctx := context.Background()

	tests := []struct {
		name   string
		data   api.SignupData
		wantOK bool
	}{
		{
			name:   "Valid signup",
			data:   api.SignupData{Username: "newbie", Password: "secret1", Birth: "2000-05-05"},
			wantOK: true,
		},
		{
			name:   "Short username rejected locally",
			data:   api.SignupData{Username: "ab", Password: "secret1", Birth: "2000-05-05"},
			wantOK: false,
		},
		{
			name:   "Short password rejected locally",
			data:   api.SignupData{Username: "newbie2", Password: "12345", Birth: "2000-05-05"},
			wantOK: false,
		},
		{
			name:   "Missing birth date rejected locally",
			data:   api.SignupData{Username: "newbie3", Password: "secret1"},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := session.Signup(ctx, tt.data)
			assert.Equal(t, tt.wantOK, result.OK, result.Err)
		})
	}

	assert.True(t, session.IsAuthenticated())
}

func TestLogoutClearsStateEvenWhenServerFails(t *testing.T) {
	backend := apitest.MustStart(t)
	backend.SeedUser("admin", "password", "1990-01-01")
	creds := newTestCreds(t)
	session := newTestSession(t, backend, creds)
	ctx := context.Background()

	require.True(t, session.Login(ctx, api.Credentials{Username: "admin", Password: "password"}).OK)
	backend.FailLogout = true

	result := session.Logout(ctx)
	assert.True(t, result.OK)
	assert.False(t, session.IsAuthenticated())
	assert.Empty(t, creds.Token())
	_, found := creds.User()
	assert.False(t, found)
}

func TestInitialize(t *testing.T) {
	t.Run("No token is a no-op", func(t *testing.T) {
		backend := apitest.MustStart(t)
		creds := newTestCreds(t)
		session := newTestSession(t, backend, creds)

		result := session.Initialize(context.Background())
		assert.True(t, result.OK)
		assert.False(t, session.IsAuthenticated())
	})

	t.Run("Valid token restores the user", func(t *testing.T) {
		backend := apitest.MustStart(t)
		token := backend.SeedUser("admin", "password", "1990-01-01")
		creds := newTestCreds(t)
		require.NoError(t, creds.SetToken(token))

		session := newTestSession(t, backend, creds)
		result := session.Initialize(context.Background())
		require.True(t, result.OK, result.Err)
		assert.True(t, session.IsAuthenticated())

		user, _ := session.User()
		assert.Equal(t, "admin", user.Username)
	})

	t.Run("Rejected token forces a logout", func(t *testing.T) {
		backend := apitest.MustStart(t)
		backend.SeedUser("admin", "password", "1990-01-01")
		creds := newTestCreds(t)
		require.NoError(t, creds.SetToken("stale-token"))

		session := newTestSession(t, backend, creds)
		result := session.Initialize(context.Background())
		assert.False(t, result.OK)
		assert.False(t, session.IsAuthenticated())
		assert.Empty(t, creds.Token(), "token present with user absent must not survive startup")
	})

	t.Run("Unreachable server falls back to the cached profile", func(t *testing.T) {
		backend := apitest.MustStart(t)
		backend.SeedUser("admin", "password", "1990-01-01")
		creds := newTestCreds(t)

		login := newTestSession(t, backend, creds)
		require.True(t, login.Login(context.Background(), api.Credentials{
			Username: "admin", Password: "password",
		}).OK)

		backend.Close()

		restarted := newTestSession(t, backend, creds)
		result := restarted.Initialize(context.Background())
		assert.True(t, result.OK)
		assert.True(t, restarted.IsAuthenticated())
	})

	t.Run("Expired JWT clears without a network call", func(t *testing.T) {
		backend := apitest.MustStart(t)
		backend.Close() // any request would fail loudly

		expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"exp": time.Now().Add(-time.Hour).Unix(),
		})
		signed, err := expired.SignedString([]byte("secret"))
		require.NoError(t, err)

		creds := newTestCreds(t)
		require.NoError(t, creds.SetToken(signed))

		session := newTestSession(t, backend, creds)
		result := session.Initialize(context.Background())
		assert.True(t, result.OK)
		assert.False(t, session.IsAuthenticated())
		assert.Empty(t, creds.Token())
	})
}

func TestRefresh(t *testing.T) {
	backend := apitest.MustStart(t)
	backend.SeedUser("admin", "password", "1990-01-01")
	creds := newTestCreds(t)
	session := newTestSession(t, backend, creds)
	ctx := context.Background()

	require.True(t, session.Login(ctx, api.Credentials{Username: "admin", Password: "password"}).OK)

	backend.SetOnboarded("admin", true)
	require.True(t, session.Refresh(ctx).OK)
	assert.True(t, session.OnboardingCompleted())
}
