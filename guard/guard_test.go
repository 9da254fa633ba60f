package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	authenticated bool
	onboarded     bool
}

func (s fakeSession) IsAuthenticated() bool     { return s.authenticated }
func (s fakeSession) OnboardingCompleted() bool { return s.onboarded }

func TestEvaluate(t *testing.T) {
	g, err := NewDefault()
	require.NoError(t, err)

	guest := fakeSession{}
	newUser := fakeSession{authenticated: true}
	member := fakeSession{authenticated: true, onboarded: true}

	tests := []struct {
		name     string
		session  fakeSession
		to       string
		allowed  bool
		redirect string
		returnTo string
	}{
		{"Guest on home", guest, RouteHome, true, "", ""},
		{"Guest on auth page", guest, RouteAuth, true, "", ""},
		{"Guest on profile redirects to auth preserving target", guest, RouteProfile, false, RouteAuth, RouteProfile},
		{"Guest on timeline redirects to auth", guest, RouteTimeline, false, RouteAuth, RouteTimeline},
		{"Member on auth page redirects home", member, RouteAuth, false, RouteHome, ""},
		{"Member on timeline", member, RouteTimeline, true, "", ""},
		{"Unonboarded user on timeline redirects to onboarding", newUser, RouteTimeline, false, RouteOnboarding, RouteTimeline},
		{"Unonboarded user on community", newUser, RouteCommunity, true, "", ""},
		{"Unknown route passes through", guest, "Nonexistent", true, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := g.Evaluate(tt.session, tt.to)
			assert.Equal(t, tt.allowed, decision.Allowed)
			assert.Equal(t, tt.redirect, decision.RedirectTo)
			assert.Equal(t, tt.returnTo, decision.ReturnTo)
		})
	}
}

// Every redirect target must itself be allowed for the session that was
// redirected there, otherwise transitions could loop forever.
func TestNoRedirectCycles(t *testing.T) {
	g, err := NewDefault()
	require.NoError(t, err)

	sessions := []fakeSession{
		{},
		{authenticated: true},
		{authenticated: true, onboarded: true},
	}

	for _, session := range sessions {
		for _, route := range DefaultRoutes() {
			decision := g.Evaluate(session, route.Name)
			if decision.Allowed {
				continue
			}
			followup := g.Evaluate(session, decision.RedirectTo)
			assert.True(t, followup.Allowed,
				"redirect from %s to %s must not redirect again", route.Name, decision.RedirectTo)
		}
	}
}

func TestPostLoginReturn(t *testing.T) {
	g, err := NewDefault()
	require.NoError(t, err)

	// unauthenticated navigation to the timeline is bounced to auth
	decision := g.Evaluate(fakeSession{}, RouteTimeline)
	require.False(t, decision.Allowed)
	require.Equal(t, RouteAuth, decision.RedirectTo)

	// after authenticating (and onboarding), the preserved target is reachable
	followup := g.Evaluate(fakeSession{authenticated: true, onboarded: true}, decision.ReturnTo)
	assert.True(t, followup.Allowed)
}

func TestNewRejectsLoopingTables(t *testing.T) {
	routes := []Route{
		{Name: "Home"},
		{Name: "Auth", Meta: Meta{RequiresAuth: true}},
		{Name: "Onboarding"},
	}
	_, err := New(routes, "Auth", "Home", "Onboarding")
	assert.Error(t, err)

	_, err = New(routes, "Missing", "Home", "Onboarding")
	assert.Error(t, err)
}
