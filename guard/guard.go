// Package guard evaluates route transitions against the session: which
// destinations require a signed-in user, which are for guests only, and
// which are gated behind completed onboarding. Exactly one redirect can fire
// per transition, and the guard refuses at construction time any route table
// whose redirect targets could re-trigger a rule, so redirect cycles cannot
// occur at runtime.
package guard

import "fmt"

// Meta is the per-route metadata the guard reads.
type Meta struct {
	Title              string
	RequiresAuth       bool
	GuestOnly          bool
	RequiresOnboarding bool
}

// Route is one navigable destination.
type Route struct {
	Name string
	Path string
	Meta Meta
}

// Session is the slice of auth state the guard needs.
type Session interface {
	IsAuthenticated() bool
	OnboardingCompleted() bool
}

// Decision is the outcome of evaluating one transition. When Allowed is
// false, RedirectTo names the destination and ReturnTo preserves the
// original target for a post-login return.
type Decision struct {
	Allowed    bool
	RedirectTo string
	ReturnTo   string
}

// Guard holds the route table and the three redirect targets.
type Guard struct {
	routes     map[string]Route
	authRoute  string
	homeRoute  string
	onboarding string
}

// New builds a guard over the route table. It fails when a redirect target
// is missing or would immediately fail its own rule again.
func New(routes []Route, authRoute, homeRoute, onboardingRoute string) (*Guard, error) {
	table := make(map[string]Route, len(routes))
	for _, r := range routes {
		table[r.Name] = r
	}

	auth, ok := table[authRoute]
	if !ok {
		return nil, fmt.Errorf("auth route %q not in route table", authRoute)
	}
	if auth.Meta.RequiresAuth {
		return nil, fmt.Errorf("auth route %q requires auth, redirect would loop", authRoute)
	}

	home, ok := table[homeRoute]
	if !ok {
		return nil, fmt.Errorf("home route %q not in route table", homeRoute)
	}
	if home.Meta.GuestOnly || home.Meta.RequiresOnboarding {
		return nil, fmt.Errorf("home route %q is gated, redirect would loop", homeRoute)
	}

	onboarding, ok := table[onboardingRoute]
	if !ok {
		return nil, fmt.Errorf("onboarding route %q not in route table", onboardingRoute)
	}
	if onboarding.Meta.RequiresOnboarding || onboarding.Meta.GuestOnly {
		return nil, fmt.Errorf("onboarding route %q is gated, redirect would loop", onboardingRoute)
	}

	return &Guard{
		routes:     table,
		authRoute:  authRoute,
		homeRoute:  homeRoute,
		onboarding: onboardingRoute,
	}, nil
}

// Route looks up a route by name.
func (g *Guard) Route(name string) (Route, bool) {
	r, ok := g.routes[name]
	return r, ok
}

// Evaluate applies the rules in fixed order to a transition toward the named
// route; the first matching rule wins. Unknown routes are allowed through —
// resolving them is the router's problem, not the guard's.
func (g *Guard) Evaluate(session Session, toName string) Decision {
	to, ok := g.routes[toName]
	if !ok {
		return Decision{Allowed: true}
	}

	authenticated := session.IsAuthenticated()

	if to.Meta.RequiresAuth && !authenticated {
		return Decision{RedirectTo: g.authRoute, ReturnTo: to.Name}
	}
	if to.Meta.GuestOnly && authenticated {
		return Decision{RedirectTo: g.homeRoute}
	}
	if to.Meta.RequiresOnboarding && authenticated && !session.OnboardingCompleted() {
		return Decision{RedirectTo: g.onboarding, ReturnTo: to.Name}
	}
	return Decision{Allowed: true}
}
