// Package models contains data structures for the application's domain models.
package models

// Author identifies the writer of a post or comment. Always present on
// canonical posts and comments even when the backend only sent a bare pk.
type Author struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

// UserProfile is the cached identity of the signed-in user.
// Replaced wholesale on each fetch, never partially patched.
type UserProfile struct {
	ID                  uint   `json:"id"`
	Username            string `json:"username"`
	Birth               string `json:"birth"`
	OnboardingCompleted bool   `json:"onboarding_completed"`
}
