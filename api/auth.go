package api

import (
	"context"

	"cinememory/models"
	"cinememory/normalize"
)

// Credentials is a login request.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SignupData is a signup request. The backend serializer expects the
// password twice; PasswordConfirm falls back to Password when empty.
type SignupData struct {
	Username        string
	Password        string
	PasswordConfirm string
	Birth           string
}

// AuthResult is a successful login or signup: the issued token plus the
// user's profile.
type AuthResult struct {
	Token string
	User  models.UserProfile
}

// Login exchanges credentials for a token and profile.
func (c *Client) Login(ctx context.Context, creds Credentials) (AuthResult, error) {
	data, err := c.post(ctx, c.endpoints.Login, creds)
	if err != nil {
		return AuthResult{}, err
	}
	return authResult(data), nil
}

// Signup registers a new account and signs it in.
func (c *Client) Signup(ctx context.Context, userData SignupData) (AuthResult, error) {
	confirm := userData.PasswordConfirm
	if confirm == "" {
		confirm = userData.Password
	}
	body := map[string]string{
		"username":  userData.Username,
		"password1": userData.Password,
		"password2": confirm,
		"birth":     userData.Birth,
	}
	data, err := c.post(ctx, c.endpoints.Signup, body)
	if err != nil {
		return AuthResult{}, err
	}
	return authResult(data), nil
}

func authResult(data any) AuthResult {
	obj := asObject(data)
	result := AuthResult{}
	if token, ok := obj["token"].(string); ok {
		result.Token = token
	} else if token, ok := obj["key"].(string); ok {
		result.Token = token
	}
	if user, ok := obj["user"].(map[string]any); ok {
		result.User = normalize.Profile(user)
	} else {
		result.User = normalize.Profile(obj)
	}
	return result
}

// Logout notifies the backend that the token should be invalidated.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.post(ctx, c.endpoints.Logout, nil)
	return err
}

// CurrentUser fetches the signed-in user's profile.
func (c *Client) CurrentUser(ctx context.Context) (models.UserProfile, error) {
	data, err := c.get(ctx, c.endpoints.CurrentUser)
	if err != nil {
		return models.UserProfile{}, err
	}
	return normalize.Profile(asObject(data)), nil
}

// CheckUsername reports whether a username is still available.
func (c *Client) CheckUsername(ctx context.Context, username string) (bool, error) {
	data, err := c.post(ctx, c.endpoints.CheckUsername, map[string]string{"username": username})
	if err != nil {
		return false, err
	}
	obj := asObject(data)
	if available, ok := obj["available"].(bool); ok {
		return available, nil
	}
	if exists, ok := obj["exists"].(bool); ok {
		return !exists, nil
	}
	return true, nil
}

// UpdateProfile updates the signed-in user's profile fields and returns the
// refreshed profile.
func (c *Client) UpdateProfile(ctx context.Context, fields map[string]any) (models.UserProfile, error) {
	data, err := c.put(ctx, c.endpoints.UpdateProfile, fields)
	if err != nil {
		return models.UserProfile{}, err
	}
	obj := asObject(data)
	if user, ok := obj["user"].(map[string]any); ok {
		return normalize.Profile(user), nil
	}
	return normalize.Profile(obj), nil
}

// DeleteAccount removes the signed-in user's account. The password is sent
// under every field name the backend has ever read it from.
func (c *Client) DeleteAccount(ctx context.Context, password string) error {
	body := map[string]string{
		"password":         password,
		"current_password": password,
	}
	_, err := c.delete(ctx, c.endpoints.DeleteAccount, body)
	return err
}
