package api

import (
	"context"
	"errors"
	"net/http"
)

// userEnvelope wraps the {"user": ...} response shape.
type userEnvelope struct {
	User User `json:"user"`
}

// Login authenticates with username and password and returns the account.
// The session cookie is retained by the client's jar.
func (c *Client) Login(ctx context.Context, username, password string) (User, error) {
	in := struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}{Username: username, Password: password}

	var out userEnvelope
	if err := c.do(ctx, http.MethodPost, "/login", in, &out); err != nil {
		return User{}, err
	}
	return out.User, nil
}

// Register creates an account. Registration authenticates the new account,
// matching the backend's auto-login behavior.
func (c *Client) Register(ctx context.Context, input RegisterInput) (User, error) {
	var out userEnvelope
	if err := c.do(ctx, http.MethodPost, "/register", input, &out); err != nil {
		return User{}, err
	}
	return out.User, nil
}

// Logout ends the current session server-side.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/logout", nil, nil)
}

// CurrentUser returns the account bound to the session cookie.
// An unauthenticated session yields ErrUnauthenticated.
func (c *Client) CurrentUser(ctx context.Context) (User, error) {
	var out userEnvelope
	if err := c.do(ctx, http.MethodGet, "/me", nil, &out); err != nil {
		var apiErr *Error
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
			return User{}, ErrUnauthenticated
		}
		return User{}, err
	}
	return out.User, nil
}

// UpdateProfile replaces the mutable profile fields and returns the
// server-confirmed account record.
func (c *Client) UpdateProfile(ctx context.Context, patch ProfilePatch) (User, error) {
	var out userEnvelope
	if err := c.do(ctx, http.MethodPut, "/profile", patch, &out); err != nil {
		return User{}, err
	}
	return out.User, nil
}
