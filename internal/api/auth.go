package api

import (
	"context"
	"net/http"

	"github.com/taskloop/taskloop-go/internal/dispatch"
)

// User is the authenticated account profile.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
}

// session is the payload login, register and refresh respond with.
type session struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	User         *User  `json:"user"`
}

// RegisterRequest is the sign-up payload.
type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Login exchanges credentials for a token pair and stores it.
func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	return c.startSession(ctx, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
}

// Register creates an account; a successful response carries a token pair
// like login does.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	return c.startSession(ctx, "/auth/register", req)
}

func (c *Client) startSession(ctx context.Context, path string, body any) (*User, error) {
	var sess session
	err := c.call(ctx, dispatch.Descriptor{
		Method: http.MethodPost,
		Path:   path,
		Body:   body,
	}, &sess)
	if err != nil {
		return nil, err
	}

	if err := c.store.SetAccess(ctx, sess.AccessToken); err != nil {
		c.logger.Error().Err(err).Msg("Failed to persist access token after login")
	}
	if err := c.store.SetRefresh(ctx, sess.RefreshToken); err != nil {
		c.logger.Error().Err(err).Msg("Failed to persist refresh token after login")
	}
	return sess.User, nil
}

// Logout tells the server to revoke the session, then clears local
// tokens. The local clear happens even when the server call fails; a dead
// session on the backend must not keep the client signed in.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.dispatcher.Dispatch(ctx, dispatch.Descriptor{
		Method:       http.MethodPost,
		Path:         "/auth/logout",
		RequiresAuth: true,
	})
	if err != nil {
		c.logger.Warn().Err(err).Msg("Logout request failed, clearing local session anyway")
	}
	return c.store.Clear(ctx)
}

// ForgotPassword starts the password reset flow. Public endpoint.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	return c.call(ctx, dispatch.Descriptor{
		Method: http.MethodPost,
		Path:   "/auth/forgot-password",
		Body:   map[string]string{"email": email},
	}, nil)
}

// RefreshSession forces one coordinated token refresh, e.g. on app start.
func (c *Client) RefreshSession(ctx context.Context) error {
	_, err := c.dispatcher.ForceRefresh(ctx)
	return err
}
