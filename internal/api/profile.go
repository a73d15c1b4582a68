package api

import (
	"context"
	"net/http"

	"github.com/taskloop/taskloop-go/internal/dispatch"
)

// Me returns the authenticated user's profile.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var user User
	if err := c.get(ctx, "/users/me", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ProfileUpdate carries the editable profile fields. Empty fields are
// left untouched by the server.
type ProfileUpdate struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Bio       string `json:"bio,omitempty"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// UpdateProfile patches the authenticated user's profile.
func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (*User, error) {
	var user User
	err := c.call(ctx, dispatch.Descriptor{
		Method:       http.MethodPatch,
		Path:         "/users/me",
		Body:         update,
		RequiresAuth: true,
	}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
