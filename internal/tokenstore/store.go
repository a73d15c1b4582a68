// Package tokenstore persists the access/refresh token pair in a
// client-side key-value medium. Tokens are opaque bearer credentials and
// are never inspected here.
package tokenstore

import "context"

// Storage keys shared by all backends.
const (
	AccessTokenKey  = "access_token"
	RefreshTokenKey = "refresh_token"
)

// Store holds the current token pair. Reads return "" when no token is
// stored or when the underlying medium fails; a broken medium degrades to
// "unauthenticated" instead of failing the caller. Clear is idempotent.
type Store interface {
	GetAccess(ctx context.Context) string
	SetAccess(ctx context.Context, token string) error
	GetRefresh(ctx context.Context) string
	SetRefresh(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}
