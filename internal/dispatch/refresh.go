package dispatch

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/taskloop/taskloop-go/internal/tokenstore"
)

// refreshKey is the singleflight key; one logical refresh exists per
// coordinator at a time.
const refreshKey = "token-refresh"

// RefreshFunc performs the actual refresh-token exchange and returns the
// new access/refresh pair.
type RefreshFunc func(ctx context.Context) (access, refresh string, err error)

// Coordinator guarantees that at most one refresh exchange is in flight.
// Callers that hit an expired token while a refresh is already running
// block on the same flight and receive the token it produces, so a burst
// of concurrent 401s costs exactly one call to the refresh endpoint.
//
// A refresh consumes the stored refresh token (the backend rotates it on
// use); a second concurrent exchange would invalidate the first one's new
// pair and force a spurious logout.
type Coordinator struct {
	store  tokenstore.Store
	logger zerolog.Logger
	group  singleflight.Group
}

// NewCoordinator creates a refresh coordinator writing through the given store
func NewCoordinator(store tokenstore.Store, logger zerolog.Logger) *Coordinator {
	return &Coordinator{store: store, logger: logger}
}

// Refresh runs fn under the single-flight guarantee. On success both new
// tokens are persisted and the access token is returned to every waiter;
// on failure the store is cleared and every waiter receives the same
// error. Waiters always use the returned token, never a re-read from the
// store, so a later writer cannot race them.
func (c *Coordinator) Refresh(ctx context.Context, fn RefreshFunc) (string, error) {
	token, err, shared := c.group.Do(refreshKey, func() (any, error) {
		access, refresh, err := fn(ctx)
		if err != nil {
			c.logger.Warn().Err(err).Msg("Token refresh failed, clearing stored credentials")
			if clearErr := c.store.Clear(ctx); clearErr != nil {
				c.logger.Error().Err(clearErr).Msg("Failed to clear token store after refresh failure")
			}
			return nil, err
		}

		// Persist best-effort: waiters get the in-memory token even if
		// the storage write fails, matching the read-degrade policy.
		if err := c.store.SetAccess(ctx, access); err != nil {
			c.logger.Error().Err(err).Msg("Failed to persist new access token")
		}
		if err := c.store.SetRefresh(ctx, refresh); err != nil {
			c.logger.Error().Err(err).Msg("Failed to persist new refresh token")
		}

		c.logger.Info().Msg("Token refresh succeeded")
		return access, nil
	})
	if err != nil {
		return "", err
	}
	if shared {
		c.logger.Debug().Msg("Joined in-flight token refresh")
	}
	return token.(string), nil
}
