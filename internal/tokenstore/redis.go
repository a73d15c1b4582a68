package tokenstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RedisStore persists the token pair in Redis under prefixed keys.
type RedisStore struct {
	client *redis.Client
	prefix string
	logger zerolog.Logger
}

// NewRedisStore creates a Redis-backed token store. The prefix namespaces
// the two token keys, e.g. "taskloop:access_token".
func NewRedisStore(client *redis.Client, prefix string, logger zerolog.Logger) *RedisStore {
	return &RedisStore{client: client, prefix: prefix, logger: logger}
}

func (r *RedisStore) GetAccess(ctx context.Context) string {
	return r.get(ctx, AccessTokenKey)
}

func (r *RedisStore) SetAccess(ctx context.Context, token string) error {
	return r.set(ctx, AccessTokenKey, token)
}

func (r *RedisStore) GetRefresh(ctx context.Context) string {
	return r.get(ctx, RefreshTokenKey)
}

func (r *RedisStore) SetRefresh(ctx context.Context, token string) error {
	return r.set(ctx, RefreshTokenKey, token)
}

// Clear deletes both token keys. DEL on absent keys is a no-op, so a
// second Clear succeeds as well.
func (r *RedisStore) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key(AccessTokenKey), r.key(RefreshTokenKey)).Err(); err != nil {
		return fmt.Errorf("failed to clear tokens: %w", err)
	}
	return nil
}

func (r *RedisStore) key(name string) string {
	if r.prefix == "" {
		return name
	}
	return r.prefix + ":" + name
}

func (r *RedisStore) get(ctx context.Context, name string) string {
	val, err := r.client.Get(ctx, r.key(name)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Warn().Err(err).Str("key", r.key(name)).Msg("Failed to read token from redis, treating as unauthenticated")
		}
		return ""
	}
	return val
}

func (r *RedisStore) set(ctx context.Context, name, token string) error {
	if err := r.client.Set(ctx, r.key(name), token, 0).Err(); err != nil {
		return fmt.Errorf("failed to store %s: %w", name, err)
	}
	return nil
}
