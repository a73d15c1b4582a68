package tokenstore

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func newTestRedisStore(t *testing.T) (*miniredis.Miniredis, *RedisStore) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return mr, NewRedisStore(client, "taskloop", zerolog.Nop())
}

func TestRedisStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	mr, store := newTestRedisStore(t)

	if got := store.GetAccess(ctx); got != "" {
		t.Fatalf("expected empty access token, got %q", got)
	}

	if err := store.SetAccess(ctx, "access-1"); err != nil {
		t.Fatalf("SetAccess failed: %v", err)
	}
	if err := store.SetRefresh(ctx, "refresh-1"); err != nil {
		t.Fatalf("SetRefresh failed: %v", err)
	}

	if got := store.GetAccess(ctx); got != "access-1" {
		t.Errorf("GetAccess = %q, want %q", got, "access-1")
	}
	if got := store.GetRefresh(ctx); got != "refresh-1" {
		t.Errorf("GetRefresh = %q, want %q", got, "refresh-1")
	}

	if _, err := mr.Get("taskloop:access_token"); err != nil {
		t.Errorf("expected prefixed access key in redis: %v", err)
	}
}

func TestRedisStoreClearIsIdempotent(t *testing.T) {
	ctx := context.Background()
	_, store := newTestRedisStore(t)

	if err := store.SetAccess(ctx, "access-1"); err != nil {
		t.Fatalf("SetAccess failed: %v", err)
	}
	if err := store.SetRefresh(ctx, "refresh-1"); err != nil {
		t.Fatalf("SetRefresh failed: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := store.Clear(ctx); err != nil {
			t.Fatalf("Clear #%d failed: %v", i+1, err)
		}
		if store.GetAccess(ctx) != "" || store.GetRefresh(ctx) != "" {
			t.Errorf("tokens survived Clear #%d", i+1)
		}
	}
}

func TestRedisStoreUnavailableDegradesToEmpty(t *testing.T) {
	ctx := context.Background()
	mr, store := newTestRedisStore(t)

	if err := store.SetAccess(ctx, "access-1"); err != nil {
		t.Fatalf("SetAccess failed: %v", err)
	}

	mr.Close()

	if got := store.GetAccess(ctx); got != "" {
		t.Errorf("GetAccess with redis down = %q, want empty", got)
	}
	if got := store.GetRefresh(ctx); got != "" {
		t.Errorf("GetRefresh with redis down = %q, want empty", got)
	}
}
