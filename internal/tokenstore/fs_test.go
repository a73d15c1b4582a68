package tokenstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func TestFSStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "tokens.json")
	store := NewFSStore(path, zerolog.Nop())

	if got := store.GetAccess(ctx); got != "" {
		t.Fatalf("expected empty access token before first write, got %q", got)
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

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("failed to stat token file: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("token file permissions = %v, want 0600", perm)
	}
}

func TestFSStoreClearIsIdempotent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "tokens.json")
	store := NewFSStore(path, zerolog.Nop())

	if err := store.SetAccess(ctx, "access-1"); err != nil {
		t.Fatalf("SetAccess failed: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := store.Clear(ctx); err != nil {
			t.Fatalf("Clear #%d failed: %v", i+1, err)
		}
		if got := store.GetAccess(ctx); got != "" {
			t.Errorf("GetAccess after Clear #%d = %q, want empty", i+1, got)
		}
		if got := store.GetRefresh(ctx); got != "" {
			t.Errorf("GetRefresh after Clear #%d = %q, want empty", i+1, got)
		}
	}
}

func TestFSStoreCorruptFileDegradesToEmpty(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "tokens.json")
	if err := os.WriteFile(path, []byte("not json"), 0600); err != nil {
		t.Fatalf("failed to seed corrupt file: %v", err)
	}

	store := NewFSStore(path, zerolog.Nop())
	if got := store.GetAccess(ctx); got != "" {
		t.Errorf("GetAccess on corrupt file = %q, want empty", got)
	}
	if got := store.GetRefresh(ctx); got != "" {
		t.Errorf("GetRefresh on corrupt file = %q, want empty", got)
	}
}

func TestMemoryStoreClearIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if err := store.SetAccess(ctx, "a"); err != nil {
		t.Fatalf("SetAccess failed: %v", err)
	}
	if err := store.SetRefresh(ctx, "r"); err != nil {
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
