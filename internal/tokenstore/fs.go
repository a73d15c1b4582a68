package tokenstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

type fsTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// FSStore persists the token pair as a JSON file on disk.
type FSStore struct {
	path   string
	logger zerolog.Logger
	mu     sync.Mutex
}

// NewFSStore creates a file-backed token store at the given path
func NewFSStore(path string, logger zerolog.Logger) *FSStore {
	return &FSStore{path: path, logger: logger}
}

func (f *FSStore) GetAccess(_ context.Context) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.read().AccessToken
}

func (f *FSStore) SetAccess(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	tokens := f.read()
	tokens.AccessToken = token
	return f.write(tokens)
}

func (f *FSStore) GetRefresh(_ context.Context) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.read().RefreshToken
}

func (f *FSStore) SetRefresh(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	tokens := f.read()
	tokens.RefreshToken = token
	return f.write(tokens)
}

// Clear removes the token file. Clearing an already-empty store is a no-op.
func (f *FSStore) Clear(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove token file: %w", err)
	}
	return nil
}

// read loads the current pair, degrading to empty tokens when the file is
// missing or unreadable.
func (f *FSStore) read() fsTokens {
	var tokens fsTokens
	b, err := os.ReadFile(f.path)
	if err != nil {
		if !os.IsNotExist(err) {
			f.logger.Warn().Err(err).Str("path", f.path).Msg("Failed to read token file, treating as unauthenticated")
		}
		return tokens
	}
	if err := json.Unmarshal(b, &tokens); err != nil {
		f.logger.Warn().Err(err).Str("path", f.path).Msg("Failed to parse token file, treating as unauthenticated")
		return fsTokens{}
	}
	return tokens
}

func (f *FSStore) write(tokens fsTokens) error {
	if err := EnsureParentDir(f.path); err != nil {
		return err
	}
	b, err := json.MarshalIndent(tokens, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal tokens: %w", err)
	}
	if err := os.WriteFile(f.path, b, 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}
