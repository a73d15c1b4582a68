// Package app wires configuration, token storage, and the dispatcher into
// a ready-to-use API client.
package app

import (
	"net/http"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/taskloop/taskloop-go/internal/api"
	"github.com/taskloop/taskloop-go/internal/config"
	"github.com/taskloop/taskloop-go/internal/dispatch"
	"github.com/taskloop/taskloop-go/internal/tokenstore"
)

// NewClient builds the API client described by cfg.
func NewClient(cfg *config.Config, logger zerolog.Logger) (*api.Client, error) {
	store := NewStore(cfg, logger)

	httpClient := &http.Client{Timeout: cfg.RequestTimeout}
	dispatcher := dispatch.New(logger, cfg.BaseURL, store, httpClient)
	return api.NewClient(dispatcher, logger), nil
}

// NewStore builds the token store backend selected in cfg.
func NewStore(cfg *config.Config, logger zerolog.Logger) tokenstore.Store {
	switch cfg.Store.Backend {
	case config.StoreRedis:
		client := redis.NewClient(&redis.Options{
			Addr: cfg.Store.RedisAddr,
			DB:   cfg.Store.RedisDB,
		})
		logger.Info().Str("addr", cfg.Store.RedisAddr).Msg("Using redis token store")
		return tokenstore.NewRedisStore(client, "taskloop", logger)
	case config.StoreMemory:
		logger.Info().Msg("Using in-memory token store")
		return tokenstore.NewMemoryStore()
	default:
		path := cfg.Store.TokenPath
		if path == "" {
			path = tokenstore.DefaultTokenPath()
		}
		logger.Info().Str("path", path).Msg("Using file token store")
		return tokenstore.NewFSStore(path, logger)
	}
}
