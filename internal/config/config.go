// Package config loads client configuration from defaults, an optional
// YAML file, and TASKLOOP_* environment variables, in increasing
// precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/taskloop/taskloop-go/internal/tokenstore"
)

// Store backends selectable via configuration.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
)

type Config struct {
	BaseURL        string        `mapstructure:"base_url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	Store          StoreConfig   `mapstructure:"store"`
}

type StoreConfig struct {
	Backend   string `mapstructure:"backend"`
	TokenPath string `mapstructure:"token_path"`
	RedisAddr string `mapstructure:"redis_addr"`
	RedisDB   int    `mapstructure:"redis_db"`
}

// Load reads configuration. A missing config file is fine; defaults and
// environment variables still apply. The base URL is resolved here once
// and never per call.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("base_url", "https://api.taskloop.dev/api/v1")
	v.SetDefault("request_timeout", 60*time.Second)
	v.SetDefault("store.backend", StoreFile)
	v.SetDefault("store.token_path", tokenstore.DefaultTokenPath())
	v.SetDefault("store.redis_addr", "localhost:6379")
	v.SetDefault("store.redis_db", 0)

	v.SetEnvPrefix("TASKLOOP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$XDG_CONFIG_HOME/taskloop")
	v.AddConfigPath("$HOME/.config/taskloop")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url must not be empty")
	}
	switch c.Store.Backend {
	case StoreMemory, StoreFile, StoreRedis:
		return nil
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
}
