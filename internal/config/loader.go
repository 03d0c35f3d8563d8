package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if KOBE_CONFIG is set
//  3. env (prefix KOBE_)
func Load(ctx context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("KOBE_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	// Environment variables: KOBE_ADDR, KOBE_WORKER_COUNT, ...
	// Keys map to the koanf tags on the struct, underscores preserved.
	envProvider := env.Provider("KOBE_", ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), "kobe_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.StatsBaseURL == "":
		return fmt.Errorf("%w: stats_base_url must not be empty", ErrInvalidConfig)
	case c.DefaultSampleSize < 1 || c.DefaultSampleSize > c.MaxSampleSize:
		return fmt.Errorf("%w: default_sample_size must be in [1, max_sample_size]", ErrInvalidConfig)
	case c.CacheBackend != "memory" && c.CacheBackend != "redis":
		return fmt.Errorf("%w: cache_backend must be memory or redis", ErrInvalidConfig)
	}
	return nil
}
