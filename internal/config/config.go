// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() defaults and Load(ctx) for layered loading.
// - External errors must be wrapped via this package's error helpers.
package config

import "runtime"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// StatsBaseURL is the base URL of the upstream stats provider.
	StatsBaseURL string `koanf:"stats_base_url"`

	// RequestTimeoutMS bounds a single upstream request.
	RequestTimeoutMS int `koanf:"request_timeout_ms"`

	// RateLimitRPS throttles upstream requests per second.
	RateLimitRPS float64 `koanf:"rate_limit_rps"`

	// JobQueueSize bounds the in-memory estimation job queue.
	JobQueueSize int `koanf:"job_queue_size"`

	// WorkerCount sets the number of estimation workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize bounds the in-flight suppression set.
	DedupeSize int `koanf:"dedupe_size"`

	// DefaultSampleSize is the number of recent games sampled when a
	// submission does not specify one; MaxSampleSize caps requests.
	DefaultSampleSize int `koanf:"default_sample_size"`
	MaxSampleSize     int `koanf:"max_sample_size"`

	// ScoringMode selects the sequence scoring policy: flat or shot_value.
	ScoringMode string `koanf:"scoring_mode"`

	// MaxLeaderboardLimit caps GET /leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// CacheBackend selects the play-by-play cache: memory or redis.
	CacheBackend string `koanf:"cache_backend"`

	// RedisAddr is the redis endpoint used when cache_backend is redis.
	RedisAddr string `koanf:"redis_addr"`

	// CacheTTLMinutes bounds how long a fetched game log is reused.
	CacheTTLMinutes int `koanf:"cache_ttl_minutes"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		Addr:                ":9080",
		StatsBaseURL:        "https://stats.nba.com/stats",
		RequestTimeoutMS:    15_000,
		RateLimitRPS:        1,
		JobQueueSize:        1024,
		WorkerCount:         runtime.NumCPU(),
		DedupeSize:          4096,
		DefaultSampleSize:   15,
		MaxSampleSize:       82,
		ScoringMode:         "flat",
		MaxLeaderboardLimit: 100,
		CacheBackend:        "memory",
		RedisAddr:           "localhost:6379",
		CacheTTLMinutes:     360,
	}
}
