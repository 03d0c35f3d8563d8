package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/Yhoqw/Kobe-Assist-Estimator-2025/internal/domain/pbp"
	"github.com/Yhoqw/Kobe-Assist-Estimator-2025/pkg/logger"
	"github.com/Yhoqw/Kobe-Assist-Estimator-2025/pkg/metrics"
)

const (
	redisKeyPrefix      = "pbp:"
	redisConnectTimeout = 5 * time.Second
)

// RedisCache is a Cache backed by redis, for deployments where several
// instances share one upstream quota. Backend faults degrade to misses.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	log    logger.Logger
}

// NewRedisCache connects to redis at addr and verifies the connection.
func NewRedisCache(addr string, ttl time.Duration) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisConnectTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis at %s: %w", addr, err)
	}

	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &RedisCache{
		client: client,
		ttl:    ttl,
		log:    logger.Named("redis-cache"),
	}, nil
}

// Get returns the cached log for gameID if present.
func (c *RedisCache) Get(ctx context.Context, gameID string) ([]pbp.Event, bool) {
	raw, err := c.client.Get(ctx, redisKeyPrefix+gameID).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn(ctx, "redis get failed", logger.String("gameID", gameID), logger.Error(err))
		}
		metrics.RecordCacheMiss()
		return nil, false
	}

	var events []pbp.Event
	if err := json.Unmarshal(raw, &events); err != nil {
		c.log.Warn(ctx, "cached log undecodable, dropping", logger.String("gameID", gameID), logger.Error(err))
		c.client.Del(ctx, redisKeyPrefix+gameID)
		metrics.RecordCacheMiss()
		return nil, false
	}
	metrics.RecordCacheHit()
	return events, true
}

// Set stores the log for gameID with the configured TTL.
func (c *RedisCache) Set(ctx context.Context, gameID string, events []pbp.Event) {
	raw, err := json.Marshal(events)
	if err != nil {
		c.log.Warn(ctx, "encode log for cache failed", logger.String("gameID", gameID), logger.Error(err))
		return
	}
	if err := c.client.Set(ctx, redisKeyPrefix+gameID, raw, c.ttl).Err(); err != nil {
		c.log.Warn(ctx, "redis set failed", logger.String("gameID", gameID), logger.Error(err))
	}
}

// Close releases the redis connection.
func (c *RedisCache) Close() error {
	if err := c.client.Close(); err != nil {
		return fmt.Errorf("close redis client: %w", err)
	}
	return nil
}
