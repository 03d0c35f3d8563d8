// Package cache stores fetched play-by-play logs so repeated estimates do
// not hammer the stats provider. Final box scores never change, so a long
// TTL is safe.
package cache

import (
	"context"
	"time"

	"github.com/Yhoqw/Kobe-Assist-Estimator-2025/internal/domain/pbp"
)

// Default retention for cached game logs.
const defaultTTL = 6 * time.Hour

// Cache holds parsed event logs keyed by game id. Implementations degrade
// backend faults to cache misses; a miss is never an error.
type Cache interface {
	// Get returns the cached log for gameID and whether it was present.
	Get(ctx context.Context, gameID string) ([]pbp.Event, bool)

	// Set stores the log for gameID for the cache's retention period.
	Set(ctx context.Context, gameID string, events []pbp.Event)
}
