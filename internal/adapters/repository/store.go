// Package repository defines the rating store interface and errors.
package repository

import (
	"context"

	"github.com/Yhoqw/Kobe-Assist-Estimator-2025/internal/domain/rating"
)

// Entry is one stored rating row.
type Entry struct {
	Rank         int
	PlayerID     int
	PlayerName   string
	Season       string
	GamesSampled int
	TotalPoints  int
	Average      float64
}

// Store provides read/write access to published ratings.
type Store interface {
	// Publish records the latest rating for a player, replacing any
	// previous estimate.
	Publish(ctx context.Context, s rating.Summary) error

	// Rating returns the current entry for a player.
	// Returns ErrNotFound if the player has no published rating.
	Rating(ctx context.Context, playerID int) (Entry, error)

	// TopN returns up to n entries ordered by average points descending.
	TopN(ctx context.Context, n int) ([]Entry, error)

	// Count returns the number of players with a published rating.
	Count(ctx context.Context) int
}
