package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/Yhoqw/Kobe-Assist-Estimator-2025/internal/domain/rating"
	"github.com/Yhoqw/Kobe-Assist-Estimator-2025/pkg/metrics"
)

// MemoryStore implements Store with a mutex-guarded map. The population is
// one row per estimated player, so ranking sorts a snapshot on read rather
// than maintaining an ordered structure.
type MemoryStore struct {
	mu      sync.RWMutex
	ratings map[int]rating.Summary
}

// NewMemoryStore creates an empty in-memory rating store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		ratings: make(map[int]rating.Summary),
	}
}

// Publish records the latest rating for a player.
func (s *MemoryStore) Publish(_ context.Context, summary rating.Summary) error {
	s.mu.Lock()
	s.ratings[summary.PlayerID] = summary
	count := len(s.ratings)
	s.mu.Unlock()

	metrics.UpdatePlayersTracked(count)
	return nil
}

// Rating returns the current entry for a player, rank included.
func (s *MemoryStore) Rating(_ context.Context, playerID int) (Entry, error) {
	s.mu.RLock()
	_, ok := s.ratings[playerID]
	ordered := s.snapshot()
	s.mu.RUnlock()

	if !ok {
		return Entry{}, ErrNotFound
	}
	for _, e := range ordered {
		if e.PlayerID == playerID {
			return e, nil
		}
	}
	return Entry{}, ErrNotFound
}

// TopN returns up to n entries ordered by average points descending.
func (s *MemoryStore) TopN(_ context.Context, n int) ([]Entry, error) {
	if n < 1 {
		return nil, ErrInvalidLimit
	}

	s.mu.RLock()
	ordered := s.snapshot()
	s.mu.RUnlock()

	if len(ordered) > n {
		ordered = ordered[:n]
	}
	return ordered, nil
}

// Count returns the number of players with a published rating.
func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ratings)
}

// snapshot returns all entries ranked by average descending, player name
// ascending on ties. Caller holds at least a read lock.
func (s *MemoryStore) snapshot() []Entry {
	out := make([]Entry, 0, len(s.ratings))
	for _, summary := range s.ratings {
		out = append(out, Entry{
			PlayerID:     summary.PlayerID,
			PlayerName:   summary.PlayerName,
			Season:       summary.Season,
			GamesSampled: summary.GamesSampled,
			TotalPoints:  summary.TotalPoints,
			Average:      summary.Average(),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Average != out[j].Average {
			return out[i].Average > out[j].Average
		}
		return out[i].PlayerName < out[j].PlayerName
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}
