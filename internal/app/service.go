// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"runtime"
	"sync"

	"github.com/Yhoqw/Kobe-Assist-Estimator-2025/internal/adapters/cache"
	jobqueue "github.com/Yhoqw/Kobe-Assist-Estimator-2025/internal/adapters/mq/queue"
	workerpool "github.com/Yhoqw/Kobe-Assist-Estimator-2025/internal/adapters/mq/worker"
	"github.com/Yhoqw/Kobe-Assist-Estimator-2025/internal/adapters/nba"
	"github.com/Yhoqw/Kobe-Assist-Estimator-2025/internal/adapters/repository"
	"github.com/Yhoqw/Kobe-Assist-Estimator-2025/internal/domain/dedupe"
	"github.com/Yhoqw/Kobe-Assist-Estimator-2025/internal/domain/model"
	"github.com/Yhoqw/Kobe-Assist-Estimator-2025/internal/domain/sequence"
	"github.com/Yhoqw/Kobe-Assist-Estimator-2025/internal/domain/types"
	"github.com/Yhoqw/Kobe-Assist-Estimator-2025/pkg/logger"
	"github.com/Yhoqw/Kobe-Assist-Estimator-2025/pkg/metrics"
)

// Default service configuration.
const (
	defaultQueueSize  = 1024
	defaultDedupeSize = 4096
	defaultSample     = 15
	defaultMaxSample  = 82
)

// StatsSource bundles the upstream reads the service needs.
type StatsSource interface {
	nba.GameSource
	nba.SampleSource
	nba.RosterSource
}

// Service wires the queue, workers, dedupe, and rating store behind the
// API dependency surface.
type Service struct {
	mu sync.RWMutex

	// Core components
	store    repository.Store
	deduper  dedupe.Deduper
	jobQueue jobqueue.Queue
	pool     *workerpool.Pool
	stats    StatsSource
	pbpCache cache.Cache

	// Configuration
	workerCount   int
	queueSize     int
	dedupeSize    int
	sampleSize    int
	maxSampleSize int
	mode          sequence.Mode

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the job queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the in-flight suppression cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithSampleSize sets the default game sample for jobs that omit one.
func WithSampleSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.sampleSize = n
		}
	}
}

// WithMaxSampleSize caps the game sample a caller can request.
func WithMaxSampleSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxSampleSize = n
		}
	}
}

// WithScoringMode selects how converted sequences are valued.
func WithScoringMode(mode sequence.Mode) Option {
	return func(s *Service) {
		s.mode = mode
	}
}

// WithStatsSource sets the upstream stats client.
func WithStatsSource(src StatsSource) Option {
	return func(s *Service) {
		if src != nil {
			s.stats = src
		}
	}
}

// WithCache sets the play-by-play cache.
func WithCache(c cache.Cache) Option {
	return func(s *Service) {
		s.pbpCache = c
	}
}

// WithStore sets the rating store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:   runtime.NumCPU(),
		queueSize:     defaultQueueSize,
		dedupeSize:    defaultDedupeSize,
		sampleSize:    defaultSample,
		maxSampleSize: defaultMaxSample,
		mode:          sequence.ModeFlat,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.stats == nil {
		return ErrNoStatsSource
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	if s.store == nil {
		s.store = repository.NewMemoryStore()
	}
	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.jobQueue = jobqueue.NewInMemoryQueue(
		jobqueue.WithCapacity(s.queueSize),
	)

	detector := sequence.New(sequence.WithMode(s.mode))
	estimator := workerpool.NewGameEstimator(s.stats, s.stats, s.pbpCache, detector, s.store, s.deduper)
	s.pool = workerpool.NewPool(s.workerCount, s.jobQueue, estimator)
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "estimator service started",
		logger.Int("workers", s.pool.Size()),
		logger.Int("queue_size", s.queueSize),
		logger.Int("dedupe_size", s.dedupeSize),
		logger.String("scoring_mode", s.mode.String()),
	)

	return nil
}

// Stop gracefully shuts down the service, letting in-flight jobs finish.
func (s *Service) Stop(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(ctx, "stopping estimator service...")

	if s.pool != nil {
		_ = s.pool.Shutdown(ctx)
	}

	s.started = false
	s.logger.Info(ctx, "estimator service stopped")
}

// SeenAndRecord atomically checks whether a player/season pair is already
// in flight and records it if not.
func (s *Service) SeenAndRecord(ctx context.Context, key string) bool {
	seen := s.deduper.SeenAndRecord(ctx, key)
	if seen {
		metrics.RecordJobDuplicate()
	}
	return seen
}

// Unrecord removes an in-flight key, allowing the pair to be resubmitted.
func (s *Service) Unrecord(ctx context.Context, key string) {
	s.deduper.Unrecord(ctx, key)
}

// Size returns the current number of in-flight keys.
func (s *Service) Size() int64 {
	if s.deduper == nil {
		return 0
	}
	return s.deduper.Size()
}

// DefaultSampleSize is the game count used when a request omits one.
func (s *Service) DefaultSampleSize() int {
	return s.sampleSize
}

// Enqueue submits a job for asynchronous processing. The sample size is
// clamped to the configured bounds before queuing.
func (s *Service) Enqueue(ctx context.Context, j model.EstimateJob) bool {
	if j.SampleSize <= 0 {
		j.SampleSize = s.sampleSize
	}
	if j.SampleSize > s.maxSampleSize {
		j.SampleSize = s.maxSampleSize
	}

	ok := s.jobQueue.Enqueue(ctx, j)
	if !ok {
		s.logger.Warn(ctx, "job rejected, queue full",
			logger.String("job_id", j.JobID),
			logger.Int("player_id", j.PlayerID),
		)
		return false
	}

	metrics.RecordJobSubmitted()
	s.logger.Info(ctx, "job accepted",
		logger.String("job_id", j.JobID),
		logger.Int("player_id", j.PlayerID),
		logger.String("season", j.Season),
		logger.Int("games", j.SampleSize),
	)
	return true
}

// Rating returns the published rating for a player.
func (s *Service) Rating(ctx context.Context, playerID int) (types.Entry, error) {
	entry, err := s.store.Rating(ctx, playerID)
	if err != nil {
		return types.Entry{}, err
	}
	return toEntry(entry), nil
}

// TopN returns the top N rated players.
func (s *Service) TopN(ctx context.Context, n int) ([]types.Entry, error) {
	entries, err := s.store.TopN(ctx, n)
	if err != nil {
		return nil, err
	}

	out := make([]types.Entry, len(entries))
	for i, entry := range entries {
		out[i] = toEntry(entry)
	}
	return out, nil
}

// Players returns the season roster from the upstream provider.
func (s *Service) Players(ctx context.Context, season string) ([]types.Player, error) {
	players, err := s.stats.Players(ctx, season)
	if err != nil {
		return nil, err
	}

	out := make([]types.Player, len(players))
	for i, p := range players {
		out[i] = types.Player{
			ID:          p.ID,
			Name:        p.Name,
			GamesPlayed: p.GamesPlayed,
		}
	}
	return out, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":      s.started,
		"worker_count": s.workerCount,
		"queue_size":   s.queueSize,
		"dedupe_size":  s.dedupeSize,
		"scoring_mode": s.mode.String(),
	}

	if s.started {
		queueLen := s.jobQueue.Len(ctx)
		stats["queue_length"] = queueLen
		stats["players_rated"] = s.store.Count(ctx)
		stats["in_flight"] = s.deduper.Size()

		metrics.UpdateQueueSize(queueLen)
	}

	return stats
}

func toEntry(e repository.Entry) types.Entry {
	return types.Entry{
		Rank:          e.Rank,
		PlayerID:      e.PlayerID,
		PlayerName:    e.PlayerName,
		Season:        e.Season,
		GamesSampled:  e.GamesSampled,
		TotalPoints:   e.TotalPoints,
		AveragePoints: e.Average,
	}
}
