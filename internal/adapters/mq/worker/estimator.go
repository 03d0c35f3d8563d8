package worker

import (
	"context"
	"fmt"

	"github.com/Yhoqw/Kobe-Assist-Estimator-2025/internal/adapters/cache"
	"github.com/Yhoqw/Kobe-Assist-Estimator-2025/internal/adapters/nba"
	"github.com/Yhoqw/Kobe-Assist-Estimator-2025/internal/domain/pbp"
	"github.com/Yhoqw/Kobe-Assist-Estimator-2025/internal/domain/rating"
	"github.com/Yhoqw/Kobe-Assist-Estimator-2025/pkg/logger"
	"github.com/Yhoqw/Kobe-Assist-Estimator-2025/pkg/metrics"
)

// Analyzer scans one game's event log for a player's qualifying sequences.
type Analyzer interface {
	AnalyzeGame(events []pbp.Event, playerName string) int
}

// Publisher records a finished rating.
type Publisher interface {
	Publish(ctx context.Context, s rating.Summary) error
}

// Releaser frees an in-flight job key once the job is done.
type Releaser interface {
	Unrecord(ctx context.Context, key string)
}

// GameEstimator runs one estimation job end to end: sample the player's
// recent games, analyze each log, publish the resulting rating.
type GameEstimator struct {
	sampler  nba.SampleSource
	games    nba.GameSource
	cache    cache.Cache
	analyzer Analyzer
	store    Publisher
	inflight Releaser

	logger logger.Logger
}

// NewGameEstimator wires an estimator. cache and inflight may be nil.
func NewGameEstimator(
	sampler nba.SampleSource,
	games nba.GameSource,
	pbpCache cache.Cache,
	analyzer Analyzer,
	store Publisher,
	inflight Releaser,
) *GameEstimator {
	return &GameEstimator{
		sampler:  sampler,
		games:    games,
		cache:    pbpCache,
		analyzer: analyzer,
		store:    store,
		inflight: inflight,
		logger:   logger.Get().Named("estimator"),
	}
}

// Estimate processes a single job. Upstream faults degrade to empty game
// logs rather than aborting, so a flaky provider yields a low estimate,
// not a stuck job. Cancellation is honored between games; the summary
// reflects only the games actually analyzed.
func (e *GameEstimator) Estimate(ctx context.Context, job Job) error {
	defer func() {
		if e.inflight != nil {
			e.inflight.Unrecord(ctx, job.Key())
		}
	}()

	gameIDs, err := e.sampler.RecentGames(ctx, job.PlayerID, job.Season, job.SampleSize)
	if err != nil {
		e.logger.Warn(ctx, "game log fetch failed, proceeding with no games",
			logger.String("job_id", job.JobID),
			logger.Int("player_id", job.PlayerID),
			logger.Error(err),
		)
		gameIDs = nil
	}

	summary := rating.Summary{
		PlayerID:   job.PlayerID,
		PlayerName: job.PlayerName,
		Season:     job.Season,
	}

	for i, gameID := range gameIDs {
		if ctx.Err() != nil {
			e.logger.Warn(ctx, "job interrupted",
				logger.String("job_id", job.JobID),
				logger.Int("games_done", i),
			)
			break
		}

		events := e.fetchEvents(ctx, gameID)
		points := e.analyzer.AnalyzeGame(events, job.PlayerName)
		summary.AddGame(points)

		metrics.RecordGameAnalyzed()
		metrics.RecordPointsAwarded(points)

		e.logger.Info(ctx, "analyzed game",
			logger.String("job_id", job.JobID),
			logger.String("game_id", gameID),
			logger.Int("game", i+1),
			logger.Int("of", len(gameIDs)),
			logger.Int("points", points),
			logger.Int("total", summary.TotalPoints),
		)
	}

	if err := e.store.Publish(ctx, summary); err != nil {
		return fmt.Errorf("publish rating for player %d: %w", job.PlayerID, err)
	}

	e.logger.Info(ctx, "job finished",
		logger.String("job_id", job.JobID),
		logger.String("player", job.PlayerName),
		logger.Int("games_sampled", summary.GamesSampled),
		logger.Int("total_points", summary.TotalPoints),
		logger.Float64("average", summary.Average()),
	)
	return nil
}

// fetchEvents returns the game's event log, consulting the cache first.
// Any fetch fault degrades to an empty log.
func (e *GameEstimator) fetchEvents(ctx context.Context, gameID string) []pbp.Event {
	if e.cache != nil {
		if events, ok := e.cache.Get(ctx, gameID); ok {
			return events
		}
	}

	events, err := e.games.PlayByPlay(ctx, gameID)
	if err != nil {
		e.logger.Warn(ctx, "play-by-play fetch failed, treating game as empty",
			logger.String("game_id", gameID),
			logger.Error(err),
		)
		return nil
	}

	if e.cache != nil {
		e.cache.Set(ctx, gameID, events)
	}
	return events
}
