// Command estimate runs a one-shot rating for a single player against the
// live stats provider and prints the result, no server required.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Yhoqw/Kobe-Assist-Estimator-2025/internal/adapters/nba"
	"github.com/Yhoqw/Kobe-Assist-Estimator-2025/internal/domain/rating"
	"github.com/Yhoqw/Kobe-Assist-Estimator-2025/internal/domain/sequence"
	"github.com/Yhoqw/Kobe-Assist-Estimator-2025/pkg/logger"
)

const requestTimeout = 15 * time.Second

func main() {
	playerID := flag.Int("player-id", 977, "upstream player id")
	playerName := flag.String("player-name", "Kobe Bryant", "exact display name as it appears in play-by-play")
	season := flag.String("season", "2009-10", "season, e.g. 2009-10")
	games := flag.Int("games", 15, "number of recent games to sample")
	modeFlag := flag.String("mode", "flat", "scoring mode: flat or shot_value")
	baseURL := flag.String("base-url", "https://stats.nba.com/stats", "stats provider base URL")
	rps := flag.Float64("rps", 1, "upstream requests per second")
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Get().Named("estimate")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mode, err := sequence.ParseMode(*modeFlag)
	if err != nil {
		log.Error(ctx, "bad mode flag", logger.Error(err))
		os.Exit(2)
	}

	client := nba.NewClient(
		nba.WithBaseURL(*baseURL),
		nba.WithRequestTimeout(requestTimeout),
		nba.WithRateLimit(*rps),
	)
	detector := sequence.New(sequence.WithMode(mode))

	gameIDs, err := client.RecentGames(ctx, *playerID, *season, *games)
	if err != nil {
		log.Error(ctx, "game log fetch failed", logger.Error(err))
		os.Exit(1)
	}
	if len(gameIDs) == 0 {
		log.Warn(ctx, "no games found",
			logger.Int("player_id", *playerID),
			logger.String("season", *season),
		)
	}

	summary := rating.Summary{
		PlayerID:   *playerID,
		PlayerName: *playerName,
		Season:     *season,
	}

	for i, gameID := range gameIDs {
		if ctx.Err() != nil {
			log.Warn(ctx, "interrupted", logger.Int("games_done", i))
			break
		}

		events, err := client.PlayByPlay(ctx, gameID)
		if err != nil {
			log.Warn(ctx, "play-by-play fetch failed, treating game as empty",
				logger.String("game_id", gameID),
				logger.Error(err),
			)
			events = nil
		}

		points := detector.AnalyzeGame(events, *playerName)
		summary.AddGame(points)

		log.Info(ctx, "analyzed game",
			logger.String("game_id", gameID),
			logger.Int("game", i+1),
			logger.Int("of", len(gameIDs)),
			logger.Int("points", points),
			logger.Int("total", summary.TotalPoints),
		)
	}

	fmt.Printf("%s (%s, %s mode)\n", summary.PlayerName, summary.Season, mode)
	fmt.Printf("  games sampled: %d\n", summary.GamesSampled)
	fmt.Printf("  total points:  %d\n", summary.TotalPoints)
	fmt.Printf("  per game:      %.2f\n", summary.Average())
}
