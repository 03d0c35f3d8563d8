package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Yhoqw/Kobe-Assist-Estimator-2025/internal/adapters/nba"
	service "github.com/Yhoqw/Kobe-Assist-Estimator-2025/internal/app"
	"github.com/Yhoqw/Kobe-Assist-Estimator-2025/internal/domain/model"
	"github.com/Yhoqw/Kobe-Assist-Estimator-2025/internal/domain/pbp"
	"github.com/Yhoqw/Kobe-Assist-Estimator-2025/internal/domain/sequence"
	"github.com/Yhoqw/Kobe-Assist-Estimator-2025/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	m.Run()
}

const (
	playerName = "Kobe Bryant"
	teamID     = 1610612747
)

// stubStats serves one game whose log contains a single converted
// second-chance sequence, worth 3 in shot-value mode.
type stubStats struct{}

func (stubStats) RecentGames(_ context.Context, _ int, _ string, n int) ([]string, error) {
	games := []string{"0020900001"}
	if n < 1 {
		return nil, nil
	}
	return games, nil
}

func (stubStats) PlayByPlay(_ context.Context, _ string) ([]pbp.Event, error) {
	return []pbp.Event{
		{Type: pbp.EventMissedShot, TeamID: teamID, PlayerName: playerName},
		{Type: pbp.EventRebound, TeamID: teamID, PlayerName: "Lamar Odom"},
		{Type: pbp.EventMadeShot, TeamID: teamID, PlayerName: "Lamar Odom",
			HomeDescription: "Odom 25' 3PT Jump Shot (3 PTS)"},
	}, nil
}

func (stubStats) Players(_ context.Context, season string) ([]nba.Player, error) {
	if season == "" {
		return nil, errors.New("missing season")
	}
	return []nba.Player{{ID: 977, Name: playerName, GamesPlayed: 73}}, nil
}

func testJob() model.EstimateJob {
	return model.EstimateJob{
		JobID:      "job-1",
		PlayerID:   977,
		PlayerName: playerName,
		Season:     "2009-10",
		SampleSize: 1,
	}
}

// waitForRating polls until the player's rating is published.
func waitForRating(t *testing.T, svc *service.Service, playerID int) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		if _, err := svc.Rating(context.Background(), playerID); err == nil {
			return
		}
		select {
		case <-deadline:
			t.Fatal("rating was never published")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestService(t *testing.T) {
	ctx := context.Background()

	Convey("Given a started service over a stub provider", t, func() {
		svc := service.New(
			service.WithStatsSource(stubStats{}),
			service.WithWorkerCount(1),
			service.WithQueueSize(8),
			service.WithSampleSize(1),
		)
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop(ctx)

		Convey("When a job runs to completion", func() {
			job := testJob()
			So(svc.SeenAndRecord(ctx, job.Key()), ShouldBeFalse)
			So(svc.Enqueue(ctx, job), ShouldBeTrue)
			waitForRating(t, svc, 977)

			Convey("Then the rating is queryable", func() {
				entry, err := svc.Rating(ctx, 977)
				So(err, ShouldBeNil)
				So(entry.PlayerName, ShouldEqual, playerName)
				So(entry.GamesSampled, ShouldEqual, 1)
				So(entry.TotalPoints, ShouldEqual, 1)
				So(entry.AveragePoints, ShouldEqual, 1.0)
				So(entry.Rank, ShouldEqual, 1)
			})

			Convey("Then the leaderboard includes the player", func() {
				top, err := svc.TopN(ctx, 5)
				So(err, ShouldBeNil)
				So(top, ShouldHaveLength, 1)
				So(top[0].PlayerID, ShouldEqual, 977)
			})

			Convey("Then the in-flight key was released by the worker", func() {
				deadline := time.After(2 * time.Second)
				for svc.Size() != 0 {
					select {
					case <-deadline:
						t.Fatal("in-flight key never released")
					case <-time.After(10 * time.Millisecond):
					}
				}
				So(svc.SeenAndRecord(ctx, job.Key()), ShouldBeFalse)
			})
		})

		Convey("When the roster is fetched", func() {
			players, err := svc.Players(ctx, "2009-10")
			So(err, ShouldBeNil)
			So(players, ShouldHaveLength, 1)
			So(players[0].Name, ShouldEqual, playerName)
		})

		Convey("When stats are requested", func() {
			stats := svc.GetStats()
			So(stats["started"], ShouldBeTrue)
			So(stats["scoring_mode"], ShouldEqual, "flat")
			So(stats, ShouldContainKey, "queue_length")
		})

		Convey("When a missing rating is requested", func() {
			_, err := svc.Rating(ctx, 42)
			So(err, ShouldNotBeNil)
		})
	})

	Convey("Given a service in shot-value mode", t, func() {
		svc := service.New(
			service.WithStatsSource(stubStats{}),
			service.WithWorkerCount(1),
			service.WithScoringMode(sequence.ModeShotValue),
		)
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop(ctx)

		Convey("When the same game is analyzed", func() {
			So(svc.Enqueue(ctx, testJob()), ShouldBeTrue)
			waitForRating(t, svc, 977)

			Convey("Then the sequence is worth the shot's value", func() {
				entry, err := svc.Rating(ctx, 977)
				So(err, ShouldBeNil)
				So(entry.TotalPoints, ShouldEqual, 3)
			})
		})
	})

	Convey("Given a service without a stats source", t, func() {
		svc := service.New()

		Convey("Then it refuses to start", func() {
			So(svc.Start(ctx), ShouldEqual, service.ErrNoStatsSource)
		})
	})
}
