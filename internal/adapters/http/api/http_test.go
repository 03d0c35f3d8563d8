package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Yhoqw/Kobe-Assist-Estimator-2025/internal/adapters/http/api"
	"github.com/Yhoqw/Kobe-Assist-Estimator-2025/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

// stubDeps implements api.Dependencies for handler tests.
type stubDeps struct {
	seen       map[string]bool
	unrecorded []string
	enqueued   []model.EstimateJob
	enqueueOK  bool

	rating    api.Entry
	ratingErr error
	top       []api.Entry
	topErr    error
	players   []api.Player
	playerErr error
}

func newStubDeps() *stubDeps {
	return &stubDeps{
		seen:      make(map[string]bool),
		enqueueOK: true,
	}
}

func (d *stubDeps) SeenAndRecord(_ context.Context, key string) bool {
	if d.seen[key] {
		return true
	}
	d.seen[key] = true
	return false
}

func (d *stubDeps) Unrecord(_ context.Context, key string) {
	d.unrecorded = append(d.unrecorded, key)
	delete(d.seen, key)
}

func (d *stubDeps) Size() int64 { return int64(len(d.seen)) }

func (d *stubDeps) Enqueue(_ context.Context, j model.EstimateJob) bool {
	if !d.enqueueOK {
		return false
	}
	d.enqueued = append(d.enqueued, j)
	return true
}

func (d *stubDeps) DefaultSampleSize() int { return 15 }

func (d *stubDeps) Rating(_ context.Context, _ int) (api.Entry, error) {
	return d.rating, d.ratingErr
}

func (d *stubDeps) TopN(_ context.Context, n int) ([]api.Entry, error) {
	if d.topErr != nil {
		return nil, d.topErr
	}
	if len(d.top) > n {
		return d.top[:n], nil
	}
	return d.top, nil
}

func (d *stubDeps) Players(_ context.Context, _ string) ([]api.Player, error) {
	return d.players, d.playerErr
}

type stubStats struct{}

func (stubStats) GetStats() map[string]interface{} {
	return map[string]interface{}{"queue_size": 0}
}

func newTestMux(deps api.Dependencies) *http.ServeMux {
	mux := http.NewServeMux()
	api.NewServer(deps, stubStats{}, 100).Register(context.Background(), mux)
	return mux
}

func postJSON(mux *http.ServeMux, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func get(mux *http.ServeMux, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

const validEstimate = `{"player_id":977,"player_name":"Kobe Bryant","season":"2009-10","games":20}`

func TestPostEstimates(t *testing.T) {
	Convey("Given the estimates endpoint", t, func() {
		deps := newStubDeps()
		mux := newTestMux(deps)

		Convey("When a valid job is posted", func() {
			rec := postJSON(mux, "/estimates", validEstimate)

			Convey("Then it is accepted with a job id", func() {
				So(rec.Code, ShouldEqual, http.StatusAccepted)

				var ack struct {
					Status    string `json:"status"`
					Duplicate bool   `json:"duplicate"`
					JobID     string `json:"job_id"`
				}
				So(json.Unmarshal(rec.Body.Bytes(), &ack), ShouldBeNil)
				So(ack.Status, ShouldEqual, "accepted")
				So(ack.Duplicate, ShouldBeFalse)
				So(ack.JobID, ShouldNotBeEmpty)

				So(deps.enqueued, ShouldHaveLength, 1)
				So(deps.enqueued[0].PlayerID, ShouldEqual, 977)
				So(deps.enqueued[0].SampleSize, ShouldEqual, 20)
			})

			Convey("Then a repeat for the same player and season is a duplicate", func() {
				rec2 := postJSON(mux, "/estimates", validEstimate)
				So(rec2.Code, ShouldEqual, http.StatusOK)
				So(rec2.Body.String(), ShouldContainSubstring, "duplicate")
				So(deps.enqueued, ShouldHaveLength, 1)
			})
		})

		Convey("When games is omitted", func() {
			rec := postJSON(mux, "/estimates", `{"player_id":977,"player_name":"Kobe Bryant","season":"2009-10"}`)

			Convey("Then the default sample size applies", func() {
				So(rec.Code, ShouldEqual, http.StatusAccepted)
				So(deps.enqueued[0].SampleSize, ShouldEqual, 15)
			})
		})

		Convey("When the body is invalid", func() {
			cases := []string{
				`not json`,
				`{"player_name":"Kobe Bryant","season":"2009-10"}`,
				`{"player_id":977,"season":"2009-10"}`,
				`{"player_id":977,"player_name":"Kobe Bryant","season":"2009"}`,
				`{"player_id":977,"player_name":"Kobe Bryant","season":"2009-10","games":-1}`,
			}
			for _, body := range cases {
				rec := postJSON(mux, "/estimates", body)
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			}
			So(deps.enqueued, ShouldBeEmpty)
		})

		Convey("When the queue pushes back", func() {
			deps.enqueueOK = false
			rec := postJSON(mux, "/estimates", validEstimate)

			Convey("Then the caller sees backpressure and the key is rolled back", func() {
				So(rec.Code, ShouldEqual, http.StatusTooManyRequests)
				So(deps.unrecorded, ShouldResemble, []string{"977|2009-10"})
				So(deps.Size(), ShouldEqual, 0)
			})
		})

		Convey("When the method is wrong", func() {
			rec := get(mux, "/estimates")
			So(rec.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestGetRating(t *testing.T) {
	Convey("Given the ratings endpoint", t, func() {
		deps := newStubDeps()
		deps.rating = api.Entry{
			Rank: 1, PlayerID: 977, PlayerName: "Kobe Bryant",
			Season: "2009-10", GamesSampled: 20, TotalPoints: 12, AveragePoints: 0.6,
		}
		mux := newTestMux(deps)

		Convey("When an existing player is requested", func() {
			rec := get(mux, "/ratings/977")

			So(rec.Code, ShouldEqual, http.StatusOK)
			var entry api.Entry
			So(json.Unmarshal(rec.Body.Bytes(), &entry), ShouldBeNil)
			So(entry.PlayerName, ShouldEqual, "Kobe Bryant")
			So(entry.AveragePoints, ShouldEqual, 0.6)
		})

		Convey("When the player has no rating", func() {
			deps.ratingErr = errors.New("player rating not found")
			rec := get(mux, "/ratings/42")
			So(rec.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When the lookup fails", func() {
			deps.ratingErr = errors.New("boom")
			rec := get(mux, "/ratings/42")
			So(rec.Code, ShouldEqual, http.StatusInternalServerError)
		})

		Convey("When the path is malformed", func() {
			So(get(mux, "/ratings/").Code, ShouldEqual, http.StatusBadRequest)
			So(get(mux, "/ratings/abc").Code, ShouldEqual, http.StatusBadRequest)
			So(get(mux, "/ratings/-5").Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestGetLeaderboard(t *testing.T) {
	Convey("Given the leaderboard endpoint", t, func() {
		deps := newStubDeps()
		deps.top = []api.Entry{
			{Rank: 1, PlayerID: 977, PlayerName: "Kobe Bryant", AveragePoints: 0.6},
			{Rank: 2, PlayerID: 2544, PlayerName: "LeBron James", AveragePoints: 0.4},
		}
		mux := newTestMux(deps)

		Convey("When a limit is given", func() {
			rec := get(mux, "/leaderboard?limit=1")

			So(rec.Code, ShouldEqual, http.StatusOK)
			var entries []api.Entry
			So(json.Unmarshal(rec.Body.Bytes(), &entries), ShouldBeNil)
			So(entries, ShouldHaveLength, 1)
			So(entries[0].PlayerName, ShouldEqual, "Kobe Bryant")
		})

		Convey("When the limit is omitted", func() {
			rec := get(mux, "/leaderboard")
			So(rec.Code, ShouldEqual, http.StatusOK)
		})

		Convey("When the limit is invalid", func() {
			So(get(mux, "/leaderboard?limit=0").Code, ShouldEqual, http.StatusBadRequest)
			So(get(mux, "/leaderboard?limit=abc").Code, ShouldEqual, http.StatusBadRequest)
			So(get(mux, "/leaderboard?limit=101").Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the query fails", func() {
			deps.topErr = errors.New("boom")
			So(get(mux, "/leaderboard?limit=5").Code, ShouldEqual, http.StatusInternalServerError)
		})
	})
}

func TestGetPlayers(t *testing.T) {
	Convey("Given the players endpoint", t, func() {
		deps := newStubDeps()
		deps.players = []api.Player{
			{ID: 977, Name: "Kobe Bryant", GamesPlayed: 73},
		}
		mux := newTestMux(deps)

		Convey("When a season roster is requested", func() {
			rec := get(mux, "/players?season=2009-10")

			So(rec.Code, ShouldEqual, http.StatusOK)
			var players []api.Player
			So(json.Unmarshal(rec.Body.Bytes(), &players), ShouldBeNil)
			So(players, ShouldHaveLength, 1)
			So(players[0].Name, ShouldEqual, "Kobe Bryant")
		})

		Convey("When the season is missing or malformed", func() {
			So(get(mux, "/players").Code, ShouldEqual, http.StatusBadRequest)
			So(get(mux, "/players?season=2009").Code, ShouldEqual, http.StatusBadRequest)
			So(get(mux, "/players?season=20o9-10").Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the upstream fails", func() {
			deps.playerErr = errors.New("upstream down")
			So(get(mux, "/players?season=2009-10").Code, ShouldEqual, http.StatusBadGateway)
		})
	})
}

func TestStatsAndHealth(t *testing.T) {
	Convey("Given the observability endpoints", t, func() {
		mux := newTestMux(newStubDeps())

		Convey("Then stats returns the provider snapshot", func() {
			rec := get(mux, "/stats")
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, "queue_size")
		})

		Convey("Then healthz serves the metrics registry", func() {
			rec := get(mux, "/healthz")
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, "kobe_estimator")
		})
	})
}
