// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/Yhoqw/Kobe-Assist-Estimator-2025/internal/domain/dedupe"
	"github.com/Yhoqw/Kobe-Assist-Estimator-2025/internal/domain/model"
	"github.com/Yhoqw/Kobe-Assist-Estimator-2025/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	dedupe.Deduper

	// Enqueue pushes a job for async processing. Returns false on backpressure.
	Enqueue(ctx context.Context, j model.EstimateJob) bool

	// DefaultSampleSize is the game count used when a request omits one.
	DefaultSampleSize() int

	// Read operations expose published ratings and the season roster.
	Rating(ctx context.Context, playerID int) (Entry, error)
	TopN(ctx context.Context, n int) ([]Entry, error)
	Players(ctx context.Context, season string) ([]Player, error)
}

// Read shapes returned by rating and roster queries.
type (
	Entry  = types.Entry
	Player = types.Player
)

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	estimatesHandler   *EstimatesHandler
	ratingsHandler     *RatingsHandler
	leaderboardHandler *LeaderboardHandler
	playersHandler     *PlayersHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLeaderboardLimit int) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		estimatesHandler:   NewEstimatesHandler(deps),
		ratingsHandler:     NewRatingsHandler(deps),
		leaderboardHandler: NewLeaderboardHandler(deps, maxLeaderboardLimit),
		playersHandler:     NewPlayersHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/estimates", MetricsMiddleware(s.estimatesHandler.HandlePostEstimate, "estimates"))
	mux.HandleFunc("/ratings/", MetricsMiddleware(s.ratingsHandler.HandleGetRating, "ratings"))
	mux.HandleFunc("/leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
	mux.HandleFunc("/players", MetricsMiddleware(s.playersHandler.HandleGetPlayers, "players"))
}

// estimateRequest is the schema for POST /estimates.
type estimateRequest struct {
	PlayerID   int    `json:"player_id"`
	PlayerName string `json:"player_name"`
	Season     string `json:"season"`
	Games      int    `json:"games"`
}

func (e estimateRequest) validate() error {
	switch {
	case e.PlayerID < 1:
		return errors.New("missing or invalid player_id")
	case strings.TrimSpace(e.PlayerName) == "":
		return errors.New("missing player_name")
	case !validSeason(e.Season):
		return errors.New("invalid season; expected YYYY-YY")
	case e.Games < 0:
		return errors.New("games must not be negative")
	}
	return nil
}

// validSeason checks the provider's season format, e.g. "2009-10".
func validSeason(s string) bool {
	if len(s) != 7 || s[4] != '-' {
		return false
	}
	for i, c := range s {
		if i == 4 {
			continue
		}
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
	JobID     string `json:"job_id,omitempty"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// isNotFound translates upstream not-found errors to 404. The check stays
// loose so the handler layer does not depend on storage packages.
func isNotFound(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "not found")
}
