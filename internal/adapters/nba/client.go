// Package nba fetches rosters, game logs, and play-by-play from the
// upstream stats provider and parses them into domain records at the
// boundary.
package nba

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/Yhoqw/Kobe-Assist-Estimator-2025/internal/domain/pbp"
	"github.com/Yhoqw/Kobe-Assist-Estimator-2025/pkg/metrics"
)

// Default client configuration.
const (
	defaultBaseURL        = "https://stats.nba.com/stats"
	defaultRequestTimeout = 15 * time.Second
	defaultRatePerSecond  = 1
	playByPlayEndPeriod   = 14
)

// GameSource returns the ordered play-by-play event log for one game.
type GameSource interface {
	PlayByPlay(ctx context.Context, gameID string) ([]pbp.Event, error)
}

// SampleSource returns a player's most recent game ids for a season,
// newest first, at most n entries.
type SampleSource interface {
	RecentGames(ctx context.Context, playerID int, season string, n int) ([]string, error)
}

// RosterSource returns basic player info for a season.
type RosterSource interface {
	Players(ctx context.Context, season string) ([]Player, error)
}

// Player is one roster row.
type Player struct {
	ID          int
	Name        string
	GamesPlayed int
}

// Client implements GameSource, SampleSource, and RosterSource over HTTP.
// Requests are throttled client-side; the provider bans aggressive callers.
type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
}

// NewClient constructs a Client with configuration options.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: defaultRequestTimeout},
		baseURL:    defaultBaseURL,
		limiter:    rate.NewLimiter(rate.Limit(defaultRatePerSecond), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// PlayByPlay fetches and parses one game's chronological event log.
func (c *Client) PlayByPlay(ctx context.Context, gameID string) ([]pbp.Event, error) {
	params := url.Values{}
	params.Set("GameID", gameID)
	params.Set("StartPeriod", "0")
	params.Set("EndPeriod", strconv.Itoa(playByPlayEndPeriod))

	env, err := c.get(ctx, "playbyplayv2", params)
	if err != nil {
		return nil, err
	}
	return parsePlayByPlay(env)
}

// RecentGames fetches up to n most recent game ids for a player.
func (c *Client) RecentGames(ctx context.Context, playerID int, season string, n int) ([]string, error) {
	params := url.Values{}
	params.Set("PlayerID", strconv.Itoa(playerID))
	params.Set("Season", season)
	params.Set("SeasonType", "Regular Season")

	env, err := c.get(ctx, "playergamelog", params)
	if err != nil {
		return nil, err
	}
	ids, err := parseGameLog(env)
	if err != nil {
		return nil, err
	}
	if n > 0 && len(ids) > n {
		ids = ids[:n]
	}
	return ids, nil
}

// Players fetches the season roster, sorted by player name.
func (c *Client) Players(ctx context.Context, season string) ([]Player, error) {
	params := url.Values{}
	params.Set("Season", season)
	params.Set("SeasonType", "Regular Season")
	params.Set("PerMode", "Totals")

	env, err := c.get(ctx, "leaguedashplayerstats", params)
	if err != nil {
		return nil, err
	}
	players, err := parsePlayers(env)
	if err != nil {
		return nil, err
	}
	sort.Slice(players, func(i, j int) bool { return players[i].Name < players[j].Name })
	return players, nil
}

// get issues one throttled request and decodes the tabular envelope.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values) (*envelope, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", endpoint, err)
	}
	setStatsHeaders(req)

	metrics.RecordFetch(endpoint)
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.RecordFetchLatency(float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.RecordFetchError(endpoint)
		return nil, fmt.Errorf("%s: %w", endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		metrics.RecordFetchError(endpoint)
		return nil, fmt.Errorf("%w: %s returned %d", ErrUpstreamStatus, endpoint, resp.StatusCode)
	}

	env, err := decodeEnvelope(resp.Body)
	if err != nil {
		metrics.RecordFetchError(endpoint)
		return nil, fmt.Errorf("%s: %w", endpoint, err)
	}
	return env, nil
}

// setStatsHeaders adds the headers the provider requires before it will
// answer a non-browser client.
func setStatsHeaders(req *http.Request) {
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Referer", "https://stats.nba.com/")
	req.Header.Set("x-nba-stats-origin", "stats")
	req.Header.Set("x-nba-stats-token", "true")
}
