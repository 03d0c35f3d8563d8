// Package types contains common types used across the application
package types

// Entry represents a leaderboard row: one player's latest rating.
type Entry struct {
	Rank          int     `json:"rank"`
	PlayerID      int     `json:"player_id"`
	PlayerName    string  `json:"player_name"`
	Season        string  `json:"season"`
	GamesSampled  int     `json:"games_sampled"`
	TotalPoints   int     `json:"total_points"`
	AveragePoints float64 `json:"average_points"`
}

// Player is a roster row for one season.
type Player struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	GamesPlayed int    `json:"games_played"`
}
