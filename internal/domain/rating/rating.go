// Package rating aggregates per-game detection results into a player rating.
package rating

// Summary is the outcome of one estimation run: total points found across a
// sample of games for one player in one season.
type Summary struct {
	PlayerID     int
	PlayerName   string
	Season       string
	GamesSampled int
	TotalPoints  int
}

// AddGame folds one game's point total into the summary.
func (s *Summary) AddGame(points int) {
	s.GamesSampled++
	s.TotalPoints += points
}

// Average returns the arithmetic mean of points per sampled game. A summary
// with no games averages zero.
func (s Summary) Average() float64 {
	if s.GamesSampled == 0 {
		return 0
	}
	return float64(s.TotalPoints) / float64(s.GamesSampled)
}
