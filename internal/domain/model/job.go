// Package model contains domain models passed between layers.
package model

import "strconv"

// EstimateJob is a request to compute a player's rating over a sample of
// recent games. Jobs are explicit values carried through the queue; the
// service holds no per-request global state.
type EstimateJob struct {
	JobID      string // unique id assigned at submission
	PlayerID   int    // upstream player identifier
	PlayerName string // exact display name matched against play-by-play
	Season     string // season string, e.g. "2024-25"
	SampleSize int    // number of recent games to sample
}

// Key identifies the player/season pair for in-flight suppression. Two
// submissions for the same pair collapse while one is queued or running.
func (j EstimateJob) Key() string {
	return strconv.Itoa(j.PlayerID) + "|" + j.Season
}
