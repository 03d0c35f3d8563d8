// Package sequence walks a game's chronological event log to detect
// missed-shot put-back sequences and score them.
//
// A sequence is: a missed shot, an offensive rebound by the shooter's team
// within a short forward window, and a qualifying score by that same team
// before possession changes. The scan is pure and referentially transparent;
// a Detector is safe for concurrent use.
package sequence

import (
	"fmt"
	"strings"

	"github.com/Yhoqw/Kobe-Assist-Estimator-2025/internal/domain/pbp"
)

// ScanWindow is the fixed forward lookahead after a missed shot. It keeps
// the heuristic tight: a score far removed in play order from the miss is
// not attributed to it. Not configurable.
const ScanWindow = 7

// Mode selects the scoring policy applied to a detected sequence.
type Mode int

const (
	// ModeFlat awards one point per detected sequence and only accepts
	// made field goals as qualifying scores.
	ModeFlat Mode = iota

	// ModeShotValue awards the shot's inferred point value and accepts
	// made field goals and free throws as qualifying scores.
	ModeShotValue
)

// String returns the configuration name of the mode.
func (m Mode) String() string {
	switch m {
	case ModeShotValue:
		return "shot_value"
	default:
		return "flat"
	}
}

// ParseMode maps a configuration string to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "flat":
		return ModeFlat, nil
	case "shot_value", "shot-value", "shotvalue":
		return ModeShotValue, nil
	default:
		return ModeFlat, fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// Detector scans event logs for put-back sequences.
type Detector struct {
	mode Mode
}

// New constructs a Detector with configuration options.
func New(opts ...Option) *Detector {
	d := &Detector{
		mode: ModeFlat,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Mode returns the detector's scoring policy.
func (d *Detector) Mode() Mode {
	return d.mode
}

// DetectSequence scans forward from a confirmed missed shot at
// missedShotIndex by shootingTeamID and returns the points the sequence
// awards, zero when no sequence exists.
//
// The scan examines at most ScanWindow events past the miss, clipped to
// the end of the log, and terminates early when possession changes: a
// rebound or turnover before the offensive board, or a turnover or
// defensive rebound after it. A score only counts once the offensive
// rebound has been seen strictly before it.
func (d *Detector) DetectSequence(events []pbp.Event, missedShotIndex, shootingTeamID int) int {
	if missedShotIndex < 0 || missedShotIndex >= len(events) {
		return 0
	}

	end := missedShotIndex + 1 + ScanWindow
	if end > len(events) {
		end = len(events)
	}

	reboundFound := false
	for i := missedShotIndex + 1; i < end; i++ {
		e := events[i]

		if !reboundFound {
			if pbp.IsOffensiveRebound(e, shootingTeamID) {
				// A rebound alone scores nothing; the put-back must follow.
				reboundFound = true
				continue
			}
			if e.Type == pbp.EventRebound || e.Type == pbp.EventTurnover {
				// Possession changed before any offensive board.
				return 0
			}
			continue
		}

		if d.qualifies(e) && e.TeamID == shootingTeamID {
			return d.points(e)
		}
		if e.Type == pbp.EventTurnover {
			return 0
		}
		if e.Type == pbp.EventRebound && e.TeamID != shootingTeamID {
			// Defensive board; the opposing team regained possession.
			return 0
		}
		// Anything else (fouls, defensive free throws, timeouts) does not
		// end the possession we are tracking.
	}
	return 0
}

// AnalyzeGame makes a single pass over a game's event log and totals the
// points from every put-back sequence following a missed shot by
// playerName. Name matching is exact and case-sensitive. Scans for
// separate misses are independent; their windows may overlap.
func (d *Detector) AnalyzeGame(events []pbp.Event, playerName string) int {
	total := 0
	for i, e := range events {
		if pbp.IsMissedShot(e) && e.PlayerName == playerName {
			total += d.DetectSequence(events, i, e.TeamID)
		}
	}
	return total
}

// qualifies reports whether e is a scoring play under the active mode.
func (d *Detector) qualifies(e pbp.Event) bool {
	if d.mode == ModeShotValue {
		return pbp.IsScore(e)
	}
	return e.Type == pbp.EventMadeShot
}

// points returns the value a qualifying score awards under the active mode.
func (d *Detector) points(e pbp.Event) int {
	if d.mode == ModeShotValue {
		return pbp.ExtractPoints(e)
	}
	return 1
}
