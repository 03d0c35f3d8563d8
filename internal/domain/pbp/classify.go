package pbp

import "strings"

// Default point value when the description gives no usable signal.
const defaultFieldGoalPoints = 2

// Description markers used by the point-value heuristic. Matching is a
// case-sensitive substring check; three-point markers are checked first.
var (
	threePointMarkers = []string{"3PT", "Three Point"}
	freeThrowMarkers  = []string{"Free Throw", "Technical"}
)

// IsMissedShot reports whether e is a missed field-goal attempt.
func IsMissedShot(e Event) bool {
	return e.Type == EventMissedShot
}

// IsOffensiveRebound reports whether e is a rebound credited to the team
// that attempted the preceding shot.
func IsOffensiveRebound(e Event, shootingTeamID int) bool {
	return e.Type == EventRebound && e.TeamID == shootingTeamID
}

// IsScore reports whether e is a scoring play: a made field goal or a
// made free throw.
func IsScore(e Event) bool {
	return e.Type == EventMadeShot || e.Type == EventFreeThrow
}

// ExtractPoints infers the point value of a scoring play from its
// description text. Three-point markers win over free-throw markers; with
// no marker at all the play is treated as a two-point field goal. The
// heuristic is deliberately tolerant of descriptions it cannot classify.
func ExtractPoints(e Event) int {
	desc := e.Description()
	if containsAny(desc, threePointMarkers) {
		return 3
	}
	if containsAny(desc, freeThrowMarkers) {
		return 1
	}
	return defaultFieldGoalPoints
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
