// Package pbp models play-by-play records and classifies individual plays.
package pbp

// EventType enumerates the play-by-play event codes used by the upstream feed
// (the EVENTMSGTYPE convention). Codes outside this set match no classifier.
type EventType int

// Known play-by-play event codes.
const (
	EventMadeShot   EventType = 1
	EventMissedShot EventType = 2
	EventFreeThrow  EventType = 3
	EventRebound    EventType = 4
	EventTurnover   EventType = 5
)

// Event is a single play-by-play record for one game. Events are immutable,
// read-only values parsed once at the data-source boundary; absent upstream
// fields are zero values here.
type Event struct {
	Type               EventType // kind of occurrence
	TeamID             int       // team of the event's primary actor
	PlayerName         string    // display name of the primary actor, may be empty
	HomeDescription    string    // home broadcast description, may be empty
	VisitorDescription string    // visitor broadcast description, may be empty
}

// Description joins both broadcast descriptions for text inspection.
// The feed populates one or the other depending on which side acted.
func (e Event) Description() string {
	switch {
	case e.HomeDescription == "":
		return e.VisitorDescription
	case e.VisitorDescription == "":
		return e.HomeDescription
	default:
		return e.HomeDescription + " " + e.VisitorDescription
	}
}
