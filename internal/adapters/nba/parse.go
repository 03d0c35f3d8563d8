package nba

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/Yhoqw/Kobe-Assist-Estimator-2025/internal/domain/pbp"
)

// The provider returns tabular JSON: named result sets, each a header list
// plus a row set of heterogeneous values. Rows are parsed once, here, into
// validated records with explicit defaults; nothing downstream touches the
// raw table.
type envelope struct {
	ResultSets []resultSet `json:"resultSets"`
}

type resultSet struct {
	Name    string   `json:"name"`
	Headers []string `json:"headers"`
	RowSet  [][]any  `json:"rowSet"`
}

func decodeEnvelope(r io.Reader) (*envelope, error) {
	var env envelope
	if err := json.NewDecoder(r).Decode(&env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(env.ResultSets) == 0 {
		return nil, fmt.Errorf("%w: no result sets", ErrMalformedResponse)
	}
	return &env, nil
}

// columns resolves header names to row indexes for one result set.
func (rs *resultSet) columns(names ...string) (map[string]int, error) {
	idx := make(map[string]int, len(rs.Headers))
	for i, h := range rs.Headers {
		idx[h] = i
	}
	out := make(map[string]int, len(names))
	for _, name := range names {
		i, ok := idx[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
		out[name] = i
	}
	return out, nil
}

func parsePlayByPlay(env *envelope) ([]pbp.Event, error) {
	rs := env.ResultSets[0]
	cols, err := rs.columns("EVENTMSGTYPE", "PLAYER1_TEAM_ID", "PLAYER1_NAME",
		"HOMEDESCRIPTION", "VISITORDESCRIPTION")
	if err != nil {
		return nil, err
	}

	events := make([]pbp.Event, 0, len(rs.RowSet))
	for _, row := range rs.RowSet {
		events = append(events, pbp.Event{
			Type:               pbp.EventType(cellInt(row, cols["EVENTMSGTYPE"])),
			TeamID:             cellInt(row, cols["PLAYER1_TEAM_ID"]),
			PlayerName:         cellString(row, cols["PLAYER1_NAME"]),
			HomeDescription:    cellString(row, cols["HOMEDESCRIPTION"]),
			VisitorDescription: cellString(row, cols["VISITORDESCRIPTION"]),
		})
	}
	return events, nil
}

func parseGameLog(env *envelope) ([]string, error) {
	rs := env.ResultSets[0]
	cols, err := rs.columns("Game_ID")
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(rs.RowSet))
	for _, row := range rs.RowSet {
		if id := cellString(row, cols["Game_ID"]); id != "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func parsePlayers(env *envelope) ([]Player, error) {
	rs := env.ResultSets[0]
	cols, err := rs.columns("PLAYER_ID", "PLAYER_NAME", "GP")
	if err != nil {
		return nil, err
	}

	players := make([]Player, 0, len(rs.RowSet))
	for _, row := range rs.RowSet {
		players = append(players, Player{
			ID:          cellInt(row, cols["PLAYER_ID"]),
			Name:        cellString(row, cols["PLAYER_NAME"]),
			GamesPlayed: cellInt(row, cols["GP"]),
		})
	}
	return players, nil
}

// cellInt reads a numeric cell, defaulting to zero for nulls and
// out-of-range indexes. The provider encodes numbers as JSON floats.
func cellInt(row []any, i int) int {
	if i < 0 || i >= len(row) {
		return 0
	}
	switch v := row[i].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case string:
		// Some feeds quote ids; tolerate digits-only strings.
		n := 0
		for _, r := range v {
			if r < '0' || r > '9' {
				return 0
			}
			n = n*10 + int(r-'0')
		}
		return n
	default:
		return 0
	}
}

// cellString reads a text cell, defaulting to empty for nulls.
func cellString(row []any, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	if s, ok := row[i].(string); ok {
		return s
	}
	return ""
}
