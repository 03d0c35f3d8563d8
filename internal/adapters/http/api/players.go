// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
)

// PlayerDependencies defines the interface for roster queries.
type PlayerDependencies interface {
	Players(ctx context.Context, season string) ([]Player, error)
}

// PlayersHandler handles season roster requests.
type PlayersHandler struct {
	deps PlayerDependencies
}

// NewPlayersHandler creates a new players handler.
func NewPlayersHandler(deps PlayerDependencies) *PlayersHandler {
	return &PlayersHandler{deps: deps}
}

// HandleGetPlayers handles GET /players?season=S requests.
func (h *PlayersHandler) HandleGetPlayers(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_players"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	season := r.URL.Query().Get("season")
	if !validSeason(season) {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	players, err := h.deps.Players(r.Context(), season)
	if err != nil {
		writeError(w, http.StatusBadGateway, "upstream_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, players)
}
