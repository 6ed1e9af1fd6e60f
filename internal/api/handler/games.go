package handler

import (
	"net/http"

	"github.com/mcoot/chessarchive/internal/api/request"
	"github.com/mcoot/chessarchive/internal/api/response"
	"github.com/mcoot/chessarchive/internal/dependencies/clock"
	"github.com/mcoot/chessarchive/internal/services/scanner"
)

// GameHandler handles game query endpoints
type GameHandler struct {
	scanner *scanner.Service
	clock   clock.Clock
}

// NewGameHandler creates a new game handler
func NewGameHandler(scanner *scanner.Service, clock clock.Clock) *GameHandler {
	return &GameHandler{
		scanner: scanner,
		clock:   clock,
	}
}

// Recent handles GET /api/v1/players/{player}/games/recent
func (h *GameHandler) Recent(w http.ResponseWriter, r *http.Request) {
	player, ok := playerVar(w, r)
	if !ok {
		return
	}

	q, err := request.ParseRecent(r.URL.Query())
	if err != nil {
		WriteError(w, NewInvalidRequestError(err.Error()))
		return
	}

	games, err := h.scanner.MostRecent(r.Context(), player, q.Count, q.Options())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GamesFromModel(player, games, q.View == request.ViewSimple))
}

// Between handles GET /api/v1/players/{player}/games/between
func (h *GameHandler) Between(w http.ResponseWriter, r *http.Request) {
	player, ok := playerVar(w, r)
	if !ok {
		return
	}

	q, err := request.ParseBetween(r.URL.Query(), h.clock.Now())
	if err != nil {
		WriteError(w, NewInvalidRequestError(err.Error()))
		return
	}

	games, err := h.scanner.Between(r.Context(), player, q.Start, q.End, q.Options())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GamesFromModel(player, games, q.View == request.ViewSimple))
}
