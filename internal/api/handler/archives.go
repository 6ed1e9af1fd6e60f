package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/chessarchive/internal/api/response"
	"github.com/mcoot/chessarchive/internal/model"
	"github.com/mcoot/chessarchive/internal/services/cache"
)

// ArchiveHandler handles archive index endpoints
type ArchiveHandler struct {
	cache *cache.Service
}

// NewArchiveHandler creates a new archive handler
func NewArchiveHandler(cache *cache.Service) *ArchiveHandler {
	return &ArchiveHandler{
		cache: cache,
	}
}

// Archives handles GET /api/v1/players/{player}/archives
func (h *ArchiveHandler) Archives(w http.ResponseWriter, r *http.Request) {
	player, ok := playerVar(w, r)
	if !ok {
		return
	}

	urls, err := h.cache.PlayerIndex(r.Context(), player)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.Archives{Player: player, Archives: urls})
}

// Months handles GET /api/v1/players/{player}/months
func (h *ArchiveHandler) Months(w http.ResponseWriter, r *http.Request) {
	player, ok := playerVar(w, r)
	if !ok {
		return
	}

	keys, err := h.cache.CachedMonths(r.Context(), player)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.MonthsFromModel(player, keys))
}

// playerVar reads and normalises the {player} path variable, writing a 400
// when it is not a valid name.
func playerVar(w http.ResponseWriter, r *http.Request) (string, bool) {
	player, err := model.NormalizePlayer(mux.Vars(r)["player"])
	if err != nil {
		WriteError(w, err)
		return "", false
	}
	return player, true
}
