package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/chessarchive/internal/api/handler"
	"github.com/mcoot/chessarchive/internal/api/middleware"
	"github.com/mcoot/chessarchive/internal/api/response"
	"github.com/mcoot/chessarchive/internal/dependencies/clock"
	basemw "github.com/mcoot/chessarchive/internal/middleware"
	"github.com/mcoot/chessarchive/internal/services/cache"
	"github.com/mcoot/chessarchive/internal/services/scanner"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger  *slog.Logger
	Cache   *cache.Service
	Scanner *scanner.Service
	Clock   clock.Clock
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	archiveHandler := handler.NewArchiveHandler(cfg.Cache)
	gameHandler := handler.NewGameHandler(cfg.Scanner, cfg.Clock)

	// API subrouter with common middleware. Logging wraps Recovery so
	// recovered panics carry the request id.
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(basemw.Logging(cfg.Logger))
	api.Use(middleware.Recovery(cfg.Logger))

	// Player archive routes
	players := api.PathPrefix("/players/{player}").Subrouter()
	players.HandleFunc("/archives", archiveHandler.Archives).Methods(http.MethodGet)
	players.HandleFunc("/months", archiveHandler.Months).Methods(http.MethodGet)
	players.HandleFunc("/games/recent", gameHandler.Recent).Methods(http.MethodGet)
	players.HandleFunc("/games/between", gameHandler.Between).Methods(http.MethodGet)

	// Health check endpoint
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.Health{Status: "ok"})
}
