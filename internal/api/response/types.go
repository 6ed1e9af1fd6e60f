package response

import (
	"github.com/mcoot/chessarchive/internal/model"
)

// Archives is the response for a player's archive index
type Archives struct {
	Player   string   `json:"player"`
	Archives []string `json:"archives"`
}

// Months is the response for a player's cached months
type Months struct {
	Player string   `json:"player"`
	Months []string `json:"months"`
}

// MonthsFromModel renders month keys as YYYY-MM periods
func MonthsFromModel(player string, keys []model.MonthKey) Months {
	periods := make([]string, len(keys))
	for i, k := range keys {
		periods[i] = k.Period()
	}
	return Months{Player: player, Months: periods}
}

// Games is the response for game queries. Games holds either full games
// or their simple projection.
type Games struct {
	Player string `json:"player"`
	Count  int    `json:"count"`
	Games  any    `json:"games"`
}

// GamesFromModel builds a Games response, projecting when simple is set
func GamesFromModel(player string, games []model.Game, simple bool) Games {
	resp := Games{Player: player, Count: len(games), Games: games}
	if simple {
		resp.Games = Simplify(games)
	}
	return resp
}

// Simplify projects each game to its compact form
func Simplify(games []model.Game) []model.SimpleGame {
	out := make([]model.SimpleGame, len(games))
	for i := range games {
		out[i] = games[i].Simplify()
	}
	return out
}

// Health is the response for the health check
type Health struct {
	Status string `json:"status"`
}
