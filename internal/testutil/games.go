package testutil

import (
	"encoding/json"
	"fmt"

	"github.com/mcoot/chessarchive/internal/model"
)

// NewGame builds a rated standard game between white and black that ended at
// endTime. The returned game passes model validation.
func NewGame(white, black string, endTime int64, timeClass model.TimeClass) model.Game {
	return model.Game{
		URL:       fmt.Sprintf("https://www.chess.com/game/live/%d", endTime),
		EndTime:   endTime,
		Rated:     true,
		TimeClass: timeClass,
		Rules:     "chess",
		White:     model.Side{Username: white, Rating: 1500, Result: "win"},
		Black:     model.Side{Username: black, Rating: 1500, Result: "resigned"},
	}
}

// MonthURL returns the remote month archive URL for a player under baseURL
func MonthURL(baseURL, player string, year, month int) string {
	return fmt.Sprintf("%s/player/%s/games/%04d/%02d", baseURL, player, year, month)
}

// MustJSON marshals v and panics on failure
func MustJSON(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return data
}
