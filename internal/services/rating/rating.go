// Package rating rewrites the post-game ratings published in game archives
// into pre-game ratings.
package rating

import (
	"math"

	"github.com/mcoot/chessarchive/internal/model"
)

// Summary describes a reconstruction run
type Summary struct {
	// Corrected is the number of games whose ratings were rewritten
	Corrected int
	// MeanAbsChange is the mean absolute rating change between consecutive games
	MeanAbsChange float64
	// FirstGameEstimate is the adjustment applied to the first game
	FirstGameEstimate int
}

// Reconstruct rewrites the ratings of chronologically ordered games in place.
// Game i takes the player's rating reported for game i-1, and the opponent's
// rating shifts by the same change. The first game has no anchor, so it is
// moved by the rounded mean change in the direction of its result; draws are
// left alone. Games must all involve the player, otherwise nothing is changed.
func Reconstruct(games []model.Game, player string) (Summary, error) {
	reported := make([]model.Ratings, len(games))
	for i := range games {
		r, err := games[i].Ratings(player)
		if err != nil {
			return Summary{}, err
		}
		reported[i] = r
	}

	if len(games) < 2 {
		return Summary{}, nil
	}

	var total int
	for i := 1; i < len(games); i++ {
		change := reported[i].Player - reported[i-1].Player
		own, opp, _ := games[i].Sides(player)
		own.Rating = reported[i-1].Player
		opp.Rating = reported[i].Opponent + change
		total += abs(change)
	}

	mean := float64(total) / float64(len(games)-1)
	est := int(math.Round(mean))
	summary := Summary{Corrected: len(games) - 1, MeanAbsChange: mean}

	first := &games[0]
	own, opp, _ := first.Sides(player)
	switch {
	case own.Won():
		own.Rating -= est
		opp.Rating += est
	case opp.Won():
		own.Rating += est
		opp.Rating -= est
	default:
		return summary, nil
	}
	summary.Corrected++
	summary.FirstGameEstimate = est
	return summary, nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
