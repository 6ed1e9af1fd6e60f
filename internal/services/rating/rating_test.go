package rating_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/chessarchive/internal/model"
	"github.com/mcoot/chessarchive/internal/services/rating"
	"github.com/mcoot/chessarchive/internal/testutil"
)

// played builds a game for alice with the given post-game ratings.
// result is alice's outcome.
func played(endTime int64, asWhite bool, own, opp int, result model.Result) model.Game {
	g := testutil.NewGame("alice", "bob", endTime, model.TimeClassRapid)
	if !asWhite {
		g.White.Username, g.Black.Username = "bob", "alice"
	}
	aliceSide, bobSide, _ := g.Sides("alice")
	aliceSide.Rating, bobSide.Rating = own, opp
	switch result {
	case model.ResultWin:
		aliceSide.Result, bobSide.Result = "win", "resigned"
	case model.ResultLoss:
		aliceSide.Result, bobSide.Result = "timeout", "win"
	default:
		aliceSide.Result, bobSide.Result = "agreed", "agreed"
	}
	return g
}

func ratings(t *testing.T, games []model.Game) []model.Ratings {
	t.Helper()
	out := make([]model.Ratings, len(games))
	for i := range games {
		r, err := games[i].Ratings("alice")
		require.NoError(t, err)
		out[i] = r
	}
	return out
}

func TestReconstruct(t *testing.T) {
	games := []model.Game{
		played(1, true, 1500, 1400, model.ResultWin),
		played(2, false, 1510, 1600, model.ResultWin),
		played(3, true, 1502, 1450, model.ResultLoss),
		played(4, false, 1515, 1520, model.ResultWin),
	}

	summary, err := rating.Reconstruct(games, "alice")
	require.NoError(t, err)

	assert.Equal(t, []model.Ratings{
		{Player: 1490, Opponent: 1410},
		{Player: 1500, Opponent: 1610},
		{Player: 1510, Opponent: 1442},
		{Player: 1502, Opponent: 1533},
	}, ratings(t, games))
	assert.Equal(t, 4, summary.Corrected)
	assert.InDelta(t, 31.0/3.0, summary.MeanAbsChange, 1e-9)
	assert.Equal(t, 10, summary.FirstGameEstimate)
}

func TestPlayerRatingCarriesOverFromPreviousGame(t *testing.T) {
	games := []model.Game{
		played(1, true, 1200, 1200, model.ResultDraw),
		played(2, true, 1188, 1230, model.ResultLoss),
		played(3, false, 1199, 1100, model.ResultWin),
		played(4, true, 1199, 1199, model.ResultDraw),
		played(5, false, 1214, 1300, model.ResultWin),
	}
	before := ratings(t, games)

	_, err := rating.Reconstruct(games, "alice")
	require.NoError(t, err)

	after := ratings(t, games)
	for i := 1; i < len(games); i++ {
		assert.Equal(t, before[i-1].Player, after[i].Player, "game %d", i)
		change := before[i].Player - before[i-1].Player
		assert.Equal(t, before[i].Opponent+change, after[i].Opponent, "game %d", i)
	}
}

func TestFirstGameLossMovesUp(t *testing.T) {
	games := []model.Game{
		played(1, false, 1300, 1320, model.ResultLoss),
		played(2, true, 1306, 1290, model.ResultWin),
	}

	_, err := rating.Reconstruct(games, "alice")
	require.NoError(t, err)

	first := ratings(t, games)[0]
	assert.Equal(t, model.Ratings{Player: 1306, Opponent: 1314}, first)
}

func TestFirstGameDrawIsUnchanged(t *testing.T) {
	games := []model.Game{
		played(1, true, 1300, 1320, model.ResultDraw),
		played(2, true, 1306, 1290, model.ResultWin),
	}

	summary, err := rating.Reconstruct(games, "alice")
	require.NoError(t, err)

	assert.Equal(t, model.Ratings{Player: 1300, Opponent: 1320}, ratings(t, games)[0])
	assert.Equal(t, 1, summary.Corrected)
	assert.Zero(t, summary.FirstGameEstimate)
}

func TestFewerThanTwoGamesUnchanged(t *testing.T) {
	games := []model.Game{played(1, true, 1300, 1320, model.ResultWin)}

	summary, err := rating.Reconstruct(games, "alice")
	require.NoError(t, err)
	assert.Equal(t, model.Ratings{Player: 1300, Opponent: 1320}, ratings(t, games)[0])
	assert.Zero(t, summary.Corrected)

	_, err = rating.Reconstruct(nil, "alice")
	assert.NoError(t, err)
}

func TestCaseInsensitivePlayer(t *testing.T) {
	games := []model.Game{
		played(1, true, 1500, 1400, model.ResultWin),
		played(2, true, 1510, 1400, model.ResultWin),
	}

	_, err := rating.Reconstruct(games, "ALICE")
	require.NoError(t, err)
	assert.Equal(t, 1500, ratings(t, games)[1].Player)
}

func TestForeignGameFailsBeforeMutation(t *testing.T) {
	games := []model.Game{
		played(1, true, 1500, 1400, model.ResultWin),
		played(2, true, 1510, 1400, model.ResultWin),
		testutil.NewGame("carol", "dave", 3, model.TimeClassRapid),
	}
	before := ratings(t, games[:2])

	_, err := rating.Reconstruct(games, "alice")
	assert.ErrorIs(t, err, model.ErrPlayerNotInGame)
	assert.Equal(t, before, ratings(t, games[:2]))
}
