package model

import (
	"fmt"
	"strings"
	"time"
)

// TimeClass is the speed category the remote assigns to a game
type TimeClass string

const (
	TimeClassBullet TimeClass = "bullet"
	TimeClassBlitz  TimeClass = "blitz"
	TimeClassRapid  TimeClass = "rapid"
	TimeClassDaily  TimeClass = "daily"
)

// Color is the side a player had in a game
type Color string

const (
	ColorWhite Color = "white"
	ColorBlack Color = "black"
)

// Result is a game outcome from one player's perspective
type Result string

const (
	ResultWin  Result = "win"
	ResultLoss Result = "loss"
	ResultDraw Result = "draw"
)

// resultWin is the only side result the remote uses for a victory
const resultWin = "win"

// Side is one player's entry in a game
type Side struct {
	Username string `json:"username"`
	Rating   int    `json:"rating"`
	Result   string `json:"result"`
	ID       string `json:"@id,omitempty"`
	UUID     string `json:"uuid,omitempty"`
}

// Won returns true if this side won the game
func (s Side) Won() bool {
	return s.Result == resultWin
}

// Accuracies holds the per-side accuracy scores, present only for analysed games
type Accuracies struct {
	White float64 `json:"white"`
	Black float64 `json:"black"`
}

// Game is a single completed game as published in a month archive
type Game struct {
	URL          string      `json:"url"`
	PGN          string      `json:"pgn,omitempty"`
	TimeControl  string      `json:"time_control,omitempty"`
	StartTime    int64       `json:"start_time,omitempty"`
	EndTime      int64       `json:"end_time"`
	Rated        bool        `json:"rated"`
	Accuracies   *Accuracies `json:"accuracies,omitempty"`
	TCN          string      `json:"tcn,omitempty"`
	UUID         string      `json:"uuid,omitempty"`
	InitialSetup string      `json:"initial_setup,omitempty"`
	FEN          string      `json:"fen,omitempty"`
	TimeClass    TimeClass   `json:"time_class"`
	Rules        string      `json:"rules"`
	ECO          string      `json:"eco,omitempty"`
	Tournament   string      `json:"tournament,omitempty"`
	Match        string      `json:"match,omitempty"`
	White        Side        `json:"white"`
	Black        Side        `json:"black"`
}

// Validate checks the fields every downstream consumer relies on
func (g *Game) Validate() error {
	switch {
	case g.URL == "":
		return fmt.Errorf("%w: game without url", ErrInvalidRecord)
	case g.EndTime <= 0:
		return fmt.Errorf("%w: game %s has no end_time", ErrInvalidRecord, g.URL)
	case g.White.Username == "" || g.Black.Username == "":
		return fmt.Errorf("%w: game %s is missing a username", ErrInvalidRecord, g.URL)
	}
	return nil
}

// EndedAt returns the end time as a UTC time
func (g *Game) EndedAt() time.Time {
	return time.Unix(g.EndTime, 0).UTC()
}

// Sides returns pointers to the player's side and the opponent's side
func (g *Game) Sides(player string) (*Side, *Side, error) {
	switch {
	case strings.EqualFold(g.White.Username, player):
		return &g.White, &g.Black, nil
	case strings.EqualFold(g.Black.Username, player):
		return &g.Black, &g.White, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q in %s", ErrPlayerNotInGame, player, g.URL)
	}
}

// Color returns which side the player had
func (g *Game) Color(player string) (Color, error) {
	own, _, err := g.Sides(player)
	if err != nil {
		return "", err
	}
	if own == &g.White {
		return ColorWhite, nil
	}
	return ColorBlack, nil
}

// Opponent returns the username of the other side
func (g *Game) Opponent(player string) (string, error) {
	_, opp, err := g.Sides(player)
	if err != nil {
		return "", err
	}
	return opp.Username, nil
}

// Ratings holds a rating pair from one player's perspective
type Ratings struct {
	Player   int `json:"player"`
	Opponent int `json:"opponent"`
}

// Ratings returns the player's and opponent's ratings as stored in the game
func (g *Game) Ratings(player string) (Ratings, error) {
	own, opp, err := g.Sides(player)
	if err != nil {
		return Ratings{}, err
	}
	return Ratings{Player: own.Rating, Opponent: opp.Rating}, nil
}

// Accuracy holds an accuracy pair from one player's perspective
type Accuracy struct {
	Player   float64 `json:"player"`
	Opponent float64 `json:"opponent"`
}

// AccuracyOf returns the accuracies for the player and opponent
func (g *Game) AccuracyOf(player string) (Accuracy, error) {
	color, err := g.Color(player)
	if err != nil {
		return Accuracy{}, err
	}
	if g.Accuracies == nil {
		return Accuracy{}, fmt.Errorf("%w: %s", ErrAccuraciesUnavailable, g.URL)
	}
	if color == ColorWhite {
		return Accuracy{Player: g.Accuracies.White, Opponent: g.Accuracies.Black}, nil
	}
	return Accuracy{Player: g.Accuracies.Black, Opponent: g.Accuracies.White}, nil
}

// ResultFor returns the outcome from the player's perspective.
// Any game where neither side has a "win" result is a draw.
func (g *Game) ResultFor(player string) (Result, error) {
	own, opp, err := g.Sides(player)
	if err != nil {
		return "", err
	}
	switch {
	case own.Won():
		return ResultWin, nil
	case opp.Won():
		return ResultLoss, nil
	default:
		return ResultDraw, nil
	}
}

// IsDecisive returns true if one of the sides won
func (g *Game) IsDecisive() bool {
	return g.White.Won() || g.Black.Won()
}

// RatingDiff returns the absolute rating difference between the sides
func (g *Game) RatingDiff() int {
	d := g.White.Rating - g.Black.Rating
	if d < 0 {
		return -d
	}
	return d
}

// SimpleSide is the compact projection of a Side
type SimpleSide struct {
	Username string `json:"username"`
	Rating   int    `json:"rating"`
	Result   string `json:"result"`
}

// SimpleGame is the compact projection of a Game for external consumers
type SimpleGame struct {
	URL       string     `json:"url"`
	EndTime   int64      `json:"end_time"`
	Date      string     `json:"date"`
	Rated     bool       `json:"rated"`
	TimeClass TimeClass  `json:"time_class"`
	White     SimpleSide `json:"white"`
	Black     SimpleSide `json:"black"`
}

// Simplify returns the compact projection of the game
func (g *Game) Simplify() SimpleGame {
	return SimpleGame{
		URL:       g.URL,
		EndTime:   g.EndTime,
		Date:      g.EndedAt().Format(time.DateOnly),
		Rated:     g.Rated,
		TimeClass: g.TimeClass,
		White:     SimpleSide{Username: g.White.Username, Rating: g.White.Rating, Result: g.White.Result},
		Black:     SimpleSide{Username: g.Black.Username, Rating: g.Black.Rating, Result: g.Black.Result},
	}
}
