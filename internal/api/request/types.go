package request

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mcoot/chessarchive/internal/model"
	"github.com/mcoot/chessarchive/internal/services/filter"
	"github.com/mcoot/chessarchive/internal/services/scanner"
)

// DefaultCount is the number of games returned by a recent query
const DefaultCount = 100

// MaxCount bounds the count and max_scanned of a recent query
const MaxCount = 100_000

// View names
const (
	ViewFull   = "full"
	ViewSimple = "simple"
)

// GameQuery holds the parameters shared by game queries
type GameQuery struct {
	TimeClass      model.TimeClass
	CorrectRatings bool
	Criteria       filter.Criteria
	View           string
}

// Options converts the query into scanner options. The time class is
// applied by the scanner, not by the predicate.
func (q GameQuery) Options() scanner.Options {
	opts := scanner.Options{
		TimeClass:      q.TimeClass,
		CorrectRatings: q.CorrectRatings,
	}
	if !q.Criteria.IsZero() {
		opts.Predicate = q.Criteria.Build()
	}
	return opts
}

// RecentQuery holds parameters for GET /players/{player}/games/recent
type RecentQuery struct {
	GameQuery
	Count      int
	MaxScanned int
}

// Options converts the query into scanner options
func (q RecentQuery) Options() scanner.Options {
	opts := q.GameQuery.Options()
	opts.MaxScanned = q.MaxScanned
	return opts
}

// BetweenQuery holds parameters for GET /players/{player}/games/between
type BetweenQuery struct {
	GameQuery
	Start int64
	End   int64
}

// ParseRecent parses recent query parameters
func ParseRecent(v url.Values) (RecentQuery, error) {
	gq, err := ParseGameQuery(v)
	if err != nil {
		return RecentQuery{}, err
	}
	q := RecentQuery{GameQuery: gq}

	if q.Count, err = intParam(v, "count", DefaultCount); err != nil {
		return RecentQuery{}, err
	}
	if q.Count < 1 || q.Count > MaxCount {
		return RecentQuery{}, fmt.Errorf("count must be between 1 and %d", MaxCount)
	}
	if q.MaxScanned, err = intParam(v, "max_scanned", 0); err != nil {
		return RecentQuery{}, err
	}
	if q.MaxScanned < 0 || q.MaxScanned > MaxCount*10 {
		return RecentQuery{}, fmt.Errorf("max_scanned must be between 0 and %d", MaxCount*10)
	}
	return q, nil
}

// ParseBetween parses between query parameters. end defaults to now and
// start to the epoch.
func ParseBetween(v url.Values, now time.Time) (BetweenQuery, error) {
	gq, err := ParseGameQuery(v)
	if err != nil {
		return BetweenQuery{}, err
	}
	q := BetweenQuery{GameQuery: gq, End: now.Unix()}

	if s := v.Get("start"); s != "" {
		if q.Start, err = ParseTimestamp(s); err != nil {
			return BetweenQuery{}, fmt.Errorf("start: %w", err)
		}
	}
	if s := v.Get("end"); s != "" {
		if q.End, err = ParseTimestamp(s); err != nil {
			return BetweenQuery{}, fmt.Errorf("end: %w", err)
		}
	}
	return q, nil
}

// ParseGameQuery parses the filter and view parameters
func ParseGameQuery(v url.Values) (GameQuery, error) {
	var q GameQuery
	var err error

	q.TimeClass = model.TimeClass(strings.ToLower(v.Get("time_class")))
	q.Criteria.Rules = v.Get("rules")

	if q.CorrectRatings, err = boolParam(v, "correct_ratings"); err != nil {
		return GameQuery{}, err
	}
	if q.Criteria.DecisiveOnly, err = boolParam(v, "decisive"); err != nil {
		return GameQuery{}, err
	}
	if q.Criteria.Rated, err = optionalBool(v, "rated"); err != nil {
		return GameQuery{}, err
	}
	if q.Criteria.HasAccuracies, err = optionalBool(v, "has_accuracies"); err != nil {
		return GameQuery{}, err
	}
	if s := v.Get("max_rating_diff"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return GameQuery{}, errors.New("max_rating_diff must be a non-negative integer")
		}
		q.Criteria.MaxRatingDiff = &n
	}

	switch view := v.Get("view"); view {
	case "", ViewFull:
		q.View = ViewFull
	case ViewSimple:
		q.View = ViewSimple
	default:
		return GameQuery{}, fmt.Errorf("view must be %q or %q", ViewFull, ViewSimple)
	}
	return q, nil
}

// ParseTimestamp accepts unix seconds, RFC 3339 or a YYYY-MM-DD date (UTC)
func ParseTimestamp(s string) (int64, error) {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Unix(), nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t.Unix(), nil
	}
	return 0, fmt.Errorf("%q is not a unix timestamp, RFC 3339 time or date", s)
}

func intParam(v url.Values, name string, def int) (int, error) {
	s := v.Get(name)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	return n, nil
}

func boolParam(v url.Values, name string) (bool, error) {
	b, err := optionalBool(v, name)
	if err != nil || b == nil {
		return false, err
	}
	return *b, nil
}

func optionalBool(v url.Values, name string) (*bool, error) {
	s := v.Get(name)
	if s == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return nil, fmt.Errorf("%s must be true or false", name)
	}
	return &b, nil
}
