package model

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// monthURLPattern matches .../player/{name}/games/{YYYY}/{MM}
var monthURLPattern = regexp.MustCompile(`/player/([^/]+)/games/(\d{4})/(\d{2})/?$`)

// MonthKey identifies one player's archive for one calendar month
type MonthKey struct {
	Player string // lower-cased
	Year   int
	Month  int
}

// ParseMonthURL extracts the month key from a month archive URL
func ParseMonthURL(url string) (MonthKey, error) {
	m := monthURLPattern.FindStringSubmatch(url)
	if m == nil {
		return MonthKey{}, fmt.Errorf("%w: %q", ErrMalformedMonthURL, url)
	}

	player, err := NormalizePlayer(m[1])
	if err != nil {
		return MonthKey{}, fmt.Errorf("%w: %q: %v", ErrMalformedMonthURL, url, err)
	}
	year, _ := strconv.Atoi(m[2])
	month, _ := strconv.Atoi(m[3])
	if month < 1 || month > 12 {
		return MonthKey{}, fmt.Errorf("%w: %q: month out of range", ErrMalformedMonthURL, url)
	}

	return MonthKey{Player: player, Year: year, Month: month}, nil
}

// MonthOf returns the key for the UTC calendar month containing ts
func MonthOf(player string, ts int64) MonthKey {
	t := time.Unix(ts, 0).UTC()
	return MonthKey{Player: player, Year: t.Year(), Month: int(t.Month())}
}

// Compare orders keys by year, then month. The player is ignored.
func (k MonthKey) Compare(other MonthKey) int {
	switch {
	case k.Year < other.Year:
		return -1
	case k.Year > other.Year:
		return 1
	case k.Month < other.Month:
		return -1
	case k.Month > other.Month:
		return 1
	default:
		return 0
	}
}

// Period returns the YYYY-MM form of the key
func (k MonthKey) Period() string {
	return fmt.Sprintf("%04d-%02d", k.Year, k.Month)
}

// ParsePeriod parses a YYYY-MM period for the given player
func ParsePeriod(player, period string) (MonthKey, error) {
	t, err := time.Parse("2006-01", period)
	if err != nil {
		return MonthKey{}, fmt.Errorf("parse period %q: %w", period, err)
	}
	return MonthKey{Player: player, Year: t.Year(), Month: int(t.Month())}, nil
}

func (k MonthKey) String() string {
	return k.Player + "/" + k.Period()
}
