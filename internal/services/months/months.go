// Package months narrows a player's archive index to the months that can
// contain games in a time range. Selection is by calendar month in UTC, so
// boundary months are always kept and individual games must be re-checked.
package months

import (
	"github.com/mcoot/chessarchive/internal/model"
)

// UpTo keeps the entries whose month is not after the month containing ts
func UpTo(index []string, ts int64) ([]string, error) {
	limit := model.MonthOf("", ts)
	return keep(index, func(k model.MonthKey) bool { return k.Compare(limit) <= 0 })
}

// From keeps the entries whose month is not before the month containing ts
func From(index []string, ts int64) ([]string, error) {
	limit := model.MonthOf("", ts)
	return keep(index, func(k model.MonthKey) bool { return k.Compare(limit) >= 0 })
}

// Window keeps the entries whose month overlaps [start, end]
func Window(index []string, start, end int64) ([]string, error) {
	upTo, err := UpTo(index, end)
	if err != nil {
		return nil, err
	}
	return From(upTo, start)
}

// keep preserves input order. A malformed URL fails the whole selection.
func keep(index []string, pred func(model.MonthKey) bool) ([]string, error) {
	out := make([]string, 0, len(index))
	for _, u := range index {
		k, err := model.ParseMonthURL(u)
		if err != nil {
			return nil, err
		}
		if pred(k) {
			out = append(out, u)
		}
	}
	return out, nil
}
