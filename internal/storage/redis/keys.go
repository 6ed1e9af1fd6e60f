package redis

import (
	"fmt"

	"github.com/mcoot/chessarchive/internal/model"
)

// Key prefix for all archive data
const keyPrefix = "chessarchive"

// Key generation functions for each record type

// indexKey returns the Redis key for a player's month-URL list
func indexKey(player string) string {
	return fmt.Sprintf("%s:index:%s", keyPrefix, player)
}

// monthKey returns the Redis key for one month archive
func monthKey(key model.MonthKey) string {
	return fmt.Sprintf("%s:month:%s:%s", keyPrefix, key.Player, key.Period())
}

// monthsForPlayerIndexKey returns the Redis key for the SET of cached periods for a player
func monthsForPlayerIndexKey(player string) string {
	return fmt.Sprintf("%s:idx:months:%s", keyPrefix, player)
}

// lockKey returns the Redis key for a named fetch lock
func lockKey(name string) string {
	return fmt.Sprintf("%s:lock:%s", keyPrefix, name)
}
