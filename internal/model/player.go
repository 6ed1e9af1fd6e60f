package model

import (
	"fmt"
	"regexp"
	"strings"
)

// playerNamePattern matches the usernames the remote issues, after lower-casing
var playerNamePattern = regexp.MustCompile(`^[a-z0-9_-]+$`)

// NormalizePlayer lower-cases a player name and checks that it is safe to use
// as a storage key.
func NormalizePlayer(name string) (string, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if !playerNamePattern.MatchString(n) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPlayerName, name)
	}
	return n, nil
}
