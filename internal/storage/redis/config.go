package redis

import "time"

// Config holds Redis connection and behavior settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	// Pool settings
	PoolSize     int
	MinIdleConns int

	// LockTTL bounds how long a crashed holder can keep a fetch lock
	LockTTL time.Duration
	// LockRetry is the polling interval while waiting for a lock
	LockRetry time.Duration
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		URL:          "redis://localhost:6379",
		PoolSize:     10,
		MinIdleConns: 2,
		LockTTL:      2 * time.Minute,
		LockRetry:    50 * time.Millisecond,
	}
}
