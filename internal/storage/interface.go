package storage

import (
	"context"

	"github.com/mcoot/chessarchive/internal/model"
)

// Storage defines the interface for the persistent archive cache.
// Records are opaque JSON blobs exactly as the remote returned them.
// Get operations return model.ErrNotFound on a miss.
type Storage interface {
	// Player archive index operations
	GetPlayerIndex(ctx context.Context, player string) ([]byte, error)
	SavePlayerIndex(ctx context.Context, player string, data []byte) error

	// Month archive operations
	GetMonthArchive(ctx context.Context, key model.MonthKey) ([]byte, error)
	SaveMonthArchive(ctx context.Context, key model.MonthKey, data []byte) error
	ListMonths(ctx context.Context, player string) ([]model.MonthKey, error)

	Close() error
}

// Locker is implemented by backends shared between processes. Lock blocks
// until the named lock is held or ctx is done.
type Locker interface {
	Lock(ctx context.Context, name string) (unlock func(), err error)
}
