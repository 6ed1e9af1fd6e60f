package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/mcoot/chessarchive/internal/model"
	"github.com/mcoot/chessarchive/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	indexes map[string][]byte
	months  map[model.MonthKey][]byte
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		indexes: make(map[string][]byte),
		months:  make(map[model.MonthKey][]byte),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player archive index operations

func (s *Storage) GetPlayerIndex(ctx context.Context, player string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.indexes[player]
	if !ok {
		return nil, model.ErrNotFound
	}
	return slices.Clone(data), nil
}

func (s *Storage) SavePlayerIndex(ctx context.Context, player string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.indexes[player] = slices.Clone(data)
	return nil
}

// Month archive operations

func (s *Storage) GetMonthArchive(ctx context.Context, key model.MonthKey) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.months[key]
	if !ok {
		return nil, model.ErrNotFound
	}
	return slices.Clone(data), nil
}

func (s *Storage) SaveMonthArchive(ctx context.Context, key model.MonthKey, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.months[key] = slices.Clone(data)
	return nil
}

func (s *Storage) ListMonths(ctx context.Context, player string) ([]model.MonthKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]model.MonthKey, 0)
	for key := range s.months {
		if key.Player == player {
			keys = append(keys, key)
		}
	}
	slices.SortFunc(keys, model.MonthKey.Compare)
	return keys, nil
}

// Close is a no-op for in-memory storage
func (s *Storage) Close() error {
	return nil
}
