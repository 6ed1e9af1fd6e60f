package mocks

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/mcoot/chessarchive/internal/model"
	"github.com/mcoot/chessarchive/internal/services/remote"
)

// MockFetcher is an in-memory remote archive that counts calls
type MockFetcher struct {
	mu      sync.Mutex
	indexes map[string][]byte
	months  map[string][]byte
	errs    map[string]error
	calls   map[string]int
	total   int

	// Gate, when set, is received from before every fetch returns
	Gate chan struct{}
}

var _ remote.Fetcher = (*MockFetcher)(nil)

// NewMockFetcher creates an empty MockFetcher
func NewMockFetcher() *MockFetcher {
	return &MockFetcher{
		indexes: make(map[string][]byte),
		months:  make(map[string][]byte),
		errs:    make(map[string]error),
		calls:   make(map[string]int),
	}
}

// SetIndex sets the archive URLs returned for a player
func (m *MockFetcher) SetIndex(player string, urls []string) {
	data, _ := json.Marshal(urls)
	m.SetRawIndex(player, data)
}

// SetRawIndex sets the raw archives list returned for a player
func (m *MockFetcher) SetRawIndex(player string, raw []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.indexes[player] = raw
}

// SetMonth sets the games returned for a month URL
func (m *MockFetcher) SetMonth(monthURL string, games []model.Game) {
	data, _ := json.Marshal(games)
	m.SetRawMonth(monthURL, data)
}

// SetRawMonth sets the raw games list returned for a month URL
func (m *MockFetcher) SetRawMonth(monthURL string, raw []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.months[monthURL] = raw
}

// SetError makes fetches for a player or month URL fail with err
func (m *MockFetcher) SetError(target string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs[target] = err
}

// Calls returns how many fetches were made for a player or month URL
func (m *MockFetcher) Calls(target string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[target]
}

// TotalCalls returns how many fetches were made overall
func (m *MockFetcher) TotalCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.total
}

// FetchPlayerIndex implements remote.Fetcher
func (m *MockFetcher) FetchPlayerIndex(ctx context.Context, player string) ([]byte, error) {
	return m.fetch(ctx, player, m.indexes)
}

// FetchMonthGames implements remote.Fetcher
func (m *MockFetcher) FetchMonthGames(ctx context.Context, monthURL string) ([]byte, error) {
	return m.fetch(ctx, monthURL, m.months)
}

func (m *MockFetcher) fetch(ctx context.Context, target string, from map[string][]byte) ([]byte, error) {
	m.mu.Lock()
	m.calls[target]++
	m.total++
	gate := m.Gate
	m.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, &model.RetrievalError{Target: target, Err: ctx.Err()}
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.errs[target]; err != nil {
		return nil, err
	}
	data, ok := from[target]
	if !ok {
		return nil, &model.RetrievalError{Target: target, StatusCode: http.StatusNotFound}
	}
	return append([]byte(nil), data...), nil
}
