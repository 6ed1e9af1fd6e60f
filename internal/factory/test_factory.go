package factory

import (
	"time"

	"github.com/mcoot/chessarchive/internal/dependencies/mocks"
	"github.com/mcoot/chessarchive/internal/storage/memory"
	"github.com/mcoot/chessarchive/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock   *mocks.MockClock
	MockFetcher *mocks.MockFetcher
}

// NewTestApp creates an App backed by memory storage and a mock remote
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	mockFetcher := mocks.NewMockFetcher()

	app := newWithDependencies(store, mockFetcher, mockClock, 0, testutil.NopLogger())

	return &TestApp{
		App:         app,
		MockClock:   mockClock,
		MockFetcher: mockFetcher,
	}
}
