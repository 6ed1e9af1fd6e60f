package months_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/chessarchive/internal/model"
	"github.com/mcoot/chessarchive/internal/services/months"
	"github.com/mcoot/chessarchive/internal/testutil"
)

const base = "https://api.test/pub"

func index() []string {
	return []string{
		testutil.MonthURL(base, "alice", 2023, 11),
		testutil.MonthURL(base, "alice", 2023, 12),
		testutil.MonthURL(base, "alice", 2024, 1),
		testutil.MonthURL(base, "alice", 2024, 2),
		testutil.MonthURL(base, "alice", 2024, 3),
	}
}

func ts(year int, month time.Month, day int) int64 {
	return time.Date(year, month, day, 12, 0, 0, 0, time.UTC).Unix()
}

func TestUpToKeepsBoundaryMonth(t *testing.T) {
	got, err := months.UpTo(index(), ts(2024, time.January, 15))
	require.NoError(t, err)
	assert.Equal(t, index()[:3], got)
}

func TestFromKeepsBoundaryMonth(t *testing.T) {
	got, err := months.From(index(), ts(2024, time.January, 15))
	require.NoError(t, err)
	assert.Equal(t, index()[2:], got)
}

func TestWindow(t *testing.T) {
	got, err := months.Window(index(), ts(2023, time.December, 31), ts(2024, time.February, 1))
	require.NoError(t, err)
	assert.Equal(t, index()[1:4], got)
}

func TestWindowUsesUTC(t *testing.T) {
	// 2024-01-31 23:30 in UTC-5 is already February in UTC
	local := time.Date(2024, time.January, 31, 23, 30, 0, 0, time.FixedZone("EST", -5*3600)).Unix()

	got, err := months.Window(index(), local, local)
	require.NoError(t, err)
	assert.Equal(t, []string{testutil.MonthURL(base, "alice", 2024, 2)}, got)
}

func TestWindowOutsideIndexIsEmpty(t *testing.T) {
	got, err := months.Window(index(), ts(2020, time.January, 1), ts(2020, time.June, 1))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMalformedEntryFails(t *testing.T) {
	idx := append(index(), base+"/player/alice/games/latest")

	_, err := months.UpTo(idx, ts(2030, time.January, 1))
	assert.ErrorIs(t, err, model.ErrMalformedMonthURL)
}

func TestEmptyIndex(t *testing.T) {
	got, err := months.From(nil, 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}
