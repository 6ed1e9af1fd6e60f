package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/chessarchive/internal/model"
	"github.com/mcoot/chessarchive/internal/storage/storagetest"
)

type StorageSuite struct {
	storagetest.StorageSuite
	mini    *miniredis.Miniredis
	storage *Storage
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.LockTTL = time.Second
	cfg.LockRetry = 5 * time.Millisecond

	s.storage = NewWithClient(client, cfg)
	s.Storage = s.storage
	s.Ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

// Redis-specific tests

func (s *StorageSuite) TestRecordsHaveNoTTL() {
	key := model.MonthKey{Player: "alice", Year: 2024, Month: 1}
	s.Require().NoError(s.storage.SaveMonthArchive(s.Ctx, key, []byte(`[]`)))
	s.Require().NoError(s.storage.SavePlayerIndex(s.Ctx, "alice", []byte(`[]`)))

	s.Equal(time.Duration(0), s.mini.TTL(monthKey(key)))
	s.Equal(time.Duration(0), s.mini.TTL(indexKey("alice")))
}

func (s *StorageSuite) TestSaveMonthUpdatesIndex() {
	key := model.MonthKey{Player: "alice", Year: 2024, Month: 1}
	s.Require().NoError(s.storage.SaveMonthArchive(s.Ctx, key, []byte(`[]`)))

	isMember, err := s.mini.SIsMember(monthsForPlayerIndexKey("alice"), "2024-01")
	s.Require().NoError(err)
	s.True(isMember)
}

func (s *StorageSuite) TestKeysUseLowerCasePlayer() {
	s.Equal("chessarchive:index:alice", indexKey("alice"))
	s.Equal("chessarchive:month:alice:2024-01", monthKey(model.MonthKey{Player: "alice", Year: 2024, Month: 1}))
}

func (s *StorageSuite) TestLockExcludesSecondHolder() {
	unlock, err := s.storage.Lock(s.Ctx, "month:alice:2024-01")
	s.Require().NoError(err)

	ctx, cancel := context.WithTimeout(s.Ctx, 30*time.Millisecond)
	defer cancel()
	_, err = s.storage.Lock(ctx, "month:alice:2024-01")
	s.ErrorIs(err, context.DeadlineExceeded)

	unlock()

	unlock2, err := s.storage.Lock(s.Ctx, "month:alice:2024-01")
	s.Require().NoError(err)
	unlock2()
}

func (s *StorageSuite) TestUnlockDoesNotReleaseForeignLock() {
	unlock, err := s.storage.Lock(s.Ctx, "index:alice")
	s.Require().NoError(err)

	// Simulate expiry and takeover by another holder
	s.mini.Del(lockKey("index:alice"))
	s.Require().NoError(s.mini.Set(lockKey("index:alice"), "someone-else"))

	unlock()

	value, err := s.mini.Get(lockKey("index:alice"))
	s.Require().NoError(err)
	s.Equal("someone-else", value)
}
