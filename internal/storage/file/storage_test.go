package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/chessarchive/internal/model"
	"github.com/mcoot/chessarchive/internal/storage/storagetest"
)

type StorageSuite struct {
	storagetest.StorageSuite
	root    string
	storage *Storage
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.root = s.T().TempDir()

	store, err := New(s.root)
	s.Require().NoError(err)

	s.storage = store
	s.Storage = store
	s.Ctx = context.Background()
}

// File-specific tests

func (s *StorageSuite) TestLayoutMatchesArchiveDirectories() {
	key := model.MonthKey{Player: "alice", Year: 2024, Month: 3}
	s.Require().NoError(s.storage.SavePlayerIndex(s.Ctx, "alice", []byte(`[]`)))
	s.Require().NoError(s.storage.SaveMonthArchive(s.Ctx, key, []byte(`[]`)))

	s.FileExists(filepath.Join(s.root, "archive_lists", "alice.json"))
	s.FileExists(filepath.Join(s.root, "archives", "alice", "2024", "03.json"))
}

func (s *StorageSuite) TestWriteLeavesNoTemporaryFiles() {
	key := model.MonthKey{Player: "alice", Year: 2024, Month: 3}
	s.Require().NoError(s.storage.SaveMonthArchive(s.Ctx, key, []byte(`[1]`)))
	s.Require().NoError(s.storage.SaveMonthArchive(s.Ctx, key, []byte(`[2]`)))

	entries, err := os.ReadDir(filepath.Join(s.root, "archives", "alice", "2024"))
	s.Require().NoError(err)
	s.Len(entries, 1)
	s.Equal("03.json", entries[0].Name())
}

func (s *StorageSuite) TestRejectsUnsafePlayerNames() {
	_, err := s.storage.GetPlayerIndex(s.Ctx, "../escape")
	s.ErrorIs(err, model.ErrInvalidPlayerName)

	err = s.storage.SavePlayerIndex(s.Ctx, "Alice", []byte(`[]`))
	s.ErrorIs(err, model.ErrInvalidPlayerName)

	err = s.storage.SaveMonthArchive(s.Ctx, model.MonthKey{Player: "a/b", Year: 2024, Month: 1}, []byte(`[]`))
	s.ErrorIs(err, model.ErrInvalidPlayerName)
}

func (s *StorageSuite) TestListMonthsIgnoresStrayFiles() {
	key := model.MonthKey{Player: "alice", Year: 2024, Month: 1}
	s.Require().NoError(s.storage.SaveMonthArchive(s.Ctx, key, []byte(`[]`)))

	yearDir := filepath.Join(s.root, "archives", "alice", "2024")
	s.Require().NoError(os.WriteFile(filepath.Join(yearDir, ".02.json.tmp-123"), []byte(`[`), 0o644))
	s.Require().NoError(os.WriteFile(filepath.Join(yearDir, "notes.txt"), []byte(`x`), 0o644))

	months, err := s.storage.ListMonths(s.Ctx, "alice")
	s.Require().NoError(err)
	s.Equal([]model.MonthKey{key}, months)
}

func (s *StorageSuite) TestLockExcludesSecondHolder() {
	unlock, err := s.storage.Lock(s.Ctx, "month:alice:2024-01")
	s.Require().NoError(err)

	ctx, cancel := context.WithTimeout(s.Ctx, 60*time.Millisecond)
	defer cancel()
	_, err = s.storage.Lock(ctx, "month:alice:2024-01")
	s.ErrorIs(err, context.DeadlineExceeded)

	unlock()

	unlock2, err := s.storage.Lock(s.Ctx, "month:alice:2024-01")
	s.Require().NoError(err)
	unlock2()
}

func (s *StorageSuite) TestLocksAreIndependentPerName() {
	unlockA, err := s.storage.Lock(s.Ctx, "index:alice")
	s.Require().NoError(err)
	defer unlockA()

	ctx, cancel := context.WithTimeout(s.Ctx, time.Second)
	defer cancel()
	unlockB, err := s.storage.Lock(ctx, "index:bob")
	s.Require().NoError(err)
	unlockB()
}
