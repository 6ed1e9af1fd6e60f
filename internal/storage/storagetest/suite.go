// Package storagetest holds the behaviour every storage backend must share.
package storagetest

import (
	"context"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/chessarchive/internal/model"
	"github.com/mcoot/chessarchive/internal/storage"
)

// StorageSuite runs the common storage contract against a backend.
// Embed it and set Storage in SetupTest.
type StorageSuite struct {
	suite.Suite
	Storage storage.Storage
	Ctx     context.Context
}

// Player archive index tests

func (s *StorageSuite) TestSaveAndGetPlayerIndex() {
	data := []byte(`["https://api.chess.com/pub/player/alice/games/2024/01"]`)

	err := s.Storage.SavePlayerIndex(s.Ctx, "alice", data)
	s.Require().NoError(err)

	retrieved, err := s.Storage.GetPlayerIndex(s.Ctx, "alice")
	s.Require().NoError(err)
	s.Equal(data, retrieved)
}

func (s *StorageSuite) TestGetPlayerIndexNotFound() {
	_, err := s.Storage.GetPlayerIndex(s.Ctx, "nobody")
	s.ErrorIs(err, model.ErrNotFound)
}

func (s *StorageSuite) TestSavePlayerIndexOverwrites() {
	s.Require().NoError(s.Storage.SavePlayerIndex(s.Ctx, "alice", []byte(`{broken`)))
	s.Require().NoError(s.Storage.SavePlayerIndex(s.Ctx, "alice", []byte(`[]`)))

	retrieved, err := s.Storage.GetPlayerIndex(s.Ctx, "alice")
	s.Require().NoError(err)
	s.Equal([]byte(`[]`), retrieved)
}

func (s *StorageSuite) TestReturnedBytesAreCopies() {
	data := []byte(`["a"]`)
	s.Require().NoError(s.Storage.SavePlayerIndex(s.Ctx, "alice", data))
	data[2] = 'b'

	retrieved, err := s.Storage.GetPlayerIndex(s.Ctx, "alice")
	s.Require().NoError(err)
	s.Equal([]byte(`["a"]`), retrieved)
}

// Month archive tests

func (s *StorageSuite) TestSaveAndGetMonthArchive() {
	key := model.MonthKey{Player: "alice", Year: 2024, Month: 1}
	data := []byte(`[{"url":"u1","end_time":100}]`)

	err := s.Storage.SaveMonthArchive(s.Ctx, key, data)
	s.Require().NoError(err)

	retrieved, err := s.Storage.GetMonthArchive(s.Ctx, key)
	s.Require().NoError(err)
	s.Equal(data, retrieved)
}

func (s *StorageSuite) TestGetMonthArchiveNotFound() {
	_, err := s.Storage.GetMonthArchive(s.Ctx, model.MonthKey{Player: "alice", Year: 2024, Month: 1})
	s.ErrorIs(err, model.ErrNotFound)
}

func (s *StorageSuite) TestMonthArchivesArePerPlayer() {
	aliceJan := model.MonthKey{Player: "alice", Year: 2024, Month: 1}
	bobJan := model.MonthKey{Player: "bob", Year: 2024, Month: 1}

	s.Require().NoError(s.Storage.SaveMonthArchive(s.Ctx, aliceJan, []byte(`["alice"]`)))
	s.Require().NoError(s.Storage.SaveMonthArchive(s.Ctx, bobJan, []byte(`["bob"]`)))

	retrieved, err := s.Storage.GetMonthArchive(s.Ctx, bobJan)
	s.Require().NoError(err)
	s.Equal([]byte(`["bob"]`), retrieved)
}

func (s *StorageSuite) TestListMonths() {
	keys := []model.MonthKey{
		{Player: "alice", Year: 2024, Month: 2},
		{Player: "alice", Year: 2023, Month: 11},
		{Player: "alice", Year: 2024, Month: 1},
		{Player: "bob", Year: 2024, Month: 3},
	}
	for _, key := range keys {
		s.Require().NoError(s.Storage.SaveMonthArchive(s.Ctx, key, []byte(`[]`)))
	}

	months, err := s.Storage.ListMonths(s.Ctx, "alice")
	s.Require().NoError(err)
	s.Equal([]model.MonthKey{
		{Player: "alice", Year: 2023, Month: 11},
		{Player: "alice", Year: 2024, Month: 1},
		{Player: "alice", Year: 2024, Month: 2},
	}, months)
}

func (s *StorageSuite) TestListMonthsEmpty() {
	months, err := s.Storage.ListMonths(s.Ctx, "nobody")
	s.Require().NoError(err)
	s.Empty(months)
}
