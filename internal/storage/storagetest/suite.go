// Package storagetest holds the behaviour every storage backend must share.
package storagetest

import (
	"context"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/wordmaster/internal/model"
	"github.com/mcoot/wordmaster/internal/storage"
)

// Suite runs against the Storage returned by NewStorage, called once per test
type Suite struct {
	suite.Suite
	NewStorage func() storage.Storage

	Storage storage.Storage
	Ctx     context.Context
}

func (s *Suite) SetupTest() {
	s.Storage = s.NewStorage()
	s.Ctx = context.Background()
}

func (s *Suite) TearDownTest() {
	if s.Storage != nil {
		_ = s.Storage.Close()
	}
}

func (s *Suite) record(name, data string) *model.GameRecord {
	return &model.GameRecord{
		Name:    name,
		Data:    []byte(data),
		SavedAt: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (s *Suite) TestSaveAndGetGame() {
	s.Require().NoError(s.Storage.SaveGame(s.Ctx, s.record("first", `{"pointer":1}`)))

	got, err := s.Storage.GetGame(s.Ctx, "first")
	s.Require().NoError(err)
	s.Equal("first", got.Name)
	s.JSONEq(`{"pointer":1}`, string(got.Data))
	s.True(got.SavedAt.Equal(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)))
}

func (s *Suite) TestSaveGameOverwrites() {
	s.Require().NoError(s.Storage.SaveGame(s.Ctx, s.record("slot", `{"pointer":1}`)))
	s.Require().NoError(s.Storage.SaveGame(s.Ctx, s.record("slot", `{"pointer":2}`)))

	got, err := s.Storage.GetGame(s.Ctx, "slot")
	s.Require().NoError(err)
	s.JSONEq(`{"pointer":2}`, string(got.Data))
}

func (s *Suite) TestGetGameNotFound() {
	_, err := s.Storage.GetGame(s.Ctx, "missing")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *Suite) TestDeleteGame() {
	s.Require().NoError(s.Storage.SaveGame(s.Ctx, s.record("gone", `{}`)))
	s.Require().NoError(s.Storage.DeleteGame(s.Ctx, "gone"))

	_, err := s.Storage.GetGame(s.Ctx, "gone")
	s.ErrorIs(err, model.ErrGameNotFound)

	// Deleting twice is not an error
	s.NoError(s.Storage.DeleteGame(s.Ctx, "gone"))
}

func (s *Suite) TestListGamesSorted() {
	for _, name := range []string{"b", "c", "a"} {
		s.Require().NoError(s.Storage.SaveGame(s.Ctx, s.record(name, `{}`)))
	}

	names, err := s.Storage.ListGames(s.Ctx)
	s.Require().NoError(err)
	s.Equal([]string{"a", "b", "c"}, names)
}

func (s *Suite) TestDictionaryWordsPerLanguage() {
	_, err := s.Storage.GetDictionaryWords(s.Ctx, "en")
	s.ErrorIs(err, model.ErrDictionaryNotLoaded)

	s.Require().NoError(s.Storage.SaveDictionaryWords(s.Ctx, "en", []string{"cat", "at"}))
	s.Require().NoError(s.Storage.SaveDictionaryWords(s.Ctx, "ru", []string{"кот"}))

	en, err := s.Storage.GetDictionaryWords(s.Ctx, "en")
	s.Require().NoError(err)
	s.ElementsMatch([]string{"cat", "at"}, en)

	ru, err := s.Storage.GetDictionaryWords(s.Ctx, "ru")
	s.Require().NoError(err)
	s.ElementsMatch([]string{"кот"}, ru)
}

func (s *Suite) TestSaveDictionaryWordsReplaces() {
	s.Require().NoError(s.Storage.SaveDictionaryWords(s.Ctx, "en", []string{"cat", "at"}))
	s.Require().NoError(s.Storage.SaveDictionaryWords(s.Ctx, "en", []string{"dog"}))

	words, err := s.Storage.GetDictionaryWords(s.Ctx, "en")
	s.Require().NoError(err)
	s.ElementsMatch([]string{"dog"}, words)
}
