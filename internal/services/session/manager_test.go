package session_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/wordmaster/internal/dependencies/mocks"
	"github.com/mcoot/wordmaster/internal/model"
	"github.com/mcoot/wordmaster/internal/services/bot"
	"github.com/mcoot/wordmaster/internal/services/dictionary"
	"github.com/mcoot/wordmaster/internal/services/game"
	"github.com/mcoot/wordmaster/internal/services/session"
	"github.com/mcoot/wordmaster/internal/storage/memory"
	"github.com/mcoot/wordmaster/internal/testutil"
)

type ManagerSuite struct {
	suite.Suite
	store      *memory.Storage
	mockClock  *mocks.MockClock
	mockRandom *mocks.MockRandom
	manager    *session.Manager
	ctx        context.Context
}

func TestManagerSuite(t *testing.T) {
	suite.Run(t, new(ManagerSuite))
}

func (s *ManagerSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memory.New()
	s.mockClock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.mockRandom = mocks.NewMockRandom()
	logger := testutil.NopLogger()

	dicts := dictionary.NewCache(logger)
	dicts.Register("en", dictionary.StaticSource{"cat", "cats", "dog", "tab", "at"})
	s.Require().NoError(dicts.Preload(s.ctx, "en"))

	bots := bot.NewService(bot.DefaultConfig(), bot.NewTieredStrategies(model.DefaultDifficulties(), s.mockRandom), s.mockClock, logger)

	cfg := session.DefaultConfig()
	cfg.Game = game.Config{Width: 3, Height: 3, UndoStep: 2}
	s.manager = session.NewManager(cfg, dicts, s.store, bots, s.mockClock, s.mockRandom, logger)
	s.T().Cleanup(s.manager.Close)
}

func (s *ManagerSuite) humans() []model.Participant {
	return []model.Participant{{Name: "alice"}, {Name: "bob"}}
}

func (s *ManagerSuite) create(startWord string) *session.Session {
	sess, err := s.manager.Create(s.ctx, session.CreateRequest{StartWord: startWord, Participants: s.humans()})
	s.Require().NoError(err)
	return sess
}

func (s *ManagerSuite) TestCreateAndGet() {
	s.mockRandom.QueueString("abcd2345")

	sess := s.create("cat")
	s.Equal(model.SessionID("abcd2345"), sess.ID)
	s.Equal("en", sess.Language)
	s.Equal(s.mockClock.Now(), sess.CreatedAt)
	s.Equal([]string{"...", "cat", "..."}, sess.Engine.Board().Rows())

	got, err := s.manager.Get(sess.ID)
	s.Require().NoError(err)
	s.Same(sess, got)
}

func (s *ManagerSuite) TestCreatePicksRandomStartWord() {
	// Three-letter words in order: cat, dog, tab
	s.mockRandom.QueueIntn(1)

	sess := s.create("")
	s.Equal("dog", sess.Engine.StartWord())
}

func (s *ManagerSuite) TestCreateFallsBackToShorterRandomWord() {
	sess, err := s.manager.Create(s.ctx, session.CreateRequest{Width: 5, Height: 3, Participants: s.humans()})
	s.Require().NoError(err)
	s.Equal("cats", sess.Engine.StartWord())
}

func (s *ManagerSuite) TestCreateValidation() {
	_, err := s.manager.Create(s.ctx, session.CreateRequest{StartWord: "cat"})
	s.ErrorIs(err, model.ErrNoParticipants)

	_, err = s.manager.Create(s.ctx, session.CreateRequest{Language: "fr", StartWord: "chat", Participants: s.humans()})
	s.ErrorIs(err, model.ErrUnknownLanguage)

	_, err = s.manager.Create(s.ctx, session.CreateRequest{
		StartWord:    "cat",
		Participants: []model.Participant{{Name: "robot", Autonomous: true, Difficulty: "impossible"}},
	})
	s.ErrorIs(err, model.ErrUnknownDifficulty)

	_, err = s.manager.Create(s.ctx, session.CreateRequest{StartWord: "catalogue", Participants: s.humans()})
	s.ErrorIs(err, model.ErrInvalidStartWord)
}

func (s *ManagerSuite) TestHooksSeeNewSessions() {
	var seen []model.SessionID
	s.manager.OnSession(func(sess *session.Session) { seen = append(seen, sess.ID) })

	sess := s.create("cat")
	s.Equal([]model.SessionID{sess.ID}, seen)
}

func (s *ManagerSuite) TestListOldestFirst() {
	s.mockRandom.QueueString("zzzzzzzz", "aaaaaaaa")
	first := s.create("cat")
	s.mockClock.Advance(time.Minute)
	second := s.create("dog")

	list := s.manager.List()
	s.Require().Len(list, 2)
	s.Equal(first.ID, list[0].ID)
	s.Equal(second.ID, list[1].ID)
}

func (s *ManagerSuite) TestDuplicateIDsAreAvoided() {
	s.mockRandom.QueueString("samesame", "samesame")
	first := s.create("cat")
	second := s.create("cat")
	s.NotEqual(first.ID, second.ID)
}

func (s *ManagerSuite) TestDelete() {
	sess := s.create("cat")

	s.Require().NoError(s.manager.Delete(sess.ID))

	_, err := s.manager.Get(sess.ID)
	s.ErrorIs(err, model.ErrSessionNotFound)
	s.ErrorIs(sess.Engine.GenerateMove(), model.ErrTerminated)
	s.ErrorIs(s.manager.Delete(sess.ID), model.ErrSessionNotFound)
}

func (s *ManagerSuite) TestSaveAndLoad() {
	sess := s.create("cat")
	s.Require().NoError(sess.Engine.MakeMove('s', model.Position{Row: 0, Col: 2}, model.Word{
		{Row: 1, Col: 0}, {Row: 1, Col: 1}, {Row: 1, Col: 2}, {Row: 0, Col: 2},
	}))
	sess.Engine.WaitIdle()
	s.Require().Equal(1, sess.Engine.Pointer())

	s.Require().NoError(s.manager.Save(s.ctx, sess.ID, "first"))

	record, err := s.store.GetGame(s.ctx, "first")
	s.Require().NoError(err)
	s.Equal(s.mockClock.Now(), record.SavedAt)

	names, err := s.manager.SavedGames(s.ctx)
	s.Require().NoError(err)
	s.Equal([]string{"first"}, names)

	loaded, err := s.manager.Load(s.ctx, "first", false)
	s.Require().NoError(err)
	s.NotEqual(sess.ID, loaded.ID)
	s.True(sess.Engine.Board().Equal(loaded.Engine.Board()))
	s.Equal(sess.Engine.Participants(), loaded.Engine.Participants())

	replay, err := s.manager.Load(s.ctx, "first", true)
	s.Require().NoError(err)
	s.True(replay.Engine.IsReplay())
	s.Equal(0, replay.Engine.Pointer())
	s.True(replay.Engine.CanRedo())

	s.Require().NoError(s.manager.DeleteSaved(s.ctx, "first"))
	_, err = s.manager.Load(s.ctx, "first", false)
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *ManagerSuite) TestImport() {
	sess := s.create("cat")
	s.Require().NoError(sess.Engine.MakeMove('s', model.Position{Row: 0, Col: 2}, model.Word{
		{Row: 1, Col: 0}, {Row: 1, Col: 1}, {Row: 1, Col: 2}, {Row: 0, Col: 2},
	}))
	sess.Engine.WaitIdle()

	var buf bytes.Buffer
	s.Require().NoError(sess.Engine.Save(&buf))
	data := buf.Bytes()

	imported, err := s.manager.Import(s.ctx, data, false)
	s.Require().NoError(err)
	s.Equal("en", imported.Language)
	s.Equal([]string{"cats"}, imported.Engine.Participants()[0].Words)
	s.Equal(1, imported.Engine.CurrentPlayer())

	_, err = s.manager.Import(s.ctx, []byte("{"), false)
	s.Error(err)

	foreign := strings.Replace(string(data), `"language": "en"`, `"language": "xx"`, 1)
	_, err = s.manager.Import(s.ctx, []byte(foreign), false)
	s.ErrorIs(err, model.ErrUnknownLanguage)

	var raw map[string]any
	s.Require().NoError(json.Unmarshal(data, &raw))
	raw["fingerprint"] = 1
	tampered, err := json.Marshal(raw)
	s.Require().NoError(err)
	_, err = s.manager.Import(s.ctx, tampered, false)
	s.ErrorIs(err, model.ErrVocabularyMismatch)
}

func (s *ManagerSuite) TestResumeOnlyReleasesSessionPauses() {
	sess := s.create("cat")

	s.ErrorIs(sess.Resume(), model.ErrNotPaused)

	sess.Pause()
	sess.Pause()
	s.Equal(2, sess.Paused())
	s.Require().NoError(sess.Resume())
	s.Require().NoError(sess.Resume())
	s.ErrorIs(sess.Resume(), model.ErrNotPaused)
	s.Equal(0, sess.Paused())

	// A hold taken by the engine itself survives an unmatched Resume
	sess.Engine.Pause()
	s.ErrorIs(sess.Resume(), model.ErrNotPaused)
	s.Require().NoError(sess.Engine.MakeMove('s', model.Position{Row: 0, Col: 2}, model.Word{
		{Row: 1, Col: 0}, {Row: 1, Col: 1}, {Row: 1, Col: 2}, {Row: 0, Col: 2},
	}))
	s.Never(func() bool { return sess.Engine.Pointer() > 0 }, 50*time.Millisecond, 5*time.Millisecond)

	sess.Engine.Resume()
	sess.Engine.WaitIdle()
	s.Equal(1, sess.Engine.Pointer())
}

func (s *ManagerSuite) TestSaveUnknownSession() {
	s.ErrorIs(s.manager.Save(s.ctx, "missing", "name"), model.ErrSessionNotFound)
}
