package game

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/wordmaster/internal/dependencies/mocks"
	"github.com/mcoot/wordmaster/internal/model"
	"github.com/mcoot/wordmaster/internal/services/dictionary"
	"github.com/mcoot/wordmaster/internal/testutil"
)

var (
	// "cat" is seeded on the middle row of a 3x3 board
	cellS = model.Position{Row: 0, Col: 2}
	wordS = model.Word{{Row: 1, Col: 0}, {Row: 1, Col: 1}, {Row: 1, Col: 2}, cellS}

	cellB = model.Position{Row: 2, Col: 1}
	wordB = model.Word{{Row: 1, Col: 2}, {Row: 1, Col: 1}, cellB}
)

type recorder struct {
	mu       sync.Mutex
	moves    int
	finishes int
	reasons  []model.InvalidMoveReason
}

func (r *recorder) OnMove(*Engine) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.moves++
}

func (r *recorder) OnFinish(*Engine) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finishes++
}

func (r *recorder) OnInvalidMove(_ *Engine, reason model.InvalidMoveReason) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reasons = append(r.reasons, reason)
}

func (r *recorder) counts() (int, int, []model.InvalidMoveReason) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.moves, r.finishes, append([]model.InvalidMoveReason(nil), r.reasons...)
}

type lastSelector struct{}

func (lastSelector) Select(_ model.Participant, moves []model.Move, _ *model.Board) model.Move {
	return moves[len(moves)-1]
}

type EngineSuite struct {
	suite.Suite
	random *mocks.MockRandom
	rec    *recorder
	cfg    Config
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

func (s *EngineSuite) SetupTest() {
	s.random = mocks.NewMockRandom()
	s.rec = &recorder{}
	s.cfg = Config{Width: 3, Height: 3, UndoStep: 2}
}

func (s *EngineSuite) loadedDict(words ...string) *dictionary.Loader {
	l := dictionary.NewLoader("en", dictionary.StaticSource(words), testutil.NopLogger())
	l.Start(context.Background())
	_, err := l.Wait(context.Background())
	s.Require().NoError(err)
	return l
}

func (s *EngineSuite) deps() Dependencies {
	return Dependencies{Random: s.random, Selector: lastSelector{}, Logger: testutil.NopLogger()}
}

func (s *EngineSuite) players() []model.Participant {
	return []model.Participant{{Name: "alice"}, {Name: "bob"}}
}

func (s *EngineSuite) newEngine(dict Dictionary) *Engine {
	e, err := New(s.cfg, dict, s.players(), "cat", s.deps())
	s.Require().NoError(err)
	e.Subscribe(s.rec)
	s.T().Cleanup(e.Destroy)
	return e
}

func (s *EngineSuite) play(e *Engine, letter rune, cell model.Position, word model.Word) {
	s.Require().NoError(e.MakeMove(letter, cell, word))
	e.WaitIdle()
}

func (s *EngineSuite) eventuallyReason(reason model.InvalidMoveReason) {
	s.Eventually(func() bool {
		_, _, reasons := s.rec.counts()
		return len(reasons) == 1 && reasons[0] == reason
	}, time.Second, 5*time.Millisecond)
}

func (s *EngineSuite) TestNewSeedsBoard() {
	e := s.newEngine(s.loadedDict("cat"))
	s.Equal([]string{"...", "cat", "..."}, e.Board().Rows())
	s.Equal(0, e.CurrentPlayer())
	s.Equal([]string{"cat"}, e.UsedWords())
}

func (s *EngineSuite) TestNewRejectsBadInput() {
	dict := s.loadedDict("cat")

	_, err := New(s.cfg, dict, s.players(), "catalog", s.deps())
	s.ErrorIs(err, model.ErrInvalidStartWord)

	_, err = New(s.cfg, dict, s.players(), "", s.deps())
	s.ErrorIs(err, model.ErrInvalidStartWord)

	_, err = New(s.cfg, dict, nil, "cat", s.deps())
	s.ErrorIs(err, model.ErrNoParticipants)
}

func (s *EngineSuite) TestStartAnnouncesPosition() {
	e := s.newEngine(s.loadedDict("cat"))
	s.Require().NoError(e.Start())
	s.Eventually(func() bool {
		moves, _, _ := s.rec.counts()
		return moves == 1
	}, time.Second, 5*time.Millisecond)
}

func (s *EngineSuite) TestMakeMoveCreditsWord() {
	e := s.newEngine(s.loadedDict("cat", "cats"))

	s.play(e, 'S', cellS, wordS)

	s.Equal('s', e.Board().Get(cellS))
	s.Equal(1, e.CurrentPlayer())
	s.Equal(4, e.Participants()[0].Score)
	s.Equal([]string{"cats"}, e.Participants()[0].Words)

	last, ok := e.LastMove()
	s.Require().True(ok)
	s.Equal("alice", last.Player)
	s.Equal("cats", last.Word)
}

func (s *EngineSuite) TestMakeMoveRejectsUnknownWord() {
	e := s.newEngine(s.loadedDict("cat", "cats"))

	s.play(e, 'z', cellS, wordS)

	s.eventuallyReason(model.ReasonNotAWord)
	s.Equal(0, e.Pointer())
	s.Equal(0, e.CurrentPlayer())
}

func (s *EngineSuite) TestMakeMoveRejectsUsedWord() {
	e := s.newEngine(s.loadedDict("cat"))

	// Spells the start word again through the cell above 'a'
	cell := model.Position{Row: 0, Col: 1}
	s.play(e, 'c', cell, model.Word{cell, {Row: 1, Col: 1}, {Row: 1, Col: 2}})

	s.eventuallyReason(model.ReasonAlreadyUsed)
	s.True(e.Board().IsEmpty(cell))
}

func (s *EngineSuite) TestMakeMoveRejectsIllegalPlacement() {
	e := s.newEngine(s.loadedDict("cat", "cats"))

	// The word does not pass through the placed cell
	s.play(e, 's', model.Position{Row: 2, Col: 2}, wordS)

	s.eventuallyReason(model.ReasonOther)
}

func (s *EngineSuite) TestMakeMoveInputErrors() {
	e := s.newEngine(s.loadedDict("cat"))

	s.ErrorIs(e.MakeMove('7', cellS, wordS), model.ErrInvalidLetter)
	s.ErrorIs(e.MakeMove('s', model.Position{Row: 5, Col: 0}, wordS), model.ErrInvalidPosition)
}

func (s *EngineSuite) TestDictionaryNotReady() {
	release := make(chan struct{})
	defer close(release)
	l := dictionary.NewLoader("en", blockingSource(release), testutil.NopLogger())
	l.Start(context.Background())
	e := s.newEngine(l)

	s.play(e, 's', cellS, wordS)

	s.eventuallyReason(model.ReasonDictionaryNotReady)
	s.Equal(0, e.Pointer())
}

func (s *EngineSuite) TestUndoRedoRoundTrip() {
	e := s.newEngine(s.loadedDict("cat", "cats", "tab"))
	seeded := e.Board()

	s.play(e, 's', cellS, wordS)
	s.play(e, 'b', cellB, wordB)
	after := e.Board()
	s.Equal(0, e.CurrentPlayer())
	s.Equal(3, e.Participants()[1].Score)

	s.Require().True(e.CanUndo())
	s.Require().NoError(e.Undo())
	e.WaitIdle()

	s.True(seeded.Equal(e.Board()))
	s.Equal(0, e.Pointer())
	s.Equal(2, e.HistoryLen())
	s.Equal(0, e.CurrentPlayer())
	for _, p := range e.Participants() {
		s.Zero(p.Score)
		s.Empty(p.Words)
	}
	s.ErrorIs(e.Undo(), model.ErrNothingToUndo)

	s.Require().NoError(e.Redo())
	e.WaitIdle()

	s.True(after.Equal(e.Board()))
	s.Equal(2, e.Pointer())
	s.Equal(0, e.CurrentPlayer())
	s.Equal(4, e.Participants()[0].Score)
	s.Equal(3, e.Participants()[1].Score)
	s.ErrorIs(e.Redo(), model.ErrNothingToRedo)
}

func (s *EngineSuite) TestMoveAfterUndoDropsRedoHistory() {
	e := s.newEngine(s.loadedDict("cat", "cats", "tab", "bat"))

	s.play(e, 's', cellS, wordS)
	s.play(e, 'b', cellB, wordB)
	s.Require().NoError(e.Undo())
	e.WaitIdle()

	cell := model.Position{Row: 0, Col: 1}
	s.play(e, 'b', cell, model.Word{cell, {Row: 1, Col: 1}, {Row: 1, Col: 2}})

	s.Equal(1, e.Pointer())
	s.Equal(1, e.HistoryLen())
	s.False(e.CanRedo())
}

func (s *EngineSuite) TestSecondOperationRejectedWhileBusy() {
	e := s.newEngine(s.loadedDict("cat", "cats"))

	e.Pause()
	s.Require().NoError(e.MakeMove('s', cellS, wordS))
	s.True(e.Busy())
	s.ErrorIs(e.MakeMove('s', cellS, wordS), model.ErrOperationInProgress)
	s.ErrorIs(e.GenerateMove(), model.ErrOperationInProgress)

	// Nothing is applied while paused
	s.True(e.Board().IsEmpty(cellS))
	s.Equal(0, e.Pointer())

	e.Resume()
	e.WaitIdle()
	s.Equal('s', e.Board().Get(cellS))
	s.Equal(1, e.Pointer())
}

func (s *EngineSuite) TestGenerateMoveForHumanPicksRandomly() {
	e := s.newEngine(s.loadedDict("cat", "cats"))
	s.random.QueueIntn(0)

	s.Require().NoError(e.GenerateMove())
	e.WaitIdle()

	s.Equal(1, e.Pointer())
	s.Equal([]string{"cats"}, e.Participants()[0].Words)
}

func (s *EngineSuite) TestGenerateMoveForAutonomousUsesSelector() {
	dict := s.loadedDict("cat", "cats")
	e, err := New(s.cfg, dict, []model.Participant{{Name: "robot", Autonomous: true}, {Name: "bob"}}, "cat", s.deps())
	s.Require().NoError(err)
	defer e.Destroy()

	s.Require().NoError(e.GenerateMove())
	e.WaitIdle()

	moves := e.Moves()
	s.Require().Len(moves, 1)
	s.Equal([]string{"cats"}, e.Participants()[0].Words)
}

func (s *EngineSuite) TestGenerateMoveFinishesWhenNothingLeft() {
	e := s.newEngine(s.loadedDict("cat"))

	s.Require().NoError(e.GenerateMove())
	e.Wait()

	s.True(e.IsFinished())
	s.ElementsMatch([]string{"alice", "bob"}, e.Winners())
	s.Eventually(func() bool {
		_, finishes, _ := s.rec.counts()
		return finishes == 1
	}, time.Second, 5*time.Millisecond)
	s.ErrorIs(e.MakeMove('s', cellS, wordS), model.ErrTerminated)
}

func (s *EngineSuite) TestSurrenderTwoPlayers() {
	e := s.newEngine(s.loadedDict("cat", "cats"))

	s.Require().NoError(e.Surrender())
	e.Wait()

	s.True(e.IsFinished())
	s.Equal([]string{"bob"}, e.Winners())
}

func (s *EngineSuite) TestSurrenderIgnoredWithThreePlayers() {
	dict := s.loadedDict("cat", "cats")
	e, err := New(s.cfg, dict, []model.Participant{{Name: "a"}, {Name: "b"}, {Name: "c"}}, "cat", s.deps())
	s.Require().NoError(err)
	defer e.Destroy()

	s.Require().NoError(e.Surrender())
	e.WaitIdle()
	s.False(e.IsFinished())
}

func (s *EngineSuite) TestAnalysisFinishesStuckGame() {
	s.cfg.Analyze = true
	e := s.newEngine(s.loadedDict("cat", "cats"))

	s.play(e, 's', cellS, wordS)
	e.Wait()

	s.True(e.IsFinished())
	s.Equal([]string{"alice"}, e.Winners())
}

func (s *EngineSuite) TestStartFinishesGameWithNoMoveForHuman() {
	s.cfg.Analyze = true
	e := s.newEngine(s.loadedDict("cat"))

	s.Require().NoError(e.Start())
	e.Wait()

	s.True(e.IsFinished())
	s.Equal([]string{"alice", "bob"}, e.Winners())
}

func (s *EngineSuite) TestStartLeavesHintForHuman() {
	s.cfg.Analyze = true
	e := s.newEngine(s.loadedDict("cat", "cats"))

	s.Require().NoError(e.Start())
	e.WaitIdle()

	hint, ok := e.Hint()
	s.Require().True(ok)
	s.Equal("cats", hint.Text(e.Board()))
	s.False(e.IsFinished())
}

func (s *EngineSuite) TestAnalysisLeavesHint() {
	s.cfg.Analyze = true
	e := s.newEngine(s.loadedDict("cat", "cats", "tab", "bat"))

	s.play(e, 's', cellS, wordS)

	hint, ok := e.Hint()
	s.Require().True(ok)
	s.False(e.IsFinished())

	s.Require().NoError(e.GenerateMove())
	e.WaitIdle()

	moves := e.Moves()
	s.Require().Len(moves, 2)
	s.Equal(hint.Key(), moves[1].Key())
}

func (s *EngineSuite) TestSaveAndLoad() {
	dict := s.loadedDict("cat", "cats", "tab")
	e := s.newEngine(dict)
	s.play(e, 's', cellS, wordS)
	s.play(e, 'b', cellB, wordB)

	var buf bytes.Buffer
	s.Require().NoError(e.Save(&buf))

	other := s.newEngine(dict)
	s.Require().NoError(other.Load(bytes.NewReader(buf.Bytes()), false))
	other.WaitIdle()

	s.True(e.Board().Equal(other.Board()))
	s.Equal(e.Participants(), other.Participants())
	s.Equal(e.CurrentPlayer(), other.CurrentPlayer())
	s.Equal(2, other.Pointer())
	s.False(other.IsReplay())
}

func (s *EngineSuite) TestReplayWalksHistory() {
	dict := s.loadedDict("cat", "cats", "tab")
	e := s.newEngine(dict)
	seeded := e.Board()
	s.play(e, 's', cellS, wordS)
	afterFirst := e.Board()
	s.play(e, 'b', cellB, wordB)

	var buf bytes.Buffer
	s.Require().NoError(e.Save(&buf))

	r, err := Restore(s.cfg, dict, &buf, true, s.deps())
	s.Require().NoError(err)
	defer r.Destroy()

	s.True(r.IsReplay())
	s.Equal(0, r.Pointer())
	s.Equal(2, r.HistoryLen())
	s.True(seeded.Equal(r.Board()))
	s.ErrorIs(r.MakeMove('s', cellS, wordS), model.ErrReplayMode)
	s.ErrorIs(r.GenerateMove(), model.ErrReplayMode)

	s.Require().NoError(r.Redo())
	r.WaitIdle()
	s.True(afterFirst.Equal(r.Board()))

	s.Require().NoError(r.Redo())
	r.WaitIdle()
	s.True(e.Board().Equal(r.Board()))
	s.Equal(e.Participants(), r.Participants())
	s.False(r.CanRedo())

	s.Require().NoError(r.Undo())
	r.WaitIdle()
	s.True(afterFirst.Equal(r.Board()))
}

func (s *EngineSuite) TestRestoreRejectsDifferentVocabulary() {
	e := s.newEngine(s.loadedDict("cat", "cats"))
	s.play(e, 's', cellS, wordS)

	var buf bytes.Buffer
	s.Require().NoError(e.Save(&buf))

	_, err := Restore(s.cfg, s.loadedDict("cat", "cats", "dog"), &buf, false, s.deps())
	s.ErrorIs(err, model.ErrVocabularyMismatch)
}

// corruptSave saves e and rewrites one top-level field of the result
func (s *EngineSuite) corruptSave(e *Engine, field string, value any) *bytes.Reader {
	var buf bytes.Buffer
	s.Require().NoError(e.Save(&buf))
	var doc map[string]any
	s.Require().NoError(json.Unmarshal(buf.Bytes(), &doc))
	doc[field] = value
	data, err := json.Marshal(doc)
	s.Require().NoError(err)
	return bytes.NewReader(data)
}

func (s *EngineSuite) TestRestoreRejectsCorruptTurn() {
	dict := s.loadedDict("cat", "cats")
	e := s.newEngine(dict)
	s.play(e, 's', cellS, wordS)

	for _, turn := range []int{-1, 2, 7} {
		_, err := Restore(s.cfg, dict, s.corruptSave(e, "turn", turn), false, s.deps())
		s.Error(err, "turn %d", turn)
	}

	r, err := Restore(s.cfg, dict, s.corruptSave(e, "turn", 1), false, s.deps())
	s.Require().NoError(err)
	defer r.Destroy()
	s.Equal(1, r.CurrentPlayer())
}

func (s *EngineSuite) TestRestoreRejectsOversizedBoard() {
	dict := s.loadedDict("cat", "cats")
	e := s.newEngine(dict)

	_, err := Restore(s.cfg, dict, s.corruptSave(e, "width", 1<<20), false, s.deps())
	s.ErrorIs(err, model.ErrInvalidDimensions)

	_, err = Restore(s.cfg, dict, s.corruptSave(e, "height", model.MaxDimension+1), false, s.deps())
	s.ErrorIs(err, model.ErrInvalidDimensions)
}

type blockingSource chan struct{}

func (b blockingSource) Words(context.Context) ([]string, error) {
	<-b
	return []string{"cat"}, nil
}
