package relay_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/wordmaster/internal/dependencies/mocks"
	"github.com/mcoot/wordmaster/internal/model"
	"github.com/mcoot/wordmaster/internal/services/dictionary"
	"github.com/mcoot/wordmaster/internal/services/game"
	"github.com/mcoot/wordmaster/internal/services/relay"
	"github.com/mcoot/wordmaster/internal/testutil"
)

type message struct {
	subject string
	data    []byte
}

type fakePublisher struct {
	mu       sync.Mutex
	messages []message
	err      error
}

func (p *fakePublisher) Publish(subject string, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.messages = append(p.messages, message{subject: subject, data: data})
	return nil
}

func (p *fakePublisher) sent() []message {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]message(nil), p.messages...)
}

type RelaySuite struct {
	suite.Suite
	publisher *fakePublisher
	mockClock *mocks.MockClock
	relay     *relay.Relay
	engine    *game.Engine
}

func TestRelaySuite(t *testing.T) {
	suite.Run(t, new(RelaySuite))
}

func (s *RelaySuite) SetupTest() {
	s.publisher = &fakePublisher{}
	s.mockClock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.relay = relay.New(s.publisher, "wm", s.mockClock, testutil.NopLogger())

	dict := dictionary.NewLoader("en", dictionary.StaticSource{"cat", "cats"}, testutil.NopLogger())
	dict.Start(context.Background())
	_, err := dict.Wait(context.Background())
	s.Require().NoError(err)

	e, err := game.New(game.Config{Width: 3, Height: 3, UndoStep: 2}, dict,
		[]model.Participant{{Name: "alice"}, {Name: "bob"}}, "cat",
		game.Dependencies{Random: mocks.NewMockRandom(), Logger: testutil.NopLogger()})
	s.Require().NoError(err)
	s.engine = e
	s.T().Cleanup(e.Destroy)
}

func (s *RelaySuite) TestSubject() {
	s.Equal("wm.abc.move", s.relay.Subject("abc", model.EventMove))
}

func (s *RelaySuite) TestPublishesMoveAndFinish() {
	s.relay.Attach("abc", s.engine)

	s.Require().NoError(s.engine.MakeMove('s', model.Position{Row: 0, Col: 2}, model.Word{
		{Row: 1, Col: 0}, {Row: 1, Col: 1}, {Row: 1, Col: 2}, {Row: 0, Col: 2},
	}))
	s.engine.WaitIdle()
	s.Require().NoError(s.engine.GenerateMove())
	s.engine.Wait()

	sent := s.publisher.sent()
	s.Require().Len(sent, 2)
	s.Equal("wm.abc.move", sent[0].subject)
	s.Equal("wm.abc.finish", sent[1].subject)

	var move struct {
		Type      model.EventType   `json:"type"`
		SessionID model.SessionID   `json:"session_id"`
		Payload   model.MovePayload `json:"payload"`
	}
	s.Require().NoError(json.Unmarshal(sent[0].data, &move))
	s.Equal(model.EventMove, move.Type)
	s.Equal(model.SessionID("abc"), move.SessionID)
	s.Equal("alice", move.Payload.Player)
	s.Equal("cats", move.Payload.Word)
	s.Equal(1, move.Payload.Turn)

	var finish struct {
		Payload model.FinishPayload `json:"payload"`
	}
	s.Require().NoError(json.Unmarshal(sent[1].data, &finish))
	s.Equal([]string{"alice"}, finish.Payload.Winners)
	s.Equal(map[string]int{"alice": 4, "bob": 0}, finish.Payload.Scores)
}

func (s *RelaySuite) TestPublishesInvalidMoveReason() {
	s.relay.Attach("abc", s.engine)

	s.Require().NoError(s.engine.MakeMove('z', model.Position{Row: 0, Col: 2}, model.Word{
		{Row: 1, Col: 0}, {Row: 1, Col: 1}, {Row: 1, Col: 2}, {Row: 0, Col: 2},
	}))
	s.engine.WaitIdle()

	s.Eventually(func() bool { return len(s.publisher.sent()) == 1 }, time.Second, 5*time.Millisecond)
	sent := s.publisher.sent()
	s.Equal("wm.abc.invalid_move", sent[0].subject)

	var ev model.Event
	s.Require().NoError(json.Unmarshal(sent[0].data, &ev))
	s.Equal(model.ReasonNotAWord, ev.Reason)
}

func (s *RelaySuite) TestPublishFailureDoesNotStopEngine() {
	s.publisher.err = errors.New("connection closed")
	s.relay.Attach("abc", s.engine)

	s.Require().NoError(s.engine.MakeMove('s', model.Position{Row: 0, Col: 2}, model.Word{
		{Row: 1, Col: 0}, {Row: 1, Col: 1}, {Row: 1, Col: 2}, {Row: 0, Col: 2},
	}))
	s.engine.WaitIdle()

	s.Equal(1, s.engine.Pointer())
	s.Empty(s.publisher.sent())
}
