package response

import (
	"time"

	"github.com/samber/lo"

	"github.com/mcoot/wordmaster/internal/model"
	"github.com/mcoot/wordmaster/internal/services/session"
)

// Participant represents a participant in API responses
type Participant struct {
	Name       string   `json:"name"`
	Autonomous bool     `json:"autonomous,omitempty"`
	Difficulty string   `json:"difficulty,omitempty"`
	Score      int      `json:"score"`
	Words      []string `json:"words"`
}

// ParticipantFromModel converts a model.Participant
func ParticipantFromModel(p model.Participant) Participant {
	words := p.Words
	if words == nil {
		words = []string{}
	}
	return Participant{
		Name:       p.Name,
		Autonomous: p.Autonomous,
		Difficulty: p.Difficulty,
		Score:      p.Score,
		Words:      words,
	}
}

// Move represents an applied move
type Move struct {
	Letter string           `json:"letter"`
	Cell   model.Position   `json:"cell"`
	Word   []model.Position `json:"word"`
}

// MoveFromModel converts a model.Move
func MoveFromModel(m model.Move) Move {
	return Move{
		Letter: string(m.Letter),
		Cell:   m.Cell,
		Word:   m.Word,
	}
}

// Session is the full state of a live session
type Session struct {
	ID           string        `json:"id"`
	Language     string        `json:"language"`
	StartWord    string        `json:"start_word"`
	Board        []string      `json:"board"`
	Participants []Participant `json:"participants"`
	CurrentTurn  int           `json:"current_turn"`
	Moves        []Move        `json:"moves"`
	Pointer      int           `json:"pointer"`
	HistoryLen   int           `json:"history_len"`
	CanUndo      bool          `json:"can_undo"`
	CanRedo      bool          `json:"can_redo"`
	Replay       bool          `json:"replay"`
	Finished     bool          `json:"finished"`
	Winners      []string      `json:"winners,omitempty"`
	Busy         bool          `json:"busy"`
	CreatedAt    time.Time     `json:"created_at"`
}

// SessionFromModel reads the current state of a session
func SessionFromModel(s *session.Session) Session {
	e := s.Engine
	return Session{
		ID:           string(s.ID),
		Language:     s.Language,
		StartWord:    e.StartWord(),
		Board:        e.Board().Rows(),
		Participants: lo.Map(e.Participants(), func(p model.Participant, _ int) Participant { return ParticipantFromModel(p) }),
		CurrentTurn:  e.CurrentPlayer(),
		Moves:        lo.Map(e.Moves(), func(m model.Move, _ int) Move { return MoveFromModel(m) }),
		Pointer:      e.Pointer(),
		HistoryLen:   e.HistoryLen(),
		CanUndo:      e.CanUndo(),
		CanRedo:      e.CanRedo(),
		Replay:       e.IsReplay(),
		Finished:     e.IsFinished(),
		Winners:      e.Winners(),
		Busy:         e.Busy(),
		CreatedAt:    s.CreatedAt,
	}
}

// SessionSummary is a short listing entry
type SessionSummary struct {
	ID        string    `json:"id"`
	Language  string    `json:"language"`
	StartWord string    `json:"start_word"`
	Finished  bool      `json:"finished"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionSummariesFromModel converts a session listing
func SessionSummariesFromModel(sessions []*session.Session) []SessionSummary {
	return lo.Map(sessions, func(s *session.Session, _ int) SessionSummary {
		return SessionSummary{
			ID:        string(s.ID),
			Language:  s.Language,
			StartWord: s.Engine.StartWord(),
			Finished:  s.Engine.IsFinished(),
			CreatedAt: s.CreatedAt,
		}
	})
}

// AcceptedBody acknowledges an operation whose outcome arrives as an event
type AcceptedBody struct {
	Status string `json:"status"`
}

// Hint is a suggested move
type Hint struct {
	Move Move   `json:"move"`
	Word string `json:"word"`
}

// SavedGames lists stored game names
type SavedGames struct {
	Names []string `json:"names"`
}
