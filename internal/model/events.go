package model

import "time"

// EventType identifies the type of event
type EventType string

const (
	EventMove        EventType = "move"
	EventFinish      EventType = "finish"
	EventInvalidMove EventType = "invalid_move"
)

// InvalidMoveReason explains why a submitted move was not applied
type InvalidMoveReason string

const (
	ReasonNotAWord           InvalidMoveReason = "not_a_word"
	ReasonAlreadyUsed        InvalidMoveReason = "already_used"
	ReasonDictionaryNotReady InvalidMoveReason = "dictionary_not_ready"
	ReasonOther              InvalidMoveReason = "other"
)

// Event is an engine notification as seen by hosts and relays
type Event struct {
	Type      EventType         `json:"type"`
	SessionID SessionID         `json:"session_id,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
	Reason    InvalidMoveReason `json:"reason,omitempty"`
	Payload   any               `json:"payload,omitempty"`
}

// MovePayload describes the most recently applied move
type MovePayload struct {
	Player string   `json:"player"`
	Word   string   `json:"word"`
	Cell   Position `json:"cell"`
	Letter string   `json:"letter"`
	Turn   int      `json:"turn"`
}

// FinishPayload lists the winners of a finished game
type FinishPayload struct {
	Winners []string       `json:"winners"`
	Scores  map[string]int `json:"scores"`
}
