package model

import "time"

// SessionID identifies a live game session
type SessionID string

// SavedParticipant is the persisted form of a Participant
type SavedParticipant struct {
	Name       string        `json:"name"`
	Autonomous bool          `json:"autonomous"`
	Difficulty string        `json:"difficulty,omitempty"`
	Delay      time.Duration `json:"delay,omitempty"`
	Score      int           `json:"score"`
	Words      []string      `json:"words"`
}

// SavedMove is the persisted form of a Move
type SavedMove struct {
	Cell   Position `json:"cell"`
	Prev   string   `json:"prev,omitempty"`
	Letter string   `json:"letter"`
	Word   Word     `json:"word"`
	Player int      `json:"player"`
}

// SavedGame is everything needed to rebuild an engine.
// The grid is not stored; it is rebuilt from the start word and applied moves.
type SavedGame struct {
	Version      int                `json:"version"`
	Language     string             `json:"language"`
	Fingerprint  uint64             `json:"fingerprint"`
	Width        int                `json:"width"`
	Height       int                `json:"height"`
	StartWord    string             `json:"start_word"`
	Participants []SavedParticipant `json:"participants"`
	Moves        []SavedMove        `json:"moves"`
	Pointer      int                `json:"pointer"`
	Turn         int                `json:"turn"`
	Finished     bool               `json:"finished,omitempty"`
}

// GameRecord is a named saved game held by a storage backend
type GameRecord struct {
	Name    string    `json:"name"`
	Data    []byte    `json:"data"`
	SavedAt time.Time `json:"saved_at"`
}
