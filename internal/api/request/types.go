package request

// Participant describes a seat in a new session
type Participant struct {
	Name       string `json:"name"`
	Autonomous bool   `json:"autonomous,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`
	DelayMS    int    `json:"delay_ms,omitempty"`
}

// CreateSessionRequest is the request body for creating a session
type CreateSessionRequest struct {
	Language     string        `json:"language,omitempty"`
	StartWord    string        `json:"start_word,omitempty"`
	Width        int           `json:"width,omitempty"`
	Height       int           `json:"height,omitempty"`
	Participants []Participant `json:"participants"`
}

// Cell is a board coordinate
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// MoveRequest is the request body for making a move
type MoveRequest struct {
	Letter string `json:"letter"`
	Cell   Cell   `json:"cell"`
	Word   []Cell `json:"word"`
}

// SaveRequest is the request body for saving a session
type SaveRequest struct {
	Name string `json:"name"`
}

// LoadRequest is the request body for loading a saved game
type LoadRequest struct {
	Name   string `json:"name"`
	Replay bool   `json:"replay,omitempty"`
}
