package model

import "errors"

// Common errors used across the application
var (
	// Construction errors
	ErrInvalidStartWord  = errors.New("start word is empty or longer than the board width")
	ErrInvalidDimensions = errors.New("invalid board dimensions")
	ErrNoParticipants    = errors.New("at least one participant is required")

	// State errors
	ErrOperationInProgress = errors.New("another operation is in progress")
	ErrReplayMode          = errors.New("moves are not allowed in replay mode")
	ErrNothingToUndo       = errors.New("nothing to undo")
	ErrNothingToRedo       = errors.New("nothing to redo")
	ErrTerminated          = errors.New("game has been terminated")
	ErrNotPaused           = errors.New("session is not paused")

	// Input errors
	ErrInvalidLetter   = errors.New("invalid letter")
	ErrInvalidPosition = errors.New("invalid board position")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")
	ErrGameNotFound    = errors.New("saved game not found")

	// Dictionary errors
	ErrDictionaryNotLoaded = errors.New("dictionary not loaded")
	ErrUnknownLanguage     = errors.New("unknown language")
	ErrVocabularyMismatch  = errors.New("saved game was played with a different vocabulary")

	// Queue errors
	ErrQueueClosed = errors.New("event queue is shut down")

	// Bot errors
	ErrUnknownDifficulty = errors.New("unknown difficulty")
)
