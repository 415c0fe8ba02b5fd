package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/wordmaster/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest      = "INVALID_REQUEST"
	CodeInvalidLetter       = "INVALID_LETTER"
	CodeInvalidPosition     = "INVALID_POSITION"
	CodeInvalidStartWord    = "INVALID_START_WORD"
	CodeInvalidDimensions   = "INVALID_DIMENSIONS"
	CodeNoParticipants      = "NO_PARTICIPANTS"
	CodeUnknownDifficulty   = "UNKNOWN_DIFFICULTY"
	CodeUnknownLanguage     = "UNKNOWN_LANGUAGE"
	CodeSessionNotFound     = "SESSION_NOT_FOUND"
	CodeGameNotFound        = "GAME_NOT_FOUND"
	CodeOperationInProgress = "OPERATION_IN_PROGRESS"
	CodeReplayMode          = "REPLAY_MODE"
	CodeNothingToUndo       = "NOTHING_TO_UNDO"
	CodeNothingToRedo       = "NOTHING_TO_REDO"
	CodeNotPaused           = "NOT_PAUSED"
	CodeGameOver            = "GAME_OVER"
	CodeDictionaryNotLoaded = "DICTIONARY_NOT_LOADED"
	CodeVocabularyMismatch  = "VOCABULARY_MISMATCH"
	CodeNoHint              = "NO_HINT"
	CodeInternalError       = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// Status returns the HTTP status err maps to
func Status(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	case errors.Is(err, model.ErrSessionNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeSessionNotFound, "Session not found"}}
	case errors.Is(err, model.ErrGameNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeGameNotFound, "Saved game not found"}}
	case errors.Is(err, model.ErrInvalidLetter):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidLetter, "Letter is not valid for this language"}}
	case errors.Is(err, model.ErrInvalidPosition):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidPosition, "Invalid board position"}}
	case errors.Is(err, model.ErrInvalidStartWord):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidStartWord, "Start word is empty or wider than the board"}}
	case errors.Is(err, model.ErrInvalidDimensions):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidDimensions, "Invalid board dimensions"}}
	case errors.Is(err, model.ErrNoParticipants):
		return &httpError{http.StatusBadRequest, APIError{CodeNoParticipants, "At least one participant is required"}}
	case errors.Is(err, model.ErrUnknownDifficulty):
		return &httpError{http.StatusBadRequest, APIError{CodeUnknownDifficulty, "Unknown difficulty"}}
	case errors.Is(err, model.ErrUnknownLanguage):
		return &httpError{http.StatusBadRequest, APIError{CodeUnknownLanguage, "Unknown language"}}
	case errors.Is(err, model.ErrOperationInProgress):
		return &httpError{http.StatusConflict, APIError{CodeOperationInProgress, "Another operation is in progress"}}
	case errors.Is(err, model.ErrReplayMode):
		return &httpError{http.StatusConflict, APIError{CodeReplayMode, "Moves are not allowed in replay mode"}}
	case errors.Is(err, model.ErrNothingToUndo):
		return &httpError{http.StatusConflict, APIError{CodeNothingToUndo, "Nothing to undo"}}
	case errors.Is(err, model.ErrNothingToRedo):
		return &httpError{http.StatusConflict, APIError{CodeNothingToRedo, "Nothing to redo"}}
	case errors.Is(err, model.ErrNotPaused):
		return &httpError{http.StatusConflict, APIError{CodeNotPaused, "Session is not paused"}}
	case errors.Is(err, model.ErrTerminated):
		return &httpError{http.StatusGone, APIError{CodeGameOver, "Game is over"}}
	case errors.Is(err, model.ErrDictionaryNotLoaded):
		return &httpError{http.StatusServiceUnavailable, APIError{CodeDictionaryNotLoaded, "Dictionary is not loaded"}}
	case errors.Is(err, model.ErrVocabularyMismatch):
		return &httpError{http.StatusConflict, APIError{CodeVocabularyMismatch, "Saved game was played with a different dictionary"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewNoHintError reports that no suggestion is available yet
func NewNoHintError() error {
	return &httpError{http.StatusNotFound, APIError{CodeNoHint, "No hint available"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
