package handler

import (
	"encoding/json"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/gorilla/mux"
	"github.com/samber/lo"

	"github.com/mcoot/wordmaster/internal/api/apierr"
	"github.com/mcoot/wordmaster/internal/api/request"
	"github.com/mcoot/wordmaster/internal/api/response"
	"github.com/mcoot/wordmaster/internal/api/sse"
	"github.com/mcoot/wordmaster/internal/model"
	"github.com/mcoot/wordmaster/internal/services/session"
)

// SessionHandler handles session endpoints
type SessionHandler struct {
	sessions   *session.Manager
	hubManager *sse.HubManager
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessions *session.Manager, hubManager *sse.HubManager) *SessionHandler {
	return &SessionHandler{
		sessions:   sessions,
		hubManager: hubManager,
	}
}

func (h *SessionHandler) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	s, err := h.sessions.Get(model.SessionID(mux.Vars(r)["id"]))
	if err != nil {
		apierr.WriteError(w, err)
		return nil, false
	}
	return s, true
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("Invalid request body"))
		return false
	}
	return true
}

// Create handles POST /api/v1/sessions
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateSessionRequest
	if !decode(w, r, &req) {
		return
	}

	s, err := h.sessions.Create(r.Context(), session.CreateRequest{
		Language:  req.Language,
		StartWord: req.StartWord,
		Width:     req.Width,
		Height:    req.Height,
		Participants: lo.Map(req.Participants, func(p request.Participant, _ int) model.Participant {
			return model.Participant{
				Name:       p.Name,
				Autonomous: p.Autonomous,
				Difficulty: p.Difficulty,
				Delay:      time.Duration(p.DelayMS) * time.Millisecond,
			}
		}),
	})
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.SessionFromModel(s))
}

// List handles GET /api/v1/sessions
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.SessionSummariesFromModel(h.sessions.List()))
}

// Get handles GET /api/v1/sessions/{id}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	response.JSON(w, http.StatusOK, response.SessionFromModel(s))
}

// Delete handles DELETE /api/v1/sessions/{id}
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := model.SessionID(mux.Vars(r)["id"])
	if err := h.sessions.Delete(id); err != nil {
		apierr.WriteError(w, err)
		return
	}
	if h.hubManager != nil {
		h.hubManager.RemoveHub(id)
	}
	response.NoContent(w)
}

// Move handles POST /api/v1/sessions/{id}/move.
// A 202 means the move was admitted; whether it was accepted arrives as an event.
func (h *SessionHandler) Move(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req request.MoveRequest
	if !decode(w, r, &req) {
		return
	}
	letter, size := utf8.DecodeRuneInString(req.Letter)
	if size == 0 || size != len(req.Letter) {
		apierr.WriteError(w, model.ErrInvalidLetter)
		return
	}

	word := lo.Map(req.Word, func(c request.Cell, _ int) model.Position {
		return model.Position{Row: c.Row, Col: c.Col}
	})
	cell := model.Position{Row: req.Cell.Row, Col: req.Cell.Col}
	h.accepted(w, s.Engine.MakeMove(letter, cell, word))
}

// Generate handles POST /api/v1/sessions/{id}/generate
func (h *SessionHandler) Generate(w http.ResponseWriter, r *http.Request) {
	if s, ok := h.session(w, r); ok {
		h.accepted(w, s.Engine.GenerateMove())
	}
}

// Undo handles POST /api/v1/sessions/{id}/undo
func (h *SessionHandler) Undo(w http.ResponseWriter, r *http.Request) {
	if s, ok := h.session(w, r); ok {
		h.accepted(w, s.Engine.Undo())
	}
}

// Redo handles POST /api/v1/sessions/{id}/redo
func (h *SessionHandler) Redo(w http.ResponseWriter, r *http.Request) {
	if s, ok := h.session(w, r); ok {
		h.accepted(w, s.Engine.Redo())
	}
}

// Surrender handles POST /api/v1/sessions/{id}/surrender
func (h *SessionHandler) Surrender(w http.ResponseWriter, r *http.Request) {
	if s, ok := h.session(w, r); ok {
		h.accepted(w, s.Engine.Surrender())
	}
}

// Pause handles POST /api/v1/sessions/{id}/pause
func (h *SessionHandler) Pause(w http.ResponseWriter, r *http.Request) {
	if s, ok := h.session(w, r); ok {
		s.Pause()
		response.NoContent(w)
	}
}

// Resume handles POST /api/v1/sessions/{id}/resume
func (h *SessionHandler) Resume(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := s.Resume(); err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.NoContent(w)
}

// Hint handles GET /api/v1/sessions/{id}/hint
func (h *SessionHandler) Hint(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	m, ok := s.Engine.Hint()
	if !ok {
		apierr.WriteError(w, apierr.NewNoHintError())
		return
	}
	response.JSON(w, http.StatusOK, response.Hint{
		Move: response.MoveFromModel(m),
		Word: m.Text(s.Engine.Board()),
	})
}

// Save handles POST /api/v1/sessions/{id}/save
func (h *SessionHandler) Save(w http.ResponseWriter, r *http.Request) {
	id := model.SessionID(mux.Vars(r)["id"])
	var req request.SaveRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Name == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("name is required"))
		return
	}
	if err := h.sessions.Save(r.Context(), id, req.Name); err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.NoContent(w)
}

// Load handles POST /api/v1/games/load
func (h *SessionHandler) Load(w http.ResponseWriter, r *http.Request) {
	var req request.LoadRequest
	if !decode(w, r, &req) {
		return
	}
	s, err := h.sessions.Load(r.Context(), req.Name, req.Replay)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, response.SessionFromModel(s))
}

// SavedGames handles GET /api/v1/games
func (h *SessionHandler) SavedGames(w http.ResponseWriter, r *http.Request) {
	names, err := h.sessions.SavedGames(r.Context())
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	response.JSON(w, http.StatusOK, response.SavedGames{Names: names})
}

// DeleteSaved handles DELETE /api/v1/games/{name}
func (h *SessionHandler) DeleteSaved(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.DeleteSaved(r.Context(), mux.Vars(r)["name"]); err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.NoContent(w)
}

// Events handles GET /api/v1/sessions/{id}/events
func (h *SessionHandler) Events(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	if h.hubManager == nil {
		apierr.WriteError(w, apierr.NewInternalError())
		return
	}
	sse.ServeSSE(w, r, h.hubManager.GetOrCreateHub(s.ID))
}

// Watch handles GET /api/v1/sessions/{id}/ws, the WebSocket form of Events
func (h *SessionHandler) Watch(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	if h.hubManager == nil {
		apierr.WriteError(w, apierr.NewInternalError())
		return
	}
	sse.ServeWS(w, r, h.hubManager.GetOrCreateHub(s.ID))
}

func (h *SessionHandler) accepted(w http.ResponseWriter, err error) {
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.Accepted(w)
}
