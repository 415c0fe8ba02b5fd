package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/wordmaster/internal/api/handler"
	"github.com/mcoot/wordmaster/internal/api/middleware"
	"github.com/mcoot/wordmaster/internal/api/sse"
	"github.com/mcoot/wordmaster/internal/services/session"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger     *slog.Logger
	Sessions   *session.Manager
	HubManager *sse.HubManager
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	sessionHandler := handler.NewSessionHandler(cfg.Sessions, cfg.HubManager)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Recovery(cfg.Logger))
	api.Use(middleware.Logging(cfg.Logger))

	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	// Live sessions
	api.HandleFunc("/sessions", sessionHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/sessions", sessionHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{id}", sessionHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{id}", sessionHandler.Delete).Methods(http.MethodDelete)
	api.HandleFunc("/sessions/{id}/move", sessionHandler.Move).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/generate", sessionHandler.Generate).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/undo", sessionHandler.Undo).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/redo", sessionHandler.Redo).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/surrender", sessionHandler.Surrender).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/pause", sessionHandler.Pause).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/resume", sessionHandler.Resume).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/hint", sessionHandler.Hint).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{id}/save", sessionHandler.Save).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/events", sessionHandler.Events).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{id}/ws", sessionHandler.Watch).Methods(http.MethodGet)

	// Saved games
	api.HandleFunc("/games", sessionHandler.SavedGames).Methods(http.MethodGet)
	api.HandleFunc("/games/load", sessionHandler.Load).Methods(http.MethodPost)
	api.HandleFunc("/games/{name}", sessionHandler.DeleteSaved).Methods(http.MethodDelete)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
