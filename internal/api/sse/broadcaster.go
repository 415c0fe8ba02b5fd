package sse

import (
	"encoding/json"
	"log/slog"

	"github.com/mcoot/wordmaster/internal/dependencies/clock"
	"github.com/mcoot/wordmaster/internal/model"
	"github.com/mcoot/wordmaster/internal/services/game"
)

// Broadcaster forwards engine events to the session's hub as JSON
type Broadcaster struct {
	hubManager *HubManager
	clock      clock.Clock
	logger     *slog.Logger
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hubManager *HubManager, clk clock.Clock, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hubManager: hubManager,
		clock:      clk,
		logger:     logger.With(slog.String("component", "sse-broadcaster")),
	}
}

// Attach creates the session's hub and streams every event of e to it
func (b *Broadcaster) Attach(id model.SessionID, e *game.Engine) game.Listener {
	b.hubManager.GetOrCreateHub(id)
	l := game.Forward(func(e *game.Engine, kind model.EventType, reason model.InvalidMoveReason) {
		b.Broadcast(game.NewEvent(e, id, kind, reason, b.clock.Now()))
	})
	e.Subscribe(l)
	return l
}

// Broadcast sends ev to every client of its session
func (b *Broadcaster) Broadcast(ev model.Event) {
	hub := b.hubManager.GetHub(ev.SessionID)
	if hub == nil {
		return
	}
	data, err := json.Marshal(ev)
	if err != nil {
		b.logger.Error("sse failed to encode event",
			slog.String("session_id", string(ev.SessionID)),
			slog.String("error", err.Error()))
		return
	}
	hub.BroadcastEvent(string(ev.Type), string(data))
}
