package game

import (
	"errors"
	"log/slog"
	"time"

	"github.com/samber/lo"

	"github.com/mcoot/wordmaster/internal/model"
)

// Listener receives engine notifications on the event queue goroutine.
// The engine is paused for the duration of each delivery, so a listener sees
// a stable state; it must not wait for the engine to become idle.
type Listener interface {
	OnMove(e *Engine)
	OnFinish(e *Engine)
	OnInvalidMove(e *Engine, reason model.InvalidMoveReason)
}

// Subscribe adds a listener
func (e *Engine) Subscribe(l Listener) {
	e.listenersMu.Lock()
	defer e.listenersMu.Unlock()
	e.listeners = append(e.listeners, l)
}

// Unsubscribe removes a listener
func (e *Engine) Unsubscribe(l Listener) {
	e.listenersMu.Lock()
	defer e.listenersMu.Unlock()
	for i, existing := range e.listeners {
		if existing == l {
			e.listeners = append(e.listeners[:i:i], e.listeners[i+1:]...)
			return
		}
	}
}

func (e *Engine) snapshotListeners() []Listener {
	e.listenersMu.Lock()
	defer e.listenersMu.Unlock()
	return append([]Listener(nil), e.listeners...)
}

func (e *Engine) invalid(reason model.InvalidMoveReason) {
	e.logger.Info("invalid move", slog.String("reason", string(reason)))
	e.publish(model.EventInvalidMove, reason)
}

func (e *Engine) publish(kind model.EventType, reason model.InvalidMoveReason) {
	err := e.queue.Publish(func() {
		e.Pause()
		defer e.Resume()

		for _, l := range e.snapshotListeners() {
			switch kind {
			case model.EventMove:
				l.OnMove(e)
			case model.EventFinish:
				l.OnFinish(e)
			case model.EventInvalidMove:
				l.OnInvalidMove(e, reason)
			default:
				panic("unsupported event type " + string(kind))
			}
		}
	})
	if err != nil && !errors.Is(err, model.ErrQueueClosed) {
		e.logger.Error("failed to publish event", slog.String("error", err.Error()))
	}
}

// ListenerFuncs adapts plain functions to Listener. Nil fields are skipped.
type ListenerFuncs struct {
	Move        func(e *Engine)
	Finish      func(e *Engine)
	InvalidMove func(e *Engine, reason model.InvalidMoveReason)
}

func (f *ListenerFuncs) OnMove(e *Engine) {
	if f.Move != nil {
		f.Move(e)
	}
}

func (f *ListenerFuncs) OnFinish(e *Engine) {
	if f.Finish != nil {
		f.Finish(e)
	}
}

func (f *ListenerFuncs) OnInvalidMove(e *Engine, reason model.InvalidMoveReason) {
	if f.InvalidMove != nil {
		f.InvalidMove(e, reason)
	}
}

// Forward returns a listener that hands every notification to fn
func Forward(fn func(e *Engine, kind model.EventType, reason model.InvalidMoveReason)) Listener {
	return &ListenerFuncs{
		Move:   func(e *Engine) { fn(e, model.EventMove, "") },
		Finish: func(e *Engine) { fn(e, model.EventFinish, "") },
		InvalidMove: func(e *Engine, reason model.InvalidMoveReason) {
			fn(e, model.EventInvalidMove, reason)
		},
	}
}

// NewEvent describes the engine's current state as an event of the given kind
func NewEvent(e *Engine, id model.SessionID, kind model.EventType, reason model.InvalidMoveReason, at time.Time) model.Event {
	ev := model.Event{
		Type:      kind,
		SessionID: id,
		Timestamp: at,
		Reason:    reason,
	}
	switch kind {
	case model.EventMove:
		payload, _ := e.LastMove()
		payload.Turn = e.CurrentPlayer()
		ev.Payload = payload
	case model.EventFinish:
		ev.Payload = model.FinishPayload{
			Winners: e.Winners(),
			Scores: lo.SliceToMap(e.Participants(), func(p model.Participant) (string, int) {
				return p.Name, p.Score
			}),
		}
	}
	return ev
}
