// Package relay republishes engine events on NATS subjects of the form
// <prefix>.<session>.<event type>.
package relay

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/mcoot/wordmaster/internal/dependencies/clock"
	"github.com/mcoot/wordmaster/internal/model"
	"github.com/mcoot/wordmaster/internal/services/game"
)

// Config holds NATS settings. An empty URL disables the relay.
type Config struct {
	URL           string
	SubjectPrefix string
	ClientName    string
}

// DefaultConfig returns the default relay configuration
func DefaultConfig() Config {
	return Config{
		SubjectPrefix: "wordmaster",
		ClientName:    "wordmaster",
	}
}

// Publisher sends a message on a subject; *nats.Conn satisfies it
type Publisher interface {
	Publish(subject string, data []byte) error
}

// Connect dials the NATS server, reconnecting indefinitely after a drop
func Connect(cfg Config, logger *slog.Logger) (*nats.Conn, error) {
	logger = logger.With(slog.String("component", "relay"))
	nc, err := nats.Connect(cfg.URL,
		nats.Name(cfg.ClientName),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", slog.String("error", err.Error()))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("nats reconnected", slog.String("url", nc.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}
	return nc, nil
}

// Relay turns engine notifications into NATS messages
type Relay struct {
	publisher Publisher
	prefix    string
	clock     clock.Clock
	logger    *slog.Logger
}

// New creates a new Relay
func New(publisher Publisher, prefix string, clk clock.Clock, logger *slog.Logger) *Relay {
	return &Relay{
		publisher: publisher,
		prefix:    prefix,
		clock:     clk,
		logger:    logger.With(slog.String("component", "relay")),
	}
}

// Subject returns the subject events of the given type are published on
func (r *Relay) Subject(id model.SessionID, kind model.EventType) string {
	return fmt.Sprintf("%s.%s.%s", r.prefix, id, kind)
}

// Attach publishes every event of e under the session's subjects
func (r *Relay) Attach(id model.SessionID, e *game.Engine) game.Listener {
	l := game.Forward(func(e *game.Engine, kind model.EventType, reason model.InvalidMoveReason) {
		r.publish(game.NewEvent(e, id, kind, reason, r.clock.Now()))
	})
	e.Subscribe(l)
	return l
}

func (r *Relay) publish(ev model.Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		r.logger.Error("failed to encode event", slog.String("error", err.Error()))
		return
	}
	subject := r.Subject(ev.SessionID, ev.Type)
	if err := r.publisher.Publish(subject, data); err != nil {
		r.logger.Warn("failed to publish event",
			slog.String("subject", subject),
			slog.String("error", err.Error()),
		)
	}
}
