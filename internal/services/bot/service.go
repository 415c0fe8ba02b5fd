package bot

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/mcoot/wordmaster/internal/dependencies/clock"
	"github.com/mcoot/wordmaster/internal/model"
	"github.com/mcoot/wordmaster/internal/services/game"
)

// Config holds settings for driving autonomous participants
type Config struct {
	// DefaultDifficulty is used for participants whose tier is unknown
	DefaultDifficulty string

	// GenerateAttempts bounds retries while another operation holds the engine
	GenerateAttempts uint
	GenerateDelay    time.Duration
}

// DefaultConfig returns the default bot configuration
func DefaultConfig() Config {
	return Config{
		DefaultDifficulty: model.DifficultyMedium,
		GenerateAttempts:  20,
		GenerateDelay:     50 * time.Millisecond,
	}
}

// Service chooses moves for autonomous participants and plays their turns
type Service struct {
	cfg        Config
	strategies map[string]Strategy
	clock      clock.Clock
	logger     *slog.Logger

	// ctx is cancelled by Close and cuts short pending think delays
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Ensure Service can select moves for the engine
var _ game.Selector = (*Service)(nil)

// NewService creates a new bot Service
func NewService(cfg Config, strategies map[string]Strategy, clk clock.Clock, logger *slog.Logger) *Service {
	ctx, cancel := context.WithCancel(context.Background())
	return &Service{
		cfg:        cfg,
		strategies: strategies,
		clock:      clk,
		logger:     logger.With(slog.String("component", "bot-service")),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// HasDifficulty reports whether a strategy is registered under name
func (s *Service) HasDifficulty(name string) bool {
	_, ok := s.strategies[name]
	return ok
}

// Select picks a move for p using its difficulty tier
func (s *Service) Select(p model.Participant, moves []model.Move, _ *model.Board) model.Move {
	return s.strategyFor(p).ChooseMove(moves)
}

// strategyFor returns the strategy for a participant, falling back to the
// configured default and then to any registered strategy
func (s *Service) strategyFor(p model.Participant) Strategy {
	if st, ok := s.strategies[p.Difficulty]; ok {
		return st
	}
	s.logger.Warn("unknown difficulty, using default",
		slog.String("player", p.Name),
		slog.String("difficulty", p.Difficulty),
	)
	if st, ok := s.strategies[s.cfg.DefaultDifficulty]; ok {
		return st
	}
	for _, st := range s.strategies {
		return st
	}
	return nil
}

// Attach makes the service play every autonomous turn of e. The returned
// listener can be passed to Unsubscribe.
func (s *Service) Attach(e *game.Engine) game.Listener {
	l := &game.ListenerFuncs{Move: s.onMove}
	e.Subscribe(l)
	return l
}

// Wait blocks until every pending autonomous turn has been played or abandoned
func (s *Service) Wait() {
	s.wg.Wait()
}

// Close abandons turns still in their think delay and waits for the rest.
// Turns scheduled after Close are abandoned immediately.
func (s *Service) Close() {
	s.cancel()
	s.wg.Wait()
}

func (s *Service) onMove(e *game.Engine) {
	if e.IsReplay() || e.IsFinished() {
		return
	}
	turn := e.CurrentPlayer()
	p := e.Participants()[turn]
	if !p.Autonomous {
		return
	}

	pointer := e.Pointer()
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.play(e, p, turn, pointer)
	}()
}

// play waits out the participant's think time, then generates its move
// provided nobody has moved in the meantime
func (s *Service) play(e *game.Engine, p model.Participant, turn, pointer int) {
	if err := s.clock.Sleep(s.ctx, p.Delay); err != nil {
		s.logger.Debug("autonomous turn abandoned", slog.String("player", p.Name))
		return
	}

	err := retry.Do(
		func() error {
			if e.CurrentPlayer() != turn || e.Pointer() != pointer {
				return nil
			}
			return e.GenerateMove()
		},
		retry.Attempts(s.cfg.GenerateAttempts),
		retry.Delay(s.cfg.GenerateDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return errors.Is(err, model.ErrOperationInProgress)
		}),
	)
	switch {
	case err == nil, errors.Is(err, model.ErrTerminated), errors.Is(err, model.ErrReplayMode):
	default:
		s.logger.Error("autonomous move failed",
			slog.String("player", p.Name),
			slog.String("error", err.Error()),
		)
	}
}
