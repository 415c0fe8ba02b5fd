// Package session keeps the live games of a host process and moves them in
// and out of storage.
package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/mcoot/wordmaster/internal/dependencies/clock"
	"github.com/mcoot/wordmaster/internal/dependencies/random"
	"github.com/mcoot/wordmaster/internal/model"
	"github.com/mcoot/wordmaster/internal/services/bot"
	"github.com/mcoot/wordmaster/internal/services/dictionary"
	"github.com/mcoot/wordmaster/internal/services/game"
	"github.com/mcoot/wordmaster/internal/storage"
)

const (
	// IDLength is the length of generated session IDs
	IDLength = 8
	// IDAlphabet is the characters used in session IDs (avoid confusing chars)
	IDAlphabet = "abcdefghjkmnpqrstuvwxyz23456789"
)

// Config holds session settings
type Config struct {
	Game            game.Config
	DefaultLanguage string
}

// DefaultConfig returns the default session configuration
func DefaultConfig() Config {
	return Config{
		Game:            game.DefaultConfig(),
		DefaultLanguage: "en",
	}
}

// CreateRequest describes a new game
type CreateRequest struct {
	Language     string
	StartWord    string // Empty picks a random word as wide as the board
	Width        int    // Zero uses the configured width
	Height       int    // Zero uses the configured height
	Participants []model.Participant
}

// Session is a live game
type Session struct {
	ID        model.SessionID
	Language  string
	Engine    *game.Engine
	CreatedAt time.Time

	// pauses counts the engine holds taken through Pause, so Resume never
	// releases a hold the engine took for itself
	pauseMu sync.Mutex
	pauses  int
}

// Pause takes a hold on the engine on behalf of the session's clients
func (s *Session) Pause() {
	s.pauseMu.Lock()
	defer s.pauseMu.Unlock()
	s.Engine.Pause()
	s.pauses++
}

// Resume releases one hold taken by Pause
func (s *Session) Resume() error {
	s.pauseMu.Lock()
	defer s.pauseMu.Unlock()
	if s.pauses == 0 {
		return model.ErrNotPaused
	}
	s.pauses--
	s.Engine.Resume()
	return nil
}

// Paused reports how many holds taken by Pause are outstanding
func (s *Session) Paused() int {
	s.pauseMu.Lock()
	defer s.pauseMu.Unlock()
	return s.pauses
}

// Hook is called for every session the manager creates or loads, before the
// engine is started
type Hook func(s *Session)

// Manager owns live sessions
type Manager struct {
	cfg     Config
	dicts   *dictionary.Cache
	storage storage.Storage
	bots    *bot.Service
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger

	mu       sync.RWMutex
	sessions map[model.SessionID]*Session
	hooks    []Hook
}

// NewManager creates a new session Manager
func NewManager(
	cfg Config,
	dicts *dictionary.Cache,
	store storage.Storage,
	bots *bot.Service,
	clk clock.Clock,
	rnd random.Random,
	logger *slog.Logger,
) *Manager {
	return &Manager{
		cfg:      cfg,
		dicts:    dicts,
		storage:  store,
		bots:     bots,
		clock:    clk,
		random:   rnd,
		logger:   logger.With(slog.String("component", "session-manager")),
		sessions: make(map[model.SessionID]*Session),
	}
}

// OnSession registers a hook run for every new session
func (m *Manager) OnSession(h Hook) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hooks = append(m.hooks, h)
}

// Create starts a new game. The engine is started once its dictionary has loaded.
func (m *Manager) Create(ctx context.Context, req CreateRequest) (*Session, error) {
	if len(req.Participants) == 0 {
		return nil, model.ErrNoParticipants
	}
	for _, p := range req.Participants {
		if p.Autonomous && p.Difficulty != "" && !m.bots.HasDifficulty(p.Difficulty) {
			return nil, fmt.Errorf("%w: %q", model.ErrUnknownDifficulty, p.Difficulty)
		}
	}

	lang := req.Language
	if lang == "" {
		lang = m.cfg.DefaultLanguage
	}
	loader, err := m.dicts.Loader(ctx, lang)
	if err != nil {
		return nil, err
	}

	cfg := m.cfg.Game
	if req.Width > 0 {
		cfg.Width = req.Width
	}
	if req.Height > 0 {
		cfg.Height = req.Height
	}

	startWord := req.StartWord
	if startWord == "" {
		startWord, err = m.randomStartWord(ctx, loader, cfg.Width)
		if err != nil {
			return nil, err
		}
	}

	e, err := game.New(cfg, loader, req.Participants, startWord, m.engineDeps())
	if err != nil {
		return nil, err
	}

	s := m.register(lang, e)
	go m.startWhenLoaded(s, loader)
	return s, nil
}

// randomStartWord picks a word as wide as the board, or the longest shorter
// length the vocabulary has
func (m *Manager) randomStartWord(ctx context.Context, loader *dictionary.Loader, width int) (string, error) {
	vocab, err := loader.Wait(ctx)
	if err != nil {
		return "", err
	}
	for n := width; n >= 2; n-- {
		if w, ok := vocab.Forward.RandomWord(n, m.random); ok {
			return w, nil
		}
	}
	return "", model.ErrInvalidStartWord
}

func (m *Manager) startWhenLoaded(s *Session, loader *dictionary.Loader) {
	<-loader.Done()
	if !loader.IsLoaded() {
		m.logger.Error("dictionary failed to load, session not started",
			slog.String("session_id", string(s.ID)),
			slog.String("language", s.Language),
		)
		return
	}
	if err := s.Engine.Start(); err != nil {
		m.logger.Warn("session not started",
			slog.String("session_id", string(s.ID)),
			slog.String("error", err.Error()),
		)
	}
}

func (m *Manager) engineDeps() game.Dependencies {
	return game.Dependencies{
		Random:   m.random,
		Selector: m.bots,
		Logger:   m.logger,
	}
}

func (m *Manager) register(lang string, e *game.Engine) *Session {
	m.mu.Lock()
	var id model.SessionID
	for attempt := 0; ; attempt++ {
		id = model.SessionID(m.random.String(IDLength, IDAlphabet))
		if attempt > 0 {
			id = model.SessionID(fmt.Sprintf("%s%d", id, attempt))
		}
		if _, exists := m.sessions[id]; !exists && id != "" {
			break
		}
	}
	s := &Session{
		ID:        id,
		Language:  lang,
		Engine:    e,
		CreatedAt: m.clock.Now(),
	}
	m.sessions[id] = s
	hooks := append([]Hook(nil), m.hooks...)
	m.mu.Unlock()

	m.bots.Attach(e)
	for _, h := range hooks {
		h(s)
	}

	m.logger.Info("session created",
		slog.String("session_id", string(id)),
		slog.String("language", lang),
	)
	return s
}

// Get retrieves a live session
func (m *Manager) Get(id model.SessionID) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	return s, nil
}

// List returns live sessions, oldest first
func (m *Manager) List() []*Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Delete destroys a live session
func (m *Manager) Delete(id model.SessionID) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		return model.ErrSessionNotFound
	}
	s.Engine.Destroy()
	m.logger.Info("session deleted", slog.String("session_id", string(id)))
	return nil
}

// Save stores a live session under name, replacing any game saved there
func (m *Manager) Save(ctx context.Context, id model.SessionID, name string) error {
	s, err := m.Get(id)
	if err != nil {
		return err
	}
	if name == "" || !utf8.ValidString(name) {
		return fmt.Errorf("invalid save name %q", name)
	}

	var buf bytes.Buffer
	if err := s.Engine.Save(&buf); err != nil {
		return err
	}
	record := &model.GameRecord{
		Name:    name,
		Data:    buf.Bytes(),
		SavedAt: m.clock.Now(),
	}
	if err := m.storage.SaveGame(ctx, record); err != nil {
		return err
	}

	m.logger.Info("game saved",
		slog.String("session_id", string(id)),
		slog.String("name", name),
	)
	return nil
}

// Load creates a live session from a saved game. With asReplay the session
// starts at the seeded board and walks the saved moves with Redo.
func (m *Manager) Load(ctx context.Context, name string, asReplay bool) (*Session, error) {
	record, err := m.storage.GetGame(ctx, name)
	if err != nil {
		return nil, err
	}
	s, err := m.Import(ctx, record.Data, asReplay)
	if err != nil {
		return nil, fmt.Errorf("load game %q: %w", name, err)
	}
	m.logger.Info("game loaded",
		slog.String("session_id", string(s.ID)),
		slog.String("name", name),
		slog.Bool("replay", asReplay),
	)
	return s, nil
}

// Import creates a live session from a game written by Engine.Save
func (m *Manager) Import(ctx context.Context, data []byte, asReplay bool) (*Session, error) {
	var header struct {
		Language string `json:"language"`
	}
	if err := json.Unmarshal(data, &header); err != nil {
		return nil, fmt.Errorf("decode game: %w", err)
	}
	loader, err := m.dicts.Loader(ctx, header.Language)
	if err != nil {
		return nil, err
	}
	// The vocabulary fingerprint is checked on restore
	if _, err := loader.Wait(ctx); err != nil {
		return nil, err
	}

	e, err := game.Restore(m.cfg.Game, loader, bytes.NewReader(data), asReplay, m.engineDeps())
	if err != nil {
		return nil, err
	}

	s := m.register(header.Language, e)
	if err := e.Start(); err != nil {
		return nil, err
	}
	return s, nil
}

// SavedGames lists the names of stored games
func (m *Manager) SavedGames(ctx context.Context) ([]string, error) {
	return m.storage.ListGames(ctx)
}

// DeleteSaved removes a stored game
func (m *Manager) DeleteSaved(ctx context.Context, name string) error {
	return m.storage.DeleteGame(ctx, name)
}

// Close destroys every live session and waits for their goroutines to exit
func (m *Manager) Close() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[model.SessionID]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		s.Engine.Destroy()
	}
	m.bots.Close()
	for _, s := range sessions {
		s.Engine.Wait()
	}
}
