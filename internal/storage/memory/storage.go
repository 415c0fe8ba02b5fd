package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/mcoot/wordmaster/internal/model"
	"github.com/mcoot/wordmaster/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	games           map[string]*model.GameRecord
	dictionaryWords map[string][]string
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		games:           make(map[string]*model.GameRecord),
		dictionaryWords: make(map[string][]string),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Saved game operations

func (s *Storage) SaveGame(ctx context.Context, record *model.GameRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *record
	stored.Data = append([]byte(nil), record.Data...)
	s.games[record.Name] = &stored
	return nil
}

func (s *Storage) GetGame(ctx context.Context, name string) (*model.GameRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.games[name]
	if !ok {
		return nil, model.ErrGameNotFound
	}
	out := *record
	out.Data = append([]byte(nil), record.Data...)
	return &out, nil
}

func (s *Storage) DeleteGame(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.games, name)
	return nil
}

func (s *Storage) ListGames(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.games))
	for name := range s.games {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Dictionary operations

func (s *Storage) GetDictionaryWords(ctx context.Context, language string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	words, ok := s.dictionaryWords[language]
	if !ok || len(words) == 0 {
		return nil, model.ErrDictionaryNotLoaded
	}
	return append([]string(nil), words...), nil
}

func (s *Storage) SaveDictionaryWords(ctx context.Context, language string, words []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dictionaryWords[language] = append([]string(nil), words...)
	return nil
}

// Close is a no-op for in-memory storage
func (s *Storage) Close() error {
	return nil
}
