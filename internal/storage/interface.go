package storage

import (
	"context"

	"github.com/mcoot/wordmaster/internal/model"
)

// Storage defines the interface for data persistence
type Storage interface {
	// Saved game operations
	SaveGame(ctx context.Context, record *model.GameRecord) error
	GetGame(ctx context.Context, name string) (*model.GameRecord, error)
	DeleteGame(ctx context.Context, name string) error
	ListGames(ctx context.Context) ([]string, error)

	// Dictionary operations
	GetDictionaryWords(ctx context.Context, language string) ([]string, error)
	SaveDictionaryWords(ctx context.Context, language string, words []string) error

	Close() error
}
