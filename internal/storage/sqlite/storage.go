package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mcoot/wordmaster/internal/model"
	"github.com/mcoot/wordmaster/internal/storage"
)

const schema = `
CREATE TABLE IF NOT EXISTS games (
	name     TEXT PRIMARY KEY,
	data     BLOB NOT NULL,
	saved_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS dictionary_words (
	language TEXT NOT NULL,
	word     TEXT NOT NULL,
	PRIMARY KEY (language, word)
);
`

// Storage is a SQLite-backed implementation of the storage interface
type Storage struct {
	db *sql.DB
}

// New opens the database and applies the schema
func New(ctx context.Context, cfg Config) (*Storage, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)", cfg.Path, cfg.BusyTimeout.Milliseconds())
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// One connection keeps ":memory:" databases shared and serializes writers
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Storage{db: db}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	return s.db.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Saved game operations

func (s *Storage) SaveGame(ctx context.Context, record *model.GameRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO games (name, data, saved_at) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET data = excluded.data, saved_at = excluded.saved_at`,
		record.Name, record.Data, record.SavedAt.UnixNano(),
	)
	return err
}

func (s *Storage) GetGame(ctx context.Context, name string) (*model.GameRecord, error) {
	var (
		data    []byte
		savedAt int64
	)
	err := s.db.QueryRowContext(ctx, `SELECT data, saved_at FROM games WHERE name = ?`, name).Scan(&data, &savedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrGameNotFound
		}
		return nil, err
	}
	return &model.GameRecord{
		Name:    name,
		Data:    data,
		SavedAt: time.Unix(0, savedAt).UTC(),
	}, nil
}

func (s *Storage) DeleteGame(ctx context.Context, name string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM games WHERE name = ?`, name)
	return err
}

func (s *Storage) ListGames(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM games ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Dictionary operations

func (s *Storage) GetDictionaryWords(ctx context.Context, language string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT word FROM dictionary_words WHERE language = ?`, language)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var words []string
	for rows.Next() {
		var w string
		if err := rows.Scan(&w); err != nil {
			return nil, err
		}
		words = append(words, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, model.ErrDictionaryNotLoaded
	}
	return words, nil
}

func (s *Storage) SaveDictionaryWords(ctx context.Context, language string, words []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM dictionary_words WHERE language = ?`, language); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO dictionary_words (language, word) VALUES (?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, w := range words {
		if _, err := stmt.ExecContext(ctx, language, w); err != nil {
			return err
		}
	}
	return tx.Commit()
}
