package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/redis/go-redis/v9"
	"github.com/samber/lo"

	"github.com/mcoot/wordmaster/internal/model"
	"github.com/mcoot/wordmaster/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance, retrying the initial ping
func New(ctx context.Context, cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	err = retry.Do(
		func() error {
			pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			return client.Ping(pingCtx).Err()
		},
		retry.Context(ctx),
		retry.Attempts(max(cfg.ConnectAttempts, 1)),
		retry.Delay(cfg.ConnectDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Saved game operations

func (s *Storage) SaveGame(ctx context.Context, record *model.GameRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}

	// Use pipeline for atomic save + index update
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, gameKey(record.Name), data, s.cfg.GameTTL)
	pipe.SAdd(ctx, gamesIndexKey(), record.Name)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetGame(ctx context.Context, name string) (*model.GameRecord, error) {
	data, err := s.client.Get(ctx, gameKey(name)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrGameNotFound
		}
		return nil, err
	}

	var record model.GameRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *Storage) DeleteGame(ctx context.Context, name string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, gameKey(name))
	pipe.SRem(ctx, gamesIndexKey(), name)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Storage) ListGames(ctx context.Context) ([]string, error) {
	names, err := s.client.SMembers(ctx, gamesIndexKey()).Result()
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return []string{}, nil
	}

	// Drop names whose record has expired
	keys := lo.Map(names, func(name string, _ int) string { return gameKey(name) })
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	live := make([]string, 0, len(names))
	for i, val := range values {
		if val != nil {
			live = append(live, names[i])
		}
	}
	sort.Strings(live)
	return live, nil
}

// Dictionary operations

func (s *Storage) GetDictionaryWords(ctx context.Context, language string) ([]string, error) {
	words, err := s.client.SMembers(ctx, dictionaryKey(language)).Result()
	if err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, model.ErrDictionaryNotLoaded
	}
	return words, nil
}

func (s *Storage) SaveDictionaryWords(ctx context.Context, language string, words []string) error {
	key := dictionaryKey(language)

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, key)
	for _, chunk := range lo.Chunk(words, 1000) {
		// Convert []string to []interface{} for SAdd
		members := lo.ToAnySlice(chunk)
		pipe.SAdd(ctx, key, members...)
	}
	_, err := pipe.Exec(ctx)
	return err
}
