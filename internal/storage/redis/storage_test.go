package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/wordmaster/internal/model"
	"github.com/mcoot/wordmaster/internal/storage"
	"github.com/mcoot/wordmaster/internal/storage/storagetest"
)

func newMiniStorage(t *testing.T) (*miniredis.Miniredis, *Storage) {
	mini := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{
		Addr: mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.GameTTL = time.Hour
	return mini, NewWithClient(client, cfg)
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, &storagetest.Suite{
		NewStorage: func() storage.Storage {
			_, s := newMiniStorage(t)
			return s
		},
	})
}

func TestExpiredGamesDropFromList(t *testing.T) {
	mini, s := newMiniStorage(t)
	ctx := context.Background()

	require.NoError(t, s.SaveGame(ctx, &model.GameRecord{Name: "old", Data: []byte(`{}`)}))
	require.NoError(t, s.SaveGame(ctx, &model.GameRecord{Name: "new", Data: []byte(`{}`)}))

	// Expire only "old"
	mini.Del(gameKey("old"))

	names, err := s.ListGames(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"new"}, names)
}

func TestGameTTLApplied(t *testing.T) {
	mini, s := newMiniStorage(t)
	ctx := context.Background()

	require.NoError(t, s.SaveGame(ctx, &model.GameRecord{Name: "ttl", Data: []byte(`{}`)}))
	require.Equal(t, time.Hour, mini.TTL(gameKey("ttl")))
}

func TestNewRetriesUntilReachable(t *testing.T) {
	mini := miniredis.RunT(t)
	cfg := DefaultConfig()
	cfg.URL = "redis://" + mini.Addr()
	cfg.ConnectAttempts = 2
	cfg.ConnectDelay = time.Millisecond

	s, err := New(context.Background(), cfg)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	mini.Close()
	_, err = New(context.Background(), cfg)
	require.Error(t, err)
}
