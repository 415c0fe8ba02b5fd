package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/mcoot/wordmaster/internal/api/sse"
	"github.com/mcoot/wordmaster/internal/dependencies/clock"
	"github.com/mcoot/wordmaster/internal/dependencies/random"
	"github.com/mcoot/wordmaster/internal/services/bot"
	"github.com/mcoot/wordmaster/internal/services/dictionary"
	"github.com/mcoot/wordmaster/internal/services/relay"
	"github.com/mcoot/wordmaster/internal/services/session"
	"github.com/mcoot/wordmaster/internal/storage"
	"github.com/mcoot/wordmaster/internal/storage/memory"
	redisstorage "github.com/mcoot/wordmaster/internal/storage/redis"
	sqlitestorage "github.com/mcoot/wordmaster/internal/storage/sqlite"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
	StorageTypeSQLite = "sqlite"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	Dictionaries *dictionary.Cache
	Bots         *bot.Service
	Sessions     *session.Manager
	HubManager   *sse.HubManager
	Broadcaster  *sse.Broadcaster

	// Relay is nil unless a NATS URL was configured
	Relay *relay.Relay

	nats   *nats.Conn
	logger *slog.Logger
}

// Config holds configuration for the application factory
type Config struct {
	// Dictionaries maps a language to its word list file. An empty path
	// loads the words previously saved to storage for that language.
	Dictionaries map[string]string
	// TiersPath is a YAML file of bot difficulty tiers (optional)
	// Tiers it names replace the built-in ones
	TiersPath string
	// Session holds session and board defaults (optional)
	// If zero value, defaults to session.DefaultConfig()
	Session session.Config
	// Bot holds bot timing settings (optional)
	// If zero value, defaults to bot.DefaultConfig()
	Bot bot.Config
	// Relay holds NATS settings (optional)
	// If URL is empty, no events are relayed
	Relay relay.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory", "redis" or "sqlite")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// SQLiteConfig holds the database location (required if StorageType is "sqlite")
	SQLiteConfig *sqlitestorage.Config
}

// New creates a new application with all dependencies wired
func New(ctx context.Context, cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	store, err := newStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	tiers, err := bot.LoadTiersFile(cfg.TiersPath)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("load difficulty tiers: %w", err)
	}

	var nc *nats.Conn
	var publisher relay.Publisher
	if cfg.Relay.URL != "" {
		nc, err = relay.Connect(cfg.Relay, logger)
		if err != nil {
			_ = store.Close()
			return nil, err
		}
		publisher = nc
	}

	app := newWithDependencies(store, clk, rnd, cfg, bot.NewTieredStrategies(tiers, rnd), publisher, logger)
	app.nats = nc

	for lang, path := range cfg.Dictionaries {
		if path == "" {
			app.Dictionaries.Register(lang, dictionary.StorageSource{Store: store, Language: lang})
			continue
		}
		app.Dictionaries.Register(lang, dictionary.FileSource{Path: path, Store: store, Language: lang})
	}

	return app, nil
}

func newStorage(ctx context.Context, cfg Config) (storage.Storage, error) {
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		return memory.New(), nil
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		return redisstorage.New(ctx, *cfg.RedisConfig)
	case StorageTypeSQLite:
		if cfg.SQLiteConfig == nil {
			return nil, errors.New("SQLiteConfig required when StorageType is sqlite")
		}
		return sqlitestorage.New(ctx, *cfg.SQLiteConfig)
	default:
		return nil, errors.New("invalid StorageType: must be 'memory', 'redis' or 'sqlite'")
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	cfg Config,
	strategies map[string]bot.Strategy,
	publisher relay.Publisher,
	logger *slog.Logger,
) *App {
	sessionCfg := cfg.Session
	if sessionCfg.DefaultLanguage == "" {
		sessionCfg = session.DefaultConfig()
	}
	botCfg := cfg.Bot
	if botCfg.DefaultDifficulty == "" {
		botCfg = bot.DefaultConfig()
	}

	dicts := dictionary.NewCache(logger)
	bots := bot.NewService(botCfg, strategies, clk, logger)
	sessions := session.NewManager(sessionCfg, dicts, store, bots, clk, rnd, logger)
	hubManager := sse.NewHubManager(logger)
	broadcaster := sse.NewBroadcaster(hubManager, clk, logger)

	sessions.OnSession(func(s *session.Session) {
		broadcaster.Attach(s.ID, s.Engine)
	})

	var rl *relay.Relay
	if publisher != nil {
		prefix := cfg.Relay.SubjectPrefix
		if prefix == "" {
			prefix = relay.DefaultConfig().SubjectPrefix
		}
		rl = relay.New(publisher, prefix, clk, logger)
		sessions.OnSession(func(s *session.Session) {
			rl.Attach(s.ID, s.Engine)
		})
	}

	return &App{
		Storage:      store,
		Clock:        clk,
		Random:       rnd,
		Dictionaries: dicts,
		Bots:         bots,
		Sessions:     sessions,
		HubManager:   hubManager,
		Broadcaster:  broadcaster,
		Relay:        rl,
		logger:       logger.With(slog.String("component", "factory")),
	}
}

// Close stops every session, closes event streams and releases connections
func (a *App) Close() error {
	a.Sessions.Close()
	a.HubManager.Close()
	if a.nats != nil {
		if err := a.nats.Drain(); err != nil {
			a.logger.Warn("failed to drain nats connection", slog.String("error", err.Error()))
		}
	}
	return a.Storage.Close()
}
