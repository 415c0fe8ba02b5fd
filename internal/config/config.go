// Package config loads host settings from an optional YAML file and
// WORDMASTER_* environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/mcoot/wordmaster/internal/api"
	"github.com/mcoot/wordmaster/internal/factory"
	"github.com/mcoot/wordmaster/internal/services/bot"
	"github.com/mcoot/wordmaster/internal/services/game"
	"github.com/mcoot/wordmaster/internal/services/relay"
	"github.com/mcoot/wordmaster/internal/services/session"
	redisstorage "github.com/mcoot/wordmaster/internal/storage/redis"
	sqlitestorage "github.com/mcoot/wordmaster/internal/storage/sqlite"
)

// EnvPrefix is prepended to every environment variable, e.g. WORDMASTER_STORAGE_TYPE
const EnvPrefix = "WORDMASTER"

// Config is the complete host configuration
type Config struct {
	LogLevel string `mapstructure:"log_level"`

	Server struct {
		Host            string        `mapstructure:"host"`
		Port            int           `mapstructure:"port"`
		ReadTimeout     time.Duration `mapstructure:"read_timeout"`
		ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	} `mapstructure:"server"`

	Storage struct {
		Type       string `mapstructure:"type"`
		RedisURL   string `mapstructure:"redis_url"`
		SQLitePath string `mapstructure:"sqlite_path"`
	} `mapstructure:"storage"`

	// Dictionaries maps a language to a word list file; an empty path reads
	// the list saved in storage
	Dictionaries    map[string]string `mapstructure:"dictionaries"`
	DefaultLanguage string            `mapstructure:"default_language"`

	Board struct {
		Width    int  `mapstructure:"width"`
		Height   int  `mapstructure:"height"`
		UndoStep int  `mapstructure:"undo_step"`
		Analyze  bool `mapstructure:"analyze"`
	} `mapstructure:"board"`

	Bot struct {
		Difficulty string `mapstructure:"difficulty"`
		TiersPath  string `mapstructure:"tiers_path"`
	} `mapstructure:"bot"`

	NATS struct {
		URL           string `mapstructure:"url"`
		SubjectPrefix string `mapstructure:"subject_prefix"`
	} `mapstructure:"nats"`
}

// Default returns the configuration used when nothing overrides it
func Default() Config {
	var c Config
	srv := api.DefaultServerConfig()
	gameCfg := game.DefaultConfig()

	c.LogLevel = "info"
	c.Server.Host = srv.Host
	c.Server.Port = srv.Port
	c.Server.ReadTimeout = srv.ReadTimeout
	c.Server.ShutdownTimeout = srv.ShutdownTimeout
	c.Storage.Type = factory.StorageTypeMemory
	c.Storage.RedisURL = redisstorage.DefaultConfig().URL
	c.Storage.SQLitePath = sqlitestorage.DefaultConfig().Path
	c.Dictionaries = map[string]string{"en": "data/words.txt"}
	c.DefaultLanguage = session.DefaultConfig().DefaultLanguage
	c.Board.Width = gameCfg.Width
	c.Board.Height = gameCfg.Height
	c.Board.UndoStep = gameCfg.UndoStep
	c.Board.Analyze = gameCfg.Analyze
	c.Bot.Difficulty = bot.DefaultConfig().DefaultDifficulty
	c.NATS.SubjectPrefix = relay.DefaultConfig().SubjectPrefix
	return c
}

// Load reads path (if not empty) and the environment over Default()
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// setDefaults registers every key so AutomaticEnv can override it
func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)
	v.SetDefault("storage.type", d.Storage.Type)
	v.SetDefault("storage.redis_url", d.Storage.RedisURL)
	v.SetDefault("storage.sqlite_path", d.Storage.SQLitePath)
	v.SetDefault("dictionaries", d.Dictionaries)
	v.SetDefault("default_language", d.DefaultLanguage)
	v.SetDefault("board.width", d.Board.Width)
	v.SetDefault("board.height", d.Board.Height)
	v.SetDefault("board.undo_step", d.Board.UndoStep)
	v.SetDefault("board.analyze", d.Board.Analyze)
	v.SetDefault("bot.difficulty", d.Bot.Difficulty)
	v.SetDefault("bot.tiers_path", d.Bot.TiersPath)
	v.SetDefault("nats.url", d.NATS.URL)
	v.SetDefault("nats.subject_prefix", d.NATS.SubjectPrefix)
}

// Validate checks values viper cannot
func (c Config) Validate() error {
	switch c.Storage.Type {
	case factory.StorageTypeMemory, factory.StorageTypeRedis, factory.StorageTypeSQLite:
	default:
		return fmt.Errorf("unknown storage type %q", c.Storage.Type)
	}
	if c.Board.Width <= 0 || c.Board.Height <= 0 {
		return errors.New("board dimensions must be positive")
	}
	if len(c.Dictionaries) == 0 {
		return errors.New("at least one dictionary is required")
	}
	if _, ok := c.Dictionaries[c.DefaultLanguage]; !ok {
		return fmt.Errorf("no dictionary for default language %q", c.DefaultLanguage)
	}
	return nil
}

// Level parses LogLevel, defaulting to info
func (c Config) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// ServerConfig returns the HTTP server settings
func (c Config) ServerConfig() api.ServerConfig {
	srv := api.DefaultServerConfig()
	srv.Host = c.Server.Host
	srv.Port = c.Server.Port
	srv.ReadTimeout = c.Server.ReadTimeout
	srv.ShutdownTimeout = c.Server.ShutdownTimeout
	return srv
}

// FactoryConfig returns the settings for wiring the application
func (c Config) FactoryConfig(logger *slog.Logger) factory.Config {
	sessionCfg := session.DefaultConfig()
	sessionCfg.DefaultLanguage = c.DefaultLanguage
	sessionCfg.Game = game.Config{
		Width:    c.Board.Width,
		Height:   c.Board.Height,
		UndoStep: c.Board.UndoStep,
		Analyze:  c.Board.Analyze,
	}

	botCfg := bot.DefaultConfig()
	botCfg.DefaultDifficulty = c.Bot.Difficulty

	relayCfg := relay.DefaultConfig()
	relayCfg.URL = c.NATS.URL
	relayCfg.SubjectPrefix = c.NATS.SubjectPrefix

	cfg := factory.Config{
		Dictionaries: c.Dictionaries,
		TiersPath:    c.Bot.TiersPath,
		Session:      sessionCfg,
		Bot:          botCfg,
		Relay:        relayCfg,
		Logger:       logger,
		StorageType:  c.Storage.Type,
	}
	switch c.Storage.Type {
	case factory.StorageTypeRedis:
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = c.Storage.RedisURL
		cfg.RedisConfig = &redisCfg
	case factory.StorageTypeSQLite:
		sqliteCfg := sqlitestorage.DefaultConfig()
		sqliteCfg.Path = c.Storage.SQLitePath
		cfg.SQLiteConfig = &sqliteCfg
	}
	return cfg
}
