package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/mcoot/wordmaster/internal/cli"
	"github.com/mcoot/wordmaster/internal/config"
)

func main() {
	// Load .env file if it exists
	envErr := godotenv.Load()

	cfg, err := config.Load(os.Getenv("WORDMASTER_CONFIG"))

	// Set up logging with JSON output
	level := slog.LevelInfo
	if err == nil {
		level = cfg.Level()
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	if envErr != nil && !errors.Is(envErr, fs.ErrNotExist) {
		logger.Warn("could not load .env file", slog.String("error", envErr.Error()))
	}
	if err != nil {
		logger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cli.Serve(ctx, cfg, logger); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("server stopped")
}
