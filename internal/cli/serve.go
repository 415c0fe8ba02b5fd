package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mcoot/wordmaster/internal/api"
	"github.com/mcoot/wordmaster/internal/config"
	"github.com/mcoot/wordmaster/internal/factory"
)

func newServeCmd(a *app) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := a.settings()
			if err != nil {
				return err
			}
			if port != 0 {
				settings.Server.Port = port
			}

			logger := slog.New(slog.NewJSONHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
				Level: settings.Level(),
			}))

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return Serve(ctx, settings, logger)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "Listen port (overrides config)")

	return cmd
}

// Serve wires the application and runs the API server until ctx is cancelled
func Serve(ctx context.Context, settings config.Config, logger *slog.Logger) error {
	app, err := factory.New(ctx, settings.FactoryConfig(logger))
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("failed to close application", slog.String("error", err.Error()))
		}
	}()

	// Load dictionaries up front so the first session does not wait
	if err := app.Dictionaries.Preload(ctx, app.Dictionaries.Languages()...); err != nil {
		logger.Warn("could not load dictionaries", slog.String("error", err.Error()))
	}

	router := api.NewRouter(api.RouterConfig{
		Logger:     logger,
		Sessions:   app.Sessions,
		HubManager: app.HubManager,
	})

	server := api.NewServer(router, settings.ServerConfig(), logger)
	// Event streams hold their connections open until their hub closes
	server.OnShutdown(app.HubManager.Close)

	return server.ListenAndRun(ctx)
}
