package cli

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mcoot/wordmaster/internal/config"
)

// app carries state shared by the subcommands of one invocation
type app struct {
	cfg    *Config
	client *Client
}

func (a *app) output(cmd *cobra.Command) *Output {
	return NewOutput(a.cfg.Output, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// settings loads the host configuration named by --config
func (a *app) settings() (config.Config, error) {
	return config.Load(a.cfg.ConfigPath)
}

// logger writes JSON logs to stderr, or discards them unless verbose
func (a *app) logger(cmd *cobra.Command, level slog.Level) *slog.Logger {
	if !a.cfg.Verbose {
		return slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return slog.New(slog.NewJSONHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	a := &app{cfg: DefaultConfig()}

	rootCmd := &cobra.Command{
		Use:   "wordmaster",
		Short: "Word-building grid game",
		Long: `wordmaster plays a word-building game on a small letter grid.

Local commands (play, moves, replay, serve) run the game engine in process.
The session, games, events and health commands talk to a running server.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.cfg.resolve(cmd); err != nil {
				return err
			}
			a.client = NewClient(a.cfg.ServerURL)
			return nil
		},
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&a.cfg.ServerURL, "server", a.cfg.ServerURL, "Server URL (env: WORDMASTER_SERVER)")
	rootCmd.PersistentFlags().StringVar(&a.cfg.ConfigPath, "config", a.cfg.ConfigPath, "Config file (env: WORDMASTER_CONFIG)")
	rootCmd.PersistentFlags().StringVarP(&a.cfg.Output, "output", "o", a.cfg.Output, "Output format: text, json")
	rootCmd.PersistentFlags().BoolVarP(&a.cfg.Verbose, "verbose", "v", a.cfg.Verbose, "Verbose output")

	// Local subcommands
	rootCmd.AddCommand(newServeCmd(a))
	rootCmd.AddCommand(newPlayCmd(a))
	rootCmd.AddCommand(newMovesCmd(a))
	rootCmd.AddCommand(newReplayCmd(a))

	// Remote subcommands
	rootCmd.AddCommand(newSessionCmd(a))
	rootCmd.AddCommand(newGamesCmd(a))
	rootCmd.AddCommand(newEventsCmd(a))
	rootCmd.AddCommand(newHealthCmd(a))

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
