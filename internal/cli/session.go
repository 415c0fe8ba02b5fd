package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcoot/wordmaster/internal/api/request"
)

func newSessionCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Live session commands",
	}

	cmd.AddCommand(newSessionCreateCmd(a))
	cmd.AddCommand(newSessionListCmd(a))
	cmd.AddCommand(newSessionShowCmd(a))
	cmd.AddCommand(newSessionDeleteCmd(a))
	cmd.AddCommand(newSessionMoveCmd(a))
	cmd.AddCommand(newSessionHintCmd(a))
	cmd.AddCommand(newSessionSaveCmd(a))
	for _, action := range []struct{ name, short string }{
		{"generate", "Let the engine move for the current participant"},
		{"undo", "Undo the last step of moves"},
		{"redo", "Redo the next step of moves"},
		{"surrender", "Give up on behalf of the current participant"},
		{"pause", "Hold back engine operations"},
		{"resume", "Release a pause"},
	} {
		cmd.AddCommand(newSessionActionCmd(a, action.name, action.short))
	}

	return cmd
}

func newSessionCreateCmd(a *app) *cobra.Command {
	var req request.CreateSessionRequest
	var players []string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new session",
		Example: `  wordmaster session create --player alice --player robot:bot:hard
  wordmaster session create --start cat --width 3 --height 3 --player alice --player bob`,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, s := range players {
				p, err := parseParticipant(s)
				if err != nil {
					return err
				}
				req.Participants = append(req.Participants, p)
			}

			result, err := a.client.CreateSession(req)
			if err != nil {
				return err
			}

			a.output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Language, "lang", "", "Dictionary language")
	cmd.Flags().StringVar(&req.StartWord, "start", "", "Start word (random if empty)")
	cmd.Flags().IntVar(&req.Width, "width", 0, "Board width")
	cmd.Flags().IntVar(&req.Height, "height", 0, "Board height")
	cmd.Flags().StringArrayVarP(&players, "player", "p", nil, "Participant as name, name:bot or name:bot:difficulty")
	_ = cmd.MarkFlagRequired("player")

	return cmd
}

func newSessionListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List live sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := a.client.Sessions()
			if err != nil {
				return err
			}

			a.output(cmd).Print(result)
			return nil
		},
	}
}

func newSessionShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a session's board and scores",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := a.client.Session(args[0])
			if err != nil {
				return err
			}

			a.output(cmd).Print(result)
			return nil
		},
	}
}

func newSessionDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "End a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.client.DeleteSession(args[0]); err != nil {
				return err
			}

			a.output(cmd).PrintMessage(fmt.Sprintf("Deleted session %s", args[0]))
			return nil
		},
	}
}

func newSessionMoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "move <id> <letter> <row,col> <row,col>...",
		Short: "Place a letter and name the word it completes",
		Long: `Place a letter in an empty cell and give the word as the path of cells
that spell it, in order. The new cell must be on the path.

Whether the word is accepted is reported on the event stream.`,
		Example: `  wordmaster session move k3xq9m2a s 0,2 1,0 1,1 1,2 0,2`,
		Args:    cobra.MinimumNArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := parseMove(args[1:])
			if err != nil {
				return err
			}

			if err := a.client.Move(args[0], req); err != nil {
				return err
			}

			a.output(cmd).PrintMessage(fmt.Sprintf("Submitted %s at %d,%d", req.Letter, req.Cell.Row, req.Cell.Col))
			return nil
		},
	}
}

func newSessionActionCmd(a *app, name, short string) *cobra.Command {
	return &cobra.Command{
		Use:   name + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.client.Action(args[0], name); err != nil {
				return err
			}

			a.output(cmd).PrintMessage(fmt.Sprintf("%s: %s", args[0], name))
			return nil
		},
	}
}

func newSessionHintCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "hint <id>",
		Short: "Show a move the engine found for the current position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := a.client.Hint(args[0])
			if err != nil {
				return err
			}

			a.output(cmd).Print(result)
			return nil
		},
	}
}

func newSessionSaveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "save <id> <name>",
		Short: "Save a session to storage under a name",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.client.Save(args[0], args[1]); err != nil {
				return err
			}

			a.output(cmd).PrintMessage(fmt.Sprintf("Saved %s as %s", args[0], args[1]))
			return nil
		},
	}
}

func newGamesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "games",
		Short: "Saved game commands",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List saved games",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := a.client.SavedGames()
			if err != nil {
				return err
			}

			a.output(cmd).Print(result)
			return nil
		},
	})

	var replay bool
	load := &cobra.Command{
		Use:   "load <name>",
		Short: "Start a session from a saved game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := a.client.Load(args[0], replay)
			if err != nil {
				return err
			}

			a.output(cmd).Print(result)
			return nil
		},
	}
	load.Flags().BoolVar(&replay, "replay", false, "Open for stepping through the moves instead of playing on")
	cmd.AddCommand(load)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a saved game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.client.DeleteSaved(args[0]); err != nil {
				return err
			}

			a.output(cmd).PrintMessage(fmt.Sprintf("Deleted %s", args[0]))
			return nil
		},
	})

	return cmd
}

func newHealthCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check the server is up",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := a.client.Health()
			if err != nil {
				return err
			}

			a.output(cmd).Print(result)
			return nil
		},
	}
}
