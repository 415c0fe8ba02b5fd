package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcoot/wordmaster/internal/api/response"
	"github.com/mcoot/wordmaster/internal/services/session"
)

func newReplayCmd(a *app) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "replay <file>",
		Short: "Step through a saved game",
		Long: `Open a saved game at its starting position and step through the moves.

Interactive keys: enter or n for the next move, p for the previous one, q to quit.
With --all every position is printed in order.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			application, err := a.localApp(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = application.Close() }()

			sess, err := application.Sessions.Import(cmd.Context(), data, true)
			if err != nil {
				return err
			}

			out := a.output(cmd)
			if all {
				return replayAll(sess, out)
			}
			in, err := newLineReader(cmd.InOrStdin(), cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer func() { _ = in.Close() }()
			return replayInteractive(sess, in, out)
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Print every position without prompting")

	return cmd
}

func replayAll(sess *session.Session, out *Output) error {
	e := sess.Engine
	out.Print(response.SessionFromModel(sess))
	for e.CanRedo() {
		if err := e.Redo(); err != nil {
			return err
		}
		e.WaitIdle()
		out.Print(response.SessionFromModel(sess))
	}
	return nil
}

func replayInteractive(sess *session.Session, in lineReader, out *Output) error {
	e := sess.Engine
	for {
		out.Print(response.SessionFromModel(sess))
		line, err := in.ReadLine("[n]ext [p]rev [q]uit > ")
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		switch strings.TrimSpace(line) {
		case "", "n", "next":
			err = e.Redo()
		case "p", "prev":
			err = e.Undo()
		case "q", "quit":
			return nil
		default:
			err = fmt.Errorf("unknown key %q", line)
		}
		if err != nil {
			out.PrintError(err)
		}
		e.WaitIdle()
	}
}
