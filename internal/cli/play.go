package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mcoot/wordmaster/internal/api/response"
	"github.com/mcoot/wordmaster/internal/model"
	"github.com/mcoot/wordmaster/internal/services/game"
	"github.com/mcoot/wordmaster/internal/services/session"
)

const playHelp = `Commands:
  move <letter> <row,col> <row,col>...   place a letter; the cells spell the word in order
  gen                                    let the engine move for you
  hint                                   show a move found for this position
  undo | redo                            step back or forward through your moves
  save <file>                            write the game to a file
  surrender                              give up
  help                                   show this text
  quit                                   leave the game`

func newPlayCmd(a *app) *cobra.Command {
	var (
		name          string
		bots          []string
		lang          string
		start         string
		width, height int
		delay         time.Duration
		loadPath      string
	)

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play in the terminal against autonomous opponents",
		Example: `  wordmaster play --bot medium
  wordmaster play --bot easy --bot hard --start cat --width 5 --height 5
  wordmaster play --file game.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := a.localApp(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = application.Close() }()

			var sess *session.Session
			if loadPath != "" {
				data, err := os.ReadFile(loadPath)
				if err != nil {
					return err
				}
				sess, err = application.Sessions.Import(cmd.Context(), data, false)
				if err != nil {
					return err
				}
			} else {
				participants := []model.Participant{{Name: name}}
				for i, difficulty := range bots {
					participants = append(participants, model.Participant{
						Name:       fmt.Sprintf("%s-%d", difficulty, i+1),
						Autonomous: true,
						Difficulty: difficulty,
						Delay:      delay,
					})
				}
				sess, err = application.Sessions.Create(cmd.Context(), session.CreateRequest{
					Language:     lang,
					StartWord:    start,
					Width:        width,
					Height:       height,
					Participants: participants,
				})
				if err != nil {
					return err
				}
			}

			in, err := newLineReader(cmd.InOrStdin(), cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer func() { _ = in.Close() }()

			return newTerminalGame(sess, in, a.output(cmd)).run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&name, "name", "you", "Your name")
	cmd.Flags().StringArrayVar(&bots, "bot", []string{"medium"}, "Opponent difficulty, repeat for more opponents")
	cmd.Flags().StringVar(&lang, "lang", "", "Dictionary language")
	cmd.Flags().StringVar(&start, "start", "", "Start word (random if empty)")
	cmd.Flags().IntVar(&width, "width", 0, "Board width")
	cmd.Flags().IntVar(&height, "height", 0, "Board height")
	cmd.Flags().DurationVar(&delay, "delay", 500*time.Millisecond, "Opponent think time")
	cmd.Flags().StringVarP(&loadPath, "file", "f", "", "Continue a saved game file")

	return cmd
}

type gameEvent struct {
	kind   model.EventType
	reason model.InvalidMoveReason
}

// terminalGame drives one session from a line-oriented reader
type terminalGame struct {
	sess   *session.Session
	in     lineReader
	out    *Output
	events chan gameEvent
}

func newTerminalGame(sess *session.Session, in lineReader, out *Output) *terminalGame {
	g := &terminalGame{
		sess:   sess,
		in:     in,
		out:    out,
		events: make(chan gameEvent, 64),
	}
	sess.Engine.Subscribe(game.Forward(func(_ *game.Engine, kind model.EventType, reason model.InvalidMoveReason) {
		select {
		case g.events <- gameEvent{kind: kind, reason: reason}:
		default:
		}
	}))
	return g
}

func (g *terminalGame) run(ctx context.Context) error {
	e := g.sess.Engine
	g.out.PrintMessage(playHelp)
	for {
		if err := g.waitForHuman(ctx); err != nil {
			return err
		}
		g.out.Print(response.SessionFromModel(g.sess))
		if e.IsFinished() {
			return nil
		}

		line, err := g.in.ReadLine("> ")
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		fields, err := splitCommand(line)
		if err != nil {
			g.out.PrintError(err)
			continue
		}
		quit, err := g.handle(fields)
		if err != nil {
			g.out.PrintError(err)
		}
		if quit {
			return nil
		}
		e.WaitIdle()
		g.reportInvalid()
	}
}

// waitForHuman blocks while autonomous participants are on turn
func (g *terminalGame) waitForHuman(ctx context.Context) error {
	e := g.sess.Engine
	for {
		if e.IsFinished() {
			return nil
		}
		e.WaitIdle()
		if !e.Participants()[e.CurrentPlayer()].Autonomous {
			return nil
		}
		select {
		case ev := <-g.events:
			if ev.kind == model.EventInvalidMove {
				g.out.PrintMessage(fmt.Sprintf("Rejected: %s", ev.reason))
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// reportInvalid prints rejections that have already arrived
func (g *terminalGame) reportInvalid() {
	for {
		select {
		case ev := <-g.events:
			if ev.kind == model.EventInvalidMove {
				g.out.PrintMessage(fmt.Sprintf("Rejected: %s", ev.reason))
			}
		default:
			return
		}
	}
}

func (g *terminalGame) handle(fields []string) (bool, error) {
	if len(fields) == 0 {
		return false, nil
	}
	e := g.sess.Engine

	switch fields[0] {
	case "move", "m":
		req, err := parseMove(fields[1:])
		if err != nil {
			return false, err
		}
		word := make(model.Word, len(req.Word))
		for i, c := range req.Word {
			word[i] = toPosition(c)
		}
		letter := []rune(req.Letter)[0]
		return false, e.MakeMove(letter, toPosition(req.Cell), word)
	case "gen":
		return false, e.GenerateMove()
	case "hint":
		m, ok := e.Hint()
		if !ok {
			return false, fmt.Errorf("no hint available yet")
		}
		g.out.Print(response.Hint{Move: response.MoveFromModel(m), Word: m.Text(e.Board())})
		return false, nil
	case "undo":
		return false, e.Undo()
	case "redo":
		return false, e.Redo()
	case "save":
		if len(fields) != 2 {
			return false, fmt.Errorf("usage: save <file>")
		}
		return false, saveToFile(e, fields[1])
	case "surrender":
		return false, e.Surrender()
	case "help":
		g.out.PrintMessage(playHelp)
		return false, nil
	case "quit", "exit":
		return true, nil
	default:
		return false, fmt.Errorf("unknown command %q, try help", fields[0])
	}
}

func saveToFile(e *game.Engine, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return e.Save(f)
}
