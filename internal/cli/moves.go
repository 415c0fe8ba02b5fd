package cli

import (
	"fmt"
	"os"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/mcoot/wordmaster/internal/model"
	"github.com/mcoot/wordmaster/internal/services/search"
)

func newMovesCmd(a *app) *cobra.Command {
	var (
		lang          string
		start         string
		width, height int
		savePath      string
	)

	cmd := &cobra.Command{
		Use:   "moves",
		Short: "List every legal move for a position",
		Long: `List the moves available on a freshly seeded board, or on the current
position of a saved game file. Words already used in the position are left out.`,
		Example: `  wordmaster moves --start cat --width 5 --height 5
  wordmaster moves --file game.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := a.localApp(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = application.Close() }()

			var board *model.Board
			var used []string
			if savePath != "" {
				data, err := os.ReadFile(savePath)
				if err != nil {
					return err
				}
				sess, err := application.Sessions.Import(cmd.Context(), data, false)
				if err != nil {
					return err
				}
				lang = sess.Language
				board = sess.Engine.Board()
				used = sess.Engine.UsedWords()
			} else {
				if start == "" {
					return fmt.Errorf("either --start or --file is required")
				}
				board, err = model.NewSeededBoard(width, height, start)
				if err != nil {
					return err
				}
				used = []string{start}
			}

			if lang == "" {
				settings, err := a.settings()
				if err != nil {
					return err
				}
				lang = settings.DefaultLanguage
			}
			vocab, err := application.Dictionaries.Vocabulary(cmd.Context(), lang)
			if err != nil {
				return err
			}

			moves := search.New(vocab).GenerateExcluding(board, used)
			lines := lo.Map(moves, func(m model.Move, _ int) MoveLine {
				return MoveLine{
					Word:   m.Text(board),
					Letter: string(m.Letter),
					Cell:   [2]int{m.Cell.Row, m.Cell.Col},
					Path:   lo.Map(m.Word, func(p model.Position, _ int) [2]int { return [2]int{p.Row, p.Col} }),
				}
			})

			out := a.output(cmd)
			if a.cfg.Output != "json" {
				out.PrintBoard(board.Rows())
			}
			out.Print(lines)
			return nil
		},
	}

	cmd.Flags().StringVar(&lang, "lang", "", "Dictionary language (default from config)")
	cmd.Flags().StringVar(&start, "start", "", "Start word to seed the board with")
	cmd.Flags().IntVar(&width, "width", 5, "Board width")
	cmd.Flags().IntVar(&height, "height", 5, "Board height")
	cmd.Flags().StringVarP(&savePath, "file", "f", "", "Saved game file to read the position from")

	return cmd
}
