package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mcoot/wordmaster/internal/api/response"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
	errW   io.Writer
}

// NewOutput creates a new Output formatter
func NewOutput(format string, w, errW io.Writer) *Output {
	return &Output{format: format, w: w, errW: errW}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		_, _ = fmt.Fprintln(o.errW, string(data))
	} else {
		_, _ = fmt.Fprintf(o.errW, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		_, _ = fmt.Fprintln(o.w, string(data))
	} else {
		_, _ = fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case response.Session:
		o.printSession(v)
	case []response.SessionSummary:
		o.printSummaries(v)
	case response.Hint:
		o.printHint(v)
	case response.SavedGames:
		o.printSavedGames(v)
	case []MoveLine:
		o.printMoves(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

// MoveLine is one entry of a move listing
type MoveLine struct {
	Word   string   `json:"word"`
	Letter string   `json:"letter"`
	Cell   [2]int   `json:"cell"`
	Path   [][2]int `json:"path"`
}

func (o *Output) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(o.w, format, args...)
}

func (o *Output) printSession(s response.Session) {
	o.printf("Session: %s (%s)\n", s.ID, s.Language)
	o.printf("Start word: %s\n", s.StartWord)
	if s.Replay {
		o.printf("Replay: move %d of %d\n", s.Pointer, s.HistoryLen)
	}
	o.printf("\n")
	o.PrintBoard(s.Board)
	o.printf("\n")

	for i, p := range s.Participants {
		marker := "  "
		if i == s.CurrentTurn && !s.Finished {
			marker = "> "
		}
		kind := ""
		if p.Autonomous {
			kind = fmt.Sprintf(" [bot:%s]", p.Difficulty)
		}
		o.printf("%s%s%s: %d", marker, p.Name, kind, p.Score)
		if len(p.Words) > 0 {
			o.printf(" (%s)", strings.Join(p.Words, ", "))
		}
		o.printf("\n")
	}

	if s.Finished {
		o.printf("\nFinished. Winners: %s\n", strings.Join(s.Winners, ", "))
	}
}

// PrintBoard draws rows as returned by the API, '.' marking empty cells
func (o *Output) PrintBoard(rows []string) {
	if len(rows) == 0 {
		return
	}
	width := len([]rune(rows[0]))

	// Print column headers
	o.printf("    ")
	for col := 0; col < width; col++ {
		o.printf(" %d ", col)
	}
	o.printf("\n")

	border := "   +" + strings.Repeat("---", width) + "+\n"
	o.printf("%s", border)
	for row, line := range rows {
		o.printf(" %d |", row)
		for _, r := range line {
			o.printf(" %c ", r)
		}
		o.printf("|\n")
	}
	o.printf("%s", border)
}

func (o *Output) printSummaries(list []response.SessionSummary) {
	if len(list) == 0 {
		o.printf("No sessions\n")
		return
	}
	for _, s := range list {
		state := "playing"
		if s.Finished {
			state = "finished"
		}
		o.printf("%s  %-3s %-10s %s\n", s.ID, s.Language, s.StartWord, state)
	}
}

func (o *Output) printHint(h response.Hint) {
	o.printf("Hint: %s (place %s at %d,%d)\n", h.Word, h.Move.Letter, h.Move.Cell.Row, h.Move.Cell.Col)
}

func (o *Output) printSavedGames(g response.SavedGames) {
	if len(g.Names) == 0 {
		o.printf("No saved games\n")
		return
	}
	for _, name := range g.Names {
		o.printf("%s\n", name)
	}
}

func (o *Output) printMoves(moves []MoveLine) {
	for _, m := range moves {
		o.printf("%-12s %s at %d,%d\n", m.Word, m.Letter, m.Cell[0], m.Cell[1])
	}
	o.printf("%d moves\n", len(moves))
}

func (o *Output) printHealthResult(h HealthResult) {
	o.printf("Status: %s\n", h.Status)
}
