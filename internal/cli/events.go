package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mcoot/wordmaster/internal/model"
)

func newEventsCmd(a *app) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "events <id>",
		Short: "Follow a session's moves as they happen",
		Long: `Connect to the session's event stream and print each event.

Events:
  - move: the position changed (move, undo, redo, load)
  - invalid_move: a submitted move was rejected, with the reason
  - finish: game over, with winners and scores

Press Ctrl+C to disconnect.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return streamEvents(ctx, a.client.URL(sessionPath(args[0])+"/events"), jsonOutput, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print each event as a JSON line")

	return cmd
}

// wireEvent is model.Event with the payload left for the event type to decode
type wireEvent struct {
	Type      string          `json:"type"`
	SessionID string          `json:"session_id"`
	Reason    string          `json:"reason"`
	Payload   json.RawMessage `json:"payload"`
}

func streamEvents(ctx context.Context, url string, jsonOutput bool, w io.Writer) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	// The stream stays open for the life of the session, so no client timeout
	resp, err := (&http.Client{}).Do(req)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return &ServerError{Status: resp.StatusCode, Msg: "event stream unavailable"}
	}

	scanner := bufio.NewScanner(resp.Body)
	var name string
	var data []string
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "event: "):
			name = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			data = append(data, strings.TrimPrefix(line, "data: "))
		case line == "":
			if name != "" {
				printEvent(w, name, strings.Join(data, "\n"), jsonOutput)
			}
			name, data = "", nil
		}
	}

	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("event stream: %w", err)
	}
	if !jsonOutput {
		_, _ = fmt.Fprintln(w, "Disconnected")
	}
	return nil
}

func printEvent(w io.Writer, name, data string, jsonOutput bool) {
	if jsonOutput {
		_, _ = fmt.Fprintln(w, data)
		return
	}
	_, _ = fmt.Fprintln(w, describeEvent(name, data))
}

// describeEvent renders one event as a line of game commentary
func describeEvent(name, data string) string {
	var ev wireEvent
	if err := json.Unmarshal([]byte(data), &ev); err != nil {
		return fmt.Sprintf("%s: %s", name, data)
	}

	switch model.EventType(name) {
	case "connected":
		return fmt.Sprintf("Watching session %s", ev.SessionID)
	case model.EventMove:
		var p model.MovePayload
		if len(ev.Payload) == 0 || json.Unmarshal(ev.Payload, &p) != nil || p.Word == "" {
			return "Position changed"
		}
		return fmt.Sprintf("%s played %s (%s at %d,%d)",
			p.Player, strings.ToUpper(p.Word), p.Letter, p.Cell.Row, p.Cell.Col)
	case model.EventInvalidMove:
		return fmt.Sprintf("Move rejected: %s", strings.ReplaceAll(ev.Reason, "_", " "))
	case model.EventFinish:
		var p model.FinishPayload
		if json.Unmarshal(ev.Payload, &p) != nil {
			return "Game over"
		}
		names := make([]string, 0, len(p.Scores))
		for n := range p.Scores {
			names = append(names, n)
		}
		sort.Strings(names)
		scores := make([]string, 0, len(names))
		for _, n := range names {
			scores = append(scores, fmt.Sprintf("%s %d", n, p.Scores[n]))
		}
		return fmt.Sprintf("Game over. Winners: %s. Scores: %s",
			strings.Join(p.Winners, ", "), strings.Join(scores, ", "))
	default:
		return fmt.Sprintf("%s: %s", name, data)
	}
}
