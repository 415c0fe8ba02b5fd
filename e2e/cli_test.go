package e2e_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/wordmaster/internal/api"
	"github.com/mcoot/wordmaster/internal/factory"
)

// cliRunner manages CLI binary execution
type cliRunner struct {
	binaryPath string
	serverURL  string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()

	// Find project root (where go.mod is)
	projectRoot := findProjectRoot(t)

	// Build the CLI binary
	binaryPath := filepath.Join(t.TempDir(), "wordmaster-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/wordmaster")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	return &cliRunner{
		binaryPath: binaryPath,
		serverURL:  serverURL,
	}
}

func (r *cliRunner) run(args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// startTestServer runs the real application on a free port
func startTestServer(t *testing.T) string {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	projectRoot := findProjectRoot(t)

	ctx, cancel := context.WithCancel(context.Background())
	app, err := factory.New(ctx, factory.Config{
		Dictionaries: map[string]string{"en": filepath.Join(projectRoot, "data/words.txt")},
		Logger:       logger,
	})
	require.NoError(t, err)
	require.NoError(t, app.Dictionaries.Preload(ctx, "en"))

	server := api.NewServer(api.NewRouter(api.RouterConfig{
		Logger:     logger,
		Sessions:   app.Sessions,
		HubManager: app.HubManager,
	}), api.DefaultServerConfig(), logger)
	server.OnShutdown(app.HubManager.Close)

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := server.Run(ctx, listener); err != nil {
			t.Logf("server error: %v", err)
		}
	}()
	t.Cleanup(func() {
		cancel()
		<-done
		_ = app.Close()
	})

	serverURL := "http://" + listener.Addr().String()
	waitForServer(t, serverURL+"/api/v1/health")
	return serverURL
}

func waitForServer(t *testing.T, url string) {
	t.Helper()

	client := &http.Client{Timeout: 100 * time.Millisecond}
	deadline := time.Now().Add(5 * time.Second)

	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}

	t.Fatal("server did not become ready in time")
}

// Response types for JSON parsing
type sessionResponse struct {
	ID           string   `json:"id"`
	StartWord    string   `json:"start_word"`
	Board        []string `json:"board"`
	CurrentTurn  int      `json:"current_turn"`
	Replay       bool     `json:"replay"`
	Finished     bool     `json:"finished"`
	Winners      []string `json:"winners"`
	Participants []struct {
		Name  string   `json:"name"`
		Score int      `json:"score"`
		Words []string `json:"words"`
	} `json:"participants"`
}

type healthResponse struct {
	Status string `json:"status"`
}

type savedGamesResponse struct {
	Names []string `json:"names"`
}

func showSession(t *testing.T, cli *cliRunner, id string) sessionResponse {
	t.Helper()
	out, err := cli.run("session", "show", id)
	require.NoError(t, err, out)
	var s sessionResponse
	require.NoError(t, json.Unmarshal([]byte(out), &s), out)
	return s
}

func TestCLIHealth(t *testing.T) {
	cli := newCLIRunner(t, startTestServer(t))

	out, err := cli.run("health")
	require.NoError(t, err, out)

	var health healthResponse
	require.NoError(t, json.Unmarshal([]byte(out), &health))
	assert.Equal(t, "ok", health.Status)
}

func TestCLIGameFlow(t *testing.T) {
	cli := newCLIRunner(t, startTestServer(t))

	// Two humans on a 5x5 board seeded with "heart"
	out, err := cli.run("session", "create", "--start", "heart", "-p", "alice", "-p", "bob")
	require.NoError(t, err, out)
	var created sessionResponse
	require.NoError(t, json.Unmarshal([]byte(out), &created), out)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, []string{".....", ".....", "heart", ".....", "....."}, created.Board)

	// alice: "hearts" by adding S below the T
	out, err = cli.run("session", "move", created.ID, "s", "3,4", "2,0", "2,1", "2,2", "2,3", "2,4", "3,4")
	require.NoError(t, err, out)

	require.Eventually(t, func() bool {
		return showSession(t, cli, created.ID).CurrentTurn == 1
	}, 2*time.Second, 20*time.Millisecond)
	state := showSession(t, cli, created.ID)
	assert.Equal(t, "....s", state.Board[3])
	assert.Equal(t, 6, state.Participants[0].Score)
	assert.Equal(t, []string{"hearts"}, state.Participants[0].Words)

	// Save, then reopen as a replay
	out, err = cli.run("session", "save", created.ID, "e2e-game")
	require.NoError(t, err, out)

	out, err = cli.run("games", "list")
	require.NoError(t, err, out)
	var saved savedGamesResponse
	require.NoError(t, json.Unmarshal([]byte(out), &saved), out)
	assert.Contains(t, saved.Names, "e2e-game")

	out, err = cli.run("games", "load", "--replay", "e2e-game")
	require.NoError(t, err, out)
	var replay sessionResponse
	require.NoError(t, json.Unmarshal([]byte(out), &replay), out)
	assert.True(t, replay.Replay)
	assert.Equal(t, ".....", replay.Board[3])

	// bob gives up
	out, err = cli.run("session", "surrender", created.ID)
	require.NoError(t, err, out)
	require.Eventually(t, func() bool {
		return showSession(t, cli, created.ID).Finished
	}, 2*time.Second, 20*time.Millisecond)
	assert.Equal(t, []string{"alice"}, showSession(t, cli, created.ID).Winners)

	out, err = cli.run("session", "delete", created.ID)
	require.NoError(t, err, out)
	_, err = cli.run("session", "show", created.ID)
	assert.Error(t, err)
}

func TestCLIRejectsBadMoveInput(t *testing.T) {
	cli := newCLIRunner(t, startTestServer(t))

	out, err := cli.run("session", "create", "--start", "heart", "-p", "alice")
	require.NoError(t, err, out)
	var created sessionResponse
	require.NoError(t, json.Unmarshal([]byte(out), &created), out)

	// Cell off the board
	_, err = cli.run("session", "move", created.ID, "s", "9,9", "2,4", "9,9")
	assert.Error(t, err)

	_, err = cli.run("session", "create", "-p", "robo:bot:impossible")
	assert.Error(t, err)
}
