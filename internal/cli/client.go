package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/mcoot/wordmaster/internal/api/apierr"
	"github.com/mcoot/wordmaster/internal/api/request"
	"github.com/mcoot/wordmaster/internal/api/response"
)

// ServerError is an error reported by the server with its API code
type ServerError struct {
	Status int
	Code   string
	Msg    string
}

func (e *ServerError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("HTTP %d: %s", e.Status, e.Msg)
	}
	return fmt.Sprintf("%s (%s)", e.Msg, e.Code)
}

// Client talks to a wordmaster server's session API
type Client struct {
	baseURL    string
	httpClient *http.Client

	// readAttempts bounds retries of idempotent requests that fail to connect
	readAttempts uint
	readDelay    time.Duration
}

// NewClient creates a client for the server at baseURL
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		readAttempts: 3,
		readDelay:    200 * time.Millisecond,
	}
}

// URL returns the absolute URL of an API path
func (c *Client) URL(path string) string {
	return c.baseURL + path
}

func sessionPath(id string) string {
	return "/api/v1/sessions/" + url.PathEscape(id)
}

// Health checks the server is up
func (c *Client) Health() (HealthResult, error) {
	var result HealthResult
	err := c.get("/api/v1/health", &result)
	return result, err
}

// CreateSession starts a live session
func (c *Client) CreateSession(req request.CreateSessionRequest) (response.Session, error) {
	var result response.Session
	err := c.do(http.MethodPost, "/api/v1/sessions", req, &result)
	return result, err
}

// Sessions lists live sessions
func (c *Client) Sessions() ([]response.SessionSummary, error) {
	var result []response.SessionSummary
	err := c.get("/api/v1/sessions", &result)
	return result, err
}

// Session reads the state of one session
func (c *Client) Session(id string) (response.Session, error) {
	var result response.Session
	err := c.get(sessionPath(id), &result)
	return result, err
}

// DeleteSession ends a live session
func (c *Client) DeleteSession(id string) error {
	return c.do(http.MethodDelete, sessionPath(id), nil, nil)
}

// Move submits a move. Acceptance is reported on the event stream.
func (c *Client) Move(id string, req request.MoveRequest) error {
	return c.do(http.MethodPost, sessionPath(id)+"/move", req, nil)
}

// Action posts one of the body-less session operations
// (generate, undo, redo, surrender, pause, resume)
func (c *Client) Action(id, action string) error {
	return c.do(http.MethodPost, sessionPath(id)+"/"+action, nil, nil)
}

// Hint reads the engine's current suggestion
func (c *Client) Hint(id string) (response.Hint, error) {
	var result response.Hint
	err := c.get(sessionPath(id)+"/hint", &result)
	return result, err
}

// Save stores a session under name
func (c *Client) Save(id, name string) error {
	return c.do(http.MethodPost, sessionPath(id)+"/save", request.SaveRequest{Name: name}, nil)
}

// SavedGames lists stored game names
func (c *Client) SavedGames() (response.SavedGames, error) {
	var result response.SavedGames
	err := c.get("/api/v1/games", &result)
	return result, err
}

// Load starts a session from a stored game
func (c *Client) Load(name string, replay bool) (response.Session, error) {
	var result response.Session
	err := c.do(http.MethodPost, "/api/v1/games/load", request.LoadRequest{Name: name, Replay: replay}, &result)
	return result, err
}

// DeleteSaved removes a stored game
func (c *Client) DeleteSaved(name string) error {
	return c.do(http.MethodDelete, "/api/v1/games/"+url.PathEscape(name), nil, nil)
}

// get is a GET that retries when the server cannot be reached
func (c *Client) get(path string, result any) error {
	return retry.Do(
		func() error { return c.do(http.MethodGet, path, nil, result) },
		retry.Attempts(c.readAttempts),
		retry.Delay(c.readDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			var se *ServerError
			return !errors.As(err, &se)
		}),
	)
}

func (c *Client) do(method, path string, body, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.URL(path), bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp apierr.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error.Code != "" {
			return &ServerError{Status: resp.StatusCode, Code: errResp.Error.Code, Msg: errResp.Error.Message}
		}
		return &ServerError{Status: resp.StatusCode, Msg: strings.TrimSpace(string(respBody))}
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
