package factory

import (
	"context"
	"sync"
	"time"

	"github.com/mcoot/wordmaster/internal/dependencies/mocks"
	"github.com/mcoot/wordmaster/internal/model"
	"github.com/mcoot/wordmaster/internal/services/bot"
	"github.com/mcoot/wordmaster/internal/services/dictionary"
	"github.com/mcoot/wordmaster/internal/storage/memory"
	"github.com/mcoot/wordmaster/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
	Published  *RecordingPublisher
}

// NewTestApp creates an App configured for testing with mocked dependencies.
// Relayed events are captured by Published instead of going to NATS.
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()
	published := &RecordingPublisher{}

	strategies := bot.NewTieredStrategies(model.DefaultDifficulties(), mockRandom)
	app := newWithDependencies(store, mockClock, mockRandom, Config{}, strategies, published, testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
		Published:  published,
	}
}

// LoadTestDictionary loads a small English dictionary for testing
func (t *TestApp) LoadTestDictionary() error {
	words := []string{
		"at", "ta", "as",
		"act", "ant", "art", "bat", "cab", "can", "cat", "cot", "dog", "god",
		"nab", "rat", "sat", "tab", "tan", "tar", "tog",
		"acts", "bats", "cabs", "cans", "cast", "cats", "scat", "stab", "tabs", "tans",
		"casts", "scant",
	}
	t.Dictionaries.Register("en", dictionary.StaticSource(words))
	return t.Dictionaries.Preload(context.Background(), "en")
}

// Message is one relayed publication
type Message struct {
	Subject string
	Data    []byte
}

// RecordingPublisher keeps every message published to it
type RecordingPublisher struct {
	mu       sync.Mutex
	messages []Message
}

func (p *RecordingPublisher) Publish(subject string, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, Message{Subject: subject, Data: append([]byte(nil), data...)})
	return nil
}

// Messages returns a copy of what has been published so far
func (p *RecordingPublisher) Messages() []Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Message(nil), p.messages...)
}
