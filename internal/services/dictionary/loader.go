package dictionary

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Loader builds one language's Vocabulary in the background.
// Done is closed once loading finishes, successfully or not.
type Loader struct {
	language string
	source   Source
	logger   *slog.Logger

	once  sync.Once
	done  chan struct{}
	vocab *Vocabulary
	err   error
}

// NewLoader creates a loader; nothing happens until Start
func NewLoader(language string, source Source, logger *slog.Logger) *Loader {
	return &Loader{
		language: language,
		source:   source,
		logger:   logger.With(slog.String("component", "dictionary"), slog.String("language", language)),
		done:     make(chan struct{}),
	}
}

// Start begins loading. Calling it more than once has no further effect.
func (l *Loader) Start(ctx context.Context) {
	l.once.Do(func() {
		go l.load(ctx)
	})
}

func (l *Loader) load(ctx context.Context) {
	defer close(l.done)

	start := time.Now()
	words, err := l.source.Words(ctx)
	if err != nil {
		l.err = err
		l.logger.Error("failed to read words", slog.String("error", err.Error()))
		return
	}

	vocab, err := NewVocabulary(l.language, words)
	if err != nil {
		l.err = err
		l.logger.Error("failed to build vocabulary", slog.String("error", err.Error()))
		return
	}
	l.vocab = vocab

	l.logger.Info("dictionary loaded",
		slog.Int("words", vocab.Size()),
		slog.Duration("duration", time.Since(start)),
	)
}

// Language returns the language identifier being loaded
func (l *Loader) Language() string {
	return l.language
}

// Done is closed when loading has finished
func (l *Loader) Done() <-chan struct{} {
	return l.done
}

// IsLoaded reports whether a vocabulary is ready to query
func (l *Loader) IsLoaded() bool {
	select {
	case <-l.done:
		return l.err == nil
	default:
		return false
	}
}

// Vocabulary returns the loaded vocabulary without blocking
func (l *Loader) Vocabulary() (*Vocabulary, bool) {
	if !l.IsLoaded() {
		return nil, false
	}
	return l.vocab, true
}

// Wait blocks until loading finishes or ctx is done
func (l *Loader) Wait(ctx context.Context) (*Vocabulary, error) {
	select {
	case <-l.done:
		return l.vocab, l.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
