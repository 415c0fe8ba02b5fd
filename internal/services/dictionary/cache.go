package dictionary

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/mcoot/wordmaster/internal/model"
)

// Cache owns one Loader per language. Hosts create it and pass it to whatever
// needs vocabularies.
type Cache struct {
	logger *slog.Logger

	mu      sync.Mutex
	sources map[string]Source
	loaders map[string]*Loader
}

// NewCache creates an empty cache
func NewCache(logger *slog.Logger) *Cache {
	return &Cache{
		logger:  logger,
		sources: make(map[string]Source),
		loaders: make(map[string]*Loader),
	}
}

// Register sets where a language's words come from. A loader already started
// for the language is dropped so the next request reloads.
func (c *Cache) Register(language string, source Source) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sources[language] = source
	delete(c.loaders, language)
}

// Languages returns the registered language identifiers
func (c *Cache) Languages() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	langs := make([]string, 0, len(c.sources))
	for lang := range c.sources {
		langs = append(langs, lang)
	}
	return langs
}

// Loader returns the loader for language, starting it on first use
func (c *Cache) Loader(ctx context.Context, language string) (*Loader, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if l, ok := c.loaders[language]; ok {
		return l, nil
	}
	source, ok := c.sources[language]
	if !ok {
		return nil, fmt.Errorf("%w: %q", model.ErrUnknownLanguage, language)
	}
	l := NewLoader(language, source, c.logger)
	// Loading outlives the request that triggered it
	l.Start(context.WithoutCancel(ctx))
	c.loaders[language] = l
	return l, nil
}

// Vocabulary waits for language to finish loading
func (c *Cache) Vocabulary(ctx context.Context, language string) (*Vocabulary, error) {
	l, err := c.Loader(ctx, language)
	if err != nil {
		return nil, err
	}
	return l.Wait(ctx)
}

// Preload loads the given languages concurrently and waits for all of them
func (c *Cache) Preload(ctx context.Context, languages ...string) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, lang := range languages {
		g.Go(func() error {
			_, err := c.Vocabulary(ctx, lang)
			if err != nil {
				return fmt.Errorf("load %s: %w", lang, err)
			}
			return nil
		})
	}
	return g.Wait()
}
