package dictionary

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/mcoot/wordmaster/internal/storage"
)

// Source produces the raw word list for a language
type Source interface {
	Words(ctx context.Context) ([]string, error)
}

// StaticSource is a fixed word list
type StaticSource []string

func (s StaticSource) Words(context.Context) ([]string, error) {
	return append([]string(nil), s...), nil
}

// FileSource reads one word per line. When Store is set the list is also
// saved there under Language, so later loads can come from storage.
type FileSource struct {
	Path     string
	Store    storage.Storage
	Language string
}

func (s FileSource) Words(ctx context.Context) ([]string, error) {
	file, err := os.Open(s.Path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var words []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		word := strings.TrimSpace(scanner.Text())
		if word != "" && !strings.HasPrefix(word, "#") {
			words = append(words, word)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", s.Path, err)
	}

	if s.Store != nil {
		if err := s.Store.SaveDictionaryWords(ctx, s.Language, words); err != nil {
			return nil, fmt.Errorf("save words: %w", err)
		}
	}
	return words, nil
}

// StorageSource reads a word list previously saved to storage
type StorageSource struct {
	Store    storage.Storage
	Language string
}

func (s StorageSource) Words(ctx context.Context) ([]string, error) {
	return s.Store.GetDictionaryWords(ctx, s.Language)
}
