package dictionary

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mcoot/wordmaster/internal/model"
)

// Normalizer lowercases words using the casing rules of one language
type Normalizer struct {
	tag   language.Tag
	lower cases.Caser
}

// NewNormalizer parses a BCP 47 language identifier such as "en" or "ru"
func NewNormalizer(lang string) (*Normalizer, error) {
	tag, err := language.Parse(lang)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", model.ErrUnknownLanguage, lang)
	}
	return &Normalizer{tag: tag, lower: cases.Lower(tag)}, nil
}

// Language returns the canonical language identifier
func (n *Normalizer) Language() string {
	return n.tag.String()
}

// Word lowercases and trims w. It returns false if w is empty or holds anything
// other than letters.
func (n *Normalizer) Word(w string) (string, bool) {
	w = n.lower.String(strings.TrimSpace(w))
	if w == "" {
		return "", false
	}
	for _, r := range w {
		if !unicode.IsLetter(r) {
			return "", false
		}
	}
	return w, true
}

// Letter normalizes a single letter
func (n *Normalizer) Letter(r rune) (rune, bool) {
	w, ok := n.Word(string(r))
	if !ok {
		return 0, false
	}
	rs := []rune(w)
	if len(rs) != 1 {
		return 0, false
	}
	return rs[0], true
}
