package dictionary

import (
	"sort"

	"github.com/cespare/xxhash/v2"
	"github.com/samber/lo"
)

// Vocabulary is the trie pair built over one word list
type Vocabulary struct {
	Language    string
	Normalizer  *Normalizer
	Forward     *Trie
	Backward    *Trie
	Fingerprint uint64
}

// NewVocabulary normalizes words and builds both tries. Entries that are not
// made of letters are skipped.
func NewVocabulary(lang string, words []string) (*Vocabulary, error) {
	norm, err := NewNormalizer(lang)
	if err != nil {
		return nil, err
	}

	normalized := lo.Uniq(lo.FilterMap(words, func(w string, _ int) (string, bool) {
		return norm.Word(w)
	}))
	sort.Strings(normalized)

	v := &Vocabulary{
		Language:   norm.Language(),
		Normalizer: norm,
		Forward:    NewTrie(),
		Backward:   NewTrie(),
	}

	digest := xxhash.New()
	for _, w := range normalized {
		v.Forward.Insert(w)
		v.Backward.InsertReversedSuffixes(w)
		_, _ = digest.WriteString(w)
		_, _ = digest.Write([]byte{'\n'})
	}
	v.Fingerprint = digest.Sum64()

	return v, nil
}

// Contains reports whether word, after normalization, is in the vocabulary
func (v *Vocabulary) Contains(word string) bool {
	w, ok := v.Normalizer.Word(word)
	return ok && v.Forward.Contains(w)
}

// Size returns the number of words
func (v *Vocabulary) Size() int {
	return v.Forward.Len()
}
