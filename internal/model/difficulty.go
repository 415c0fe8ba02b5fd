package model

import "sort"

// Difficulty tier names
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"

	// DifficultyRandom ignores word length and picks uniformly
	DifficultyRandom = "random"
)

// Never marks a word length an autonomous participant will not pick on purpose
const Never = -1

// Breakpoint sets the take probability, in percent, for words of at least MinLength letters
type Breakpoint struct {
	MinLength   int `yaml:"min_length" json:"min_length"`
	Probability int `yaml:"probability" json:"probability"`
}

// DifficultyTier is a named breakpoint table
type DifficultyTier struct {
	Name        string       `yaml:"name" json:"name"`
	Breakpoints []Breakpoint `yaml:"breakpoints" json:"breakpoints"`
}

// Probability returns the take probability for a word of the given length,
// using the nearest breakpoint at or below it. Lengths below every breakpoint
// return Never.
func (t DifficultyTier) Probability(length int) int {
	bps := append([]Breakpoint(nil), t.Breakpoints...)
	sort.Slice(bps, func(i, j int) bool { return bps[i].MinLength < bps[j].MinLength })

	p := Never
	for _, bp := range bps {
		if bp.MinLength > length {
			break
		}
		p = bp.Probability
	}
	return p
}

// DefaultDifficulties returns the built-in tiers
func DefaultDifficulties() map[string]DifficultyTier {
	return map[string]DifficultyTier{
		DifficultyEasy: {
			Name:        DifficultyEasy,
			Breakpoints: []Breakpoint{{2, 80}, {4, Never}},
		},
		DifficultyMedium: {
			Name:        DifficultyMedium,
			Breakpoints: []Breakpoint{{2, 30}, {3, 40}, {4, 70}, {5, 70}, {6, 40}, {7, 30}},
		},
		DifficultyHard: {
			Name:        DifficultyHard,
			Breakpoints: []Breakpoint{{2, Never}, {4, 10}, {5, 100}},
		},
	}
}
