package bot

import (
	"github.com/mcoot/wordmaster/internal/dependencies/random"
	"github.com/mcoot/wordmaster/internal/model"
)

// TieredStrategy prefers words by length according to a difficulty tier.
// Candidates are shuffled, then each is taken with the probability its
// length maps to. If none is taken the first shuffled candidate is played.
type TieredStrategy struct {
	tier   model.DifficultyTier
	random random.Random
}

// NewTieredStrategy creates a strategy for the given tier
func NewTieredStrategy(tier model.DifficultyTier, rnd random.Random) *TieredStrategy {
	return &TieredStrategy{tier: tier, random: rnd}
}

// Tier returns the tier this strategy plays at
func (s *TieredStrategy) Tier() model.DifficultyTier {
	return s.tier
}

// ChooseMove picks a move using the tier's length preferences
func (s *TieredStrategy) ChooseMove(moves []model.Move) model.Move {
	shuffled := append([]model.Move(nil), moves...)
	random.Shuffle(s.random, len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	for _, m := range shuffled {
		p := s.tier.Probability(len(m.Word))
		if p > 0 && s.random.Intn(100) < p {
			return m
		}
	}
	return shuffled[0]
}

// NewTieredStrategies builds one strategy per tier, keyed by tier name, plus
// a uniform "random" strategy unless a tier already claims that name
func NewTieredStrategies(tiers map[string]model.DifficultyTier, rnd random.Random) map[string]Strategy {
	out := make(map[string]Strategy, len(tiers)+1)
	for name, tier := range tiers {
		out[name] = NewTieredStrategy(tier, rnd)
	}
	if _, ok := out[model.DifficultyRandom]; !ok {
		out[model.DifficultyRandom] = NewRandomStrategy(rnd)
	}
	return out
}
