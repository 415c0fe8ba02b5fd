package bot

import (
	"github.com/mcoot/wordmaster/internal/dependencies/random"
	"github.com/mcoot/wordmaster/internal/model"
)

// RandomStrategy picks any legal move with equal probability
type RandomStrategy struct {
	random random.Random
}

// NewRandomStrategy creates a new RandomStrategy
func NewRandomStrategy(rnd random.Random) *RandomStrategy {
	return &RandomStrategy{random: rnd}
}

// ChooseMove returns a uniformly random move
func (s *RandomStrategy) ChooseMove(moves []model.Move) model.Move {
	return moves[s.random.Intn(len(moves))]
}
