package bot

import "github.com/mcoot/wordmaster/internal/model"

// Strategy defines how an autonomous participant picks among legal moves.
// moves is never empty.
type Strategy interface {
	ChooseMove(moves []model.Move) model.Move
}
