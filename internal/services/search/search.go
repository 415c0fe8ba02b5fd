// Package search finds the moves available on a board by walking it against
// a vocabulary's forward and backward tries.
//
// For every legal target cell and every letter that can occur in some word,
// the board is walked backward from the target through occupied cells while
// the backward trie agrees. Each walk that reaches a word start is turned
// around and continued forward through the forward trie, so the new letter
// may sit at the start, middle or end of the word.
package search

import (
	"github.com/samber/lo"

	"github.com/mcoot/wordmaster/internal/model"
	"github.com/mcoot/wordmaster/internal/services/dictionary"
)

// MinWordLength is the shortest creditable word
const MinWordLength = 2

// Searcher enumerates and validates moves against one vocabulary
type Searcher struct {
	vocab *dictionary.Vocabulary
}

// New creates a Searcher
func New(vocab *dictionary.Vocabulary) *Searcher {
	return &Searcher{vocab: vocab}
}

// Vocabulary returns the vocabulary the searcher uses
func (s *Searcher) Vocabulary() *dictionary.Vocabulary {
	return s.vocab
}

// Validate reports whether the move's gap-filled text is a dictionary word
func (s *Searcher) Validate(b *model.Board, m model.Move) bool {
	return s.vocab.Forward.Contains(m.Text(b))
}

// Legal reports whether m is a well-formed placement on b: the target is a
// legal empty cell, the word is a path of at least two cells through it, and
// every other cell of the word already holds a letter.
func Legal(b *model.Board, m model.Move) bool {
	if m.Letter == model.Empty || !b.IsTarget(m.Cell) {
		return false
	}
	if len(m.Word) < MinWordLength || !m.Word.IsPath() || !m.Word.Contains(m.Cell) {
		return false
	}
	for _, pos := range m.Word {
		if pos != m.Cell && (!b.IsValidPosition(pos) || b.IsEmpty(pos)) {
			return false
		}
	}
	return true
}

// GenerateAll returns every legal move on b, in a deterministic order
func (s *Searcher) GenerateAll(b *model.Board) []model.Move {
	g := &generator{
		board:    b,
		forward:  s.vocab.Forward,
		backward: s.vocab.Backward,
		seen:     make(map[string]struct{}),
	}
	for _, target := range b.Targets() {
		for _, letter := range g.backward.Root().Keys() {
			g.fromTarget(target, letter)
		}
	}
	return g.moves
}

// GenerateExcluding returns the legal moves whose words are not in used
func (s *Searcher) GenerateExcluding(b *model.Board, used []string) []model.Move {
	usedSet := lo.Keyify(used)
	return lo.Filter(s.GenerateAll(b), func(m model.Move, _ int) bool {
		_, taken := usedSet[m.Text(b)]
		return !taken
	})
}

type generator struct {
	board    *model.Board
	forward  *dictionary.Trie
	backward *dictionary.Trie

	target  model.Position
	letter  rune
	path    []model.Position
	visited map[model.Position]bool

	seen  map[string]struct{}
	moves []model.Move
}

func (g *generator) fromTarget(target model.Position, letter rune) {
	g.target = target
	g.letter = letter
	g.path = []model.Position{target}
	g.visited = map[model.Position]bool{target: true}
	g.walkBackward(g.backward.Root().Child(letter), target)
}

// walkBackward extends the path away from the target. The path is held
// target-first, so it reads the word in reverse.
func (g *generator) walkBackward(node *dictionary.Node, cell model.Position) {
	if node.IsTerminal() {
		g.turnAround()
	}
	for _, next := range g.board.Neighbors(cell) {
		if g.visited[next] || g.board.IsEmpty(next) {
			continue
		}
		child := node.Child(g.board.Get(next))
		if child == nil {
			continue
		}
		g.visited[next] = true
		g.path = append(g.path, next)
		g.walkBackward(child, next)
		g.path = g.path[:len(g.path)-1]
		delete(g.visited, next)
	}
}

// turnAround reads the current backward path as a word prefix ending at the
// target and continues it forward.
func (g *generator) turnAround() {
	word := model.Word(g.path).Reversed()
	node := g.forward.Follow(word.Text(g.board, g.letter))
	if node == nil {
		return
	}
	g.walkForward(node, word)
}

func (g *generator) walkForward(node *dictionary.Node, word model.Word) {
	if node.IsTerminal() {
		g.emit(word)
	}
	for _, next := range g.board.Neighbors(word[len(word)-1]) {
		if g.visited[next] || g.board.IsEmpty(next) {
			continue
		}
		child := node.Child(g.board.Get(next))
		if child == nil {
			continue
		}
		g.visited[next] = true
		g.walkForward(child, append(word, next))
		delete(g.visited, next)
	}
}

func (g *generator) emit(word model.Word) {
	if len(word) < MinWordLength {
		return
	}
	m := model.Move{
		Cell:   g.target,
		Prev:   model.Empty,
		Letter: g.letter,
		Word:   word.Clone(),
	}
	key := m.Key()
	if _, dup := g.seen[key]; dup {
		return
	}
	g.seen[key] = struct{}{}
	g.moves = append(g.moves, m)
}
