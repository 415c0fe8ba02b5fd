package search

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/wordmaster/internal/model"
	"github.com/mcoot/wordmaster/internal/services/dictionary"
)

type SearchSuite struct {
	suite.Suite
	vocab    *dictionary.Vocabulary
	searcher *Searcher
	board    *model.Board
}

func TestSearchSuite(t *testing.T) {
	suite.Run(t, new(SearchSuite))
}

func (s *SearchSuite) SetupTest() {
	var err error
	s.vocab, err = dictionary.NewVocabulary("en", []string{"cat", "cats", "at", "act", "scat"})
	s.Require().NoError(err)
	s.searcher = New(s.vocab)

	// . . .
	// c a t
	// . . .
	s.board, err = model.NewSeededBoard(3, 3, "cat")
	s.Require().NoError(err)
}

func (s *SearchSuite) texts(moves []model.Move) []string {
	return lo.Uniq(lo.Map(moves, func(m model.Move, _ int) string { return m.Text(s.board) }))
}

func (s *SearchSuite) TestFindsWordEndingAtTarget() {
	moves := s.searcher.GenerateAll(s.board)

	cats := model.Move{
		Cell:   model.Position{Row: 2, Col: 2},
		Letter: 's',
		Word:   model.Word{{Row: 1, Col: 0}, {Row: 1, Col: 1}, {Row: 1, Col: 2}, {Row: 2, Col: 2}},
	}
	s.Contains(lo.Map(moves, func(m model.Move, _ int) string { return m.Key() }), cats.Key())
}

func (s *SearchSuite) TestFindsWordStartingAtTarget() {
	moves := s.searcher.GenerateAll(s.board)

	// 's' above 'c' spells "scat"
	found := lo.ContainsBy(moves, func(m model.Move) bool {
		return m.Cell == model.Position{Row: 0, Col: 0} && m.Text(s.board) == "scat"
	})
	s.True(found)
}

func (s *SearchSuite) TestFindsWordWithTargetInMiddle() {
	vocab, err := dictionary.NewVocabulary("en", []string{"oat"})
	s.Require().NoError(err)

	// o . t  ->  o a t, with the gap in the middle
	b := model.NewBoard(3, 3)
	b.Set(model.Position{Row: 0, Col: 0}, 'o')
	b.Set(model.Position{Row: 0, Col: 2}, 't')

	moves := New(vocab).GenerateAll(b)
	s.Require().Len(moves, 1)
	s.Equal(model.Position{Row: 0, Col: 1}, moves[0].Cell)
	s.Equal('a', moves[0].Letter)
	s.Equal("oat", moves[0].Text(b))
}

func (s *SearchSuite) TestEveryMoveIsSoundAndWellFormed() {
	moves := s.searcher.GenerateAll(s.board)
	s.Require().NotEmpty(moves)

	for _, m := range moves {
		s.True(m.Word.IsPath(), "word %v is not a path", m.Word)
		s.True(m.Word.Contains(m.Cell))
		s.GreaterOrEqual(len(m.Word), MinWordLength)
		s.True(Legal(s.board, m), "move %v is not legal", m)
		s.True(s.vocab.Contains(m.Text(s.board)), "%q is not a word", m.Text(s.board))
	}
	s.Subset([]string{"cat", "cats", "at", "act", "scat"}, s.texts(moves))
}

func (s *SearchSuite) TestNoDuplicates() {
	moves := s.searcher.GenerateAll(s.board)
	keys := lo.Map(moves, func(m model.Move, _ int) string { return m.Key() })
	s.Equal(len(keys), len(lo.Uniq(keys)))
}

func (s *SearchSuite) TestGenerateExcluding() {
	moves := s.searcher.GenerateExcluding(s.board, []string{"cat", "cats"})
	s.NotContains(s.texts(moves), "cat")
	s.NotContains(s.texts(moves), "cats")
	s.Contains(s.texts(moves), "at")
}

func (s *SearchSuite) TestStandaloneCellsAreNeverTargets() {
	b, err := model.NewSeededBoard(5, 5, "at")
	s.Require().NoError(err)

	for _, m := range s.searcher.GenerateAll(b) {
		s.False(b.IsStandalone(m.Cell))
	}
}

func (s *SearchSuite) TestValidate() {
	m := model.Move{
		Cell:   model.Position{Row: 2, Col: 2},
		Letter: 's',
		Word:   model.Word{{Row: 1, Col: 0}, {Row: 1, Col: 1}, {Row: 1, Col: 2}, {Row: 2, Col: 2}},
	}
	s.True(s.searcher.Validate(s.board, m))

	m.Letter = 'x'
	s.False(s.searcher.Validate(s.board, m))
}

func (s *SearchSuite) TestLegal() {
	ok := model.Move{
		Cell:   model.Position{Row: 2, Col: 2},
		Letter: 's',
		Word:   model.Word{{Row: 1, Col: 0}, {Row: 1, Col: 1}, {Row: 1, Col: 2}, {Row: 2, Col: 2}},
	}
	s.True(Legal(s.board, ok))

	occupied := ok
	occupied.Cell = model.Position{Row: 1, Col: 2}
	s.False(Legal(s.board, occupied))

	missingCell := ok
	missingCell.Word = model.Word{{Row: 1, Col: 0}, {Row: 1, Col: 1}, {Row: 1, Col: 2}}
	s.False(Legal(s.board, missingCell))

	gap := ok
	gap.Word = model.Word{{Row: 1, Col: 0}, {Row: 1, Col: 1}, {Row: 1, Col: 2}, {Row: 2, Col: 2}, {Row: 2, Col: 1}}
	s.False(Legal(s.board, gap), "a second empty cell is not allowed")

	single := ok
	single.Word = model.Word{{Row: 2, Col: 2}}
	s.False(Legal(s.board, single))
}
