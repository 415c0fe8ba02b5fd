package model

// Move records one letter placement and the word it completes.
// Once applied it is owned by the history and never mutated.
type Move struct {
	Cell   Position `json:"cell"`
	Prev   rune     `json:"-"`
	Letter rune     `json:"-"`
	Word   Word     `json:"word"`
}

// Text renders the word this move spells on b
func (m Move) Text(b *Board) string {
	return m.Word.Text(b, m.Letter)
}

// Key identifies the move by its letter and ordered cells
func (m Move) Key() string {
	return string(m.Letter) + "|" + m.Word.Key()
}

// Clone returns a deep copy of the move
func (m Move) Clone() Move {
	m.Word = m.Word.Clone()
	return m
}
