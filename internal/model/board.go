package model

import "unicode/utf8"

// Empty is the value of a cell that holds no letter
const Empty rune = 0

// Position identifies a cell on the board
type Position struct {
	Row int `json:"row"` // 0-indexed from top
	Col int `json:"col"` // 0-indexed from left
}

// Adjacent reports whether p and other share an edge
func (p Position) Adjacent(other Position) bool {
	dr, dc := p.Row-other.Row, p.Col-other.Col
	return (dr == 0 && (dc == 1 || dc == -1)) || (dc == 0 && (dr == 1 || dr == -1))
}

// Board is the shared letter grid of a game session
type Board struct {
	Width  int
	Height int
	Cells  [][]rune // Row-major: Cells[row][col], 0 means empty
}

// NewBoard creates an empty board of the given dimensions
func NewBoard(width, height int) *Board {
	cells := make([][]rune, height)
	for i := range cells {
		cells[i] = make([]rune, width)
	}
	return &Board{
		Width:  width,
		Height: height,
		Cells:  cells,
	}
}

// MaxDimension bounds the width and height of a board
const MaxDimension = 32

// NewSeededBoard creates a board with the start word centered on the middle row
func NewSeededBoard(width, height int, startWord string) (*Board, error) {
	if width <= 0 || height <= 0 || width > MaxDimension || height > MaxDimension {
		return nil, ErrInvalidDimensions
	}
	n := utf8.RuneCountInString(startWord)
	if n == 0 || n > width {
		return nil, ErrInvalidStartWord
	}
	b := NewBoard(width, height)
	for i, r := range []rune(startWord) {
		b.Set(StartPosition(width, height, n).offset(0, i), r)
	}
	return b, nil
}

// StartPosition returns the cell holding the first letter of a start word of length n
func StartPosition(width, height, n int) Position {
	return Position{Row: height / 2, Col: (width - n) / 2}
}

func (p Position) offset(dr, dc int) Position {
	return Position{Row: p.Row + dr, Col: p.Col + dc}
}

// Get returns the letter at the given position, or 0 if empty or out of bounds
func (b *Board) Get(pos Position) rune {
	if !b.IsValidPosition(pos) {
		return Empty
	}
	return b.Cells[pos.Row][pos.Col]
}

// Set places a letter at the given position
func (b *Board) Set(pos Position, letter rune) {
	if b.IsValidPosition(pos) {
		b.Cells[pos.Row][pos.Col] = letter
	}
}

// IsEmpty returns true if the cell at the given position is empty
func (b *Board) IsEmpty(pos Position) bool {
	return b.Get(pos) == Empty
}

// IsValidPosition returns true if the position is within bounds
func (b *Board) IsValidPosition(pos Position) bool {
	return pos.Row >= 0 && pos.Row < b.Height && pos.Col >= 0 && pos.Col < b.Width
}

// Neighbors returns the in-bounds 4-neighbours of pos, in up, left, right, down order
func (b *Board) Neighbors(pos Position) []Position {
	result := make([]Position, 0, 4)
	for _, d := range [4][2]int{{-1, 0}, {0, -1}, {0, 1}, {1, 0}} {
		n := pos.offset(d[0], d[1])
		if b.IsValidPosition(n) {
			result = append(result, n)
		}
	}
	return result
}

// IsStandalone reports whether every neighbour of pos is empty or off the grid
func (b *Board) IsStandalone(pos Position) bool {
	for _, n := range b.Neighbors(pos) {
		if !b.IsEmpty(n) {
			return false
		}
	}
	return true
}

// IsTarget reports whether pos is an empty cell touching at least one letter
func (b *Board) IsTarget(pos Position) bool {
	return b.IsValidPosition(pos) && b.IsEmpty(pos) && !b.IsStandalone(pos)
}

// Targets returns every legal move target in row-major order
func (b *Board) Targets() []Position {
	var result []Position
	for row := 0; row < b.Height; row++ {
		for col := 0; col < b.Width; col++ {
			pos := Position{Row: row, Col: col}
			if b.IsTarget(pos) {
				result = append(result, pos)
			}
		}
	}
	return result
}

// IsFull returns true if all cells are filled
func (b *Board) IsFull() bool {
	return b.EmptyCount() == 0
}

// EmptyCount returns the number of empty cells
func (b *Board) EmptyCount() int {
	count := 0
	for row := 0; row < b.Height; row++ {
		for col := 0; col < b.Width; col++ {
			if b.Cells[row][col] == Empty {
				count++
			}
		}
	}
	return count
}

// Copy returns a deep copy of the board
func (b *Board) Copy() *Board {
	c := NewBoard(b.Width, b.Height)
	for row := range b.Cells {
		copy(c.Cells[row], b.Cells[row])
	}
	return c
}

// Equal reports whether both boards hold the same letters
func (b *Board) Equal(other *Board) bool {
	if other == nil || b.Width != other.Width || b.Height != other.Height {
		return false
	}
	for row := range b.Cells {
		for col := range b.Cells[row] {
			if b.Cells[row][col] != other.Cells[row][col] {
				return false
			}
		}
	}
	return true
}

// Rows renders the board one string per row, using '.' for empty cells
func (b *Board) Rows() []string {
	rows := make([]string, b.Height)
	for row := 0; row < b.Height; row++ {
		line := make([]rune, b.Width)
		for col := 0; col < b.Width; col++ {
			line[col] = b.Cells[row][col]
			if line[col] == Empty {
				line[col] = '.'
			}
		}
		rows[row] = string(line)
	}
	return rows
}
