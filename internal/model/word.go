package model

import (
	"fmt"
	"strings"
)

// Word is an ordered path of distinct, adjacent cells
type Word []Position

// Text reads the word from the board, substituting letter for any empty cell
func (w Word) Text(b *Board, letter rune) string {
	var sb strings.Builder
	for _, pos := range w {
		r := b.Get(pos)
		if r == Empty {
			r = letter
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// IsPath reports whether consecutive cells are adjacent and no cell repeats
func (w Word) IsPath() bool {
	seen := make(map[Position]struct{}, len(w))
	for i, pos := range w {
		if _, ok := seen[pos]; ok {
			return false
		}
		seen[pos] = struct{}{}
		if i > 0 && !w[i-1].Adjacent(pos) {
			return false
		}
	}
	return true
}

// Contains reports whether pos is part of the word
func (w Word) Contains(pos Position) bool {
	for _, p := range w {
		if p == pos {
			return true
		}
	}
	return false
}

// Reversed returns a reversed copy of the word
func (w Word) Reversed() Word {
	out := make(Word, len(w))
	for i, pos := range w {
		out[len(w)-1-i] = pos
	}
	return out
}

// Clone returns a copy that shares no memory with w
func (w Word) Clone() Word {
	out := make(Word, len(w))
	copy(out, w)
	return out
}

// Key identifies the cell sequence, suitable as a map key
func (w Word) Key() string {
	var sb strings.Builder
	for _, pos := range w {
		fmt.Fprintf(&sb, "%d,%d;", pos.Row, pos.Col)
	}
	return sb.String()
}
