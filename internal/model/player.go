package model

import "time"

// Participant is a seat in a game session, human or autonomous
type Participant struct {
	Name       string
	Autonomous bool
	Difficulty string        // Tier name, only meaningful for autonomous participants
	Delay      time.Duration // Think time before an autonomous move

	Score int
	Words []string // Credited words in the order they were made
}

// Credit adds a completed word to the participant
func (p *Participant) Credit(word string) {
	p.Words = append(p.Words, word)
	p.Score += len([]rune(word))
}

// Uncredit removes the most recent occurrence of word
func (p *Participant) Uncredit(word string) {
	for i := len(p.Words) - 1; i >= 0; i-- {
		if p.Words[i] == word {
			p.Words = append(p.Words[:i], p.Words[i+1:]...)
			p.Score -= len([]rune(word))
			return
		}
	}
}

// Reset clears score and credited words
func (p *Participant) Reset() {
	p.Score = 0
	p.Words = nil
}

// Clone returns a copy that shares no memory with p
func (p Participant) Clone() Participant {
	p.Words = append([]string(nil), p.Words...)
	return p
}
