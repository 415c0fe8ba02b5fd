package cli

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/mcoot/wordmaster/internal/api/request"
	"github.com/mcoot/wordmaster/internal/model"
)

// parseCell reads "row,col"
func parseCell(s string) (request.Cell, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return request.Cell{}, fmt.Errorf("cell %q must be row,col", s)
	}
	row, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return request.Cell{}, fmt.Errorf("cell %q: bad row", s)
	}
	col, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return request.Cell{}, fmt.Errorf("cell %q: bad column", s)
	}
	return request.Cell{Row: row, Col: col}, nil
}

// parseMove reads a letter, the cell it goes in and the word path, e.g.
// "s 0,2 1,0 1,1 1,2 0,2"
func parseMove(args []string) (request.MoveRequest, error) {
	if len(args) < 3 {
		return request.MoveRequest{}, fmt.Errorf("usage: <letter> <row,col> <row,col>...")
	}
	if utf8.RuneCountInString(args[0]) != 1 {
		return request.MoveRequest{}, fmt.Errorf("letter must be a single character")
	}
	cell, err := parseCell(args[1])
	if err != nil {
		return request.MoveRequest{}, err
	}
	req := request.MoveRequest{Letter: args[0], Cell: cell}
	for _, a := range args[2:] {
		c, err := parseCell(a)
		if err != nil {
			return request.MoveRequest{}, err
		}
		req.Word = append(req.Word, c)
	}
	return req, nil
}

// parseParticipant reads "name", "name:bot" or "name:bot:difficulty"
func parseParticipant(s string) (request.Participant, error) {
	parts := strings.Split(s, ":")
	p := request.Participant{Name: parts[0]}
	if p.Name == "" {
		return p, fmt.Errorf("participant %q has no name", s)
	}
	switch len(parts) {
	case 1:
	case 2, 3:
		if parts[1] != "bot" {
			return p, fmt.Errorf("participant %q: expected name:bot[:difficulty]", s)
		}
		p.Autonomous = true
		if len(parts) == 3 {
			p.Difficulty = parts[2]
		}
	default:
		return p, fmt.Errorf("participant %q: expected name:bot[:difficulty]", s)
	}
	return p, nil
}

func toPosition(c request.Cell) model.Position {
	return model.Position{Row: c.Row, Col: c.Col}
}

func toParticipant(p request.Participant) model.Participant {
	return model.Participant{Name: p.Name, Autonomous: p.Autonomous, Difficulty: p.Difficulty}
}
