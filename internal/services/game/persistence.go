package game

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"unicode/utf8"

	"github.com/samber/lo"

	"github.com/mcoot/wordmaster/internal/model"
	"github.com/mcoot/wordmaster/internal/services/dictionary"
	"github.com/mcoot/wordmaster/internal/services/search"
)

// saveVersion is bumped whenever SavedGame changes incompatibly
const saveVersion = 1

// Save writes the game to w as JSON. Mutations are held back while the
// snapshot is taken.
func (e *Engine) Save(w io.Writer) error {
	e.Pause()
	defer e.Resume()

	saved := e.snapshot()
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(saved); err != nil {
		return fmt.Errorf("encode game: %w", err)
	}
	return nil
}

func (e *Engine) snapshot() model.SavedGame {
	e.mu.RLock()
	defer e.mu.RUnlock()

	var fingerprint uint64
	if v, ok := e.dict.Vocabulary(); ok {
		fingerprint = v.Fingerprint
	}

	return model.SavedGame{
		Version:     saveVersion,
		Language:    e.dict.Language(),
		Fingerprint: fingerprint,
		Width:       e.st.board.Width,
		Height:      e.st.board.Height,
		StartWord:   e.st.startWord,
		Participants: lo.Map(e.st.participants, func(p model.Participant, _ int) model.SavedParticipant {
			return model.SavedParticipant{
				Name:       p.Name,
				Autonomous: p.Autonomous,
				Difficulty: p.Difficulty,
				Delay:      p.Delay,
				Score:      p.Score,
				Words:      append([]string{}, p.Words...),
			}
		}),
		Moves: lo.Map(e.st.history, func(en entry, _ int) model.SavedMove {
			return model.SavedMove{
				Cell:   en.move.Cell,
				Prev:   letterString(en.move.Prev),
				Letter: letterString(en.move.Letter),
				Word:   en.move.Word.Clone(),
				Player: en.player,
			}
		}),
		Pointer:  e.st.pointer,
		Turn:     e.st.turn,
		Finished: e.st.finished,
	}
}

// Load replaces the game with one read from r. With asReplay the board and
// scores start from the seeded position and the saved moves are walked with
// Redo one at a time.
func (e *Engine) Load(r io.Reader, asReplay bool) error {
	st, err := decodeState(r, e.dict, e.norm, asReplay)
	if err != nil {
		return err
	}

	loaded := make(chan error, 1)
	err = e.sched.Submit(func() {
		if err := e.sched.BeginApply(); err != nil {
			loaded <- err
			return
		}
		e.mu.Lock()
		e.st = st
		e.suggestion = nil
		e.version++
		e.mu.Unlock()
		e.sched.EndApply()

		e.logger.Info("game loaded", slog.Bool("replay", asReplay), slog.Int("moves", len(st.history)))
		e.publish(model.EventMove, "")
		loaded <- nil
	})
	if err != nil {
		return err
	}
	return <-loaded
}

// Restore creates an engine from a saved game
func Restore(cfg Config, dict Dictionary, r io.Reader, asReplay bool, deps Dependencies) (*Engine, error) {
	norm, err := dictionary.NewNormalizer(dict.Language())
	if err != nil {
		return nil, err
	}
	st, err := decodeState(r, dict, norm, asReplay)
	if err != nil {
		return nil, err
	}
	cfg.Width, cfg.Height = st.board.Width, st.board.Height
	return newEngine(cfg, dict, norm, st, deps), nil
}

func decodeState(r io.Reader, dict Dictionary, norm *dictionary.Normalizer, asReplay bool) (state, error) {
	var saved model.SavedGame
	if err := json.NewDecoder(r).Decode(&saved); err != nil {
		return state{}, fmt.Errorf("decode game: %w", err)
	}
	if saved.Version != saveVersion {
		return state{}, fmt.Errorf("unsupported save version %d", saved.Version)
	}
	if saved.Language != norm.Language() {
		return state{}, fmt.Errorf("%w: language %q", model.ErrVocabularyMismatch, saved.Language)
	}
	if v, ok := dict.Vocabulary(); ok && saved.Fingerprint != 0 && saved.Fingerprint != v.Fingerprint {
		return state{}, model.ErrVocabularyMismatch
	}
	if len(saved.Participants) == 0 {
		return state{}, model.ErrNoParticipants
	}
	if saved.Pointer < 0 || saved.Pointer > len(saved.Moves) {
		return state{}, fmt.Errorf("pointer %d outside history of %d moves", saved.Pointer, len(saved.Moves))
	}
	if saved.Turn < 0 || saved.Turn >= len(saved.Participants) {
		return state{}, fmt.Errorf("turn %d out of range", saved.Turn)
	}

	board, err := model.NewSeededBoard(saved.Width, saved.Height, saved.StartWord)
	if err != nil {
		return state{}, err
	}

	st := state{
		board:     board,
		startWord: saved.StartWord,
		participants: lo.Map(saved.Participants, func(p model.SavedParticipant, _ int) model.Participant {
			return model.Participant{
				Name:       p.Name,
				Autonomous: p.Autonomous,
				Difficulty: p.Difficulty,
				Delay:      p.Delay,
				Score:      p.Score,
				Words:      append([]string(nil), p.Words...),
			}
		}),
		pointer:  saved.Pointer,
		turn:     saved.Turn,
		finished: saved.Finished,
	}

	// Every move must be placeable on the board as it stood before it
	replayBoard := board.Copy()
	for i, sm := range saved.Moves {
		m, err := decodeMove(sm, len(saved.Participants))
		if err != nil {
			return state{}, fmt.Errorf("move %d: %w", i, err)
		}
		if !search.Legal(replayBoard, m.move) {
			return state{}, fmt.Errorf("move %d: %w", i, model.ErrInvalidPosition)
		}
		replayBoard.Set(m.move.Cell, m.move.Letter)
		if i < saved.Pointer {
			board.Set(m.move.Cell, m.move.Letter)
		}
		st.history = append(st.history, m)
	}

	if asReplay {
		st.board, _ = model.NewSeededBoard(saved.Width, saved.Height, saved.StartWord)
		st.pointer = 0
		st.turn = 0
		st.replay = true
		st.finished = false
		for i := range st.participants {
			st.participants[i].Reset()
		}
	}
	return st, nil
}

func decodeMove(sm model.SavedMove, participants int) (entry, error) {
	if utf8.RuneCountInString(sm.Letter) != 1 {
		return entry{}, model.ErrInvalidLetter
	}
	if sm.Player < 0 || sm.Player >= participants {
		return entry{}, fmt.Errorf("player %d out of range", sm.Player)
	}
	prev := model.Empty
	if sm.Prev != "" {
		prev = []rune(sm.Prev)[0]
	}
	return entry{
		move: model.Move{
			Cell:   sm.Cell,
			Prev:   prev,
			Letter: []rune(sm.Letter)[0],
			Word:   sm.Word.Clone(),
		},
		player: sm.Player,
	}, nil
}

func letterString(r rune) string {
	if r == model.Empty {
		return ""
	}
	return string(r)
}
