package game

import (
	"errors"
	"log/slog"

	"github.com/samber/lo"

	"github.com/mcoot/wordmaster/internal/model"
	"github.com/mcoot/wordmaster/internal/services/dictionary"
	"github.com/mcoot/wordmaster/internal/services/search"
)

// Start announces the initial position so an autonomous first player can move.
// When a human moves first the position is analyzed straight away, so a board
// with no move left finishes without waiting for one.
func (e *Engine) Start() error {
	if e.sched.Killed() {
		return model.ErrTerminated
	}
	e.publish(model.EventMove, "")

	if !e.cfg.Analyze {
		return nil
	}
	vocab, ok := e.dict.Vocabulary()
	if !ok {
		return nil
	}
	e.mu.RLock()
	human := !e.st.replay && !e.st.finished && !e.st.participants[e.st.turn].Autonomous
	board := e.st.board.Copy()
	used := e.usedWordsLocked()
	version := e.version
	e.mu.RUnlock()

	if human {
		e.analyze(vocab, board, used, version)
	}
	return nil
}

// MakeMove submits the current participant's move: letter placed at cell,
// completing word. Whether the word is accepted is reported through events.
func (e *Engine) MakeMove(letter rune, cell model.Position, word model.Word) error {
	l, ok := e.norm.Letter(letter)
	if !ok {
		return model.ErrInvalidLetter
	}
	if err := e.admitMove(); err != nil {
		return err
	}
	if !e.Board().IsValidPosition(cell) {
		return model.ErrInvalidPosition
	}

	m := model.Move{Cell: cell, Letter: l, Word: word.Clone()}
	return e.sched.Submit(func() { e.doMakeMove(m) })
}

// GenerateMove makes a move for the current participant, chosen by its policy
// if autonomous and uniformly at random otherwise. If no move exists the game
// finishes.
func (e *Engine) GenerateMove() error {
	if err := e.admitMove(); err != nil {
		return err
	}
	return e.sched.Submit(e.doGenerate)
}

// Undo reverts the last step of moves
func (e *Engine) Undo() error {
	if !e.CanUndo() {
		return model.ErrNothingToUndo
	}
	return e.sched.Submit(e.doUndo)
}

// Redo re-applies the next step of undone moves
func (e *Engine) Redo() error {
	if !e.CanRedo() {
		return model.ErrNothingToRedo
	}
	return e.sched.Submit(e.doRedo)
}

// Surrender ends a two-player game in favour of the participant who is not
// on turn. With more participants it does nothing.
func (e *Engine) Surrender() error {
	if err := e.admitMove(); err != nil {
		return err
	}
	return e.sched.Submit(e.doSurrender)
}

// Pause holds back mutations until a matching Resume. Pauses nest.
func (e *Engine) Pause() {
	e.sched.Freeze()
}

// Resume releases one Pause
func (e *Engine) Resume() {
	e.sched.Unfreeze()
}

func (e *Engine) admitMove() error {
	if e.sched.Killed() || e.IsFinished() {
		return model.ErrTerminated
	}
	if e.IsReplay() {
		return model.ErrReplayMode
	}
	return nil
}

// Worker side. Everything below runs on the scheduler goroutine, so reads of
// e.st need no lock; writes take e.mu inside an apply phase.

func (e *Engine) vocabulary() (*dictionary.Vocabulary, bool) {
	v, ok := e.dict.Vocabulary()
	if !ok {
		e.invalid(model.ReasonDictionaryNotReady)
	}
	return v, ok
}

func (e *Engine) doMakeMove(m model.Move) {
	vocab, ok := e.vocabulary()
	if !ok {
		return
	}
	if !search.Legal(e.st.board, m) {
		e.invalid(model.ReasonOther)
		return
	}
	if !search.New(vocab).Validate(e.st.board, m) {
		e.invalid(model.ReasonNotAWord)
		return
	}
	if lo.Contains(e.usedWordsLocked(), m.Text(e.st.board)) {
		e.invalid(model.ReasonAlreadyUsed)
		return
	}
	e.applyForward(m, vocab)
}

func (e *Engine) doGenerate() {
	vocab, ok := e.vocabulary()
	if !ok {
		return
	}
	current := e.st.participants[e.st.turn]

	e.mu.RLock()
	hint := e.suggestion
	e.mu.RUnlock()
	if hint != nil && !current.Autonomous {
		e.applyForward(hint.Clone(), vocab)
		return
	}

	moves := search.New(vocab).GenerateExcluding(e.st.board, e.usedWordsLocked())
	if len(moves) == 0 {
		e.finish(e.leaders())
		return
	}

	var m model.Move
	if current.Autonomous && e.selector != nil {
		m = e.selector.Select(current.Clone(), moves, e.st.board.Copy())
	} else {
		m = moves[e.random.Intn(len(moves))]
	}
	e.applyForward(m, vocab)
}

func (e *Engine) applyForward(m model.Move, vocab *dictionary.Vocabulary) {
	if err := e.sched.BeginApply(); err != nil {
		return
	}

	e.mu.Lock()
	st := &e.st
	text := m.Text(st.board)
	m.Prev = st.board.Get(m.Cell)
	st.board.Set(m.Cell, m.Letter)
	st.history = append(st.history[:st.pointer], entry{move: m, player: st.turn})
	st.pointer++
	st.participants[st.turn].Credit(text)
	mover := st.participants[st.turn].Name
	st.turn = (st.turn + 1) % len(st.participants)
	e.suggestion = nil
	e.version++

	next := st.participants[st.turn]
	version := e.version
	board := st.board.Copy()
	used := e.usedWordsLocked()
	e.mu.Unlock()
	e.sched.EndApply()

	e.logger.Info("move applied",
		slog.String("player", mover),
		slog.String("word", text),
		slog.Int("row", m.Cell.Row),
		slog.Int("col", m.Cell.Col),
	)
	e.publish(model.EventMove, "")

	if !next.Autonomous && e.cfg.Analyze {
		e.analyze(vocab, board, used, version)
	}
}

func (e *Engine) doUndo() {
	step := e.stepLocked()
	if e.st.pointer < step {
		return
	}
	if err := e.sched.BeginApply(); err != nil {
		return
	}

	e.mu.Lock()
	st := &e.st
	for range step {
		st.pointer--
		en := st.history[st.pointer]
		text := en.move.Text(st.board)
		st.board.Set(en.move.Cell, en.move.Prev)
		st.participants[en.player].Uncredit(text)
		st.turn = en.player
	}
	e.suggestion = nil
	e.version++
	e.mu.Unlock()
	e.sched.EndApply()

	e.logger.Info("moves undone", slog.Int("step", step), slog.Int("pointer", e.st.pointer))
	e.publish(model.EventMove, "")
}

func (e *Engine) doRedo() {
	step := e.stepLocked()
	if len(e.st.history)-e.st.pointer < step {
		return
	}
	if err := e.sched.BeginApply(); err != nil {
		return
	}

	e.mu.Lock()
	st := &e.st
	for range step {
		en := st.history[st.pointer]
		st.board.Set(en.move.Cell, en.move.Letter)
		st.participants[en.player].Credit(en.move.Text(st.board))
		st.pointer++
		st.turn = (en.player + 1) % len(st.participants)
	}
	e.suggestion = nil
	e.version++
	e.mu.Unlock()
	e.sched.EndApply()

	e.logger.Info("moves redone", slog.Int("step", step), slog.Int("pointer", e.st.pointer))
	e.publish(model.EventMove, "")
}

func (e *Engine) doSurrender() {
	n := len(e.st.participants)
	if n != 2 {
		return
	}
	e.logger.Info("participant surrendered", slog.String("player", e.st.participants[e.st.turn].Name))
	e.finish([]int{(e.st.turn + 1) % n})
}

// leaders returns every participant with the highest score
func (e *Engine) leaders() []int {
	best := lo.MaxBy(e.st.participants, func(a, b model.Participant) bool { return a.Score > b.Score }).Score
	var out []int
	for i, p := range e.st.participants {
		if p.Score == best {
			out = append(out, i)
		}
	}
	return out
}

// finish records the winners, notifies subscribers and terminates the engine
func (e *Engine) finish(winners []int) {
	if err := e.sched.BeginApply(); err != nil {
		return
	}
	e.mu.Lock()
	e.st.finished = true
	e.st.winners = winners
	e.suggestion = nil
	e.version++
	e.mu.Unlock()
	e.sched.EndApply()

	e.logger.Info("game finished", slog.Any("winners", e.Winners()))
	e.publish(model.EventFinish, "")
	e.Destroy()
}

// analyze looks for any remaining move on a snapshot without holding up the
// worker. The result is dropped if the game has moved on since.
func (e *Engine) analyze(vocab *dictionary.Vocabulary, board *model.Board, used []string, version uint64) {
	e.background.add()
	go func() {
		defer e.background.done()

		moves := search.New(vocab).GenerateExcluding(board, used)

		e.mu.Lock()
		if e.version != version {
			e.mu.Unlock()
			return
		}
		if len(moves) > 0 {
			m := moves[0]
			e.suggestion = &m
		}
		e.mu.Unlock()

		if len(moves) == 0 {
			e.finishAt(version)
		}
	}()
}

// finishAt ends the game through the worker, provided nothing has changed
// since version. A busy scheduler is waited out and retried.
func (e *Engine) finishAt(version uint64) {
	op := func() {
		if e.version == version {
			e.finish(e.leaders())
		}
	}
	for {
		err := e.sched.Submit(op)
		if err == nil || errors.Is(err, model.ErrTerminated) {
			return
		}
		e.sched.WaitIdle()

		e.mu.RLock()
		stale := e.version != version
		e.mu.RUnlock()
		if stale {
			return
		}
	}
}
