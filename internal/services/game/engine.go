// Package game runs a single word-building session.
//
// An Engine owns the board, participants and move history. Every mutation
// happens on the scheduler's worker goroutine; public methods only validate
// and submit. Outcomes that arise after admission, such as a rejected word or
// the end of the game, reach subscribers through the event queue.
package game

import (
	"log/slog"
	"sync"

	"github.com/samber/lo"

	"github.com/mcoot/wordmaster/internal/dependencies/random"
	"github.com/mcoot/wordmaster/internal/events"
	"github.com/mcoot/wordmaster/internal/model"
	"github.com/mcoot/wordmaster/internal/scheduler"
	"github.com/mcoot/wordmaster/internal/services/dictionary"
)

// Config holds engine settings
type Config struct {
	Width  int
	Height int

	// UndoStep is how many moves one live undo or redo covers. Replay always
	// steps one move at a time.
	UndoStep int

	// Analyze runs end-of-game detection in the background before each human turn
	Analyze bool
}

// DefaultConfig returns the standard 5x5 game
func DefaultConfig() Config {
	return Config{
		Width:    5,
		Height:   5,
		UndoStep: 2,
		Analyze:  true,
	}
}

// Dictionary is where the engine gets its vocabulary. A *dictionary.Loader
// satisfies it; the vocabulary may still be loading when the engine starts.
type Dictionary interface {
	Language() string
	Vocabulary() (*dictionary.Vocabulary, bool)
}

// Selector picks the move an autonomous participant makes
type Selector interface {
	Select(p model.Participant, moves []model.Move, b *model.Board) model.Move
}

// Dependencies are the collaborators an engine needs besides its dictionary
type Dependencies struct {
	Random   random.Random
	Selector Selector
	Logger   *slog.Logger
}

type entry struct {
	move   model.Move
	player int
}

// state is everything Save and Load carry
type state struct {
	board        *model.Board
	startWord    string
	participants []model.Participant
	history      []entry
	pointer      int
	turn         int
	replay       bool
	finished     bool
	winners      []int
}

// Engine is one game session
type Engine struct {
	cfg      Config
	dict     Dictionary
	norm     *dictionary.Normalizer
	random   random.Random
	selector Selector
	logger   *slog.Logger

	sched      *scheduler.Scheduler
	queue      *events.Queue
	background tracker

	mu         sync.RWMutex
	st         state
	suggestion *model.Move
	version    uint64

	listenersMu sync.Mutex
	listeners   []Listener
}

// New creates an engine for a fresh game. The start word is placed centered
// on the middle row.
func New(cfg Config, dict Dictionary, participants []model.Participant, startWord string, deps Dependencies) (*Engine, error) {
	norm, err := dictionary.NewNormalizer(dict.Language())
	if err != nil {
		return nil, err
	}
	if len(participants) == 0 {
		return nil, model.ErrNoParticipants
	}

	word, ok := norm.Word(startWord)
	if !ok {
		return nil, model.ErrInvalidStartWord
	}
	board, err := model.NewSeededBoard(cfg.Width, cfg.Height, word)
	if err != nil {
		return nil, err
	}

	st := state{
		board:     board,
		startWord: word,
		participants: lo.Map(participants, func(p model.Participant, _ int) model.Participant {
			p = p.Clone()
			p.Reset()
			return p
		}),
	}
	return newEngine(cfg, dict, norm, st, deps), nil
}

func newEngine(cfg Config, dict Dictionary, norm *dictionary.Normalizer, st state, deps Dependencies) *Engine {
	if cfg.UndoStep <= 0 {
		cfg.UndoStep = 1
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	rnd := deps.Random
	if rnd == nil {
		rnd = random.New()
	}
	logger = logger.With(slog.String("component", "engine"))

	e := &Engine{
		cfg:      cfg,
		dict:     dict,
		norm:     norm,
		random:   rnd,
		selector: deps.Selector,
		logger:   logger,
		sched:    scheduler.New(logger),
		queue:    events.NewQueue(logger),
		st:       st,
	}
	e.background.init()

	logger.Info("game created",
		slog.String("start_word", st.startWord),
		slog.Int("participants", len(st.participants)),
		slog.Int("width", st.board.Width),
		slog.Int("height", st.board.Height),
		slog.Bool("replay", st.replay),
	)
	return e
}

// Language returns the language of the engine's dictionary
func (e *Engine) Language() string {
	return e.dict.Language()
}

// Board returns a copy of the current grid
func (e *Engine) Board() *model.Board {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.st.board.Copy()
}

// StartWord returns the word the board was seeded with
func (e *Engine) StartWord() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.st.startWord
}

// Participants returns copies of every participant
func (e *Engine) Participants() []model.Participant {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return lo.Map(e.st.participants, func(p model.Participant, _ int) model.Participant {
		return p.Clone()
	})
}

// CurrentPlayer returns the index of the participant whose turn it is
func (e *Engine) CurrentPlayer() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.st.turn
}

// Moves returns the applied moves in order
func (e *Engine) Moves() []model.Move {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return lo.Map(e.st.history[:e.st.pointer], func(en entry, _ int) model.Move {
		return en.move.Clone()
	})
}

// HistoryLen returns the number of moves in history, including undone ones
func (e *Engine) HistoryLen() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.st.history)
}

// Pointer returns the number of applied moves
func (e *Engine) Pointer() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.st.pointer
}

// IsReplay reports whether the engine is in replay mode
func (e *Engine) IsReplay() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.st.replay
}

// IsFinished reports whether the game has ended
func (e *Engine) IsFinished() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.st.finished
}

// Winners returns the names of the winners once the game has ended
func (e *Engine) Winners() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return lo.Map(e.st.winners, func(i int, _ int) string { return e.st.participants[i].Name })
}

// CanUndo reports whether an undo would currently be admitted
func (e *Engine) CanUndo() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.st.pointer >= e.stepLocked()
}

// CanRedo reports whether a redo would currently be admitted
func (e *Engine) CanRedo() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.st.history)-e.st.pointer >= e.stepLocked()
}

func (e *Engine) stepLocked() int {
	if e.st.replay {
		return 1
	}
	return e.cfg.UndoStep
}

// Hint returns a move found by the last background analysis, if it is still current
func (e *Engine) Hint() (model.Move, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.suggestion == nil {
		return model.Move{}, false
	}
	return e.suggestion.Clone(), true
}

// UsedWords returns every credited word plus the start word
func (e *Engine) UsedWords() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.usedWordsLocked()
}

func (e *Engine) usedWordsLocked() []string {
	words := lo.FlatMap(e.st.participants, func(p model.Participant, _ int) []string { return p.Words })
	return append(words, e.st.startWord)
}

// LastMove describes the most recently applied move
func (e *Engine) LastMove() (model.MovePayload, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.st.pointer == 0 {
		return model.MovePayload{}, false
	}
	en := e.st.history[e.st.pointer-1]
	return model.MovePayload{
		Player: e.st.participants[en.player].Name,
		Word:   en.move.Text(e.st.board),
		Cell:   en.move.Cell,
		Letter: string(en.move.Letter),
		Turn:   e.st.turn,
	}, true
}

// Busy reports whether an operation is admitted but not yet complete
func (e *Engine) Busy() bool {
	return e.sched.Busy()
}

// WaitIdle blocks until no operation is in flight and no background analysis
// is running
func (e *Engine) WaitIdle() {
	for {
		e.sched.WaitIdle()
		e.background.wait()
		if !e.sched.Busy() {
			return
		}
	}
}

// Destroy stops the engine. Work already admitted finishes and queued events
// are still delivered; later operations fail with ErrTerminated.
func (e *Engine) Destroy() {
	e.sched.Kill()
	e.queue.Shutdown()
}

// Wait blocks until a destroyed engine's goroutines have exited
func (e *Engine) Wait() {
	<-e.sched.Done()
	<-e.queue.Done()
}

// tracker counts background goroutines. Unlike sync.WaitGroup it allows new
// work to be added while someone is waiting.
type tracker struct {
	mu   sync.Mutex
	cond *sync.Cond
	n    int
}

func (t *tracker) init() {
	t.cond = sync.NewCond(&t.mu)
}

func (t *tracker) add() {
	t.mu.Lock()
	t.n++
	t.mu.Unlock()
}

func (t *tracker) done() {
	t.mu.Lock()
	t.n--
	t.cond.Broadcast()
	t.mu.Unlock()
}

func (t *tracker) wait() {
	t.mu.Lock()
	for t.n > 0 {
		t.cond.Wait()
	}
	t.mu.Unlock()
}
