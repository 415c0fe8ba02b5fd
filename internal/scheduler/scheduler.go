// Package scheduler runs one operation at a time on a dedicated worker.
//
// Admission and freezing are separate. Submit fails fast while an operation
// is in flight, whether or not the scheduler is frozen. Freeze only holds back
// the apply phase: an operation brackets its mutation with BeginApply and
// EndApply, and BeginApply waits while any freeze is held.
package scheduler

import (
	"log/slog"
	"sync"

	"github.com/mcoot/wordmaster/internal/model"
)

// Scheduler admits at most one operation at a time and executes it on its
// own goroutine
type Scheduler struct {
	logger *slog.Logger

	mu       sync.Mutex
	cond     *sync.Cond
	busy     bool
	frozen   int
	applying bool
	killed   bool

	ops  chan func()
	quit chan struct{}
	done chan struct{}
}

// New creates a scheduler and starts its worker
func New(logger *slog.Logger) *Scheduler {
	s := &Scheduler{
		logger: logger.With(slog.String("component", "scheduler")),
		ops:    make(chan func(), 1),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	s.cond = sync.NewCond(&s.mu)
	go s.run()
	return s
}

func (s *Scheduler) run() {
	defer close(s.done)
	for {
		select {
		case op := <-s.ops:
			s.execute(op)
		case <-s.quit:
			// An operation admitted before Kill still runs
			select {
			case op := <-s.ops:
				s.execute(op)
			default:
			}
			s.logger.Debug("worker stopped")
			return
		}
	}
}

func (s *Scheduler) execute(op func()) {
	defer func() {
		s.mu.Lock()
		s.busy = false
		s.cond.Broadcast()
		s.mu.Unlock()
	}()
	op()
}

// Submit hands op to the worker. It never blocks: if an operation is already
// in flight it returns ErrOperationInProgress.
func (s *Scheduler) Submit(op func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.killed {
		return model.ErrTerminated
	}
	if s.busy {
		return model.ErrOperationInProgress
	}
	s.busy = true
	s.ops <- op
	return nil
}

// Busy reports whether an operation is admitted but not yet complete
func (s *Scheduler) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// WaitIdle blocks until no operation is in flight
func (s *Scheduler) WaitIdle() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for s.busy {
		s.cond.Wait()
	}
}

// BeginApply blocks while the scheduler is frozen, then marks the apply
// phase as started. It returns ErrTerminated if the scheduler is killed
// while still frozen, in which case the caller must not mutate.
func (s *Scheduler) BeginApply() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for s.frozen > 0 && !s.killed {
		s.cond.Wait()
	}
	if s.frozen > 0 {
		return model.ErrTerminated
	}
	s.applying = true
	return nil
}

// EndApply marks the apply phase as finished
func (s *Scheduler) EndApply() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applying = false
	s.cond.Broadcast()
}

// Freeze takes one freeze hold. It waits for an apply phase already under way
// to finish, so on return no mutation is running or will start until every
// hold is released.
func (s *Scheduler) Freeze() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frozen++
	for s.applying {
		s.cond.Wait()
	}
}

// Unfreeze releases one freeze hold
func (s *Scheduler) Unfreeze() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.frozen > 0 {
		s.frozen--
	}
	s.cond.Broadcast()
}

// Frozen reports whether any freeze hold is taken
func (s *Scheduler) Frozen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frozen > 0
}

// Kill stops admitting operations and lets the worker exit after any
// operation already admitted. It does not wait.
func (s *Scheduler) Kill() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.killed {
		return
	}
	s.killed = true
	close(s.quit)
	s.cond.Broadcast()
}

// Killed reports whether Kill has been called
func (s *Scheduler) Killed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.killed
}

// Done is closed when the worker has exited
func (s *Scheduler) Done() <-chan struct{} {
	return s.done
}
