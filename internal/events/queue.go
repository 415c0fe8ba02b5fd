// Package events delivers callbacks in publication order on one goroutine.
package events

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/mcoot/wordmaster/internal/model"
)

// Queue is an unbounded FIFO of callbacks with a single consumer
type Queue struct {
	logger *slog.Logger

	mu     sync.Mutex
	cond   *sync.Cond
	tasks  []func()
	closed bool

	done chan struct{}
}

// NewQueue creates a queue and starts its consumer
func NewQueue(logger *slog.Logger) *Queue {
	q := &Queue{
		logger: logger.With(slog.String("component", "events")),
		done:   make(chan struct{}),
	}
	q.cond = sync.NewCond(&q.mu)
	go q.run()
	return q
}

func (q *Queue) run() {
	defer close(q.done)
	for {
		q.mu.Lock()
		for len(q.tasks) == 0 && !q.closed {
			q.cond.Wait()
		}
		if len(q.tasks) == 0 {
			q.mu.Unlock()
			return
		}
		task := q.tasks[0]
		q.tasks[0] = nil
		q.tasks = q.tasks[1:]
		q.mu.Unlock()

		q.call(task)
	}
}

func (q *Queue) call(task func()) {
	defer func() {
		if r := recover(); r != nil {
			q.logger.Error("event callback panicked", slog.String("panic", fmt.Sprint(r)))
		}
	}()
	task()
}

// Publish appends task to the queue. It fails once Shutdown has been called.
func (q *Queue) Publish(task func()) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return model.ErrQueueClosed
	}
	q.tasks = append(q.tasks, task)
	q.cond.Signal()
	return nil
}

// Shutdown stops accepting tasks. Tasks already queued still run. It does not
// wait, so it is safe to call from inside a callback.
func (q *Queue) Shutdown() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.cond.Broadcast()
}

// Done is closed once the consumer has drained the queue after Shutdown
func (q *Queue) Done() <-chan struct{} {
	return q.done
}

// Len returns the number of tasks waiting to run
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}
