package events

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/wordmaster/internal/model"
	"github.com/mcoot/wordmaster/internal/testutil"
)

type QueueSuite struct {
	suite.Suite
	queue *Queue
}

func TestQueueSuite(t *testing.T) {
	suite.Run(t, new(QueueSuite))
}

func (s *QueueSuite) SetupTest() {
	s.queue = NewQueue(testutil.NopLogger())
}

func (s *QueueSuite) TestRunsInPublicationOrder() {
	var mu sync.Mutex
	var got []int
	for i := range 100 {
		s.Require().NoError(s.queue.Publish(func() {
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
		}))
	}
	s.queue.Shutdown()
	<-s.queue.Done()

	s.Len(got, 100)
	for i, v := range got {
		s.Equal(i, v)
	}
}

func (s *QueueSuite) TestShutdownDrainsThenRejects() {
	gate := make(chan struct{})
	ran := make(chan int, 3)

	s.Require().NoError(s.queue.Publish(func() { <-gate; ran <- 1 }))
	s.Require().NoError(s.queue.Publish(func() { ran <- 2 }))
	s.queue.Shutdown()

	s.ErrorIs(s.queue.Publish(func() { ran <- 3 }), model.ErrQueueClosed)

	close(gate)
	<-s.queue.Done()
	close(ran)

	var order []int
	for v := range ran {
		order = append(order, v)
	}
	s.Equal([]int{1, 2}, order)
}

func (s *QueueSuite) TestCallbackMayPublishAndShutdown() {
	done := make(chan struct{})
	s.Require().NoError(s.queue.Publish(func() {
		s.NoError(s.queue.Publish(func() { close(done) }))
		s.queue.Shutdown()
	}))

	<-s.queue.Done()
	<-done
}

func (s *QueueSuite) TestPanickingCallbackDoesNotStopConsumer() {
	done := make(chan struct{})
	s.Require().NoError(s.queue.Publish(func() { panic("boom") }))
	s.Require().NoError(s.queue.Publish(func() { close(done) }))

	<-done
	s.queue.Shutdown()
	<-s.queue.Done()
}
