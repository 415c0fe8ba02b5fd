package scheduler

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/wordmaster/internal/model"
	"github.com/mcoot/wordmaster/internal/testutil"
)

type SchedulerSuite struct {
	suite.Suite
	sched *Scheduler
}

func TestSchedulerSuite(t *testing.T) {
	suite.Run(t, new(SchedulerSuite))
}

func (s *SchedulerSuite) SetupTest() {
	s.sched = New(testutil.NopLogger())
}

func (s *SchedulerSuite) TearDownTest() {
	s.sched.Kill()
	<-s.sched.Done()
}

func (s *SchedulerSuite) TestSecondSubmitIsRejected() {
	release := make(chan struct{})
	started := make(chan struct{})

	s.Require().NoError(s.sched.Submit(func() {
		close(started)
		<-release
	}))
	<-started

	s.ErrorIs(s.sched.Submit(func() {}), model.ErrOperationInProgress)
	s.True(s.sched.Busy())

	close(release)
	s.sched.WaitIdle()
	s.NoError(s.sched.Submit(func() {}))
}

func (s *SchedulerSuite) TestConcurrentSubmitsAdmitExactlyOne() {
	release := make(chan struct{})
	var accepted atomic.Int32
	var wg sync.WaitGroup

	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s.sched.Submit(func() { <-release }) == nil {
				accepted.Add(1)
			}
		}()
	}
	wg.Wait()
	close(release)
	s.sched.WaitIdle()

	s.Equal(int32(1), accepted.Load())
}

func (s *SchedulerSuite) TestFreezeHoldsApplyButNotAdmission() {
	var applied atomic.Int32
	s.sched.Freeze()

	s.Require().NoError(s.sched.Submit(func() {
		s.NoError(s.sched.BeginApply())
		applied.Add(1)
		s.sched.EndApply()
	}))

	time.Sleep(20 * time.Millisecond)
	s.Equal(int32(0), applied.Load())
	s.True(s.sched.Busy())

	s.sched.Unfreeze()
	s.sched.WaitIdle()
	s.Equal(int32(1), applied.Load())
}

func (s *SchedulerSuite) TestFreezeIsReentrant() {
	var applied atomic.Int32
	s.sched.Freeze()
	s.sched.Freeze()

	s.Require().NoError(s.sched.Submit(func() {
		s.NoError(s.sched.BeginApply())
		applied.Add(1)
		s.sched.EndApply()
	}))

	s.sched.Unfreeze()
	time.Sleep(20 * time.Millisecond)
	s.Equal(int32(0), applied.Load(), "one hold is still taken")

	s.sched.Unfreeze()
	s.sched.WaitIdle()
	s.Equal(int32(1), applied.Load())
	s.False(s.sched.Frozen())
}

func (s *SchedulerSuite) TestFreezeWaitsForRunningApply() {
	inApply := make(chan struct{})
	release := make(chan struct{})
	var finished atomic.Bool

	s.Require().NoError(s.sched.Submit(func() {
		s.NoError(s.sched.BeginApply())
		close(inApply)
		<-release
		finished.Store(true)
		s.sched.EndApply()
	}))
	<-inApply

	frozen := make(chan struct{})
	go func() {
		s.sched.Freeze()
		close(frozen)
	}()

	select {
	case <-frozen:
		s.Fail("freeze returned during apply")
	case <-time.After(20 * time.Millisecond):
	}

	close(release)
	<-frozen
	s.True(finished.Load())
	s.sched.Unfreeze()
}

func (s *SchedulerSuite) TestKillRejectsAndReleasesFrozenApply() {
	s.sched.Freeze()
	result := make(chan error, 1)
	s.Require().NoError(s.sched.Submit(func() {
		result <- s.sched.BeginApply()
	}))

	s.sched.Kill()
	s.ErrorIs(<-result, model.ErrTerminated)
	<-s.sched.Done()

	s.ErrorIs(s.sched.Submit(func() {}), model.ErrTerminated)
}
