package trainer

import (
	"sync"
	"sync/atomic"
)

// Scheduler bounds the number of simultaneously running playback workers.
//
// Admission is a counting semaphore: Submit blocks the caller at capacity
// instead of queueing the job, so excess submissions wait at the call site.
// Completion is tracked with a WaitGroup plus a pollable counter.
type Scheduler struct {
	sem     chan struct{}
	wg      sync.WaitGroup
	pending atomic.Int64
}

// NewScheduler creates a scheduler admitting at most maxConcurrent workers
// at a time. Values below 1 are clamped to 1.
func NewScheduler(maxConcurrent int) *Scheduler {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Scheduler{sem: make(chan struct{}, maxConcurrent)}
}

// Submit blocks until a slot is free, then starts run on its own goroutine
// and returns. The slot is released on every exit path of the worker,
// including a panic inside run.
func (s *Scheduler) Submit(run func()) {
	s.sem <- struct{}{}
	s.pending.Add(1)
	s.wg.Add(1)

	go func() {
		defer func() {
			<-s.sem
			s.pending.Add(-1)
			s.wg.Done()
		}()
		run()
	}()
}

// Active returns the number of currently admitted workers.
func (s *Scheduler) Active() int {
	return len(s.sem)
}

// AllFinished reports whether every submitted worker has completed. It never
// blocks, so it is suitable for polling.
func (s *Scheduler) AllFinished() bool {
	return s.pending.Load() == 0
}

// Wait blocks until every submitted worker has completed.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}
