package oqpi

import (
	"runtime"
	"sync"
	"sync/atomic"
)

var (
	defaultScheduler     atomic.Pointer[Scheduler]
	defaultSchedulerOnce sync.Once
)

// newDefaultScheduler builds the out-of-the-box scheduler: one worker per
// logical CPU, each accepting every task priority, the conventional pool
// size when the caller hasn't expressed an opinion.
func newDefaultScheduler() *Scheduler {
	s := NewScheduler()
	_ = s.RegisterWorker(WorkerConfig{
		ThreadAttributes: ThreadAttributes{Name: "oqpi-default"},
		PriorityMask:     WorkerPriorityAny,
		Count:            runtime.NumCPU(),
	})
	s.Start()
	return s
}

// Default returns the process-wide lazily-constructed Scheduler, built and
// started on first use, for callers that just want a scheduler without
// managing its lifecycle themselves.
func Default() *Scheduler {
	defaultSchedulerOnce.Do(func() {
		s := newDefaultScheduler()
		defaultScheduler.Store(s)
	})
	return defaultScheduler.Load()
}

// SetDefault replaces the process-wide default scheduler. Callers are
// responsible for stopping any previously-installed scheduler if it should
// not keep running; SetDefault does not stop it. Mirrors SetDefaultLogger.
func SetDefault(s *Scheduler) {
	defaultSchedulerOnce.Do(func() {})
	defaultScheduler.Store(s)
}
