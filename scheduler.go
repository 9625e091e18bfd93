package oqpi

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/oqpi-go/oqpi/internal/queue"
)

// WorkerConfig describes one or more identical workers to register with a
// Scheduler.
type WorkerConfig struct {
	ThreadAttributes ThreadAttributes
	PriorityMask     WorkerPriorityMask
	// Count requests this many identical workers, suffixed "-0", "-1", ...
	// onto ThreadAttributes.Name. Defaults to 1.
	Count int
}

// Scheduler owns a pool of workers and the shared MPMC queue they drain.
// The zero value is not usable; use NewScheduler.
type Scheduler struct {
	q *queue.Queue[Handle]

	mu       sync.Mutex // guards workers during registration, before Start
	workers  []*Worker
	nextCore int

	started atomic.Bool
	stopped atomic.Bool

	wg sync.WaitGroup

	log     Logger
	metrics *Metrics
}

// SchedulerOption configures a Scheduler at construction time.
type SchedulerOption func(*Scheduler)

// WithSchedulerLogger attaches a structured logger.
func WithSchedulerLogger(l Logger) SchedulerOption {
	return func(s *Scheduler) { s.log = l }
}

// WithMetrics enables the P²-backed metrics subsystem.
func WithMetrics() SchedulerOption {
	return func(s *Scheduler) { s.metrics = newMetrics() }
}

// NewScheduler constructs a Scheduler with no workers registered; call
// RegisterWorker before Start.
func NewScheduler(opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{q: queue.New[Handle](64)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Metrics returns the scheduler's metrics collector, or nil if
// WithMetrics was not supplied.
func (s *Scheduler) Metrics() *Metrics {
	return s.metrics
}

// RegisterWorker constructs and records cfg.Count (default 1) workers.
// Must be called before Start.
func (s *Scheduler) RegisterWorker(cfg WorkerConfig) error {
	if s.started.Load() {
		return ErrSchedulerRunning
	}
	count := cfg.Count
	if count <= 0 {
		count = 1
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	baseName := cfg.ThreadAttributes.Name
	for i := 0; i < count; i++ {
		wc := cfg
		if count > 1 {
			wc.ThreadAttributes.Name = fmt.Sprintf("%s-%d", baseName, i)
		}
		id := len(s.workers)
		s.workers = append(s.workers, newWorker(id, wc, s))
	}
	return nil
}

// Start transitions the scheduler to running and starts every registered
// worker's goroutine.
func (s *Scheduler) Start() {
	if !s.started.CompareAndSwap(false, true) {
		return
	}
	s.mu.Lock()
	workers := append([]*Worker(nil), s.workers...)
	s.mu.Unlock()
	s.wg.Add(len(workers))
	for _, w := range workers {
		go w.run(&s.wg)
	}
}

// Stop signals every worker to exit after its current task, waits for all
// worker goroutines to return, and marks the scheduler stopped. Handles
// still in the queue are dropped without execution; callers must not wait
// on tasks submitted after Stop returns.
func (s *Scheduler) Stop() {
	if !s.stopped.CompareAndSwap(false, true) {
		return
	}
	s.mu.Lock()
	workers := append([]*Worker(nil), s.workers...)
	s.mu.Unlock()
	for _, w := range workers {
		w.requestStop()
	}
	for _, w := range workers {
		w.signal()
	}
	s.wg.Wait()
}

// Add pushes h to the shared queue and wakes a capable worker, returning h
// for chaining. Groups use it internally to submit children to the
// scheduler they were themselves submitted to.
func (s *Scheduler) Add(h Handle) Handle {
	if s.stopped.Load() {
		return h
	}
	h.resolveStandalonePriority()
	h.bindScheduler(s)
	h.markQueued()
	s.q.Push(h)
	if s.metrics != nil {
		s.metrics.observeEnqueue()
	}
	s.wakeFor(h.Priority())
	return h
}

// wakeFor posts to a worker capable of running p, or, if none is
// registered, to any worker.
func (s *Scheduler) wakeFor(p Priority) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, w := range s.workers {
		if w.Accepts(p) {
			w.signal()
			return
		}
	}
	if len(s.workers) > 0 {
		s.workers[0].signal()
	}
}

// wakeAny posts to an arbitrary worker, used by a worker that just
// re-enqueued a task it could not run itself: a best-effort peer wake on
// priority mismatch.
func (s *Scheduler) wakeAny() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.workers) == 0 {
		return
	}
	s.nextCore = (s.nextCore + 1) % len(s.workers)
	s.workers[s.nextCore].signal()
}

// WorkersCount returns the number of registered workers whose mask admits
// p.
func (s *Scheduler) WorkersCount(p Priority) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, w := range s.workers {
		if w.Accepts(p) {
			n++
		}
	}
	return n
}

// Schedule submits a *Task[T] to s and returns it unchanged, so the typed
// handle stays available for GetResult/WaitForResult; it exists because
// Go's Handle interface cannot carry T generically.
func Schedule[T any](s *Scheduler, t *Task[T]) *Task[T] {
	s.Add(t)
	return t
}
