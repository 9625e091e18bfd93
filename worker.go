package oqpi

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oqpi-go/oqpi/internal/affinity"
	"github.com/oqpi-go/oqpi/oqsync"
)

// AffinityStrategy selects how a worker's backing OS thread is bound to
// logical cores.
type AffinityStrategy int

const (
	// AffinityNone applies no affinity hint; the OS scheduler places the
	// thread freely.
	AffinityNone AffinityStrategy = iota
	// AffinityFixedMask pins the thread to ThreadAttributes.CoreAffinityMask.
	AffinityFixedMask
	// AffinityRoundRobinCore pins the Nth registered worker to logical core
	// N mod runtime.NumCPU(), ignoring CoreAffinityMask.
	AffinityRoundRobinCore
)

// ThreadAttributes describes a worker's backing OS thread.
type ThreadAttributes struct {
	Name string
	// StackSizeBytes is carried for interface parity with callers migrating
	// fixed-stack worker configs; Go goroutine stacks grow on demand and
	// this field is not consulted (see DESIGN.md).
	StackSizeBytes   int
	CoreAffinityMask uint64
	ThreadPriority   ThreadPriority
	AffinityStrategy AffinityStrategy
}

// rejectBackoffThreshold is the count of consecutive priority-mismatch
// rejections at which a worker starts sleeping briefly after each
// rejection instead of immediately re-contending for wake-ups.
const rejectBackoffThreshold = 4

type workerState int32

const (
	workerIdle workerState = iota
	workerPicking
	workerExecuting
	workerStopping
)

// Worker owns exactly one OS thread (via runtime.LockOSThread) and loops
// on the scheduler's shared queue for work it is permitted to run.
type Worker struct {
	id    int
	attrs ThreadAttributes
	mask  WorkerPriorityMask
	sched *Scheduler

	wakeup *oqsync.CountingSemaphore
	stop   atomic.Bool
	state  atomic.Int32

	mu      sync.Mutex
	current Handle

	rejectStreak int
}

func newWorker(id int, cfg WorkerConfig, s *Scheduler) *Worker {
	wakeup, _ := oqsync.NewCountingSemaphore("", oqsync.CreateIfNonexistent, 0, 0)
	return &Worker{
		id:     id,
		attrs:  cfg.ThreadAttributes,
		mask:   cfg.PriorityMask,
		sched:  s,
		wakeup: wakeup,
	}
}

// Accepts reports whether this worker's mask admits the given priority.
func (w *Worker) Accepts(p Priority) bool {
	return w.mask.Accepts(p)
}

// signal posts the worker's wake-up semaphore once.
func (w *Worker) signal() {
	w.wakeup.Notify(1)
}

// run is the worker's goroutine body.
func (w *Worker) run(wg *sync.WaitGroup) {
	defer wg.Done()

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	w.applyThreadHints()

	for {
		w.state.Store(int32(workerIdle))
		w.wakeup.Wait()
		if w.stop.Load() {
			return
		}
		w.drainUntilEmptyOrMismatch()
	}
}

func (w *Worker) drainUntilEmptyOrMismatch() {
	for {
		if w.stop.Load() {
			return
		}
		w.state.Store(int32(workerPicking))
		h, ok := w.sched.q.TryPop()
		if !ok {
			return
		}
		if !w.Accepts(h.Priority()) {
			w.sched.q.Push(h)
			w.sched.logger().Debug().
				Int(`worker`, w.id).
				Str(`task_priority`, h.Priority().String()).
				Log(`priority mismatch, re-enqueueing`)
			w.sched.wakeAny()
			w.rejectStreak++
			if m := w.sched.metrics; m != nil {
				m.observeRejected()
			}
			if w.rejectStreak >= rejectBackoffThreshold {
				// Repeated rejections mean this worker keeps winning wake-ups
				// for work it cannot run; back off briefly so a capable peer
				// gets to the queue first.
				time.Sleep(time.Millisecond)
			}
			return
		}
		w.rejectStreak = 0
		if h.TryGrab() {
			w.executeOne(h)
		}
		// A lost grab means an active-waiter already claimed the task
		// concurrently; it will run and notify, so this worker just moves on.
	}
}

func (w *Worker) executeOne(h Handle) {
	w.mu.Lock()
	w.current = h
	w.mu.Unlock()

	waitDur := h.markStarted()
	w.state.Store(int32(workerExecuting))
	start := time.Now()
	h.Execute()
	execDur := time.Since(start)

	w.mu.Lock()
	w.current = nil
	w.mu.Unlock()

	if m := w.sched.metrics; m != nil {
		m.observeExecuted(h.Priority(), waitDur, execDur)
	}
}

func (w *Worker) applyThreadHints() {
	switch w.attrs.AffinityStrategy {
	case AffinityFixedMask:
		if err := affinity.SetAffinity(w.attrs.CoreAffinityMask); err != nil {
			w.sched.logger().Debug().Int(`worker`, w.id).Err(err).Log(`affinity hint not applied`)
		}
	case AffinityRoundRobinCore:
		cores := runtime.NumCPU()
		if cores > 0 {
			core := w.id % cores
			if err := affinity.SetAffinity(uint64(1) << uint(core)); err != nil {
				w.sched.logger().Debug().Int(`worker`, w.id).Err(err).Log(`affinity hint not applied`)
			}
		}
	}
	if err := affinity.SetPriority(int(w.attrs.ThreadPriority)); err != nil {
		w.sched.logger().Debug().Int(`worker`, w.id).Err(err).Log(`priority hint not applied`)
	}
}

func (w *Worker) requestStop() {
	w.stop.Store(true)
	w.state.Store(int32(workerStopping))
}
