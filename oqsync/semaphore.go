package oqsync

import "time"

// CountingSemaphore is a classic counting semaphore, used by oqpi workers
// for wake-up coordination: each worker owns one, posted to by the
// scheduler on dispatch.
type CountingSemaphore struct {
	ch chan struct{}
}

// NewCountingSemaphore creates an unnamed (process-local) semaphore if name
// is empty, or a named one shared within the process according to mode.
// init is the initial count; max bounds the count if positive (0 or less
// means a fixed bound of 1<<20 permits).
func NewCountingSemaphore(name string, mode CreationMode, init int, max int) (*CountingSemaphore, error) {
	factory := func() *CountingSemaphore { return newCountingSemaphore(init, max) }
	if name == "" {
		return factory(), nil
	}
	return lookupOrCreate[*CountingSemaphore]("sem", name, mode, factory)
}

func newCountingSemaphore(init, max int) *CountingSemaphore {
	capacity := max
	if capacity <= 0 {
		capacity = 1 << 20 // effectively unbounded for this scheduler's workloads
	}
	s := &CountingSemaphore{ch: make(chan struct{}, capacity)}
	for i := 0; i < init; i++ {
		s.ch <- struct{}{}
	}
	return s
}

// Notify increments the count by n, waking up to n blocked waiters.
// Sends beyond the configured max are dropped rather than blocking the
// poster, since the scheduler's producers must never block.
func (s *CountingSemaphore) Notify(n int) {
	for i := 0; i < n; i++ {
		select {
		case s.ch <- struct{}{}:
		default:
			return
		}
	}
}

// NotifyAll wakes every currently-blocked waiter by filling the semaphore
// to capacity. It is a best-effort convenience, not an atomic "release all
// pending permits" primitive.
func (s *CountingSemaphore) NotifyAll() {
	for {
		select {
		case s.ch <- struct{}{}:
		default:
			return
		}
	}
}

// Wait blocks until a permit is available, then consumes it.
func (s *CountingSemaphore) Wait() {
	<-s.ch
}

// TryWait consumes a permit without blocking, reporting success.
func (s *CountingSemaphore) TryWait() bool {
	select {
	case <-s.ch:
		return true
	default:
		return false
	}
}

// WaitFor blocks until a permit is available or the duration elapses.
func (s *CountingSemaphore) WaitFor(d time.Duration) bool {
	if d <= 0 {
		return s.TryWait()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-s.ch:
		return true
	case <-t.C:
		return false
	}
}

// waitChan implements Waitable; receiving from it is the Wait operation.
func (s *CountingSemaphore) waitChan() <-chan struct{} {
	return s.ch
}
