package oqsync

import (
	"sync"
	"time"
)

// ManualResetEvent stays signaled from Notify until Reset, so late waiters
// still observe completion — the semantics oqpi relies on for task
// completion notification.
type ManualResetEvent struct {
	mu     sync.Mutex
	ch     chan struct{}
	signal bool
}

// NewManualResetEvent creates an unnamed (process-local) event if name is
// empty, or a named one shared within the process according to mode.
func NewManualResetEvent(name string, mode CreationMode) (*ManualResetEvent, error) {
	if name == "" {
		return newManualResetEvent(), nil
	}
	return lookupOrCreate[*ManualResetEvent]("mre", name, mode, newManualResetEvent)
}

func newManualResetEvent() *ManualResetEvent {
	return &ManualResetEvent{ch: make(chan struct{})}
}

// Notify unblocks all current and future waiters until Reset is called.
func (e *ManualResetEvent) Notify() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.signal {
		e.signal = true
		close(e.ch)
	}
}

// Reset returns the event to the unsignaled state.
func (e *ManualResetEvent) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.signal {
		e.signal = false
		e.ch = make(chan struct{})
	}
}

// Wait blocks until Notify has been called (and not since Reset).
func (e *ManualResetEvent) Wait() {
	<-e.currentChan()
}

// WaitFor blocks until signaled or the duration elapses, returning true iff
// the event was observed signaled within the window.
func (e *ManualResetEvent) WaitFor(d time.Duration) bool {
	if d <= 0 {
		return e.tryWait()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-e.currentChan():
		return true
	case <-t.C:
		return false
	}
}

func (e *ManualResetEvent) tryWait() bool {
	select {
	case <-e.currentChan():
		return true
	default:
		return false
	}
}

func (e *ManualResetEvent) currentChan() <-chan struct{} {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ch
}

// waitChan implements Waitable. Racing this against a concurrent Reset is
// inherently racy, same as Wait would be; callers that need WaitFor
// semantics around a reset window should synchronize externally.
func (e *ManualResetEvent) waitChan() <-chan struct{} {
	return e.currentChan()
}

// AutoResetEvent unblocks exactly one waiter per Notify, then returns to
// unsignaled automatically.
type AutoResetEvent struct {
	ch chan struct{}
}

// NewAutoResetEvent creates an unnamed (process-local) event if name is
// empty, or a named one shared within the process according to mode.
func NewAutoResetEvent(name string, mode CreationMode) (*AutoResetEvent, error) {
	if name == "" {
		return newAutoResetEvent(), nil
	}
	return lookupOrCreate[*AutoResetEvent]("are", name, mode, newAutoResetEvent)
}

func newAutoResetEvent() *AutoResetEvent {
	return &AutoResetEvent{ch: make(chan struct{}, 1)}
}

// Notify wakes exactly one waiter. If no goroutine is currently waiting,
// the next call to Wait/WaitFor returns immediately instead (the event
// holds at most one pending signal).
func (e *AutoResetEvent) Notify() {
	select {
	case e.ch <- struct{}{}:
	default:
	}
}

// Wait blocks until Notify is observed.
func (e *AutoResetEvent) Wait() {
	<-e.ch
}

// WaitFor blocks until Notify is observed or the duration elapses.
func (e *AutoResetEvent) WaitFor(d time.Duration) bool {
	if d <= 0 {
		select {
		case <-e.ch:
			return true
		default:
			return false
		}
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-e.ch:
		return true
	case <-t.C:
		return false
	}
}

// waitChan implements Waitable. Receiving from it is the consuming Wait
// operation itself.
func (e *AutoResetEvent) waitChan() <-chan struct{} {
	return e.ch
}
