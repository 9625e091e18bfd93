package oqsync

import "time"

// namedMutexBackend lets a platform-specific file (named_unix.go,
// named_windows.go) supply genuine OS-level exclusion underneath the
// channel-based local fast path, for named Mutex instances.
type namedMutexBackend interface {
	lock() error
	tryLock() bool
	unlock() error
}

// Mutex augments sync.Mutex's contract with naming and cross-process
// support. Unlike sync.Mutex, a Mutex without a platform backend reports
// double-unlock as an error rather than panicking or corrupting state (see
// Unlock for named mutexes with a backend).
//
// Named mutexes additionally provide genuine cross-process exclusion where
// a platform backend is available (see named_unix.go, named_windows.go);
// otherwise a named Mutex is process-local, shared by name, same as the
// other named primitives in this package.
type Mutex struct {
	ch    chan struct{}
	named namedMutexBackend
}

// NewMutex creates an unnamed (process-local) mutex if name is empty, or a
// named one according to mode. If lockOnCreate is true, the mutex is
// returned already held by the caller.
func NewMutex(name string, mode CreationMode, lockOnCreate bool) (*Mutex, error) {
	factory := func() *Mutex { return newMutex(lockOnCreate) }
	if name == "" {
		return factory(), nil
	}
	if backend, ok, err := newNamedMutex(name, mode, lockOnCreate); ok {
		if err != nil {
			return nil, err
		}
		return backend, nil
	}
	return lookupOrCreate[*Mutex]("mutex", name, mode, factory)
}

func newMutex(lockOnCreate bool) *Mutex {
	m := &Mutex{ch: make(chan struct{}, 1)}
	if !lockOnCreate {
		m.ch <- struct{}{}
	}
	return m
}

// Lock blocks until the mutex is acquired.
func (m *Mutex) Lock() {
	if m.named != nil {
		_ = m.named.lock()
		return
	}
	<-m.ch
}

// TryLock acquires the mutex without blocking, reporting success.
func (m *Mutex) TryLock() bool {
	if m.named != nil {
		return m.named.tryLock()
	}
	select {
	case <-m.ch:
		return true
	default:
		return false
	}
}

// TryLockFor blocks until the mutex is acquired or the duration elapses.
func (m *Mutex) TryLockFor(d time.Duration) bool {
	if d <= 0 {
		return m.TryLock()
	}
	if m.named != nil {
		// Named (cross-process) backends expose only try-once semantics;
		// poll at a coarse interval until the deadline, since flock has no
		// native timed-wait.
		deadline := time.Now().Add(d)
		for {
			if m.named.tryLock() {
				return true
			}
			if time.Now().After(deadline) {
				return false
			}
			time.Sleep(time.Millisecond)
		}
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-m.ch:
		return true
	case <-t.C:
		return false
	}
}

// Unlock releases the mutex. Without a platform backend it returns
// ErrDoubleUnlock if the mutex was not held, instead of the silent
// corruption a bare channel-as-mutex would produce. With a platform backend
// it returns the backend's own result and never ErrDoubleUnlock: on unix,
// flock accepts unlocking an unheld lock, so no error is reported.
func (m *Mutex) Unlock() error {
	if m.named != nil {
		return m.named.unlock()
	}
	select {
	case m.ch <- struct{}{}:
		return nil
	default:
		return ErrDoubleUnlock
	}
}
