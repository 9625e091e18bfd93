//go:build windows

package oqsync

import (
	"fmt"

	"golang.org/x/sys/windows"
)

// namedMutex backs Mutex for named instances on Windows using a native
// named kernel mutex object, giving genuine cross-process exclusion the
// same way named_unix.go does via flock.
type namedMutex struct {
	handle windows.Handle
}

func newNamedMutex(name string, mode CreationMode, lockOnCreate bool) (*Mutex, bool, error) {
	namePtr, err := windows.UTF16PtrFromString(`Local\oqpi-mutex-` + name)
	if err != nil {
		return nil, true, fmt.Errorf("oqsync: mutex %q: %w", name, err)
	}

	var handle windows.Handle
	switch mode {
	case OpenExisting:
		handle, err = windows.OpenMutex(windows.MUTEX_ALL_ACCESS, false, namePtr)
		if err != nil {
			return nil, true, fmt.Errorf("oqsync: mutex %q: %w", name, ErrNotFound)
		}
	case CreateIfNonexistent:
		// CreateMutex reports ERROR_ALREADY_EXISTS as its error even when it
		// returns a valid handle to the existing object.
		handle, err = windows.CreateMutex(nil, false, namePtr)
		if err == windows.ERROR_ALREADY_EXISTS {
			_ = windows.CloseHandle(handle)
			return nil, true, fmt.Errorf("oqsync: mutex %q: %w", name, ErrAlreadyExists)
		}
		if err != nil {
			return nil, true, fmt.Errorf("oqsync: mutex %q: %w", name, err)
		}
	case OpenOrCreate:
		handle, err = windows.CreateMutex(nil, false, namePtr)
		if err != nil && err != windows.ERROR_ALREADY_EXISTS {
			return nil, true, fmt.Errorf("oqsync: mutex %q: %w", name, err)
		}
	}

	nm := &namedMutex{handle: handle}
	m := newMutex(false)
	m.named = nm
	if lockOnCreate {
		m.Lock()
	}
	return m, true, nil
}

func (nm *namedMutex) lock() error {
	_, err := windows.WaitForSingleObject(nm.handle, windows.INFINITE)
	return err
}

func (nm *namedMutex) tryLock() bool {
	ev, err := windows.WaitForSingleObject(nm.handle, 0)
	return err == nil && ev == windows.WAIT_OBJECT_0
}

func (nm *namedMutex) unlock() error {
	return windows.ReleaseMutex(nm.handle)
}
