//go:build unix

package oqsync

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// namedMutex backs Mutex for named instances on unix, providing genuine
// cross-process mutual exclusion via flock(2) on a lock file in the
// system temp directory, rather than only sharing state within this
// process.
type namedMutex struct {
	file *os.File
}

func namedLockPath(name string) string {
	return filepath.Join(os.TempDir(), "oqpi-mutex-"+name+".lock")
}

// newNamedMutex always handles the request on unix, returning (mutex,
// true, err) for every CreationMode; it never falls through to the
// process-local registry. OpenExisting requires the lock file to exist
// already, and CreateIfNonexistent requires that it does not.
func newNamedMutex(name string, mode CreationMode, lockOnCreate bool) (*Mutex, bool, error) {
	path := namedLockPath(name)

	flags := os.O_RDWR | os.O_CREATE
	switch mode {
	case CreateIfNonexistent:
		flags |= os.O_EXCL
	case OpenExisting:
		if _, err := os.Stat(path); err != nil {
			return nil, true, fmt.Errorf("oqsync: mutex %q: %w", name, ErrNotFound)
		}
	case OpenOrCreate:
		// flags already tolerate a pre-existing file
	}

	f, err := os.OpenFile(path, flags, 0o600)
	if err != nil {
		if os.IsExist(err) {
			return nil, true, fmt.Errorf("oqsync: mutex %q: %w", name, ErrAlreadyExists)
		}
		return nil, true, fmt.Errorf("oqsync: mutex %q: %w", name, err)
	}

	nm := &namedMutex{file: f}
	m := newMutex(false)
	m.named = nm
	if lockOnCreate {
		m.Lock()
	}
	return m, true, nil
}

func (nm *namedMutex) lock() error {
	return unix.Flock(int(nm.file.Fd()), unix.LOCK_EX)
}

func (nm *namedMutex) tryLock() bool {
	return unix.Flock(int(nm.file.Fd()), unix.LOCK_EX|unix.LOCK_NB) == nil
}

func (nm *namedMutex) unlock() error {
	return unix.Flock(int(nm.file.Fd()), unix.LOCK_UN)
}
