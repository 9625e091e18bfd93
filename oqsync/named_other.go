//go:build !unix && !windows

package oqsync

// newNamedMutex has no platform backend on this GOOS; the caller falls
// through to the process-local named registry.
func newNamedMutex(name string, mode CreationMode, lockOnCreate bool) (*Mutex, bool, error) {
	return nil, false, nil
}
