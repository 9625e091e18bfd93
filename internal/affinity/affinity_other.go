//go:build !linux && !windows

package affinity

// SetAffinity is unsupported outside Linux and Windows (notably Darwin,
// which does not expose thread affinity to user code); the worker keeps
// running without the hint.
func SetAffinity(mask uint64) error {
	return ErrUnsupported
}

// SetPriority is unsupported outside Linux and Windows.
func SetPriority(level int) error {
	return ErrUnsupported
}
