// Package affinity applies best-effort core-affinity and OS thread
// priority hints to the calling OS thread, on behalf of oqpi workers. It
// is the narrow capability contract through which the scheduling core
// touches the underlying thread API.
//
// Callers must invoke runtime.LockOSThread before calling SetAffinity or
// SetPriority, since both operate on the current OS thread, not the
// calling goroutine.
package affinity

import "errors"

// ErrUnsupported is returned on platforms or configurations where the hint
// cannot be applied. It is an environmental error: the worker keeps
// running without the hint.
var ErrUnsupported = errors.New("affinity: unsupported on this platform")

// AllCores is the fully-set affinity mask.
const AllCores uint64 = ^uint64(0)
