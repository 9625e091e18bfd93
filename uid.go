package oqpi

import "sync/atomic"

// uidCounter is the process-wide monotonic task/group identifier source.
var uidCounter atomic.Uint64

// nextUID returns the next process-wide unique identifier. 0 is never
// issued, so it can be used by callers as an "unset" sentinel.
func nextUID() uint64 {
	return uidCounter.Add(1)
}
