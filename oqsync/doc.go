// Package oqsync defines the synchronization primitives that the oqpi
// scheduling core depends on: manual/auto-reset events, counting
// semaphores, and mutexes, each either process-local (unnamed) or
// shared-by-name within the process (named — a process-local stand-in for
// genuine cross-process coordination, upgraded to real cross-process
// mutual exclusion for Mutex on platforms where that's cheap to provide;
// see named_unix.go).
//
// None of these types are required to be used directly by clients of the
// scheduling core; they exist because the core's completion signaling and
// worker wake-up are specified purely in terms of this contract, and a
// conforming alternative implementation could be swapped in without
// touching scheduling logic.
package oqsync
