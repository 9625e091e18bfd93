package oqpi

import (
	"errors"
	"fmt"
)

// Programmer errors: violations of the calling contract that a correct
// caller never triggers. They are returned rather than panicking, so a
// host application can choose its own "loud failure" policy (log and
// abort, metrics-only, etc) at the boundary.
var (
	// ErrAlreadyParented is returned by AddTask when the child handle already
	// belongs to a group.
	ErrAlreadyParented = errors.New("oqpi: task already belongs to a group")

	// ErrWaitOnFireAndForget is returned by Wait/ActiveWait/GetResult on a
	// fire-and-forget task.
	ErrWaitOnFireAndForget = errors.New("oqpi: cannot wait on a fire-and-forget task")

	// ErrConcurrentSequenceAdd is returned when AddTask is called on a
	// group that has already started executing. A group's child list must
	// be fully composed before it is scheduled; a parallel group's
	// children snapshot, like a sequence group's, is taken once at
	// Execute and AddTask rejects anything after that point.
	ErrConcurrentSequenceAdd = errors.New("oqpi: cannot add to a group after it has been scheduled")

	// ErrResultNotReady is returned by GetResult before the task is done.
	ErrResultNotReady = errors.New("oqpi: result not ready")

	// ErrSchedulerRunning is returned by RegisterWorker after Start.
	ErrSchedulerRunning = errors.New("oqpi: scheduler already started")
)

// PanicError wraps a value recovered from a task payload panic. It is
// stored as the task's result in the "aborted" state (see Result) rather
// than propagated further: the task still transitions to done and
// notifies its waiters and parent. Unwrap lets callers use
// errors.Is/errors.As against the original panic value, if it was an error.
type PanicError struct {
	Value any
	Name  string
}

// Error implements error.
func (e *PanicError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("oqpi: task %q panicked: %v", e.Name, e.Value)
	}
	return fmt.Sprintf("oqpi: task panicked: %v", e.Value)
}

// Unwrap returns the underlying error if the panic value is an error,
// enabling errors.Is/errors.As through the cause chain.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
