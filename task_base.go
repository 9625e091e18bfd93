package oqpi

import (
	"sync"
	"sync/atomic"
	"time"
)

// Handle is the common contract implemented by both leaf tasks
// ([NewTask], [NewFireAndForgetTask]) and groups ([ParallelGroup],
// [SequenceGroup]): a group is itself a task, with the same public
// operations, so the two nest uniformly. It is also a shared-ownership
// reference to a task or group: the scheduler holds one until completion,
// parents hold one to each child, and callers may hold one to wait or
// fetch a result. Go's garbage collector already provides that
// joint-ownership lifetime, so Handle needs no separate reference-counted
// wrapper type.
type Handle interface {
	// UID returns the task's process-wide unique identifier.
	UID() uint64
	// Name returns the task's human-readable name.
	Name() string
	// Priority returns the task's priority. A PriorityInherit task is
	// resolved when it is added to a group or submitted; until then this
	// returns PriorityInherit.
	Priority() Priority
	// Type reports whether the task is Waitable or FireAndForget.
	Type() TaskType
	// IsDone reports whether the task has finished executing.
	IsDone() bool
	// IsGrabbed reports whether some caller has already won the execution
	// race for this task.
	IsGrabbed() bool
	// TryGrab attempts to win the single-execution race via CAS, returning
	// whether this call won.
	TryGrab() bool
	// Wait blocks until the task is done. It is a programmer error to call
	// Wait on a fire-and-forget task.
	Wait() error
	// WaitFor blocks until done or the duration elapses, returning whether
	// the task was observed done within the window.
	WaitFor(d time.Duration) (bool, error)
	// ActiveWait grabs and executes the task on the caller's goroutine if
	// possible, otherwise blocks like Wait. Unsupported on groups, which
	// fall back to Wait.
	ActiveWait() error

	// Execute runs the task's payload. Precondition: the caller has
	// already won TryGrab (or this is the single-threaded/active-wait
	// path, which grabs internally before calling Execute).
	Execute()

	// executeSingleThreaded tries to grab the task and, if successful,
	// runs it inline, reporting whether it ran.
	executeSingleThreaded() bool

	// setParent assigns this task's parent group. Returns
	// ErrAlreadyParented if one is already set.
	setParent(p *groupBase) error

	// bindScheduler is called by Scheduler.Add before enqueueing. Leaf
	// tasks ignore it; groups record it so their Execute can submit
	// children to the same scheduler.
	bindScheduler(s *Scheduler)

	// resolveStandalonePriority finalizes a still-PriorityInherit priority
	// against whatever parent (if any) is currently set, falling back to
	// PriorityNormal.
	resolveStandalonePriority()

	// markQueued/markStarted timestamp the diagnostics fields consumed only
	// by the metrics subsystem; markStarted returns the elapsed queue-wait
	// duration.
	markQueued()
	markStarted() time.Duration
}

// taskBase implements the state machine and bookkeeping shared by leaf
// tasks and groups: uid/name/priority/type, the grabbed/done atomics, the
// notifier, the parent link, and hook-free helpers for Wait/WaitFor.
// It does not implement Execute or executeSingleThreaded; those are
// type-specific (a leaf runs its payload, a group dispatches children) and
// are supplied by the embedding type.
type taskBase struct {
	uid      uint64
	name     string
	priority Priority
	taskType TaskType
	notif    notifier

	grabbed atomic.Bool
	done    atomic.Bool

	parentMu sync.Mutex
	parent   *groupBase

	// queuedAt/startedAt are written only by scheduler/worker plumbing and
	// read only by the metrics subsystem; scheduling logic never consults
	// them.
	queuedAt  time.Time
	startedAt time.Time
}

func newTaskBase(name string, priority Priority, taskType TaskType) taskBase {
	var n notifier
	if taskType == FireAndForget {
		n = noopNotifier{}
	} else {
		n = newEventNotifier()
	}
	return taskBase{
		uid:      nextUID(),
		name:     name,
		priority: priority,
		taskType: taskType,
		notif:    n,
	}
}

func (b *taskBase) UID() uint64        { return b.uid }
func (b *taskBase) Name() string       { return b.name }
func (b *taskBase) Priority() Priority { return b.priority }
func (b *taskBase) Type() TaskType     { return b.taskType }
func (b *taskBase) IsDone() bool       { return b.done.Load() }
func (b *taskBase) IsGrabbed() bool    { return b.grabbed.Load() }

// TryGrab implements the single-execution guarantee: exactly one caller,
// across any number of concurrent callers, wins the compare-and-swap.
func (b *taskBase) TryGrab() bool {
	return b.grabbed.CompareAndSwap(false, true)
}

func (b *taskBase) Wait() error {
	return b.notif.wait()
}

func (b *taskBase) WaitFor(d time.Duration) (bool, error) {
	return b.notif.waitFor(d)
}

// setParent implements the rule that a task may never be added to more
// than one group. If the task's priority is PriorityInherit, it resolves
// against the new parent's (already-resolved) priority.
func (b *taskBase) setParent(p *groupBase) error {
	b.parentMu.Lock()
	defer b.parentMu.Unlock()
	if b.parent != nil {
		return ErrAlreadyParented
	}
	b.parent = p
	if b.priority == PriorityInherit {
		b.priority = resolvePriority(PriorityInherit, p)
	}
	return nil
}

// resolveStandalonePriority finishes the PriorityInherit resolution for a
// task that reaches submission without ever having been added to a group,
// falling back to PriorityNormal. It is a no-op once the priority has
// already been resolved.
func (b *taskBase) resolveStandalonePriority() {
	b.parentMu.Lock()
	defer b.parentMu.Unlock()
	if b.priority == PriorityInherit {
		b.priority = resolvePriority(PriorityInherit, b.parent)
	}
}

// bindScheduler is a no-op for leaf tasks; groupBase overrides it.
func (b *taskBase) bindScheduler(*Scheduler) {}

func (b *taskBase) markQueued() {
	b.queuedAt = time.Now()
}

func (b *taskBase) markStarted() time.Duration {
	b.startedAt = time.Now()
	return b.startedAt.Sub(b.queuedAt)
}

func (b *taskBase) getParent() *groupBase {
	b.parentMu.Lock()
	defer b.parentMu.Unlock()
	return b.parent
}

// finish transitions the task to done, notifies waiters, and notifies the
// parent group exactly once. self is the embedding Handle value, passed
// through to the parent's childDone so the parent sees the outward-facing
// handle, not taskBase.
func (b *taskBase) finish(self Handle) {
	b.done.Store(true)
	b.notif.notify()
	if parent := b.getParent(); parent != nil {
		parent.childDone(self)
	}
}
