package oqpi

import "fmt"

// Priority is the execution priority of a task.
type Priority int

const (
	PriorityHigh Priority = iota
	PriorityAboveNormal
	PriorityNormal
	PriorityBelowNormal
	PriorityLow
	// PriorityInherit resolves to the parent group's priority when the task
	// is added to a group, or PriorityNormal if it is submitted with no
	// parent (a
	// safe default rather than a rejection — see DESIGN.md).
	PriorityInherit

	priorityCount
)

// String implements fmt.Stringer.
func (p Priority) String() string {
	switch p {
	case PriorityHigh:
		return "high"
	case PriorityAboveNormal:
		return "above_normal"
	case PriorityNormal:
		return "normal"
	case PriorityBelowNormal:
		return "below_normal"
	case PriorityLow:
		return "low"
	case PriorityInherit:
		return "inherit"
	default:
		return fmt.Sprintf("priority(%d)", int(p))
	}
}

// WorkerPriorityMask is a bitset over Priority values, describing which
// task priorities a worker is willing to execute.
type WorkerPriorityMask uint32

// bit returns the mask bit for a single, resolved (non-Inherit) priority.
func (p Priority) bit() WorkerPriorityMask {
	return 1 << WorkerPriorityMask(p)
}

// Accepts reports whether the mask admits the given (already-resolved)
// priority.
func (m WorkerPriorityMask) Accepts(p Priority) bool {
	return m&p.bit() != 0
}

// Named mask combinations.
const (
	WorkerPriorityHigh        = WorkerPriorityMask(1) << WorkerPriorityMask(PriorityHigh)
	WorkerPriorityAboveNormal = WorkerPriorityMask(1) << WorkerPriorityMask(PriorityAboveNormal)
	WorkerPriorityNormal      = WorkerPriorityMask(1) << WorkerPriorityMask(PriorityNormal)
	WorkerPriorityBelowNormal = WorkerPriorityMask(1) << WorkerPriorityMask(PriorityBelowNormal)
	WorkerPriorityLow         = WorkerPriorityMask(1) << WorkerPriorityMask(PriorityLow)

	WorkerPriorityAny          = WorkerPriorityHigh | WorkerPriorityAboveNormal | WorkerPriorityNormal | WorkerPriorityBelowNormal | WorkerPriorityLow
	WorkerPriorityAnyNormal    = WorkerPriorityAboveNormal | WorkerPriorityNormal | WorkerPriorityBelowNormal
	WorkerPriorityNormalOrLow  = WorkerPriorityNormal | WorkerPriorityLow
	WorkerPriorityNormalOrHigh = WorkerPriorityNormal | WorkerPriorityHigh
)

// ThreadPriority is a hint passed to the OS scheduler for a worker's
// backing OS thread. It is advisory: see internal/affinity for platform
// support.
type ThreadPriority int

const (
	ThreadPriorityLowest ThreadPriority = iota
	ThreadPriorityBelowNormal
	ThreadPriorityNormal
	ThreadPriorityAboveNormal
	ThreadPriorityHighest
	ThreadPriorityTimeCritical

	threadPriorityCount
)

// TaskType distinguishes waitable tasks (which carry a completion signal)
// from fire-and-forget tasks (which never do).
type TaskType int

const (
	Waitable TaskType = iota
	FireAndForget
)

// resolvePriority implements PriorityInherit resolution: inherit from the
// parent if one is already set, else fall back to normal.
func resolvePriority(p Priority, parent *groupBase) Priority {
	if p != PriorityInherit {
		return p
	}
	if parent != nil {
		return parent.Priority()
	}
	return PriorityNormal
}
