package oqpi

import (
	"sync"
)

// groupBase is the common parent-of-children protocol shared by
// ParallelGroup and SequenceGroup. A task group is itself a task:
// groupBase embeds taskBase and the concrete group types (ParallelGroup,
// SequenceGroup) embed groupBase, so both satisfy Handle via promotion,
// with Execute/executeSingleThreaded supplied by the concrete type.
type groupBase struct {
	taskBase

	hooks GroupHooks

	mu       sync.Mutex
	children []Handle
	sealed   bool // true once execute() has run; AddTask rejects further calls
	sched    *Scheduler

	// onChildDone is set by the concrete group constructor (ParallelGroup
	// or SequenceGroup) to a method value closing over the concrete
	// receiver, since taskBase.parent is typed *groupBase and Go has no
	// virtual dispatch to recover the concrete type at that call site.
	onChildDone func(child Handle)
}

// groupOptions holds configuration resolved from GroupOption values.
type groupOptions struct {
	hooks GroupHooks
}

// GroupOption configures a group at construction time.
type GroupOption interface {
	applyGroup(*groupOptions)
}

type groupOptionFunc func(*groupOptions)

func (f groupOptionFunc) applyGroup(o *groupOptions) { f(o) }

// WithGroupHooks attaches a GroupHooks bundle, composed once at
// construction.
func WithGroupHooks(hooks GroupHooks) GroupOption {
	return groupOptionFunc(func(o *groupOptions) { o.hooks = hooks })
}

func resolveGroupOptions(opts []GroupOption) groupOptions {
	var cfg groupOptions
	for _, opt := range opts {
		if opt != nil {
			opt.applyGroup(&cfg)
		}
	}
	return cfg
}

// bindScheduler overrides taskBase's no-op so the group can submit its own
// children to the scheduler it was itself submitted to.
func (g *groupBase) bindScheduler(s *Scheduler) {
	g.mu.Lock()
	g.sched = s
	g.mu.Unlock()
}

// submitChild pushes a child handle to the bound scheduler. Precondition:
// bindScheduler has already been called (true once the group itself has
// been scheduled, which must happen before Execute runs).
func (g *groupBase) submitChild(child Handle) {
	g.mu.Lock()
	s := g.sched
	g.mu.Unlock()
	s.Add(child)
}

func newGroupBase(name string, priority Priority, hooks GroupHooks) groupBase {
	return groupBase{
		taskBase: newTaskBase(name, priority, Waitable),
		hooks:    hooks,
	}
}

// addChild appends child to the group's ordered list, setting its parent
// link. self is the outward Handle of the embedding group, passed through
// to OnTaskAdded.
func (g *groupBase) addChild(self, child Handle) error {
	g.mu.Lock()
	if g.sealed {
		g.mu.Unlock()
		return ErrConcurrentSequenceAdd
	}
	// Holding g.mu across setParent keeps the sealed check and the parent
	// link atomic; a rejected add must not leave the child parented. Lock
	// order is group then child, and nothing acquires them in reverse.
	if err := child.setParent(g); err != nil {
		g.mu.Unlock()
		return err
	}
	g.children = append(g.children, child)
	g.mu.Unlock()
	g.hooks.taskAdded(self, child)
	return nil
}

// childCount returns the number of children currently recorded.
func (g *groupBase) childCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.children)
}

// empty reports whether the group has no children.
func (g *groupBase) empty() bool {
	return g.childCount() == 0
}

// snapshotChildren returns the current children slice. Safe to call only
// after composition is known to be complete (execute/executeSingleThreaded
// time); AddTask is not required to be safe concurrently with execution.
func (g *groupBase) snapshotChildren() []Handle {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]Handle(nil), g.children...)
}

// seal marks composition complete; further AddTask calls fail. Called once
// by the concrete group's Execute, before dispatching children.
func (g *groupBase) seal() {
	g.mu.Lock()
	g.sealed = true
	g.mu.Unlock()
}

// childDone is what taskBase.finish calls on a child's parent, exactly
// once per child. It delegates to the concrete group's own handling,
// since groupBase itself has no opinion on parallel-vs-sequence
// semantics.
func (g *groupBase) childDone(child Handle) {
	if g.onChildDone != nil {
		g.onChildDone(child)
	}
}

// reserve pre-sizes the children slice, for callers that know the
// expected child count up front.
func (g *groupBase) reserve(n int) {
	if n <= 0 {
		return
	}
	g.mu.Lock()
	g.children = make([]Handle, 0, n)
	g.mu.Unlock()
}

// ActiveWait on a group falls back to Wait: active-wait is unsupported
// for groups, which cooperatively execute a single child rather than the
// whole group, so there is nothing useful for the caller to run inline.
func (g *groupBase) ActiveWait() error {
	return g.Wait()
}
