package oqpi

import "sync/atomic"

// SequenceGroup runs its children strictly in insertion order, each
// starting only after the previous one completes. It is NOT safe for
// concurrent AddTask; composition must finish before the group is
// scheduled.
type SequenceGroup struct {
	groupBase

	execChildren []Handle
	cursor       atomic.Int64
}

// NewSequenceGroup constructs an empty sequence group. reservedChildren
// pre-sizes the child slice.
func NewSequenceGroup(name string, priority Priority, reservedChildren int, opts ...GroupOption) *SequenceGroup {
	cfg := resolveGroupOptions(opts)
	g := &SequenceGroup{groupBase: newGroupBase(name, priority, cfg.hooks)}
	g.onChildDone = g.onChild
	g.reserve(reservedChildren)
	return g
}

// AddTask appends a child. Fails if the child already has a parent, or if
// the group has already started executing.
func (g *SequenceGroup) AddTask(child Handle) error {
	return g.addChild(g, child)
}

// Empty reports whether the group currently has no children.
func (g *SequenceGroup) Empty() bool { return g.empty() }

// ChildCount returns the number of children currently recorded.
func (g *SequenceGroup) ChildCount() int { return g.childCount() }

// Execute submits only the first child; each subsequent child is
// submitted from onChild once its predecessor completes. An empty
// sequence completes immediately.
func (g *SequenceGroup) Execute() {
	g.hooks.preExecute(g)
	g.seal()

	children := g.snapshotChildren()
	g.execChildren = children
	if len(children) == 0 {
		g.complete()
		return
	}
	g.cursor.Store(0)
	g.submitChild(children[0])
}

// onChild advances the cursor and submits the next child, or completes
// the group if the sequence is exhausted.
func (g *SequenceGroup) onChild(Handle) {
	if g.execChildren == nil {
		// Only executeSingleThreaded leaves execChildren unset; it runs the
		// children itself and completes the group once, after the last one.
		return
	}
	idx := g.cursor.Add(1)
	if int(idx) < len(g.execChildren) {
		g.submitChild(g.execChildren[idx])
		return
	}
	g.complete()
}

func (g *SequenceGroup) complete() {
	g.hooks.postExecute(g)
	g.finish(g)
}

// executeSingleThreaded runs every child inline, strictly in order.
func (g *SequenceGroup) executeSingleThreaded() bool {
	if !g.TryGrab() {
		return false
	}
	g.hooks.preExecute(g)
	g.seal()
	for _, c := range g.snapshotChildren() {
		c.executeSingleThreaded()
	}
	g.hooks.postExecute(g)
	g.finish(g)
	return true
}
