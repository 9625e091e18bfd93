package oqpi

import "sync/atomic"

// ParallelGroup runs its children concurrently, completing when the last
// one finishes. An optional maxSimultaneous bounds how many children are
// in flight at once within this group; the bound is local to the group
// and does not apply transitively to any nested groups among its
// children.
type ParallelGroup struct {
	groupBase

	maxSimultaneous int
	execChildren    []Handle // snapshot taken at Execute; read-only afterward
	nextIdx         atomic.Int64
	remaining       atomic.Int64
}

// NewParallelGroup constructs an empty parallel group. reservedChildren
// pre-sizes the child slice; maxSimultaneous <= 0 means unbounded (all
// children submitted at once).
func NewParallelGroup(name string, priority Priority, reservedChildren, maxSimultaneous int, opts ...GroupOption) *ParallelGroup {
	cfg := resolveGroupOptions(opts)
	g := &ParallelGroup{
		groupBase:       newGroupBase(name, priority, cfg.hooks),
		maxSimultaneous: maxSimultaneous,
	}
	g.onChildDone = g.onChild
	g.reserve(reservedChildren)
	return g
}

// AddTask appends a child. Fails if the child already has a parent.
func (g *ParallelGroup) AddTask(child Handle) error {
	return g.addChild(g, child)
}

// Empty reports whether the group currently has no children.
func (g *ParallelGroup) Empty() bool { return g.empty() }

// ChildCount returns the number of children currently recorded.
func (g *ParallelGroup) ChildCount() int { return g.childCount() }

// MaxSimultaneous returns the configured bound, or 0 for unbounded.
func (g *ParallelGroup) MaxSimultaneous() int { return g.maxSimultaneous }

// Execute dispatches children to the bound scheduler, respecting
// maxSimultaneous, and completes immediately if the group is empty.
func (g *ParallelGroup) Execute() {
	g.hooks.preExecute(g)
	g.seal()

	children := g.snapshotChildren()
	g.execChildren = children
	g.remaining.Store(int64(len(children)))

	if len(children) == 0 {
		g.complete()
		return
	}

	limit := g.maxSimultaneous
	if limit <= 0 || limit > len(children) {
		limit = len(children)
	}
	g.nextIdx.Store(int64(limit))
	for _, c := range children[:limit] {
		g.submitChild(c)
	}
}

// onChild decrements remaining, submits the next pending child if
// bounded, and completes the group on the last one.
func (g *ParallelGroup) onChild(Handle) {
	remaining := g.remaining.Add(-1)
	if g.maxSimultaneous > 0 {
		idx := g.nextIdx.Add(1) - 1
		if int(idx) < len(g.execChildren) {
			g.submitChild(g.execChildren[idx])
		}
	}
	if remaining == 0 {
		g.complete()
	}
}

func (g *ParallelGroup) complete() {
	g.hooks.postExecute(g)
	g.finish(g)
}

// executeSingleThreaded runs every child inline, in insertion order,
// after grabbing the group itself.
func (g *ParallelGroup) executeSingleThreaded() bool {
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
