package oqpi

import (
	"context"
	"fmt"

	"github.com/oqpi-go/oqpi/partition"
)

// ParallelForFunc is the per-element callback shape that receives only
// the element index.
type ParallelForFunc func(elementIndex int)

// ParallelForBatchFunc is the per-element callback shape that also
// receives the originating batch task's index. Go has no overloading on
// callable arity, so this and ParallelForFunc are two distinct
// constructors rather than one callback type dispatched by reflection
// (see DESIGN.md).
type ParallelForBatchFunc func(batchIndex, elementIndex int)

// NewParallelFor composes a ParallelGroup of batchTaskCount fire-and-
// forget tasks, each draining p via GetNextValidRange and calling fn once
// per visited element. Returns nil if p is not valid.
func NewParallelFor(name string, priority Priority, p partition.Partitioner, batchTaskCount int, fn ParallelForFunc) *ParallelGroup {
	return newParallelForGroup(name, priority, p, batchTaskCount, func(int) func(context.Context) error {
		return func(context.Context) error {
			drainPartition(p, func(i int) { fn(i) })
			return nil
		}
	})
}

// NewParallelForBatch is NewParallelFor's batch-index-aware counterpart.
func NewParallelForBatch(name string, priority Priority, p partition.Partitioner, batchTaskCount int, fn ParallelForBatchFunc) *ParallelGroup {
	return newParallelForGroup(name, priority, p, batchTaskCount, func(b int) func(context.Context) error {
		return func(context.Context) error {
			drainPartition(p, func(i int) { fn(b, i) })
			return nil
		}
	})
}

func drainPartition(p partition.Partitioner, visit func(i int)) {
	for {
		r, ok := p.GetNextValidRange()
		if !ok {
			return
		}
		for i := r.First; i < r.Last; i++ {
			visit(i)
		}
	}
}

func newParallelForGroup(name string, priority Priority, p partition.Partitioner, batchTaskCount int, bodyFor func(b int) func(context.Context) error) *ParallelGroup {
	if !p.IsValid() {
		return nil
	}
	if batchTaskCount < 1 {
		batchTaskCount = 1
	}
	g := NewParallelGroup(name, priority, batchTaskCount, 0)
	for b := 0; b < batchTaskCount; b++ {
		t := NewFireAndForgetTask(fmt.Sprintf("%s[%d]", name, b), priority, bodyFor(b))
		// AddTask cannot fail here: t is freshly constructed with no parent.
		_ = g.AddTask(t)
	}
	return g
}

// ParallelFor is a convenience entry point: it builds a Simple
// partitioner sized to the scheduler's worker count at priority, schedules
// a parallel group of per-batch tasks, and blocks the caller via
// ActiveWait. Since groups fall back to Wait for ActiveWait, this blocks
// without the caller executing a batch itself.
func ParallelFor(s *Scheduler, name string, first, last int, priority Priority, fn ParallelForFunc) error {
	workers := s.WorkersCount(priority)
	if workers < 1 {
		workers = 1
	}
	p := partition.NewSimple(first, last, workers)
	g := NewParallelFor(name, priority, p, workers, fn)
	if g == nil {
		return nil
	}
	s.Add(g)
	return g.ActiveWait()
}

// ParallelForBatch is ParallelFor's batch-index-aware counterpart.
func ParallelForBatch(s *Scheduler, name string, first, last int, priority Priority, fn ParallelForBatchFunc) error {
	workers := s.WorkersCount(priority)
	if workers < 1 {
		workers = 1
	}
	p := partition.NewSimple(first, last, workers)
	g := NewParallelForBatch(name, priority, p, workers, fn)
	if g == nil {
		return nil
	}
	s.Add(g)
	return g.ActiveWait()
}

// ParallelForEach is sugar over ParallelFor, indexing a container of the
// given size; fn receives the element index to index into the caller's
// container.
func ParallelForEach(s *Scheduler, name string, size int, priority Priority, fn ParallelForFunc) error {
	return ParallelFor(s, name, 0, size, priority, fn)
}

// ParallelForSlice iterates items in parallel, passing each element by
// pointer so the callback can mutate it in place.
func ParallelForSlice[E any](s *Scheduler, name string, items []E, priority Priority, fn func(e *E)) error {
	return ParallelFor(s, name, 0, len(items), priority, func(i int) { fn(&items[i]) })
}
