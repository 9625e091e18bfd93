package oqpi

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScheduler(t *testing.T, workers int) *Scheduler {
	t.Helper()
	s := NewScheduler()
	require.NoError(t, s.RegisterWorker(WorkerConfig{PriorityMask: WorkerPriorityAny, Count: workers}))
	s.Start()
	t.Cleanup(s.Stop)
	return s
}

func TestSequenceGroup_RunsChildrenInOrder(t *testing.T) {
	// Four tasks append to a shared log under a mutex; a sequence group
	// must preserve insertion order regardless of how many workers are
	// available to run it.
	s := newTestScheduler(t, 4)

	var mu sync.Mutex
	var log []int

	seq := NewSequenceGroup("seq", PriorityNormal, 4)
	for i := 0; i < 4; i++ {
		i := i
		task := NewFireAndForgetTask("step", PriorityNormal, func(context.Context) error {
			mu.Lock()
			log = append(log, i)
			mu.Unlock()
			return nil
		})
		require.NoError(t, seq.AddTask(task))
	}

	s.Add(seq)
	require.NoError(t, seq.Wait())

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{0, 1, 2, 3}, log)
}

func TestSequenceGroup_Empty(t *testing.T) {
	s := newTestScheduler(t, 1)
	seq := NewSequenceGroup("empty-seq", PriorityNormal, 0)
	assert.True(t, seq.Empty())
	s.Add(seq)
	require.NoError(t, seq.Wait())
}

func TestSequenceGroup_RejectsConcurrentAddAfterScheduled(t *testing.T) {
	s := newTestScheduler(t, 1)
	seq := NewSequenceGroup("seq", PriorityNormal, 0)
	started := make(chan struct{})
	blocker := NewFireAndForgetTask("blocker", PriorityNormal, func(context.Context) error {
		close(started)
		time.Sleep(50 * time.Millisecond)
		return nil
	})
	require.NoError(t, seq.AddTask(blocker))
	s.Add(seq)

	<-started // the group has executed, so composition is sealed
	late := NewFireAndForgetTask("late", PriorityNormal, func(context.Context) error { return nil })
	err := seq.AddTask(late)
	assert.ErrorIs(t, err, ErrConcurrentSequenceAdd)

	require.NoError(t, seq.Wait())
}

func TestParallelGroup_AllChildrenRun(t *testing.T) {
	// Eight tasks each add their index to a shared set; a parallel group
	// must run every child exactly once.
	s := newTestScheduler(t, 4)

	var mu sync.Mutex
	seen := make(map[int]bool)

	par := NewParallelGroup("par", PriorityNormal, 8, 0)
	for i := 0; i < 8; i++ {
		i := i
		task := NewFireAndForgetTask("child", PriorityNormal, func(context.Context) error {
			mu.Lock()
			seen[i] = true
			mu.Unlock()
			return nil
		})
		require.NoError(t, par.AddTask(task))
	}

	s.Add(par)
	require.NoError(t, par.Wait())

	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, seen, 8)
	for i := 0; i < 8; i++ {
		assert.True(t, seen[i], "child %d did not run", i)
	}
}

func TestParallelGroup_Empty(t *testing.T) {
	s := newTestScheduler(t, 1)
	par := NewParallelGroup("empty-par", PriorityNormal, 0, 0)
	assert.True(t, par.Empty())
	s.Add(par)
	require.NoError(t, par.Wait())
}

func TestParallelGroup_MaxSimultaneousOneBehavesLikeSequence(t *testing.T) {
	// max_simultaneous == 1 serializes children the same way a sequence
	// group would, though via a different code path.
	s := newTestScheduler(t, 4)

	var mu sync.Mutex
	var order []int
	var concurrent atomic.Int32
	var maxConcurrent atomic.Int32

	par := NewParallelGroup("bounded", PriorityNormal, 4, 1)
	for i := 0; i < 4; i++ {
		i := i
		task := NewFireAndForgetTask("child", PriorityNormal, func(context.Context) error {
			c := concurrent.Add(1)
			for {
				m := maxConcurrent.Load()
				if c <= m || maxConcurrent.CompareAndSwap(m, c) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			concurrent.Add(-1)
			return nil
		})
		require.NoError(t, par.AddTask(task))
	}

	s.Add(par)
	require.NoError(t, par.Wait())

	assert.Equal(t, int32(1), maxConcurrent.Load())
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{0, 1, 2, 3}, order)
}

func TestGroup_AddTaskToAlreadyParentedChildFails(t *testing.T) {
	par1 := NewParallelGroup("p1", PriorityNormal, 1, 0)
	par2 := NewParallelGroup("p2", PriorityNormal, 1, 0)
	child := NewFireAndForgetTask("child", PriorityNormal, func(context.Context) error { return nil })

	require.NoError(t, par1.AddTask(child))
	err := par2.AddTask(child)
	assert.ErrorIs(t, err, ErrAlreadyParented)
}

func TestGroup_PriorityInheritFromParent(t *testing.T) {
	par := NewParallelGroup("hi-par", PriorityHigh, 1, 0)
	child := NewFireAndForgetTask("child", PriorityInherit, func(context.Context) error { return nil })
	require.NoError(t, par.AddTask(child))
	assert.Equal(t, PriorityHigh, child.Priority())
}

func TestGroup_ActiveWaitFallsBackToWait(t *testing.T) {
	// ActiveWait on a group is unsupported and falls back to a plain Wait
	// rather than erroring.
	s := newTestScheduler(t, 2)
	par := NewParallelGroup("par", PriorityNormal, 1, 0)
	var ran atomic.Bool
	require.NoError(t, par.AddTask(NewFireAndForgetTask("child", PriorityNormal, func(context.Context) error {
		ran.Store(true)
		return nil
	})))
	s.Add(par)
	assert.NoError(t, par.ActiveWait())
	assert.True(t, ran.Load())
}

func TestGroup_NestedGroupsComposeAsHandles(t *testing.T) {
	s := newTestScheduler(t, 4)

	inner := NewSequenceGroup("inner", PriorityNormal, 2)
	var mu sync.Mutex
	var log []string
	require.NoError(t, inner.AddTask(NewFireAndForgetTask("a", PriorityNormal, func(context.Context) error {
		mu.Lock()
		log = append(log, "a")
		mu.Unlock()
		return nil
	})))
	require.NoError(t, inner.AddTask(NewFireAndForgetTask("b", PriorityNormal, func(context.Context) error {
		mu.Lock()
		log = append(log, "b")
		mu.Unlock()
		return nil
	})))

	outer := NewParallelGroup("outer", PriorityNormal, 1, 0)
	require.NoError(t, outer.AddTask(inner))

	s.Add(outer)
	require.NoError(t, outer.Wait())

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"a", "b"}, log)
}

func TestGroup_ExecuteSingleThreaded(t *testing.T) {
	par := NewParallelGroup("serial", PriorityNormal, 3, 0)
	var count atomic.Int32
	for i := 0; i < 3; i++ {
		require.NoError(t, par.AddTask(NewFireAndForgetTask("child", PriorityNormal, func(context.Context) error {
			count.Add(1)
			return nil
		})))
	}
	assert.True(t, par.executeSingleThreaded())
	assert.Equal(t, int32(3), count.Load())
	assert.True(t, par.IsDone())
}
