package oqpi

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_WorkersCountByPriority(t *testing.T) {
	s := NewScheduler()
	require.NoError(t, s.RegisterWorker(WorkerConfig{PriorityMask: WorkerPriorityNormalOrHigh, Count: 2}))
	require.NoError(t, s.RegisterWorker(WorkerConfig{PriorityMask: WorkerPriorityLow, Count: 1}))

	assert.Equal(t, 2, s.WorkersCount(PriorityNormal))
	assert.Equal(t, 2, s.WorkersCount(PriorityHigh))
	assert.Equal(t, 1, s.WorkersCount(PriorityLow))
	assert.Equal(t, 0, s.WorkersCount(PriorityBelowNormal))
}

func TestScheduler_RegisterWorkerAfterStartFails(t *testing.T) {
	s := NewScheduler()
	require.NoError(t, s.RegisterWorker(WorkerConfig{PriorityMask: WorkerPriorityAny}))
	s.Start()
	defer s.Stop()

	err := s.RegisterWorker(WorkerConfig{PriorityMask: WorkerPriorityAny})
	assert.ErrorIs(t, err, ErrSchedulerRunning)
}

func TestScheduler_PriorityMismatchIsRoutedToCapableWorker(t *testing.T) {
	// A worker that cannot run a task's priority re-enqueues it rather than
	// running it; a capable worker eventually picks it up.
	s := NewScheduler()
	require.NoError(t, s.RegisterWorker(WorkerConfig{PriorityMask: WorkerPriorityLow, Count: 1}))
	require.NoError(t, s.RegisterWorker(WorkerConfig{PriorityMask: WorkerPriorityHigh, Count: 1}))
	s.Start()
	defer s.Stop()

	task := NewTask("high-prio", PriorityHigh, func(context.Context) (int, error) { return 9, nil })
	s.Add(task)

	v, err := WaitForResult(task)
	require.NoError(t, err)
	assert.Equal(t, 9, v)
}

func TestScheduler_StopDrainsRunningWorkersWithoutNewWork(t *testing.T) {
	s := NewScheduler()
	require.NoError(t, s.RegisterWorker(WorkerConfig{PriorityMask: WorkerPriorityAny}))
	s.Start()

	var ran atomic.Bool
	task := NewFireAndForgetTask("t", PriorityNormal, func(context.Context) error {
		ran.Store(true)
		return nil
	})
	s.Add(task)
	time.Sleep(20 * time.Millisecond)

	s.Stop()
	assert.True(t, ran.Load())

	// Add after Stop is a no-op; the handle is returned unchanged.
	after := NewFireAndForgetTask("after", PriorityNormal, func(context.Context) error { return nil })
	got := s.Add(after)
	assert.Same(t, after, got)
}

func TestScheduler_Metrics(t *testing.T) {
	s := NewScheduler(WithMetrics())
	require.NoError(t, s.RegisterWorker(WorkerConfig{PriorityMask: WorkerPriorityAny, Count: 2}))
	s.Start()
	defer s.Stop()

	require.NotNil(t, s.Metrics())

	const n = 20
	tasks := make([]*Task[int], n)
	for i := range tasks {
		tasks[i] = NewTask("m", PriorityNormal, func(context.Context) (int, error) { return 1, nil })
		s.Add(tasks[i])
	}
	for _, task := range tasks {
		_, err := WaitForResult(task)
		require.NoError(t, err)
	}

	assert.Equal(t, int64(n), s.Metrics().Dispatched())
	assert.Equal(t, int64(n), s.Metrics().Executed())
	assert.GreaterOrEqual(t, s.Metrics().ExecutionP99(PriorityNormal), time.Duration(0))
}

func TestDefault_LazilyBuildsAndStarts(t *testing.T) {
	prior := defaultScheduler.Load()
	defer func() {
		if prior != nil {
			SetDefault(prior)
		}
	}()

	s := Default()
	require.NotNil(t, s)
	assert.Same(t, s, Default())

	task := NewTask("default-check", PriorityNormal, func(context.Context) (int, error) { return 5, nil })
	s.Add(task)
	v, err := WaitForResult(task)
	require.NoError(t, err)
	assert.Equal(t, 5, v)
}
