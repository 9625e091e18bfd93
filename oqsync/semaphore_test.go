package oqsync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountingSemaphore_NotifyAndWait(t *testing.T) {
	sem, err := NewCountingSemaphore("", CreateIfNonexistent, 0, 0)
	require.NoError(t, err)

	assert.False(t, sem.TryWait())
	sem.Notify(2)
	assert.True(t, sem.TryWait())
	assert.True(t, sem.TryWait())
	assert.False(t, sem.TryWait())
}

func TestCountingSemaphore_InitialCount(t *testing.T) {
	sem, err := NewCountingSemaphore("", CreateIfNonexistent, 3, 0)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		assert.True(t, sem.TryWait())
	}
	assert.False(t, sem.TryWait())
}

func TestCountingSemaphore_MaxBoundsNotify(t *testing.T) {
	sem, err := NewCountingSemaphore("", CreateIfNonexistent, 0, 2)
	require.NoError(t, err)

	sem.Notify(5) // only 2 permits fit; the rest are dropped
	assert.True(t, sem.TryWait())
	assert.True(t, sem.TryWait())
	assert.False(t, sem.TryWait())
}

func TestCountingSemaphore_WaitForTimesOut(t *testing.T) {
	sem, err := NewCountingSemaphore("", CreateIfNonexistent, 0, 0)
	require.NoError(t, err)

	ok := sem.WaitFor(10 * time.Millisecond)
	assert.False(t, ok)

	sem.Notify(1)
	ok = sem.WaitFor(10 * time.Millisecond)
	assert.True(t, ok)
}

func TestCountingSemaphore_NotifyAllWakesEveryWaiter(t *testing.T) {
	sem, err := NewCountingSemaphore("", CreateIfNonexistent, 0, 4)
	require.NoError(t, err)

	const n = 4
	done := make(chan struct{}, n)
	for i := 0; i < n; i++ {
		go func() {
			sem.Wait()
			done <- struct{}{}
		}()
	}

	time.Sleep(5 * time.Millisecond)
	sem.NotifyAll()

	for i := 0; i < n; i++ {
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("not all waiters were woken by NotifyAll")
		}
	}
}
