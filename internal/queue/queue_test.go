package queue

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue_FIFOSingleProducer(t *testing.T) {
	q := New[int](0)
	assert.True(t, q.Empty())
	for i := 0; i < 20; i++ {
		q.Push(i)
	}
	assert.False(t, q.Empty())
	for i := 0; i < 20; i++ {
		v, ok := q.TryPop()
		require.True(t, ok)
		assert.Equal(t, i, v)
	}
	assert.True(t, q.Empty())
	_, ok := q.TryPop()
	assert.False(t, ok)
}

func TestQueue_GrowsPastInitialCapacity(t *testing.T) {
	q := New[int](4)
	for i := 0; i < 100; i++ {
		q.Push(i)
	}
	assert.Equal(t, 100, q.Len())
	for i := 0; i < 100; i++ {
		v, ok := q.TryPop()
		require.True(t, ok)
		assert.Equal(t, i, v)
	}
}

func TestQueue_ConcurrentProducersConsumers(t *testing.T) {
	q := New[int](8)
	const producers = 8
	const perProducer = 1000

	var wg sync.WaitGroup
	wg.Add(producers)
	for p := 0; p < producers; p++ {
		go func(base int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				q.Push(base*perProducer + i)
			}
		}(p)
	}
	wg.Wait()

	seen := make(map[int]bool)
	for {
		v, ok := q.TryPop()
		if !ok {
			break
		}
		require.False(t, seen[v])
		seen[v] = true
	}
	assert.Len(t, seen, producers*perProducer)
}
