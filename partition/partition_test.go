package partition

import (
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(t *testing.T, p Partitioner, concurrency int) []Range {
	t.Helper()
	var mu sync.Mutex
	var ranges []Range
	var wg sync.WaitGroup
	wg.Add(concurrency)
	for i := 0; i < concurrency; i++ {
		go func() {
			defer wg.Done()
			for {
				r, ok := p.GetNextValidRange()
				if !ok {
					return
				}
				mu.Lock()
				ranges = append(ranges, r)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	sort.Slice(ranges, func(i, j int) bool { return ranges[i].First < ranges[j].First })
	return ranges
}

func TestSimple_EmptyRange(t *testing.T) {
	p := NewSimple(5, 5, 4)
	assert.False(t, p.IsValid())
	_, ok := p.GetNextValidRange()
	assert.False(t, ok)
}

func TestSimple_EvenSplit(t *testing.T) {
	p := NewSimple(0, 8, 4)
	require.True(t, p.IsValid())
	ranges := drain(t, p, 8)
	require.Len(t, ranges, 4)
	for _, r := range ranges {
		assert.Equal(t, 2, r.Len())
	}
	assert.Equal(t, 0, ranges[0].First)
	assert.Equal(t, 8, ranges[3].Last)
}

func TestSimple_RemainderDistributedToFirstBatches(t *testing.T) {
	// 10 elements, 4 batches: floor(10/4)=2, remainder=2 -> sizes 3,3,2,2
	p := NewSimple(0, 10, 4)
	ranges := drain(t, p, 1) // single consumer keeps batch index order stable
	require.Len(t, ranges, 4)
	sizes := make([]int, len(ranges))
	for i, r := range ranges {
		sizes[i] = r.Len()
	}
	assert.Equal(t, []int{3, 3, 2, 2}, sizes)

	// every element covered exactly once
	seen := make(map[int]bool)
	for _, r := range ranges {
		for i := r.First; i < r.Last; i++ {
			require.False(t, seen[i], "element %d visited twice", i)
			seen[i] = true
		}
	}
	assert.Len(t, seen, 10)
}

func TestSimple_ClampsBatchCountToElementCount(t *testing.T) {
	p := NewSimple(0, 3, 10)
	assert.Equal(t, 3, p.BatchCount())
}

func TestAtomic_ChunksAndExhausts(t *testing.T) {
	p := NewAtomic(0, 10, 3)
	ranges := drain(t, p, 4)
	require.Len(t, ranges, 4) // 3,3,3,1

	seen := make(map[int]bool)
	for _, r := range ranges {
		for i := r.First; i < r.Last; i++ {
			require.False(t, seen[i])
			seen[i] = true
		}
	}
	assert.Len(t, seen, 10)
	assert.Equal(t, 1, ranges[len(ranges)-1].Len())
}

func TestAtomic_EmptyRange(t *testing.T) {
	p := NewAtomic(4, 4, 2)
	assert.False(t, p.IsValid())
}
