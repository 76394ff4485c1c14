package ringcursor

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderSequential(t *testing.T) {
	r := NewRecorder[int](4)
	require.Equal(t, uint64(4), r.Capacity())

	_, ok := r.Last()
	assert.False(t, ok)
	assert.Empty(t, r.Snapshot())

	for i := 0; i < 3; i++ {
		assert.Equal(t, uint64(i+1), r.Record(i))
	}
	assert.Equal(t, []int{0, 1, 2}, r.Snapshot())

	for i := 3; i < 10; i++ {
		r.Record(i)
	}
	assert.Equal(t, []int{6, 7, 8, 9}, r.Snapshot())

	last, ok := r.Last()
	require.True(t, ok)
	assert.Equal(t, 9, last)

	assert.Equal(t, RecorderStats{Recorded: 10, Overwritten: 6}, r.Stats())
}

func TestRecorderZeroCapacity(t *testing.T) {
	assert.Panics(t, func() { NewRecorder[int](0) })
}

func TestRecorderSingleSlot(t *testing.T) {
	r := NewRecorder[string](1)
	r.Record("a")
	r.Record("b")
	assert.Equal(t, []string{"b"}, r.Snapshot())
}

// Concurrent test: many writers, concurrent snapshots.
func TestRecorderConcurrent(t *testing.T) {
	const (
		capacity  = 64
		writers   = 8
		perWriter = 20_000
	)

	r := NewRecorder[int](capacity)

	var wg sync.WaitGroup
	wg.Add(writers)
	for w := 0; w < writers; w++ {
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				r.Record(w*perWriter + i)
			}
		}(w)
	}

	stop := make(chan struct{})
	var sg sync.WaitGroup
	sg.Add(1)
	go func() {
		defer sg.Done()
		for {
			select {
			case <-stop:
				return
			default:
			}
			snap := r.Snapshot()
			assert.LessOrEqual(t, len(snap), capacity)
		}
	}()

	wg.Wait()
	close(stop)
	sg.Wait()

	st := r.Stats()
	assert.Equal(t, uint64(writers*perWriter), st.Recorded)
	assert.Equal(t, uint64(writers*perWriter-capacity), st.Overwritten)

	snap := r.Snapshot()
	require.Len(t, snap, capacity)

	seen := make(map[int]bool, capacity)
	for _, v := range snap {
		assert.False(t, seen[v], "value %d recorded twice", v)
		seen[v] = true
		assert.True(t, v >= 0 && v < writers*perWriter, "out-of-range value %d", v)
	}
}

func BenchmarkRecorderParallel(b *testing.B) {
	r := NewRecorder[int](1 << 10)
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			r.Record(i)
			i++
		}
	})
}
