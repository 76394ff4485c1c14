package ringcursor

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fastrand"
)

func TestRingZeroCapacity(t *testing.T) {
	assert.Panics(t, func() { NewRing[int](0) })
	assert.Panics(t, func() { NewRingFrom[int](nil) })
	assert.Panics(t, func() { NewRingFrom(make([]int, 0, 8)) })
}

// Ring capacity 4, cursor seeded at slot 0: 0 -> 1 -> 2 -> 3 -> 0.
func TestRingCapacityFourScenario(t *testing.T) {
	r := NewRing[int](4)
	a := r.NewAtomicCursor()

	require.Equal(t, uint64(0), a.Load(Acquire).Position())
	for _, want := range []uint64{1, 2, 3} {
		c := a.Advance(r, AcqRel)
		assert.Equal(t, want, c.Position())
		assert.Equal(t, want, a.Load(Acquire).Position())
	}

	c := a.Advance(r, AcqRel)
	assert.Equal(t, r.Initial(), c)
	assert.Equal(t, uint64(0), a.Load(Acquire).Position())
}

func TestRingCycle(t *testing.T) {
	capacities := []uint64{1, 2, 3, 4, 7, 8, 100, 128, 1000, 1024}
	for i := 0; i < 20; i++ {
		capacities = append(capacities, uint64(fastrand.Uint32n(4096)+1))
	}

	for _, capacity := range capacities {
		r := NewRing[struct{}](capacity)
		for i := 0; i < 8; i++ {
			start := r.CursorUnchecked(uint64(fastrand.Uint32n(uint32(capacity))))

			c := start
			for n := uint64(0); n < capacity; n++ {
				c = r.Advance(c)
				if n+1 < capacity && c == start {
					t.Fatalf("capacity %d: returned to %v after %d advances", capacity, start, n+1)
				}
			}
			if c != start {
				t.Fatalf("capacity %d: expected %v after a full cycle, got %v", capacity, start, c)
			}
		}
	}
}

func TestRingDegenerate(t *testing.T) {
	r := NewRing[string](1)
	c := r.Initial()

	assert.Equal(t, c, r.Advance(c))
	assert.Equal(t, c, r.AdvanceBy(c, 12345))
	assert.Equal(t, uint64(0), r.Distance(c, c))

	a := c.IntoAtomic()
	for i := 0; i < 10; i++ {
		assert.Equal(t, c, a.Advance(r, Relaxed))
	}
}

func TestRingAdvanceBy(t *testing.T) {
	for _, capacity := range []uint64{1, 5, 8, 13} {
		r := NewRing[int](capacity)
		for pos := uint64(0); pos < capacity; pos++ {
			start := r.CursorUnchecked(pos)
			c := start
			for n := uint64(0); n < 3*capacity; n++ {
				require.Equal(t, c, r.AdvanceBy(start, n), "capacity %d, pos %d, n %d", capacity, pos, n)
				c = r.Advance(c)
			}
		}
	}
}

func TestRingDistance(t *testing.T) {
	r := NewRing[int](6)
	for from := uint64(0); from < 6; from++ {
		for n := uint64(0); n < 6; n++ {
			a := r.CursorUnchecked(from)
			b := r.AdvanceBy(a, n)
			assert.Equal(t, n, r.Distance(a, b))
		}
	}
}

func TestRingCursor(t *testing.T) {
	r := NewRing[int](3)

	c, err := r.Cursor(2)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), c.Position())
	assert.True(t, r.Owns(c))

	_, err = r.Cursor(3)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOutOfRange))
}

func TestRingRoundTrip(t *testing.T) {
	r := NewRing[int](37)
	a := r.NewAtomicCursor()

	c := r.Initial()
	for i := 0; i < 100; i++ {
		assert.Equal(t, c, r.CursorUnchecked(c.Position()))

		checked, err := r.Cursor(c.Position())
		require.NoError(t, err)
		assert.Equal(t, c, checked)

		loaded := a.Load(Acquire)
		assert.Equal(t, loaded, r.CursorUnchecked(loaded.Position()))

		c = r.Advance(c)
		a.Advance(r, AcqRel)
	}
}

func TestRingOwns(t *testing.T) {
	r1 := NewRing[int](4)
	r2 := NewRing[int](4)

	assert.True(t, r1.Owns(r1.Initial()))
	assert.False(t, r1.Owns(r2.Initial()))
	assert.False(t, r1.Owns(Cursor[int]{}))
	assert.False(t, r1.Owns(r1.CursorUnchecked(4)))

	// same position, different rings
	assert.NotEqual(t, r1.Initial(), r2.Initial())
}

func TestRingMask(t *testing.T) {
	for _, capacity := range []uint64{1, 2, 8, 1024} {
		r := NewRing[int](capacity)
		assert.True(t, r.pow2, "capacity %d", capacity)
		assert.Equal(t, capacity-1, r.mask, "capacity %d", capacity)
	}
	for _, capacity := range []uint64{3, 6, 1000} {
		r := NewRing[int](capacity)
		assert.False(t, r.pow2, "capacity %d", capacity)
		assert.Zero(t, r.mask, "capacity %d", capacity)
	}
}

func TestRingFromStorageBounds(t *testing.T) {
	storage := make([]int, 3, 16)
	r := NewRingFrom(storage)

	assert.Equal(t, uint64(3), r.Capacity())
	assert.Equal(t, 3, cap(r.slots))
	assert.Same(t, &storage[0], r.Slot(r.Initial()))
}

func TestRingSlot(t *testing.T) {
	storage := make([]int, 5)
	r := NewRingFrom(storage)
	require.Equal(t, uint64(5), r.Capacity())

	c := r.Initial()
	for i := 0; i < 10; i++ {
		*r.Slot(c) += i
		c = r.Advance(c)
	}
	assert.Equal(t, []int{0 + 5, 1 + 6, 2 + 7, 3 + 8, 4 + 9}, storage)

	assert.Panics(t, func() { r.Slot(r.CursorUnchecked(5)) })
}

func BenchmarkRingAdvance(b *testing.B) {
	for _, capacity := range []uint64{1024, 1000} {
		r := NewRing[int](capacity)
		b.Run(fmt.Sprintf("capacity=%d", capacity), func(b *testing.B) {
			c := r.Initial()
			for i := 0; i < b.N; i++ {
				c = r.Advance(c)
			}
			_ = c
		})
	}
}
