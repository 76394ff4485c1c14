package ringcursor

import (
	"cmp"
	"slices"
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

// Recorder keeps the most recent values written by any number of goroutines.
// Writers claim slots through a shared AtomicCursor and overwrite whatever the
// slot held one lap earlier; nothing ever blocks and nothing reports full.
//
// Recording is best effort under contention: a writer preempted between
// claiming a slot and filling it may land after a writer one lap ahead, in
// which case the slot keeps the older record.
type Recorder[T any] struct {
	ring *Ring[slot[T]]

	_ cpu.CacheLinePad

	head *AtomicCursor[slot[T]]

	_ cpu.CacheLinePad

	stamps atomic.Uint64
}

type RecorderStats struct {
	Recorded    uint64
	Overwritten uint64
}

// NewRecorder creates a recorder keeping the last capacity values.
// Capacity must be > 0.
func NewRecorder[T any](capacity uint64) *Recorder[T] {
	ring := NewRing[slot[T]](capacity)
	return &Recorder[T]{
		ring: ring,
		head: ring.NewAtomicCursor(),
	}
}

// Record stores v and returns its stamp. Stamps start at 1 and grow by one
// per call across all writers.
// Safe to call concurrently from many goroutines.
func (r *Recorder[T]) Record(v T) uint64 {
	c := r.head.Claim(r.ring, AcqRel)
	stamp := r.stamps.Add(1)
	r.ring.Slot(c).rec.Store(&record[T]{stamp: stamp, val: v})
	return stamp
}

// Snapshot returns the recorded values, oldest first.
// Safe to call concurrently with Record.
func (r *Recorder[T]) Snapshot() []T {
	recs := r.records()
	out := make([]T, len(recs))
	for i, rec := range recs {
		out[i] = rec.val
	}
	return out
}

// Last returns the newest recorded value.
// Returns (zero, false) if nothing has been recorded yet.
func (r *Recorder[T]) Last() (T, bool) {
	var newest *record[T]
	for c, i := r.ring.Initial(), uint64(0); i < r.ring.Capacity(); c, i = r.ring.Advance(c), i+1 {
		rec := r.ring.Slot(c).rec.Load()
		if rec != nil && (newest == nil || rec.stamp > newest.stamp) {
			newest = rec
		}
	}
	if newest == nil {
		var zero T
		return zero, false
	}
	return newest.val, true
}

func (r *Recorder[T]) records() []*record[T] {
	recs := make([]*record[T], 0, r.ring.Capacity())

	// start at the oldest slot so the sort below has little to do
	start := r.head.Load(Acquire)
	c := start
	for {
		if rec := r.ring.Slot(c).rec.Load(); rec != nil {
			recs = append(recs, rec)
		}
		c = r.ring.Advance(c)
		if c == start {
			break
		}
	}

	slices.SortFunc(recs, func(a, b *record[T]) int {
		return cmp.Compare(a.stamp, b.stamp)
	})
	return recs
}

// Capacity returns the number of values kept.
func (r *Recorder[T]) Capacity() uint64 {
	return r.ring.Capacity()
}

// Stats retrieves the current statistics of the recorder.
func (r *Recorder[T]) Stats() RecorderStats {
	recorded := r.stamps.Load()
	var overwritten uint64
	if recorded > r.ring.Capacity() {
		overwritten = recorded - r.ring.Capacity()
	}
	return RecorderStats{
		Recorded:    recorded,
		Overwritten: overwritten,
	}
}
