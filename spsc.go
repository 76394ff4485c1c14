package ringcursor

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

var ErrTimeout = fmt.Errorf("timeout")

// SPSC is a bounded single-producer, single-consumer queue built from a Ring
// and two cursors. The producer owns the write cursor and publishes it with
// Release after filling a slot; the consumer observes it with Acquire before
// reading the slot, and the read cursor flows back the same way.
//
// The ring has one slot more than the queue capacity: write == read means
// empty, Advance(write) == read means full.
type SPSC[T any] struct {
	ring *Ring[T]

	_ cpu.CacheLinePad

	// producer side
	write *Advancer[T]
	read  Observer[T]

	// atomic.Uint64 stays 8-byte aligned on 32-bit platforms wherever it sits
	enqueueAttempts      atomic.Uint64
	enqueueFailedQIsFull atomic.Uint64

	_ cpu.CacheLinePad

	// consumer side
	readAdv *Advancer[T]
	written Observer[T]

	dequeueAttempts       atomic.Uint64
	dequeueFailedQIsEmpty atomic.Uint64

	_ cpu.CacheLinePad

	timeout atomic.Uint64
}

type SPSCStats struct {
	EnqueueAttempts      uint64
	EnqueueFailedQIsFull uint64

	DequeueAttempts       uint64
	DequeueFailedQIsEmpty uint64

	Timeout uint64
}

// NewSPSC creates a new bounded queue holding up to capacity elements.
// Capacity must be > 0.
func NewSPSC[T any](capacity uint64) *SPSC[T] {
	if capacity == 0 || capacity == ^uint64(0) {
		panic("ringcursor: capacity must be > 0 and < MaxUint64")
	}

	ring := NewRing[T](capacity + 1)
	write := ring.NewAdvancer()
	read := ring.NewAdvancer()

	return &SPSC[T]{
		ring:    ring,
		write:   write,
		read:    read.Observer(),
		readAdv: read,
		written: write.Observer(),
	}
}

// Enqueue pushes an element into the queue.
// Returns false if the queue is full.
// IMPORTANT: must be called from a single producer goroutine.
func (q *SPSC[T]) Enqueue(v T) bool {
	q.enqueueAttempts.Add(1)

	w := q.write.Load(Relaxed)
	next := q.ring.Advance(w)
	if next == q.read.Load(Acquire) {
		q.enqueueFailedQIsFull.Add(1)
		// the consumer has not freed the slot yet
		return false
	}

	*q.ring.Slot(w) = v
	// publish the slot
	q.write.Store(next, Release)
	return true
}

// Dequeue pops an element from the queue.
// Returns (zero, false) if the queue is empty.
// IMPORTANT: must be called from a single consumer goroutine.
func (q *SPSC[T]) Dequeue() (T, bool) {
	q.dequeueAttempts.Add(1)

	var zero T

	r := q.readAdv.Load(Relaxed)
	if r == q.written.Load(Acquire) {
		q.dequeueFailedQIsEmpty.Add(1)
		return zero, false
	}

	s := q.ring.Slot(r)
	v := *s
	// drop the reference so the slot does not keep the value alive
	*s = zero

	// hand the slot back to the producer
	q.readAdv.Store(q.ring.Advance(r), Release)
	return v, true
}

// EnqueueWait pushes v, polling with a Backoff while the queue is full.
// It returns an error wrapping ErrTimeout and ctx.Err() once ctx is done.
func (q *SPSC[T]) EnqueueWait(ctx context.Context, v T) error {
	var b Backoff
	for !q.Enqueue(v) {
		select {
		case <-ctx.Done():
			q.timeout.Add(1)
			return fmt.Errorf("%w: %w", ErrTimeout, ctx.Err())
		default:
		}
		b.Wait()
	}
	return nil
}

// DequeueWait pops an element, polling with a Backoff while the queue is
// empty. It returns an error wrapping ErrTimeout and ctx.Err() once ctx is
// done.
func (q *SPSC[T]) DequeueWait(ctx context.Context) (T, error) {
	var b Backoff
	for {
		if v, ok := q.Dequeue(); ok {
			return v, nil
		}
		select {
		case <-ctx.Done():
			q.timeout.Add(1)
			var zero T
			return zero, fmt.Errorf("%w: %w", ErrTimeout, ctx.Err())
		default:
		}
		b.Wait()
	}
}

// Len returns the number of queued elements. The value may be stale by the
// time it is returned when the other side is active.
func (q *SPSC[T]) Len() uint64 {
	r := q.read.Load(Acquire)
	w := q.written.Load(Acquire)
	return q.ring.Distance(r, w)
}

// Capacity returns the fixed queue capacity.
func (q *SPSC[T]) Capacity() uint64 {
	return q.ring.Capacity() - 1
}

// Stats retrieves the current statistics of the queue.
func (q *SPSC[T]) Stats() SPSCStats {
	return SPSCStats{
		EnqueueAttempts:       q.enqueueAttempts.Load(),
		EnqueueFailedQIsFull:  q.enqueueFailedQIsFull.Load(),
		DequeueAttempts:       q.dequeueAttempts.Load(),
		DequeueFailedQIsEmpty: q.dequeueFailedQIsEmpty.Load(),
		Timeout:               q.timeout.Load(),
	}
}
