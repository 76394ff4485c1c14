package ringcursor

import (
	"fmt"
	"runtime"
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

const goschedEvery = 64 // reduce runtime.Gosched() frequency in CAS loops

// AtomicCursor is a cell holding exactly one Cursor, shared by reference
// between goroutines. Load and Store are single atomic instructions, so a
// Load never observes a mix of two stores.
//
// Advance is a load followed by a store, not a read-modify-write: at most one
// goroutine may call Advance or Store on a cell at a time, while any number of
// goroutines may Load it. Two concurrent advances can both read the same
// position and one of the updates is then lost silently. Use Claim when more
// than one goroutine has to move the cell forward.
type AtomicCursor[T any] struct {
	_ cpu.CacheLinePad

	pos atomic.Uint64

	_ cpu.CacheLinePad

	// ring is the identity of the ring whose cursors this cell holds.
	// It is set by the seed cursor and never changes.
	ring uint64
}

// NewAtomicCursor returns a cell seeded with c.
func NewAtomicCursor[T any](c Cursor[T]) *AtomicCursor[T] {
	a := &AtomicCursor[T]{ring: c.ring}
	a.pos.Store(c.pos)
	return a
}

// Load returns the current cursor.
// order must be Relaxed, Acquire or SeqCst.
func (a *AtomicCursor[T]) Load(order Ordering) Cursor[T] {
	order.checkLoad()
	return Cursor[T]{ring: a.ring, pos: a.pos.Load()}
}

// Store overwrites the current cursor.
// order must be Relaxed, Release or SeqCst.
func (a *AtomicCursor[T]) Store(c Cursor[T], order Ordering) {
	order.checkStore()
	if debugChecks {
		a.mustMatch(c)
	}
	a.pos.Store(c.pos)
}

// Advance moves the cell one slot forward through r and returns the new
// cursor. The load uses the acquire half of order and the store its release
// half, so every ordering is accepted.
//
// Single writer only, see AtomicCursor.
func (a *AtomicCursor[T]) Advance(r *Ring[T], order Ordering) Cursor[T] {
	c := a.Load(order.loadPart())
	c = r.Advance(c)
	a.Store(c, order.storePart())
	return c
}

// Swap stores c and returns the previous cursor.
func (a *AtomicCursor[T]) Swap(c Cursor[T], order Ordering) Cursor[T] {
	order.checkRMW()
	if debugChecks {
		a.mustMatch(c)
	}
	return Cursor[T]{ring: a.ring, pos: a.pos.Swap(c.pos)}
}

// CompareAndSwap stores next only if the cell still holds old.
func (a *AtomicCursor[T]) CompareAndSwap(old, next Cursor[T], order Ordering) bool {
	order.checkRMW()
	if debugChecks {
		a.mustMatch(old)
		a.mustMatch(next)
	}
	return a.pos.CompareAndSwap(old.pos, next.pos)
}

// Claim moves the cell one slot forward through r and returns the cursor it
// moved past. Unlike Advance it is a compare-and-swap retry loop, so any
// number of goroutines may call it concurrently and every call claims a
// distinct step.
func (a *AtomicCursor[T]) Claim(r *Ring[T], order Ordering) Cursor[T] {
	order.checkRMW()
	if debugChecks && a.ring != r.id {
		panic(fmt.Errorf("ringcursor: %w: cell of ring %d used with ring %d", ErrForeignRing, a.ring, r.id))
	}

	var spins uint32
	for {
		pos := a.pos.Load()
		if a.pos.CompareAndSwap(pos, r.next(pos)) {
			return Cursor[T]{ring: a.ring, pos: pos}
		}
		// contention, retry
		spins++
		if spins%goschedEvery == 0 {
			runtime.Gosched()
		}
	}
}

func (a *AtomicCursor[T]) String() string {
	return fmt.Sprintf("AtomicCursor(ring=%d, pos=%d)", a.ring, a.pos.Load())
}

func (a *AtomicCursor[T]) mustMatch(c Cursor[T]) {
	if c.ring != a.ring {
		panic(fmt.Errorf("ringcursor: %w: %v stored into cell of ring %d", ErrForeignRing, c, a.ring))
	}
}
