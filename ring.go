package ringcursor

import (
	"fmt"
	"sync/atomic"
)

var (
	ErrOutOfRange  = fmt.Errorf("position is out of ring range")
	ErrForeignRing = fmt.Errorf("cursor belongs to another ring")
)

// ringIDs hands out ring identities; zero is never issued so a zero Cursor
// is owned by no ring.
var ringIDs atomic.Uint64

// Ring is a fixed-capacity circular buffer. It owns one arena of slots
// allocated at construction and defines the wrap-around addressing law over
// it. A Ring is never resized. All methods are pure over their arguments and
// safe for concurrent use; access to the slots themselves is governed by the
// protocol built on top.
type Ring[T any] struct {
	id       uint64
	capacity uint64
	mask     uint64 // capacity-1 when pow2, zero otherwise
	pow2     bool
	slots    []T
}

// NewRing allocates a ring of capacity slots.
// Capacity must be > 0.
func NewRing[T any](capacity uint64) *Ring[T] {
	if capacity == 0 {
		panic("ringcursor: capacity must be > 0")
	}
	return newRing(make([]T, capacity))
}

// NewRingFrom builds a ring over caller-provided storage. The ring uses
// storage for its whole lifetime and never reallocates it; the caller must
// not grow or release it while cursors derived from the ring are in use.
func NewRingFrom[T any](storage []T) *Ring[T] {
	if len(storage) == 0 {
		panic("ringcursor: storage must hold at least one slot")
	}
	// cap == len: the arena can never be extended past the caller's slots.
	return newRing(storage[:len(storage):len(storage)])
}

func newRing[T any](slots []T) *Ring[T] {
	capacity := uint64(len(slots))
	r := &Ring[T]{
		id:       ringIDs.Add(1),
		capacity: capacity,
		slots:    slots,
	}
	if capacity&(capacity-1) == 0 {
		r.pow2 = true
		r.mask = capacity - 1
	}
	return r
}

// Capacity returns the fixed number of slots.
func (r *Ring[T]) Capacity() uint64 {
	return r.capacity
}

// Initial returns the cursor of the first slot.
func (r *Ring[T]) Initial() Cursor[T] {
	return Cursor[T]{ring: r.id}
}

// Advance returns the cursor of the slot following c, wrapping from the last
// slot to the first. c must have been issued by r.
func (r *Ring[T]) Advance(c Cursor[T]) Cursor[T] {
	if debugChecks {
		r.mustOwn(c)
	}
	return Cursor[T]{ring: r.id, pos: r.next(c.pos)}
}

func (r *Ring[T]) next(pos uint64) uint64 {
	if r.pow2 {
		return (pos + 1) & r.mask
	}
	pos++
	if pos == r.capacity {
		pos = 0
	}
	return pos
}

// AdvanceBy returns the cursor n slots after c.
func (r *Ring[T]) AdvanceBy(c Cursor[T], n uint64) Cursor[T] {
	if debugChecks {
		r.mustOwn(c)
	}
	n %= r.capacity
	pos := c.pos + n
	if pos >= r.capacity {
		pos -= r.capacity
	}
	return Cursor[T]{ring: r.id, pos: pos}
}

// Distance returns how many Advance calls lead from from to to,
// in the range [0, capacity).
func (r *Ring[T]) Distance(from, to Cursor[T]) uint64 {
	if debugChecks {
		r.mustOwn(from)
		r.mustOwn(to)
	}
	if to.pos >= from.pos {
		return to.pos - from.pos
	}
	return r.capacity - from.pos + to.pos
}

// Cursor returns the cursor of the slot at position.
func (r *Ring[T]) Cursor(position uint64) (Cursor[T], error) {
	if position >= r.capacity {
		return Cursor[T]{}, fmt.Errorf("%w: position %d, capacity %d", ErrOutOfRange, position, r.capacity)
	}
	return Cursor[T]{ring: r.id, pos: position}, nil
}

// CursorUnchecked returns the cursor of the slot at position without
// validating it. position must come from this ring's own addressing, e.g. a
// previous Cursor.Position. An out-of-range position is not detected here;
// Slot panics on it later.
func (r *Ring[T]) CursorUnchecked(position uint64) Cursor[T] {
	return Cursor[T]{ring: r.id, pos: position}
}

// Owns reports whether c was issued by r and denotes one of its slots.
func (r *Ring[T]) Owns(c Cursor[T]) bool {
	return c.ring == r.id && c.pos < r.capacity
}

// Slot returns the slot denoted by c.
// Whether the caller may read or write it is up to the surrounding protocol.
func (r *Ring[T]) Slot(c Cursor[T]) *T {
	if debugChecks {
		r.mustOwn(c)
	}
	return &r.slots[c.pos]
}

// NewAtomicCursor returns an atomic cell seeded at the first slot.
func (r *Ring[T]) NewAtomicCursor() *AtomicCursor[T] {
	return NewAtomicCursor(r.Initial())
}

func (r *Ring[T]) mustOwn(c Cursor[T]) {
	if c.ring != r.id {
		panic(fmt.Errorf("ringcursor: %w: %v used with ring %d", ErrForeignRing, c, r.id))
	}
	if c.pos >= r.capacity {
		panic(fmt.Errorf("ringcursor: %w: %v, capacity %d", ErrOutOfRange, c, r.capacity))
	}
}
