package ringcursor

import "fmt"

// Cursor denotes one slot of a specific Ring. It is a plain value: cheap to
// copy, owning nothing. Cursors are issued only by a Ring, either through
// Initial, Advance or one of the position constructors, and carry the
// identity of the issuing ring. Two cursors are equal when they denote the
// same slot of the same ring. There is no ordering between cursors; use
// Ring.Distance against a paired cursor instead.
type Cursor[T any] struct {
	ring uint64
	pos  uint64
}

// Position returns the slot index of c. Feeding it back to the issuing
// ring's CursorUnchecked yields a cursor equal to c.
func (c Cursor[T]) Position() uint64 {
	return c.pos
}

// IntoAtomic returns a new atomic cell seeded with c.
func (c Cursor[T]) IntoAtomic() *AtomicCursor[T] {
	return NewAtomicCursor(c)
}

func (c Cursor[T]) String() string {
	return fmt.Sprintf("Cursor(ring=%d, pos=%d)", c.ring, c.pos)
}
