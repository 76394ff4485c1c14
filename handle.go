package ringcursor

// noCopy makes go vet's copylocks check flag copies of the embedding struct.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Advancer is the exclusive write handle of a cursor. It wraps a private
// AtomicCursor that nothing else can store into, so keeping the *Advancer in
// one goroutine is all the single-writer discipline needs. Readers get an
// Observer.
type Advancer[T any] struct {
	noCopy noCopy

	ring *Ring[T]
	cell *AtomicCursor[T]
}

// NewAdvancer returns a write handle seeded at the first slot of r.
func (r *Ring[T]) NewAdvancer() *Advancer[T] {
	return &Advancer[T]{
		ring: r,
		cell: r.NewAtomicCursor(),
	}
}

// Ring returns the ring the handle moves through.
func (a *Advancer[T]) Ring() *Ring[T] {
	return a.ring
}

// Load returns the current cursor. The owner is the only writer, so Relaxed
// is enough for the owner's own view.
func (a *Advancer[T]) Load(order Ordering) Cursor[T] {
	return a.cell.Load(order)
}

// Store publishes c.
func (a *Advancer[T]) Store(c Cursor[T], order Ordering) {
	a.cell.Store(c, order)
}

// Advance moves the cursor one slot forward and returns it.
func (a *Advancer[T]) Advance(order Ordering) Cursor[T] {
	return a.cell.Advance(a.ring, order)
}

// Observer returns a read-only view of the cursor that may be shared freely.
func (a *Advancer[T]) Observer() Observer[T] {
	return Observer[T]{cell: a.cell}
}

// Observer is a read-only, freely copyable view of an Advancer's cursor.
type Observer[T any] struct {
	cell *AtomicCursor[T]
}

// Load returns the cursor last published by the advancer.
func (o Observer[T]) Load(order Ordering) Cursor[T] {
	return o.cell.Load(order)
}
