// Package ringcursor provides a fixed-capacity ring, cursors into it and a
// lock-free atomic cursor cell, plus queues built from them.
package ringcursor

import "sync/atomic"

// record is one value written to a Recorder together with its stamp.
type record[T any] struct {
	stamp uint64 // order of the write among all writes to the recorder
	val   T
}

// slot is one Recorder cell. The record is replaced as a whole so readers
// never see a stamp paired with another write's value.
type slot[T any] struct {
	rec atomic.Pointer[record[T]]
}
