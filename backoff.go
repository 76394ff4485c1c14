package ringcursor

import (
	"runtime"

	"github.com/valyala/fastrand"
)

const (
	backoffMinSpins = 4
	backoffMaxSpins = 1024
)

// Backoff paces a goroutine that polls a cursor waiting for data or space.
// Each Wait spins a randomized, exponentially growing number of iterations
// and yields the processor once the spin budget is exhausted.
// The zero value is ready to use. A Backoff must not be shared.
type Backoff struct {
	spins uint32
}

// Wait pauses the caller once.
func (b *Backoff) Wait() {
	if b.spins < backoffMinSpins {
		b.spins = backoffMinSpins
	}
	if b.spins >= backoffMaxSpins {
		runtime.Gosched()
		return
	}

	// jitter keeps pollers of the same cursor from retrying in lockstep
	n := b.spins/2 + fastrand.Uint32n(b.spins/2+1)
	for i := uint32(0); i < n; i++ {
		// busy-wait
	}
	b.spins <<= 1
}

// Reset returns the backoff to its shortest pause, typically after progress.
func (b *Backoff) Reset() {
	b.spins = 0
}
