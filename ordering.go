package ringcursor

// Ordering is the memory ordering requested for an atomic cursor operation.
//
// sync/atomic operations are sequentially consistent, which satisfies every
// ordering below. The parameter still matters: it states the publication
// protocol of the layer built on top and is validated like a C++/Rust atomic
// would validate it (no release loads, no acquire stores).
type Ordering uint8

const (
	Relaxed Ordering = iota
	Acquire
	Release
	AcqRel
	SeqCst
)

func (o Ordering) String() string {
	switch o {
	case Relaxed:
		return "Relaxed"
	case Acquire:
		return "Acquire"
	case Release:
		return "Release"
	case AcqRel:
		return "AcqRel"
	case SeqCst:
		return "SeqCst"
	default:
		return "unknown"
	}
}

func (o Ordering) checkLoad() {
	switch o {
	case Relaxed, Acquire, SeqCst:
	case Release, AcqRel:
		panic("ringcursor: " + o.String() + " ordering is not valid for a load")
	default:
		panic("ringcursor: unknown ordering")
	}
}

func (o Ordering) checkStore() {
	switch o {
	case Relaxed, Release, SeqCst:
	case Acquire, AcqRel:
		panic("ringcursor: " + o.String() + " ordering is not valid for a store")
	default:
		panic("ringcursor: unknown ordering")
	}
}

func (o Ordering) checkRMW() {
	if o > SeqCst {
		panic("ringcursor: unknown ordering")
	}
}

// loadPart is the ordering used by the load half of a load-then-store sequence.
func (o Ordering) loadPart() Ordering {
	switch o {
	case Release:
		return Relaxed
	case AcqRel:
		return Acquire
	default:
		return o
	}
}

// storePart is the ordering used by the store half of a load-then-store sequence.
func (o Ordering) storePart() Ordering {
	switch o {
	case Acquire:
		return Relaxed
	case AcqRel:
		return Release
	default:
		return o
	}
}
