package cache

import "fmt"

// Policy is a cache line replacement policy. It is a small closed enum
// rather than an interface, since the four legal policies never need
// independent implementations outside this package (spec.md §9, "Dynamic
// dispatch on policy").
type Policy int

const (
	// FIFO evicts the entry that was installed longest ago.
	FIFO Policy = iota
	// LRU evicts the least recently touched entry.
	LRU
	// MRU evicts the most recently touched entry.
	MRU
	// RR evicts a way chosen by a per-set round-robin counter, advanced
	// once per eviction. This is the deterministic option spec.md §4.2/§9
	// calls for ("must be seedable" / "must be deterministic for
	// testability"): a counter needs no seed and is trivially reproducible.
	RR
)

// String returns the canonical name used in graph descriptions.
func (p Policy) String() string {
	switch p {
	case FIFO:
		return "FIFO"
	case LRU:
		return "LRU"
	case MRU:
		return "MRU"
	case RR:
		return "RR"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ParsePolicy maps a graph-description string onto a Policy.
func ParsePolicy(name string) (Policy, error) {
	switch name {
	case "FIFO":
		return FIFO, nil
	case "LRU":
		return LRU, nil
	case "MRU":
		return MRU, nil
	case "RR":
		return RR, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
	}
}

// WritePolicy is one of the four legal (write_back, write_allocate,
// write_combining) combinations spec.md §3 permits. Like Policy, it is kept
// as a single enum over the closed set of legal triples rather than three
// independent booleans, so illegal combinations are unrepresentable once
// constructed.
type WritePolicy int

const (
	// WriteThrough is write-through, non-write-allocate, no combining.
	WriteThrough WritePolicy = iota
	// WriteBackAllocate is write-back, write-allocate, no combining.
	WriteBackAllocate
	// WriteBackNoAllocate is write-back, non-write-allocate, no combining.
	WriteBackNoAllocate
	// WriteCombining is write-back, non-write-allocate, write-combining.
	// Requires a SubblockSize dividing CLSize.
	WriteCombining
)

// NewWritePolicy validates and builds a WritePolicy from the three
// independent flags a graph description supplies.
func NewWritePolicy(writeBack, writeAllocate, writeCombining bool) (WritePolicy, error) {
	switch {
	case !writeBack && !writeAllocate && !writeCombining:
		return WriteThrough, nil
	case writeBack && writeAllocate && !writeCombining:
		return WriteBackAllocate, nil
	case writeBack && !writeAllocate && !writeCombining:
		return WriteBackNoAllocate, nil
	case writeBack && !writeAllocate && writeCombining:
		return WriteCombining, nil
	default:
		return 0, fmt.Errorf("%w: write_back=%v write_allocate=%v write_combining=%v",
			ErrInvalidWritePolicy, writeBack, writeAllocate, writeCombining)
	}
}

// WriteBack reports whether evicted dirty lines are flushed lazily.
func (w WritePolicy) WriteBack() bool { return w != WriteThrough }

// WriteAllocate reports whether a store miss refills this level.
func (w WritePolicy) WriteAllocate() bool { return w == WriteBackAllocate }

// WriteCombining reports whether partial-line stores buffer into a
// subblock-dirty line instead of passing through.
func (w WritePolicy) WriteCombining() bool { return w == WriteCombining }

func (w WritePolicy) String() string {
	switch w {
	case WriteThrough:
		return "write-through"
	case WriteBackAllocate:
		return "write-back,write-allocate"
	case WriteBackNoAllocate:
		return "write-back,no-allocate"
	case WriteCombining:
		return "write-back,no-allocate,write-combining"
	default:
		return fmt.Sprintf("WritePolicy(%d)", int(w))
	}
}
