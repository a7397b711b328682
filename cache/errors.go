package cache

import "errors"

// Configuration faults (spec.md §7): returned by FromDescription and are
// always fatal at build time.
var (
	ErrNotPowerOfTwo        = errors.New("cache: value must be a power of two")
	ErrLineSizeNotMonotone  = errors.New("cache: cl_size must be non-decreasing toward memory")
	ErrVictimLineSizeDiffer = errors.New("cache: victims_to requires equal cl_size")
	ErrInvalidWritePolicy   = errors.New("cache: invalid write_back/write_allocate/write_combining combination")
	ErrSubblockSize         = errors.New("cache: subblock_size must divide cl_size")
	ErrUnknownPolicy        = errors.New("cache: unknown replacement policy")
	ErrMissingEdgeTarget    = errors.New("cache: edge refers to an unknown cache")
	ErrNoFirstLevel         = errors.New("cache: no unique first level (zero or several nodes are no edge's target)")
	ErrGraphCycle           = errors.New("cache: cache graph contains a cycle")
	ErrEmptyGraph           = errors.New("cache: graph description is empty")
)

// Request faults (spec.md §7): reported to the caller, no counters change.
var (
	ErrNonTemporalUnsupported = errors.New("cache: non-temporal stores are not supported")
)
