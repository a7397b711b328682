package cache

import (
	"fmt"
	"iter"
)

// Level is one set-associative cache level: the state machine described by
// spec.md §4.3. It is the central component of this package, adapted from
// the teacher's timing/cache/cache.go (Config/Stats/New/Read/Write/
// handleMiss), generalized from a single Akita-backed LRU parent pointer
// to spec.md's three optional edges, four replacement policies, and
// write-combining.
type Level struct {
	name         string
	clSize       int
	subblockSize int
	policy       Policy
	write        WritePolicy
	swapOnLoad   bool

	codec AddressCodec
	sets  []*Set
	clock uint64 // shared FIFO/LRU/MRU stamp source across this level's sets

	loadFrom  *Level
	storeTo   *Level
	victimsTo *Level

	counters Counters
}

// NewLevel constructs one cache level. subblockSize is ignored unless
// write is WriteCombining, in which case it must evenly divide clSize.
func NewLevel(name string, sets, ways, clSize int, policy Policy, write WritePolicy, subblockSize int, swapOnLoad bool) (*Level, error) {
	if !isPowerOfTwo(clSize) {
		return nil, fmt.Errorf("level %q: %w: cl_size=%d", name, ErrNotPowerOfTwo, clSize)
	}
	if sets <= 0 || ways <= 0 {
		return nil, fmt.Errorf("level %q: sets and ways must be positive", name)
	}
	if write == WriteCombining {
		if subblockSize <= 0 || clSize%subblockSize != 0 {
			return nil, fmt.Errorf("level %q: %w: cl_size=%d subblock_size=%d", name, ErrSubblockSize, clSize, subblockSize)
		}
	} else {
		subblockSize = clSize
	}

	l := &Level{
		name:         name,
		clSize:       clSize,
		subblockSize: subblockSize,
		policy:       policy,
		write:        write,
		swapOnLoad:   swapOnLoad,
		codec:        NewAddressCodec(clSize, sets),
		sets:         make([]*Set, sets),
	}
	for i := range l.sets {
		l.sets[i] = NewSet(ways)
	}
	return l, nil
}

// Name returns the level's configured name.
func (l *Level) Name() string { return l.name }

// CLSize returns the level's cache-line size in bytes.
func (l *Level) CLSize() int { return l.clSize }

// LoadFrom, StoreTo and VictimsTo expose the level's wired edges, used by
// graph traversal and validation.
func (l *Level) LoadFrom() *Level  { return l.loadFrom }
func (l *Level) StoreTo() *Level   { return l.storeTo }
func (l *Level) VictimsTo() *Level { return l.victimsTo }

// Stats returns a snapshot of the level's counters.
func (l *Level) Stats() Counters { return l.counters }

// ResetStats zeroes this level's counters without touching residency.
func (l *Level) ResetStats() { l.counters.Reset() }

// MarkAllInvalid drops every resident line without writing anything back.
func (l *Level) MarkAllInvalid() {
	for _, s := range l.sets {
		s.InvalidateAll()
	}
}

// ForceWriteBack flushes every dirty line in this level, per spec.md §4.3:
// each dirty entry is routed through evict (so it reaches victims_to or
// store_to exactly as a capacity eviction would), then its dirty bits are
// cleared. Unlike a capacity eviction, the line stays resident — only its
// dirty state is cleared.
func (l *Level) ForceWriteBack() {
	for _, s := range l.sets {
		for _, way := range s.DirtyWays() {
			l.evict(s.Entry(way))
			s.ClearDirty(way)
		}
	}
}

// Cached returns every byte address currently resident at this level,
// derived by expanding each valid line into its clSize addresses
// (spec.md §6, "Visualisation feed"). The result is sorted for
// deterministic comparison.
func (l *Level) Cached() []uint64 {
	var addrs []uint64
	for _, s := range l.sets {
		for way := 0; way < s.Ways(); way++ {
			e := s.Entry(way)
			if !e.Valid {
				continue
			}
			base := e.Index * uint64(l.clSize)
			for i := 0; i < l.clSize; i++ {
				addrs = append(addrs, base+uint64(i))
			}
		}
	}
	sortUint64s(addrs)
	return addrs
}

func sortUint64s(s []uint64) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

// Load reads length bytes starting at addr (spec.md §4.3 public surface).
func (l *Level) Load(addr uint64, length int) {
	for _, seg := range l.codec.Segments(addr, length) {
		l.loadLine(seg.Addr, seg.Length)
	}
}

// Store writes length bytes starting at addr.
func (l *Level) Store(addr uint64, length int) {
	for _, seg := range l.codec.Segments(addr, length) {
		l.storeLine(seg.Addr, seg.Length)
	}
}

// StoreNonTemporal always fails: non-temporal stores are an explicit
// spec.md Non-goal (§1, §6 "non_temporal=true on a store is rejected").
func (l *Level) StoreNonTemporal(addr uint64, length int) error {
	return ErrNonTemporalUnsupported
}

// IterLoad loads length bytes at each address in addrs, in order.
func (l *Level) IterLoad(addrs iter.Seq[uint64], length int) {
	for a := range addrs {
		l.Load(a, length)
	}
}

// IterStore stores length bytes at each address in addrs, in order.
func (l *Level) IterStore(addrs iter.Seq[uint64], length int) {
	for a := range addrs {
		l.Store(a, length)
	}
}

// LoadStoreOp is one entry of a loadstore sequence: an optional load
// address and an optional store address, evaluated load-then-store
// (spec.md §4.3, "loadstore interleaves loads before stores at each
// tuple").
type LoadStoreOp struct {
	HasLoad  bool
	Load     uint64
	HasStore bool
	Store    uint64
}

// LoadStore runs each op's load (if present) then its store (if present),
// length bytes each, in sequence order.
func (l *Level) LoadStore(ops iter.Seq[LoadStoreOp], length int) {
	for op := range ops {
		if op.HasLoad {
			l.Load(op.Load, length)
		}
		if op.HasStore {
			l.Store(op.Store, length)
		}
	}
}

// loadLine is the load_line primitive of spec.md §4.3.
func (l *Level) loadLine(addr uint64, length int) {
	l.counters.load(length)

	line := l.codec.LineOf(addr)
	set := l.sets[l.codec.SetOf(line)]

	if way, ok := set.Lookup(line); ok {
		set.Touch(way, l.policy, &l.clock)
		l.counters.hit(length)
		return
	}

	l.counters.miss(length)
	lineStart := l.codec.LineStart(addr)
	var dirty uint64
	if l.loadFrom != nil {
		l.loadFrom.loadLine(lineStart, l.clSize)
		if l.swapOnLoad {
			dirty = l.loadFrom.invalidateLine(lineStart)
		}
	}

	way, evicted, had := set.Insert(line, l.policy, &l.clock)
	if had && evicted.Valid {
		l.evict(evicted)
	}
	if dirty != 0 {
		set.MarkDirty(way, dirty)
	}
	_ = way
}

// invalidateLine drops addr's line from this level if present, returning
// whatever dirty bitmap it held. Used to implement swap_on_load's
// exclusive-cache behavior: the line moves up rather than being
// duplicated, so any dirty state it carried moves with it instead of
// being silently dropped.
func (l *Level) invalidateLine(addr uint64) uint64 {
	line := l.codec.LineOf(addr)
	set := l.sets[l.codec.SetOf(line)]
	if way, ok := set.Lookup(line); ok {
		return set.Invalidate(way).Dirty
	}
	return 0
}

// storeLine is the store_line primitive of spec.md §4.3.
func (l *Level) storeLine(addr uint64, length int) {
	l.counters.store(length)

	line := l.codec.LineOf(addr)
	set := l.sets[l.codec.SetOf(line)]
	offset := l.codec.Offset(addr)
	mask := SubblockMask(offset, length, l.subblockSize)

	if way, ok := set.Lookup(line); ok {
		set.Touch(way, l.policy, &l.clock)
		l.counters.hit(length)
		if l.write.WriteBack() {
			set.MarkDirty(way, mask)
		} else if l.storeTo != nil {
			l.storeTo.storeLine(addr, length)
		}
		return
	}

	l.counters.miss(length)
	switch {
	case l.write.WriteAllocate():
		if l.loadFrom != nil {
			l.loadFrom.loadLine(l.codec.LineStart(addr), l.clSize)
		}
		way, evicted, had := set.Insert(line, l.policy, &l.clock)
		if had && evicted.Valid {
			l.evict(evicted)
		}
		set.MarkDirty(way, mask)
	case l.write.WriteCombining():
		way, evicted, had := set.Insert(line, l.policy, &l.clock)
		if had && evicted.Valid {
			l.evict(evicted)
		}
		set.SetDirty(way, mask)
	default:
		if l.storeTo != nil {
			l.storeTo.storeLine(addr, length)
		}
	}
}

// evict is the evict primitive: it routes a displaced (or, from
// ForceWriteBack, in-place flushed) entry to victims_to, to store_to, or
// nowhere, and accounts EVICT_count/EVICT_byte.
//
// Open question (a) (spec.md §9) is resolved as: a clean entry discarded
// by a write-through cache (no victims_to) carries no traffic and is not
// counted; every other disposal (victim transfer, write-back flush, or a
// clean line leaving a write-back cache) counts.
func (l *Level) evict(entry Line) {
	switch {
	case l.victimsTo != nil:
		bytes := l.clSize
		if entry.IsDirty() {
			bytes = entry.DirtyBytes(l.subblockSize)
		}
		l.counters.evict(bytes)
		l.victimsTo.insertVictim(entry)

	case entry.IsDirty() && l.write.WriteBack():
		bytes := entry.DirtyBytes(l.subblockSize)
		l.counters.evict(bytes)
		if l.storeTo != nil {
			l.storeTo.storeLine(entry.Index*uint64(l.clSize), bytes)
		}
		// no store_to: traffic terminates at main memory; this level's
		// own EVICT_count/byte is what MainMemory derives STORE from.

	default:
		if l.write.WriteBack() {
			l.counters.evict(l.clSize)
		}
		// write-through, clean, no victim: no traffic to count.
	}
}

// insertVictim installs entry as if it were a refill arriving along a
// victim edge (spec.md §4.3). Any secondary victim the install produces
// is processed by this level's own evict, cascading further down the
// graph. Moving a whole line into a cache is accounted as a store on the
// receiver, dirty or not, since it is the receiver's only record that the
// line arrived (there is no separate "victim" counter in spec.md §6).
func (l *Level) insertVictim(entry Line) {
	l.counters.store(l.clSize)

	set := l.sets[l.codec.SetOf(entry.Index)]
	if way, ok := set.Lookup(entry.Index); ok {
		set.Touch(way, l.policy, &l.clock)
		set.MarkDirty(way, entry.Dirty)
		return
	}

	way, evicted, had := set.Insert(entry.Index, l.policy, &l.clock)
	set.SetDirty(way, entry.Dirty)
	if had && evicted.Valid {
		l.evict(evicted)
	}
}
