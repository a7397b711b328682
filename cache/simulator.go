package cache

import "iter"

// Simulator is a built, validated cache graph (spec.md §4.5), ready to
// accept load/store traffic at its first level. Grounded on
// original_source/cachesim/cache.py's top-level CacheSimulator object, which plays
// the same "entry point plus traversal" role over a graph of CacheLevels.
type Simulator struct {
	first  *Level
	memory *MainMemory
}

// NewSimulator wires a first level and a memory terminus together. Used
// internally by FromDescription; exported for callers that build a graph
// by hand (e.g. tests).
func NewSimulator(first *Level, memory *MainMemory) *Simulator {
	return &Simulator{first: first, memory: memory}
}

// Load issues one bulk load at the first level.
func (s *Simulator) Load(addr uint64, length int) { s.first.Load(addr, length) }

// Store issues one bulk store at the first level.
func (s *Simulator) Store(addr uint64, length int) { s.first.Store(addr, length) }

// StoreNonTemporal always returns ErrNonTemporalUnsupported.
func (s *Simulator) StoreNonTemporal(addr uint64, length int) error {
	return s.first.StoreNonTemporal(addr, length)
}

// IterLoad issues one load of length bytes per address in addrs, in order.
func (s *Simulator) IterLoad(addrs iter.Seq[uint64], length int) { s.first.IterLoad(addrs, length) }

// IterStore issues one store of length bytes per address in addrs, in order.
func (s *Simulator) IterStore(addrs iter.Seq[uint64], length int) { s.first.IterStore(addrs, length) }

// LoadStore runs an interleaved load/store sequence at the first level.
func (s *Simulator) LoadStore(ops iter.Seq[LoadStoreOp], length int) { s.first.LoadStore(ops, length) }

// Levels yields every cache reachable from the first level exactly once,
// breadth-first along load_from, with a node's victims_to sibling yielded
// immediately after it, then its store_to sibling, before the traversal
// continues down load_from (spec.md §4.5, §9 open question (b): victim
// siblings precede store_to siblings).
func (s *Simulator) Levels() iter.Seq[*Level] {
	return func(yield func(*Level) bool) {
		visited := map[*Level]bool{s.first: true}
		queue := []*Level{s.first}
		if !yield(s.first) {
			return
		}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]

			for _, next := range []*Level{cur.victimsTo, cur.storeTo} {
				if next == nil || visited[next] {
					continue
				}
				visited[next] = true
				if !yield(next) {
					return
				}
				queue = append(queue, next)
			}

			if cur.loadFrom != nil && !visited[cur.loadFrom] {
				visited[cur.loadFrom] = true
				if !yield(cur.loadFrom) {
					return
				}
				queue = append(queue, cur.loadFrom)
			}
		}
	}
}

// LevelStats is one named counters snapshot, used by Stats to report
// caches and memory together in traversal order.
type LevelStats struct {
	Name     string
	Counters Counters
}

// Stats snapshots every level in traversal order, appending memory's
// derived counters last when withMemory is set (spec.md §4.4's
// "levels(with_mem)" toggle).
func (s *Simulator) Stats(withMemory bool) []LevelStats {
	var out []LevelStats
	for lvl := range s.Levels() {
		out = append(out, LevelStats{Name: lvl.Name(), Counters: lvl.Stats()})
	}
	if withMemory {
		out = append(out, LevelStats{Name: s.memory.Name(), Counters: s.memory.Stats()})
	}
	return out
}

// ResetStats zeroes every cache level's counters. Memory carries no
// counters of its own to reset.
func (s *Simulator) ResetStats() {
	for lvl := range s.Levels() {
		lvl.ResetStats()
	}
}

// MarkAllInvalid drops every resident line at every level, with no
// write-back (spec.md §4.3).
func (s *Simulator) MarkAllInvalid() {
	for lvl := range s.Levels() {
		lvl.MarkAllInvalid()
	}
}

// ForceWriteBack flushes dirty lines at every level, first level first, so
// that a line flushed out of the first level can in turn be found dirty at
// the next level and flushed again in the same call (spec.md §4.3).
func (s *Simulator) ForceWriteBack() {
	for lvl := range s.Levels() {
		lvl.ForceWriteBack()
	}
}

// Memory returns the graph's memory terminus.
func (s *Simulator) Memory() *MainMemory { return s.memory }

// First returns the graph's first level.
func (s *Simulator) First() *Level { return s.first }
