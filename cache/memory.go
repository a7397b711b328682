package cache

// MainMemory is the passive terminus of the cache graph (spec.md §4.4):
// every counter it reports is derived from the caches that border it,
// rather than tracked independently. Grounded on
// original_source/cachesim/cache.py's MainMemory, which likewise has no
// state of its own and computes `stats` from `last_level`.
type MainMemory struct {
	lastLevelLoad  *Level
	lastLevelStore *Level
}

// NewMainMemory attaches memory to the terminus of the load chain and the
// terminus of the store chain (spec.md §4.5's FromDescription builder).
// The two may be the same level, or differ when load_from and store_to
// diverge partway through the graph.
func NewMainMemory(lastLevelLoad, lastLevelStore *Level) *MainMemory {
	return &MainMemory{lastLevelLoad: lastLevelLoad, lastLevelStore: lastLevelStore}
}

// Name returns the fixed memory node name used in pretty-printed stats.
func (m *MainMemory) Name() string { return "MEM" }

// Stats derives memory's counters from the bordering cache levels
// (spec.md §4.4): LOAD/HIT mirror the load chain's terminal misses (every
// miss that falls off the end of the load chain is, by definition,
// satisfied by memory with no further miss possible), STORE mirrors the
// store chain's terminal evictions, and MISS/EVICT are always zero.
func (m *MainMemory) Stats() Counters {
	load := m.lastLevelLoad.Stats()
	store := m.lastLevelStore.Stats()
	return Counters{
		LoadCount:  load.MissCount,
		LoadByte:   load.MissByte,
		HitCount:   load.MissCount,
		HitByte:    load.MissByte,
		StoreCount: store.EvictCount,
		StoreByte:  store.EvictByte,
	}
}

// ResetStats is a no-op: every field Stats reports is derived on demand
// from the bordering levels, which own the counters that actually reset.
func (m *MainMemory) ResetStats() {}
