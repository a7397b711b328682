package cache

import "fmt"

// Counters holds the per-level traffic counters of spec.md §6: five
// (event, byte) pairs. All fields are non-negative and monotone except
// across Reset, per spec.md §3's invariants.
//
// Grounded on the shape of timing/core/core.go's Stats struct (plain
// exported uint64 fields, a Reset-like helper), generalized to the ten
// fields spec.md §6 names.
type Counters struct {
	LoadCount, LoadByte   uint64
	StoreCount, StoreByte uint64
	HitCount, HitByte     uint64
	MissCount, MissByte   uint64
	EvictCount, EvictByte uint64
}

func (c *Counters) load(n int) {
	c.LoadCount++
	c.LoadByte += uint64(n)
}

func (c *Counters) store(n int) {
	c.StoreCount++
	c.StoreByte += uint64(n)
}

func (c *Counters) hit(n int) {
	c.HitCount++
	c.HitByte += uint64(n)
}

func (c *Counters) miss(n int) {
	c.MissCount++
	c.MissByte += uint64(n)
}

func (c *Counters) evict(n int) {
	c.EvictCount++
	c.EvictByte += uint64(n)
}

// Reset zeroes every counter. It is the only operation allowed to
// decrease a counter (spec.md §3).
func (c *Counters) Reset() {
	*c = Counters{}
}

// String renders the counter columns of spec.md §6's pretty-print line;
// the level name that starts each line is left to the caller.
func (c Counters) String() string {
	return fmt.Sprintf("%d (%dB) %d (%dB) %d (%dB) %d (%dB) %d (%dB)",
		c.HitCount, c.HitByte,
		c.MissCount, c.MissByte,
		c.LoadCount, c.LoadByte,
		c.StoreCount, c.StoreByte,
		c.EvictCount, c.EvictByte,
	)
}
