package cache_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/cachesim/cache"
)

var _ = Describe("Set", func() {
	var (
		s     *cache.Set
		clock uint64
	)

	BeforeEach(func() {
		s = cache.NewSet(2)
		clock = 0
	})

	It("installs into the lowest empty way first", func() {
		way, _, had := s.Insert(10, cache.LRU, &clock)
		Expect(way).To(Equal(0))
		Expect(had).To(BeFalse())

		way, _, had = s.Insert(11, cache.LRU, &clock)
		Expect(way).To(Equal(1))
		Expect(had).To(BeFalse())
	})

	It("evicts the least recently touched way under LRU", func() {
		s.Insert(10, cache.LRU, &clock)
		s.Insert(11, cache.LRU, &clock)
		way0, _ := s.Lookup(10)
		s.Touch(way0, cache.LRU, &clock)

		_, evicted, had := s.Insert(12, cache.LRU, &clock)
		Expect(had).To(BeTrue())
		Expect(evicted.Index).To(Equal(uint64(11)))
	})

	It("evicts the oldest insertion under FIFO even if touched", func() {
		s.Insert(10, cache.FIFO, &clock)
		s.Insert(11, cache.FIFO, &clock)
		way0, _ := s.Lookup(10)
		s.Touch(way0, cache.FIFO, &clock) // no-op for FIFO

		_, evicted, had := s.Insert(12, cache.FIFO, &clock)
		Expect(had).To(BeTrue())
		Expect(evicted.Index).To(Equal(uint64(10)))
	})

	It("evicts the most recently touched way under MRU", func() {
		s.Insert(10, cache.MRU, &clock)
		s.Insert(11, cache.MRU, &clock)
		way1, _ := s.Lookup(11)
		s.Touch(way1, cache.MRU, &clock)

		_, evicted, had := s.Insert(12, cache.MRU, &clock)
		Expect(had).To(BeTrue())
		Expect(evicted.Index).To(Equal(uint64(11)))
	})

	It("cycles through ways deterministically under RR", func() {
		s.Insert(10, cache.RR, &clock)
		s.Insert(11, cache.RR, &clock)

		_, first, _ := s.Insert(12, cache.RR, &clock)
		_, second, _ := s.Insert(13, cache.RR, &clock)
		Expect(first.Index).NotTo(Equal(second.Index))
	})

	It("never exceeds its configured associativity", func() {
		for i := uint64(0); i < 10; i++ {
			s.Insert(i, cache.LRU, &clock)
		}
		Expect(s.Occupancy()).To(BeNumerically("<=", s.Ways()))
	})

	It("tracks a per-way dirty bitmap independent of other ways", func() {
		way, _, _ := s.Insert(10, cache.LRU, &clock)
		s.MarkDirty(way, 0b0001)
		s.MarkDirty(way, 0b0010)
		Expect(s.Entry(way).Dirty).To(Equal(uint64(0b0011)))

		s.ClearDirty(way)
		Expect(s.Entry(way).Dirty).To(BeZero())
	})

	It("drops everything and resets the RR cursor on InvalidateAll", func() {
		s.Insert(10, cache.RR, &clock)
		s.Insert(11, cache.RR, &clock)
		s.Insert(12, cache.RR, &clock) // evicts way 0 and advances the cursor
		s.InvalidateAll()
		Expect(s.Occupancy()).To(BeZero())

		// With the cursor back at zero, the next RR eviction takes way 0 again.
		s.Insert(20, cache.RR, &clock)
		s.Insert(21, cache.RR, &clock)
		_, evicted, had := s.Insert(22, cache.RR, &clock)
		Expect(had).To(BeTrue())
		Expect(evicted.Index).To(Equal(uint64(20)))
	})
})
