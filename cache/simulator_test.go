package cache_test

import (
	"github.com/google/go-cmp/cmp"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/cachesim/cache"
)

var _ = Describe("Simulator", func() {
	newChain := func() *cache.Simulator {
		desc := map[string]cache.NodeSpec{
			"L2": {Sets: 4, Ways: 4, CLSize: 64, ReplacementPolicy: "LRU",
				WriteBack: true, WriteAllocate: true},
			"L1": {Sets: 4, Ways: 4, CLSize: 64, ReplacementPolicy: "LRU",
				WriteBack: true, WriteAllocate: true, LoadFrom: "L2", StoreTo: "L2"},
		}
		sim, err := cache.FromDescription(desc)
		Expect(err).NotTo(HaveOccurred())
		return sim
	}

	It("appends memory's derived stats last when requested", func() {
		sim := newChain()
		sim.Load(0, 64)

		withMem := sim.Stats(true)
		Expect(withMem[len(withMem)-1].Name).To(Equal("MEM"))

		withoutMem := sim.Stats(false)
		for _, s := range withoutMem {
			Expect(s.Name).NotTo(Equal("MEM"))
		}
	})

	It("produces identical stats snapshots across two equivalent runs", func() {
		a := newChain()
		a.Load(0, 256)
		a.Store(64, 64)

		b := newChain()
		b.Load(0, 256)
		b.Store(64, 64)

		if diff := cmp.Diff(a.Stats(true), b.Stats(true)); diff != "" {
			Fail("stats diverged between equivalent runs:\n" + diff)
		}
	})

	It("zeroes every level's counters on ResetStats without dropping residency", func() {
		sim := newChain()
		sim.Load(0, 64)

		sim.ResetStats()
		for _, s := range sim.Stats(false) {
			Expect(s.Counters).To(Equal(cache.Counters{}))
		}

		var l1 *cache.Level
		for lvl := range sim.Levels() {
			if lvl.Name() == "L1" {
				l1 = lvl
			}
		}
		Expect(l1.Cached()).NotTo(BeEmpty())
	})

	It("drops all residency on MarkAllInvalid", func() {
		sim := newChain()
		sim.Load(0, 64)
		sim.MarkAllInvalid()

		for lvl := range sim.Levels() {
			Expect(lvl.Cached()).To(BeEmpty())
		}
	})

	It("clears dirty state on ForceWriteBack and conserves written bytes at memory", func() {
		sim := newChain()
		sim.Store(0, 64)
		sim.ForceWriteBack()

		mem := sim.Stats(true)
		last := mem[len(mem)-1]
		Expect(last.Counters.StoreByte).To(Equal(uint64(64)))

		// Dirty bits were cleared, so a second flush writes nothing more.
		sim.ForceWriteBack()
		mem = sim.Stats(true)
		Expect(mem[len(mem)-1].Counters.StoreByte).To(Equal(uint64(64)))
	})
})
