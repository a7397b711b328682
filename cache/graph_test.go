package cache_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/cachesim/cache"
)

var _ = Describe("FromDescription", func() {
	valid := func() map[string]cache.NodeSpec {
		return map[string]cache.NodeSpec{
			"MEM_SIDE": {Sets: 4, Ways: 4, CLSize: 64, ReplacementPolicy: "LRU"},
			"L1":       {Sets: 4, Ways: 4, CLSize: 64, ReplacementPolicy: "LRU", LoadFrom: "MEM_SIDE"},
		}
	}

	It("builds a simulator from a well-formed two-level description", func() {
		sim, err := cache.FromDescription(valid())
		Expect(err).NotTo(HaveOccurred())
		Expect(sim.First().Name()).To(Equal("L1"))
	})

	It("rejects a cl_size that is not a power of two", func() {
		desc := valid()
		l1 := desc["L1"]
		l1.CLSize = 48
		desc["L1"] = l1
		_, err := cache.FromDescription(desc)
		Expect(err).To(MatchError(cache.ErrNotPowerOfTwo))
	})

	It("rejects an unknown replacement policy", func() {
		desc := valid()
		l1 := desc["L1"]
		l1.ReplacementPolicy = "CLOCK"
		desc["L1"] = l1
		_, err := cache.FromDescription(desc)
		Expect(err).To(MatchError(cache.ErrUnknownPolicy))
	})

	It("rejects an illegal write-policy combination", func() {
		desc := valid()
		l1 := desc["L1"]
		l1.WriteAllocate = true // write_allocate without write_back
		desc["L1"] = l1
		_, err := cache.FromDescription(desc)
		Expect(err).To(MatchError(cache.ErrInvalidWritePolicy))
	})

	It("rejects write-combining whose subblock_size does not divide cl_size", func() {
		desc := valid()
		l1 := desc["L1"]
		l1.WriteBack = true
		l1.WriteCombining = true
		l1.SubblockSize = 7
		desc["L1"] = l1
		_, err := cache.FromDescription(desc)
		Expect(err).To(MatchError(cache.ErrSubblockSize))
	})

	It("rejects an edge pointing at an unknown name", func() {
		desc := valid()
		l1 := desc["L1"]
		l1.LoadFrom = "NOWHERE"
		desc["L1"] = l1
		_, err := cache.FromDescription(desc)
		Expect(err).To(MatchError(cache.ErrMissingEdgeTarget))
	})

	It("rejects a line size that decreases toward memory", func() {
		desc := valid()
		mem := desc["MEM_SIDE"]
		mem.CLSize = 32
		desc["MEM_SIDE"] = mem
		_, err := cache.FromDescription(desc)
		Expect(err).To(MatchError(cache.ErrLineSizeNotMonotone))
	})

	It("rejects unequal cl_size across a victims_to edge", func() {
		desc := map[string]cache.NodeSpec{
			"VC": {Sets: 4, Ways: 4, CLSize: 128, ReplacementPolicy: "LRU"},
			"L1": {Sets: 4, Ways: 4, CLSize: 64, ReplacementPolicy: "LRU", VictimsTo: "VC"},
		}
		_, err := cache.FromDescription(desc)
		Expect(err).To(MatchError(cache.ErrVictimLineSizeDiffer))
	})

	It("rejects a graph with no unique first level", func() {
		desc := map[string]cache.NodeSpec{
			"A": {Sets: 4, Ways: 4, CLSize: 64, ReplacementPolicy: "LRU", LoadFrom: "B"},
			"B": {Sets: 4, Ways: 4, CLSize: 64, ReplacementPolicy: "LRU", LoadFrom: "A"},
		}
		_, err := cache.FromDescription(desc)
		Expect(err).To(MatchError(cache.ErrNoFirstLevel))
	})

	It("rejects an empty description", func() {
		_, err := cache.FromDescription(map[string]cache.NodeSpec{})
		Expect(err).To(MatchError(cache.ErrEmptyGraph))
	})

	It("yields every reachable cache exactly once, victim before store_to", func() {
		desc := map[string]cache.NodeSpec{
			"VC": {Sets: 4, Ways: 4, CLSize: 64, ReplacementPolicy: "LRU"},
			"L2": {Sets: 4, Ways: 4, CLSize: 64, ReplacementPolicy: "LRU"},
			"L1": {Sets: 4, Ways: 4, CLSize: 64, ReplacementPolicy: "LRU", VictimsTo: "VC", StoreTo: "L2"},
		}
		sim, err := cache.FromDescription(desc)
		Expect(err).NotTo(HaveOccurred())

		var order []string
		for lvl := range sim.Levels() {
			order = append(order, lvl.Name())
		}
		Expect(order).To(Equal([]string{"L1", "VC", "L2"}))
	})
})
