package cache_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/cachesim/cache"
)

var _ = Describe("AddressCodec", func() {
	var codec cache.AddressCodec

	BeforeEach(func() {
		codec = cache.NewAddressCodec(64, 8)
	})

	It("maps an address to its line index", func() {
		Expect(codec.LineOf(0)).To(Equal(uint64(0)))
		Expect(codec.LineOf(63)).To(Equal(uint64(0)))
		Expect(codec.LineOf(64)).To(Equal(uint64(1)))
	})

	It("maps a line to a power-of-two set count via masking", func() {
		Expect(codec.SetOf(0)).To(Equal(0))
		Expect(codec.SetOf(8)).To(Equal(0))
		Expect(codec.SetOf(9)).To(Equal(1))
	})

	It("falls back to modulo for a non-power-of-two set count", func() {
		c := cache.NewAddressCodec(64, 3)
		Expect(c.SetOf(0)).To(Equal(0))
		Expect(c.SetOf(3)).To(Equal(0))
		Expect(c.SetOf(4)).To(Equal(1))
	})

	It("computes line-aligned start and end addresses", func() {
		Expect(codec.LineStart(130)).To(Equal(uint64(128)))
		Expect(codec.LineEnd(130)).To(Equal(uint64(191)))
	})

	It("computes a byte offset within the line", func() {
		Expect(codec.Offset(130)).To(Equal(2))
	})

	It("decomposes an empty request into no segments", func() {
		Expect(codec.Segments(0, 0)).To(BeEmpty())
	})

	DescribeTable("subblock mask construction",
		func(offset, length, subblockSize int, want uint64) {
			Expect(cache.SubblockMask(offset, length, subblockSize)).To(Equal(want))
		},
		Entry("single subblock", 0, 4, 8, uint64(0b1)),
		Entry("two adjacent subblocks", 6, 4, 8, uint64(0b11)),
		Entry("whole line, four subblocks", 0, 32, 8, uint64(0b1111)),
	)

	It("counts dirty subblocks via PopCount", func() {
		Expect(cache.PopCount(0b1011)).To(Equal(3))
	})
})
