package cache

import "math/bits"

// AddressCodec translates byte addresses to and from cache-line indices. It
// is stateless and pure (spec.md §4.1): every method is a function of its
// arguments only.
//
// Grounded on the teacher's timing/cache/cache.go block-address arithmetic
// (`blockAddr := (addr / blockSize) * blockSize`) and on the shift-based
// version in original_source/cachesim/cache.py's Cache.get_cl_start /
// get_cl_end (`addr >> cl_bits << cl_bits`); the shift form is used here
// since cl_size is required to be a power of two.
type AddressCodec struct {
	clSize int
	clBits uint
	sets   int
}

// NewAddressCodec builds a codec for a level with the given line size and
// set count. clSize must be a power of two.
func NewAddressCodec(clSize, sets int) AddressCodec {
	if !isPowerOfTwo(clSize) {
		panic(ErrNotPowerOfTwo)
	}
	return AddressCodec{
		clSize: clSize,
		clBits: uint(bits.TrailingZeros64(uint64(clSize))),
		sets:   sets,
	}
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// LineOf returns the cache-line index containing addr.
func (c AddressCodec) LineOf(addr uint64) uint64 {
	return addr >> c.clBits
}

// SetOf returns the set index a line maps to.
func (c AddressCodec) SetOf(line uint64) int {
	if isPowerOfTwo(c.sets) {
		return int(line) & (c.sets - 1)
	}
	return int(line % uint64(c.sets))
}

// LineStart returns the first address belonging to addr's cache line.
func (c AddressCodec) LineStart(addr uint64) uint64 {
	return (addr >> c.clBits) << c.clBits
}

// LineEnd returns the last address belonging to addr's cache line.
func (c AddressCodec) LineEnd(addr uint64) uint64 {
	return c.LineStart(addr) + uint64(c.clSize) - 1
}

// Offset returns addr's byte offset within its cache line.
func (c AddressCodec) Offset(addr uint64) int {
	return int(addr - c.LineStart(addr))
}

// Segment is one line-aligned piece of a (possibly multi-line) request.
type Segment struct {
	Addr   uint64 // first address of this segment
	Length int    // number of bytes, never crossing a line boundary
}

// Segments decomposes [addr, addr+length) into consecutive per-line
// segments in ascending order, per spec.md §4.3 ("The engine decomposes
// every request into per-line segments"). A zero length yields no
// segments.
func (c AddressCodec) Segments(addr uint64, length int) []Segment {
	if length <= 0 {
		return nil
	}
	var segs []Segment
	end := addr + uint64(length) // exclusive
	for cur := addr; cur < end; {
		lineEnd := c.LineEnd(cur) + 1 // exclusive
		segEnd := lineEnd
		if segEnd > end {
			segEnd = end
		}
		segs = append(segs, Segment{Addr: cur, Length: int(segEnd - cur)})
		cur = segEnd
	}
	return segs
}

// SubblockIndex returns which subblock a line-relative offset falls in.
func SubblockIndex(offset, subblockSize int) int {
	return offset / subblockSize
}

// SubblockMask builds a bitmask with one bit per subblock touched by the
// byte range [offset, offset+length) within a single cache line. The
// bitmap holds at most 64 subblocks: subblocks at index 64 and above are
// not recorded, so a line with more than 64 subblocks (cl_size /
// subblock_size > 64) does not track them. NewLevel does not reject such a
// geometry (see DESIGN.md).
func SubblockMask(offset, length, subblockSize int) uint64 {
	if length <= 0 {
		return 0
	}
	first := offset / subblockSize
	last := (offset + length - 1) / subblockSize
	var mask uint64
	for i := first; i <= last && i < 64; i++ {
		mask |= 1 << uint(i)
	}
	return mask
}

// PopCount counts the subblocks marked dirty in mask.
func PopCount(mask uint64) int {
	return bits.OnesCount64(mask)
}
