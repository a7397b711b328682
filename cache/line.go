package cache

// Line is the stored unit of one occupied way of one set (spec.md §3,
// "Cache line entry"): a line index, a validity flag, and a dirty bitmap
// with one bit per subblock. Caches that don't use write-combining treat
// the whole line as a single subblock, so a single set bit still suffices
// to mean "dirty" (spec.md: "Without combining, a single dirty flag
// suffices").
type Line struct {
	Index uint64
	Valid bool
	Dirty uint64
}

// IsDirty reports whether any subblock of the line is dirty.
func (l Line) IsDirty() bool {
	return l.Dirty != 0
}

// DirtyBytes returns the number of dirty bytes the line would flush,
// given the level's subblock size. When subblockSize == clSize (no
// combining) a dirty line always flushes the whole line.
func (l Line) DirtyBytes(subblockSize int) int {
	return PopCount(l.Dirty) * subblockSize
}
