// Package visualize renders a cache.Simulator's residency snapshot
// (spec.md §6, "Visualisation feed": cached() plus a VTK dump) as a
// legacy VTK STRUCTURED_POINTS file. No VTK-writing library appears
// anywhere in the example pack, so this writer is plain stdlib text
// formatting (see DESIGN.md); the format itself, including the literal
// header lines and the "2 present, 0 absent" value convention, is
// reverse-engineered from original_source/tests/vis_tests.py.
package visualize

import (
	"bufio"
	"fmt"
	"os"

	"github.com/sarchlab/cachesim/cache"
)

// Writer renders a fixed rectangular window of address space, divided
// into cells of ElementSize bytes each, laid out over Shape (fastest axis
// last, matching Python's row-major convention).
type Writer struct {
	Shape        []int  // e.g. []int{rows, cols}, or a single-element []int{n} for 1D
	ElementSize  int    // bytes per cell; defaults to 1 if zero
	StartAddress uint64 // first address covered by cell 0
}

// cells returns the total number of cells Shape describes.
func (w Writer) cells() int {
	n := 1
	for _, d := range w.Shape {
		n *= d
	}
	return n
}

func (w Writer) elementSize() int {
	if w.ElementSize <= 0 {
		return 1
	}
	return w.ElementSize
}

// Write dumps one VTK file covering every level in levels, in order: a
// cell is marked 2 for a level if any byte in its ElementSize-byte range
// is resident at that level, 0 otherwise.
func (w Writer) Write(path string, levels []*cache.Level) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create vtk file: %w", err)
	}
	defer func() { _ = f.Close() }()

	bw := bufio.NewWriter(f)
	if err := w.render(bw, levels); err != nil {
		return fmt.Errorf("render vtk file %s: %w", path, err)
	}
	return bw.Flush()
}

func (w Writer) render(out *bufio.Writer, levels []*cache.Level) error {
	n := w.cells()
	if n == 0 {
		return fmt.Errorf("empty shape")
	}

	fmt.Fprintln(out, "# vtk DataFile Version 4.0")
	fmt.Fprintln(out, "CACHESIM VTK output")
	fmt.Fprintln(out, "ASCII")
	fmt.Fprintln(out, "DATASET STRUCTURED_POINTS")
	fmt.Fprint(out, "DIMENSIONS")
	shape := append([]int(nil), w.Shape...)
	for len(shape) < 3 {
		shape = append(shape, 1) // pad with unit depth axes: VTK STRUCTURED_POINTS is always 3D
	}
	for i := len(shape) - 1; i >= 0; i-- {
		fmt.Fprintf(out, " %d", shape[i]+1)
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "ORIGIN 0 0 0")
	fmt.Fprintln(out, "SPACING 1 1 1")
	fmt.Fprintf(out, "CELL_DATA %d\n", n)
	fmt.Fprintln(out, "FIELD DATA 1")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Data_arr %d %d double\n", len(levels), n)

	sets := make([]map[uint64]bool, len(levels))
	for i, lvl := range levels {
		sets[i] = addressSet(lvl.Cached())
	}

	elemSize := w.elementSize()
	for cell := 0; cell < n; cell++ {
		base := w.StartAddress + uint64(cell)*uint64(elemSize)
		for i := range levels {
			if i > 0 {
				fmt.Fprint(out, " ")
			}
			if cellPresent(sets[i], base, elemSize) {
				fmt.Fprint(out, "2")
			} else {
				fmt.Fprint(out, "0")
			}
		}
		fmt.Fprintln(out)
	}
	return nil
}

func addressSet(addrs []uint64) map[uint64]bool {
	set := make(map[uint64]bool, len(addrs))
	for _, a := range addrs {
		set[a] = true
	}
	return set
}

func cellPresent(set map[uint64]bool, base uint64, elemSize int) bool {
	for i := 0; i < elemSize; i++ {
		if set[base+uint64(i)] {
			return true
		}
	}
	return false
}

// LevelNames returns the names of levels, in order, for callers that want
// to label a Data_arr's columns externally (VTK itself carries no column
// labels, so a caller wanting a legend must keep this alongside the file).
func LevelNames(levels []*cache.Level) []string {
	names := make([]string, len(levels))
	for i, l := range levels {
		names[i] = l.Name()
	}
	return names
}
