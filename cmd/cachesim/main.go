// Package main provides the entry point for cachesim, a trace-driven
// functional simulator of a multi-level cache hierarchy.
package main

import (
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/sarchlab/cachesim/cache"
	"github.com/sarchlab/cachesim/config"
	"github.com/sarchlab/cachesim/trace"
	"github.com/sarchlab/cachesim/visualize"
)

var (
	graphPath  = flag.StringP("graph", "g", "", "Path to the cache graph YAML description (required)")
	tracePath  = flag.StringP("trace", "t", "", "Path to the trace file (required)")
	withMemory = flag.Bool("with-memory", true, "Include main memory's derived counters in the report")
	verbose    = flag.BoolP("verbose", "v", false, "Print the cache graph before replaying the trace")
	vtkPath    = flag.String("vtk", "", "Write a VTK STRUCTURED_POINTS residency snapshot to this path after replay")
	vtkShape   = flag.IntSlice("vtk-shape", []int{1}, "Cell grid shape for --vtk, fastest axis last")
	vtkElem    = flag.Int("vtk-element-size", 1, "Bytes per VTK cell")
)

func main() {
	flag.Parse()

	if *graphPath == "" || *tracePath == "" {
		fmt.Fprintln(os.Stderr, "Usage: cachesim --graph <graph.yaml> --trace <trace.txt>")
		fmt.Fprintln(os.Stderr, "\nOptions:")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if err := run(*graphPath, *tracePath, *withMemory, *verbose, *vtkPath, *vtkShape, *vtkElem); err != nil {
		fmt.Fprintf(os.Stderr, "cachesim: %v\n", err)
		os.Exit(1)
	}
}

func run(graphPath, tracePath string, withMemory, verbose bool, vtkPath string, vtkShape []int, vtkElem int) error {
	desc, err := config.Load(graphPath)
	if err != nil {
		return fmt.Errorf("load graph: %w", err)
	}

	sim, err := desc.Build()
	if err != nil {
		return fmt.Errorf("build graph: %w", err)
	}

	var levels []*cache.Level
	for lvl := range sim.Levels() {
		levels = append(levels, lvl)
	}
	if verbose {
		fmt.Printf("Loaded cache graph: %s\n", graphPath)
		fmt.Printf("Levels: %d\n", len(levels))
	}

	ops, err := trace.Load(tracePath)
	if err != nil {
		return fmt.Errorf("load trace: %w", err)
	}
	trace.Replay(sim, ops)

	for _, s := range sim.Stats(withMemory) {
		fmt.Printf("%-8s %s\n", s.Name, s.Counters)
	}

	if vtkPath != "" {
		w := visualize.Writer{Shape: vtkShape, ElementSize: vtkElem}
		if err := w.Write(vtkPath, levels); err != nil {
			return fmt.Errorf("write vtk snapshot: %w", err)
		}
	}
	return nil
}
