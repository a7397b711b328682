package cache

import "fmt"

// NodeSpec describes one cache level and its wiring, independent of any
// serialization format (config.Load parses YAML/JSON into a config.Graph,
// which Graph.Build converts into a map of these).
// Grounded on timing/latency/config.go's flat, exported-field config
// structs, generalized from a single linear stage list to spec.md §4.5's
// named graph with three optional edge targets.
type NodeSpec struct {
	Sets   int
	Ways   int
	CLSize int

	ReplacementPolicy string

	WriteBack      bool
	WriteAllocate  bool
	WriteCombining bool
	SubblockSize   int

	SwapOnLoad bool

	LoadFrom  string
	StoreTo   string
	VictimsTo string
}

// FromDescription builds a Simulator from a named set of NodeSpecs,
// validating every configuration-fault class spec.md §7 lists: malformed
// geometry, an unknown replacement policy, an illegal write-policy
// combination, a missing or duplicate first level, a dangling edge target,
// a non-monotone cache-line size, and a graph cycle.
func FromDescription(desc map[string]NodeSpec) (*Simulator, error) {
	if len(desc) == 0 {
		return nil, fmt.Errorf("cache graph: %w", ErrEmptyGraph)
	}

	levels := make(map[string]*Level, len(desc))
	for name, spec := range desc {
		write, err := NewWritePolicy(spec.WriteBack, spec.WriteAllocate, spec.WriteCombining)
		if err != nil {
			return nil, fmt.Errorf("level %q: %w", name, err)
		}
		policy, err := ParsePolicy(spec.ReplacementPolicy)
		if err != nil {
			return nil, fmt.Errorf("level %q: %w", name, err)
		}
		lvl, err := NewLevel(name, spec.Sets, spec.Ways, spec.CLSize, policy, write, spec.SubblockSize, spec.SwapOnLoad)
		if err != nil {
			return nil, err
		}
		levels[name] = lvl
	}

	referenced := map[string]bool{}
	for name, spec := range desc {
		for _, target := range []struct{ kind, to string }{
			{"load_from", spec.LoadFrom},
			{"store_to", spec.StoreTo},
			{"victims_to", spec.VictimsTo},
		} {
			if target.to == "" {
				continue
			}
			dst, ok := levels[target.to]
			if !ok {
				return nil, fmt.Errorf("level %q: %s: %w: %q", name, target.kind, ErrMissingEdgeTarget, target.to)
			}
			src := levels[name]
			if target.kind == "victims_to" {
				if dst.CLSize() != src.CLSize() {
					return nil, fmt.Errorf("level %q: %w: %d != %d", name, ErrVictimLineSizeDiffer, src.CLSize(), dst.CLSize())
				}
			} else if dst.CLSize() < src.CLSize() {
				return nil, fmt.Errorf("level %q: %s: %w: %d < %d", name, target.kind, ErrLineSizeNotMonotone, dst.CLSize(), src.CLSize())
			}
			switch target.kind {
			case "load_from":
				src.loadFrom = dst
			case "store_to":
				src.storeTo = dst
			case "victims_to":
				src.victimsTo = dst
			}
			referenced[target.to] = true
		}
	}

	var firstName string
	firstCount := 0
	for name := range levels {
		if !referenced[name] {
			firstName = name
			firstCount++
		}
	}
	if firstCount != 1 {
		return nil, fmt.Errorf("cache graph: %w (found %d candidate first levels)", ErrNoFirstLevel, firstCount)
	}
	first := levels[firstName]

	if err := detectCycle(levels); err != nil {
		return nil, err
	}

	lastLoad := first
	for lastLoad.loadFrom != nil {
		lastLoad = lastLoad.loadFrom
	}
	lastStore := storeChainEnd(first)

	return NewSimulator(first, NewMainMemory(lastLoad, lastStore)), nil
}

// storeChainEnd follows the same edge a displaced line would take, mirroring
// evict()'s own priority: victims_to wins over store_to whenever both are
// set. The level it terminates at is the true source of memory-bound store
// traffic for MainMemory.Stats, not merely the end of the store_to chain.
func storeChainEnd(l *Level) *Level {
	for {
		switch {
		case l.victimsTo != nil:
			l = l.victimsTo
		case l.storeTo != nil:
			l = l.storeTo
		default:
			return l
		}
	}
}

// detectCycle walks every node's three edges looking for a repeat visit
// within a single path, per spec.md §4.5 ("the graph is acyclic").
func detectCycle(levels map[string]*Level) error {
	const (
		unvisited = 0
		visiting  = 1
		done      = 2
	)
	state := make(map[*Level]int, len(levels))

	var walk func(l *Level) error
	walk = func(l *Level) error {
		switch state[l] {
		case done:
			return nil
		case visiting:
			return fmt.Errorf("level %q: %w", l.Name(), ErrGraphCycle)
		}
		state[l] = visiting
		for _, next := range []*Level{l.loadFrom, l.storeTo, l.victimsTo} {
			if next == nil {
				continue
			}
			if err := walk(next); err != nil {
				return err
			}
		}
		state[l] = done
		return nil
	}

	for _, l := range levels {
		if err := walk(l); err != nil {
			return err
		}
	}
	return nil
}
