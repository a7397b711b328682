// Package config loads cache graph descriptions from YAML, in the shape
// spec.md §4.5 describes: a named map of levels, each with its geometry,
// write policy and edge targets.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sarchlab/cachesim/cache"
)

// LevelConfig is the YAML wire shape of one cache.NodeSpec. Grounded on
// timing/latency/config.go's flat, tagged config struct, adapted from JSON
// to YAML per spec.md's worked examples (§8's graphs are all given as
// YAML-ish key/value blocks).
type LevelConfig struct {
	Sets   int `yaml:"sets"`
	Ways   int `yaml:"ways"`
	CLSize int `yaml:"cl_size"`

	ReplacementPolicy string `yaml:"replacement_policy"`

	WriteBack      bool `yaml:"write_back"`
	WriteAllocate  bool `yaml:"write_allocate"`
	WriteCombining bool `yaml:"write_combining"`
	SubblockSize   int  `yaml:"subblock_size,omitempty"`

	SwapOnLoad bool `yaml:"swap_on_load,omitempty"`

	LoadFrom  string `yaml:"load_from,omitempty"`
	StoreTo   string `yaml:"store_to,omitempty"`
	VictimsTo string `yaml:"victims_to,omitempty"`
}

// Graph is a parsed, not-yet-validated cache graph description: a named
// map of levels, keyed the same way FromDescription expects.
type Graph map[string]LevelConfig

// Load reads and parses a YAML graph description from path. It does not
// validate the graph; call Build (or cache.FromDescription directly) to
// catch configuration faults.
func Load(path string) (Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read cache graph config: %w", err)
	}

	var g Graph
	if err := yaml.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("parse cache graph config: %w", err)
	}
	return g, nil
}

// Save writes the graph description back out as YAML, e.g. to capture a
// generated or edited topology.
func (g Graph) Save(path string) error {
	data, err := yaml.Marshal(g)
	if err != nil {
		return fmt.Errorf("serialize cache graph config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write cache graph config: %w", err)
	}
	return nil
}

// Clone returns a deep copy of the graph description.
func (g Graph) Clone() Graph {
	out := make(Graph, len(g))
	for name, lvl := range g {
		out[name] = lvl
	}
	return out
}

// Build converts the parsed description into a cache.Simulator, surfacing
// every configuration fault cache.FromDescription can detect (spec.md §7).
func (g Graph) Build() (*cache.Simulator, error) {
	desc := make(map[string]cache.NodeSpec, len(g))
	for name, lvl := range g {
		desc[name] = cache.NodeSpec{
			Sets:              lvl.Sets,
			Ways:              lvl.Ways,
			CLSize:            lvl.CLSize,
			ReplacementPolicy: lvl.ReplacementPolicy,
			WriteBack:         lvl.WriteBack,
			WriteAllocate:     lvl.WriteAllocate,
			WriteCombining:    lvl.WriteCombining,
			SubblockSize:      lvl.SubblockSize,
			SwapOnLoad:        lvl.SwapOnLoad,
			LoadFrom:          lvl.LoadFrom,
			StoreTo:           lvl.StoreTo,
			VictimsTo:         lvl.VictimsTo,
		}
	}
	return cache.FromDescription(desc)
}
