// Package cache implements a trace-driven, functional simulator of a
// multi-level cache hierarchy: set-associative levels wired into a graph
// by load_from/store_to/victims_to edges, each tracking hit/miss/load/
// store/evict traffic under one of four replacement policies and one of
// four write policies.
//
// The engine is purely functional: it never measures or models time, only
// traffic. Build a graph with FromDescription, drive it with Load/Store/
// IterLoad/IterStore/LoadStore, and read back Stats.
package cache
