// Package compose runs the whole pipeline: it loads the named modules,
// discovers their parts concurrently, merges them into a catalog, resolves
// the dependency graph, compiles it and hands back a ready provider.
package compose
