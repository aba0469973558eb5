// Package container implements the export provider: it answers lookups
// against a compiled composition by constructing part instances on demand.
//
// Shared parts are built at most once per provider. Concurrent first
// requests for the same shared part wait on the single in-flight
// construction; requests for different parts never contend. A failed
// construction is returned to its callers and is not cached, so a later
// request tries again.
//
// Lazy imports reach constructors as part.Lazy handles. A handle constructs
// its target on first Get, which is what lets parts refer to each other.
// When a Get would have to wait for a construction that is itself waiting,
// directly or through other goroutines, for the caller, it fails with
// ErrConstructionCycle instead of blocking forever.
package container
