// Package diagnostics defines the structured error records produced by the
// composition pipeline.
//
// Discovery and composition errors are collected, never returned on first
// occurrence, and surface to callers together inside an AggregateError.
// Instantiation errors are per-call failures returned by the provider.
package diagnostics
