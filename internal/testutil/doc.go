// Package testutil holds shared helpers for package and integration tests:
// an on-disk module harness and instrumented test modules.
package testutil
