// Package registry provides the central "glue" between part declarations and
// Go code.
//
// The Registry maps the constructor names used in declarations (e.g.
// "NewConsoleLogger") to the compiled Go functions that build part instances.
// Go packages contribute constructors by implementing Module; the discoverer
// uses the registry to reject declarations naming unknown constructors, and
// the compiler binds each runtime part to its function so the provider never
// looks names up again.
package registry
