// Package app contains the core application logic. It defines the App
// struct, its configuration and the run lifecycle: composing the requested
// modules, resolving the requested exports and optionally serving the
// introspection API. It is decoupled from any specific entrypoint.
package app
