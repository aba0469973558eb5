// Package loader locates and reads modules by logical name.
//
// A module is an opaque unit of declarations. The composition pipeline only
// depends on the Loader interface; how names map to storage is up to the
// implementation.
package loader

import (
	"context"
	"errors"
	"path"
	"strings"
)

// ErrNotFound is returned when no module matches a logical name.
var ErrNotFound = errors.New("module not found")

// Source is one declaration file belonging to a module.
type Source struct {
	Path  string
	Bytes []byte
}

// Module is the handle a loader hands to the discoverer.
type Module struct {
	Name    string
	Sources []Source
}

// Loader resolves a logical module name and loads its contents.
type Loader interface {
	ResolveAndLoad(ctx context.Context, name string) (*Module, error)
}

// validName rejects names that could escape the loader's root.
func validName(name string) bool {
	if name == "" || strings.HasPrefix(name, "/") || strings.Contains(name, "\\") {
		return false
	}
	for _, seg := range strings.Split(name, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return false
		}
	}
	return path.Clean(name) == name
}
