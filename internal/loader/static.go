package loader

import (
	"context"
	"fmt"
	"sort"
)

// Static serves modules from memory, keyed by name. The value maps a source
// path to its contents.
type Static map[string]map[string]string

// ResolveAndLoad implements Loader.
func (s Static) ResolveAndLoad(_ context.Context, name string) (*Module, error) {
	files, ok := s[name]
	if !ok {
		return nil, fmt.Errorf("module %q: %w", name, ErrNotFound)
	}

	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	mod := &Module{Name: name, Sources: make([]Source, 0, len(paths))}
	for _, p := range paths {
		mod.Sources = append(mod.Sources, Source{Path: p, Bytes: []byte(files[p])})
	}
	return mod, nil
}
