package registry

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/vk/partgrid/internal/part"
)

// Module is the interface that all Go modules must implement to contribute
// constructors.
type Module interface {
	Register(r *Registry)
}

// Registry holds all the registered constructors for a single application
// instance. It is populated once at startup and read-only afterwards.
type Registry struct {
	constructors map[string]part.Constructor
}

// New creates and initializes a new Registry instance, registering the
// given modules in order.
func New(modules ...Module) *Registry {
	r := &Registry{
		constructors: make(map[string]part.Constructor),
	}
	for _, mod := range modules {
		mod.Register(r)
	}
	return r
}

// RegisterConstructor registers the Go function behind a constructor name.
// Registering the same name twice is a programming error and panics.
func (r *Registry) RegisterConstructor(name string, fn part.Constructor) {
	if name == "" {
		panic("constructor name must not be empty")
	}
	if fn == nil {
		panic(fmt.Sprintf("constructor '%s' registered with a nil function", name))
	}
	if _, exists := r.constructors[name]; exists {
		panic(fmt.Sprintf("constructor with name '%s' already registered", name))
	}
	slog.Debug("Registering constructor.", "name", name)
	r.constructors[name] = fn
}

// Constructor looks up a registered constructor.
func (r *Registry) Constructor(name string) (part.Constructor, bool) {
	if r == nil {
		return nil, false
	}
	fn, ok := r.constructors[name]
	return fn, ok
}

// Names returns every registered constructor name in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.constructors))
	for name := range r.constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Unused returns the registered constructor names that none of the given
// descriptors refer to, in sorted order.
func (r *Registry) Unused(parts []*part.Descriptor) []string {
	used := make(map[string]struct{}, len(parts))
	for _, p := range parts {
		if p.Constructor != "" {
			used[p.Constructor] = struct{}{}
		}
	}
	var unused []string
	for _, name := range r.Names() {
		if _, ok := used[name]; !ok {
			unused = append(unused, name)
		}
	}
	return unused
}
