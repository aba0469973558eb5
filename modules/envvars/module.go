// Package envvars provides an Environment part: a snapshot of the process
// environment taken when the part is constructed.
package envvars

import (
	"context"
	"os"
	"sort"
	"strings"

	"github.com/vk/partgrid/internal/contract"
	"github.com/vk/partgrid/internal/part"
	"github.com/vk/partgrid/internal/registry"
)

// Contract is the contract environment parts are expected to export.
var Contract = contract.MustParse("Environment")

// Module implements the registry.Module interface for this package.
type Module struct {
	// Environ lists variables as KEY=VALUE pairs. Nil means os.Environ.
	Environ func() []string
}

// Environment is an immutable set of variables.
type Environment struct {
	vars map[string]string
}

// Lookup returns the value of key and whether it is set.
func (e *Environment) Lookup(key string) (string, bool) {
	v, ok := e.vars[key]
	return v, ok
}

// Get returns the value of key, or fallback when it is unset.
func (e *Environment) Get(key, fallback string) string {
	if v, ok := e.vars[key]; ok {
		return v
	}
	return fallback
}

// Keys returns the variable names in sorted order.
func (e *Environment) Keys() []string {
	keys := make([]string, 0, len(e.vars))
	for k := range e.vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// All returns a copy of every variable.
func (e *Environment) All() map[string]string {
	out := make(map[string]string, len(e.vars))
	for k, v := range e.vars {
		out[k] = v
	}
	return out
}

// NewEnvironment snapshots the environment. With a "prefix" setting only
// variables starting with it are kept, and the prefix is stripped from
// their names.
func (m *Module) NewEnvironment(_ context.Context, in part.Inputs) (any, error) {
	environ := m.Environ
	if environ == nil {
		environ = os.Environ
	}
	prefix := in.Settings().String("prefix", "")

	vars := make(map[string]string)
	for _, e := range environ() {
		key, value, ok := strings.Cut(e, "=")
		if !ok {
			continue
		}
		if prefix != "" {
			if key, ok = strings.CutPrefix(key, prefix); !ok || key == "" {
				continue
			}
		}
		vars[key] = value
	}
	return &Environment{vars: vars}, nil
}

// Register registers the constructor with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterConstructor("NewEnvironment", m.NewEnvironment)
}
