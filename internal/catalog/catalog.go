// Package catalog aggregates part descriptors from every module into one
// immutable value.
//
// Parts are keyed by identity. When an identity is declared more than once,
// the declaration that comes first in canonical order (module name, then
// declaration ordinal) is kept and every other one is recorded as a
// DuplicateIdentity error. Because the winner does not depend on the order in
// which batches arrive, merging is commutative. Re-adding a declaration that
// is already present is a no-op.
package catalog

import (
	"errors"
	"fmt"
	"slices"

	"github.com/vk/partgrid/internal/contract"
	"github.com/vk/partgrid/internal/diagnostics"
	"github.com/vk/partgrid/internal/part"
)

// ProviderPartID is the identity of the built-in part through which the
// provider exposes itself.
const ProviderPartID = "partgrid.provider"

// ProviderContract is exported by the built-in provider part.
var ProviderContract = contract.ID{Type: "partgrid.ExportProvider"}

var (
	ErrBuiltinsRegistered = errors.New("built-in parts are already registered")
	ErrBuiltinsAfterParts = errors.New("built-in parts must be registered before any module parts")
)

// Catalog is an immutable set of part descriptors plus accumulated discovery
// errors. Every mutating operation returns a new value.
type Catalog struct {
	// decls holds every declaration per identity in canonical order; the
	// first entry is the one that is kept.
	decls      map[string][]*part.Descriptor
	discovered []*diagnostics.DiscoveryError
	builtins   bool

	parts []*part.Descriptor
	byID  map[string]*part.Descriptor
	errs  []*diagnostics.DiscoveryError
}

// Create returns an empty catalog.
func Create() *Catalog {
	return &Catalog{
		decls: make(map[string][]*part.Descriptor),
		byID:  make(map[string]*part.Descriptor),
	}
}

// WithBuiltins registers the built-in parts. It may be called once, and only
// while the catalog holds no parts.
func (c *Catalog) WithBuiltins() (*Catalog, error) {
	if c.builtins {
		return nil, ErrBuiltinsRegistered
	}
	if len(c.decls) > 0 {
		return nil, ErrBuiltinsAfterParts
	}
	next := c.AddParts([]*part.Descriptor{{
		ID:       ProviderPartID,
		Creation: part.External,
		Exports:  []part.ExportDescriptor{{Contract: ProviderContract, Part: ProviderPartID}},
	}}, nil)
	next.builtins = true
	return next, nil
}

// AddParts returns a new catalog with the given descriptors and discovery
// errors merged in. The receiver is left untouched.
func (c *Catalog) AddParts(parts []*part.Descriptor, errs []*diagnostics.DiscoveryError) *Catalog {
	next := &Catalog{
		decls:    make(map[string][]*part.Descriptor, len(c.decls)+len(parts)),
		builtins: c.builtins,
	}
	for id, ds := range c.decls {
		next.decls[id] = slices.Clone(ds)
	}

	for _, p := range parts {
		ds := next.decls[p.ID]
		if slices.ContainsFunc(ds, func(d *part.Descriptor) bool {
			return d.Module == p.Module && d.Ordinal == p.Ordinal
		}) {
			continue
		}
		ds = append(ds, p)
		slices.SortFunc(ds, compareParts)
		next.decls[p.ID] = ds
	}

	next.discovered = slices.Clone(c.discovered)
	for _, e := range errs {
		if !slices.ContainsFunc(next.discovered, func(d *diagnostics.DiscoveryError) bool {
			return diagnostics.CompareDiscovery(d, e) == 0
		}) {
			next.discovered = append(next.discovered, e)
		}
	}

	next.rebuild()
	return next
}

// rebuild derives the winners and the full error list from decls.
func (c *Catalog) rebuild() {
	c.parts = make([]*part.Descriptor, 0, len(c.decls))
	c.byID = make(map[string]*part.Descriptor, len(c.decls))
	c.errs = slices.Clone(c.discovered)

	for id, ds := range c.decls {
		winner := ds[0]
		c.parts = append(c.parts, winner)
		c.byID[id] = winner
		for _, loser := range ds[1:] {
			c.errs = append(c.errs, &diagnostics.DiscoveryError{
				Kind:   diagnostics.DuplicateIdentity,
				Module: loser.Module,
				Part:   id,
				Detail: duplicateDetail(winner),
			})
		}
	}

	slices.SortFunc(c.parts, compareParts)
	slices.SortFunc(c.errs, diagnostics.CompareDiscovery)
}

func duplicateDetail(winner *part.Descriptor) string {
	if winner.Module == "" {
		return "identity is reserved by a built-in part"
	}
	return fmt.Sprintf("already declared in module %q", winner.Module)
}

func compareParts(a, b *part.Descriptor) int {
	switch {
	case a.Before(b):
		return -1
	case b.Before(a):
		return 1
	}
	return 0
}

// Parts returns the kept descriptors in canonical order: built-ins first,
// then by module name and declaration order.
func (c *Catalog) Parts() []*part.Descriptor {
	return slices.Clone(c.parts)
}

// Part looks up a descriptor by identity.
func (c *Catalog) Part(id string) (*part.Descriptor, bool) {
	p, ok := c.byID[id]
	return p, ok
}

// Len returns the number of distinct part identities.
func (c *Catalog) Len() int {
	return len(c.parts)
}

// Errors returns every discovery error, including duplicate identities, in
// canonical order.
func (c *Catalog) Errors() []*diagnostics.DiscoveryError {
	return slices.Clone(c.errs)
}

// HasErrors reports whether resolution must not proceed.
func (c *Catalog) HasErrors() bool {
	return len(c.errs) > 0
}

// HasBuiltins reports whether the built-in parts are registered.
func (c *Catalog) HasBuiltins() bool {
	return c.builtins
}
