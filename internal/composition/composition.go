// Package composition compiles a resolved graph into the runtime plan the
// provider executes.
//
// Every binding becomes a direct pointer between runtime parts, and each
// part's imports are split into eager dependencies (needed before the
// constructor runs) and lazy ones (handed to the constructor as deferred
// handles). Nothing downstream matches contracts again.
package composition

import (
	"context"
	"fmt"

	"github.com/vk/partgrid/internal/contract"
	"github.com/vk/partgrid/internal/ctxlog"
	"github.com/vk/partgrid/internal/part"
	"github.com/vk/partgrid/internal/registry"
	"github.com/vk/partgrid/internal/resolver"
)

// Dependency is one compiled import.
type Dependency struct {
	Contract    contract.ID
	Cardinality part.Cardinality
	// Suppliers are the parts bound to the import, in binding order.
	Suppliers []*Part
}

// Part is the runtime form of a part descriptor.
type Part struct {
	ID       string
	Module   string
	Sharing  part.Sharing
	Creation part.CreationPolicy
	Settings part.Metadata
	Exports  []contract.ID

	// ConstructorName is kept for diagnostics. Constructor is nil for
	// external parts and for names the registry does not know.
	ConstructorName string
	Constructor     part.Constructor

	Eager []*Dependency
	Lazy  []*Dependency

	// DependsOn and Dependents are the sorted part IDs on either side of
	// this part's bindings, eager and lazy alike.
	DependsOn  []string
	Dependents []string
}

// Composition is an immutable runtime plan.
type Composition struct {
	parts     []*Part
	byID      map[string]*Part
	exporters map[contract.ID][]*Part
}

// Compile converts a resolved graph into a Composition. Constructors are
// looked up in reg once, here.
//
// Compile panics when the graph carries composition errors: callers must
// check Graph.OK first.
func Compile(ctx context.Context, g *resolver.Graph, reg *registry.Registry) *Composition {
	if !g.OK() {
		panic(fmt.Sprintf("composition: cannot compile a graph with %d composition error(s)", len(g.Errors())))
	}
	logger := ctxlog.FromContext(ctx)

	descs := g.Catalog().Parts()
	c := &Composition{
		parts:     make([]*Part, 0, len(descs)),
		byID:      make(map[string]*Part, len(descs)),
		exporters: make(map[contract.ID][]*Part),
	}

	// First pass: one runtime part per descriptor, so bindings can point
	// at any of them regardless of order.
	for _, d := range descs {
		rp := &Part{
			ID:              d.ID,
			Module:          d.Module,
			Sharing:         d.Sharing,
			Creation:        d.Creation,
			Settings:        d.Settings,
			ConstructorName: d.Constructor,
			DependsOn:       g.DependsOn(d.ID),
			Dependents:      g.Dependents(d.ID),
		}
		if d.Creation == part.Constructible {
			if fn, ok := reg.Constructor(d.Constructor); ok {
				rp.Constructor = fn
			} else {
				logger.Warn("Part constructor is not registered; instantiation will fail.", "part", d.ID, "constructor", d.Constructor)
			}
		}
		for _, e := range d.Exports {
			rp.Exports = append(rp.Exports, e.Contract)
			c.exporters[e.Contract] = append(c.exporters[e.Contract], rp)
		}
		c.parts = append(c.parts, rp)
		c.byID[rp.ID] = rp
	}

	// Second pass: link bindings.
	for _, rp := range c.parts {
		for _, b := range g.Bindings(rp.ID) {
			dep := &Dependency{
				Contract:    b.Import.Contract,
				Cardinality: b.Import.Cardinality,
				Suppliers:   make([]*Part, 0, len(b.Exports)),
			}
			for _, e := range b.Exports {
				dep.Suppliers = append(dep.Suppliers, c.byID[e.Part])
			}
			if b.Import.Lazy {
				rp.Lazy = append(rp.Lazy, dep)
			} else {
				rp.Eager = append(rp.Eager, dep)
			}
		}
	}

	logger.Debug("Composition compiled.", "parts", len(c.parts), "contracts", len(c.exporters))
	return c
}

// Parts returns every runtime part in catalog order.
func (c *Composition) Parts() []*Part {
	out := make([]*Part, len(c.parts))
	copy(out, c.parts)
	return out
}

// Part looks up a runtime part by identity.
func (c *Composition) Part(id string) (*Part, bool) {
	p, ok := c.byID[id]
	return p, ok
}

// Exporters returns the parts exporting a contract, in catalog order.
func (c *Composition) Exporters(id contract.ID) []*Part {
	ps := c.exporters[id]
	out := make([]*Part, len(ps))
	copy(out, ps)
	return out
}
