// Package resolver binds every import in a catalog to the exports that can
// satisfy it and rejects configurations that can never be instantiated.
//
// Resolution is a pure function of the catalog and collects every problem
// in one pass: unresolved and ambiguous imports, and dependency cycles in
// which no edge is lazy.
package resolver

import (
	"context"
	"slices"

	"github.com/vk/partgrid/internal/catalog"
	"github.com/vk/partgrid/internal/ctxlog"
	"github.com/vk/partgrid/internal/dag"
	"github.com/vk/partgrid/internal/diagnostics"
	"github.com/vk/partgrid/internal/part"
)

// Binding is the outcome of resolving one import. Exports are in catalog
// order. A binding attached to a composition error carries no exports.
type Binding struct {
	Import  *part.ImportDescriptor
	Exports []*part.ExportDescriptor
}

// Graph is the resolved dependency graph of a catalog. It is never mutated
// after Resolve returns.
type Graph struct {
	catalog  *catalog.Catalog
	bindings map[string][]Binding
	deps     *dag.Graph
	errs     []*diagnostics.CompositionError
}

// Resolve computes bindings for every import of every part in the catalog.
func Resolve(ctx context.Context, cat *catalog.Catalog) *Graph {
	logger := ctxlog.FromContext(ctx)
	if cat.HasErrors() {
		logger.Warn("Resolving a catalog that carries discovery errors.", "errors", len(cat.Errors()))
	}

	parts := cat.Parts()
	var exports []*part.ExportDescriptor
	for _, p := range parts {
		for i := range p.Exports {
			exports = append(exports, &p.Exports[i])
		}
	}

	g := &Graph{
		catalog:  cat,
		bindings: make(map[string][]Binding, len(parts)),
		deps:     dag.New(),
	}
	eager := dag.New()
	for _, p := range parts {
		g.deps.AddNode(p.ID)
		eager.AddNode(p.ID)
	}

	for _, p := range parts {
		bindings := make([]Binding, 0, len(p.Imports))
		for i := range p.Imports {
			imp := &p.Imports[i]
			candidates := candidatesFor(imp, exports)

			if err := checkCardinality(imp, candidates); err != nil {
				logger.Debug("Import cannot be bound.", "part", p.ID, "import", imp.Contract.String(), "kind", err.Kind.String())
				g.errs = append(g.errs, err)
				bindings = append(bindings, Binding{Import: imp})
				continue
			}

			bindings = append(bindings, Binding{Import: imp, Exports: candidates})
			for _, e := range candidates {
				// Both endpoints are catalog parts, so AddEdge cannot fail.
				_ = g.deps.AddEdge(p.ID, e.Part)
				if !imp.Lazy {
					_ = eager.AddEdge(p.ID, e.Part)
				}
			}
		}
		g.bindings[p.ID] = bindings
	}

	for _, cycle := range eager.Cycles() {
		logger.Debug("Eager dependency cycle found.", "parts", cycle)
		g.errs = append(g.errs, &diagnostics.CompositionError{
			Kind:  diagnostics.CircularDependency,
			Cycle: cycle,
		})
	}

	logger.Debug("Catalog resolved.", "parts", len(parts), "errors", len(g.errs))
	return g
}

func candidatesFor(imp *part.ImportDescriptor, exports []*part.ExportDescriptor) []*part.ExportDescriptor {
	var out []*part.ExportDescriptor
	for _, e := range exports {
		if imp.Accepts(e) {
			out = append(out, e)
		}
	}
	return out
}

func checkCardinality(imp *part.ImportDescriptor, candidates []*part.ExportDescriptor) *diagnostics.CompositionError {
	switch {
	case imp.Cardinality == part.ExactlyOne && len(candidates) == 0:
		return &diagnostics.CompositionError{
			Kind:   diagnostics.Unresolved,
			Part:   imp.Part,
			Import: imp.Contract,
		}
	case imp.Cardinality != part.ZeroOrMore && len(candidates) > 1:
		names := make([]string, len(candidates))
		for i, e := range candidates {
			names[i] = e.Part
		}
		return &diagnostics.CompositionError{
			Kind:       diagnostics.Ambiguous,
			Part:       imp.Part,
			Import:     imp.Contract,
			Candidates: names,
		}
	}
	return nil
}

// Catalog returns the catalog the graph was resolved from.
func (g *Graph) Catalog() *catalog.Catalog {
	return g.catalog
}

// Bindings returns the binding of each import of a part, in import order.
func (g *Graph) Bindings(partID string) []Binding {
	return slices.Clone(g.bindings[partID])
}

// DependsOn returns the sorted IDs of the parts a part imports from, through
// eager and lazy imports alike.
func (g *Graph) DependsOn(partID string) []string {
	deps, err := g.deps.Dependencies(partID)
	if err != nil {
		return nil
	}
	return deps
}

// Dependents returns the sorted IDs of the parts importing from a part.
func (g *Graph) Dependents(partID string) []string {
	deps, err := g.deps.Dependents(partID)
	if err != nil {
		return nil
	}
	return deps
}

// Errors returns every composition error found.
func (g *Graph) Errors() []*diagnostics.CompositionError {
	return slices.Clone(g.errs)
}

// OK reports whether the graph can be compiled.
func (g *Graph) OK() bool {
	return len(g.errs) == 0
}
