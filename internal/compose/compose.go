package compose

import (
	"context"
	"fmt"

	"github.com/vk/partgrid/internal/catalog"
	"github.com/vk/partgrid/internal/composition"
	"github.com/vk/partgrid/internal/container"
	"github.com/vk/partgrid/internal/ctxlog"
	"github.com/vk/partgrid/internal/diagnostics"
	"github.com/vk/partgrid/internal/discovery"
	"github.com/vk/partgrid/internal/loader"
	"github.com/vk/partgrid/internal/registry"
	"github.com/vk/partgrid/internal/resolver"
)

type options struct {
	discovery []discovery.Option
	provider  []container.Option
}

// Option configures a pipeline run.
type Option func(*options)

// WithConcurrency bounds how many modules are discovered at once.
func WithConcurrency(n int) Option {
	return func(o *options) { o.discovery = append(o.discovery, discovery.WithConcurrency(n)) }
}

// WithProviderOptions passes options through to the provider.
func WithProviderOptions(opts ...container.Option) Option {
	return func(o *options) { o.provider = append(o.provider, opts...) }
}

// All composes the named modules into a provider. A loader failure is
// returned as is, before any discovery. Discovery or composition problems
// are returned together as a *diagnostics.AggregateError.
func All(ctx context.Context, ld loader.Loader, names []string, reg *registry.Registry, opts ...Option) (*container.Provider, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	logger := ctxlog.FromContext(ctx)

	cat, err := buildCatalog(ctx, ld, names, reg, o)
	if err != nil {
		return nil, err
	}
	if cat.HasErrors() {
		return nil, &diagnostics.AggregateError{Discovery: cat.Errors()}
	}

	graph := resolver.Resolve(ctx, cat)
	if !graph.OK() {
		return nil, &diagnostics.AggregateError{Composition: graph.Errors()}
	}

	if unused := reg.Unused(cat.Parts()); len(unused) > 0 {
		logger.Debug("Registered constructors not referenced by any part.", "constructors", unused)
	}

	comp := composition.Compile(ctx, graph, reg)
	logger.Info("Composition ready.", "modules", len(names), "parts", len(comp.Parts()))

	provOpts := append([]container.Option{container.WithLogger(logger)}, o.provider...)
	return container.New(comp, provOpts...), nil
}

// Catalog loads, discovers and merges the named modules without resolving
// them. Discovery problems are left in the catalog's Errors.
func Catalog(ctx context.Context, ld loader.Loader, names []string, reg *registry.Registry, opts ...Option) (*catalog.Catalog, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	return buildCatalog(ctx, ld, names, reg, o)
}

func buildCatalog(ctx context.Context, ld loader.Loader, names []string, reg *registry.Registry, o *options) (*catalog.Catalog, error) {
	logger := ctxlog.FromContext(ctx)

	mods, err := load(ctx, ld, names)
	if err != nil {
		return nil, err
	}
	logger.Debug("Modules loaded.", "count", len(mods))

	results := discovery.New(reg, o.discovery...).DiscoverAll(ctx, mods)

	cat, err := catalog.Create().WithBuiltins()
	if err != nil {
		return nil, fmt.Errorf("seeding catalog: %w", err)
	}
	for _, res := range results {
		cat = cat.AddParts(res.Parts, res.Errors)
	}
	logger.Debug("Catalog merged.", "parts", cat.Len(), "errors", len(cat.Errors()))
	return cat, nil
}

// load resolves each distinct name in order and stops at the first failure.
func load(ctx context.Context, ld loader.Loader, names []string) ([]*loader.Module, error) {
	seen := make(map[string]bool, len(names))
	mods := make([]*loader.Module, 0, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true

		mod, err := ld.ResolveAndLoad(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("loading module %q: %w", name, err)
		}
		mods = append(mods, mod)
	}
	return mods, nil
}
