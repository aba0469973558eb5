package discovery

import (
	"context"
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/partgrid/internal/ctxlog"
	"github.com/vk/partgrid/internal/diagnostics"
	"github.com/vk/partgrid/internal/loader"
	"github.com/vk/partgrid/internal/part"
	"github.com/vk/partgrid/internal/registry"
	"golang.org/x/sync/errgroup"
)

// Result is the outcome of discovering one module.
type Result struct {
	Module string
	Parts  []*part.Descriptor
	Errors []*diagnostics.DiscoveryError
}

// Discoverer translates module declarations into descriptors. It holds no
// mutable state and is safe for concurrent use.
type Discoverer struct {
	registry *registry.Registry
	limit    int
}

// Option configures a Discoverer.
type Option func(*Discoverer)

// WithConcurrency bounds the number of modules DiscoverAll inspects at once.
// Zero or less means one task per module with no bound.
func WithConcurrency(n int) Option {
	return func(d *Discoverer) { d.limit = n }
}

// New creates a Discoverer validating constructor names against reg.
func New(reg *registry.Registry, opts ...Option) *Discoverer {
	d := &Discoverer{registry: reg}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Discover inspects one module. It never fails as a whole: problems are
// reported in the result's Errors.
func (d *Discoverer) Discover(ctx context.Context, mod *loader.Module) Result {
	logger := ctxlog.FromContext(ctx).With("module", mod.Name)
	logger.Debug("Discovering module.", "sources", len(mod.Sources))

	res := Result{Module: mod.Name}
	parser := hclparse.NewParser()

	var blocks []*partBlock
	for _, src := range mod.Sources {
		file, diags := parser.ParseHCL(src.Bytes, src.Path)
		if diags.HasErrors() {
			logger.Warn("Module is unreadable.", "source", src.Path, "error", diags.Error())
			return unreadable(mod.Name, fmt.Sprintf("parsing %s: %s", src.Path, diags.Error()))
		}

		var root fileRoot
		if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
			logger.Warn("Module is unreadable.", "source", src.Path, "error", diags.Error())
			return unreadable(mod.Name, fmt.Sprintf("decoding %s: %s", src.Path, diags.Error()))
		}
		blocks = append(blocks, root.Parts...)
	}

	for ordinal, block := range blocks {
		desc, err := d.decodePart(mod.Name, ordinal, block)
		if err != nil {
			logger.Debug("Skipping malformed part.", "part", block.ID, "error", err)
			res.Errors = append(res.Errors, &diagnostics.DiscoveryError{
				Kind:   diagnostics.MalformedDeclaration,
				Module: mod.Name,
				Part:   block.ID,
				Detail: err.Error(),
			})
			continue
		}
		res.Parts = append(res.Parts, desc)
	}

	logger.Debug("Module discovered.", "parts", len(res.Parts), "errors", len(res.Errors))
	return res
}

func unreadable(module, detail string) Result {
	return Result{
		Module: module,
		Errors: []*diagnostics.DiscoveryError{{
			Kind:   diagnostics.Unreadable,
			Module: module,
			Detail: detail,
		}},
	}
}

// DiscoverAll runs Discover for every module concurrently and waits for all
// of them; a failing module never cancels its siblings. Results are returned
// sorted by module name regardless of completion order.
func (d *Discoverer) DiscoverAll(ctx context.Context, mods []*loader.Module) []Result {
	results := make([]Result, len(mods))

	var g errgroup.Group
	if d.limit > 0 {
		g.SetLimit(d.limit)
	}
	for i, mod := range mods {
		g.Go(func() error {
			results[i] = d.Discover(ctx, mod)
			return nil
		})
	}
	_ = g.Wait()

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Module < results[j].Module
	})
	return results
}
