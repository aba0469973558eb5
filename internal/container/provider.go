package container

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/vk/partgrid/internal/catalog"
	"github.com/vk/partgrid/internal/composition"
	"github.com/vk/partgrid/internal/contract"
	"github.com/vk/partgrid/internal/diagnostics"
	"github.com/vk/partgrid/internal/part"
)

// cell holds the single construction of a shared part. value and err are
// written once, before done is closed.
type cell struct {
	done  chan struct{}
	owner *frame
	value any
	err   error
}

// Provider lazily instantiates the parts of a composition.
type Provider struct {
	comp       *composition.Composition
	logger     *slog.Logger
	instances  map[string]any
	registerer prometheus.Registerer
	metrics    *metrics

	// cells maps a shared part ID to its *cell.
	cells sync.Map

	waitMu sync.Mutex
	waits  map[*wait]struct{}
}

// New creates a provider for the composition.
func New(comp *composition.Composition, opts ...Option) *Provider {
	p := &Provider{
		comp:      comp,
		logger:    slog.Default(),
		instances: make(map[string]any),
		waits:     make(map[*wait]struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.metrics = newMetrics(p.registerer)

	for id := range p.instances {
		rp, ok := comp.Part(id)
		switch {
		case !ok:
			p.logger.Warn("Instance supplied for an unknown part.", "part", id)
		case rp.Creation != part.External:
			p.logger.Warn("Instance supplied for a constructible part is ignored.", "part", id)
		}
	}
	return p
}

// Composition returns the plan the provider executes.
func (p *Provider) Composition() *composition.Composition {
	return p.comp
}

// GetExport returns the instance of the single part exporting c.
func (p *Provider) GetExport(ctx context.Context, c contract.ID) (any, error) {
	exporters := p.comp.Exporters(c)
	switch len(exporters) {
	case 0:
		return nil, fmt.Errorf("%w: %q", ErrExportNotFound, c)
	case 1:
		return p.instance(ctx, exporters[0])
	}
	ids := make([]string, len(exporters))
	for i, e := range exporters {
		ids[i] = e.ID
	}
	return nil, fmt.Errorf("%w: %q is exported by %v", ErrAmbiguousExport, c, ids)
}

// GetExports returns the instances of every part exporting c, in catalog
// order. No exporter yields an empty result.
func (p *Provider) GetExports(ctx context.Context, c contract.ID) ([]any, error) {
	exporters := p.comp.Exporters(c)
	out := make([]any, 0, len(exporters))
	for _, e := range exporters {
		v, err := p.instance(ctx, e)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Get is GetExport with a type assertion.
func Get[T any](ctx context.Context, p *Provider, c contract.ID) (T, error) {
	var zero T
	v, err := p.GetExport(ctx, c)
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("export %q is %T, not %T", c, v, zero)
	}
	return t, nil
}

// Instantiated reports whether a shared part has a cached instance.
func (p *Provider) Instantiated(partID string) bool {
	v, ok := p.cells.Load(partID)
	if !ok {
		return false
	}
	c := v.(*cell)
	select {
	case <-c.done:
		return c.err == nil
	default:
		return false
	}
}

func (p *Provider) instance(ctx context.Context, rp *composition.Part) (any, error) {
	if rp.Creation == part.External {
		return p.external(rp)
	}

	caller := p.frameFrom(ctx)
	if caller.building(rp.ID) {
		return nil, &diagnostics.InstantiationError{
			Part: rp.ID,
			Err:  fmt.Errorf("%w: %s", ErrConstructionCycle, caller.path(rp.ID)),
		}
	}

	self := caller.child(rp.ID)
	if rp.Sharing == part.NonShared {
		defer self.finish()
		return p.construct(self.with(ctx), rp)
	}
	return p.shared(ctx, caller, self, rp)
}

func (p *Provider) shared(ctx context.Context, caller, self *frame, rp *composition.Part) (any, error) {
	fresh := &cell{done: make(chan struct{}), owner: self}
	actual, loaded := p.cells.LoadOrStore(rp.ID, fresh)
	c := actual.(*cell)

	if !loaded {
		c.value, c.err = p.construct(self.with(ctx), rp)
		self.finish()
		if c.err != nil {
			p.cells.CompareAndDelete(rp.ID, c)
		}
		close(c.done)
		return c.value, c.err
	}

	select {
	case <-c.done:
		return c.value, c.err
	default:
	}

	w, ok := p.beginWait(caller, c.owner)
	if !ok {
		return nil, &diagnostics.InstantiationError{
			Part: rp.ID,
			Err:  fmt.Errorf("%w: %q is being constructed by a request that waits on this one", ErrConstructionCycle, rp.ID),
		}
	}
	p.logger.Debug("Waiting for in-flight construction.", "part", rp.ID)
	<-c.done
	p.endWait(w)
	return c.value, c.err
}

func (p *Provider) external(rp *composition.Part) (any, error) {
	if rp.ID == catalog.ProviderPartID {
		return p, nil
	}
	if v, ok := p.instances[rp.ID]; ok {
		return v, nil
	}
	return nil, &diagnostics.InstantiationError{
		Part: rp.ID,
		Err:  fmt.Errorf("%w: external part has no supplied instance", ErrNotConstructible),
	}
}

// construct runs one construction. ctx carries the frame of rp itself.
func (p *Provider) construct(ctx context.Context, rp *composition.Part) (any, error) {
	logger := p.logger.With("part", rp.ID)
	if rp.Constructor == nil {
		return nil, &diagnostics.InstantiationError{
			Part: rp.ID,
			Err:  fmt.Errorf("%w: constructor %q is not registered", ErrNotConstructible, rp.ConstructorName),
		}
	}

	in := &inputs{
		part:     rp.ID,
		settings: rp.Settings,
		eager:    make(map[contract.ID][]any, len(rp.Eager)),
		lazy:     make(map[contract.ID][]part.Lazy, len(rp.Lazy)),
	}
	for _, dep := range rp.Eager {
		values := make([]any, 0, len(dep.Suppliers))
		for _, s := range dep.Suppliers {
			v, err := p.instance(ctx, s)
			if err != nil {
				return nil, &diagnostics.InstantiationError{
					Part: rp.ID,
					Err:  fmt.Errorf("resolving %q: %w", dep.Contract, err),
				}
			}
			values = append(values, v)
		}
		in.eager[dep.Contract] = values
	}
	for _, dep := range rp.Lazy {
		handles := make([]part.Lazy, 0, len(dep.Suppliers))
		for _, s := range dep.Suppliers {
			handles = append(handles, &lazyRef{provider: p, target: s})
		}
		in.lazy[dep.Contract] = handles
	}

	logger.Debug("Constructing part.", "constructor", rp.ConstructorName, "sharing", rp.Sharing.String())
	start := time.Now()
	v, err := call(ctx, rp.Constructor, in)
	p.metrics.observe(rp.ID, time.Since(start), err)
	if err != nil {
		logger.Debug("Part construction failed.", "error", err)
		return nil, &diagnostics.InstantiationError{Part: rp.ID, Err: err}
	}
	return v, nil
}

// call invokes a constructor, turning a panic or a nil instance into an error.
func call(ctx context.Context, fn part.Constructor, in part.Inputs) (v any, err error) {
	defer func() {
		if r := recover(); r != nil {
			v, err = nil, fmt.Errorf("constructor panicked: %v", r)
		}
	}()
	v, err = fn(ctx, in)
	if err == nil && v == nil {
		err = fmt.Errorf("constructor returned a nil instance")
	}
	return v, err
}
