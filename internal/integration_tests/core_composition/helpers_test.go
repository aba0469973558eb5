package integration_tests

import (
	"context"
	"sync"

	"github.com/vk/partgrid/internal/contract"
	"github.com/vk/partgrid/internal/part"
	"github.com/vk/partgrid/internal/registry"
)

type node struct {
	id   string
	deps []any
	lazy []part.Lazy
}

// graphModule registers generic constructors that collect every eager and
// lazy import and count constructions per part.
type graphModule struct {
	mu     sync.Mutex
	counts map[string]int
}

func newGraphModule() *graphModule {
	return &graphModule{counts: make(map[string]int)}
}

func (m *graphModule) count(id string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counts[id]
}

func (m *graphModule) build(imports ...string) part.Constructor {
	return func(_ context.Context, in part.Inputs) (any, error) {
		m.mu.Lock()
		m.counts[in.Part()]++
		m.mu.Unlock()

		n := &node{id: in.Part()}
		for _, s := range imports {
			c := contract.MustParse(s)
			n.deps = append(n.deps, in.Many(c)...)
			n.lazy = append(n.lazy, in.LazyMany(c)...)
		}
		return n, nil
	}
}

func (m *graphModule) Register(r *registry.Registry) {
	r.RegisterConstructor("NewLogger", m.build())
	r.RegisterConstructor("NewService", m.build("Logger"))
	r.RegisterConstructor("NewA", m.build("B"))
	r.RegisterConstructor("NewB", m.build("A"))
	r.RegisterConstructor("NewAudit", m.build("Logger"))
}
