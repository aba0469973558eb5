package container

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/partgrid/internal/catalog"
	"github.com/vk/partgrid/internal/composition"
	"github.com/vk/partgrid/internal/contract"
	"github.com/vk/partgrid/internal/part"
	"github.com/vk/partgrid/internal/registry"
	"github.com/vk/partgrid/internal/resolver"
)

type constructors map[string]part.Constructor

func (c constructors) Register(r *registry.Registry) {
	for name, fn := range c {
		r.RegisterConstructor(name, fn)
	}
}

// decl is a compact part declaration for tests. The part's constructor is
// registered under its own ID.
type decl struct {
	id      string
	shared  bool
	exports []string
	imports []imp
	fn      part.Constructor
	extern  bool

	settings part.Metadata
}

type imp struct {
	contract string
	card     part.Cardinality
	lazy     bool
}

func build(t *testing.T, decls []decl, opts ...Option) *Provider {
	t.Helper()
	ctors := constructors{}
	var descs []*part.Descriptor
	for i, s := range decls {
		d := &part.Descriptor{ID: s.id, Module: "test", Ordinal: i, Sharing: part.NonShared, Settings: s.settings}
		if s.shared {
			d.Sharing = part.Shared
		}
		if s.extern {
			d.Creation = part.External
		} else {
			d.Constructor = s.id
			if s.fn != nil {
				ctors[s.id] = s.fn
			}
		}
		for _, e := range s.exports {
			d.Exports = append(d.Exports, part.ExportDescriptor{Contract: contract.MustParse(e), Part: s.id})
		}
		for _, im := range s.imports {
			d.Imports = append(d.Imports, part.ImportDescriptor{
				Contract: contract.MustParse(im.contract), Cardinality: im.card, Lazy: im.lazy, Part: s.id,
			})
		}
		descs = append(descs, d)
	}

	c, err := catalog.Create().WithBuiltins()
	require.NoError(t, err)
	c = c.AddParts(descs, nil)
	require.False(t, c.HasErrors(), "%v", c.Errors())

	ctx := context.Background()
	g := resolver.Resolve(ctx, c)
	require.True(t, g.OK(), "%v", g.Errors())
	return New(composition.Compile(ctx, g, registry.New(ctors)), opts...)
}

type node struct {
	name string
	deps []any
	lazy part.Lazy
}
