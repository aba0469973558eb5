package composition

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/partgrid/internal/catalog"
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

func noop(context.Context, part.Inputs) (any, error) { return struct{}{}, nil }

func graphFor(t *testing.T, parts ...*part.Descriptor) *resolver.Graph {
	t.Helper()
	c, err := catalog.Create().WithBuiltins()
	require.NoError(t, err)
	c = c.AddParts(parts, nil)
	require.False(t, c.HasErrors())
	return resolver.Resolve(context.Background(), c)
}

func TestCompile_LinksDependencies(t *testing.T) {
	logger := contract.MustParse("Logger")
	clock := contract.MustParse("Clock")

	g := graphFor(t,
		&part.Descriptor{ID: "x", Module: "m", Ordinal: 0, Constructor: "NewX",
			Exports: []part.ExportDescriptor{{Contract: logger, Part: "x"}}},
		&part.Descriptor{ID: "c", Module: "m", Ordinal: 1, Constructor: "NewC", Sharing: part.NonShared,
			Exports: []part.ExportDescriptor{{Contract: clock, Part: "c"}}},
		&part.Descriptor{ID: "y", Module: "m", Ordinal: 2, Constructor: "NewY",
			Imports: []part.ImportDescriptor{
				{Contract: logger, Part: "y"},
				{Contract: clock, Lazy: true, Cardinality: part.ZeroOrOne, Part: "y"},
				{Contract: contract.MustParse("Metrics"), Cardinality: part.ZeroOrMore, Part: "y"},
			}},
	)
	reg := registry.New(constructors{"NewX": noop, "NewY": noop, "NewC": noop})

	comp := Compile(context.Background(), g, reg)

	x, ok := comp.Part("x")
	require.True(t, ok)
	y, _ := comp.Part("y")
	c, _ := comp.Part("c")

	require.Len(t, y.Eager, 2)
	assert.Equal(t, logger, y.Eager[0].Contract)
	assert.Same(t, x, y.Eager[0].Suppliers[0])
	assert.Empty(t, y.Eager[1].Suppliers, "unbound zero-or-more import stays in the plan")

	require.Len(t, y.Lazy, 1)
	assert.Equal(t, part.ZeroOrOne, y.Lazy[0].Cardinality)
	assert.Same(t, c, y.Lazy[0].Suppliers[0])

	assert.Equal(t, []string{"c", "x"}, y.DependsOn)
	assert.Equal(t, []string{"y"}, x.Dependents)
	assert.Empty(t, x.DependsOn)

	assert.NotNil(t, y.Constructor)
	assert.Equal(t, part.NonShared, c.Sharing)

	assert.Equal(t, []*Part{x}, comp.Exporters(logger))
	assert.Empty(t, comp.Exporters(contract.MustParse("Nothing")))

	provider, ok := comp.Part(catalog.ProviderPartID)
	require.True(t, ok)
	assert.Equal(t, part.External, provider.Creation)
	assert.Nil(t, provider.Constructor)

	var ids []string
	for _, p := range comp.Parts() {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{catalog.ProviderPartID, "x", "c", "y"}, ids)
}

func TestCompile_UnregisteredConstructorIsLeftNil(t *testing.T) {
	g := graphFor(t, &part.Descriptor{ID: "ghost", Module: "m", Constructor: "NewGhost"})

	comp := Compile(context.Background(), g, registry.New())
	ghost, _ := comp.Part("ghost")
	assert.Nil(t, ghost.Constructor)
	assert.Equal(t, "NewGhost", ghost.ConstructorName)
}

func TestCompile_PanicsOnErroredGraph(t *testing.T) {
	g := graphFor(t, &part.Descriptor{ID: "y", Module: "m", Constructor: "NewY",
		Imports: []part.ImportDescriptor{{Contract: contract.MustParse("Logger"), Part: "y"}}})
	require.False(t, g.OK())

	assert.Panics(t, func() { Compile(context.Background(), g, registry.New()) })
}
