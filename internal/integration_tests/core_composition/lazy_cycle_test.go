package integration_tests

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/partgrid/internal/app"
	"github.com/vk/partgrid/internal/contract"
	"github.com/vk/partgrid/internal/testutil"
)

// Test for: a cycle broken by a lazy import composes and resolves to the
// shared instances on both sides.
func TestCoreComposition_LazyEdgeBreaksCycle(t *testing.T) {
	// --- Arrange ---
	files := map[string]string{
		"cycle.hcl": `
			part "a" {
				constructor = "NewA"
				export "A" {}
				import "B" {
					lazy = true
				}
			}
			part "b" {
				constructor = "NewB"
				export "B" {}
				import "A" {}
			}
		`,
	}
	mod := newGraphModule()

	// --- Act ---
	result := testutil.RunIntegrationTest(t, files, app.Config{Modules: []string{"cycle"}, Exports: []string{"A"}}, mod)

	// --- Assert ---
	require.NoError(t, result.Err)
	ctx := context.Background()
	p := result.App.Provider()

	av, err := p.GetExport(ctx, contract.MustParse("A"))
	require.NoError(t, err)
	a := av.(*node)
	require.Len(t, a.lazy, 1)
	assert.Equal(t, 0, mod.count("b"), "lazy import is not built eagerly")

	bv, err := a.lazy[0].Get(ctx)
	require.NoError(t, err)
	assert.Same(t, a, bv.(*node).deps[0])
	assert.Equal(t, 1, mod.count("a"))
	assert.Equal(t, 1, mod.count("b"))
}

// Test for: import filtering by metadata equality and semver range, across
// modules.
func TestCoreComposition_ConstraintsSelectExport(t *testing.T) {
	// --- Arrange ---
	files := map[string]string{
		"loggers.hcl": `
			part "legacy" {
				constructor = "NewLogger"
				export "Logger" {
					metadata = { version = "0.9.1", channel = "stable" }
				}
			}
			part "current" {
				constructor = "NewLogger"
				export "Logger" {
					metadata = { version = "1.4.0", channel = "stable" }
				}
			}
			part "preview" {
				constructor = "NewLogger"
				export "Logger" {
					metadata = { version = "1.5.0", channel = "beta" }
				}
			}
		`,
		"audit.hcl": `
			part "audit" {
				constructor = "NewAudit"
				export "Audit" {}
				import "Logger" {
					match  = { channel = "stable" }
					semver = { version = "^1.0.0" }
				}
			}
		`,
	}
	mod := newGraphModule()

	// --- Act ---
	result := testutil.RunIntegrationTest(t, files, app.Config{Modules: []string{"audit", "loggers"}, Exports: []string{"Audit"}}, mod)

	// --- Assert ---
	require.NoError(t, result.Err)
	v, err := result.App.Provider().GetExport(context.Background(), contract.MustParse("Audit"))
	require.NoError(t, err)
	assert.Equal(t, "current", v.(*node).deps[0].(*node).id)
	assert.Zero(t, mod.count("legacy"))
	assert.Zero(t, mod.count("preview"))
}
