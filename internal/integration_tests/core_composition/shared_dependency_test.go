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

// Test for: a non-shared part receives the shared instance of its dependency.
func TestCoreComposition_SharedDependencyIsEmbedded(t *testing.T) {
	// --- Arrange ---
	files := map[string]string{
		"logging/x.hcl": `
			part "x" {
				constructor = "NewLogger"
				export "Logger" {}
			}
		`,
		"services.hcl": `
			part "y" {
				constructor = "NewService"
				sharing     = "non_shared"
				export "Service" {}
				import "Logger" {}
			}
		`,
	}
	mod := newGraphModule()

	// --- Act ---
	result := testutil.RunIntegrationTest(t, files, app.Config{
		Modules: []string{"services", "logging"},
		Exports: []string{"Service"},
	}, mod)

	// --- Assert ---
	require.NoError(t, result.Err)
	p := result.App.Provider()
	ctx := context.Background()

	first, err := p.GetExport(ctx, contract.MustParse("Service"))
	require.NoError(t, err)
	second, err := p.GetExport(ctx, contract.MustParse("Service"))
	require.NoError(t, err)
	logger, err := p.GetExport(ctx, contract.MustParse("Logger"))
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	assert.Same(t, logger, first.(*node).deps[0])
	assert.Same(t, logger, second.(*node).deps[0])
	assert.Equal(t, 1, mod.count("x"))
	assert.Equal(t, 3, mod.count("y"), "one build during Run and two afterwards")
}
