package integration_tests

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/partgrid/internal/app"
	"github.com/vk/partgrid/internal/diagnostics"
	"github.com/vk/partgrid/internal/part"
	"github.com/vk/partgrid/internal/registry"
	"github.com/vk/partgrid/internal/testutil"
)

type noopModule struct{}

func (noopModule) Register(r *registry.Registry) {
	r.RegisterConstructor("New", func(_ context.Context, in part.Inputs) (any, error) { return in.Part(), nil })
}

func aggregate(t *testing.T, err error) *diagnostics.AggregateError {
	t.Helper()
	var agg *diagnostics.AggregateError
	require.True(t, errors.As(err, &agg), "expected an AggregateError, got %v", err)
	return agg
}

// Test for: two exporters of an exactly-one import fail composition with a
// single Ambiguous error naming both.
func TestErrorHandling_AmbiguousImport(t *testing.T) {
	files := map[string]string{
		"loggers.hcl": `
			part "file" {
				constructor = "New"
				export "Logger" {}
			}
			part "stdout" {
				constructor = "New"
				export "Logger" {}
			}
		`,
		"app.hcl": `
			part "z" {
				constructor = "New"
				import "Logger" {}
			}
		`,
	}

	result := testutil.RunIntegrationTest(t, files, app.Config{Modules: []string{"loggers", "app"}}, noopModule{})

	agg := aggregate(t, result.Err)
	require.Equal(t, 1, agg.Len())
	got := agg.Composition[0]
	assert.Equal(t, diagnostics.Ambiguous, got.Kind)
	assert.Equal(t, "z", got.Part)
	assert.Equal(t, []string{"file", "stdout"}, got.Candidates)
	assert.Nil(t, result.App.Provider())
}

// Test for: every composition error is reported, not only the first.
func TestErrorHandling_AllCompositionErrorsReported(t *testing.T) {
	files := map[string]string{
		"broken.hcl": `
			part "a" {
				constructor = "New"
				export "A" {}
				import "B" {}
			}
			part "b" {
				constructor = "New"
				export "B" {}
				import "A" {}
			}
			part "lonely" {
				constructor = "New"
				import "Missing" {}
				import "AlsoMissing" {
					cardinality = "zero_or_one"
				}
			}
		`,
	}

	result := testutil.RunIntegrationTest(t, files, app.Config{Modules: []string{"broken"}}, noopModule{})

	agg := aggregate(t, result.Err)
	require.Len(t, agg.Composition, 2)
	assert.Equal(t, diagnostics.Unresolved, agg.Composition[0].Kind)
	assert.Equal(t, "lonely", agg.Composition[0].Part)
	assert.Equal(t, diagnostics.CircularDependency, agg.Composition[1].Kind)
	assert.Equal(t, []string{"a", "b"}, agg.Composition[1].Cycle)
	assert.Contains(t, result.Err.Error(), "a -> b -> a")
}
