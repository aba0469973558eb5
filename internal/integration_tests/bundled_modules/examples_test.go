package integration_tests

import (
	"bytes"
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/partgrid/internal/app"
	"github.com/vk/partgrid/internal/contract"
	"github.com/vk/partgrid/modules/httpclient"
	"github.com/vk/partgrid/modules/s3"
)

// Test for: the sample modules shipped in examples/ compose with the
// built-in constructors.
func TestBundledModules_ExamplesCompose(t *testing.T) {
	t.Setenv("PARTGRID_HTTP_TIMEOUT", "3s")

	cfg, err := app.NewConfig(app.Config{
		ModulesPath: "../../../examples",
		Modules:     []string{"console", "platform", "storage"},
		Exports:     []string{"Uploader#assets", "HTTPRequester"},
		LogLevel:    "debug",
		LogFormat:   "text",
	})
	require.NoError(t, err)

	var logs bytes.Buffer
	a := app.NewApp(&logs, cfg, nil)
	require.NoError(t, a.Run(context.Background(), cfg), logs.String())

	p := a.Provider()
	ctx := context.Background()

	uploader, err := p.GetExport(ctx, contract.MustParse("Uploader#assets"))
	require.NoError(t, err)
	assert.IsType(t, &s3.Uploader{}, uploader)

	client, err := p.GetExport(ctx, httpclient.Contract)
	require.NoError(t, err)
	assert.Equal(t, "3s", client.(*http.Client).Timeout.String())

	assert.False(t, p.Instantiated("events"), "events module was not composed")
	assert.False(t, p.Instantiated("stdout"), "lazy logger import is not resolved eagerly")
}
