package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/partgrid/internal/cli"
	"github.com/vk/partgrid/internal/diagnostics"
)

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, exitCode(nil))
	assert.Equal(t, 2, exitCode(&cli.ExitError{Code: 2, Message: "bad flag"}))
	assert.Equal(t, 3, exitCode(errors.Join(errors.New("compose"), &diagnostics.AggregateError{})))
	assert.Equal(t, 1, exitCode(errors.New("boom")))
}

func TestRun_ComposesModulesFromDisk(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "console.hcl"), []byte(`
part "stdout" {
  constructor = "NewConsoleLogger"
  export "Logger" {}
}
`), 0o644))

	var out bytes.Buffer
	err := run(context.Background(), &out, []string{"-modules-path", root, "-export", "Logger", "-log-format", "text", "console"})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Export resolved.")
}

func TestRun_UnresolvedImportIsAggregated(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "uploads.hcl"), []byte(`
part "uploader" {
  constructor = "NewS3Uploader"
  export "Uploader" {}
  import "HTTPClient" {}
}
`), 0o644))

	err := run(context.Background(), &bytes.Buffer{}, []string{"-modules-path", root, "uploads"})
	assert.Equal(t, 3, exitCode(err))
}
