package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnv(_, fallback string) string { return fallback }

func TestParse(t *testing.T) {
	testCases := []struct {
		name     string
		args     []string
		wantExit bool
		wantCode int
		check    func(t *testing.T, out string)
	}{
		{
			name:     "no modules prints usage",
			args:     nil,
			wantExit: true,
			check: func(t *testing.T, out string) {
				assert.Contains(t, out, "Usage:")
			},
		},
		{name: "help", args: []string{"-h"}, wantExit: true},
		{name: "bad flag", args: []string{"-nope"}, wantCode: 2},
		{name: "bad format", args: []string{"-log-format", "xml", "core"}, wantCode: 2},
		{name: "bad level", args: []string{"-log-level", "loud", "core"}, wantCode: 2},
		{name: "bad export", args: []string{"-export", "#x", "core"}, wantCode: 2},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			cfg, exit, err := parse(tc.args, &out, "", noEnv)
			if tc.wantCode != 0 {
				var exitErr *ExitError
				require.ErrorAs(t, err, &exitErr)
				assert.Equal(t, tc.wantCode, exitErr.Code)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantExit, exit)
			assert.Nil(t, cfg)
			if tc.check != nil {
				tc.check(t, out.String())
			}
		})
	}
}

func TestParse_Config(t *testing.T) {
	var out bytes.Buffer
	cfg, exit, err := parse([]string{
		"-modules-path", "examples",
		"-export", "Logger",
		"-export", "Uploader#assets",
		"-log-format", "TEXT",
		"-workers", "4",
		"console", "storage",
	}, &out, "", noEnv)
	require.NoError(t, err)
	require.False(t, exit)

	assert.Equal(t, "examples", cfg.ModulesPath)
	assert.Equal(t, []string{"console", "storage"}, cfg.Modules)
	assert.Equal(t, []string{"Logger", "Uploader#assets"}, cfg.Exports)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 4, cfg.Workers)
	assert.Zero(t, cfg.IntrospectPort)
}

func TestParse_EnvironmentDefaults(t *testing.T) {
	env := map[string]string{
		"PARTGRID_MODULES_PATH":    "/srv/modules",
		"PARTGRID_LOG_LEVEL":       "debug",
		"PARTGRID_INTROSPECT_PORT": "9090",
	}
	lookup := func(key, fallback string) string {
		if v, ok := env[key]; ok {
			return v
		}
		return fallback
	}

	cfg, _, err := parse([]string{"core"}, &bytes.Buffer{}, "", lookup)
	require.NoError(t, err)
	assert.Equal(t, "/srv/modules", cfg.ModulesPath)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 9090, cfg.IntrospectPort)

	cfg, _, err = parse([]string{"-log-level", "warn", "core"}, &bytes.Buffer{}, "", lookup)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel, "flags override the environment")

	env["PARTGRID_INTROSPECT_PORT"] = "http"
	_, _, err = parse([]string{"core"}, &bytes.Buffer{}, "", lookup)
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
}

func TestParse_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partgrid.env")
	require.NoError(t, os.WriteFile(path, []byte("PARTGRID_LOG_FORMAT=text\n"), 0o644))
	t.Setenv("PARTGRID_LOG_FORMAT", "")
	require.NoError(t, os.Unsetenv("PARTGRID_LOG_FORMAT"))

	cfg, exit, err := Parse([]string{"-env-file", path, "core"}, &bytes.Buffer{})
	require.NoError(t, err)
	require.False(t, exit)
	assert.Equal(t, "text", cfg.LogFormat)

	_, _, err = Parse([]string{"-env-file=" + filepath.Join(t.TempDir(), "missing.env"), "core"}, &bytes.Buffer{})
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Contains(t, exitErr.Message, "loading env file")
}
