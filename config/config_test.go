package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/jseval/errors"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "jseval.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaults(t *testing.T) {
	cfg, err := load("", nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "goja", cfg.Backend)
	assert.True(t, cfg.Console)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, `
backend: goja
mailbox_limit: 32
max_call_stack_size: 512
module_dir: `+dir+`
console: false
strict_arguments: true
log:
  level: debug
  format: json
`)

	cfg, err := load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 32, cfg.MailboxLimit)
	assert.Equal(t, 512, cfg.MaxCallStackSize)
	assert.Equal(t, dir, cfg.ModuleDir)
	assert.False(t, cfg.Console)
	assert.True(t, cfg.StrictArguments)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, []string{"stderr"}, cfg.Log.Output)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	path := writeFile(t, "mailbox_limit: 4\nlog:\n  level: warn\n")

	cfg, err := load(path, []string{
		"JSEVAL_MAILBOX_LIMIT=16",
		"JSEVAL_STRICT_ARGUMENTS=true",
		"JSEVAL_V8_FLAGS=--max-old-space-size=64,--expose-gc",
		"JSEVAL_LOG_LEVEL=error",
		"OTHER_VAR=ignored",
	})
	require.NoError(t, err)
	assert.Equal(t, 16, cfg.MailboxLimit)
	assert.True(t, cfg.StrictArguments)
	assert.Equal(t, []string{"--max-old-space-size=64", "--expose-gc"}, cfg.V8Flags)
	assert.Equal(t, "error", cfg.Log.Level)
}

func TestEnvironmentIgnoresUnrelatedVariables(t *testing.T) {
	cfg, err := load("", []string{
		"JSEVAL_TEST_RUN_ID=42",
		"JSEVAL_LOG_ROTATION=daily",
		"JSEVAL_MAILBOX_LIMIT=8",
	})
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.MailboxLimit)
	assert.Equal(t, Default().Log, cfg.Log)

	t.Setenv("JSEVAL_BUILD_TAG", "ci")
	_, err = FromEnv()
	require.NoError(t, err)
}

func TestLoadUsesProcessEnvironment(t *testing.T) {
	t.Setenv("JSEVAL_MAX_CALL_STACK_SIZE", "99")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 99, cfg.MaxCallStackSize)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		env     []string
	}{
		{"unknown backend", "backend: spidermonkey\n", nil},
		{"negative limit", "mailbox_limit: -1\n", nil},
		{"bad level", "log:\n  level: loud\n", nil},
		{"missing module dir", "module_dir: /definitely/not/here\n", nil},
		{"unknown key", "mailbox: 3\n", nil},
		{"malformed yaml", "backend: [goja\n", nil},
		{"bad env number", "", []string{"JSEVAL_MAILBOX_LIMIT=many"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := ""
			if tt.content != "" {
				path = writeFile(t, tt.content)
			}
			_, err := load(path, tt.env)
			require.Error(t, err)

			var e *errors.Error
			require.ErrorAs(t, err, &e)
			assert.Equal(t, errors.KindInvalidConfig, e.Kind)
			assert.Equal(t, errors.PhaseConfig, e.Phase)
		})
	}
}

func TestMissingFile(t *testing.T) {
	_, err := load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestEngineOptions(t *testing.T) {
	cfg := Default()
	cfg.MailboxLimit = 8
	cfg.V8Flags = []string{"--expose-gc"}

	opts := cfg.EngineOptions(nil)
	assert.Equal(t, "goja", opts.Backend)
	assert.Equal(t, 8, opts.MailboxLimit)
	assert.Equal(t, []string{"--expose-gc"}, opts.Flags)
	assert.True(t, opts.Console)
}

func TestLogger(t *testing.T) {
	cfg := Default()
	cfg.Log.Format = "json"
	cfg.Log.Output = []string{filepath.Join(t.TempDir(), "out.log")}

	log, err := cfg.Logger()
	require.NoError(t, err)
	log.Info("hello")
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(cfg.Log.Output[0])
	require.NoError(t, err)
	var entry map[string]any
	require.NoError(t, json.Unmarshal(data, &entry))
	assert.Equal(t, "hello", entry["msg"])

	cfg.Log.Level = "loud"
	_, err = cfg.Logger()
	assert.Error(t, err)
}

func TestSchema(t *testing.T) {
	data, err := Schema()
	require.NoError(t, err)

	var schema map[string]any
	require.NoError(t, json.Unmarshal(data, &schema))
	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "backend")
	assert.Contains(t, props, "mailbox_limit")
	assert.Contains(t, props, "log")
}

func TestFromEnv(t *testing.T) {
	path := writeFile(t, "mailbox_limit: 5\n")
	t.Setenv(EnvFile, path)

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.MailboxLimit)
}
