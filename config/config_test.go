package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/arjunmahishi/repoctx/scanner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// load reads config from dir without picking up a .env from the package
// directory.
func load(t *testing.T, dir string) (*Config, error) {
	t.Helper()
	return Load(Options{Dir: dir, EnvFile: filepath.Join(dir, ".env")})
}

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := load(t, t.TempDir())
	require.NoError(t, err)

	d := Default()
	assert.Equal(t, d.Root, cfg.Root)
	assert.Equal(t, "text", cfg.Format)
	assert.Equal(t, scanner.DefaultIgnorePatterns(), cfg.Ignore)
	assert.Equal(t, d.MaxBytes, cfg.MaxBytes)
	assert.Equal(t, 5*time.Minute, cfg.Timeout)
	assert.Equal(t, d.CacheSize, cfg.CacheSize)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, 500*time.Millisecond, cfg.Watch.Debounce)
}

func TestLoadProjectFile(t *testing.T) {
	for _, name := range FileNames {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, name, `
format: json
compact: true
jobs: 3
timeout: 30s
ignore:
  - "*.min.js"
  - vendor
include:
  - "src/**"
log:
  level: debug
watch:
  debounce: 1s
`)

			cfg, err := load(t, dir)
			require.NoError(t, err)
			assert.Equal(t, "json", cfg.Format)
			assert.True(t, cfg.Compact)
			assert.Equal(t, 3, cfg.Jobs)
			assert.Equal(t, 30*time.Second, cfg.Timeout)
			assert.Equal(t, []string{"*.min.js", "vendor"}, cfg.Ignore)
			assert.Equal(t, []string{"src/**"}, cfg.Include)
			assert.Equal(t, "debug", cfg.Log.Level)
			assert.Equal(t, "text", cfg.Log.Format)
			assert.Equal(t, time.Second, cfg.Watch.Debounce)
			assert.Equal(t, filepath.Join(dir, name), Path(dir))
		})
	}
}

func TestLoadNormalizesCase(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, ".repoctx.yaml", "format: JSON\nlog:\n  level: DEBUG\n  format: Json\n")

	cfg, err := load(t, dir)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadPrefersYAMLExtension(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, ".repoctx.yml", "jobs: 2\n")
	writeConfig(t, dir, ".repoctx.yaml", "jobs: 5\n")

	assert.Equal(t, filepath.Join(dir, ".repoctx.yaml"), Path(dir))

	cfg, err := load(t, dir)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Jobs)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, ".repoctx.yaml", "jobs: 3\nlog:\n  level: info\n")

	t.Setenv("REPOCTX_JOBS", "7")
	t.Setenv("REPOCTX_LOG_LEVEL", "error")

	cfg, err := load(t, dir)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Jobs)
	assert.Equal(t, "error", cfg.Log.Level)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, ".env", "REPOCTX_CACHE_SIZE=12\n")
	t.Cleanup(func() { os.Unsetenv("REPOCTX_CACHE_SIZE") })

	cfg, err := load(t, dir)
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.CacheSize)
}

func TestLoadExplicitFile(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "custom.yaml", "format: json\n")

	cfg, err := Load(Options{Dir: t.TempDir(), File: path, EnvFile: filepath.Join(dir, ".env")})
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Format)

	_, err = Load(Options{File: filepath.Join(dir, "missing.yaml"), EnvFile: filepath.Join(dir, ".env")})
	require.Error(t, err)
}

func TestLoadMalformedFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, ".repoctx.yaml", "format: [unterminated\n")

	_, err := load(t, dir)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"bad_format", func(c *Config) { c.Format = "xml" }, "format must be"},
		{"negative_jobs", func(c *Config) { c.Jobs = -1 }, "jobs must be"},
		{"negative_timeout", func(c *Config) { c.Timeout = -time.Second }, "timeout must be"},
		{"negative_cache", func(c *Config) { c.CacheSize = -5 }, "cache_size must be"},
		{"negative_debounce", func(c *Config) { c.Watch.Debounce = -1 }, "watch.debounce must be"},
		{"bad_pattern", func(c *Config) { c.Ignore = []string{"[x"} }, "invalid pattern"},
		{"bad_log_level", func(c *Config) { c.Log.Level = "loud" }, "unknown log level"},
		{"bad_log_format", func(c *Config) { c.Log.Format = "xml" }, "log.format must be"},
		{"unnormalized_format", func(c *Config) { c.Format = "JSON" }, "format must be"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := Validate(cfg)
			require.ErrorIs(t, err, ErrInvalid)
			assert.Contains(t, err.Error(), tc.errMsg)
		})
	}

	require.NoError(t, Validate(Default()))

	// Negative max_bytes disables the limit and is allowed.
	cfg := Default()
	cfg.MaxBytes = -1
	require.NoError(t, Validate(cfg))
}

func TestValidateReportsAllProblems(t *testing.T) {
	cfg := Default()
	cfg.Format = "xml"
	cfg.Jobs = -1

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "format must be")
	assert.Contains(t, err.Error(), "jobs must be")
}

func TestWriteRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileNames[0])

	want := Default()
	want.Jobs = 4
	want.Timeout = 90 * time.Second
	require.NoError(t, Write(path, want, false))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "timeout: 1m30s")
	assert.Contains(t, string(data), "debounce: 500ms")

	got, err := load(t, dir)
	require.NoError(t, err)
	assert.Equal(t, want.Jobs, got.Jobs)
	assert.Equal(t, want.Timeout, got.Timeout)
	assert.Equal(t, want.Ignore, got.Ignore)
	assert.Equal(t, want.Watch.Debounce, got.Watch.Debounce)

	require.ErrorIs(t, Write(path, want, false), ErrExists)
	require.NoError(t, Write(path, want, true))
}
