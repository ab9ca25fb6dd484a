package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaultScanConfig(t *testing.T) {
	cfg := DefaultScanConfig()

	assert.Equal(t, DefaultSizeWarning, cfg.SizeWarning)
	assert.Equal(t, DefaultSizeCritical, cfg.SizeCritical)
	assert.Equal(t, DefaultDuplicateMinLines, cfg.DuplicateMinLines)
	assert.Contains(t, cfg.Exclude, "node_modules")
	assert.Contains(t, cfg.Exclude, ".git")
	assert.Contains(t, cfg.Extensions, ".go")
	assert.True(t, cfg.Fix.Formatters, "formatters enabled by default")
	assert.False(t, cfg.Fix.Linters, "linters disabled by default")
}

func TestLoadScanConfig_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := LoadScanConfig(t.TempDir(), "")

	require.NoError(t, err)
	assert.Equal(t, DefaultSizeWarning, cfg.SizeWarning)
	assert.Equal(t, DefaultSizeCritical, cfg.SizeCritical)
}

func TestLoadScanConfig_MissingExplicitFileIsError(t *testing.T) {
	_, err := LoadScanConfig(t.TempDir(), "/nonexistent/config.yml")

	var invalidErr *InvalidConfigError
	assert.ErrorAs(t, err, &invalidErr)
}

func TestLoadScanConfig_OverridesThresholds(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
thresholds:
  file_size_warning: 200
  file_size_critical: 400
  duplicate_min_lines: 5
exclude:
  - "**/generated/**"
`)

	cfg, err := LoadScanConfig(dir, "")

	require.NoError(t, err)
	assert.Equal(t, 200, cfg.SizeWarning)
	assert.Equal(t, 400, cfg.SizeCritical)
	assert.Equal(t, 5, cfg.DuplicateMinLines)
	assert.Contains(t, cfg.Exclude, "**/generated/**")
	assert.Contains(t, cfg.Exclude, "node_modules", "file excludes extend the defaults")
}

func TestLoadScanConfig_PartialOverrideKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
thresholds:
  file_size_critical: 1000
`)

	cfg, err := LoadScanConfig(dir, "")

	require.NoError(t, err)
	assert.Equal(t, DefaultSizeWarning, cfg.SizeWarning)
	assert.Equal(t, 1000, cfg.SizeCritical)
	assert.True(t, cfg.Fix.Formatters, "absent fix section keeps defaults")
}

func TestLoadScanConfig_FixToggles(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
fix:
  formatters: false
  linters: true
`)

	cfg, err := LoadScanConfig(dir, "")

	require.NoError(t, err)
	assert.False(t, cfg.Fix.Formatters)
	assert.True(t, cfg.Fix.Linters)
}

func TestLoadScanConfig_MalformedYAML(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "thresholds: [not a map")

	_, err := LoadScanConfig(dir, "")

	var invalidErr *InvalidConfigError
	assert.ErrorAs(t, err, &invalidErr)
}

func TestLoadScanConfig_UnknownKeyRejected(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "tresholds:\n  file_size_warning: 10\n")

	_, err := LoadScanConfig(dir, "")

	var invalidErr *InvalidConfigError
	assert.ErrorAs(t, err, &invalidErr)
}

func TestLoadScanConfig_WarningAboveCriticalRejected(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
thresholds:
  file_size_warning: 600
  file_size_critical: 500
`)

	_, err := LoadScanConfig(dir, "")

	var invalidErr *InvalidConfigError
	assert.ErrorAs(t, err, &invalidErr)
	assert.Contains(t, err.Error(), "file_size_warning")
}

func TestLoadScanConfig_ExplicitPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yml")
	require.NoError(t, os.WriteFile(path, []byte("thresholds:\n  file_size_warning: 100\n"), 0644))

	cfg, err := LoadScanConfig(t.TempDir(), path)

	require.NoError(t, err)
	assert.Equal(t, 100, cfg.SizeWarning)
}

func TestMatchesExtension(t *testing.T) {
	cfg := DefaultScanConfig()

	assert.True(t, cfg.MatchesExtension("main.go"))
	assert.True(t, cfg.MatchesExtension("app.test.ts"))
	assert.False(t, cfg.MatchesExtension("README.md"))
	assert.False(t, cfg.MatchesExtension("Makefile"))
	assert.False(t, cfg.MatchesExtension("noext"))
}
