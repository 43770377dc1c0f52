package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "fossil", cfg.FossilPath)
	assert.Equal(t, 60, cfg.TimeoutSeconds)
	assert.Empty(t, cfg.CommitArgs)
	assert.True(t, cfg.ShowIcons)
	assert.True(t, cfg.Color)
	assert.True(t, cfg.AutoRefresh)
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigExplicitPath(t *testing.T) {
	path := writeConfig(t, `
fossil_path: /opt/fossil/bin/fossil
commit_args:
  - --no-warnings
  - --hash
timeout_seconds: 15
debug_log: /tmp/lf.log
show_icons: false
color: "off"
auto_refresh: no
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/opt/fossil/bin/fossil", cfg.FossilPath)
	assert.Equal(t, []string{"--no-warnings", "--hash"}, cfg.CommitArgs)
	assert.Equal(t, 15, cfg.TimeoutSeconds)
	assert.Equal(t, "/tmp/lf.log", cfg.DebugLog)
	assert.False(t, cfg.ShowIcons)
	assert.False(t, cfg.Color)
	assert.False(t, cfg.AutoRefresh)
}

func TestLoadConfigCommitArgsAsString(t *testing.T) {
	path := writeConfig(t, "commit_args: --no-warnings --sha1sum\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"--no-warnings", "--sha1sum"}, cfg.CommitArgs)
}

func TestLoadConfigMalformedYAML(t *testing.T) {
	path := writeConfig(t, "fossil_path: [unclosed\n")

	cfg, err := LoadConfig(path)
	require.Error(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigFromXDGDir(t *testing.T) {
	xdg := t.TempDir()
	base := filepath.Join(xdg, "lazyfossil")
	require.NoError(t, os.MkdirAll(base, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(base, "config.yaml"), []byte("timeout_seconds: 5\n"), 0o600))
	t.Setenv("XDG_CONFIG_HOME", xdg)

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.TimeoutSeconds)
}

func TestCoerceHelpers(t *testing.T) {
	assert.True(t, coerceBool("yes", false))
	assert.False(t, coerceBool("off", true))
	assert.True(t, coerceBool(1, false))
	assert.True(t, coerceBool("garbage", true))

	assert.Equal(t, 7, coerceInt("7", 0))
	assert.Equal(t, 3, coerceInt(3.0, 0))
	assert.Equal(t, 9, coerceInt("garbage", 9))
}
