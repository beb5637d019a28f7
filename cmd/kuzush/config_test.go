package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".kuzush.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadShellConfigDefaults(t *testing.T) {
	cfg, err := loadShellConfig(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, "table", cfg.Format)
	assert.False(t, cfg.Timer)
	assert.False(t, cfg.ReadOnly)
	assert.Zero(t, cfg.TimeoutMS)
}

func TestLoadShellConfigEmptyPath(t *testing.T) {
	cfg, err := loadShellConfig("")
	require.NoError(t, err)
	assert.Equal(t, defaultShellConfig(), cfg)
}

func TestLoadShellConfigValues(t *testing.T) {
	path := writeConfig(t, `
format = "json"
timer = true
read_only = true
timeout_ms = 2500
`)
	cfg, err := loadShellConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Format)
	assert.True(t, cfg.Timer)
	assert.True(t, cfg.ReadOnly)
	assert.Equal(t, 2500*time.Millisecond, time.Duration(cfg.TimeoutMS)*time.Millisecond)
}

func TestLoadShellConfigPartial(t *testing.T) {
	path := writeConfig(t, `timer = true`)
	cfg, err := loadShellConfig(path)
	require.NoError(t, err)
	assert.True(t, cfg.Timer)
	assert.Equal(t, "table", cfg.Format, "unset keys keep defaults")
}

func TestLoadShellConfigRejectsBadFormat(t *testing.T) {
	path := writeConfig(t, `format = "csv"`)
	_, err := loadShellConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "format")
}

func TestLoadShellConfigRejectsNegativeTimeout(t *testing.T) {
	path := writeConfig(t, `timeout_ms = -1`)
	_, err := loadShellConfig(path)
	require.Error(t, err)
}

func TestLoadShellConfigRejectsBadTOML(t *testing.T) {
	path := writeConfig(t, `format = `)
	_, err := loadShellConfig(path)
	require.Error(t, err)
}
