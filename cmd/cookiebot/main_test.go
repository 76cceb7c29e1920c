package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookiebot.yaml")
	require.NoError(t, os.WriteFile(path, []byte("browser:\n  headless: true\ndatabase:\n  path: file.db\n"), 0o600))

	cli := parseFlags([]string{"--config", path, "--db", "flag.db", "--headless=false", "-v", "debug"})
	cfg, err := loadConfig(cli)
	require.NoError(t, err)
	assert.Equal(t, "flag.db", cfg.Database.Path)
	assert.False(t, cfg.Browser.Headless)
	assert.Equal(t, "debug", cfg.Logging.Verbosity)
}

func TestLoadConfigKeepsFileHeadless(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookiebot.yaml")
	require.NoError(t, os.WriteFile(path, []byte("browser:\n  headless: false\n"), 0o600))

	cfg, err := loadConfig(parseFlags([]string{"-c", path}))
	require.NoError(t, err)
	assert.False(t, cfg.Browser.Headless)
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	_, err := loadConfig(parseFlags([]string{"--verbosity", "loud"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}
