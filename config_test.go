package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("BIND_ADDR", "")

	config := LoadConfig()
	assert.Equal(t, "0.0.0.0:8080", config.Server.Addr)
	assert.Equal(t, "./uploads", config.Storage.Path)
	assert.Equal(t, "./filedrop.db", config.Storage.Database)
	assert.Equal(t, int64(defaultMaxFileSize), config.Storage.MaxFileSize)
}

func TestLoadConfigFromFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	data := `
server:
  addr: "127.0.0.1:9090"
storage:
  path: /srv/filedrop/uploads
  database: /srv/filedrop/filedrop.db
  max_file_size: 1048576
`
	require.NoError(t, os.WriteFile(configPath, []byte(data), 0644))
	t.Setenv("CONFIG_PATH", configPath)
	t.Setenv("BIND_ADDR", "")

	config := LoadConfig()
	assert.Equal(t, "127.0.0.1:9090", config.Server.Addr)
	assert.Equal(t, "/srv/filedrop/uploads", config.Storage.Path)
	assert.Equal(t, "/srv/filedrop/filedrop.db", config.Storage.Database)
	assert.Equal(t, int64(1048576), config.Storage.MaxFileSize)
}

func TestLoadConfigPartialFileFallsBackToDefaults(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("server:\n  addr: \"127.0.0.1:9090\"\n"), 0644))
	t.Setenv("CONFIG_PATH", configPath)
	t.Setenv("BIND_ADDR", "")

	config := LoadConfig()
	assert.Equal(t, "127.0.0.1:9090", config.Server.Addr)
	assert.Equal(t, "./uploads", config.Storage.Path)
	assert.Equal(t, int64(defaultMaxFileSize), config.Storage.MaxFileSize)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("server:\n  addr: \"127.0.0.1:9090\"\n"), 0644))
	t.Setenv("CONFIG_PATH", configPath)
	t.Setenv("BIND_ADDR", "0.0.0.0:9999")

	config := LoadConfig()
	assert.Equal(t, "0.0.0.0:9999", config.Server.Addr)
}
