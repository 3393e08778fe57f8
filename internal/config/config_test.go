package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, FormatText, config.Output.Format)
	assert.Empty(t, config.Output.JSONIndent)
	assert.Equal(t, 32768, config.Reader.ChunkSize)
	assert.Equal(t, "./catalog", config.Catalog.DataDir)
	assert.Equal(t, "warn", config.Logging.Level)
	assert.NoError(t, config.Validate())
}

func TestLoadConfig(t *testing.T) {
	t.Run("partial file keeps defaults", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(configPath, []byte("output:\n  format: json\n  json_indent: \"  \"\n"), 0600))

		config, err := LoadConfig(configPath)
		require.NoError(t, err)
		assert.Equal(t, FormatJSON, config.Output.Format)
		assert.Equal(t, "  ", config.Output.JSONIndent)
		assert.Equal(t, 32768, config.Reader.ChunkSize)
		assert.Equal(t, "./catalog", config.Catalog.DataDir)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		require.ErrorContains(t, err, "does not exist")
	})

	t.Run("invalid yaml", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(configPath, []byte("output: [\n"), 0600))

		_, err := LoadConfig(configPath)
		require.ErrorContains(t, err, "failed to parse config file")
	})

	t.Run("invalid values", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(configPath, []byte("reader:\n  chunk_size: 0\n"), 0600))

		_, err := LoadConfig(configPath)
		require.ErrorContains(t, err, "reader.chunk_size")
	})
}

func TestSaveConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "config.yaml")
	config := DefaultConfig()
	config.Output.Format = FormatHTML
	config.Catalog.DataDir = "/var/lib/marc"

	require.NoError(t, SaveConfig(config, configPath))

	info, err := os.Stat(configPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	var raw map[string]any
	require.NoError(t, yaml.Unmarshal(data, &raw))
	assert.Contains(t, raw, "catalog")

	loaded, err := LoadConfig(configPath)
	require.NoError(t, err)
	assert.Equal(t, config, loaded)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "unknown format", mutate: func(c *Config) { c.Output.Format = "marcxml" }, wantErr: "output.format"},
		{name: "negative chunk size", mutate: func(c *Config) { c.Reader.ChunkSize = -1 }, wantErr: "reader.chunk_size"},
		{name: "empty data dir", mutate: func(c *Config) { c.Catalog.DataDir = "" }, wantErr: "catalog.data_dir"},
		{name: "unknown level", mutate: func(c *Config) { c.Logging.Level = "loud" }, wantErr: "logging.level"},
		{name: "empty level", mutate: func(c *Config) { c.Logging.Level = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)
			err := config.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}
