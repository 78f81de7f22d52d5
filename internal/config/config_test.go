package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name:    "bad api port",
			mutate:  func(c *Config) { c.APIPort = 0 },
			wantErr: "api_port",
		},
		{
			name:    "openfda limit above cap",
			mutate:  func(c *Config) { c.OpenFDA.Limit = 5000 },
			wantErr: "openfda.limit",
		},
		{
			name:    "graph enabled without host",
			mutate:  func(c *Config) { c.Graph.Host = "" },
			wantErr: "graph.host",
		},
		{
			name: "graph disabled ignores host",
			mutate: func(c *Config) {
				c.Graph.Enabled = false
				c.Graph.Host = ""
			},
		},
		{
			name: "search enabled without url",
			mutate: func(c *Config) {
				c.Search.Enabled = true
				c.Search.BaseURL = ""
			},
			wantErr: "search.base_url",
		},
		{
			name:    "empty output path",
			mutate:  func(c *Config) { c.OutputPath = "" },
			wantErr: "output_path",
		},
		{
			name:    "tracing enabled without endpoint",
			mutate:  func(c *Config) { c.TracingEnabled = true },
			wantErr: "tracing_endpoint",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)

			var cfgErr *ConfigError
			assert.ErrorAs(t, err, &cfgErr)
		})
	}
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadOverlaysFileOnDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log_level: debug
api_port: 9090
openfda:
  limit: 250
  timeout: 10s
graph:
  host: falkordb.internal
search:
  enabled: true
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 9090, cfg.APIPort)
	assert.Equal(t, 250, cfg.OpenFDA.Limit)
	assert.Equal(t, 10*time.Second, cfg.OpenFDA.Timeout)
	assert.Equal(t, "falkordb.internal", cfg.Graph.Host)
	assert.True(t, cfg.Search.Enabled)

	// Untouched keys keep their defaults.
	assert.Equal(t, "https://api.fda.gov", cfg.OpenFDA.BaseURL)
	assert.Equal(t, "recall-events", cfg.Search.Index)
}

func TestLoadMalformedYAMLFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: [unclosed"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
