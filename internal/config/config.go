// Package config holds runtime configuration for the pipeline and the
// read API, loaded from an optional YAML file with CLI flag overrides.
package config

import (
	"fmt"
	"time"
)

// Config holds all configuration for the application.
type Config struct {
	// LogLevel is the logging level (debug, info, warn, error), with
	// optional per-package overrides ("info,graphstore.*=debug").
	LogLevel string `koanf:"log_level"`

	// APIPort is the port the read API listens on.
	APIPort int `koanf:"api_port"`

	// OpenFDA configures the ingestion connector.
	OpenFDA OpenFDAConfig `koanf:"openfda"`

	// Graph configures the FalkorDB triple store.
	Graph GraphConfig `koanf:"graph"`

	// Search configures the optional search index.
	Search SearchConfig `koanf:"search"`

	// ExtensionsPath is the path to the taxonomy extensions JSON file.
	// Empty or missing files are skipped.
	ExtensionsPath string `koanf:"extensions_path"`

	// OutputPath is where the Turtle serialization is written.
	OutputPath string `koanf:"output_path"`

	// EnrichmentEnabled toggles the entity-mention pass.
	EnrichmentEnabled bool `koanf:"enrichment_enabled"`

	// TracingEnabled indicates whether OpenTelemetry tracing is enabled.
	TracingEnabled bool `koanf:"tracing_enabled"`

	// TracingEndpoint is the OTLP gRPC endpoint for trace export.
	TracingEndpoint string `koanf:"tracing_endpoint"`
}

// OpenFDAConfig holds ingestion settings.
type OpenFDAConfig struct {
	BaseURL string        `koanf:"base_url"`
	Search  string        `koanf:"search"`
	Limit   int           `koanf:"limit"`
	Timeout time.Duration `koanf:"timeout"`
}

// GraphConfig holds triple store settings.
type GraphConfig struct {
	Enabled   bool   `koanf:"enabled"`
	Host      string `koanf:"host"`
	Port      int    `koanf:"port"`
	Password  string `koanf:"password"`
	GraphName string `koanf:"graph_name"`
}

// SearchConfig holds search index settings.
type SearchConfig struct {
	Enabled bool   `koanf:"enabled"`
	BaseURL string `koanf:"base_url"`
	Index   string `koanf:"index"`
}

// DefaultConfig returns the configuration used when no file and no flags
// are given.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		APIPort:  8080,
		OpenFDA: OpenFDAConfig{
			BaseURL: "https://api.fda.gov",
			Limit:   100,
			Timeout: 30 * time.Second,
		},
		Graph: GraphConfig{
			Enabled:   true,
			Host:      "localhost",
			Port:      6379,
			GraphName: "recallgraph",
		},
		Search: SearchConfig{
			BaseURL: "http://localhost:9200",
			Index:   "recall-events",
		},
		OutputPath: "out/taxonomy.ttl",
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.APIPort < 1 || c.APIPort > 65535 {
		return NewConfigError("api_port must be between 1 and 65535")
	}

	if c.OpenFDA.Limit < 0 || c.OpenFDA.Limit > 1000 {
		return NewConfigError("openfda.limit must be between 0 and 1000")
	}

	if c.OpenFDA.Timeout < 0 {
		return NewConfigError("openfda.timeout must not be negative")
	}

	if c.Graph.Enabled {
		if c.Graph.Host == "" {
			return NewConfigError("graph.host must be set when the graph store is enabled")
		}
		if c.Graph.Port < 1 || c.Graph.Port > 65535 {
			return NewConfigError("graph.port must be between 1 and 65535")
		}
		if c.Graph.GraphName == "" {
			return NewConfigError("graph.graph_name must not be empty")
		}
	}

	if c.Search.Enabled && c.Search.BaseURL == "" {
		return NewConfigError("search.base_url must be set when the search index is enabled")
	}

	if c.OutputPath == "" {
		return NewConfigError("output_path must not be empty")
	}

	if c.TracingEnabled && c.TracingEndpoint == "" {
		return NewConfigError("tracing_endpoint must be set when tracing is enabled")
	}

	return nil
}

// ConfigError represents a configuration error.
type ConfigError struct {
	message string
}

// NewConfigError creates a new configuration error.
func NewConfigError(message string) *ConfigError {
	return &ConfigError{message: message}
}

// Error returns the error message.
func (e *ConfigError) Error() string {
	return e.message
}

// String implements fmt.Stringer for log output, hiding the password.
func (c *Config) String() string {
	return fmt.Sprintf("Config{LogLevel: %s, APIPort: %d, OpenFDA: %s, Graph: %s:%d/%s (enabled=%t), Search: %s/%s (enabled=%t), Output: %s}",
		c.LogLevel, c.APIPort, c.OpenFDA.BaseURL,
		c.Graph.Host, c.Graph.Port, c.Graph.GraphName, c.Graph.Enabled,
		c.Search.BaseURL, c.Search.Index, c.Search.Enabled,
		c.OutputPath)
}
