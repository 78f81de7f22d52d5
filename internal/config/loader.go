package config

import (
	"fmt"
	"os"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config from defaults overlaid with an optional YAML
// file. An empty path means defaults only; a named file that does not
// exist is an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	if _, err := os.Stat(path); err != nil {
		return nil, NewConfigError(fmt.Sprintf("config file not readable: %v", err))
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, NewConfigError(fmt.Sprintf("failed to parse config file %s: %v", path, err))
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, NewConfigError(fmt.Sprintf("failed to decode config file %s: %v", path, err))
	}

	return cfg, nil
}
