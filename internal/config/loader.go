package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/atlanticdynamic/activetx/internal/config/errz"
	"github.com/pelletier/go-toml/v2"
)

// LoadFile reads a TOML configuration file without validating it
func LoadFile(filePath string) (*Config, error) {
	if ext := filepath.Ext(filePath); ext != ".toml" {
		return nil, fmt.Errorf("%w: unsupported config file extension %q", ErrFailedToLoadConfig, ext)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToLoadConfig, err)
	}
	return LoadBytes(data)
}

// LoadBytes decodes TOML configuration without validating it. Unknown keys
// are rejected.
func LoadBytes(data []byte) (*Config, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: no source data", ErrFailedToLoadConfig)
	}

	cfg := &Config{}
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("%w: %w: %w", ErrFailedToLoadConfig, errz.ErrParseToml, err)
	}

	if cfg.Version == "" {
		cfg.Version = VersionLatest
	}
	return cfg, nil
}
