// Package config holds the activetx configuration: which documents to open,
// which one starts active, and how to log.
package config

import (
	"fmt"
)

// VersionLatest is the only configuration version understood by this build
const VersionLatest = "v1"

// DefaultDocumentName is used when a single document is configured without a name
const DefaultDocumentName = "default"

// Config is the root configuration
type Config struct {
	Version   string           `toml:"version"`
	Active    string           `toml:"active"`
	Logging   LoggingConfig    `toml:"logging"`
	Storage   StorageConfig    `toml:"storage"`
	Documents []DocumentConfig `toml:"documents"`
}

// DocumentConfig describes one document to open
type DocumentConfig struct {
	Name string `toml:"name"`
	// Path to the document database; empty keeps it in memory
	Path string `toml:"path"`
}

// NewConfig loads and validates configuration from a TOML file
func NewConfig(filePath string) (*Config, error) {
	cfg, err := LoadFile(filePath)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToValidateConfig, err)
	}
	return cfg, nil
}

// NewConfigFromBytes loads and validates configuration from TOML bytes
func NewConfigFromBytes(data []byte) (*Config, error) {
	cfg, err := LoadBytes(data)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToValidateConfig, err)
	}
	return cfg, nil
}

// NewSingleDocument builds a configuration with one document at path.
func NewSingleDocument(name, path string) *Config {
	if name == "" {
		name = DefaultDocumentName
	}
	return &Config{
		Version:   VersionLatest,
		Active:    name,
		Documents: []DocumentConfig{{Name: name, Path: path}},
	}
}

// FindDocument returns the document configuration with the given name
func (c *Config) FindDocument(name string) (DocumentConfig, bool) {
	for _, doc := range c.Documents {
		if doc.Name == name {
			return doc, true
		}
	}
	return DocumentConfig{}, false
}

// ActiveDocument returns the name of the document that starts active:
// Active when set, otherwise the first document.
func (c *Config) ActiveDocument() string {
	if c.Active != "" {
		return c.Active
	}
	if len(c.Documents) > 0 {
		return c.Documents[0].Name
	}
	return ""
}
