package config

import (
	"errors"
	"fmt"

	"github.com/atlanticdynamic/activetx/internal/config/errz"
)

// Validate checks the configuration and reports every problem it finds
func (c *Config) Validate() error {
	if c.Version == "" {
		c.Version = VersionLatest
	}
	if c.Version != VersionLatest {
		return fmt.Errorf("%w: %s", ErrUnsupportedConfigVer, c.Version)
	}

	errs := []error{}

	if !c.Logging.Format.IsValid() {
		errs = append(errs, fmt.Errorf("%w: log format '%s'", errz.ErrInvalidValue, c.Logging.Format))
	}
	if !c.Logging.Level.IsValid() {
		errs = append(errs, fmt.Errorf("%w: log level '%s'", errz.ErrInvalidValue, c.Logging.Level))
	}

	errs = append(errs, c.Storage.Validate()...)

	if len(c.Documents) == 0 {
		errs = append(errs, fmt.Errorf("%w: at least one document", errz.ErrMissingRequiredField))
	}

	names := make(map[string]bool, len(c.Documents))
	for i, doc := range c.Documents {
		if doc.Name == "" {
			errs = append(errs, fmt.Errorf("%w: document at index %d has no name", errz.ErrEmptyID, i))
			continue
		}
		if names[doc.Name] {
			errs = append(errs, fmt.Errorf("%w: document '%s'", errz.ErrDuplicateID, doc.Name))
			continue
		}
		names[doc.Name] = true
	}

	if c.Active != "" && !names[c.Active] {
		errs = append(errs, fmt.Errorf("%w: active document '%s'", errz.ErrDocumentNotFound, c.Active))
	}

	return errors.Join(errs...)
}
