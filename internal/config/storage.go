package config

import (
	"fmt"

	"github.com/atlanticdynamic/activetx/internal/config/errz"
)

// StorageConfig tunes the databases behind every document. Zero values keep
// the built-in defaults.
type StorageConfig struct {
	BlockCacheMiB  int         `toml:"block_cache_mib"`
	WriteBufferMiB int         `toml:"write_buffer_mib"`
	Compression    Compression `toml:"compression"`
}

// Compression names the block compression used on disk
type Compression string

// Constants for Compression
const (
	CompressionUnspecified Compression = ""
	CompressionSnappy      Compression = "snappy"
	CompressionNone        Compression = "none"
)

// IsValid checks if the Compression is valid
func (c Compression) IsValid() bool {
	switch c {
	case CompressionUnspecified, CompressionSnappy, CompressionNone:
		return true
	default:
		return false
	}
}

// IsZero reports whether no storage tuning is configured
func (sc StorageConfig) IsZero() bool {
	return sc == StorageConfig{}
}

// Validate checks the storage settings
func (sc StorageConfig) Validate() []error {
	var errs []error
	if sc.BlockCacheMiB < 0 {
		errs = append(errs, fmt.Errorf("%w: block_cache_mib %d", errz.ErrInvalidValue, sc.BlockCacheMiB))
	}
	if sc.WriteBufferMiB < 0 {
		errs = append(errs, fmt.Errorf("%w: write_buffer_mib %d", errz.ErrInvalidValue, sc.WriteBufferMiB))
	}
	if !sc.Compression.IsValid() {
		errs = append(errs, fmt.Errorf("%w: compression '%s'", errz.ErrInvalidValue, sc.Compression))
	}
	return errs
}
