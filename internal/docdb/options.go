package docdb

import (
	"log/slog"

	"github.com/syndtr/goleveldb/leveldb/opt"
)

var defaultOptions = opt.Options{
	Compression:            opt.SnappyCompression,
	BlockCacheCapacity:     8 * opt.MiB,
	WriteBuffer:            4 * opt.MiB,
	DisableSeeksCompaction: true,
}

// DefaultOptions returns a copy of the options Open uses unless
// WithLevelDBOptions replaces them.
func DefaultOptions() opt.Options {
	return defaultOptions
}

// Option represents a functional option for configuring a DB.
type Option func(*DB)

// WithLogHandler sets a custom slog handler for the DB.
func WithLogHandler(handler slog.Handler) Option {
	return func(db *DB) {
		if handler != nil {
			db.logger = slog.New(handler).WithGroup("docdb")
		}
	}
}

// WithLogger sets a logger for the DB.
func WithLogger(logger *slog.Logger) Option {
	return func(db *DB) {
		if logger != nil {
			db.logger = logger
		}
	}
}

// WithLevelDBOptions overrides the options used to open the underlying store.
func WithLevelDBOptions(o *opt.Options) Option {
	return func(db *DB) {
		if o != nil {
			db.ldbOptions = o
		}
	}
}
