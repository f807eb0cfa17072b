// Package docdb is the storage behind a document: a key/value database on
// goleveldb whose transactions read from a snapshot and stage writes in a
// batch until they are committed.
package docdb

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/atlanticdynamic/activetx/internal/host"
	"github.com/syndtr/goleveldb/leveldb"
	ldberrors "github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// interface guards
var (
	_ host.Database           = (*DB)(nil)
	_ host.TransactionManager = (*TransactionManager)(nil)
)

// DB is a document database.
type DB struct {
	path       string
	ldb        *leveldb.DB
	ldbOptions *opt.Options
	logger     *slog.Logger

	openTx atomic.Int64

	mu     sync.RWMutex
	closed bool
}

// Open opens the database at path, creating it if needed. An empty path
// opens a database that lives only in memory.
func Open(path string, opts ...Option) (*DB, error) {
	o := defaultOptions
	db := &DB{
		path:       path,
		ldbOptions: &o,
		logger:     slog.Default().WithGroup("docdb"),
	}
	for _, option := range opts {
		option(db)
	}

	var err error
	if path == "" {
		db.ldb, err = leveldb.Open(storage.NewMemStorage(), db.ldbOptions)
		if err != nil {
			return nil, fmt.Errorf("failed to open in-memory database: %w", err)
		}
		db.logger.Debug("Opened in-memory database")
		return db, nil
	}

	db.ldb, err = leveldb.OpenFile(path, db.ldbOptions)

	// If the database is corrupted, attempt to recover.
	var corrupted *ldberrors.ErrCorrupted
	if errors.As(err, &corrupted) {
		db.logger.Warn("Database corruption detected, recovering", "path", path, "error", err)
		db.ldb, err = leveldb.RecoverFile(path, db.ldbOptions)
		if err == nil {
			db.logger.Warn("Database recovered from corruption", "path", path)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}

	db.logger.Debug("Opened database", "path", path)
	return db, nil
}

// Path returns the on-disk location, or "" for an in-memory database.
func (db *DB) Path() string {
	return db.path
}

// TransactionManager returns the manager that starts transactions on db.
func (db *DB) TransactionManager() host.TransactionManager {
	return &TransactionManager{db: db}
}

// Begin starts a new transaction.
func (db *DB) Begin() (*Transaction, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	if db.closed {
		return nil, ErrClosed
	}

	snapshot, err := db.ldb.GetSnapshot()
	if err != nil {
		return nil, fmt.Errorf("failed to take snapshot: %w", err)
	}

	db.openTx.Add(1)
	return &Transaction{
		db:       db,
		snapshot: snapshot,
		batch:    new(leveldb.Batch),
		pending:  make(map[string]pendingWrite),
	}, nil
}

// Get reads committed data outside of any transaction.
func (db *DB) Get(key []byte) ([]byte, error) {
	if len(key) == 0 {
		return nil, ErrEmptyKey
	}

	db.mu.RLock()
	defer db.mu.RUnlock()
	if db.closed {
		return nil, ErrClosed
	}

	val, err := db.ldb.Get(key, nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, key)
	}
	return val, err
}

// Keys returns all committed keys that start with prefix, in key order.
func (db *DB) Keys(prefix []byte) ([][]byte, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	if db.closed {
		return nil, ErrClosed
	}

	var rng *util.Range
	if len(prefix) > 0 {
		rng = util.BytesPrefix(prefix)
	}

	iter := db.ldb.NewIterator(rng, nil)
	defer iter.Release()

	var keys [][]byte
	for iter.Next() {
		keys = append(keys, append([]byte(nil), iter.Key()...))
	}
	return keys, iter.Error()
}

// OpenTransactions reports how many transactions have been started but
// not yet committed or released.
func (db *DB) OpenTransactions() int {
	return int(db.openTx.Load())
}

// Close closes the database. Open transactions are not released.
func (db *DB) Close() error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.closed {
		return nil
	}
	db.closed = true

	if n := db.openTx.Load(); n > 0 {
		db.logger.Warn("Closing database with open transactions", "open", n)
	}
	return db.ldb.Close()
}

// TransactionManager starts transactions against a DB.
type TransactionManager struct {
	db *DB
}

// StartTransaction starts a new transaction.
func (m *TransactionManager) StartTransaction() (host.Transaction, error) {
	tx, err := m.db.Begin()
	if err != nil {
		return nil, err
	}
	return tx, nil
}
