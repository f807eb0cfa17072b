package docdb

import (
	"errors"
	"fmt"
	"sync"

	"github.com/atlanticdynamic/activetx/internal/host"
	"github.com/syndtr/goleveldb/leveldb"
)

// interface guard
var _ host.Transaction = (*Transaction)(nil)

type txState int

const (
	txOpen txState = iota
	txCommitted
	txReleased
)

type pendingWrite struct {
	value   []byte
	deleted bool
}

// Transaction reads from the snapshot taken when it started, overlaid with
// its own staged writes. Nothing reaches the database until Commit.
type Transaction struct {
	db       *DB
	snapshot *leveldb.Snapshot
	batch    *leveldb.Batch
	pending  map[string]pendingWrite

	mu    sync.Mutex
	state txState
}

// Get returns the value for key.
func (tx *Transaction) Get(key []byte) ([]byte, error) {
	if len(key) == 0 {
		return nil, ErrEmptyKey
	}

	tx.mu.Lock()
	defer tx.mu.Unlock()
	if tx.state != txOpen {
		return nil, ErrTransactionClosed
	}

	if w, ok := tx.pending[string(key)]; ok {
		if w.deleted {
			return nil, fmt.Errorf("%w: %q", ErrNotFound, key)
		}
		return append([]byte(nil), w.value...), nil
	}

	val, err := tx.snapshot.Get(key, nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, key)
	}
	return val, err
}

// Has reports whether key exists.
func (tx *Transaction) Has(key []byte) (bool, error) {
	if len(key) == 0 {
		return false, ErrEmptyKey
	}

	tx.mu.Lock()
	defer tx.mu.Unlock()
	if tx.state != txOpen {
		return false, ErrTransactionClosed
	}

	if w, ok := tx.pending[string(key)]; ok {
		return !w.deleted, nil
	}
	return tx.snapshot.Has(key, nil)
}

// Put stages value under key.
func (tx *Transaction) Put(key, value []byte) error {
	if len(key) == 0 {
		return ErrEmptyKey
	}

	tx.mu.Lock()
	defer tx.mu.Unlock()
	if tx.state != txOpen {
		return ErrTransactionClosed
	}

	v := append([]byte(nil), value...)
	tx.batch.Put(key, v)
	tx.pending[string(key)] = pendingWrite{value: v}
	return nil
}

// Delete stages the removal of key.
func (tx *Transaction) Delete(key []byte) error {
	if len(key) == 0 {
		return ErrEmptyKey
	}

	tx.mu.Lock()
	defer tx.mu.Unlock()
	if tx.state != txOpen {
		return ErrTransactionClosed
	}

	tx.batch.Delete(key)
	tx.pending[string(key)] = pendingWrite{deleted: true}
	return nil
}

// Commit writes the staged batch atomically. If the write fails the
// transaction stays open so that Release can discard it.
func (tx *Transaction) Commit() error {
	tx.mu.Lock()
	defer tx.mu.Unlock()
	if tx.state != txOpen {
		return ErrTransactionClosed
	}

	tx.db.mu.RLock()
	defer tx.db.mu.RUnlock()
	if tx.db.closed {
		return ErrClosed
	}

	if err := tx.db.ldb.Write(tx.batch, nil); err != nil {
		return fmt.Errorf("failed to write batch: %w", err)
	}

	tx.state = txCommitted
	tx.close()
	return nil
}

// Release discards anything not committed. Releasing a committed
// transaction is a no-op; releasing twice returns ErrTransactionClosed.
func (tx *Transaction) Release() error {
	tx.mu.Lock()
	defer tx.mu.Unlock()
	switch tx.state {
	case txCommitted:
		tx.state = txReleased
		return nil
	case txReleased:
		return ErrTransactionClosed
	}

	tx.state = txReleased
	tx.close()
	return nil
}

func (tx *Transaction) close() {
	tx.snapshot.Release()
	tx.batch.Reset()
	tx.pending = nil
	tx.db.openTx.Add(-1)
}
