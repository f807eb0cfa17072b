package docdb

import "errors"

var (
	// ErrNotFound indicates that a key does not exist
	ErrNotFound = errors.New("key not found")

	// ErrEmptyKey indicates an operation with an empty key
	ErrEmptyKey = errors.New("key cannot be empty")

	// ErrTransactionClosed indicates use of a committed or released transaction
	ErrTransactionClosed = errors.New("transaction is closed")

	// ErrClosed indicates use of a closed database
	ErrClosed = errors.New("database is closed")
)
