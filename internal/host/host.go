// Package host defines the capabilities a host application exposes to code
// that works against its active document. The interfaces mirror the chain
// document -> database -> transaction manager -> transaction, so callers can
// be exercised against a real document manager or a test double.
package host

// ContextProvider resolves the document that is currently active in the host.
type ContextProvider interface {
	// CurrentDocument returns the active document, or false when no
	// document is active.
	CurrentDocument() (Document, bool)
}

// Document is a single open document in the host.
type Document interface {
	Name() string
	Editor() Editor
	Database() Database
}

// Editor is the user-facing message area of a document.
type Editor interface {
	WriteMessage(format string, args ...any)
}

// Database is the storage behind a document.
type Database interface {
	TransactionManager() TransactionManager
}

// TransactionManager starts transactions against a Database.
type TransactionManager interface {
	StartTransaction() (Transaction, error)
}

// Accessor is the data surface of an open transaction.
type Accessor interface {
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)
	Put(key, value []byte) error
	Delete(key []byte) error
}

// Transaction is a unit of work against a Database. Effects become visible
// only after Commit. Release must be called exactly once on every path; it
// discards anything that was not committed.
type Transaction interface {
	Accessor
	Commit() error
	Release() error
}
