package docmgr

import "errors"

var (
	// ErrDocumentNotFound indicates that no open document has the requested name
	ErrDocumentNotFound = errors.New("document not found")

	// ErrDuplicateDocument indicates that a document with the same name is already open
	ErrDuplicateDocument = errors.New("document already open")

	// ErrEmptyName indicates that a document was opened without a name
	ErrEmptyName = errors.New("document name cannot be empty")
)
