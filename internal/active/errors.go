package active

import "errors"

var (
	// ErrNoActiveContext indicates that no active document could be resolved
	ErrNoActiveContext = errors.New("no active document")

	// ErrNilProvider indicates that Active was constructed without a context provider
	ErrNilProvider = errors.New("context provider cannot be nil")

	// ErrNilCallback indicates that UsingTransaction was called without a callback
	ErrNilCallback = errors.New("transaction callback cannot be nil")

	// ErrStartTransaction indicates that the host refused to start a transaction
	ErrStartTransaction = errors.New("failed to start transaction")

	// ErrRelease indicates that a committed transaction could not be released
	ErrRelease = errors.New("failed to release transaction")

	// ErrHandleReleased indicates use of a handle after its transaction was released
	ErrHandleReleased = errors.New("transaction handle has been released")
)
