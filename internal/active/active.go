// Package active gives plugin code access to the host's active document and
// runs units of work against that document's database.
//
// UsingTransaction is the scoped transaction runner: it resolves the active
// document, starts a transaction, hands the caller a Handle, commits when the
// callback returns nil and releases the transaction on every exit path.
//
//	err := a.UsingTransaction(ctx, func(tx *active.Handle) error {
//		return tx.Put([]byte("layer/0"), []byte("continuous"))
//	})
package active

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/atlanticdynamic/activetx/internal/host"
)

// Active resolves the host's active document on every call. It never
// changes which document is active.
type Active struct {
	provider host.ContextProvider
	handler  slog.Handler
	logger   *slog.Logger
}

// New creates an Active bound to the given context provider.
func New(provider host.ContextProvider, opts ...Option) (*Active, error) {
	if provider == nil {
		return nil, ErrNilProvider
	}

	handler := slog.Default().Handler()
	a := &Active{
		provider: provider,
		handler:  handler,
		logger:   slog.New(handler).WithGroup("active"),
	}

	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	return a, nil
}

// Document returns the host's active document.
func (a *Active) Document() (host.Document, error) {
	doc, ok := a.provider.CurrentDocument()
	if !ok || doc == nil {
		return nil, ErrNoActiveContext
	}
	return doc, nil
}

// Editor returns the editor of the active document.
func (a *Active) Editor() (host.Editor, error) {
	doc, err := a.Document()
	if err != nil {
		return nil, err
	}
	return doc.Editor(), nil
}

// Database returns the database of the active document.
func (a *Active) Database() (host.Database, error) {
	doc, err := a.Document()
	if err != nil {
		return nil, err
	}
	db := doc.Database()
	if db == nil {
		return nil, ErrNoActiveContext
	}
	return db, nil
}

// UsingTransaction runs fn inside a new transaction on the active document's
// database.
//
// When fn returns nil the transaction is committed; a commit error is
// returned as-is. When fn returns an error the transaction is discarded and
// that same error value is returned. The transaction is released exactly
// once on every path, including a panic in fn, which is re-raised after the
// release. ctx is used for log correlation only.
func (a *Active) UsingTransaction(ctx context.Context, fn func(tx *Handle) error) (err error) {
	if fn == nil {
		return ErrNilCallback
	}

	doc, err := a.Document()
	if err != nil {
		a.logger.DebugContext(ctx, "No active document")
		return err
	}

	db := doc.Database()
	if db == nil {
		return ErrNoActiveContext
	}

	h, err := newHandle(doc.Name(), a.handler)
	if err != nil {
		return err
	}
	logger := a.logger.With("id", h.ID, "document", h.Document)

	tx, err := db.TransactionManager().StartTransaction()
	if err != nil {
		h.markDiscarded(err)
		logger.ErrorContext(ctx, "Failed to start transaction", "error", err)
		return fmt.Errorf("%w: %w", ErrStartTransaction, err)
	}

	if err := h.open(tx); err != nil {
		if relErr := tx.Release(); relErr != nil {
			logger.ErrorContext(ctx, "Failed to release transaction", "error", relErr)
		}
		return err
	}

	panicked := true
	defer func() {
		if panicked {
			// err is never observed by the caller
			logger.ErrorContext(ctx, "Transaction callback panicked")
			h.markDiscarded(nil)
		}

		relErr := h.release()
		if relErr == nil {
			return
		}
		if err != nil {
			logger.ErrorContext(ctx, "Failed to release transaction after failure",
				"error", relErr,
				"originalError", err)
			return
		}
		err = fmt.Errorf("%w: %w", ErrRelease, relErr)
	}()

	cbErr := fn(h)
	panicked = false
	if cbErr != nil {
		err = cbErr
		h.markDiscarded(err)
		logger.DebugContext(ctx, "Transaction callback failed", "error", err)
		return err
	}

	if err := h.commit(); err != nil {
		logger.WarnContext(ctx, "Failed to commit transaction", "error", err)
		return err
	}

	logger.DebugContext(ctx, "Transaction completed", "duration", h.GetTotalDuration())
	return nil
}

// Query runs fn inside UsingTransaction and returns its value. The value is
// only returned when the transaction committed.
func Query[T any](ctx context.Context, a *Active, fn func(tx *Handle) (T, error)) (T, error) {
	var result T
	err := a.UsingTransaction(ctx, func(tx *Handle) error {
		v, err := fn(tx)
		if err != nil {
			return err
		}
		result = v
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}
