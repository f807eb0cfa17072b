package active

import (
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/atlanticdynamic/activetx/internal/active/finitestate"
	"github.com/atlanticdynamic/activetx/internal/host"
	"github.com/gofrs/uuid/v5"
	"github.com/robbyt/go-loglater"
	"github.com/robbyt/go-loglater/storage"
)

// interface guard
var _ host.Accessor = (*Handle)(nil)

// Handle is the transaction handle passed to a UsingTransaction callback.
// It is only valid while the callback runs; every data operation on a
// released handle returns ErrHandleReleased.
type Handle struct {
	// ID is the unique identifier for this transaction
	ID uuid.UUID

	// Document is the name of the document the transaction runs against
	Document  string
	CreatedAt time.Time

	fsm finitestate.Machine

	logger       *slog.Logger
	logCollector *loglater.LogCollector

	tx       host.Transaction
	released atomic.Bool
}

func newHandle(document string, handler slog.Handler) (*Handle, error) {
	id := uuid.Must(uuid.NewV6())

	sm, err := finitestate.New(handler)
	if err != nil {
		return nil, fmt.Errorf("%s failed to create state machine: %w", id, err)
	}

	logCollector := loglater.NewLogCollector(handler)
	logger := slog.New(logCollector).With(
		"id", id,
		"document", document)

	h := &Handle{
		ID:           id,
		Document:     document,
		CreatedAt:    time.Now(),
		fsm:          sm,
		logger:       logger,
		logCollector: logCollector,
	}
	return h, nil
}

// GetState returns the current lifecycle state of the handle
func (h *Handle) GetState() string {
	return h.fsm.GetState()
}

// IsOpen reports whether the handle can still be used for data operations
func (h *Handle) IsOpen() bool {
	return !h.released.Load() && h.GetState() == finitestate.StateOpen
}

// IsReleased reports whether the underlying transaction has been released
func (h *Handle) IsReleased() bool {
	return h.released.Load()
}

// Get returns the value stored under key, as seen by this transaction
func (h *Handle) Get(key []byte) ([]byte, error) {
	if err := h.usable(); err != nil {
		return nil, err
	}
	return h.tx.Get(key)
}

// Has reports whether key exists, as seen by this transaction
func (h *Handle) Has(key []byte) (bool, error) {
	if err := h.usable(); err != nil {
		return false, err
	}
	return h.tx.Has(key)
}

// Put stages a write of value under key
func (h *Handle) Put(key, value []byte) error {
	if err := h.usable(); err != nil {
		return err
	}
	h.logger.Debug("Put", "key", string(key), "size", len(value))
	return h.tx.Put(key, value)
}

// Delete stages the removal of key
func (h *Handle) Delete(key []byte) error {
	if err := h.usable(); err != nil {
		return err
	}
	h.logger.Debug("Delete", "key", string(key))
	return h.tx.Delete(key)
}

// GetLogs returns the log records collected over the life of this handle
func (h *Handle) GetLogs() []storage.Record {
	return h.logCollector.GetLogs()
}

// PlaybackLogs plays back the handle's logs to the given handler
func (h *Handle) PlaybackLogs(handler slog.Handler) error {
	return h.logCollector.PlayLogs(handler)
}

// GetTotalDuration returns how long the handle has existed
func (h *Handle) GetTotalDuration() time.Duration {
	return time.Since(h.CreatedAt)
}

func (h *Handle) usable() error {
	if h.released.Load() || h.tx == nil {
		return ErrHandleReleased
	}
	return nil
}

// open attaches the started host transaction
func (h *Handle) open(tx host.Transaction) error {
	if err := h.fsm.Transition(finitestate.StateOpen); err != nil {
		h.logger.Error("Failed to transition to open state", "error", err)
		return err
	}
	h.tx = tx
	h.logger.Debug("Transaction opened", "state", finitestate.StateOpen)
	return nil
}

// commit commits the host transaction. A failed commit leaves the handle discarded.
func (h *Handle) commit() error {
	if err := h.usable(); err != nil {
		return err
	}

	if err := h.tx.Commit(); err != nil {
		h.markDiscarded(err)
		return err
	}

	if err := h.fsm.Transition(finitestate.StateCommitted); err != nil {
		h.logger.Error("Failed to transition to committed state", "error", err)
		return err
	}

	h.logger.Debug(
		"Transaction committed",
		"state", finitestate.StateCommitted,
		"duration", time.Since(h.CreatedAt),
	)
	return nil
}

// markDiscarded records that the handle's work will not be committed
func (h *Handle) markDiscarded(cause error) {
	from := h.GetState()
	if err := h.fsm.Transition(finitestate.StateDiscarded); err != nil {
		h.logger.Error("Failed to transition to discarded state",
			"error", err,
			"fromState", from,
			"originalError", cause)
		return
	}
	h.logger.Debug("Transaction discarded", "fromState", from, "error", cause)
}

// release releases the host transaction. Only the first call reaches the host.
func (h *Handle) release() error {
	if !h.released.CompareAndSwap(false, true) {
		return nil
	}
	if h.tx == nil {
		return nil
	}
	if err := h.tx.Release(); err != nil {
		h.logger.Error("Failed to release transaction", "error", err, "state", h.GetState())
		return err
	}
	h.logger.Debug("Transaction released", "state", h.GetState())
	return nil
}
