package active

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/atlanticdynamic/activetx/internal/active/finitestate"
	"github.com/atlanticdynamic/activetx/internal/host/mocks"
	"github.com/atlanticdynamic/activetx/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupActive(t *testing.T) (*Active, *mocks.MockTransactionManager) {
	t.Helper()
	tm := &mocks.MockTransactionManager{}
	provider, _ := mocks.NewActiveDocument("drawing", tm)

	a, err := New(provider, WithLogHandler(slog.Default().Handler()))
	require.NoError(t, err)
	return a, tm
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("nil provider", func(t *testing.T) {
		a, err := New(nil)
		require.ErrorIs(t, err, ErrNilProvider)
		assert.Nil(t, a)
	})

	t.Run("with logger", func(t *testing.T) {
		logger := slog.Default().With("test", true)
		a, err := New(mocks.NewNoActiveDocument(), WithLogger(logger))
		require.NoError(t, err)
		assert.Same(t, logger, a.logger)
	})
}

func TestAccessors(t *testing.T) {
	t.Parallel()

	t.Run("active document", func(t *testing.T) {
		a, _ := setupActive(t)

		doc, err := a.Document()
		require.NoError(t, err)
		assert.Equal(t, "drawing", doc.Name())

		ed, err := a.Editor()
		require.NoError(t, err)
		assert.NotNil(t, ed)

		db, err := a.Database()
		require.NoError(t, err)
		assert.NotNil(t, db)
	})

	t.Run("no active document", func(t *testing.T) {
		a, err := New(mocks.NewNoActiveDocument())
		require.NoError(t, err)

		_, err = a.Document()
		require.ErrorIs(t, err, ErrNoActiveContext)
		_, err = a.Editor()
		require.ErrorIs(t, err, ErrNoActiveContext)
		_, err = a.Database()
		require.ErrorIs(t, err, ErrNoActiveContext)
	})

	t.Run("document without database", func(t *testing.T) {
		doc := &mocks.MockDocument{}
		doc.On("Database").Return(nil)
		provider := &mocks.MockContextProvider{}
		provider.On("CurrentDocument").Return(doc, true)

		a, err := New(provider)
		require.NoError(t, err)

		_, err = a.Database()
		require.ErrorIs(t, err, ErrNoActiveContext)
	})
}

func TestUsingTransaction(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("commits and releases once on success", func(t *testing.T) {
		a, tm := setupActive(t)
		tx := &mocks.MockTransaction{}
		tm.On("StartTransaction").Return(tx, nil).Once()
		tx.On("Put", []byte("k"), []byte("v")).Return(nil).Once()
		tx.On("Commit").Return(nil).Once()
		tx.On("Release").Return(nil).Once()

		var seen *Handle
		err := a.UsingTransaction(ctx, func(h *Handle) error {
			seen = h
			assert.True(t, h.IsOpen())
			assert.Equal(t, finitestate.StateOpen, h.GetState())
			assert.Equal(t, "drawing", h.Document)
			return h.Put([]byte("k"), []byte("v"))
		})
		require.NoError(t, err)

		tm.AssertExpectations(t)
		tx.AssertExpectations(t)
		tx.AssertNumberOfCalls(t, "Commit", 1)
		tx.AssertNumberOfCalls(t, "Release", 1)

		require.NotNil(t, seen)
		assert.Equal(t, finitestate.StateCommitted, seen.GetState())
		assert.False(t, seen.IsOpen())
		assert.True(t, seen.IsReleased())
	})

	t.Run("callback error discards and is returned unchanged", func(t *testing.T) {
		a, tm := setupActive(t)
		tx := &mocks.MockTransaction{}
		tm.On("StartTransaction").Return(tx, nil).Once()
		tx.On("Put", mock.Anything, mock.Anything).Return(nil)
		tx.On("Release").Return(nil).Once()

		callbackErr := errors.New("bad entity")
		var seen *Handle
		err := a.UsingTransaction(ctx, func(h *Handle) error {
			seen = h
			require.NoError(t, h.Put([]byte("k"), []byte("v")))
			return callbackErr
		})

		assert.Same(t, callbackErr, err)
		tx.AssertNotCalled(t, "Commit")
		tx.AssertNumberOfCalls(t, "Release", 1)
		assert.Equal(t, finitestate.StateDiscarded, seen.GetState())
	})

	t.Run("no active document never starts a transaction", func(t *testing.T) {
		// the document is reachable but not reported as active
		tm := &mocks.MockTransactionManager{}
		_, doc := mocks.NewActiveDocument("drawing", tm)
		provider := &mocks.MockContextProvider{}
		provider.On("CurrentDocument").Return(doc, false)
		a, err := New(provider)
		require.NoError(t, err)

		called := false
		err = a.UsingTransaction(ctx, func(h *Handle) error {
			called = true
			return nil
		})

		require.ErrorIs(t, err, ErrNoActiveContext)
		assert.False(t, called)
		tm.AssertNotCalled(t, "StartTransaction")
	})

	t.Run("nil callback", func(t *testing.T) {
		a, tm := setupActive(t)
		err := a.UsingTransaction(ctx, nil)
		require.ErrorIs(t, err, ErrNilCallback)
		tm.AssertNotCalled(t, "StartTransaction")
	})

	t.Run("start failure is wrapped", func(t *testing.T) {
		a, tm := setupActive(t)
		hostErr := errors.New("database locked")
		tm.On("StartTransaction").Return(nil, hostErr).Once()

		called := false
		err := a.UsingTransaction(ctx, func(h *Handle) error {
			called = true
			return nil
		})

		require.ErrorIs(t, err, ErrStartTransaction)
		require.ErrorIs(t, err, hostErr)
		assert.False(t, called)
	})

	t.Run("commit failure is returned directly and still releases", func(t *testing.T) {
		a, tm := setupActive(t)
		tx := &mocks.MockTransaction{}
		commitErr := errors.New("eWasOpenForWrite")
		tm.On("StartTransaction").Return(tx, nil).Once()
		tx.On("Commit").Return(commitErr).Once()
		tx.On("Release").Return(nil).Once()

		var seen *Handle
		err := a.UsingTransaction(ctx, func(h *Handle) error {
			seen = h
			return nil
		})

		assert.Same(t, commitErr, err)
		tx.AssertNumberOfCalls(t, "Release", 1)
		assert.Equal(t, finitestate.StateDiscarded, seen.GetState())
	})

	t.Run("release failure after commit is reported", func(t *testing.T) {
		a, tm := setupActive(t)
		tx := &mocks.MockTransaction{}
		relErr := errors.New("release failed")
		tm.On("StartTransaction").Return(tx, nil).Once()
		tx.On("Commit").Return(nil).Once()
		tx.On("Release").Return(relErr).Once()

		err := a.UsingTransaction(ctx, func(h *Handle) error { return nil })

		require.ErrorIs(t, err, ErrRelease)
		require.ErrorIs(t, err, relErr)
	})

	t.Run("release failure after callback failure keeps the callback error", func(t *testing.T) {
		a, tm := setupActive(t)
		tx := &mocks.MockTransaction{}
		tm.On("StartTransaction").Return(tx, nil).Once()
		tx.On("Release").Return(errors.New("release failed")).Once()

		callbackErr := errors.New("bad entity")
		err := a.UsingTransaction(ctx, func(h *Handle) error { return callbackErr })

		assert.Same(t, callbackErr, err)
	})

	t.Run("panic releases without commit and re-panics", func(t *testing.T) {
		a, tm := setupActive(t)
		tx := &mocks.MockTransaction{}
		tm.On("StartTransaction").Return(tx, nil).Once()
		tx.On("Release").Return(nil).Once()

		var seen *Handle
		assert.PanicsWithValue(t, "boom", func() {
			_ = a.UsingTransaction(ctx, func(h *Handle) error {
				seen = h
				panic("boom")
			})
		})

		tx.AssertNotCalled(t, "Commit")
		tx.AssertNumberOfCalls(t, "Release", 1)
		assert.Equal(t, finitestate.StateDiscarded, seen.GetState())
		assert.True(t, seen.IsReleased())
	})

	t.Run("failed commit transition is not reported as a panic", func(t *testing.T) {
		logs := &testutil.ThreadSafeBuffer{}
		handler := slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug})
		tm := &mocks.MockTransactionManager{}
		provider, _ := mocks.NewActiveDocument("drawing", tm)
		a, err := New(provider, WithLogHandler(handler))
		require.NoError(t, err)

		tx := &mocks.MockTransaction{}
		tm.On("StartTransaction").Return(tx, nil).Once()
		tx.On("Commit").Return(nil).Once()
		tx.On("Release").Return(nil).Once()

		transitionErr := errors.New("transition rejected")
		err = a.UsingTransaction(ctx, func(h *Handle) error {
			h.fsm = &rejectingMachine{Machine: h.fsm, reject: finitestate.StateCommitted, err: transitionErr}
			return nil
		})

		require.ErrorIs(t, err, transitionErr)
		tx.AssertNumberOfCalls(t, "Commit", 1)
		tx.AssertNumberOfCalls(t, "Release", 1)
		assert.NotContains(t, logs.String(), "panicked")
	})

	t.Run("handle is invalid after the callback", func(t *testing.T) {
		a, tm := setupActive(t)
		tx := &mocks.MockTransaction{}
		tm.On("StartTransaction").Return(tx, nil).Once()
		tx.On("Commit").Return(nil).Once()
		tx.On("Release").Return(nil).Once()

		var leaked *Handle
		require.NoError(t, a.UsingTransaction(ctx, func(h *Handle) error {
			leaked = h
			return nil
		}))

		_, err := leaked.Get([]byte("k"))
		require.ErrorIs(t, err, ErrHandleReleased)
		_, err = leaked.Has([]byte("k"))
		require.ErrorIs(t, err, ErrHandleReleased)
		require.ErrorIs(t, leaked.Put([]byte("k"), []byte("v")), ErrHandleReleased)
		require.ErrorIs(t, leaked.Delete([]byte("k")), ErrHandleReleased)

		tx.AssertNotCalled(t, "Get", mock.Anything)
		tx.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
	})

	t.Run("each call runs its own transaction", func(t *testing.T) {
		a, tm := setupActive(t)
		first := &mocks.MockTransaction{}
		second := &mocks.MockTransaction{}
		tm.On("StartTransaction").Return(first, nil).Once()
		tm.On("StartTransaction").Return(second, nil).Once()
		for _, tx := range []*mocks.MockTransaction{first, second} {
			tx.On("Commit").Return(nil).Once()
			tx.On("Release").Return(nil).Once()
		}

		var ids []string
		for range 2 {
			require.NoError(t, a.UsingTransaction(ctx, func(h *Handle) error {
				ids = append(ids, h.ID.String())
				return nil
			}))
		}

		require.Len(t, ids, 2)
		assert.NotEqual(t, ids[0], ids[1])
		first.AssertExpectations(t)
		second.AssertExpectations(t)
	})
}

func TestQuery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("returns the value on commit", func(t *testing.T) {
		a, tm := setupActive(t)
		tx := &mocks.MockTransaction{}
		tm.On("StartTransaction").Return(tx, nil).Once()
		tx.On("Get", []byte("k")).Return([]byte("v"), nil).Once()
		tx.On("Commit").Return(nil).Once()
		tx.On("Release").Return(nil).Once()

		val, err := Query(ctx, a, func(h *Handle) ([]byte, error) {
			return h.Get([]byte("k"))
		})
		require.NoError(t, err)
		assert.Equal(t, []byte("v"), val)
	})

	t.Run("returns the zero value on commit failure", func(t *testing.T) {
		a, tm := setupActive(t)
		tx := &mocks.MockTransaction{}
		commitErr := errors.New("commit failed")
		tm.On("StartTransaction").Return(tx, nil).Once()
		tx.On("Commit").Return(commitErr).Once()
		tx.On("Release").Return(nil).Once()

		val, err := Query(ctx, a, func(h *Handle) (int, error) {
			return 42, nil
		})
		assert.Same(t, commitErr, err)
		assert.Zero(t, val)
	})
}

func TestHandleLogs(t *testing.T) {
	t.Parallel()

	tm := &mocks.MockTransactionManager{}
	provider, _ := mocks.NewActiveDocument("drawing", tm)
	handler := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug})
	a, err := New(provider, WithLogHandler(handler))
	require.NoError(t, err)

	tx := &mocks.MockTransaction{}
	tm.On("StartTransaction").Return(tx, nil).Once()
	tx.On("Put", mock.Anything, mock.Anything).Return(nil)
	tx.On("Commit").Return(nil).Once()
	tx.On("Release").Return(nil).Once()

	var seen *Handle
	require.NoError(t, a.UsingTransaction(context.Background(), func(h *Handle) error {
		seen = h
		return h.Put([]byte("k"), []byte("v"))
	}))

	logs := seen.GetLogs()
	require.NotEmpty(t, logs)

	var messages []string
	for _, record := range logs {
		messages = append(messages, record.Message)
	}
	assert.Contains(t, messages, "Transaction opened")
	assert.Contains(t, messages, "Transaction committed")
	assert.Contains(t, messages, "Transaction released")

	var buf bytes.Buffer
	require.NoError(t, seen.PlaybackLogs(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	assert.Contains(t, buf.String(), "Transaction committed")
}

// rejectingMachine fails transitions into one state.
type rejectingMachine struct {
	finitestate.Machine
	reject string
	err    error
}

func (m *rejectingMachine) Transition(state string) error {
	if state == m.reject {
		return m.err
	}
	return m.Machine.Transition(state)
}
