// Package docmgr keeps track of the open documents and which one of them is
// active. It implements host.ContextProvider over goleveldb-backed documents.
package docmgr

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"sync"

	"github.com/atlanticdynamic/activetx/internal/docdb"
	"github.com/atlanticdynamic/activetx/internal/host"
)

// interface guard
var _ host.ContextProvider = (*Manager)(nil)

// Manager holds the open documents in the order they were opened.
type Manager struct {
	logger    *slog.Logger
	editorOut io.Writer
	dbOptions []docdb.Option

	mu     sync.RWMutex
	docs   []*Document
	active *Document
}

// New creates an empty Manager.
func New(opts ...Option) *Manager {
	m := &Manager{
		logger:    slog.Default().WithGroup("docmgr"),
		editorOut: os.Stdout,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Open opens a document backed by the database at path ("" for an
// in-memory database). The first document opened becomes active.
func (m *Manager) Open(name, path string) (*Document, error) {
	if name == "" {
		return nil, ErrEmptyName
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.find(name) != nil {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateDocument, name)
	}

	db, err := docdb.Open(path, m.dbOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to open document %s: %w", name, err)
	}

	doc := &Document{
		name:   name,
		editor: newEditor(name, m.editorOut, m.logger),
		db:     db,
	}
	m.docs = append(m.docs, doc)

	if m.active == nil {
		m.active = doc
	}

	m.logger.Debug("Opened document", "name", name, "path", path, "active", m.active == doc)
	return doc, nil
}

// Activate makes the named document the active one.
func (m *Manager) Activate(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc := m.find(name)
	if doc == nil {
		return fmt.Errorf("%w: %s", ErrDocumentNotFound, name)
	}
	m.active = doc
	m.logger.Debug("Activated document", "name", name)
	return nil
}

// Get returns the named document.
func (m *Manager) Get(name string) (*Document, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc := m.find(name)
	return doc, doc != nil
}

// CurrentDocument returns the active document.
func (m *Manager) CurrentDocument() (host.Document, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.active == nil {
		return nil, false
	}
	return m.active, true
}

// ActiveName returns the name of the active document, or "" when none is.
func (m *Manager) ActiveName() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.active == nil {
		return ""
	}
	return m.active.name
}

// Documents returns the open documents in the order they were opened.
func (m *Manager) Documents() []*Document {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.docs)
}

// Close closes the named document. Closing the active document leaves no
// document active.
func (m *Manager) Close(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := slices.IndexFunc(m.docs, func(d *Document) bool { return d.name == name })
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrDocumentNotFound, name)
	}

	doc := m.docs[idx]
	m.docs = slices.Delete(m.docs, idx, idx+1)
	if m.active == doc {
		m.active = nil
	}

	m.logger.Debug("Closing document", "name", name)
	return m.closeDocument(doc)
}

// CloseAll closes every open document.
func (m *Manager) CloseAll() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var errs []error
	for _, doc := range m.docs {
		if err := m.closeDocument(doc); err != nil {
			errs = append(errs, fmt.Errorf("failed to close document %s: %w", doc.name, err))
		}
	}
	m.docs = nil
	m.active = nil
	return errors.Join(errs...)
}

func (m *Manager) closeDocument(doc *Document) error {
	if n := doc.db.OpenTransactions(); n > 0 {
		m.logger.Warn("Closing document with open transactions", "name", doc.name, "open", n)
	}
	return doc.db.Close()
}

func (m *Manager) find(name string) *Document {
	for _, doc := range m.docs {
		if doc.name == name {
			return doc
		}
	}
	return nil
}
