package docmgr

import (
	"github.com/atlanticdynamic/activetx/internal/docdb"
	"github.com/atlanticdynamic/activetx/internal/host"
)

// interface guard
var _ host.Document = (*Document)(nil)

// Document is an open document with its editor and database.
type Document struct {
	name   string
	editor *Editor
	db     *docdb.DB
}

// Name returns the document's name.
func (d *Document) Name() string {
	return d.name
}

// Editor returns the document's editor.
func (d *Document) Editor() host.Editor {
	return d.editor
}

// Database returns the document's database.
func (d *Document) Database() host.Database {
	return d.db
}

// DB returns the concrete database, for read-only inspection outside a
// transaction.
func (d *Document) DB() *docdb.DB {
	return d.db
}
