package docmgr

import (
	"io"
	"log/slog"

	"github.com/atlanticdynamic/activetx/internal/docdb"
)

// Option represents a functional option for configuring a Manager.
type Option func(*Manager)

// WithLogHandler sets a custom slog handler for the Manager and the
// databases it opens.
func WithLogHandler(handler slog.Handler) Option {
	return func(m *Manager) {
		if handler != nil {
			m.logger = slog.New(handler).WithGroup("docmgr")
			m.dbOptions = append(m.dbOptions, docdb.WithLogHandler(handler))
		}
	}
}

// WithEditorOutput sets where document editors write user-facing messages.
func WithEditorOutput(w io.Writer) Option {
	return func(m *Manager) {
		if w != nil {
			m.editorOut = w
		}
	}
}

// WithDatabaseOptions adds options used when opening document databases.
func WithDatabaseOptions(opts ...docdb.Option) Option {
	return func(m *Manager) {
		m.dbOptions = append(m.dbOptions, opts...)
	}
}
