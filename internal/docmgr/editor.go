package docmgr

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/atlanticdynamic/activetx/internal/host"
)

// interface guard
var _ host.Editor = (*Editor)(nil)

// Editor writes user-facing messages for one document.
type Editor struct {
	document string
	logger   *slog.Logger

	mu  sync.Mutex
	out io.Writer
}

func newEditor(document string, out io.Writer, logger *slog.Logger) *Editor {
	return &Editor{
		document: document,
		logger:   logger,
		out:      out,
	}
}

// WriteMessage formats and writes a message, ending it with a newline if
// the format does not.
func (e *Editor) WriteMessage(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if _, err := io.WriteString(e.out, msg); err != nil {
		e.logger.Warn("Failed to write editor message", "document", e.document, "error", err)
		return
	}
	e.logger.Debug("Editor message", "document", e.document, "message", strings.TrimSuffix(msg, "\n"))
}
