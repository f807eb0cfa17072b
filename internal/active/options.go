package active

import (
	"log/slog"
)

// Option represents a functional option for configuring Active.
type Option func(*Active) error

// WithLogHandler sets a custom slog handler for the Active instance.
// For example, to use a custom JSON handler with debug level:
//
//	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
func WithLogHandler(handler slog.Handler) Option {
	return func(a *Active) error {
		if handler != nil {
			a.handler = handler
			a.logger = slog.New(handler).WithGroup("active")
		}
		return nil
	}
}

// WithLogger sets a logger for the Active instance.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Active) error {
		if logger != nil {
			a.handler = logger.Handler()
			a.logger = logger
		}
		return nil
	}
}
