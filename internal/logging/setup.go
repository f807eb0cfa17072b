// Package logging builds the slog handlers used across activetx.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/atlanticdynamic/activetx/internal/logging/writers"
	"github.com/charmbracelet/log"
)

// Format names accepted by Setup.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// ParseLevel maps a level name to an slog level. "trace" is debug with
// caller reporting turned on by the handlers.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "trace", "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level: %s", level)
	}
}

// SetupHandlerText returns a charmbracelet/log handler writing to writer
// (stderr when nil). Unknown levels fall back to info.
func SetupHandlerText(logLevel string, writer io.Writer) slog.Handler {
	if writer == nil {
		writer = os.Stderr
	}

	lvl := log.InfoLevel
	level, _ := ParseLevel(logLevel)
	switch level {
	case slog.LevelDebug:
		lvl = log.DebugLevel
	case slog.LevelWarn:
		lvl = log.WarnLevel
	case slog.LevelError:
		lvl = log.ErrorLevel
	}

	trace := strings.EqualFold(logLevel, "trace")
	return log.NewWithOptions(writer, log.Options{
		ReportTimestamp: lvl == log.DebugLevel,
		ReportCaller:    trace,
		Level:           lvl,
	})
}

// SetupHandlerJSON returns a JSON handler writing to writer (stdout when
// nil). Unknown levels fall back to info.
func SetupHandlerJSON(logLevel string, writer io.Writer) slog.Handler {
	if writer == nil {
		writer = os.Stdout
	}

	level, _ := ParseLevel(logLevel)
	return slog.NewJSONHandler(writer, &slog.HandlerOptions{
		Level:     level,
		AddSource: strings.EqualFold(logLevel, "trace"),
	})
}

// Setup builds a handler from a level, a format and an output spec (see
// writers.CreateWriter), and installs it as the slog default. The returned
// closer releases the output.
func Setup(logLevel, format, output string) (slog.Handler, io.Closer, error) {
	if _, err := ParseLevel(logLevel); err != nil {
		return nil, nil, err
	}

	if output == "" {
		output = string(writers.WriterTypeStderr)
	}
	w, err := writers.CreateWriter(output)
	if err != nil {
		return nil, nil, err
	}

	var handler slog.Handler
	switch strings.ToLower(format) {
	case "", FormatText:
		handler = SetupHandlerText(logLevel, w)
	case FormatJSON:
		handler = SetupHandlerJSON(logLevel, w)
	default:
		_ = w.Close()
		return nil, nil, fmt.Errorf("unknown log format: %s", format)
	}

	slog.SetDefault(slog.New(handler))
	return handler, w, nil
}

// SetupLogger configures the default logger with a text handler on stderr.
func SetupLogger(logLevel string) {
	slog.SetDefault(slog.New(SetupHandlerText(logLevel, nil)))
}
