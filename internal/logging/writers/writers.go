// Package writers resolves log output specifications to writers.
package writers

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// WriterType represents the type of writer to create
type WriterType string

const (
	WriterTypeStdout WriterType = "stdout"
	WriterTypeStderr WriterType = "stderr"
	WriterTypeFile   WriterType = "file"
)

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// CreateWriter creates a writer from an output specification:
//   - "stdout" or "" - os.Stdout
//   - "stderr" - os.Stderr
//   - "file:///path/to/file" or "/path/to/file" - appends to the file,
//     creating parent directories
//
// Closing a stdout or stderr writer does nothing.
func CreateWriter(output string) (io.WriteCloser, error) {
	switch ParseWriterType(output) {
	case WriterTypeStdout:
		return nopCloser{os.Stdout}, nil
	case WriterTypeStderr:
		return nopCloser{os.Stderr}, nil
	}

	path := strings.TrimPrefix(output, "file://")
	if !isFilePath(path) {
		return nil, fmt.Errorf("unsupported output format: %s", output)
	}
	return createFileWriter(path)
}

// ParseWriterType determines the writer type from an output string
func ParseWriterType(output string) WriterType {
	switch output {
	case "", string(WriterTypeStdout):
		return WriterTypeStdout
	case string(WriterTypeStderr):
		return WriterTypeStderr
	}
	return WriterTypeFile
}

func isFilePath(path string) bool {
	if strings.Contains(path, "://") {
		return false
	}
	return strings.ContainsAny(path, `/\`) || filepath.Ext(path) != ""
}

func createFileWriter(path string) (io.WriteCloser, error) {
	dir := filepath.Dir(path)
	if dir != "." && dir != "/" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	return file, nil
}
