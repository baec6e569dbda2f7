package tracing

import (
	"errors"
	"fmt"
)

// ErrUnknownFormat is returned by NewTraceWriter for unsupported formats.
var ErrUnknownFormat = errors.New("unknown trace format")

// Formats lists the formats NewTraceWriter accepts.
var Formats = []string{"sqlite", "csv", "json"}

// NewTraceWriter creates a writer for format at path, without extension.
func NewTraceWriter(format, path string) (TraceWriter, error) {
	switch format {
	case "sqlite":
		return NewSQLiteTraceWriter(path), nil
	case "csv":
		return NewCSVTraceWriter(path), nil
	case "json":
		return NewJSONTraceWriter(path), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}
