package tracing

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/xid"
)

// JSONTraceWriter writes tasks as one JSON array.
type JSONTraceWriter struct {
	path      string
	file      *os.File
	w         *bufio.Writer
	firstTask bool
}

// NewJSONTraceWriter creates a writer for path + ".json". An empty path picks
// a unique name.
func NewJSONTraceWriter(path string) *JSONTraceWriter {
	if path == "" {
		path = "carousel_trace_" + xid.New().String()
	}

	return &JSONTraceWriter{
		path:      path + ".json",
		firstTask: true,
	}
}

// Path returns the file name of the trace.
func (t *JSONTraceWriter) Path() string {
	return t.path
}

// Init creates the file and opens the array.
func (t *JSONTraceWriter) Init() error {
	if _, err := os.Stat(t.path); err == nil {
		return fmt.Errorf("trace file %s already exists", t.path)
	}

	f, err := os.Create(t.path)
	if err != nil {
		return err
	}

	t.file = f
	t.w = bufio.NewWriter(f)

	_, err = t.w.WriteString("[\n")

	return err
}

// Write appends a task to the array.
func (t *JSONTraceWriter) Write(task Task) error {
	if t.w == nil {
		return fmt.Errorf("trace file %s is not open", t.path)
	}

	if t.firstTask {
		t.firstTask = false
	} else if _, err := t.w.WriteString(",\n"); err != nil {
		return err
	}

	b, err := json.Marshal(task)
	if err != nil {
		return err
	}

	_, err = t.w.Write(b)

	return err
}

// Flush writes the buffered bytes to the file.
func (t *JSONTraceWriter) Flush() error {
	if t.w == nil {
		return nil
	}

	return t.w.Flush()
}

// Close closes the array and the file.
func (t *JSONTraceWriter) Close() error {
	if t.file == nil {
		return nil
	}

	_, err := t.w.WriteString("\n]\n")
	if err == nil {
		err = t.w.Flush()
	}

	if closeErr := t.file.Close(); err == nil {
		err = closeErr
	}

	t.file = nil
	t.w = nil

	return err
}
