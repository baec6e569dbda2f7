package tracing

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/xid"
)

// CSVTraceWriter is a task tracer that can store the tasks into a CSV file.
type CSVTraceWriter struct {
	path string
	file *os.File
	w    *csv.Writer

	tasks      []Task
	bufferSize int
}

// NewCSVTraceWriter creates a new CSVTraceWriter writing to path + ".csv". An
// empty path picks a unique name.
func NewCSVTraceWriter(path string) *CSVTraceWriter {
	if path == "" {
		path = "carousel_trace_" + xid.New().String()
	}

	return &CSVTraceWriter{
		path:       path + ".csv",
		bufferSize: 1000,
	}
}

// Path returns the file name of the trace.
func (t *CSVTraceWriter) Path() string {
	return t.path
}

// Init creates the tracing csv file. It fails if the file already exists.
func (t *CSVTraceWriter) Init() error {
	if _, err := os.Stat(t.path); err == nil {
		return fmt.Errorf("trace file %s already exists", t.path)
	}

	file, err := os.Create(t.path)
	if err != nil {
		return err
	}

	t.file = file
	t.w = csv.NewWriter(file)

	return t.w.Write([]string{
		"ID", "ParentID", "Kind", "What", "Where", "Start", "End", "Steps",
	})
}

// Write buffers a task.
func (t *CSVTraceWriter) Write(task Task) error {
	t.tasks = append(t.tasks, task)
	if len(t.tasks) >= t.bufferSize {
		return t.Flush()
	}

	return nil
}

// Flush flushes the tasks to the CSV file.
func (t *CSVTraceWriter) Flush() error {
	if t.w == nil {
		return nil
	}

	for _, task := range t.tasks {
		err := t.w.Write([]string{
			task.ID,
			task.ParentID,
			task.Kind,
			task.What,
			task.Where,
			strconv.FormatUint(uint64(task.StartTime), 10),
			strconv.FormatUint(uint64(task.EndTime), 10),
			formatSteps(task.Steps),
		})
		if err != nil {
			return err
		}
	}

	t.tasks = nil
	t.w.Flush()

	return t.w.Error()
}

// formatSteps renders steps as "what@time" joined by semicolons.
func formatSteps(steps []TaskStep) string {
	parts := make([]string, len(steps))
	for i, s := range steps {
		parts[i] = fmt.Sprintf("%s@%d", s.What, s.Time)
	}

	return strings.Join(parts, ";")
}

// Close flushes the tasks and closes the file.
func (t *CSVTraceWriter) Close() error {
	if t.file == nil {
		return nil
	}

	err := t.Flush()
	if closeErr := t.file.Close(); err == nil {
		err = closeErr
	}

	t.file = nil
	t.w = nil

	return err
}
