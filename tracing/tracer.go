package tracing

// A Tracer can collect task traces
type Tracer interface {
	StartTask(task Task)
	StepTask(task Task)
	EndTask(task Task)
}

// A TraceWriter persists completed tasks.
type TraceWriter interface {
	// Init creates the output.
	Init() error

	// Write buffers a task.
	Write(task Task) error

	// Flush writes the buffered tasks.
	Flush() error

	// Close flushes and releases the output. Close is idempotent.
	Close() error
}
