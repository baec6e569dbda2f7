package tracing

import (
	"errors"
	"sync"

	"github.com/tebeka/atexit"

	"github.com/sarchlab/carousel/timing"
)

// DBTracer is a tracer that can store tasks into a database.
// DBTracers can connect with different backends so that the tasks can be stored
// in different types of databases (e.g., CSV files, SQL databases, etc.)
type DBTracer struct {
	lock    sync.Mutex
	backend TraceWriter

	startTime, endTime timing.VTimeInMs

	tracingTasks map[string]Task
	terminated   bool
	err          error
}

// NewDBTracer creates a new DBTracer. The backend is initialized here and
// closed when the program exits through atexit.
func NewDBTracer(backend TraceWriter) (*DBTracer, error) {
	if err := backend.Init(); err != nil {
		return nil, err
	}

	t := &DBTracer{
		backend:      backend,
		tracingTasks: make(map[string]Task),
	}

	atexit.Register(func() {
		_ = t.Terminate()
	})

	return t, nil
}

// SetTimeRange limits tracing to the tasks that overlap [startTime, endTime].
// A zero bound is open.
func (t *DBTracer) SetTimeRange(startTime, endTime timing.VTimeInMs) {
	t.lock.Lock()
	defer t.lock.Unlock()

	t.startTime = startTime
	t.endTime = endTime
}

// StartTask marks the start of a task.
func (t *DBTracer) StartTask(task Task) {
	startingTaskMustBeValid(task)

	t.lock.Lock()
	defer t.lock.Unlock()

	if t.terminated {
		return
	}

	if t.endTime > 0 && task.StartTime > t.endTime {
		return
	}

	task.Steps = nil
	t.tracingTasks[task.ID] = task
}

func startingTaskMustBeValid(task Task) {
	if task.ID == "" {
		panic("task ID must be set")
	}

	if task.Kind == "" {
		panic("task kind must be set")
	}

	if task.What == "" {
		panic("task what must be set")
	}

	if task.Where == "" {
		panic("task where must be set")
	}
}

// StepTask marks a step of a task.
func (t *DBTracer) StepTask(task Task) {
	t.lock.Lock()
	defer t.lock.Unlock()

	originalTask, ok := t.tracingTasks[task.ID]
	if !ok {
		return
	}

	originalTask.Steps = append(originalTask.Steps, task.Steps...)
	t.tracingTasks[task.ID] = originalTask
}

// EndTask marks the end of a task.
func (t *DBTracer) EndTask(task Task) {
	t.lock.Lock()
	defer t.lock.Unlock()

	originalTask, ok := t.tracingTasks[task.ID]
	if !ok {
		return
	}

	delete(t.tracingTasks, task.ID)

	if t.startTime > 0 && task.EndTime < t.startTime {
		return
	}

	originalTask.EndTime = task.EndTime

	if err := t.backend.Write(originalTask); err != nil && t.err == nil {
		t.err = err
	}
}

// Err returns the first error the backend reported.
func (t *DBTracer) Err() error {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.err
}

// Terminate drops the unfinished tasks and closes the backend. Terminate is
// idempotent.
func (t *DBTracer) Terminate() error {
	t.lock.Lock()
	defer t.lock.Unlock()

	if t.terminated {
		return t.err
	}

	t.terminated = true
	t.tracingTasks = make(map[string]Task)

	return errors.Join(t.err, t.backend.Close())
}
