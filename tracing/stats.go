package tracing

import (
	"sort"
	"sync"

	"github.com/sarchlab/carousel/timing"
)

// ActionStats are the transition counts of one action.
type ActionStats struct {
	Started uint64
	Settled uint64
	Aborted uint64

	// SettleTime is the summed duration of the settled transitions.
	SettleTime timing.VTimeInMs
}

// AverageTime returns the mean duration of the settled transitions, rounded
// to the nearest millisecond.
func (s ActionStats) AverageTime() timing.VTimeInMs {
	if s.Settled == 0 {
		return 0
	}

	n := timing.VTimeInMs(s.Settled)

	return (s.SettleTime + n/2) / n
}

func (s ActionStats) add(o ActionStats) ActionStats {
	s.Started += o.Started
	s.Settled += o.Settled
	s.Aborted += o.Aborted
	s.SettleTime += o.SettleTime

	return s
}

// TransitionStats is a Tracer that counts transitions per action and how
// they ended.
type TransitionStats struct {
	filter TaskFilter

	lock     sync.Mutex
	inflight map[string]Task
	actions  map[string]ActionStats
}

// NewTransitionStats creates a TransitionStats that only counts the tasks
// accepted by filter.
func NewTransitionStats(filter TaskFilter) *TransitionStats {
	return &TransitionStats{
		filter:   filter,
		inflight: make(map[string]Task),
		actions:  make(map[string]ActionStats),
	}
}

// Actions returns the actions seen so far, sorted.
func (t *TransitionStats) Actions() []string {
	t.lock.Lock()
	defer t.lock.Unlock()

	names := make([]string, 0, len(t.actions))
	for name := range t.actions {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Of returns the numbers of one action.
func (t *TransitionStats) Of(action string) ActionStats {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.actions[action]
}

// Total returns the numbers of all actions together.
func (t *TransitionStats) Total() ActionStats {
	t.lock.Lock()
	defer t.lock.Unlock()

	var total ActionStats
	for _, s := range t.actions {
		total = total.add(s)
	}

	return total
}

// StartTask counts a started transition.
func (t *TransitionStats) StartTask(task Task) {
	if !t.filter(task) {
		return
	}

	t.lock.Lock()
	defer t.lock.Unlock()

	t.inflight[task.ID] = task

	s := t.actions[task.What]
	s.Started++
	t.actions[task.What] = s
}

// StepTask counts how a transition ended.
func (t *TransitionStats) StepTask(task Task) {
	if len(task.Steps) == 0 {
		return
	}

	t.lock.Lock()
	defer t.lock.Unlock()

	started, ok := t.inflight[task.ID]
	if !ok {
		return
	}

	step := task.Steps[0]
	s := t.actions[started.What]

	switch step.What {
	case StepSettled:
		s.Settled++
		s.SettleTime += step.Time - started.StartTime
	case StepAborted:
		s.Aborted++
	}

	t.actions[started.What] = s
}

// EndTask forgets a finished transition.
func (t *TransitionStats) EndTask(task Task) {
	t.lock.Lock()
	defer t.lock.Unlock()

	delete(t.inflight, task.ID)
}
