// Package tracing records carousel transitions as tasks and writes them to
// SQLite, CSV or JSON traces.
package tracing

import "github.com/sarchlab/carousel/timing"

// Task kinds and step names produced by CollectTrace.
const (
	KindTransition = "transition"

	StepAccepted = "accepted"
	StepSettled  = "settled"
	StepAborted  = "aborted"
)

// A TaskStep represents a milestone in the processing of task
type TaskStep struct {
	Time timing.VTimeInMs `json:"time"`
	What string           `json:"what"`
}

// A Task is one traced transition.
type Task struct {
	ID        string           `json:"id"`
	ParentID  string           `json:"parent_id"`
	Kind      string           `json:"kind"`
	What      string           `json:"what"`
	Where     string           `json:"where"`
	StartTime timing.VTimeInMs `json:"start_time"`
	EndTime   timing.VTimeInMs `json:"end_time"`
	Steps     []TaskStep       `json:"steps"`
	Detail    any              `json:"-"`
}

// Duration returns how long the task took.
func (t Task) Duration() timing.VTimeInMs {
	if t.EndTime < t.StartTime {
		return 0
	}

	return t.EndTime - t.StartTime
}

// TaskFilter is a function that can filter interesting tasks. If this function
// returns true, the task is considered useful.
type TaskFilter func(t Task) bool

// All accepts every task.
func All(Task) bool {
	return true
}

// WhatIs accepts the tasks whose What matches one of whats.
func WhatIs(whats ...string) TaskFilter {
	return func(t Task) bool {
		for _, w := range whats {
			if t.What == w {
				return true
			}
		}

		return false
	}
}
