// Package timing provides the event engines that drive rotation timers.
//
// Every timer in the module is an Event scheduled on an EventScheduler. The
// SerialEngine runs events in virtual time and is what tests and scenario
// replays use; the RealtimeEngine fires the same events on the wall clock.
package timing

import (
	"time"

	"github.com/sarchlab/carousel/hooking"
	"github.com/sarchlab/carousel/idgen"
)

// VTimeInMs is a point in time, in milliseconds since the engine started.
type VTimeInMs uint64

// Ms converts a duration to VTimeInMs. Non-positive durations become 0.
func Ms(d time.Duration) VTimeInMs {
	if d <= 0 {
		return 0
	}

	return VTimeInMs(d / time.Millisecond)
}

// Duration converts the time back to a time.Duration.
func (t VTimeInMs) Duration() time.Duration {
	return time.Duration(t) * time.Millisecond
}

// An Event is something going to happen in the future.
//
// Engines identify events by interface equality, so events are passed around
// as pointers.
type Event interface {
	// Time returns the time that the event should happen.
	Time() VTimeInMs

	// Handler returns the handler that should handle the event.
	Handler() Handler

	// IsSecondary tells if the event is a secondary event. Secondary events
	// are handled after all same-time primary events are handled.
	IsSecondary() bool
}

// EventBase provides the basic fields and getters for other events.
type EventBase struct {
	ID        string
	time      VTimeInMs
	handler   Handler
	secondary bool
}

// NewEventBase creates a new EventBase.
func NewEventBase(t VTimeInMs, handler Handler) *EventBase {
	e := new(EventBase)
	e.ID = idgen.Generate()
	e.time = t
	e.handler = handler

	return e
}

// Time returns the time that the event is going to happen.
func (e *EventBase) Time() VTimeInMs {
	return e.time
}

// Handler returns the handler to handle the event.
func (e *EventBase) Handler() Handler {
	return e.handler
}

// IsSecondary returns true if the event is a secondary event.
func (e *EventBase) IsSecondary() bool {
	return e.secondary
}

// A Handler defines a domain for the events.
type Handler interface {
	Handle(e Event) error
}

// TimeTeller can be used to get the current time.
type TimeTeller interface {
	CurrentTime() VTimeInMs
}

// EventScheduler can be used to schedule and cancel future events.
type EventScheduler interface {
	TimeTeller

	// Schedule registers an event to happen in the future.
	Schedule(e Event)

	// Cancel removes a scheduled event. Canceling an event that has already
	// fired or was never scheduled is a no-op.
	Cancel(e Event)
}

// An Engine keeps events running.
type Engine interface {
	hooking.Hookable
	EventScheduler

	// Run processes events. SerialEngine returns once the queue drains;
	// RealtimeEngine returns once it is closed.
	Run() error

	// Pause stops the engine from triggering more events.
	Pause()

	// Continue resumes a paused engine.
	Continue()
}

// HookPosBeforeEvent is a hook position that triggers before handling an
// event.
var HookPosBeforeEvent = &hooking.HookPos{Name: "BeforeEvent"}

// HookPosAfterEvent is a hook position that triggers after handling an event.
var HookPosAfterEvent = &hooking.HookPos{Name: "AfterEvent"}
