package timing

import (
	"sync"
)

// TimerEvent is the event a Timer schedules.
type TimerEvent struct {
	*EventBase
	Timer *Timer
}

// A Timer is a one-shot countdown on an EventScheduler. A Timer has at most
// one outstanding event: arming it again replaces the pending event.
//
// Handlers receive the TimerEvent and must call Claim to find out whether the
// event is still the live one. An event that was canceled while already on
// its way to the handler fails the claim and should be ignored.
type Timer struct {
	lock      sync.Mutex
	name      string
	handler   Handler
	Engine    EventScheduler
	secondary bool

	pending *TimerEvent
}

// NewTimer creates a timer whose events are delivered to handler.
func NewTimer(name string, handler Handler, engine EventScheduler) *Timer {
	return &Timer{
		name:    name,
		handler: handler,
		Engine:  engine,
	}
}

// NewSecondaryTimer creates a timer that schedules secondary events, which run
// after same-time primary events.
func NewSecondaryTimer(
	name string,
	handler Handler,
	engine EventScheduler,
) *Timer {
	t := NewTimer(name, handler, engine)
	t.secondary = true

	return t
}

// Name returns the name of the timer.
func (t *Timer) Name() string {
	return t.name
}

// Arm schedules the timer to expire delay milliseconds from now, canceling
// any pending expiry.
func (t *Timer) Arm(delay VTimeInMs) *TimerEvent {
	t.lock.Lock()
	defer t.lock.Unlock()

	t.cancelPending()

	evt := &TimerEvent{
		EventBase: NewEventBase(t.Engine.CurrentTime()+delay, t.handler),
		Timer:     t,
	}
	evt.secondary = t.secondary

	t.pending = evt
	t.Engine.Schedule(evt)

	return evt
}

// Cancel cancels the pending expiry, if any. Cancel is idempotent.
func (t *Timer) Cancel() {
	t.lock.Lock()
	defer t.lock.Unlock()

	t.cancelPending()
}

func (t *Timer) cancelPending() {
	if t.pending == nil {
		return
	}

	t.Engine.Cancel(t.pending)
	t.pending = nil
}

// Pending returns true if the timer has an outstanding expiry.
func (t *Timer) Pending() bool {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.pending != nil
}

// Due returns the time of the outstanding expiry.
func (t *Timer) Due() (VTimeInMs, bool) {
	t.lock.Lock()
	defer t.lock.Unlock()

	if t.pending == nil {
		return 0, false
	}

	return t.pending.Time(), true
}

// Claim reports whether evt is this timer's outstanding expiry. A successful
// claim clears the pending slot, so the same event cannot be claimed twice.
func (t *Timer) Claim(evt Event) bool {
	t.lock.Lock()
	defer t.lock.Unlock()

	timerEvt, ok := evt.(*TimerEvent)
	if !ok || t.pending == nil || timerEvt != t.pending {
		return false
	}

	t.pending = nil

	return true
}
