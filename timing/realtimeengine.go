package timing

import (
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/sarchlab/carousel/hooking"
)

// A RealtimeEngine fires events on the wall clock. Each event gets its own
// time.Timer; handlers still run one at a time, so a handler never observes
// another handler half way through.
//
// Secondary events are not reordered: on the wall clock, events due at the
// same millisecond fire in timer order.
type RealtimeEngine struct {
	*hooking.HookableBase

	start time.Time

	lock   sync.Mutex
	timers map[Event]*time.Timer
	closed bool
	err    error
	done   chan struct{}

	isPaused     bool
	isPausedLock sync.Mutex
	dispatchLock sync.Mutex
}

// NewRealtimeEngine creates a RealtimeEngine whose time 0 is now.
func NewRealtimeEngine() *RealtimeEngine {
	return &RealtimeEngine{
		HookableBase: hooking.NewHookableBase(),
		start:        time.Now(),
		timers:       make(map[Event]*time.Timer),
		done:         make(chan struct{}),
	}
}

// CurrentTime returns the milliseconds elapsed since the engine was created.
func (e *RealtimeEngine) CurrentTime() VTimeInMs {
	return Ms(time.Since(e.start))
}

// Schedule arms a timer for the event. Events whose time already passed fire
// immediately. Scheduling on a closed engine is a no-op.
func (e *RealtimeEngine) Schedule(evt Event) {
	e.lock.Lock()
	defer e.lock.Unlock()

	if e.closed {
		return
	}

	if _, scheduled := e.timers[evt]; scheduled {
		return
	}

	delay := time.Duration(0)
	if now := e.CurrentTime(); evt.Time() > now {
		delay = (evt.Time() - now).Duration()
	}

	e.timers[evt] = time.AfterFunc(delay, func() { e.fire(evt) })
}

// Cancel stops the timer of a scheduled event. Canceling an event that has
// already fired or was never scheduled is a no-op.
func (e *RealtimeEngine) Cancel(evt Event) {
	e.lock.Lock()
	defer e.lock.Unlock()

	timer, ok := e.timers[evt]
	if !ok {
		return
	}

	timer.Stop()
	delete(e.timers, evt)
}

// Pending returns the number of armed timers.
func (e *RealtimeEngine) Pending() int {
	e.lock.Lock()
	defer e.lock.Unlock()

	return len(e.timers)
}

func (e *RealtimeEngine) fire(evt Event) {
	e.lock.Lock()
	if _, ok := e.timers[evt]; !ok || e.closed {
		e.lock.Unlock()
		return
	}
	delete(e.timers, evt)
	e.lock.Unlock()

	e.dispatchLock.Lock()
	defer e.dispatchLock.Unlock()

	if e.isClosed() {
		return
	}

	hookCtx := hooking.HookCtx{
		Domain: e,
		Pos:    HookPosBeforeEvent,
		Item:   evt,
	}
	e.InvokeHook(hookCtx)

	if handler := evt.Handler(); handler != nil {
		if err := handler.Handle(evt); err != nil {
			e.recordErr(fmt.Errorf(
				"handling %s @ %d: %w", reflect.TypeOf(evt), evt.Time(), err))
		}
	}

	hookCtx.Pos = HookPosAfterEvent
	e.InvokeHook(hookCtx)
}

func (e *RealtimeEngine) isClosed() bool {
	e.lock.Lock()
	defer e.lock.Unlock()

	return e.closed
}

func (e *RealtimeEngine) recordErr(err error) {
	e.lock.Lock()
	defer e.lock.Unlock()

	if e.err == nil {
		e.err = err
	}
}

// Run blocks until the engine is closed and returns the first error reported
// by a handler, if any.
func (e *RealtimeEngine) Run() error {
	<-e.done

	e.lock.Lock()
	defer e.lock.Unlock()

	return e.err
}

// Close stops every armed timer and releases Run. A paused engine is resumed
// so that no dispatcher stays blocked. Close is idempotent.
func (e *RealtimeEngine) Close() {
	e.lock.Lock()

	if e.closed {
		e.lock.Unlock()
		return
	}

	e.closed = true
	for evt, timer := range e.timers {
		timer.Stop()
		delete(e.timers, evt)
	}

	close(e.done)
	e.lock.Unlock()

	e.Continue()
}

// Pause holds back event dispatching until Continue is called. Timers keep
// running; events that come due while paused fire on Continue.
func (e *RealtimeEngine) Pause() {
	e.isPausedLock.Lock()
	defer e.isPausedLock.Unlock()

	if e.isPaused {
		return
	}

	e.dispatchLock.Lock()
	e.isPaused = true
}

// Continue resumes event dispatching.
func (e *RealtimeEngine) Continue() {
	e.isPausedLock.Lock()
	defer e.isPausedLock.Unlock()

	if !e.isPaused {
		return
	}

	e.dispatchLock.Unlock()
	e.isPaused = false
}
