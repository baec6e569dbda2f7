package timing

import (
	"fmt"
	"log"
	"math"
	"reflect"
	"sync"

	"github.com/sarchlab/carousel/hooking"
)

// A SerialEngine is an Engine that runs events one after another in virtual
// time. Time only moves when events are processed or when RunUntil is asked to
// advance the clock, which makes every timer deterministic.
type SerialEngine struct {
	*hooking.HookableBase

	lock           sync.Mutex
	now            VTimeInMs
	queue          *eventQueue
	secondaryQueue *eventQueue
	entries        map[Event]*queueEntry

	isPaused     bool
	isPausedLock sync.Mutex
	pauseLock    sync.Mutex

	singleRunLock sync.Mutex
}

// NewSerialEngine creates a SerialEngine.
func NewSerialEngine() *SerialEngine {
	e := new(SerialEngine)

	e.HookableBase = hooking.NewHookableBase()
	e.queue = newEventQueue()
	e.secondaryQueue = newEventQueue()
	e.entries = make(map[Event]*queueEntry)

	return e
}

// Schedule registers an event to happen in the future.
func (e *SerialEngine) Schedule(evt Event) {
	e.lock.Lock()
	defer e.lock.Unlock()

	if evt.Time() < e.now {
		log.Panicf(
			"timing: cannot schedule event in the past, evt %s @ %d, now %d",
			reflect.TypeOf(evt), evt.Time(), e.now,
		)
	}

	if _, scheduled := e.entries[evt]; scheduled {
		return
	}

	if evt.IsSecondary() {
		e.entries[evt] = e.secondaryQueue.Push(evt)
		return
	}

	e.entries[evt] = e.queue.Push(evt)
}

// Cancel removes a queued event. It is a no-op for events that are not queued.
func (e *SerialEngine) Cancel(evt Event) {
	e.lock.Lock()
	defer e.lock.Unlock()

	entry, ok := e.entries[evt]
	if !ok {
		return
	}

	entry.queue.Remove(entry)
	delete(e.entries, evt)
}

// Pending returns the number of events waiting in the queues.
func (e *SerialEngine) Pending() int {
	e.lock.Lock()
	defer e.lock.Unlock()

	return len(e.entries)
}

// Run processes all the events until the queues drain.
func (e *SerialEngine) Run() error {
	return e.RunUntil(VTimeInMs(math.MaxUint64))
}

// RunFor processes the events of the next d milliseconds of virtual time.
func (e *SerialEngine) RunFor(d VTimeInMs) error {
	return e.RunUntil(e.CurrentTime() + d)
}

// RunUntil processes all events scheduled at or before deadline and then moves
// the clock to the deadline. Events scheduled later stay queued.
func (e *SerialEngine) RunUntil(deadline VTimeInMs) error {
	e.singleRunLock.Lock()
	defer e.singleRunLock.Unlock()

	for {
		e.pauseLock.Lock()

		evt := e.nextEventNoLaterThan(deadline)
		if evt == nil {
			e.pauseLock.Unlock()
			return nil
		}

		err := e.dispatch(evt)

		e.pauseLock.Unlock()

		if err != nil {
			return err
		}
	}
}

func (e *SerialEngine) dispatch(evt Event) error {
	hookCtx := hooking.HookCtx{
		Domain: e,
		Pos:    HookPosBeforeEvent,
		Item:   evt,
	}
	e.InvokeHook(hookCtx)

	var err error
	if handler := evt.Handler(); handler != nil {
		err = handler.Handle(evt)
	}

	hookCtx.Pos = HookPosAfterEvent
	e.InvokeHook(hookCtx)

	if err != nil {
		return fmt.Errorf("handling %s @ %d: %w", reflect.TypeOf(evt), evt.Time(), err)
	}

	return nil
}

func (e *SerialEngine) nextEventNoLaterThan(deadline VTimeInMs) Event {
	e.lock.Lock()
	defer e.lock.Unlock()

	q := e.nextQueue()
	if q == nil || q.Peek().Time() > deadline {
		if deadline != VTimeInMs(math.MaxUint64) && deadline > e.now {
			e.now = deadline
		}

		return nil
	}

	evt := q.Pop()
	delete(e.entries, evt)

	if evt.Time() < e.now {
		log.Panicf(
			"timing: cannot run event in the past, evt %s @ %d, now %d",
			reflect.TypeOf(evt), evt.Time(), e.now,
		)
	}

	e.now = evt.Time()

	return evt
}

func (e *SerialEngine) nextQueue() *eventQueue {
	if e.queue.Len() == 0 && e.secondaryQueue.Len() == 0 {
		return nil
	}

	if e.queue.Len() == 0 {
		return e.secondaryQueue
	}

	if e.secondaryQueue.Len() == 0 {
		return e.queue
	}

	if e.queue.Peek().Time() <= e.secondaryQueue.Peek().Time() {
		return e.queue
	}

	return e.secondaryQueue
}

// Pause prevents the SerialEngine from triggering more events.
func (e *SerialEngine) Pause() {
	e.isPausedLock.Lock()
	defer e.isPausedLock.Unlock()

	if e.isPaused {
		return
	}

	e.pauseLock.Lock()
	e.isPaused = true
}

// Continue allows the SerialEngine to trigger more events.
func (e *SerialEngine) Continue() {
	e.isPausedLock.Lock()
	defer e.isPausedLock.Unlock()

	if !e.isPaused {
		return
	}

	e.pauseLock.Unlock()
	e.isPaused = false
}

// CurrentTime returns the time of the event being handled, or the deadline of
// the last RunUntil call if that is later.
func (e *SerialEngine) CurrentTime() VTimeInMs {
	e.lock.Lock()
	defer e.lock.Unlock()

	return e.now
}
