// Package viewport delivers viewport width changes to interested parties
// through explicit subscriptions.
package viewport

import (
	"sort"
	"sync"
)

// A Listener is notified when the viewport width changes.
type Listener interface {
	NotifyResize(width int)
}

// ListenerFunc adapts a function into a Listener.
type ListenerFunc func(width int)

// NotifyResize calls f(width).
func (f ListenerFunc) NotifyResize(width int) {
	f(width)
}

// A Subscription is released by calling Unsubscribe. Unsubscribe is
// idempotent.
type Subscription interface {
	Unsubscribe()
}

// A Source reports the viewport width and resize notifications.
type Source interface {
	// Width returns the current viewport width.
	Width() int

	// Subscribe registers a listener. The listener is not called with the
	// current width; read Width for that.
	Subscribe(l Listener) Subscription
}

// A Broadcaster is a Source whose width is pushed in by the host.
type Broadcaster struct {
	lock      sync.Mutex
	width     int
	nextID    uint64
	listeners map[uint64]Listener
}

// NewBroadcaster creates a broadcaster with the given initial width.
func NewBroadcaster(width int) *Broadcaster {
	return &Broadcaster{
		width:     width,
		listeners: make(map[uint64]Listener),
	}
}

// Width returns the last width set.
func (b *Broadcaster) Width() int {
	b.lock.Lock()
	defer b.lock.Unlock()

	return b.width
}

// Subscribe registers a listener.
func (b *Broadcaster) Subscribe(l Listener) Subscription {
	b.lock.Lock()
	defer b.lock.Unlock()

	id := b.nextID
	b.nextID++
	b.listeners[id] = l

	return &subscription{b: b, id: id}
}

// NumListeners returns the number of live subscriptions.
func (b *Broadcaster) NumListeners() int {
	b.lock.Lock()
	defer b.lock.Unlock()

	return len(b.listeners)
}

// Resize records the new width and notifies every listener, in subscription
// order. Listeners are called without the broadcaster lock held, so they may
// unsubscribe from inside the callback.
func (b *Broadcaster) Resize(width int) {
	b.lock.Lock()
	b.width = width
	listeners := b.snapshotListeners()
	b.lock.Unlock()

	for _, l := range listeners {
		l.NotifyResize(width)
	}
}

func (b *Broadcaster) snapshotListeners() []Listener {
	ids := make([]uint64, 0, len(b.listeners))
	for id := range b.listeners {
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	listeners := make([]Listener, 0, len(ids))
	for _, id := range ids {
		listeners = append(listeners, b.listeners[id])
	}

	return listeners
}

type subscription struct {
	once sync.Once
	b    *Broadcaster
	id   uint64
}

func (s *subscription) Unsubscribe() {
	s.once.Do(func() {
		s.b.lock.Lock()
		defer s.b.lock.Unlock()

		delete(s.b.listeners, s.id)
	})
}

// Fixed is a Source whose width never changes.
type Fixed int

// Width returns the fixed width.
func (f Fixed) Width() int {
	return int(f)
}

// Subscribe returns a subscription that never delivers anything.
func (f Fixed) Subscribe(Listener) Subscription {
	return noopSubscription{}
}

type noopSubscription struct{}

func (noopSubscription) Unsubscribe() {}
