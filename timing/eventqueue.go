package timing

import (
	"container/heap"
)

// queueEntry remembers where an event sits so that it can be removed when
// canceled.
type queueEntry struct {
	evt   Event
	seq   uint64
	index int
	queue *eventQueue
}

// eventQueue is a queue of events ordered by time. Events with the same time
// come out in the order they were pushed. The queue is not thread safe; the
// owning engine serializes access.
type eventQueue struct {
	events  eventHeap
	nextSeq uint64
}

func newEventQueue() *eventQueue {
	q := new(eventQueue)
	q.events = make([]*queueEntry, 0)
	heap.Init(&q.events)

	return q
}

// Push adds an event to the queue.
func (q *eventQueue) Push(evt Event) *queueEntry {
	entry := &queueEntry{evt: evt, seq: q.nextSeq, queue: q}
	q.nextSeq++
	heap.Push(&q.events, entry)

	return entry
}

// Pop removes and returns the next earliest event.
func (q *eventQueue) Pop() Event {
	entry := heap.Pop(&q.events).(*queueEntry)
	return entry.evt
}

// Peek returns the event in front of the queue without removing it.
func (q *eventQueue) Peek() Event {
	return q.events[0].evt
}

// Len returns the number of events in the queue.
func (q *eventQueue) Len() int {
	return q.events.Len()
}

// Remove takes a queued entry out of the queue.
func (q *eventQueue) Remove(entry *queueEntry) {
	if entry.index < 0 || entry.index >= len(q.events) ||
		q.events[entry.index] != entry {
		return
	}

	heap.Remove(&q.events, entry.index)
}

type eventHeap []*queueEntry

func (h eventHeap) Len() int {
	return len(h)
}

// Less returns true if the i-th event happens before the j-th event.
func (h eventHeap) Less(i, j int) bool {
	ti, tj := h[i].evt.Time(), h[j].evt.Time()
	if ti != tj {
		return ti < tj
	}

	return h[i].seq < h[j].seq
}

func (h eventHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *eventHeap) Push(x any) {
	entry := x.(*queueEntry)
	entry.index = len(*h)
	*h = append(*h, entry)
}

func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	entry := old[n-1]
	old[n-1] = nil
	entry.index = -1
	*h = old[0 : n-1]

	return entry
}
