package midi

import (
	"sync"
	"sync/atomic"
)

// DefaultQueueCapacity is the number of pending events a queue holds before
// it starts dropping
const DefaultQueueCapacity = 256

// EventQueue hands events from control goroutines to the render goroutine.
//
// Capacity is fixed at construction. Push never grows the backing storage and
// Drain copies into a caller-owned slice, so the render side never allocates.
type EventQueue struct {
	mu      sync.Mutex
	events  []Event
	dropped atomic.Uint64
}

func NewEventQueue(capacity int) *EventQueue {
	if capacity < 1 {
		capacity = DefaultQueueCapacity
	}
	return &EventQueue{
		events: make([]Event, 0, capacity),
	}
}

// Push appends an event. It reports false and counts a drop when the queue
// is full.
func (q *EventQueue) Push(event Event) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.events) == cap(q.events) {
		q.dropped.Add(1)
		return false
	}
	q.events = append(q.events, event)
	return true
}

// Drain moves up to cap(dst) pending events into dst[:0] in arrival order and
// returns it. Events that do not fit stay queued for the next call.
func (q *EventQueue) Drain(dst []Event) []Event {
	dst = dst[:0]

	q.mu.Lock()
	defer q.mu.Unlock()

	n := len(q.events)
	if n > cap(dst) {
		n = cap(dst)
	}
	dst = append(dst, q.events[:n]...)

	remaining := copy(q.events, q.events[n:])
	for i := remaining; i < len(q.events); i++ {
		q.events[i] = nil
	}
	q.events = q.events[:remaining]
	return dst
}

func (q *EventQueue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i := range q.events {
		q.events[i] = nil
	}
	q.events = q.events[:0]
}

func (q *EventQueue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}

func (q *EventQueue) IsEmpty() bool {
	return q.Size() == 0
}

// Dropped returns the number of events rejected because the queue was full
func (q *EventQueue) Dropped() uint64 {
	return q.dropped.Load()
}

type EventProcessor interface {
	ProcessEvent(event Event)
}

// ProcessEvents drains the queue through scratch and hands every event to
// processor
func (q *EventQueue) ProcessEvents(processor EventProcessor, scratch []Event) {
	for {
		events := q.Drain(scratch)
		for _, event := range events {
			processor.ProcessEvent(event)
		}
		if len(events) < cap(scratch) || len(events) == 0 {
			return
		}
	}
}
