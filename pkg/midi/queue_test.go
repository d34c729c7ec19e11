package midi

import (
	"sync"
	"testing"
)

func TestEventQueue(t *testing.T) {
	q := NewEventQueue(8)

	if !q.IsEmpty() {
		t.Error("expected queue to be empty")
	}

	q.Push(NoteOnEvent{BaseEvent{0}, 60, 100})
	q.Push(NoteOffEvent{BaseEvent: BaseEvent{0}, NoteNumber: 60})
	q.Push(SustainEvent{BaseEvent{0}, true})

	if q.Size() != 3 {
		t.Errorf("expected size 3, got %d", q.Size())
	}

	events := q.Drain(make([]Event, 0, 8))
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	if events[0].Type() != EventTypeNoteOn || events[1].Type() != EventTypeNoteOff || events[2].Type() != EventTypeSustain {
		t.Errorf("expected arrival order to be preserved, got %v", events)
	}
	if !q.IsEmpty() {
		t.Errorf("expected queue to be empty after drain, got %d", q.Size())
	}
}

func TestEventQueueDropsWhenFull(t *testing.T) {
	q := NewEventQueue(2)

	for i := 0; i < 5; i++ {
		q.Push(NoteOnEvent{BaseEvent{0}, uint8(60 + i), 100})
	}

	if q.Size() != 2 {
		t.Errorf("expected size 2, got %d", q.Size())
	}
	if q.Dropped() != 3 {
		t.Errorf("expected 3 dropped events, got %d", q.Dropped())
	}

	events := q.Drain(make([]Event, 0, 4))
	if events[0].(NoteOnEvent).NoteNumber != 60 || events[1].(NoteOnEvent).NoteNumber != 61 {
		t.Errorf("expected oldest events to be kept, got %v", events)
	}
}

func TestEventQueuePartialDrain(t *testing.T) {
	q := NewEventQueue(8)
	for i := 0; i < 5; i++ {
		q.Push(NoteOnEvent{BaseEvent{0}, uint8(60 + i), 100})
	}

	scratch := make([]Event, 0, 2)
	events := q.Drain(scratch)
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if q.Size() != 3 {
		t.Errorf("expected 3 events left, got %d", q.Size())
	}

	events = q.Drain(scratch)
	if events[0].(NoteOnEvent).NoteNumber != 62 {
		t.Errorf("expected note 62 next, got %v", events[0])
	}
}

func TestEventQueueDrainDoesNotAllocate(t *testing.T) {
	q := NewEventQueue(16)
	scratch := make([]Event, 0, 16)
	event := Event(NoteOnEvent{BaseEvent{0}, 60, 100})

	allocs := testing.AllocsPerRun(100, func() {
		q.Push(event)
		q.Push(event)
		scratch = q.Drain(scratch)
	})
	if allocs != 0 {
		t.Errorf("expected no allocations, got %f", allocs)
	}
}

type countingProcessor struct {
	notes []uint8
}

func (p *countingProcessor) ProcessEvent(event Event) {
	if on, ok := event.(NoteOnEvent); ok {
		p.notes = append(p.notes, on.NoteNumber)
	}
}

func TestProcessEvents(t *testing.T) {
	q := NewEventQueue(16)
	for i := 0; i < 7; i++ {
		q.Push(NoteOnEvent{BaseEvent{0}, uint8(40 + i), 100})
	}

	p := &countingProcessor{}
	q.ProcessEvents(p, make([]Event, 0, 3))

	if len(p.notes) != 7 {
		t.Fatalf("expected 7 processed events, got %d", len(p.notes))
	}
	for i, n := range p.notes {
		if n != uint8(40+i) {
			t.Errorf("event %d: expected note %d, got %d", i, 40+i, n)
		}
	}
}

func TestEventQueueConcurrentPush(t *testing.T) {
	q := NewEventQueue(1000)

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				q.Push(SustainEvent{BaseEvent{0}, i%2 == 0})
			}
		}()
	}
	wg.Wait()

	if q.Size() != 400 {
		t.Errorf("expected 400 events, got %d", q.Size())
	}
	q.Clear()
	if !q.IsEmpty() {
		t.Error("expected queue to be empty after clear")
	}
}
