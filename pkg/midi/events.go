package midi

import (
	"fmt"

	"github.com/chewxy/math32"
	gomidi "gitlab.com/gomidi/midi/v2"
)

type EventType uint8

const (
	EventTypeNoteOff EventType = iota
	EventTypeNoteOn
	EventTypeControlChange
	EventTypeSustain
)

// Event is a control event delivered to the voice engine between blocks.
// Events carry no sample offset: they take effect at the next block boundary.
type Event interface {
	Type() EventType
	Channel() uint8
	String() string
}

type BaseEvent struct {
	EventChannel uint8
}

func (e BaseEvent) Channel() uint8 {
	return e.EventChannel
}

type NoteOnEvent struct {
	BaseEvent
	NoteNumber uint8
	Velocity   uint8
}

func (e NoteOnEvent) Type() EventType {
	return EventTypeNoteOn
}

func (e NoteOnEvent) String() string {
	return fmt.Sprintf("NoteOn{ch:%d, note:%d, vel:%d}",
		e.EventChannel, e.NoteNumber, e.Velocity)
}

type NoteOffEvent struct {
	BaseEvent
	NoteNumber uint8
	Velocity   uint8
}

func (e NoteOffEvent) Type() EventType {
	return EventTypeNoteOff
}

func (e NoteOffEvent) String() string {
	return fmt.Sprintf("NoteOff{ch:%d, note:%d, vel:%d}",
		e.EventChannel, e.NoteNumber, e.Velocity)
}

type ControlChangeEvent struct {
	BaseEvent
	Controller uint8
	Value      uint8
}

func (e ControlChangeEvent) Type() EventType {
	return EventTypeControlChange
}

func (e ControlChangeEvent) String() string {
	return fmt.Sprintf("CC{ch:%d, ctrl:%d, val:%d}",
		e.EventChannel, e.Controller, e.Value)
}

// SustainEvent is a decoded sustain pedal state change (CC64, or a direct
// pedal call from the control layer)
type SustainEvent struct {
	BaseEvent
	Down bool
}

func (e SustainEvent) Type() EventType {
	return EventTypeSustain
}

func (e SustainEvent) String() string {
	return fmt.Sprintf("Sustain{ch:%d, down:%t}", e.EventChannel, e.Down)
}

const (
	CCModWheel       uint8 = 1
	CCPortamentoTime uint8 = 5
	CCVolume         uint8 = 7
	CCSustain        uint8 = 64
	CCAllSoundOff    uint8 = 120
	CCResetAll       uint8 = 121
	CCAllNotesOff    uint8 = 123
)

// Decode converts a raw MIDI message into an engine event.
//
// Note-on with velocity 0 decodes as note-off and CC64 decodes as a
// SustainEvent (down at values >= 64). Messages the engine has no use for
// report false.
func Decode(msg gomidi.Message) (Event, bool) {
	var ch, key, vel, ctrl, val uint8

	switch {
	case msg.GetNoteStart(&ch, &key, &vel):
		return NoteOnEvent{BaseEvent{ch}, key, vel}, true
	case msg.GetNoteEnd(&ch, &key):
		return NoteOffEvent{BaseEvent: BaseEvent{ch}, NoteNumber: key}, true
	case msg.GetControlChange(&ch, &ctrl, &val):
		if ctrl == CCSustain {
			return SustainEvent{BaseEvent{ch}, val >= 64}, true
		}
		return ControlChangeEvent{BaseEvent{ch}, ctrl, val}, true
	}
	return nil, false
}

// Encode converts an engine event back to a raw MIDI message
func Encode(e Event) gomidi.Message {
	switch ev := e.(type) {
	case NoteOnEvent:
		return gomidi.NoteOn(ev.EventChannel, ev.NoteNumber, ev.Velocity)
	case NoteOffEvent:
		return gomidi.NoteOffVelocity(ev.EventChannel, ev.NoteNumber, ev.Velocity)
	case ControlChangeEvent:
		return gomidi.ControlChange(ev.EventChannel, ev.Controller, ev.Value)
	case SustainEvent:
		var val uint8
		if ev.Down {
			val = 127
		}
		return gomidi.ControlChange(ev.EventChannel, CCSustain, val)
	}
	return nil
}

// NoteToFrequency returns the equal-tempered frequency of a MIDI note,
// referenced to note 69 = tuningA4 Hz (440 when zero)
func NoteToFrequency(note uint8, tuningA4 float32) float32 {
	if tuningA4 == 0 {
		tuningA4 = 440.0
	}
	return tuningA4 * math32.Pow(2, (float32(note)-69.0)/12.0)
}

// FrequencyToNote returns the nearest MIDI note for a frequency, clamped to
// 0..127
func FrequencyToNote(freq, tuningA4 float32) uint8 {
	if tuningA4 == 0 {
		tuningA4 = 440.0
	}
	if freq <= 0 {
		return 0
	}
	note := 69.0 + 12.0*math32.Log2(freq/tuningA4)
	if note < 0 {
		return 0
	}
	if note > 127 {
		return 127
	}
	return uint8(note + 0.5)
}

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

func NoteNumberToName(note uint8) string {
	octave := int(note/12) - 1
	return fmt.Sprintf("%s%d", noteNames[note%12], octave)
}
