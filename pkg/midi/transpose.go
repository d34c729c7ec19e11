package midi

import (
	gomidi "gitlab.com/gomidi/midi/v2"
)

const (
	// MaxTransposeSemitones bounds the shift in either direction
	MaxTransposeSemitones = 48

	statusNoteOff = 0x80
	statusNoteOn  = 0x90
)

// Transpose shifts the key of note-on and note-off messages by a signed
// number of semitones and clamps the result to [Low, High].
type Transpose struct {
	semitones          int
	low                int
	high               int
	passThroughNonNote bool
}

// NewTranspose creates an identity transpose over the full key range that
// passes non-note messages through
func NewTranspose() *Transpose {
	return &Transpose{
		low:                0,
		high:               127,
		passThroughNonNote: true,
	}
}

// SetParams configures the filter. Semitones are clamped to ±48, the range
// bounds to 0..127 and swapped if given inverted.
func (t *Transpose) SetParams(semitones, low, high int, passThroughNonNote bool) {
	t.semitones = clampInt(semitones, -MaxTransposeSemitones, MaxTransposeSemitones)
	t.low = clampInt(low, 0, 127)
	t.high = clampInt(high, 0, 127)
	if t.low > t.high {
		t.low, t.high = t.high, t.low
	}
	t.passThroughNonNote = passThroughNonNote
}

// Semitones returns the configured shift
func (t *Transpose) Semitones() int {
	return t.semitones
}

// Range returns the clamp range
func (t *Transpose) Range() (low, high int) {
	return t.low, t.high
}

// PassThroughNonNote reports whether non-note messages are forwarded
func (t *Transpose) PassThroughNonNote() bool {
	return t.passThroughNonNote
}

// Transform returns the filtered message. Note messages keep their status
// and velocity bytes; only the key changes. Non-note messages come back
// unchanged, or nil when the filter drops them.
func (t *Transpose) Transform(msg gomidi.Message) gomidi.Message {
	if len(msg) >= 3 {
		cmd := msg[0] & 0xF0
		if cmd == statusNoteOn || cmd == statusNoteOff {
			note := clampInt(int(msg[1])+t.semitones, t.low, t.high)
			return gomidi.Message{msg[0], uint8(note), msg[2]}
		}
	}
	if t.passThroughNonNote {
		return msg
	}
	return nil
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
