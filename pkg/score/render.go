package score

import (
	"context"
	"fmt"
	"math"
)

// Target is the engine surface a score drives.
type Target interface {
	SampleRate() float32
	NoteOn(note, velocity uint8) bool
	NoteOff(note uint8) bool
	SustainPedal(down bool) bool
	SetParam(key string, plain float64) error
	SetParamString(key, text string) error
	SetTempo(bpm float64)
	Render(out []float32)
}

// Render plays s through t and returns the audio, followed by tail seconds
// after the last event so releases and echoes can ring out.
//
// Each event is applied at the start of the block containing its time, so
// timing resolution is one block.
func Render(ctx context.Context, t Target, s *Score, blockSize int, tail float64) ([]float32, error) {
	if blockSize <= 0 {
		return nil, fmt.Errorf("invalid block size %d", blockSize)
	}
	if tail < 0 {
		tail = 0
	}
	sr := float64(t.SampleRate())
	t.SetTempo(s.Tempo)

	total := int(math.Ceil((s.Length() + tail) * sr))
	if total == 0 {
		total = blockSize
	}
	out := make([]float32, total)

	next := 0
	for pos := 0; pos < total; pos += blockSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		end := pos + blockSize
		if end > total {
			end = total
		}

		for next < len(s.Events) && sampleAt(s, s.Events[next].Beat, sr) < end {
			if err := apply(t, s.Events[next]); err != nil {
				return nil, fmt.Errorf("beat %g: %w", s.Events[next].Beat, err)
			}
			next++
		}
		t.Render(out[pos:end])
	}
	return out, nil
}

func sampleAt(s *Score, beat, sr float64) int {
	return int(math.Round(s.Seconds(beat) * sr))
}

// apply hands one event to the target. A full event queue is drained with
// an empty render so no event is lost.
func apply(t Target, e Event) error {
	var push func() bool
	switch e.Kind {
	case KindNoteOn:
		push = func() bool { return t.NoteOn(e.Note, e.Velocity) }
	case KindNoteOff:
		push = func() bool { return t.NoteOff(e.Note) }
	case KindPedal:
		push = func() bool { return t.SustainPedal(e.Down) }
	case KindParam:
		if e.Text != "" {
			return t.SetParamString(e.Param, e.Text)
		}
		return t.SetParam(e.Param, e.Value)
	default:
		return fmt.Errorf("unknown event kind %d", e.Kind)
	}

	if !push() {
		t.Render(nil)
		if !push() {
			return fmt.Errorf("%s note %d: event queue full", e.Kind, e.Note)
		}
	}
	return nil
}
