package delay

import (
	"math"
	"testing"
)

func TestLineDelaysByLength(t *testing.T) {
	d := New(3)

	input := []float32{1, 2, 3, 4, 5, 6}
	expected := []float32{0, 0, 0, 1, 2, 3}
	for i, x := range input {
		if got := d.Exchange(x); got != expected[i] {
			t.Errorf("sample %d: expected %f, got %f", i, expected[i], got)
		}
	}
}

func TestLineMinimumLength(t *testing.T) {
	if New(0).Len() != 1 {
		t.Errorf("expected minimum length 1, got %d", New(0).Len())
	}
	if NewSeconds(0.1, 48000).Len() != 4800 {
		t.Errorf("expected 4800 samples, got %d", NewSeconds(0.1, 48000).Len())
	}
}

func TestLineReset(t *testing.T) {
	d := New(2)
	d.Exchange(1)
	d.Exchange(1)
	d.Reset()

	if d.Peek() != 0 {
		t.Errorf("expected cleared line, got %f", d.Peek())
	}
}

func TestEchoDefaults(t *testing.T) {
	e := NewEcho(48000)

	if e.DelaySamples() != 4800 {
		t.Errorf("expected 100ms delay at 48kHz to be 4800 samples, got %d", e.DelaySamples())
	}
	if e.Feedback() != 0.3 || e.Wet() != 0.3 {
		t.Errorf("expected feedback and wet 0.3, got %f and %f", e.Feedback(), e.Wet())
	}
}

func TestEchoClamps(t *testing.T) {
	e := NewEcho(48000)

	e.SetFeedback(2)
	if e.Feedback() != MaxFeedback {
		t.Errorf("expected feedback clamped to %f, got %f", MaxFeedback, e.Feedback())
	}
	e.SetFeedback(-1)
	if e.Feedback() != 0 {
		t.Errorf("expected feedback clamped to 0, got %f", e.Feedback())
	}
	e.SetWet(1.5)
	if e.Wet() != 1 {
		t.Errorf("expected wet clamped to 1, got %f", e.Wet())
	}
	e.SetWet(float32(math.NaN()))
	if e.Wet() != 0 {
		t.Errorf("expected NaN wet to clamp to 0, got %f", e.Wet())
	}
}

func TestEchoImpulse(t *testing.T) {
	e := NewEcho(100) // 10 sample line
	e.SetFeedback(0.5)
	e.SetWet(1)

	buffer := make([]float32, 31)
	buffer[0] = 1
	e.Process(buffer)

	tests := []struct {
		index    int
		expected float32
	}{
		{0, 0},
		{9, 0},
		{10, 1},
		{20, 0.5},
		{30, 0.25},
	}
	for _, tt := range tests {
		if math.Abs(float64(buffer[tt.index]-tt.expected)) > 1e-6 {
			t.Errorf("sample %d: expected %f, got %f", tt.index, tt.expected, buffer[tt.index])
		}
	}
}

func TestEchoDryPath(t *testing.T) {
	e := NewEcho(100)
	e.SetWet(0)

	buffer := []float32{0.5, -0.5, 0.25}
	e.Process(buffer)

	expected := []float32{0.5, -0.5, 0.25}
	for i := range buffer {
		if buffer[i] != expected[i] {
			t.Errorf("sample %d: expected dry signal %f, got %f", i, expected[i], buffer[i])
		}
	}
}
