package modulation

import (
	"math"
	"testing"
)

const testSampleRate = 48000

// At 120 BPM with one beat per cycle the LFO runs at 2 Hz, so 6000 samples
// is a quarter cycle.
const quarterCycle = 6000

func collect(l *TempoLFO, n int, bpm float32) []float32 {
	values := make([]float32, n)
	for i := range values {
		values[i] = l.NextValue(quarterCycle, bpm)
	}
	return values
}

func TestTempoLFODefaults(t *testing.T) {
	l := NewTempoLFO(testSampleRate)

	if l.Shape() != ShapeSine {
		t.Errorf("expected sine, got %v", l.Shape())
	}
	if l.BeatsPerCycle() != 1 {
		t.Errorf("expected 1 beat per cycle, got %f", l.BeatsPerCycle())
	}
	if l.PhaseOffset() != 0 {
		t.Errorf("expected zero phase offset, got %f", l.PhaseOffset())
	}
}

func TestTempoLFOShapes(t *testing.T) {
	tests := []struct {
		shape    int
		offset   float32
		expected []float32
	}{
		{0, 0, []float32{0, 1, 0, -1}},
		{1, 0, []float32{0, 1, 0, -1}},
		{2, 0, []float32{-1, -0.5, 0, 0.5}},
		// offset by an eighth to stay clear of the zero crossings
		{3, 0.125, []float32{1, 1, -1, -1}},
	}

	for _, tt := range tests {
		l := NewTempoLFO(testSampleRate)
		l.SetParams(1, tt.shape, tt.offset)

		got := collect(l, 4, 120)
		for i := range tt.expected {
			if math.Abs(float64(got[i]-tt.expected[i])) > 1e-3 {
				t.Errorf("shape %v block %d: expected %f, got %f", l.Shape(), i, tt.expected[i], got[i])
			}
		}
	}
}

func TestTempoLFOSamplesBeforeAdvancing(t *testing.T) {
	l := NewTempoLFO(testSampleRate)
	l.SetParams(1, int(ShapeSaw), 0)

	if v := l.NextValue(quarterCycle, 120); v != -1 {
		t.Errorf("expected first block to read phase 0, got %f", v)
	}
	if math.Abs(float64(l.Phase())-math.Pi/2) > 1e-4 {
		t.Errorf("expected phase advanced a quarter cycle, got %f", l.Phase())
	}
}

func TestTempoLFOPhaseOffset(t *testing.T) {
	l := NewTempoLFO(testSampleRate)
	l.SetParams(1, int(ShapeSine), 0.25)

	if v := l.NextValue(quarterCycle, 120); math.Abs(float64(v)-1) > 1e-4 {
		t.Errorf("expected quarter offset to start at the peak, got %f", v)
	}
	if math.Abs(float64(l.Phase())-math.Pi/2) > 1e-4 {
		t.Errorf("expected offset not to accumulate into phase, got %f", l.Phase())
	}
}

func TestTempoLFOInvalidTempo(t *testing.T) {
	for _, bpm := range []float32{0, -10, float32(math.NaN()), float32(math.Inf(1))} {
		l := NewTempoLFO(testSampleRate)
		l.SetParams(1, int(ShapeSaw), 0)
		l.NextValue(quarterCycle, bpm)

		if math.Abs(float64(l.Phase())-math.Pi/2) > 1e-4 {
			t.Errorf("bpm %f: expected fallback to 120 BPM, got phase %f", bpm, l.Phase())
		}
	}
}

func TestTempoLFOFollowsTempo(t *testing.T) {
	l := NewTempoLFO(testSampleRate)
	l.SetParams(1, int(ShapeSaw), 0)

	// 240 BPM doubles the rate: a quarter-cycle block now covers half a cycle
	l.NextValue(quarterCycle, 240)
	if math.Abs(float64(l.Phase())-math.Pi) > 1e-4 {
		t.Errorf("expected half cycle at 240 BPM, got phase %f", l.Phase())
	}
}

func TestTempoLFOSetParamsClamps(t *testing.T) {
	l := NewTempoLFO(testSampleRate)

	l.SetParams(0, 9, 2)
	if l.BeatsPerCycle() != MinBeatsPerCycle {
		t.Errorf("expected beats floored at %f, got %f", MinBeatsPerCycle, l.BeatsPerCycle())
	}
	if l.Shape() != ShapeSine {
		t.Errorf("expected unknown shape to be sine, got %v", l.Shape())
	}
	if l.PhaseOffset() != 1 {
		t.Errorf("expected offset clamped to 1, got %f", l.PhaseOffset())
	}

	// Very short cycles still keep values and phase in range
	for i := 0; i < 100; i++ {
		v := l.NextValue(512, 300)
		if v < -1 || v > 1 {
			t.Fatalf("value out of range: %f", v)
		}
		if l.Phase() < 0 || l.Phase() >= 2*math.Pi {
			t.Fatalf("phase out of range: %f", l.Phase())
		}
	}
}

func TestModulate(t *testing.T) {
	tests := []struct {
		name     string
		depth    float32
		offset   float32
		bipolar  bool
		raw      float32
		expected float32
	}{
		{"identity", 1, 0, true, -0.5, -0.5},
		{"half depth", 0.5, 0, true, 1, 0.5},
		{"offset", 1, 0.25, true, 0.5, 0.75},
		{"unipolar low", 1, 0, false, -1, 0},
		{"unipolar high", 1, 0, false, 1, 1},
		{"clamped", 1, 1, true, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewTempoLFO(testSampleRate)
			l.SetShaping(tt.depth, tt.offset, tt.bipolar)
			if got := l.Modulate(tt.raw); math.Abs(float64(got-tt.expected)) > 1e-6 {
				t.Errorf("expected %f, got %f", tt.expected, got)
			}
		})
	}
}

func TestShapeFromIndex(t *testing.T) {
	tests := map[int]Shape{
		0:  ShapeSine,
		1:  ShapeTriangle,
		2:  ShapeSaw,
		3:  ShapeSquare,
		-1: ShapeSine,
		4:  ShapeSine,
	}
	for index, expected := range tests {
		if got := ShapeFromIndex(index); got != expected {
			t.Errorf("index %d: expected %v, got %v", index, expected, got)
		}
	}
}
