package mix

import (
	"math"
	"testing"
)

func TestDryWet(t *testing.T) {
	tests := []struct {
		name     string
		dry      float32
		wet      float32
		amount   float32
		expected float32
	}{
		{"100% dry", 1.0, 0.5, 0.0, 1.0},
		{"100% wet", 1.0, 0.5, 1.0, 0.5},
		{"50/50 mix", 1.0, 0.5, 0.5, 0.75},
		{"25% wet", 1.0, 0.0, 0.25, 0.75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := DryWet(tt.dry, tt.wet, tt.amount)
			if math.Abs(float64(result-tt.expected)) > 0.001 {
				t.Errorf("DryWet(%f, %f, %f) = %f, want %f",
					tt.dry, tt.wet, tt.amount, result, tt.expected)
			}
		})
	}
}

func TestDryWetBuffer(t *testing.T) {
	dry := []float32{1, 1, 1, 1}
	wet := []float32{0, 0.5}

	DryWetBuffer(dry, wet, 0.5)

	expected := []float32{0.5, 0.75, 1, 1}
	for i := range dry {
		if math.Abs(float64(dry[i]-expected[i])) > 1e-6 {
			t.Errorf("sample %d: expected %f, got %f", i, expected[i], dry[i])
		}
	}
}

func TestTarget(t *testing.T) {
	tests := []struct {
		voices   int
		expected float32
	}{
		{0, 1},
		{1, 1},
		{2, 0.5},
		{4, 0.25},
		{8, 0.125},
	}
	for _, tt := range tests {
		if got := Target(tt.voices); got != tt.expected {
			t.Errorf("Target(%d) = %f, want %f", tt.voices, got, tt.expected)
		}
	}
}

func TestNormalizerCoefficient(t *testing.T) {
	n := NewNormalizer(48000, DefaultSmoothingTime)

	dt := 1.0 / 48000.0
	expected := dt / (0.005 + dt)
	if math.Abs(float64(n.Coefficient())-expected) > 1e-7 {
		t.Errorf("expected coefficient %g, got %g", expected, n.Coefficient())
	}
	if n.Gain() != 1 {
		t.Errorf("expected initial gain 1, got %f", n.Gain())
	}

	n = NewNormalizer(48000, 0)
	if n.Next(4) != 0.25 {
		t.Errorf("expected zero time constant to jump to target, got %f", n.Gain())
	}
}

func TestNormalizerConverges(t *testing.T) {
	for _, voices := range []int{1, 2, 3, 8} {
		n := NewNormalizer(48000, DefaultSmoothingTime)
		target := Target(voices)
		bound := float64(n.Coefficient()) + 1e-7

		prev := n.Gain()
		// ten time constants
		for i := 0; i < 2400; i++ {
			g := n.Next(voices)
			if math.Abs(float64(g-prev)) > bound {
				t.Fatalf("voices=%d sample %d: step %f exceeds one-pole bound", voices, i, g-prev)
			}
			prev = g
		}
		if math.Abs(float64(prev-target)) > 1e-3 {
			t.Errorf("voices=%d: expected gain near %f, got %f", voices, target, prev)
		}
	}
}

func TestNormalizerReset(t *testing.T) {
	n := NewNormalizer(48000, DefaultSmoothingTime)
	for i := 0; i < 1000; i++ {
		n.Next(4)
	}
	n.Reset()
	if n.Gain() != 1 {
		t.Errorf("expected gain 1 after reset, got %f", n.Gain())
	}
}

func TestFinalize(t *testing.T) {
	tests := []struct {
		name     string
		sum      float32
		master   float32
		norm     float32
		expected float32
	}{
		{"scaled", 1, 0.5, 0.5, 0.25},
		{"negative", -0.8, 1, 0.5, -0.4},
		{"nan", float32(math.NaN()), 0.5, 1, 0},
		{"inf", float32(math.Inf(1)), 0.5, 1, 0},
		{"clipped high", 4, 1, 1, 1},
		{"clipped low", -4, 1, 1, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Finalize(tt.sum, tt.master, tt.norm); got != tt.expected {
				t.Errorf("expected %f, got %f", tt.expected, got)
			}
		})
	}
}
