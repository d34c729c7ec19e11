package oscillator

import "github.com/chewxy/math32"

// TwoPi is one full oscillator period in radians
const TwoPi = 2 * math32.Pi

// Waveform selects the shape produced by Sample
type Waveform int

const (
	// Sine produces sin(phase)
	Sine Waveform = iota
	// Square produces +1 while sin(phase) is positive, -1 otherwise
	Square
	// Sawtooth ramps from -1 to +1 over one period
	Sawtooth
	// Triangle rises from -1 to +1 and back over one period
	Triangle
)

// WaveformFromIndex maps a host selector (0=sine, 1=square, 2=sawtooth,
// 3=triangle) to a Waveform. Unknown selectors fall back to Sine.
func WaveformFromIndex(index int) Waveform {
	switch index {
	case 1:
		return Square
	case 2:
		return Sawtooth
	case 3:
		return Triangle
	default:
		return Sine
	}
}

// WaveformFromName maps a lowercase name to a Waveform. Unknown names fall
// back to Sine and report false.
func WaveformFromName(name string) (Waveform, bool) {
	switch name {
	case "sine":
		return Sine, true
	case "square":
		return Square, true
	case "sawtooth", "saw":
		return Sawtooth, true
	case "triangle", "tri":
		return Triangle, true
	default:
		return Sine, false
	}
}

// String returns the lowercase waveform name
func (w Waveform) String() string {
	switch w {
	case Square:
		return "square"
	case Sawtooth:
		return "sawtooth"
	case Triangle:
		return "triangle"
	default:
		return "sine"
	}
}

// Sample returns the value of waveform w at phase (radians, [0, 2π)).
//
// The sawtooth maps the raw phase directly, (phase/π) - 1, without first
// normalizing to 0..1. Downstream consumers depend on these exact shapes.
func Sample(w Waveform, phase float32) float32 {
	switch w {
	case Square:
		if math32.Sin(phase) > 0 {
			return 1
		}
		return -1
	case Sawtooth:
		return phase/math32.Pi - 1
	case Triangle:
		t := math32.Mod(phase/TwoPi, 1)
		if t < 0.5 {
			return 4*t - 1
		}
		return 3 - 4*t
	default:
		return math32.Sin(phase)
	}
}

// PhaseIncrement returns the per-sample phase advance in radians
func PhaseIncrement(freq, sampleRate float32) float32 {
	return TwoPi * freq / sampleRate
}

// Advance adds inc to phase and wraps the result back into [0, 2π)
func Advance(phase, inc float32) float32 {
	phase += inc
	if phase >= TwoPi {
		phase -= TwoPi
		// Increments larger than one period (freq above the sample rate)
		if phase >= TwoPi {
			phase = math32.Mod(phase, TwoPi)
		}
	}
	if phase < 0 {
		phase = math32.Mod(phase, TwoPi) + TwoPi
		if phase >= TwoPi {
			phase = 0
		}
	}
	return phase
}
